package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"yogaseq/internal/logging"
)

// ErrStoredLocally wraps a primary append failure after the completion was
// kept in the local cache. Callers may treat it as a warning.
var ErrStoredLocally = errors.New("completion stored locally only")

// Recorder appends to a primary log and mirrors every entry to a cache.
type Recorder struct {
	primary Log
	cache   *Cache
	logger  *slog.Logger
}

// NewRecorder builds a recorder. primary may be nil for cache-only use.
func NewRecorder(primary Log, cache *Cache, logger *slog.Logger) *Recorder {
	return &Recorder{
		primary: primary,
		cache:   cache,
		logger:  logging.NewComponentLogger(logger, "history"),
	}
}

// Record appends entry. On primary failure the completion is still cached
// and the returned error wraps ErrStoredLocally. Only a failure of both
// writes loses the entry.
func (r *Recorder) Record(ctx context.Context, entry Completion) (Completion, error) {
	if entry.ID == "" {
		fresh := New(entry.Title, entry.SequenceID, entry.CompletedAt)
		entry.ID = fresh.ID
		entry.CompletedAt = fresh.CompletedAt
	}

	var primaryErr error
	entry.Source = SourceLocal
	if r.primary != nil {
		if primaryErr = r.primary.Append(ctx, entry); primaryErr == nil {
			entry.Source = SourceServer
		}
	} else {
		primaryErr = errors.New("no primary history log configured")
	}

	var cacheErr error
	if r.cache != nil {
		cacheErr = r.cache.Append(ctx, entry)
		if cacheErr != nil {
			logging.WarnWithContext(r.logger, "history cache write failed", "history_cache_failed",
				logging.Error(cacheErr),
				logging.String(logging.FieldErrorHint, "check permissions on the data directory"),
			)
		}
	}

	switch {
	case primaryErr == nil:
		return entry, nil
	case r.cache != nil && cacheErr == nil:
		if r.primary != nil {
			logging.WarnWithContext(r.logger, "history append failed; kept locally", "history_append_failed",
				logging.Error(primaryErr),
				logging.SequenceID(entry.SequenceID),
				logging.String(logging.FieldImpact, "completion visible only on this machine"),
			)
		}
		return entry, fmt.Errorf("%w: %w", ErrStoredLocally, primaryErr)
	default:
		return entry, fmt.Errorf("record completion: %w", errors.Join(primaryErr, cacheErr))
	}
}

// List merges primary and cached entries, newest first. A primary read
// failure degrades to the cache alone.
func (r *Recorder) List(ctx context.Context) ([]Completion, error) {
	var merged []Completion
	seen := make(map[string]int)
	add := func(entries []Completion, source Source) {
		for _, e := range entries {
			if e.Source == "" {
				e.Source = source
			}
			if e.ID != "" {
				if idx, dup := seen[e.ID]; dup {
					if e.Source == SourceServer {
						merged[idx].Source = SourceServer
					}
					continue
				}
				seen[e.ID] = len(merged)
			}
			merged = append(merged, e)
		}
	}

	if r.primary != nil {
		entries, err := r.primary.List(ctx)
		if err != nil {
			logging.WarnWithContext(r.logger, "history list failed; using local cache", "history_list_failed",
				logging.Error(err),
			)
		} else {
			add(entries, SourceServer)
		}
	}
	if r.cache != nil {
		entries, err := r.cache.List(ctx)
		if err != nil {
			if r.primary == nil {
				return nil, err
			}
			logging.WarnWithContext(r.logger, "history cache unreadable", "history_cache_failed", logging.Error(err))
		}
		add(entries, SourceLocal)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CompletedAt.After(merged[j].CompletedAt)
	})
	if merged == nil {
		merged = []Completion{}
	}
	return merged, nil
}

// RecordCompletion records a finished session. It lets a Recorder serve as
// the player's completion sink.
func (r *Recorder) RecordCompletion(ctx context.Context, title, sequenceID string, at time.Time) error {
	_, err := r.Record(ctx, New(title, sequenceID, at))
	return err
}
