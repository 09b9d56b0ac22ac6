package library

import (
	"context"
	"fmt"
	"strings"

	"yogaseq/internal/logging"
	"yogaseq/internal/overrides"
	"yogaseq/internal/plate"
)

// ErrNoOverrideStore is returned when saves are attempted without a Source.
var ErrNoOverrideStore = fmt.Errorf("no override store configured")

// SaveOverride writes one override and, once the store confirms, updates
// the in-memory map and republishes the merged catalogue. A failed save
// leaves everything as it was.
func (l *Library) SaveOverride(ctx context.Context, kind overrides.Kind, key, value string) (overrides.Override, error) {
	if l.overrides == nil {
		return overrides.Override{}, ErrNoOverrideStore
	}
	id := plate.Normalize(key)
	if id.Empty() {
		return overrides.Override{}, fmt.Errorf("save %s override: empty key", kind)
	}
	if !kind.Accepts(value) {
		return overrides.Override{}, fmt.Errorf("save %s override: blank value", kind)
	}
	if kind == overrides.KindCategory {
		value = strings.TrimSpace(value)
	}

	saved, err := l.overrides.Save(ctx, kind, string(id), value)
	if err != nil {
		logging.WarnWithContext(l.logger, "override save failed", "override_save_failed",
			logging.String("kind", string(kind)),
			logging.String("asana", string(id)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "change not persisted"),
		)
		return overrides.Override{}, err
	}

	l.mu.Lock()
	l.maps[kind] = l.maps[kind].With(string(id), saved)
	l.publishLocked()
	l.mu.Unlock()

	l.logger.Info("override saved",
		logging.String(logging.FieldEventType, "override_saved"),
		logging.String("kind", string(kind)),
		logging.String("asana", string(id)),
	)
	return saved, nil
}

// ClearOverride deletes one override so the record falls back to its base
// value.
func (l *Library) ClearOverride(ctx context.Context, kind overrides.Kind, key string) error {
	if l.overrides == nil {
		return ErrNoOverrideStore
	}
	id := plate.Normalize(key)
	if id.Empty() {
		return fmt.Errorf("clear %s override: empty key", kind)
	}
	if err := l.overrides.Delete(ctx, kind, string(id)); err != nil {
		logging.WarnWithContext(l.logger, "override delete failed", "override_delete_failed",
			logging.String("kind", string(kind)),
			logging.String("asana", string(id)),
			logging.Error(err),
		)
		return err
	}

	l.mu.Lock()
	l.maps[kind] = l.maps[kind].Without(string(id))
	l.publishLocked()
	l.mu.Unlock()
	return nil
}

// RefreshOverrides refetches both override maps and remerges. A failed
// fetch keeps the previous map for that kind.
func (l *Library) RefreshOverrides(ctx context.Context) {
	if l.overrides == nil {
		return
	}
	fresh := make(map[overrides.Kind]overrides.Map, len(overrides.Kinds))
	for _, kind := range overrides.Kinds {
		m, err := l.overrides.Fetch(ctx, kind)
		if err != nil {
			logging.WarnWithContext(l.logger, "override refresh failed; keeping previous", "overrides_refresh_failed",
				logging.String("kind", string(kind)),
				logging.Error(err),
			)
			continue
		}
		fresh[kind] = m
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for kind, m := range fresh {
		if m == nil {
			m = overrides.Map{}
		}
		l.maps[kind] = m
	}
	l.publishLocked()
}
