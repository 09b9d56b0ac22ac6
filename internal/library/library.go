package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"yogaseq/internal/assets"
	"yogaseq/internal/catalog"
	"yogaseq/internal/config"
	"yogaseq/internal/logging"
	"yogaseq/internal/manifest"
	"yogaseq/internal/overrides"
	"yogaseq/internal/plate"
	"yogaseq/internal/sequence"
)

// Sources names where each input lives: a local path or an http(s) URL.
type Sources struct {
	Index       string
	Manifest    string
	PlateGroups string
	Sequences   string
	ImagesBase  string
}

// SourcesFromConfig reads asset locations from cfg.
func SourcesFromConfig(cfg *config.Config) Sources {
	return Sources{
		Index:       cfg.Assets.Index,
		Manifest:    cfg.Assets.Manifest,
		PlateGroups: cfg.Assets.PlateGroups,
		Sequences:   cfg.Assets.Sequences,
		ImagesBase:  cfg.Assets.ImagesBase,
	}
}

// Fetcher reads one source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Report summarizes a load.
type Report struct {
	Catalog       catalog.Stats `json:"catalog"`
	ManifestShape string        `json:"manifest_shape,omitempty"`
	ManifestSkips int           `json:"manifest_skipped"`
	Sequences     int           `json:"sequences"`
	Descriptions  int           `json:"description_overrides"`
	Categories    int           `json:"category_overrides"`
	Warnings      []string      `json:"warnings,omitempty"`
}

// Library owns the published catalogue and sequences.
type Library struct {
	sources   Sources
	fetcher   Fetcher
	overrides overrides.Source
	logger    *slog.Logger

	holder    *catalog.Holder
	sequences atomic.Pointer[sequence.Set]
	last      atomic.Pointer[Report]

	// mu serializes merges so a save never publishes over a newer load.
	mu   sync.Mutex
	base *catalog.Catalog
	maps map[overrides.Kind]overrides.Map
}

// New builds an empty library. Call Load to populate it.
func New(sources Sources, fetcher Fetcher, source overrides.Source, logger *slog.Logger) *Library {
	if fetcher == nil {
		fetcher = assets.NewFetcher(nil)
	}
	l := &Library{
		sources:   sources,
		fetcher:   fetcher,
		overrides: source,
		logger:    logging.NewComponentLogger(logger, "library"),
		holder:    catalog.NewHolder(nil),
		base:      catalog.Empty(),
		maps:      emptyMaps(),
	}
	empty, _ := sequence.NewSet(nil)
	l.sequences.Store(empty)
	return l
}

func emptyMaps() map[overrides.Kind]overrides.Map {
	out := make(map[overrides.Kind]overrides.Map, len(overrides.Kinds))
	for _, kind := range overrides.Kinds {
		out[kind] = overrides.Map{}
	}
	return out
}

// Holder exposes the published catalogue pointer.
func (l *Library) Holder() *catalog.Holder { return l.holder }

// Catalog returns the current merged catalogue.
func (l *Library) Catalog() *catalog.Catalog { return l.holder.Load() }

// Sequences returns the current sequence set.
func (l *Library) Sequences() *sequence.Set { return l.sequences.Load() }

// LastReport returns the most recent load report, or the zero Report
// before the first load.
func (l *Library) LastReport() Report {
	if r := l.last.Load(); r != nil {
		return *r
	}
	return Report{}
}

// Overrides returns a copy of the confirmed override map for kind.
func (l *Library) Overrides(kind overrides.Kind) overrides.Map {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maps[kind].Clone()
}

type loaded struct {
	index     []byte
	manifest  manifest.Result
	groups    map[plate.ID][]plate.ID
	maps      map[overrides.Kind]overrides.Map
	sequences []sequence.Sequence

	mu       sync.Mutex
	warnings []string
}

func (d *loaded) warn(msg string) {
	d.mu.Lock()
	d.warnings = append(d.warnings, msg)
	d.mu.Unlock()
}

// Load fetches every source concurrently, builds a catalogue, merges the
// overrides and publishes the result. Source failures only add warnings;
// the returned error is reserved for context cancellation.
func (l *Library) Load(ctx context.Context) (Report, error) {
	data := &loaded{maps: emptyMaps()}
	var mapsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := l.fetch(gctx, "index", l.sources.Index, true)
		if err != nil {
			data.warn(err.Error())
			return nil
		}
		data.index = body
		return nil
	})
	g.Go(func() error {
		body, err := l.fetch(gctx, "manifest", l.sources.Manifest, true)
		if err != nil {
			data.warn(err.Error())
			return nil
		}
		res, err := manifest.ParseResult(body, manifest.Options{ImagesBase: l.sources.ImagesBase})
		if err != nil {
			l.warnLoad("manifest", l.sources.Manifest, err)
			data.warn(err.Error())
			return nil
		}
		data.manifest = res
		return nil
	})
	g.Go(func() error {
		body, err := l.fetch(gctx, "plate_groups", l.sources.PlateGroups, false)
		if err != nil || body == nil {
			if err != nil {
				data.warn(err.Error())
			}
			return nil
		}
		groups, err := catalog.ParsePlateGroups(body)
		if err != nil {
			l.warnLoad("plate_groups", l.sources.PlateGroups, err)
			data.warn(err.Error())
			return nil
		}
		data.groups = groups
		return nil
	})
	for _, kind := range overrides.Kinds {
		g.Go(func() error {
			m := l.fetchOverrides(gctx, kind)
			mapsMu.Lock()
			data.maps[kind] = m
			mapsMu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		seqs, problems := l.loadSequences(gctx)
		data.sequences = seqs
		for _, p := range problems {
			data.warn(p.Error())
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	base, stats, err := catalog.Build(catalog.Sources{
		Index:       data.index,
		Entries:     data.manifest.Entries,
		PlateGroups: data.groups,
	})
	if err != nil {
		l.warnLoad("index", l.sources.Index, err)
		data.warn(err.Error())
		base, stats, _ = catalog.Build(catalog.Sources{Entries: data.manifest.Entries, PlateGroups: data.groups})
	}

	set, duplicates := sequence.NewSet(data.sequences)
	for _, id := range duplicates {
		data.warn(fmt.Sprintf("duplicate sequence id %q ignored", id))
	}

	l.mu.Lock()
	l.base = base
	l.maps = data.maps
	l.publishLocked()
	report := Report{
		Catalog:       stats,
		ManifestShape: data.manifest.Shape,
		ManifestSkips: data.manifest.Skipped,
		Sequences:     set.Len(),
		Descriptions:  len(l.maps[overrides.KindDescription]),
		Categories:    len(l.maps[overrides.KindCategory]),
		Warnings:      data.warnings,
	}
	l.mu.Unlock()
	l.sequences.Store(set)
	l.last.Store(&report)

	l.logger.Info("library loaded",
		logging.String(logging.FieldEventType, "library_loaded"),
		logging.Int("records", stats.Records),
		logging.Int("dropped_rows", stats.DroppedRows),
		logging.Int("plates", stats.Plates),
		logging.Int("ambiguous_plates", stats.AmbiguousPlate),
		logging.Int("sequences", set.Len()),
		logging.Int("warnings", len(data.warnings)),
	)
	return report, nil
}

// fetch reads one source. A missing optional source returns nil data and
// no error.
func (l *Library) fetch(ctx context.Context, name, source string, required bool) ([]byte, error) {
	if strings.TrimSpace(source) == "" && !required {
		return nil, nil
	}
	body, err := l.fetcher.Fetch(ctx, source)
	if err != nil {
		if !required && errors.Is(err, assets.ErrNotFound) {
			l.logger.Debug("optional source absent", logging.String("source", name))
			return nil, nil
		}
		l.warnLoad(name, source, err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return body, nil
}

func (l *Library) warnLoad(name, source string, err error) {
	logging.WarnWithContext(l.logger, "source unavailable; continuing with empty data", name+"_load_failed",
		logging.Source(source),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check assets."+name+" in config"),
		logging.String(logging.FieldImpact, name+" data is empty until the next reload"),
	)
}

func (l *Library) fetchOverrides(ctx context.Context, kind overrides.Kind) overrides.Map {
	if l.overrides == nil {
		return overrides.Map{}
	}
	m, err := l.overrides.Fetch(ctx, kind)
	if err != nil {
		logging.WarnWithContext(l.logger, "override fetch failed; using none", "overrides_load_failed",
			logging.String("kind", string(kind)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "base index values shown"),
		)
		return overrides.Map{}
	}
	if m == nil {
		m = overrides.Map{}
	}
	return m
}

func (l *Library) loadSequences(ctx context.Context) ([]sequence.Sequence, []error) {
	source := strings.TrimSpace(l.sources.Sequences)
	if source == "" {
		return nil, nil
	}
	if config.IsRemote(source) {
		body, err := l.fetcher.Fetch(ctx, source)
		if err != nil {
			if errors.Is(err, assets.ErrNotFound) {
				return nil, nil
			}
			l.warnLoad("sequences", source, err)
			return nil, []error{err}
		}
		seqs, err := sequence.ParseNamed(source, body)
		if err != nil {
			l.warnLoad("sequences", source, err)
			return nil, []error{err}
		}
		return seqs, nil
	}
	seqs, problems, err := sequence.ReadDir(source)
	if err != nil {
		l.logger.Debug("no sequences loaded", logging.Error(err))
		return nil, nil
	}
	for _, p := range problems {
		l.warnLoad("sequences", source, p)
	}
	return seqs, problems
}

// publishLocked merges the confirmed overrides into a copy of the base
// records and swaps the published catalogue. Callers hold mu.
func (l *Library) publishLocked() {
	records := l.base.Records()
	records = overrides.ApplyDescriptions(records, l.maps[overrides.KindDescription])
	records = overrides.ApplyCategories(records, l.maps[overrides.KindCategory])
	l.holder.Store(l.base.WithRecords(records))
}
