package testsupport

import (
	"path/filepath"
	"testing"

	"yogaseq/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Asset paths point inside the temp tree but nothing is written unless
// WithFixtures is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	assets := filepath.Join(base, "assets")
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Assets.Index = filepath.Join(assets, "asana_index.csv")
	cfgVal.Assets.Manifest = filepath.Join(assets, "images", "manifest.json")
	cfgVal.Assets.PlateGroups = filepath.Join(assets, "plate_groups.json")
	cfgVal.Assets.Sequences = filepath.Join(assets, "sequences")
	cfgVal.Assets.ImagesDir = filepath.Join(assets, "images")
	cfgVal.Assets.AudioDir = filepath.Join(assets, "audio")
	cfgVal.History.CachePath = filepath.Join(base, "data", "history.json")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithFixtures writes the sample index, manifest, plate groups and
// sequences to the configured asset paths.
func WithFixtures() ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.Assets.Index, SampleIndexCSV)
		WriteFile(b.t, b.cfg.Assets.Manifest, SampleManifestJSON)
		WriteFile(b.t, b.cfg.Assets.PlateGroups, SamplePlateGroupsJSON)
		WriteFile(b.t, filepath.Join(b.cfg.Assets.Sequences, "short.json"), SampleSequenceJSON)
	}
}

// WithRemoteOverrides points the override store at url.
func WithRemoteOverrides(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Overrides.RemoteURL = url
	}
}

// WithTickInterval sets the playback tick interval in milliseconds.
func WithTickInterval(ms int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Playback.TickIntervalMS = ms
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
