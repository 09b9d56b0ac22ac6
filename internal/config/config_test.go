package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"yogaseq/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("YOGASEQ_API_BIND", "")
	t.Setenv("YOGASEQ_DATA_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "yogaseq")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Assets.Index != filepath.Join(wantData, "assets", "asana_index.csv") {
		t.Fatalf("unexpected index source: %q", cfg.Assets.Index)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7490" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Playback.EndCueMinSeconds != 60 {
		t.Fatalf("unexpected end cue threshold: %d", cfg.Playback.EndCueMinSeconds)
	}
	if cfg.TickInterval() != time.Second {
		t.Fatalf("unexpected tick interval: %v", cfg.TickInterval())
	}
	if cfg.HistoryCachePath() != filepath.Join(wantData, "history.json") {
		t.Fatalf("unexpected history cache: %q", cfg.HistoryCachePath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "yogaseq.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Assets struct {
			Index      string `toml:"index"`
			Manifest   string `toml:"manifest"`
			ImagesBase string `toml:"images_base"`
		} `toml:"assets"`
		Overrides struct {
			RemoteURL string `toml:"remote_url"`
		} `toml:"overrides"`
		Playback struct {
			EndCueMinSeconds int    `toml:"end_cue_min_seconds"`
			AudioCommand     string `toml:"audio_command"`
		} `toml:"playback"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Assets.Index = "https://example.com/asana_index.csv"
	custom.Assets.Manifest = filepath.Join(tempDir, "manifest.json")
	custom.Assets.ImagesBase = "/static/img/"
	custom.Overrides.RemoteURL = "https://example.com/api/overrides/"
	custom.Playback.EndCueMinSeconds = 45
	custom.Playback.AudioCommand = "  mpv --no-video  "
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Assets.Index != "https://example.com/asana_index.csv" {
		t.Fatalf("remote source should pass through, got %q", cfg.Assets.Index)
	}
	if cfg.Assets.ImagesBase != "/static/img" {
		t.Fatalf("unexpected images base %q", cfg.Assets.ImagesBase)
	}
	if cfg.Overrides.RemoteURL != "https://example.com/api/overrides" {
		t.Fatalf("unexpected overrides url %q", cfg.Overrides.RemoteURL)
	}
	if cfg.Playback.EndCueMinSeconds != 45 {
		t.Fatalf("expected end cue threshold 45, got %d", cfg.Playback.EndCueMinSeconds)
	}
	if got := cfg.AudioCommandArgs(); len(got) != 2 || got[0] != "mpv" {
		t.Fatalf("unexpected audio command args %v", got)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
	if cfg.DatabasePath() != filepath.Join(tempDir, "data", "yogaseq.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
}

func TestEnvVarOverridesBindAndDataDir(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("YOGASEQ_API_BIND", "0.0.0.0:9000")
	t.Setenv("YOGASEQ_DATA_DIR", tempDir)

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIBind != "0.0.0.0:9000" {
		t.Errorf("expected bind from env, got %q", cfg.Paths.APIBind)
	}
	if cfg.Paths.DataDir != tempDir {
		t.Errorf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
	if cfg.APIBaseURL() != "http://0.0.0.0:9000" {
		t.Errorf("unexpected api base url %q", cfg.APIBaseURL())
	}
}

func TestAPITokenFromFileAndEnv(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("YOGASEQ_API_BIND", "")
	t.Setenv("YOGASEQ_API_TOKEN", "")
	t.Setenv("YOGASEQ_DATA_DIR", tempDir)

	path := filepath.Join(tempDir, "config.toml")
	if err := os.WriteFile(path, []byte("[paths]\napi_token = \" file-token \"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIToken != "file-token" {
		t.Errorf("expected trimmed file token, got %q", cfg.Paths.APIToken)
	}
	if got := cfg.PIDPath(); got != filepath.Join(tempDir, "yogaseqd.pid") {
		t.Errorf("unexpected pid path %q", got)
	}

	t.Setenv("YOGASEQ_API_TOKEN", "env-token")
	cfg, _, _, err = config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIToken != "env-token" {
		t.Errorf("expected env token, got %q", cfg.Paths.APIToken)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "end_cue_min_seconds") {
		t.Fatalf("sample config missing playback section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "yogaseq") {
		t.Fatalf("expected data dir to contain yogaseq, got %q", cfg.Paths.DataDir)
	}
	if cfg.Playback.TickIntervalMS != 1000 {
		t.Fatalf("unexpected tick interval %d", cfg.Playback.TickIntervalMS)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad bind", func(c *config.Config) { c.Paths.APIBind = "localhost" }},
		{"missing index", func(c *config.Config) { c.Assets.Index = "" }},
		{"missing manifest", func(c *config.Config) { c.Assets.Manifest = "" }},
		{"non-http overrides", func(c *config.Config) { c.Overrides.RemoteURL = "ftp://example.com" }},
		{"non-http history", func(c *config.Config) { c.History.RemoteURL = "/tmp/history" }},
		{"zero tick", func(c *config.Config) { c.Playback.TickIntervalMS = 0 }},
		{"negative threshold", func(c *config.Config) { c.Playback.EndCueMinSeconds = -1 }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestIsRemote(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a.csv": true,
		"HTTP://example.com":        true,
		"/srv/a.csv":                false,
		"ftp://example.com":         false,
		"":                          false,
	}
	for source, want := range tests {
		if got := config.IsRemote(source); got != want {
			t.Fatalf("IsRemote(%q) = %v, want %v", source, got, want)
		}
	}
}
