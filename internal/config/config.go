package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"yogaseq/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
	// APIToken, when set, is required as a bearer token on API requests.
	APIToken string `toml:"api_token"`
}

// Assets locates the catalogue inputs. Each source is a local path or an
// http(s) URL.
type Assets struct {
	Index       string `toml:"index"`
	Manifest    string `toml:"manifest"`
	PlateGroups string `toml:"plate_groups"`
	// Sequences is a directory of sequence files or a single file.
	Sequences  string `toml:"sequences"`
	ImagesBase string `toml:"images_base"`
	// ImagesDir is served under ImagesBase when set.
	ImagesDir    string `toml:"images_dir"`
	AudioDir     string `toml:"audio_dir"`
	AudioBaseURL string `toml:"audio_base_url"`
}

// Overrides selects the override store. An empty RemoteURL keeps overrides
// in the local database.
type Overrides struct {
	RemoteURL string `toml:"remote_url"`
}

// History selects where completions are recorded. Local cache writes happen
// regardless so a failed remote append is never lost.
type History struct {
	RemoteURL string `toml:"remote_url"`
	CachePath string `toml:"cache_path"`
}

// Playback tunes the session timer and audio cues.
type Playback struct {
	EndCueMinSeconds int    `toml:"end_cue_min_seconds"`
	TickIntervalMS   int    `toml:"tick_interval_ms"`
	EndCue           string `toml:"end_cue"`
	AudioCommand     string `toml:"audio_command"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for yogaseq.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories, API bind address
//   - Assets: index, manifest, plate groups, sequences and media locations
//   - Overrides: local or remote override store
//   - History: completion log destination and local cache
//   - Playback: timer cadence and cue settings
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Assets    Assets    `toml:"assets"`
	Overrides Overrides `toml:"overrides"`
	History   History   `toml:"history"`
	Playback  Playback  `toml:"playback"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("yogaseq.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories plus the parent
// of the history cache.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.HistoryCachePath())} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath is the sqlite file holding overrides and completions.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "yogaseq.db")
}

// LockPath is the daemon's single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "yogaseqd.lock")
}

// PIDPath records the running daemon's process id.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Paths.DataDir, "yogaseqd.pid")
}

// DaemonLogPath is the daemon's log file.
func (c *Config) DaemonLogPath() string {
	return filepath.Join(c.Paths.LogDir, "yogaseqd.log")
}

// HistoryCachePath is the local completion cache.
func (c *Config) HistoryCachePath() string {
	if strings.TrimSpace(c.History.CachePath) != "" {
		return c.History.CachePath
	}
	return filepath.Join(c.Paths.DataDir, "history.json")
}

// APIBaseURL is the URL clients use to reach the daemon.
func (c *Config) APIBaseURL() string {
	return "http://" + c.Paths.APIBind
}

// TickInterval is the playback timer cadence.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Playback.TickIntervalMS) * time.Millisecond
}

// AudioCommandArgs splits the configured audio command into argv form, or
// returns nil when unset.
func (c *Config) AudioCommandArgs() []string {
	fields := strings.Fields(c.Playback.AudioCommand)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// IsRemote reports whether a source is an http(s) URL.
func IsRemote(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// expandSource expands local paths and leaves URLs untouched.
func expandSource(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" || IsRemote(source) {
		return source, nil
	}
	return expandPath(source)
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
