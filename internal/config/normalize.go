package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAssets(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeOverrides()
	c.normalizePlayback()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("YOGASEQ_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if value, ok := os.LookupEnv("YOGASEQ_API_BIND"); ok && strings.TrimSpace(value) != "" {
		c.Paths.APIBind = value
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if value, ok := os.LookupEnv("YOGASEQ_API_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.Paths.APIToken = value
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeAssets() error {
	sources := []struct {
		key   string
		value *string
	}{
		{"assets.index", &c.Assets.Index},
		{"assets.manifest", &c.Assets.Manifest},
		{"assets.plate_groups", &c.Assets.PlateGroups},
		{"assets.sequences", &c.Assets.Sequences},
	}
	for _, src := range sources {
		expanded, err := expandSource(*src.value)
		if err != nil {
			return fmt.Errorf("%s: %w", src.key, err)
		}
		*src.value = expanded
	}
	var err error
	if c.Assets.ImagesDir, err = expandPath(strings.TrimSpace(c.Assets.ImagesDir)); err != nil {
		return fmt.Errorf("assets.images_dir: %w", err)
	}
	if c.Assets.AudioDir, err = expandPath(strings.TrimSpace(c.Assets.AudioDir)); err != nil {
		return fmt.Errorf("assets.audio_dir: %w", err)
	}
	c.Assets.ImagesBase = strings.TrimRight(strings.TrimSpace(c.Assets.ImagesBase), "/")
	if c.Assets.ImagesBase == "" {
		c.Assets.ImagesBase = defaultImagesBase
	}
	c.Assets.AudioBaseURL = strings.TrimRight(strings.TrimSpace(c.Assets.AudioBaseURL), "/")
	if c.Assets.AudioBaseURL == "" {
		c.Assets.AudioBaseURL = defaultAudioBaseURL
	}
	return nil
}

func (c *Config) normalizeOverrides() {
	c.Overrides.RemoteURL = strings.TrimRight(strings.TrimSpace(c.Overrides.RemoteURL), "/")
	if c.Overrides.RemoteURL == "" {
		if value, ok := os.LookupEnv("YOGASEQ_OVERRIDES_URL"); ok {
			c.Overrides.RemoteURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
}

func (c *Config) normalizeHistory() error {
	c.History.RemoteURL = strings.TrimRight(strings.TrimSpace(c.History.RemoteURL), "/")
	var err error
	if c.History.CachePath, err = expandPath(strings.TrimSpace(c.History.CachePath)); err != nil {
		return fmt.Errorf("history.cache_path: %w", err)
	}
	return nil
}

func (c *Config) normalizePlayback() {
	if c.Playback.EndCueMinSeconds == 0 {
		c.Playback.EndCueMinSeconds = defaultEndCueMinSeconds
	}
	if c.Playback.TickIntervalMS <= 0 {
		c.Playback.TickIntervalMS = defaultTickIntervalMS
	}
	c.Playback.EndCue = strings.TrimSpace(c.Playback.EndCue)
	c.Playback.AudioCommand = strings.TrimSpace(c.Playback.AudioCommand)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
