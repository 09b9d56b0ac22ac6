package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAssets(); err != nil {
		return err
	}
	if err := c.validateRemotes(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateAssets() error {
	if strings.TrimSpace(c.Assets.Index) == "" {
		return errors.New("assets.index must be set")
	}
	if strings.TrimSpace(c.Assets.Manifest) == "" {
		return errors.New("assets.manifest must be set")
	}
	return nil
}

func (c *Config) validateRemotes() error {
	for key, value := range map[string]string{
		"overrides.remote_url": c.Overrides.RemoteURL,
		"history.remote_url":   c.History.RemoteURL,
	} {
		if value == "" {
			continue
		}
		if !IsRemote(value) {
			return fmt.Errorf("%s must be an http(s) URL", key)
		}
		if _, err := url.Parse(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if err := ensurePositiveMap(map[string]int{
		"playback.tick_interval_ms":    c.Playback.TickIntervalMS,
		"playback.end_cue_min_seconds": c.Playback.EndCueMinSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
