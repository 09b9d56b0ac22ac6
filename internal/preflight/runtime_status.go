package preflight

import (
	"strings"

	"yogaseq/internal/config"
	"yogaseq/internal/deps"
)

// CheckAudioCommand reports whether the configured audio player resolves
// on PATH. Without a command, cues are only announced to browsers, which
// is not a failure.
func CheckAudioCommand(cfg *config.Config) []Result {
	if cfg == nil || strings.TrimSpace(cfg.Playback.AudioCommand) == "" {
		return nil
	}
	statuses := deps.CheckBinaries([]deps.Requirement{{
		Name:        "Audio player",
		Command:     cfg.Playback.AudioCommand,
		Description: "Plays pose and end cues on the host",
		Optional:    true,
	}})
	out := make([]Result, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Result{Name: s.Name, Passed: s.Available, Optional: s.Optional, Detail: s.Detail})
	}
	return out
}

// CheckOverridesFromConfig describes where overrides are kept.
func CheckOverridesFromConfig(cfg *config.Config) Result {
	const name = "Overrides"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if cfg.Overrides.RemoteURL == "" {
		return Result{Name: name, Passed: true, Detail: "Local database"}
	}
	return Result{Name: name, Passed: true, Detail: cfg.Overrides.RemoteURL}
}

// CheckHistoryFromConfig describes where completions are recorded.
func CheckHistoryFromConfig(cfg *config.Config) Result {
	const name = "History"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if cfg.History.RemoteURL == "" {
		return Result{Name: name, Passed: true, Detail: "Local database, cache " + cfg.HistoryCachePath()}
	}
	return Result{Name: name, Passed: true, Detail: cfg.History.RemoteURL + ", cache " + cfg.HistoryCachePath()}
}
