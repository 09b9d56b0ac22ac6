package preflight

import (
	"context"

	"yogaseq/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// RunAll executes every applicable check for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckSource(ctx, "Asana index", cfg.Assets.Index, false),
		CheckSource(ctx, "Image manifest", cfg.Assets.Manifest, false),
	}
	if cfg.Assets.PlateGroups != "" {
		results = append(results, CheckSource(ctx, "Plate groups", cfg.Assets.PlateGroups, true))
	}
	if cfg.Assets.Sequences != "" {
		results = append(results, CheckSource(ctx, "Sequences", cfg.Assets.Sequences, false))
	}
	if cfg.Assets.ImagesDir != "" {
		results = append(results, optional(CheckReadableDir("Images directory", cfg.Assets.ImagesDir)))
	}
	if cfg.Assets.AudioDir != "" {
		results = append(results, optional(CheckReadableDir("Audio directory", cfg.Assets.AudioDir)))
	}
	if cfg.Overrides.RemoteURL != "" {
		results = append(results, CheckService(ctx, "Override service", cfg.Overrides.RemoteURL))
	}
	if cfg.History.RemoteURL != "" {
		results = append(results, CheckService(ctx, "History service", cfg.History.RemoteURL))
	}
	results = append(results, CheckAudioCommand(cfg)...)
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}

func optional(r Result) Result {
	r.Optional = true
	return r
}
