package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"yogaseq/internal/api"
	"yogaseq/internal/assets"
	"yogaseq/internal/audio"
	"yogaseq/internal/config"
	"yogaseq/internal/history"
	"yogaseq/internal/library"
	"yogaseq/internal/logging"
	"yogaseq/internal/overrides"
	"yogaseq/internal/player"
	"yogaseq/internal/preflight"
	"yogaseq/internal/store"
)

// Daemon owns the library, the playback session and the API server, and
// enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	library *library.Library
	history *history.Recorder
	hub     *api.Hub
	driver  *player.Driver
	api     *apiServer

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt atomic.Pointer[time.Time]

	// life bounds audio commands; it outlives Start/Stop cycles.
	life    context.Context
	endLife context.CancelFunc
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	StartedAt     time.Time
	DatabasePath  string
	SchemaVersion string
	LockFilePath  string
	Warnings      []string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.life, d.endLife = context.WithCancel(context.Background())

	remote := &http.Client{Timeout: 15 * time.Second}

	var overrideSource overrides.Source = st
	if cfg.Overrides.RemoteURL != "" {
		overrideSource = overrides.NewClient(cfg.Overrides.RemoteURL, remote)
	}
	var primary history.Log = st
	if cfg.History.RemoteURL != "" {
		primary = history.NewClient(cfg.History.RemoteURL, remote)
	}
	d.history = history.NewRecorder(primary, history.NewCache(cfg.HistoryCachePath()), logger)

	d.library = library.New(library.SourcesFromConfig(cfg), assets.NewFetcher(nil), overrideSource, logger)
	d.hub = api.NewHub(d.library.Catalog, logger)

	sink := audio.NewDirSink(cfg.Assets.AudioDir, cfg.Assets.AudioBaseURL, cfg.AudioCommandArgs(), d.hub.Cue, logger)
	cues := audio.NewCuer(d.life, sink, d.library.Catalog, cfg.Playback.EndCue, logger)
	d.driver = player.NewDriver(cfg.TickInterval(), player.Options{
		EndCueMinSeconds: cfg.Playback.EndCueMinSeconds,
		Cues:             cues,
		Recorder:         d.history,
		Observer:         d.hub,
	})

	handler, err := api.NewHandler(api.Options{
		Library: d.library,
		History: d.history,
		Session: d.driver,
		Hub:     d.hub,
		Status:  d.apiStatus,
		Token:   cfg.Paths.APIToken,
		Logger:  logger,
	})
	if err != nil {
		d.endLife()
		return nil, fmt.Errorf("build api handler: %w", err)
	}
	d.api = newAPIServer(cfg, handler, logger)
	return d, nil
}

// Start acquires the daemon lock, loads the library and starts serving.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another yogaseq daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.runPreflight(d.ctx)

	if _, err := d.library.Load(d.ctx); err != nil {
		d.abortStart()
		return fmt.Errorf("load library: %w", err)
	}

	if err := d.api.start(d.ctx); err != nil {
		d.abortStart()
		return err
	}

	now := time.Now().UTC()
	d.startedAt.Store(&now)
	d.running.Store(true)
	d.logger.Info("yogaseq daemon started",
		logging.String("lock", d.lockPath),
		logging.String("api_bind", d.api.address()),
	)
	return nil
}

func (d *Daemon) abortStart() {
	_ = d.lock.Unlock()
	d.cancel()
	d.ctx = nil
	d.cancel = nil
}

// runPreflight logs every failed check. Missing assets degrade to empty
// data, so nothing here stops startup.
func (d *Daemon) runPreflight(ctx context.Context) {
	for _, result := range preflight.RunAll(ctx, d.cfg) {
		if result.Passed {
			continue
		}
		impact := "related features will be empty"
		if result.Optional {
			impact = "optional feature unavailable"
		}
		logging.WarnWithContext(d.logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldImpact, impact),
			logging.String(logging.FieldErrorHint, "run yogaseq config validate and check asset paths"),
		)
	}
}

// Stop stops the session and the API server and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.driver.Close()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.hub.Close()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("yogaseq daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	d.endLife()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Library exposes the asset library.
func (d *Daemon) Library() *library.Library { return d.library }

// Session exposes the playback driver.
func (d *Daemon) Session() *player.Driver { return d.driver }

// Addr returns the API listen address once started.
func (d *Daemon) Addr() string { return d.api.address() }

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
	}
	if started := d.startedAt.Load(); started != nil && status.Running {
		status.StartedAt = *started
	}
	if version, err := d.store.SchemaVersion(ctx); err == nil {
		status.SchemaVersion = version
	}
	if warnings := d.library.LastReport().Warnings; len(warnings) > 0 {
		status.Warnings = append([]string(nil), warnings...)
	}
	return status
}

func (d *Daemon) apiStatus(ctx context.Context) api.DaemonStatus {
	status := d.Status(ctx)
	return api.DaemonStatus{
		Running:       status.Running,
		PID:           status.PID,
		StartedAt:     status.StartedAt,
		DatabasePath:  status.DatabasePath,
		SchemaVersion: status.SchemaVersion,
		LockFilePath:  status.LockFilePath,
		Warnings:      status.Warnings,
	}
}
