package daemon_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"yogaseq/internal/api"
	"yogaseq/internal/daemon"
	"yogaseq/internal/logging"
	"yogaseq/internal/player"
	"yogaseq/internal/testsupport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDaemon(t *testing.T) *daemon.Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures())
	testsupport.WriteFile(t, filepath.Join(cfg.Assets.AudioDir, "001_MountainPose.mp3"), "ID3")
	st := testsupport.MustOpenStore(t, cfg)

	d, err := daemon.New(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		_ = d.Close()
	})
	return d
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func TestDaemonStartStop(t *testing.T) {
	d := newDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running || status.PID == 0 || status.SchemaVersion == "" {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.StartedAt.IsZero() {
		t.Fatal("expected start time")
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	time.Sleep(50 * time.Millisecond)
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonServesAPIAndAssets(t *testing.T) {
	d := newDaemon(t)
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	base := "http://" + d.Addr()
	if strings.HasSuffix(base, ":0") {
		t.Fatalf("address not resolved: %s", base)
	}

	code, body := get(t, base+"/api/health")
	if code != http.StatusOK {
		t.Fatalf("health = %d %s", code, body)
	}
	var status api.DaemonStatus
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if !status.Running || status.Catalog.Records != 4 || status.Sequences != 1 || status.LockFilePath == "" {
		t.Fatalf("health payload = %+v", status)
	}

	if code, _ := get(t, base+"/images/manifest.json"); code != http.StatusOK {
		t.Fatalf("static images = %d", code)
	}
	if code, _ := get(t, base+"/audio/001_MountainPose.mp3"); code != http.StatusOK {
		t.Fatalf("static audio = %d", code)
	}
}

func TestDaemonSessionUsesLibrary(t *testing.T) {
	d := newDaemon(t)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	seq, err := d.Library().Sequences().Get("short")
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	d.Session().Do(func(tm *player.Timer) {
		tm.SelectSequence(seq)
		tm.Start()
	})
	snap := d.Session().Snapshot()
	if snap.State != player.StateRunning || snap.SequenceID != "short" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSecondInstanceIsLockedOut(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures())
	first, err := daemon.New(cfg, testsupport.MustOpenStore(t, cfg), logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = first.Close() })
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	second, err := daemon.New(cfg, testsupport.MustOpenStore(t, cfg), logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })
	err = second.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected lock failure, got %v", err)
	}
}
