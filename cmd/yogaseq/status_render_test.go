package main

import (
	"fmt"
	"strings"
	"testing"

	"yogaseq/internal/api"
	"yogaseq/internal/catalog"
	"yogaseq/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Daemon:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusOK, "Running", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestPreflightLine(t *testing.T) {
	tests := []struct {
		result preflight.Result
		want   string
	}{
		{preflight.Result{Name: "Index", Passed: true, Detail: "ok"}, "[OK] ok"},
		{preflight.Result{Name: "Audio", Optional: true, Detail: "missing"}, "[WARN] missing"},
		{preflight.Result{Name: "Manifest", Detail: "unreadable"}, "[ERROR] unreadable"},
	}
	for _, tt := range tests {
		if got := preflightLine(tt.result, false); !strings.Contains(got, tt.want) {
			t.Fatalf("preflightLine(%+v) = %q, want %q", tt.result, got, tt.want)
		}
	}
}

func TestDaemonStatusLines(t *testing.T) {
	lines := daemonStatusLines(api.DaemonStatus{}, api.ErrDaemonUnavailable, "http://x", false)
	if len(lines) != 1 || !strings.Contains(lines[0], "Not running") {
		t.Fatalf("unavailable lines = %q", lines)
	}

	lines = daemonStatusLines(api.DaemonStatus{}, &api.APIError{Status: 401, Message: "unauthorized"}, "http://x", false)
	if len(lines) != 1 || !strings.Contains(lines[0], "unauthorized") {
		t.Fatalf("api error lines = %q", lines)
	}

	status := api.DaemonStatus{
		Running:  true,
		PID:      7,
		Catalog:  catalog.Stats{Records: 4, Plates: 7},
		Session:  "idle",
		Warnings: []string{"plate groups unavailable"},
	}
	lines = daemonStatusLines(status, nil, "http://x", false)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Running (pid 7)", "4 asanas, 7 plates", "idle, 0 browser(s)", "[WARN] plate groups unavailable"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in\n%s", want, joined)
		}
	}
}
