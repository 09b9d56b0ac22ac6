package history_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"yogaseq/internal/history"
	"yogaseq/internal/logging"
)

type memoryLog struct {
	mu        sync.Mutex
	entries   []history.Completion
	appendErr error
	listErr   error
}

func (m *memoryLog) Append(_ context.Context, c history.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, c)
	return nil
}

func (m *memoryLog) List(context.Context) ([]history.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]history.Completion(nil), m.entries...), nil
}

func TestNewAssignsIDAndUTC(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("X", 3600))
	c := history.New("  Morning Flow ", "morning", at)
	if c.ID == "" {
		t.Fatal("expected generated id")
	}
	if c.Title != "Morning Flow" || c.SequenceID != "morning" {
		t.Fatalf("unexpected completion %+v", c)
	}
	if c.CompletedAt.Location() != time.UTC || !c.CompletedAt.Equal(at) {
		t.Fatalf("completed_at = %v", c.CompletedAt)
	}
}

func TestCacheAppendAndList(t *testing.T) {
	ctx := context.Background()
	cache := history.NewCache(filepath.Join(t.TempDir(), "nested", "history.json"))

	entries, err := cache.List(ctx)
	if err != nil || len(entries) != 0 {
		t.Fatalf("empty cache List = %v, %v", entries, err)
	}
	first := history.New("A", "", time.Now())
	if err := cache.Append(ctx, first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	first.Source = history.SourceServer
	if err := cache.Append(ctx, first); err != nil {
		t.Fatalf("Append replace: %v", err)
	}
	if err := cache.Append(ctx, history.New("B", "", time.Now())); err != nil {
		t.Fatalf("Append: %v", err)
	}
	entries, err = cache.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Source != history.SourceServer || entries[1].Title != "B" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestRecorderPrimarySuccess(t *testing.T) {
	ctx := context.Background()
	primary := &memoryLog{}
	cache := history.NewCache(filepath.Join(t.TempDir(), "history.json"))
	rec := history.NewRecorder(primary, cache, logging.NewNop())

	got, err := rec.Record(ctx, history.New("Flow", "flow", time.Now()))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.Source != history.SourceServer {
		t.Fatalf("source = %q, want server", got.Source)
	}
	cached, _ := cache.List(ctx)
	if len(cached) != 1 || cached[0].Source != history.SourceServer {
		t.Fatalf("cache not mirrored: %+v", cached)
	}
}

func TestRecorderFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	primary := &memoryLog{appendErr: errors.New("offline")}
	cache := history.NewCache(filepath.Join(t.TempDir(), "history.json"))
	rec := history.NewRecorder(primary, cache, logging.NewNop())

	got, err := rec.Record(ctx, history.Completion{Title: "Flow"})
	if !errors.Is(err, history.ErrStoredLocally) {
		t.Fatalf("expected ErrStoredLocally, got %v", err)
	}
	if got.ID == "" || got.Source != history.SourceLocal || got.CompletedAt.IsZero() {
		t.Fatalf("unexpected completion %+v", got)
	}

	primary.listErr = errors.New("offline")
	list, err := rec.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != got.ID {
		t.Fatalf("expected cached entry, got %+v", list)
	}
}

func TestRecorderListMergesNewestFirst(t *testing.T) {
	ctx := context.Background()
	older := history.New("Older", "", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := history.New("Newer", "", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	primary := &memoryLog{entries: []history.Completion{older}}
	cache := history.NewCache(filepath.Join(t.TempDir(), "history.json"))
	older.Source = history.SourceServer
	if err := cache.Append(ctx, older); err != nil {
		t.Fatal(err)
	}
	newer.Source = history.SourceLocal
	if err := cache.Append(ctx, newer); err != nil {
		t.Fatal(err)
	}

	list, err := history.NewRecorder(primary, cache, nil).List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 merged entries, got %+v", list)
	}
	if list[0].Title != "Newer" || list[0].Source != history.SourceLocal {
		t.Fatalf("first = %+v", list[0])
	}
	if list[1].Title != "Older" || list[1].Source != history.SourceServer {
		t.Fatalf("second = %+v", list[1])
	}
}

func TestClientAppendAndList(t *testing.T) {
	var (
		mu     sync.Mutex
		posted []map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			posted = append(posted, body)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"title":"Flow","date":"2024-03-04 05:06:07"},{"title":""},{"id":"x","title":"Unix","completed_at":1700000000}]`))
		}
	}))
	defer srv.Close()

	client := history.NewClient(srv.URL, srv.Client())
	ctx := context.Background()
	if err := client.Append(ctx, history.New("Flow", "flow", time.Now())); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(posted) != 1 || posted[0]["title"] != "Flow" {
		t.Fatalf("unexpected post %+v", posted)
	}

	list, err := client.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected blank title skipped, got %+v", list)
	}
	want := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	if !list[0].CompletedAt.Equal(want) {
		t.Fatalf("date = %v, want %v", list[0].CompletedAt, want)
	}
	if list[1].CompletedAt.Unix() != 1700000000 {
		t.Fatalf("unix time = %v", list[1].CompletedAt)
	}
}

func TestClientAppendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","error":"disk full"}`))
	}))
	defer srv.Close()

	err := history.NewClient(srv.URL, srv.Client()).Append(context.Background(), history.New("Flow", "", time.Now()))
	if err == nil {
		t.Fatal("expected error")
	}
}
