package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"yogaseq/internal/history"
	"yogaseq/internal/overrides"
	"yogaseq/internal/store"
	"yogaseq/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	version, err := s.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != "001_initial" {
		t.Fatalf("schema version = %q, want 001_initial", version)
	}
	if s.Path() != cfg.DatabasePath() {
		t.Fatalf("path = %q, want %q", s.Path(), cfg.DatabasePath())
	}
}

func TestReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "yogaseq.db")
	first, err := store.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	ctx := context.Background()
	if _, err := first.Save(ctx, overrides.KindDescription, "1", "kept"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := store.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	m, err := second.Fetch(ctx, overrides.KindDescription)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if m["1"].Value != "kept" {
		t.Fatalf("override lost across reopen: %+v", m)
	}
}

func TestOverridesSaveFetchDelete(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	saved, err := s.Save(ctx, overrides.KindDescription, "001", "")
	if err != nil {
		t.Fatalf("Save empty description: %v", err)
	}
	if saved.UpdatedAt.IsZero() {
		t.Fatal("expected timestamp on save")
	}
	if _, err := s.Save(ctx, overrides.KindCategory, "2", "  twists "); err != nil {
		t.Fatalf("Save category: %v", err)
	}
	if _, err := s.Save(ctx, overrides.KindCategory, "3", "   "); err == nil {
		t.Fatal("expected blank category to be rejected")
	}
	if _, err := s.Save(ctx, overrides.KindDescription, "1", "updated"); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	descriptions, err := s.Fetch(ctx, overrides.KindDescription)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(descriptions) != 1 || descriptions["1"].Value != "updated" {
		t.Fatalf("descriptions = %+v", descriptions)
	}
	categories, err := s.Fetch(ctx, overrides.KindCategory)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if categories["2"].Value != "twists" {
		t.Fatalf("category not trimmed: %+v", categories)
	}

	if err := s.Delete(ctx, overrides.KindCategory, "02"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, overrides.KindCategory, "99"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	categories, _ = s.Fetch(ctx, overrides.KindCategory)
	if len(categories) != 0 {
		t.Fatalf("expected category removed, got %+v", categories)
	}
}

func TestCompletionsAppendList(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	older := history.New("Older", "", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	newer := history.New("Newer", "short", time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC))
	for _, c := range []history.Completion{older, newer, older} {
		if err := s.Append(ctx, c); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := s.Append(ctx, history.Completion{Title: "no id"}); err == nil {
		t.Fatal("expected error for empty id")
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 completions, got %+v", list)
	}
	if list[0].ID != newer.ID || list[0].SequenceID != "short" || list[0].Source != history.SourceServer {
		t.Fatalf("first = %+v", list[0])
	}
	if !list[1].CompletedAt.Equal(older.CompletedAt) || list[1].SequenceID != "" {
		t.Fatalf("second = %+v", list[1])
	}
}
