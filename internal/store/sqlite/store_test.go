package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prompthubapp/prompthub-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{"categories", "tags", "prompts", "prompt_versions", "prompt_tags", "settings"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	s2.Close()
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetSetting(ctx, store.SettingSchemaVersion)
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != store.SchemaVersion {
		t.Errorf("schema version: got %q, want %q", got, store.SchemaVersion)
	}

	if err := s.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := s.SetSetting(ctx, "theme", "light"); err != nil {
		t.Fatalf("SetSetting (overwrite): %v", err)
	}

	got, err = s.GetSetting(ctx, "theme")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "light" {
		t.Errorf("setting: got %q, want %q", got, "light")
	}
}

func TestClearData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SeedDefaultCategories(ctx); err != nil {
		t.Fatalf("SeedDefaultCategories: %v", err)
	}

	p := makeTestPrompt("prompt-clear", "Doomed", "content")
	if err := s.CreatePrompt(ctx, p); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	if err := s.ClearData(ctx); err != nil {
		t.Fatalf("ClearData: %v", err)
	}

	prompts, err := s.ListPrompts(ctx)
	if err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}
	if len(prompts) != 0 {
		t.Errorf("expected no prompts after clear, got %d", len(prompts))
	}

	// Default categories come back after a wipe.
	cats, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 7 {
		t.Errorf("expected 7 default categories after clear, got %d", len(cats))
	}
}
