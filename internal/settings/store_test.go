package settings_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"readaloud/internal/settings"
	"readaloud/internal/testsupport"
)

func TestAutoScrollDefaultsAndPersists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenSettings(t, cfg)
	ctx := context.Background()

	enabled, err := store.AutoScrollEnabled(ctx)
	if err != nil {
		t.Fatalf("AutoScrollEnabled: %v", err)
	}
	if enabled {
		t.Fatal("expected auto-scroll off by default")
	}

	if err := store.SetAutoScrollEnabled(ctx, true); err != nil {
		t.Fatalf("SetAutoScrollEnabled: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenSettings(t, cfg)
	enabled, err = reopened.AutoScrollEnabled(ctx)
	if err != nil {
		t.Fatalf("AutoScrollEnabled after reopen: %v", err)
	}
	if !enabled {
		t.Fatal("expected persisted auto-scroll preference")
	}
}

func TestConfiguredDefault(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Player.AutoScrollDefault = true
	store := testsupport.MustOpenSettings(t, cfg)

	enabled, err := store.AutoScrollEnabled(context.Background())
	if err != nil {
		t.Fatalf("AutoScrollEnabled: %v", err)
	}
	if !enabled {
		t.Fatal("expected configured default")
	}
}

func TestUnparseableValueFallsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenSettings(t, cfg)
	ctx := context.Background()

	if err := store.Set(ctx, settings.KeyAutoScroll, "maybe"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	enabled, err := store.AutoScrollEnabled(ctx)
	if err != nil || enabled {
		t.Fatalf("expected fallback false, got %v, %v", enabled, err)
	}
}

func TestGetSetList(t *testing.T) {
	store, err := settings.OpenPath(filepath.Join(t.TempDir(), "nested", "settings.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing = %v, %v", ok, err)
	}
	if err := store.Set(ctx, "b", "2"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "a", "1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "a", "3"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "  ", "x"); err == nil {
		t.Fatal("expected error for blank key")
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Key != "a" || entries[0].Value != "3" || entries[1].Key != "b" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].UpdatedAt.IsZero() {
		t.Fatal("expected updated timestamp")
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	store, err := settings.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if err := store.Set(context.Background(), "x", "y"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := settings.OpenPath(path); !errors.Is(err, settings.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
