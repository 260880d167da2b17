package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ledger-go/internal/ledger"
)

func TestSQLiteStore_Ready(t *testing.T) {
	s := OpenSQLite(":memory:", nil)
	defer s.Close()

	select {
	case <-s.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("Ready() not closed within 5s")
	}

	if _, err := s.Query(context.Background(), ledger.Query{Kind: ledger.KindUser}); err != nil {
		t.Errorf("Query() after ready error = %v", err)
	}
}

func TestSQLiteStore_InitFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "ledger.db")
	s := OpenSQLite(path, nil)
	defer s.Close()

	err := s.Wait(context.Background())
	if !errors.Is(err, ledger.ErrStoreUnavailable) {
		t.Fatalf("Wait() error = %v, want ErrStoreUnavailable", err)
	}

	select {
	case <-s.Ready():
		t.Error("Ready() closed after failed initialization")
	default:
	}

	if _, err := s.Get(context.Background(), ledger.KindMeal, "m1"); !errors.Is(err, ledger.ErrStoreUnavailable) {
		t.Errorf("Get() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestSQLiteStore_WaitContext(t *testing.T) {
	s := OpenSQLite(":memory:", nil)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Wait(ctx)
	// Initialization may already have finished; either outcome is valid.
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want nil or context.Canceled", err)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	first := OpenSQLite(path, nil)
	if err := first.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if _, err := first.Create(ctx, ledger.KindMeal, meal("m1", base, 95)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second := OpenSQLite(path, nil)
	defer second.Close()
	if err := second.Wait(ctx); err != nil {
		t.Fatalf("Wait() after reopen error = %v", err)
	}
	got, err := second.Get(ctx, ledger.KindMeal, "m1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got["calories"] != int64(95) {
		t.Errorf("Get() after reopen = %v, want calories 95", got)
	}
}

func TestSQLiteStore_CheckMigrations(t *testing.T) {
	s := openReady(t)
	if err := s.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() error = %v", err)
	}
}

func TestSQLiteStore_BackupTo(t *testing.T) {
	ctx := context.Background()
	s := openReady(t)
	if _, err := s.Create(ctx, ledger.KindMeal, meal("m1", base, 95)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := s.BackupTo(ctx, dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}
	if info, err := os.Stat(dest); err != nil || info.Size() == 0 {
		t.Fatalf("backup file missing or empty: %v", err)
	}

	restored := OpenSQLite(dest, nil)
	defer restored.Close()
	if err := restored.Wait(ctx); err != nil {
		t.Fatalf("Wait() on backup error = %v", err)
	}
	got, err := restored.Get(ctx, ledger.KindMeal, "m1")
	if err != nil || got == nil {
		t.Fatalf("Get() on backup = %v, %v", got, err)
	}
}

func TestSQLiteStore_DumpSchema(t *testing.T) {
	s := openReady(t)

	schema, err := s.DumpSchema(context.Background())
	if err != nil {
		t.Fatalf("DumpSchema() error = %v", err)
	}
	for _, want := range []string{"CREATE TABLE users", "CREATE TABLE meals", "CREATE TABLE workouts", "CREATE TABLE weights", "CREATE INDEX idx_meals_eaten_at"} {
		if !strings.Contains(schema, want) {
			t.Errorf("DumpSchema() missing %q", want)
		}
	}
	if strings.Contains(schema, "schema_migrations") {
		t.Error("DumpSchema() includes schema_migrations")
	}
}
