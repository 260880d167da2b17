package testutil

import (
	"context"
	"testing"
	"time"

	"ledger-go/internal/ledger"
	"ledger-go/internal/store"
)

// NewTestStore opens a migrated in-memory SQLite store and waits for it to be ready.
// The store is closed when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s := store.OpenSQLite(":memory:", nil)
	t.Cleanup(func() {
		s.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s
}

// TestRecordStore bundles a RecordStore with the stubs it was built from.
type TestRecordStore struct {
	*ledger.RecordStore
	Store *store.SQLiteStore
	Clock *StubClock
	IDs   *StubIDGenerator
}

// NewTestRecordStore builds a RecordStore over NewTestStore with a FixedClock,
// sequential ids and calendar days in loc (nil means UTC).
func NewTestRecordStore(t *testing.T, loc *time.Location) *TestRecordStore {
	t.Helper()

	if loc == nil {
		loc = time.UTC
	}
	s := NewTestStore(t)
	clock := FixedClock()
	ids := NewStubIDGenerator()
	return &TestRecordStore{
		RecordStore: ledger.NewRecordStore(s, ledger.NewNopLogger(), clock, ids, loc),
		Store:       s,
		Clock:       clock,
		IDs:         ids,
	}
}
