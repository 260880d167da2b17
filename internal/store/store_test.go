package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ledger-go/internal/ledger"
)

var base = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// openReady returns a migrated in-memory SQLite store, closed at cleanup.
func openReady(t *testing.T) *SQLiteStore {
	t.Helper()

	s := OpenSQLite(":memory:", nil)
	t.Cleanup(func() { s.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	return s
}

// implementations runs fn against every Store implementation.
func implementations(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, openReady(t))
	})
	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore()
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
}

func meal(id string, at time.Time, calories int64) ledger.Fields {
	return ledger.Fields{
		"id":        id,
		"key":       "apple",
		"calories":  calories,
		"eaten_at":  at,
		"meal_type": "snack",
	}
}

func TestStore_CreateGet(t *testing.T) {
	implementations(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		in := meal("m1", base, 95)
		in["fat_g"] = 0.0

		created, err := s.Create(ctx, ledger.KindMeal, in)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		got, err := s.Get(ctx, ledger.KindMeal, "m1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		if diff := cmp.Diff(created, got); diff != "" {
			t.Errorf("Get() mismatch (-created +got):\n%s", diff)
		}
		if got["fat_g"] != 0.0 {
			t.Errorf("fat_g = %v, want 0", got["fat_g"])
		}
		if _, ok := got["protein_g"]; ok {
			t.Errorf("protein_g present = %v, want absent", got["protein_g"])
		}
		if at := got["eaten_at"].(time.Time); !at.Equal(base) {
			t.Errorf("eaten_at = %v, want %v", at, base)
		}
	})
}

func TestStore_GetMissing(t *testing.T) {
	implementations(t, func(t *testing.T, s Store) {
		got, err := s.Get(context.Background(), ledger.KindWorkout, "nope")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != nil {
			t.Errorf("Get() = %v, want nil", got)
		}
	})
}

func TestStore_CreateRejects(t *testing.T) {
	implementations(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		tests := []struct {
			name   string
			kind   ledger.Kind
			fields ledger.Fields
		}{
			{"unknown kind", ledger.Kind("Snack"), meal("m1", base, 1)},
			{"unknown field", ledger.KindMeal, func() ledger.Fields { f := meal("m1", base, 1); f["sugar_g"] = 3.0; return f }()},
			{"wrong type", ledger.KindMeal, func() ledger.Fields { f := meal("m1", base, 1); f["calories"] = "many"; return f }()},
			{"missing required", ledger.KindMeal, func() ledger.Fields { f := meal("m1", base, 1); delete(f, "eaten_at"); return f }()},
			{"empty id", ledger.KindMeal, meal("", base, 1)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := s.Create(ctx, tt.kind, tt.fields); err == nil {
					t.Error("Create() expected error")
				}
			})
		}

		if _, err := s.Create(ctx, ledger.KindMeal, meal("dup", base, 1)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if _, err := s.Create(ctx, ledger.KindMeal, meal("dup", base, 2)); err == nil {
			t.Error("Create() duplicate id expected error")
		}
	})
}

func TestStore_Update(t *testing.T) {
	implementations(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		in := meal("m1", base, 95)
		in["protein_g"] = 0.5
		if _, err := s.Create(ctx, ledger.KindMeal, in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		t.Run("merges fields", func(t *testing.T) {
			got, err := s.Update(ctx, ledger.KindMeal, "m1", ledger.Fields{"calories": int64(120), "protein_g": nil})
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if got["calories"] != int64(120) {
				t.Errorf("calories = %v, want 120", got["calories"])
			}
			if got["key"] != "apple" {
				t.Errorf("key = %v, want apple", got["key"])
			}
			if _, ok := got["protein_g"]; ok {
				t.Errorf("protein_g = %v, want cleared", got["protein_g"])
			}
		})

		t.Run("missing record", func(t *testing.T) {
			got, err := s.Update(ctx, ledger.KindMeal, "nope", ledger.Fields{"calories": int64(1)})
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if got != nil {
				t.Errorf("Update() = %v, want nil", got)
			}
		})

		t.Run("cannot change id", func(t *testing.T) {
			if _, err := s.Update(ctx, ledger.KindMeal, "m1", ledger.Fields{"id": "m2"}); err == nil {
				t.Error("Update() expected error when changing id")
			}
		})

		t.Run("rejected patch leaves record unchanged", func(t *testing.T) {
			_, err := s.Update(ctx, ledger.KindMeal, "m1", ledger.Fields{"calories": int64(1), "bogus": "x"})
			if err == nil {
				t.Fatal("Update() expected error for unknown field")
			}
			got, _ := s.Get(ctx, ledger.KindMeal, "m1")
			if got["calories"] != int64(120) {
				t.Errorf("calories = %v, want 120", got["calories"])
			}
		})
	})
}

func TestStore_Delete(t *testing.T) {
	implementations(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.Create(ctx, ledger.KindMeal, meal("m1", base, 95)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		deleted, err := s.Delete(ctx, ledger.KindMeal, "m1")
		if err != nil || !deleted {
			t.Fatalf("Delete() = %v, %v; want true, nil", deleted, err)
		}
		deleted, err = s.Delete(ctx, ledger.KindMeal, "m1")
		if err != nil || deleted {
			t.Errorf("second Delete() = %v, %v; want false, nil", deleted, err)
		}
		if got, _ := s.Get(ctx, ledger.KindMeal, "m1"); got != nil {
			t.Errorf("Get() after delete = %v, want nil", got)
		}
	})
}

func TestStore_Query(t *testing.T) {
	implementations(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, f := range []ledger.Fields{
			meal("a", base, 100),
			meal("b", base.Add(2*time.Hour), 200),
			meal("c", base.Add(-2*time.Hour), 300),
			meal("d", base.Add(2*time.Hour), 400), // same instant as b
			meal("e", base.Add(48*time.Hour), 500),
		} {
			if _, err := s.Create(ctx, ledger.KindMeal, f); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		ids := func(rows []ledger.Fields) []string {
			out := make([]string, len(rows))
			for i, r := range rows {
				out[i] = r["id"].(string)
			}
			return out
		}

		tests := []struct {
			name string
			q    ledger.Query
			want []string
		}{
			{
				name: "ascending with stable ties",
				q:    ledger.Query{Kind: ledger.KindMeal, SortKey: "eaten_at"},
				want: []string{"c", "a", "b", "d", "e"},
			},
			{
				name: "descending",
				q:    ledger.Query{Kind: ledger.KindMeal, SortKey: "eaten_at", Descending: true},
				want: []string{"e", "b", "d", "a", "c"},
			},
			{
				name: "half-open range",
				q: ledger.Query{Kind: ledger.KindMeal, SortKey: "eaten_at", Filters: []ledger.Filter{
					{Field: "eaten_at", Op: ledger.OpGte, Value: base},
					{Field: "eaten_at", Op: ledger.OpLt, Value: base.Add(2 * time.Hour)},
				}},
				want: []string{"a"},
			},
			{
				name: "closed range",
				q: ledger.Query{Kind: ledger.KindMeal, SortKey: "eaten_at", Filters: []ledger.Filter{
					{Field: "eaten_at", Op: ledger.OpGte, Value: base},
					{Field: "eaten_at", Op: ledger.OpLte, Value: base.Add(2 * time.Hour)},
				}},
				want: []string{"a", "b", "d"},
			},
			{
				name: "equality on primary key",
				q: ledger.Query{Kind: ledger.KindMeal, Filters: []ledger.Filter{
					{Field: "id", Op: ledger.OpEq, Value: "c"},
				}},
				want: []string{"c"},
			},
			{
				name: "greater than on primary key",
				q: ledger.Query{Kind: ledger.KindMeal, Filters: []ledger.Filter{
					{Field: "id", Op: ledger.OpGt, Value: "c"},
				}},
				want: []string{"d", "e"},
			},
			{
				name: "limit",
				q:    ledger.Query{Kind: ledger.KindMeal, SortKey: "calories", Descending: true, Limit: 2},
				want: []string{"e", "d"},
			},
			{
				name: "empty kind",
				q:    ledger.Query{Kind: ledger.KindWorkout},
				want: []string{},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rows, err := s.Query(ctx, tt.q)
				if err != nil {
					t.Fatalf("Query() error = %v", err)
				}
				if diff := cmp.Diff(tt.want, ids(rows)); diff != "" {
					t.Errorf("Query() ids mismatch (-want +got):\n%s", diff)
				}
			})
		}
	})
}

func TestStore_QueryRejects(t *testing.T) {
	implementations(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		tests := []struct {
			name string
			q    ledger.Query
		}{
			{"unknown sort key", ledger.Query{Kind: ledger.KindMeal, SortKey: "rating"}},
			{"unknown filter field", ledger.Query{Kind: ledger.KindMeal, Filters: []ledger.Filter{{Field: "rating", Op: ledger.OpEq, Value: "x"}}}},
			{"bad operator", ledger.Query{Kind: ledger.KindMeal, Filters: []ledger.Filter{{Field: "id", Op: "LIKE", Value: "x"}}}},
			{"mistyped value", ledger.Query{Kind: ledger.KindMeal, Filters: []ledger.Filter{{Field: "eaten_at", Op: ledger.OpGt, Value: "yesterday"}}}},
			{"negative limit", ledger.Query{Kind: ledger.KindMeal, Limit: -1}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := s.Query(ctx, tt.q); err == nil {
					t.Error("Query() expected error")
				}
			})
		}
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	implementations(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		created, err := s.Create(ctx, ledger.KindMeal, meal("m1", base, 95))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		created["calories"] = int64(9999)

		got, _ := s.Get(ctx, ledger.KindMeal, "m1")
		got["key"] = "mutated"

		again, _ := s.Get(ctx, ledger.KindMeal, "m1")
		if again["calories"] != int64(95) || again["key"] != "apple" {
			t.Errorf("stored record changed through returned map: %v", again)
		}
	})
}

func TestStore_Closed(t *testing.T) {
	implementations(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		if _, err := s.Get(ctx, ledger.KindMeal, "m1"); !errors.Is(err, ledger.ErrStoreUnavailable) {
			t.Errorf("Get() after Close error = %v, want ErrStoreUnavailable", err)
		}
		if _, err := s.Create(ctx, ledger.KindMeal, meal("m1", base, 1)); !errors.Is(err, ledger.ErrStoreUnavailable) {
			t.Errorf("Create() after Close error = %v, want ErrStoreUnavailable", err)
		}
		if _, err := s.Query(ctx, ledger.Query{Kind: ledger.KindMeal}); !errors.Is(err, ledger.ErrStoreUnavailable) {
			t.Errorf("Query() after Close error = %v, want ErrStoreUnavailable", err)
		}
		if err := s.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}
	})
}

func TestMemoryStore_NormalizesTimes(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	loc := time.FixedZone("UTC+9", 9*3600)
	local := time.Date(2024, 3, 10, 21, 0, 0, 0, loc)
	created, err := s.Create(context.Background(), ledger.KindMeal, meal("m1", local, 1))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	at := created["eaten_at"].(time.Time)
	if at.Location() != time.UTC {
		t.Errorf("eaten_at location = %v, want UTC", at.Location())
	}
	if !at.Equal(local) {
		t.Errorf("eaten_at = %v, want %v", at, local)
	}
}
