// Package store provides the object stores the ledger persists records in.
package store

import (
	"context"
	"fmt"
	"time"

	"ledger-go/internal/ledger"
)

// Store is an ObjectStore whose initialization can be awaited.
type Store interface {
	ledger.ObjectStore

	// Wait blocks until initialization has finished and returns its error,
	// or returns ctx's error if ctx ends first.
	Wait(ctx context.Context) error
}

// toColumn converts a field value into its database representation.
// Time values are stored as Unix nanoseconds.
func toColumn(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UnixNano()
	}
	return v
}

// fromUnixNano restores a stored time value in UTC.
func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// checkQuery verifies that every filter and the sort key name declared fields
// of the queried kind and that filter values have the declared type.
func checkQuery(q ledger.Query) (ledger.Schema, error) {
	schema, err := ledger.SchemaFor(q.Kind)
	if err != nil {
		return ledger.Schema{}, err
	}
	for _, f := range q.Filters {
		if !f.Op.Valid() {
			return ledger.Schema{}, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
		if err := schema.Check(ledger.Fields{f.Field: f.Value}, false); err != nil {
			return ledger.Schema{}, fmt.Errorf("filter: %w", err)
		}
		if f.Value == nil {
			return ledger.Schema{}, fmt.Errorf("filter on %q: nil value", f.Field)
		}
	}
	if q.SortKey != "" {
		if _, ok := schema.Field(q.SortKey); !ok {
			return ledger.Schema{}, fmt.Errorf("unknown sort key %q for %s", q.SortKey, q.Kind)
		}
	}
	if q.Limit < 0 {
		return ledger.Schema{}, fmt.Errorf("negative limit %d", q.Limit)
	}
	return schema, nil
}

// checkPatch rejects patches that would change the primary key.
func checkPatch(schema ledger.Schema, id string, partial ledger.Fields) (ledger.Fields, error) {
	if err := schema.Check(partial, false); err != nil {
		return nil, err
	}
	out := partial.Clone()
	if v, ok := out[schema.PrimaryKey]; ok {
		if v != id {
			return nil, fmt.Errorf("cannot change %s of %s %q", schema.PrimaryKey, schema.Kind, id)
		}
		delete(out, schema.PrimaryKey)
	}
	return out, nil
}
