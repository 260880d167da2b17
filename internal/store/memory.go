package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ledger-go/internal/ledger"
)

type memRecord struct {
	seq    uint64
	fields ledger.Fields
}

// MemoryStore implements ledger.ObjectStore with in-process maps.
// It is ready as soon as it is created and keeps nothing after Close.
type MemoryStore struct {
	ready chan struct{}

	mu      sync.RWMutex
	records map[ledger.Kind]map[string]memRecord
	seq     uint64
	closed  bool
}

// NewMemoryStore creates an empty, ready MemoryStore.
func NewMemoryStore() *MemoryStore {
	ready := make(chan struct{})
	close(ready)
	return &MemoryStore{
		ready:   ready,
		records: make(map[ledger.Kind]map[string]memRecord),
	}
}

func (s *MemoryStore) Ready() <-chan struct{} {
	return s.ready
}

func (s *MemoryStore) Wait(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Create(ctx context.Context, kind ledger.Kind, fields ledger.Fields) (ledger.Fields, error) {
	schema, err := ledger.SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	if err := schema.Check(fields, true); err != nil {
		return nil, err
	}
	id, _ := fields[schema.PrimaryKey].(string)
	if id == "" {
		return nil, fmt.Errorf("empty %s for %s", schema.PrimaryKey, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ledger.ErrStoreUnavailable
	}

	table := s.records[kind]
	if table == nil {
		table = make(map[string]memRecord)
		s.records[kind] = table
	}
	if _, exists := table[id]; exists {
		return nil, fmt.Errorf("inserting %s: duplicate %s %q", kind, schema.PrimaryKey, id)
	}

	s.seq++
	stored := normalize(fields)
	table[id] = memRecord{seq: s.seq, fields: stored}
	return stored.Clone(), nil
}

func (s *MemoryStore) Get(ctx context.Context, kind ledger.Kind, id string) (ledger.Fields, error) {
	if _, err := ledger.SchemaFor(kind); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ledger.ErrStoreUnavailable
	}

	rec, ok := s.records[kind][id]
	if !ok {
		return nil, nil
	}
	return rec.fields.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, kind ledger.Kind, id string, partial ledger.Fields) (ledger.Fields, error) {
	schema, err := ledger.SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	patch, err := checkPatch(schema, id, partial)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ledger.ErrStoreUnavailable
	}

	rec, ok := s.records[kind][id]
	if !ok {
		return nil, nil
	}
	merged := rec.fields.Clone()
	for k, v := range normalize(patch) {
		merged[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(merged, k)
		}
	}
	rec.fields = merged
	s.records[kind][id] = rec
	return merged.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, kind ledger.Kind, id string) (bool, error) {
	if _, err := ledger.SchemaFor(kind); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ledger.ErrStoreUnavailable
	}

	if _, ok := s.records[kind][id]; !ok {
		return false, nil
	}
	delete(s.records[kind], id)
	return true, nil
}

func (s *MemoryStore) Query(ctx context.Context, q ledger.Query) ([]ledger.Fields, error) {
	schema, err := checkQuery(q)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ledger.ErrStoreUnavailable
	}

	var matched []memRecord
	for _, rec := range s.records[q.Kind] {
		if matches(rec.fields, q.Filters) {
			matched = append(matched, rec)
		}
	}

	sortKey := q.SortKey
	if sortKey == "" {
		sortKey = schema.PrimaryKey
	}
	sort.Slice(matched, func(i, j int) bool {
		c := compare(matched[i].fields[sortKey], matched[j].fields[sortKey])
		if q.Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return matched[i].seq < matched[j].seq
	})
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]ledger.Fields, len(matched))
	for i, rec := range matched {
		out[i] = rec.fields.Clone()
	}
	return out, nil
}

// Close discards all records. Later operations fail with ledger.ErrStoreUnavailable.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

// normalize drops nil values and strips monotonic clock readings and zone
// information from times, matching what a round trip through SQLite yields.
func normalize(fields ledger.Fields) ledger.Fields {
	out := make(ledger.Fields, len(fields))
	for k, v := range fields {
		switch tv := v.(type) {
		case nil:
			continue
		case time.Time:
			out[k] = fromUnixNano(tv.UnixNano())
		default:
			out[k] = v
		}
	}
	return out
}

func matches(fields ledger.Fields, filters []ledger.Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok {
			return false // NULL never compares true
		}
		c := compare(v, f.Value)
		var hit bool
		switch f.Op {
		case ledger.OpEq:
			hit = c == 0
		case ledger.OpLt:
			hit = c < 0
		case ledger.OpLte:
			hit = c <= 0
		case ledger.OpGt:
			hit = c > 0
		case ledger.OpGte:
			hit = c >= 0
		}
		if !hit {
			return false
		}
	}
	return true
}

// compare orders two values of the same field type. Absent values sort first,
// as NULLs do in SQLite.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case string:
		return strings.Compare(av, b.(string))
	case int64:
		bv := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case time.Time:
		return av.Compare(b.(time.Time))
	}
	return 0
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
