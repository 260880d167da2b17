package ledger

import (
	"context"
	"fmt"
	"time"
)

// Kind names a record collection in the object store.
type Kind string

const (
	KindUser    Kind = "User"
	KindMeal    Kind = "Meal"
	KindWorkout Kind = "Workout"
	KindWeight  Kind = "Weight"
)

// Fields is the untyped form of a record exchanged with the object store.
// Values are string, int64, float64, time.Time or nil (absent).
type Fields map[string]any

// Clone returns a shallow copy. All permitted value types are immutable.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Op is a comparison operator usable in a Filter.
type Op string

const (
	OpEq  Op = "="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

func (o Op) Valid() bool {
	switch o {
	case OpEq, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

// Filter restricts a query to records whose Field compares to Value with Op.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query selects records of one kind. All filters must match.
// A zero Limit means no limit.
type Query struct {
	Kind       Kind
	Filters    []Filter
	SortKey    string
	Descending bool
	Limit      int
}

// ObjectStore is the generic transactional store the RecordStore is built on.
// Every write either applies fully or not at all. Operations issued before
// Ready is closed, or after Close, fail with ErrStoreUnavailable.
type ObjectStore interface {
	// Ready is closed once the store has finished initializing.
	Ready() <-chan struct{}

	// Create persists a new record. fields must include the primary key.
	Create(ctx context.Context, kind Kind, fields Fields) (Fields, error)

	// Get returns the record with the given id, or nil if none exists.
	Get(ctx context.Context, kind Kind, id string) (Fields, error)

	// Update merges partial into the record with the given id and returns the
	// stored result, or nil if no such record exists.
	Update(ctx context.Context, kind Kind, id string, partial Fields) (Fields, error)

	// Delete removes the record with the given id and reports whether it existed.
	Delete(ctx context.Context, kind Kind, id string) (bool, error)

	// Query returns the matching records in SortKey order.
	Query(ctx context.Context, q Query) ([]Fields, error)

	// Close releases the store. Later calls fail with ErrStoreUnavailable.
	Close() error
}

// FieldType is the storage type of a schema field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldReal
	FieldTime
)

func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldInt:
		return "int"
	case FieldReal:
		return "real"
	case FieldTime:
		return "time"
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// SchemaField describes one persisted attribute.
type SchemaField struct {
	Name     string
	Type     FieldType
	Nullable bool
}

// Schema describes the persisted layout of a record kind.
type Schema struct {
	Kind       Kind
	Table      string
	PrimaryKey string
	Fields     []SchemaField
}

// Field looks up a field by name.
func (s Schema) Field(name string) (SchemaField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return SchemaField{}, false
}

// Check verifies that every value in fields is declared and has the declared type.
// When complete is true, every non-nullable field must also be present.
func (s Schema) Check(fields Fields, complete bool) error {
	for name, v := range fields {
		f, ok := s.Field(name)
		if !ok {
			return fmt.Errorf("unknown field %q for %s", name, s.Kind)
		}
		if v == nil {
			if !f.Nullable {
				return fmt.Errorf("field %q of %s is not nullable", name, s.Kind)
			}
			continue
		}
		if !typeMatches(f.Type, v) {
			return fmt.Errorf("field %q of %s: want %s, got %T", name, s.Kind, f.Type, v)
		}
	}
	if complete {
		for _, f := range s.Fields {
			if f.Nullable {
				continue
			}
			if v, ok := fields[f.Name]; !ok || v == nil {
				return fmt.Errorf("missing required field %q for %s", f.Name, s.Kind)
			}
		}
	}
	return nil
}

func typeMatches(t FieldType, v any) bool {
	switch t {
	case FieldText:
		_, ok := v.(string)
		return ok
	case FieldInt:
		_, ok := v.(int64)
		return ok
	case FieldReal:
		_, ok := v.(float64)
		return ok
	case FieldTime:
		_, ok := v.(time.Time)
		return ok
	}
	return false
}

// Schemas is the persisted layout of every record kind.
var Schemas = map[Kind]Schema{
	KindUser: {
		Kind:       KindUser,
		Table:      "users",
		PrimaryKey: "id",
		Fields: []SchemaField{
			{Name: "id", Type: FieldText},
			{Name: "name", Type: FieldText, Nullable: true},
			{Name: "target", Type: FieldText, Nullable: true},
			{Name: "age", Type: FieldInt, Nullable: true},
			{Name: "gender", Type: FieldText, Nullable: true},
			{Name: "weight_kg", Type: FieldReal, Nullable: true},
			{Name: "height_cm", Type: FieldReal, Nullable: true},
			{Name: "activity_level", Type: FieldText, Nullable: true},
			{Name: "dietary_preference", Type: FieldText, Nullable: true},
			{Name: "created_at", Type: FieldTime},
			{Name: "updated_at", Type: FieldTime},
		},
	},
	KindMeal: {
		Kind:       KindMeal,
		Table:      "meals",
		PrimaryKey: "id",
		Fields: []SchemaField{
			{Name: "id", Type: FieldText},
			{Name: "key", Type: FieldText},
			{Name: "calories", Type: FieldInt},
			{Name: "protein_g", Type: FieldReal, Nullable: true},
			{Name: "carbs_g", Type: FieldReal, Nullable: true},
			{Name: "fat_g", Type: FieldReal, Nullable: true},
			{Name: "eaten_at", Type: FieldTime},
			{Name: "meal_type", Type: FieldText},
		},
	},
	KindWorkout: {
		Kind:       KindWorkout,
		Table:      "workouts",
		PrimaryKey: "id",
		Fields: []SchemaField{
			{Name: "id", Type: FieldText},
			{Name: "type", Type: FieldText},
			{Name: "duration_minutes", Type: FieldInt},
			{Name: "calories_burned", Type: FieldInt},
			{Name: "performed_at", Type: FieldTime},
			{Name: "notes", Type: FieldText, Nullable: true},
		},
	},
	KindWeight: {
		Kind:       KindWeight,
		Table:      "weights",
		PrimaryKey: "id",
		Fields: []SchemaField{
			{Name: "id", Type: FieldText},
			{Name: "weight_kg", Type: FieldReal},
			{Name: "recorded_at", Type: FieldTime},
		},
	},
}

// SchemaFor returns the schema of kind or an error for an unknown kind.
func SchemaFor(kind Kind) (Schema, error) {
	s, ok := Schemas[kind]
	if !ok {
		return Schema{}, fmt.Errorf("unknown record kind %q", kind)
	}
	return s, nil
}
