package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStoreUnavailable is returned while the backing store is still initializing
// or after it has been closed. Callers should wait for readiness and retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrProfileExists is returned when creating a profile while one already exists.
var ErrProfileExists = errors.New("profile already exists")

// FieldError describes one rejected input field.
type FieldError struct {
	Field      string
	Value      any
	Constraint string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Constraint, e.Value)
}

// ValidationError is returned when caller-supplied input violates a record invariant.
// It lists every rejected field so the presentation layer can report them individually.
type ValidationError struct {
	Kind   Kind
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, "; "))
}

// Field returns the error for the named field, if any.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// StoreError wraps a failure reported by the underlying object store.
type StoreError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// wrapStoreErr tags a store failure with the operation and kind.
// Unavailability is passed through as the bare sentinel.
func wrapStoreErr(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return ErrStoreUnavailable
	}
	return &StoreError{Op: op, Kind: kind, Err: err}
}
