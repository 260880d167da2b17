package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the instant stamped on new records and on profile changes.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator supplies primary keys for new records.
type IDGenerator interface {
	New() string
}

// UUIDGenerator keys records with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// Logger receives one line per record mutation. args alternate keys and values.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger drops every line.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

// RecordStore is the only path between domain code and the object store.
// It validates input, stamps identity and timestamps, and converts between
// typed records and store Fields. Callers receive copies, never references
// into the store.
type RecordStore struct {
	store  ObjectStore
	logger Logger
	clock  Clock
	idgen  IDGenerator
	loc    *time.Location
}

// NewRecordStore creates a RecordStore over store. Calendar days are computed in loc;
// a nil loc means time.Local.
func NewRecordStore(store ObjectStore, logger Logger, clock Clock, idgen IDGenerator, loc *time.Location) *RecordStore {
	if loc == nil {
		loc = time.Local
	}
	return &RecordStore{
		store:  store,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
		loc:    loc,
	}
}

// Location returns the time zone used for calendar-day boundaries.
func (s *RecordStore) Location() *time.Location {
	return s.loc
}

// available fails fast when the store has not signalled readiness.
func (s *RecordStore) available() error {
	select {
	case <-s.store.Ready():
		return nil
	default:
		return ErrStoreUnavailable
	}
}

// StartOfDay returns local midnight of the calendar day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last representable instant of the calendar day containing t.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
