package app

import "time"

// Operation identifies one CLI invocation. Its ID tags every log line the
// invocation writes, and its outcome is logged when the app is closed.
type Operation struct {
	Name      string
	ID        string
	StartedAt time.Time
	Status    string // "success" or "error"
}

// NewOperation creates an operation named after the CLI command being run.
func NewOperation(name string, now time.Time) *Operation {
	return &Operation{
		Name:      name,
		ID:        now.UTC().Format("20060102T150405Z"),
		StartedAt: now,
		Status:    "success",
	}
}

// Fail marks the operation as unsuccessful.
func (op *Operation) Fail() {
	op.Status = "error"
}

// Failed reports whether Fail has been called.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
