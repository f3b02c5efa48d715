// Package store persists session events to a JSONL log and provides indexed
// read-back of past steps. One store instance is created per spin run in
// cmd/spin/execute.go.
package store

import (
	"time"

	"github.com/LISSConsulting/mainloop/internal/session"
)

// Writer persists session events to durable storage.
type Writer interface {
	Append(entry session.LogEntry) error
	Close() error
}

// Reader retrieves past step data from storage.
type Reader interface {
	Steps() ([]StepSummary, error)
	StepLog(n int) ([]session.LogEntry, error)
	SessionSummary() (SessionSummary, error)
}

// Store combines Writer and Reader into a single session-scoped handle.
type Store interface {
	Writer
	Reader
}

// StepSummary summarises one completed step.
type StepSummary struct {
	Number   int
	Event    string // "continue" or "terminate"
	Duration float64
	Errors   int // LogError entries recorded during the step
	At       time.Time
}

// SessionSummary summarises a session.
type SessionSummary struct {
	SessionID string
	Project   string
	StartedAt time.Time
	Steps     int
	LastEvent string
	Outcome   string // "terminate", "stopped", "done" or "" while running
}
