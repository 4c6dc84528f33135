package store

import (
	"context"
	"errors"
)

// Record is the persisted identity of the managed child process.
// StartUnix is the child's start time in Unix seconds; a record whose
// StartUnix disagrees with the live process at the same PID refers to a
// recycled PID, not our child. Zero means unknown (legacy records carry
// only the PID).
type Record struct {
	PID       int   `json:"pid"`
	StartUnix int64 `json:"start_unix,omitempty"`
}

// ErrNotFound is returned by Load when no record exists.
var ErrNotFound = errors.New("pid record not found")

// Store persists the single PID record for the managed application.
// Clear on an absent record is not an error.
type Store interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
	// Lock takes an advisory exclusive lock guarding mutating command
	// sequences (start/stop/restart). The returned func releases it.
	// Best-effort: callers treat acquisition failure as non-fatal.
	Lock(ctx context.Context) (func(), error)
}
