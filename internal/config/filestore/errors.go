package filestore

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLocked is returned when the exclusive lock on a config file could
	// not be acquired within the lock timeout.
	ErrLocked = errors.New("config file is locked")

	// ErrReadOnly is returned when writing to a read-only backend.
	ErrReadOnly = errors.New("config backend is read-only")

	// ErrLockReleased is returned when using a Lock after Release.
	ErrLockReleased = errors.New("config lock already released")
)

// LockInfo is recorded in the lock file by the current holder.
type LockInfo struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Who       string    `json:"who"`
	Created   time.Time `json:"created"`
}

// LockError reports a lock that stayed contended for the whole wait.
type LockError struct {
	Path   string
	Waited time.Duration
	Holder *LockInfo // nil when the holder could not be determined
}

func (e *LockError) Error() string {
	msg := fmt.Sprintf("could not lock %s after %s", e.Path, e.Waited)
	if e.Holder != nil {
		msg += fmt.Sprintf(" (held by %s for %s, lock %s)", e.Holder.Who, e.Holder.Operation, e.Holder.ID)
	}
	return msg
}

func (e *LockError) Unwrap() error {
	return ErrLocked
}
