package gateway

import (
	"encoding/json"
	"errors"
)

// RemoteRejection is returned when the record store refuses an operation or
// cannot be reached. Op names the attempted action, e.g. "create invoice".
type RemoteRejection struct {
	Op      string
	Message string

	// Succeeded holds records of a batch write that did land in the store
	// even though the operation as a whole was rejected.
	Succeeded []json.RawMessage

	Err error
}

func (e *RemoteRejection) Error() string {
	if e.Message == "" {
		return "Failed to " + e.Op
	}
	return "Failed to " + e.Op + ": " + e.Message
}

func (e *RemoteRejection) Unwrap() error {
	return e.Err
}

var (
	// ErrTimerRunning is returned when starting a timer on a task that already has one.
	ErrTimerRunning = errors.New("timer already running")
	// ErrNoActiveTimer is returned when stopping a task without a running timer.
	ErrNoActiveTimer = errors.New("no active timer")
	// ErrTimeLogMissing is returned when a task's running time log no longer
	// exists. The timer has been cleared and no time was recorded.
	ErrTimeLogMissing = errors.New("time log missing, timer cleared")
)
