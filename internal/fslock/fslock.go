// Package fslock wraps the platform's advisory whole-file lock. Locks are
// dropped by the OS when the holding process exits.
package fslock

import (
	"errors"
	"os"
	"time"
)

// ErrTimeout is returned by Lock when the file stays locked past the wait
var ErrTimeout = errors.New("timed out waiting for file lock")

const poll = 10 * time.Millisecond

// Lock polls TryLock until it succeeds or wait has passed.
func Lock(f *os.File, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		if TryLock(f) == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(poll)
	}
}
