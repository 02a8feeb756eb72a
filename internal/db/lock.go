package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smhrd/smartsearch/internal/fslock"
)

const (
	lockFileName = "state.lock"
	lockWait     = 500 * time.Millisecond
	lockPoll     = 10 * time.Millisecond
)

// ErrLocked is wrapped by the error returned when another process keeps the
// state lock past the wait
var ErrLocked = errors.New("state database is locked")

// lockHolder is written into the lock file by whoever holds it
type lockHolder struct {
	PID   int       `json:"pid"`
	Since time.Time `json:"since"`
}

// LockedError reports who held the lock when waiting gave up
type LockedError struct {
	Holder lockHolder
	Stale  bool
	Waited time.Duration
}

func (e *LockedError) Error() string {
	if e.Holder.PID == 0 {
		return fmt.Sprintf("%v after %v", ErrLocked, e.Waited)
	}
	msg := fmt.Sprintf("%v after %v: held by pid %d since %s",
		ErrLocked, e.Waited, e.Holder.PID, e.Holder.Since.Format(time.RFC3339))
	if e.Stale {
		msg += " (process gone)"
	}
	return msg
}

func (e *LockedError) Unwrap() error { return ErrLocked }

// stateLock serializes writers of one workspace's state database, so the CLI
// and a running TUI never interleave writes. The OS drops the lock when the
// holding process exits.
type stateLock struct {
	path string
	f    *os.File
}

func newStateLock(baseDir string) *stateLock {
	return &stateLock{path: filepath.Join(baseDir, stateDir, lockFileName)}
}

// acquire retries every lockPoll until wait has passed
func (l *stateLock) acquire(wait time.Duration) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	start := time.Now()
	tick := time.NewTicker(lockPoll)
	defer tick.Stop()
	for {
		if fslock.TryLock(f) == nil {
			l.f = f
			l.stamp()
			return nil
		}
		if time.Since(start) >= wait {
			f.Close()
			h, _ := readHolder(l.path)
			return &LockedError{
				Holder: h,
				Stale:  h.PID != 0 && !fslock.ProcessRunning(h.PID),
				Waited: wait,
			}
		}
		<-tick.C
	}
}

func (l *stateLock) release() {
	if l.f == nil {
		return
	}
	l.f.Truncate(0)
	fslock.Unlock(l.f)
	l.f.Close()
	l.f = nil
}

func (l *stateLock) stamp() {
	data, err := json.Marshal(lockHolder{PID: os.Getpid(), Since: time.Now().UTC().Truncate(time.Second)})
	if err != nil {
		return
	}
	l.f.Truncate(0)
	l.f.WriteAt(data, 0)
}

func readHolder(path string) (lockHolder, error) {
	var h lockHolder
	data, err := os.ReadFile(path)
	if err != nil {
		return h, err
	}
	err = json.Unmarshal(data, &h)
	return h, err
}
