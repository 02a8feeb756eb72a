//go:build unix

package fslock

import (
	"os"
	"syscall"
)

// TryLock takes an exclusive lock on f without blocking
func TryLock(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

// Unlock releases a lock taken by TryLock or Lock
func Unlock(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}

// ProcessRunning sends signal 0, which only checks that pid exists
func ProcessRunning(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
