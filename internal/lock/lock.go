// Package lock provides the single-executor discipline for a manifest:
// an exclusive flock on a sidecar lock file. Concurrent executors against
// the same manifest are unsupported, so acquisition never blocks.
package lock

import (
	"fmt"
	"os"
	"syscall"
)

// ManifestLock guards one manifest file. Zero value is not usable; create
// with New.
type ManifestLock struct {
	path string
	file *os.File
}

// New returns a lock for the given manifest path. The lock file lives next
// to the manifest as <manifest>.lock.
func New(manifestPath string) *ManifestLock {
	return &ManifestLock{path: manifestPath + ".lock"}
}

// Acquire takes the exclusive lock or fails immediately if another executor
// holds it. The holder's PID is written into the lock file for operators.
func (l *ManifestLock) Acquire() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return fmt.Errorf("manifest is locked by another executor: %w", err)
	}

	if err := f.Truncate(0); err != nil {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
		return fmt.Errorf("write PID to lock file: %w", err)
	}

	l.file = f
	return nil
}

// Release drops the lock and removes the lock file.
func (l *ManifestLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("release lock: %w", err)
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close lock file: %w", err)
	}

	os.Remove(l.path)
	l.file = nil
	return nil
}
