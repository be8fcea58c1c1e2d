package storage

import (
	"fmt"

	"github.com/gofrs/flock"
)

// Lock is an advisory cross-process lock on a cache file
type Lock struct {
	flock *flock.Flock
	path  string
}

// NewLock creates a lock for the cache at cachePath.
// The lock file is cachePath with a ".lock" suffix.
func NewLock(cachePath string) *Lock {
	path := cachePath + ".lock"
	return &Lock{
		flock: flock.New(path),
		path:  path,
	}
}

// TryLock acquires the lock without blocking.
// It returns false if another process holds it.
func (l *Lock) TryLock() (bool, error) {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock
func (l *Lock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.path
}
