package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrTranscriptLocked indicates another process holds the advisory lock on
// the live transcript (typically the producer appending new records). The
// operation is safe to retry later; nothing was mutated.
var ErrTranscriptLocked = errors.New("transcript is locked by another process")

// DefaultLockTimeout bounds advisory lock acquisition.
const DefaultLockTimeout = 5 * time.Second

// lockRetryInterval is the poll interval while waiting for the lock.
const lockRetryInterval = 100 * time.Millisecond

// Lock is a held advisory lock on a transcript file.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes an exclusive advisory lock on the file at path,
// polling until timeout. A lock held elsewhere or an expired timeout
// yields ErrTranscriptLocked.
func AcquireLock(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrTranscriptLocked, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrTranscriptLocked, path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrTranscriptLocked, path)
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. Safe to call on every exit path.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
