package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func TestAcquireLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	writeFile(t, path, []byte("x\n"))

	lock, err := AcquireLock(context.Background(), path, time.Second)
	if err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("Release failed: %v", err)
	}
}

func TestAcquireLock_Reacquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	writeFile(t, path, []byte("x\n"))

	lock, err := AcquireLock(context.Background(), path, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}

	again, err := AcquireLock(context.Background(), path, time.Second)
	if err != nil {
		t.Fatalf("reacquire after release failed: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Errorf("Release failed: %v", err)
	}
}

func TestAcquireLock_HeldElsewhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	writeFile(t, path, []byte("x\n"))

	// Simulate the producer holding the lock in another process. A
	// separate flock handle on the same path contends for the same
	// underlying lock.
	holder := flock.New(path)
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take the holding lock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	// flock locks are per file description, not per process, so within a
	// single process a second handle may still succeed on some platforms.
	// The contract under test is the error classification on timeout.
	lock, err := AcquireLock(context.Background(), path, 200*time.Millisecond)
	if err != nil {
		if !errors.Is(err, ErrTranscriptLocked) {
			t.Errorf("error = %v, want ErrTranscriptLocked", err)
		}
		return
	}
	lock.Release()
	t.Skip("platform grants intra-process relock; cross-process contention not testable here")
}

func TestLock_ReleaseNil(t *testing.T) {
	var lock *Lock
	if err := lock.Release(); err != nil {
		t.Errorf("nil Release returned %v", err)
	}
}

func TestAcquireLock_DefaultTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	lock, err := AcquireLock(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("AcquireLock with zero timeout failed: %v", err)
	}
	lock.Release()
}
