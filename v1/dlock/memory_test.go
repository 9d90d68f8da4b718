package dlock

import (
	"context"
	"errors"
	"testing"
	"time"

	werrors "github.com/mirkobrombin/go-warp-sync/v1/errors"
)

func TestInMemoryTryLockAcquireRelease(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	ok, err := l.TryLock(ctx, "k", time.Second)
	if err != nil || !ok {
		t.Fatalf("trylock: %v ok %v", err, ok)
	}
	if ok, err := l.TryLock(ctx, "k", time.Second); err != nil || ok {
		t.Fatalf("expected lock held, got ok %v err %v", ok, err)
	}
	if err := l.Release(ctx, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, err := l.TryLock(ctx, "k", time.Second); err != nil || !ok {
		t.Fatalf("expected lock re-acquired, ok %v err %v", ok, err)
	}
}

func TestInMemoryAcquireTimeout(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	_, _ = l.TryLock(ctx, "k", 0)

	cctx, cancel := context.WithTimeout(ctx, 5*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := l.Acquire(cctx, "k", 0)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 20*time.Millisecond {
		t.Fatal("acquire did not respect context timeout")
	}
}

func TestInMemoryLockTTLExpires(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	if ok, err := l.TryLock(ctx, "k", 10*time.Millisecond); err != nil || !ok {
		t.Fatalf("trylock: %v ok %v", err, ok)
	}
	time.Sleep(20 * time.Millisecond)
	if ok, err := l.TryLock(ctx, "k", 0); err != nil || !ok {
		t.Fatalf("lock should expire, ok %v err %v", ok, err)
	}
}

func TestInMemoryReleaseNotHeld(t *testing.T) {
	l := NewInMemory()
	if err := l.Release(context.Background(), "k"); !errors.Is(err, werrors.ErrNotHeld) {
		t.Fatalf("expected ErrNotHeld, got %v", err)
	}
}

func TestInMemoryAcquireWakesWaiter(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	if ok, err := l.TryLock(ctx, "k", 0); err != nil || !ok {
		t.Fatalf("trylock: %v ok %v", err, ok)
	}
	acquired := make(chan error, 1)
	go func() {
		acquired <- l.Acquire(ctx, "k", 0)
	}()
	select {
	case err := <-acquired:
		t.Fatalf("acquire succeeded while key was held: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
	if err := l.Release(ctx, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	select {
	case err := <-acquired:
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for blocked acquire")
	}
}
