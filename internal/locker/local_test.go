package locker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
)

func TestLocalLockerExclusive(t *testing.T) {
	l := NewLocalLocker(50 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, ItemKey("beans"))
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	_, err = l.Acquire(ctx, ItemKey("beans"))
	if !errors.Is(err, apperr.ErrContention) {
		t.Fatalf("expected ErrContention while held, got %v", err)
	}

	// Other keys are independent.
	releaseOther, err := l.Acquire(ctx, ItemKey("maize"))
	if err != nil {
		t.Fatalf("independent key: %v", err)
	}
	releaseOther()

	release()
	release() // idempotent

	release, err = l.Acquire(ctx, ItemKey("beans"))
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release()

	if len(l.locks) != 0 {
		t.Errorf("expected lock table to be empty, got %d entries", len(l.locks))
	}
}

func TestLocalLockerPartialFailureReleases(t *testing.T) {
	l := NewLocalLocker(30 * time.Millisecond)
	ctx := context.Background()

	hold, err := l.Acquire(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}

	// "a" is taken before "b" times out; it must be given back.
	if _, err := l.Acquire(ctx, "b", "a"); !errors.Is(err, apperr.ErrContention) {
		t.Fatalf("expected ErrContention, got %v", err)
	}
	hold()

	release, err := l.Acquire(ctx, "a")
	if err != nil {
		t.Fatalf("key a should be free: %v", err)
	}
	release()
}

func TestLocalLockerOpposingOrderDoesNotDeadlock(t *testing.T) {
	l := NewLocalLocker(time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "x", "y")
			if err != nil {
				errs <- err
				return
			}
			release()
		}()
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "y", "x")
			if err != nil {
				errs <- err
				return
			}
			release()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLocalLockerHonoursCallerContext(t *testing.T) {
	l := NewLocalLocker(time.Second)

	hold, err := l.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatal(err)
	}
	defer hold()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Acquire(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
