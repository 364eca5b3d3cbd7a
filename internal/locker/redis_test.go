package locker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/pkg/cache"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
)

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewRedisLocker(client, 5*time.Second, 3, 10*time.Millisecond, logger.NewNopLogger()), mr
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, ItemKey("beans"), CardKey("m1", 2025))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !mr.Exists("lock:store:item:beans") || !mr.Exists("lock:store:card:m1:2025") {
		t.Fatal("expected both lock keys to be set")
	}

	if _, err := l.Acquire(ctx, ItemKey("beans")); !errors.Is(err, apperr.ErrContention) {
		t.Fatalf("expected ErrContention, got %v", err)
	}
	// The failed attempt must not have released the holder's card lock.
	if !mr.Exists("lock:store:card:m1:2025") {
		t.Fatal("card lock was released by a competing request")
	}

	release()
	if mr.Exists("lock:store:item:beans") {
		t.Fatal("expected lock key to be deleted on release")
	}
}

func TestRedisLockerDoesNotReleaseForeignToken(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}

	// Simulate expiry followed by another holder.
	mr.Set("lock:store:k", "someone-else")
	release()

	got, err := mr.Get("lock:store:k")
	if err != nil || got != "someone-else" {
		t.Fatalf("foreign lock was touched: value=%q err=%v", got, err)
	}
}
