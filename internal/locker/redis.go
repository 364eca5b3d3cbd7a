package locker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LockClient is satisfied by *cache.RedisClient.
type LockClient interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// RedisLocker shares locks across service instances.
type RedisLocker struct {
	client  LockClient
	ttl     time.Duration
	retries int
	wait    time.Duration
	logger  logger.ZapLogger
}

// NewRedisLocker tries each key up to retries times, sleeping wait between
// attempts. ttl must outlive the longest expected critical section.
func NewRedisLocker(client LockClient, ttl time.Duration, retries int, wait time.Duration, log logger.ZapLogger) *RedisLocker {
	if retries < 1 {
		retries = 1
	}
	return &RedisLocker{
		client:  client,
		ttl:     ttl,
		retries: retries,
		wait:    wait,
		logger:  log,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	token := uuid.New().String()

	held := make([]string, 0, len(keys))
	for _, key := range keys {
		lockKey := "lock:store:" + key
		if err := l.lock(ctx, lockKey, token); err != nil {
			l.releaseAll(held, token)
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		held = append(held, lockKey)
	}

	var once sync.Once
	return func() { once.Do(func() { l.releaseAll(held, token) }) }, nil
}

func (l *RedisLocker) lock(ctx context.Context, key, token string) error {
	for i := 0; i < l.retries; i++ {
		ok, err := l.client.AcquireLock(ctx, key, token, l.ttl)
		if err != nil {
			l.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return nil
		}
		if i < l.retries-1 {
			select {
			case <-time.After(l.wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return apperr.ErrContention
}

func (l *RedisLocker) releaseAll(keys []string, token string) {
	// Released on a fresh context: the request context may already be done.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		if err := l.client.ReleaseLock(ctx, keys[i], token); err != nil {
			l.logger.Warn("failed to release lock", zap.String("key", keys[i]), zap.Error(err))
		}
	}
}
