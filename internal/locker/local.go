package locker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// LocalLocker serializes work inside one process.
type LocalLocker struct {
	mu      sync.Mutex
	locks   map[string]*entry
	timeout time.Duration
}

func NewLocalLocker(timeout time.Duration) *LocalLocker {
	return &LocalLocker{
		locks:   make(map[string]*entry),
		timeout: timeout,
	}
}

func (l *LocalLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)

	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	held := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.lock(waitCtx, key); err != nil {
			l.unlockAll(held)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() { once.Do(func() { l.unlockAll(held) }) }, nil
}

func (l *LocalLocker) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(key, e)
		return apperr.ErrContention
	}
}

func (l *LocalLocker) unlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		e := l.locks[keys[i]]
		l.mu.Unlock()
		<-e.ch
		l.unref(keys[i], e)
	}
}

func (l *LocalLocker) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
