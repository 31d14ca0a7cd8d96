// Package lock serialises clock-in and clock-out per driver so the
// read-then-write sequence in the shift lifecycle cannot interleave.
package lock

import (
	"context"
	"errors"
	"sync"
)

var ErrNotAcquired = errors.New("lock not acquired")

// ReleaseFunc releases a held lock. It is safe to call once.
type ReleaseFunc func(ctx context.Context) error

type Locker interface {
	// Acquire blocks until the lock for key is held or ctx is done.
	Acquire(ctx context.Context, key string) (ReleaseFunc, error)
}

// LocalLocker is an in-process Locker for single-instance deployments and tests.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-ch })
		return nil
	}, nil
}

// DriverKey is the lock key guarding a driver's shift state.
func DriverKey(driverID string) string {
	return "lock:shift:driver:" + driverID
}

// AdvanceKey is the lock key guarding a driver's advance requests.
func AdvanceKey(driverID string) string {
	return "lock:advance:driver:" + driverID
}
