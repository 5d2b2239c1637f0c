// Package keylock provides one mutex per key. Holders of different keys never
// wait on each other, and waiting for a busy key is bounded by a context.
package keylock

import (
	"context"
	"fmt"
	"sync"
)

type slot struct {
	ch   chan struct{}
	refs int
}

// Locker hands out per-key slots. Slots are created on demand and dropped as
// soon as nobody holds or waits for them, so the map stays as small as the
// set of keys currently in use.
type Locker[K comparable] struct {
	mu    sync.Mutex
	slots map[K]*slot
}

func New[K comparable]() *Locker[K] {
	return &Locker[K]{slots: make(map[K]*slot)}
}

// Lock blocks until the slot for key is free or ctx is done. The returned
// unlock func is safe to call more than once.
func (l *Locker[K]) Lock(ctx context.Context, key K) (func(), error) {
	s := l.acquire(key)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, s)
		return nil, fmt.Errorf("wait for key %v: %w", key, ctx.Err())
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-s.ch
			l.release(key, s)
		})
	}, nil
}

// Len reports how many keys are currently held or awaited.
func (l *Locker[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.slots)
}

func (l *Locker[K]) acquire(key K) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}

	s.refs++

	return s
}

func (l *Locker[K]) release(key K, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
