package keylock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocker_SerializesSameKey(t *testing.T) {
	t.Parallel()

	l := New[uint64]()

	var (
		wg      sync.WaitGroup
		counter int // deliberately unsynchronized; the lock must protect it
	)

	for range 100 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			unlock, err := l.Lock(context.Background(), 7)
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			defer unlock()

			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}

	wg.Wait()

	if counter != 100 {
		t.Fatalf("lost updates: want 100, got %d", counter)
	}

	if n := l.Len(); n != 0 {
		t.Fatalf("slots not released: %d left", n)
	}
}

func TestLocker_TimeoutWhileHeld(t *testing.T) {
	t.Parallel()

	l := New[string]()

	unlock, err := l.Lock(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "user-1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}

	if n := l.Len(); n != 1 {
		t.Fatalf("waiter slot should be released, holder kept: want 1, got %d", n)
	}
}

func TestLocker_DifferentKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	l := New[uint64]()

	unlockA, err := l.Lock(t.Context(), 1)
	if err != nil {
		t.Fatalf("lock 1: %v", err)
	}
	defer unlockA()

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()

	unlockB, err := l.Lock(ctx, 2)
	if err != nil {
		t.Fatalf("lock 2 blocked by key 1: %v", err)
	}

	unlockB()
	unlockB() // second call is a no-op

	if n := l.Len(); n != 1 {
		t.Fatalf("want only key 1 held, got %d slots", n)
	}
}

func TestLocker_HandOffAfterUnlock(t *testing.T) {
	t.Parallel()

	l := New[uint64]()

	unlock, err := l.Lock(t.Context(), 9)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	acquired := make(chan struct{})

	go func() {
		u, lerr := l.Lock(context.Background(), 9)
		if lerr != nil {
			t.Errorf("second lock: %v", lerr)
			return
		}
		defer u()

		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held key")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second holder never acquired the key")
	}
}
