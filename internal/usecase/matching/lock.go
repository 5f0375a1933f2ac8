package matching

import (
	"context"
	"sync"
	"time"
)

// groupLock serializes work on one order group. Acquisition is bounded: a
// holder that does not release within the caller's timeout makes the caller
// fail fast instead of queueing forever, so contention surfaces as
// ErrConcurrentModification upstream rather than as a deadlock.
type groupLock struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func newGroupLock() *groupLock {
	return &groupLock{held: make(map[string]chan struct{})}
}

// acquire blocks until the key is free, the timeout elapses, or ctx is done.
// On success it returns the release func; the caller must invoke it exactly once.
func (g *groupLock) acquire(ctx context.Context, key string, timeout time.Duration) (func(), bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		g.mu.Lock()
		ch, busy := g.held[key]
		if !busy {
			done := make(chan struct{})
			g.held[key] = done
			g.mu.Unlock()
			var once sync.Once
			return func() {
				once.Do(func() {
					g.mu.Lock()
					delete(g.held, key)
					g.mu.Unlock()
					close(done)
				})
			}, true
		}
		g.mu.Unlock()

		select {
		case <-ch:
			// holder released; race for it again
		case <-deadline.C:
			return nil, false
		case <-ctx.Done():
			return nil, false
		}
	}
}
