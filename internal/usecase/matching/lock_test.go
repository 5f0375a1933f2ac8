package matching

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestGroupLock_ContendedAcquireTimesOut(t *testing.T) {
	g := newGroupLock()
	release, ok := g.acquire(context.Background(), "order-1", time.Second)
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	defer release()

	start := time.Now()
	if _, ok := g.acquire(context.Background(), "order-1", 50*time.Millisecond); ok {
		t.Fatal("second acquire should time out while the key is held")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("gave up too early: %v", elapsed)
	}
}

func TestGroupLock_DifferentKeysDoNotContend(t *testing.T) {
	g := newGroupLock()
	r1, ok := g.acquire(context.Background(), "order-1", time.Second)
	if !ok {
		t.Fatal("acquire order-1")
	}
	defer r1()
	r2, ok := g.acquire(context.Background(), "order-2", 10*time.Millisecond)
	if !ok {
		t.Fatal("unrelated key should be free")
	}
	r2()
}

func TestGroupLock_ReleaseHandsOver(t *testing.T) {
	g := newGroupLock()
	release, ok := g.acquire(context.Background(), "order-1", time.Second)
	if !ok {
		t.Fatal("first acquire")
	}

	acquired := make(chan struct{})
	go func() {
		r, ok := g.acquire(context.Background(), "order-1", time.Second)
		if ok {
			r()
			close(acquired)
		}
	}()

	time.Sleep(10 * time.Millisecond)
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never got the lock after release")
	}
}

func TestGroupLock_CancelledContextAborts(t *testing.T) {
	g := newGroupLock()
	release, _ := g.acquire(context.Background(), "order-1", time.Second)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if _, ok := g.acquire(ctx, "order-1", time.Minute); ok {
		t.Fatal("acquire should abort when the context is cancelled")
	}
}

func TestGroupLock_ReleaseIsIdempotent(t *testing.T) {
	g := newGroupLock()
	release, _ := g.acquire(context.Background(), "order-1", time.Second)
	release()
	release() // second call must not panic or free someone else's hold

	r2, ok := g.acquire(context.Background(), "order-1", time.Second)
	if !ok {
		t.Fatal("reacquire after release")
	}
	r2()
}

func TestGroupLock_SerializesCriticalSection(t *testing.T) {
	g := newGroupLock()
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		inside int
		peak   int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, ok := g.acquire(context.Background(), "order-1", 5*time.Second)
			if !ok {
				t.Error("acquire failed under contention")
				return
			}
			mu.Lock()
			inside++
			if inside > peak {
				peak = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()
	if peak != 1 {
		t.Fatalf("critical section overlapped: peak = %d", peak)
	}
}
