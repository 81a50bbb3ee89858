package command

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCooldownTracker_Remaining(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldownTracker().WithClock(clock.Now)

	if got := c.Remaining("spin", "u1", 5*time.Second); got != 0 {
		t.Fatalf("Remaining() before any hit = %v, want 0", got)
	}

	c.Hit("spin", "u1")
	clock.Advance(2 * time.Second)

	if got := c.Remaining("spin", "u1", 5*time.Second); got != 3*time.Second {
		t.Errorf("Remaining() = %v, want 3s", got)
	}
	if got := c.Remaining("spin", "u2", 5*time.Second); got != 0 {
		t.Errorf("Remaining() other user = %v, want 0", got)
	}
	if got := c.Remaining("balance", "u1", 5*time.Second); got != 0 {
		t.Errorf("Remaining() other command = %v, want 0", got)
	}

	clock.Advance(4 * time.Second)
	if got := c.Remaining("spin", "u1", 5*time.Second); got != 0 {
		t.Errorf("Remaining() after window = %v, want 0", got)
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not dropped on read, Len() = %d", c.Len())
	}
}

func TestCooldownTracker_Acquire(t *testing.T) {
	c := NewCooldownTracker()

	var wg sync.WaitGroup
	var mu sync.Mutex
	passed := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := c.Acquire("spin", "u1", time.Minute); ok {
				mu.Lock()
				passed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if passed != 1 {
		t.Errorf("Acquire() let %d concurrent calls through, want 1", passed)
	}
}

func TestCooldownTracker_Purge(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldownTracker().WithClock(clock.Now)

	c.Hit("spin", "old")
	clock.Advance(time.Minute)
	c.Hit("spin", "new")
	clock.Advance(30 * time.Second)

	if removed := c.Purge(time.Minute); removed != 1 {
		t.Errorf("Purge() removed %d, want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCooldownTracker_RunStops(t *testing.T) {
	c := NewCooldownTracker()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
