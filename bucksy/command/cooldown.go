package command

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type cooldownKey struct {
	command string
	user    string
}

// CooldownTracker remembers the last time a user ran a command. Entries are
// expired lazily on read and swept by Run.
type CooldownTracker struct {
	mu   sync.Mutex
	last map[cooldownKey]time.Time
	now  func() time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		last: make(map[cooldownKey]time.Time),
		now:  time.Now,
	}
}

// WithClock swaps the time source, used by tests.
func (c *CooldownTracker) WithClock(now func() time.Time) *CooldownTracker {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

func (c *CooldownTracker) Hit(command, user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[cooldownKey{command, user}] = c.now()
}

// Remaining is how long the user still has to wait, zero when free.
func (c *CooldownTracker) Remaining(command, user string, window time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked(cooldownKey{command, user}, window)
}

// Acquire checks and records in one step so two concurrent invocations
// cannot both pass.
func (c *CooldownTracker) Acquire(command, user string, window time.Duration) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cooldownKey{command, user}
	if remaining := c.remainingLocked(key, window); remaining > 0 {
		return remaining, false
	}
	c.last[key] = c.now()
	return 0, true
}

func (c *CooldownTracker) remainingLocked(key cooldownKey, window time.Duration) time.Duration {
	last, ok := c.last[key]
	if !ok {
		return 0
	}
	elapsed := c.now().Sub(last)
	if elapsed >= window {
		delete(c.last, key)
		return 0
	}
	return window - elapsed
}

// Purge drops entries older than maxAge and reports how many were removed.
func (c *CooldownTracker) Purge(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, last := range c.last {
		if now.Sub(last) >= maxAge {
			delete(c.last, key)
			removed++
		}
	}
	return removed
}

func (c *CooldownTracker) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.last)
}

// Run purges on every tick until ctx is cancelled.
func (c *CooldownTracker) Run(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.Purge(maxAge); removed > 0 {
				slog.Debug("Purged cooldowns",
					slog.String("type", "sys"),
					slog.Int("removed", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}
