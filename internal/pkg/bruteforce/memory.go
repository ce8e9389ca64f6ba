package bruteforce

import (
	"context"
	"sync"
	"time"

	"github.com/herkeens/Secure-Payment-App/internal/pkg/logx"
)

// entry tracks one identity's failure count inside the current window.
type entry struct {
	count        int
	windowExpiry time.Time
	blockedUntil time.Time
}

// expired reports whether the entry carries no live state at the given instant.
func (e *entry) expired(now time.Time) bool {
	return now.After(e.windowExpiry) && now.After(e.blockedUntil)
}

// MemoryGuard is a process-local Guard implementation.
// It is suitable for single-instance deployments only: counters are not
// shared, so a multi-instance deployment must use the Redis backend.
type MemoryGuard struct {
	mu      sync.Mutex
	entries map[string]*entry
	cfg     Config

	// now is swappable so tests can drive the clock.
	now func() time.Time
}

// NewMemoryGuard creates a MemoryGuard and starts a background goroutine that
// periodically removes expired entries, preventing unbounded memory growth.
func NewMemoryGuard(cfg Config) *MemoryGuard {
	g := &MemoryGuard{
		entries: make(map[string]*entry),
		cfg:     cfg,
		now:     time.Now,
	}

	go g.cleanUp()

	return g
}

// Consume implements Guard. Check and lockout decision happen under one lock,
// so concurrent attempts against the same identity cannot slip past the budget.
func (g *MemoryGuard) Consume(_ context.Context, identity string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()

	e, ok := g.entries[identity]
	if !ok {
		return nil
	}

	if now.Before(e.blockedUntil) {
		return ErrLimited
	}

	if now.After(e.windowExpiry) {
		delete(g.entries, identity)
		return nil
	}

	if e.count >= g.cfg.Points {
		return ErrLimited
	}

	return nil
}

// Penalty implements Guard. The attempt that exhausts the budget arms the block.
func (g *MemoryGuard) Penalty(_ context.Context, identity string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()

	e, ok := g.entries[identity]
	if !ok || e.expired(now) {
		e = &entry{windowExpiry: now.Add(g.cfg.Window)}
		g.entries[identity] = e
	} else if now.After(e.windowExpiry) && !now.Before(e.blockedUntil) {
		// Window lapsed with no live block: start a fresh window.
		e.count = 0
		e.windowExpiry = now.Add(g.cfg.Window)
	}

	e.count++
	if e.count >= g.cfg.Points {
		e.blockedUntil = now.Add(g.cfg.Block)
	}

	return nil
}

// Reset implements Guard.
func (g *MemoryGuard) Reset(_ context.Context, identity string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.entries, identity)
	return nil
}

// cleanUp periodically removes entries whose window and block have both lapsed.
func (g *MemoryGuard) cleanUp() {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		g.mu.Lock()
		now := g.now()
		count := 0
		for identity, e := range g.entries {
			if e.expired(now) {
				delete(g.entries, identity)
				count++
			}
		}
		remaining := len(g.entries)
		g.mu.Unlock()
		logx.Info("Brute-force guard cleanup finished.", "removed", count, "remaining", remaining)
	}
}
