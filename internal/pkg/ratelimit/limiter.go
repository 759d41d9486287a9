// Package ratelimit provides per-client token bucket limiting for public endpoints.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nekogravitycat/canchas/internal/pkg/clock"
)

// Config holds rate limit configuration.
type Config struct {
	RPS     float64       // Sustained requests per second per key
	Burst   int           // Bucket size
	IdleTTL time.Duration // Entries idle longer than this are dropped on sweep (default: 10m)

	// Clock for testing (nil uses real time)
	Clock clock.Clock
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		RPS:     1,
		Burst:   10,
		IdleTTL: 10 * time.Minute,
	}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key (usually the client IP).
type Limiter struct {
	cfg   Config
	clock clock.Clock

	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
}

// New creates a Limiter. Zero fields in cfg take their defaults.
func New(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.RPS <= 0 {
		cfg.RPS = def.RPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	return &Limiter{
		cfg:       cfg,
		clock:     clk,
		entries:   make(map[string]*entry),
		lastSweep: clk.Now(),
	}
}

// Allow reports whether one more request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// sweep drops idle entries at most once per IdleTTL. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.cfg.IdleTTL {
		return
	}
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > l.cfg.IdleTTL {
			delete(l.entries, k)
		}
	}
	l.lastSweep = now
}
