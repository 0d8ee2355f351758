// Package ratelimit provides per-client request limiting using a token
// bucket per (client, endpoint tier). Analysis runs call an external
// provider, so their tier is far stricter than plain reads.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// bucket is a token bucket refilling at a steady rate.
type bucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

func (b *bucket) status() (remaining int, resetTime time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	remaining = int(b.tokens)
	if b.tokens >= float64(b.capacity) {
		return remaining, b.lastRefill
	}
	needed := float64(b.capacity) - b.tokens
	return remaining, b.lastRefill.Add(time.Duration(needed / b.refillRate * float64(time.Second)))
}

// refill is called with the lock held.
func (b *bucket) refill() {
	now := time.Now()
	b.tokens = min(float64(b.capacity), b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
}

// Info describes the limit state returned alongside an Allow decision.
type Info struct {
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks buckets per client and endpoint tier. Idle buckets are
// swept periodically so one-off clients do not accumulate forever.
type Limiter struct {
	config  *Config
	buckets map[string]*bucket
	touched map[string]time.Time
	mu      sync.Mutex
	stop    chan struct{}
}

// NewLimiter creates a limiter and starts its cleanup loop.
func NewLimiter(config *Config) *Limiter {
	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
		touched: make(map[string]time.Time),
		stop:    make(chan struct{}),
	}
	if config.Enabled {
		go l.cleanupLoop()
	}
	return l
}

// Allow reports whether the client may hit the endpoint now.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{}
	}

	tier := l.config.tierFor(path, method)
	key := clientID + "|" + tier.name

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(tier.Burst, float64(tier.Limit)/tier.Window.Seconds())
		l.buckets[key] = b
	}
	l.touched[key] = time.Now()
	l.mu.Unlock()

	allowed := b.allow()
	remaining, reset := b.status()
	info := Info{Limit: tier.Limit, Remaining: remaining, ResetTime: reset}
	if !allowed {
		info.RetryAfter = time.Until(reset)
		if info.RetryAfter < 0 {
			info.RetryAfter = 0
		}
	}
	return allowed, info
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) sweep() {
	cutoff := time.Now().Add(-2 * l.config.CleanupInterval)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.touched {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.touched, key)
		}
	}
}

// tierFor matches a request to the strictest tier whose path prefix applies.
func (c *Config) tierFor(path, method string) Tier {
	for _, tier := range c.Tiers {
		if tier.Method == method && strings.HasPrefix(path, tier.Path) {
			return tier
		}
	}
	return c.defaultTier()
}
