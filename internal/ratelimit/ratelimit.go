// Package ratelimit provides a per-client token bucket limiter for inbound requests.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long a client's bucket survives without requests.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter manages one token bucket per client key (usually an IP).
// Buckets idle for longer than the TTL are evicted by a background sweep.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*entry
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a limiter allowing rps requests per second per client with
// the given burst. Call Stop to end the eviction sweep.
func New(rps float64, burst int) *ClientLimiter {
	return NewWithTTL(rps, burst, DefaultIdleTTL)
}

// NewWithTTL is New with an explicit idle TTL. A non-positive ttl means
// DefaultIdleTTL.
func NewWithTTL(rps float64, burst int, ttl time.Duration) *ClientLimiter {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}

	cl := &ClientLimiter{
		clients: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
	}

	go cl.sweepLoop()

	return cl
}

// Allow reports whether a request from key may proceed. Never blocks.
func (cl *ClientLimiter) Allow(key string) bool {
	cl.mu.Lock()
	e, ok := cl.clients[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[key] = e
	}
	e.lastSeen = cl.now()
	cl.mu.Unlock()

	return e.limiter.Allow()
}

// Len returns the number of tracked clients.
func (cl *ClientLimiter) Len() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.clients)
}

// Stop ends the eviction sweep.
func (cl *ClientLimiter) Stop() {
	cl.stopOnce.Do(func() {
		close(cl.done)
	})
}

// evictIdle drops clients not seen within the TTL.
func (cl *ClientLimiter) evictIdle() {
	cutoff := cl.now().Add(-cl.ttl)

	cl.mu.Lock()
	defer cl.mu.Unlock()
	for key, e := range cl.clients {
		if e.lastSeen.Before(cutoff) {
			delete(cl.clients, key)
		}
	}
}

func (cl *ClientLimiter) sweepLoop() {
	ticker := time.NewTicker(cl.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cl.evictIdle()
		case <-cl.done:
			return
		}
	}
}
