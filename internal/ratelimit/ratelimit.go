// Package ratelimit bounds the rate of poll-transport calls per session
// token / source address, using a token-bucket limiter per key so one
// noisy client cannot starve others sharing the relay. The SOCKS5
// front-end does not use it.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter holds one token-bucket rate.Limiter per key, created lazily and
// never removed except by Forget — the pollserver calls Forget when a
// session closes so the map doesn't grow without bound.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// New builds a Limiter allowing rps requests per second per key, with
// burst as the bucket's initial capacity.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a call under key may proceed right now, consuming
// one token if so. Callers on the ResourceExhausted path treat a false
// result as a rejection, not a failure to be retried automatically.
func (l *Limiter) Allow(key string) bool {
	return l.limiterFor(key).Allow()
}

func (l *Limiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Forget drops key's limiter state, reclaiming memory once a session is
// known to be gone.
func (l *Limiter) Forget(key string) {
	l.mu.Lock()
	delete(l.limiters, key)
	l.mu.Unlock()
}
