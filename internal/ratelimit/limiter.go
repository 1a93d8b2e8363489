// Package ratelimit provides per-host token-bucket rate limiters for outbound fetches.
package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits requests per URL host using token buckets.
// Buckets are created lazily the first time a host is seen.
type HostLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter

	perSecond float64
	burst     int
}

// NewHostLimiter creates a limiter allowing perSecond requests to each host.
// A non-positive rate disables limiting; burst is raised to at least 1.
func NewHostLimiter(perSecond float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiters:  make(map[string]*rate.Limiter),
		perSecond: perSecond,
		burst:     burst,
	}
}

// Enabled reports whether the limiter throttles anything.
func (hl *HostLimiter) Enabled() bool {
	return hl != nil && hl.perSecond > 0
}

// Wait blocks until a token is available for the host of rawURL, or ctx is cancelled.
func (hl *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	if !hl.Enabled() {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("rate limit: parse url: %w", err)
	}
	if err := hl.limiterFor(u.Host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", u.Host, err)
	}
	return nil
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.RLock()
	limiter, ok := hl.limiters[host]
	hl.mu.RUnlock()
	if ok {
		return limiter
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()
	if limiter, ok := hl.limiters[host]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Limit(hl.perSecond), hl.burst)
	hl.limiters[host] = limiter
	return limiter
}

// Hosts returns the number of hosts seen so far.
func (hl *HostLimiter) Hosts() int {
	hl.mu.RLock()
	defer hl.mu.RUnlock()
	return len(hl.limiters)
}
