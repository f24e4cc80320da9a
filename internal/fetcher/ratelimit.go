package fetcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultInterval is the minimum spacing between requests to the same
// source when no override is configured (spec.md §4.3).
const defaultInterval = time.Second

// SourceRateLimiter enforces one token-bucket rate limiter per source key
// (the Fetcher keys by source host, e.g. "bailii.org"), each permitting
// at most one request per interval with no burst. Callers beyond the rate
// are delayed, never rejected.
type SourceRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// NewSourceRateLimiter builds a limiter keyed by source, defaulting every
// source to one request per interval (interval <= 0 uses the 1 s default).
func NewSourceRateLimiter(interval time.Duration) *SourceRateLimiter {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &SourceRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks, honouring ctx cancellation, until a request to source is
// permitted under its per-source rate limit.
func (s *SourceRateLimiter) Wait(ctx context.Context, source string) error {
	return s.limiterFor(source).Wait(ctx)
}

// SetInterval overrides the interval for one source.
func (s *SourceRateLimiter) SetInterval(source string, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[source] = rate.NewLimiter(rate.Every(interval), 1)
}

func (s *SourceRateLimiter) limiterFor(source string) *rate.Limiter {
	s.mu.RLock()
	l, ok := s.limiters[source]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.limiters[source]; ok {
		return l
	}
	l = rate.NewLimiter(rate.Every(s.interval), 1)
	s.limiters[source] = l
	return l
}
