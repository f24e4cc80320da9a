package commands

import (
	"time"

	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/config"
	"github.com/legalaudit/crvc/internal/fetcher"
	"github.com/legalaudit/crvc/internal/fetcher/store"
	"github.com/legalaudit/crvc/internal/resolver"
)

// newResolverStack builds the same policy/rate-limiter/fetcher/resolver
// chain cmd/kite-api wires for the HTTP surface, for the CLI's one-shot
// resolve/fetch/batch subcommands.
func newResolverStack(cfg *config.Config) (*fetcher.Fetcher, *resolver.Resolver) {
	policy := compliance.NewPolicy()
	rateLimitInterval := time.Minute / time.Duration(cfg.Scraper.RateLimitPerMin)
	rateLimiter := fetcher.NewSourceRateLimiter(rateLimitInterval)
	contentStore := store.New(cfg.Scraper.CacheDir)
	f := fetcher.New(policy, rateLimiter, contentStore)
	r := resolver.New(policy, rateLimiter, f)
	return f, r
}
