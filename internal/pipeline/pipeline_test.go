package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/fetcher"
	"github.com/legalaudit/crvc/internal/fetcher/store"
	"github.com/legalaudit/crvc/internal/resolver"
	"github.com/legalaudit/crvc/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	policy := compliance.NewPolicy()
	rl := fetcher.NewSourceRateLimiter(time.Millisecond)
	f := fetcher.New(policy, rl, store.New(t.TempDir()))
	return New(resolver.New(policy, rl, f))
}

func TestResolveManyPreservesInputOrder(t *testing.T) {
	o := newTestOrchestrator(t)

	requests := []Request{
		{CitationText: "[2015] UKSC 11"},
		{CitationText: "not a citation"},
		{CitationText: "[2020] EWCA Civ 5"},
		{CitationText: ""},
	}

	results := o.ResolveMany(context.Background(), requests, Options{})
	require.Len(t, results, 4)

	assert.Equal(t, "[2015] UKSC 11", results[0].CitationText)
	assert.Equal(t, models.ResolutionAmbiguous, results[0].Status)

	assert.Equal(t, "not a citation", results[1].CitationText)
	assert.Equal(t, models.ResolutionUnresolvable, results[1].Status)

	assert.Equal(t, "[2020] EWCA Civ 5", results[2].CitationText)
	assert.Equal(t, models.ResolutionAmbiguous, results[2].Status)

	assert.Equal(t, models.ResolutionUnresolvable, results[3].Status)
	assert.Contains(t, results[3].Notes, "empty citation")
}

func TestResolveManyCapsConcurrencyAtTen(t *testing.T) {
	o := newTestOrchestrator(t)

	requests := make([]Request, 25)
	for i := range requests {
		requests[i] = Request{CitationText: "[2015] UKSC 11"}
	}

	results := o.ResolveMany(context.Background(), requests, Options{})
	require.Len(t, results, 25)
	for _, r := range results {
		assert.Equal(t, models.ResolutionAmbiguous, r.Status)
	}
}

func TestResolveManyRespectsCancellation(t *testing.T) {
	o := newTestOrchestrator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	requests := []Request{{CitationText: "[2015] UKSC 11"}}
	results := o.ResolveMany(ctx, requests, Options{})
	require.Len(t, results, 1)
	assert.True(t, results[0].Cancelled)
}
