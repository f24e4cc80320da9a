// Package pipeline implements the Pipeline Orchestrator (spec.md §4.9):
// batching §4.7 resolution across many citations with bounded parallelism,
// preserving input order in the output regardless of completion order.
package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/legalaudit/crvc/internal/resolver"
	"github.com/legalaudit/crvc/pkg/models"
)

// maxConcurrency is the hard cap spec.md §4.9 sets regardless of batch size.
const maxConcurrency = 10

// Request is one input item to ResolveMany: a citation string plus an
// optional already-known case name (spec.md §6 input contract).
type Request struct {
	CitationText string
	CaseName     string
}

// ProgressFunc receives one notification per completed item in a
// ResolveMany batch: its index and the resulting Resolution. Used to stream
// progress to callers (internal/websocket's resolution.progress events)
// without the Orchestrator depending on any transport package.
type ProgressFunc func(index int, res *models.Resolution)

// Options configures a batch run.
type Options struct {
	// FetchJudgments runs ResolveAndFetch instead of Resolve for every
	// item, so the returned Resolution carries a parsed Judgment ready
	// for the Verifier. Costs a network round trip per item.
	FetchJudgments bool

	// Progress, if set, is called once per completed item. Scoped to the
	// single ResolveMany call rather than the Orchestrator, so concurrent
	// batches (e.g. several worker jobs sharing one Orchestrator) never
	// race over a shared listener.
	Progress ProgressFunc
}

// Orchestrator runs §4.7 resolutions across a batch of citations with
// bounded parallelism, per spec.md §4.9 and the concurrency model of
// spec.md §5.
type Orchestrator struct {
	resolver *resolver.Resolver
}

func New(r *resolver.Resolver) *Orchestrator {
	return &Orchestrator{resolver: r}
}

// ResolveMany resolves every non-empty citation in requests, discarding
// empty citation text per spec.md §6, preserving input order in the
// output. Concurrency is capped at min(len(requests), 10). A per-task
// panic or error never aborts the batch: it becomes an Unresolvable
// Resolution carrying the error, and every other task continues
// (spec.md §4.9, §7 propagation rules). Cancelling ctx stops scheduling
// further tasks and marks any not-yet-started item cancelled; tasks
// already in flight observe ctx at their next fetch/rate-limit wait.
func (o *Orchestrator) ResolveMany(ctx context.Context, requests []Request, opts Options) []*models.Resolution {
	results := make([]*models.Resolution, len(requests))

	concurrency := len(requests)
	if concurrency > maxConcurrency {
		concurrency = maxConcurrency
	}
	if concurrency == 0 {
		return results
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	var wg sync.WaitGroup

	for i, req := range requests {
		if req.CitationText == "" {
			results[i] = &models.Resolution{
				CitationText: req.CitationText,
				Status:       models.ResolutionUnresolvable,
				Notes:        "empty citation discarded",
			}
			notify(opts, i, results[i])
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = cancelledResolution(req.CitationText)
			notify(opts, i, results[i])
			continue
		}

		wg.Add(1)
		go func(idx int, request Request) {
			defer wg.Done()
			defer sem.Release(1)
			results[idx] = o.runOne(ctx, request, opts)
			notify(opts, idx, results[idx])
		}(i, req)
	}

	wg.Wait()
	return results
}

func (o *Orchestrator) runOne(ctx context.Context, req Request, opts Options) (res *models.Resolution) {
	defer func() {
		if r := recover(); r != nil {
			res = &models.Resolution{
				CitationText: req.CitationText,
				Status:       models.ResolutionUnresolvable,
				Error:        "internal error during resolution",
			}
		}
	}()

	select {
	case <-ctx.Done():
		return cancelledResolution(req.CitationText)
	default:
	}

	if opts.FetchJudgments {
		return o.resolver.ResolveAndFetch(ctx, req.CitationText, req.CaseName)
	}
	return o.resolver.Resolve(ctx, req.CitationText, req.CaseName)
}

func notify(opts Options, index int, res *models.Resolution) {
	if opts.Progress != nil {
		opts.Progress(index, res)
	}
}

func cancelledResolution(citationText string) *models.Resolution {
	return &models.Resolution{
		CitationText: citationText,
		Status:       models.ResolutionUnresolvable,
		Cancelled:    true,
		Notes:        "cancelled before resolution started",
	}
}
