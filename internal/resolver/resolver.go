// Package resolver implements the Resolver orchestrator (spec.md §4.7): it
// composes the Citation Grammar, URL Templator, Search Resolver, Fetcher,
// and Existence Validator into one ranked candidate list per citation,
// without itself introducing any new matching logic.
package resolver

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/legalaudit/crvc/internal/citation"
	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/fetcher"
	"github.com/legalaudit/crvc/internal/judgment"
	"github.com/legalaudit/crvc/internal/search"
	"github.com/legalaudit/crvc/internal/templator"
	"github.com/legalaudit/crvc/internal/validator"
	"github.com/legalaudit/crvc/pkg/models"
)

const existenceProbeTimeout = 3 * time.Second

// Resolver composes the Grammar, Templator, Search Resolver, Fetcher, and
// Existence Validator into the single-citation resolution defined by
// spec.md §4.7. It holds no per-request state and is safe for concurrent
// use by the Pipeline Orchestrator (spec.md §4.9).
type Resolver struct {
	grammar     *citation.Grammar
	templator   *templator.Templator
	search      *search.Resolver
	fetcher     *fetcher.Fetcher
	validator   *validator.Validator
	validateURLs bool
}

// Option configures a Resolver at construction time.
type Option func(*Resolver)

// WithExistenceValidation turns on step 5 of spec.md §4.7: dropping
// candidates that fail the Existence Validator's content-level checks.
// Disabled by default because it costs one extra GET per candidate.
func WithExistenceValidation(enabled bool) Option {
	return func(r *Resolver) { r.validateURLs = enabled }
}

// New builds a Resolver. policy and rateLimiter are shared with the
// Fetcher and Search Resolver so the per-source rate limit and domain
// allow-list apply to their requests. The Existence Validator gets its own
// plain http.Client with a 3 s timeout, so its probes pass through neither.
func New(policy *compliance.Policy, rateLimiter *fetcher.SourceRateLimiter, f *fetcher.Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		grammar:   citation.NewGrammar(),
		templator: templator.New(),
		search:    search.NewResolver(policy, rateLimiter),
		fetcher:   f,
		validator: validator.New(&http.Client{Timeout: existenceProbeTimeout}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs spec.md §4.7's six steps for one citation string, with an
// optional caller-supplied case name (used when the surrounding prose has
// already been parsed and the case name is already known).
func (r *Resolver) Resolve(ctx context.Context, citationText string, caseName string) *models.Resolution {
	res := &models.Resolution{CitationText: citationText}

	c := r.classify(citationText)
	res.Citation = c

	if c.Form == models.CitationFormUnknown {
		res.Status = models.ResolutionUnresolvable
		res.Notes = "citation text did not match any recognised dialect"
		return res
	}

	if caseName != "" {
		c.CaseName = caseName
	} else if c.CaseName == "" {
		c.CaseName = citation.ExtractCaseName(citationText)
	}

	var candidates []models.CandidateUrl
	if c.Form == models.CitationFormNeutral {
		candidates = append(candidates, r.templator.Candidates(c)...)
	}

	if len(candidates) == 0 || c.Form == models.CitationFormReporter {
		searchCandidates, err := r.search.Resolve(ctx, c)
		if err != nil {
			res.Notes = "search resolver error: " + err.Error()
		}
		candidates = dedupeAppend(candidates, searchCandidates)
	}

	if r.validateURLs && len(candidates) > 0 {
		candidates = r.filterByExistence(ctx, candidates)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	res.Candidates = candidates

	switch {
	case len(candidates) == 0:
		res.Status = models.ResolutionUnresolvable
		res.Notes = "no candidate urls survived templating, search, and validation"
	case len(candidates) == 1:
		res.Status = models.ResolutionResolved
		res.Notes = "resolved via " + string(candidates[0].Method)
	default:
		res.Status = models.ResolutionAmbiguous
		res.Notes = "multiple candidates found; highest-confidence candidate selected first"
	}

	return res
}

// ResolveAndFetch runs Resolve and then, for a Resolved/Ambiguous result,
// fetches and parses the top candidate into a Judgment. Used by callers
// that need the judgment body (the Verifier, the pipeline's e2e mode) and
// willing to pay the extra network round trip that Resolve alone does not
// make (spec.md §4.7 step introduces fetching only where the caller asks
// for it, e.g. a batch existence check).
func (r *Resolver) ResolveAndFetch(ctx context.Context, citationText string, caseName string) *models.Resolution {
	res := r.Resolve(ctx, citationText, caseName)
	if res.Status == models.ResolutionUnresolvable || len(res.Candidates) == 0 {
		return res
	}

	for _, cand := range res.Candidates {
		fr, err := r.fetcher.Fetch(ctx, cand.URL)
		if err != nil || fr == nil || !fr.Succeeded() {
			continue
		}
		body, readErr := r.fetcher.ReadCached(fr)
		if readErr != nil {
			continue
		}
		j, parseErr := judgment.Parse(body, fr.ContentType, cand.URL)
		if parseErr != nil {
			continue
		}
		j.Source = cand.Source
		j.SourceURL = cand.URL
		res.Judgment = j
		return res
	}

	res.Notes += "; no candidate could be fetched and parsed"
	return res
}

func (r *Resolver) classify(citationText string) *models.Citation {
	found := r.grammar.FindAll(citationText)
	for _, c := range found {
		if strings.TrimSpace(c.RawText) == strings.TrimSpace(citationText) || strings.Contains(citationText, c.RawText) {
			return c
		}
	}
	return r.grammar.Classify(citationText)
}

func (r *Resolver) filterByExistence(ctx context.Context, candidates []models.CandidateUrl) []models.CandidateUrl {
	out := make([]models.CandidateUrl, 0, len(candidates))
	for _, cand := range candidates {
		result, err := r.validator.Validate(ctx, cand.URL, cand.Source)
		if err != nil || !result.Exists {
			continue
		}
		if result.Title != "" {
			cand.Title = result.Title
		}
		out = append(out, cand)
	}
	return out
}

// dedupeAppend appends extra to base, skipping any URL already present.
func dedupeAppend(base, extra []models.CandidateUrl) []models.CandidateUrl {
	seen := make(map[string]struct{}, len(base))
	for _, c := range base {
		seen[c.URL] = struct{}{}
	}
	out := base
	for _, c := range extra {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}
