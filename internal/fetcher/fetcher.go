// Package fetcher implements the Fetcher: the only component permitted to
// make outbound HTTP requests, restricted to the two-host archive allow-list
// and backed by content-addressed storage: every call downloads the URL, and
// a body whose hash is already stored is reported as Cached and not
// rewritten (spec.md §4.3, §6).
package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/fetcher/store"
	cerrors "github.com/legalaudit/crvc/pkg/errors"
	"github.com/legalaudit/crvc/pkg/models"
)

const (
	userAgent     = "CRVC/1.0 (Citation Verification; legal research audit bot)"
	defaultTimeout = 30 * time.Second
	maxAttempts    = 3
	baseBackoff    = 500 * time.Millisecond
)

// Fetcher performs policy-gated, rate-limited, cached HTTP GETs against the
// allow-listed archives.
type Fetcher struct {
	policy      *compliance.Policy
	rateLimiter *SourceRateLimiter
	store       *store.Store
	client      *http.Client
	robots      *RobotsCache
}

func New(policy *compliance.Policy, rateLimiter *SourceRateLimiter, st *store.Store) *Fetcher {
	return &Fetcher{
		policy:      policy,
		rateLimiter: rateLimiter,
		store:       st,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		robots: NewRobotsCache(),
	}
}

// Fetch retrieves url, rejecting anything off the allow-list, waiting on the
// per-source rate limiter, retrying transient failures with exponential
// backoff, and writing successful bodies into the content-addressed store.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*models.FetchResult, error) {
	sp, ok := f.policy.SourceFor(url)
	if !ok {
		return &models.FetchResult{
			URL:       url,
			State:     models.FetchStateStatusError,
			Error:     cerrors.ErrDomainNotAllowed.Error(),
			FetchedAt: time.Now(),
		}, cerrors.DomainNotAllowedError(url)
	}

	if allowed, err := f.robotsAllowed(ctx, url); err == nil && !allowed {
		return &models.FetchResult{
			URL:       url,
			State:     models.FetchStateStatusError,
			Error:     cerrors.ErrRobotsDisallowed.Error(),
			FetchedAt: time.Now(),
		}, cerrors.RobotsDisallowedError(url)
	}

	if err := f.rateLimiter.Wait(ctx, sp.Host); err != nil {
		return nil, err
	}

	var (
		resp      *http.Response
		err       error
		redirects []string
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, redirects, err = f.do(ctx, url)
		if err == nil && !shouldRetryStatus(resp.StatusCode) {
			break
		}
		if resp != nil {
			resp.Body.Close()
		}
		if !isRetryable(err, resp) || attempt == maxAttempts {
			break
		}
		if waitErr := sleep(ctx, backoff(attempt)); waitErr != nil {
			return nil, waitErr
		}
	}

	if err != nil {
		return &models.FetchResult{
			URL:       url,
			State:     networkFailureState(err),
			Error:     err.Error(),
			FetchedAt: time.Now(),
		}, cerrors.FetcherError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &models.FetchResult{
			URL:        url,
			HTTPStatus: resp.StatusCode,
			State:      models.FetchStateNotFound,
			FetchedAt:  time.Now(),
			Redirects:  redirects,
		}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &models.FetchResult{
			URL:        url,
			HTTPStatus: resp.StatusCode,
			State:      models.FetchStateStatusError,
			Error:      cerrors.ErrStatusError.Error(),
			FetchedAt:  time.Now(),
			Redirects:  redirects,
		}, cerrors.FetcherError("unexpected status", cerrors.ErrStatusError)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.FetchResult{
			URL:       url,
			State:     models.FetchStateNetworkError,
			Error:     err.Error(),
			FetchedAt: time.Now(),
		}, cerrors.FetcherError("reading body", err)
	}

	contentType := resp.Header.Get("Content-Type")
	ext := store.ExtFromContentType(contentType)
	hash := store.Hash(body)
	cached := f.store.Has(hash, ext)

	headers := map[string]string{"Content-Type": contentType}
	path, err := f.store.Put(body, ext, store.Meta{
		URL:         url,
		ContentType: contentType,
		Headers:     headers,
		Redirects:   redirects,
		FetchedAt:   time.Now(),
	})
	if err != nil {
		return nil, cerrors.StorageError("writing fetch result", err)
	}

	state := models.FetchStateFetched
	if cached {
		state = models.FetchStateCached
	}

	return &models.FetchResult{
		URL:         url,
		HTTPStatus:  resp.StatusCode,
		ContentHash: hash,
		ContentType: contentType,
		CachePath:   path,
		State:       state,
		FetchedAt:   time.Now(),
		Redirects:   redirects,
	}, nil
}

// ReadCached reads the body bytes a prior successful Fetch wrote into the
// content-addressed store, letting callers (the Resolver, the Judgment
// Parser) re-read a fetched body without another network round trip.
func (f *Fetcher) ReadCached(fr *models.FetchResult) ([]byte, error) {
	if fr == nil || fr.CachePath == "" {
		return nil, cerrors.ErrNotFound
	}
	return os.ReadFile(fr.CachePath)
}

func (f *Fetcher) do(ctx context.Context, url string) (*http.Response, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	var redirects []string
	client := *f.client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		redirects = append(redirects, req.URL.String())
		if len(via) >= 10 {
			return http.ErrUseLastResponse
		}
		return nil
	}

	resp, err := client.Do(req)
	return resp, redirects, err
}

// robotsAllowed checks the target host's robots.txt before the Fetcher
// spends a request on it. A robots.txt that cannot be fetched or parsed
// allows access by default (RobotsCache.IsAllowed's own fallback).
func (f *Fetcher) robotsAllowed(ctx context.Context, target string) (bool, error) {
	u, err := url.Parse(target)
	if err != nil {
		return true, err
	}
	baseURL := u.Scheme + "://" + u.Host
	return f.robots.IsAllowed(ctx, baseURL, u.Path, userAgent)
}

func shouldRetryStatus(status int) bool {
	return status == http.StatusTooManyRequests
}

func isRetryable(err error, resp *http.Response) bool {
	if err != nil {
		return true
	}
	if resp != nil && shouldRetryStatus(resp.StatusCode) {
		return true
	}
	return false
}

func backoff(attempt int) time.Duration {
	d := baseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func networkFailureState(err error) models.FetchState {
	if err == context.DeadlineExceeded {
		return models.FetchStateTimeout
	}
	return models.FetchStateNetworkError
}
