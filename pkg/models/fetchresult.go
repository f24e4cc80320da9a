package models

import "time"

// FetchState is the closed outcome of a single HTTP GET performed by the Fetcher.
type FetchState string

const (
	FetchStateFetched      FetchState = "fetched"
	FetchStateCached       FetchState = "cached"
	FetchStateNotFound     FetchState = "not_found"
	FetchStateRateLimited  FetchState = "rate_limited"
	FetchStateTimeout      FetchState = "timeout"
	FetchStateNetworkError FetchState = "network_error"
	FetchStateStatusError  FetchState = "status_error"
)

// FetchResult is the outcome of one Fetcher.Fetch call.
type FetchResult struct {
	URL         string     `json:"url"`
	HTTPStatus  int        `json:"http_status"`
	ContentHash string     `json:"content_hash,omitempty"`
	ContentType string     `json:"content_type,omitempty"`
	CachePath   string     `json:"cache_path,omitempty"`
	State       FetchState `json:"state"`
	Error       string     `json:"error,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at"`
	Redirects   []string   `json:"redirects,omitempty"`
}

// Succeeded reports whether the fetch produced usable body bytes.
func (f *FetchResult) Succeeded() bool {
	return f.State == FetchStateFetched || f.State == FetchStateCached
}
