package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/fetcher/store"
	"github.com/legalaudit/crvc/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T, policy *compliance.Policy) *Fetcher {
	t.Helper()
	return New(policy, NewSourceRateLimiter(time.Millisecond), store.New(t.TempDir()))
}

// allowlistServer registers the httptest server's own host on a fresh
// Policy, so the Fetcher's allow-list gate can be exercised end-to-end
// against a real local HTTP server instead of the two live archives.
func allowlistServer(t *testing.T, srv *httptest.Server) *compliance.Policy {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	p := compliance.NewPolicy()
	p.Register(&compliance.SourcePolicy{
		SourceName:      "test-archive",
		Host:            u.Hostname(),
		CommercialUse:   compliance.CommercialUseAllowed,
		AttributionText: "via test archive",
	})
	return p
}

func TestFetchRejectsOffAllowlistHost(t *testing.T) {
	f := newTestFetcher(t, compliance.NewPolicy())
	result, err := f.Fetch(context.Background(), "https://example.com/not-allowed")
	require.Error(t, err)
	assert.Equal(t, models.FetchStateStatusError, result.State)
}

func TestFetchSucceedsAndCaches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>judgment body</html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, allowlistServer(t, srv))
	result, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, models.FetchStateFetched, result.State)
	assert.NotEmpty(t, result.ContentHash)

	result2, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, models.FetchStateCached, result2.State)
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t, allowlistServer(t, srv))
	result, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, models.FetchStateNotFound, result.State)
}
