package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/fetcher"
	"github.com/legalaudit/crvc/internal/fetcher/store"
	"github.com/legalaudit/crvc/internal/judgment"
	"github.com/legalaudit/crvc/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnknownCitationIsUnresolvable(t *testing.T) {
	policy := compliance.NewPolicy()
	rl := fetcher.NewSourceRateLimiter(time.Millisecond)
	f := fetcher.New(policy, rl, store.New(t.TempDir()))
	r := New(policy, rl, f)

	res := r.Resolve(context.Background(), "this is not a citation at all", "")
	assert.Equal(t, models.ResolutionUnresolvable, res.Status)
	assert.Empty(t, res.Candidates)
}

// TestResolveNeutralCitationTemplatesBothArchives exercises scenario 1 of
// spec.md §8: a recognised UKSC neutral citation must template candidates
// for both archives without any network access (Resolve alone never
// fetches).
func TestResolveNeutralCitationTemplatesBothArchives(t *testing.T) {
	policy := compliance.NewPolicy()
	rl := fetcher.NewSourceRateLimiter(time.Millisecond)
	f := fetcher.New(policy, rl, store.New(t.TempDir()))
	r := New(policy, rl, f)

	res := r.Resolve(context.Background(), "[2015] UKSC 11", "")
	require.Equal(t, models.ResolutionAmbiguous, res.Status)
	require.Len(t, res.Candidates, 2)
	assert.Contains(t, res.Candidates[0].URL, "data.xml")
	assert.Equal(t, models.SourcePrimaryArchive, res.Candidates[0].Source)
}

// TestTemplatedCandidateFetchesAsAkomaNtoso exercises the XML strategy end
// to end: a fake primary-archive server stands in for the real host (the
// Templator's own host constants are fixed, so the test substitutes the
// top candidate's URL after templating rather than redirecting DNS), and
// the Fetcher+Parser pairing the Resolver wires together must produce a
// usable body.
func TestTemplatedCandidateFetchesAsAkomaNtoso(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<?xml version="1.0"?>
<akomaNtoso>
  <judgment>
    <meta>
      <identification>
        <FRBRWork>
          <FRBRname value="Montgomery v Lanarkshire Health Board"/>
          <FRBRnumber value="[2015] UKSC 11"/>
          <FRBRdate date="2015-03-11"/>
          <FRBRauthor as="UKSC"/>
        </FRBRWork>
      </identification>
    </meta>
    <judgmentBody>
      <paragraph eId="para_1"><p>This case concerns informed consent in clinical practice.</p></paragraph>
    </judgmentBody>
  </judgment>
</akomaNtoso>`))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	policy := compliance.NewPolicy()
	policy.Register(&compliance.SourcePolicy{SourceName: "fake-primary", Host: u.Hostname(), CommercialUse: compliance.CommercialUseAllowed})
	rl := fetcher.NewSourceRateLimiter(time.Millisecond)
	f := fetcher.New(policy, rl, store.New(t.TempDir()))
	r := New(policy, rl, f)

	res := r.Resolve(context.Background(), "[2015] UKSC 11", "")
	require.NotEmpty(t, res.Candidates)

	// Point the top candidate at our fake server instead of the real host,
	// simulating templating against an allow-listed test archive.
	res.Candidates[0].URL = srv.URL + "/uksc/2015/11/data.xml"

	fr, err := f.Fetch(context.Background(), res.Candidates[0].URL)
	require.NoError(t, err)
	require.True(t, fr.Succeeded())

	body, err := f.ReadCached(fr)
	require.NoError(t, err)
	j, err := judgment.Parse(body, fr.ContentType, res.Candidates[0].URL)
	require.NoError(t, err)
	assert.Equal(t, models.ParserMethodAkomaNtosoXML, j.ParserTrace.Method)
}
