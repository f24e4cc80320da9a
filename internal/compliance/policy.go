// Package compliance centralises the domain allow-list and per-source
// access policy this audit must respect, as a first-class testable object
// rather than scattered host-string checks at call sites.
package compliance

import (
	"net/url"
	"strings"
	"sync"
	"time"
)

// CommercialUsePolicy records whether a source's terms permit commercial use.
type CommercialUsePolicy string

const (
	CommercialUseAllowed    CommercialUsePolicy = "allowed"
	CommercialUseRestricted CommercialUsePolicy = "restricted"
)

// SourcePolicy is the access policy for one allow-listed archive.
type SourcePolicy struct {
	SourceName        string
	Host              string
	CommercialUse      CommercialUsePolicy
	AttributionText   string
	CrawlDelay        time.Duration
	TermsOfServiceURL string
}

// Policy enforces the two-host domain allow-list (spec.md §6, §4.3) and
// answers per-source access questions for it.
type Policy struct {
	mu       sync.RWMutex
	sources  map[string]*SourcePolicy
}

// NewPolicy builds the policy with exactly the two allow-listed archives
// this audit is permitted to fetch from.
func NewPolicy() *Policy {
	p := &Policy{sources: make(map[string]*SourcePolicy)}
	p.register(&SourcePolicy{
		SourceName:        "Find Case Law",
		Host:              "caselaw.nationalarchives.gov.uk",
		CommercialUse:     CommercialUseAllowed,
		AttributionText:   "via Find Case Law — Crown copyright / Open Government Licence",
		CrawlDelay:        time.Second,
		TermsOfServiceURL: "https://caselaw.nationalarchives.gov.uk/about-this-service",
	})
	p.register(&SourcePolicy{
		SourceName:        "BAILII",
		Host:              "bailii.org",
		CommercialUse:     CommercialUseRestricted,
		AttributionText:   "via BAILII",
		CrawlDelay:        time.Second,
		TermsOfServiceURL: "https://www.bailii.org/bailii/legal_policy.html",
	})
	return p
}

func (p *Policy) register(sp *SourcePolicy) {
	p.sources[sp.Host] = sp
}

// Register adds or replaces the policy for a host. Exposed mainly so tests
// can exercise the allow-list with a local httptest server's host.
func (p *Policy) Register(sp *SourcePolicy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources[strings.ToLower(sp.Host)] = sp
}

// IsAllowedURL reports whether the URL's host is on the allow-list,
// tolerating an optional "www." prefix.
func (p *Policy) IsAllowedURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	_, ok := p.sourceForHost(u.Hostname())
	return ok
}

// SourceFor returns the policy governing the host of rawURL.
func (p *Policy) SourceFor(rawURL string) (*SourcePolicy, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}
	return p.sourceForHost(u.Hostname())
}

func (p *Policy) sourceForHost(host string) (*SourcePolicy, bool) {
	h := strings.ToLower(strings.TrimPrefix(strings.ToLower(host), "www."))
	p.mu.RLock()
	defer p.mu.RUnlock()
	sp, ok := p.sources[h]
	return sp, ok
}

// AllSources returns every allow-listed source policy.
func (p *Policy) AllSources() []*SourcePolicy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*SourcePolicy, 0, len(p.sources))
	for _, sp := range p.sources {
		out = append(out, sp)
	}
	return out
}
