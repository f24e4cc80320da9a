// Package search implements the Search Resolver: the fallback strategies
// used when a citation is Reporter form, or a Neutral citation's templated
// URL fails existence validation (spec.md §4.5). Four strategies are tried
// in order, each stopping the chain as soon as it yields candidates.
package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/fetcher"
	"github.com/legalaudit/crvc/internal/jurisdiction"
	"github.com/legalaudit/crvc/pkg/models"
)

const (
	requestTimeout   = 15 * time.Second
	probeMaxNumber   = 19
	atomURL          = "https://caselaw.nationalarchives.gov.uk/atom.xml"
	bailiiSearchPath = "https://bailii.org/cgi-bin/search_preprocess.cgi"
	bailiiFinderPath = "https://bailii.org/cgi-bin/find_by_citation.cgi"
)

// Resolver runs the four fallback search strategies against the two
// allow-listed archives.
type Resolver struct {
	policy      *compliance.Policy
	rateLimiter *fetcher.SourceRateLimiter
	hierarchy   *jurisdiction.CourtHierarchy
	client      *http.Client
}

func NewResolver(policy *compliance.Policy, rateLimiter *fetcher.SourceRateLimiter) *Resolver {
	return &Resolver{
		policy:      policy,
		rateLimiter: rateLimiter,
		hierarchy:   jurisdiction.NewCourtHierarchy(),
		client:      &http.Client{Timeout: requestTimeout},
	}
}

// Resolve runs the strategies in order against a Reporter-form citation
// (or a Neutral citation whose direct URL failed validation), stopping as
// soon as one strategy yields candidates, and deduplicates by URL across
// whatever ran.
func (r *Resolver) Resolve(ctx context.Context, c *models.Citation) ([]models.CandidateUrl, error) {
	terms := Tokenize(c.CaseName)

	strategies := []func(context.Context, *models.Citation, []string) ([]models.CandidateUrl, error){
		r.citationFinder,
		r.deterministicProbe,
		r.structuredSearchPrimary,
		r.structuredSearchSecondary,
	}

	for _, strategy := range strategies {
		candidates, err := strategy(ctx, c, terms)
		if err != nil {
			continue
		}
		if len(candidates) > 0 {
			return dedupeByURL(candidates), nil
		}
	}
	return nil, nil
}

// citationFinder posts the cleaned reporter citation to BAILII's
// citation-finder endpoint and treats a non-echo redirect target as a
// high-confidence candidate.
func (r *Resolver) citationFinder(ctx context.Context, c *models.Citation, terms []string) ([]models.CandidateUrl, error) {
	if c.Reporter == nil {
		return nil, nil
	}
	if err := r.wait(ctx, "bailii.org"); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("citation", cleanedReporterCitation(c.Reporter))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bailiiFinderPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	finalURL, body, err := r.doFollowingRedirects(req)
	if err != nil {
		return nil, err
	}
	if isSearchFormEcho(body) {
		return nil, nil
	}

	return []models.CandidateUrl{{
		URL:        finalURL,
		Source:     models.SourceSecondaryArchive,
		Method:     models.MethodCitationFinder,
		Confidence: 0.95,
	}}, nil
}

// deterministicProbe infers candidate courts from the reporter abbreviation
// and year, then probes sequential case numbers 1..19 looking for a 200-OK
// body whose case name overlap meets the threshold.
func (r *Resolver) deterministicProbe(ctx context.Context, c *models.Citation, terms []string) ([]models.CandidateUrl, error) {
	if c.Reporter == nil {
		return nil, nil
	}
	required := minInt(2, len(terms))

	courts := r.hierarchy.ReporterCourtCandidates(c.Reporter.Reporter, c.Reporter.Year)
	for _, court := range courts {
		for n := 1; n <= probeMaxNumber; n++ {
			if err := r.wait(ctx, "bailii.org"); err != nil {
				return nil, err
			}
			probeURL := fmt.Sprintf("https://bailii.org/%s/cases/%s/%d/%d.html",
				bailiiJurisdictionSegment(court.Code), strings.ReplaceAll(court.Code, " ", "/"), c.Reporter.Year, n)

			body, status, err := r.get(ctx, probeURL)
			if err != nil || status != http.StatusOK {
				continue
			}
			if Overlap(terms, body) >= required {
				return []models.CandidateUrl{{
					URL:        probeURL,
					Source:     models.SourceSecondaryArchive,
					Method:     models.MethodSearch,
					Confidence: 0.8,
				}}, nil
			}
		}
	}
	return nil, nil
}

// structuredSearchPrimary queries Find Case Law's Atom feed by party (or
// query as fallback) and scores entries by year and term overlap.
func (r *Resolver) structuredSearchPrimary(ctx context.Context, c *models.Citation, terms []string) ([]models.CandidateUrl, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if err := r.wait(ctx, "caselaw.nationalarchives.gov.uk"); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("party", strings.Join(terms, " "))
	q.Set("order", "-date")
	q.Set("per_page", "10")
	reqURL := atomURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	entries, err := parseAtomFeed(resp.Body)
	if err != nil {
		return nil, err
	}

	year := ""
	if c.Reporter != nil {
		year = strconv.Itoa(c.Reporter.Year)
	} else if c.Neutral != nil {
		year = strconv.Itoa(c.Neutral.Year)
	}

	var out []models.CandidateUrl
	for _, e := range entries {
		yearMatches := year != "" && (strings.Contains(e.Title, year) || strings.Contains(e.URI, year))
		termMatches := Overlap(terms, e.Title) > 0

		var confidence float64
		switch {
		case yearMatches && termMatches:
			confidence = 0.85
		case termMatches:
			confidence = 0.70
		case year == "":
			confidence = 0.65
		default:
			continue
		}

		target := e.HTMLLink
		if target == "" {
			target = e.URI
		}
		if target == "" {
			continue
		}
		out = append(out, models.CandidateUrl{
			URL:         target,
			Source:      models.SourcePrimaryArchive,
			Method:      models.MethodSearch,
			Confidence:  confidence,
			Title:       e.Title,
			DocumentURI: e.URI,
		})
	}
	return out, nil
}

// structuredSearchSecondary posts a title-all search to BAILII bounded by
// the citation year and scrapes hyperlinks matching the case-URL shape.
func (r *Resolver) structuredSearchSecondary(ctx context.Context, c *models.Citation, terms []string) ([]models.CandidateUrl, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if err := r.wait(ctx, "bailii.org"); err != nil {
		return nil, err
	}

	year := 0
	if c.Reporter != nil {
		year = c.Reporter.Year
	} else if c.Neutral != nil {
		year = c.Neutral.Year
	}

	form := url.Values{}
	form.Set("mode", "simple")
	form.Set("titleall", strings.Join(terms, " "))
	form.Set("sort", "rank")
	if year != 0 {
		form.Set("datelow", strconv.Itoa(year))
		form.Set("datehigh", strconv.Itoa(year))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bailiiSearchPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var out []models.CandidateUrl
	doc.Find("a.resultTitle").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || !strings.Contains(href, "/cases/") {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = "https://bailii.org" + href
		}
		out = append(out, models.CandidateUrl{
			URL:        href,
			Source:     models.SourceSecondaryArchive,
			Method:     models.MethodSearch,
			Confidence: 0.75,
			Title:      strings.TrimSpace(s.Text()),
		})
	})
	return out, nil
}

func (r *Resolver) wait(ctx context.Context, host string) error {
	return r.rateLimiter.Wait(ctx, host)
}

func (r *Resolver) get(ctx context.Context, target string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", 0, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(body), resp.StatusCode, nil
}

func (r *Resolver) doFollowingRedirects(req *http.Request) (finalURL, body string, err error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", err
	}
	return resp.Request.URL.String(), string(b), nil
}

func cleanedReporterCitation(rf *models.ReporterForm) string {
	return fmt.Sprintf("[%d] %s %s %s", rf.Year, rf.Volume, rf.Reporter, rf.Page)
}

func isSearchFormEcho(body string) bool {
	return strings.Contains(body, "search_multidatabase") || strings.Contains(body, "Enter your search terms")
}

func bailiiJurisdictionSegment(courtCode string) string {
	switch {
	case strings.HasPrefix(courtCode, "EWCA"), strings.HasPrefix(courtCode, "EWHC"):
		return "ew"
	default:
		return "uk"
	}
}

func dedupeByURL(candidates []models.CandidateUrl) []models.CandidateUrl {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.CandidateUrl, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}

// atomEntry is one parsed <atom:entry> from the Find Case Law feed.
type atomEntry struct {
	Title    string
	URI      string
	HTMLLink string
}

type atomFeedXML struct {
	XMLName xml.Name       `xml:"feed"`
	Entries []atomEntryXML `xml:"entry"`
}

type atomEntryXML struct {
	Title string         `xml:"title"`
	URI   string         `xml:"uri"`
	Links []atomLinkXML  `xml:"link"`
}

type atomLinkXML struct {
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
	Href string `xml:"href,attr"`
}

func parseAtomFeed(r io.Reader) ([]atomEntry, error) {
	var feed atomFeedXML
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, err
	}
	out := make([]atomEntry, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		entry := atomEntry{Title: strings.TrimSpace(e.Title), URI: strings.TrimSpace(e.URI)}
		for _, l := range e.Links {
			if strings.Contains(l.Type, "html") || l.Rel == "alternate" {
				entry.HTMLLink = l.Href
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
