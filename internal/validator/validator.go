// Package validator implements the Existence Validator: content-level
// checks that a candidate URL resolved to a real judgment rather than a
// stub 200-OK page, since at least one upstream archive serves 200 OK for
// resources that do not exist (spec.md §4.6).
package validator

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/legalaudit/crvc/pkg/models"
)

const (
	firstKB  = 1024
	firstTwoKB = 2048
)

// legalIndicatorTerms is the fixed set of words whose presence increases
// confidence that a secondary-archive page is a genuine judgment.
var legalIndicatorTerms = []string{
	"judgment", "court", "justice", "appeal", "claimant", "defendant",
	"respondent", "appellant", "held", "ordered", "lordship", "honour",
	"tribunal", "act",
}

// Result is the outcome of validating one candidate URL.
type Result struct {
	Exists bool
	Status int
	Title  string
}

// Validator issues a bounded GET against a candidate URL and applies the
// conjunctive content-level rules. The HTTP client is injected; Validate
// itself checks neither the domain allow-list nor the per-source rate
// limit, so those apply only where the injected client enforces them.
type Validator struct {
	client interface {
		Do(*http.Request) (*http.Response, error)
	}
}

func New(client interface {
	Do(*http.Request) (*http.Response, error)
}) *Validator {
	return &Validator{client: client}
}

// Validate fetches url and decides whether it is a real judgment. Any
// conjunctive rule failure yields Exists == false.
func (v *Validator) Validate(ctx context.Context, url string, source models.Source) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return Result{Status: resp.StatusCode}, err
	}
	body := buf.Bytes()

	if resp.StatusCode != http.StatusOK {
		return Result{Status: resp.StatusCode}, nil
	}

	if containsNotFoundMarker(head(body, firstKB)) {
		return Result{Status: resp.StatusCode}, nil
	}

	isXML := strings.HasSuffix(strings.ToLower(url), ".xml")

	switch source {
	case models.SourceSecondaryArchive:
		if countLegalIndicators(body) < 3 || len(body) < 3000 {
			return Result{Status: resp.StatusCode}, nil
		}
	case models.SourcePrimaryArchive:
		if isXML {
			if !bytes.Contains(body, []byte("<akomaNtoso")) && !bytes.Contains(body, []byte("<FRBRwork")) {
				return Result{Status: resp.StatusCode}, nil
			}
		} else {
			if len(body) < 5000 || containsNotFoundMarker(head(body, firstTwoKB)) {
				return Result{Status: resp.StatusCode}, nil
			}
		}
	}

	return Result{
		Exists: true,
		Status: resp.StatusCode,
		Title:  extractTitle(body, source),
	}, nil
}

func head(body []byte, n int) []byte {
	if len(body) < n {
		return body
	}
	return body[:n]
}

func containsNotFoundMarker(window []byte) bool {
	lower := strings.ToLower(string(window))
	return strings.Contains(lower, "page not found") || strings.Contains(lower, "error 404")
}

func countLegalIndicators(body []byte) int {
	lower := strings.ToLower(string(body))
	count := 0
	for _, term := range legalIndicatorTerms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return count
}

// extractTitle prefers <title>; for the primary archive it falls back to
// FRBRname's @value attribute.
func extractTitle(body []byte, source models.Source) string {
	if t, ok := betweenTags(body, "<title>", "</title>"); ok {
		return strings.TrimSpace(t)
	}
	if source == models.SourcePrimaryArchive {
		if v, ok := attrValue(body, "FRBRname"); ok {
			return v
		}
	}
	return ""
}

func betweenTags(body []byte, open, close string) (string, bool) {
	s := string(body)
	startIdx := strings.Index(strings.ToLower(s), open)
	if startIdx == -1 {
		return "", false
	}
	rest := s[startIdx+len(open):]
	endIdx := strings.Index(strings.ToLower(rest), close)
	if endIdx == -1 {
		return "", false
	}
	return rest[:endIdx], true
}

func attrValue(body []byte, elementName string) (string, bool) {
	s := string(body)
	idx := strings.Index(s, "<"+elementName)
	if idx == -1 {
		return "", false
	}
	rest := s[idx:]
	end := strings.IndexByte(rest, '>')
	if end == -1 {
		return "", false
	}
	tag := rest[:end]
	const marker = "value=\""
	vi := strings.Index(tag, marker)
	if vi == -1 {
		return "", false
	}
	tag = tag[vi+len(marker):]
	ve := strings.IndexByte(tag, '"')
	if ve == -1 {
		return "", false
	}
	return tag[:ve], true
}
