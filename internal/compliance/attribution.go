package compliance

import (
	"fmt"

	"github.com/legalaudit/crvc/pkg/models"
)

// AttributionHandler surfaces the attribution text an allow-listed source
// requires whenever a judgment fetched from it is quoted or displayed.
type AttributionHandler struct {
	policy *Policy
}

func NewAttributionHandler(p *Policy) *AttributionHandler {
	return &AttributionHandler{policy: p}
}

// For returns the attribution line for the source that produced a fetch,
// identified by the URL actually fetched.
func (ah *AttributionHandler) For(fetchedURL string) (string, bool) {
	sp, ok := ah.policy.SourceFor(fetchedURL)
	if !ok {
		return "", false
	}
	return sp.AttributionText, true
}

// Footer renders an attribution footer suitable for appending to a rendered
// verification report, crediting the source a FetchResult came from.
func (ah *AttributionHandler) Footer(fr *models.FetchResult) string {
	if fr == nil {
		return ""
	}
	text, ok := ah.For(fr.URL)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Source: %s (%s)", text, fr.URL)
}
