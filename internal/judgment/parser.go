// Package judgment implements the Judgment Parser: converting fetched bytes
// into a normalised Judgment, auto-detecting the Akoma Ntoso XML strategy
// versus the HTML strategy (spec.md §4.4).
package judgment

import (
	"strings"

	"github.com/legalaudit/crvc/pkg/models"
)

const sniffWindow = 500

// Parse auto-detects the document format from contentType, a ".xml" suffix
// on the URL, and the first bytes of body, then dispatches to the matching
// strategy. The URL host is not consulted.
func Parse(body []byte, contentType, sourceURL string) (*models.Judgment, error) {
	head := body
	if len(head) > sniffWindow {
		head = head[:sniffWindow]
	}

	if looksLikeXML(contentType, sourceURL, head) {
		return ParseAkomaNtoso(body, sourceURL)
	}
	return ParseHTML(body, sourceURL)
}

func looksLikeXML(contentType, sourceURL string, head []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "xml") {
		return true
	}
	if strings.HasSuffix(strings.ToLower(sourceURL), ".xml") {
		return true
	}
	return LooksLikeAkomaNtoso(head)
}
