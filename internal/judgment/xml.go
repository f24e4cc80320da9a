package judgment

import (
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"

	cerrors "github.com/legalaudit/crvc/pkg/errors"
	"github.com/legalaudit/crvc/pkg/models"
)

// node is a generic Akoma Ntoso XML element. Go's encoding/xml has no
// free-form XPath-lite traversal (unlike Python's ElementTree .find), so a
// small node tree is decoded once and walked by local tag name, mirroring
// the original parser's find/findall calls.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Inner    string     `xml:",innerxml"`
	Children []node     `xml:",any"`
}

func (n *node) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func localName(n node) string {
	return n.XMLName.Local
}

// find returns the first descendant (including n itself) with the given
// local tag name, depth-first, or nil.
func find(n *node, tag string) *node {
	if localName(*n) == tag {
		return n
	}
	for i := range n.Children {
		if found := find(&n.Children[i], tag); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant with the given local tag name, in
// document order.
func findAll(n *node, tag string) []*node {
	var out []*node
	var walk func(*node)
	walk = func(cur *node) {
		if localName(*cur) == tag {
			out = append(out, cur)
		}
		for i := range cur.Children {
			walk(&cur.Children[i])
		}
	}
	walk(n)
	return out
}

// extractTextRecursive concatenates text content of n and all descendants
// in document order, whitespace-normalised, mirroring the original's
// text + tail recursive walk. Go's chardata field gathers all of a node's
// direct text (tail text included) into one string, losing its position
// among the children, so the node's raw inner XML is re-tokenised instead.
func extractTextRecursive(n *node) string {
	dec := xml.NewDecoder(strings.NewReader(n.Inner))
	dec.Strict = false
	var parts []string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			if t := strings.TrimSpace(string(cd)); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

var leadingIntRE = regexp.MustCompile(`\d+`)

// paragraphNumber derives a paragraph's display number from the first
// integer substring of its @eId, falling back to a 1-based counter.
func paragraphNumber(n *node, fallback int) string {
	if eID, ok := n.attr("eId"); ok {
		if m := leadingIntRE.FindString(eID); m != "" {
			return m
		}
	}
	return strconv.Itoa(fallback)
}

// ParseAkomaNtoso parses Find Case Law's Akoma Ntoso XML into a Judgment.
func ParseAkomaNtoso(body []byte, sourceURL string) (*models.Judgment, error) {
	var root node
	if err := xml.Unmarshal(body, &root); err != nil {
		return nil, cerrors.ParsingError("malformed Akoma Ntoso XML", err)
	}

	j := &models.Judgment{
		SourceURL: sourceURL,
		ParserTrace: models.ParserTrace{
			Method: models.ParserMethodAkomaNtosoXML,
		},
	}

	if meta := find(&root, "meta"); meta != nil {
		if name := find(meta, "FRBRname"); name != nil {
			if v, ok := name.attr("value"); ok {
				j.Title = v
			}
		}
		if num := find(meta, "FRBRnumber"); num != nil {
			if v, ok := num.attr("value"); ok {
				j.NeutralCitation = v
			}
		}
		if date := find(meta, "FRBRdate"); date != nil {
			if v, ok := date.attr("date"); ok {
				j.Date = v
			}
		}
		if author := find(meta, "FRBRauthor"); author != nil {
			if v, ok := author.attr("as"); ok {
				j.Court = v
			}
		}
	}

	if j.Title == "" {
		if docTitle := find(&root, "docTitle"); docTitle != nil {
			j.Title = extractTextRecursive(docTitle)
			j.ParserTrace.Warnings = append(j.ParserTrace.Warnings, "title missing from FRBRname, used docTitle fallback")
		}
	}
	j.CaseName = j.Title

	judgmentBody := find(&root, "judgment")
	if judgmentBody == nil {
		judgmentBody = find(&root, "body")
		if judgmentBody != nil {
			j.ParserTrace.Warnings = append(j.ParserTrace.Warnings, "no <judgment> element, used <body> fallback")
		}
	}

	if judgmentBody != nil {
		seen := make(map[string]struct{})
		for i, p := range findAll(judgmentBody, "paragraph") {
			text := extractTextRecursive(p)
			if text == "" {
				continue
			}
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			j.Paragraphs = append(j.Paragraphs, models.Paragraph{
				Number:     paragraphNumber(p, i+1),
				OriginalID: func() string { v, _ := p.attr("eId"); return v }(),
				Text:       text,
			})
		}
		j.FullText = extractTextRecursive(judgmentBody)
	}

	if j.FullText == "" {
		j.FullText = extractTextRecursive(&root)
		j.ParserTrace.Warnings = append(j.ParserTrace.Warnings, "no judgment body found, used whole-document text")
	}

	return j, nil
}

// LooksLikeAkomaNtoso sniffs the first bytes of a response body for an XML
// declaration or the Akoma Ntoso namespace, per spec.md §4.4's format
// auto-detection rule.
func LooksLikeAkomaNtoso(head []byte) bool {
	h := strings.ToLower(string(head))
	return strings.Contains(h, "<?xml") || strings.Contains(h, "akomantoso") || strings.Contains(h, "legaldocml")
}
