package search

import (
	"testing"

	"github.com/legalaudit/crvc/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestTokenizeDropsStopWordsAndShortWords(t *testing.T) {
	got := Tokenize("R v Secretary of State for the Home Department")
	assert.Equal(t, []string{"home", "department"}, got)
}

func TestTokenizeCaparo(t *testing.T) {
	got := Tokenize("Caparo Industries plc v Dickman")
	assert.Equal(t, []string{"caparo", "industries", "dickman"}, got)
}

func TestOverlapCountsCaseInsensitive(t *testing.T) {
	assert.Equal(t, 2, Overlap([]string{"caparo", "dickman", "missing"}, "The case of CAPARO v Dickman"))
}

func TestDedupeByURL(t *testing.T) {
	in := []models.CandidateUrl{
		{URL: "https://bailii.org/a.html"},
		{URL: "https://bailii.org/a.html"},
		{URL: "https://bailii.org/b.html"},
	}
	assert.Len(t, dedupeByURL(in), 2)
}
