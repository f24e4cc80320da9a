package templator

import (
	"testing"

	"github.com/legalaudit/crvc/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesNeutralUKSC(t *testing.T) {
	tpl := New()
	c := &models.Citation{
		Form:    models.CitationFormNeutral,
		Neutral: &models.NeutralForm{Court: "UKSC", Year: 2015, Number: 11},
	}

	candidates := tpl.Candidates(c)
	require.Len(t, candidates, 2)

	assert.Equal(t, "https://caselaw.nationalarchives.gov.uk/uksc/2015/11/data.xml", candidates[0].URL)
	assert.Equal(t, models.SourcePrimaryArchive, candidates[0].Source)

	assert.Equal(t, "https://bailii.org/uk/cases/uksc/2015/11.html", candidates[1].URL)
	assert.Equal(t, models.SourceSecondaryArchive, candidates[1].Source)
}

func TestCandidatesNeutralEWCACivDivision(t *testing.T) {
	tpl := New()
	c := &models.Citation{
		Form:    models.CitationFormNeutral,
		Neutral: &models.NeutralForm{Court: "EWCA", Division: "Civ", Year: 2020, Number: 123},
	}

	candidates := tpl.Candidates(c)
	require.Len(t, candidates, 2)
	assert.Equal(t, "https://caselaw.nationalarchives.gov.uk/ewca/civ/2020/123/data.xml", candidates[0].URL)
	assert.Equal(t, "https://bailii.org/ew/cases/ewca/civ/2020/123.html", candidates[1].URL)
}

func TestCandidatesReporterYieldsNone(t *testing.T) {
	tpl := New()
	c := &models.Citation{
		Form:     models.CitationFormReporter,
		Reporter: &models.ReporterForm{Year: 1990, Volume: "2", Reporter: "AC", Page: "605"},
	}
	assert.Empty(t, tpl.Candidates(c))
}
