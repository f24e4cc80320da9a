package citation

import (
	"testing"

	"github.com/legalaudit/crvc/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarFindAllNeutralDialects(t *testing.T) {
	g := NewGrammar()

	cases := []struct {
		name     string
		text     string
		wantCourt string
		wantYear  int
		wantNum   int
		wantDiv   string
	}{
		{"uksc", "Montgomery v Lanarkshire Health Board [2015] UKSC 11 is the leading case.", "UKSC", 2015, 11, ""},
		{"ewca civ", "The appeal in Smith v Jones [2020] EWCA Civ 123 failed.", "EWCA", 2020, 123, "Civ"},
		{"ewca crim", "[2019] EWCA Crim 45", "EWCA", 2019, 45, "Crim"},
		{"ewhc admin", "R (Miller) v Secretary of State [2021] EWHC 456 (Admin)", "EWHC", 2021, 456, "Admin"},
		{"ukut", "[2018] UKUT 78 (IAC)", "UKUT", 2018, 78, "IAC"},
		{"ukftt", "[2017] UKFTT 99 (TC)", "UKFTT", 2017, 99, "TC"},
		{"eat", "[2016] EAT 5", "EAT", 2016, 5, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			citations := g.FindAll(tc.text)
			require.Len(t, citations, 1)
			c := citations[0]
			require.NotNil(t, c.Neutral)
			assert.Equal(t, models.CitationFormNeutral, c.Form)
			assert.Equal(t, tc.wantCourt, c.Neutral.Court)
			assert.Equal(t, tc.wantYear, c.Neutral.Year)
			assert.Equal(t, tc.wantNum, c.Neutral.Number)
			assert.Equal(t, tc.wantDiv, c.Neutral.Division)
		})
	}
}

func TestGrammarFindAllReporter(t *testing.T) {
	g := NewGrammar()
	text := "Caparo Industries plc v Dickman [1990] 2 AC 605 is a duty-of-care case."

	citations := g.FindAll(text)
	require.Len(t, citations, 1)
	c := citations[0]
	assert.Equal(t, models.CitationFormReporter, c.Form)
	require.NotNil(t, c.Reporter)
	assert.Equal(t, 1990, c.Reporter.Year)
	assert.Equal(t, "2", c.Reporter.Volume)
	assert.Equal(t, "AC", c.Reporter.Reporter)
	assert.Equal(t, "605", c.Reporter.Page)
	assert.Equal(t, "Caparo Industries plc v Dickman", c.CaseName)
}

func TestGrammarFindAllDeduplicatesAndOrders(t *testing.T) {
	g := NewGrammar()
	text := "See [2015] UKSC 11 and again [2015] UKSC 11, then [2020] EWCA Civ 1."

	citations := g.FindAll(text)
	require.Len(t, citations, 2)
	assert.Equal(t, "UKSC", citations[0].Neutral.Court)
	assert.Equal(t, "EWCA", citations[1].Neutral.Court)
}

func TestGrammarClassifyUnknown(t *testing.T) {
	g := NewGrammar()
	c := g.Classify("not a citation at all")
	assert.Equal(t, models.CitationFormUnknown, c.Form)
	assert.False(t, c.IsRecognised())
}

func TestExtractCaseNameRejectsShortOrLowercase(t *testing.T) {
	assert.Equal(t, "", ExtractCaseName("abc"))
	assert.Equal(t, "", ExtractCaseName(""))
}

func TestExtractCaseNameRegina(t *testing.T) {
	name := ExtractCaseName("In the leading case of R v Smith ")
	assert.Equal(t, "R v Smith", name)
}

func TestExtractCaseNameReAndExParte(t *testing.T) {
	assert.Equal(t, "Re Diplock", ExtractCaseName("The trust dispute in Re Diplock "))
	assert.Equal(t, "Ex parte Pinochet", ExtractCaseName("The House of Lords in Ex parte Pinochet "))
}
