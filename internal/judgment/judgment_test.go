package judgment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAkomaNtoso = `<?xml version="1.0" encoding="UTF-8"?>
<akomaNtoso xmlns="http://docs.oasis-open.org/legaldocml/ns/akn/3.0">
  <judgment>
    <meta>
      <identification>
        <FRBRname value="R (Smith) v Secretary of State"/>
        <FRBRnumber value="[2020] UKSC 11"/>
        <FRBRdate date="2020-03-04"/>
        <FRBRauthor as="UKSC"/>
      </identification>
    </meta>
    <judgmentBody>
      <paragraph eId="para_1"><num>1</num><p>The claimant submits that the decision was unlawful.</p></paragraph>
      <paragraph eId="para_2"><num>2</num><p>We disagree, for the following reasons.</p></paragraph>
    </judgmentBody>
  </judgment>
</akomaNtoso>`

func TestParseAkomaNtosoExtractsMetadataAndParagraphs(t *testing.T) {
	j, err := ParseAkomaNtoso([]byte(sampleAkomaNtoso), "https://caselaw.nationalarchives.gov.uk/uksc/2020/11/data.xml")
	require.NoError(t, err)
	assert.Equal(t, "R (Smith) v Secretary of State", j.Title)
	assert.Equal(t, "[2020] UKSC 11", j.NeutralCitation)
	assert.Equal(t, "2020-03-04", j.Date)
	assert.Equal(t, "UKSC", j.Court)
	require.Len(t, j.Paragraphs, 2)
	assert.Equal(t, "1", j.Paragraphs[0].Number)
	assert.Contains(t, j.Paragraphs[0].Text, "unlawful")
}

func TestParseHTMLNumberedParagraphs(t *testing.T) {
	html := `<html><head><title>Smith v Jones [2015] EWCA Civ 99</title></head>
<body>
<p>[1] <b>Lord Justice Example:</b> The first point concerns jurisdiction and is set out below in full.</p>
<p>[2] The second point follows from the first and is likewise addressed at length.</p>
</body></html>`

	j, err := ParseHTML([]byte(html), "https://bailii.org/ew/cases/EWCA/Civ/2015/99.html")
	require.NoError(t, err)
	assert.Equal(t, "[2015] EWCA Civ 99", j.NeutralCitation)
	assert.Equal(t, "Smith v Jones", j.CaseName)
	require.Len(t, j.Paragraphs, 2)
	assert.Equal(t, "Lord Justice Example", j.Paragraphs[0].Speaker)
}

func TestParseHTMLFallbackSegmentation(t *testing.T) {
	longLine := "This is the judgment of the court. "
	for i := 0; i < 10; i++ {
		longLine += "Additional reasoning to pad the paragraph past the minimum length threshold. "
	}

	html := "<html><head><title>Re an Application</title></head><body>" +
		"<p>Navigation header with no markers.</p>" +
		"<p>" + longLine + "</p>" +
		"</body></html>"

	j, err := ParseHTML([]byte(html), "https://bailii.org/uk/cases/UKSC/2010/1.html")
	require.NoError(t, err)
	require.NotEmpty(t, j.Paragraphs)
	assert.Contains(t, j.ParserTrace.Warnings, "used fallback segmentation")
}
