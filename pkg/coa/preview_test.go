package coa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewHTMLParagraphs(t *testing.T) {
	docx := buildDocx(paraXML("Certificate of Analysis")+paraXML("Batch L-204"), nil)

	out, err := PreviewHTML(docx)
	require.NoError(t, err)

	assert.Contains(t, out, "<p>Certificate of Analysis</p>")
	assert.Contains(t, out, "<p>Batch L-204</p>")
}

func TestPreviewHTMLTable(t *testing.T) {
	tableXML := `<w:tbl><w:tr><w:tc>` + paraXML("Moisture") + `</w:tc><w:tc>` +
		paraXML("8.1") + `</w:tc></w:tr></w:tbl>`
	docx := buildDocx(tableXML, nil)

	out, err := PreviewHTML(docx)
	require.NoError(t, err)

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td><p>Moisture</p>")
	assert.Contains(t, out, "<td><p>8.1</p>")
	assert.Contains(t, out, "</table>")
}

func TestPreviewHTMLRunStyling(t *testing.T) {
	bodyXML := `<w:p><w:r><w:rPr><w:b/><w:color w:val="FF0000"/><w:sz w:val="28"/></w:rPr>` +
		`<w:t>Result</w:t></w:r></w:p>`
	docx := buildDocx(bodyXML, nil)

	out, err := PreviewHTML(docx)
	require.NoError(t, err)

	assert.Contains(t, out, "<strong>Result</strong>")
	assert.Contains(t, out, "color:#FF0000")
	assert.Contains(t, out, "font-size:14pt")
}

func TestPreviewHTMLEscapesText(t *testing.T) {
	docx := buildDocx(paraXML("a &lt; b &amp; c"), nil)

	out, err := PreviewHTML(docx)
	require.NoError(t, err)

	assert.Contains(t, out, "a &lt; b &amp; c")
	assert.NotContains(t, out, "a < b")
}

func TestPreviewHTMLRejectsCorruptBytes(t *testing.T) {
	_, err := PreviewHTML([]byte("not a docx"))
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
}
