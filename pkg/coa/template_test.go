package coa

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareRejectsCorruptBytes(t *testing.T) {
	_, err := Prepare(strings.NewReader("this is not a docx"))
	require.Error(t, err)
	assert.True(t, IsDocumentError(err), "want DocumentError, got %T: %v", err, err)
}

func TestPrepareRejectsZipWithoutDocument(t *testing.T) {
	// A valid ZIP that is not a DOCX package.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "hello")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Prepare(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
}

func TestTemplateFillBody(t *testing.T) {
	docx := buildDocx(
		paraXML("Batch: {{", "BATCH_1", "}}")+
			paraXML("Moisture: {{M1}} %"),
		nil,
	)

	tmpl, err := Prepare(bytes.NewReader(docx))
	require.NoError(t, err)

	out, err := tmpl.Fill(Replacements{"BATCH_1": "L-204", "M1": "8.1"})
	require.NoError(t, err)

	text, err := docText(out)
	require.NoError(t, err)
	assert.Equal(t, "Batch: L-204\nMoisture: 8.1 %", text)
}

func TestTemplateFillTableCells(t *testing.T) {
	tableXML := `<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/></w:tblPr><w:tr><w:tc>` +
		paraXML("{{BATCH_1}}") + `</w:tc><w:tc>` + paraXML("{{M1}}") + `</w:tc></w:tr></w:tbl>`
	docx := buildDocx(paraXML("Results:")+tableXML, nil)

	tmpl, err := Prepare(bytes.NewReader(docx))
	require.NoError(t, err)

	out, err := tmpl.Fill(Replacements{"BATCH_1": "L-204", "M1": "8.1"})
	require.NoError(t, err)

	text, err := docText(out)
	require.NoError(t, err)
	assert.Equal(t, "Results:\nL-204\n8.1", text)

	// The preserved tblPr must survive the round trip verbatim.
	reader, err := NewPackageReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	docXML, err := reader.DocumentXML()
	require.NoError(t, err)
	assert.Contains(t, string(docXML), `<w:tblStyle w:val="TableGrid">`)
}

func TestTemplateFillHeadersAndFooters(t *testing.T) {
	docx := buildDocx(paraXML("body {{M1}}"), map[string]string{
		"word/header1.xml": headerXML(paraXML("Issued {{DD/MM/YYYY}}")),
		"word/footer1.xml": footerXML(paraXML("Batch {{BATCH_1}}")),
	})

	tmpl, err := Prepare(bytes.NewReader(docx))
	require.NoError(t, err)

	out, err := tmpl.Fill(Replacements{
		"M1":         "8.1",
		"DD/MM/YYYY": "21/08/2026",
		"BATCH_1":    "L-204",
	})
	require.NoError(t, err)

	header, err := partText(out, "word/header1.xml")
	require.NoError(t, err)
	assert.Equal(t, "Issued 21/08/2026", header)

	footer, err := partText(out, "word/footer1.xml")
	require.NoError(t, err)
	assert.Equal(t, "Batch L-204", footer)
}

func TestTemplateFillWithoutHeadersIsFine(t *testing.T) {
	docx := buildDocx(paraXML("{{M1}}"), nil)

	tmpl, err := Prepare(bytes.NewReader(docx))
	require.NoError(t, err)

	out, err := tmpl.Fill(Replacements{"M1": "8.1"})
	require.NoError(t, err)

	text, err := docText(out)
	require.NoError(t, err)
	assert.Equal(t, "8.1", text)
}

func TestTemplateFillUnknownKeysSurvive(t *testing.T) {
	docx := buildDocx(paraXML("{{NOT_A_KEY}} and {{M1}}"), nil)

	tmpl, err := Prepare(bytes.NewReader(docx))
	require.NoError(t, err)

	out, err := tmpl.Fill(Replacements{"M1": "8.1"})
	require.NoError(t, err)

	text, err := docText(out)
	require.NoError(t, err)
	assert.Equal(t, "{{NOT_A_KEY}} and 8.1", text)
}

func TestTemplateFillIsRepeatable(t *testing.T) {
	// Fill parses a fresh document each call: the second fill must see
	// the original placeholders, not the first fill's output.
	docx := buildDocx(paraXML("{{M1}}"), nil)

	tmpl, err := Prepare(bytes.NewReader(docx))
	require.NoError(t, err)

	first, err := tmpl.Fill(Replacements{"M1": "8.1"})
	require.NoError(t, err)
	second, err := tmpl.Fill(Replacements{"M1": "9.9"})
	require.NoError(t, err)

	firstText, err := docText(first)
	require.NoError(t, err)
	secondText, err := docText(second)
	require.NoError(t, err)

	assert.Equal(t, "8.1", firstText)
	assert.Equal(t, "9.9", secondText)
}

func TestTemplateFillNormalizesCorruptedDelimiters(t *testing.T) {
	docx := buildDocx(paraXML("((BATCH_1}}"), map[string]string{
		"word/footer1.xml": footerXML(paraXML("((M1))")),
	})

	tmpl, err := Prepare(bytes.NewReader(docx))
	require.NoError(t, err)

	out, err := tmpl.Fill(Replacements{"BATCH_1": "X1", "M1": "8.1"})
	require.NoError(t, err)

	text, err := docText(out)
	require.NoError(t, err)
	assert.Equal(t, "X1", text)

	footer, err := partText(out, "word/footer1.xml")
	require.NoError(t, err)
	assert.Equal(t, "8.1", footer)
}

func TestTemplateFillPreservesUntouchedParts(t *testing.T) {
	docx := buildDocx(paraXML("{{M1}}"), map[string]string{
		"word/styles.xml": `<?xml version="1.0"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	})

	tmpl, err := Prepare(bytes.NewReader(docx))
	require.NoError(t, err)

	out, err := tmpl.Fill(Replacements{"M1": "8.1"})
	require.NoError(t, err)

	reader, err := NewPackageReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	styles, err := reader.PartBytes("word/styles.xml")
	require.NoError(t, err)
	assert.Contains(t, string(styles), "w:styles")
}
