package coa

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
)

// Helpers for building DOCX packages in memory. Tests describe a
// document as raw body XML (and optional header/footer XML) and get
// back the zipped package bytes.

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const testRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// buildDocx zips the given parts plus the boilerplate a minimal DOCX
// needs. extraParts maps part names (e.g. "word/header1.xml") to their
// content.
func buildDocx(bodyXML string, extraParts map[string]string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	write := func(name, content string) {
		fw, _ := w.Create(name)
		io.WriteString(fw, content)
	}

	write("[Content_Types].xml", testContentTypes)
	write("_rels/.rels", testRootRels)
	write("word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+bodyXML+`</w:body></w:document>`)

	for name, content := range extraParts {
		write(name, content)
	}

	w.Close()
	return buf.Bytes()
}

// headerXML wraps body XML in a <w:hdr> part.
func headerXML(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + inner + `</w:hdr>`
}

// footerXML wraps body XML in a <w:ftr> part.
func footerXML(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + inner + `</w:ftr>`
}

// paraXML builds a <w:p> whose runs carry the given texts, one run per
// text.
func paraXML(texts ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	for _, t := range texts {
		sb.WriteString(`<w:r><w:t xml:space="preserve">` + t + `</w:t></w:r>`)
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

// makeRun builds an in-memory run with the given text.
func makeRun(text string) *Run {
	r := &Run{}
	r.SetText(text)
	return r
}

// makePara builds a paragraph with one run per text.
func makePara(texts ...string) *Paragraph {
	p := &Paragraph{}
	for _, t := range texts {
		p.Content = append(p.Content, makeRun(t))
	}
	return p
}

// docText re-opens generated DOCX bytes and returns the concatenated
// text of every body paragraph (including table cells), one line per
// paragraph.
func docText(docxBytes []byte) (string, error) {
	reader, err := NewPackageReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return "", err
	}
	docXML, err := reader.DocumentXML()
	if err != nil {
		return "", err
	}
	doc, err := ParseDocument(bytes.NewReader(docXML))
	if err != nil {
		return "", err
	}

	var lines []string
	forEachParagraph(doc.Body.Elements, func(p *Paragraph) {
		lines = append(lines, p.Text())
	})
	return strings.Join(lines, "\n"), nil
}

// partText parses a header/footer part from generated DOCX bytes and
// returns its concatenated paragraph text.
func partText(docxBytes []byte, part string) (string, error) {
	reader, err := NewPackageReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return "", err
	}
	content, err := reader.PartBytes(part)
	if err != nil {
		return "", err
	}
	hf, err := ParseHeaderFooter(bytes.NewReader(content))
	if err != nil {
		return "", err
	}

	var lines []string
	forEachParagraph(hf.Elements, func(p *Paragraph) {
		lines = append(lines, p.Text())
	})
	return strings.Join(lines, "\n"), nil
}
