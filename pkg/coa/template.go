package coa

import (
	"archive/zip"
	"bytes"
	"io"
	"os"

	"go.uber.org/zap"
)

// Template is a COA template loaded from DOCX bytes. A Template may be
// filled any number of times: every Fill call parses a fresh document
// from the stored source, so no state leaks between generations.
type Template struct {
	source []byte
	reader *PackageReader
	logger *zap.Logger
}

// Option configures a Template.
type Option func(*Template)

// WithLogger attaches a logger to the template. The default is a nop
// logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Template) {
		t.logger = logger
	}
}

// Prepare loads a COA template from a reader of DOCX bytes. A corrupt
// or non-DOCX stream is reported as a DocumentError so callers can
// distinguish template corruption from an empty result.
func Prepare(r io.Reader, opts ...Option) (*Template, error) {
	buf := new(bytes.Buffer)
	size, err := buf.ReadFrom(r)
	if err != nil {
		return nil, NewDocumentError("read", "", err)
	}
	source := buf.Bytes()

	reader, err := NewPackageReader(bytes.NewReader(source), size)
	if err != nil {
		return nil, NewDocumentError("open", "", err)
	}

	// Parse eagerly so a template with a corrupt document.xml fails at
	// prepare time, not at first fill.
	docXML, err := reader.DocumentXML()
	if err != nil {
		return nil, NewDocumentError("extract", "word/document.xml", err)
	}
	if _, err := ParseDocument(bytes.NewReader(docXML)); err != nil {
		return nil, NewDocumentError("parse", "word/document.xml", err)
	}

	t := &Template{
		source: source,
		reader: reader,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// PrepareFile loads a COA template from a file path.
func PrepareFile(path string, opts ...Option) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	defer f.Close()
	return Prepare(f, opts...)
}

// Fill substitutes the replacement values into a fresh copy of the
// template and returns the generated DOCX bytes. The body, every table
// cell and every header/footer part are processed with the same
// normalize-then-substitute pipeline.
func (t *Template) Fill(values Replacements) ([]byte, error) {
	docXML, err := t.reader.DocumentXML()
	if err != nil {
		return nil, NewDocumentError("extract", "word/document.xml", err)
	}
	doc, err := ParseDocument(bytes.NewReader(docXML))
	if err != nil {
		return nil, NewDocumentError("parse", "word/document.xml", err)
	}

	n := FillElements(doc.Body.Elements, values)
	t.logger.Debug("filled document body",
		zap.Int("replacements", n))

	renderedDoc, err := marshalDocument(doc, docXML)
	if err != nil {
		return nil, NewDocumentError("marshal", "word/document.xml", err)
	}

	rendered := map[string][]byte{
		"word/document.xml": renderedDoc,
	}
	for _, name := range t.reader.HeaderFooterParts() {
		out, err := t.fillHeaderFooterPart(name, values)
		if err != nil {
			return nil, err
		}
		rendered[name] = out
	}

	return t.rewritePackage(rendered)
}

// fillHeaderFooterPart runs the fill pipeline over one header or footer
// part and returns its rebuilt XML.
func (t *Template) fillHeaderFooterPart(name string, values Replacements) ([]byte, error) {
	content, err := t.reader.PartBytes(name)
	if err != nil {
		return nil, NewDocumentError("extract", name, err)
	}
	hf, err := ParseHeaderFooter(bytes.NewReader(content))
	if err != nil {
		return nil, NewDocumentError("parse", name, err)
	}

	n := FillElements(hf.Elements, values)
	t.logger.Debug("filled header/footer part",
		zap.String("part", name),
		zap.Int("replacements", n))

	out, err := marshalHeaderFooter(hf, content)
	if err != nil {
		return nil, NewDocumentError("marshal", name, err)
	}
	return out, nil
}

// rewritePackage writes a new DOCX package, substituting the rendered
// parts and copying everything else verbatim from the source.
func (t *Template) rewritePackage(rendered map[string][]byte) ([]byte, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(t.source), int64(len(t.source)))
	if err != nil {
		return nil, NewDocumentError("open", "", err)
	}

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	for _, file := range zipReader.File {
		fw, err := w.Create(file.Name)
		if err != nil {
			return nil, NewDocumentError("write", file.Name, err)
		}

		if content, ok := rendered[file.Name]; ok {
			if _, err := fw.Write(content); err != nil {
				return nil, NewDocumentError("write", file.Name, err)
			}
			continue
		}

		fr, err := file.Open()
		if err != nil {
			return nil, NewDocumentError("copy", file.Name, err)
		}
		_, err = io.Copy(fw, fr)
		fr.Close()
		if err != nil {
			return nil, NewDocumentError("copy", file.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, NewDocumentError("write", "", err)
	}
	return buf.Bytes(), nil
}
