package coa

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
)

// headerFooterPattern matches the header and footer parts of a DOCX
// package. One part exists per section header/footer reference; a
// document with no distinct sections simply has none.
var headerFooterPattern = regexp.MustCompile(`^word/(?:header|footer)\d+\.xml$`)

// PackageReader reads the parts of a DOCX package.
type PackageReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewPackageReader opens DOCX bytes as a ZIP package and validates that
// it contains a main document part.
func NewPackageReader(r io.ReaderAt, size int64) (*PackageReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	pr := &PackageReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}
	for _, file := range zipReader.File {
		pr.Parts[file.Name] = file
	}

	if _, ok := pr.Parts["word/document.xml"]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing word/document.xml")
	}
	return pr, nil
}

// NewPackageReaderFromFile opens a DOCX package from disk.
func NewPackageReaderFromFile(path string) (*PackageReader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return NewPackageReader(bytes.NewReader(content), int64(len(content)))
}

// PartBytes returns the content of a named package part.
func (pr *PackageReader) PartBytes(name string) ([]byte, error) {
	file, ok := pr.Parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", name, err)
	}
	return content, nil
}

// DocumentXML returns the content of word/document.xml.
func (pr *PackageReader) DocumentXML() ([]byte, error) {
	return pr.PartBytes("word/document.xml")
}

// HeaderFooterParts lists the header and footer part names in a stable
// order. Documents without headers or footers return an empty slice.
func (pr *PackageReader) HeaderFooterParts() []string {
	var names []string
	for name := range pr.Parts {
		if headerFooterPattern.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
