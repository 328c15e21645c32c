package coa

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Document represents the parsed word/document.xml part.
type Document struct {
	XMLName xml.Name `xml:"document"`
	Body    *Body    `xml:"body"`
}

// BodyElement is any element that can appear in a document body,
// a header/footer part, or a table cell.
type BodyElement interface {
	isBodyElement()
}

// Body holds the ordered children of <w:body>.
type Body struct {
	Elements []BodyElement `xml:"-"`
}

// Paragraph is one text container: an ordered sequence of runs,
// possibly interleaved with elements we carry through untouched
// (proofErr, bookmarks and the like).
type Paragraph struct {
	// Properties holds the raw <w:pPr> element, if present. The fill
	// pipeline never rewrites paragraph properties, so they are kept
	// verbatim.
	Properties *RawElement
	Content    []ParagraphChild
}

func (p *Paragraph) isBodyElement() {}

// ParagraphChild is an ordered child of a paragraph: a run or a raw
// pass-through element.
type ParagraphChild interface {
	isParagraphChild()
}

// Runs returns the paragraph's runs in document order.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, c := range p.Content {
		if r, ok := c.(*Run); ok {
			runs = append(runs, r)
		}
	}
	return runs
}

// Text returns the concatenated text of all runs in the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.GetText())
	}
	return sb.String()
}

// Run is an atomic span of text sharing one style. Its text is mutable;
// the run (and therefore its style) keeps its identity across mutation.
type Run struct {
	Properties *RunProperties
	Text       *Text
	Break      *Break
	// Raw preserves run children we do not model (drawings, tabs, ...).
	Raw []*RawElement
}

func (r *Run) isParagraphChild() {}

// GetText returns the run's text, or "" for text-less runs.
func (r *Run) GetText() string {
	if r.Text == nil {
		return ""
	}
	return r.Text.Content
}

// SetText rewrites the run's text in place. Leading or trailing
// whitespace forces xml:space="preserve" so Word does not strip it.
func (r *Run) SetText(s string) {
	if r.Text == nil {
		r.Text = &Text{}
	}
	r.Text.Content = s
	if strings.TrimSpace(s) != s {
		r.Text.Space = "preserve"
	}
}

// RunProperties models the <w:rPr> style attributes the substitution
// engine preserves. Nil fields mean unset/inherited.
type RunProperties struct {
	Style         *StyleRef       `xml:"rStyle"`
	Font          *Font           `xml:"rFonts"`
	Bold          *Empty          `xml:"b"`
	Italic        *Empty          `xml:"i"`
	Strike        *Empty          `xml:"strike"`
	Color         *Color          `xml:"color"`
	Size          *Size           `xml:"sz"`
	SizeCs        *Size           `xml:"szCs"`
	Underline     *UnderlineStyle `xml:"u"`
	VerticalAlign *VerticalAlign  `xml:"vertAlign"`
	Lang          *Lang           `xml:"lang"`
}

// Text is the <w:t> element.
type Text struct {
	XMLName xml.Name `xml:"t"`
	Space   string   `xml:"space,attr"`
	Content string   `xml:",chardata"`
}

// Break is the <w:br> element.
type Break struct {
	Type string `xml:"type,attr,omitempty"`
}

// Empty marks boolean run properties (<w:b/>, <w:i/>, ...).
type Empty struct{}

// StyleRef references a named character style.
type StyleRef struct {
	Val string `xml:"val,attr"`
}

// Font carries the <w:rFonts> attributes.
type Font struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	EastAsia string `xml:"eastAsia,attr"`
	Cs       string `xml:"cs,attr"`
}

// Color is a run text color. An absent Color (nil pointer) is distinct
// from a zero value: nil means inherited.
type Color struct {
	Val string `xml:"val,attr"`
}

// Size is a font size in half-points.
type Size struct {
	Val int `xml:"val,attr"`
}

// UnderlineStyle is the <w:u> element.
type UnderlineStyle struct {
	Val string `xml:"val,attr"`
}

// VerticalAlign is the <w:vertAlign> element.
type VerticalAlign struct {
	Val string `xml:"val,attr"`
}

// Lang is the <w:lang> element.
type Lang struct {
	Val      string `xml:"val,attr,omitempty"`
	EastAsia string `xml:"eastAsia,attr,omitempty"`
	Bidi     string `xml:"bidi,attr,omitempty"`
}

// Table is a grid of cells, each cell holding its own body elements.
type Table struct {
	// Raw preserves <w:tblPr>, <w:tblGrid> and anything else that
	// precedes the rows.
	Raw  []*RawElement
	Rows []*TableRow
}

func (t *Table) isBodyElement() {}

// TableRow is one <w:tr>.
type TableRow struct {
	Raw   []*RawElement
	Cells []*TableCell
}

// TableCell is one <w:tc>; cells contain paragraphs and nested tables.
type TableCell struct {
	Raw      []*RawElement
	Elements []BodyElement
}

// RawElement carries an element we do not model through parse and
// marshal unchanged. Content is the element's full serialized XML.
type RawElement struct {
	Name    xml.Name
	Content []byte

	marker string
}

func (r *RawElement) isBodyElement()     {}
func (r *RawElement) isParagraphChild() {}

// ParseDocument parses a word/document.xml stream.
func ParseDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Body == nil {
		return nil, fmt.Errorf("document has no body")
	}
	return &doc, nil
}

// HeaderFooter holds the ordered children of a <w:hdr> or <w:ftr> part.
type HeaderFooter struct {
	// RootLocal is "hdr" or "ftr", used to close the root tag on marshal.
	RootLocal string
	Elements  []BodyElement
}

// ParseHeaderFooter parses a word/headerN.xml or word/footerN.xml stream.
func ParseHeaderFooter(r io.Reader) (*HeaderFooter, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("empty header/footer part")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse header/footer: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "hdr" && start.Name.Local != "ftr" {
			return nil, fmt.Errorf("unexpected root element <%s>", start.Name.Local)
		}
		elements, err := parseElements(d, start.Name.Local)
		if err != nil {
			return nil, err
		}
		return &HeaderFooter{RootLocal: start.Name.Local, Elements: elements}, nil
	}
}

// UnmarshalXML decodes body children in document order.
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	elements, err := parseElements(d, start.Name.Local)
	if err != nil {
		return err
	}
	b.Elements = elements
	return nil
}

// parseElements reads paragraph/table/raw children until the enclosing
// element named parentLocal closes.
func parseElements(d *xml.Decoder, parentLocal string) ([]BodyElement, error) {
	var elements []BodyElement
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return elements, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return nil, err
				}
				elements = append(elements, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return nil, err
				}
				elements = append(elements, &table)
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return nil, err
				}
				elements = append(elements, raw)
			}
		case xml.EndElement:
			if t.Name.Local == parentLocal {
				return elements, nil
			}
		}
	}
}

// UnmarshalXML decodes a paragraph, keeping runs and unmodeled children
// in document order.
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				p.Properties = raw
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Content = append(p.Content, &run)
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				p.Content = append(p.Content, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return nil
			}
		}
	}
}

// UnmarshalXML decodes a run, preserving unmodeled children raw.
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				var props RunProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				r.Properties = &props
			case "t":
				var text Text
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.Text = &text
			case "br":
				var br Break
				if err := d.DecodeElement(&br, &t); err != nil {
					return err
				}
				r.Break = &br
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				r.Raw = append(r.Raw, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return nil
			}
		}
	}
}

// UnmarshalXML decodes a table: rows plus raw pre-row elements
// (tblPr, tblGrid).
func (t *Table) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tk := tok.(type) {
		case xml.StartElement:
			switch tk.Name.Local {
			case "tr":
				var row TableRow
				if err := d.DecodeElement(&row, &tk); err != nil {
					return err
				}
				t.Rows = append(t.Rows, &row)
			default:
				raw, err := captureRaw(d, tk)
				if err != nil {
					return err
				}
				t.Raw = append(t.Raw, raw)
			}
		case xml.EndElement:
			if tk.Name.Local == "tbl" {
				return nil
			}
		}
	}
}

// UnmarshalXML decodes a table row: cells plus raw trPr.
func (tr *TableRow) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tk := tok.(type) {
		case xml.StartElement:
			switch tk.Name.Local {
			case "tc":
				var cell TableCell
				if err := d.DecodeElement(&cell, &tk); err != nil {
					return err
				}
				tr.Cells = append(tr.Cells, &cell)
			default:
				raw, err := captureRaw(d, tk)
				if err != nil {
					return err
				}
				tr.Raw = append(tr.Raw, raw)
			}
		case xml.EndElement:
			if tk.Name.Local == "tr" {
				return nil
			}
		}
	}
}

// UnmarshalXML decodes a table cell: paragraphs, nested tables, raw tcPr.
func (tc *TableCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tk := tok.(type) {
		case xml.StartElement:
			switch tk.Name.Local {
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &tk); err != nil {
					return err
				}
				tc.Elements = append(tc.Elements, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &tk); err != nil {
					return err
				}
				tc.Elements = append(tc.Elements, &table)
			default:
				raw, err := captureRaw(d, tk)
				if err != nil {
					return err
				}
				tc.Raw = append(tc.Raw, raw)
			}
		case xml.EndElement:
			if tk.Name.Local == "tc" {
				return nil
			}
		}
	}
}

// forEachParagraph visits every paragraph in the elements, descending
// into table cells row-major and into nested tables.
func forEachParagraph(elements []BodyElement, fn func(*Paragraph)) {
	for _, el := range elements {
		switch e := el.(type) {
		case *Paragraph:
			fn(e)
		case *Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					forEachParagraph(cell.Elements, fn)
				}
			}
		}
	}
}
