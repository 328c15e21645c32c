package coa

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// namespaceToPrefix converts a namespace URI back to its conventional
// Word prefix. The Go decoder resolves prefixes to URIs; re-serializing
// captured raw elements needs the prefixes back.
func namespaceToPrefix(uri string) string {
	prefixMap := map[string]string{
		"http://schemas.openxmlformats.org/wordprocessingml/2006/main":           "w",
		"http://schemas.openxmlformats.org/officeDocument/2006/relationships":    "r",
		"http://schemas.openxmlformats.org/officeDocument/2006/math":             "m",
		"http://www.w3.org/XML/1998/namespace":                                   "xml",
		"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
		"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
		"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
		"http://schemas.openxmlformats.org/markup-compatibility/2006":            "mc",
		"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
		"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":      "wps",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":      "wpg",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas":     "wpc",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing":    "wp14",
		"http://schemas.microsoft.com/office/drawing/2010/main":                  "a14",
		"http://schemas.microsoft.com/office/word/2006/wordml":                   "wne",
		"urn:schemas-microsoft-com:vml":                                          "v",
		"urn:schemas-microsoft-com:office:office":                                "o",
		"urn:schemas-microsoft-com:office:word":                                  "w10",
	}
	if prefix, ok := prefixMap[uri]; ok {
		return prefix
	}
	return uri
}

func writeQName(buf *strings.Builder, name xml.Name) {
	if name.Space != "" {
		buf.WriteString(namespaceToPrefix(name.Space))
		buf.WriteString(":")
	}
	buf.WriteString(name.Local)
}

func writeStartTag(buf *strings.Builder, t xml.StartElement) {
	buf.WriteString("<")
	writeQName(buf, t.Name)
	for _, attr := range t.Attr {
		buf.WriteString(" ")
		writeQName(buf, attr.Name)
		buf.WriteString(`="`)
		buf.WriteString(escapeXML(attr.Value))
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

// captureRaw consumes the element opened by start and returns it
// serialized verbatim, with namespace prefixes restored.
func captureRaw(d *xml.Decoder, start xml.StartElement) (*RawElement, error) {
	var buf strings.Builder
	writeStartTag(&buf, start)

	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			writeStartTag(&buf, t)
		case xml.EndElement:
			depth--
			buf.WriteString("</")
			writeQName(&buf, t.Name)
			buf.WriteString(">")
		case xml.CharData:
			buf.WriteString(escapeXML(string(t)))
		}
	}

	return &RawElement{Name: start.Name, Content: []byte(buf.String())}, nil
}

// MarshalXML emits the placeholder marker assigned by marshalElements.
// The marker is swapped for the verbatim content after encoding, since
// encoding/xml cannot emit raw bytes.
func (r *RawElement) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if r.marker == "" {
		return nil
	}
	return e.EncodeToken(xml.CharData(r.marker))
}

// MarshalXML writes the paragraph as <w:p>.
func (p *Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:p"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Properties != nil {
		if err := e.Encode(p.Properties); err != nil {
			return err
		}
	}
	for _, c := range p.Content {
		if err := e.Encode(c); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes the run as <w:r>.
func (r *Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}
	if r.Text != nil {
		if err := e.Encode(r.Text); err != nil {
			return err
		}
	}
	if r.Break != nil {
		if err := e.Encode(r.Break); err != nil {
			return err
		}
	}
	for _, raw := range r.Raw {
		if err := e.Encode(raw); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes run properties with explicit w: names.
func (rp *RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	emit := func(local string, attrs ...xml.Attr) error {
		return e.EncodeElement(struct{}{}, xml.StartElement{
			Name: xml.Name{Local: local},
			Attr: attrs,
		})
	}
	attr := func(local, val string) xml.Attr {
		return xml.Attr{Name: xml.Name{Local: local}, Value: val}
	}

	if rp.Style != nil {
		if err := emit("w:rStyle", attr("w:val", rp.Style.Val)); err != nil {
			return err
		}
	}
	if rp.Font != nil {
		var attrs []xml.Attr
		if rp.Font.ASCII != "" {
			attrs = append(attrs, attr("w:ascii", rp.Font.ASCII))
		}
		if rp.Font.HAnsi != "" {
			attrs = append(attrs, attr("w:hAnsi", rp.Font.HAnsi))
		}
		if rp.Font.EastAsia != "" {
			attrs = append(attrs, attr("w:eastAsia", rp.Font.EastAsia))
		}
		if rp.Font.Cs != "" {
			attrs = append(attrs, attr("w:cs", rp.Font.Cs))
		}
		if err := emit("w:rFonts", attrs...); err != nil {
			return err
		}
	}
	if rp.Bold != nil {
		if err := emit("w:b"); err != nil {
			return err
		}
	}
	if rp.Italic != nil {
		if err := emit("w:i"); err != nil {
			return err
		}
	}
	if rp.Strike != nil {
		if err := emit("w:strike"); err != nil {
			return err
		}
	}
	if rp.Color != nil {
		if err := emit("w:color", attr("w:val", rp.Color.Val)); err != nil {
			return err
		}
	}
	if rp.Size != nil {
		if err := emit("w:sz", attr("w:val", fmt.Sprintf("%d", rp.Size.Val))); err != nil {
			return err
		}
	}
	if rp.SizeCs != nil {
		if err := emit("w:szCs", attr("w:val", fmt.Sprintf("%d", rp.SizeCs.Val))); err != nil {
			return err
		}
	}
	if rp.Underline != nil {
		if err := emit("w:u", attr("w:val", rp.Underline.Val)); err != nil {
			return err
		}
	}
	if rp.VerticalAlign != nil {
		if err := emit("w:vertAlign", attr("w:val", rp.VerticalAlign.Val)); err != nil {
			return err
		}
	}
	if rp.Lang != nil {
		var attrs []xml.Attr
		if rp.Lang.Val != "" {
			attrs = append(attrs, attr("w:val", rp.Lang.Val))
		}
		if rp.Lang.EastAsia != "" {
			attrs = append(attrs, attr("w:eastAsia", rp.Lang.EastAsia))
		}
		if rp.Lang.Bidi != "" {
			attrs = append(attrs, attr("w:bidi", rp.Lang.Bidi))
		}
		if err := emit("w:lang", attrs...); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes the text as <w:t>, keeping xml:space="preserve".
func (t *Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:t"}
	start.Attr = nil
	if t.Space == "preserve" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Space: "http://www.w3.org/XML/1998/namespace", Local: "space"},
			Value: "preserve",
		})
	}
	return e.EncodeElement(t.Content, start)
}

// MarshalXML writes the break as a self-closing <w:br>.
func (b *Break) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:br"}
	start.Attr = nil
	if b.Type != "" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "w:type"},
			Value: b.Type,
		})
	}
	return e.EncodeElement(struct{}{}, start)
}

// MarshalXML writes the table as <w:tbl>.
func (t *Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tbl"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, raw := range t.Raw {
		if err := e.Encode(raw); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if err := e.Encode(row); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes the row as <w:tr>.
func (tr *TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, raw := range tr.Raw {
		if err := e.Encode(raw); err != nil {
			return err
		}
	}
	for _, cell := range tr.Cells {
		if err := e.Encode(cell); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML writes the cell as <w:tc>.
func (tc *TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tc"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, raw := range tc.Raw {
		if err := e.Encode(raw); err != nil {
			return err
		}
	}
	for _, el := range tc.Elements {
		if err := e.Encode(el); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// collectRawElements gathers every RawElement reachable from the
// elements, in no particular order.
func collectRawElements(elements []BodyElement) []*RawElement {
	var raws []*RawElement
	for _, el := range elements {
		switch e := el.(type) {
		case *RawElement:
			raws = append(raws, e)
		case *Paragraph:
			raws = append(raws, collectParagraphRaws(e)...)
		case *Table:
			raws = append(raws, e.Raw...)
			for _, row := range e.Rows {
				raws = append(raws, row.Raw...)
				for _, cell := range row.Cells {
					raws = append(raws, cell.Raw...)
					raws = append(raws, collectRawElements(cell.Elements)...)
				}
			}
		}
	}
	return raws
}

func collectParagraphRaws(p *Paragraph) []*RawElement {
	var raws []*RawElement
	if p.Properties != nil {
		raws = append(raws, p.Properties)
	}
	for _, c := range p.Content {
		switch e := c.(type) {
		case *RawElement:
			raws = append(raws, e)
		case *Run:
			raws = append(raws, e.Raw...)
		}
	}
	return raws
}

// marshalElements serializes body elements back to OOXML. Raw elements
// are encoded as unique text markers and swapped for their verbatim
// content afterwards.
func marshalElements(elements []BodyElement) ([]byte, error) {
	raws := collectRawElements(elements)
	markers := make(map[string][]byte, len(raws))
	for i, raw := range raws {
		raw.marker = fmt.Sprintf("__COA_RAW_MARKER_%d__", i)
		markers[raw.marker] = raw.Content
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	for _, el := range elements {
		if err := enc.Encode(el); err != nil {
			return nil, err
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}

	out := buf.String()
	for marker, content := range markers {
		out = strings.Replace(out, marker, string(content), 1)
	}
	return []byte(out), nil
}

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// rebuildPart reconstructs an XML part by splicing new inner content
// between the original root tag (namespaces intact) and its closing tag.
func rebuildPart(original, inner []byte, closingTag string) ([]byte, error) {
	content := string(original)

	searchStart := 0
	if idx := strings.Index(content, "?>"); idx != -1 && strings.HasPrefix(strings.TrimSpace(content), "<?xml") {
		searchStart = idx + 2
	}

	rootStart := strings.Index(content[searchStart:], "<")
	if rootStart == -1 {
		return nil, fmt.Errorf("malformed XML: no root tag found")
	}
	rootStart += searchStart

	openEnd := strings.Index(content[rootStart:], ">")
	if openEnd == -1 {
		return nil, fmt.Errorf("malformed XML: unterminated root tag")
	}
	openEnd += rootStart

	result := []byte(xmlDeclaration)
	result = append(result, content[rootStart:openEnd+1]...)
	result = append(result, inner...)
	result = append(result, []byte(closingTag)...)
	return result, nil
}

// marshalDocument serializes a filled document back into document.xml,
// reusing the original root element so every namespace declaration
// survives the round trip.
func marshalDocument(doc *Document, original []byte) ([]byte, error) {
	inner, err := marshalElements(doc.Body.Elements)
	if err != nil {
		return nil, err
	}
	body := append([]byte("<w:body>"), inner...)
	body = append(body, []byte("</w:body>")...)
	return rebuildPart(original, body, "</w:document>")
}

// marshalHeaderFooter serializes a filled header or footer part.
func marshalHeaderFooter(hf *HeaderFooter, original []byte) ([]byte, error) {
	inner, err := marshalElements(hf.Elements)
	if err != nil {
		return nil, err
	}
	return rebuildPart(original, inner, "</w:"+hf.RootLocal+">")
}
