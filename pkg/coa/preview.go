package coa

import (
	"bytes"
	"fmt"
	"html"
	"strings"
)

// PreviewHTML renders generated DOCX bytes as an HTML approximation for
// on-screen preview: paragraphs, basic run styling (bold, italic,
// underline, color, size) and tables. It is a pure bytes-to-markup
// function; the DOCX output remains the document of record.
func PreviewHTML(docxBytes []byte) (string, error) {
	reader, err := NewPackageReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return "", NewDocumentError("open", "", err)
	}
	docXML, err := reader.DocumentXML()
	if err != nil {
		return "", NewDocumentError("extract", "word/document.xml", err)
	}
	doc, err := ParseDocument(bytes.NewReader(docXML))
	if err != nil {
		return "", NewDocumentError("parse", "word/document.xml", err)
	}

	var sb strings.Builder
	renderElementsHTML(doc.Body.Elements, &sb)
	return sb.String(), nil
}

func renderElementsHTML(elements []BodyElement, sb *strings.Builder) {
	for _, el := range elements {
		switch e := el.(type) {
		case *Paragraph:
			sb.WriteString("<p>")
			for _, r := range e.Runs() {
				renderRunHTML(r, sb)
			}
			sb.WriteString("</p>\n")
		case *Table:
			sb.WriteString("<table>\n")
			for _, row := range e.Rows {
				sb.WriteString("<tr>")
				for _, cell := range row.Cells {
					sb.WriteString("<td>")
					renderElementsHTML(cell.Elements, sb)
					sb.WriteString("</td>")
				}
				sb.WriteString("</tr>\n")
			}
			sb.WriteString("</table>\n")
		}
	}
}

func renderRunHTML(r *Run, sb *strings.Builder) {
	if r.Break != nil {
		sb.WriteString("<br/>")
	}
	text := r.GetText()
	if text == "" {
		return
	}

	var closers []string
	props := r.Properties
	if props != nil {
		var styles []string
		if props.Color != nil && props.Color.Val != "" && props.Color.Val != "auto" {
			styles = append(styles, "color:#"+props.Color.Val)
		}
		if props.Size != nil && props.Size.Val > 0 {
			// w:sz is measured in half-points.
			styles = append(styles, fmt.Sprintf("font-size:%gpt", float64(props.Size.Val)/2))
		}
		if props.Font != nil && props.Font.ASCII != "" {
			styles = append(styles, "font-family:"+props.Font.ASCII)
		}
		if len(styles) > 0 {
			sb.WriteString(`<span style="` + strings.Join(styles, ";") + `">`)
			closers = append(closers, "</span>")
		}
		if props.Bold != nil {
			sb.WriteString("<strong>")
			closers = append(closers, "</strong>")
		}
		if props.Italic != nil {
			sb.WriteString("<em>")
			closers = append(closers, "</em>")
		}
		if props.Underline != nil && props.Underline.Val != "none" {
			sb.WriteString("<u>")
			closers = append(closers, "</u>")
		}
	}

	sb.WriteString(html.EscapeString(text))
	for i := len(closers) - 1; i >= 0; i-- {
		sb.WriteString(closers[i])
	}
}
