package coa

import "strings"

// Corrupted placeholder delimiters seen in authored templates: "(("
// and "))" typed or pasted where "{{" and "}}" were meant.
const (
	corruptOpenDelim  = "(("
	corruptCloseDelim = "))"
)

// normalizeRunDelimiters repairs corrupted placeholder delimiters
// within a single run. The transform is run-local and idempotent: it
// never reads or merges across runs, and text that already uses
// "{{"/"}}" is left alone.
func normalizeRunDelimiters(r *Run) {
	text := r.GetText()
	if !strings.Contains(text, corruptOpenDelim) && !strings.Contains(text, corruptCloseDelim) {
		return
	}
	text = strings.ReplaceAll(text, corruptOpenDelim, "{{")
	text = strings.ReplaceAll(text, corruptCloseDelim, "}}")
	r.SetText(text)
}

// NormalizeDelimiters repairs corrupted placeholder delimiters in every
// run of every paragraph reachable from the elements, including table
// cell paragraphs.
func NormalizeDelimiters(elements []BodyElement) {
	forEachParagraph(elements, func(p *Paragraph) {
		for _, r := range p.Runs() {
			normalizeRunDelimiters(r)
		}
	})
}
