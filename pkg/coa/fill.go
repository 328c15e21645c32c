package coa

// FillElements normalizes corrupted delimiters and then substitutes
// placeholders in every paragraph reachable from the elements: body
// paragraphs in order, then table cell paragraphs row-major as the
// walk encounters each table. Returns the number of substitutions.
func FillElements(elements []BodyElement, values Replacements) int {
	NormalizeDelimiters(elements)

	total := 0
	forEachParagraph(elements, func(p *Paragraph) {
		total += ReplaceInParagraph(p, values)
	})
	return total
}
