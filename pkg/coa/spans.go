package coa

import "strings"

// runSpan maps a run onto the half-open interval [start, end) it
// occupies within its paragraph's concatenated text. Spans are
// ephemeral: they are rebuilt on every call because normalization or a
// prior substitution may have changed run lengths.
type runSpan struct {
	run   *Run
	start int
	end   int
}

// runSpans concatenates the runs' texts in order and records each
// run's offsets within the result. Text-less runs contribute a
// zero-width span, kept for positional correctness.
func runSpans(runs []*Run) (string, []runSpan) {
	var sb strings.Builder
	spans := make([]runSpan, 0, len(runs))
	for _, r := range runs {
		start := sb.Len()
		sb.WriteString(r.GetText())
		spans = append(spans, runSpan{run: r, start: start, end: sb.Len()})
	}
	return sb.String(), spans
}
