package coa

import "regexp"

// Replacements maps placeholder keys to the text that replaces them.
// Lookup is case-sensitive; keys absent from the mapping leave their
// placeholder verbatim in the output.
type Replacements map[string]string

// placeholderPattern matches {{KEY}} tokens. Keys are alphanumerics,
// underscore, hyphen or slash (the slash covers date keys such as
// DD/MM/YYYY); whitespace inside the braces is tolerated.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_\-/]+)\s*\}\}`)

// ReplaceInParagraph finds every placeholder token in the paragraph's
// concatenated text and substitutes those whose key exists in values,
// rewriting the minimal set of runs. A token may be fragmented across
// any number of differently styled runs; the merged result lands in
// the first overlapping run, which keeps its pre-existing style. The
// other overlapping runs are cleared but never removed.
//
// Matches are processed left to right against offsets captured once,
// before any mutation. A run rewritten by an earlier match carries a
// length delta so that a later match landing in the same run still
// slices at the right position. Returns the number of substitutions
// made.
func ReplaceInParagraph(p *Paragraph, values Replacements) int {
	runs := p.Runs()
	if len(runs) == 0 {
		return 0
	}

	fullText, spans := runSpans(runs)
	matches := placeholderPattern.FindAllStringSubmatchIndex(fullText, -1)
	if matches == nil {
		return 0
	}

	deltas := make(map[*Run]int)
	replaced := 0
	for _, m := range matches {
		key := fullText[m[2]:m[3]]
		value, ok := values[key]
		if !ok {
			// Unknown key: leave the token untouched, including
			// skipping the run-clearing side effects.
			continue
		}
		matchStart, matchEnd := m[0], m[1]

		var overlapping []runSpan
		for _, s := range spans {
			if !(s.end <= matchStart || s.start >= matchEnd) {
				overlapping = append(overlapping, s)
			}
		}
		if len(overlapping) == 0 {
			continue
		}

		first := overlapping[0]
		last := overlapping[len(overlapping)-1]

		firstText := first.run.GetText()
		lastText := last.run.GetText()

		prefix := firstText[:clamp(matchStart-first.start+deltas[first.run], 0, len(firstText))]
		suffix := lastText[clamp(matchEnd-last.start+deltas[last.run], 0, len(lastText)):]

		style := first.run.Properties

		for _, s := range overlapping {
			s.run.SetText("")
		}
		first.run.SetText(prefix + value + suffix)
		applyRunStyle(first.run, style)

		if first.run == last.run {
			deltas[first.run] += len(value) - (matchEnd - matchStart)
		}
		replaced++
	}
	return replaced
}

// applyRunStyle reasserts the style captured from the first overlapping
// run onto the merged run, attribute by attribute. Unset attributes are
// skipped; nothing here can abort a substitution.
func applyRunStyle(r *Run, style *RunProperties) {
	if style == nil {
		return
	}
	if r.Properties == nil {
		r.Properties = &RunProperties{}
	}
	if style.Font != nil {
		f := *style.Font
		r.Properties.Font = &f
	}
	if style.Size != nil {
		s := *style.Size
		r.Properties.Size = &s
	}
	r.Properties.Bold = style.Bold
	r.Properties.Italic = style.Italic
	r.Properties.Underline = style.Underline
	if style.Color != nil {
		c := *style.Color
		r.Properties.Color = &c
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
