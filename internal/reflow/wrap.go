// Package reflow wraps flat text buffers into display-line byte spans for a
// fixed terminal column budget, and maps byte offsets back to line numbers.
package reflow

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Span is a half-open byte range [Start, End) into the text buffer a line was
// wrapped from. The break character that ended a line (a space or newline) is
// excluded from the span and skipped by the next one.
type Span struct {
	Start int
	End   int
}

// Wrap splits text into line spans no wider than maxCols display columns.
// Break opportunities are explicit newlines (always break, consumed), spaces
// (break, consumed), and hyphens or em-dashes still within budget (break, the
// dash stays in the line). A single token wider than maxCols is force-broken
// at the overflowing rune. Widths are terminal cell counts: most runes are 1
// column, East Asian wide runes are 2, zero-width runes are 0.
func Wrap(text string, maxCols int) []Span {
	var lines []Span

	// byte offsets
	start := 0
	end := 0
	// columns accumulated since the last break opportunity
	after := 0
	// columns of the current unbroken line
	cols := 0
	// whether the pending break consumes its byte
	space := false

	for i, r := range text {
		w := runewidth.RuneWidth(r)
		cols += w
		switch {
		case r == '\n':
			after = 0
			end = i
			space = true
			cols = maxCols + 1
		case r == ' ':
			after = 0
			end = i
			space = true
		case (r == '-' || r == '—') && cols <= maxCols:
			after = 0
			end = i + utf8.RuneLen(r)
			space = false
		default:
			after += w
		}
		if cols > maxCols {
			// no break opportunity on this line: split the token
			if cols == after {
				after = w
				end = i
				space = false
			}
			lines = append(lines, Span{start, end})
			start = end
			if space {
				start++
			}
			cols = after
		}
	}

	if start < len(text) {
		lines = append(lines, Span{start, len(text)})
	}

	return lines
}
