package ui

import (
	"sort"
	"strings"

	"github.com/justyntemme/folio/internal/epub"
	"github.com/justyntemme/folio/internal/ui/styles"
)

// styleEvent is a point in the merged attribute stream: either a base style
// transition (the full new state) or a search-highlight toggle.
type styleEvent struct {
	off       int
	base      bool
	style     epub.Style // base events: state from off onward
	highlight bool       // highlight events: on or off
}

// composeLines renders the chapter lines in [top, bottom) into one styled
// string per line, splicing base style transitions and live search-highlight
// runs at their byte positions. At equal offsets the base transition applies
// first so a highlight always layers on top of the style beneath it.
func composeLines(c *epub.Chapter, top, bottom int, query string) []string {
	spans := c.Lines[top:bottom]
	if len(spans) == 0 {
		return nil
	}
	textStart := spans[0].Start
	textEnd := spans[len(spans)-1].End

	events := mergeEvents(
		baseEvents(c.Styles, textStart, textEnd),
		highlightEvents(c.Text, query, textStart, textEnd),
	)

	var cur epub.Style
	var hl bool
	apply := func(ev styleEvent) {
		if ev.base {
			cur = ev.style
		} else {
			hl = ev.highlight
		}
	}

	out := make([]string, len(spans))
	k := 0
	for i, span := range spans {
		var b strings.Builder
		p := span.Start
		for k < len(events) && events[k].off <= span.End {
			if ev := events[k]; ev.off > p {
				b.WriteString(segment(c.Text[p:ev.off], cur, hl))
				p = ev.off
				apply(ev)
			} else {
				apply(ev)
			}
			k++
		}
		if p < span.End {
			b.WriteString(segment(c.Text[p:span.End], cur, hl))
		}
		out[i] = b.String()
	}
	return out
}

// baseEvents finds the style state active at textStart and the transitions
// inside the visible range. Runs are strictly increasing by offset, so the
// active run is the greatest offset <= textStart.
func baseEvents(runs []epub.StyleRun, textStart, textEnd int) []styleEvent {
	n := sort.Search(len(runs), func(i int) bool {
		return runs[i].Off > textStart
	})

	var events []styleEvent
	if n > 0 {
		if active := runs[n-1].Style; active != 0 {
			events = append(events, styleEvent{off: textStart, base: true, style: active})
		}
	}
	for _, run := range runs[n:] {
		if run.Off > textEnd {
			break
		}
		events = append(events, styleEvent{off: run.Off, base: true, style: run.Style})
	}
	return events
}

// highlightEvents emits an on/off pair for every occurrence of the query in
// the visible range. Built fresh each frame; the query is live state.
func highlightEvents(text, query string, textStart, textEnd int) []styleEvent {
	if query == "" {
		return nil
	}
	var events []styleEvent
	window := text[textStart:textEnd]
	for off := 0; ; {
		i := strings.Index(window[off:], query)
		if i < 0 {
			break
		}
		at := textStart + off + i
		events = append(events,
			styleEvent{off: at, highlight: true},
			styleEvent{off: at + len(query), highlight: false},
		)
		off += i + len(query)
	}
	return events
}

// mergeEvents interleaves the two ascending streams; ties go to the base
// event so highlights are never pre-empted by a simultaneous transition.
func mergeEvents(base, highlights []styleEvent) []styleEvent {
	merged := make([]styleEvent, 0, len(base)+len(highlights))
	i, j := 0, 0
	for i < len(base) && j < len(highlights) {
		if base[i].off <= highlights[j].off {
			merged = append(merged, base[i])
			i++
		} else {
			merged = append(merged, highlights[j])
			j++
		}
	}
	merged = append(merged, base[i:]...)
	return append(merged, highlights[j:]...)
}

// segment renders a run of text with the active attribute set layered on the
// reader foreground.
func segment(text string, s epub.Style, hl bool) string {
	if text == "" {
		return ""
	}
	st := styles.ReaderText
	if s.Has(epub.Bold) {
		st = st.Bold(true)
	}
	if s.Has(epub.Italic) {
		st = st.Italic(true)
	}
	if s.Has(epub.Underline) {
		st = st.Underline(true)
	}
	if hl {
		st = st.Reverse(true)
	}
	return st.Render(text)
}
