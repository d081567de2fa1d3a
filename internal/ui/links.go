package ui

import (
	"path"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/justyntemme/folio/internal/epub"
	"github.com/justyntemme/folio/internal/reflow"
)

// followLink resolves a terminal click to a link span and jumps to its
// target. Clicks outside the text column, past the chapter end, or on plain
// text are ignored.
func (r *Reader) followLink(col, row int) {
	c := r.chapter()
	line := r.pos.Line + row
	if line < 0 || line >= len(c.Lines) {
		return
	}
	b, ok := r.byteAt(c, c.Lines[line], col-r.pad())
	if !ok {
		return
	}
	span, ok := linkAt(c.Links, b)
	if !ok {
		return
	}
	if target, ok := r.resolveHref(span.Href); ok {
		r.jump(Position{target.Chapter, reflow.LineOf(r.book.Chapters[target.Chapter].Lines, target.Offset)})
	}
}

// byteAt maps a display column inside a line to the byte offset of the rune
// under it, accounting for wide and zero-width runes.
func (r *Reader) byteAt(c *epub.Chapter, line reflow.Span, col int) (int, bool) {
	if col < 0 {
		return 0, false
	}
	cols := 0
	for i, ch := range c.Text[line.Start:line.End] {
		cols += runewidth.RuneWidth(ch)
		if col < cols {
			return line.Start + i, true
		}
	}
	return 0, false
}

// linkAt finds the span covering byte offset b. Spans are sorted and
// disjoint, so the first span ending past b is the only candidate.
func linkAt(links []epub.LinkSpan, b int) (epub.LinkSpan, bool) {
	n := sort.Search(len(links), func(i int) bool {
		return links[i].End > b
	})
	if n < len(links) && links[n].Start <= b {
		return links[n], true
	}
	return epub.LinkSpan{}, false
}

// resolveHref looks an href up in the book's link table, trying the raw
// value, then its base name, then each with the fragment stripped. Relative
// path prefixes in hand-authored EPUBs rarely match the table keys exactly;
// the base name does.
func (r *Reader) resolveHref(href string) (epub.Target, bool) {
	candidates := []string{href, path.Base(href)}
	if i := strings.IndexByte(href, '#'); i >= 0 {
		candidates = append(candidates, href[:i], path.Base(href[:i]))
	}
	for _, key := range candidates {
		if t, ok := r.book.Links[key]; ok {
			return t, true
		}
	}
	return epub.Target{}, false
}
