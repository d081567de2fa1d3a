package ui

import (
	"fmt"

	"github.com/justyntemme/folio/internal/ui/styles"
)

// renderMeta renders reading progress and the package metadata, clamped to
// the frame.
func (r *Reader) renderMeta() []string {
	lines := []string{
		styles.Title.Render(r.chapter().Title),
		styles.MutedText.Render(fmt.Sprintf("chapter %d of %d, %d%% through the book",
			r.pos.Chapter+1, len(r.book.Chapters), r.progress())),
		"",
	}
	lines = append(lines, r.metaLines...)
	if len(lines) > r.rows() {
		lines = lines[:r.rows()]
	}
	return lines
}

// progress is the percentage of wrapped lines above the cursor, across the
// whole book.
func (r *Reader) progress() int {
	read, total := 0, 0
	for i, c := range r.book.Chapters {
		if i < r.pos.Chapter {
			read += len(c.Lines)
		} else if i == r.pos.Chapter {
			read += min(r.pos.Line, len(c.Lines))
		}
		total += len(c.Lines)
	}
	if total == 0 {
		return 0
	}
	return read * 100 / total
}
