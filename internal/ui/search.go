package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/folio/internal/reflow"
	"github.com/justyntemme/folio/internal/ui/styles"
)

// direction is the scan direction of the active search.
type direction int

const (
	searchForward direction = iota
	searchBackward
)

type searchArgs struct {
	dir direction
	// skip starts past the current line's match so repeat-search advances
	// instead of re-finding in place.
	skip bool
}

// startSearch enters search mode: the current position becomes the restore
// point and the query starts empty.
func (r *Reader) startSearch(dir direction) {
	r.dir = dir
	r.query = ""
	r.marks[prevMark] = r.pos
	r.mode = modeSearch
}

// search scans for the live query: the current chapter from a byte chosen by
// direction and skip, then the remaining chapters in spine order (forward) or
// reverse spine order (backward). Each chapter's buffer is scanned
// independently, so a query spanning a chapter boundary never matches. On a
// match the position moves there and search reports true; on a miss the
// position is untouched and the caller decides whether to restore.
func (r *Reader) search(a searchArgs) bool {
	if r.query == "" {
		return false
	}
	c := r.chapter()
	if len(c.Lines) == 0 {
		return false
	}
	line := c.Lines[min(r.pos.Line, len(c.Lines)-1)]

	var start int
	if a.dir == searchForward {
		start = line.Start
		if a.skip {
			start = line.End
		}
	} else {
		start = line.End
		if a.skip {
			start = line.Start
		}
	}

	if a.dir == searchForward {
		if i := strings.Index(c.Text[start:], r.query); i >= 0 {
			r.pos.Line = reflow.LineOf(c.Lines, start+i)
			return true
		}
		for ci := r.pos.Chapter + 1; ci < len(r.book.Chapters); ci++ {
			next := r.book.Chapters[ci]
			if i := strings.Index(next.Text, r.query); i >= 0 {
				r.pos = Position{ci, reflow.LineOf(next.Lines, i)}
				return true
			}
		}
		return false
	}

	if i := strings.LastIndex(c.Text[:start], r.query); i >= 0 {
		r.pos.Line = reflow.LineOf(c.Lines, i)
		return true
	}
	for ci := r.pos.Chapter - 1; ci >= 0; ci-- {
		prev := r.book.Chapters[ci]
		if i := strings.LastIndex(prev.Text, r.query); i >= 0 {
			r.pos = Position{ci, reflow.LineOf(prev.Lines, i)}
			return true
		}
	}
	return false
}

// handleSearchKey handles incremental search input. Every edit re-runs the
// search from the restore point; a failed match restores it so the cursor is
// never stranded on a stale position.
func (r *Reader) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		r.jumpReset()
		r.query = ""
		r.mode = modePage
	case "enter":
		r.mode = modePage
	case "backspace":
		if len(r.query) > 0 {
			r.query = r.query[:len(r.query)-1]
		}
		r.jumpReset()
		if !r.search(searchArgs{dir: r.dir}) {
			r.jumpReset()
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			r.query += msg.String()
			if !r.search(searchArgs{dir: r.dir}) {
				r.jumpReset()
			}
		}
	}
	return r, nil
}

// renderSearch shows the page with the query line at the bottom.
func (r *Reader) renderSearch() []string {
	lines := r.renderPage()
	if len(lines) >= r.rows() {
		lines = lines[:r.rows()-1]
	} else {
		for len(lines) < r.rows()-1 {
			lines = append(lines, "")
		}
	}
	prompt := "/"
	if r.dir == searchBackward {
		prompt = "?"
	}
	return append(lines, styles.SearchPrompt.Render(prompt+r.query))
}
