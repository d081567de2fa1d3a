package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/justyntemme/folio/internal/ui/styles"
)

// openToc enters the table of contents with the cursor on the current
// chapter.
func (r *Reader) openToc() {
	r.mode = modeToc
	r.tocCursor = r.pos.Chapter
	r.scrollTocIntoView()
}

// tocRows is the number of rows available to chapter entries, under the
// heading.
func (r *Reader) tocRows() int {
	return max(1, r.rows()-2)
}

func (r *Reader) scrollTocIntoView() {
	if r.tocCursor < r.tocTop {
		r.tocTop = r.tocCursor
	}
	if r.tocCursor >= r.tocTop+r.tocRows() {
		r.tocTop = r.tocCursor - r.tocRows() + 1
	}
}

func (r *Reader) moveTocCursor(delta int) {
	r.tocCursor += delta
	if r.tocCursor < 0 {
		r.tocCursor = 0
	}
	if n := len(r.book.Chapters); r.tocCursor >= n {
		r.tocCursor = n - 1
	}
	r.scrollTocIntoView()
}

// selectTocEntry moves to the start of the chapter under the cursor and
// returns to the page view. Confirming the current chapter still rewinds it
// to line 0, but without pushing a history entry.
func (r *Reader) selectTocEntry() {
	if r.tocCursor != r.pos.Chapter {
		r.jump(Position{r.tocCursor, 0})
	} else {
		r.marks[prevMark] = r.pos
		r.pos.Line = 0
	}
	r.mode = modePage
}

// handleTocKey handles keys in the table of contents.
func (r *Reader) handleTocKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		r.selectTocEntry()
		return r, nil
	}
	switch {
	case key.Matches(msg, r.keys.Quit), key.Matches(msg, r.keys.Contents):
		r.mode = modePage
	case key.Matches(msg, r.keys.Down):
		r.moveTocCursor(1)
	case key.Matches(msg, r.keys.Up):
		r.moveTocCursor(-1)
	case key.Matches(msg, r.keys.PageDown):
		r.moveTocCursor(r.tocRows())
	case key.Matches(msg, r.keys.PageUp):
		r.moveTocCursor(-r.tocRows())
	case key.Matches(msg, r.keys.Top):
		r.moveTocCursor(-len(r.book.Chapters))
	case key.Matches(msg, r.keys.Bottom):
		r.moveTocCursor(len(r.book.Chapters))
	}
	return r, nil
}

// handleTocMouse scrolls the list with the wheel and selects on click.
func (r *Reader) handleTocMouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		r.moveTocCursor(1)
	case msg.Button == tea.MouseButtonWheelUp:
		r.moveTocCursor(-1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		i := r.tocTop + msg.Y - 2
		if i >= 0 && i < len(r.book.Chapters) {
			r.tocCursor = i
			r.selectTocEntry()
		}
	}
}

// renderToc renders the chapter list with the cursor row inverted.
func (r *Reader) renderToc() []string {
	lines := []string{styles.Title.Render("Contents"), ""}
	bottom := min(r.tocTop+r.tocRows(), len(r.book.Chapters))
	for i := r.tocTop; i < bottom; i++ {
		title := runewidth.Truncate(r.book.Chapters[i].Title, r.textWidth(), "…")
		if i == r.tocCursor {
			lines = append(lines, styles.ListItemSelected.Render(title))
		} else {
			lines = append(lines, styles.ListItem.Render(title))
		}
	}
	return lines
}
