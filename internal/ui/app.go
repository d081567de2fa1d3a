// Package ui drives the interactive reader: a single bubbletea model whose
// modal views (page, table of contents, search, help, marks, metadata) share
// the session state and delegate rendering per mode.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/folio/internal/epub"
	"github.com/justyntemme/folio/internal/reflow"
)

// mode identifies the active modal view. Exactly one mode owns input and
// rendering at a time.
type mode int

const (
	modePage mode = iota
	modeToc
	modeSearch
	modeHelp
	modeMarkSet
	modeMarkJump
	modeMeta
)

// Position addresses a location in the book as (chapter index, line index).
type Position struct {
	Chapter int
	Line    int
}

// prevMark is the reserved mark holding the position before the last jump.
const prevMark = '\''

// Options configures the initial reader session.
type Options struct {
	// MaxWidth is the column budget for wrapped text.
	MaxWidth int
	// StartInTOC opens the table of contents instead of the page view.
	StartInTOC bool
	// Chapter and Byte are the restored starting position.
	Chapter int
	Byte    int
}

// Reader is the bubbletea model for a reading session. It owns all mutable
// session state; the book itself is immutable except for the line tables,
// which the reader recomputes wholesale on width changes.
type Reader struct {
	book *epub.Book
	keys KeyMap

	// position in the book
	pos Position

	// layout
	width    int
	height   int
	maxWidth int
	wrapped  bool
	// byte offset to restore once the first layout exists
	startByte int

	// view state
	mode      mode
	tocCursor int
	tocTop    int
	metaLines []string

	// search state
	query string
	dir   direction

	// marks and jump history
	marks   map[rune]Position
	back    []Position
	forward []Position
}

// NewReader builds the model for a loaded book. Line tables are computed on
// the first window size message.
func NewReader(book *epub.Book, opts Options) *Reader {
	r := &Reader{
		book:      book,
		keys:      DefaultKeyMap(),
		maxWidth:  opts.MaxWidth,
		startByte: opts.Byte,
		marks:     make(map[rune]Position),
		width:     80,
		height:    24,
	}
	if opts.Chapter >= 0 && opts.Chapter < len(book.Chapters) {
		r.pos.Chapter = opts.Chapter
	}
	if opts.StartInTOC {
		r.mode = modeToc
		r.tocCursor = r.pos.Chapter
	}
	return r
}

// Init implements tea.Model.
func (r *Reader) Init() tea.Cmd {
	return tea.SetWindowTitle("folio")
}

// Update implements tea.Model.
func (r *Reader) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.resize(msg.Width, msg.Height)
		return r, nil

	case tea.KeyMsg:
		switch r.mode {
		case modePage:
			return r.handlePageKey(msg)
		case modeToc:
			return r.handleTocKey(msg)
		case modeSearch:
			return r.handleSearchKey(msg)
		case modeHelp, modeMeta:
			// any key returns to the page
			r.mode = modePage
			return r, nil
		case modeMarkSet:
			return r.handleMarkSetKey(msg)
		case modeMarkJump:
			return r.handleMarkJumpKey(msg)
		}

	case tea.MouseMsg:
		switch r.mode {
		case modePage:
			r.handlePageMouse(msg)
		case modeToc:
			r.handleTocMouse(msg)
		}
		return r, nil
	}
	return r, nil
}

// View implements tea.Model.
func (r *Reader) View() string {
	if !r.wrapped {
		return ""
	}
	var lines []string
	switch r.mode {
	case modeToc:
		lines = r.renderToc()
	case modeSearch:
		lines = r.renderSearch()
	case modeHelp:
		lines = r.renderHelp()
	case modeMeta:
		lines = r.renderMeta()
	default:
		lines = r.renderPage()
	}

	pad := strings.Repeat(" ", r.pad())
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pad)
		b.WriteString(line)
	}
	return b.String()
}

// SavedPosition reports the chapter index and the byte offset of the top
// visible line, for persistence at exit.
func (r *Reader) SavedPosition() (chapter, offset int) {
	c := r.chapter()
	if r.pos.Line < len(c.Lines) {
		return r.pos.Chapter, c.Lines[r.pos.Line].Start
	}
	return r.pos.Chapter, 0
}

func (r *Reader) chapter() *epub.Chapter {
	return r.book.Chapters[r.pos.Chapter]
}

// rows is the number of content rows in the frame.
func (r *Reader) rows() int {
	if r.height < 1 {
		return 1
	}
	return r.height
}

// textWidth is the wrap budget: the configured maximum, narrowed to the
// terminal when it is smaller.
func (r *Reader) textWidth() int {
	if r.width < r.maxWidth {
		return r.width
	}
	return r.maxWidth
}

// pad centers the text column inside the terminal.
func (r *Reader) pad() int {
	if r.width <= r.maxWidth {
		return 0
	}
	return (r.width - r.maxWidth) / 2
}

// resize recomputes every chapter's line table at the new width and clamps
// the cursor into the new line count.
func (r *Reader) resize(width, height int) {
	sameWidth := r.wrapped && width == r.width
	r.width = width
	r.height = height
	if sameWidth {
		return
	}

	w := r.textWidth()
	for _, c := range r.book.Chapters {
		c.Lines = reflow.Wrap(c.Text, w)
	}
	r.metaLines = wrapPlain(r.book.Metadata, w)

	if !r.wrapped {
		r.wrapped = true
		r.pos.Line = reflow.LineOf(r.chapter().Lines, r.startByte)
		r.marks[prevMark] = r.pos
		return
	}
	r.clampLine()
}

// clampLine keeps the line cursor inside the current chapter.
func (r *Reader) clampLine() {
	if n := len(r.chapter().Lines); r.pos.Line >= n {
		r.pos.Line = n - 1
		if r.pos.Line < 0 {
			r.pos.Line = 0
		}
	}
}

// wrapPlain wraps text and materializes the spans, for buffers that need no
// style or search indexing.
func wrapPlain(text string, width int) []string {
	spans := reflow.Wrap(text, width)
	lines := make([]string, len(spans))
	for i, s := range spans {
		lines[i] = text[s.Start:s.End]
	}
	return lines
}

// jump moves to a new position, recording the departure point in the
// reserved mark and the back history.
func (r *Reader) jump(p Position) {
	r.marks[prevMark] = r.pos
	r.back = append(r.back, r.pos)
	r.forward = r.forward[:0]
	r.pos = p
}

// jumpReset restores the position saved in the reserved mark.
func (r *Reader) jumpReset() {
	r.pos = r.marks[prevMark]
}

// historyBack undoes the most recent jump.
func (r *Reader) historyBack() {
	if len(r.back) == 0 {
		return
	}
	r.forward = append(r.forward, r.pos)
	r.pos = r.back[len(r.back)-1]
	r.back = r.back[:len(r.back)-1]
}

// historyForward redoes an undone jump.
func (r *Reader) historyForward() {
	if len(r.forward) == 0 {
		return
	}
	r.back = append(r.back, r.pos)
	r.pos = r.forward[len(r.forward)-1]
	r.forward = r.forward[:len(r.forward)-1]
}

// handlePageKey handles keys in the default page view.
func (r *Reader) handlePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Quit):
		return r, tea.Quit
	case key.Matches(msg, r.keys.Help):
		r.mode = modeHelp
	case key.Matches(msg, r.keys.Contents):
		r.openToc()
	case key.Matches(msg, r.keys.Meta):
		r.mode = modeMeta
	case key.Matches(msg, r.keys.MarkSet):
		r.mode = modeMarkSet
	case key.Matches(msg, r.keys.MarkJump):
		r.mode = modeMarkJump
	case key.Matches(msg, r.keys.SearchFwd):
		r.startSearch(searchForward)
	case key.Matches(msg, r.keys.SearchBwd):
		r.startSearch(searchBackward)
	case key.Matches(msg, r.keys.RepeatNext):
		r.search(searchArgs{dir: searchForward, skip: true})
	case key.Matches(msg, r.keys.RepeatPrev):
		r.search(searchArgs{dir: searchBackward, skip: true})
	case key.Matches(msg, r.keys.Down):
		r.scroll(3)
	case key.Matches(msg, r.keys.Up):
		r.scroll(-3)
	case key.Matches(msg, r.keys.HalfDown):
		r.scroll(r.rows() / 2)
	case key.Matches(msg, r.keys.HalfUp):
		r.scroll(-r.rows() / 2)
	case key.Matches(msg, r.keys.PageDown):
		r.scroll(r.rows())
	case key.Matches(msg, r.keys.PageUp):
		r.scroll(-r.rows())
	case key.Matches(msg, r.keys.Top):
		r.marks[prevMark] = r.pos
		r.pos.Line = 0
	case key.Matches(msg, r.keys.Bottom):
		r.marks[prevMark] = r.pos
		r.pos.Line = max(0, len(r.chapter().Lines)-r.rows())
	case key.Matches(msg, r.keys.NextChap):
		r.nextChapter()
	case key.Matches(msg, r.keys.PrevChap):
		r.prevChapter()
	case key.Matches(msg, r.keys.HistBack):
		r.historyBack()
	case key.Matches(msg, r.keys.HistForward):
		r.historyForward()
	}
	return r, nil
}

// handlePageMouse scrolls with the wheel and hit-tests links on click.
func (r *Reader) handlePageMouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		r.scroll(3)
	case msg.Button == tea.MouseButtonWheelUp:
		r.scroll(-3)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		r.followLink(msg.X, msg.Y)
	}
}

// scroll moves the top line by delta, clamped to the chapter.
func (r *Reader) scroll(delta int) {
	r.pos.Line += delta
	if r.pos.Line < 0 {
		r.pos.Line = 0
	}
	if maxLine := max(0, len(r.chapter().Lines)-r.rows()); r.pos.Line > maxLine {
		r.pos.Line = maxLine
	}
}

func (r *Reader) nextChapter() {
	if r.pos.Chapter < len(r.book.Chapters)-1 {
		r.pos.Chapter++
		r.pos.Line = 0
	}
}

func (r *Reader) prevChapter() {
	if r.pos.Chapter > 0 {
		r.pos.Chapter--
		r.pos.Line = 0
	}
}
