package ui

// renderPage renders the visible window of the current chapter. While search
// mode is active the live query is layered in as highlight runs.
func (r *Reader) renderPage() []string {
	c := r.chapter()
	top := r.pos.Line
	if top > len(c.Lines) {
		top = len(c.Lines)
	}
	bottom := min(top+r.rows(), len(c.Lines))

	query := ""
	if r.mode == modeSearch {
		query = r.query
	}
	return composeLines(c, top, bottom, query)
}
