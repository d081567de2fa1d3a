package ui

import (
	"fmt"

	"github.com/justyntemme/folio/internal/ui/styles"
)

var helpEntries = []struct {
	keys string
	desc string
}{
	{"j / k, wheel", "scroll"},
	{"d / u", "half page"},
	{"space, f / b", "page"},
	{"g / G", "chapter start / end"},
	{"[ / ]", "previous / next chapter"},
	{"t, Tab", "table of contents"},
	{"i", "book metadata"},
	{"/ and ?", "search forward / backward"},
	{"n / N", "repeat search"},
	{"m<char>", "set mark"},
	{"'<char>", "jump to mark"},
	{"''", "jump back"},
	{"ctrl+o / ctrl+r", "jump history"},
	{"click", "follow link"},
	{"F1", "this help"},
	{"q, Esc", "quit"},
}

// renderHelp renders the static key reference, clamped to the frame.
func (r *Reader) renderHelp() []string {
	lines := []string{styles.Title.Render("Keys"), ""}
	for _, e := range helpEntries {
		lines = append(lines, fmt.Sprintf("%s  %s",
			styles.HelpKey.Render(fmt.Sprintf("%-16s", e.keys)),
			styles.Help.Render(e.desc)))
	}
	if len(lines) > r.rows() {
		lines = lines[:r.rows()]
	}
	return lines
}
