package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleMarkSetKey stores the current position under the next typed
// character. The reserved previous-position mark cannot be overwritten.
func (r *Reader) handleMarkSetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r.mode = modePage
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return r, nil
	}
	if c := msg.Runes[0]; c != prevMark {
		r.marks[c] = r.pos
	}
	return r, nil
}

// handleMarkJumpKey jumps to the position stored under the next typed
// character. Jumping records the departure point, so typing the reserved
// mark twice bounces between two positions.
func (r *Reader) handleMarkJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r.mode = modePage
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return r, nil
	}
	if p, ok := r.marks[msg.Runes[0]]; ok {
		r.jump(p)
	}
	return r, nil
}
