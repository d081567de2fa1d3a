package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the page-view key bindings.
type KeyMap struct {
	// Navigation
	Down     key.Binding
	Up       key.Binding
	HalfDown key.Binding
	HalfUp   key.Binding
	PageDown key.Binding
	PageUp   key.Binding
	Top      key.Binding
	Bottom   key.Binding
	NextChap key.Binding
	PrevChap key.Binding

	// Mode transitions
	Quit     key.Binding
	Help     key.Binding
	Contents key.Binding
	Meta     key.Binding
	MarkSet  key.Binding
	MarkJump key.Binding

	// Search
	SearchFwd  key.Binding
	SearchBwd  key.Binding
	RepeatNext key.Binding
	RepeatPrev key.Binding

	// Jump history
	HistBack    key.Binding
	HistForward key.Binding
}

// DefaultKeyMap returns the default vim-like key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "line down"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "line up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "half page down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "half page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "right", "f", "l", " "),
			key.WithHelp("PgDn/f", "page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "left", "b", "h"),
			key.WithHelp("PgUp/b", "page up"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "chapter start"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "chapter end"),
		),
		NextChap: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next chapter"),
		),
		PrevChap: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous chapter"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Contents: key.NewBinding(
			key.WithKeys("tab", "t"),
			key.WithHelp("Tab/t", "table of contents"),
		),
		Meta: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "progress and metadata"),
		),
		MarkSet: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "set mark"),
		),
		MarkJump: key.NewBinding(
			key.WithKeys("'"),
			key.WithHelp("'", "jump to mark"),
		),
		SearchFwd: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search forward"),
		),
		SearchBwd: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "search backward"),
		),
		RepeatNext: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "repeat search"),
		),
		RepeatPrev: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "repeat search backward"),
		),
		HistBack: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("^o", "jump back"),
		),
		HistForward: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("^r", "jump forward"),
		),
	}
}
