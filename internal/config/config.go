// Package config persists reading positions between sessions as a small JSON
// state file under the user config directory.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	stateFileName = "state.json"
	stateDirName  = "folio"
)

// Position is a saved location inside a book: the chapter index and the byte
// offset of the top visible line.
type Position struct {
	Chapter int `json:"chapter"`
	Byte    int `json:"byte"`
}

// State maps book paths to their last reading position and remembers the
// most recently opened book.
type State struct {
	Last  string              `json:"last,omitempty"`
	Files map[string]Position `json:"files"`

	// Path to the state file (not persisted)
	path string
}

// Load reads the state file. A missing or corrupt file yields empty defaults;
// an unreadable save must never prevent opening a book.
func Load() (*State, error) {
	statePath, err := getStatePath()
	if err != nil {
		return nil, err
	}

	st := &State{
		Files: make(map[string]Position),
		path:  statePath,
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		return st, nil
	}
	if err := json.Unmarshal(data, st); err != nil {
		return &State{Files: make(map[string]Position), path: statePath}, nil
	}
	if st.Files == nil {
		st.Files = make(map[string]Position)
	}
	st.path = statePath
	return st, nil
}

// Save persists the state to disk.
func (s *State) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Position returns the saved position for a book path.
func (s *State) Position(bookPath string) (Position, bool) {
	p, ok := s.Files[bookPath]
	return p, ok
}

// SetPosition records the position for a book path and marks it as the most
// recently read book.
func (s *State) SetPosition(bookPath string, p Position) {
	s.Files[bookPath] = p
	s.Last = bookPath
}

// getStatePath returns the path to the state file.
func getStatePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, stateDirName, stateFileName), nil
}
