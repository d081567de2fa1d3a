package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	st, err := Load()
	if err != nil {
		t.Fatalf("load fresh: %v", err)
	}
	if st.Last != "" || len(st.Files) != 0 {
		t.Fatalf("fresh state not empty: %+v", st)
	}

	st.SetPosition("/books/a.epub", Position{Chapter: 3, Byte: 1024})
	if err := st.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Last != "/books/a.epub" {
		t.Errorf("last = %q", reloaded.Last)
	}
	pos, ok := reloaded.Position("/books/a.epub")
	if !ok || pos != (Position{Chapter: 3, Byte: 1024}) {
		t.Errorf("position = %+v, %v", pos, ok)
	}
}

func TestLoadCorruptFileDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	statePath := filepath.Join(dir, stateDirName, stateFileName)
	if err := os.MkdirAll(filepath.Dir(statePath), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(statePath, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	st, err := Load()
	if err != nil {
		t.Fatalf("load corrupt: %v", err)
	}
	if st.Last != "" || len(st.Files) != 0 {
		t.Errorf("corrupt file did not yield defaults: %+v", st)
	}

	// And the next save overwrites the corrupt file.
	st.SetPosition("/books/a.epub", Position{Chapter: 1})
	if err := st.Save(); err != nil {
		t.Fatalf("save over corrupt: %v", err)
	}
}

func TestSetPositionUpdatesLast(t *testing.T) {
	st := &State{Files: make(map[string]Position)}
	st.SetPosition("/books/a.epub", Position{Chapter: 1})
	st.SetPosition("/books/b.epub", Position{Chapter: 2})
	if st.Last != "/books/b.epub" {
		t.Errorf("last = %q", st.Last)
	}
	if pos, _ := st.Position("/books/a.epub"); pos.Chapter != 1 {
		t.Errorf("earlier book lost: %+v", pos)
	}
	if _, ok := st.Position("/books/none.epub"); ok {
		t.Error("missing book reported a position")
	}
}
