package epub

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testContainer = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>A. Author</dc:creator>
    <dc:language>en</dc:language>
    <meta name="cover" content="cover-img"/>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="empty" href="empty.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="empty"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

const testNCX = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="n1" playOrder="1">
      <navLabel><text>Chapter One</text></navLabel>
      <content src="ch1.xhtml"/>
      <navPoint id="n1a" playOrder="2">
        <navLabel><text>A Section</text></navLabel>
        <content src="ch1.xhtml#top"/>
      </navPoint>
    </navPoint>
  </navMap>
</ncx>`

const testCh1 = `<html><body>
<h1 id="top">Chapter One</h1>
<p>It was a <em>dark</em> and stormy night.</p>
<p>See <a href="ch2.xhtml#note">the note</a>.</p>
</body></html>`

const testCh2 = `<html><body>
<p>Second chapter text.</p>
<p id="note">The note itself, with a <a href="#note">self link</a>.</p>
</body></html>`

const testEmpty = `<html><body><div> </div></body></html>`

func testBookFiles() map[string]string {
	return map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": testContainer,
		"OEBPS/content.opf":      testOPF,
		"OEBPS/toc.ncx":          testNCX,
		"OEBPS/ch1.xhtml":        testCh1,
		"OEBPS/empty.xhtml":      testEmpty,
		"OEBPS/ch2.xhtml":        testCh2,
	}
}

func buildTestZip(t *testing.T, files map[string]string) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reopen zip: %v", err)
	}
	return zr
}

func TestLoadSpineOrderAndTitles(t *testing.T) {
	book, err := load(buildTestZip(t, testBookFiles()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(book.Chapters) != 2 {
		t.Fatalf("got %d chapters, want 2 (empty page dropped)", len(book.Chapters))
	}
	if got := book.Chapters[0].Title; got != "Chapter One" {
		t.Errorf("chapter 0 title = %q, want %q", got, "Chapter One")
	}
	// ch2 has no navPoint, so it falls back to its spine index.
	if got := book.Chapters[1].Title; got != "2" {
		t.Errorf("chapter 1 title = %q, want %q", got, "2")
	}
	if !strings.Contains(book.Chapters[0].Text, "dark") {
		t.Errorf("chapter 0 text missing body content: %q", book.Chapters[0].Text)
	}
}

func TestLoadLinkTable(t *testing.T) {
	book, err := load(buildTestZip(t, testBookFiles()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got, ok := book.Links["ch1.xhtml"]; !ok || got != (Target{0, 0}) {
		t.Errorf("Links[ch1.xhtml] = %+v, %v; want {0 0}, true", got, ok)
	}
	if got, ok := book.Links["ch2.xhtml"]; !ok || got != (Target{1, 0}) {
		t.Errorf("Links[ch2.xhtml] = %+v, %v; want {1 0}, true", got, ok)
	}

	note, ok := book.Links["ch2.xhtml#note"]
	if !ok {
		t.Fatal("fragment target ch2.xhtml#note not registered")
	}
	if note.Chapter != 1 {
		t.Errorf("fragment chapter = %d, want 1", note.Chapter)
	}
	c2 := book.Chapters[1]
	if want := strings.Index(c2.Text, "The note itself"); note.Offset != want {
		t.Errorf("fragment offset = %d, want %d", note.Offset, want)
	}
}

func TestLoadLinkSpans(t *testing.T) {
	book, err := load(buildTestZip(t, testBookFiles()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	c1 := book.Chapters[0]
	if len(c1.Links) != 1 {
		t.Fatalf("chapter 0 has %d link spans, want 1", len(c1.Links))
	}
	span := c1.Links[0]
	if span.Href != "ch2.xhtml#note" {
		t.Errorf("span href = %q, want %q", span.Href, "ch2.xhtml#note")
	}
	if got := c1.Text[span.Start:span.End]; got != "the note" {
		t.Errorf("span text = %q, want %q", got, "the note")
	}

	// Same-document hrefs are rewritten to absolute form.
	c2 := book.Chapters[1]
	if len(c2.Links) != 1 {
		t.Fatalf("chapter 1 has %d link spans, want 1", len(c2.Links))
	}
	if got := c2.Links[0].Href; got != "ch2.xhtml#note" {
		t.Errorf("rewritten href = %q, want %q", got, "ch2.xhtml#note")
	}
}

func TestLoadMissingSpineItem(t *testing.T) {
	files := testBookFiles()
	files["OEBPS/content.opf"] = strings.Replace(testOPF,
		`<itemref idref="ch1"/>`, `<itemref idref="ghost"/>`, 1)
	_, err := load(buildTestZip(t, files))
	if !errors.Is(err, ErrInvalidEPUB) {
		t.Errorf("got %v, want ErrInvalidEPUB", err)
	}
}

func TestLoadMissingTOCDegrades(t *testing.T) {
	files := testBookFiles()
	delete(files, "OEBPS/toc.ncx")
	book, err := load(buildTestZip(t, files))
	if err != nil {
		t.Fatalf("load without ncx: %v", err)
	}
	if got := book.Chapters[0].Title; got != "0" {
		t.Errorf("chapter 0 title = %q, want fallback %q", got, "0")
	}
}

func TestLoadUnparsableChapterPlaceholder(t *testing.T) {
	files := testBookFiles()
	delete(files, "OEBPS/ch2.xhtml")
	book, err := load(buildTestZip(t, files))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(book.Chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(book.Chapters))
	}
	if !strings.Contains(book.Chapters[1].Text, "[chapter unavailable]") {
		t.Errorf("missing chapter did not degrade to placeholder: %q", book.Chapters[1].Text)
	}
}

func TestLoadEPUB3NavTitles(t *testing.T) {
	files := testBookFiles()
	files["OEBPS/content.opf"] = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`
	files["OEBPS/nav.xhtml"] = `<html><body>
<nav epub:type="toc">
  <ol>
    <li><a href="ch1.xhtml">The First</a></li>
    <li><a href="ch2.xhtml#note">The Second</a></li>
  </ol>
</nav>
</body></html>`

	book, err := load(buildTestZip(t, files))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := book.Chapters[0].Title; got != "The First" {
		t.Errorf("chapter 0 title = %q, want %q", got, "The First")
	}
	if got := book.Chapters[1].Title; got != "The Second" {
		t.Errorf("chapter 1 title = %q, want %q", got, "The Second")
	}
}

func TestLoadMissingContainerFatal(t *testing.T) {
	files := testBookFiles()
	delete(files, "META-INF/container.xml")
	_, err := load(buildTestZip(t, files))
	if !errors.Is(err, ErrInvalidEPUB) {
		t.Errorf("load without container.xml: got %v, want ErrInvalidEPUB", err)
	}
}

func TestLoadUnparsableContainerFatal(t *testing.T) {
	files := testBookFiles()
	files["META-INF/container.xml"] = "<container><rootfiles"
	_, err := load(buildTestZip(t, files))
	if !errors.Is(err, ErrInvalidEPUB) {
		t.Errorf("load with broken container.xml: got %v, want ErrInvalidEPUB", err)
	}
}

func TestMetadataEntities(t *testing.T) {
	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Crime &amp; Punishment&mdash;Abridged</dc:title>
  </metadata>
  <manifest/>
  <spine/>
</package>`
	pkg, err := parseOPF([]byte(opf))
	if err != nil {
		t.Fatalf("parseOPF: %v", err)
	}
	got := metadataText(pkg.Metadata)
	want := "title: Crime & Punishment—Abridged\n"
	if got != want {
		t.Errorf("metadata = %q, want %q", got, want)
	}
}

func TestOpenAndReadMetadata(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range testBookFiles() {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		fw.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	path := filepath.Join(t.TempDir(), "book.epub")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write epub: %v", err)
	}

	book, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(book.Chapters) != 2 {
		t.Errorf("got %d chapters, want 2", len(book.Chapters))
	}
	if !strings.Contains(book.Metadata, "title: Test Book") {
		t.Errorf("metadata missing title: %q", book.Metadata)
	}

	meta, err := ReadMetadata(path)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if !strings.Contains(meta, "creator: A. Author") {
		t.Errorf("metadata missing creator: %q", meta)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.epub")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseNCXFirstLabelWins(t *testing.T) {
	nav, err := parseNCX([]byte(testNCX), "OEBPS/toc.ncx")
	if err != nil {
		t.Fatalf("parseNCX: %v", err)
	}
	if got := nav["OEBPS/ch1.xhtml"]; got != "Chapter One" {
		t.Errorf("nav[OEBPS/ch1.xhtml] = %q, want %q (parent label kept)", got, "Chapter One")
	}
}
