// Package epub extracts a book from an EPUB archive into immutable
// per-chapter flat text buffers with byte-indexed style, link and navigation
// tables. The archive is fully consumed at load; nothing touches it
// afterwards.
package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/justyntemme/folio/internal/reflow"
)

// Target addresses a location in the book as (chapter index, byte offset).
type Target struct {
	Chapter int
	Offset  int
}

// Chapter is one spine item: a single flat text buffer (the unit of search)
// plus the index tables derived from its markup. Everything except Lines is
// immutable after load; Lines is recomputed wholesale on a width change.
type Chapter struct {
	Title string
	Text  string
	Lines []reflow.Span
	// Styles holds the attribute state transitions, strictly increasing
	// by offset, starting with an empty state at 0.
	Styles []StyleRun
	// Links holds the chapter's link spans, sorted and disjoint.
	Links []LinkSpan
}

// Book is a fully decoded EPUB: chapters in spine order, the global link
// table mapping "file" and "file#fragment" keys to targets, and the package
// metadata rendered as text.
type Book struct {
	Chapters []*Chapter
	Links    map[string]Target
	Metadata string
}

// Open reads and fully decodes the EPUB at path.
func Open(bookPath string) (*Book, error) {
	zr, err := zip.OpenReader(bookPath)
	if err != nil {
		return nil, fmt.Errorf("epub: open %s: %w", bookPath, err)
	}
	defer zr.Close()
	return load(&zr.Reader)
}

// ReadMetadata returns the package metadata text without decoding chapters.
func ReadMetadata(bookPath string) (string, error) {
	zr, err := zip.OpenReader(bookPath)
	if err != nil {
		return "", fmt.Errorf("epub: open %s: %w", bookPath, err)
	}
	defer zr.Close()

	opfPath, err := packagePath(&zr.Reader)
	if err != nil {
		return "", err
	}
	data, err := readFile(&zr.Reader, opfPath)
	if err != nil {
		return "", err
	}
	pkg, err := parseOPF(data)
	if err != nil {
		return "", err
	}
	return metadataText(pkg.Metadata), nil
}

// load decodes the archive: package document, navigation titles, then every
// spine chapter in order.
func load(zr *zip.Reader) (*Book, error) {
	opfPath, err := packagePath(zr)
	if err != nil {
		return nil, err
	}
	data, err := readFile(zr, opfPath)
	if err != nil {
		return nil, err
	}
	pkg, err := parseOPF(data)
	if err != nil {
		return nil, err
	}

	manifest := manifestMap(pkg.Manifest)
	nav, err := navTitles(zr, pkg, manifest, opfPath)
	if err != nil {
		// Navigation is advisory; a book without a usable TOC still
		// reads fine with numbered chapters.
		nav = nil
	}

	book := &Book{
		Links:    make(map[string]Target),
		Metadata: metadataText(pkg.Metadata),
	}

	for i, ref := range pkg.Spine.ItemRefs {
		href, ok := manifest[ref.IDRef]
		if !ok {
			return nil, fmt.Errorf("epub: spine idref %q not in manifest: %w", ref.IDRef, ErrInvalidEPUB)
		}
		chapterPath := resolvePath(opfPath, href)
		if chapterPath == "" {
			return nil, fmt.Errorf("epub: spine item %q has unsafe path: %w", href, ErrInvalidEPUB)
		}

		title := nav[chapterPath]
		if title == "" {
			title = strconv.Itoa(i)
		}

		ch, frags := loadChapter(zr, chapterPath, title)
		if ch == nil {
			// image-only or otherwise empty page
			continue
		}

		// Register the chapter and its fragments in the global link
		// table, keyed by the spine-relative filename as chapter hrefs
		// reference each other.
		rel := path.Base(chapterPath)
		idx := len(book.Chapters)
		book.Links[rel] = Target{idx, 0}
		for _, f := range frags {
			book.Links[rel+"#"+f.id] = Target{idx, f.off}
		}

		// Same-document "#fragment" hrefs become absolute against the
		// chapter's own filename.
		for j, l := range ch.Links {
			if strings.HasPrefix(l.Href, "#") {
				ch.Links[j].Href = rel + l.Href
			}
		}

		book.Chapters = append(book.Chapters, ch)
	}

	if len(book.Chapters) == 0 {
		return nil, fmt.Errorf("epub: no readable chapters: %w", ErrInvalidEPUB)
	}
	return book, nil
}

// navTitles loads the path → title map from the package's navigation source:
// the EPUB3 nav document when declared, the NCX otherwise.
func navTitles(zr *zip.Reader, pkg *opfPackage, manifest map[string]string, opfPath string) (map[string]string, error) {
	if strings.HasPrefix(pkg.Version, "3") {
		if href := navItemHref(pkg.Manifest); href != "" {
			navPath := resolvePath(opfPath, href)
			data, err := readFile(zr, navPath)
			if err != nil {
				return nil, err
			}
			return parseNav(data, navPath)
		}
		// EPUB3 without a nav item still commonly ships an NCX.
	}

	tocID := pkg.Spine.Toc
	if tocID == "" {
		tocID = "ncx"
	}
	href, ok := manifest[tocID]
	if !ok {
		return nil, fmt.Errorf("epub: spine toc %q not in manifest: %w", tocID, ErrNoTOC)
	}
	ncxPath := resolvePath(opfPath, href)
	data, err := readFile(zr, ncxPath)
	if err != nil {
		return nil, err
	}
	return parseNCX(data, ncxPath)
}

// loadChapter reads and renders one chapter. A chapter that cannot be read or
// parsed degrades to an "unavailable" placeholder instead of failing the
// book; an empty chapter returns nil and is dropped.
func loadChapter(zr *zip.Reader, chapterPath, title string) (*Chapter, []fragment) {
	data, err := readFile(zr, chapterPath)
	if err != nil {
		return placeholderChapter(title), nil
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return placeholderChapter(title), nil
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return placeholderChapter(title), nil
	}

	r := renderBody(body)
	text := r.text.String()
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	return &Chapter{
		Title:  title,
		Text:   text,
		Styles: r.runs,
		Links:  r.links,
	}, r.frags
}

func placeholderChapter(title string) *Chapter {
	return &Chapter{
		Title:  title,
		Text:   "\n[chapter unavailable]\n",
		Styles: []StyleRun{{0, 0}},
	}
}
