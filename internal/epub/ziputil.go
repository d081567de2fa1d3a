package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// maxEntrySize caps the decompressed size of a single archive entry so a
// malformed or hostile file cannot exhaust memory.
const maxEntrySize int64 = 256 * 1024 * 1024

// findFile looks up an archive entry by path, trying an exact match first and
// falling back to a case-insensitive comparison. Returns nil if absent.
func findFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	lower := strings.ToLower(name)
	for _, f := range zr.File {
		if strings.ToLower(f.Name) == lower {
			return f
		}
	}
	return nil
}

// readFile reads the full contents of the named archive entry.
func readFile(zr *zip.Reader, name string) ([]byte, error) {
	f := findFile(zr, name)
	if f == nil {
		return nil, fmt.Errorf("epub: %s: %w", name, ErrFileNotFound)
	}
	if f.UncompressedSize64 > uint64(maxEntrySize) {
		return nil, fmt.Errorf("epub: entry %s too large: %d bytes", name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epub: open entry %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("epub: read entry %s: %w", name, err)
	}
	if int64(len(data)) > maxEntrySize {
		return nil, fmt.Errorf("epub: entry %s exceeds size limit", name)
	}
	return data, nil
}

// resolvePath resolves href relative to the directory of basePath. Both are
// archive-internal forward-slash paths. Paths that escape the archive root
// resolve to "".
func resolvePath(basePath, href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") {
		return ""
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	cleaned := path.Clean(path.Join(path.Dir(basePath), href))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.HasPrefix(cleaned, "/") {
		return ""
	}
	return cleaned
}

// stripBOM removes a leading UTF-8 byte order mark, if present.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// entityNumeric maps lowercase HTML entity names to XML numeric character
// references. encoding/xml rejects undeclared named entities, but packages in
// the wild rely on them, so OPF and NCX data is rewritten before parsing.
var entityNumeric = map[string]string{
	"nbsp": "&#160;", "mdash": "&#8212;", "ndash": "&#8211;",
	"hellip": "&#8230;", "bull": "&#8226;", "middot": "&#183;",
	"lsquo": "&#8216;", "rsquo": "&#8217;",
	"ldquo": "&#8220;", "rdquo": "&#8221;",
	"copy": "&#169;", "reg": "&#174;", "trade": "&#8482;",
	"laquo": "&#171;", "raquo": "&#187;",
	"deg": "&#176;", "sect": "&#167;", "para": "&#182;",
	"eacute": "&#233;", "egrave": "&#232;", "ecirc": "&#234;",
	"agrave": "&#224;", "auml": "&#228;", "ouml": "&#246;",
	"uuml": "&#252;", "ntilde": "&#241;", "ccedil": "&#231;",
	"times": "&#215;", "divide": "&#247;",
}

var entityPattern = regexp.MustCompile(`(?i)&([a-z]{2,8});`)

// preprocessEntities replaces known HTML named entities with numeric
// references so encoding/xml can parse the document. Unknown entities are
// left untouched (and will surface as parse errors if genuinely undeclared).
func preprocessEntities(data []byte) []byte {
	return entityPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := strings.ToLower(string(match[1 : len(match)-1]))
		switch name {
		case "amp", "lt", "gt", "apos", "quot":
			// XML predefined, keep as-is.
			return match
		}
		if repl, ok := entityNumeric[name]; ok {
			return []byte(repl)
		}
		return match
	})
}
