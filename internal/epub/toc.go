package epub

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Chapter titles come from the navigation source, but only as an
// href → label lookup: spine order is always authoritative, and nav document
// order is never assumed to match it.

// --- NCX (EPUB 2) ---

type ncxDocument struct {
	XMLName xml.Name `xml:"ncx"`
	NavMap  struct {
		NavPoints []ncxNavPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type ncxNavPoint struct {
	Label struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

// parseNCX builds the path → title map from a hierarchical navigation map
// document. Paths are resolved relative to the NCX location with fragments
// stripped; the first label registered for a path wins, so a parent section
// title is not overwritten by its subsections.
func parseNCX(data []byte, ncxPath string) (map[string]string, error) {
	data = stripBOM(preprocessEntities(data))

	var doc ncxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("epub: parse ncx: %w", err)
	}

	nav := make(map[string]string)
	var walk func(points []ncxNavPoint)
	walk = func(points []ncxNavPoint) {
		for _, np := range points {
			src := stripFragment(strings.TrimSpace(np.Content.Src))
			label := strings.TrimSpace(np.Label.Text)
			if src != "" && label != "" {
				if resolved := resolvePath(ncxPath, src); resolved != "" {
					if _, seen := nav[resolved]; !seen {
						nav[resolved] = label
					}
				}
			}
			walk(np.Children)
		}
	}
	walk(doc.NavMap.NavPoints)
	return nav, nil
}

// --- Nav document (EPUB 3) ---

// parseNav builds the path → title map from an XHTML navigation document: the
// anchors of the first <ol> under a <nav> element, with their visible text.
func parseNav(data []byte, navPath string) (map[string]string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("epub: parse nav document: %w", err)
	}

	navNode := findElement(doc, atom.Nav)
	if navNode == nil {
		return nil, fmt.Errorf("epub: nav document has no nav element: %w", ErrNoTOC)
	}
	list := findChild(navNode, atom.Ol)
	if list == nil {
		return nil, fmt.Errorf("epub: nav element has no list: %w", ErrNoTOC)
	}

	nav := make(map[string]string)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			href := stripFragment(attrValue(n, "href"))
			if href != "" {
				if resolved := resolvePath(navPath, href); resolved != "" {
					nav[resolved] = nodeText(n)
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(list)
	return nav, nil
}

// findElement performs a depth-first search for the given element.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// findChild returns the first direct child with the given element type.
func findChild(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

// nodeText concatenates all text beneath n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// stripFragment removes a "#fragment" suffix.
func stripFragment(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i]
	}
	return href
}
