package epub

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Style is the set of text attributes active at a point in a chapter buffer.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Underline
)

// Has reports whether all attributes in f are set.
func (s Style) Has(f Style) bool { return s&f == f }

// StyleRun records the full attribute state from Off onward. Storing the
// state rather than a toggle lets any line resume the correct attributes
// without replaying the chapter from the start.
type StyleRun struct {
	Off   int
	Style Style
}

// LinkSpan is a byte range of chapter text that is a followable link.
// Spans are sorted by Start and pairwise disjoint.
type LinkSpan struct {
	Start int
	End   int
	Href  string
}

// fragment records the buffer offset of an element id, the target of
// intra-book "#fragment" links.
type fragment struct {
	id  string
	off int
}

// renderer accumulates the flat text buffer and its index tables while
// walking a chapter's markup tree.
type renderer struct {
	text  strings.Builder
	state Style
	runs  []StyleRun
	links []LinkSpan
	frags []fragment
}

// renderBody converts a chapter <body> into flat text plus style runs, link
// spans and fragment offsets.
func renderBody(body *html.Node) *renderer {
	r := &renderer{runs: []StyleRun{{0, 0}}}
	r.children(body)
	return r
}

func (r *renderer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *renderer) walk(n *html.Node) {
	if n.Type == html.TextNode {
		r.text.WriteString(collapseText(n.Data))
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if id := attrValue(n, "id"); id != "" {
		r.frags = append(r.frags, fragment{id, r.text.Len()})
	}

	switch n.DataAtom {
	case atom.Br:
		r.text.WriteByte('\n')
	case atom.Hr:
		r.text.WriteString("\n* * *\n")
	case atom.Img, atom.Image:
		r.text.WriteString("\n[IMG]\n")
	case atom.A:
		href := attrValue(n, "href")
		if href != "" && !strings.HasPrefix(href, "http") {
			start := r.text.Len()
			r.styled(n, Underline)
			if end := r.text.Len(); end > start {
				r.links = append(r.links, LinkSpan{start, end, href})
			}
		} else {
			r.children(n)
		}
	case atom.Em, atom.I:
		r.styled(n, Italic)
	case atom.Strong, atom.B:
		r.styled(n, Bold)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		r.text.WriteByte('\n')
		r.styled(n, Bold)
		r.text.WriteByte('\n')
	case atom.Blockquote, atom.Div, atom.P, atom.Tr:
		r.text.WriteByte('\n')
		r.children(n)
		r.text.WriteByte('\n')
	case atom.Li:
		r.text.WriteString("\n- ")
		r.children(n)
		r.text.WriteByte('\n')
	case atom.Script, atom.Style, atom.Head:
		// no visible content
	default:
		r.children(n)
	}
}

// styled renders n's children with the attribute set, bracketing them with
// state transitions.
func (r *renderer) styled(n *html.Node, attr Style) {
	r.setState(r.state | attr)
	r.children(n)
	r.setState(r.state &^ attr)
}

// setState records a style transition at the current buffer offset. A
// transition landing on the offset of the previous one replaces it, keeping
// run offsets strictly increasing.
func (r *renderer) setState(s Style) {
	r.state = s
	off := r.text.Len()
	if last := &r.runs[len(r.runs)-1]; last.Off == off {
		last.Style = s
		return
	}
	r.runs = append(r.runs, StyleRun{off, s})
}

// collapseText normalizes a markup text node: interior whitespace runs become
// a single space, and leading/trailing whitespace is preserved as one space
// so inline elements keep their separation.
func collapseText(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	var b strings.Builder
	if isSpace(s[0]) {
		b.WriteByte(' ')
	}
	b.WriteString(strings.Join(fields, " "))
	if isSpace(s[len(s)-1]) {
		b.WriteByte(' ')
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
