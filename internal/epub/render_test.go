package epub

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func renderString(t *testing.T, markup string) *renderer {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		t.Fatal("no body element")
	}
	return renderBody(body)
}

// styleAt replays the run table to find the state active at a byte offset.
func styleAt(runs []StyleRun, off int) Style {
	var s Style
	for _, run := range runs {
		if run.Off > off {
			break
		}
		s = run.Style
	}
	return s
}

func TestRenderParagraph(t *testing.T) {
	r := renderString(t, "<p>It was a <em>dark</em> night.</p>")
	text := r.text.String()
	if text != "\nIt was a dark night.\n" {
		t.Fatalf("text = %q", text)
	}

	em := strings.Index(text, "dark")
	if got := styleAt(r.runs, em); !got.Has(Italic) {
		t.Errorf("style at %d = %v, want Italic", em, got)
	}
	if got := styleAt(r.runs, em+len("dark")); got != 0 {
		t.Errorf("style after em = %v, want plain", got)
	}
	if got := styleAt(r.runs, 1); got != 0 {
		t.Errorf("style at start = %v, want plain", got)
	}
}

func TestRenderHeadingBold(t *testing.T) {
	r := renderString(t, "<h2>Title</h2><p>body</p>")
	text := r.text.String()
	if text != "\nTitle\n\nbody\n" {
		t.Fatalf("text = %q", text)
	}
	if got := styleAt(r.runs, strings.Index(text, "Title")); !got.Has(Bold) {
		t.Errorf("heading style = %v, want Bold", got)
	}
	if got := styleAt(r.runs, strings.Index(text, "body")); got != 0 {
		t.Errorf("body style = %v, want plain", got)
	}
}

func TestRenderNestedStyles(t *testing.T) {
	r := renderString(t, "<p><b><i>x</i></b>y</p>")
	text := r.text.String()
	x := strings.Index(text, "x")
	if got := styleAt(r.runs, x); !got.Has(Bold | Italic) {
		t.Errorf("style at x = %v, want Bold|Italic", got)
	}
	if got := styleAt(r.runs, strings.Index(text, "y")); got != 0 {
		t.Errorf("style at y = %v, want plain", got)
	}
	for i := 1; i < len(r.runs); i++ {
		if r.runs[i].Off <= r.runs[i-1].Off {
			t.Fatalf("run offsets not strictly increasing: %+v", r.runs)
		}
	}
}

func TestRenderList(t *testing.T) {
	r := renderString(t, "<ul><li>one</li><li>two</li></ul>")
	if got := r.text.String(); got != "\n- one\n\n- two\n" {
		t.Errorf("text = %q", got)
	}
}

func TestRenderImagePlaceholder(t *testing.T) {
	r := renderString(t, `<p>before</p><img src="pic.png"/>`)
	if got := r.text.String(); got != "\nbefore\n\n[IMG]\n" {
		t.Errorf("text = %q", got)
	}
}

func TestRenderHorizontalRule(t *testing.T) {
	r := renderString(t, "<p>a</p><hr/><p>b</p>")
	if got := r.text.String(); got != "\na\n\n* * *\n\nb\n" {
		t.Errorf("text = %q", got)
	}
}

func TestRenderInternalLink(t *testing.T) {
	r := renderString(t, `<p>see <a href="notes.xhtml#n1">the note</a> here</p>`)
	text := r.text.String()
	if len(r.links) != 1 {
		t.Fatalf("got %d links, want 1", len(r.links))
	}
	span := r.links[0]
	if got := text[span.Start:span.End]; got != "the note" {
		t.Errorf("link text = %q", got)
	}
	if span.Href != "notes.xhtml#n1" {
		t.Errorf("href = %q", span.Href)
	}
	if got := styleAt(r.runs, span.Start); !got.Has(Underline) {
		t.Errorf("link style = %v, want Underline", got)
	}
}

func TestRenderExternalLinkIsPlainText(t *testing.T) {
	r := renderString(t, `<p><a href="https://example.com">site</a></p>`)
	if len(r.links) != 0 {
		t.Errorf("external href produced a link span: %+v", r.links)
	}
	if !strings.Contains(r.text.String(), "site") {
		t.Error("anchor text dropped")
	}
}

func TestRenderEmptyLinkDropped(t *testing.T) {
	r := renderString(t, `<p><a href="x.xhtml"></a>text</p>`)
	if len(r.links) != 0 {
		t.Errorf("empty anchor produced a link span: %+v", r.links)
	}
}

func TestRenderFragmentOffsets(t *testing.T) {
	r := renderString(t, `<p>first</p><p id="mark">second</p>`)
	text := r.text.String()
	if len(r.frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(r.frags))
	}
	f := r.frags[0]
	if f.id != "mark" {
		t.Errorf("fragment id = %q", f.id)
	}
	// The offset points at the paragraph element, just before its break.
	if want := strings.Index(text, "second") - 1; f.off != want {
		t.Errorf("fragment offset = %d, want %d", f.off, want)
	}
}

func TestRenderSkipsInvisible(t *testing.T) {
	r := renderString(t, `<p>keep</p><script>var x = 1;</script><style>p{}</style>`)
	text := r.text.String()
	if strings.Contains(text, "var") || strings.Contains(text, "p{}") {
		t.Errorf("invisible content leaked: %q", text)
	}
}

func TestCollapseText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"a  b\n\tc", "a b c"},
		{" leading", " leading"},
		{"trailing ", "trailing "},
		{"\n  both \n", " both "},
		{"   ", " "},
		{"", ""},
	}
	for _, c := range cases {
		if got := collapseText(c.in); got != c.want {
			t.Errorf("collapseText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
