package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStructure(t *testing.T) {
	src := []byte(`# Title

Hello **bold** world.

- first
- second

> quoted

` + "```go\nfunc main() {}\n```" + `

---
`)
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var kinds []Kind
	for _, id := range doc.Children(doc.Root()) {
		kinds = append(kinds, doc.Node(id).Kind)
	}
	want := []Kind{KindHeading, KindParagraph, KindList, KindBlockquote, KindCodeBlock, KindRule}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("top-level kinds mismatch (-want +got):\n%s", diff)
	}

	heading := doc.Children(doc.Root())[0]
	if got := doc.Node(heading).Level; got != 1 {
		t.Errorf("heading level = %d, want 1", got)
	}
	if got := doc.FlatText(heading); got != "Title" {
		t.Errorf("heading text = %q, want %q", got, "Title")
	}

	code := doc.Children(doc.Root())[4]
	if got := doc.Node(code).Lang; got != "go" {
		t.Errorf("code lang = %q, want %q", got, "go")
	}
	if got := doc.Node(code).Text; got != "func main() {}" {
		t.Errorf("code text = %q", got)
	}
}

func TestParsePreOrderIDs(t *testing.T) {
	doc, err := Parse([]byte("# a\n\npara with *em*\n\n- item\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Pre-order allocation: every parent precedes its children, and
	// siblings are strictly increasing.
	doc.Walk(doc.Root(), func(id NodeID, n *Node) bool {
		if n.Parent != NoNode && n.Parent >= id {
			t.Errorf("node %d has parent %d, want parent < child", id, n.Parent)
		}
		for i := 1; i < len(n.Children); i++ {
			if n.Children[i-1] >= n.Children[i] {
				t.Errorf("node %d children not increasing: %v", id, n.Children)
			}
		}
		return true
	})
}

func TestParseInlineStyles(t *testing.T) {
	doc, err := Parse([]byte("plain **bold** *ital* `code` ***both***"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	para := doc.Children(doc.Root())[0]
	runs := doc.Runs(para)

	want := []Run{
		{Text: "plain ", Link: NoNode},
		{Text: "bold", Span: SpanStyle{Bold: true}, Link: NoNode},
		{Text: " ", Link: NoNode},
		{Text: "ital", Span: SpanStyle{Italic: true}, Link: NoNode},
		{Text: " ", Link: NoNode},
		{Text: "code", Span: SpanStyle{Code: true}, Link: NoNode},
		{Text: " ", Link: NoNode},
		{Text: "both", Span: SpanStyle{Bold: true, Italic: true}, Link: NoNode},
	}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
	if got, want := doc.FlatText(para), "plain bold ital code both"; got != want {
		t.Errorf("FlatText = %q, want %q", got, want)
	}
}

func TestParseLinks(t *testing.T) {
	doc, err := Parse([]byte("see [the docs](https://example.com/docs) here"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	para := doc.Children(doc.Root())[0]

	// Flat text is "see the docs here"; runes 4..12 are the link text.
	cases := []struct {
		offset int
		want   string
	}{
		{0, ""},
		{3, ""},
		{4, "https://example.com/docs"},
		{11, "https://example.com/docs"},
		{12, ""},
		{16, ""},
	}
	for _, c := range cases {
		if got := doc.LinkURL(para, c.offset); got != c.want {
			t.Errorf("LinkURL(%d) = %q, want %q", c.offset, got, c.want)
		}
	}
}

func TestParseAutoLink(t *testing.T) {
	doc, err := Parse([]byte("go to <https://example.com> now"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	para := doc.Children(doc.Root())[0]
	if got := doc.LinkURL(para, 6); got != "https://example.com" {
		t.Errorf("LinkURL = %q", got)
	}
}

func TestParseImage(t *testing.T) {
	doc, err := Parse([]byte("![alt text](pic.svg)\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var img *Node
	doc.Walk(doc.Root(), func(id NodeID, n *Node) bool {
		if n.Kind == KindImage {
			img = n
		}
		return true
	})
	if img == nil {
		t.Fatal("no image node")
	}
	if img.Href != "pic.svg" || img.Alt != "alt text" {
		t.Errorf("image = %+v", img)
	}
}

func TestParseOrderedListStart(t *testing.T) {
	doc, err := Parse([]byte("3. three\n4. four\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	list := doc.Children(doc.Root())[0]
	n := doc.Node(list)
	if !n.Ordered || n.Start != 3 {
		t.Errorf("list ordered=%v start=%d, want ordered start 3", n.Ordered, n.Start)
	}
	if got := len(n.Children); got != 2 {
		t.Fatalf("list has %d items, want 2", got)
	}
}

func TestParseCRLFSource(t *testing.T) {
	doc, err := Parse([]byte("```\r\naaa\r\nbbb\r\n```\r\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	code := doc.Children(doc.Root())[0]
	if got := doc.Node(code).Text; got != "aaa\nbbb" {
		t.Errorf("code text = %q, want %q", got, "aaa\nbbb")
	}

	doc, err = Parse([]byte("one\r\ntwo\r\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	para := doc.Children(doc.Root())[0]
	if got := doc.FlatText(para); got != "one two" {
		t.Errorf("FlatText = %q, want %q", got, "one two")
	}
}

func TestTextBlocks(t *testing.T) {
	doc, err := Parse([]byte("# h\n\npara\n\n---\n\n```\ncode\n```\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	blocks := doc.TextBlocks()
	var kinds []Kind
	for _, id := range blocks {
		kinds = append(kinds, doc.Node(id).Kind)
	}
	want := []Kind{KindHeading, KindParagraph, KindCodeBlock}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("text block kinds (-want +got):\n%s", diff)
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i-1] >= blocks[i] {
			t.Errorf("blocks not in document order: %v", blocks)
		}
	}
}

func TestTextLenAndSoftBreak(t *testing.T) {
	doc, err := Parse([]byte("one\ntwo"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	para := doc.Children(doc.Root())[0]
	// The soft break becomes a space in the flat text.
	if got, want := doc.FlatText(para), "one two"; got != want {
		t.Errorf("FlatText = %q, want %q", got, want)
	}
	if got := doc.TextLen(para); got != 7 {
		t.Errorf("TextLen = %d, want 7", got)
	}
}

func TestParseEmpty(t *testing.T) {
	doc, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Len() == 0 {
		t.Fatal("empty parse must still produce a root")
	}
	if doc.Node(doc.Root()).Kind != KindDocument {
		t.Errorf("root kind = %v", doc.Node(doc.Root()).Kind)
	}
}
