package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parse converts markdown source into a Document. The heavy lifting is
// done by goldmark; this front end flattens goldmark's AST into the
// arena form the layout and selection layers consume.
//
// The arena is filled in pre-order, which is what makes NodeID
// comparison equivalent to document-order comparison.
func Parse(src []byte) (*Document, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	d := &Document{}
	b := &builder{doc: d, src: src}
	b.convert(root, NoNode, SpanStyle{})
	if len(d.nodes) == 0 {
		d.nodes = append(d.nodes, Node{Kind: KindDocument, Parent: NoNode})
	}
	return d, nil
}

type builder struct {
	doc *Document
	src []byte
}

// alloc appends a node and links it to its parent. It must be called
// for a parent before any of its children to keep IDs in pre-order.
func (b *builder) alloc(n Node, parent NodeID) NodeID {
	n.Parent = parent
	id := NodeID(len(b.doc.nodes))
	b.doc.nodes = append(b.doc.nodes, n)
	if parent != NoNode {
		p := &b.doc.nodes[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

func (b *builder) convert(n ast.Node, parent NodeID, span SpanStyle) {
	switch n := n.(type) {
	case *ast.Document:
		id := b.alloc(Node{Kind: KindDocument}, parent)
		b.convertChildren(n, id, span)

	case *ast.Heading:
		id := b.alloc(Node{Kind: KindHeading, Level: n.Level}, parent)
		b.convertChildren(n, id, span)

	case *ast.Paragraph:
		// A paragraph holding nothing but an image is really a block
		// image; hoist it so it owns vertical space in the flow.
		if img, ok := soleImage(n); ok {
			b.convert(img, parent, span)
			return
		}
		id := b.alloc(Node{Kind: KindParagraph}, parent)
		b.convertChildren(n, id, span)

	case *ast.TextBlock:
		// Tight list items wrap their inline content in a TextBlock;
		// render it as a paragraph without the paragraph margin
		// distinction (margins are a theme concern keyed on kind).
		id := b.alloc(Node{Kind: KindParagraph}, parent)
		b.convertChildren(n, id, span)

	case *ast.List:
		start := 1
		if n.IsOrdered() {
			start = n.Start
		}
		id := b.alloc(Node{Kind: KindList, Ordered: n.IsOrdered(), Start: start}, parent)
		b.convertChildren(n, id, span)

	case *ast.ListItem:
		id := b.alloc(Node{Kind: KindListItem}, parent)
		b.convertChildren(n, id, span)

	case *ast.Blockquote:
		id := b.alloc(Node{Kind: KindBlockquote}, parent)
		b.convertChildren(n, id, span)

	case *ast.FencedCodeBlock:
		lang := ""
		if l := n.Language(b.src); l != nil {
			lang = string(l)
		}
		b.alloc(Node{Kind: KindCodeBlock, Lang: lang, Text: b.blockText(n)}, parent)

	case *ast.CodeBlock:
		b.alloc(Node{Kind: KindCodeBlock, Text: b.blockText(n)}, parent)

	case *ast.ThematicBreak:
		b.alloc(Node{Kind: KindRule}, parent)

	case *ast.Link:
		id := b.alloc(Node{Kind: KindLink, Href: string(n.Destination)}, parent)
		b.convertChildren(n, id, span)

	case *ast.AutoLink:
		url := string(n.URL(b.src))
		id := b.alloc(Node{Kind: KindLink, Href: url}, parent)
		b.alloc(Node{Kind: KindText, Text: url, Span: span}, id)

	case *ast.Image:
		b.alloc(Node{
			Kind: KindImage,
			Href: string(n.Destination),
			Alt:  b.inlineText(n),
		}, parent)

	case *ast.Emphasis:
		if n.Level >= 2 {
			span.Bold = true
		} else {
			span.Italic = true
		}
		b.convertChildren(n, parent, span)

	case *ast.CodeSpan:
		span.Code = true
		b.alloc(Node{Kind: KindText, Text: b.inlineText(n), Span: span}, parent)

	case *ast.Text:
		t := strings.TrimSuffix(string(n.Segment.Value(b.src)), "\r")
		if n.SoftLineBreak() {
			t += " "
		} else if n.HardLineBreak() {
			t += "\n"
		}
		if t != "" {
			b.appendText(parent, t, span)
		}

	case *ast.String:
		if len(n.Value) > 0 {
			b.appendText(parent, string(n.Value), span)
		}

	default:
		// Unknown goldmark kinds degrade to their inline text so that
		// one unsupported extension node never drops content.
		if t := b.inlineText(n); t != "" {
			b.appendText(parent, t, span)
		}
	}
}

func soleImage(n ast.Node) (ast.Node, bool) {
	if n.ChildCount() != 1 {
		return nil, false
	}
	c := n.FirstChild()
	if _, ok := c.(*ast.Image); !ok {
		return nil, false
	}
	return c, true
}

func (b *builder) convertChildren(n ast.Node, parent NodeID, span SpanStyle) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.convert(c, parent, span)
	}
}

// appendText adds a text run, merging with the previous run when the
// style matches. Merging keeps run counts low for wrap-heavy text.
func (b *builder) appendText(parent NodeID, t string, span SpanStyle) {
	p := &b.doc.nodes[parent]
	if len(p.Children) > 0 {
		last := p.Children[len(p.Children)-1]
		ln := &b.doc.nodes[last]
		if ln.Kind == KindText && ln.Span == span && last == NodeID(len(b.doc.nodes)-1) {
			ln.Text += t
			return
		}
	}
	b.alloc(Node{Kind: KindText, Text: t, Span: span}, parent)
}

// blockText extracts the raw source lines of a literal block. Line
// endings are normalized to "\n" so rune offsets and wrapping never
// see a carriage return from CRLF sources.
func (b *builder) blockText(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(b.src))
	}
	s := strings.ReplaceAll(buf.String(), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimRight(s, "\n")
}

// inlineText collects the plain text under an inline node.
func (b *builder) inlineText(n ast.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(b.src))
			continue
		}
		buf.WriteString(b.inlineText(c))
	}
	return buf.String()
}
