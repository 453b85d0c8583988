package markdown

import "strings"

// Document is the parsed markdown tree. It is immutable after Parse and
// owned for the document's whole lifetime; the visual cache joins to it
// by NodeID only, never by embedded references.
type Document struct {
	nodes []Node
}

// Root returns the ID of the document root node.
func (d *Document) Root() NodeID { return 0 }

// Len returns the number of nodes in the document.
func (d *Document) Len() int { return len(d.nodes) }

// Node returns the node with the given ID. The returned pointer is
// shared and must be treated as read-only.
func (d *Document) Node(id NodeID) *Node {
	return &d.nodes[id]
}

// Children returns the ordered child IDs of id.
func (d *Document) Children(id NodeID) []NodeID {
	return d.nodes[id].Children
}

// Walk visits id and its subtree in pre-order. Returning false from fn
// skips the node's children.
func (d *Document) Walk(id NodeID, fn func(NodeID, *Node) bool) {
	if !fn(id, &d.nodes[id]) {
		return
	}
	for _, c := range d.nodes[id].Children {
		d.Walk(c, fn)
	}
}

// Run is a flattened styled text run of a block node.
type Run struct {
	Text string
	Span SpanStyle

	// Link is the enclosing link node, or NoNode. Painting uses it for
	// underlines and the pointer uses it for URL resolution.
	Link NodeID
}

// Runs flattens the inline content of a block node into styled runs in
// source order. A code block yields a single code run. Image nodes are
// not part of the text flow and are skipped here.
func (d *Document) Runs(id NodeID) []Run {
	n := &d.nodes[id]
	if n.Kind == KindCodeBlock {
		return []Run{{Text: n.Text, Span: SpanStyle{Code: true}}}
	}
	var runs []Run
	d.appendRuns(&runs, id, NoNode)
	return runs
}

func (d *Document) appendRuns(runs *[]Run, id, link NodeID) {
	n := &d.nodes[id]
	switch n.Kind {
	case KindText:
		*runs = append(*runs, Run{Text: n.Text, Span: n.Span, Link: link})
		return
	case KindLink:
		link = id
	case KindImage:
		return
	}
	for _, c := range n.Children {
		d.appendRuns(runs, c, link)
	}
}

// FlatText returns the concatenated run text of a block node. Selection
// offsets for the node index into this string, counted in runes.
func (d *Document) FlatText(id NodeID) string {
	runs := d.Runs(id)
	if len(runs) == 1 {
		return runs[0].Text
	}
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// TextLen returns the rune length of a block node's flat text.
func (d *Document) TextLen(id NodeID) int {
	n := 0
	for _, r := range d.Runs(id) {
		n += len([]rune(r.Text))
	}
	return n
}

// LinkURL resolves the URL covering the given rune offset within the
// flat text of block node id. It returns "" when the offset is not
// inside a link. The offset ranges mirror the flattening in Runs.
func (d *Document) LinkURL(id NodeID, offset int) string {
	pos := 0
	for _, r := range d.Runs(id) {
		n := len([]rune(r.Text))
		if offset >= pos && offset < pos+n {
			if r.Link != NoNode {
				return d.nodes[r.Link].Href
			}
			return ""
		}
		pos += n
	}
	return ""
}

// TextBlocks returns the IDs of all text-bearing block nodes in
// document order. Selection traversal uses it to move between blocks.
func (d *Document) TextBlocks() []NodeID {
	var ids []NodeID
	d.Walk(d.Root(), func(id NodeID, n *Node) bool {
		if n.HasText() {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}
