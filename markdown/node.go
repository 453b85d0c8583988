package markdown

// NodeID identifies a node in a Document. IDs are arena indices assigned
// in pre-order, so comparing two IDs compares document order. The zero
// ID is always the document root.
type NodeID int

// NoNode is the ID of no node (e.g. the root's parent).
const NoNode NodeID = -1

// Kind classifies a document node.
type Kind int

const (
	KindDocument Kind = iota
	KindParagraph
	KindHeading
	KindList
	KindListItem
	KindBlockquote
	KindCodeBlock
	KindRule
	KindLink
	KindImage
	KindText
)

// String returns the kind name used in debug output and test diffs.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindParagraph:
		return "Paragraph"
	case KindHeading:
		return "Heading"
	case KindList:
		return "List"
	case KindListItem:
		return "ListItem"
	case KindBlockquote:
		return "Blockquote"
	case KindCodeBlock:
		return "CodeBlock"
	case KindRule:
		return "Rule"
	case KindLink:
		return "Link"
	case KindImage:
		return "Image"
	case KindText:
		return "Text"
	}
	return "Unknown"
}

// SpanStyle carries the inline emphasis flags of a text run.
type SpanStyle struct {
	Bold   bool
	Italic bool
	Code   bool
}

// Node is one element of the parsed document. Nodes are immutable after
// Parse; the rendering layers never write to them.
type Node struct {
	Kind Kind

	// Level is the heading level (1-6). Valid only for KindHeading.
	Level int

	// Ordered and Start describe a list marker. Valid only for KindList.
	Ordered bool
	Start   int

	// Lang is the info string of a fenced code block.
	Lang string

	// Href is the destination of a link or image node.
	Href string

	// Alt is the alternate text of an image node.
	Alt string

	// Text is the content of a KindText run or a KindCodeBlock.
	Text string

	// Span holds the emphasis flags for a KindText run.
	Span SpanStyle

	Parent   NodeID
	Children []NodeID
}

// IsBlock reports whether the node is a block-level element that owns
// vertical space in the layout flow.
func (n *Node) IsBlock() bool {
	switch n.Kind {
	case KindParagraph, KindHeading, KindList, KindListItem,
		KindBlockquote, KindCodeBlock, KindRule, KindImage:
		return true
	}
	return false
}

// HasText reports whether the node carries text that is measured and
// painted through the typesetter (directly or via inline children).
func (n *Node) HasText() bool {
	switch n.Kind {
	case KindParagraph, KindHeading, KindCodeBlock:
		return true
	}
	return false
}
