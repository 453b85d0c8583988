// Package vis holds the visual tree: per-node layout results cached
// between passes. The cache is keyed by markdown.NodeID and carries
// validity tags instead of dirty bits, so a pass can always tell
// whether an entry still matches the width and theme it is asked to
// lay out for. Dropping any entry, or the whole tree, only costs the
// next pass recomputation.
package vis

import (
	"sort"

	"github.com/markview/markview/markdown"
	"github.com/markview/markview/typeset"
)

// Node is the cached layout result for one document node.
type Node struct {
	// Height is the node's total vertical extent, insets included.
	Height float64

	// OrderIndex is the node's position among its siblings, cached so
	// margin rules and list markers never rescan the parent's children.
	// Sibling entries carry strictly increasing indices in document
	// order, and reuse preserves them since the document never changes
	// shape.
	OrderIndex uint64

	// WidthValidFor and ThemeGen tag the constraint and theme snapshot
	// the entry was computed under. An entry is only usable when both
	// match the current pass.
	WidthValidFor float64
	ThemeGen      uint64

	// Text is the wrapped text of a text-bearing node, nil otherwise.
	Text *typeset.Text

	// ChildOffsets holds each child's top edge relative to this node's
	// content origin, parallel to the document node's Children.
	ChildOffsets []float64

	// TopInset and LeftInset offset the content origin from the node's
	// own top-left corner (margins, quote bars, list markers).
	TopInset  float64
	LeftInset float64
}

// Tree is the visual cache for one document. Entries are addressed by
// NodeID; the tree never stores document pointers.
type Tree struct {
	nodes []Node
}

// NewTree returns an empty tree sized for a document of n nodes.
func NewTree(n int) *Tree {
	return &Tree{nodes: make([]Node, n)}
}

// Len returns the number of slots in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the cached entry for id. The entry may be stale; callers
// check Valid before trusting its geometry.
func (t *Tree) Node(id markdown.NodeID) *Node {
	if int(id) < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Valid reports whether id's entry was computed for exactly this width
// and theme generation. A never-built entry is invalid for any input.
func (t *Tree) Valid(id markdown.NodeID, width float64, gen uint64) bool {
	n := t.Node(id)
	return n != nil && n.WidthValidFor > 0 &&
		n.WidthValidFor == width && n.ThemeGen == gen
}

// Drop invalidates the entry for id and its recorded result.
func (t *Tree) Drop(id markdown.NodeID) {
	if n := t.Node(id); n != nil {
		*n = Node{}
	}
}

// DropAll invalidates every entry, forcing a full relayout.
func (t *Tree) DropAll() {
	for i := range t.nodes {
		t.nodes[i] = Node{}
	}
}

// Commit replaces the tree's entries with a completed pass. The layout
// pass computes into a scratch slice and commits only on success, so a
// failed pass never leaves the cache half written.
func (t *Tree) Commit(nodes []Node) {
	t.nodes = nodes
}

// Scratch returns a copy of the current entries for a pass to compute
// into, sized for a document of n nodes.
func (t *Tree) Scratch(n int) []Node {
	s := make([]Node, n)
	copy(s, t.nodes)
	return s
}

// ChildIndexAt returns the index of the child whose vertical band
// contains y, in the node's content coordinates. It binary searches the
// child offsets: the answer is the last child starting at or above y.
// Returns -1 when the node has no children or y is above the first.
func (n *Node) ChildIndexAt(y float64) int {
	if len(n.ChildOffsets) == 0 {
		return -1
	}
	i := sort.Search(len(n.ChildOffsets), func(i int) bool {
		return n.ChildOffsets[i] > y
	})
	return i - 1
}
