// Package selection tracks the pointer-driven text selection over a
// document. Positions are expressed in document coordinates, a block
// node plus a rune offset into its flat text, so a selection survives
// visual cache rebuilds untouched.
package selection

import "github.com/markview/markview/markdown"

// DocPos addresses one caret position: a text-bearing block node and a
// rune offset into its flat text. Offset may equal the text length,
// which is the position after the last rune.
type DocPos struct {
	Node   markdown.NodeID
	Offset int
}

// Before reports whether p precedes q in document order. Node IDs are
// assigned in pre-order, so comparing them compares document order.
func (p DocPos) Before(q DocPos) bool {
	if p.Node != q.Node {
		return p.Node < q.Node
	}
	return p.Offset < q.Offset
}

// Range is a normalized selection: Start never follows End. A range
// with Start == End is a bare caret.
type Range struct {
	Start, End DocPos
}

// Empty reports whether the range selects no text.
func (r Range) Empty() bool { return r.Start == r.End }

// normalized returns the range with its endpoints in document order.
func normalized(a, b DocPos) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}
