// Package layout computes vertical block layout for a parsed document
// under a width constraint, filling the visual cache. A pass reuses any
// cached entry still valid for the same width and theme generation and
// recomputes the rest; results are committed atomically, so a failed
// pass leaves the cache exactly as it found it.
package layout

import (
	"errors"
	"fmt"

	"github.com/markview/markview/markdown"
	"github.com/markview/markview/scene"
	"github.com/markview/markview/theme"
	"github.com/markview/markview/typeset"
	"github.com/markview/markview/vis"
)

// ErrInvalidConstraint is returned for a non-positive wrap width.
var ErrInvalidConstraint = errors.New("layout: non-positive width constraint")

// Context carries the services a pass needs. It lives for one pass
// only and is never stored in the cache or the document.
type Context struct {
	Type  typeset.Typesetter
	SVG   scene.SVGRenderer
	Theme *theme.Theme
}

// Layout lays out doc at the given width, updating cache. It returns
// the document's total content height.
func Layout(doc *markdown.Document, cache *vis.Tree, ctx *Context, width float64) (float64, error) {
	if width <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidConstraint, width)
	}
	p := &pass{
		doc:   doc,
		cache: cache,
		ctx:   ctx,
		gen:   ctx.Theme.Generation(),
		nodes: cache.Scratch(doc.Len()),
	}
	h, err := p.layoutNode(doc.Root(), width, 0)
	if err != nil {
		return 0, err
	}
	cache.Commit(p.nodes)
	return h, nil
}

type pass struct {
	doc   *markdown.Document
	cache *vis.Tree
	ctx   *Context
	gen   uint64
	nodes []vis.Node
}

// layoutNode computes the entry for id at the given available width.
// order is id's position among its siblings. A cached entry is reused
// only when its own tags match and every laid-out descendant is still
// usable; a container whose child was dropped must recompute so the
// dropped entry gets rebuilt.
func (p *pass) layoutNode(id markdown.NodeID, width float64, order uint64) (float64, error) {
	if p.cache.Valid(id, width, p.gen) && p.subtreeValid(id) {
		return p.nodes[id].Height, nil
	}

	n := p.doc.Node(id)
	m := p.ctx.Theme.Margins()
	out := vis.Node{WidthValidFor: width, ThemeGen: p.gen, OrderIndex: order}

	switch n.Kind {
	case markdown.KindDocument:
		h, offs, err := p.stackChildren(id, width)
		if err != nil {
			return 0, err
		}
		out.Height = h
		out.ChildOffsets = offs

	case markdown.KindParagraph, markdown.KindHeading:
		text, err := p.measure(id, width)
		if err != nil {
			return 0, err
		}
		out.Text = text
		out.Height = text.Height

	case markdown.KindCodeBlock:
		inner := width - 2*m.CodePadding
		if inner <= 0 {
			inner = 1
		}
		text, err := p.measure(id, inner)
		if err != nil {
			return 0, err
		}
		out.Text = text
		out.TopInset = m.CodePadding
		out.LeftInset = m.CodePadding
		out.Height = text.Height + 2*m.CodePadding

	case markdown.KindRule:
		out.Height = 2*m.RuleVertical + m.RuleThickness

	case markdown.KindImage:
		out.Height = m.ImageHeight

	case markdown.KindBlockquote:
		out.LeftInset = m.QuoteBarWidth + m.QuoteBarGap
		inner := width - out.LeftInset - m.QuoteSide
		if inner <= 0 {
			inner = 1
		}
		h, offs, err := p.stackChildren(id, inner)
		if err != nil {
			return 0, err
		}
		out.Height = h
		out.ChildOffsets = offs

	case markdown.KindList:
		h, offs, err := p.stackChildren(id, width)
		if err != nil {
			return 0, err
		}
		out.Height = h
		out.ChildOffsets = offs

	case markdown.KindListItem:
		out.LeftInset = m.ListIndent
		inner := width - m.ListIndent
		if inner <= 0 {
			inner = 1
		}
		h, offs, err := p.stackChildren(id, inner)
		if err != nil {
			return 0, err
		}
		out.Height = h
		out.ChildOffsets = offs

	default:
		// Inline nodes own no vertical space of their own.
		out.Height = 0
	}

	p.nodes[id] = out
	return out.Height, nil
}

// subtreeValid reports whether every descendant entry under id is
// built and tagged with the current theme generation. Child widths are
// not rechecked: children commit in the same pass as their container,
// so a container whose own width tag matches implies consistent child
// widths.
func (p *pass) subtreeValid(id markdown.NodeID) bool {
	vn := p.cache.Node(id)
	if vn == nil {
		return false
	}
	children := p.doc.Children(id)
	for i := range vn.ChildOffsets {
		if i >= len(children) {
			return false
		}
		c := p.cache.Node(children[i])
		if c == nil || c.WidthValidFor <= 0 || c.ThemeGen != p.gen {
			return false
		}
		if !p.subtreeValid(children[i]) {
			return false
		}
	}
	return true
}

// stackChildren lays out the block children of id in document order,
// returning the total height and each child's top offset in the
// parent's content coordinates. The first child's top margin collapses
// to zero so containers do not open with dead space.
func (p *pass) stackChildren(id markdown.NodeID, width float64) (float64, []float64, error) {
	children := p.doc.Children(id)
	offs := make([]float64, len(children))
	y := 0.0
	for i, c := range children {
		if i > 0 {
			y += p.topMargin(c)
		}
		offs[i] = y
		h, err := p.layoutNode(c, width, uint64(i))
		if err != nil {
			return 0, nil, err
		}
		y += h
	}
	return y, offs, nil
}

// topMargin returns the vertical gap a block asks for above itself.
func (p *pass) topMargin(id markdown.NodeID) float64 {
	m := p.ctx.Theme.Margins()
	switch p.doc.Node(id).Kind {
	case markdown.KindHeading:
		return m.HeadingTop
	case markdown.KindList, markdown.KindListItem:
		return m.ListTop
	case markdown.KindRule:
		return 0 // rule spacing lives inside the rule's own height
	default:
		return m.ParagraphTop
	}
}

// measure wraps a text-bearing block's flattened runs at the width.
func (p *pass) measure(id markdown.NodeID, width float64) (*typeset.Text, error) {
	n := p.doc.Node(id)
	block := p.ctx.Theme.Style(n.Kind, n.Level)
	var runs []typeset.Run
	for _, r := range p.doc.Runs(id) {
		runs = append(runs, typeset.Run{
			Text:  r.Text,
			Style: p.ctx.Theme.RunStyle(block, r.Span, r.Link != markdown.NoNode),
		})
	}
	if len(runs) == 0 {
		runs = []typeset.Run{{Style: block}}
	}
	text, err := p.ctx.Type.Measure(runs, width)
	if err != nil {
		return nil, fmt.Errorf("layout: measure %v node %d: %w", n.Kind, id, err)
	}
	return text, nil
}
