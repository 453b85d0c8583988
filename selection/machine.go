package selection

import (
	"strings"

	"github.com/markview/markview/layout"
	"github.com/markview/markview/markdown"
	"github.com/markview/markview/scene"
	"github.com/markview/markview/vis"
)

// State is the pointer interaction state.
type State int

const (
	// StateIdle means no selection and no pointer interaction.
	StateIdle State = iota

	// StateCursor means a bare caret is placed.
	StateCursor

	// StateDragging means the pointer is down and moving extends the
	// selection from the press anchor.
	StateDragging

	// StateRange means a non-empty selection is settled.
	StateRange

	// StateAnchored means the selection is bound to a word or line
	// anchor unit, or a shift-press reattached the pointer to an
	// existing anchor; moves extend until release.
	StateAnchored
)

// Kind is the selection granularity, chosen by click count.
type Kind int

const (
	KindChar Kind = iota
	KindWord
	KindLine
)

// KindFromCount maps a click count to a granularity: single clicks
// select characters, double clicks words, triple and beyond whole
// wrapped lines.
func KindFromCount(n int) Kind {
	switch {
	case n <= 1:
		return KindChar
	case n == 2:
		return KindWord
	default:
		return KindLine
	}
}

// EventKind classifies a pointer event.
type EventKind int

const (
	Press EventKind = iota
	Move
	Release
)

// PointerEvent is one pointer sample in document coordinates. The host
// supplies ClickCount from its own double-click timing.
type PointerEvent struct {
	Kind       EventKind
	Pos        scene.Point
	ClickCount int
	Shift      bool
}

// Machine drives the selection from pointer events. It reads the
// document and the visual cache but never writes to either.
type Machine struct {
	doc   *markdown.Document
	cache *vis.Tree

	state  State
	kind   Kind
	down   bool   // pointer is held since the last press
	anchor Range  // granularity-expanded unit under the press
	cur    DocPos // active end, tracking the most recent input
	sel    Range
}

// New returns an idle machine over doc and its visual cache.
func New(doc *markdown.Document, cache *vis.Tree) *Machine {
	return &Machine{doc: doc, cache: cache}
}

// State returns the current interaction state.
func (m *Machine) State() State { return m.state }

// Selection returns the current normalized selection range.
func (m *Machine) Selection() Range { return m.sel }

// Cursor returns the active end of the selection, the end that tracked
// the most recent pointer input.
func (m *Machine) Cursor() DocPos { return m.cur }

// Clear drops any selection and returns to idle. It is the only way
// back to idle; pointer events never reach it on their own.
func (m *Machine) Clear() {
	m.state = StateIdle
	m.down = false
	m.sel = Range{}
	m.anchor = Range{}
	m.cur = DocPos{}
}

// Handle advances the machine by one pointer event.
func (m *Machine) Handle(ev PointerEvent) {
	switch ev.Kind {
	case Press:
		m.press(ev)
	case Move:
		m.move(ev)
	case Release:
		m.release()
	}
}

func (m *Machine) press(ev PointerEvent) {
	p, ok := m.posAt(ev.Pos)
	if !ok {
		// A miss is not a transition; whatever is selected stays.
		return
	}
	m.down = true
	if ev.Shift && m.state != StateIdle {
		// Extend from the existing anchor instead of resetting.
		m.cur = p
		m.sel = m.combine(p)
		m.state = StateAnchored
		return
	}
	m.kind = KindFromCount(ev.ClickCount)
	m.anchor = m.expand(p)
	m.sel = m.anchor
	m.cur = m.anchor.End
	if m.kind == KindChar {
		// A bare press places the caret; dragging starts on the
		// first move while the pointer is still held.
		m.state = StateCursor
	} else {
		m.state = StateAnchored
	}
}

func (m *Machine) move(ev PointerEvent) {
	if !m.down {
		return
	}
	p, ok := m.posAt(ev.Pos)
	if !ok {
		return
	}
	if m.state == StateCursor {
		m.state = StateDragging
	}
	m.cur = p
	m.sel = m.combine(p)
}

func (m *Machine) release() {
	m.down = false
	switch m.state {
	case StateDragging, StateAnchored:
		if m.sel.Empty() {
			m.state = StateCursor
		} else {
			m.state = StateRange
		}
	}
}

// combine extends the anchor unit toward the granularity unit at p,
// normalized so reverse drags still produce an ordered range.
func (m *Machine) combine(p DocPos) Range {
	unit := m.expand(p)
	lo, hi := m.anchor.Start, m.anchor.End
	if unit.Start.Before(lo) {
		lo = unit.Start
	}
	if hi.Before(unit.End) {
		hi = unit.End
	}
	// For character granularity the far side collapses to the caret.
	if m.kind == KindChar {
		return normalized(m.anchor.Start, p)
	}
	return Range{Start: lo, End: hi}
}

// expand widens a caret position to the current granularity unit.
func (m *Machine) expand(p DocPos) Range {
	switch m.kind {
	case KindWord:
		s, e := m.wordRange(p)
		return Range{DocPos{p.Node, s}, DocPos{p.Node, e}}
	case KindLine:
		s, e := m.lineRange(p)
		return Range{DocPos{p.Node, s}, DocPos{p.Node, e}}
	default:
		return Range{p, p}
	}
}

// lineRange returns the wrapped visual line bounds holding p.
func (m *Machine) lineRange(p DocPos) (int, int) {
	vn := m.cache.Node(p.Node)
	if vn == nil || vn.Text == nil {
		return p.Offset, p.Offset
	}
	return vn.Text.LineRangeOf(p.Offset)
}

// posAt maps an absolute point to a document position. Points over
// non-text blocks snap to the nearest text block boundary, and points
// below all content snap to the end of the last text block.
func (m *Machine) posAt(pt scene.Point) (DocPos, bool) {
	id, local := layout.Hit(m.doc, m.cache, pt)
	if m.doc.Node(id).HasText() {
		if vn := m.cache.Node(id); vn != nil && vn.Text != nil {
			return DocPos{Node: id, Offset: vn.Text.OffsetAt(local)}, true
		}
	}
	blocks := m.doc.TextBlocks()
	if len(blocks) == 0 {
		return DocPos{}, false
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i] < id {
			return DocPos{Node: blocks[i], Offset: m.doc.TextLen(blocks[i])}, true
		}
	}
	return DocPos{Node: blocks[0]}, true
}

// Selected returns the plain text covered by the selection. Blocks are
// joined with newlines.
func (m *Machine) Selected() string {
	if m.sel.Empty() {
		return ""
	}
	var parts []string
	for _, id := range m.doc.TextBlocks() {
		if id < m.sel.Start.Node || id > m.sel.End.Node {
			continue
		}
		text := []rune(m.doc.FlatText(id))
		s, e := 0, len(text)
		if id == m.sel.Start.Node {
			s = clamp(m.sel.Start.Offset, 0, len(text))
		}
		if id == m.sel.End.Node {
			e = clamp(m.sel.End.Offset, 0, len(text))
		}
		if s > e {
			s = e
		}
		parts = append(parts, string(text[s:e]))
	}
	return strings.Join(parts, "\n")
}

// URLAt returns the link destination under an absolute point, or ""
// when the point is not over a link.
func (m *Machine) URLAt(pt scene.Point) string {
	id, local := layout.Hit(m.doc, m.cache, pt)
	if !m.doc.Node(id).HasText() {
		if n := m.doc.Node(id); n.Kind == markdown.KindImage {
			return n.Href
		}
		return ""
	}
	vn := m.cache.Node(id)
	if vn == nil || vn.Text == nil {
		return ""
	}
	return m.doc.LinkURL(id, vn.Text.OffsetAt(local))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
