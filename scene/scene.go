package scene

import "image/color"

// Op is one draw primitive. The concrete types form a closed union;
// renderers switch over them in order.
type Op interface {
	isOp()
}

// FillRect fills a rectangle with a solid color.
type FillRect struct {
	Rect  Rect
	Color color.RGBA
}

// StrokeLine strokes a straight line segment.
type StrokeLine struct {
	From, To Point
	Width    float64
	Color    color.RGBA
}

// TextRun draws one run of shaped text at a baseline origin.
type TextRun struct {
	Origin Point // baseline left edge
	Text   string
	Size   float64
	Mono   bool
	Bold   bool
	Italic bool
	Color  color.RGBA
}

// Underline marks a text decoration under a run.
type Underline struct {
	From, To Point
	Color    color.RGBA
}

// Highlight fills a selection rectangle. Renderers draw highlights
// under the text of the same node, so it is a distinct op rather than
// a FillRect.
type Highlight struct {
	Rect  Rect
	Color color.RGBA
}

// Glyph is a vector glyph or icon placement resolved by the SVG
// rendering service. Ref identifies the asset; the scene does not own
// rasterization.
type Glyph struct {
	Rect Rect
	Ref  string
}

// PushClip begins clipping subsequent ops to a rectangle.
type PushClip struct {
	Rect Rect
}

// PopClip ends the innermost clip.
type PopClip struct{}

func (FillRect) isOp()   {}
func (StrokeLine) isOp() {}
func (TextRun) isOp()    {}
func (Underline) isOp()  {}
func (Highlight) isOp()  {}
func (Glyph) isOp()      {}
func (PushClip) isOp()   {}
func (PopClip) isOp()    {}

// Scene is an ordered accumulation of draw ops for a single paint pass.
type Scene struct {
	ops []Op
}

// Append adds ops in order.
func (s *Scene) Append(ops ...Op) {
	s.ops = append(s.ops, ops...)
}

// Ops returns the accumulated ops in draw order.
func (s *Scene) Ops() []Op { return s.ops }

// Reset discards all ops, keeping the backing storage.
func (s *Scene) Reset() { s.ops = s.ops[:0] }

// SVGRenderer rasterizes vector glyphs and icons into a scene. It is
// an external service: the library only records placements through it
// and never interprets the refs itself.
type SVGRenderer interface {
	// DrawGlyph places a vector glyph (e.g. a list bullet) in box.
	DrawGlyph(s *Scene, box Rect, ref string)

	// DrawIcon places a vector icon or image placeholder in box.
	DrawIcon(s *Scene, box Rect, ref string)
}
