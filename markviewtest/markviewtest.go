// Package markviewtest provides deterministic test doubles: a fixed
// metric typesetter where every glyph is GlyphWidth wide and every
// line GlyphHeight tall, and a recording SVG renderer. Geometry in
// tests becomes simple arithmetic on rune counts.
package markviewtest

import (
	"fmt"

	"github.com/markview/markview/scene"
	"github.com/markview/markview/theme"
	"github.com/markview/markview/typeset"
)

const (
	// GlyphWidth is the advance of every rune under the fixed typesetter.
	GlyphWidth = 13.0

	// GlyphHeight is the height of every line.
	GlyphHeight = 10.0

	// GlyphAscent is the baseline offset within a line.
	GlyphAscent = 8.0
)

// Typesetter measures text with fixed metrics regardless of style.
type Typesetter struct{}

// NewTypesetter returns the fixed-metric typesetter.
func NewTypesetter() *Typesetter { return &Typesetter{} }

// Measure implements typeset.Typesetter.
func (t *Typesetter) Measure(runs []typeset.Run, maxWidth float64) (*typeset.Text, error) {
	if maxWidth <= 0 {
		return nil, fmt.Errorf("markviewtest: non-positive wrap width %v", maxWidth)
	}
	return typeset.Wrap(runs, maxWidth, t), nil
}

// Advance implements typeset.FaceMetrics.
func (t *Typesetter) Advance(_ theme.Style, s string) float64 {
	return GlyphWidth * float64(len([]rune(s)))
}

// LineMetrics implements typeset.FaceMetrics.
func (t *Typesetter) LineMetrics(theme.Style) (float64, float64) {
	return GlyphAscent, GlyphHeight
}

// SVGCall records one request made of the SVG renderer.
type SVGCall struct {
	Kind string // "glyph" or "icon"
	Box  scene.Rect
	Ref  string
}

// SVG records renderer calls and places a Glyph op for each so scenes
// stay inspectable.
type SVG struct {
	Calls []SVGCall
}

// NewSVG returns an empty recording renderer.
func NewSVG() *SVG { return &SVG{} }

// DrawGlyph implements scene.SVGRenderer.
func (r *SVG) DrawGlyph(s *scene.Scene, box scene.Rect, ref string) {
	r.Calls = append(r.Calls, SVGCall{Kind: "glyph", Box: box, Ref: ref})
	s.Append(scene.Glyph{Rect: box, Ref: ref})
}

// DrawIcon implements scene.SVGRenderer.
func (r *SVG) DrawIcon(s *scene.Scene, box scene.Rect, ref string) {
	r.Calls = append(r.Calls, SVGCall{Kind: "icon", Box: box, Ref: ref})
	s.Append(scene.Glyph{Rect: box, Ref: ref})
}

// Describe renders ops as one line each for readable test diffs.
func Describe(ops []scene.Op) []string {
	var out []string
	for _, op := range ops {
		out = append(out, describeOp(op))
	}
	return out
}

func describeOp(op scene.Op) string {
	switch o := op.(type) {
	case scene.FillRect:
		return fmt.Sprintf("fill %s #%02x%02x%02x", rect(o.Rect), o.Color.R, o.Color.G, o.Color.B)
	case scene.StrokeLine:
		return fmt.Sprintf("line (%g,%g)-(%g,%g) w=%g", o.From.X, o.From.Y, o.To.X, o.To.Y, o.Width)
	case scene.TextRun:
		flags := ""
		if o.Bold {
			flags += "b"
		}
		if o.Italic {
			flags += "i"
		}
		if o.Mono {
			flags += "m"
		}
		if flags != "" {
			flags = " " + flags
		}
		return fmt.Sprintf("text %q @(%g,%g) size=%g%s", o.Text, o.Origin.X, o.Origin.Y, o.Size, flags)
	case scene.Underline:
		return fmt.Sprintf("underline (%g,%g)-(%g,%g)", o.From.X, o.From.Y, o.To.X, o.To.Y)
	case scene.Highlight:
		return fmt.Sprintf("highlight %s", rect(o.Rect))
	case scene.Glyph:
		return fmt.Sprintf("glyph %q %s", o.Ref, rect(o.Rect))
	case scene.PushClip:
		return fmt.Sprintf("clip %s", rect(o.Rect))
	case scene.PopClip:
		return "unclip"
	}
	return fmt.Sprintf("unknown %T", op)
}

func rect(r scene.Rect) string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// OfType filters ops to one concrete type, e.g. OfType[scene.Highlight].
func OfType[T scene.Op](ops []scene.Op) []T {
	var out []T
	for _, op := range ops {
		if o, ok := op.(T); ok {
			out = append(out, o)
		}
	}
	return out
}

// Texts returns the text content of every TextRun op in order.
func Texts(ops []scene.Op) []string {
	var out []string
	for _, op := range ops {
		if o, ok := op.(scene.TextRun); ok {
			out = append(out, o.Text)
		}
	}
	return out
}
