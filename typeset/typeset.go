// Package typeset is the text layout service boundary. Layout hands a
// block's styled runs and a width constraint to a Typesetter and gets
// back wrapped lines with per-rune advances; everything the paint and
// selection layers need to place glyphs and map points to offsets.
package typeset

import (
	"github.com/markview/markview/scene"
	"github.com/markview/markview/theme"
)

// Run is one styled fragment of a block's flat text, in source order.
type Run struct {
	Text  string
	Style theme.Style
}

// Typesetter measures and wraps styled text. Implementations wrap a
// font stack (the production one sits on x/image opentype faces; tests
// use fixed metrics).
type Typesetter interface {
	Measure(runs []Run, maxWidth float64) (*Text, error)
}

// Text is the cached result of measuring one block. Offsets are rune
// indices into the block's flat text (the concatenation of run texts).
type Text struct {
	Lines  []Line
	Width  float64 // widest line
	Height float64
}

// Line is one wrapped visual line.
type Line struct {
	Start, End int // rune offsets, [Start, End)
	Y          float64
	Width      float64
	Ascent     float64
	Height     float64
	Runs       []LineRun
}

// LineRun is the fragment of a styled run placed on one line.
type LineRun struct {
	Start, End int
	X          float64
	Text       string
	Style      theme.Style
	Advances   []float64 // per-rune advance widths, len == End-Start
}

// RuneCount returns the total rune count covered by the text.
func (t *Text) RuneCount() int {
	if len(t.Lines) == 0 {
		return 0
	}
	return t.Lines[len(t.Lines)-1].End
}

// LineIndexAt returns the index of the line containing the vertical
// position y, clamped to the first and last line.
func (t *Text) LineIndexAt(y float64) int {
	if len(t.Lines) == 0 {
		return -1
	}
	for i, ln := range t.Lines {
		if y < ln.Y+ln.Height {
			return i
		}
	}
	return len(t.Lines) - 1
}

// OffsetAt maps a point in text-local coordinates to a rune offset.
// Points right of a line's extent snap to the line end; points below
// the last line snap to the final offset. Within a rune, the midpoint
// decides which side the offset lands on, matching the usual caret
// behavior.
func (t *Text) OffsetAt(pt scene.Point) int {
	i := t.LineIndexAt(pt.Y)
	if i < 0 {
		return 0
	}
	return t.Lines[i].OffsetAtX(pt.X)
}

// OffsetAtX maps a horizontal position to a rune offset within the
// line, snapping left of the line to Start and right of it to End.
func (ln *Line) OffsetAtX(x float64) int {
	if x < 0 {
		return ln.Start
	}
	for _, r := range ln.Runs {
		rx := r.X
		if x < rx {
			return r.Start
		}
		for i, adv := range r.Advances {
			if x < rx+adv {
				if x < rx+adv/2 {
					return r.Start + i
				}
				return r.Start + i + 1
			}
			rx += adv
		}
	}
	return ln.End
}

// PosOf returns the line index and x position of a rune offset. An
// offset equal to a line's End maps to the right edge of that line's
// last rune; the total offset maps past the last line's content.
func (t *Text) PosOf(offset int) (line int, x float64) {
	if len(t.Lines) == 0 {
		return 0, 0
	}
	for i := range t.Lines {
		ln := &t.Lines[i]
		if offset < ln.End || i == len(t.Lines)-1 {
			return i, ln.XOf(offset)
		}
	}
	return len(t.Lines) - 1, 0
}

// XOf returns the x position of a rune offset within the line. Offsets
// at or past the line end map to the right edge of its content.
func (ln *Line) XOf(offset int) float64 {
	if offset <= ln.Start {
		return 0
	}
	for _, r := range ln.Runs {
		if offset <= r.Start {
			return r.X
		}
		if offset <= r.End {
			x := r.X
			for i := 0; i < offset-r.Start; i++ {
				x += r.Advances[i]
			}
			return x
		}
	}
	return ln.Width
}

// LineRangeOf returns the [start, end) rune range of the line holding
// the given offset. Triple-click line selection is defined in terms of
// these wrapped-line boundaries.
func (t *Text) LineRangeOf(offset int) (start, end int) {
	for i := range t.Lines {
		ln := &t.Lines[i]
		if offset < ln.End || i == len(t.Lines)-1 {
			return ln.Start, ln.End
		}
	}
	return 0, 0
}
