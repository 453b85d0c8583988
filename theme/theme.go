// Package theme holds the resolved style table consumed by layout and
// paint. A Theme is an immutable snapshot: swapping themes produces a
// new generation, and every cached layout result is tagged with the
// generation it was computed under.
package theme

import (
	"image/color"
	"sync/atomic"

	"github.com/markview/markview/markdown"
)

// FontClass selects which face family a style is set in.
type FontClass int

const (
	FontProportional FontClass = iota
	FontMono
)

// Style is the resolved visual attributes of one element kind.
type Style struct {
	Font       FontClass
	Size       float64 // point size
	LineHeight float64 // multiple of the face height
	Fg         color.RGBA
	Bg         color.RGBA // zero alpha means no background
	Bold       bool
	Italic     bool
	Underline  bool
}

// Margins are the vertical and horizontal insets applied during layout,
// in the same units as widths and heights.
type Margins struct {
	ParagraphTop   float64
	HeadingTop     float64
	ListTop        float64
	ListIndent     float64
	ListMarkerGap  float64
	QuoteBarWidth  float64
	QuoteBarGap    float64
	QuoteSide      float64
	CodePadding    float64
	RuleVertical   float64
	RuleThickness  float64
	ImageHeight    float64
	CursorTickWide float64
}

// Palette is the color set of a theme.
type Palette struct {
	Background color.RGBA
	Text       color.RGBA
	Dim        color.RGBA
	Accent     color.RGBA
	Link       color.RGBA
	CodeText   color.RGBA
	CodeBack   color.RGBA
	QuoteBar   color.RGBA
	Rule       color.RGBA
	Highlight  color.RGBA
	Tick       color.RGBA
}

type styleKey struct {
	kind  markdown.Kind
	level int
}

// Theme maps element kinds to styles. Construct with New, Light or
// Dark; the map is never mutated afterwards.
type Theme struct {
	styles  map[styleKey]Style
	def     Style
	margins Margins
	palette Palette
	gen     uint64
}

// generation is the global snapshot counter. Each constructed Theme
// takes the next value, so any swap is observable through Generation.
var generation uint64

// New builds a theme from a palette with the standard kind table.
// Heading sizes follow the scale ladder of the base text size.
func New(p Palette) *Theme {
	base := Style{
		Font:       FontProportional,
		Size:       14,
		LineHeight: 1.0,
		Fg:         p.Text,
	}

	t := &Theme{
		styles:  make(map[styleKey]Style),
		def:     base,
		palette: p,
		gen:     atomic.AddUint64(&generation, 1),
		margins: Margins{
			ParagraphTop:   10,
			HeadingTop:     14,
			ListTop:        10,
			ListIndent:     24,
			ListMarkerGap:  6,
			QuoteBarWidth:  3,
			QuoteBarGap:    10,
			QuoteSide:      8,
			CodePadding:    8,
			RuleVertical:   12,
			RuleThickness:  2,
			ImageHeight:    120,
			CursorTickWide: 2,
		},
	}

	t.styles[styleKey{markdown.KindParagraph, 0}] = base

	// Heading scale ladder, matching the usual 2.125x .. 1x steps.
	scales := []float64{2.125, 1.875, 1.5, 1.25, 1.125, 1}
	for i, s := range scales {
		h := base
		h.Size = base.Size * s
		h.LineHeight = 1.2
		h.Bold = true
		t.styles[styleKey{markdown.KindHeading, i + 1}] = h
	}

	code := base
	code.Font = FontMono
	code.Fg = p.CodeText
	code.Bg = p.CodeBack
	t.styles[styleKey{markdown.KindCodeBlock, 0}] = code

	return t
}

// Light returns the built-in light theme.
func Light() *Theme {
	return New(Palette{
		Background: color.RGBA{0xff, 0xff, 0xea, 0xff},
		Text:       color.RGBA{0x11, 0x11, 0x11, 0xff},
		Dim:        color.RGBA{0x77, 0x77, 0x77, 0xff},
		Accent:     color.RGBA{0x88, 0x88, 0x4c, 0xff},
		Link:       color.RGBA{0x00, 0x00, 0xee, 0xff},
		CodeText:   color.RGBA{0x22, 0x22, 0x22, 0xff},
		CodeBack:   color.RGBA{0xe6, 0xe6, 0xe6, 0xff},
		QuoteBar:   color.RGBA{0xc8, 0xc8, 0xc8, 0xff},
		Rule:       color.RGBA{0xdd, 0xdd, 0xdd, 0xff},
		Highlight:  blendHighlight(color.RGBA{0xff, 0xff, 0xea, 0xff}, color.RGBA{0x88, 0x88, 0x4c, 0xff}),
		Tick:       color.RGBA{0x11, 0x11, 0x11, 0xff},
	})
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	return New(Palette{
		Background: color.RGBA{0x12, 0x12, 0x14, 0xff},
		Text:       color.RGBA{0xf0, 0xf0, 0xea, 0xff},
		Dim:        color.RGBA{0x99, 0x99, 0x99, 0xff},
		Accent:     color.RGBA{0x88, 0x88, 0x4c, 0xff},
		Link:       color.RGBA{0x66, 0x99, 0xff, 0xff},
		CodeText:   color.RGBA{0xee, 0xee, 0xf0, 0xff},
		CodeBack:   color.RGBA{0x1e, 0x1e, 0x22, 0xff},
		QuoteBar:   color.RGBA{0x44, 0x44, 0x48, 0xff},
		Rule:       color.RGBA{0x33, 0x33, 0x36, 0xff},
		Highlight:  blendHighlight(color.RGBA{0x12, 0x12, 0x14, 0xff}, color.RGBA{0x88, 0x88, 0x4c, 0xff}),
		Tick:       color.RGBA{0xf0, 0xf0, 0xea, 0xff},
	})
}

// Generation returns the snapshot counter value of this theme.
func (t *Theme) Generation() uint64 { return t.gen }

// Palette returns the theme's color set.
func (t *Theme) Palette() Palette { return t.palette }

// Margins returns the theme's layout insets.
func (t *Theme) Margins() Margins { return t.margins }

// Default returns the fallback style used when a kind has no entry.
func (t *Theme) Default() Style { return t.def }

// Style resolves the style for an element kind. level is the heading
// level for KindHeading and ignored otherwise. An unknown kind resolves
// to the default style; layout never fails on a missing entry.
func (t *Theme) Style(kind markdown.Kind, level int) Style {
	if kind != markdown.KindHeading {
		level = 0
	}
	if s, ok := t.styles[styleKey{kind, level}]; ok {
		return s
	}
	if kind == markdown.KindHeading {
		// Out-of-range heading levels clamp to H6 rather than falling
		// all the way back to body text.
		if s, ok := t.styles[styleKey{kind, 6}]; ok {
			return s
		}
	}
	return t.def
}

// RunStyle applies inline run flags and link status on top of the block
// style for one flattened run.
func (t *Theme) RunStyle(block Style, span markdown.SpanStyle, link bool) Style {
	s := block
	if span.Bold {
		s.Bold = true
	}
	if span.Italic {
		s.Italic = true
	}
	if span.Code {
		s.Font = FontMono
		s.Fg = t.palette.CodeText
		s.Bg = t.palette.CodeBack
	}
	if link {
		s.Fg = t.palette.Link
		s.Underline = true
	}
	return s
}
