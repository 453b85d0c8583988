package typeset

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/markview/markview/theme"
)

// GoTypesetter is the production Typesetter, built on the Go fonts
// shipped with golang.org/x/image. Faces are created lazily per
// (class, weight, slant, size) and cached for the typesetter's
// lifetime. Not safe for concurrent use; layout passes are
// single-threaded by contract.
type GoTypesetter struct {
	fonts    map[faceClass]*opentype.Font
	faces    map[faceKey]font.Face
	tabWidth int
	dpi      float64
}

type faceClass struct {
	mono, bold, italic bool
}

type faceKey struct {
	class faceClass
	size  float64
}

// GoOption configures a GoTypesetter.
type GoOption func(*GoTypesetter)

// WithTabWidth sets how many space widths a tab advances. Default 4.
func WithTabWidth(n int) GoOption {
	return func(t *GoTypesetter) {
		if n > 0 {
			t.tabWidth = n
		}
	}
}

// WithDPI sets the rasterization density faces are opened at.
// Default 72, which makes advance units equal to points.
func WithDPI(dpi float64) GoOption {
	return func(t *GoTypesetter) {
		if dpi > 0 {
			t.dpi = dpi
		}
	}
}

// NewGoTypesetter parses the embedded Go fonts and returns a ready
// typesetter.
func NewGoTypesetter(opts ...GoOption) (*GoTypesetter, error) {
	t := &GoTypesetter{
		fonts:    make(map[faceClass]*opentype.Font),
		faces:    make(map[faceKey]font.Face),
		tabWidth: 4,
		dpi:      72,
	}
	for _, o := range opts {
		o(t)
	}

	sources := []struct {
		class faceClass
		data  []byte
	}{
		{faceClass{}, goregular.TTF},
		{faceClass{bold: true}, gobold.TTF},
		{faceClass{italic: true}, goitalic.TTF},
		{faceClass{bold: true, italic: true}, gobolditalic.TTF},
		{faceClass{mono: true}, gomono.TTF},
	}
	for _, src := range sources {
		f, err := opentype.Parse(src.data)
		if err != nil {
			return nil, fmt.Errorf("typeset: parse embedded font: %w", err)
		}
		t.fonts[src.class] = f
	}
	return t, nil
}

// Measure implements Typesetter.
func (t *GoTypesetter) Measure(runs []Run, maxWidth float64) (*Text, error) {
	if maxWidth <= 0 {
		return nil, fmt.Errorf("typeset: non-positive wrap width %v", maxWidth)
	}
	return Wrap(runs, maxWidth, t), nil
}

// Advance implements FaceMetrics.
func (t *GoTypesetter) Advance(st theme.Style, s string) float64 {
	face := t.face(st)
	if n := strings.Count(s, "\t"); n > 0 {
		space := fixedToFloat(font.MeasureString(face, " "))
		s = strings.ReplaceAll(s, "\t", "")
		return fixedToFloat(font.MeasureString(face, s)) +
			space*float64(t.tabWidth)*float64(n)
	}
	return fixedToFloat(font.MeasureString(face, s))
}

// LineMetrics implements FaceMetrics.
func (t *GoTypesetter) LineMetrics(st theme.Style) (ascent, height float64) {
	m := t.face(st).Metrics()
	ascent = fixedToFloat(m.Ascent)
	height = fixedToFloat(m.Height)
	lh := st.LineHeight
	if lh <= 0 {
		lh = 1.0
	}
	return ascent, height * lh
}

func (t *GoTypesetter) face(st theme.Style) font.Face {
	class := faceClass{
		mono:   st.Font == theme.FontMono,
		bold:   st.Bold,
		italic: st.Italic,
	}
	if class.mono {
		// gomono has no bold/italic companions embedded; the mono
		// class always resolves to the single mono face.
		class.bold = false
		class.italic = false
	}
	size := st.Size
	if size <= 0 {
		size = 14
	}
	key := faceKey{class, size}
	if f, ok := t.faces[key]; ok {
		return f
	}
	src, ok := t.fonts[class]
	if !ok {
		src = t.fonts[faceClass{}]
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     t.dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Face creation from a parsed font only fails on bad options.
		f, _ = opentype.NewFace(t.fonts[faceClass{}], &opentype.FaceOptions{
			Size: 14,
			DPI:  72,
		})
	}
	t.faces[key] = f
	return f
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
