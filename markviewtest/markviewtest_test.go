package markviewtest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/markview/markview/scene"
	"github.com/markview/markview/theme"
	"github.com/markview/markview/typeset"
)

func TestFixedMetrics(t *testing.T) {
	ts := NewTypesetter()
	st := theme.Light().Default()
	if got := ts.Advance(st, "abc"); got != 3*GlyphWidth {
		t.Errorf("Advance = %v, want %v", got, 3*GlyphWidth)
	}
	a, h := ts.LineMetrics(st)
	if a != GlyphAscent || h != GlyphHeight {
		t.Errorf("LineMetrics = %v/%v", a, h)
	}

	// Style must not influence the fixed metrics.
	big := st
	big.Size = 99
	if ts.Advance(big, "x") != ts.Advance(st, "x") {
		t.Error("Advance varies with style")
	}
}

func TestRecordingSVG(t *testing.T) {
	r := NewSVG()
	var s scene.Scene
	box := scene.R(1, 2, 3, 4)
	r.DrawGlyph(&s, box, "bullet")
	r.DrawIcon(&s, box, "pic.svg")

	want := []SVGCall{
		{Kind: "glyph", Box: box, Ref: "bullet"},
		{Kind: "icon", Box: box, Ref: "pic.svg"},
	}
	if diff := cmp.Diff(want, r.Calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	if got := len(s.Ops()); got != 2 {
		t.Errorf("scene ops = %d, want 2", got)
	}
}

func TestDescribe(t *testing.T) {
	ops := []scene.Op{
		scene.TextRun{Origin: scene.Point{X: 1, Y: 8}, Text: "hi", Size: 14, Bold: true},
		scene.PopClip{},
	}
	got := Describe(ops)
	want := []string{`text "hi" @(1,8) size=14 b`, "unclip"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Describe (-want +got):\n%s", diff)
	}
}

var _ typeset.Typesetter = (*Typesetter)(nil)
var _ typeset.FaceMetrics = (*Typesetter)(nil)
var _ scene.SVGRenderer = (*SVG)(nil)
