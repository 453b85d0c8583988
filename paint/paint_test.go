package paint_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/markview/markview/layout"
	"github.com/markview/markview/markdown"
	"github.com/markview/markview/markviewtest"
	"github.com/markview/markview/paint"
	"github.com/markview/markview/scene"
	"github.com/markview/markview/selection"
	"github.com/markview/markview/theme"
	"github.com/markview/markview/vis"
)

type fixture struct {
	doc   *markdown.Document
	cache *vis.Tree
	ctx   *layout.Context
	svg   *markviewtest.SVG
	width float64
}

func newFixture(t *testing.T, src string, width float64) *fixture {
	t.Helper()
	doc, err := markdown.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	svg := markviewtest.NewSVG()
	ctx := &layout.Context{
		Type:  markviewtest.NewTypesetter(),
		SVG:   svg,
		Theme: theme.Light(),
	}
	cache := vis.NewTree(doc.Len())
	if _, err := layout.Layout(doc, cache, ctx, width); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return &fixture{doc: doc, cache: cache, ctx: ctx, svg: svg, width: width}
}

func (f *fixture) paint(sel selection.Range, view scene.Rect) []scene.Op {
	return paint.Paint(f.doc, f.cache, f.ctx, sel, view).Ops()
}

func fullView(f *fixture) scene.Rect {
	return scene.R(0, 0, f.width, 10000)
}

func TestPaintFrame(t *testing.T) {
	f := newFixture(t, "hi\n", 13*20)
	ops := f.paint(selection.Range{}, fullView(f))

	if len(ops) < 3 {
		t.Fatalf("only %d ops", len(ops))
	}
	bg, ok := ops[0].(scene.FillRect)
	if !ok || bg.Color != f.ctx.Theme.Palette().Background {
		t.Errorf("first op = %v, want background fill", markviewtest.Describe(ops[:1]))
	}
	if _, ok := ops[1].(scene.PushClip); !ok {
		t.Errorf("second op = %T, want PushClip", ops[1])
	}
	if _, ok := ops[len(ops)-1].(scene.PopClip); !ok {
		t.Errorf("last op = %T, want PopClip", ops[len(ops)-1])
	}
}

func TestPaintTextBaseline(t *testing.T) {
	f := newFixture(t, "hi\n", 13*20)
	ops := f.paint(selection.Range{}, fullView(f))

	runs := markviewtest.OfType[scene.TextRun](ops)
	if len(runs) != 1 {
		t.Fatalf("text runs = %d, want 1", len(runs))
	}
	if runs[0].Text != "hi" {
		t.Errorf("text = %q", runs[0].Text)
	}
	want := scene.Point{X: 0, Y: 8}
	if runs[0].Origin != want {
		t.Errorf("origin = %+v, want %+v", runs[0].Origin, want)
	}
}

func TestPaintSecondBlockOffset(t *testing.T) {
	f := newFixture(t, "one\n\ntwo\n", 13*20)
	ops := f.paint(selection.Range{}, fullView(f))

	runs := markviewtest.OfType[scene.TextRun](ops)
	if len(runs) != 2 {
		t.Fatalf("text runs = %d, want 2", len(runs))
	}
	// Second paragraph at y = 10 + margin 10, baseline +8.
	if runs[1].Origin.Y != 28 {
		t.Errorf("second baseline = %v, want 28", runs[1].Origin.Y)
	}
}

func TestPaintCodeBlock(t *testing.T) {
	f := newFixture(t, "```\nab\n```\n", 13*20)
	ops := f.paint(selection.Range{}, fullView(f))

	codeBg := f.ctx.Theme.Style(markdown.KindCodeBlock, 0).Bg
	var found bool
	for _, fr := range markviewtest.OfType[scene.FillRect](ops) {
		if fr.Color == codeBg {
			found = true
			if fr.Rect.Dy() != 10+2*8 {
				t.Errorf("code background height = %v, want 26", fr.Rect.Dy())
			}
		}
	}
	if !found {
		t.Error("no code background fill")
	}

	runs := markviewtest.OfType[scene.TextRun](ops)
	if len(runs) != 1 || !runs[0].Mono {
		t.Fatalf("code text runs = %v", runs)
	}
	// Padded by 8 on both axes, baseline +8 inside.
	want := scene.Point{X: 8, Y: 16}
	if runs[0].Origin != want {
		t.Errorf("code origin = %+v, want %+v", runs[0].Origin, want)
	}
}

func TestPaintRule(t *testing.T) {
	f := newFixture(t, "---\n", 13*20)
	ops := f.paint(selection.Range{}, fullView(f))

	lines := markviewtest.OfType[scene.StrokeLine](ops)
	if len(lines) != 1 {
		t.Fatalf("stroke lines = %d, want 1", len(lines))
	}
	m := f.ctx.Theme.Margins()
	wantY := m.RuleVertical + m.RuleThickness/2
	if lines[0].From.Y != wantY || lines[0].To.Y != wantY {
		t.Errorf("rule y = %v/%v, want %v", lines[0].From.Y, lines[0].To.Y, wantY)
	}
	if lines[0].To.X != f.width {
		t.Errorf("rule extends to %v, want %v", lines[0].To.X, f.width)
	}
}

func TestPaintBlockquoteBar(t *testing.T) {
	f := newFixture(t, "> quoted\n", 13*20)
	ops := f.paint(selection.Range{}, fullView(f))

	bar := f.ctx.Theme.Palette().QuoteBar
	var found bool
	for _, fr := range markviewtest.OfType[scene.FillRect](ops) {
		if fr.Color == bar {
			found = true
			if fr.Rect.Dx() != f.ctx.Theme.Margins().QuoteBarWidth {
				t.Errorf("bar width = %v", fr.Rect.Dx())
			}
		}
	}
	if !found {
		t.Error("no quote bar")
	}

	// Quoted text is inset past the bar and its gap.
	runs := markviewtest.OfType[scene.TextRun](ops)
	if len(runs) != 1 {
		t.Fatalf("text runs = %d", len(runs))
	}
	if runs[0].Origin.X != 13 {
		t.Errorf("quoted text x = %v, want 13", runs[0].Origin.X)
	}
}

func TestPaintBulletList(t *testing.T) {
	f := newFixture(t, "- item\n", 13*20)
	f.paint(selection.Range{}, fullView(f))

	var glyphs int
	for _, c := range f.svg.Calls {
		if c.Kind == "glyph" && c.Ref == "bullet" {
			glyphs++
		}
	}
	if glyphs != 1 {
		t.Errorf("bullet glyphs = %d, want 1", glyphs)
	}
}

func TestPaintOrderedListMarkers(t *testing.T) {
	f := newFixture(t, "3. three\n4. four\n", 13*20)
	ops := f.paint(selection.Range{}, fullView(f))

	var labels []string
	for _, r := range markviewtest.OfType[scene.TextRun](ops) {
		if r.Text == "3." || r.Text == "4." {
			labels = append(labels, r.Text)
		}
	}
	if diff := cmp.Diff([]string{"3.", "4."}, labels); diff != "" {
		t.Errorf("markers (-want +got):\n%s", diff)
	}
}

func TestPaintLinkUnderline(t *testing.T) {
	f := newFixture(t, "[docs](https://x.dev)\n", 13*20)
	ops := f.paint(selection.Range{}, fullView(f))

	ul := markviewtest.OfType[scene.Underline](ops)
	if len(ul) != 1 {
		t.Fatalf("underlines = %d, want 1", len(ul))
	}
	if ul[0].From.X != 0 || ul[0].To.X != 13*4 {
		t.Errorf("underline span = %v..%v, want 0..52", ul[0].From.X, ul[0].To.X)
	}
}

func TestPaintImageIcon(t *testing.T) {
	f := newFixture(t, "![alt](pic.svg)\n", 13*20)
	f.paint(selection.Range{}, fullView(f))

	var icons []markviewtest.SVGCall
	for _, c := range f.svg.Calls {
		if c.Kind == "icon" {
			icons = append(icons, c)
		}
	}
	if len(icons) != 1 || icons[0].Ref != "pic.svg" {
		t.Fatalf("icon calls = %+v", icons)
	}
	if icons[0].Box.Dy() != f.ctx.Theme.Margins().ImageHeight {
		t.Errorf("icon height = %v", icons[0].Box.Dy())
	}
}

func TestPaintSelectionHighlight(t *testing.T) {
	f := newFixture(t, "hello world\n", 13*20)
	para := f.doc.Children(f.doc.Root())[0]
	sel := selection.Range{
		Start: selection.DocPos{Node: para, Offset: 3},
		End:   selection.DocPos{Node: para, Offset: 10},
	}
	ops := f.paint(sel, fullView(f))

	hl := markviewtest.OfType[scene.Highlight](ops)
	if len(hl) != 1 {
		t.Fatalf("highlights = %d, want 1", len(hl))
	}
	want := scene.R(13*3, 0, 13*10, 10)
	if hl[0].Rect != want {
		t.Errorf("highlight = %+v, want %+v", hl[0].Rect, want)
	}
}

func TestPaintSelectionAcrossWrappedLines(t *testing.T) {
	// Lines [0,6) and [6,11); selecting everything highlights both,
	// with the first band extended over the line break.
	f := newFixture(t, "hello world\n", 13*8)
	para := f.doc.Children(f.doc.Root())[0]
	sel := selection.Range{
		Start: selection.DocPos{Node: para, Offset: 0},
		End:   selection.DocPos{Node: para, Offset: 11},
	}
	ops := f.paint(sel, fullView(f))

	hl := markviewtest.OfType[scene.Highlight](ops)
	if len(hl) != 2 {
		t.Fatalf("highlights = %d, want 2", len(hl))
	}
	if hl[0].Rect.Max.X != 13*6 {
		t.Errorf("first band right edge = %v, want %v", hl[0].Rect.Max.X, 13*6)
	}
	if hl[1].Rect.Min.Y != 10 || hl[1].Rect.Max.X != 13*5 {
		t.Errorf("second band = %+v", hl[1].Rect)
	}
}

func TestPaintCaretTick(t *testing.T) {
	f := newFixture(t, "hello\n", 13*20)
	para := f.doc.Children(f.doc.Root())[0]
	pos := selection.DocPos{Node: para, Offset: 3}
	ops := f.paint(selection.Range{Start: pos, End: pos}, fullView(f))

	tick := f.ctx.Theme.Palette().Tick
	var found bool
	for _, fr := range markviewtest.OfType[scene.FillRect](ops) {
		if fr.Color == tick && fr.Rect.Min.X == 13*3 {
			found = true
			if fr.Rect.Dx() != f.ctx.Theme.Margins().CursorTickWide {
				t.Errorf("tick width = %v", fr.Rect.Dx())
			}
		}
	}
	if !found {
		t.Error("no caret tick painted")
	}
}

func TestPaintCullsOutsideView(t *testing.T) {
	f := newFixture(t, "one\n\ntwo\n", 13*20)

	// A view covering only the first paragraph.
	ops := f.paint(selection.Range{}, scene.R(0, 0, f.width, 9))
	texts := markviewtest.Texts(ops)
	if diff := cmp.Diff([]string{"one"}, texts); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}

	// A view covering only the second.
	ops = f.paint(selection.Range{}, scene.R(0, 21, f.width, 40))
	texts = markviewtest.Texts(ops)
	if diff := cmp.Diff([]string{"two"}, texts); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
}

func TestPaintAfterDropAndRelayout(t *testing.T) {
	f := newFixture(t, "one\n\ntwo\n", 13*20)
	second := f.doc.Children(f.doc.Root())[1]
	f.cache.Drop(second)

	// Between the drop and the next layout pass there is nothing
	// cached to draw for the block; paint never relayouts on its own.
	ops := f.paint(selection.Range{}, fullView(f))
	if diff := cmp.Diff([]string{"one"}, markviewtest.Texts(ops)); diff != "" {
		t.Errorf("dropped block painted before relayout (-want +got):\n%s", diff)
	}

	// The next pass rebuilds the dropped entry and the block returns.
	if _, err := layout.Layout(f.doc, f.cache, f.ctx, f.width); err != nil {
		t.Fatalf("relayout: %v", err)
	}
	ops = f.paint(selection.Range{}, fullView(f))
	if diff := cmp.Diff([]string{"one", "two"}, markviewtest.Texts(ops)); diff != "" {
		t.Errorf("texts after relayout (-want +got):\n%s", diff)
	}
}
