// Package paint turns a laid-out document into an ordered scene of
// draw ops. Painting never mutates the visual cache; a stale entry is
// logged and drawn as-is rather than recomputed, since layout owns the
// cache's contents.
package paint

import (
	"fmt"
	"log"

	"github.com/markview/markview/layout"
	"github.com/markview/markview/markdown"
	"github.com/markview/markview/scene"
	"github.com/markview/markview/selection"
	"github.com/markview/markview/theme"
	"github.com/markview/markview/typeset"
	"github.com/markview/markview/vis"
)

// Paint emits the scene for the part of the document intersecting
// view, with sel highlighted. view is in document coordinates; a
// scrolling host translates the ops itself.
func Paint(doc *markdown.Document, cache *vis.Tree, ctx *layout.Context, sel selection.Range, view scene.Rect) *scene.Scene {
	p := &painter{
		doc:   doc,
		cache: cache,
		ctx:   ctx,
		gen:   ctx.Theme.Generation(),
		pal:   ctx.Theme.Palette(),
		m:     ctx.Theme.Margins(),
		sel:   sel,
		view:  view,
		s:     &scene.Scene{},
	}
	p.s.Append(scene.FillRect{Rect: view, Color: p.pal.Background})
	p.s.Append(scene.PushClip{Rect: view})
	p.node(doc.Root(), scene.Point{})
	p.s.Append(scene.PopClip{})
	return p.s
}

type painter struct {
	doc   *markdown.Document
	cache *vis.Tree
	ctx   *layout.Context
	gen   uint64
	pal   theme.Palette
	m     theme.Margins
	sel   selection.Range
	view  scene.Rect
	s     *scene.Scene
}

// node paints id's box with its top-left at origin.
func (p *painter) node(id markdown.NodeID, origin scene.Point) {
	vn := p.cache.Node(id)
	if vn == nil || vn.WidthValidFor <= 0 {
		log.Printf("paint: no visual entry for %v node %d, skipping",
			p.doc.Node(id).Kind, id)
		return
	}
	if vn.ThemeGen != p.gen {
		// Painting never triggers relayout; a stale entry is drawn
		// as-is and the host is expected to schedule a layout pass.
		log.Printf("paint: stale visual entry for %v node %d",
			p.doc.Node(id).Kind, id)
	}
	if origin.Y > p.view.Max.Y || origin.Y+vn.Height < p.view.Min.Y {
		return
	}

	n := p.doc.Node(id)
	content := origin.Add(scene.Point{X: vn.LeftInset, Y: vn.TopInset})

	switch n.Kind {
	case markdown.KindParagraph, markdown.KindHeading:
		p.text(id, n, vn, content)

	case markdown.KindCodeBlock:
		st := p.ctx.Theme.Style(n.Kind, 0)
		box := scene.R(origin.X, origin.Y, origin.X+vn.WidthValidFor, origin.Y+vn.Height)
		p.s.Append(scene.FillRect{Rect: box, Color: st.Bg})
		p.text(id, n, vn, content)

	case markdown.KindRule:
		y := origin.Y + p.m.RuleVertical + p.m.RuleThickness/2
		p.s.Append(scene.StrokeLine{
			From:  scene.Point{X: origin.X, Y: y},
			To:    scene.Point{X: origin.X + vn.WidthValidFor, Y: y},
			Width: p.m.RuleThickness,
			Color: p.pal.Rule,
		})

	case markdown.KindImage:
		box := scene.R(origin.X, origin.Y, origin.X+vn.WidthValidFor, origin.Y+vn.Height)
		p.ctx.SVG.DrawIcon(p.s, box, n.Href)

	case markdown.KindBlockquote:
		bar := scene.R(origin.X, origin.Y, origin.X+p.m.QuoteBarWidth, origin.Y+vn.Height)
		p.s.Append(scene.FillRect{Rect: bar, Color: p.pal.QuoteBar})
		p.children(id, vn, content)

	case markdown.KindList:
		p.children(id, vn, content)

	case markdown.KindListItem:
		parent := p.doc.Node(n.Parent)
		p.marker(parent, int(vn.OrderIndex), origin)
		p.children(id, vn, content)

	default:
		p.children(id, vn, content)
	}
}

func (p *painter) children(id markdown.NodeID, vn *vis.Node, content scene.Point) {
	for i, c := range p.doc.Children(id) {
		if i >= len(vn.ChildOffsets) {
			break
		}
		p.node(c, content.Add(scene.Point{Y: vn.ChildOffsets[i]}))
	}
}

// marker paints a list item's bullet or number in the indent gutter.
func (p *painter) marker(list *markdown.Node, index int, origin scene.Point) {
	st := p.ctx.Theme.Default()
	if list.Ordered {
		start := list.Start
		if start == 0 {
			start = 1
		}
		label := fmt.Sprintf("%d.", start+index)
		text, err := p.ctx.Type.Measure([]typeset.Run{{Text: label, Style: st}}, 1e6)
		if err != nil || len(text.Lines) == 0 {
			return
		}
		ln := text.Lines[0]
		p.s.Append(scene.TextRun{
			Origin: scene.Point{
				X: origin.X + p.m.ListIndent - p.m.ListMarkerGap - ln.Width,
				Y: origin.Y + ln.Ascent,
			},
			Text:  label,
			Size:  st.Size,
			Color: p.pal.Dim,
		})
		return
	}
	d := st.Size * 0.4
	cx := origin.X + p.m.ListIndent - p.m.ListMarkerGap - d
	cy := origin.Y + st.Size*0.5
	p.ctx.SVG.DrawGlyph(p.s, scene.R(cx, cy-d/2, cx+d, cy+d/2), "bullet")
}

// text paints a block's wrapped lines with selection underneath.
func (p *painter) text(id markdown.NodeID, n *markdown.Node, vn *vis.Node, origin scene.Point) {
	text := vn.Text
	if text == nil {
		log.Printf("paint: missing wrapped text for %v node %d", n.Kind, id)
		return
	}

	p.highlight(id, text, origin)

	for li := range text.Lines {
		ln := &text.Lines[li]
		y := origin.Y + ln.Y
		if y > p.view.Max.Y || y+ln.Height < p.view.Min.Y {
			continue
		}
		baseline := y + ln.Ascent
		for _, r := range ln.Runs {
			w := 0.0
			for _, a := range r.Advances {
				w += a
			}
			if r.Style.Bg.A != 0 && n.Kind != markdown.KindCodeBlock {
				p.s.Append(scene.FillRect{
					Rect:  scene.R(origin.X+r.X, y, origin.X+r.X+w, y+ln.Height),
					Color: r.Style.Bg,
				})
			}
			p.s.Append(scene.TextRun{
				Origin: scene.Point{X: origin.X + r.X, Y: baseline},
				Text:   r.Text,
				Size:   r.Style.Size,
				Mono:   r.Style.Font == theme.FontMono,
				Bold:   r.Style.Bold,
				Italic: r.Style.Italic,
				Color:  r.Style.Fg,
			})
			if r.Style.Underline {
				uy := baseline + 2
				p.s.Append(scene.Underline{
					From:  scene.Point{X: origin.X + r.X, Y: uy},
					To:    scene.Point{X: origin.X + r.X + w, Y: uy},
					Color: r.Style.Fg,
				})
			}
		}
	}
}

// highlight paints the selection over one block: filled line bands for
// a real range, a caret tick for an empty one.
func (p *painter) highlight(id markdown.NodeID, text *typeset.Text, origin scene.Point) {
	if p.sel.Empty() {
		if p.sel.Start.Node != id {
			return
		}
		li, x := text.PosOf(p.sel.Start.Offset)
		if li < 0 || li >= len(text.Lines) {
			return
		}
		ln := &text.Lines[li]
		p.s.Append(scene.FillRect{
			Rect: scene.R(origin.X+x, origin.Y+ln.Y,
				origin.X+x+p.m.CursorTickWide, origin.Y+ln.Y+ln.Height),
			Color: p.pal.Tick,
		})
		return
	}

	if id < p.sel.Start.Node || id > p.sel.End.Node {
		return
	}
	start := 0
	if id == p.sel.Start.Node {
		start = p.sel.Start.Offset
	}
	end := text.RuneCount()
	spansPast := id < p.sel.End.Node
	if id == p.sel.End.Node {
		end = p.sel.End.Offset
	}

	for li := range text.Lines {
		ln := &text.Lines[li]
		s, e := start, end
		if s < ln.Start {
			s = ln.Start
		}
		if e > ln.End {
			e = ln.End
		}
		if s >= e && !(s == e && ln.Start == ln.End) {
			continue
		}
		x0 := ln.XOf(s)
		x1 := ln.XOf(e)
		if e >= ln.End && (end > ln.End || spansPast) {
			// Selection continues past this line; cover the break.
			x1 = ln.Width
		}
		p.s.Append(scene.Highlight{
			Rect: scene.R(origin.X+x0, origin.Y+ln.Y,
				origin.X+x1, origin.Y+ln.Y+ln.Height),
			Color: p.pal.Highlight,
		})
	}
}
