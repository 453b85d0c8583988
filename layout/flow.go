package layout

import (
	"github.com/markview/markview/markdown"
	"github.com/markview/markview/scene"
	"github.com/markview/markview/vis"
)

// Origin returns the absolute top-left corner of id's box in document
// coordinates, derived from the cached child offsets on the path from
// the root. The second result is false when id or an ancestor has no
// cached entry.
func Origin(doc *markdown.Document, cache *vis.Tree, id markdown.NodeID) (scene.Point, bool) {
	var pt scene.Point
	for id != doc.Root() {
		parent := doc.Node(id).Parent
		if parent == markdown.NoNode {
			return scene.Point{}, false
		}
		pn := cache.Node(parent)
		if pn == nil {
			return scene.Point{}, false
		}
		idx := childIndex(doc, parent, id)
		if idx < 0 || idx >= len(pn.ChildOffsets) {
			return scene.Point{}, false
		}
		pt.X += pn.LeftInset
		pt.Y += pn.TopInset + pn.ChildOffsets[idx]
		id = parent
	}
	return pt, true
}

// Hit descends from the root to the deepest laid-out block containing
// the point, returning that block and the point translated into its
// content coordinates. Points above the first child or below the last
// clamp to the nearest child, so every point resolves to some block.
func Hit(doc *markdown.Document, cache *vis.Tree, pt scene.Point) (markdown.NodeID, scene.Point) {
	id := doc.Root()
	local := pt
	for {
		vn := cache.Node(id)
		if vn == nil {
			return id, local
		}
		local.X -= vn.LeftInset
		local.Y -= vn.TopInset
		children := doc.Children(id)
		if len(vn.ChildOffsets) == 0 || len(children) == 0 {
			return id, local
		}
		i := vn.ChildIndexAt(local.Y)
		if i < 0 {
			i = 0
		}
		if i >= len(children) {
			i = len(children) - 1
		}
		local.Y -= vn.ChildOffsets[i]
		id = children[i]
	}
}

func childIndex(doc *markdown.Document, parent, id markdown.NodeID) int {
	for i, c := range doc.Children(parent) {
		if c == id {
			return i
		}
	}
	return -1
}
