package theme

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// blendHighlight derives the selection highlight color by pulling the
// background partway toward the accent in HCL space. Blending in HCL
// keeps the result legible on both light and dark backgrounds, where a
// plain RGB lerp tends to go muddy.
func blendHighlight(bg, accent color.RGBA) color.RGBA {
	b, okb := colorful.MakeColor(bg)
	a, oka := colorful.MakeColor(accent)
	if !okb || !oka {
		return bg
	}
	m := b.BlendHcl(a, 0.35).Clamped()
	r, g, bl := m.RGB255()
	return color.RGBA{r, g, bl, 0xff}
}
