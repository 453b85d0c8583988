package typeset

import (
	"github.com/rivo/uniseg"

	"github.com/markview/markview/theme"
)

// FaceMetrics is the measurement callback contract shared by every
// Typesetter implementation. Wrap drives the greedy line breaker
// through it, so implementations only supply metrics.
type FaceMetrics interface {
	// Advance returns the advance width of s set in st.
	Advance(st theme.Style, s string) float64

	// LineMetrics returns the ascent and total line height for st,
	// after the style's line-height multiple is applied.
	LineMetrics(st theme.Style) (ascent, height float64)
}

// Wrap breaks styled runs into lines no wider than maxWidth using
// greedy fill on word boundaries. Explicit newlines always break.
// A single word wider than maxWidth is split between runes rather
// than overflowing. Whitespace never triggers a wrap; a trailing
// space may overhang the right edge.
func Wrap(runs []Run, maxWidth float64, fm FaceMetrics) *Text {
	t := &Text{}
	if len(runs) == 0 {
		return t
	}

	b := wrapper{fm: fm, max: maxWidth, text: t}
	for _, run := range runs {
		b.addRun(run)
	}
	b.flushLine(true)

	// Assign Y positions now that every line knows its height.
	y := 0.0
	for i := range t.Lines {
		t.Lines[i].Y = y
		y += t.Lines[i].Height
		if t.Lines[i].Width > t.Width {
			t.Width = t.Lines[i].Width
		}
	}
	t.Height = y
	return t
}

type wrapper struct {
	fm   FaceMetrics
	max  float64
	text *Text

	line    Line
	x       float64
	offset  int  // next rune offset in the flat text
	content bool // line has any segment, even an empty one
}

func (b *wrapper) addRun(run Run) {
	rest := run.Text
	state := -1
	for len(rest) > 0 {
		var seg string
		seg, rest, state = uniseg.FirstWordInString(rest, state)
		b.addSegment(seg, run.Style)
	}
	// A run with no text still contributes its line metrics, so an
	// empty paragraph gets a line with cursor geometry.
	if run.Text == "" {
		b.touchMetrics(run.Style)
		b.content = true
	}
}

// addSegment places one word segment, breaking the line first when the
// segment would not fit and is not whitespace.
func (b *wrapper) addSegment(seg string, st theme.Style) {
	if seg == "\n" || seg == "\r\n" || seg == "\r" {
		b.touchMetrics(st)
		// The break owns its rune positions, one per rune, so offsets
		// in the flat text stay addressable across CRLF sources.
		b.offset += len([]rune(seg))
		b.line.End = b.offset
		b.flushLine(false)
		return
	}

	w := b.fm.Advance(st, seg)
	if b.x > 0 && b.x+w > b.max && !isSpaceSegment(seg) {
		b.flushLine(false)
	}
	if w > b.max && !isSpaceSegment(seg) {
		b.addOverlongWord(seg, st)
		return
	}
	b.place(seg, st)
}

// addOverlongWord splits a word wider than the wrap width between
// runes, filling each line as far as it goes.
func (b *wrapper) addOverlongWord(seg string, st theme.Style) {
	var chunk []rune
	chunkW := 0.0
	for _, r := range seg {
		rw := b.fm.Advance(st, string(r))
		if len(chunk) > 0 && b.x+chunkW+rw > b.max {
			b.place(string(chunk), st)
			b.flushLine(false)
			chunk = chunk[:0]
			chunkW = 0
		}
		chunk = append(chunk, r)
		chunkW += rw
	}
	if len(chunk) > 0 {
		b.place(string(chunk), st)
	}
}

// place appends a segment to the current line, merging into the last
// line run when the style continues.
func (b *wrapper) place(seg string, st theme.Style) {
	b.touchMetrics(st)
	b.content = true

	runes := []rune(seg)
	advances := make([]float64, len(runes))
	for i, r := range runes {
		advances[i] = b.fm.Advance(st, string(r))
	}

	n := len(b.line.Runs)
	if n > 0 && b.line.Runs[n-1].Style == st && b.line.Runs[n-1].End == b.offset {
		lr := &b.line.Runs[n-1]
		lr.Text += seg
		lr.End += len(runes)
		lr.Advances = append(lr.Advances, advances...)
	} else {
		b.line.Runs = append(b.line.Runs, LineRun{
			Start:    b.offset,
			End:      b.offset + len(runes),
			X:        b.x,
			Text:     seg,
			Style:    st,
			Advances: advances,
		})
	}

	for _, a := range advances {
		b.x += a
	}
	b.offset += len(runes)
	b.line.End = b.offset
	if b.x > b.line.Width {
		b.line.Width = b.x
	}
}

// touchMetrics folds a style's line metrics into the current line.
func (b *wrapper) touchMetrics(st theme.Style) {
	a, h := b.fm.LineMetrics(st)
	if a > b.line.Ascent {
		b.line.Ascent = a
	}
	if h > b.line.Height {
		b.line.Height = h
	}
}

// flushLine closes the current line. When final is true an empty
// trailing line is dropped unless it is the only line.
func (b *wrapper) flushLine(final bool) {
	if final && !b.content && len(b.text.Lines) > 0 {
		return
	}
	b.line.End = b.offset
	b.text.Lines = append(b.text.Lines, b.line)
	b.line = Line{Start: b.offset, End: b.offset}
	b.x = 0
	b.content = false
}

func isSpaceSegment(seg string) bool {
	for _, r := range seg {
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return len(seg) > 0
}
