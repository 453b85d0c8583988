package selection

import (
	"github.com/rivo/uniseg"
)

// wordRange returns the word boundaries around p in its block's flat
// text. A double click inside an inline code span selects the whole
// span rather than a single word of it.
func (m *Machine) wordRange(p DocPos) (int, int) {
	if s, e, ok := m.codeSpanRange(p); ok {
		return s, e
	}

	text := m.doc.FlatText(p.Node)
	rest := text
	state := -1
	pos := 0
	for len(rest) > 0 {
		var seg string
		seg, rest, state = uniseg.FirstWordInString(rest, state)
		n := len([]rune(seg))
		if p.Offset < pos+n {
			return pos, pos + n
		}
		pos += n
	}
	// Offset at or past the end selects the final word.
	return lastWordStart(text), pos
}

func lastWordStart(text string) int {
	rest := text
	state := -1
	pos, last := 0, 0
	for len(rest) > 0 {
		var seg string
		seg, rest, state = uniseg.FirstWordInString(rest, state)
		last = pos
		pos += len([]rune(seg))
	}
	return last
}

// codeSpanRange reports the run bounds when p falls inside an inline
// code run.
func (m *Machine) codeSpanRange(p DocPos) (int, int, bool) {
	pos := 0
	for _, r := range m.doc.Runs(p.Node) {
		n := len([]rune(r.Text))
		if p.Offset >= pos && p.Offset < pos+n {
			if r.Span.Code {
				return pos, pos + n, true
			}
			return 0, 0, false
		}
		pos += n
	}
	return 0, 0, false
}
