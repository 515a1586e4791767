package text

import (
	"cmp"
	"math"
	"slices"
)

// CursorPos returns the strong and weak cursors for the insertion point at
// byte index, relative to the top left corner of the layout. The strong
// cursor is where text of the paragraph direction would be inserted and
// the weak cursor where text of the other direction would be. Both have
// zero width and the height of the line.
func (l *Layout) CursorPos(index int) (strong, weak Rectangle) {
	index = l.clampIndex(index)
	line := l.Lines()[l.lineIndex(index)]
	top, height := lineTop(line)
	strong = Rectangle{X: line.X + l.cursorX(line, index, true), Y: top, Height: height}
	weak = Rectangle{X: line.X + l.cursorX(line, index, false), Y: top, Height: height}
	return strong, weak
}

// cursorX returns the x of the strong or weak cursor at index, relative to
// the left edge of line. index may be the end of line even when that
// position belongs to the next line.
func (l *Layout) cursorX(line *Line, index int, strong bool) int32 {
	base := line.ResolvedDirection
	var x1 int32
	dir1 := base
	if index == line.Start {
		if base == DirectionRTL {
			x1 = line.Width()
		}
	} else {
		prev := l.prevCursor(index)
		x1 = line.IndexToX(prev, true)
		dir1 = runDirection(line, prev)
	}
	if (dir1 == base) == strong {
		return x1
	}
	return line.IndexToX(index, false)
}

// runDirection returns the direction of the run holding byte index, or the
// line direction when there is none.
func runDirection(line *Line, index int) Direction {
	if r, _ := line.runAt(index); r != nil {
		if r.rtl() {
			return DirectionRTL
		}
		return DirectionLTR
	}
	return line.ResolvedDirection
}

// prevCursor returns the cursor position before byte index, or 0.
func (l *Layout) prevCursor(index int) int {
	l.ensure()
	i := l.charAt(index)
	for i--; i > 0 && !l.logAttrs[i].IsCursorPosition; i-- {
	}
	return l.runeOffsets[max(i, 0)]
}

// nextCursor returns the cursor position after byte index, or the end of
// the text.
func (l *Layout) nextCursor(index int) int {
	l.ensure()
	n := len(l.logAttrs) - 1
	i := l.charAt(index)
	for i++; i < n && !l.logAttrs[i].IsCursorPosition; i++ {
	}
	return l.runeOffsets[min(i, n)]
}

// cursorStop is a cursor position of a line with its x.
type cursorStop struct {
	index int
	x     int32
}

// MoveCursorVisually moves the cursor at byte index, after the character
// there when trailing is set, one position left (direction < 0) or right
// (direction > 0) on the screen. strong selects which of the two cursors
// of a position between runs of different direction is followed.
//
// The result is -1 when moving before the start of the layout and
// math.MaxInt when moving past its end. A position at the end of a wrapped
// line is returned as the preceding cursor position with trailing set, to
// tell it from the start of the next line.
func (l *Layout) MoveCursorVisually(strong bool, index int, trailing bool, direction int) (newIndex int, newTrailing bool) {
	lines := l.Lines()
	index = l.clampIndex(index)
	pos := index
	if trailing {
		pos = l.nextCursor(index)
	}
	k := l.lineIndex(pos)
	if trailing && k > 0 && pos == lines[k].Start && lines[k-1].End() == pos {
		k--
	}
	line := lines[k]

	stops := l.cursorStops(line, strong)
	cur := slices.IndexFunc(stops, func(s cursorStop) bool { return s.index == pos })
	if cur < 0 {
		cur = 0
	}
	step := 1
	if direction < 0 {
		step = -1
	}
	next := cur + step
	for next >= 0 && next < len(stops) && stops[next].x == stops[cur].x {
		next += step
	}
	if next >= 0 && next < len(stops) {
		return l.cursorResult(line, stops[next].index)
	}

	forward := (step > 0) != (line.ResolvedDirection == DirectionRTL)
	switch {
	case forward && k+1 < len(lines):
		return l.cursorResult(lines[k+1], lines[k+1].Start)
	case forward:
		return math.MaxInt, false
	case k > 0:
		return l.cursorResult(lines[k-1], lines[k-1].contentEnd())
	}
	return -1, false
}

// cursorStops returns the cursor positions of line sorted by x.
func (l *Layout) cursorStops(line *Line, strong bool) []cursorStop {
	end := line.contentEnd()
	var stops []cursorStop
	for i := l.charAt(line.Start); i < len(l.runeOffsets) && l.runeOffsets[i] <= end; i++ {
		if !l.logAttrs[i].IsCursorPosition {
			continue
		}
		idx := l.runeOffsets[i]
		stops = append(stops, cursorStop{index: idx, x: l.cursorX(line, idx, strong)})
	}
	slices.SortStableFunc(stops, func(a, b cursorStop) int { return cmp.Compare(a.x, b.x) })
	return stops
}

// cursorResult encodes the cursor position pos of line.
func (l *Layout) cursorResult(line *Line, pos int) (int, bool) {
	if pos == line.End() && pos > line.Start && !line.IsParagraphEnd {
		return l.prevCursor(pos), true
	}
	return pos, false
}
