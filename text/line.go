package text

import "unicode/utf8"

// Run is an item placed on a line together with its glyphs.
type Run struct {
	Item   *Item
	Glyphs *GlyphString
	// StartXOffset and EndXOffset are space added before and after the
	// glyphs, in visual order. The line breaker uses EndXOffset to cancel
	// the letter spacing after the last character of a line.
	StartXOffset int32
	EndXOffset   int32
	// YOffset moves the baseline of the run, growing down.
	YOffset int32
}

// Width returns the advance of the run.
func (r *Run) Width() int32 {
	return r.Glyphs.Width() + r.StartXOffset + r.EndXOffset
}

// Extents returns the ink and logical extents of the run relative to its
// origin on the line baseline.
func (r *Run) Extents() (ink, logical Rectangle) {
	ink, logical = r.Glyphs.Extents(r.Item.Analysis.Font)
	if ink.Width > 0 {
		ink.X += r.StartXOffset
		ink.Y += r.YOffset
	}
	logical.Y += r.YOffset
	logical.Width += r.StartXOffset + r.EndXOffset
	return ink, logical
}

func (r *Run) rtl() bool { return r.Item.Analysis.Level%2 == 1 }

// text returns the text of the run's item.
func (r *Run) text(text string) string { return text[r.Item.Offset:r.Item.End()] }

// Line is one line of a Layout.
type Line struct {
	// Runs are in visual order.
	Runs []*Run
	// Start and Length are the byte range of the line in the layout text.
	Start  int
	Length int
	// IsParagraphStart is set on the first line of a paragraph.
	IsParagraphStart bool
	// IsParagraphEnd is set on the line that holds the end of a
	// paragraph, including its delimiter.
	IsParagraphEnd bool
	// ResolvedDirection is the base direction of the line's paragraph.
	ResolvedDirection Direction
	// X is the left edge of the line and Baseline the y of its baseline,
	// relative to the top left corner of the layout.
	X        int32
	Baseline int32

	text       string
	empty      Rectangle
	ellipsized bool

	// Extents are computed on first use and kept until the glyphs change.
	hasExtents   bool
	ink, logical Rectangle
}

// End returns the byte offset just past the line.
func (l *Line) End() int { return l.Start + l.Length }

// Width returns the advance of the line.
func (l *Line) Width() int32 {
	var w int32
	for _, r := range l.Runs {
		w += r.Width()
	}
	return w
}

// IsEllipsized reports whether part of the line's text was replaced by an
// ellipsis.
func (l *Line) IsEllipsized() bool { return l.ellipsized }

// Extents returns the ink and logical extents of the line relative to its
// left edge on the baseline. A line without glyphs has the height of the
// layout font.
func (l *Line) Extents() (ink, logical Rectangle) {
	if !l.hasExtents {
		l.ink, l.logical = l.computeExtents()
		l.hasExtents = true
	}
	return l.ink, l.logical
}

// invalidateExtents drops the cached extents after the glyphs changed.
func (l *Line) invalidateExtents() { l.hasExtents = false }

func (l *Line) computeExtents() (ink, logical Rectangle) {
	if len(l.Runs) == 0 {
		return Rectangle{}, l.empty
	}
	var x int32
	for i, r := range l.Runs {
		rInk, rLog := r.Extents()
		rInk.X += x
		ink = unionRect(ink, rInk)
		if i == 0 {
			logical.Y, logical.Height = rLog.Y, rLog.Height
		} else {
			top := min(logical.Y, rLog.Y)
			bottom := max(logical.Y+logical.Height, rLog.Y+rLog.Height)
			logical.Y, logical.Height = top, bottom-top
		}
		x += rLog.Width
	}
	logical.Width = x
	return ink, logical
}

// runAt returns the run holding byte index and its x position.
func (l *Line) runAt(index int) (*Run, int32) {
	var x int32
	for _, r := range l.Runs {
		if index >= r.Item.Offset && index < r.Item.End() {
			return r, x
		}
		x += r.Width()
	}
	return nil, 0
}

// IndexToX returns the x position, relative to the left edge of the line,
// of the leading or trailing edge of the character at byte index. Indices
// outside the line map to its logical start or end.
func (l *Line) IndexToX(index int, trailing bool) int32 {
	if r, x := l.runAt(index); r != nil {
		return x + r.StartXOffset + r.Glyphs.IndexToX(r.text(l.text), r.rtl(), index-r.Item.Offset, trailing)
	}
	rtl := l.ResolvedDirection == DirectionRTL
	if atEnd := index >= l.End(); atEnd != rtl {
		return l.Width()
	}
	return 0
}

// XToIndex returns the byte index of the character at x, relative to the
// left edge of the line, and whether x is in its trailing half. inside is
// false when x is outside the line; the nearest edge character is
// returned then. Paragraph delimiters are never returned with trailing set.
func (l *Line) XToIndex(x int32) (index int, trailing, inside bool) {
	if len(l.Runs) == 0 {
		return l.Start, false, false
	}
	inside = x >= 0 && x < l.Width()
	var pos int32
	for i, r := range l.Runs {
		w := r.Width()
		if x < pos+w || i == len(l.Runs)-1 {
			idx, tr := r.Glyphs.XToIndex(r.text(l.text), r.rtl(), x-pos-r.StartXOffset)
			index = r.Item.Offset + idx
			if tr && isDelimiter(runeAt(l.text, index)) {
				tr = false
			}
			return index, tr, inside
		}
		pos += w
	}
	return l.Start, false, inside
}

// isDelimiter reports whether r ends a paragraph.
func isDelimiter(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2029'
}

// contentEnd returns the end of the line without its paragraph delimiter.
func (l *Line) contentEnd() int {
	end := l.End()
	for end > l.Start {
		r, size := utf8.DecodeLastRuneInString(l.text[:end])
		if !isDelimiter(r) {
			break
		}
		end -= size
	}
	return end
}
