package text

import (
	"slices"
	"sort"
	"unicode/utf8"

	"github.com/gogpu/textlayout"
)

// TabArray holds tab stop positions in units of 1/Scale pixels, relative to
// the start of a line. Past the last stop, stops repeat at the distance
// between the last two, or at multiples of the only one.
type TabArray struct {
	Positions []int32
}

// NewTabArray returns a TabArray with the given ascending positions.
func NewTabArray(positions ...int32) *TabArray {
	p := slices.Clone(positions)
	slices.Sort(p)
	return &TabArray{Positions: p}
}

// next returns the first tab stop after x. step is the distance between
// default stops.
func (t *TabArray) next(x, step int32) int32 {
	if t != nil && len(t.Positions) > 0 {
		i := sort.Search(len(t.Positions), func(i int) bool { return t.Positions[i] > x })
		if i < len(t.Positions) {
			return t.Positions[i]
		}
		last := t.Positions[len(t.Positions)-1]
		if len(t.Positions) > 1 {
			step = last - t.Positions[len(t.Positions)-2]
		} else if last > 0 {
			step = last
		}
		if step <= 0 {
			return x
		}
		return last + ((x-last)/step+1)*step
	}
	if step <= 0 {
		return x
	}
	return (x/step + 1) * step
}

// paragraph is a byte range of text. The delimiter occupies [end, next).
type paragraph struct {
	start, end, next int
}

// splitParagraphs cuts text at "\n", "\r\n", "\r" and U+2029. A text
// ending in a delimiter ends with an empty paragraph; an empty text is one
// empty paragraph.
func splitParagraphs(text string) []paragraph {
	var paras []paragraph
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isDelimiter(r) {
			i += size
			continue
		}
		next := i + size
		if r == '\r' && next < len(text) && text[next] == '\n' {
			next++
		}
		paras = append(paras, paragraph{start: start, end: i, next: next})
		start, i = next, next
	}
	return append(paras, paragraph{start: start, end: len(text), next: len(text)})
}

// lineBreaker breaks the items of one paragraph into lines.
type lineBreaker struct {
	l    *Layout
	text string
	dir  Direction

	runes []rune
	offs  []int // absolute byte offset of each rune, and of the end
	attrs []LogAttr
	// widths estimates the advance of every rune from the current shapes.
	widths     []int32
	contentEnd int // rune index of the delimiter

	runs  []*Run // not yet placed, in logical order
	split *pendingSplit

	tabStep    int32
	lineHeight int32
	ellipsized bool
	ellipses   map[Analysis]*GlyphString
}

func newLineBreaker(l *Layout, p paragraph, dir Direction, items []*Item) *lineBreaker {
	sub := l.text[p.start:p.next]
	b := &lineBreaker{
		l:     l,
		text:  l.text,
		dir:   dir,
		runes: []rune(sub),
	}
	b.offs = byteOffsets(sub, len(b.runes))
	for i := range b.offs {
		b.offs[i] += p.start
	}
	b.attrs = computeLogAttrs(b.runes)
	b.widths = make([]int32, len(b.runes))
	b.contentEnd = utf8.RuneCountInString(l.text[p.start:p.end])

	for _, it := range items {
		r := b.newRun(it)
		b.runs = append(b.runs, r)
		b.updateWidths(r)
		if f := it.Analysis.Font; f != nil {
			m := f.Metrics()
			b.lineHeight = max(b.lineHeight, m.Ascent+m.Descent)
		}
		if b.tabStep == 0 && it.Analysis.Font != nil {
			b.tabStep = 8 * Shape(l.ctx, " ", &it.Analysis).Width()
		}
	}
	if b.lineHeight == 0 {
		b.lineHeight = l.empty.Height
	}
	if b.tabStep == 0 {
		b.tabStep = 8 * noFontBoxWidth * Scale
	}
	return b
}

func (b *lineBreaker) newRun(it *Item) *Run {
	return &Run{
		Item:    it,
		Glyphs:  ShapeItem(b.l.ctx, b.text, it),
		YOffset: -it.Analysis.Extra.Rise,
	}
}

// charIndex returns the rune index of byte offset off.
func (b *lineBreaker) charIndex(off int) int {
	i, _ := slices.BinarySearch(b.offs, off)
	return i
}

// updateWidths refreshes the width estimates of the runes of r.
func (b *lineBreaker) updateWidths(r *Run) {
	first := b.charIndex(r.Item.Offset)
	copy(b.widths[first:], r.Glyphs.LogicalWidths(r.text(b.text)))
}

// breakLines places all runs of the paragraph on lines. lineY is the
// height of the layout above the paragraph, used by height limits.
func (b *lineBreaker) breakLines(lineY int32) []*Line {
	n := len(b.runes)
	var lines []*Line
	pos := 0
	for {
		first := pos == 0
		avail := b.available(first)
		var runs []*Run
		var end int
		if b.isLastLine(len(lines), lineY) {
			end, runs = n, b.runs
			b.runs = nil
		} else {
			end, runs = b.nextLine(pos, avail)
		}

		line := &Line{
			Start:             b.offs[pos],
			Length:            b.offs[end] - b.offs[pos],
			IsParagraphStart:  first,
			IsParagraphEnd:    end == n,
			ResolvedDirection: b.dir,
			text:              b.text,
			empty:             b.l.empty,
		}
		b.placeTabs(runs)
		if avail >= 0 && b.l.ellipsize != EllipsizeNone && runsWidth(runs) > avail {
			runs = b.ellipsize(runs, pos, min(end, b.contentEnd), avail)
			line.ellipsized = true
			b.ellipsized = true
		}
		trimLetterSpacing(runs)
		line.Runs = ReorderItems(runs, func(r *Run) uint8 { return r.Item.Analysis.Level })
		lines = append(lines, line)

		_, logical := line.Extents()
		lineY += logical.Height + b.l.spacing
		if end >= n {
			return lines
		}
		pos = end
	}
}

// available returns the width for a line, or -1 when lines do not wrap.
func (b *lineBreaker) available(first bool) int32 {
	w := b.l.width
	if w < 0 {
		return -1
	}
	switch indent := b.l.indent; {
	case first && indent > 0:
		w -= indent
	case !first && indent < 0:
		w += indent
	}
	return max(w, 0)
}

// isLastLine reports whether the next line of the paragraph must take all
// remaining text because of the height limit of an ellipsizing layout.
func (b *lineBreaker) isLastLine(index int, lineY int32) bool {
	l := b.l
	if l.ellipsize == EllipsizeNone || l.width < 0 {
		return false
	}
	if l.height < 0 {
		return index+1 >= int(-l.height)
	}
	return lineY+2*b.lineHeight+l.spacing > l.height
}

// nextLine chooses the end of the line starting at rune pos and takes its
// runs. Candidates are tried from the most preferred; a candidate whose
// shaped line does not fit is retracted unless it is the last one.
func (b *lineBreaker) nextLine(pos int, avail int32) (int, []*Run) {
	cands := b.breakCandidates(pos, avail)
	for k, c := range cands {
		runs, undo := b.takeRuns(c)
		if k == len(cands)-1 || b.fits(runs, c, avail) {
			b.commit()
			return c, runs
		}
		textlayout.Logger().Debug("retracting line break", "at", b.offs[c])
		undo()
	}
	panic("text: no line break candidate")
}

// breakCandidates returns the possible ends of the line starting at rune
// pos, most preferred first. The last candidate is always acceptable.
func (b *lineBreaker) breakCandidates(pos int, avail int32) []int {
	n := len(b.runes)
	limit := b.contentEnd
	for i := pos + 1; i < b.contentEnd; i++ {
		if b.attrs[i].IsMandatoryBreak {
			limit = i
			break
		}
	}
	endAt := func(i int) int {
		if i == b.contentEnd {
			return n
		}
		return i
	}
	if avail < 0 {
		return []int{endAt(limit)}
	}

	var (
		x, white     int32
		words, chars []int
		overflow     bool
	)
	firstWord, firstCh := -1, -1
	for i := pos; i < limit; i++ {
		if i > pos {
			fit := x - white
			if fit > avail {
				overflow = true
			}
			if b.attrs[i].IsLineBreak {
				if !overflow {
					words = append(words, i)
				} else if firstWord < 0 {
					firstWord = i
				}
			}
			if b.attrs[i].IsCharBreak {
				if !overflow {
					chars = append(chars, i)
				} else if firstCh < 0 {
					firstCh = i
				}
			}
			if overflow && firstWord >= 0 && firstCh >= 0 {
				break
			}
		}
		w := b.widths[i]
		if b.runes[i] == '\t' {
			w = b.l.tabs.next(x, b.tabStep) - x
		}
		x += w
		if b.attrs[i].IsWhite {
			white += w
		} else {
			white = 0
		}
	}
	if !overflow && x-white <= avail {
		return []int{endAt(limit)}
	}

	fallback := func(first int) int {
		if first >= 0 {
			return first
		}
		return endAt(limit)
	}
	var out []int
	switch b.l.wrap {
	case WrapChar:
		out = append(out, reversed(chars)...)
		out = append(out, fallback(firstCh))
	case WrapWordChar:
		out = append(out, reversed(words)...)
		out = append(out, reversed(chars)...)
		if len(chars) == 0 {
			out = append(out, fallback(firstCh))
		}
	default:
		out = append(out, reversed(words)...)
		out = append(out, fallback(firstWord))
	}
	return out
}

func reversed(s []int) []int {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}

// pendingSplit remembers a split made by takeRuns until it is committed
// or undone.
type pendingSplit struct {
	run       *Run
	index     int
	offset    int
	oldGlyphs *GlyphString
}

// takeRuns removes the runs before rune c from the pending runs, splitting
// the run that straddles c. undo puts everything back.
func (b *lineBreaker) takeRuns(c int) (runs []*Run, undo func()) {
	cut := b.offs[c]
	saved := b.runs
	k := 0
	for k < len(b.runs) && b.runs[k].Item.End() <= cut {
		k++
	}
	runs = slices.Clone(b.runs[:k])
	b.runs = b.runs[k:]
	b.split = nil

	if len(b.runs) > 0 && b.runs[0].Item.Offset < cut {
		tail := b.runs[0]
		index := cut - tail.Item.Offset
		offset := c - b.charIndex(tail.Item.Offset)
		b.split = &pendingSplit{run: tail, index: index, offset: offset, oldGlyphs: tail.Glyphs}
		head := tail.Item.Split(index, offset)
		runs = append(runs, b.newRun(head))
		tail.Glyphs = ShapeItem(b.l.ctx, b.text, tail.Item)
	}
	return runs, func() {
		if s := b.split; s != nil {
			s.run.Item.Unsplit(s.index, s.offset)
			s.run.Glyphs = s.oldGlyphs
			b.split = nil
		}
		b.runs = saved
	}
}

// commit accepts the last takeRuns.
func (b *lineBreaker) commit() {
	if s := b.split; s != nil {
		b.updateWidths(s.run)
		b.split = nil
	}
}

// fits reports whether runs, ending at rune c, fit in avail once trailing
// whitespace is allowed to hang.
func (b *lineBreaker) fits(runs []*Run, c int, avail int32) bool {
	w := runsWidth(runs)
	for i := c - 1; i >= 0 && b.attrs[i].IsWhite; i-- {
		w -= b.widths[i]
	}
	return w <= avail
}

func runsWidth(runs []*Run) int32 {
	var w int32
	for _, r := range runs {
		w += r.Width()
	}
	return w
}

// placeTabs gives the tabs of a line, in logical order, the width that
// takes them to the next tab stop.
func (b *lineBreaker) placeTabs(runs []*Run) {
	var x int32
	for _, r := range runs {
		if b.text[r.Item.Offset] == '\t' {
			for i := range r.Glyphs.Glyphs {
				w := b.l.tabs.next(x, b.tabStep) - x
				r.Glyphs.Glyphs[i].Geometry.Width = w
				x += w
			}
			continue
		}
		x += r.Width()
	}
}

// trimLetterSpacing cancels the letter spacing after the last character
// of a line.
func trimLetterSpacing(runs []*Run) {
	if len(runs) == 0 {
		return
	}
	last := runs[len(runs)-1]
	if s := last.Item.Analysis.Extra.LetterSpacing; s != 0 {
		last.EndXOffset = -s
	}
}
