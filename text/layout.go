package text

import (
	"image"
	"slices"
	"unicode/utf8"

	"github.com/gogpu/textlayout"
	"github.com/gogpu/textlayout/fontdesc"
)

// Layout lays out a paragraph of text, possibly with several paragraph
// breaks, into lines.
//
// A Layout is lazy: setters only record the change and bump the serial,
// and the lines are recomputed on the next query. Lines are also
// recomputed when the serial of the Context changes.
//
// Layout is not safe for concurrent use.
type Layout struct {
	ctx   *Context
	text  string
	attrs *AttrList
	desc  *fontdesc.Description

	width, height   int32
	wrap            WrapMode
	ellipsize       EllipsizeMode
	align           Alignment
	justify         bool
	justifyLastLine bool
	indent          int32
	spacing         int32
	lineSpacing     float64
	autoDir         bool
	tabs            *TabArray

	serial uint32

	// computed
	lines        []*Line
	linesSerial  uint32
	ctxSerial    uint32
	logAttrs     []LogAttr
	runeOffsets  []int
	ellipsized   bool
	empty        Rectangle
	ink, logical Rectangle
}

// NewLayout returns an empty layout using ctx. Width and height are
// unset, lines wrap at word boundaries and the direction of each
// paragraph comes from its text.
func NewLayout(ctx *Context) *Layout {
	return &Layout{
		ctx:     ctx,
		width:   -1,
		height:  -1,
		autoDir: true,
		serial:  1,
	}
}

func (l *Layout) changed() {
	l.serial++
	if l.serial == 0 {
		l.serial++
	}
}

// Context returns the context of the layout.
func (l *Layout) Context() *Context { return l.ctx }

// Serial returns a number that changes whenever the layout changes, either
// through a setter or because its Context changed. It is never 0.
func (l *Layout) Serial() uint32 {
	l.checkContext()
	return l.serial
}

// SetText sets the text. Attribute ranges are byte offsets into it.
func (l *Layout) SetText(text string) {
	l.text = text
	l.changed()
}

// Text returns the text of the layout.
func (l *Layout) Text() string { return l.text }

// SetAttributes sets the attribute list. The layout keeps a copy.
func (l *Layout) SetAttributes(attrs *AttrList) {
	l.attrs = attrs.Copy()
	l.changed()
}

// Attributes returns a copy of the attribute list, or nil.
func (l *Layout) Attributes() *AttrList { return l.attrs.Copy() }

// SetFontDescription sets the default font of the layout, merged over the
// font description of the context. A nil desc unsets it.
func (l *Layout) SetFontDescription(desc *fontdesc.Description) {
	if desc == nil {
		l.desc = nil
	} else {
		d := *desc
		l.desc = &d
	}
	l.changed()
}

// SetWidth sets the width lines wrap at, in units of 1/Scale pixels. A
// negative width disables wrapping.
func (l *Layout) SetWidth(width int32) {
	l.width = max(width, -1)
	l.changed()
}

// Width returns the wrap width, -1 when unset.
func (l *Layout) Width() int32 { return l.width }

// SetHeight limits the lines of an ellipsizing layout. A negative height
// allows at most -height lines per paragraph; otherwise it is the total
// height in units of 1/Scale pixels. The last permitted line of a
// paragraph takes the rest of it and is ellipsized. Without ellipsization
// the height has no effect.
func (l *Layout) SetHeight(height int32) {
	l.height = height
	l.changed()
}

// Height returns the height limit.
func (l *Layout) Height() int32 { return l.height }

// SetWrap sets where lines may break.
func (l *Layout) SetWrap(wrap WrapMode) {
	l.wrap = wrap
	l.changed()
}

// SetEllipsize sets the ellipsization mode. It applies only when a width
// is set.
func (l *Layout) SetEllipsize(mode EllipsizeMode) {
	l.ellipsize = mode
	l.changed()
}

// SetAlignment sets the alignment of lines within the layout width.
func (l *Layout) SetAlignment(a Alignment) {
	l.align = a
	l.changed()
}

// SetJustify sets whether lines are stretched to fill the width. The last
// line of each paragraph is not stretched unless SetJustifyLastLine is
// also set.
func (l *Layout) SetJustify(justify bool) {
	l.justify = justify
	l.changed()
}

// SetJustifyLastLine sets whether justification applies to the last line
// of paragraphs.
func (l *Layout) SetJustifyLastLine(justify bool) {
	l.justifyLastLine = justify
	l.changed()
}

// SetIndent sets the indent of the first line of each paragraph. A
// negative indent indents all other lines instead.
func (l *Layout) SetIndent(indent int32) {
	l.indent = indent
	l.changed()
}

// SetSpacing sets the space between lines.
func (l *Layout) SetSpacing(spacing int32) {
	l.spacing = spacing
	l.changed()
}

// SetLineSpacing sets the distance between baselines as a factor of the
// line height. Zero uses the line height plus the spacing.
func (l *Layout) SetLineSpacing(factor float64) {
	l.lineSpacing = max(factor, 0)
	l.changed()
}

// SetAutoDir sets whether the direction of each paragraph comes from its
// first strong character. When off, the base direction of the context is
// used and alignment is not mirrored.
func (l *Layout) SetAutoDir(auto bool) {
	l.autoDir = auto
	l.changed()
}

// SetTabs sets the tab stops. nil restores the default of a stop every 8
// spaces.
func (l *Layout) SetTabs(tabs *TabArray) {
	if tabs != nil {
		tabs = NewTabArray(tabs.Positions...)
	}
	l.tabs = tabs
	l.changed()
}

// Lines returns the lines of the layout in order.
func (l *Layout) Lines() []*Line {
	l.ensure()
	return l.lines
}

// LineCount returns the number of lines.
func (l *Layout) LineCount() int { return len(l.Lines()) }

// Line returns line i, or nil when i is out of range.
func (l *Layout) Line(i int) *Line {
	lines := l.Lines()
	if i < 0 || i >= len(lines) {
		return nil
	}
	return lines[i]
}

// Extents returns the ink and logical extents of the layout relative to
// its top left corner.
func (l *Layout) Extents() (ink, logical Rectangle) {
	l.ensure()
	return l.ink, l.logical
}

// PixelExtents returns the extents in whole pixels. The ink rectangle is
// rounded outwards and the logical one to the nearest pixel.
func (l *Layout) PixelExtents() (ink, logical image.Rectangle) {
	i, g := l.Extents()
	ink = image.Rect(floorDiv(i.X), floorDiv(i.Y), ceilDiv(i.X+i.Width), ceilDiv(i.Y+i.Height))
	logical = image.Rect(roundDiv(g.X), roundDiv(g.Y), roundDiv(g.X+g.Width), roundDiv(g.Y+g.Height))
	return ink, logical
}

func floorDiv(v int32) int {
	if v < 0 {
		return -int((-v + Scale - 1) / Scale)
	}
	return int(v / Scale)
}

func ceilDiv(v int32) int { return -floorDiv(-v) }

func roundDiv(v int32) int { return floorDiv(v + Scale/2) }

// Size returns the logical width and height of the layout.
func (l *Layout) Size() (width, height int32) {
	_, logical := l.Extents()
	return logical.Width, logical.Height
}

// Baseline returns the baseline of the first line from the top of the
// layout.
func (l *Layout) Baseline() int32 {
	lines := l.Lines()
	return lines[0].Baseline
}

// IsEllipsized reports whether any line was ellipsized.
func (l *Layout) IsEllipsized() bool {
	l.ensure()
	return l.ellipsized
}

// UnknownGlyphsCount returns the number of characters drawn as hex boxes
// because no font could display them.
func (l *Layout) UnknownGlyphsCount() int {
	n := 0
	for _, line := range l.Lines() {
		for _, r := range line.Runs {
			for _, g := range r.Glyphs.Glyphs {
				if g.Glyph.IsUnknown() {
					n++
				}
			}
		}
	}
	return n
}

// ensure recomputes the lines when the layout or its context changed.
func (l *Layout) ensure() {
	l.checkContext()
	if l.lines != nil && l.linesSerial == l.serial {
		return
	}
	l.linesSerial = l.serial
	l.layoutLines()
}

// checkContext bumps the serial when the context changed since it was
// last seen.
func (l *Layout) checkContext() {
	s := l.ctx.Serial()
	if s == l.ctxSerial {
		return
	}
	if l.ctxSerial != 0 {
		l.changed()
	}
	l.ctxSerial = s
}

// effectiveAttrs returns the attributes with the layout font underneath.
func (l *Layout) effectiveAttrs() *AttrList {
	if l.desc == nil {
		return l.attrs
	}
	list := NewAttrList(FontDescAttr(*l.desc))
	for _, a := range l.attrs.Attributes() {
		list.Insert(a)
	}
	return list
}

// baseDescription returns the font description of text without attributes.
func (l *Layout) baseDescription() fontdesc.Description {
	d := l.ctx.cfg.desc
	if l.desc != nil {
		d.Merge(*l.desc, true)
	}
	return d
}

// emptyLogical computes the logical extents of a line without glyphs.
func (l *Layout) emptyLogical() Rectangle {
	if f := l.ctx.LoadFontset(l.baseDescription()).Primary(); f != nil {
		m := f.Metrics()
		return Rectangle{Y: -m.Ascent, Height: m.Ascent + m.Descent}
	}
	return Rectangle{Y: -noFontBoxHeight * Scale, Height: noFontBoxHeight * Scale}
}

func (l *Layout) layoutLines() {
	textlayout.Logger().Debug("layout", "bytes", len(l.text), "width", l.width, "serial", l.serial)
	attrs := l.effectiveAttrs()
	l.lines = nil
	l.ellipsized = false
	l.empty = l.emptyLogical()

	var y int32
	prev := l.ctx.cfg.baseDir
	for _, p := range splitParagraphs(l.text) {
		dir := l.paragraphDir(p, prev)
		prev = dir
		items := ItemizeWithDirection(l.ctx, dir, l.text, p.start, p.next-p.start, attrs)
		b := newLineBreaker(l, p, dir, items)
		lines := b.breakLines(y)
		for _, line := range lines {
			_, logical := line.Extents()
			y += logical.Height + l.spacing
		}
		l.ellipsized = l.ellipsized || b.ellipsized
		l.lines = append(l.lines, lines...)
	}

	runes := []rune(l.text)
	l.logAttrs = computeLogAttrs(runes)
	l.runeOffsets = byteOffsets(l.text, len(runes))

	l.justifyLines()
	l.positionLines()
}

// paragraphDir returns the base direction of a paragraph. With auto
// direction, a paragraph without strong characters continues the
// direction of the previous one.
func (l *Layout) paragraphDir(p paragraph, prev Direction) Direction {
	if !l.autoDir {
		return paragraphDirection(nil, l.ctx.cfg.baseDir)
	}
	weak := prev
	switch prev {
	case DirectionLTR:
		weak = DirectionWeakLTR
	case DirectionRTL:
		weak = DirectionWeakRTL
	}
	return paragraphDirection([]rune(l.text[p.start:p.end]), weak)
}

// positionLines places the lines vertically and aligns them.
func (l *Layout) positionLines() {
	alignWidth := l.width
	if alignWidth < 0 {
		for _, line := range l.lines {
			alignWidth = max(alignWidth, line.Width()+l.indentOf(line))
		}
	}

	var y, prevBaseline int32
	l.ink, l.logical = Rectangle{}, Rectangle{}
	for i, line := range l.lines {
		ink, logical := line.Extents()
		switch {
		case i == 0:
			line.Baseline = -logical.Y
		case l.lineSpacing > 0:
			line.Baseline = prevBaseline + int32(l.lineSpacing*float64(logical.Height))
		default:
			line.Baseline = y + l.spacing - logical.Y
		}
		prevBaseline = line.Baseline
		y = line.Baseline + logical.Y + logical.Height
		line.X = l.lineX(line, alignWidth)

		ink.X += line.X
		ink.Y += line.Baseline
		l.ink = unionRect(l.ink, ink)
		logical.X += line.X
		logical.Y += line.Baseline
		if i == 0 {
			l.logical = logical
		} else {
			l.logical = unionLogical(l.logical, logical)
		}
	}
}

// unionLogical is unionRect for logical rectangles, which may be empty in
// one dimension and still count.
func unionLogical(a, b Rectangle) Rectangle {
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1 := max(a.X+a.Width, b.X+b.Width)
	y1 := max(a.Y+a.Height, b.Y+b.Height)
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// indentOf returns the indent applying to line.
func (l *Layout) indentOf(line *Line) int32 {
	switch {
	case line.IsParagraphStart && l.indent > 0:
		return l.indent
	case !line.IsParagraphStart && l.indent < 0:
		return -l.indent
	}
	return 0
}

// lineX returns the left edge of line for the alignment of the layout.
func (l *Layout) lineX(line *Line, width int32) int32 {
	align := l.align
	if l.autoDir && line.ResolvedDirection == DirectionRTL {
		switch align {
		case AlignLeft:
			align = AlignRight
		case AlignRight:
			align = AlignLeft
		}
	}
	indent := l.indentOf(line)
	w := line.Width()
	switch align {
	case AlignRight:
		return width - w - indent
	case AlignCenter:
		return indent + (width-w-indent)/2
	default:
		return indent
	}
}

// lineIndex returns the line holding byte index. An index at the end of
// a wrapped line belongs to the next line.
func (l *Layout) lineIndex(index int) int {
	lines := l.Lines()
	i, _ := slices.BinarySearchFunc(lines, index, func(line *Line, idx int) int {
		switch {
		case line.End() <= idx:
			return -1
		case line.Start > idx:
			return 1
		}
		return 0
	})
	return min(i, len(lines)-1)
}

// clampIndex clamps index to the text and moves it to a character start.
func (l *Layout) clampIndex(index int) int {
	index = min(max(index, 0), len(l.text))
	for index > 0 && index < len(l.text) && !utf8.RuneStart(l.text[index]) {
		index--
	}
	return index
}

// lineTop returns the top of the logical extents of line.
func lineTop(line *Line) (top, height int32) {
	_, logical := line.Extents()
	return line.Baseline + logical.Y, logical.Height
}

// IndexToPos returns the logical box of the character at byte index,
// relative to the top left corner of the layout. The box of a
// right-to-left character has a negative width. Out of range indices are
// clamped.
func (l *Layout) IndexToPos(index int) Rectangle {
	index = l.clampIndex(index)
	line := l.Lines()[l.lineIndex(index)]
	top, height := lineTop(line)
	x0 := line.IndexToX(index, false)
	x1 := x0
	if index < line.contentEnd() {
		x1 = line.IndexToX(index, true)
	}
	return Rectangle{X: line.X + x0, Y: top, Width: x1 - x0, Height: height}
}

// IndexToLineX returns the line holding byte index and the x position,
// relative to the left edge of that line, of the leading or trailing edge
// of the character.
func (l *Layout) IndexToLineX(index int, trailing bool) (line int, x int32) {
	index = l.clampIndex(index)
	line = l.lineIndex(index)
	return line, l.Lines()[line].IndexToX(index, trailing)
}

// XYToIndex returns the byte index of the character at x, y relative to
// the top left corner of the layout and whether the position is in its
// trailing half. inside is false when the position is outside the text;
// the nearest character is returned then.
func (l *Layout) XYToIndex(x, y int32) (index int, trailing, inside bool) {
	lines := l.Lines()
	k, insideY := len(lines)-1, false
	for i, line := range lines {
		top, height := lineTop(line)
		if y < top {
			k, insideY = max(i-1, 0), i > 0
			break
		}
		bottom := top + height
		if i < len(lines)-1 {
			bottom += l.spacing
		}
		if y < bottom {
			k, insideY = i, true
			break
		}
	}
	line := lines[k]
	index, trailing, insideX := line.XToIndex(x - line.X)
	return index, trailing, insideX && insideY
}
