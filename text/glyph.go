package text

import (
	"slices"
	"unicode/utf8"

	"github.com/gogpu/textlayout/font"
)

// Glyph is a glyph index of a font, or a special value. Font glyph indices
// never reach GlyphUnknownFlag.
type Glyph uint32

const (
	// GlyphEmpty draws nothing. It stands for characters the shaper
	// produced no glyph for and for control characters.
	GlyphEmpty Glyph = 0
	// GlyphUnknownFlag marks a glyph that stands for a character the font
	// cannot display. The low bits hold the character, drawn as a hex box.
	GlyphUnknownFlag Glyph = 0x10000000
)

// UnknownGlyph returns the unknown glyph for r.
func UnknownGlyph(r rune) Glyph { return GlyphUnknownFlag | Glyph(r) }

// IsUnknown reports whether g is an unknown glyph.
func (g Glyph) IsUnknown() bool { return g&GlyphUnknownFlag != 0 }

// Rune returns the character of an unknown glyph.
func (g Glyph) Rune() rune { return rune(g &^ GlyphUnknownFlag) }

// GID returns the font glyph index of g.
func (g Glyph) GID() font.GID { return font.GID(g) }

// Unknown glyph boxes of text without a font, in pixels.
const (
	noFontBoxWidth  = 10
	noFontBoxHeight = 14
)

// GlyphGeometry positions a glyph. Width is the advance; the offsets move
// the glyph from its pen position, y growing down.
type GlyphGeometry struct {
	Width   int32
	XOffset int32
	YOffset int32
}

// GlyphVisAttr holds flags used when drawing or measuring a glyph.
type GlyphVisAttr struct {
	IsClusterStart bool
	IsColor        bool
}

// GlyphInfo is one glyph of a GlyphString.
type GlyphInfo struct {
	Glyph    Glyph
	Geometry GlyphGeometry
	Attr     GlyphVisAttr
}

// GlyphString is the shaped form of an item: glyphs in visual order, each
// mapped by LogClusters to the byte offset, relative to the item, of the
// first character of its cluster. Glyphs of one cluster are contiguous.
type GlyphString struct {
	Glyphs      []GlyphInfo
	LogClusters []int
}

// Len returns the number of glyphs.
func (gs *GlyphString) Len() int { return len(gs.Glyphs) }

// Copy returns an independent copy of gs.
func (gs *GlyphString) Copy() *GlyphString {
	if gs == nil {
		return nil
	}
	return &GlyphString{
		Glyphs:      slices.Clone(gs.Glyphs),
		LogClusters: slices.Clone(gs.LogClusters),
	}
}

func (gs *GlyphString) append(g Glyph, width int32, cluster int) {
	gs.Glyphs = append(gs.Glyphs, GlyphInfo{Glyph: g, Geometry: GlyphGeometry{Width: width}})
	gs.LogClusters = append(gs.LogClusters, cluster)
}

// Width returns the sum of the glyph advances.
func (gs *GlyphString) Width() int32 {
	var w int32
	for i := range gs.Glyphs {
		w += gs.Glyphs[i].Geometry.Width
	}
	return w
}

// Reverse reverses the order of the clusters, keeping the order of the
// glyphs inside each cluster.
func (gs *GlyphString) Reverse() {
	n := len(gs.Glyphs)
	glyphs := make([]GlyphInfo, 0, n)
	clusters := make([]int, 0, n)
	end := n
	for end > 0 {
		start := end - 1
		for start > 0 && gs.LogClusters[start-1] == gs.LogClusters[end-1] {
			start--
		}
		glyphs = append(glyphs, gs.Glyphs[start:end]...)
		clusters = append(clusters, gs.LogClusters[start:end]...)
		end = start
	}
	gs.Glyphs, gs.LogClusters = glyphs, clusters
}

// GlyphExtents returns the ink and logical extents of g drawn with f,
// relative to its origin on the baseline. f may be nil.
func GlyphExtents(f *font.Font, g Glyph) (ink, logical Rectangle) {
	if f == nil {
		if g.IsUnknown() {
			r := Rectangle{Y: -noFontBoxHeight * Scale, Width: noFontBoxWidth * Scale, Height: noFontBoxHeight * Scale}
			return r, r
		}
		return Rectangle{}, Rectangle{}
	}
	switch {
	case g == GlyphEmpty:
		m := f.Metrics()
		return Rectangle{}, Rectangle{Y: -m.Ascent, Height: m.Ascent + m.Descent}
	case g.IsUnknown():
		return f.UnknownGlyphExtents(g.Rune())
	default:
		return f.GlyphExtents(g.GID())
	}
}

// Extents returns the ink and logical extents of the whole string drawn
// with f, relative to the origin of its first glyph on the baseline.
func (gs *GlyphString) Extents(f *font.Font) (ink, logical Rectangle) {
	return gs.ExtentsRange(0, len(gs.Glyphs), f)
}

// ExtentsRange returns the extents of glyphs [start, end), relative to
// the origin of glyph start.
func (gs *GlyphString) ExtentsRange(start, end int, f *font.Font) (ink, logical Rectangle) {
	var x int32
	first := true
	for i := start; i < end; i++ {
		gi := &gs.Glyphs[i]
		gInk, gLog := GlyphExtents(f, gi.Glyph)

		if gInk.Width > 0 && gInk.Height > 0 {
			gInk.X += x + gi.Geometry.XOffset
			gInk.Y += gi.Geometry.YOffset
			ink = unionRect(ink, gInk)
		}
		if first {
			logical.Y, logical.Height = gLog.Y, gLog.Height
			first = false
		} else {
			top := min(logical.Y, gLog.Y)
			bottom := max(logical.Y+logical.Height, gLog.Y+gLog.Height)
			logical.Y, logical.Height = top, bottom-top
		}
		x += gi.Geometry.Width
	}
	logical.Width = x
	return ink, logical
}

// unionRect returns the smallest rectangle holding a and b. Empty
// rectangles are ignored.
func unionRect(a, b Rectangle) Rectangle {
	if a.Width <= 0 || a.Height <= 0 {
		return b
	}
	if b.Width <= 0 || b.Height <= 0 {
		return a
	}
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1 := max(a.X+a.Width, b.X+b.Width)
	y1 := max(a.Y+a.Height, b.Y+b.Height)
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// cluster is a run of glyphs sharing a log cluster, with the characters
// it covers.
type cluster struct {
	glyphStart, glyphEnd int
	x, width             int32
	byteStart, byteEnd   int
	chars                int
}

// clusters returns the clusters of gs in visual order. text is the text of
// the item the string was shaped from.
func (gs *GlyphString) clusters(text string) []cluster {
	starts := slices.Clone(gs.LogClusters)
	slices.Sort(starts)
	starts = slices.Compact(starts)
	byteEnd := func(start int) int {
		i, _ := slices.BinarySearch(starts, start)
		if i+1 < len(starts) {
			return starts[i+1]
		}
		return len(text)
	}

	var out []cluster
	var x int32
	for i := 0; i < len(gs.Glyphs); {
		j := i
		var w int32
		for j < len(gs.Glyphs) && gs.LogClusters[j] == gs.LogClusters[i] {
			w += gs.Glyphs[j].Geometry.Width
			j++
		}
		c := cluster{glyphStart: i, glyphEnd: j, x: x, width: w, byteStart: gs.LogClusters[i]}
		c.byteEnd = max(byteEnd(c.byteStart), c.byteStart)
		c.byteEnd = min(c.byteEnd, len(text))
		c.chars = max(utf8.RuneCountInString(text[min(c.byteStart, len(text)):c.byteEnd]), 1)
		out = append(out, c)
		x += w
		i = j
	}
	return out
}

// LogicalWidths returns the advance of every character of text, the item
// text gs was shaped from, in logical order. The width of a cluster is
// shared evenly among its characters.
func (gs *GlyphString) LogicalWidths(text string) []int32 {
	widths := make([]int32, utf8.RuneCountInString(text))
	byteToChar := charIndexer(text)
	for _, c := range gs.clusters(text) {
		first := byteToChar(c.byteStart)
		share := c.width / int32(c.chars)
		for k := 0; k < c.chars && first+k < len(widths); k++ {
			widths[first+k] = share
		}
		if first < len(widths) {
			widths[first] += c.width - share*int32(c.chars)
		}
	}
	return widths
}

// charIndexer returns a function converting byte offsets of text to
// character indices.
func charIndexer(text string) func(int) int {
	offsets := byteOffsets(text, len(text))
	return func(b int) int {
		i, _ := slices.BinarySearch(offsets, b)
		return i
	}
}

// IndexToX returns the x position of the leading or trailing edge of the
// character at byte index of text. Positions inside a multi-character
// cluster are interpolated. rtl tells how gs is ordered.
func (gs *GlyphString) IndexToX(text string, rtl bool, index int, trailing bool) int32 {
	cs := gs.clusters(text)
	for _, c := range cs {
		if index < c.byteStart || index >= c.byteEnd {
			continue
		}
		k := utf8.RuneCountInString(text[c.byteStart:index])
		if trailing {
			k++
		}
		off := c.width * int32(k) / int32(c.chars)
		if rtl {
			return c.x + c.width - off
		}
		return c.x + off
	}
	if atEnd := index >= len(text); atEnd != rtl {
		return gs.Width()
	}
	return 0
}

// XToIndex returns the byte index of the character at x and whether x is
// in its trailing half. Positions before the string map to the leading
// edge of the first character visually, positions after it to the
// trailing edge of the last.
func (gs *GlyphString) XToIndex(text string, rtl bool, x int32) (index int, trailing bool) {
	cs := gs.clusters(text)
	if len(cs) == 0 {
		return 0, false
	}
	if x < 0 {
		c := cs[0]
		if rtl {
			return lastCharStart(text, c.byteEnd), true
		}
		return c.byteStart, false
	}
	for _, c := range cs {
		if x >= c.x+c.width {
			continue
		}
		pos := x - c.x
		if rtl {
			pos = c.width - pos
		}
		k := int(int64(pos) * int64(c.chars) / int64(max(c.width, 1)))
		k = min(k, c.chars-1)
		idx := c.byteStart
		for i := 0; i < k; i++ {
			_, size := utf8.DecodeRuneInString(text[idx:])
			idx += size
		}
		charW := int64(c.width) / int64(c.chars)
		rem := int64(pos) - int64(k)*int64(c.width)/int64(c.chars)
		return idx, rem*2 >= charW
	}
	c := cs[len(cs)-1]
	if rtl {
		return c.byteStart, false
	}
	return lastCharStart(text, c.byteEnd), true
}

// lastCharStart returns the start of the character ending at end.
func lastCharStart(text string, end int) int {
	if end <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(text[:end])
	return end - size
}
