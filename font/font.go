package font

import (
	"math"
	"strconv"
	"strings"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"

	"github.com/gogpu/textlayout/fontdesc"
)

// Scale is the number of geometry units per device pixel.
const Scale = fontdesc.Scale

// Rect is a rectangle in units of 1/Scale pixels, y growing down from the
// baseline.
type Rect struct {
	X, Y, Width, Height int32
}

// Metrics are the vertical metrics of a Font in units of 1/Scale pixels.
// Positions are distances above the baseline; Descent is positive.
type Metrics struct {
	Ascent  int32
	Descent int32
	// Height is the baseline to baseline distance.
	Height int32

	UnderlinePosition      int32
	UnderlineThickness     int32
	StrikethroughPosition  int32
	StrikethroughThickness int32

	ApproximateCharWidth  int32
	ApproximateDigitWidth int32
}

// Font is a Face at a pixel size with variation settings.
//
// Font is immutable and safe for concurrent use.
type Font struct {
	face       Face
	inst       instance
	size       int32
	variations string
	axes       []Variation
	scale      float64

	metricsOnce sync.Once
	metrics     Metrics

	shapingFaces sync.Pool
}

// NewFont instantiates face at size, in units of 1/Scale device pixels.
// variations uses the "wght=200,wdth=80" syntax; malformed entries are
// ignored.
func NewFont(face Face, size int32, variations string) *Font {
	axes := ParseVariations(variations)
	f := &Font{
		face:       face,
		inst:       face.instance(axes),
		size:       size,
		variations: variations,
		axes:       axes,
	}
	f.scale = float64(size) / float64(f.inst.upem())
	return f
}

// ParseVariations parses comma separated "tag=value" pairs.
func ParseVariations(s string) []Variation {
	if s == "" {
		return nil
	}
	var out []Variation
	for _, part := range strings.Split(s, ",") {
		tag, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || tag == "" || len(tag) > 4 {
			continue
		}
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			continue
		}
		for len(tag) < 4 {
			tag += " "
		}
		out = append(out, Variation{
			Tag:   ot.NewTag(tag[0], tag[1], tag[2], tag[3]),
			Value: float32(v),
		})
	}
	return out
}

// Face returns the face the font was created from.
func (f *Font) Face() Face { return f.face }

// Size returns the pixel size in units of 1/Scale.
func (f *Font) Size() int32 { return f.size }

// Variations returns the variation settings the font was created with.
func (f *Font) Variations() string { return f.variations }

// Description returns the face description with the absolute size and the
// variations filled in.
func (f *Font) Description() fontdesc.Description {
	d := f.face.Describe()
	d.SetAbsoluteSize(f.size)
	d.SetVariations(f.variations)
	return d
}

// FontUnitScale returns the number of 1/Scale pixel units per font unit.
func (f *Font) FontUnitScale() float64 { return f.scale }

func (f *Font) units(v float32) int32 {
	return int32(math.Round(float64(v) * f.scale))
}

// HasChar reports whether the face maps r to a glyph.
func (f *Font) HasChar(r rune) bool { return f.face.HasChar(r) }

// Glyph returns the nominal glyph for r.
func (f *Font) Glyph(r rune) (GID, bool) { return f.inst.glyph(r) }

// GlyphAdvance returns the horizontal advance of gid.
func (f *Font) GlyphAdvance(gid GID) int32 { return f.units(f.inst.advance(gid)) }

// GlyphExtents returns the ink and logical rectangles of gid relative to
// its origin on the baseline.
func (f *Font) GlyphExtents(gid GID) (ink, logical Rect) {
	m := f.Metrics()
	logical = Rect{Y: -m.Ascent, Width: f.GlyphAdvance(gid), Height: m.Ascent + m.Descent}
	if ext, ok := f.inst.glyphExtents(gid); ok {
		ink = Rect{
			X:      f.units(ext.XBearing),
			Y:      -f.units(ext.YBearing),
			Width:  f.units(ext.Width),
			Height: -f.units(ext.Height),
		}
	}
	return ink, logical
}

// IsColorGlyph reports whether gid is drawn from color data (COLR, bitmap
// or SVG) rather than an outline.
func (f *Font) IsColorGlyph(gid GID) bool {
	switch f.inst.glyphData(gid).(type) {
	case gotext.GlyphColor, gotext.GlyphBitmap, gotext.GlyphSVG:
		return true
	}
	return false
}

// GlyphOutline returns the contour of gid in font units, y growing up.
// Multiply by FontUnitScale to get 1/Scale pixel units.
func (f *Font) GlyphOutline(gid GID) (GlyphOutline, bool) {
	o, ok := f.inst.glyphData(gid).(gotext.GlyphOutline)
	return o, ok
}

// Metrics returns the vertical metrics of the font.
func (f *Font) Metrics() Metrics {
	f.metricsOnce.Do(f.computeMetrics)
	return f.metrics
}

func (f *Font) computeMetrics() {
	m := &f.metrics
	if ext, ok := f.inst.fontExtents(); ok && ext.Ascender-ext.Descender > 0 {
		m.Ascent = f.units(ext.Ascender)
		m.Descent = -f.units(ext.Descender)
		m.Height = m.Ascent + m.Descent + f.units(ext.LineGap)
	} else {
		m.Ascent = f.size * 8 / 10
		m.Descent = f.size - m.Ascent
		m.Height = f.size
	}

	m.UnderlineThickness = f.units(f.inst.lineMetric(gotext.UnderlineThickness))
	if m.UnderlineThickness <= 0 {
		m.UnderlineThickness = max(f.size/14, 1)
	}
	m.UnderlinePosition = f.units(f.inst.lineMetric(gotext.UnderlinePosition))
	if m.UnderlinePosition == 0 {
		m.UnderlinePosition = -m.UnderlineThickness
	}
	m.StrikethroughThickness = f.units(f.inst.lineMetric(gotext.StrikethroughThickness))
	if m.StrikethroughThickness <= 0 {
		m.StrikethroughThickness = m.UnderlineThickness
	}
	m.StrikethroughPosition = f.units(f.inst.lineMetric(gotext.StrikethroughPosition))
	if m.StrikethroughPosition == 0 {
		m.StrikethroughPosition = m.Ascent / 2
	}

	var total, n int32
	for _, r := range SampleString("en") {
		if gid, ok := f.inst.glyph(r); ok {
			total += f.GlyphAdvance(gid)
			n++
		}
	}
	if n > 0 {
		m.ApproximateCharWidth = total / n
	} else {
		m.ApproximateCharWidth = f.size / 2
	}
	for r := '0'; r <= '9'; r++ {
		if gid, ok := f.inst.glyph(r); ok {
			m.ApproximateDigitWidth = max(m.ApproximateDigitWidth, f.GlyphAdvance(gid))
		}
	}
	if m.ApproximateDigitWidth == 0 {
		m.ApproximateDigitWidth = m.ApproximateCharWidth
	}
}

// AcquireShapingFace returns a go-text face with the font's variations for
// the external shaper, or nil for user faces. The face must be returned
// with ReleaseShapingFace and not used concurrently.
func (f *Font) AcquireShapingFace() *gotext.Face {
	nf, ok := f.face.(*NativeFace)
	if !ok {
		return nil
	}
	if face, ok := f.shapingFaces.Get().(*gotext.Face); ok {
		return face
	}
	face := gotext.NewFace(nf.font)
	face.SetVariations(f.axes)
	return face
}

// ReleaseShapingFace returns a face obtained from AcquireShapingFace.
func (f *Font) ReleaseShapingFace(face *gotext.Face) {
	if face != nil {
		f.shapingFaces.Put(face)
	}
}

// HexBox is the layout of the box drawn for a character the font cannot
// display: the code point in hexadecimal, in two rows.
type HexBox struct {
	Rows, Cols  int
	DigitWidth  int32
	DigitHeight int32
	PadX, PadY  int32
	LineWidth   int32
	// X and Y locate the top left corner of the box relative to the glyph
	// origin; Width and Height include the frame.
	X, Y          int32
	Width, Height int32
	// Advance is the logical width of the box glyph.
	Advance int32
}

// HexBox returns the box geometry for r.
func (f *Font) HexBox(r rune) HexBox {
	m := f.Metrics()
	em := max(f.size, 1)
	b := HexBox{
		Rows:        2,
		Cols:        2,
		DigitWidth:  em / 4,
		DigitHeight: em * 7 / 20,
		PadX:        max(em/20, 1),
		PadY:        max(em/20, 1),
		LineWidth:   max(em/20, 1),
	}
	if r > 0xFFFF {
		b.Cols = 3
	}
	b.Width = int32(b.Cols)*b.DigitWidth + int32(b.Cols+1)*b.PadX + 2*b.LineWidth
	b.Height = int32(b.Rows)*b.DigitHeight + int32(b.Rows+1)*b.PadY + 2*b.LineWidth
	center := (m.Ascent - m.Descent) / 2
	b.X = b.PadX
	b.Y = -center - b.Height/2
	b.Advance = b.Width + 2*b.PadX
	return b
}

// UnknownGlyphExtents returns the extents of the hex box glyph for r.
func (f *Font) UnknownGlyphExtents(r rune) (ink, logical Rect) {
	m := f.Metrics()
	b := f.HexBox(r)
	ink = Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
	logical = Rect{Y: -m.Ascent, Width: b.Advance, Height: m.Ascent + m.Descent}
	return ink, logical
}
