package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	ot "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/vector"

	"github.com/gogpu/textlayout/font"
	"github.com/gogpu/textlayout/internal/cache"
	"github.com/gogpu/textlayout/text"
)

// subpixelSteps is the number of horizontal glyph positions cached per
// pixel.
const subpixelSteps = 4

// maskKey identifies a rasterized glyph.
type maskKey struct {
	font     *font.Font
	gid      font.GID
	subpixel uint8
}

// glyphMask is a coverage mask and its offset from the glyph origin.
type glyphMask struct {
	alpha  *image.Alpha
	origin image.Point
}

// Raster is a Backend painting into an *image.RGBA with anti-aliased
// outlines. Colored glyphs (COLR, bitmaps, SVG) have no outline and are
// not painted.
//
// Raster is not safe for concurrent use.
type Raster struct {
	img   *image.RGBA
	src   *image.Uniform
	masks *cache.Sharded[maskKey, *glyphMask]
}

// NewRaster returns a transparent raster of the given size in pixels.
func NewRaster(width, height int) *Raster {
	return NewRasterFromImage(image.NewRGBA(image.Rect(0, 0, width, height)))
}

// NewRasterFromImage paints into img directly.
func NewRasterFromImage(img *image.RGBA) *Raster {
	return &Raster{
		img:   img,
		src:   image.NewUniform(color.RGBA{A: 0xff}),
		masks: cache.NewSharded[maskKey, *glyphMask](1024),
	}
}

// Image returns the image painted into.
func (r *Raster) Image() *image.RGBA { return r.img }

// Clear fills the whole image with c.
func (r *Raster) Clear(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// SetColor sets the color of subsequent painting.
func (r *Raster) SetColor(c color.RGBA) { r.src = image.NewUniform(c) }

// FillRect fills the pixels covered by the rectangle.
func (r *Raster) FillRect(x, y, w, h float64) {
	rect := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	draw.Draw(r.img, rect, r.src, image.Point{}, draw.Over)
}

// GlyphExtents returns the extents the layout engine uses for g.
func (r *Raster) GlyphExtents(f *font.Font, g text.Glyph) (ink, logical text.Rectangle) {
	return text.GlyphExtents(f, g)
}

// PaintGlyph paints the outline of g, or a box for unknown glyphs.
func (r *Raster) PaintGlyph(f *font.Font, g text.Glyph, x, y float64) {
	switch {
	case g == text.GlyphEmpty:
		return
	case g.IsUnknown() || f == nil:
		r.paintBox(f, g, x, y)
		return
	}

	ix := math.Floor(x)
	frac := x - ix
	sub := uint8(frac * subpixelSteps)
	key := maskKey{font: f, gid: g.GID(), subpixel: sub}
	m, ok := r.masks.Get(key)
	if !ok {
		m = rasterize(f, g.GID(), float64(sub)/subpixelSteps)
		r.masks.Set(key, m)
	}
	if m == nil {
		return
	}
	iy := int(math.Round(y))
	dst := m.alpha.Bounds().Add(image.Pt(int(ix), iy).Add(m.origin))
	draw.DrawMask(r.img, dst, r.src, image.Point{}, m.alpha, image.Point{}, draw.Over)
}

// rasterize scan converts the outline of gid shifted right by dx pixels.
// It returns nil for glyphs without an outline or ink.
func rasterize(f *font.Font, gid font.GID, dx float64) *glyphMask {
	outline, ok := f.GlyphOutline(gid)
	if !ok || len(outline.Segments) == 0 {
		return nil
	}
	ink, _ := f.GlyphExtents(gid)
	if ink.Width <= 0 || ink.Height <= 0 {
		return nil
	}
	// One pixel of margin absorbs hinting-free rounding at the edges.
	x0 := int(math.Floor(px(ink.X))) - 1
	y0 := int(math.Floor(px(ink.Y))) - 1
	x1 := int(math.Ceil(px(ink.X+ink.Width)+dx)) + 1
	y1 := int(math.Ceil(px(ink.Y+ink.Height))) + 1

	s := f.FontUnitScale() / text.Scale
	pt := func(p ot.SegmentPoint) (float32, float32) {
		return float32(float64(p.X)*s + dx - float64(x0)), float32(-float64(p.Y)*s - float64(y0))
	}
	z := vector.NewRasterizer(x1-x0, y1-y0)
	for _, seg := range outline.Segments {
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			z.MoveTo(pt(seg.Args[0]))
		case ot.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case ot.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case ot.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			ex, ey := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	z.ClosePath()

	alpha := image.NewAlpha(image.Rect(0, 0, x1-x0, y1-y0))
	z.Draw(alpha, alpha.Bounds(), image.Opaque, image.Point{})
	return &glyphMask{alpha: alpha, origin: image.Pt(x0, y0)}
}

// paintBox paints the frame of the box standing for a character that no
// font can display.
func (r *Raster) paintBox(f *font.Font, g text.Glyph, x, y float64) {
	ink, _ := text.GlyphExtents(f, g)
	line := 1.0
	if f != nil && g.IsUnknown() {
		line = max(px(f.HexBox(g.Rune()).LineWidth), 1)
	}
	bx, by := x+px(ink.X), y+px(ink.Y)
	w, h := px(ink.Width), px(ink.Height)
	r.FillRect(bx, by, w, line)
	r.FillRect(bx, by+h-line, w, line)
	r.FillRect(bx, by, line, h)
	r.FillRect(bx+w-line, by, line, h)
}
