package render

import (
	"image/color"

	"github.com/gogpu/textlayout/font"
	"github.com/gogpu/textlayout/text"
)

// Backend paints positioned glyphs. Positions are in device pixels with y
// growing down; x, y is the origin of the glyph on its baseline.
type Backend interface {
	// PaintGlyph paints g of f at x, y. f is nil for text no font could
	// be found for; such glyphs are unknown glyphs.
	PaintGlyph(f *font.Font, g text.Glyph, x, y float64)

	// GlyphExtents returns the ink and logical extents of g in units of
	// 1/text.Scale pixels.
	GlyphExtents(f *font.Font, g text.Glyph) (ink, logical text.Rectangle)
}

// Colorer is implemented by backends that paint in a color. Draw sets the
// color before painting each run.
type Colorer interface {
	SetColor(c color.RGBA)
}

// RectFiller is implemented by backends that fill rectangles. Draw uses it
// for underlines and strikethrough; without it decorations are skipped.
type RectFiller interface {
	FillRect(x, y, w, h float64)
}

// Draw paints layout with its top left corner at x, y. Runs without a
// foreground attribute are painted in fg.
func Draw(b Backend, layout *text.Layout, x, y float64, fg color.RGBA) {
	for _, line := range layout.Lines() {
		DrawLine(b, line, x+px(line.X), y+px(line.Baseline), fg)
	}
}

// DrawLine paints line with the left end of its baseline at x, y.
func DrawLine(b Backend, line *text.Line, x, y float64, fg color.RGBA) {
	colorer, _ := b.(Colorer)
	filler, _ := b.(RectFiller)
	for _, run := range line.Runs {
		if colorer != nil {
			c := fg
			if extra := run.Item.Analysis.Extra; extra.HasForeground {
				c = extra.Foreground
			}
			colorer.SetColor(c)
		}
		drawRun(b, run, x, y)
		if filler != nil {
			decorate(b, filler, run, x, y)
		}
		x += px(run.Width())
	}
}

func drawRun(b Backend, run *text.Run, x, y float64) {
	f := run.Item.Analysis.Font
	gx := x + px(run.StartXOffset)
	gy := y + px(run.YOffset)
	for _, g := range run.Glyphs.Glyphs {
		if g.Glyph != text.GlyphEmpty {
			b.PaintGlyph(f, g.Glyph, gx+px(g.Geometry.XOffset), gy+px(g.Geometry.YOffset))
		}
		gx += px(g.Geometry.Width)
	}
}

// decorate paints the underline and strikethrough of run.
func decorate(b Backend, filler RectFiller, run *text.Run, x, y float64) {
	extra := run.Item.Analysis.Extra
	if extra.Underline == text.UnderlineNone && !extra.Strikethrough {
		return
	}
	m := decorationMetrics(run.Item.Analysis.Font)
	w := px(run.Width())
	y += px(run.YOffset)
	thick := px(m.UnderlineThickness)

	switch extra.Underline {
	case text.UnderlineSingle:
		filler.FillRect(x, y-px(m.UnderlinePosition), w, thick)
	case text.UnderlineDouble:
		top := y - px(m.UnderlinePosition)
		filler.FillRect(x, top, w, thick)
		filler.FillRect(x, top+2*thick, w, thick)
	case text.UnderlineLow:
		var bottom int32
		for _, g := range run.Glyphs.Glyphs {
			ink, _ := b.GlyphExtents(run.Item.Analysis.Font, g.Glyph)
			bottom = max(bottom, ink.Y+ink.Height+g.Geometry.YOffset)
		}
		filler.FillRect(x, y+px(bottom)+thick, w, thick)
	}
	if extra.Strikethrough {
		filler.FillRect(x, y-px(m.StrikethroughPosition), w, px(m.StrikethroughThickness))
	}
}

// decorationMetrics returns the line metrics of f, or defaults for a 14
// pixel font when f is nil.
func decorationMetrics(f *font.Font) font.Metrics {
	if f != nil {
		return f.Metrics()
	}
	return font.Metrics{
		UnderlinePosition:      -text.Scale,
		UnderlineThickness:     text.Scale,
		StrikethroughPosition:  4 * text.Scale,
		StrikethroughThickness: text.Scale,
	}
}

// px converts layout units to pixels.
func px(v int32) float64 { return float64(v) / text.Scale }
