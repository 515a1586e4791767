package render

import (
	"image/color"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textlayout/font"
	"github.com/gogpu/textlayout/fontdesc"
	"github.com/gogpu/textlayout/text"
)

func newTestLayout(t *testing.T, s string, attrs ...text.Attribute) *text.Layout {
	t.Helper()
	fm := font.NewFontMap(font.WithDefaultFamily("Go"))
	if _, err := fm.AddFontData(goregular.TTF); err != nil {
		t.Fatalf("AddFontData: %v", err)
	}
	ctx, err := text.NewContext(fm, text.WithFontDescription(fontdesc.Parse("Go 20px")))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	l := text.NewLayout(ctx)
	l.SetText(s)
	if len(attrs) > 0 {
		l.SetAttributes(text.NewAttrList(attrs...))
	}
	return l
}

type paintCall struct {
	g    text.Glyph
	x, y float64
	c    color.RGBA
}

// recorder records what Draw asks of a backend.
type recorder struct {
	color  color.RGBA
	glyphs []paintCall
	rects  int
}

func (r *recorder) PaintGlyph(_ *font.Font, g text.Glyph, x, y float64) {
	r.glyphs = append(r.glyphs, paintCall{g: g, x: x, y: y, c: r.color})
}

func (r *recorder) GlyphExtents(f *font.Font, g text.Glyph) (ink, logical text.Rectangle) {
	return text.GlyphExtents(f, g)
}

func (r *recorder) SetColor(c color.RGBA) { r.color = c }

func (r *recorder) FillRect(_, _, _, _ float64) { r.rects++ }

func TestDrawPaintsGlyphsInOrder(t *testing.T) {
	l := newTestLayout(t, "Hello")
	rec := &recorder{}
	black := color.RGBA{A: 0xff}
	Draw(rec, l, 5, 7, black)

	if len(rec.glyphs) != 5 {
		t.Fatalf("painted %d glyphs, want 5", len(rec.glyphs))
	}
	baseline := 7 + float64(l.Baseline())/text.Scale
	for i, c := range rec.glyphs {
		if c.y != baseline {
			t.Errorf("glyph %d at y=%v, want %v", i, c.y, baseline)
		}
		if c.c != black {
			t.Errorf("glyph %d color %v, want %v", i, c.c, black)
		}
		if i > 0 && c.x <= rec.glyphs[i-1].x {
			t.Errorf("glyph %d at x=%v not right of %v", i, c.x, rec.glyphs[i-1].x)
		}
	}
	if rec.glyphs[0].x != 5 {
		t.Errorf("first glyph at x=%v, want 5", rec.glyphs[0].x)
	}
	if rec.rects != 0 {
		t.Errorf("filled %d rectangles without decorations", rec.rects)
	}
}

func TestDrawForegroundAndDecorations(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	l := newTestLayout(t, "ab cd",
		text.ForegroundAttr(red).In(0, 2),
		text.UnderlineAttr(text.UnderlineDouble).In(0, 2),
		text.StrikethroughAttr(true).In(3, 5),
	)
	rec := &recorder{}
	Draw(rec, l, 0, 0, color.RGBA{A: 0xff})

	if got := rec.glyphs[0].c; got != red {
		t.Errorf("first glyph color %v, want %v", got, red)
	}
	if got := rec.glyphs[len(rec.glyphs)-1].c; got == red {
		t.Errorf("last glyph painted in the foreground of the first run")
	}
	if rec.rects != 3 {
		t.Errorf("filled %d rectangles, want 3 (two underlines and a strikethrough)", rec.rects)
	}
}

func TestDrawUnknownGlyph(t *testing.T) {
	l := newTestLayout(t, "a\U0001F600")
	if n := l.UnknownGlyphsCount(); n != 1 {
		t.Fatalf("UnknownGlyphsCount = %d, want 1", n)
	}
	rec := &recorder{}
	Draw(rec, l, 0, 0, color.RGBA{A: 0xff})
	var unknown int
	for _, c := range rec.glyphs {
		if c.g.IsUnknown() {
			unknown++
			if c.g.Rune() != 0x1F600 {
				t.Errorf("unknown glyph for %U", c.g.Rune())
			}
		}
	}
	if unknown != 1 {
		t.Errorf("painted %d unknown glyphs, want 1", unknown)
	}
}

func TestRasterPaintsInk(t *testing.T) {
	l := newTestLayout(t, "Hx")
	_, logical := l.PixelExtents()
	r := NewRaster(logical.Dx()+4, logical.Dy()+4)
	Draw(r, l, 2, 2, color.RGBA{A: 0xff})

	img := r.Image()
	var painted int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			painted++
		}
	}
	if painted == 0 {
		t.Fatal("no pixel painted")
	}

	// The top left corner is above the cap height of H.
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
}

func TestRasterBoxAndClear(t *testing.T) {
	r := NewRaster(40, 40)
	r.Clear(color.White)
	if c := r.Image().RGBAAt(10, 10); c != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Fatalf("Clear left %v", c)
	}
	r.SetColor(color.RGBA{B: 0xff, A: 0xff})
	r.PaintGlyph(nil, text.UnknownGlyph('x'), 10, 30)

	ink, _ := text.GlyphExtents(nil, text.UnknownGlyph('x'))
	left := 10 + int(ink.X/text.Scale)
	top := 30 + int(ink.Y/text.Scale)
	if c := r.Image().RGBAAt(left, top); c.B != 0xff || c.R != 0 {
		t.Errorf("box corner = %v, want blue", c)
	}
	// The inside of the box stays clear.
	if c := r.Image().RGBAAt(left+4, top+6); c.R != 0xff {
		t.Errorf("box inside = %v, want white", c)
	}
}

func TestRasterCachesMasks(t *testing.T) {
	l := newTestLayout(t, "aaaa")
	r := NewRaster(200, 60)
	Draw(r, l, 0, 0, color.RGBA{A: 0xff})
	st := r.masks.Stats()
	if st.Len == 0 || st.Len > 4 {
		t.Errorf("cached %d masks for one glyph at 4 subpixel offsets", st.Len)
	}
	if st.Hits+st.Misses != 4 {
		t.Errorf("lookups = %d, want 4", st.Hits+st.Misses)
	}
}
