package text

import (
	"testing"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout/font"
	"github.com/gogpu/textlayout/fontdesc"
)

// Metrics of the test face at 20px: every glyph advances 10px, the
// ascent is 16px and the descent 4px.
const (
	testAdvance    int32 = 10 * Scale
	testAscent     int32 = 16 * Scale
	testDescent    int32 = 4 * Scale
	testLineHeight       = testAscent + testDescent
)

// testCovers reports whether the test face maps r: printable ASCII and the
// Hebrew letters.
func testCovers(r rune) bool {
	return (r >= 0x20 && r <= 0x7E) || (r >= 0x05D0 && r <= 0x05EA)
}

// newTestFace returns a user face with 1000 units per em whose glyph for r
// is r itself. Every glyph advances by 500 units.
func newTestFace(family string, covers func(rune) bool) *font.UserFace {
	d := fontdesc.New()
	d.SetFamily(family)
	return font.NewUserFace(d, 1000, font.FontExtents{Ascender: 800, Descender: -200}, font.UserFuncs{
		Glyph: func(r rune) (font.GID, bool) {
			if !covers(r) {
				return 0, false
			}
			return font.GID(r), true
		},
		Advance: func(font.GID) float32 { return 500 },
	})
}

func newTestFontMap(t *testing.T) *font.FontMap {
	t.Helper()
	fm := font.NewFontMap(font.WithDefaultFamily("Test"))
	if !fm.AddFace(newTestFace("Test", testCovers)) {
		t.Fatal("AddFace rejected the test face")
	}
	return fm
}

func newTestContext(t *testing.T, opts ...ContextOption) *Context {
	t.Helper()
	base := []ContextOption{
		WithFontDescription(fontdesc.Parse("Test 20px")),
		WithLanguage(language.NewLanguage("en")),
	}
	ctx, err := NewContext(newTestFontMap(t), append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}

func newTestLayout(t *testing.T, s string, opts ...ContextOption) *Layout {
	t.Helper()
	l := NewLayout(newTestContext(t, opts...))
	l.SetText(s)
	return l
}

// testFont returns the primary font of ctx.
func testFont(t *testing.T, ctx *Context) *font.Font {
	t.Helper()
	f := ctx.LoadFontset(ctx.FontDescription()).Primary()
	if f == nil {
		t.Fatal("no primary font")
	}
	return f
}

// lineTexts returns the text of every line.
func lineTexts(l *Layout) []string {
	var out []string
	for _, line := range l.Lines() {
		out = append(out, l.Text()[line.Start:line.End()])
	}
	return out
}

// checkPartition fails unless items cover [start, end) of text in order
// without gaps, each with the right character count.
func checkPartition(t *testing.T, text string, start, end int, items []*Item) {
	t.Helper()
	pos := start
	for i, it := range items {
		if it.Offset != pos {
			t.Fatalf("item %d starts at %d, want %d", i, it.Offset, pos)
		}
		if it.Length <= 0 {
			t.Fatalf("item %d is empty", i)
		}
		if n := len([]rune(text[it.Offset:it.End()])); n != it.NumChars {
			t.Fatalf("item %d has NumChars %d for %d characters", i, it.NumChars, n)
		}
		pos = it.End()
	}
	if pos != end {
		t.Fatalf("items end at %d, want %d", pos, end)
	}
}
