package text

import (
	"math/rand/v2"
	"testing"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout/font"
	"github.com/gogpu/textlayout/fontdesc"
)

// newTwoFaceContext returns a context whose map holds the test face and an
// "Other" face covering Cyrillic and combining marks.
func newTwoFaceContext(t *testing.T) (*Context, *font.UserFace) {
	t.Helper()
	fm := newTestFontMap(t)
	other := newTestFace("Other", func(r rune) bool {
		return (r >= 0x0400 && r <= 0x04FF) || (r >= 0x0300 && r <= 0x036F)
	})
	fm.AddFace(other)
	ctx, err := NewContext(fm,
		WithFontDescription(fontdesc.Parse("Test 20px")),
		WithLanguage(language.NewLanguage("en")))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx, other
}

func TestItemizeMixedDirections(t *testing.T) {
	ctx := newTestContext(t)
	items := Itemize(ctx, mixed, 0, len(mixed), nil)
	checkPartition(t, mixed, 0, len(mixed), items)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: %v", len(items), items)
	}
	for i, want := range []uint8{0, 1, 0} {
		if got := items[i].Analysis.Level; got%2 != want {
			t.Errorf("item %d level %d, want parity of %d", i, got, want)
		}
	}
	if items[1].Analysis.Script != language.Hebrew {
		t.Errorf("middle item script = %s", items[1].Analysis.Script)
	}

	visual := ReorderItems(items, func(it *Item) uint8 { return it.Analysis.Level })
	for i := range items {
		if visual[i] != items[i] {
			t.Errorf("visual position %d holds %v, want %v", i, visual[i], items[i])
		}
	}
}

func TestItemizeSubrange(t *testing.T) {
	ctx := newTestContext(t)
	text := "abc def"
	items := Itemize(ctx, text, 4, 3, nil)
	checkPartition(t, text, 4, 7, items)

	if items := Itemize(ctx, text, 3, 0, nil); items != nil {
		t.Errorf("empty range gave %v", items)
	}
	if items := Itemize(ctx, text, 5, 100, nil); len(items) == 0 || items[len(items)-1].End() != len(text) {
		t.Errorf("range past the text gave %v", items)
	}
}

func TestItemizeAttributeBoundaries(t *testing.T) {
	ctx := newTestContext(t)
	text := "abcdef"
	items := Itemize(ctx, text, 0, len(text), NewAttrList(RiseAttr(3*Scale).In(2, 4)))
	checkPartition(t, text, 0, len(text), items)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[1].Analysis.Extra.Rise != 3*Scale || items[0].Analysis.Extra.Rise != 0 {
		t.Errorf("rise = %d, %d", items[0].Analysis.Extra.Rise, items[1].Analysis.Extra.Rise)
	}
}

func TestItemizeMergesEqualAnalyses(t *testing.T) {
	ctx := newTestContext(t)
	text := "abcdef"
	// The family attribute selects the font already in use.
	items := Itemize(ctx, text, 0, len(text), NewAttrList(FamilyAttr("Test").In(0, 3)))
	if len(items) != 1 || items[0].NumChars != 6 {
		t.Errorf("items = %v, want one item", items)
	}
}

func TestItemizeTabsAreSeparate(t *testing.T) {
	ctx := newTestContext(t)
	text := "a\t\tb"
	items := Itemize(ctx, text, 0, len(text), nil)
	checkPartition(t, text, 0, len(text), items)
	if len(items) != 4 {
		t.Errorf("got %d items, want 4: %v", len(items), items)
	}
}

func TestItemizeEmoji(t *testing.T) {
	ctx := newTestContext(t)
	text := "a\U0001F600b"
	items := Itemize(ctx, text, 0, len(text), nil)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[1].Analysis.Flags&FlagEmoji == 0 || items[0].Analysis.Flags&FlagEmoji != 0 {
		t.Errorf("emoji flags = %v, %v", items[0].Analysis.Flags, items[1].Analysis.Flags)
	}
	if items[1].Analysis.Font == nil {
		t.Error("uncovered character must get the primary font")
	}
}

func TestItemizeFontFallback(t *testing.T) {
	ctx, other := newTwoFaceContext(t)
	text := "a\u0416"
	items := Itemize(ctx, text, 0, len(text), nil)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if f := items[1].Analysis.Font; f == nil || f.Face() != other {
		t.Errorf("Cyrillic item font = %v, want the Other face", f)
	}

	items = Itemize(ctx, text, 0, len(text), NewAttrList(FallbackAttr(false)))
	if f := items[len(items)-1].Analysis.Font; f == nil || f.Face() == other {
		t.Errorf("without fallback the Cyrillic item font = %v, want the primary font", f)
	}
}

func TestItemizeMarksKeepFont(t *testing.T) {
	ctx, _ := newTwoFaceContext(t)
	text := "e\u0301"
	items := Itemize(ctx, text, 0, len(text), nil)
	if len(items) != 1 {
		t.Fatalf("got %d items, want the mark in the item of its base", len(items))
	}
	if items[0].Analysis.Script != language.Latin {
		t.Errorf("script = %s, want Latin", items[0].Analysis.Script)
	}
}

func TestItemizeStateFromAttributes(t *testing.T) {
	ctx := newTestContext(t)
	text := "abc"
	attrs := NewAttrList(
		FeaturesAttr("liga=0"),
		FeaturesAttr("kern"),
		UnderlineAttr(UnderlineDouble),
		StrikethroughAttr(true),
		LetterSpacingAttr(Scale),
		LanguageAttr(language.NewLanguage("he")),
		GravityAttr(fontdesc.GravityAuto),
	)
	items := Itemize(ctx, text, 0, len(text), attrs)
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	a := items[0].Analysis
	if a.Features != "liga=0,kern" {
		t.Errorf("features = %q", a.Features)
	}
	if a.Extra.Underline != UnderlineDouble || !a.Extra.Strikethrough || a.Extra.LetterSpacing != Scale {
		t.Errorf("extra = %+v", a.Extra)
	}
	if a.Language != language.NewLanguage("he") {
		t.Errorf("language = %s", a.Language)
	}
	if a.Gravity != fontdesc.GravitySouth {
		t.Errorf("auto gravity resolved to %v", a.Gravity)
	}
}

func TestItemizeScale(t *testing.T) {
	ctx := newTestContext(t)
	text := "abc"
	attrs := NewAttrList(ScaleAttr(2).In(1, 2), ScaleAttr(3).In(2, 3), ScaleAttr(0.5).In(2, 3))
	items := Itemize(ctx, text, 0, len(text), attrs)
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	base := items[0].Analysis.Font.Size()
	if got := items[1].Analysis.Font.Size(); got != 2*base {
		t.Errorf("scaled size = %d, want %d", got, 2*base)
	}
	// The last scale wins instead of compounding.
	if got := items[2].Analysis.Font.Size(); got != base/2 {
		t.Errorf("rescaled size = %d, want %d", got, base/2)
	}
}

func TestItemizePartitionRandom(t *testing.T) {
	ctx := newTestContext(t)
	alphabet := []rune("ab c,1\u05e9\u05dc\t\u0301\U0001F600\u0416(")
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 0; n < 300; n++ {
		runes := make([]rune, 1+rng.IntN(20))
		for i := range runes {
			runes[i] = alphabet[rng.IntN(len(alphabet))]
		}
		text := string(runes)
		attrs := NewAttrList()
		for k := rng.IntN(3); k > 0; k-- {
			s := rng.IntN(len(text))
			e := s + rng.IntN(len(text)-s+1)
			attrs.Insert(RiseAttr(int32(rng.IntN(3))).In(s, e))
		}
		start := rng.IntN(len(text))
		for start > 0 && !isRuneStart(text[start]) {
			start--
		}
		items := Itemize(ctx, text, start, len(text)-start, attrs)
		checkPartition(t, text, start, len(text), items)
	}
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
