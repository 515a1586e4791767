package fontdesc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoldSize(t *testing.T) {
	d := Parse("Bold 10")

	assert.Equal(t, WeightBold, d.Weight())
	assert.Equal(t, int32(10*Scale), d.Size())
	assert.False(t, d.SizeIsAbsolute())
	assert.Equal(t, "", d.Family())
	assert.Zero(t, d.SetFields()&MaskFamily, "family must stay unset")
	assert.NotZero(t, d.SetFields()&MaskSize)
}

func TestParseFullExample(t *testing.T) {
	d := Parse("Cantarell Italic Light 15 @wght=200")

	assert.Equal(t, "Cantarell", d.Family())
	assert.Equal(t, StyleItalic, d.Style())
	assert.Equal(t, WeightLight, d.Weight())
	assert.Equal(t, int32(15*Scale), d.Size())
	assert.Equal(t, "wght=200", d.Variations())
	assert.Equal(t, MaskFamily|MaskStyle|MaskVariant|MaskWeight|MaskStretch|MaskSize|MaskVariations, d.SetFields())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		family   string
		style    Style
		weight   Weight
		stretch  Stretch
		variant  Variant
		gravity  Gravity
		size     int32
		absolute bool
		faceID   string
	}{
		{in: "", weight: WeightNormal, stretch: StretchNormal},
		{in: "Sans", family: "Sans", weight: WeightNormal, stretch: StretchNormal},
		{in: "Sans 12px", family: "Sans", weight: WeightNormal, stretch: StretchNormal, size: 12 * Scale, absolute: true},
		{in: "Sans 10.5", family: "Sans", weight: WeightNormal, stretch: StretchNormal, size: 10752},
		{in: "DejaVu Sans, Noto Sans  semibold", family: "DejaVu Sans,Noto Sans", weight: WeightSemiBold, stretch: StretchNormal},
		{in: "Serif SEMI-CONDENSED oblique", family: "Serif", style: StyleOblique, weight: WeightNormal, stretch: StretchSemiCondensed},
		{in: "Mono weight=450 small-caps", family: "Mono", weight: 450, stretch: StretchNormal, variant: VariantSmallCaps},
		{in: "Mono Rotated-Left", family: "Mono", weight: WeightNormal, stretch: StretchNormal, gravity: GravityEast},
		{in: "Bold,", family: "Bold", weight: WeightNormal, stretch: StretchNormal},
		{in: "Foo 2,", family: "Foo 2", weight: WeightNormal, stretch: StretchNormal},
		{in: "Sans Normal", family: "Sans", weight: WeightNormal, stretch: StretchNormal},
		{in: "Sans Bogus Bold", family: "Sans Bogus", weight: WeightBold, stretch: StretchNormal},
		{in: "Sans -3", family: "Sans -3", weight: WeightNormal, stretch: StretchNormal},
		{in: "Sans 12 @faceid=abc @wdth=80", family: "Sans", weight: WeightNormal, stretch: StretchNormal, size: 12 * Scale, faceID: "abc"},
		{in: "Sans weight=bold", family: "Sans", weight: WeightBold, stretch: StretchNormal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := Parse(tt.in)
			assert.Equal(t, tt.family, d.Family())
			assert.Equal(t, tt.style, d.Style())
			assert.Equal(t, tt.weight, d.Weight())
			assert.Equal(t, tt.stretch, d.Stretch())
			assert.Equal(t, tt.variant, d.Variant())
			assert.Equal(t, tt.gravity, d.Gravity())
			assert.Equal(t, tt.size, d.Size())
			assert.Equal(t, tt.absolute, d.SizeIsAbsolute())
			assert.Equal(t, tt.faceID, d.FaceID())
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Normal"},
		{"Bold 10", "Bold 10"},
		{"Cantarell Italic Light 15 @wght=200", "Cantarell Light Italic 15 @wght=200"},
		{"Sans 10.5", "Sans 10.5"},
		{"Sans 12px", "Sans 12px"},
		{"Bold,", "Bold,"},
		{"Foo 2,", "Foo 2,"},
		{"Foo 2, 12", "Foo 2 12"},
		{"Mono weight=450", "Mono weight=450"},
		{"Mono South", "Mono Not-Rotated"},
		{"Sans @faceid=x", "Sans @faceid=x"},
		{"Sans,Serif Condensed", "Sans,Serif Condensed"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in).String())
		})
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"Normal",
		"Bold 10",
		"Cantarell Italic Light 15 @wght=200",
		"DejaVu Sans, Noto Sans  semibold 9.25",
		"Sans weight=450 stretch=7",
		"Bold,",
		"Foo 2,",
		"Foo Normal,",
		"Foo @bar Normal",
		"Serif Upside-Down Ultra-Expanded Title-Caps 0.001px",
		"Mono 12 @faceid=mono-0 @wght=300,wdth=90",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			d := Parse(in)
			s := d.String()
			back := Parse(s)
			assert.True(t, d.Equal(back), "%q -> %q -> %q", in, s, back.String())
			assert.Equal(t, d.SetFields(), back.SetFields())
			assert.Equal(t, s, back.String(), "string form must be stable")
		})
	}
}

func TestStringOmitsUnsetFields(t *testing.T) {
	d := New()
	d.SetFamily("Sans")
	assert.Equal(t, "Sans", d.String())

	d.SetSize(11 * Scale)
	assert.Equal(t, "Sans 11", d.String())

	d.SetVariations("wght=100")
	d.UnsetFields(MaskSize)
	assert.Equal(t, "Sans @wght=100", d.String())
}

func TestFormatSize(t *testing.T) {
	for size := int32(0); size < 4*Scale; size += 7 {
		s := formatSize(size)
		got, _, ok := parseSize(s)
		require.True(t, ok, s)
		require.Equal(t, size, got, s)
	}
	assert.Equal(t, "12", formatSize(12*Scale))
	assert.Equal(t, "0.5", formatSize(Scale/2))
}

func TestMerge(t *testing.T) {
	base := Parse("Sans 10")
	over := New()
	over.SetWeight(WeightBold)
	over.SetSize(14 * Scale)
	over.SetFamily("Serif")

	keep := base.Merged(over, false)
	assert.Equal(t, "Sans", keep.Family())
	// Parse marks weight as set, so a non-replacing merge keeps it.
	assert.Equal(t, WeightNormal, keep.Weight())
	assert.Equal(t, int32(10*Scale), keep.Size())

	repl := base.Merged(over, true)
	assert.Equal(t, "Serif", repl.Family())
	assert.Equal(t, WeightBold, repl.Weight())
	assert.Equal(t, int32(14*Scale), repl.Size())

	empty := New()
	empty.Merge(over, false)
	assert.Equal(t, over, empty)
}

func TestUnsetFields(t *testing.T) {
	d := Parse("Sans Bold Italic 12 @wght=700")
	d.UnsetFields(MaskWeight | MaskSize | MaskVariations)

	assert.Equal(t, WeightNormal, d.Weight())
	assert.Equal(t, int32(0), d.Size())
	assert.Equal(t, "", d.Variations())
	assert.Equal(t, StyleItalic, d.Style())
	assert.Zero(t, d.SetFields()&(MaskWeight|MaskSize|MaskVariations))
}

func TestSetGravityAutoUnsets(t *testing.T) {
	d := New()
	d.SetGravity(GravityWest)
	require.NotZero(t, d.SetFields()&MaskGravity)

	d.SetGravity(GravityAuto)
	assert.Zero(t, d.SetFields()&MaskGravity)
	assert.Equal(t, GravitySouth, d.Gravity())
}

func TestEqualAndHash(t *testing.T) {
	a := Parse("DejaVu Sans Bold 12")
	b := Parse("dejavu sans bold 12")
	c := Parse("DejaVu Sans Bold 13")

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))

	// Equality ignores the mask.
	d := New()
	d.SetFamily("DejaVu Sans")
	d.SetWeight(WeightBold)
	d.SetSize(12 * Scale)
	assert.True(t, a.Equal(d))
	assert.Equal(t, a.Hash(), d.Hash())
}

func TestDistance(t *testing.T) {
	req := Parse("Bold Italic")

	assert.Equal(t, 0, req.Distance(Parse("Bold Italic")))
	assert.Equal(t, 100, req.Distance(Parse("Ultra-Bold Italic")))
	assert.Equal(t, 2, req.Distance(Parse("Bold Italic Condensed")))
	assert.Equal(t, DefaultStylePenalty+300, req.Distance(Parse("Normal Oblique")))
	assert.Equal(t, math.MaxInt, req.Distance(Parse("Bold")))
	assert.Equal(t, 7+300, req.DistanceWithPenalty(Parse("Oblique"), 7))
}

func TestBetterMatch(t *testing.T) {
	req := Parse("Bold")
	regular := Parse("Regular")
	bold := Parse("Bold")
	italic := Parse("Italic")
	caps := Parse("Bold Small-Caps")

	assert.True(t, req.BetterMatch(nil, regular))
	assert.True(t, req.BetterMatch(&regular, bold))
	assert.False(t, req.BetterMatch(&bold, regular))
	assert.False(t, req.BetterMatch(nil, italic), "style mismatch is never a match")
	assert.False(t, req.BetterMatch(nil, caps), "variant must match exactly")
}

func TestFamilies(t *testing.T) {
	assert.Equal(t, []string{"A", "B C", "D"}, Parse("A, B C ,D,").Families())
	assert.Nil(t, Parse("Bold").Families())
}

func TestKeywordMatches(t *testing.T) {
	assert.True(t, keywordMatches("Semi-Bold", "semibold"))
	assert.True(t, keywordMatches("Semi-Bold", "SEMI-BOLD"))
	assert.False(t, keywordMatches("Semi-Bold", "semi"))
	assert.False(t, keywordMatches("Bold", "bolder"))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "Italic", StyleItalic.String())
	assert.Equal(t, "Normal", WeightNormal.String())
	assert.Equal(t, "Semi-Bold", WeightSemiBold.String())
	assert.Equal(t, "weight=450", Weight(450).String())
	assert.Equal(t, "Ultra-Condensed", StretchUltraCondensed.String())
	assert.Equal(t, "Small-Caps", VariantSmallCaps.String())
	assert.Equal(t, "Auto", GravityAuto.String())
	assert.Equal(t, "Rotated-Left", GravityEast.String())
	assert.True(t, GravityWest.IsVertical())
	assert.InDelta(t, 0.75, StretchCondensed.Factor(), 1e-6)
}
