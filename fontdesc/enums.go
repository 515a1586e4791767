package fontdesc

import "strconv"

// Style is the slant of a font.
type Style int

const (
	// StyleNormal is upright text.
	StyleNormal Style = iota
	// StyleOblique is slanted text, usually synthesized from the roman face.
	StyleOblique
	// StyleItalic is a dedicated italic design.
	StyleItalic
)

// String returns the keyword for the style ("Normal" for the default).
func (s Style) String() string {
	if s == StyleNormal {
		return "Normal"
	}
	return keywordFor(styleMap, int(s), "style")
}

// Variant selects capital letter forms.
type Variant int

const (
	VariantNormal Variant = iota
	VariantSmallCaps
	VariantAllSmallCaps
	VariantPetiteCaps
	VariantAllPetiteCaps
	VariantUnicase
	VariantTitleCaps
)

// String returns the keyword for the variant.
func (v Variant) String() string {
	if v == VariantNormal {
		return "Normal"
	}
	return keywordFor(variantMap, int(v), "variant")
}

// Weight is the boldness of a font, from 100 (thin) to 1000 (ultra heavy).
// Any integer in that range is valid; the constants name the common stops.
type Weight int

const (
	WeightThin       Weight = 100
	WeightUltraLight Weight = 200
	WeightLight      Weight = 300
	WeightSemiLight  Weight = 350
	WeightBook       Weight = 380
	WeightNormal     Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightUltraBold  Weight = 800
	WeightHeavy      Weight = 900
	WeightUltraHeavy Weight = 1000
)

// String returns the keyword for the weight, or "weight=N" for values
// between the named stops.
func (w Weight) String() string {
	if w == WeightNormal {
		return "Normal"
	}
	return keywordFor(weightMap, int(w), "weight")
}

// Stretch is the width of a font relative to its normal design.
type Stretch int

const (
	StretchUltraCondensed Stretch = iota
	StretchExtraCondensed
	StretchCondensed
	StretchSemiCondensed
	StretchNormal
	StretchSemiExpanded
	StretchExpanded
	StretchExtraExpanded
	StretchUltraExpanded
)

// String returns the keyword for the stretch.
func (s Stretch) String() string {
	if s == StretchNormal {
		return "Normal"
	}
	return keywordFor(stretchMap, int(s), "stretch")
}

// Factor returns the width scale of the stretch, 1 for normal.
// The values follow the OpenType usWidthClass percentages.
func (s Stretch) Factor() float32 {
	switch s {
	case StretchUltraCondensed:
		return 0.5
	case StretchExtraCondensed:
		return 0.625
	case StretchCondensed:
		return 0.75
	case StretchSemiCondensed:
		return 0.875
	case StretchSemiExpanded:
		return 1.125
	case StretchExpanded:
		return 1.25
	case StretchExtraExpanded:
		return 1.5
	case StretchUltraExpanded:
		return 2
	default:
		return 1
	}
}

// Gravity is the orientation of glyphs relative to the baseline.
type Gravity int

const (
	// GravitySouth is upright text, the default.
	GravitySouth Gravity = iota
	// GravityEast rotates glyphs 90 degrees counter-clockwise.
	GravityEast
	// GravityNorth is upside down.
	GravityNorth
	// GravityWest rotates glyphs 90 degrees clockwise.
	GravityWest
	// GravityAuto lets the context pick the gravity from the script.
	GravityAuto
)

// String returns the keyword for the gravity.
func (g Gravity) String() string {
	if g == GravityAuto {
		return "Auto"
	}
	return keywordFor(gravityMap, int(g), "gravity")
}

// IsVertical reports whether glyphs are rotated sideways.
func (g Gravity) IsVertical() bool {
	return g == GravityEast || g == GravityWest
}

// fieldEntry is one keyword of a style vocabulary. Several keywords can
// share a value; the first one is used when formatting.
type fieldEntry struct {
	value   int
	keyword string
}

var styleMap = []fieldEntry{
	{int(StyleNormal), ""},
	{int(StyleNormal), "Roman"},
	{int(StyleOblique), "Oblique"},
	{int(StyleItalic), "Italic"},
}

var variantMap = []fieldEntry{
	{int(VariantNormal), ""},
	{int(VariantSmallCaps), "Small-Caps"},
	{int(VariantAllSmallCaps), "All-Small-Caps"},
	{int(VariantPetiteCaps), "Petite-Caps"},
	{int(VariantAllPetiteCaps), "All-Petite-Caps"},
	{int(VariantUnicase), "Unicase"},
	{int(VariantTitleCaps), "Title-Caps"},
}

var weightMap = []fieldEntry{
	{int(WeightThin), "Thin"},
	{int(WeightUltraLight), "Ultra-Light"},
	{int(WeightUltraLight), "Extra-Light"},
	{int(WeightLight), "Light"},
	{int(WeightSemiLight), "Semi-Light"},
	{int(WeightSemiLight), "Demi-Light"},
	{int(WeightBook), "Book"},
	{int(WeightNormal), ""},
	{int(WeightNormal), "Regular"},
	{int(WeightMedium), "Medium"},
	{int(WeightSemiBold), "Semi-Bold"},
	{int(WeightSemiBold), "Demi-Bold"},
	{int(WeightBold), "Bold"},
	{int(WeightUltraBold), "Ultra-Bold"},
	{int(WeightUltraBold), "Extra-Bold"},
	{int(WeightHeavy), "Heavy"},
	{int(WeightHeavy), "Black"},
	{int(WeightUltraHeavy), "Ultra-Heavy"},
	{int(WeightUltraHeavy), "Extra-Heavy"},
	{int(WeightUltraHeavy), "Ultra-Black"},
	{int(WeightUltraHeavy), "Extra-Black"},
}

var stretchMap = []fieldEntry{
	{int(StretchUltraCondensed), "Ultra-Condensed"},
	{int(StretchExtraCondensed), "Extra-Condensed"},
	{int(StretchCondensed), "Condensed"},
	{int(StretchSemiCondensed), "Semi-Condensed"},
	{int(StretchNormal), ""},
	{int(StretchSemiExpanded), "Semi-Expanded"},
	{int(StretchExpanded), "Expanded"},
	{int(StretchExtraExpanded), "Extra-Expanded"},
	{int(StretchUltraExpanded), "Ultra-Expanded"},
}

var gravityMap = []fieldEntry{
	{int(GravitySouth), "Not-Rotated"},
	{int(GravitySouth), "South"},
	{int(GravityNorth), "Upside-Down"},
	{int(GravityNorth), "North"},
	{int(GravityEast), "Rotated-Left"},
	{int(GravityEast), "East"},
	{int(GravityWest), "Rotated-Right"},
	{int(GravityWest), "West"},
}

// keywordFor returns the first keyword registered for value, or the raw
// "what=value" form when the vocabulary has none. An empty keyword (the
// default value) yields "".
func keywordFor(table []fieldEntry, value int, what string) string {
	for _, e := range table {
		if e.value == value {
			return e.keyword
		}
	}
	return what + "=" + strconv.Itoa(value)
}

// keywordMatches reports whether word equals keyword, ignoring ASCII case
// and any hyphens of keyword, so "semibold" and "SEMI-BOLD" both match
// "Semi-Bold".
func keywordMatches(keyword, word string) bool {
	i, j := 0, 0
	for i < len(keyword) && j < len(word) {
		c1, c2 := toLower(keyword[i]), toLower(word[j])
		if c1 != c2 {
			if c1 == '-' {
				i++
				continue
			}
			return false
		}
		i++
		j++
	}
	return j == len(word) && i == len(keyword)
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// lookupField matches word against table. The word may also take the
// explicit "what=VALUE" form, where VALUE is a keyword or a non-negative
// integer.
func lookupField(what string, table []fieldEntry, word string) (int, bool) {
	prefixed := false
	if len(word) > len(what) && word[:len(what)] == what && word[len(what)] == '=' {
		word = word[len(what)+1:]
		prefixed = true
	}
	for _, e := range table {
		if e.keyword != "" && keywordMatches(e.keyword, word) {
			return e.value, true
		}
	}
	if !prefixed {
		return 0, false
	}
	n, err := strconv.Atoi(word)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
