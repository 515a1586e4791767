// Package font resolves font descriptions to concrete fonts.
//
// A Face is a font design: one style of one family, loaded from an
// OpenType file (NativeFace) or driven by callbacks (UserFace). A Font is a
// Face instantiated at a pixel size with variation settings. FontMap
// collects faces, hands out Fontsets for descriptions and carries a serial
// that bumps on every change so that dependent caches can invalidate.
package font

import (
	"strings"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout/fontdesc"
)

type (
	// GID is a glyph index within a face.
	GID = gotext.GID

	// GlyphExtents is the ink box of a glyph in font units, y growing up.
	// Height is negative for glyphs that extend below their bearing.
	GlyphExtents = gotext.GlyphExtents

	// FontExtents holds the ascender, descender and line gap of a face in
	// font units. The descender is negative.
	FontExtents = gotext.FontExtents

	// GlyphOutline is a glyph contour in font units, y growing up.
	GlyphOutline = gotext.GlyphOutline

	// Variation is one variable font axis setting.
	Variation = gotext.Variation
)

// Face is a font design that can be instantiated at any size.
//
// Face is implemented by *NativeFace and *UserFace only.
type Face interface {
	// Describe returns the family, style, weight and stretch of the face.
	// The size field is never set.
	Describe() fontdesc.Description

	// ID identifies the face within a FontMap. It contains no whitespace,
	// so it can pin the face with "@faceid=".
	ID() string

	// HasChar reports whether the face maps r to a glyph.
	HasChar(r rune) bool

	// SupportsLanguage reports whether the face covers the letters commonly
	// used to write lang.
	SupportsLanguage(lang language.Language) bool

	instance(variations []Variation) instance
}

// instance is a face bound to variation coordinates. All values are in font
// units. Implementations are safe for concurrent use.
type instance interface {
	upem() float32
	glyph(r rune) (GID, bool)
	advance(gid GID) float32
	glyphExtents(gid GID) (GlyphExtents, bool)
	fontExtents() (FontExtents, bool)
	lineMetric(m gotext.LineMetric) float32
	glyphData(gid GID) gotext.GlyphData
}

// sanitizeID turns a name into a face ID by dropping whitespace.
func sanitizeID(s string) string {
	return strings.Join(strings.Fields(s), "-")
}
