package font

import (
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout/fontdesc"
)

// UserFuncs are the callbacks behind a UserFace. All values are in font
// units. Glyph and Advance are required.
type UserFuncs struct {
	// Glyph maps a rune to a glyph.
	Glyph func(r rune) (GID, bool)

	// Advance returns the horizontal advance of a glyph.
	Advance func(gid GID) float32

	// Extents returns the ink box of a glyph. When nil, glyphs span their
	// advance and the font's ascender and descender.
	Extents func(gid GID) (GlyphExtents, bool)

	// Outline returns the contour of a glyph for rendering. When nil the
	// face draws nothing.
	Outline func(gid GID) (GlyphOutline, bool)
}

// UserFace is a face whose glyphs and metrics come from callbacks. It is
// useful for synthetic fonts and for tests that need exact metrics.
//
// The callbacks must be safe for concurrent use.
type UserFace struct {
	desc     fontdesc.Description
	id       string
	units    float32
	extents  FontExtents
	funcs    UserFuncs
	coverage *Coverage
}

// NewUserFace returns a face described by desc with upem units per em and
// the given font extents. The size field of desc is ignored.
func NewUserFace(desc fontdesc.Description, upem uint16, extents FontExtents, funcs UserFuncs) *UserFace {
	if funcs.Glyph == nil || funcs.Advance == nil {
		panic("font: UserFuncs.Glyph and UserFuncs.Advance are required")
	}
	desc.UnsetFields(fontdesc.MaskSize | fontdesc.MaskVariations | fontdesc.MaskFaceID | fontdesc.MaskGravity)
	if upem == 0 {
		upem = 1000
	}
	return &UserFace{
		desc:     desc,
		id:       "user:" + sanitizeID(desc.String()),
		units:    float32(upem),
		extents:  extents,
		funcs:    funcs,
		coverage: NewCoverage(),
	}
}

func (f *UserFace) Describe() fontdesc.Description { return f.desc }
func (f *UserFace) ID() string                     { return f.id }

func (f *UserFace) HasChar(r rune) bool {
	return f.coverage.Lookup(r, func(r rune) bool {
		_, ok := f.funcs.Glyph(r)
		return ok
	})
}

func (f *UserFace) SupportsLanguage(lang language.Language) bool {
	return supportsLanguage(lang, f.HasChar)
}

// User faces have no variation axes; one instance serves every Font.
func (f *UserFace) instance([]Variation) instance { return f }

func (f *UserFace) upem() float32 { return f.units }

func (f *UserFace) glyph(r rune) (GID, bool) { return f.funcs.Glyph(r) }

func (f *UserFace) advance(gid GID) float32 { return f.funcs.Advance(gid) }

func (f *UserFace) glyphExtents(gid GID) (GlyphExtents, bool) {
	if f.funcs.Extents != nil {
		return f.funcs.Extents(gid)
	}
	return GlyphExtents{
		XBearing: 0,
		YBearing: f.extents.Ascender,
		Width:    f.funcs.Advance(gid),
		Height:   f.extents.Descender - f.extents.Ascender,
	}, true
}

func (f *UserFace) fontExtents() (FontExtents, bool) { return f.extents, true }

func (f *UserFace) lineMetric(gotext.LineMetric) float32 { return 0 }

func (f *UserFace) glyphData(gid GID) gotext.GlyphData {
	if f.funcs.Outline == nil {
		return nil
	}
	if o, ok := f.funcs.Outline(gid); ok {
		return o
	}
	return nil
}
