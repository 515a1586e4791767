package text

// BuiltinEngine maps each character to its nominal glyph and places the
// glyphs one after the other with their advances. It serves faces without
// OpenType layout tables, such as user faces, and scripts that need no
// contextual shaping.
//
// The shaping is simple positioning without:
//   - Ligature substitution (fi, fl, etc.)
//   - Kerning pairs
//   - Contextual alternates
//   - Mark positioning
//
// BuiltinEngine is stateless and safe for concurrent use.
type BuiltinEngine struct{}

// ShapeRaw implements ShapeEngine. Characters the font does not map get
// glyph 0. Glyphs come back in logical order regardless of direction.
func (e *BuiltinEngine) ShapeRaw(req ShapeRequest) ([]RawGlyph, error) {
	if len(req.Text) == 0 {
		return nil, nil
	}
	out := make([]RawGlyph, 0, len(req.Text))
	for i, r := range req.Text {
		gid, ok := req.Font.Glyph(r)
		if !ok {
			gid = 0
		}
		out = append(out, RawGlyph{
			Glyph:   gid,
			Index:   i,
			Runes:   1,
			Advance: req.Font.GlyphAdvance(gid),
		})
	}
	return out, nil
}
