package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// GoTextEngine shapes native faces with go-text/typesetting's HarfBuzz
// port. It supports OpenType layout features including:
//   - Ligature substitution (fi, fl, ffi, etc.)
//   - Kerning pairs (AV, To, etc.)
//   - Contextual alternates
//   - Right-to-left text (Arabic, Hebrew)
//   - Complex scripts (Devanagari, Thai, etc.)
//
// GoTextEngine is safe for concurrent use. Each call borrows a font.Face
// from the Font (font.Face is NOT safe for concurrent use) and a
// HarfbuzzShaper from a pool, since shapers carry a mutable buffer.
type GoTextEngine struct {
	shaperPool sync.Pool
}

// NewGoTextEngine creates a new GoTextEngine.
func NewGoTextEngine() *GoTextEngine {
	return &GoTextEngine{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// ShapeRaw implements ShapeEngine. It returns ErrUnsupportedFont for fonts
// without OpenType data, such as user faces.
func (e *GoTextEngine) ShapeRaw(req ShapeRequest) ([]RawGlyph, error) {
	if len(req.Text) == 0 {
		return nil, nil
	}
	face := req.Font.AcquireShapingFace()
	if face == nil {
		return nil, ErrUnsupportedFont
	}
	defer req.Font.ReleaseShapingFace(face)

	input := shaping.Input{
		Text:         req.Text,
		RunStart:     0,
		RunEnd:       len(req.Text),
		Direction:    mapDirection(req.Direction),
		Face:         face,
		FontFeatures: mapFeatures(req.Features),
		Size:         unitsToFixed(req.Font.Size()),
		Script:       req.Script,
		Language:     req.Language,
	}

	hb := e.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	e.shaperPool.Put(hb)

	return convertGlyphs(output.Glyphs), nil
}

// mapDirection converts a strong Direction to go-text's di.Direction.
func mapDirection(d Direction) di.Direction {
	if d == DirectionRTL {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

func mapFeatures(fs []Feature) []shaping.FontFeature {
	if len(fs) == 0 {
		return nil
	}
	out := make([]shaping.FontFeature, len(fs))
	for i, f := range fs {
		out[i] = shaping.FontFeature{Tag: f.Tag, Value: f.Value}
	}
	return out
}

// unitsToFixed converts 1/Scale pixel units to 26.6 fixed point.
func unitsToFixed(v int32) fixed.Int26_6 {
	return fixed.Int26_6((int64(v)*64 + Scale/2) / Scale)
}

// fixedToUnits converts 26.6 fixed point to 1/Scale pixel units.
func fixedToUnits(v fixed.Int26_6) int32 {
	return int32(v) * (Scale / 64)
}

// convertGlyphs converts go-text output glyphs, whose y axis grows up, to
// raw glyphs.
func convertGlyphs(glyphs []shaping.Glyph) []RawGlyph {
	if len(glyphs) == 0 {
		return nil
	}
	out := make([]RawGlyph, len(glyphs))
	for i, g := range glyphs {
		out[i] = RawGlyph{
			Glyph:   g.GlyphID,
			Index:   g.TextIndex(),
			Runes:   max(g.RunesCount(), 1),
			Advance: fixedToUnits(g.Advance),
			XOffset: fixedToUnits(g.XOffset),
			YOffset: -fixedToUnits(g.YOffset),
		}
	}
	return out
}
