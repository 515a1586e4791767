package text

import (
	"errors"
	"slices"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout"
	"github.com/gogpu/textlayout/font"
)

var errNoGlyphs = errors.New("text: shape engine returned no glyphs")

// shapeKey identifies a shaped run in the cache of a Context.
type shapeKey struct {
	font     *font.Font
	text     string
	script   language.Script
	lang     language.Language
	level    uint8
	features string
	spacing  int32
	flags    AnalysisFlags
}

// shapeWarned records fonts whose engine failure was already logged.
var shapeWarned sync.Map

// Shape converts text, which has the analysis a, into glyphs. The result
// maps back to every character of text: characters without a glyph of
// their own are covered by the cluster of a neighbor or by an empty
// glyph. Glyphs are in visual order.
//
// ctx supplies the shape engine and the shaped-run cache; a nil ctx uses
// DefaultEngine without caching. Shape never fails: if the engine fails or
// a is without a font, every character becomes an unknown glyph.
func Shape(ctx *Context, text string, a *Analysis) *GlyphString {
	if ctx == nil || ctx.shaped == nil {
		engine := DefaultEngine()
		if ctx != nil {
			engine = ctx.cfg.engine
		}
		return shapeText(engine, text, a)
	}
	key := shapeKey{
		font:     a.Font,
		text:     text,
		script:   a.Script,
		lang:     a.Language,
		level:    a.Level,
		features: a.Features,
		spacing:  a.Extra.LetterSpacing,
		flags:    a.Flags,
	}
	if gs, ok := ctx.shaped.Get(key); ok {
		return gs.Copy()
	}
	gs := shapeText(ctx.cfg.engine, text, a)
	ctx.shaped.Set(key, gs.Copy())
	return gs
}

// ShapeItem shapes the text of item, a range of text.
func ShapeItem(ctx *Context, text string, item *Item) *GlyphString {
	return Shape(ctx, text[item.Offset:item.End()], &item.Analysis)
}

func shapeText(engine ShapeEngine, text string, a *Analysis) *GlyphString {
	gs := &GlyphString{}
	if text == "" {
		return gs
	}
	runes := []rune(text)
	offsets := byteOffsets(text, len(runes))

	var raw []RawGlyph
	if a.Font != nil {
		var err error
		raw, err = engine.ShapeRaw(ShapeRequest{
			Text:      runes,
			Font:      a.Font,
			Script:    a.Script,
			Language:  a.Language,
			Direction: a.Direction(),
			Features:  ParseFeatures(a.Features),
		})
		if err == nil && len(raw) == 0 {
			err = errNoGlyphs
		}
		if err != nil {
			warnShapeFailure(a.Font, err)
			raw = nil
		}
	}

	if raw == nil {
		unknownGlyphs(gs, runes, offsets, a.Font)
	} else {
		claimGlyphs(gs, raw, runes, offsets, a.Font)
		hideInvisible(gs, text)
		mergeMarks(gs, text)
	}
	letterSpace(gs, a.Extra.LetterSpacing)
	setVisAttrs(gs, a)
	if a.Level%2 == 1 {
		gs.Reverse()
	}
	return gs
}

func warnShapeFailure(f *font.Font, err error) {
	if _, loaded := shapeWarned.LoadOrStore(f, true); loaded {
		return
	}
	textlayout.Logger().Warn("shape engine failure, expect ugly output",
		"font", f.Description().String(), "err", err)
}

// unknownGlyphs gives every character an unknown glyph with the width of
// its hex box. Line and paragraph separators get empty glyphs.
func unknownGlyphs(gs *GlyphString, runes []rune, offsets []int, f *font.Font) {
	for i, r := range runes {
		switch {
		case isInvisible(r):
			gs.append(GlyphEmpty, 0, offsets[i])
		case f == nil:
			gs.append(UnknownGlyph(r), noFontBoxWidth*Scale, offsets[i])
		default:
			gs.append(UnknownGlyph(r), f.HexBox(r).Advance, offsets[i])
		}
	}
}

// claimGlyphs walks the characters in logical order and assigns each its
// glyphs. Characters spanned by the cluster of an earlier character get
// none; other characters without glyphs get an empty placeholder. Glyph 0
// becomes the unknown glyph of the character when f does not cover it.
func claimGlyphs(gs *GlyphString, raw []RawGlyph, runes []rune, offsets []int, f *font.Font) {
	n := len(runes)
	for i := range raw {
		raw[i].Index = min(max(raw[i].Index, 0), n-1)
	}
	slices.SortStableFunc(raw, func(a, b RawGlyph) int { return a.Index - b.Index })

	p := 0
	spanEnd := 0
	cluster := 0
	for i := 0; i < n; i++ {
		if p < len(raw) && raw[p].Index == i {
			cluster = offsets[i]
			for p < len(raw) && raw[p].Index == i {
				g := raw[p]
				glyph := Glyph(g.Glyph)
				if g.Glyph == 0 && !f.HasChar(runes[i]) {
					glyph = UnknownGlyph(runes[i])
					g.Advance, g.XOffset, g.YOffset = f.HexBox(runes[i]).Advance, 0, 0
				}
				gs.Glyphs = append(gs.Glyphs, GlyphInfo{
					Glyph: glyph,
					Geometry: GlyphGeometry{
						Width:   g.Advance,
						XOffset: g.XOffset,
						YOffset: g.YOffset,
					},
				})
				gs.LogClusters = append(gs.LogClusters, cluster)
				spanEnd = max(spanEnd, i+g.Runes)
				p++
			}
			continue
		}
		if i < spanEnd {
			continue
		}
		gs.append(GlyphEmpty, 0, offsets[i])
	}
}

// hideInvisible makes the glyphs of separators and default ignorable
// characters empty.
func hideInvisible(gs *GlyphString, text string) {
	for i := range gs.Glyphs {
		if isInvisible(runeAt(text, gs.LogClusters[i])) {
			gs.Glyphs[i].Glyph = GlyphEmpty
			gs.Glyphs[i].Geometry = GlyphGeometry{}
		}
	}
}

// isInvisible reports whether r never shows a glyph. Prepended
// concatenation marks are format characters that do.
func isInvisible(r rune) bool {
	switch r {
	case '\n', '\r', '\t', '\u2028', '\u2029':
		return true
	}
	if unicode.Is(unicode.Prepended_Concatenation_Mark, r) {
		return false
	}
	return unicode.In(r, unicode.Cc, unicode.Cf) ||
		unicode.Is(unicode.Other_Default_Ignorable_Code_Point, r) ||
		unicode.Is(unicode.Variation_Selector, r)
}

// mergeMarks folds clusters starting with a non-spacing mark into the
// cluster before them. The last glyph of the base takes the widest of its
// own and the marks' advances, the marks get no advance, and their offsets
// keep them where they were drawn.
func mergeMarks(gs *GlyphString, text string) {
	for i := 1; i < len(gs.Glyphs); i++ {
		c := gs.LogClusters[i]
		if c == gs.LogClusters[i-1] || !unicode.Is(unicode.Mn, runeAt(text, c)) {
			continue
		}
		base := &gs.Glyphs[i-1]
		baseCluster := gs.LogClusters[i-1]
		width := base.Geometry.Width
		j := i
		for ; j < len(gs.Glyphs) && gs.LogClusters[j] == c; j++ {
			width = max(width, gs.Glyphs[j].Geometry.Width)
		}
		pen := base.Geometry.Width
		for k := i; k < j; k++ {
			g := &gs.Glyphs[k]
			g.Geometry.XOffset += pen - width
			pen += g.Geometry.Width
			g.Geometry.Width = 0
			gs.LogClusters[k] = baseCluster
		}
		base.Geometry.Width = width
		i = j - 1
	}
}

// letterSpace adds spacing after every cluster.
func letterSpace(gs *GlyphString, spacing int32) {
	if spacing == 0 {
		return
	}
	for i := range gs.Glyphs {
		if i+1 == len(gs.Glyphs) || gs.LogClusters[i+1] != gs.LogClusters[i] {
			gs.Glyphs[i].Geometry.Width += spacing
		}
	}
}

// setVisAttrs marks cluster starts and color glyphs.
func setVisAttrs(gs *GlyphString, a *Analysis) {
	checkColor := a.Font != nil && a.Flags&FlagEmoji != 0
	for i := range gs.Glyphs {
		gi := &gs.Glyphs[i]
		gi.Attr.IsClusterStart = i == 0 || gs.LogClusters[i] != gs.LogClusters[i-1]
		gi.Attr.IsColor = checkColor && gi.Glyph != GlyphEmpty && !gi.Glyph.IsUnknown() &&
			a.Font.IsColorGlyph(gi.Glyph.GID())
	}
}

// runeAt decodes the character at byte offset i of text.
func runeAt(text string, i int) rune {
	for _, r := range text[min(i, len(text)):] {
		return r
	}
	return 0
}
