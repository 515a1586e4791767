package text

import (
	"strconv"
	"strings"

	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout/font"
)

// ShapeRequest is the input of a ShapeEngine: one item of text with its
// resolved font and analysis.
type ShapeRequest struct {
	Text      []rune
	Font      *font.Font
	Script    language.Script
	Language  language.Language
	Direction Direction
	Features  []Feature
}

// RawGlyph is one glyph as produced by a ShapeEngine, before the shaper
// reconciles it with the text.
type RawGlyph struct {
	Glyph font.GID
	// Index is the index in ShapeRequest.Text of the first character of
	// the glyph's cluster.
	Index int
	// Runes is the number of characters the cluster spans, at least 1.
	Runes   int
	Advance int32
	XOffset int32
	// YOffset grows down.
	YOffset int32
}

// ShapeEngine converts characters to positioned glyphs. Glyph 0 stands for
// a character the font has no glyph for. Engines may skip characters,
// emit several glyphs for one character and return glyphs in any order.
//
// Implementations must be safe for concurrent use.
type ShapeEngine interface {
	ShapeRaw(req ShapeRequest) ([]RawGlyph, error)
}

// Feature is an OpenType feature setting.
type Feature struct {
	Tag   ot.Tag
	Value uint32
}

// ParseFeatures parses a comma separated feature list. Each entry is a
// tag optionally followed by "=value", or a tag prefixed by "+" or "-" to
// turn it on or off. Malformed entries are skipped.
func ParseFeatures(s string) []Feature {
	if s == "" {
		return nil
	}
	var out []Feature
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		value := uint32(1)
		switch {
		case strings.HasPrefix(part, "-"):
			value = 0
			part = part[1:]
		case strings.HasPrefix(part, "+"):
			part = part[1:]
		}
		tag, v, hasValue := strings.Cut(part, "=")
		if hasValue {
			n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
			if err != nil {
				continue
			}
			value = uint32(n)
		}
		tag = strings.TrimSpace(tag)
		if tag == "" || len(tag) > 4 {
			continue
		}
		for len(tag) < 4 {
			tag += " "
		}
		out = append(out, Feature{Tag: ot.NewTag(tag[0], tag[1], tag[2], tag[3]), Value: value})
	}
	return out
}

var defaultEngine = &dispatchEngine{
	native: NewGoTextEngine(),
	user:   &BuiltinEngine{},
}

// DefaultEngine returns the engine used when a Context is not given one.
// It shapes native faces with GoTextEngine and user faces with
// BuiltinEngine.
func DefaultEngine() ShapeEngine { return defaultEngine }

type dispatchEngine struct {
	native ShapeEngine
	user   ShapeEngine
}

func (e *dispatchEngine) ShapeRaw(req ShapeRequest) ([]RawGlyph, error) {
	if _, ok := req.Font.Face().(*font.NativeFace); ok {
		return e.native.ShapeRaw(req)
	}
	return e.user.ShapeRaw(req)
}
