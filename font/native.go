package font

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/textlayout/fontdesc"
)

// NativeFace is a face loaded from OpenType or TrueType data.
//
// NativeFace is safe for concurrent use.
type NativeFace struct {
	font     *gotext.Font
	data     []byte
	index    int
	desc     fontdesc.Description
	id       string
	fullName string
	coverage *Coverage
}

// LoadFace parses the first face of data. The data is copied.
func LoadFace(data []byte) (*NativeFace, error) {
	faces, err := LoadFaces(data)
	if err != nil {
		return nil, err
	}
	return faces[0], nil
}

// LoadFaces parses every face of a font file or collection. The data is
// copied.
func LoadFaces(data []byte) ([]*NativeFace, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	data = bytes.Clone(data)

	parsed, err := gotext.ParseTTC(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if len(parsed) == 0 {
		return nil, ErrNoFaces
	}

	// sfnt reads the naming table; failures only cost us the nicer names.
	var coll *sfnt.Collection
	if c, err := sfnt.ParseCollection(data); err == nil && c.NumFonts() == len(parsed) {
		coll = c
	}

	faces := make([]*NativeFace, len(parsed))
	for i, p := range parsed {
		var names faceNames
		if coll != nil {
			if sf, err := coll.Font(i); err == nil {
				names = readNames(sf)
			}
		}
		faces[i] = newNativeFace(p.Font, data, i, names)
	}
	return faces, nil
}

// LoadFaceFile reads and parses the first face of a font file.
func LoadFaceFile(path string) (*NativeFace, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("font: failed to read font file: %w", err)
	}
	f, err := LoadFace(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return f, nil
}

// faceNames are the naming table entries of a face.
type faceNames struct {
	family, subfamily, full, postscript string
}

func readNames(f *sfnt.Font) faceNames {
	var buf sfnt.Buffer
	name := func(ids ...sfnt.NameID) string {
		for _, id := range ids {
			if s, err := f.Name(&buf, id); err == nil && s != "" {
				return s
			}
		}
		return ""
	}
	return faceNames{
		family:     name(sfnt.NameIDTypographicFamily, sfnt.NameIDFamily),
		subfamily:  name(sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily),
		full:       name(sfnt.NameIDFull),
		postscript: name(sfnt.NameIDPostScript),
	}
}

// newNativeFace wraps a parsed font. data may be nil for faces that come
// from the system scan; names fill in what go-text's metadata lacks.
func newNativeFace(ft *gotext.Font, data []byte, index int, names faceNames) *NativeFace {
	meta := ft.Describe()
	if names.family == "" {
		names.family = meta.Family
	}
	f := &NativeFace{
		font:     ft,
		data:     data,
		index:    index,
		desc:     describeAspect(names.family, names.subfamily, meta.Aspect),
		coverage: NewCoverage(),
	}
	f.fullName = names.full
	if f.fullName == "" {
		f.fullName = f.desc.String()
	}
	switch {
	case names.postscript != "":
		f.id = sanitizeID(names.postscript)
	default:
		f.id = sanitizeID(f.fullName)
	}
	if index > 0 {
		f.id += "-" + strconv.Itoa(index)
	}
	return f
}

// describeAspect converts go-text metadata into a description. go-text
// folds oblique into italic, so the subfamily name tells them apart.
func describeAspect(family, subfamily string, a gotext.Aspect) fontdesc.Description {
	d := fontdesc.New()
	d.SetFamily(family)

	style := fontdesc.StyleNormal
	if a.Style == gotext.StyleItalic {
		style = fontdesc.StyleItalic
		if subfamily != "" && fontdesc.Parse(subfamily).Style() == fontdesc.StyleOblique {
			style = fontdesc.StyleOblique
		}
	}
	d.SetStyle(style)

	weight := fontdesc.WeightNormal
	if a.Weight > 0 {
		weight = fontdesc.Weight(math.Round(float64(a.Weight)))
	}
	d.SetWeight(weight)
	d.SetStretch(stretchFromFactor(float32(a.Stretch)))
	d.SetVariant(fontdesc.VariantNormal)
	return d
}

// stretchFromFactor picks the stretch whose width factor is nearest f.
func stretchFromFactor(f float32) fontdesc.Stretch {
	if f <= 0 {
		return fontdesc.StretchNormal
	}
	best, bestDiff := fontdesc.StretchNormal, float32(math.MaxFloat32)
	for s := fontdesc.StretchUltraCondensed; s <= fontdesc.StretchUltraExpanded; s++ {
		diff := s.Factor() - f
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = s, diff
		}
	}
	return best
}

// Describe implements Face.
func (f *NativeFace) Describe() fontdesc.Description { return f.desc }

// ID implements Face.
func (f *NativeFace) ID() string { return f.id }

// HasChar implements Face.
func (f *NativeFace) HasChar(r rune) bool {
	return f.coverage.Lookup(r, func(r rune) bool {
		_, ok := f.font.NominalGlyph(r)
		return ok
	})
}

// SupportsLanguage implements Face.
func (f *NativeFace) SupportsLanguage(lang language.Language) bool {
	return supportsLanguage(lang, f.HasChar)
}

// FullName returns the full name from the naming table.
func (f *NativeFace) FullName() string { return f.fullName }

// Data returns the font file bytes, or nil for faces found by the system
// font scan. The slice must not be modified.
func (f *NativeFace) Data() []byte { return f.data }

// Index returns the position of the face in its collection.
func (f *NativeFace) Index() int { return f.index }

// GoText returns the parsed go-text font, which is safe for concurrent use.
func (f *NativeFace) GoText() *gotext.Font { return f.font }

func (f *NativeFace) instance(variations []Variation) instance {
	face := gotext.NewFace(f.font)
	face.SetVariations(variations)
	return &nativeInstance{face: face}
}

// nativeInstance serializes access to a go-text Face, which caches glyph
// data and is not safe for concurrent use.
type nativeInstance struct {
	mu   sync.Mutex
	face *gotext.Face
}

func (n *nativeInstance) upem() float32 { return float32(n.face.Upem()) }

func (n *nativeInstance) glyph(r rune) (GID, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.face.NominalGlyph(r)
}

func (n *nativeInstance) advance(gid GID) float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.face.HorizontalAdvance(gid)
}

func (n *nativeInstance) glyphExtents(gid GID) (GlyphExtents, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.face.GlyphExtents(gid)
}

func (n *nativeInstance) fontExtents() (FontExtents, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.face.FontHExtents()
}

func (n *nativeInstance) lineMetric(m gotext.LineMetric) float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.face.LineMetric(m)
}

func (n *nativeInstance) glyphData(gid GID) gotext.GlyphData {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.face.GlyphData(gid)
}
