package font

import (
	"fmt"
	"strconv"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout"
	"github.com/gogpu/textlayout/fontdesc"
)

// Fallback supplies faces for characters that no registered face covers.
type Fallback interface {
	// FaceFor returns a face covering r that resembles desc, or nil.
	FaceFor(r rune, desc fontdesc.Description) Face
}

// SystemFallback finds fallback faces among the fonts installed on the
// system, using go-text's fontscan index. The scan runs once, on first
// use; when it fails no fallback is offered.
//
// SystemFallback is safe for concurrent use.
type SystemFallback struct {
	cacheDir string

	once sync.Once
	err  error

	mu    sync.Mutex
	fm    *fontscan.FontMap
	faces map[*gotext.Font]*NativeFace
}

// NewSystemFallback returns a fallback backed by the system fonts. The
// font index is cached in cacheDir; an empty string selects the user cache
// directory.
func NewSystemFallback(cacheDir string) *SystemFallback {
	return &SystemFallback{cacheDir: cacheDir}
}

// Err reports why the system scan failed, or nil.
func (s *SystemFallback) Err() error {
	s.once.Do(s.scan)
	return s.err
}

func (s *SystemFallback) scan() {
	fm := fontscan.NewFontMap(textlayout.PrintfLogger{})
	if err := fm.UseSystemFonts(s.cacheDir); err != nil {
		s.err = fmt.Errorf("%w: %w", ErrNoSystemFonts, err)
		textlayout.Logger().Warn("font: system font scan failed", "err", err)
		return
	}
	s.fm = fm
	s.faces = make(map[*gotext.Font]*NativeFace)
}

// FaceFor implements Fallback.
func (s *SystemFallback) FaceFor(r rune, desc fontdesc.Description) Face {
	if s.Err() != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fm.SetQuery(fontscan.Query{Families: desc.Families(), Aspect: aspectOf(desc)})
	s.fm.SetScript(language.LookupScript(r))
	face := s.fm.ResolveFace(r)
	if face == nil {
		return nil
	}
	// ResolveFace may return a face that does not cover r when nothing does.
	if _, ok := face.NominalGlyph(r); !ok {
		return nil
	}
	if nf, ok := s.faces[face.Font]; ok {
		return nf
	}
	family, aspect := s.fm.FontMetadata(face.Font)
	loc := s.fm.FontLocation(face.Font)
	nf := newNativeFace(face.Font, nil, int(loc.Index), faceNames{family: family})
	nf.desc = describeAspect(family, "", aspect)
	nf.id = sanitizeID(loc.File) + "#" + strconv.Itoa(int(loc.Index))
	s.faces[face.Font] = nf
	return nf
}

// aspectOf converts the style fields of desc into a fontscan query aspect.
func aspectOf(desc fontdesc.Description) gotext.Aspect {
	style := gotext.StyleNormal
	if desc.Style() != fontdesc.StyleNormal {
		style = gotext.StyleItalic
	}
	return gotext.Aspect{
		Style:   style,
		Weight:  gotext.Weight(desc.Weight()),
		Stretch: gotext.Stretch(desc.Stretch().Factor()),
	}
}
