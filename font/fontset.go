package font

import (
	"sync"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout"
	"github.com/gogpu/textlayout/fontdesc"
)

// Fontset is the prioritized list of fonts a description resolves to.
//
// Fontset is safe for concurrent use.
type Fontset struct {
	desc     fontdesc.Description
	size     int32
	fonts    []*Font
	fallback Fallback
	fm       *FontMap

	mu        sync.Mutex
	fallbacks map[rune]*Font
}

// Description returns the description the set was loaded for.
func (s *Fontset) Description() fontdesc.Description { return s.desc }

// Fonts returns the registered fonts in priority order.
func (s *Fontset) Fonts() []*Font { return s.fonts }

// Primary returns the first font, or nil when the map has no faces.
func (s *Fontset) Primary() *Font {
	if len(s.fonts) == 0 {
		return nil
	}
	return s.fonts[0]
}

// FontFor returns the font to render r with. Among the fonts covering r,
// the first that also supports lang wins, else the first covering one.
// When no registered font covers r the fallback is asked. FontFor returns
// nil when nothing covers r.
func (s *Fontset) FontFor(r rune, lang language.Language) *Font {
	var first *Font
	for _, f := range s.fonts {
		if !f.HasChar(r) {
			continue
		}
		if first == nil {
			first = f
		}
		if f.Face().SupportsLanguage(lang) {
			return f
		}
	}
	if first != nil {
		return first
	}
	return s.fallbackFor(r)
}

func (s *Fontset) fallbackFor(r rune) *Font {
	if s.fallback == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fallbacks[r]; ok {
		return f
	}
	var f *Font
	if face := s.fallback.FaceFor(r, s.desc); face != nil && face.HasChar(r) {
		f = s.fm.fontFor(face, s.size, s.desc.Variations())
		textlayout.Logger().Debug("font: fallback", "rune", r, "face", face.ID())
	}
	if s.fallbacks == nil {
		s.fallbacks = make(map[rune]*Font)
	}
	s.fallbacks[r] = f
	return f
}
