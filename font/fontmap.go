package font

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/textlayout"
	"github.com/gogpu/textlayout/fontdesc"
	"github.com/gogpu/textlayout/internal/cache"
)

// DefaultSize is the size used for descriptions that do not set one,
// 12 points in units of 1/Scale.
const DefaultSize = 12 * fontdesc.Scale

// genericFamilies are aliases that resolve to the default family when no
// face carries the name.
var genericFamilies = map[string]bool{
	"sans-serif": true,
	"sans":       true,
	"serif":      true,
	"monospace":  true,
	"mono":       true,
}

// FontMap is the registry of faces that descriptions resolve against.
//
// Every change bumps Serial. Layouts remember the serial they were built
// with and recompute when it moves.
//
// FontMap is safe for concurrent use.
type FontMap struct {
	cfg config

	mu       sync.Mutex
	families map[string]*family
	order    []*family
	byID     map[string]Face

	serial atomic.Uint32
	fonts  *cache.Sharded[fontKey, *Font]
}

type family struct {
	name  string
	faces []Face
}

type fontKey struct {
	face       string
	size       int32
	variations string
}

// NewFontMap returns an empty font map.
func NewFontMap(opts ...Option) *FontMap {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &FontMap{
		cfg:      cfg,
		families: make(map[string]*family),
		byID:     make(map[string]Face),
		fonts:    cache.NewSharded[fontKey, *Font](cfg.cacheCapacity),
	}
	m.serial.Store(1)
	return m
}

// AddFace registers a face under its family name. A face whose ID is
// already registered is ignored and AddFace reports false.
func (m *FontMap) AddFace(face Face) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := face.ID()
	if _, dup := m.byID[id]; dup {
		textlayout.Logger().Debug("font: duplicate face ignored", "id", id)
		return false
	}
	name := face.Describe().Family()
	key := strings.ToLower(name)
	fam := m.families[key]
	if fam == nil {
		fam = &family{name: name}
		m.families[key] = fam
		m.order = append(m.order, fam)
	}
	fam.faces = append(fam.faces, face)
	m.byID[id] = face
	m.changedLocked()
	return true
}

// AddFontData parses font data, which may be a collection, and registers
// every face in it.
func (m *FontMap) AddFontData(data []byte) ([]*NativeFace, error) {
	faces, err := LoadFaces(data)
	if err != nil {
		return nil, err
	}
	for _, f := range faces {
		m.AddFace(f)
	}
	textlayout.Logger().Info("font: faces added", "count", len(faces), "family", faces[0].Describe().Family())
	return faces, nil
}

// AddFontFile reads a font file and registers its faces.
func (m *FontMap) AddFontFile(path string) ([]*NativeFace, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("font: failed to read font file: %w", err)
	}
	faces, err := m.AddFontData(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return faces, nil
}

// Families returns the registered family names in registration order.
func (m *FontMap) Families() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	for i, f := range m.order {
		out[i] = f.name
	}
	return out
}

// Faces returns the faces of a family, or nil when it is not registered.
func (m *FontMap) Faces(familyName string) []Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	fam := m.families[strings.ToLower(familyName)]
	if fam == nil {
		return nil
	}
	return append([]Face(nil), fam.faces...)
}

// Serial returns the change counter of the map. It starts at 1 and never
// returns 0, so 0 can mean "never seen".
func (m *FontMap) Serial() uint32 { return m.serial.Load() }

// Changed forces dependent layouts to recompute, for example after a
// Fallback started returning different faces.
func (m *FontMap) Changed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changedLocked()
}

func (m *FontMap) changedLocked() {
	if m.serial.Add(1) == 0 {
		m.serial.Add(1)
	}
	m.fonts.Clear()
}

// CacheStats reports the Font cache counters.
func (m *FontMap) CacheStats() cache.Stats { return m.fonts.Stats() }

// PixelSize converts the size of desc to device pixels in units of 1/Scale
// at dpi. Descriptions without a size use DefaultSize.
func PixelSize(desc fontdesc.Description, dpi float64) int32 {
	if desc.SetFields()&fontdesc.MaskSize == 0 {
		return int32(math.Round(DefaultSize * dpi / 72))
	}
	if desc.SizeIsAbsolute() {
		return desc.Size()
	}
	return int32(math.Round(float64(desc.Size()) * dpi / 72))
}

// LoadFontset resolves desc to a prioritized list of fonts: the best face
// of each requested family, then the best face of every other family. A
// face ID in desc pins that face to the front.
func (m *FontMap) LoadFontset(desc fontdesc.Description, dpi float64) *Fontset {
	size := PixelSize(desc, dpi)
	variations := desc.Variations()

	m.mu.Lock()
	defer m.mu.Unlock()

	fs := &Fontset{
		desc:     desc,
		size:     size,
		fallback: m.cfg.fallback,
		fm:       m,
	}
	seen := make(map[*family]bool)

	if desc.SetFields()&fontdesc.MaskFaceID != 0 {
		if face, ok := m.byID[desc.FaceID()]; ok {
			fs.fonts = append(fs.fonts, m.fontLocked(face, size, variations))
			seen[m.families[strings.ToLower(face.Describe().Family())]] = true
		}
	}

	names := desc.Families()
	if len(names) == 0 {
		names = []string{m.cfg.defaultFamily}
	}
	for _, name := range names {
		fam := m.lookupFamilyLocked(name)
		if fam == nil {
			textlayout.Logger().Warn("font: family not found", "family", name)
			continue
		}
		if seen[fam] {
			continue
		}
		seen[fam] = true
		if face := m.bestFace(fam, desc); face != nil {
			fs.fonts = append(fs.fonts, m.fontLocked(face, size, variations))
		}
	}
	for _, fam := range m.order {
		if seen[fam] {
			continue
		}
		if face := m.bestFace(fam, desc); face != nil {
			fs.fonts = append(fs.fonts, m.fontLocked(face, size, variations))
		}
	}
	return fs
}

func (m *FontMap) lookupFamilyLocked(name string) *family {
	key := strings.ToLower(strings.TrimSpace(name))
	if fam := m.families[key]; fam != nil {
		return fam
	}
	if !genericFamilies[key] && key != strings.ToLower(m.cfg.defaultFamily) {
		return nil
	}
	if fam := m.families[strings.ToLower(m.cfg.defaultFamily)]; fam != nil {
		return fam
	}
	if len(m.order) > 0 {
		return m.order[0]
	}
	return nil
}

// bestFace picks the face of fam closest to desc. Faces whose style can
// never match rank after every other face, by weight and stretch.
func (m *FontMap) bestFace(fam *family, desc fontdesc.Description) Face {
	var best Face
	bestScore := math.MaxInt
	for _, f := range fam.faces {
		fd := f.Describe()
		score := desc.DistanceWithPenalty(fd, m.cfg.stylePenalty)
		if score == math.MaxInt {
			fd.SetStyle(desc.Style())
			score = math.MaxInt/2 + desc.DistanceWithPenalty(fd, 0)
		}
		if fd.Variant() != desc.Variant() {
			score += 1 << 24
		}
		if best == nil || score < bestScore {
			best, bestScore = f, score
		}
	}
	return best
}

func (m *FontMap) fontLocked(face Face, size int32, variations string) *Font {
	key := fontKey{face: face.ID(), size: size, variations: variations}
	return m.fonts.GetOrCreate(key, func() *Font {
		textlayout.Logger().Debug("font: instantiate", "face", key.face, "size", size, "variations", variations)
		return NewFont(face, size, variations)
	})
}

// fontFor instantiates a face that did not come from the registry, such as
// a fallback face.
func (m *FontMap) fontFor(face Face, size int32, variations string) *Font {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fontLocked(face, size, variations)
}
