package font

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textlayout/fontdesc"
)

func newGoFontMap(t *testing.T, opts ...Option) *FontMap {
	t.Helper()
	m := NewFontMap(opts...)
	for _, data := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gomono.TTF} {
		if _, err := m.AddFontData(data); err != nil {
			t.Fatalf("AddFontData: %v", err)
		}
	}
	return m
}

type staticFallback struct {
	face  Face
	calls int
}

func (s *staticFallback) FaceFor(r rune, _ fontdesc.Description) Face {
	s.calls++
	return s.face
}

func TestFontMapFamilies(t *testing.T) {
	m := newGoFontMap(t)
	fams := m.Families()
	if len(fams) != 2 || fams[0] != "Go" || fams[1] != "Go Mono" {
		t.Errorf("Families() = %q", fams)
	}
	if got := len(m.Faces("go")); got != 3 {
		t.Errorf("Faces(go) has %d faces, want 3", got)
	}
	if m.Faces("nope") != nil {
		t.Error("unknown family must have no faces")
	}
}

func TestFontMapSerial(t *testing.T) {
	m := NewFontMap()
	s0 := m.Serial()
	if s0 == 0 {
		t.Fatal("serial must never be 0")
	}
	face := loadFace(t, goregular.TTF)
	if !m.AddFace(face) {
		t.Fatal("first AddFace must succeed")
	}
	s1 := m.Serial()
	if s1 == s0 {
		t.Error("AddFace must bump the serial")
	}
	if m.AddFace(face) {
		t.Error("duplicate face must be ignored")
	}
	if m.Serial() != s1 {
		t.Error("ignored face must not bump the serial")
	}
	m.Changed()
	if m.Serial() == s1 {
		t.Error("Changed must bump the serial")
	}
}

func TestLoadFontsetSelection(t *testing.T) {
	m := newGoFontMap(t)

	tests := []struct {
		desc   string
		weight fontdesc.Weight
		style  fontdesc.Style
		family string
	}{
		{"Go 12", fontdesc.WeightNormal, fontdesc.StyleNormal, "Go"},
		{"Go Bold 12", fontdesc.WeightBold, fontdesc.StyleNormal, "Go"},
		{"Go Heavy 12", fontdesc.WeightBold, fontdesc.StyleNormal, "Go"},
		{"Go Italic 12", fontdesc.WeightNormal, fontdesc.StyleItalic, "Go"},
		{"Go Oblique 12", fontdesc.WeightNormal, fontdesc.StyleItalic, "Go"},
		{"Go Bold Italic 12", fontdesc.WeightNormal, fontdesc.StyleItalic, "Go"},
		{"Go Mono Italic 12", fontdesc.WeightNormal, fontdesc.StyleNormal, "Go Mono"},
		{"monospace, Go 12", fontdesc.WeightNormal, fontdesc.StyleNormal, "Go"},
		{"Missing, Go Mono 12", fontdesc.WeightNormal, fontdesc.StyleNormal, "Go Mono"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			fs := m.LoadFontset(fontdesc.Parse(tt.desc), 72)
			p := fs.Primary()
			if p == nil {
				t.Fatal("no primary font")
			}
			d := p.Face().Describe()
			if d.Family() != tt.family || d.Weight() != tt.weight || d.Style() != tt.style {
				t.Errorf("primary = %s, want family %q weight %v style %v", d, tt.family, tt.weight, tt.style)
			}
			if p.Size() != 12*Scale {
				t.Errorf("size = %d, want %d", p.Size(), 12*Scale)
			}
			if len(fs.Fonts()) != 2 {
				t.Errorf("fontset has %d fonts, want one per family", len(fs.Fonts()))
			}
		})
	}
}

func TestLoadFontsetDefaultFamily(t *testing.T) {
	m := newGoFontMap(t, WithDefaultFamily("Go Mono"))
	fs := m.LoadFontset(fontdesc.Parse("12"), 72)
	if got := fs.Primary().Face().Describe().Family(); got != "Go Mono" {
		t.Errorf("default family resolved to %q", got)
	}
	fs = m.LoadFontset(fontdesc.Parse("serif 12"), 72)
	if got := fs.Primary().Face().Describe().Family(); got != "Go Mono" {
		t.Errorf("generic alias resolved to %q", got)
	}
}

func TestLoadFontsetFaceID(t *testing.T) {
	m := NewFontMap()
	faces, err := m.AddFontData(gobold.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddFontData(goregular.TTF); err != nil {
		t.Fatal(err)
	}
	d := fontdesc.Parse("Go 10")
	d.SetFaceID(faces[0].ID())
	d.SetWeight(fontdesc.WeightNormal)
	fs := m.LoadFontset(d, 72)
	if fs.Primary().Face() != faces[0] {
		t.Errorf("faceid must pin %s, got %s", faces[0].ID(), fs.Primary().Face().ID())
	}
}

func TestLoadFontsetEmptyMap(t *testing.T) {
	fs := NewFontMap().LoadFontset(fontdesc.Parse("Sans 12"), 96)
	if fs.Primary() != nil {
		t.Error("empty map must yield no primary font")
	}
	if fs.FontFor('a', language.NewLanguage("en")) != nil {
		t.Error("empty map must yield no font")
	}
}

func TestFontsAreShared(t *testing.T) {
	m := newGoFontMap(t)
	a := m.LoadFontset(fontdesc.Parse("Go 12"), 72).Primary()
	b := m.LoadFontset(fontdesc.Parse("Go 12px"), 96).Primary()
	if a != b {
		t.Error("same face and pixel size must share one Font")
	}
	if m.CacheStats().Hits == 0 {
		t.Error("second lookup must hit the cache")
	}
	m.Changed()
	c := m.LoadFontset(fontdesc.Parse("Go 12"), 72).Primary()
	if c == a {
		t.Error("Changed must drop cached fonts")
	}
}

func TestFontForCoverageAndLanguage(t *testing.T) {
	m := newGoFontMap(t)
	hebrew := newTestUserFace(t, "Hebrew", 0x05D0, 0x05EA)
	m.AddFace(hebrew)

	fs := m.LoadFontset(fontdesc.Parse("Go 12"), 72)
	en := language.NewLanguage("en")

	if f := fs.FontFor('a', en); f == nil || f.Face().Describe().Family() != "Go" {
		t.Errorf("'a' must come from Go, got %v", f)
	}
	if f := fs.FontFor('\u05d0', en); f == nil || f.Face() != hebrew {
		t.Error("alef must come from the Hebrew face")
	}
	if f := fs.FontFor('\u3042', en); f != nil {
		t.Error("nothing covers kana without a fallback")
	}
}

func TestFontForFallback(t *testing.T) {
	kana := newTestUserFace(t, "Kana", 0x3040, 0x309F)
	fb := &staticFallback{face: kana}
	m := newGoFontMap(t, WithFallback(fb))

	fs := m.LoadFontset(fontdesc.Parse("Go 12"), 72)
	en := language.NewLanguage("en")

	f := fs.FontFor('\u3042', en)
	if f == nil || f.Face() != kana {
		t.Fatal("kana must come from the fallback")
	}
	if f.Size() != 12*Scale {
		t.Errorf("fallback font size = %d", f.Size())
	}
	fs.FontFor('\u3042', en)
	if fb.calls != 1 {
		t.Errorf("fallback called %d times, want 1 (cached per rune)", fb.calls)
	}
	if fs.FontFor('\u30a2', en) != nil {
		t.Error("fallback face that lacks the rune must be rejected")
	}
	if fs.FontFor('a', en).Face() == kana {
		t.Error("registered faces come before the fallback")
	}
}

func TestStylePenaltyOption(t *testing.T) {
	styled := func(style fontdesc.Style, weight fontdesc.Weight) *UserFace {
		d := fontdesc.New()
		d.SetFamily("Slant")
		d.SetStyle(style)
		d.SetWeight(weight)
		return NewUserFace(d, 1000, FontExtents{Ascender: 800, Descender: -200}, UserFuncs{
			Glyph:   func(rune) (GID, bool) { return 1, true },
			Advance: func(GID) float32 { return 500 },
		})
	}
	oblique := styled(fontdesc.StyleOblique, fontdesc.WeightNormal)
	italic := styled(fontdesc.StyleItalic, fontdesc.WeightBold)
	req := fontdesc.Parse("Slant Bold Oblique 12")

	tests := []struct {
		name string
		opts []Option
		want Face
	}{
		{"default penalty keeps the style", nil, oblique},
		{"small penalty prefers the weight", []Option{WithStylePenalty(1)}, italic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewFontMap(tt.opts...)
			m.AddFace(oblique)
			m.AddFace(italic)
			if got := m.LoadFontset(req, 72).Primary().Face(); got != tt.want {
				t.Errorf("primary = %s, want %s", got.ID(), tt.want.ID())
			}
		})
	}
}
