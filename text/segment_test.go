package text

import (
	"slices"
	"strings"
	"testing"

	"github.com/go-text/typesetting/language"
)

const mixed = "Hello \u05e9\u05dc\u05d5\u05dd world"

func TestSegmentTextMixedDirections(t *testing.T) {
	segs := SegmentText(mixed, DirectionLTR, TieForward)
	if len(segs) != 3 {
		t.Fatalf("got %d segments %+v, want 3", len(segs), segs)
	}
	want := []struct {
		text   string
		level  uint8
		script language.Script
	}{
		{"Hello ", 0, language.Latin},
		{"\u05e9\u05dc\u05d5\u05dd", 1, language.Hebrew},
		{" world", 0, language.Latin},
	}
	for i, w := range want {
		s := segs[i]
		if got := mixed[s.Start:s.End]; got != w.text {
			t.Errorf("segment %d = %q, want %q", i, got, w.text)
		}
		if s.Level != w.level || s.Script != w.script {
			t.Errorf("segment %d level %d script %s, want %d %s", i, s.Level, s.Script, w.level, w.script)
		}
	}
	if segs[1].Direction != DirectionRTL {
		t.Errorf("Hebrew segment direction = %s", segs[1].Direction)
	}
}

func TestSegmentTextEmpty(t *testing.T) {
	if segs := SegmentText("", DirectionLTR, TieForward); segs != nil {
		t.Errorf("SegmentText(\"\") = %v", segs)
	}
}

func TestParagraphDirection(t *testing.T) {
	tests := []struct {
		text string
		base Direction
		want Direction
	}{
		{"abc", DirectionWeakLTR, DirectionLTR},
		{"\u05e9\u05dc abc", DirectionWeakLTR, DirectionRTL},
		{"123 \u05e9", DirectionWeakLTR, DirectionRTL},
		{"123", DirectionWeakLTR, DirectionLTR},
		{"123", DirectionWeakRTL, DirectionRTL},
		{"", DirectionNeutral, DirectionLTR},
		{"\u05e9", DirectionLTR, DirectionLTR},
		{"abc", DirectionRTL, DirectionRTL},
		// Isolated text does not decide the paragraph direction.
		{"\u2067\u05e9\u2069 abc", DirectionWeakRTL, DirectionLTR},
		// The scan stops at a paragraph separator.
		{"123\n\u05e9", DirectionWeakLTR, DirectionLTR},
	}
	for _, tt := range tests {
		if got := paragraphDirection([]rune(tt.text), tt.base); got != tt.want {
			t.Errorf("paragraphDirection(%q, %s) = %s, want %s", tt.text, tt.base, got, tt.want)
		}
	}
}

func TestBidiLevels(t *testing.T) {
	levels, dir := bidiLevels([]rune("ab \u05e9\u05dc"), DirectionWeakLTR)
	if dir != DirectionLTR {
		t.Errorf("direction = %s, want LTR", dir)
	}
	if want := []uint8{0, 0, 0, 1, 1}; !slices.Equal(levels, want) {
		t.Errorf("levels = %v, want %v", levels, want)
	}

	levels, dir = bidiLevels([]rune("\u05e9\u05dc ab"), DirectionWeakLTR)
	if dir != DirectionRTL {
		t.Errorf("direction = %s, want RTL", dir)
	}
	if want := []uint8{1, 1, 1, 2, 2}; !slices.Equal(levels, want) {
		t.Errorf("levels = %v, want %v", levels, want)
	}
}

func TestBidiLevelsRules(t *testing.T) {
	tests := []struct {
		name string
		text string
		base Direction
		want []uint8
	}{
		{"left to right", "ab 12", DirectionLTR, []uint8{0, 0, 0, 0, 0}},
		{"numbers after rtl", "\u05e9 12", DirectionLTR, []uint8{1, 1, 2, 2}},
		{"arabic number", "a \u0661", DirectionLTR, []uint8{0, 0, 2}},
		{"european digits after arabic letter", "\u0627 12", DirectionLTR, []uint8{1, 1, 2, 2}},
		{
			"rtl isolate",
			"abc \u2067\u05e9 def\u2069 xyz",
			DirectionLTR,
			[]uint8{0, 0, 0, 0, 0, 1, 1, 2, 2, 2, 0, 0, 0, 0, 0},
		},
		{"first strong isolate", "a\u2068\u05e9b\u2069", DirectionLTR, []uint8{0, 0, 1, 2, 0}},
		{"rtl embedding", "a\u202bb\u202cc", DirectionLTR, []uint8{0, 0, 2, 2, 0}},
		{"rtl override", "\u202eab\u202c", DirectionLTR, []uint8{0, 1, 1, 0}},
		{"paired brackets", "\u05e9(\u05dc)a", DirectionLTR, []uint8{1, 1, 1, 1, 0}},
		{"segment separator", "\u05e9\t\u05dc", DirectionLTR, []uint8{1, 0, 1}},
		{"rtl paragraph", "\u05e9 ab ", DirectionRTL, []uint8{1, 1, 2, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels, _ := bidiLevels([]rune(tt.text), tt.base)
			if !slices.Equal(levels, tt.want) {
				t.Errorf("bidiLevels(%q) = %v, want %v", tt.text, levels, tt.want)
			}
		})
	}
}

func TestBidiLevelsDepthLimit(t *testing.T) {
	runes := []rune(strings.Repeat("\u202b", 70) + "\u05e9")
	levels, _ := bidiLevels(runes, DirectionLTR)
	if got := levels[len(levels)-1]; got != maxBidiDepth {
		t.Errorf("level past the depth limit = %d, want %d", got, maxBidiDepth)
	}
}

func TestBidiIsolateVisualOrder(t *testing.T) {
	text := "abc \u2067\u05e9\u05dc def\u2069 xyz"
	segs := SegmentText(text, DirectionLTR, TieForward)
	items := make([]*Item, len(segs))
	for i, s := range segs {
		items[i] = &Item{Offset: s.Start, Length: s.End - s.Start, Analysis: Analysis{Level: s.Level}}
	}
	visual := ReorderItems(items, func(it *Item) uint8 { return it.Analysis.Level })
	var got []string
	for _, it := range visual {
		got = append(got, text[it.Offset:it.Offset+it.Length])
	}
	want := []string{"abc \u2067", "def", "\u05e9\u05dc ", "\u2069 xyz"}
	if !slices.Equal(got, want) {
		t.Errorf("visual order = %q, want %q", got, want)
	}
}

func TestResolveScripts(t *testing.T) {
	tests := []struct {
		name string
		text string
		tie  ScriptTieBreak
		want []language.Script
	}{
		{
			name: "leading digits forward",
			text: "12 ab",
			tie:  TieForward,
			want: []language.Script{language.Latin, language.Latin, language.Latin, language.Latin, language.Latin},
		},
		{
			name: "leading digits backward",
			text: "12 ab",
			tie:  TieBackward,
			want: []language.Script{language.Common, language.Common, language.Common, language.Latin, language.Latin},
		},
		{
			name: "inherited mark",
			text: "e\u0301",
			tie:  TieForward,
			want: []language.Script{language.Latin, language.Latin},
		},
		{
			name: "closing bracket matches opening",
			text: "ab(c \u05e9)",
			tie:  TieForward,
			want: []language.Script{
				language.Latin, language.Latin, language.Latin, language.Latin,
				language.Latin, language.Hebrew, language.Latin,
			},
		},
		{
			name: "no strong script",
			text: "1 2",
			tie:  TieForward,
			want: []language.Script{language.Common, language.Common, language.Common},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveScripts([]rune(tt.text), nil, tt.tie)
			if !slices.Equal(got, tt.want) {
				t.Errorf("resolveScripts(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestResolveScriptsPrefersSameLevel(t *testing.T) {
	runes := []rune("\u05e9 a")
	levels := []uint8{1, 0, 0}
	if got := resolveScripts(runes, nil, TieForward)[1]; got != language.Hebrew {
		t.Errorf("space without levels = %s, want the preceding Hebrew", got)
	}
	if got := resolveScripts(runes, levels, TieForward)[1]; got != language.Latin {
		t.Errorf("space at level 0 = %s, want Latin", got)
	}
}
