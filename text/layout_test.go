package text

import (
	"image"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutSingleLine(t *testing.T) {
	l := newTestLayout(t, "Hello")
	require.Equal(t, 1, l.LineCount())

	w, h := l.Size()
	assert.Equal(t, 5*testAdvance, w)
	assert.Equal(t, int32(testLineHeight), h)
	assert.Equal(t, int32(testAscent), l.Baseline())

	_, logical := l.PixelExtents()
	assert.Equal(t, image.Rect(0, 0, 50, 20), logical)
}

func TestLayoutEmptyText(t *testing.T) {
	l := newTestLayout(t, "")
	require.Equal(t, 1, l.LineCount())
	_, h := l.Size()
	assert.Equal(t, int32(testLineHeight), h)
	assert.Equal(t, int32(testAscent), l.Baseline())
}

func TestLayoutTrailingNewline(t *testing.T) {
	l := newTestLayout(t, "ab\n")
	require.Equal(t, 2, l.LineCount())
	assert.Equal(t, []string{"ab\n", ""}, lineTexts(l))
	_, h := l.Size()
	assert.Equal(t, int32(2*testLineHeight), h)
}

func TestLayoutParagraphs(t *testing.T) {
	l := newTestLayout(t, "ab\ncd")
	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.True(t, lines[0].IsParagraphStart && lines[0].IsParagraphEnd)
	assert.True(t, lines[1].IsParagraphStart && lines[1].IsParagraphEnd)
	assert.Equal(t, []string{"ab\n", "cd"}, lineTexts(l))
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("a\r\nb\rc\u2029")
	want := []paragraph{{0, 1, 3}, {3, 4, 5}, {5, 6, 9}, {9, 9, 9}}
	assert.Equal(t, want, got)
	assert.Equal(t, []paragraph{{0, 0, 0}}, splitParagraphs(""))
}

func TestLayoutMixedDirections(t *testing.T) {
	l := newTestLayout(t, mixed)
	lines := l.Lines()
	require.Len(t, lines, 1)
	runs := lines[0].Runs
	require.Len(t, runs, 3)
	assert.Equal(t, []int{0, 6, 14}, []int{runs[0].Item.Offset, runs[1].Item.Offset, runs[2].Item.Offset})
	// The right-to-left word reads from its last letter on screen.
	assert.Equal(t, Glyph(0x05dd), runs[1].Glyphs.Glyphs[0].Glyph)
	assert.Equal(t, DirectionLTR, lines[0].ResolvedDirection)
}

func TestLayoutWrapWord(t *testing.T) {
	l := newTestLayout(t, "aaa bbb ccc")
	l.SetWidth(6 * testAdvance)
	assert.Equal(t, []string{"aaa ", "bbb ", "ccc"}, lineTexts(l))
}

func TestLayoutWrapCharSingleWideChar(t *testing.T) {
	l := newTestLayout(t, "W")
	l.SetWrap(WrapChar)
	l.SetWidth(1)
	assert.Equal(t, []string{"W"}, lineTexts(l))

	l.SetText("WW")
	assert.Equal(t, []string{"W", "W"}, lineTexts(l))
}

func TestLayoutWrapWordChar(t *testing.T) {
	l := newTestLayout(t, "aaaaaaaa bb")
	l.SetWidth(5 * testAdvance)
	l.SetWrap(WrapWordChar)
	assert.Equal(t, []string{"aaaaa", "aaa ", "bb"}, lineTexts(l))

	// Plain word wrapping lets the long word overflow.
	l.SetWrap(WrapWord)
	assert.Equal(t, []string{"aaaaaaaa ", "bb"}, lineTexts(l))
}

func TestLayoutWrapMonotonic(t *testing.T) {
	l := newTestLayout(t, "aaa aaa aaa aaa aaa aaa")
	prevW, prevH := int32(0), int32(math.MaxInt32)
	for width := int32(Scale); width <= 30*testAdvance; width += testAdvance / 4 {
		l.SetWidth(width)
		w, h := l.Size()
		if w < prevW {
			t.Errorf("width %d: layout width %d shrank from %d", width, w, prevW)
		}
		if h > prevH {
			t.Errorf("width %d: layout height %d grew from %d", width, h, prevH)
		}
		prevW, prevH = w, h
	}
	assert.Equal(t, 23*testAdvance, prevW)
	assert.Equal(t, int32(testLineHeight), prevH)
}

func TestLayoutLinesCoverText(t *testing.T) {
	alphabet := []rune("ab c\n\u05e9\u05dc\t,.")
	rng := rand.New(rand.NewPCG(9, 4))
	l := newTestLayout(t, "")
	for n := 0; n < 200; n++ {
		runes := make([]rune, rng.IntN(30))
		for i := range runes {
			runes[i] = alphabet[rng.IntN(len(alphabet))]
		}
		text := string(runes)
		l.SetText(text)
		l.SetWrap(WrapMode(rng.IntN(3)))
		l.SetWidth(int32(rng.IntN(20)) * testAdvance)

		pos := 0
		for i, line := range l.Lines() {
			require.Equal(t, pos, line.Start, "%q line %d", text, i)
			runs := slices.Clone(line.Runs)
			slices.SortFunc(runs, func(a, b *Run) int { return a.Item.Offset - b.Item.Offset })
			at := line.Start
			for _, r := range runs {
				require.Equal(t, at, r.Item.Offset, "%q line %d", text, i)
				at = r.Item.End()
			}
			require.Equal(t, line.End(), at, "%q line %d", text, i)
			pos = line.End()
		}
		require.Equal(t, len(text), pos, "%q", text)
	}
}

func TestLayoutEllipsize(t *testing.T) {
	tests := []struct {
		mode  EllipsizeMode
		texts []string
	}{
		{EllipsizeEnd, []string{"ab", "..."}},
		{EllipsizeStart, []string{"...", "ij"}},
		{EllipsizeMiddle, []string{"a", "...", "j"}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			l := newTestLayout(t, "abcdefghij")
			l.SetWidth(5 * testAdvance)
			l.SetEllipsize(tt.mode)

			require.Equal(t, 1, l.LineCount())
			line := l.Line(0)
			assert.True(t, l.IsEllipsized())
			assert.True(t, line.IsEllipsized())
			assert.Equal(t, 5*testAdvance, line.Width())
			assert.Equal(t, 10, line.Length)

			var texts []string
			for _, r := range line.Runs {
				if r.Item.Analysis.Flags&FlagEllipsis != 0 {
					texts = append(texts, "...")
					continue
				}
				texts = append(texts, r.text(l.Text()))
			}
			assert.Equal(t, tt.texts, texts)
		})
	}
}

func TestLayoutEllipsizeFits(t *testing.T) {
	l := newTestLayout(t, "abc")
	l.SetWidth(5 * testAdvance)
	l.SetEllipsize(EllipsizeEnd)
	assert.False(t, l.IsEllipsized())
}

func TestLayoutHeightLimit(t *testing.T) {
	for _, height := range []int32{-2, 2 * testLineHeight} {
		l := newTestLayout(t, "aaa bbb ccc ddd")
		l.SetWidth(6 * testAdvance)
		l.SetEllipsize(EllipsizeEnd)
		l.SetHeight(height)

		require.Equal(t, 2, l.LineCount(), "height %d", height)
		assert.False(t, l.Line(0).IsEllipsized())
		assert.True(t, l.Line(1).IsEllipsized())
		assert.Equal(t, 6*testAdvance, l.Line(1).Width())
		assert.Equal(t, len(l.Text()), l.Line(1).End())
	}

	// Without ellipsization the height does nothing.
	l := newTestLayout(t, "aaa bbb ccc ddd")
	l.SetWidth(6 * testAdvance)
	l.SetHeight(-1)
	assert.Equal(t, 4, l.LineCount())
}

func TestLayoutAlignment(t *testing.T) {
	l := newTestLayout(t, "ab")
	l.SetWidth(10 * testAdvance)
	assert.Equal(t, int32(0), l.Line(0).X)
	l.SetAlignment(AlignCenter)
	assert.Equal(t, 4*testAdvance, l.Line(0).X)
	l.SetAlignment(AlignRight)
	assert.Equal(t, 8*testAdvance, l.Line(0).X)
}

func TestLayoutAlignmentWithoutWidth(t *testing.T) {
	l := newTestLayout(t, "a\nabc")
	l.SetAlignment(AlignRight)
	assert.Equal(t, 2*testAdvance, l.Line(0).X)
	assert.Equal(t, int32(0), l.Line(1).X)
}

func TestLayoutAlignmentMirrorsForRTL(t *testing.T) {
	l := newTestLayout(t, "\u05e9\u05dc")
	l.SetWidth(10 * testAdvance)
	assert.Equal(t, DirectionRTL, l.Line(0).ResolvedDirection)
	assert.Equal(t, 8*testAdvance, l.Line(0).X)

	l.SetAutoDir(false)
	assert.Equal(t, DirectionLTR, l.Line(0).ResolvedDirection)
	assert.Equal(t, int32(0), l.Line(0).X)
}

func TestLayoutParagraphDirectionContinues(t *testing.T) {
	l := newTestLayout(t, "\u05e9\n123")
	require.Equal(t, 2, l.LineCount())
	assert.Equal(t, DirectionRTL, l.Line(1).ResolvedDirection)
}

func TestLayoutIndent(t *testing.T) {
	l := newTestLayout(t, "aaa bbb")
	l.SetWidth(6 * testAdvance)
	l.SetIndent(2 * testAdvance)
	assert.Equal(t, []string{"aaa ", "bbb"}, lineTexts(l))
	assert.Equal(t, 2*testAdvance, l.Line(0).X)
	assert.Equal(t, int32(0), l.Line(1).X)
}

func TestLayoutJustify(t *testing.T) {
	l := newTestLayout(t, "aa bb cc dd")
	l.SetWidth(6 * testAdvance)
	l.SetJustify(true)
	require.Equal(t, []string{"aa bb ", "cc dd"}, lineTexts(l))

	// The space of the first line takes the extra width.
	assert.Equal(t, 4*testAdvance, l.IndexToPos(3).X)
	// The last line of the paragraph is left alone.
	assert.Equal(t, 3*testAdvance, l.IndexToPos(9).X)

	// Line extents follow the stretched glyphs.
	_, logical := l.Line(0).Extents()
	assert.Equal(t, 7*testAdvance, logical.Width)
	assert.Equal(t, l.Line(0).Width(), logical.Width)
}

func TestLineExtentsCached(t *testing.T) {
	l := newTestLayout(t, "ab")
	line := l.Line(0)
	ink, logical := line.Extents()
	require.Equal(t, 2*testAdvance, logical.Width)

	line.Runs[0].Glyphs.Glyphs[0].Geometry.Width += testAdvance
	ink2, logical2 := line.Extents()
	assert.Equal(t, ink, ink2)
	assert.Equal(t, logical, logical2)

	line.invalidateExtents()
	_, logical = line.Extents()
	assert.Equal(t, 3*testAdvance, logical.Width)
}

func TestLayoutJustifyWithoutSpaces(t *testing.T) {
	l := newTestLayout(t, "abc")
	l.SetWidth(6 * testAdvance)
	l.SetJustify(true)
	assert.Equal(t, 2*testAdvance, l.IndexToPos(2).X)

	l.SetJustifyLastLine(true)
	assert.Equal(t, 5*testAdvance, l.IndexToPos(2).X)
	assert.Equal(t, 6*testAdvance, l.Line(0).Width())
}

func TestLayoutTabs(t *testing.T) {
	l := newTestLayout(t, "a\tb")
	assert.Equal(t, 8*testAdvance, l.IndexToPos(2).X)

	l.SetTabs(NewTabArray(3 * testAdvance))
	assert.Equal(t, 3*testAdvance, l.IndexToPos(2).X)

	l.SetText("a\t\tb")
	assert.Equal(t, 6*testAdvance, l.IndexToPos(3).X)
}

func TestTabArrayNext(t *testing.T) {
	tests := []struct {
		name string
		tabs *TabArray
		x    int32
		want int32
	}{
		{"default", nil, 3, 8},
		{"default on stop", nil, 8, 16},
		{"first stop", NewTabArray(10, 4), 0, 4},
		{"between stops", NewTabArray(4, 10), 5, 10},
		{"after two stops", NewTabArray(4, 10), 11, 16},
		{"after one stop", NewTabArray(5), 7, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tabs.next(tt.x, 8))
		})
	}
}

func TestLayoutLetterSpacingTrimmed(t *testing.T) {
	l := newTestLayout(t, "abc")
	l.SetAttributes(NewAttrList(LetterSpacingAttr(Scale)))
	w, _ := l.Size()
	assert.Equal(t, 3*testAdvance+2*Scale, w)
}

func TestLayoutRise(t *testing.T) {
	l := newTestLayout(t, "abc")
	l.SetAttributes(NewAttrList(RiseAttr(2*Scale).In(1, 2)))
	assert.Equal(t, int32(testAscent+2*Scale), l.Baseline())
	_, h := l.Size()
	assert.Equal(t, int32(testLineHeight+2*Scale), h)
}

func TestLayoutUnknownGlyphs(t *testing.T) {
	l := newTestLayout(t, "a\U0001F600")
	assert.Equal(t, 1, l.UnknownGlyphsCount())
}

func TestLayoutIndexToPos(t *testing.T) {
	l := newTestLayout(t, "ab")
	assert.Equal(t, Rectangle{X: testAdvance, Width: testAdvance, Height: testLineHeight}, l.IndexToPos(1))
	assert.Equal(t, Rectangle{X: 2 * testAdvance, Height: testLineHeight}, l.IndexToPos(100))

	rtl := newTestLayout(t, "\u05e9\u05dc")
	pos := rtl.IndexToPos(0)
	assert.Equal(t, 2*testAdvance, pos.X)
	assert.Equal(t, -testAdvance, pos.Width)
}

func TestLayoutIndexToLineX(t *testing.T) {
	l := newTestLayout(t, "aaa bbb")
	l.SetWidth(4 * testAdvance)
	line, x := l.IndexToLineX(4, false)
	assert.Equal(t, 1, line)
	assert.Equal(t, int32(0), x)
	line, x = l.IndexToLineX(2, true)
	assert.Equal(t, 0, line)
	assert.Equal(t, 3*testAdvance, x)
}

func TestLayoutXYToIndex(t *testing.T) {
	l := newTestLayout(t, "ab\ncd")
	l.SetSpacing(4 * Scale)
	require.Equal(t, int32(40*Scale), l.Line(1).Baseline)

	tests := []struct {
		name     string
		x, y     int32
		index    int
		trailing bool
		inside   bool
	}{
		{"second line", testAdvance + testAdvance/4, 30 * Scale, 4, false, true},
		{"trailing half", testAdvance - 2, 5 * Scale, 0, true, true},
		{"in spacing", testAdvance / 4, 22 * Scale, 0, false, true},
		{"past line end", 5 * testAdvance, 5 * Scale, 2, false, false},
		{"above", 0, -5 * Scale, 0, false, false},
		{"below", 0, 100 * Scale, 3, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, trailing, inside := l.XYToIndex(tt.x, tt.y)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.trailing, trailing)
			assert.Equal(t, tt.inside, inside)
		})
	}
}

func TestLayoutCursorPos(t *testing.T) {
	l := newTestLayout(t, "ab \u05e9\u05dc")
	strong, weak := l.CursorPos(1)
	assert.Equal(t, testAdvance, strong.X)
	assert.Equal(t, testAdvance, weak.X)
	assert.Equal(t, int32(testLineHeight), strong.Height)

	// Between the space and the right-to-left word the cursors split.
	strong, weak = l.CursorPos(3)
	assert.Equal(t, 3*testAdvance, strong.X)
	assert.Equal(t, 5*testAdvance, weak.X)

	strong, weak = l.CursorPos(7)
	assert.Equal(t, 5*testAdvance, strong.X)
	assert.Equal(t, 3*testAdvance, weak.X)
}

func TestMoveCursorVisually(t *testing.T) {
	l := newTestLayout(t, "abc")
	move := func(index int, trailing bool, dir int) (int, bool) {
		return l.MoveCursorVisually(true, index, trailing, dir)
	}

	i, tr := move(1, false, 1)
	assert.Equal(t, 2, i)
	assert.False(t, tr)
	i, _ = move(1, true, 1)
	assert.Equal(t, 3, i)
	i, _ = move(0, false, -1)
	assert.Equal(t, -1, i)
	i, _ = move(3, false, 1)
	assert.Equal(t, math.MaxInt, i)
}

func TestMoveCursorVisuallyMixed(t *testing.T) {
	l := newTestLayout(t, "ab \u05e9\u05dc")
	var got []int
	index := 0
	for index != math.MaxInt {
		got = append(got, index)
		index, _ = l.MoveCursorVisually(true, index, false, 1)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 5, 7}, got)
}

func TestMoveCursorVisuallyWrapped(t *testing.T) {
	l := newTestLayout(t, "aaa bbb")
	l.SetWidth(4 * testAdvance)
	require.Equal(t, []string{"aaa ", "bbb"}, lineTexts(l))

	index, trailing := l.MoveCursorVisually(true, 3, false, 1)
	assert.Equal(t, 3, index)
	assert.True(t, trailing, "end of a wrapped line is reported as trailing")

	index, trailing = l.MoveCursorVisually(true, index, trailing, 1)
	assert.Equal(t, 4, index)
	assert.False(t, trailing)

	index, trailing = l.MoveCursorVisually(true, 4, false, -1)
	assert.Equal(t, 3, index)
	assert.True(t, trailing)

	strong, _ := l.CursorPos(4)
	assert.Equal(t, int32(0), strong.X)
	assert.Equal(t, int32(testLineHeight), strong.Y)
}

func TestLayoutSerial(t *testing.T) {
	l := newTestLayout(t, "abc")
	first := l.Lines()
	s := l.Serial()
	assert.NotZero(t, s)

	again := l.Lines()
	assert.Same(t, first[0], again[0], "unchanged layout recomputed its lines")
	assert.Equal(t, s, l.Serial())

	l.SetWidth(100 * testAdvance)
	assert.NotEqual(t, s, l.Serial())
	assert.NotSame(t, first[0], l.Lines()[0])
}

func TestLayoutFollowsContext(t *testing.T) {
	l := newTestLayout(t, "abc")
	before := l.Lines()[0]
	s := l.Serial()

	l.Context().SetLanguage(language.NewLanguage("fr"))
	assert.NotEqual(t, s, l.Serial())
	assert.NotSame(t, before, l.Lines()[0])

	s = l.Serial()
	l.Context().FontMap().AddFace(newTestFace("Another", testCovers))
	assert.NotEqual(t, s, l.Serial(), "font map change must invalidate the layout")
}
