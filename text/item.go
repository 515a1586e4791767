package text

import (
	"fmt"
	"image/color"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout/font"
	"github.com/gogpu/textlayout/fontdesc"
)

// AnalysisFlags are boolean properties of an Analysis.
type AnalysisFlags uint8

const (
	// FlagCenteredBaseline marks vertical text whose glyphs are centered
	// on the baseline.
	FlagCenteredBaseline AnalysisFlags = 1 << iota
	// FlagEmoji marks text in emoji presentation.
	FlagEmoji
	// FlagEllipsis marks the synthetic item that replaces ellipsized text.
	FlagEllipsis
)

// ExtraAttrs are attributes that do not affect itemization boundaries on
// their own but travel with an item to shaping and rendering.
type ExtraAttrs struct {
	LetterSpacing int32
	Rise          int32
	Underline     Underline
	Strikethrough bool
	Foreground    color.RGBA
	HasForeground bool
}

// Analysis is the resolved shaping state of an Item. Analysis values are
// comparable; two adjacent items with equal analyses could be one item.
type Analysis struct {
	// Font is nil when no font could be resolved. Such items shape to
	// unknown glyphs.
	Font     *font.Font
	Script   language.Script
	Language language.Language
	// Level is the bidi embedding level; odd levels are right-to-left.
	Level    uint8
	Gravity  fontdesc.Gravity
	Flags    AnalysisFlags
	Features string
	Extra    ExtraAttrs
}

// Direction returns the direction of text at the analysis level.
func (a *Analysis) Direction() Direction { return directionOfLevel(a.Level) }

// Item is a run of text with uniform analysis. Offset and Length are in
// bytes into the text passed to Itemize; NumChars is the number of
// characters in the range.
type Item struct {
	Offset   int
	Length   int
	NumChars int
	Analysis Analysis
}

// End returns the byte offset just past the item.
func (it *Item) End() int { return it.Offset + it.Length }

// Copy returns an independent copy of the item.
func (it *Item) Copy() *Item {
	c := *it
	return &c
}

// Split cuts the item in two at splitIndex bytes and splitOffset
// characters from its start. It returns the head; the receiver becomes
// the tail. The split must leave both parts non-empty; Split panics
// otherwise.
func (it *Item) Split(splitIndex, splitOffset int) *Item {
	if splitIndex <= 0 || splitIndex >= it.Length {
		panic(fmt.Sprintf("text: Item.Split index %d outside (0, %d)", splitIndex, it.Length))
	}
	if splitOffset <= 0 || splitOffset >= it.NumChars {
		panic(fmt.Sprintf("text: Item.Split offset %d outside (0, %d)", splitOffset, it.NumChars))
	}
	head := it.Copy()
	head.Length = splitIndex
	head.NumChars = splitOffset
	it.Offset += splitIndex
	it.Length -= splitIndex
	it.NumChars -= splitOffset
	return head
}

// Unsplit undoes a Split that produced a head of splitIndex bytes and
// splitOffset characters, growing the receiver back over the head's
// range. Unsplit panics when the receiver cannot have been such a tail.
func (it *Item) Unsplit(splitIndex, splitOffset int) {
	if splitIndex <= 0 || splitIndex > it.Offset {
		panic(fmt.Sprintf("text: Item.Unsplit index %d invalid at offset %d", splitIndex, it.Offset))
	}
	if splitOffset <= 0 || splitOffset > splitIndex {
		panic(fmt.Sprintf("text: Item.Unsplit offset %d invalid for %d bytes", splitOffset, splitIndex))
	}
	it.Offset -= splitIndex
	it.Length += splitIndex
	it.NumChars += splitOffset
}

// String describes the item for debugging.
func (it *Item) String() string {
	return fmt.Sprintf("Item[%d:%d] chars=%d level=%d script=%s", it.Offset, it.End(), it.NumChars,
		it.Analysis.Level, it.Analysis.Script)
}
