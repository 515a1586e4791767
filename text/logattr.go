package text

import (
	"sync"
	"unicode"

	"github.com/go-text/typesetting/segmenter"
)

// LogAttr describes the boundary before a character. A text of n
// characters has n+1 LogAttrs; the last one is the end of the text.
type LogAttr struct {
	// IsLineBreak is set when a line may break before the character.
	IsLineBreak bool
	// IsMandatoryBreak is set when a line must break before the character.
	IsMandatoryBreak bool
	// IsCharBreak is set when a line may break before the character in
	// character wrapping.
	IsCharBreak bool
	// IsWhite is set for whitespace.
	IsWhite bool
	// IsCursorPosition is set at grapheme boundaries.
	IsCursorPosition bool
	IsWordStart      bool
	IsWordEnd        bool
	// IsExpandableSpace is set for spaces justification may stretch.
	IsExpandableSpace bool
}

var segmenterPool = sync.Pool{
	New: func() any { return new(segmenter.Segmenter) },
}

// ComputeLogAttrs returns the boundary attributes of text, one per
// character plus one for the end.
func ComputeLogAttrs(text string) []LogAttr {
	return computeLogAttrs([]rune(text))
}

func computeLogAttrs(runes []rune) []LogAttr {
	n := len(runes)
	attrs := make([]LogAttr, n+1)
	for i, r := range runes {
		attrs[i].IsWhite = unicode.IsSpace(r)
		attrs[i].IsExpandableSpace = r == ' ' || r == '\u00A0'
	}
	attrs[0].IsCursorPosition = true
	attrs[0].IsCharBreak = true
	attrs[n].IsCursorPosition = true
	attrs[n].IsCharBreak = true
	attrs[n].IsLineBreak = true
	if n == 0 {
		return attrs
	}

	seg := segmenterPool.Get().(*segmenter.Segmenter)
	defer segmenterPool.Put(seg)
	seg.Init(runes)

	lines := seg.LineIterator()
	for lines.Next() {
		l := lines.Line()
		end := l.Offset + len(l.Text)
		if end >= n {
			continue
		}
		attrs[end].IsLineBreak = true
		attrs[end].IsMandatoryBreak = l.IsMandatoryBreak
	}

	graphemes := seg.GraphemeIterator()
	for graphemes.Next() {
		g := graphemes.Grapheme()
		attrs[g.Offset].IsCursorPosition = true
		attrs[g.Offset].IsCharBreak = true
	}

	words := seg.WordIterator()
	for words.Next() {
		w := words.Word()
		if len(w.Text) == 0 {
			continue
		}
		attrs[w.Offset].IsWordStart = true
		attrs[w.Offset+len(w.Text)].IsWordEnd = true
	}
	return attrs
}
