package text

import (
	"github.com/go-text/typesetting/language"
)

// Segment is a maximal run of text with one bidi level and one script.
type Segment struct {
	// Start and End are byte offsets into the segmented text.
	Start, End int
	Level      uint8
	Direction  Direction
	Script     language.Script
}

// SegmentText splits text into segments of uniform bidi level and
// resolved script, in logical order. base is the paragraph direction and
// tie decides the script of characters before the first strong script.
func SegmentText(text string, base Direction, tie ScriptTieBreak) []Segment {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	levels, _ := bidiLevels(runes, base)
	scripts := resolveScripts(runes, levels, tie)
	offsets := byteOffsets(text, len(runes))

	segments := make([]Segment, 0, 4)
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && levels[i] == levels[start] && scripts[i] == scripts[start] {
			continue
		}
		segments = append(segments, Segment{
			Start:     offsets[start],
			End:       offsets[i],
			Level:     levels[start],
			Direction: directionOfLevel(levels[start]),
			Script:    scripts[start],
		})
		start = i
	}
	return segments
}

// byteOffsets returns the byte offset of every rune of text plus a final
// entry holding len(text).
func byteOffsets(text string, n int) []int {
	offsets := make([]int, 0, n+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
