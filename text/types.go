package text

import (
	"github.com/gogpu/textlayout/font"
)

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Scale is the number of geometry units per device pixel. All widths,
// offsets and rectangles in this package are in units of 1/Scale pixels.
const Scale = font.Scale

// Rectangle is a rectangle in units of 1/Scale pixels, y growing down.
type Rectangle = font.Rect

// Direction is the direction of a paragraph or of a run of text.
type Direction int

const (
	// DirectionLTR forces a left-to-right paragraph.
	DirectionLTR Direction = iota
	// DirectionRTL forces a right-to-left paragraph.
	DirectionRTL
	// DirectionWeakLTR takes the direction of the first strong character,
	// left-to-right when there is none.
	DirectionWeakLTR
	// DirectionWeakRTL takes the direction of the first strong character,
	// right-to-left when there is none.
	DirectionWeakRTL
	// DirectionNeutral behaves like DirectionWeakLTR.
	DirectionNeutral
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	case DirectionWeakLTR:
		return "WeakLTR"
	case DirectionWeakRTL:
		return "WeakRTL"
	case DirectionNeutral:
		return "Neutral"
	default:
		return unknownStr
	}
}

// IsWeak reports whether the direction yields to the text content.
func (d Direction) IsWeak() bool {
	return d == DirectionWeakLTR || d == DirectionWeakRTL || d == DirectionNeutral
}

// Level returns the paragraph embedding level of a strong direction.
func (d Direction) Level() uint8 {
	if d == DirectionRTL || d == DirectionWeakRTL {
		return 1
	}
	return 0
}

// directionOfLevel returns the strong direction of an embedding level.
func directionOfLevel(level uint8) Direction {
	if level%2 == 1 {
		return DirectionRTL
	}
	return DirectionLTR
}

// Alignment specifies how lines are placed within the layout width.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// String returns the string representation of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignCenter:
		return "Center"
	case AlignRight:
		return "Right"
	default:
		return unknownStr
	}
}

// WrapMode specifies where lines may be broken when they exceed the width.
type WrapMode uint8

const (
	// WrapWord breaks at word boundaries only. Words longer than the
	// width overflow.
	WrapWord WrapMode = iota

	// WrapChar breaks at any character cluster boundary.
	WrapChar

	// WrapWordChar breaks at word boundaries, falling back to cluster
	// boundaries when a single word does not fit.
	WrapWordChar
)

// String returns the string representation of the wrap mode.
func (m WrapMode) String() string {
	switch m {
	case WrapWord:
		return "Word"
	case WrapChar:
		return "Char"
	case WrapWordChar:
		return "WordChar"
	default:
		return unknownStr
	}
}

// EllipsizeMode selects where text is removed when a line is ellipsized.
type EllipsizeMode uint8

const (
	EllipsizeNone EllipsizeMode = iota
	EllipsizeStart
	EllipsizeMiddle
	EllipsizeEnd
)

// String returns the string representation of the ellipsize mode.
func (m EllipsizeMode) String() string {
	switch m {
	case EllipsizeNone:
		return "None"
	case EllipsizeStart:
		return "Start"
	case EllipsizeMiddle:
		return "Middle"
	case EllipsizeEnd:
		return "End"
	default:
		return unknownStr
	}
}

// ScriptTieBreak decides the script of Common and Inherited characters at
// the start of a paragraph, before any character of a strong script.
type ScriptTieBreak uint8

const (
	// TieForward gives leading characters the first strong script that
	// follows them.
	TieForward ScriptTieBreak = iota
	// TieBackward only looks backward, so leading characters stay Common.
	TieBackward
)

// String returns the string representation of the tie break.
func (t ScriptTieBreak) String() string {
	switch t {
	case TieForward:
		return "Forward"
	case TieBackward:
		return "Backward"
	default:
		return unknownStr
	}
}

// Underline is the underline style of a run.
type Underline uint8

const (
	UnderlineNone Underline = iota
	UnderlineSingle
	UnderlineDouble
	// UnderlineLow places a single line below the ink of descenders.
	UnderlineLow
)

// String returns the string representation of the underline style.
func (u Underline) String() string {
	switch u {
	case UnderlineNone:
		return "None"
	case UnderlineSingle:
		return "Single"
	case UnderlineDouble:
		return "Double"
	case UnderlineLow:
		return "Low"
	default:
		return unknownStr
	}
}
