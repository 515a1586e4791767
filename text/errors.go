package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrNoFontMap is returned when a Context is created without a font map.
	ErrNoFontMap = errors.New("text: nil font map")

	// ErrUnsupportedFont is returned by a ShapeEngine asked to shape with
	// a font it cannot handle.
	ErrUnsupportedFont = errors.New("text: font not supported by shape engine")

	// ErrMarkup is returned by ParseMarkup for malformed markup.
	ErrMarkup = errors.New("text: invalid markup")
)
