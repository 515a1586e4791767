package font

import "errors"

// Sentinel errors for the font package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("font: empty font data")

	// ErrNoFaces is returned when font data holds no usable face.
	ErrNoFaces = errors.New("font: no faces in font data")

	// ErrNoSystemFonts is returned when the system font scan found nothing.
	ErrNoSystemFonts = errors.New("font: no system fonts found")
)

// ParseError reports a font file that could not be loaded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "font: parse: " + e.Err.Error()
	}
	return "font: parse " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
