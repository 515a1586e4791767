// Package emoji classifies text by emoji presentation, following Unicode
// Technical Standard #51.
//
// Itemization starts a new item wherever presentation changes, so that
// emoji sequences can be matched against color fonts independently of
// the surrounding text. Segment keeps every sequence intact:
//
//   - emoji with a variation selector (U+FE0F emoji, U+FE0E text)
//   - skin tone modifier sequences (U+1F3FB to U+1F3FF)
//   - ZWJ sequences joined by U+200D
//   - flags made of two regional indicators
//   - keycaps (digit, U+FE0F, U+20E3)
//   - subdivision flags made of tag characters
package emoji
