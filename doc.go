// Package textlayout is a text shaping and line layout engine.
//
// Given a Unicode string, a font description and layout constraints
// (width, wrapping, alignment, direction) it produces lines of positioned,
// shaped glyph runs that any backend can paint.
//
// # Pipeline
//
// Text flows through these stages, each in its own package:
//   - fontdesc: font descriptions and their string grammar ("Sans Bold 12")
//   - font: faces, sized fonts, the versioned FontMap and fallback
//   - text: itemization (bidi, script, attributes, font fallback), shaping,
//     line breaking, ellipsization, visual reordering and the Layout engine
//   - render: a raster backend that paints laid out text into an image
//
// # Units
//
// Geometry is expressed in fixed-point units of 1/1024 of a pixel
// (text.Scale), mirroring the font description size encoding.
//
// # Logging
//
// The root package owns the logger shared by every sub-package.
// Logging is disabled until SetLogger is called.
package textlayout
