// Package render paints laid out text.
//
// Draw walks the lines of a text.Layout in visual order and hands every
// positioned glyph to a Backend. Backends that also implement Colorer and
// RectFiller receive run colors and underline or strikethrough rectangles.
//
// Raster is the bundled Backend. It scan converts glyph outlines into an
// *image.RGBA:
//
//	r := render.NewRaster(640, 480)
//	r.Clear(color.White)
//	render.Draw(r, layout, 10, 10, color.RGBA{A: 0xff})
//	png.Encode(w, r.Image())
package render
