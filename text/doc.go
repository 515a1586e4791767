// Package text turns Unicode text into positioned glyph runs.
//
// The pipeline has four stages:
//
//   - Itemize splits text into items of uniform bidi level, script, font
//     and attributes.
//   - Shape converts the characters of an item into glyphs with a
//     ShapeEngine, keeping a mapping from glyphs back to the text.
//   - The line breaker of a Layout packs the shaped items into lines of a
//     given width, splitting items at break opportunities and ellipsizing
//     when asked to.
//   - ReorderItems puts the runs of each line into visual order.
//
// Layout drives the pipeline and answers position queries in both
// directions, between byte indices of the text and coordinates:
//
//	fm := font.NewFontMap()
//	fm.AddFontData(goregular.TTF)
//	ctx, _ := text.NewContext(fm, text.WithFontDescription(fontdesc.Parse("Go 12")))
//	l := text.NewLayout(ctx)
//	l.SetText("Hello, world")
//	l.SetWidth(100 * text.Scale)
//	for _, line := range l.Lines() {
//	    // line.Runs are in visual order
//	}
//
// All geometry is in units of 1/Scale device pixels, with y growing down.
package text
