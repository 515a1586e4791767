package text

import "slices"

// lineCluster is a cluster of a line in logical order.
type lineCluster struct {
	run        *Run
	lastGlyph  int
	byteStart  int
	width      int32
	white      bool
	expandable bool
}

// justifyLines stretches the lines that take part in justification so
// that their content, trailing whitespace excluded, ends at the layout
// width. The space goes to expandable spaces, or between all clusters
// when a line has none.
func (l *Layout) justifyLines() {
	if !l.justify || l.width < 0 {
		return
	}
	for _, line := range l.lines {
		if line.ellipsized || len(line.Runs) == 0 {
			continue
		}
		if line.IsParagraphEnd && !l.justifyLastLine {
			continue
		}
		l.justifyLine(line)
	}
}

func (l *Layout) justifyLine(line *Line) {
	clusters := l.lineClusters(line)
	content := len(clusters)
	var trailing int32
	for content > 0 && clusters[content-1].white {
		trailing += clusters[content-1].width
		content--
	}
	extra := l.width - l.indentOf(line) - (line.Width() - trailing)
	if extra <= 0 || content == 0 {
		return
	}

	var targets []lineCluster
	for _, c := range clusters[:content] {
		if c.expandable {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		targets = clusters[:content-1]
	}
	if len(targets) == 0 {
		return
	}

	share, rest := extra/int32(len(targets)), extra%int32(len(targets))
	for i, c := range targets {
		add := share
		if int32(i) < rest {
			add++
		}
		c.run.Glyphs.Glyphs[c.lastGlyph].Geometry.Width += add
	}
	line.invalidateExtents()
}

// lineClusters returns the clusters of line in logical order.
func (l *Layout) lineClusters(line *Line) []lineCluster {
	runs := slices.Clone(line.Runs)
	slices.SortFunc(runs, func(a, b *Run) int { return a.Item.Offset - b.Item.Offset })

	var out []lineCluster
	for _, r := range runs {
		cs := r.Glyphs.clusters(r.text(l.text))
		if r.rtl() {
			slices.Reverse(cs)
		}
		for _, c := range cs {
			lc := lineCluster{
				run:       r,
				lastGlyph: c.glyphEnd - 1,
				byteStart: r.Item.Offset + c.byteStart,
				width:     c.width,
				white:     true,
			}
			if r.Item.Analysis.Flags&FlagEllipsis != 0 {
				lc.white = false
			} else {
				for b := lc.byteStart; b < r.Item.Offset+c.byteEnd; {
					attr := l.logAttrs[l.charAt(b)]
					lc.white = lc.white && attr.IsWhite
					lc.expandable = lc.expandable || attr.IsExpandableSpace
					b = l.runeOffsets[l.charAt(b)+1]
				}
				lc.expandable = lc.expandable && lc.white
			}
			out = append(out, lc)
		}
	}
	return out
}

// charAt returns the character index of byte offset b of the layout text.
func (l *Layout) charAt(b int) int {
	i, _ := slices.BinarySearch(l.runeOffsets, b)
	return i
}
