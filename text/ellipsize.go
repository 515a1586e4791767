package text

// ellipsize replaces part of the text of a line by an ellipsis until the
// line fits goal. runs are the line's runs in logical order, covering
// runes [pos, end) of the paragraph. The gap removed is grown one cursor
// position at a time from the start, the end or the middle of the line,
// and the ellipsis item covers exactly the removed text.
func (b *lineBreaker) ellipsize(runs []*Run, pos, end int, goal int32) []*Run {
	if len(runs) == 0 || pos == end {
		return runs
	}
	xs := make([]int32, end-pos+1)
	for i := pos; i < end; i++ {
		xs[i-pos+1] = xs[i-pos] + b.widths[i]
	}
	at := func(i int) int32 { return xs[i-pos] }
	total := at(end)
	boundary := func(i int) bool { return i <= pos || i >= end || b.attrs[i].IsCursorPosition }
	prev := func(i int) int {
		for i--; !boundary(i); i-- {
		}
		return max(i, pos)
	}
	next := func(i int) int {
		for i++; !boundary(i); i++ {
		}
		return min(i, end)
	}

	var gs, ge int
	var center int32
	switch b.l.ellipsize {
	case EllipsizeStart:
		gs, ge = pos, pos
	case EllipsizeMiddle:
		center = total / 2
		gs = pos
		for gs < end && at(gs) < center {
			gs = next(gs)
		}
		ge = gs
	default:
		gs, ge = end, end
	}

	width := func() int32 {
		return total - (at(ge) - at(gs)) + b.ellipsisGlyphs(runs, gs).Width()
	}
	for width() > goal && (gs > pos || ge < end) {
		canLeft, canRight := gs > pos, ge < end
		switch {
		case b.l.ellipsize == EllipsizeStart && canRight:
			ge = next(ge)
		case b.l.ellipsize == EllipsizeEnd && canLeft:
			gs = prev(gs)
		case canLeft && canRight:
			nl, nr := prev(gs), next(ge)
			left := max(at(ge)-center, center-at(nl))
			right := max(at(nr)-center, center-at(gs))
			if left <= right {
				gs = nl
			} else {
				ge = nr
			}
		case canLeft:
			gs = prev(gs)
		default:
			ge = next(ge)
		}
	}
	if gs == ge {
		return runs
	}

	glyphs := b.ellipsisGlyphs(runs, gs).Copy()
	a := runAtRune(b, runs, gs).Item.Analysis
	a.Flags |= FlagEllipsis

	runs = b.splitRunsAt(runs, gs)
	runs = b.splitRunsAt(runs, ge)
	gapStart, gapEnd := b.offs[gs], b.offs[ge]
	out := make([]*Run, 0, len(runs)+1)
	for _, r := range runs {
		if r.Item.End() <= gapStart {
			out = append(out, r)
		}
	}
	out = append(out, &Run{
		Item: &Item{
			Offset:   gapStart,
			Length:   gapEnd - gapStart,
			NumChars: ge - gs,
			Analysis: a,
		},
		Glyphs:  glyphs,
		YOffset: -a.Extra.Rise,
	})
	for _, r := range runs {
		if r.Item.Offset >= gapEnd {
			out = append(out, r)
		}
	}
	return out
}

// runAtRune returns the run holding rune i, or the last run when i is at
// the end of the line.
func runAtRune(b *lineBreaker, runs []*Run, i int) *Run {
	if i < len(b.offs)-1 {
		off := b.offs[i]
		for _, r := range runs {
			if off >= r.Item.Offset && off < r.Item.End() {
				return r
			}
		}
	}
	return runs[len(runs)-1]
}

// ellipsisGlyphs returns the ellipsis shaped with the analysis of the run
// at rune i: U+2026, or three periods when the font lacks it. The glyphs
// form one cluster.
func (b *lineBreaker) ellipsisGlyphs(runs []*Run, i int) *GlyphString {
	a := runAtRune(b, runs, i).Item.Analysis
	a.Flags |= FlagEllipsis
	if gs, ok := b.ellipses[a]; ok {
		return gs
	}
	s := "\u2026"
	if a.Font != nil && !a.Font.HasChar('\u2026') {
		s = "..."
	}
	gs := Shape(b.l.ctx, s, &a)
	for i := range gs.Glyphs {
		gs.LogClusters[i] = 0
		gs.Glyphs[i].Attr.IsClusterStart = i == 0
	}
	if b.ellipses == nil {
		b.ellipses = make(map[Analysis]*GlyphString)
	}
	b.ellipses[a] = gs
	return gs
}

// splitRunsAt splits the run straddling rune i in two, reshaping both
// parts.
func (b *lineBreaker) splitRunsAt(runs []*Run, i int) []*Run {
	cut := b.offs[i]
	for k, r := range runs {
		if cut <= r.Item.Offset || cut >= r.Item.End() {
			continue
		}
		head := r.Item.Split(cut-r.Item.Offset, i-b.charIndex(r.Item.Offset))
		tail := r.Item
		out := make([]*Run, 0, len(runs)+1)
		out = append(out, runs[:k]...)
		out = append(out, b.newRun(head), b.newRun(tail))
		return append(out, runs[k+1:]...)
	}
	return runs
}
