package text

import (
	"slices"

	"golang.org/x/text/unicode/bidi"
)

// maxBidiDepth is the deepest explicit embedding level.
const maxBidiDepth = 125

func bidiClass(r rune) bidi.Class {
	p, _ := bidi.LookupRune(r)
	return p.Class()
}

// paragraphDirection resolves a weak base direction from the first strong
// character outside isolates. Strong base directions are returned as is.
func paragraphDirection(runes []rune, base Direction) Direction {
	if !base.IsWeak() {
		return base
	}
	isolates := 0
scan:
	for _, r := range runes {
		switch bidiClass(r) {
		case bidi.LRI, bidi.RLI, bidi.FSI:
			isolates++
		case bidi.PDI:
			if isolates > 0 {
				isolates--
			}
		case bidi.L:
			if isolates == 0 {
				return DirectionLTR
			}
		case bidi.R, bidi.AL:
			if isolates == 0 {
				return DirectionRTL
			}
		case bidi.B:
			break scan
		}
	}
	if base == DirectionWeakRTL {
		return DirectionRTL
	}
	return DirectionLTR
}

// bidiLevels returns the embedding level of every rune together with the
// resolved paragraph direction. Paragraph separators take the base level
// and split the text into independently resolved paragraphs.
func bidiLevels(runes []rune, base Direction) ([]uint8, Direction) {
	dir := paragraphDirection(runes, base)
	baseLevel := dir.Level()
	levels := make([]uint8, len(runes))
	classes := make([]bidi.Class, len(runes))
	for i, r := range runes {
		classes[i] = bidiClass(r)
	}

	start := 0
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && classes[i] != bidi.B {
			continue
		}
		p := bidiParagraph{
			runes:   runes[start:i],
			classes: classes[start:i],
			levels:  levels[start:i],
			base:    baseLevel,
		}
		p.resolve()
		if i < len(runes) {
			levels[i] = baseLevel
		}
		start = i + 1
	}
	return levels, dir
}

// bidiParagraph resolves the levels of one paragraph without separators.
// classes holds the original classes, types the classes as the rules
// rewrite them.
type bidiParagraph struct {
	runes   []rune
	classes []bidi.Class
	levels  []uint8
	base    uint8

	types       []bidi.Class
	matchingPDI []int // for isolate initiators; len(runes) when unmatched
	initiator   []int // for matched PDIs; -1 otherwise
}

// runSequence is an isolating run sequence: indices into the paragraph,
// their common level, and the directions at its two ends.
type runSequence struct {
	idx      []int
	level    uint8
	sos, eos bidi.Class
}

type bidiStatus struct {
	level    uint8
	override bidi.Class // ON when neutral
	isolate  bool
}

func (p *bidiParagraph) resolve() {
	if len(p.runes) == 0 {
		return
	}
	p.types = slices.Clone(p.classes)
	p.matchIsolates()
	p.resolveExplicit()
	for _, s := range p.isolatingRunSequences() {
		p.resolveWeak(s)
		p.resolveBrackets(s)
		p.resolveNeutral(s)
		p.resolveImplicit(s)
	}
	p.levelRemoved()
	p.resetWhitespace()
}

func (p *bidiParagraph) matchIsolates() {
	n := len(p.classes)
	p.matchingPDI = make([]int, n)
	p.initiator = make([]int, n)
	var open []int
	for i, c := range p.classes {
		p.matchingPDI[i], p.initiator[i] = -1, -1
		switch {
		case isIsolateInitiator(c):
			p.matchingPDI[i] = n
			open = append(open, i)
		case c == bidi.PDI && len(open) > 0:
			j := open[len(open)-1]
			open = open[:len(open)-1]
			p.matchingPDI[j] = i
			p.initiator[i] = j
		}
	}
}

// resolveExplicit assigns explicit levels and applies overrides with a
// directional status stack.
func (p *bidiParagraph) resolveExplicit() {
	stack := make([]bidiStatus, 1, maxBidiDepth+2)
	stack[0] = bidiStatus{level: p.base, override: bidi.ON}
	var overflowIsolates, overflowEmbeddings, validIsolates int

	for i, c := range p.classes {
		top := stack[len(stack)-1]
		switch c {
		case bidi.RLE, bidi.LRE, bidi.RLO, bidi.LRO:
			p.levels[i] = top.level
			next := nextBidiLevel(top.level, c == bidi.RLE || c == bidi.RLO)
			if next <= maxBidiDepth && overflowIsolates == 0 && overflowEmbeddings == 0 {
				st := bidiStatus{level: next, override: bidi.ON}
				switch c {
				case bidi.RLO:
					st.override = bidi.R
				case bidi.LRO:
					st.override = bidi.L
				}
				stack = append(stack, st)
			} else if overflowIsolates == 0 {
				overflowEmbeddings++
			}

		case bidi.RLI, bidi.LRI, bidi.FSI:
			p.levels[i] = top.level
			if top.override != bidi.ON {
				p.types[i] = top.override
			}
			rtl := c == bidi.RLI
			if c == bidi.FSI {
				rtl = paragraphDirection(p.runes[i+1:p.matchingPDI[i]], DirectionWeakLTR) == DirectionRTL
			}
			next := nextBidiLevel(top.level, rtl)
			if next <= maxBidiDepth && overflowIsolates == 0 && overflowEmbeddings == 0 {
				validIsolates++
				stack = append(stack, bidiStatus{level: next, override: bidi.ON, isolate: true})
			} else {
				overflowIsolates++
			}

		case bidi.PDI:
			switch {
			case overflowIsolates > 0:
				overflowIsolates--
			case validIsolates > 0:
				overflowEmbeddings = 0
				for !stack[len(stack)-1].isolate {
					stack = stack[:len(stack)-1]
				}
				stack = stack[:len(stack)-1]
				validIsolates--
			}
			top = stack[len(stack)-1]
			p.levels[i] = top.level
			if top.override != bidi.ON {
				p.types[i] = top.override
			}

		case bidi.PDF:
			p.levels[i] = top.level
			switch {
			case overflowIsolates > 0:
			case overflowEmbeddings > 0:
				overflowEmbeddings--
			case !top.isolate && len(stack) > 1:
				stack = stack[:len(stack)-1]
			}

		case bidi.BN:
			p.levels[i] = top.level

		default:
			p.levels[i] = top.level
			if top.override != bidi.ON {
				p.types[i] = top.override
			}
		}
	}
}

// isolatingRunSequences splits the paragraph into level runs, skipping the
// characters the explicit rules remove, and chains the runs an isolate
// initiator and its matching PDI connect.
func (p *bidiParagraph) isolatingRunSequences() []runSequence {
	n := len(p.classes)
	var runs [][]int
	runOf := make([]int, n)
	for i, c := range p.classes {
		runOf[i] = -1
		if removedByExplicit(c) {
			continue
		}
		if len(runs) == 0 || p.levels[i] != p.levels[runs[len(runs)-1][0]] {
			runs = append(runs, nil)
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], i)
		runOf[i] = len(runs) - 1
	}

	var seqs []runSequence
	for _, run := range runs {
		if j := p.initiator[run[0]]; j >= 0 && runOf[j] >= 0 && runs[runOf[j]][len(runs[runOf[j]])-1] == j {
			continue
		}
		var idx []int
		for {
			idx = append(idx, run...)
			last := run[len(run)-1]
			if !isIsolateInitiator(p.classes[last]) || p.matchingPDI[last] >= n {
				break
			}
			r := runOf[p.matchingPDI[last]]
			if r < 0 || runs[r][0] != p.matchingPDI[last] {
				break
			}
			run = runs[r]
		}
		seqs = append(seqs, p.newSequence(idx))
	}
	return seqs
}

func (p *bidiParagraph) newSequence(idx []int) runSequence {
	first, last := idx[0], idx[len(idx)-1]
	level := p.levels[first]

	prev := p.base
	for i := first - 1; i >= 0; i-- {
		if !removedByExplicit(p.classes[i]) {
			prev = p.levels[i]
			break
		}
	}
	next := p.base
	if !isIsolateInitiator(p.classes[last]) {
		for i := last + 1; i < len(p.classes); i++ {
			if !removedByExplicit(p.classes[i]) {
				next = p.levels[i]
				break
			}
		}
	}
	return runSequence{
		idx:   idx,
		level: level,
		sos:   levelClass(max(level, prev)),
		eos:   levelClass(max(level, next)),
	}
}

// resolveWeak applies the weak type rules W1 to W7.
func (p *bidiParagraph) resolveWeak(s runSequence) {
	t := p.types
	idx := s.idx

	// Marks take the type of what they follow.
	prev := s.sos
	for _, i := range idx {
		if t[i] == bidi.NSM {
			t[i] = prev
		}
		prev = t[i]
		if isIsolateControl(t[i]) {
			prev = bidi.ON
		}
	}

	// European numbers after Arabic letters are Arabic numbers.
	strong := s.sos
	for _, i := range idx {
		switch t[i] {
		case bidi.L, bidi.R:
			strong = t[i]
		case bidi.AL:
			strong = bidi.AL
			t[i] = bidi.R
		case bidi.EN:
			if strong == bidi.AL {
				t[i] = bidi.AN
			}
		}
	}

	// Single separators between numbers of one kind.
	for k := 1; k+1 < len(idx); k++ {
		i := idx[k]
		before, after := t[idx[k-1]], t[idx[k+1]]
		switch {
		case t[i] == bidi.ES && before == bidi.EN && after == bidi.EN:
			t[i] = bidi.EN
		case t[i] == bidi.CS && before == after && (before == bidi.EN || before == bidi.AN):
			t[i] = before
		}
	}

	// Terminators next to European numbers.
	for k := 0; k < len(idx); k++ {
		if t[idx[k]] != bidi.ET {
			continue
		}
		end := k
		for end < len(idx) && t[idx[end]] == bidi.ET {
			end++
		}
		if (k > 0 && t[idx[k-1]] == bidi.EN) || (end < len(idx) && t[idx[end]] == bidi.EN) {
			for j := k; j < end; j++ {
				t[idx[j]] = bidi.EN
			}
		}
		k = end - 1
	}

	for _, i := range idx {
		switch t[i] {
		case bidi.ES, bidi.ET, bidi.CS:
			t[i] = bidi.ON
		}
	}

	strong = s.sos
	for _, i := range idx {
		switch t[i] {
		case bidi.L, bidi.R:
			strong = t[i]
		case bidi.EN:
			if strong == bidi.L {
				t[i] = bidi.L
			}
		}
	}
}

// resolveBrackets gives paired brackets the direction of their content
// (rule N0).
func (p *bidiParagraph) resolveBrackets(s runSequence) {
	t := p.types
	type opener struct {
		pos  int
		open rune
	}
	type pair struct{ open, close int }
	var (
		stack []opener
		pairs []pair
	)
scan:
	for k, i := range s.idx {
		if t[i] != bidi.ON {
			continue
		}
		r := canonicalBracket(p.runes[i])
		if isOpeningBracket(r) {
			if len(stack) == maxBracketDepth-1 {
				break scan
			}
			stack = append(stack, opener{pos: k, open: r})
			continue
		}
		open, ok := closingBracket(r)
		if !ok {
			continue
		}
		open = canonicalBracket(open)
		for j := len(stack) - 1; j >= 0; j-- {
			if stack[j].open == open {
				pairs = append(pairs, pair{stack[j].pos, k})
				stack = stack[:j]
				break
			}
		}
	}
	slices.SortFunc(pairs, func(a, b pair) int { return a.open - b.open })

	e := levelClass(s.level)
	for _, pr := range pairs {
		found := bidi.ON
		for k := pr.open + 1; k < pr.close; k++ {
			d := strongClass(t[s.idx[k]])
			if d == e {
				found = e
				break
			}
			if d != bidi.ON {
				found = d
			}
		}
		if found == bidi.ON {
			continue
		}
		dir := found
		if found != e {
			context := s.sos
			for k := pr.open - 1; k >= 0; k-- {
				if d := strongClass(t[s.idx[k]]); d != bidi.ON {
					context = d
					break
				}
			}
			if context != found {
				dir = e
			}
		}
		for _, k := range []int{pr.open, pr.close} {
			t[s.idx[k]] = dir
			for j := k + 1; j < len(s.idx) && p.classes[s.idx[j]] == bidi.NSM; j++ {
				t[s.idx[j]] = dir
			}
		}
	}
}

// resolveNeutral gives runs of neutrals the direction of their strong
// neighbors when both agree, and the embedding direction otherwise.
func (p *bidiParagraph) resolveNeutral(s runSequence) {
	t := p.types
	idx := s.idx
	e := levelClass(s.level)
	for k := 0; k < len(idx); k++ {
		if !isNeutral(t[idx[k]]) {
			continue
		}
		end := k
		for end < len(idx) && isNeutral(t[idx[end]]) {
			end++
		}
		before, after := s.sos, s.eos
		if k > 0 {
			before = strongClass(t[idx[k-1]])
		}
		if end < len(idx) {
			after = strongClass(t[idx[end]])
		}
		dir := e
		if before == after {
			dir = before
		}
		for j := k; j < end; j++ {
			t[idx[j]] = dir
		}
		k = end - 1
	}
}

func (p *bidiParagraph) resolveImplicit(s runSequence) {
	odd := s.level&1 == 1
	for _, i := range s.idx {
		switch c := p.types[i]; {
		case !odd && c == bidi.R:
			p.levels[i]++
		case !odd && (c == bidi.AN || c == bidi.EN):
			p.levels[i] += 2
		case odd && (c == bidi.L || c == bidi.AN || c == bidi.EN):
			p.levels[i]++
		}
	}
}

// levelRemoved gives the characters the explicit rules removed the level
// of the character before them, so they never split a run.
func (p *bidiParagraph) levelRemoved() {
	for i, c := range p.classes {
		if !removedByExplicit(c) {
			continue
		}
		if i == 0 {
			p.levels[i] = p.base
		} else {
			p.levels[i] = p.levels[i-1]
		}
	}
}

// resetWhitespace puts segment separators, and whitespace before them or
// at the end of the paragraph, at the paragraph level.
func (p *bidiParagraph) resetWhitespace() {
	trailing := true
	for i := len(p.classes) - 1; i >= 0; i-- {
		c := p.classes[i]
		switch {
		case c == bidi.S || c == bidi.B:
			p.levels[i] = p.base
			trailing = true
		case trailing && (c == bidi.WS || isIsolateControl(c) || removedByExplicit(c)):
			p.levels[i] = p.base
		default:
			trailing = false
		}
	}
}

func nextBidiLevel(level uint8, rtl bool) uint8 {
	if rtl {
		return (level + 1) | 1
	}
	return (level + 2) &^ 1
}

func levelClass(level uint8) bidi.Class {
	if level&1 == 1 {
		return bidi.R
	}
	return bidi.L
}

// strongClass maps a resolved type to L or R, with numbers counting as R,
// and everything else to ON.
func strongClass(c bidi.Class) bidi.Class {
	switch c {
	case bidi.L:
		return bidi.L
	case bidi.R, bidi.AL, bidi.EN, bidi.AN:
		return bidi.R
	}
	return bidi.ON
}

func isNeutral(c bidi.Class) bool {
	switch c {
	case bidi.B, bidi.S, bidi.WS, bidi.ON:
		return true
	}
	return isIsolateControl(c)
}

func isIsolateInitiator(c bidi.Class) bool {
	return c == bidi.LRI || c == bidi.RLI || c == bidi.FSI
}

func isIsolateControl(c bidi.Class) bool {
	return isIsolateInitiator(c) || c == bidi.PDI
}

func removedByExplicit(c bidi.Class) bool {
	switch c {
	case bidi.RLE, bidi.LRE, bidi.RLO, bidi.LRO, bidi.PDF, bidi.BN:
		return true
	}
	return false
}

// canonicalBracket maps the angle brackets with canonical equivalents to
// one form so either pairs with the other.
func canonicalBracket(r rune) rune {
	switch r {
	case '\u2329':
		return '\u3008'
	case '\u232A':
		return '\u3009'
	}
	return r
}
