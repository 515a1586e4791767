package emoji

// Run is a maximal range of runes, [Start, End) in rune indices, that is
// displayed either as emoji or as text.
type Run struct {
	Start, End int
	Emoji      bool
}

// Segment splits runes into alternating text and emoji presentation runs.
// Emoji sequences (flags, keycaps, modifier and ZWJ sequences, tag
// sequences) are never split.
func Segment(runes []rune) []Run {
	var runs []Run
	for i := 0; i < len(runes); {
		n, isEmoji := scan(runes[i:])
		if len(runs) > 0 && runs[len(runs)-1].Emoji == isEmoji {
			runs[len(runs)-1].End = i + n
		} else {
			runs = append(runs, Run{Start: i, End: i + n, Emoji: isEmoji})
		}
		i += n
	}
	return runs
}

// scan measures the sequence at the start of runes, which is not empty,
// and reports whether it has emoji presentation.
func scan(runes []rune) (int, bool) {
	r := runes[0]
	switch {
	case IsRegionalIndicator(r):
		if len(runes) > 1 && IsRegionalIndicator(runes[1]) {
			return 2, true
		}
		return 1, true
	case r == blackFlag:
		if n := tagSequence(runes); n > 0 {
			return n, true
		}
	case IsKeycapBase(r):
		if len(runes) > 2 && runes[1] == emojiSelector && runes[2] == keycapMark {
			return 3, true
		}
		return 1, false
	}
	if !IsEmoji(r) {
		return 1, false
	}

	n, isEmoji := element(runes)
	for n+1 < len(runes) && IsZWJ(runes[n]) {
		m, _ := element(runes[n+1:])
		if m == 0 {
			break
		}
		n += 1 + m
		isEmoji = true
	}
	return n, isEmoji
}

// element measures one emoji with its optional selector or modifier. It
// returns 0 when runes does not start with an emoji.
func element(runes []rune) (int, bool) {
	if len(runes) == 0 || !(IsEmoji(runes[0]) || isEmojiComponent(runes[0])) {
		return 0, false
	}
	isEmoji := isEmojiPresentation(runes[0])
	n := 1
	if n < len(runes) {
		switch {
		case runes[n] == emojiSelector:
			isEmoji = true
			n++
		case runes[n] == textSelector:
			return n + 1, false
		case IsEmojiModifier(runes[n]) && IsEmojiModifierBase(runes[0]):
			isEmoji = true
			n++
		}
	}
	return n, isEmoji
}

// tagSequence measures a subdivision flag: black flag, tags, cancel tag.
func tagSequence(runes []rune) int {
	i := 1
	for i < len(runes) && IsTagCharacter(runes[i]) {
		i++
	}
	if i > 1 && i < len(runes) && runes[i] == cancelTag {
		return i + 1
	}
	return 0
}
