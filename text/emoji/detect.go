package emoji

// IsEmoji reports whether r has the Emoji property: it can be displayed as
// an emoji, by default or with U+FE0F.
func IsEmoji(r rune) bool {
	return isEmojiPresentation(r) || isTextPresentationEmoji(r)
}

// IsEmojiPresentation reports whether r is displayed as an emoji without a
// variation selector.
func IsEmojiPresentation(r rune) bool { return isEmojiPresentation(r) }

// IsEmojiModifier reports whether r is a skin tone modifier.
func IsEmojiModifier(r rune) bool { return r >= 0x1F3FB && r <= 0x1F3FF }

// IsEmojiModifierBase reports whether a skin tone modifier may follow r.
func IsEmojiModifierBase(r rune) bool {
	switch {
	case r >= 0x1F466 && r <= 0x1F469,
		r >= 0x1F46E && r <= 0x1F478,
		r == 0x1F47C,
		r >= 0x1F481 && r <= 0x1F487,
		r == 0x1F44B || r == 0x1F44D || r == 0x1F44E,
		r == 0x1F4AA,
		r >= 0x1F574 && r <= 0x1F575,
		r == 0x1F57A,
		r == 0x1F590,
		r >= 0x1F595 && r <= 0x1F596,
		r >= 0x1F645 && r <= 0x1F64F,
		r == 0x1F6A3,
		r >= 0x1F6B4 && r <= 0x1F6B6,
		r == 0x1F6C0,
		r >= 0x1F918 && r <= 0x1F91F,
		r == 0x1F926,
		r >= 0x1F930 && r <= 0x1F939,
		r >= 0x1F93C && r <= 0x1F93E,
		r == 0x261D,
		r == 0x26F9,
		r >= 0x270A && r <= 0x270D:
		return true
	}
	return false
}

// IsZWJ reports whether r is ZERO WIDTH JOINER.
func IsZWJ(r rune) bool { return r == 0x200D }

// IsRegionalIndicator reports whether r is a regional indicator letter.
// Two of them form a flag.
func IsRegionalIndicator(r rune) bool { return r >= 0x1F1E6 && r <= 0x1F1FF }

// IsKeycapBase reports whether r can start a keycap sequence.
func IsKeycapBase(r rune) bool { return (r >= '0' && r <= '9') || r == '#' || r == '*' }

// IsTagCharacter reports whether r is a tag used in subdivision flags.
func IsTagCharacter(r rune) bool { return r >= 0xE0020 && r <= 0xE007E }

const (
	textSelector  = 0xFE0E
	emojiSelector = 0xFE0F
	keycapMark    = 0x20E3
	cancelTag     = 0xE007F
	blackFlag     = 0x1F3F4
)

// isEmojiComponent returns true for emoji component characters.
func isEmojiComponent(r rune) bool {
	// Skin tone modifiers
	if r >= 0x1F3FB && r <= 0x1F3FF {
		return true
	}
	// Regional indicators
	if r >= 0x1F1E6 && r <= 0x1F1FF {
		return true
	}
	// Tag characters
	if r >= 0xE0020 && r <= 0xE007F {
		return true
	}
	// ZWJ
	if r == 0x200D {
		return true
	}
	// Variation selectors
	if r == 0xFE0E || r == 0xFE0F {
		return true
	}
	// Combining enclosing keycap
	if r == 0x20E3 {
		return true
	}
	return false
}

// isEmojiPresentation returns true for characters with Emoji_Presentation=Yes.
func isEmojiPresentation(r rune) bool {
	switch {
	// Emoticons
	case r >= 0x1F600 && r <= 0x1F64F:
		return true
	// Miscellaneous Symbols and Pictographs
	case r >= 0x1F300 && r <= 0x1F5FF:
		return true
	// Transport and Map Symbols
	case r >= 0x1F680 && r <= 0x1F6FF:
		return true
	// Supplemental Symbols and Pictographs
	case r >= 0x1F900 && r <= 0x1F9FF:
		return true
	// Symbols and Pictographs Extended-A
	case r >= 0x1FA00 && r <= 0x1FA6F:
		return true
	// Symbols and Pictographs Extended-B (Unicode 14+)
	case r >= 0x1FA70 && r <= 0x1FAFF:
		return true
	// Skin tone modifiers
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Regional Indicators (flags)
	case r >= 0x1F1E6 && r <= 0x1F1FF:
		return true
	// Mahjong tiles
	case r >= 0x1F000 && r <= 0x1F02F:
		return true
	// Playing cards
	case r >= 0x1F0A0 && r <= 0x1F0FF:
		return true
	default:
		return false
	}
}

// isTextPresentationEmoji returns true for characters that can be emoji
// with variation selector (Emoji=Yes but Emoji_Presentation=No).
func isTextPresentationEmoji(r rune) bool {
	switch {
	// Dingbats that can be emoji
	case r >= 0x2702 && r <= 0x27B0:
		return true
	// Miscellaneous Symbols
	case r >= 0x2600 && r <= 0x26FF:
		return true
	// Arrows (some are emoji)
	case r == 0x2194 || r == 0x2195 || (r >= 0x2196 && r <= 0x2199):
		return true
	case r == 0x21A9 || r == 0x21AA:
		return true
	// Punctuation with emoji variants
	case r == 0x203C || r == 0x2049:
		return true
	// Information symbols
	case r == 0x2139:
		return true
	// Circled letters
	case r == 0x24C2:
		return true
	// Misc technical
	case r >= 0x23E9 && r <= 0x23F3:
		return true
	case r == 0x23F8 || r == 0x23F9 || r == 0x23FA:
		return true
	// Math symbols with emoji use
	case r == 0x2611 || r == 0x2614 || r == 0x2615:
		return true
	case r == 0x2618 || r == 0x261D || r == 0x2620:
		return true
	case r == 0x2622 || r == 0x2623 || r == 0x2626:
		return true
	case r == 0x262A || r == 0x262E || r == 0x262F:
		return true
	case r >= 0x2638 && r <= 0x263A:
		return true
	case r == 0x2640 || r == 0x2642:
		return true
	case r >= 0x2648 && r <= 0x2653:
		return true
	case r == 0x265F || r == 0x2660 || r == 0x2663:
		return true
	case r == 0x2665 || r == 0x2666 || r == 0x2668:
		return true
	case r == 0x267B || r == 0x267E || r == 0x267F:
		return true
	case r >= 0x2692 && r <= 0x2697:
		return true
	case r == 0x2699 || r == 0x269B || r == 0x269C:
		return true
	case r >= 0x26A0 && r <= 0x26A1:
		return true
	case r == 0x26AA || r == 0x26AB:
		return true
	case r >= 0x26B0 && r <= 0x26B1:
		return true
	case r == 0x26BD || r == 0x26BE:
		return true
	case r >= 0x26C4 && r <= 0x26C5:
		return true
	case r == 0x26C8 || r == 0x26CE || r == 0x26CF:
		return true
	case r == 0x26D1 || r == 0x26D3 || r == 0x26D4:
		return true
	case r == 0x26E9 || r == 0x26EA:
		return true
	case r >= 0x26F0 && r <= 0x26F5:
		return true
	case r >= 0x26F7 && r <= 0x26FA:
		return true
	case r == 0x26FD:
		return true
	// Numbers and symbols
	case r == 0x2702 || r == 0x2705:
		return true
	case r >= 0x2708 && r <= 0x270D:
		return true
	case r == 0x270F:
		return true
	case r == 0x2712 || r == 0x2714 || r == 0x2716:
		return true
	case r == 0x271D || r == 0x2721:
		return true
	case r == 0x2728:
		return true
	case r >= 0x2733 && r <= 0x2734:
		return true
	case r == 0x2744 || r == 0x2747:
		return true
	case r == 0x274C || r == 0x274E:
		return true
	case r >= 0x2753 && r <= 0x2755:
		return true
	case r == 0x2757:
		return true
	case r >= 0x2763 && r <= 0x2764:
		return true
	case r >= 0x2795 && r <= 0x2797:
		return true
	case r == 0x27A1:
		return true
	case r == 0x27B0:
		return true
	case r == 0x27BF:
		return true
	case r >= 0x2934 && r <= 0x2935:
		return true
	case r >= 0x2B05 && r <= 0x2B07:
		return true
	case r == 0x2B1B || r == 0x2B1C:
		return true
	case r == 0x2B50 || r == 0x2B55:
		return true
	case r == 0x3030 || r == 0x303D:
		return true
	case r == 0x3297 || r == 0x3299:
		return true
	// Copyright, registered, trademark
	case r == 0x00A9 || r == 0x00AE:
		return true
	case r == 0x2122:
		return true
	default:
		return false
	}
}
