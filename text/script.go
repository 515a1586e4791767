package text

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/go-text/typesetting/language"
)

// isWeakScript reports whether characters of s take their script from
// their neighbors.
func isWeakScript(s language.Script) bool {
	return s == language.Common || s == language.Inherited || s == language.Unknown
}

// bracketEntry is an opening bracket waiting for its closing partner.
type bracketEntry struct {
	open   rune
	script language.Script
}

// maxBracketDepth bounds the bracket stack; deeper nesting is resolved
// like ordinary punctuation.
const maxBracketDepth = 64

// resolveScripts returns the script of every rune after resolving Common
// and Inherited characters.
//
// Inherited characters take the script of the character before them.
// Common characters take the script of the nearest character of a strong
// script, the preceding one on a tie. When levels is given, a neighbor at
// the character's own bidi level is preferred over a nearer one. Closing
// brackets take the script of their opening bracket. Characters before the
// first strong script follow tie.
func resolveScripts(runes []rune, levels []uint8, tie ScriptTieBreak) []language.Script {
	scripts := make([]language.Script, len(runes))
	for i, r := range runes {
		scripts[i] = language.LookupScript(r)
	}

	// next[i] is the index of the first strong script at or after i.
	next := make([]int, len(runes)+1)
	next[len(runes)] = -1
	for i := len(runes) - 1; i >= 0; i-- {
		if isWeakScript(scripts[i]) {
			next[i] = next[i+1]
		} else {
			next[i] = i
		}
	}

	out := make([]language.Script, len(runes))
	prev := -1
	var stack []bracketEntry
	for i, r := range runes {
		s := scripts[i]
		if !isWeakScript(s) {
			out[i] = s
			prev = i
			continue
		}

		if s == language.Inherited && i > 0 {
			out[i] = out[i-1]
			continue
		}

		if open, ok := closingBracket(r); ok {
			if j := findBracket(stack, open); j >= 0 {
				out[i] = stack[j].script
				stack = stack[:j]
				continue
			}
		}

		out[i] = nearestScript(scripts, levels, prev, next[i], i, tie)

		if isOpeningBracket(r) && len(stack) < maxBracketDepth {
			stack = append(stack, bracketEntry{open: r, script: out[i]})
		}
	}
	return out
}

func nearestScript(scripts []language.Script, levels []uint8, prev, next, i int, tie ScriptTieBreak) language.Script {
	sameLevel := func(j int) bool { return levels == nil || levels[j] == levels[i] }
	switch {
	case prev < 0 && next < 0:
		return language.Common
	case prev < 0:
		if tie == TieBackward {
			return language.Common
		}
		return scripts[next]
	case next < 0:
		return scripts[prev]
	case sameLevel(next) && !sameLevel(prev):
		return scripts[next]
	case sameLevel(prev) && !sameLevel(next):
		return scripts[prev]
	case next-i < i-prev:
		return scripts[next]
	default:
		return scripts[prev]
	}
}

func isOpeningBracket(r rune) bool {
	p, _ := bidi.LookupRune(r)
	return p.IsOpeningBracket()
}

// closingBracket returns the opening partner of a closing bracket.
func closingBracket(r rune) (rune, bool) {
	p, _ := bidi.LookupRune(r)
	if !p.IsBracket() || p.IsOpeningBracket() {
		return 0, false
	}
	// Reversing a bracket swaps it for its partner.
	rs := []rune(bidi.ReverseString(string(r)))
	if len(rs) != 1 || rs[0] == r {
		return 0, false
	}
	return rs[0], true
}

func findBracket(stack []bracketEntry, open rune) int {
	for j := len(stack) - 1; j >= 0; j-- {
		if stack[j].open == open {
			return j
		}
	}
	return -1
}
