package fontdesc

import (
	"strconv"
	"strings"
)

// Parse parses a description from its string form:
//
//	[FAMILY-LIST] [STYLE-OPTIONS] [SIZE[px]] [@VARIATIONS] [@faceid=ID]
//
// FAMILY-LIST is a comma separated list of families, optionally terminated
// by a comma. STYLE-OPTIONS are whitespace separated words naming a style,
// variant, weight, stretch or gravity, matched without regard to case or
// hyphens; "weight=450" style words set raw values. SIZE is a decimal
// number of points, or of device pixels with the "px" suffix. The
// trailing @-words may come in any order.
//
// Parse never fails. Words that do not parse as options end the option
// scan and become part of the family list. The style, variant, weight and
// stretch fields are always marked as set.
func Parse(s string) Description {
	d := New()
	d.mask = MaskStyle | MaskWeight | MaskVariant | MaskStretch

	last := len(s)
	for d.mask&(MaskFaceID|MaskVariations) != MaskFaceID|MaskVariations {
		p, word := getword(s, last, "")
		if len(word) < 2 || word[0] != '@' {
			break
		}
		if id, ok := strings.CutPrefix(word, "@faceid="); ok {
			if id == "" || d.mask&MaskFaceID != 0 {
				break
			}
			d.faceID = id
			d.mask |= MaskFaceID
		} else {
			if d.mask&MaskVariations != 0 {
				break
			}
			d.variations = word[1:]
			d.mask |= MaskVariations
		}
		last = p
	}

	if p, word := getword(s, last, ","); word != "" {
		if size, absolute, ok := parseSize(word); ok {
			d.size = size
			d.absolute = absolute
			d.mask |= MaskSize
			last = p
		}
	}

	for {
		p, word := getword(s, last, ",")
		if word == "" || !findFieldAny(word, &d) {
			break
		}
		last = p
	}

	family := strings.TrimSpace(s[:last])
	family = strings.TrimSuffix(family, ",")
	family = strings.TrimSpace(family)
	if family != "" {
		names := strings.Split(family, ",")
		for i, n := range names {
			names[i] = strings.TrimSpace(n)
		}
		d.family = strings.Join(names, ",")
		d.mask |= MaskFamily
	}
	return d
}

// String returns the string form of d, which Parse reads back to an equal
// description. Unset fields do not appear.
func (d Description) String() string {
	var b strings.Builder

	familyOnly := false
	if d.family != "" && d.mask&MaskFamily != 0 {
		b.WriteString(d.family)
		// A trailing comma keeps a final family word that looks like an
		// option, or like a size, from being parsed as one.
		_, word := getword(d.family, len(d.family), ",")
		if word != "" && (findFieldAny(word, nil) || d.isSizeAmbiguous(word)) {
			b.WriteByte(',')
		}
		familyOnly = true
	}

	n := b.Len()
	appendField(&b, "weight", weightMap, int(d.weight))
	appendField(&b, "style", styleMap, int(d.style))
	appendField(&b, "stretch", stretchMap, int(d.stretch))
	appendField(&b, "variant", variantMap, int(d.variant))
	if d.mask&MaskGravity != 0 {
		appendField(&b, "gravity", gravityMap, int(d.gravity))
	}
	familyOnly = familyOnly && b.Len() == n

	switch {
	case b.Len() == 0:
		b.WriteString("Normal")
	case familyOnly:
		// A family ending in an @-word would read back as variations.
		if _, word := getword(d.family, len(d.family), ""); strings.HasPrefix(word, "@") {
			b.WriteString(" Normal")
		}
	}

	if d.mask&MaskSize != 0 {
		b.WriteByte(' ')
		b.WriteString(formatSize(d.size))
		if d.absolute {
			b.WriteString("px")
		}
	}
	if d.mask&MaskFaceID != 0 && d.faceID != "" {
		b.WriteString(" @faceid=")
		b.WriteString(d.faceID)
	}
	if d.mask&MaskVariations != 0 && d.variations != "" {
		b.WriteString(" @")
		b.WriteString(d.variations)
	}
	return b.String()
}

// isSizeAmbiguous reports whether a family ending in word would have the
// word read back as a size because nothing else follows the family.
func (d Description) isSizeAmbiguous(word string) bool {
	if _, _, ok := parseSize(word); !ok {
		return false
	}
	return d.weight == WeightNormal &&
		d.style == StyleNormal &&
		d.stretch == StretchNormal &&
		d.variant == VariantNormal &&
		d.mask&(MaskGravity|MaskSize) == 0
}

// getword returns the last word of s[:last] and its start offset. Words end
// at ASCII whitespace or at any byte in stop.
func getword(s string, last int, stop string) (int, string) {
	for last > 0 && isSpace(s[last-1]) {
		last--
	}
	start := last
	for start > 0 && !isSpace(s[start-1]) && strings.IndexByte(stop, s[start-1]) < 0 {
		start--
	}
	return start, s[start:last]
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// findFieldAny matches word against every option vocabulary and stores the
// value into d when d is not nil.
func findFieldAny(word string, d *Description) bool {
	if keywordMatches("Normal", word) {
		return true
	}
	if v, ok := lookupField("weight", weightMap, word); ok {
		if d != nil {
			d.weight = Weight(v)
			d.mask |= MaskWeight
		}
		return true
	}
	if v, ok := lookupField("style", styleMap, word); ok {
		if d != nil {
			d.style = Style(v)
			d.mask |= MaskStyle
		}
		return true
	}
	if v, ok := lookupField("stretch", stretchMap, word); ok {
		if d != nil {
			d.stretch = Stretch(v)
			d.mask |= MaskStretch
		}
		return true
	}
	if v, ok := lookupField("variant", variantMap, word); ok {
		if d != nil {
			d.variant = Variant(v)
			d.mask |= MaskVariant
		}
		return true
	}
	if v, ok := lookupField("gravity", gravityMap, word); ok {
		if d != nil {
			d.gravity = Gravity(v)
			d.mask |= MaskGravity
		}
		return true
	}
	return false
}

func appendField(b *strings.Builder, what string, table []fieldEntry, value int) {
	kw := keywordFor(table, value, what)
	if kw == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(kw)
}

const maxSize = 1_000_000

// parseSize parses a decimal size with an optional "px" suffix and returns
// it in units of 1/Scale.
func parseSize(word string) (size int32, absolute bool, ok bool) {
	num, absolute := strings.CutSuffix(word, "px")
	if num == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || !(v >= 0 && v <= maxSize) {
		return 0, false, false
	}
	return int32(v*Scale + 0.5), absolute, true
}

// formatSize writes size with the fewest decimals that parse back to the
// same value.
func formatSize(size int32) string {
	v := float64(size) / Scale
	var s string
	for prec := 0; prec <= 10; prec++ {
		s = strconv.FormatFloat(v, 'f', prec, 64)
		if f, err := strconv.ParseFloat(s, 64); err == nil && int32(f*Scale+0.5) == size {
			break
		}
	}
	return s
}
