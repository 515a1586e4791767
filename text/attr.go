package text

import (
	"image/color"
	"math"
	"slices"
	"sort"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout/fontdesc"
)

// AttrKind identifies the property an Attribute sets.
type AttrKind uint8

const (
	AttrInvalid AttrKind = iota
	AttrLanguage
	AttrFamily
	AttrStyle
	AttrWeight
	AttrVariant
	AttrStretch
	AttrSize
	AttrAbsoluteSize
	AttrFontDesc
	AttrFeatures
	AttrFallback
	AttrGravity
	AttrLetterSpacing
	AttrRise
	AttrUnderline
	AttrStrikethrough
	AttrForeground
	AttrScale
)

var attrKindNames = [...]string{
	AttrInvalid:       "Invalid",
	AttrLanguage:      "Language",
	AttrFamily:        "Family",
	AttrStyle:         "Style",
	AttrWeight:        "Weight",
	AttrVariant:       "Variant",
	AttrStretch:       "Stretch",
	AttrSize:          "Size",
	AttrAbsoluteSize:  "AbsoluteSize",
	AttrFontDesc:      "FontDesc",
	AttrFeatures:      "Features",
	AttrFallback:      "Fallback",
	AttrGravity:       "Gravity",
	AttrLetterSpacing: "LetterSpacing",
	AttrRise:          "Rise",
	AttrUnderline:     "Underline",
	AttrStrikethrough: "Strikethrough",
	AttrForeground:    "Foreground",
	AttrScale:         "Scale",
}

// String returns the name of the attribute kind.
func (k AttrKind) String() string {
	if int(k) < len(attrKindNames) {
		return attrKindNames[k]
	}
	return unknownStr
}

// affectsFont reports whether attributes of kind k change font selection.
func (k AttrKind) affectsFont() bool {
	switch k {
	case AttrFamily, AttrStyle, AttrWeight, AttrVariant, AttrStretch,
		AttrSize, AttrAbsoluteSize, AttrFontDesc, AttrScale:
		return true
	}
	return false
}

// AttrIndexToTextEnd is the End of an attribute that extends to the end of
// the text.
const AttrIndexToTextEnd = math.MaxInt

// Attribute sets one property on the half-open byte range [Start, End).
// The constructors return attributes covering the whole text; use In to
// restrict them.
type Attribute struct {
	Kind       AttrKind
	Start, End int

	num   int
	str   string
	desc  fontdesc.Description
	color color.RGBA
}

// In returns a copy of a covering [start, end).
func (a Attribute) In(start, end int) Attribute {
	a.Start, a.End = start, end
	return a
}

// Int returns the integer value of the attribute: a weight, style, size,
// spacing, underline style or boolean flag.
func (a Attribute) Int() int { return a.num }

// Text returns the string value of a family, features or language
// attribute.
func (a Attribute) Text() string { return a.str }

// Description returns the value of a font description attribute.
func (a Attribute) Description() fontdesc.Description { return a.desc }

// Color returns the value of a foreground attribute.
func (a Attribute) Color() color.RGBA { return a.color }

// Equal reports whether a and b set the same value, ignoring their ranges.
func (a Attribute) Equal(b Attribute) bool {
	return a.Kind == b.Kind && a.num == b.num && a.str == b.str &&
		a.color == b.color && a.desc.Equal(b.desc) &&
		a.desc.SetFields() == b.desc.SetFields()
}

func newAttr(kind AttrKind) Attribute {
	return Attribute{Kind: kind, End: AttrIndexToTextEnd}
}

// LanguageAttr sets the language used for font selection and shaping.
func LanguageAttr(lang language.Language) Attribute {
	a := newAttr(AttrLanguage)
	a.str = string(lang)
	return a
}

// FamilyAttr sets the font family list.
func FamilyAttr(family string) Attribute {
	a := newAttr(AttrFamily)
	a.str = family
	return a
}

func StyleAttr(s fontdesc.Style) Attribute {
	a := newAttr(AttrStyle)
	a.num = int(s)
	return a
}

func WeightAttr(w fontdesc.Weight) Attribute {
	a := newAttr(AttrWeight)
	a.num = int(w)
	return a
}

func VariantAttr(v fontdesc.Variant) Attribute {
	a := newAttr(AttrVariant)
	a.num = int(v)
	return a
}

func StretchAttr(s fontdesc.Stretch) Attribute {
	a := newAttr(AttrStretch)
	a.num = int(s)
	return a
}

// SizeAttr sets the font size in units of 1/Scale points.
func SizeAttr(size int32) Attribute {
	a := newAttr(AttrSize)
	a.num = int(size)
	return a
}

// AbsoluteSizeAttr sets the font size in units of 1/Scale device pixels.
func AbsoluteSizeAttr(size int32) Attribute {
	a := newAttr(AttrAbsoluteSize)
	a.num = int(size)
	return a
}

// ScaleAttr multiplies the font size by factor. Scales do not compound;
// like other attributes, the one inserted last wins.
func ScaleAttr(factor float64) Attribute {
	a := newAttr(AttrScale)
	a.num = int(math.Round(factor * Scale))
	return a
}

// FontDescAttr merges the set fields of desc into the font description.
func FontDescAttr(desc fontdesc.Description) Attribute {
	a := newAttr(AttrFontDesc)
	a.desc = desc
	return a
}

// FeaturesAttr sets OpenType features, a comma separated list such as
// "liga=0,smcp".
func FeaturesAttr(features string) Attribute {
	a := newAttr(AttrFeatures)
	a.str = features
	return a
}

// FallbackAttr enables or disables font fallback. With fallback disabled
// every character uses the first font of the font set.
func FallbackAttr(enable bool) Attribute {
	a := newAttr(AttrFallback)
	if enable {
		a.num = 1
	}
	return a
}

func GravityAttr(g fontdesc.Gravity) Attribute {
	a := newAttr(AttrGravity)
	a.num = int(g)
	return a
}

// LetterSpacingAttr adds spacing between clusters, in units of 1/Scale
// pixels.
func LetterSpacingAttr(spacing int32) Attribute {
	a := newAttr(AttrLetterSpacing)
	a.num = int(spacing)
	return a
}

// RiseAttr moves the baseline up by rise units of 1/Scale pixels.
func RiseAttr(rise int32) Attribute {
	a := newAttr(AttrRise)
	a.num = int(rise)
	return a
}

func UnderlineAttr(u Underline) Attribute {
	a := newAttr(AttrUnderline)
	a.num = int(u)
	return a
}

func StrikethroughAttr(on bool) Attribute {
	a := newAttr(AttrStrikethrough)
	if on {
		a.num = 1
	}
	return a
}

func ForegroundAttr(c color.RGBA) Attribute {
	a := newAttr(AttrForeground)
	a.color = c
	return a
}

// AttrList is an ordered list of attributes. Attributes are kept sorted by
// Start; among attributes of one kind covering the same text, the one
// inserted last wins.
//
// The zero value is an empty list ready to use.
type AttrList struct {
	attrs []Attribute
}

// NewAttrList returns a list holding attrs, inserted in order.
func NewAttrList(attrs ...Attribute) *AttrList {
	l := &AttrList{}
	for _, a := range attrs {
		l.Insert(a)
	}
	return l
}

// Insert adds a after all attributes with the same or a smaller Start.
// Attributes with an empty range are dropped.
func (l *AttrList) Insert(a Attribute) {
	if a.Start >= a.End {
		return
	}
	i := sort.Search(len(l.attrs), func(i int) bool { return l.attrs[i].Start > a.Start })
	l.attrs = slices.Insert(l.attrs, i, a)
}

// Change inserts a, first removing the parts of attributes of the same
// kind that it overlaps. Overlapping or adjacent attributes with an equal
// value are merged into a instead.
func (l *AttrList) Change(a Attribute) {
	if a.Start >= a.End {
		return
	}
	var kept []Attribute
	for _, o := range l.attrs {
		if o.Kind != a.Kind || o.End < a.Start || o.Start > a.End {
			kept = append(kept, o)
			continue
		}
		if o.Equal(a) {
			a.Start = min(a.Start, o.Start)
			a.End = max(a.End, o.End)
			continue
		}
		if o.End == a.Start || o.Start == a.End {
			kept = append(kept, o)
			continue
		}
		if o.Start < a.Start {
			kept = append(kept, o.In(o.Start, a.Start))
		}
		if o.End > a.End {
			kept = append(kept, o.In(a.End, o.End))
		}
	}
	l.attrs = l.attrs[:0]
	for _, o := range kept {
		l.Insert(o)
	}
	l.Insert(a)
}

// Attributes returns a copy of the attributes in list order.
func (l *AttrList) Attributes() []Attribute {
	if l == nil {
		return nil
	}
	return slices.Clone(l.attrs)
}

// Copy returns an independent copy of the list. Copy of a nil list is nil.
func (l *AttrList) Copy() *AttrList {
	if l == nil {
		return nil
	}
	return &AttrList{attrs: slices.Clone(l.attrs)}
}

// Splice adjusts the list for inserting length bytes of text at pos and
// then adds the attributes of other, shifted by pos and clipped to the
// inserted range. Attributes spanning pos grow to cover the insertion.
func (l *AttrList) Splice(other *AttrList, pos, length int) {
	for i := range l.attrs {
		a := &l.attrs[i]
		if a.Start >= pos {
			a.Start = clampAdd(a.Start, length)
			a.End = clampAdd(a.End, length)
		} else if a.End > pos {
			a.End = clampAdd(a.End, length)
		}
	}
	if other == nil {
		return
	}
	for _, o := range other.attrs {
		start := min(clampAdd(o.Start, pos), pos+length)
		end := min(clampAdd(o.End, pos), pos+length)
		l.Change(o.In(start, end))
	}
}

// clampAdd adds without overflowing past AttrIndexToTextEnd.
func clampAdd(a, b int) int {
	if a > AttrIndexToTextEnd-b {
		return AttrIndexToTextEnd
	}
	return a + b
}

// AttrIterator walks the ranges of constant attribute values of a list.
type AttrIterator struct {
	attrs      []Attribute
	bounds     []int
	pos        int
	start, end int
}

// Iterator returns an iterator over the ranges of the list within
// [0, textLen). The iterator is positioned on the first range.
func (l *AttrList) Iterator(textLen int) *AttrIterator {
	it := &AttrIterator{bounds: []int{0, textLen}}
	if l != nil {
		it.attrs = l.attrs
		for _, a := range l.attrs {
			if a.Start > 0 && a.Start < textLen {
				it.bounds = append(it.bounds, a.Start)
			}
			if a.End > 0 && a.End < textLen {
				it.bounds = append(it.bounds, a.End)
			}
		}
	}
	slices.Sort(it.bounds)
	it.bounds = slices.Compact(it.bounds)
	it.pos = -1
	it.Next()
	return it
}

// Next advances to the next range and reports whether there is one.
func (it *AttrIterator) Next() bool {
	if it.pos+1 >= len(it.bounds)-1 {
		it.pos = len(it.bounds) - 1
		it.start, it.end = it.bounds[len(it.bounds)-1], it.bounds[len(it.bounds)-1]
		return false
	}
	it.pos++
	it.start, it.end = it.bounds[it.pos], it.bounds[it.pos+1]
	return true
}

// Range returns the byte range of the current position.
func (it *AttrIterator) Range() (start, end int) { return it.start, it.end }

// Attrs returns the attributes covering the current range in list order.
func (it *AttrIterator) Attrs() []Attribute {
	var out []Attribute
	for _, a := range it.attrs {
		if a.Start <= it.start && a.End > it.start {
			out = append(out, a)
		}
	}
	return out
}

// Get returns the attribute of kind that applies to the current range.
func (it *AttrIterator) Get(kind AttrKind) (Attribute, bool) {
	var found Attribute
	ok := false
	for _, a := range it.attrs {
		if a.Kind == kind && a.Start <= it.start && a.End > it.start {
			found, ok = a, true
		}
	}
	return found, ok
}
