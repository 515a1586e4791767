// Package fontdesc implements font descriptions: value types describing a
// font request by family, style, weight, stretch, size and variations.
//
// A Description records which of its fields were explicitly set in a Mask.
// Unset fields hold defaults and are ignored by Merge and by String.
//
// Descriptions are plain values. Copying one copies all of its state and
// the zero value is not valid; use New or Parse.
package fontdesc

import (
	"math"
	"strings"
)

// Scale is the number of size units per point or device pixel.
const Scale = 1024

// DefaultStylePenalty is the distance added when an italic face stands in
// for an oblique request or the other way round.
const DefaultStylePenalty = 1_000_000

// Mask records which fields of a Description were explicitly set.
type Mask uint16

const (
	MaskFamily Mask = 1 << iota
	MaskStyle
	MaskVariant
	MaskWeight
	MaskStretch
	MaskSize
	MaskGravity
	MaskVariations
	MaskFaceID
)

// MaskAll covers every field.
const MaskAll = MaskFamily | MaskStyle | MaskVariant | MaskWeight | MaskStretch |
	MaskSize | MaskGravity | MaskVariations | MaskFaceID

// Description describes a font request.
type Description struct {
	family     string
	style      Style
	variant    Variant
	weight     Weight
	stretch    Stretch
	gravity    Gravity
	size       int32
	absolute   bool
	variations string
	faceID     string
	mask       Mask
}

// defaults holds the value of every unset field.
var defaults = Description{
	weight:  WeightNormal,
	stretch: StretchNormal,
	gravity: GravitySouth,
}

// New returns a description with no fields set.
func New() Description {
	return defaults
}

// Family returns the family list, a comma separated string.
func (d Description) Family() string { return d.family }

// Families returns the family list split at commas. Empty names are dropped.
func (d Description) Families() []string {
	if d.family == "" {
		return nil
	}
	parts := strings.Split(d.family, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (d Description) Style() Style       { return d.style }
func (d Description) Variant() Variant   { return d.variant }
func (d Description) Weight() Weight     { return d.weight }
func (d Description) Stretch() Stretch   { return d.stretch }
func (d Description) Gravity() Gravity   { return d.gravity }
func (d Description) Variations() string { return d.variations }
func (d Description) FaceID() string     { return d.faceID }

// Size returns the size in units of 1/Scale points, or device units when
// SizeIsAbsolute reports true.
func (d Description) Size() int32 { return d.size }

// SizeIsAbsolute reports whether Size is in device units rather than points.
func (d Description) SizeIsAbsolute() bool { return d.absolute }

// SetFields returns the mask of explicitly set fields.
func (d Description) SetFields() Mask { return d.mask }

// SetFamily sets the family list. An empty family unsets the field.
func (d *Description) SetFamily(family string) {
	d.family = family
	if family == "" {
		d.mask &^= MaskFamily
		return
	}
	d.mask |= MaskFamily
}

func (d *Description) SetStyle(s Style) {
	d.style = s
	d.mask |= MaskStyle
}

func (d *Description) SetVariant(v Variant) {
	d.variant = v
	d.mask |= MaskVariant
}

func (d *Description) SetWeight(w Weight) {
	d.weight = w
	d.mask |= MaskWeight
}

func (d *Description) SetStretch(s Stretch) {
	d.stretch = s
	d.mask |= MaskStretch
}

// SetGravity sets the gravity. GravityAuto unsets the field.
func (d *Description) SetGravity(g Gravity) {
	if g == GravityAuto {
		d.UnsetFields(MaskGravity)
		return
	}
	d.gravity = g
	d.mask |= MaskGravity
}

// SetSize sets the size in units of 1/Scale points.
func (d *Description) SetSize(size int32) {
	d.size = size
	d.absolute = false
	d.mask |= MaskSize
}

// SetAbsoluteSize sets the size in device units of 1/Scale pixels.
func (d *Description) SetAbsoluteSize(size int32) {
	d.size = size
	d.absolute = true
	d.mask |= MaskSize
}

// SetVariations sets the axis variations, a string like "wght=200,wdth=80".
// An empty string unsets the field.
func (d *Description) SetVariations(v string) {
	d.variations = v
	if v == "" {
		d.mask &^= MaskVariations
		return
	}
	d.mask |= MaskVariations
}

// SetFaceID pins the description to one face. An empty id unsets the field.
func (d *Description) SetFaceID(id string) {
	d.faceID = id
	if id == "" {
		d.mask &^= MaskFaceID
		return
	}
	d.mask |= MaskFaceID
}

// UnsetFields resets the fields in m to their defaults and clears their bits.
func (d *Description) UnsetFields(m Mask) {
	reset := defaults
	reset.mask = m
	d.Merge(reset, true)
	d.mask &^= m
}

// Merge copies the set fields of other into d. When replace is false only
// fields that are unset in d are affected.
func (d *Description) Merge(other Description, replace bool) {
	m := other.mask
	if !replace {
		m &^= d.mask
	}
	if m&MaskFamily != 0 {
		d.family = other.family
	}
	if m&MaskStyle != 0 {
		d.style = other.style
	}
	if m&MaskVariant != 0 {
		d.variant = other.variant
	}
	if m&MaskWeight != 0 {
		d.weight = other.weight
	}
	if m&MaskStretch != 0 {
		d.stretch = other.stretch
	}
	if m&MaskSize != 0 {
		d.size = other.size
		d.absolute = other.absolute
	}
	if m&MaskGravity != 0 {
		d.gravity = other.gravity
	}
	if m&MaskVariations != 0 {
		d.variations = other.variations
	}
	if m&MaskFaceID != 0 {
		d.faceID = other.faceID
	}
	d.mask |= m
}

// Merged returns a copy of d with other merged into it.
func (d Description) Merged(other Description, replace bool) Description {
	d.Merge(other, replace)
	return d
}

// Equal reports whether two descriptions describe the same font. Family
// names compare case-insensitively and the masks need not match.
func (d Description) Equal(o Description) bool {
	return d.style == o.style &&
		d.variant == o.variant &&
		d.weight == o.weight &&
		d.stretch == o.stretch &&
		d.size == o.size &&
		d.absolute == o.absolute &&
		d.gravity == o.gravity &&
		strings.EqualFold(d.family, o.family) &&
		d.variations == o.variations &&
		d.faceID == o.faceID
}

// Hash returns a hash consistent with Equal.
func (d Description) Hash() uint32 {
	h := foldHash(d.family)
	if d.variations != "" {
		h ^= stringHash(d.variations)
	}
	if d.faceID != "" {
		h ^= stringHash(d.faceID)
	}
	h ^= uint32(d.size)
	if d.absolute {
		h ^= 0xc33ca55a
	}
	h ^= uint32(d.style) << 16
	h ^= uint32(d.variant) << 18
	h ^= uint32(d.weight) << 16
	h ^= uint32(d.stretch) << 26
	h ^= uint32(d.gravity) << 28
	return h
}

func foldHash(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(toLower(s[i]))
	}
	return h
}

func stringHash(s string) uint32 {
	h := uint32(5381)
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

// Distance measures how far the style of o is from d, using
// DefaultStylePenalty. Smaller is closer; math.MaxInt means o cannot stand
// in for d at all.
func (d Description) Distance(o Description) int {
	return d.DistanceWithPenalty(o, DefaultStylePenalty)
}

// DistanceWithPenalty is Distance with an explicit penalty for substituting
// italic and oblique for each other.
func (d Description) DistanceWithPenalty(o Description, penalty int) int {
	delta := abs(int(d.weight)-int(o.weight)) + abs(int(d.stretch)-int(o.stretch))
	switch {
	case d.style == o.style:
		return delta
	case d.style != StyleNormal && o.style != StyleNormal:
		return penalty + delta
	default:
		return math.MaxInt
	}
}

// IsSimilar reports whether o agrees with d on the fields that must match
// exactly for o to be a candidate: variant and gravity.
func (d Description) IsSimilar(o Description) bool {
	return d.variant == o.variant && d.gravity == o.gravity
}

// BetterMatch reports whether candidate is a closer match for d than old.
// A nil old means no match yet, so any similar candidate with a finite
// distance wins.
func (d Description) BetterMatch(old *Description, candidate Description) bool {
	if !d.IsSimilar(candidate) {
		return false
	}
	oldDist := math.MaxInt
	if old != nil {
		oldDist = d.Distance(*old)
	}
	return d.Distance(candidate) < oldDist
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
