package text

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/language"
	"golang.org/x/image/colornames"

	"github.com/gogpu/textlayout/fontdesc"
)

// markupRise is the baseline shift of <sub> and <sup>, in 1/Scale pixels.
const markupRise = 5000

// spanAttrs lists the span attributes in the order they are applied, so
// that font fields override a font description given on the same span.
var spanAttrs = []string{
	"font", "face", "size", "style", "weight", "variant", "stretch",
	"foreground", "underline", "strikethrough", "fallback", "gravity",
	"rise", "letter_spacing", "lang", "font_features",
}

var spanAliases = map[string]string{
	"font_desc":    "font",
	"font_family":  "face",
	"font_size":    "size",
	"font_style":   "style",
	"font_weight":  "weight",
	"font_variant": "variant",
	"font_stretch": "stretch",
	"fgcolor":      "foreground",
	"color":        "foreground",
}

var sizeLevels = map[string]int{
	"xx-small": -3,
	"x-small":  -2,
	"small":    -1,
	"medium":   0,
	"large":    1,
	"x-large":  2,
	"xx-large": 3,
}

var underlineNames = map[string]Underline{
	"none":   UnderlineNone,
	"single": UnderlineSingle,
	"double": UnderlineDouble,
	"low":    UnderlineLow,
}

var gravityNames = map[string]fontdesc.Gravity{
	"south": fontdesc.GravitySouth,
	"east":  fontdesc.GravityEast,
	"north": fontdesc.GravityNorth,
	"west":  fontdesc.GravityWest,
}

var errBadValue = errors.New("bad value")

// ParseMarkup splits markup into plain text and the attributes its tags
// set. The markup is XML character data with these elements, which nest:
//
//	<b> <i> <s> <u> <tt> <big> <small> <sub> <sup>
//	<span name="value" ...>
//
// A span accepts font (font_desc), face (font_family), size (font_size),
// style, weight, variant, stretch, foreground (fgcolor, color), underline,
// strikethrough, fallback, gravity, rise, letter_spacing, lang and
// font_features; hyphens and underscores in names are interchangeable.
// A size is an integer in 1/Scale points, one of xx-small to xx-large, or
// smaller or larger. Colors are #rgb, #rrggbb, #rrggbbaa or SVG color
// names.
//
// Inner tags override outer ones. The XML decoder normalizes line endings
// to "\n".
func ParseMarkup(markup string) (string, *AttrList, error) {
	dec := xml.NewDecoder(strings.NewReader("<markup>" + markup + "</markup>"))
	var (
		text   strings.Builder
		stack  []*markupTag
		closed [][]Attribute
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMarkup, err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			tag := &markupTag{start: text.Len(), baseScale: 1}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				tag.scaleLevel, tag.baseScale = parent.scaleLevel, parent.baseScale
			}
			if err := tag.open(tok); err != nil {
				line, col := dec.InputPos()
				return "", nil, fmt.Errorf("%w: line %d char %d: %v", ErrMarkup, line, col, err)
			}
			stack = append(stack, tag)
		case xml.EndElement:
			tag := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			closed = append(closed, tag.close(text.Len()))
		case xml.CharData:
			text.Write(tok)
		}
	}

	// Outer tags close later and go in first so inner ones win.
	attrs := NewAttrList()
	for i := len(closed) - 1; i >= 0; i-- {
		for _, a := range closed[i] {
			attrs.Insert(a)
		}
	}
	return text.String(), attrs, nil
}

// markupTag is an open element. Font size changes are tracked as a level
// of 1.2 steps over a base scale, and turned into a scale attribute when
// the tag closes.
type markupTag struct {
	start      int
	attrs      []Attribute
	scaleLevel int
	baseScale  float64
	scaled     bool
}

func (t *markupTag) add(a Attribute) { t.attrs = append(t.attrs, a) }

func (t *markupTag) grow(steps int) {
	t.scaleLevel += steps
	t.scaled = true
}

func (t *markupTag) setBaseScale(scale float64) {
	t.baseScale = scale
	t.scaleLevel = 0
	t.scaled = true
}

func (t *markupTag) open(el xml.StartElement) error {
	name := el.Name.Local
	if name == "span" {
		return t.openSpan(el.Attr)
	}
	if len(el.Attr) > 0 {
		return fmt.Errorf("tag %q does not take attribute %q", name, el.Attr[0].Name.Local)
	}
	switch name {
	case "markup":
	case "b":
		t.add(WeightAttr(fontdesc.WeightBold))
	case "i":
		t.add(StyleAttr(fontdesc.StyleItalic))
	case "s":
		t.add(StrikethroughAttr(true))
	case "u":
		t.add(UnderlineAttr(UnderlineSingle))
	case "tt":
		t.add(FamilyAttr("Monospace"))
	case "big":
		t.grow(1)
	case "small":
		t.grow(-1)
	case "sub":
		t.grow(-1)
		t.add(RiseAttr(-markupRise))
	case "sup":
		t.grow(-1)
		t.add(RiseAttr(markupRise))
	default:
		return fmt.Errorf("unknown tag %q", name)
	}
	return nil
}

func (t *markupTag) openSpan(attrs []xml.Attr) error {
	values := make(map[string]string, len(attrs))
	for _, a := range attrs {
		name := strings.ReplaceAll(a.Name.Local, "-", "_")
		if alias, ok := spanAliases[name]; ok {
			name = alias
		}
		if !slices.Contains(spanAttrs, name) {
			return fmt.Errorf("attribute %q is not allowed on span", a.Name.Local)
		}
		values[name] = a.Value
	}
	for _, name := range spanAttrs {
		v, ok := values[name]
		if !ok {
			continue
		}
		if err := t.spanAttr(name, v); err != nil {
			return fmt.Errorf("span %s=%q: %w", name, v, err)
		}
	}
	return nil
}

func (t *markupTag) spanAttr(name, v string) error {
	switch name {
	case "font":
		d := fontdesc.Parse(v)
		t.add(FontDescAttr(d))
		if d.SetFields()&fontdesc.MaskSize != 0 {
			t.setBaseScale(1)
		}
	case "face":
		t.add(FamilyAttr(v))
	case "size":
		return t.size(v)
	case "style", "weight", "variant", "stretch":
		return t.fontField(name, v)
	case "foreground":
		c, err := parseColor(v)
		if err != nil {
			return err
		}
		t.add(ForegroundAttr(c))
	case "underline":
		u, ok := underlineNames[strings.ToLower(v)]
		if !ok {
			return errBadValue
		}
		t.add(UnderlineAttr(u))
	case "strikethrough", "fallback":
		b, err := parseMarkupBool(v)
		if err != nil {
			return err
		}
		if name == "fallback" {
			t.add(FallbackAttr(b))
		} else {
			t.add(StrikethroughAttr(b))
		}
	case "gravity":
		g, ok := gravityNames[strings.ToLower(v)]
		if !ok {
			return errBadValue
		}
		t.add(GravityAttr(g))
	case "rise", "letter_spacing":
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return errBadValue
		}
		if name == "rise" {
			t.add(RiseAttr(int32(n)))
		} else {
			t.add(LetterSpacingAttr(int32(n)))
		}
	case "lang":
		t.add(LanguageAttr(language.NewLanguage(v)))
	case "font_features":
		t.add(FeaturesAttr(v))
	}
	return nil
}

func (t *markupTag) size(v string) error {
	switch v {
	case "smaller":
		t.grow(-1)
		return nil
	case "larger":
		t.grow(1)
		return nil
	}
	if level, ok := sizeLevels[v]; ok {
		t.setBaseScale(math.Pow(1.2, float64(level)))
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n < 0 {
		return errBadValue
	}
	t.add(SizeAttr(int32(n)))
	t.setBaseScale(1)
	return nil
}

// fontField parses a style, weight, variant or stretch keyword with the
// font description parser. Weights may also be numbers.
func (t *markupTag) fontField(name, v string) error {
	if name == "weight" {
		if n, err := strconv.Atoi(v); err == nil {
			t.add(WeightAttr(fontdesc.Weight(n)))
			return nil
		}
	}
	d := fontdesc.Parse(v)
	if d.Family() != "" || d.SetFields()&fontdesc.MaskSize != 0 {
		return errBadValue
	}
	normal := strings.EqualFold(v, "normal")
	def := fontdesc.New()
	switch name {
	case "style":
		if d.Style() == def.Style() && !normal {
			return errBadValue
		}
		t.add(StyleAttr(d.Style()))
	case "weight":
		if d.Weight() == def.Weight() && !normal {
			return errBadValue
		}
		t.add(WeightAttr(d.Weight()))
	case "variant":
		if d.Variant() == def.Variant() && !normal {
			return errBadValue
		}
		t.add(VariantAttr(d.Variant()))
	case "stretch":
		if d.Stretch() == def.Stretch() && !normal {
			return errBadValue
		}
		t.add(StretchAttr(d.Stretch()))
	}
	return nil
}

// close returns the attributes of the tag covering [start, end).
func (t *markupTag) close(end int) []Attribute {
	if t.scaled {
		t.add(ScaleAttr(t.baseScale * math.Pow(1.2, float64(t.scaleLevel))))
	}
	for i := range t.attrs {
		t.attrs[i] = t.attrs[i].In(t.start, end)
	}
	return t.attrs
}

func parseMarkupBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "yes", "t", "y":
		return true, nil
	case "false", "no", "f", "n":
		return false, nil
	}
	return false, errBadValue
}

// parseColor reads #rgb, #rrggbb, #rrggbbaa or an SVG color name.
func parseColor(v string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(v)]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(v, "#")
	if !ok {
		return color.RGBA{}, errBadValue
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errBadValue
	}
	switch len(hex) {
	case 3:
		return color.RGBA{
			R: uint8(n>>8&0xF) * 0x11,
			G: uint8(n>>4&0xF) * 0x11,
			B: uint8(n&0xF) * 0x11,
			A: 0xFF,
		}, nil
	case 6:
		return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xFF}, nil
	case 8:
		return color.RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
	}
	return color.RGBA{}, errBadValue
}
