package text

import (
	"strings"
	"unicode"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout"
	"github.com/gogpu/textlayout/font"
	"github.com/gogpu/textlayout/fontdesc"
	"github.com/gogpu/textlayout/text/emoji"
)

// Itemize splits text[start:start+length] into items of uniform script,
// bidi level, font and attributes, using the base direction of ctx.
// Attribute ranges in attrs are byte offsets into text. The items cover
// the range without gaps, in logical order. An empty range yields no
// items.
func Itemize(ctx *Context, text string, start, length int, attrs *AttrList) []*Item {
	return ItemizeWithDirection(ctx, ctx.cfg.baseDir, text, start, length, attrs)
}

// ItemizeWithDirection is Itemize with an explicit paragraph direction.
func ItemizeWithDirection(ctx *Context, dir Direction, text string, start, length int, attrs *AttrList) []*Item {
	start = min(max(start, 0), len(text))
	end := min(start+max(length, 0), len(text))
	if start == end {
		return nil
	}
	iz := &itemizer{
		ctx:      ctx,
		text:     text,
		fontsets: make(map[fontdesc.Description]*font.Fontset),
	}
	items := iz.itemize(dir, start, end, attrs)
	textlayout.Logger().Debug("itemized", "start", start, "end", end, "items", len(items))
	return items
}

type itemizer struct {
	ctx      *Context
	text     string
	fontsets map[fontdesc.Description]*font.Fontset
}

// attrSpan is a byte range of constant attributes.
type attrSpan struct {
	start, end int
	state      spanState
}

// spanState is the effective attribute state of a span.
type spanState struct {
	desc     fontdesc.Description
	lang     language.Language
	features string
	fallback bool
	gravity  fontdesc.Gravity
	extra    ExtraAttrs
}

// runeState is everything that decides item boundaries at one character.
type runeState struct {
	level  uint8
	script language.Script
	span   int
	emoji  bool
	tab    bool
	font   *font.Font
}

func (iz *itemizer) itemize(dir Direction, start, end int, attrs *AttrList) []*Item {
	sub := iz.text[start:end]
	runes := []rune(sub)
	offsets := byteOffsets(sub, len(runes))
	levels, _ := bidiLevels(runes, dir)
	scripts := resolveScripts(runes, levels, iz.ctx.cfg.tie)
	emojiRuns := emoji.Segment(runes)
	spans := iz.spans(attrs, start, end)

	var (
		items   []*Item
		cur     *Item
		prev    runeState
		spanIdx int
		emojiIx int
	)
	for i, r := range runes {
		off := start + offsets[i]
		for spanIdx+1 < len(spans) && off >= spans[spanIdx].end {
			spanIdx++
		}
		for emojiIx+1 < len(emojiRuns) && i >= emojiRuns[emojiIx].End {
			emojiIx++
		}
		span := &spans[spanIdx]
		st := runeState{
			level:  levels[i],
			script: scripts[i],
			span:   spanIdx,
			emoji:  len(emojiRuns) > 0 && emojiRuns[emojiIx].Emoji,
			tab:    r == '\t',
		}
		var keep *font.Font
		if cur != nil && prev.span == st.span {
			keep = prev.font
		}
		st.font = iz.fontFor(&span.state, r, keep)

		if cur == nil || st != prev || st.tab {
			cur = &Item{Offset: off, Analysis: iz.analysis(&span.state, st)}
			items = append(items, cur)
		}
		cur.Length = start + offsets[i+1] - cur.Offset
		cur.NumChars++
		prev = st
	}
	return iz.merge(items)
}

// spans cuts [start, end) at attribute boundaries and computes the state
// of each piece.
func (iz *itemizer) spans(attrs *AttrList, start, end int) []attrSpan {
	var spans []attrSpan
	it := attrs.Iterator(len(iz.text))
	for {
		s, e := it.Range()
		s, e = max(s, start), min(e, end)
		if s < e {
			spans = append(spans, attrSpan{start: s, end: e, state: iz.stateFor(it.Attrs())})
		}
		if !it.Next() {
			break
		}
	}
	if len(spans) == 0 {
		spans = append(spans, attrSpan{start: start, end: end, state: iz.stateFor(nil)})
	}
	return spans
}

func (iz *itemizer) stateFor(attrs []Attribute) spanState {
	cfg := &iz.ctx.cfg
	st := spanState{
		desc:     cfg.desc,
		lang:     cfg.language,
		fallback: true,
		gravity:  cfg.gravity,
	}
	over := fontdesc.New()
	scale := Scale
	var features []string
	for _, a := range attrs {
		switch a.Kind {
		case AttrLanguage:
			st.lang = language.NewLanguage(a.str)
		case AttrFamily:
			over.SetFamily(a.str)
		case AttrStyle:
			over.SetStyle(fontdesc.Style(a.num))
		case AttrWeight:
			over.SetWeight(fontdesc.Weight(a.num))
		case AttrVariant:
			over.SetVariant(fontdesc.Variant(a.num))
		case AttrStretch:
			over.SetStretch(fontdesc.Stretch(a.num))
		case AttrSize:
			over.SetSize(int32(a.num))
		case AttrAbsoluteSize:
			over.SetAbsoluteSize(int32(a.num))
		case AttrFontDesc:
			over.Merge(a.desc, true)
		case AttrScale:
			scale = a.num
		case AttrFeatures:
			features = append(features, a.str)
		case AttrFallback:
			st.fallback = a.num != 0
		case AttrGravity:
			st.gravity = fontdesc.Gravity(a.num)
		case AttrLetterSpacing:
			st.extra.LetterSpacing = int32(a.num)
		case AttrRise:
			st.extra.Rise = int32(a.num)
		case AttrUnderline:
			st.extra.Underline = Underline(a.num)
		case AttrStrikethrough:
			st.extra.Strikethrough = a.num != 0
		case AttrForeground:
			st.extra.Foreground = a.color
			st.extra.HasForeground = true
		}
	}
	st.desc.Merge(over, true)
	if scale != Scale && st.desc.SetFields()&fontdesc.MaskSize != 0 {
		size := int32(int64(st.desc.Size()) * int64(scale) / Scale)
		if st.desc.SizeIsAbsolute() {
			st.desc.SetAbsoluteSize(size)
		} else {
			st.desc.SetSize(size)
		}
	}
	st.features = strings.Join(features, ",")
	if st.gravity == fontdesc.GravityAuto {
		st.gravity = fontdesc.GravitySouth
	}
	return st
}

func (iz *itemizer) fontset(desc fontdesc.Description) *font.Fontset {
	fs, ok := iz.fontsets[desc]
	if !ok {
		fs = iz.ctx.LoadFontset(desc)
		iz.fontsets[desc] = fs
	}
	return fs
}

// fontFor picks the font for r. Characters that never start a new font
// run, such as marks and format controls, stay in keep when it is set.
func (iz *itemizer) fontFor(st *spanState, r rune, keep *font.Font) *font.Font {
	fs := iz.fontset(st.desc)
	if !st.fallback {
		return fs.Primary()
	}
	if keepsFont(r) {
		if keep != nil {
			return keep
		}
		return fs.Primary()
	}
	if f := fs.FontFor(r, st.lang); f != nil {
		return f
	}
	textlayout.Logger().Debug("no font covers character", "rune", r)
	return fs.Primary()
}

// keepsFont reports whether r takes the font of the character before it.
func keepsFont(r rune) bool {
	return unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf, unicode.Cc)
}

func (iz *itemizer) analysis(st *spanState, rs runeState) Analysis {
	a := Analysis{
		Font:     rs.font,
		Script:   rs.script,
		Language: st.lang,
		Level:    rs.level,
		Gravity:  st.gravity,
		Features: st.features,
		Extra:    st.extra,
	}
	if rs.emoji {
		a.Flags |= FlagEmoji
	}
	if st.gravity.IsVertical() {
		a.Flags |= FlagCenteredBaseline
	}
	return a
}

// merge joins adjacent items with equal analyses. Tab items stay alone.
func (iz *itemizer) merge(items []*Item) []*Item {
	if len(items) < 2 {
		return items
	}
	out := items[:1]
	for _, it := range items[1:] {
		last := out[len(out)-1]
		if last.Analysis == it.Analysis && !iz.isTab(last) && !iz.isTab(it) {
			last.Length += it.Length
			last.NumChars += it.NumChars
			continue
		}
		out = append(out, it)
	}
	return out
}

func (iz *itemizer) isTab(it *Item) bool { return iz.text[it.Offset] == '\t' }
