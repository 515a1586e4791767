package text

import (
	"sync/atomic"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout"
	"github.com/gogpu/textlayout/font"
	"github.com/gogpu/textlayout/fontdesc"
	"github.com/gogpu/textlayout/internal/cache"
)

// Context holds the settings and shared resources used to lay out text:
// the font map, defaults for direction, language and font, and the cache
// of shaped runs.
//
// Several layouts may share a Context. Its getters and the shaped-run
// cache are safe for concurrent use; its setters are not and must not
// race with layouts using the context.
type Context struct {
	fontMap *font.FontMap
	cfg     contextConfig
	shaped  *cache.Sharded[shapeKey, *GlyphString]

	serial        atomic.Uint32
	fontMapSerial atomic.Uint32
}

// NewContext returns a context resolving fonts through fm.
func NewContext(fm *font.FontMap, opts ...ContextOption) (*Context, error) {
	if fm == nil {
		return nil, ErrNoFontMap
	}
	cfg := defaultContextConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &Context{fontMap: fm, cfg: cfg}
	if cfg.shapeCacheCap > 0 {
		c.shaped = cache.NewSharded[shapeKey, *GlyphString](cfg.shapeCacheCap)
	}
	c.serial.Store(1)
	c.fontMapSerial.Store(fm.Serial())
	return c, nil
}

// FontMap returns the font map of the context.
func (c *Context) FontMap() *font.FontMap { return c.fontMap }

// BaseDirection returns the default paragraph direction.
func (c *Context) BaseDirection() Direction { return c.cfg.baseDir }

// Language returns the default language.
func (c *Context) Language() language.Language { return c.cfg.language }

// Resolution returns the device resolution in dots per inch.
func (c *Context) Resolution() float64 { return c.cfg.dpi }

// FontDescription returns the base font description.
func (c *Context) FontDescription() fontdesc.Description { return c.cfg.desc }

// Gravity returns the base gravity.
func (c *Context) Gravity() fontdesc.Gravity { return c.cfg.gravity }

// ScriptTieBreak returns the script resolution policy for leading
// characters.
func (c *Context) ScriptTieBreak() ScriptTieBreak { return c.cfg.tie }

// ShapeEngine returns the engine used to shape items.
func (c *Context) ShapeEngine() ShapeEngine { return c.cfg.engine }

// SetBaseDirection sets the base direction and bumps the serial.
func (c *Context) SetBaseDirection(d Direction) {
	c.cfg.baseDir = d
	c.changed()
}

// SetLanguage sets the default language and bumps the serial.
func (c *Context) SetLanguage(lang language.Language) {
	c.cfg.language = lang
	c.changed()
}

// SetFontDescription sets the base font description and bumps the serial.
func (c *Context) SetFontDescription(desc fontdesc.Description) {
	c.cfg.desc = desc
	c.changed()
}

// SetResolution sets the resolution in dots per inch and bumps the
// serial. Values that are not positive are ignored.
func (c *Context) SetResolution(dpi float64) {
	if dpi <= 0 {
		return
	}
	c.cfg.dpi = dpi
	c.changed()
}

// SetGravity sets the base gravity and bumps the serial.
func (c *Context) SetGravity(g fontdesc.Gravity) {
	c.cfg.gravity = g
	c.changed()
}

// Serial returns a number that changes whenever a setting of the context
// or the contents of its font map change. Layouts compare it against the
// value they last saw to drop stale lines.
func (c *Context) Serial() uint32 {
	if s := c.fontMap.Serial(); c.fontMapSerial.Swap(s) != s {
		if c.shaped != nil {
			c.shaped.Clear()
		}
		textlayout.Logger().Debug("font map changed", "serial", s)
		c.changed()
	}
	return c.serial.Load()
}

// changed bumps the serial. Zero is never used so that a zero value in a
// layout always reads as stale.
func (c *Context) changed() {
	if c.serial.Add(1) == 0 {
		c.serial.Add(1)
	}
}

// ShapeCacheStats returns the counters of the shaped-run cache.
func (c *Context) ShapeCacheStats() cache.Stats {
	if c.shaped == nil {
		return cache.Stats{}
	}
	return c.shaped.Stats()
}

// LoadFontset resolves desc to a font set at the context resolution.
func (c *Context) LoadFontset(desc fontdesc.Description) *font.Fontset {
	return c.fontMap.LoadFontset(desc, c.cfg.dpi)
}
