package text

import (
	"github.com/go-text/typesetting/language"

	"github.com/gogpu/textlayout/fontdesc"
)

// ContextOption configures a Context.
type ContextOption func(*contextConfig)

// contextConfig holds the settings shared by every layout of a Context.
type contextConfig struct {
	baseDir       Direction
	language      language.Language
	dpi           float64
	desc          fontdesc.Description
	gravity       fontdesc.Gravity
	tie           ScriptTieBreak
	engine        ShapeEngine
	shapeCacheCap int
}

// defaultContextConfig returns the default context configuration.
func defaultContextConfig() contextConfig {
	return contextConfig{
		baseDir:       DirectionWeakLTR,
		language:      language.DefaultLanguage(),
		dpi:           96,
		desc:          fontdesc.New(),
		gravity:       fontdesc.GravitySouth,
		tie:           TieForward,
		engine:        DefaultEngine(),
		shapeCacheCap: 1024,
	}
}

// WithBaseDirection sets the paragraph direction used when a layout does
// not detect it from its text. The default is DirectionWeakLTR.
func WithBaseDirection(d Direction) ContextOption {
	return func(c *contextConfig) {
		c.baseDir = d
	}
}

// WithLanguage sets the language of text without a language attribute.
// The default comes from the environment.
func WithLanguage(lang language.Language) ContextOption {
	return func(c *contextConfig) {
		c.language = lang
	}
}

// WithResolution sets the device resolution in dots per inch used to
// convert point sizes to pixels. The default is 96.
func WithResolution(dpi float64) ContextOption {
	return func(c *contextConfig) {
		if dpi > 0 {
			c.dpi = dpi
		}
	}
}

// WithFontDescription sets the font description attributes are merged
// into.
func WithFontDescription(desc fontdesc.Description) ContextOption {
	return func(c *contextConfig) {
		c.desc = desc
	}
}

// WithGravity sets the base gravity. GravityAuto picks it from the script
// of each item.
func WithGravity(g fontdesc.Gravity) ContextOption {
	return func(c *contextConfig) {
		c.gravity = g
	}
}

// WithScriptTieBreak sets how Common characters at the start of a
// paragraph get their script. The default is TieForward.
func WithScriptTieBreak(t ScriptTieBreak) ContextOption {
	return func(c *contextConfig) {
		c.tie = t
	}
}

// WithShapeEngine replaces the shaping engine. A nil engine restores
// DefaultEngine.
func WithShapeEngine(e ShapeEngine) ContextOption {
	return func(c *contextConfig) {
		if e == nil {
			e = DefaultEngine()
		}
		c.engine = e
	}
}

// WithShapeCache sets the number of shaped runs kept for reuse. Zero
// disables the cache. The default is 1024.
func WithShapeCache(capacity int) ContextOption {
	return func(c *contextConfig) {
		c.shapeCacheCap = max(capacity, 0)
	}
}
