package font

import "github.com/gogpu/textlayout/fontdesc"

// Option configures a FontMap.
type Option func(*config)

// config holds FontMap configuration.
type config struct {
	stylePenalty  int
	cacheCapacity int
	fallback      Fallback
	defaultFamily string
}

// defaultConfig returns the default FontMap configuration.
func defaultConfig() config {
	return config{
		stylePenalty:  fontdesc.DefaultStylePenalty,
		cacheCapacity: 256,
		defaultFamily: "sans-serif",
	}
}

// WithStylePenalty sets the distance charged for substituting an italic
// face for an oblique request or the other way round. Smaller values make
// the substitution preferable to a large weight mismatch.
func WithStylePenalty(penalty int) Option {
	return func(c *config) {
		c.stylePenalty = penalty
	}
}

// WithFontCacheCapacity sets how many Font instances the map keeps.
func WithFontCacheCapacity(n int) Option {
	return func(c *config) {
		c.cacheCapacity = n
	}
}

// WithFallback sets the source of faces for characters that no registered
// face covers. The default is no fallback.
func WithFallback(fb Fallback) Option {
	return func(c *config) {
		c.fallback = fb
	}
}

// WithDefaultFamily sets the family used for descriptions without one and
// for the generic aliases sans-serif, sans, serif and monospace when no
// face of that name is registered.
func WithDefaultFamily(family string) Option {
	return func(c *config) {
		c.defaultFamily = family
	}
}
