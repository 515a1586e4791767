// Package cache provides the concurrent LRU cache shared by the font map
// (Font instances keyed by face, size and variations) and the shaper
// (glyph strings keyed by font, text and analysis).
//
// A Sharded cache spreads keys over a fixed number of shards, each guarded
// by its own mutex and holding its own LRU list, so lookups from parallel
// layouts rarely contend.
package cache
