package font

import "sync"

// Coverage caches per-rune answers to "does this face have a glyph".
// It uses 2 bits per rune (checked, covered) in blocks of 256 runes that
// are allocated on first use, so sparse lookups across the Unicode range
// stay small.
//
// Coverage is safe for concurrent use.
type Coverage struct {
	mu     sync.RWMutex
	blocks map[uint32]*coverageBlock
}

// coverageBlock holds 256 runes, 2 bits each: bit 0 = checked,
// bit 1 = covered.
type coverageBlock struct {
	bits [8]uint64
}

// NewCoverage returns an empty coverage map.
func NewCoverage() *Coverage {
	return &Coverage{blocks: make(map[uint32]*coverageBlock)}
}

func coverageBit(r rune) (blockIdx, word, shift uint32) {
	blockIdx = uint32(r) >> 8
	bitIdx := (uint32(r) & 0xFF) * 2
	return blockIdx, bitIdx / 64, bitIdx % 64
}

// Get returns whether r is covered and whether the answer is known.
func (c *Coverage) Get(r rune) (covered, checked bool) {
	blockIdx, word, shift := coverageBit(r)

	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.blocks[blockIdx]
	if !ok {
		return false, false
	}
	w := b.bits[word] >> shift
	return w&2 != 0, w&1 != 0
}

// Set records whether r is covered.
func (c *Coverage) Set(r rune, covered bool) {
	blockIdx, word, shift := coverageBit(r)

	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.blocks[blockIdx]
	if !ok {
		b = &coverageBlock{}
		c.blocks[blockIdx] = b
	}
	b.bits[word] |= 1 << shift
	if covered {
		b.bits[word] |= 2 << shift
	} else {
		b.bits[word] &^= 2 << shift
	}
}

// Lookup returns the cached answer for r, computing and storing it with
// compute on a miss.
func (c *Coverage) Lookup(r rune, compute func(rune) bool) bool {
	if covered, checked := c.Get(r); checked {
		return covered
	}
	covered := compute(r)
	c.Set(r, covered)
	return covered
}

// Clear forgets every cached answer.
func (c *Coverage) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = make(map[uint32]*coverageBlock)
}
