package text

import "slices"

// itemRange is a contiguous run of items whose levels are all at least
// level. left and right are the first and last item of the run in visual
// order. Ranges are linked to the ranges on their visual left and right and
// to the range that was open before them.
type itemRange struct {
	level                 int
	left, right           int
	previous              int
	leftRange, rightRange int
}

// reorderer threads items into one visual order list. Items and ranges are
// indices into arenas owned by one ReorderItems call; -1 is nil.
type reorderer struct {
	prev, next []int
	ranges     []itemRange
}

// ReorderItems returns items, given in logical order, in visual order.
// level reports the bidi level of an item. The result is a permutation of
// items equal to reversing, from the highest level down to the lowest odd
// level, every maximal run of items at that level or above.
func ReorderItems[T any](items []T, level func(T) uint8) []T {
	if len(items) < 2 {
		return slices.Clone(items)
	}
	r := reorderer{
		prev:   make([]int, len(items)),
		next:   make([]int, len(items)),
		ranges: make([]itemRange, 0, 8),
	}
	cur := -1
	for i, it := range items {
		cur = r.add(cur, i, int(level(it)))
	}
	for r.ranges[cur].previous >= 0 {
		cur = r.merge(cur)
	}

	out := make([]T, 0, len(items))
	for n := r.ranges[cur].left; n >= 0 && len(out) < len(items); n = r.next[n] {
		out = append(out, items[n])
	}
	return out
}

// merge folds range cur into the range before it and returns that range.
func (r *reorderer) merge(cur int) int {
	p := r.ranges[cur].previous
	left, right := r.ranges[p], r.ranges[cur]
	if left.level%2 == 1 {
		left, right = right, left
	}
	prev := &r.ranges[p]
	prev.left = left.left
	prev.right = right.right
	prev.leftRange = left.leftRange
	prev.rightRange = right.rightRange
	return p
}

// add threads item node with the given level into the open ranges and
// returns the innermost open range.
func (r *reorderer) add(cur, node, level int) int {
	r.prev[node], r.next[node] = -1, -1

	for cur >= 0 && r.ranges[cur].level > level {
		p := r.ranges[cur].previous
		if p < 0 || r.ranges[p].level < level {
			break
		}
		cur = r.merge(cur)
	}

	if cur >= 0 && r.ranges[cur].level >= level {
		rg := &r.ranges[cur]
		if level%2 == 1 {
			r.next[node] = rg.left
			r.prev[rg.left] = node
			rg.left = node
			if lr := rg.leftRange; lr >= 0 {
				r.prev[node] = r.ranges[lr].right
				r.next[r.ranges[lr].right] = node
			}
		} else {
			r.next[rg.right] = node
			r.prev[node] = rg.right
			rg.right = node
			if rr := rg.rightRange; rr >= 0 {
				r.next[node] = r.ranges[rr].left
				r.prev[r.ranges[rr].left] = node
			}
		}
		rg.level = level
		return cur
	}

	r.ranges = append(r.ranges, itemRange{
		level:      level,
		left:       node,
		right:      node,
		previous:   cur,
		leftRange:  -1,
		rightRange: -1,
	})
	n := len(r.ranges) - 1
	if cur >= 0 {
		if r.ranges[cur].level%2 == 1 {
			r.ranges[n].leftRange = r.ranges[cur].leftRange
			r.ranges[n].rightRange = cur
			if lr := r.ranges[n].leftRange; lr >= 0 {
				r.ranges[lr].rightRange = n
			}
			r.ranges[cur].leftRange = n
		} else {
			r.ranges[n].leftRange = cur
			r.ranges[n].rightRange = r.ranges[cur].rightRange
			if rr := r.ranges[n].rightRange; rr >= 0 {
				r.ranges[rr].leftRange = n
			}
			r.ranges[cur].rightRange = n
		}
	}
	if lr := r.ranges[n].leftRange; lr >= 0 {
		r.prev[node] = r.ranges[lr].right
		r.next[r.prev[node]] = node
	}
	if rr := r.ranges[n].rightRange; rr >= 0 {
		r.next[node] = r.ranges[rr].left
		r.prev[r.next[node]] = node
	}
	return n
}
