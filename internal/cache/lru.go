package cache

// entry is an element of an LRU list. The list is a ring through a
// sentinel, so no link is ever nil while the entry is linked.
type entry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *entry[K, V]
}

// lru orders entries from most recently used (front) to least recently
// used (back). It is not safe for concurrent use.
type lru[K comparable, V any] struct {
	root entry[K, V]
	len  int
}

func (l *lru[K, V]) init() {
	l.root.prev = &l.root
	l.root.next = &l.root
	l.len = 0
}

// pushFront links a new entry at the front and returns it.
func (l *lru[K, V]) pushFront(key K, value V) *entry[K, V] {
	e := &entry[K, V]{key: key, value: value}
	l.insertAfter(e, &l.root)
	return e
}

// touch marks e as most recently used.
func (l *lru[K, V]) touch(e *entry[K, V]) {
	if l.root.next == e {
		return
	}
	l.unlink(e)
	l.insertAfter(e, &l.root)
}

// back returns the least recently used entry, or nil when empty.
func (l *lru[K, V]) back() *entry[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

func (l *lru[K, V]) insertAfter(e, at *entry[K, V]) {
	e.prev = at
	e.next = at.next
	at.next.prev = e
	at.next = e
	l.len++
}

func (l *lru[K, V]) unlink(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	l.len--
}
