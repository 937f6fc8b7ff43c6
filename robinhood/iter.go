package robinhood

import (
	"iter"
)

// Iterator is a cursor over the entries of a [Table].
// Entries are produced in an unspecified order.
//
// An Iterator is invalidated by any call that inserts a new key, removes
// a key, clears or resizes its table; calling Next, Key or Value
// after that panics.
// Updating the value of an existing key does not invalidate it.
type Iterator[K, V any] struct {
	store slotStore[K, V]
	gen   *uint64
	gen0  uint64

	i         int
	total     int
	remaining int
	cur       *slot[K, V]
}

// Iter returns an iterator positioned before the first entry.
func (t *Table[K, V, H, P]) Iter() *Iterator[K, V] {
	if t == nil {
		return &Iterator[K, V]{}
	}
	return &Iterator[K, V]{
		store:     t.store,
		gen:       &t.gen,
		gen0:      t.gen,
		total:     t.length,
		remaining: t.length,
	}
}

// Next advances to the next entry and reports whether there is one.
func (it *Iterator[K, V]) Next() bool {
	if it.gen != nil && *it.gen != it.gen0 {
		panic(errMutated)
	}
	it.cur = nil
	for it.remaining > 0 {
		s := it.store.at(it.i)
		if s.dist == distSentinel {
			break
		}
		it.i++
		if !s.empty() {
			it.cur = s
			it.remaining--
			return true
		}
	}
	return false
}

// Key returns the key of the current entry.
func (it *Iterator[K, V]) Key() K {
	return it.current().key
}

// Value returns the value of the current entry.
func (it *Iterator[K, V]) Value() V {
	return it.current().value
}

// Remaining returns the number of entries not yet produced by Next.
func (it *Iterator[K, V]) Remaining() int {
	return it.remaining
}

// Reset moves the iterator back before the first entry.
func (it *Iterator[K, V]) Reset() {
	it.i = 0
	it.remaining = it.total
	it.cur = nil
}

func (it *Iterator[K, V]) current() *slot[K, V] {
	if it.gen != nil && *it.gen != it.gen0 {
		panic(errMutated)
	}
	if it.cur == nil {
		panic("robinhood: Iterator has no current entry")
	}
	return it.cur
}

// All returns an iterator over all (key, value) pairs in
// unspecified order. The table must not be structurally
// modified during iteration (see [Iterator]).
func (t *Table[K, V, H, P]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := t.Iter()
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Keys returns an iterator over all keys in unspecified order.
func (t *Table[K, V, H, P]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		it := t.Iter()
		for it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// Values returns an iterator over all values in unspecified order.
func (t *Table[K, V, H, P]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		it := t.Iter()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Drain returns an iterator that removes every entry from the
// table and yields it. The table is empty as soon as iteration
// starts and may be used freely from the loop body; if the loop
// stops early, the entries not yet yielded are discarded.
// The table's capacity is kept unless it was reallocated
// during the drain.
func (t *Table[K, V, H, P]) Drain() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t.Len() == 0 {
			return
		}
		old := t.store
		n := t.length
		t.store = slotStore[K, V]{}
		t.length = 0
		t.gen++
		defer func() {
			if !t.store.allocated() {
				old.reset()
				t.store = old
			}
		}()
		for i := 0; n > 0 && old.slots[i].dist != distSentinel; i++ {
			s := &old.slots[i]
			if s.empty() {
				continue
			}
			n--
			if !yield(s.key, s.value) {
				return
			}
		}
	}
}
