// Package robinhood implements an open-addressing hash table that
// uses Robin Hood hashing: linear probing where an entry that has
// travelled further from its ideal bucket takes the slot of one that
// has travelled less. This keeps probe sequences short and their
// lengths close together even at high load factors.
//
// Removal uses backward-shift deletion, so the table never
// contains tombstones.
//
// How hashes become bucket indexes is decided by an [IndexPolicy]:
// [PowerOf2] (the default) masks the hash; [Prime] reduces it modulo
// a prime capacity.
package robinhood

import (
	"fmt"
	"math"
)

// DefaultMaxLoadFactor holds the fraction of a table's capacity
// that may be occupied before it grows.
const DefaultMaxLoadFactor = 0.5

// maxLoadFactorLimit caps the load factor so that a table
// always keeps at least one empty slot to end probe sequences.
const maxLoadFactorLimit = 0.99

const (
	errCapacityOverflow = "robinhood: capacity overflow"
	errNilTable         = "robinhood: mutating method called on nil *Table"
	errMutated          = "robinhood: table mutated during iteration"
	errKeyNotFound      = "robinhood: key not found"
)

// Table is a hash table mapping keys K to values V, using
// hasher H to hash and compare keys and policy P to turn
// hashes into bucket indexes.
//
// Tables should be created with one of the constructors: [New],
// [WithCapacity], [WithHasher], [WithHasherAndPolicy] or
// [WithCapacityHasherAndPolicy]. No memory is allocated until the
// first insertion unless a capacity is requested up front.
//
// Just as with map[K]V, a nil *Table is a valid empty table for
// the read-only methods.
//
// A Table is not safe for concurrent use. Callers sharing one between
// goroutines must serialize all access, including reads.
//
// Pointers returned by [Table.GetPtr] and iterators returned by
// [Table.Iter] (and the All, Keys and Values sequences) are invalidated by
// any call that inserts a new key, removes a key, clears or resizes the table.
// Using an iterator after such a call panics.
type Table[K, V any, H Hasher[K], P IndexPolicy] struct {
	adapter Adapter[K, H, P]
	store   slotStore[K, V]
	length  int

	// maxLoadFactor holds the configured load bound.
	// Zero means DefaultMaxLoadFactor.
	maxLoadFactor float64

	// gen is incremented by every change that can move
	// entries between slots.
	gen uint64
}

// Map is a [Table] for comparable keys using the default hasher and
// index policy.
type Map[K comparable, V any] = Table[K, V, ComparableHasher[K], PowerOf2]

// New returns a new empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return WithHasher[K, V](NewComparableHasher[K]())
}

// WithCapacity returns a new Map that can hold at least n
// entries without growing.
func WithCapacity[K comparable, V any](n int) *Map[K, V] {
	t := New[K, V]()
	t.Reserve(n)
	return t
}

// WithHasher returns a new empty Table that uses h for hashing
// and the [PowerOf2] index policy.
func WithHasher[K, V any, H Hasher[K]](h H) *Table[K, V, H, PowerOf2] {
	return WithHasherAndPolicy[K, V](h, PowerOf2{})
}

// WithHasherAndPolicy returns a new empty Table that uses h for
// hashing and p for choosing bucket indexes and capacities.
func WithHasherAndPolicy[K, V any, H Hasher[K], P IndexPolicy](h H, p P) *Table[K, V, H, P] {
	return &Table[K, V, H, P]{
		adapter: Adapter[K, H, P]{
			hasher: h,
			policy: p,
		},
		maxLoadFactor: DefaultMaxLoadFactor,
	}
}

// WithCapacityHasherAndPolicy is like [WithHasherAndPolicy] but
// also reserves room for at least n entries.
func WithCapacityHasherAndPolicy[K, V any, H Hasher[K], P IndexPolicy](n int, h H, p P) *Table[K, V, H, P] {
	t := WithHasherAndPolicy[K, V](h, p)
	t.Reserve(n)
	return t
}

// Len returns the number of entries in the table.
func (t *Table[K, V, H, P]) Len() int {
	if t == nil {
		return 0
	}
	return t.length
}

// IsEmpty reports whether the table holds no entries.
func (t *Table[K, V, H, P]) IsEmpty() bool {
	return t.Len() == 0
}

// Capacity returns the number of data slots in the table's
// backing store. It is zero until the store is allocated.
func (t *Table[K, V, H, P]) Capacity() int {
	if t == nil {
		return 0
	}
	return t.store.capacity
}

// Hasher returns the hasher used by the table, or the zero H
// if t is nil.
func (t *Table[K, V, H, P]) Hasher() H {
	if t == nil {
		return *new(H)
	}
	return t.adapter.hasher
}

// Policy returns the index policy used by the table, or the
// zero P if t is nil.
func (t *Table[K, V, H, P]) Policy() P {
	if t == nil {
		return *new(P)
	}
	return t.adapter.policy
}

// Adapter returns the hash adapter used by the table,
// or nil if t is nil.
func (t *Table[K, V, H, P]) Adapter() *Adapter[K, H, P] {
	if t == nil {
		return nil
	}
	return &t.adapter
}

// MaxLoadFactor returns the fraction of the capacity that may
// be occupied before the table grows.
func (t *Table[K, V, H, P]) MaxLoadFactor() float64 {
	if t == nil || t.maxLoadFactor == 0 {
		return DefaultMaxLoadFactor
	}
	return t.maxLoadFactor
}

// SetMaxLoadFactor sets the maximum load factor. Values above 0.99
// are treated as 0.99; f must be in (0, 1]. If the current
// entries exceed the new bound, the table grows immediately.
func (t *Table[K, V, H, P]) SetMaxLoadFactor(f float64) {
	if t == nil {
		panic(errNilTable)
	}
	if !(f > 0 && f <= 1) {
		panic(fmt.Sprintf("robinhood: invalid max load factor %v", f))
	}
	t.maxLoadFactor = min(f, maxLoadFactorLimit)
	t.ensure(t.length)
}

// Insert sets the value for k to v. If k was already present, it
// returns the previous value and true; otherwise it returns the
// zero value and false.
//
// Insert panics if t is nil.
func (t *Table[K, V, H, P]) Insert(k K, v V) (prev V, replaced bool) {
	if t == nil {
		panic(errNilTable)
	}
	if t.length+1 > t.maxEntries(t.store.capacity) {
		// Only grow if the key is really new.
		if i := t.find(k); i >= 0 {
			s := &t.store.slots[i]
			prev, s.value = s.value, v
			return prev, true
		}
		t.ensure(t.length + 1)
	}
	st := &t.store
	cur := slot[K, V]{dist: 1, key: k, value: v}
	// carrying is true until k itself has been placed. An existing
	// entry for k sits exactly cur.dist-1 slots past its ideal bucket,
	// so only slots with an equal dist need comparing.
	carrying := true
	for i := t.adapter.Bucket(k, st.capacity); ; i = st.next(i) {
		s := &st.slots[i]
		switch {
		case s.empty():
			*s = cur
			t.length++
			t.gen++
			return prev, false
		case carrying && s.dist == cur.dist && t.adapter.Equal(s.key, k):
			prev, s.value = s.value, v
			return prev, true
		case s.dist < cur.dist:
			*s, cur = cur, *s
			carrying = false
		}
		cur.dist++
	}
}

// insertUnique places an entry into st, which must not already
// hold k and must have an empty slot.
func (t *Table[K, V, H, P]) insertUnique(st *slotStore[K, V], k K, v V) {
	cur := slot[K, V]{dist: 1, key: k, value: v}
	for i := t.adapter.Bucket(k, st.capacity); ; i = st.next(i) {
		s := &st.slots[i]
		if s.empty() {
			*s = cur
			return
		}
		if s.dist < cur.dist {
			*s, cur = cur, *s
		}
		cur.dist++
	}
}

// find returns the index of the slot holding k, or -1 if there is none.
func (t *Table[K, V, H, P]) find(k K) int {
	if t == nil || t.length == 0 {
		return -1
	}
	st := &t.store
	dist := uint32(1)
	for i := t.adapter.Bucket(k, st.capacity); ; i = st.next(i) {
		s := &st.slots[i]
		if s.dist < dist {
			// Either empty, or an entry closer to home than k
			// would be: k would have displaced it.
			return -1
		}
		if s.dist == dist && t.adapter.Equal(s.key, k) {
			return i
		}
		dist++
	}
}

// Get returns the value for k and reports whether it was found.
func (t *Table[K, V, H, P]) Get(k K) (V, bool) {
	if i := t.find(k); i >= 0 {
		return t.store.slots[i].value, true
	}
	return *new(V), false
}

// GetPtr returns a pointer to the value for k, or nil if k
// is not present. The pointer may be used to update the value
// in place; it must not be used after any subsequent call that
// inserts a new key, removes a key, clears or resizes the table.
func (t *Table[K, V, H, P]) GetPtr(k K) *V {
	if i := t.find(k); i >= 0 {
		return &t.store.slots[i].value
	}
	return nil
}

// MustGet returns the value for k. It panics if k is not present.
func (t *Table[K, V, H, P]) MustGet(k K) V {
	i := t.find(k)
	if i < 0 {
		panic(errKeyNotFound)
	}
	return t.store.slots[i].value
}

// ContainsKey reports whether k is present in the table.
func (t *Table[K, V, H, P]) ContainsKey(k K) bool {
	return t.find(k) >= 0
}

// Remove removes the entry for k, returning its value and true,
// or the zero value and false if k was not present.
func (t *Table[K, V, H, P]) Remove(k K) (V, bool) {
	i := t.find(k)
	if i < 0 {
		return *new(V), false
	}
	st := &t.store
	v := st.slots[i].value
	// Shift the rest of the chain back one slot until we reach
	// an empty slot or an entry that is already in its ideal bucket.
	for {
		j := st.next(i)
		s := &st.slots[j]
		if s.dist <= 1 {
			break
		}
		st.slots[i] = *s
		st.slots[i].dist--
		i = j
	}
	st.slots[i] = slot[K, V]{}
	t.length--
	t.gen++
	return v, true
}

// Clear removes all entries from the table, keeping its capacity.
func (t *Table[K, V, H, P]) Clear() {
	if t == nil {
		return
	}
	t.store.reset()
	t.length = 0
	t.gen++
}

// Reserve makes room for at least additional more entries
// without growing.
func (t *Table[K, V, H, P]) Reserve(additional int) {
	if t == nil {
		panic(errNilTable)
	}
	if additional < 0 {
		panic(fmt.Sprintf("robinhood: Reserve called with negative count %d", additional))
	}
	if additional > maxCapacity-t.length {
		panic(errCapacityOverflow)
	}
	t.ensure(t.length + additional)
}

// Resize rehashes the table into the capacity that its policy
// chooses for capacityHint, or into the smallest capacity that
// holds the current entries if that is larger.
func (t *Table[K, V, H, P]) Resize(capacityHint int) {
	if t == nil {
		panic(errNilTable)
	}
	c := max(
		t.adapter.policy.NextCapacity(0, capacityHint),
		t.capacityFor(t.length, 0),
	)
	if c == t.store.capacity {
		return
	}
	t.rehash(c)
}

// ShrinkToFit rehashes the table into the smallest capacity
// that holds its current entries. An empty table releases its
// backing store altogether.
func (t *Table[K, V, H, P]) ShrinkToFit() {
	if t == nil || !t.store.allocated() {
		return
	}
	if t.length == 0 {
		t.store = slotStore[K, V]{}
		t.gen++
		return
	}
	if c := t.capacityFor(t.length, 0); c < t.store.capacity {
		t.rehash(c)
	}
}

// Clone returns a copy of the table. Keys and values are
// copied as if by assignment.
func (t *Table[K, V, H, P]) Clone() *Table[K, V, H, P] {
	if t == nil {
		return nil
	}
	t1 := *t
	t1.store = t.store.clone()
	t1.gen = 0
	return &t1
}

// ensure grows the table if necessary so that it can
// hold n entries.
func (t *Table[K, V, H, P]) ensure(n int) {
	if n <= t.maxEntries(t.store.capacity) {
		return
	}
	t.rehash(t.capacityFor(n, t.store.capacity))
}

// maxEntries returns the number of entries a store of the
// given capacity may hold. It is always less than the capacity
// so that every probe sequence ends at an empty slot.
func (t *Table[K, V, H, P]) maxEntries(capacity int) int {
	if capacity == 0 {
		return 0
	}
	n := int(float64(capacity) * t.MaxLoadFactor())
	return min(n, capacity-1)
}

// capacityFor returns the smallest capacity above current
// chosen by the policy that can hold n entries.
func (t *Table[K, V, H, P]) capacityFor(n, current int) int {
	need := math.Ceil(float64(n) / t.MaxLoadFactor())
	if need > maxCapacity {
		panic(errCapacityOverflow)
	}
	c := t.adapter.policy.NextCapacity(current, int(need))
	for t.maxEntries(c) < n {
		c = t.adapter.policy.NextCapacity(c, c+1)
	}
	return c
}

// rehash moves every entry into a new store with the given capacity.
// The table's store is replaced only once the new one is complete.
func (t *Table[K, V, H, P]) rehash(capacity int) {
	st := newSlotStore[K, V](capacity)
	if old := &t.store; old.allocated() {
		for i := 0; old.slots[i].dist != distSentinel; i++ {
			if s := &old.slots[i]; !s.empty() {
				t.insertUnique(&st, s.key, s.value)
			}
		}
	}
	t.store = st
	t.gen++
}
