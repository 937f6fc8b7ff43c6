package robinhood

import (
	"fmt"
	"math"
)

const (
	// distEmpty marks a slot that holds no entry. An occupied
	// slot with displacement d stores d+1.
	distEmpty = 0

	// distSentinel marks the reserved slot after the last data slot.
	// No live entry can reach this displacement.
	distSentinel = math.MaxUint32
)

// slot is a single element of the backing buffer.
type slot[K, V any] struct {
	dist  uint32
	key   K
	value V
}

func (s *slot[K, V]) empty() bool {
	return s.dist == distEmpty
}

// displacement returns the number of slots the entry
// sits past its ideal bucket. It's only meaningful for
// occupied slots.
func (s *slot[K, V]) displacement() int {
	return int(s.dist) - 1
}

// slotStore owns the contiguous backing buffer of a table.
//
// The zero value is the unallocated store: it has no buffer
// and a capacity of zero. An allocated store holds capacity+1
// slots: data lives in slots[0:capacity] and slots[capacity]
// is the sentinel.
type slotStore[K, V any] struct {
	slots    []slot[K, V]
	capacity int
}

// newSlotStore returns a store with the given number of data
// slots, all empty.
func newSlotStore[K, V any](capacity int) slotStore[K, V] {
	if capacity <= 0 || capacity > maxCapacity {
		panic(fmt.Sprintf("robinhood: invalid slot store capacity %d", capacity))
	}
	slots := make([]slot[K, V], capacity+1)
	slots[capacity].dist = distSentinel
	return slotStore[K, V]{
		slots:    slots,
		capacity: capacity,
	}
}

func (s *slotStore[K, V]) allocated() bool {
	return s.slots != nil
}

// at returns the slot at index i, which may be the sentinel.
// It panics if i is out of range.
func (s *slotStore[K, V]) at(i int) *slot[K, V] {
	if i < 0 || i >= len(s.slots) {
		panic(fmt.Sprintf("robinhood: slot index %d out of range [0, %d)", i, len(s.slots)))
	}
	return &s.slots[i]
}

// next returns the data slot index following i, wrapping
// around before the sentinel.
func (s *slotStore[K, V]) next(i int) int {
	i++
	if i == s.capacity {
		return 0
	}
	return i
}

// reset marks every data slot empty, keeping the buffer.
func (s *slotStore[K, V]) reset() {
	if !s.allocated() {
		return
	}
	clear(s.slots[:s.capacity])
}

// clone returns an independent copy of the store.
func (s *slotStore[K, V]) clone() slotStore[K, V] {
	if !s.allocated() {
		return slotStore[K, V]{}
	}
	return slotStore[K, V]{
		slots:    append([]slot[K, V](nil), s.slots...),
		capacity: s.capacity,
	}
}
