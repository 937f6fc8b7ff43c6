package robinhood

import (
	"github.com/dolthub/maphash"
)

// A Hasher defines a hash function and an equivalence relation over
// keys of type K.
//
// Hash must be deterministic and consistent with Equal: if Equal(x, y)
// is true then Hash(x) == Hash(y). The table does not check this;
// a Hasher that breaks the rule makes lookups and removals unreliable.
type Hasher[K any] interface {
	Hash(K) uint64
	Equal(x, y K) bool
}

// ComparableHasher is the default [Hasher] for comparable keys.
// Its Equal(x, y) method is consistent with x == y.
//
// The zero ComparableHasher is not usable: obtain one from
// [NewComparableHasher]. Each one is seeded independently.
type ComparableHasher[K comparable] struct {
	h maphash.Hasher[K]
}

// NewComparableHasher returns a randomly seeded hasher for K.
func NewComparableHasher[K comparable]() ComparableHasher[K] {
	return ComparableHasher[K]{
		h: maphash.NewHasher[K](),
	}
}

func (c ComparableHasher[K]) Hash(k K) uint64 { return c.h.Hash(k) }
func (ComparableHasher[K]) Equal(x, y K) bool { return x == y }

// Adapter combines a [Hasher] with an [IndexPolicy] so that
// a key can be turned into a bucket index in one step.
type Adapter[K any, H Hasher[K], P IndexPolicy] struct {
	hasher H
	policy P
}

// NewAdapter returns an Adapter using the given hasher and policy.
func NewAdapter[K any, H Hasher[K], P IndexPolicy](h H, p P) *Adapter[K, H, P] {
	return &Adapter[K, H, P]{
		hasher: h,
		policy: p,
	}
}

// Bucket returns the ideal bucket for k in a table with
// the given capacity, which must be non-zero.
func (a *Adapter[K, H, P]) Bucket(k K, capacity int) int {
	return a.policy.Index(a.hasher.Hash(k), capacity)
}

// Hash returns the hash of k.
func (a *Adapter[K, H, P]) Hash(k K) uint64 {
	return a.hasher.Hash(k)
}

// Equal reports whether x and y are the same key.
func (a *Adapter[K, H, P]) Equal(x, y K) bool {
	return a.hasher.Equal(x, y)
}

// Hasher returns the adapter's hasher.
func (a *Adapter[K, H, P]) Hasher() H {
	return a.hasher
}

// Policy returns the adapter's index policy.
func (a *Adapter[K, H, P]) Policy() P {
	return a.policy
}
