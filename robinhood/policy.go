package robinhood

import (
	"math/big"
	"math/bits"
)

// IndexPolicy maps hash values onto bucket indexes and decides
// how a table's capacity grows.
//
// Index must return a value in [0, capacity) for any capacity
// that NextCapacity has returned. NextCapacity must return a capacity
// that is strictly greater than current and at least min; it panics
// if no such capacity exists.
type IndexPolicy interface {
	Index(hash uint64, capacity int) int
	NextCapacity(current, min int) int
}

// MinPowerOf2Capacity holds the smallest capacity chosen by [PowerOf2].
const MinPowerOf2Capacity = 16

// maxCapacity bounds every capacity so that the sentinel
// index and a doubled capacity both fit in an int on 32-bit platforms.
const maxCapacity = 1 << 30

// PowerOf2 is the default [IndexPolicy]. Capacities are always
// powers of two, so the index is computed with a mask rather than
// a division.
type PowerOf2 struct{}

// Index implements [IndexPolicy.Index]. It relies on capacity
// being a power of two.
func (PowerOf2) Index(hash uint64, capacity int) int {
	return int(hash & uint64(capacity-1))
}

// NextCapacity implements [IndexPolicy.NextCapacity].
func (PowerOf2) NextCapacity(current, min int) int {
	n := max(current+1, min, MinPowerOf2Capacity)
	if n > maxCapacity {
		panic(errCapacityOverflow)
	}
	return 1 << bits.Len(uint(n-1))
}

// Prime is an [IndexPolicy] that chooses capacities from a sequence
// of primes and reduces hashes modulo the capacity. It costs a division
// per probe start but tolerates hash functions whose low bits are
// poorly distributed.
type Prime struct{}

// Index implements [IndexPolicy.Index].
func (Prime) Index(hash uint64, capacity int) int {
	return int(hash % uint64(capacity))
}

// NextCapacity implements [IndexPolicy.NextCapacity].
func (Prime) NextCapacity(current, min int) int {
	for _, p := range primeCapacities {
		if p > current && p >= min {
			return p
		}
	}
	panic(errCapacityOverflow)
}

// PrimeCapacities returns the capacities that [Prime] chooses
// from, in increasing order.
func PrimeCapacities() []int {
	return append([]int(nil), primeCapacities...)
}

// primeCapacities holds the sequence used by Prime: each element
// is the smallest prime greater than twice its predecessor.
var primeCapacities = makePrimeCapacities(5, maxCapacity)

func makePrimeCapacities(first, limit int) []int {
	var ps []int
	for p := first; p <= limit; p = nextPrime(2*p + 1) {
		ps = append(ps, p)
	}
	return ps
}

// nextPrime returns the smallest prime >= n.
func nextPrime(n int) int {
	var x big.Int
	for ; ; n++ {
		// ProbablyPrime is exact for values below 2⁶⁴.
		if x.SetInt64(int64(n)).ProbablyPrime(0) {
			return n
		}
	}
}
