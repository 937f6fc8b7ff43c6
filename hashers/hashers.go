// Package hashers provides key hashers for use with
// [github.com/sherwood-go/sherwood/robinhood] tables.
//
// Unlike the table's default hasher, the hashers here are not
// randomly seeded unless stated otherwise: equal keys hash
// equally across processes, which makes table layouts reproducible.
package hashers

import (
	"bytes"
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
	"golang.org/x/exp/constraints"
)

// String hashes string keys with XXH3.
type String struct{}

func (String) Hash(s string) uint64   { return xxh3.HashString(s) }
func (String) Equal(x, y string) bool { return x == y }

// Bytes hashes byte-slice keys with xxHash64. Keys are compared
// by content, so a []byte can be used as a key even though it
// is not comparable.
//
// Keys must not be modified while they are held in a table.
type Bytes struct{}

func (Bytes) Hash(b []byte) uint64   { return xxhash.Sum64(b) }
func (Bytes) Equal(x, y []byte) bool { return bytes.Equal(x, y) }

// Integer hashes integer keys by mixing their bits with Seed.
// The zero Integer is ready to use.
type Integer[K constraints.Integer] struct {
	Seed uint64
}

const (
	m1 = 0xa0761d6478bd642f
	m2 = 0xe7037ed1a0b428db
	m5 = 0x1d8e4e27c47d124f
)

func (h Integer[K]) Hash(k K) uint64 {
	x := uint64(k)
	return mix(m5^8, mix(x^m2, x^h.Seed^m1))
}

func (Integer[K]) Equal(x, y K) bool { return x == y }

func mix(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return hi ^ lo
}

// Func adapts an ordinary hash function to a hasher
// for comparable keys.
type Func[K comparable] func(K) uint64

func (f Func[K]) Hash(k K) uint64 { return f(k) }
func (Func[K]) Equal(x, y K) bool { return x == y }
