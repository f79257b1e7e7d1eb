package bloomfilter

import (
	"hash/maphash"

	"github.com/cespare/xxhash"
	"github.com/spaolacci/murmur3"
)

// Hasher maps a value to a 32-bit hash. The filter derives all of its
// probe positions from this single value, so it should disperse bits well;
// a skewed hash raises the false-positive rate but never causes a false
// negative.
type Hasher[T any] func(T) int32

func fold64(h uint64) int32 {
	return int32(uint32(h) ^ uint32(h>>32))
}

// murmur64 is the 64-bit finalizer of MurmurHash3.
func murmur64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// HashString hashes s with xxhash64.
func HashString(s string) int32 {
	return fold64(xxhash.Sum64String(s))
}

// HashBytes hashes b with xxhash64.
func HashBytes(b []byte) int32 {
	return fold64(xxhash.Sum64(b))
}

// HashMurmur3 hashes b with the 32-bit MurmurHash3.
func HashMurmur3(b []byte) int32 {
	return int32(murmur3.Sum32(b))
}

// HashUint64 suits integer keys that are already well distributed, such
// as database ids or precomputed fingerprints.
func HashUint64(v uint64) int32 {
	return fold64(murmur64(v))
}

// Comparable returns a hasher built on the runtime's own hash for T, the
// one Go maps use. Each call draws a fresh seed, so hashes from two
// hashers differ; a filter must keep using the hasher it was built with.
func Comparable[T comparable]() Hasher[T] {
	seed := maphash.MakeSeed()
	return func(v T) int32 {
		return fold64(maphash.Comparable(seed, v))
	}
}
