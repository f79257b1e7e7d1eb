package bloomfilter

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// BitStore is a fixed-capacity packed array of bits. The capacity is
// rounded up to a multiple of WordBits and never changes.
//
// Indexes passed to Set, Get and ClearOne must lie in [0, Capacity());
// anything else panics.
type BitStore struct {
	capacity uint32
	words    *bitset.BitSet
}

// NewBitStore allocates a store holding at least minCapacity bits.
func NewBitStore(minCapacity int) (*BitStore, error) {
	if minCapacity <= 0 {
		return nil, fmt.Errorf("%w: bit store capacity %d", ErrBadCapacity, minCapacity)
	}
	words := (uint64(minCapacity) + WordBits - 1) / WordBits
	capacity := words * WordBits
	if capacity > uint64(^uint32(0)) {
		return nil, fmt.Errorf("%w: bit store capacity %d", ErrSizeOverflow, minCapacity)
	}
	return &BitStore{
		capacity: uint32(capacity),
		words:    bitset.New(uint(capacity)),
	}, nil
}

func (s *BitStore) Set(index uint32) {
	s.check(index)
	s.words.Set(uint(index))
}

func (s *BitStore) Get(index uint32) bool {
	s.check(index)
	return s.words.Test(uint(index))
}

func (s *BitStore) ClearOne(index uint32) {
	s.check(index)
	s.words.Clear(uint(index))
}

// ClearAll zeroes the store one word at a time.
func (s *BitStore) ClearAll() {
	s.words.ClearAll()
}

// Capacity returns the number of addressable bits.
func (s *BitStore) Capacity() uint32 {
	return s.capacity
}

// Count returns the number of bits currently set.
func (s *BitStore) Count() uint32 {
	return uint32(s.words.Count())
}

// bitset grows on an out-of-range Set, so the range is enforced here.
func (s *BitStore) check(index uint32) {
	if index >= s.capacity {
		panic(fmt.Sprintf("bloomfilter: bit index %d out of range [0, %d)", index, s.capacity))
	}
}
