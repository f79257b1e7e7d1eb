package bloomfilter

import (
	"fmt"
	"math"
)

// shuffle re-mixes a probe hash so that one hash yields k probe positions.
// Every step is invertible on 32 bits.
func shuffle(h int32) int32 {
	x := uint32(h)
	x = ((x >> 16) ^ x) * 0x45d9f3b
	x = ((x >> 16) ^ x) * 0x45d9f3b
	x = (x >> 16) ^ x
	return int32(x)
}

func isPowerOfTwo(m uint32) bool {
	return m > 0 && m&(m-1) == 0
}

// Derive computes the filter width, probe count and indexing strategy for
// capacity values at bitsPerValue bits each.
func Derive(capacity, bitsPerValue int) (Params, error) {
	if capacity <= 0 {
		return Params{}, fmt.Errorf("%w: got %d", ErrBadCapacity, capacity)
	}
	if bitsPerValue <= 0 {
		return Params{}, fmt.Errorf("%w: got %d", ErrBadBitsPerValue, bitsPerValue)
	}
	m := uint64(capacity) * uint64(bitsPerValue)
	if m > math.MaxUint32 {
		return Params{}, fmt.Errorf("%w: %d x %d bits", ErrSizeOverflow, capacity, bitsPerValue)
	}
	// ln(2) * m/n is the k that minimises the false-positive rate
	k := uint32(math.Ln2 * float64(bitsPerValue))
	if k == 0 {
		k = 1
	}
	p := Params{M: uint32(m), K: k, Strategy: Modulo}
	if isPowerOfTwo(p.M) {
		p.Strategy = Masked
	}
	return p, nil
}

// New creates a filter sized for capacity values using bitsPerValue bits
// of storage each. When capacity*bitsPerValue is a power of two probe
// indexes are computed by masking instead of a remainder.
func New[T any](capacity, bitsPerValue int, hash Hasher[T]) (*Filter[T], error) {
	if hash == nil {
		return nil, ErrNilHasher
	}
	p, err := Derive(capacity, bitsPerValue)
	if err != nil {
		return nil, err
	}
	return newFilter(p, hash)
}

// NewComparable creates a filter that hashes values with Comparable.
func NewComparable[T comparable](capacity, bitsPerValue int) (*Filter[T], error) {
	return New(capacity, bitsPerValue, Comparable[T]())
}

func newFilter[T any](p Params, hash Hasher[T]) (*Filter[T], error) {
	if p.Strategy == Masked && !isPowerOfTwo(p.M) {
		return nil, fmt.Errorf("bloomfilter: masked indexing needs a power-of-two width, got %d", p.M)
	}
	bits, err := NewBitStore(int(p.M))
	if err != nil {
		return nil, err
	}
	return &Filter[T]{
		m:        p.M,
		k:        p.K,
		strategy: p.Strategy,
		hash:     hash,
		bits:     bits,
	}, nil
}

// index reduces h into [0, m). Both strategies read h as unsigned, so they
// agree on every hash when m is a power of two.
func (filter *Filter[T]) index(h int32) uint32 {
	switch filter.strategy {
	case Masked:
		return uint32(h) & (filter.m - 1)
	default:
		return uint32(h) % filter.m
	}
}

// Add inserts v. It returns ErrCapacityExhausted once m values have been
// added; the filter is left untouched in that case.
func (filter *Filter[T]) Add(v T) error {
	if filter.count >= filter.m {
		return ErrCapacityExhausted
	}
	h := filter.hash(v)
	for i := uint32(0); i < filter.k; i++ {
		filter.bits.Set(filter.index(h))
		h = shuffle(h)
	}
	filter.count++
	return nil
}

// MaybeContains reports false if v was definitely never added since the
// last Clear, and true if it possibly was.
func (filter *Filter[T]) MaybeContains(v T) bool {
	h := filter.hash(v)
	for i := uint32(0); i < filter.k; i++ {
		if !filter.bits.Get(filter.index(h)) {
			return false
		}
		h = shuffle(h)
	}
	return true
}

// Clear empties the filter. It runs in time proportional to the width.
func (filter *Filter[T]) Clear() {
	filter.bits.ClearAll()
	filter.count = 0
}

// Size returns the number of successful Add calls since creation or the
// last Clear, duplicates included.
func (filter *Filter[T]) Size() int {
	return int(filter.count)
}

func (filter *Filter[T]) M() uint32 {
	return filter.m
}

func (filter *Filter[T]) K() uint32 {
	return filter.k
}

func (filter *Filter[T]) Strategy() Strategy {
	return filter.strategy
}

func (filter *Filter[T]) Params() Params {
	return Params{M: filter.m, K: filter.k, Strategy: filter.strategy}
}

// FillRatio is the fraction of the m filter bits that are set.
func (filter *Filter[T]) FillRatio() float64 {
	return float64(filter.bits.Count()) / float64(filter.m)
}

// EstimatedFalsePositiveRate estimates the false-positive probability at
// the current number of insertions.
func (filter *Filter[T]) EstimatedFalsePositiveRate() float64 {
	return filter.Params().FalsePositiveRate(filter.Size())
}
