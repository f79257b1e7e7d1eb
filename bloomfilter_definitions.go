package bloomfilter

import "errors"

// DefaultBitsPerValue offers roughly a 1% false-positive probability
const DefaultBitsPerValue = 10

// WordBits is the width of a BitStore storage word.
const WordBits = 64

var (
	ErrBadCapacity       = errors.New("bloomfilter: capacity must be positive")
	ErrBadBitsPerValue   = errors.New("bloomfilter: bits per value must be positive")
	ErrNilHasher         = errors.New("bloomfilter: nil hash function")
	ErrSizeOverflow      = errors.New("bloomfilter: filter width overflows uint32")
	ErrCapacityExhausted = errors.New("bloomfilter: filter capacity reached")
)

// Strategy selects how a probe hash is reduced to a bit index.
type Strategy uint8

const (
	// Modulo reduces with a remainder and works for any filter width.
	Modulo Strategy = iota
	// Masked reduces with m-1 and requires m to be a power of two.
	Masked
)

func (s Strategy) String() string {
	switch s {
	case Masked:
		return "masked"
	case Modulo:
		return "modulo"
	}
	return "unknown"
}

// Params are the values derived from a requested capacity and bit budget.
type Params struct {
	M        uint32 // filter width in bits
	K        uint32 // probe rounds per value
	Strategy Strategy
}

// Filter is a Bloom filter over values of type T. It is not safe for
// concurrent use when any goroutine calls Add or Clear.
type Filter[T any] struct {
	m        uint32
	k        uint32
	strategy Strategy
	hash     Hasher[T]
	count    uint32
	bits     *BitStore
}
