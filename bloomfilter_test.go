package bloomfilter

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rng = uint64(time.Now().UnixNano())

// returns random number, modifies the seed
func splitmix64(seed *uint64) uint64 {
	*seed = *seed + 0x9E3779B97F4A7C15
	z := *seed
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func identity(v int32) int32 { return v }

func TestEndToEnd(t *testing.T) {
	filter, err := New(128, 16, HashString)
	require.NoError(t, err)
	assert.Equal(t, uint32(2048), filter.M())
	assert.Equal(t, uint32(11), filter.K())
	assert.Equal(t, Masked, filter.Strategy())

	for i := 0; i < 100; i++ {
		require.NoError(t, filter.Add(strconv.Itoa(i)))
	}
	for i := 0; i < 100; i++ {
		assert.True(t, filter.MaybeContains(strconv.Itoa(i)), "%d", i)
	}
	assert.Equal(t, 100, filter.Size())

	matches := 0
	for i := 100; i < 1000; i++ {
		if filter.MaybeContains(strconv.Itoa(i)) {
			matches++
		}
	}
	// the design bound at this load is far below 1%
	assert.Less(t, matches, 45)
}

func TestNoFalseNegatives(t *testing.T) {
	for _, c := range []struct {
		capacity, bitsPerValue int
		strategy               Strategy
	}{
		{1000, 10, Modulo},
		{1024, 8, Masked},
		{1500, 7, Modulo},
		{4096, 16, Masked},
	} {
		filter, err := New(c.capacity, c.bitsPerValue, HashUint64)
		require.NoError(t, err)
		require.Equal(t, c.strategy, filter.Strategy())

		// same load factor for every width: half the design capacity
		keys := make([]uint64, c.capacity/2)
		for i := range keys {
			keys[i] = splitmix64(&rng)
			require.NoError(t, filter.Add(keys[i]))
			assert.True(t, filter.MaybeContains(keys[i]))
		}
		for _, v := range keys {
			assert.True(t, filter.MaybeContains(v), "%s lost %d", c.strategy, v)
		}
		assert.Equal(t, len(keys), filter.Size())
	}
}

func TestMaskedModuloEquivalence(t *testing.T) {
	p, err := Derive(128, 8)
	require.NoError(t, err)
	require.Equal(t, Masked, p.Strategy)

	masked, err := newFilter(p, identity)
	require.NoError(t, err)
	modulo, err := newFilter(Params{M: p.M, K: p.K, Strategy: Modulo}, identity)
	require.NoError(t, err)

	values := []int32{0, 1, -1, 1023, -1024, math.MaxInt32, math.MinInt32}
	for i := 0; i < 100; i++ {
		values = append(values, int32(splitmix64(&rng)))
	}
	for _, v := range values {
		assert.Equal(t, masked.index(v), modulo.index(v), "hash %d", v)
		require.NoError(t, masked.Add(v))
		require.NoError(t, modulo.Add(v))
	}
	for i := uint32(0); i < p.M; i++ {
		assert.Equal(t, masked.bits.Get(i), modulo.bits.Get(i), "bit %d", i)
	}
	for i := 0; i < 1000; i++ {
		v := int32(splitmix64(&rng))
		assert.Equal(t, masked.MaybeContains(v), modulo.MaybeContains(v))
	}
}

func TestNegativeHashes(t *testing.T) {
	for _, c := range [][2]int{{100, 10}, {128, 8}} {
		filter, err := New(c[0], c[1], identity)
		require.NoError(t, err)
		for _, v := range []int32{-1, -2, -1000, math.MinInt32, math.MinInt32 + 1} {
			assert.Less(t, filter.index(v), filter.M(), "%s hash %d", filter.Strategy(), v)
			require.NoError(t, filter.Add(v))
			assert.True(t, filter.MaybeContains(v))
		}
	}
	// for a non-negative hash the modulo index is a plain remainder
	filter, err := New(100, 10, identity)
	require.NoError(t, err)
	assert.Equal(t, uint32(234), filter.index(1234))
}

func TestClear(t *testing.T) {
	filter, err := New(1000, DefaultBitsPerValue, HashUint64)
	require.NoError(t, err)

	empty := func() {
		assert.Equal(t, 0, filter.Size())
		assert.Equal(t, 0.0, filter.FillRatio())
		assert.Equal(t, 0.0, filter.EstimatedFalsePositiveRate())
		for i := uint64(0); i < 1000; i++ {
			assert.False(t, filter.MaybeContains(i))
		}
	}

	filter.Clear()
	empty()

	for i := uint64(0); i < 500; i++ {
		require.NoError(t, filter.Add(i))
	}
	assert.Greater(t, filter.FillRatio(), 0.0)
	filter.Clear()
	empty()
	filter.Clear()
	empty()

	require.NoError(t, filter.Add(7))
	assert.True(t, filter.MaybeContains(7))
	assert.Equal(t, 1, filter.Size())
}

func TestCapacityExhausted(t *testing.T) {
	hashers := map[string]Hasher[int]{
		"distinct":  func(v int) int32 { return HashUint64(uint64(v)) },
		"colliding": func(int) int32 { return 7 },
	}
	for name, hash := range hashers {
		filter, err := New(4, 2, hash)
		require.NoError(t, err)
		require.Equal(t, uint32(8), filter.M())

		for i := 0; i < int(filter.M()); i++ {
			require.NoError(t, filter.Add(i), name)
		}
		assert.ErrorIs(t, filter.Add(100), ErrCapacityExhausted, name)
		assert.Equal(t, 8, filter.Size(), name)

		filter.Clear()
		assert.NoError(t, filter.Add(100), name)
	}
}

func TestCapacityExhaustedLeavesBitsUntouched(t *testing.T) {
	filter, err := New(1, 2, HashString)
	require.NoError(t, err)
	require.NoError(t, filter.Add("a"))
	require.NoError(t, filter.Add("a"))
	before := filter.bits.Count()
	assert.ErrorIs(t, filter.Add("b"), ErrCapacityExhausted)
	assert.Equal(t, before, filter.bits.Count())
}

func TestDuplicatesCount(t *testing.T) {
	filter, err := New(10, DefaultBitsPerValue, HashString)
	require.NoError(t, err)
	require.NoError(t, filter.Add("x"))
	fill := filter.FillRatio()
	require.NoError(t, filter.Add("x"))
	assert.Equal(t, 2, filter.Size())
	assert.Equal(t, fill, filter.FillRatio())
}

func TestNewErrors(t *testing.T) {
	_, err := New[string](10, 10, nil)
	assert.ErrorIs(t, err, ErrNilHasher)
	_, err = New(0, 10, HashString)
	assert.ErrorIs(t, err, ErrBadCapacity)
	_, err = New(10, 0, HashString)
	assert.ErrorIs(t, err, ErrBadBitsPerValue)
	_, err = newFilter(Params{M: 1000, K: 3, Strategy: Masked}, HashString)
	assert.Error(t, err)
}

func TestNewComparable(t *testing.T) {
	type point struct{ x, y int }
	filter, err := NewComparable[point](100, DefaultBitsPerValue)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, filter.Add(point{i, -i}))
	}
	for i := 0; i < 100; i++ {
		assert.True(t, filter.MaybeContains(point{i, -i}))
	}
}

func TestFalsePositiveRateMatchesEstimate(t *testing.T) {
	const n = 10000
	filter, err := New(n, DefaultBitsPerValue, HashUint64)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, filter.Add(splitmix64(&rng)))
	}
	falsesize := 1000000
	matches := 0
	for i := 0; i < falsesize; i++ {
		if filter.MaybeContains(splitmix64(&rng)) {
			matches++
		}
	}
	fpp := float64(matches) / float64(falsesize)
	est := filter.EstimatedFalsePositiveRate()
	assert.InDelta(t, 0.0084, est, 0.0005)
	assert.Less(t, fpp, 2*est)
}

func TestAllocationFree(t *testing.T) {
	filter, err := New(1<<16, 8, HashUint64)
	require.NoError(t, err)
	var i uint64
	allocs := testing.AllocsPerRun(1000, func() {
		i++
		_ = filter.Add(i)
		filter.MaybeContains(i)
	})
	assert.Equal(t, 0.0, allocs)
}

func BenchmarkAddMasked(b *testing.B) {
	benchmarkAdd(b, 1<<20, 8)
}

func BenchmarkAddModulo(b *testing.B) {
	benchmarkAdd(b, 1000000, 8)
}

func benchmarkAdd(b *testing.B, capacity, bitsPerValue int) {
	filter, _ := New(capacity, bitsPerValue, HashUint64)
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if filter.Add(uint64(n)) != nil {
			filter.Clear()
		}
	}
}

func BenchmarkMaybeContains100000(b *testing.B) {
	testsize := 100000
	keys := make([]uint64, testsize)
	filter, _ := New(testsize, DefaultBitsPerValue, HashUint64)
	for i := range keys {
		keys[i] = splitmix64(&rng)
		filter.Add(keys[i])
	}

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		filter.MaybeContains(keys[n%len(keys)])
	}
}
