package bloomfilter

import (
	"fmt"
	"math"
)

// FalsePositiveRate returns the classical estimate (1 - e^(-kn/m))^k of
// the false-positive probability after n insertions.
func (p Params) FalsePositiveRate(n int) float64 {
	if n <= 0 || p.M == 0 {
		return 0
	}
	k := float64(p.K)
	return math.Pow(1-math.Exp(-k*float64(n)/float64(p.M)), k)
}

// Capacity is the number of insertions a filter with these parameters
// accepts before Add returns ErrCapacityExhausted.
func (p Params) Capacity() int {
	return int(p.M)
}

func (p Params) String() string {
	return fmt.Sprintf("m=%d k=%d strategy=%s", p.M, p.K, p.Strategy)
}
