package reduce

import (
	"math"
	"math/rand"
)

// MaxValue returns the largest value the input generator may produce for
// an array of n elements. The bound guarantees that the true sum of any
// generated array fits in 32 bits: MaxValue(n) * n <= math.MaxUint32.
func MaxValue(n int) uint32 {
	if n <= 0 {
		return math.MaxUint32
	}
	return uint32(uint64(math.MaxUint32) / uint64(n))
}

// GenerateInput produces n elements drawn uniformly from
// [0, MaxValue(n)] using a deterministic seeded source. The same seed
// and n always produce the same sequence.
func GenerateInput(seed int64, n int) []uint32 {
	as := make([]uint32, n)
	if n == 0 {
		return as
	}
	r := rand.New(rand.NewSource(seed))
	bound := int64(MaxValue(n)) + 1
	for i := range as {
		as[i] = uint32(r.Int63n(bound))
	}
	return as
}
