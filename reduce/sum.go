// Package reduce provides the host-side summation strategies and the
// reference oracle the benchmark validates against. All strategies use
// native wraparound uint32 addition, so they agree bit-for-bit
// regardless of accumulation order.
package reduce

import (
	"runtime"
	"sync"
)

// Oracle computes the reference sum by sequential accumulation. It is
// computed once per run; every other strategy is compared against it.
func Oracle(as []uint32) uint32 {
	var sum uint32
	for _, v := range as {
		sum += v
	}
	return sum
}

// SumSequential is the single-threaded CPU strategy. It is identical to
// the oracle and must reproduce it exactly every trial.
func SumSequential(as []uint32) uint32 {
	var sum uint32
	for _, v := range as {
		sum += v
	}
	return sum
}

// SumParallel sums the array with a fork-join pool of worker
// goroutines. Each worker owns a contiguous chunk and a private
// accumulator; partials are combined after the join, so the shared
// result is never written concurrently. workers <= 0 selects
// GOMAXPROCS.
func SumParallel(as []uint32, workers int) uint32 {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if len(as) == 0 {
		return 0
	}
	if workers > len(as) {
		workers = len(as)
	}

	partials := make([]uint32, workers)
	chunk := (len(as) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(as) {
			hi = len(as)
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			var sum uint32
			for _, v := range as[lo:hi] {
				sum += v
			}
			partials[w] = sum
		}(w, lo, hi)
	}
	wg.Wait()

	var sum uint32
	for _, p := range partials {
		sum += p
	}
	return sum
}
