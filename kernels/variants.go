// Package kernels holds the six OKL reduction kernels the benchmark
// compares. The set is a closed enumeration: each Variant carries its
// kernel source, its name for compilation, and its launch geometry.
package kernels

import (
	"fmt"

	"github.com/notargets/gocca"
)

const (
	// GroupSize is the number of execution units per work group. All
	// variants launch with this group size.
	GroupSize = 128

	// ValuesPerUnit is how many elements each unit accumulates in the
	// two loop variants.
	ValuesPerUnit = 64
)

// Variant identifies one reduction kernel.
type Variant int

const (
	// Dummy sums the whole array on a single execution unit.
	Dummy Variant = iota
	// GlobalAtomic has every unit add one element into the result
	// atomically.
	GlobalAtomic
	// LoopStrided gives each unit ValuesPerUnit elements spaced by the
	// total unit count, folded with one atomic per unit.
	LoopStrided
	// LoopCoalesced gives each group a contiguous block; per step the
	// group's units touch adjacent addresses.
	LoopCoalesced
	// LocalMemory stages each group's elements in shared scratch, then
	// one unit folds the group partial into the result.
	LocalMemory
	// Tree reduces each group's staged elements pairwise in halving
	// steps before a single atomic per group.
	Tree

	numVariants
)

// Variants returns all kernel variants in benchmark order.
func Variants() []Variant {
	vs := make([]Variant, numVariants)
	for i := range vs {
		vs[i] = Variant(i)
	}
	return vs
}

// Name returns the kernel function name used for compilation and
// reporting.
func (v Variant) Name() string {
	switch v {
	case Dummy:
		return "sum_dummy"
	case GlobalAtomic:
		return "sum_global_atomic"
	case LoopStrided:
		return "sum_loop"
	case LoopCoalesced:
		return "sum_loop_coalesced"
	case LocalMemory:
		return "sum_local_memory"
	case Tree:
		return "sum_tree"
	}
	return fmt.Sprintf("unknown_variant_%d", int(v))
}

// GroupCount returns the number of work groups to launch for n
// elements. Unit counts are rounded up to a multiple of GroupSize so
// every element index is covered; never zero so the outer loop always
// runs. Units past the live range are guarded inside the kernels.
func (v Variant) GroupCount(n int) int {
	switch v {
	case Dummy:
		return 1
	case LoopStrided, LoopCoalesced:
		return atLeastOne(divUp(divUp(n, ValuesPerUnit), GroupSize))
	default:
		return atLeastOne(divUp(n, GroupSize))
	}
}

// Build compiles the variant's kernel on the given device. A build
// failure is a configuration defect and is reported with the kernel's
// name.
func (v Variant) Build(device *gocca.OCCADevice) (*gocca.OCCAKernel, error) {
	source := preamble() + v.source()

	var kernel *gocca.OCCAKernel
	var err error
	if device.Mode() == "OpenMP" {
		// OCCA does not apply its default -O3 to OpenMP builds.
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = device.BuildKernelFromString(source, v.Name(), props)
	} else {
		kernel, err = device.BuildKernelFromString(source, v.Name(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", v.Name(), err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", v.Name())
	}
	return kernel, nil
}

func divUp(a, b int) int {
	return (a + b - 1) / b
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// preamble emits the compile-time constants shared by every kernel
// source.
func preamble() string {
	return fmt.Sprintf("#define GROUP_SIZE %d\n#define VALUES_PER_UNIT %d\n",
		GroupSize, ValuesPerUnit)
}

// source returns the OKL body for the variant. All kernels share one
// signature: (input, result, n, numGroups); numGroups doubles as the
// @outer loop bound since OCCA takes loop limits as runtime arguments.
func (v Variant) source() string {
	switch v {
	case Dummy:
		return `
@kernel void sum_dummy(const unsigned int *as,
                       unsigned int *result,
                       const int n,
                       const int numGroups) {
	for (int g = 0; g < numGroups; ++g; @outer) {
		for (int l = 0; l < GROUP_SIZE; ++l; @inner) {
			if (g == 0 && l == 0) {
				unsigned int sum = 0;
				for (int i = 0; i < n; ++i) {
					sum += as[i];
				}
				result[0] = sum;
			}
		}
	}
}`
	case GlobalAtomic:
		return `
@kernel void sum_global_atomic(const unsigned int *as,
                               unsigned int *result,
                               const int n,
                               const int numGroups) {
	for (int g = 0; g < numGroups; ++g; @outer) {
		for (int l = 0; l < GROUP_SIZE; ++l; @inner) {
			const int gid = g * GROUP_SIZE + l;
			if (gid < n) {
				@atomic result[0] += as[gid];
			}
		}
	}
}`
	case LoopStrided:
		return `
@kernel void sum_loop(const unsigned int *as,
                      unsigned int *result,
                      const int n,
                      const int numGroups) {
	for (int g = 0; g < numGroups; ++g; @outer) {
		for (int l = 0; l < GROUP_SIZE; ++l; @inner) {
			const int gid = g * GROUP_SIZE + l;
			const int total = numGroups * GROUP_SIZE;
			unsigned int sum = 0;
			for (int i = 0; i < VALUES_PER_UNIT; ++i) {
				const int idx = gid + i * total;
				if (idx < n) {
					sum += as[idx];
				}
			}
			@atomic result[0] += sum;
		}
	}
}`
	case LoopCoalesced:
		return `
@kernel void sum_loop_coalesced(const unsigned int *as,
                                unsigned int *result,
                                const int n,
                                const int numGroups) {
	for (int g = 0; g < numGroups; ++g; @outer) {
		for (int l = 0; l < GROUP_SIZE; ++l; @inner) {
			const int base = g * GROUP_SIZE * VALUES_PER_UNIT + l;
			unsigned int sum = 0;
			for (int i = 0; i < VALUES_PER_UNIT; ++i) {
				const int idx = base + i * GROUP_SIZE;
				if (idx < n) {
					sum += as[idx];
				}
			}
			@atomic result[0] += sum;
		}
	}
}`
	case LocalMemory:
		return `
@kernel void sum_local_memory(const unsigned int *as,
                              unsigned int *result,
                              const int n,
                              const int numGroups) {
	for (int g = 0; g < numGroups; ++g; @outer) {
		@shared unsigned int buf[GROUP_SIZE];
		for (int l = 0; l < GROUP_SIZE; ++l; @inner) {
			const int gid = g * GROUP_SIZE + l;
			buf[l] = (gid < n) ? as[gid] : 0;
		}
		for (int l = 0; l < GROUP_SIZE; ++l; @inner) {
			if (l == 0) {
				unsigned int sum = 0;
				for (int i = 0; i < GROUP_SIZE; ++i) {
					sum += buf[i];
				}
				@atomic result[0] += sum;
			}
		}
	}
}`
	case Tree:
		return `
@kernel void sum_tree(const unsigned int *as,
                      unsigned int *result,
                      const int n,
                      const int numGroups) {
	for (int g = 0; g < numGroups; ++g; @outer) {
		@shared unsigned int buf[GROUP_SIZE];
		for (int l = 0; l < GROUP_SIZE; ++l; @inner) {
			const int gid = g * GROUP_SIZE + l;
			buf[l] = (gid < n) ? as[gid] : 0;
		}
		for (int s = GROUP_SIZE / 2; s > 0; s /= 2) {
			for (int l = 0; l < GROUP_SIZE; ++l; @inner) {
				if (l < s) {
					buf[l] += buf[l + s];
				}
			}
		}
		for (int l = 0; l < GROUP_SIZE; ++l; @inner) {
			if (l == 0) {
				@atomic result[0] += buf[0];
			}
		}
	}
}`
	}
	return ""
}
