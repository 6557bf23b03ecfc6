package kernels

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariants_ClosedSet(t *testing.T) {
	vs := Variants()
	require.Len(t, vs, 6)

	expected := []string{
		"sum_dummy",
		"sum_global_atomic",
		"sum_loop",
		"sum_loop_coalesced",
		"sum_local_memory",
		"sum_tree",
	}
	for i, v := range vs {
		assert.Equal(t, expected[i], v.Name())
	}
}

func TestVariant_SourceDeclaresName(t *testing.T) {
	for _, v := range Variants() {
		t.Run(v.Name(), func(t *testing.T) {
			src := v.source()
			assert.Contains(t, src, "@kernel void "+v.Name()+"(")
			assert.Contains(t, src, "@outer")
			assert.Contains(t, src, "@inner")
		})
	}
}

func TestVariant_StagedSourcesUseSharedMemory(t *testing.T) {
	for _, v := range []Variant{LocalMemory, Tree} {
		assert.Contains(t, v.source(), "@shared", v.Name())
	}
	for _, v := range []Variant{GlobalAtomic, LoopStrided, LoopCoalesced, LocalMemory, Tree} {
		assert.Contains(t, v.source(), "@atomic", v.Name())
	}
	assert.NotContains(t, Dummy.source(), "@atomic")
}

func TestGroupCount(t *testing.T) {
	testCases := []struct {
		name     string
		variant  Variant
		n        int
		expected int
	}{
		{"dummy_always_one", Dummy, 100000000, 1},
		{"dummy_empty", Dummy, 0, 1},
		{"atomic_empty", GlobalAtomic, 0, 1},
		{"atomic_one", GlobalAtomic, 1, 1},
		{"atomic_full_group", GlobalAtomic, 128, 1},
		{"atomic_group_plus_one", GlobalAtomic, 129, 2},
		{"tree_matches_atomic", Tree, 1000, 8},
		{"local_matches_atomic", LocalMemory, 1000, 8},
		{"loop_empty", LoopStrided, 0, 1},
		{"loop_one_span", LoopStrided, 128 * 64, 1},
		{"loop_span_plus_one", LoopStrided, 128*64 + 1, 2},
		{"loop_coalesced_same", LoopCoalesced, 128*64 + 1, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.variant.GroupCount(tc.n))
		})
	}
}

func TestGroupCount_CoversEveryElement(t *testing.T) {
	for _, n := range []int{0, 1, 127, 128, 129, 8191, 8192, 8193, 1000000} {
		for _, v := range Variants() {
			units := v.GroupCount(n) * GroupSize
			switch v {
			case Dummy:
				// One unit walks the whole array.
			case LoopStrided, LoopCoalesced:
				assert.GreaterOrEqual(t, units*ValuesPerUnit, n,
					"%s n=%d", v.Name(), n)
			default:
				assert.GreaterOrEqual(t, units, n, "%s n=%d", v.Name(), n)
			}
		}
	}
}

func TestPreamble_DefinesLaunchConstants(t *testing.T) {
	p := preamble()
	assert.Contains(t, p, "#define GROUP_SIZE 128")
	assert.Contains(t, p, "#define VALUES_PER_UNIT 64")
	assert.True(t, strings.HasSuffix(p, "\n"))
}
