package bench

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/parprog/gpusum/kernels"
	"github.com/parprog/gpusum/reduce"
)

const uint32Size = 4

// Report holds the aggregated timing for one strategy.
type Report struct {
	Name           string
	MeanSec        float64
	StdSec         float64
	MillionsPerSec float64
}

func newReport(name string, t *LapTimer, n int) Report {
	r := Report{
		Name:    name,
		MeanSec: t.LapAvg(),
		StdSec:  t.LapStd(),
	}
	if r.MeanSec > 0 {
		r.MillionsPerSec = float64(n) / 1e6 / r.MeanSec
	}
	return r
}

// WriteReport prints the two report lines for one strategy: average
// time with standard deviation, then throughput.
func WriteReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "%s: %.6f+-%.6f s\n", r.Name, r.MeanSec, r.StdSec)
	fmt.Fprintf(w, "%s: %.2f millions/s\n", r.Name, r.MillionsPerSec)
}

// Runner owns the benchmark state: the immutable input array, its
// read-only device copy, the single-scalar result buffer, the oracle
// sum and the trial count. Strategies run strictly one at a time.
type Runner struct {
	device *gocca.OCCADevice
	input  []uint32
	oracle uint32
	trials int

	inputMem  *gocca.OCCAMemory
	resultMem *gocca.OCCAMemory
	built     map[kernels.Variant]*gocca.OCCAKernel
}

// NewRunner computes the oracle sum, uploads the input to the device
// and allocates the result buffer. The input must not be mutated for
// the Runner's lifetime.
func NewRunner(device *gocca.OCCADevice, input []uint32, trials int) (*Runner, error) {
	if device == nil {
		return nil, fmt.Errorf("nil device")
	}
	if trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", trials)
	}

	r := &Runner{
		device: device,
		input:  input,
		oracle: reduce.Oracle(input),
		trials: trials,
		built:  make(map[kernels.Variant]*gocca.OCCAKernel),
	}

	// One-element floor keeps the allocation non-empty for n = 0.
	count := len(input)
	if count == 0 {
		count = 1
	}
	r.inputMem = device.Malloc(int64(count*uint32Size), nil, nil)
	if len(input) > 0 {
		r.inputMem.CopyFrom(unsafe.Pointer(&input[0]), int64(len(input)*uint32Size))
	}
	r.resultMem = device.Malloc(uint32Size, nil, nil)
	return r, nil
}

// Oracle returns the reference sum all strategies are checked against.
func (r *Runner) Oracle() uint32 {
	return r.oracle
}

// Free releases all device resources.
func (r *Runner) Free() {
	for _, kernel := range r.built {
		kernel.Free()
	}
	r.inputMem.Free()
	r.resultMem.Free()
}

// RunSequential benchmarks the single-threaded CPU strategy.
func (r *Runner) RunSequential() (Report, error) {
	return r.runCPU("CPU", func() uint32 {
		return reduce.SumSequential(r.input)
	})
}

// RunParallel benchmarks the fork-join CPU strategy.
func (r *Runner) RunParallel(workers int) (Report, error) {
	return r.runCPU("CPU parallel", func() uint32 {
		return reduce.SumParallel(r.input, workers)
	})
}

func (r *Runner) runCPU(name string, sum func() uint32) (Report, error) {
	t := NewLapTimer()
	for trial := 0; trial < r.trials; trial++ {
		if err := r.expectOracle(name, sum()); err != nil {
			return Report{}, err
		}
		t.NextLap()
	}
	return newReport(name, t, len(r.input)), nil
}

// RunKernel benchmarks one accelerator variant. Each trial zeroes the
// result buffer, launches, blocks until completion, reads the scalar
// back and validates it.
func (r *Runner) RunKernel(v kernels.Variant) (Report, error) {
	kernel, err := r.kernel(v)
	if err != nil {
		return Report{}, err
	}

	n := len(r.input)
	groups := v.GroupCount(n)
	t := NewLapTimer()
	for trial := 0; trial < r.trials; trial++ {
		zero := uint32(0)
		r.resultMem.CopyFrom(unsafe.Pointer(&zero), uint32Size)

		if err := kernel.RunWithArgs(r.inputMem, r.resultMem, n, groups); err != nil {
			return Report{}, fmt.Errorf("failed to run kernel %s: %w", v.Name(), err)
		}
		r.device.Finish()

		var got uint32
		r.resultMem.CopyTo(unsafe.Pointer(&got), uint32Size)
		if err := r.expectOracle(v.Name(), got); err != nil {
			return Report{}, err
		}
		t.NextLap()
	}
	return newReport(v.Name(), t, n), nil
}

// RunAll executes every strategy in benchmark order and writes its
// report. The first failure aborts the remaining strategies.
func (r *Runner) RunAll(w io.Writer, workers int) error {
	rep, err := r.RunSequential()
	if err != nil {
		return err
	}
	WriteReport(w, rep)

	rep, err = r.RunParallel(workers)
	if err != nil {
		return err
	}
	WriteReport(w, rep)

	for _, v := range kernels.Variants() {
		rep, err := r.RunKernel(v)
		if err != nil {
			return err
		}
		WriteReport(w, rep)
	}
	return nil
}

func (r *Runner) kernel(v kernels.Variant) (*gocca.OCCAKernel, error) {
	if kernel, ok := r.built[v]; ok {
		return kernel, nil
	}
	kernel, err := v.Build(r.device)
	if err != nil {
		return nil, err
	}
	r.built[v] = kernel
	return kernel, nil
}

// expectOracle is the fatal verification check. A mismatch names the
// strategy, the detection site, the input size and both values.
func (r *Runner) expectOracle(name string, got uint32) error {
	if got == r.oracle {
		return nil
	}
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s result should be consistent! n=%d: expected %d, got %d (%s:%d)",
		name, len(r.input), r.oracle, got, filepath.Base(file), line)
}
