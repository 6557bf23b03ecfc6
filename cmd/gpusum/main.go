// gpusum benchmarks strategies for summing a large uint32 array:
// sequential CPU, fork-join CPU, and six OCCA reduction kernels. Every
// trial is validated against a reference sum; any mismatch or kernel
// failure aborts the run.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/parprog/gpusum/bench"
	"github.com/parprog/gpusum/reduce"
	"github.com/parprog/gpusum/utils"
)

func main() {
	deviceSpec := flag.String("device", "",
		"device mode spec: cuda[:id], opencl[:platform[:id]], openmp, serial (default: auto)")
	n := flag.Int("n", 100*1000*1000, "number of elements to sum")
	seed := flag.Int64("seed", 42, "input generator seed")
	trials := flag.Int("trials", 10, "timed trials per strategy")
	workers := flag.Int("workers", 0, "CPU parallel workers (0 = GOMAXPROCS)")
	flag.Parse()

	input := reduce.GenerateInput(*seed, *n)

	device, err := utils.ChooseDevice(*deviceSpec)
	if err != nil {
		log.Fatal(err)
	}
	defer device.Free()
	log.Printf("Using %s device", device.Mode())

	runner, err := bench.NewRunner(device, input, *trials)
	if err != nil {
		log.Fatal(err)
	}
	defer runner.Free()

	if err := runner.RunAll(os.Stdout, *workers); err != nil {
		log.Fatal(err)
	}
}
