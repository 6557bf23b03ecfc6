// Package bench drives the benchmark: it times each summation strategy
// over a fixed number of trials, validates every trial against the
// reference oracle, and aggregates the timing statistics.
package bench

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// LapTimer measures a sequence of wall-clock laps. NextLap records the
// elapsed seconds since construction or the previous lap.
type LapTimer struct {
	last time.Time
	laps []float64
}

func NewLapTimer() *LapTimer {
	return &LapTimer{last: time.Now()}
}

func (t *LapTimer) NextLap() {
	now := time.Now()
	t.laps = append(t.laps, now.Sub(t.last).Seconds())
	t.last = now
}

// LapAvg returns the mean lap time in seconds, 0 with no laps.
func (t *LapTimer) LapAvg() float64 {
	if len(t.laps) == 0 {
		return 0
	}
	return stat.Mean(t.laps, nil)
}

// LapStd returns the sample standard deviation of the lap times in
// seconds, 0 with fewer than two laps.
func (t *LapTimer) LapStd() float64 {
	if len(t.laps) < 2 {
		return 0
	}
	return stat.StdDev(t.laps, nil)
}
