package bench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLapTimer_Empty(t *testing.T) {
	lt := NewLapTimer()
	assert.Equal(t, 0.0, lt.LapAvg())
	assert.Equal(t, 0.0, lt.LapStd())
}

func TestLapTimer_SingleLapStdIsZero(t *testing.T) {
	lt := &LapTimer{laps: []float64{0.5}}
	assert.Equal(t, 0.5, lt.LapAvg())
	assert.Equal(t, 0.0, lt.LapStd())
}

func TestLapTimer_Statistics(t *testing.T) {
	lt := &LapTimer{laps: []float64{1, 2, 3, 4}}
	assert.InDelta(t, 2.5, lt.LapAvg(), 1e-12)
	// Sample standard deviation of {1,2,3,4}.
	assert.InDelta(t, math.Sqrt(5.0/3.0), lt.LapStd(), 1e-12)
}

func TestLapTimer_RecordsLaps(t *testing.T) {
	lt := NewLapTimer()
	for i := 0; i < 3; i++ {
		lt.NextLap()
	}
	assert.Len(t, lt.laps, 3)
	for _, lap := range lt.laps {
		assert.GreaterOrEqual(t, lap, 0.0)
	}
}
