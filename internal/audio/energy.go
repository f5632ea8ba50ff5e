package audio

import (
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"
)

// EnergyTap passes audio through unchanged while measuring the RMS level of
// its low-frequency band. Stream runs on the speaker goroutine; Energy may be
// read from any goroutine.
type EnergyTap struct {
	Streamer beep.Streamer

	alpha float64
	lp    float64
	level atomic.Uint64 // math.Float64bits of the last RMS
}

// NewEnergyTap wraps s with a one-pole low-pass at cutoff Hz.
func NewEnergyTap(s beep.Streamer, sr beep.SampleRate, cutoff float64) *EnergyTap {
	return &EnergyTap{
		Streamer: s,
		alpha:    1 - math.Exp(-2*math.Pi*cutoff/float64(sr)),
	}
}

// Stream implements beep.Streamer.
func (e *EnergyTap) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.Streamer.Stream(samples)
	if n == 0 {
		return n, ok
	}
	var acc float64
	for i := 0; i < n; i++ {
		mono := (samples[i][0] + samples[i][1]) / 2
		e.lp += e.alpha * (mono - e.lp)
		acc += e.lp * e.lp
	}
	e.level.Store(math.Float64bits(math.Sqrt(acc / float64(n))))
	return n, ok
}

// Err implements beep.Streamer.
func (e *EnergyTap) Err() error {
	return e.Streamer.Err()
}

// Energy returns the most recent low-band RMS, roughly in [0, 1].
func (e *EnergyTap) Energy() float64 {
	return math.Float64frombits(e.level.Load())
}
