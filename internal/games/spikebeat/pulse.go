package spikebeat

import "math"

// energyGain maps typical low-band RMS levels onto [0, 1].
const energyGain = 3.0

// Pulse is the cosmetic glow intensity. It follows the music's low-band
// energy when the transport reports one and a decaying beat envelope
// otherwise. Nothing in the simulation reads it.
type Pulse struct {
	Value     float64
	smoothing float64
	disabled  bool
}

// NewPulse creates a pulse with the given EMA factor.
func NewPulse(smoothing float64) *Pulse {
	return &Pulse{smoothing: clamp01(smoothing)}
}

// Reset zeroes the pulse and re-enables it.
func (p *Pulse) Reset() {
	p.Value = 0
	p.disabled = false
}

// UpdateEnergy feeds one energy sample through the moving average.
// A non-finite sample disables the pulse until Reset.
func (p *Pulse) UpdateEnergy(sample float64) {
	if p.disabled {
		return
	}
	if math.IsNaN(sample) || math.IsInf(sample, 0) {
		p.disabled = true
		p.Value = 0
		return
	}
	p.Value += (clamp01(sample*energyGain) - p.Value) * p.smoothing
}

// UpdatePhase sets the pulse from the position inside the current beat.
func (p *Pulse) UpdatePhase(phase float64) {
	if p.disabled {
		return
	}
	p.Value = math.Exp(-clamp01(phase) * 6)
}

// Disabled reports whether a bad sample switched the pulse off.
func (p *Pulse) Disabled() bool {
	return p.disabled
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
