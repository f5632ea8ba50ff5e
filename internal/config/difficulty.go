package config

import "math"

// Ramp calculates per-level run parameters from the level index.
// Level 0 runs at the configured base speed; later levels add SpeedStep each.
type Ramp struct {
	cfg    DifficultyConfig
	base   float64
	trail  float64
	tstep  float64
	factor float64
}

// NewRamp creates a ramp from the loaded configuration.
func NewRamp(cfg SpikebeatConfig) *Ramp {
	factor := cfg.Difficulty.SpeedFactor
	if factor <= 0 {
		factor = 1
	}
	return &Ramp{
		cfg:    cfg.Difficulty,
		base:   cfg.Physics.RunSpeed,
		trail:  cfg.FX.TrailCooldown,
		tstep:  cfg.FX.TrailCooldownStep,
		factor: factor,
	}
}

// SetEnabled enables or disables per-level progression.
func (r *Ramp) SetEnabled(enabled bool) {
	r.cfg.Enabled = enabled
}

// IsEnabled returns whether per-level progression is active.
func (r *Ramp) IsEnabled() bool {
	return r.cfg.Enabled
}

// step returns the effective ramp step for a level index.
func (r *Ramp) step(index int) float64 {
	if !r.cfg.Enabled || index < 0 {
		return 0
	}
	return float64(index)
}

// Speed returns the horizontal run speed for a level index in px/s.
func (r *Ramp) Speed(index int) float64 {
	return (r.base + r.step(index)*r.cfg.SpeedStep) * r.factor
}

// TrailCooldown returns the seconds between trail particles for a level index.
// Faster levels emit denser trails, floored at MinTrailPeriod.
func (r *Ramp) TrailCooldown(index int) float64 {
	v := r.trail - r.step(index)*r.tstep
	return math.Max(v, math.Max(r.cfg.MinTrailPeriod, 0.001))
}
