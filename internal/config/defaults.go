package config

import (
	_ "embed"
)

//go:embed defaults/spikebeat.yaml
var defaultSpikebeatYAML []byte

// DefaultSpikebeatConfig returns the hardcoded default configuration.
// It mirrors defaults/spikebeat.yaml and is used if the embedded file cannot be parsed.
func DefaultSpikebeatConfig() SpikebeatConfig {
	return SpikebeatConfig{
		Physics: PhysicsConfig{
			Gravity:          2200,
			JumpVelocity:     -900,
			MaxStep:          1.0 / 30.0,
			RunSpeed:         300,
			KnockbackDamping: 0.4,
			KnockbackPop:     -300,
		},
		Player: PlayerConfig{
			SpawnX: 120,
			Width:  48,
			Height: 48,
		},
		Viewport: ViewportConfig{
			Width:        960,
			Height:       540,
			GroundOffset: 120,
		},
		Camera: CameraConfig{
			Mode:           CameraSmooth,
			Smoothing:      0.12,
			OffsetFraction: 0.32,
		},
		Spawn: SpawnConfig{
			Enabled:      true,
			Lookahead:    0.02,
			LeadDistance: 520,
			Jitter:       120,
			MinSpacing:   80,
			CullDistance: 800,
			SpikeWidth:   40,
			SpikeHeight:  40,
		},
		Collision: CollisionConfig{
			Policy:      "sampled",
			EdgeSamples: 5,
			LeadSamples: 3,
			Tolerance:   1e-6,
		},
		FX: FXConfig{
			Particles:         true,
			MaxParticles:      512,
			ParticleGravity:   300,
			TrailCooldown:     0.035,
			TrailCooldownStep: 0.003,
			TrailLife:         0.6,
			JumpBurst:         8,
			DeathBurst:        28,
			BurstSpeed:        400,
			Glow:              true,
			PulseSmoothing:    0.15,
		},
		Run: RunConfig{
			CompleteDelay: 2.0,
		},
		Difficulty: DifficultyConfig{
			Enabled:        true,
			SpeedStep:      30,
			SpeedFactor:    1.0,
			MinTrailPeriod: 0.01,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultSpikebeatYAML
}
