// Package config provides YAML-based game configuration loading and
// per-level difficulty ramping for the runner.
package config

// SpikebeatConfig contains all tuning for the rhythm runner.
type SpikebeatConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Player     PlayerConfig     `yaml:"player"`
	Viewport   ViewportConfig   `yaml:"viewport"`
	Camera     CameraConfig     `yaml:"camera"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Collision  CollisionConfig  `yaml:"collision"`
	FX         FXConfig         `yaml:"fx"`
	Run        RunConfig        `yaml:"run"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines player kinematics in pixels and seconds.
type PhysicsConfig struct {
	Gravity          float64 `yaml:"gravity"`           // px/s^2
	JumpVelocity     float64 `yaml:"jump_velocity"`     // px/s, negative is up
	MaxStep          float64 `yaml:"max_step"`          // largest dt integrated per frame
	RunSpeed         float64 `yaml:"run_speed"`         // px/s on the first level
	KnockbackDamping float64 `yaml:"knockback_damping"` // horizontal velocity factor at death
	KnockbackPop     float64 `yaml:"knockback_pop"`     // vertical velocity set at death
}

// PlayerConfig defines the player's spawn pose.
type PlayerConfig struct {
	SpawnX float64 `yaml:"spawn_x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ViewportConfig defines the world-space view the camera frames.
type ViewportConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundOffset float64 `yaml:"ground_offset"` // distance from the bottom edge to the ground line
}

// GroundY returns the world y of the ground line.
func (v ViewportConfig) GroundY() float64 {
	return v.Height - v.GroundOffset
}

// CameraMode selects how the camera follows the run.
type CameraMode string

const (
	CameraSmooth CameraMode = "smooth" // exponential smoothing toward the player
	CameraScroll CameraMode = "scroll" // fixed-rate scroll, independent of the player
)

// CameraConfig defines camera behaviour.
type CameraConfig struct {
	Mode           CameraMode `yaml:"mode"`
	Smoothing      float64    `yaml:"smoothing"`       // per-tick blend factor toward the target
	OffsetFraction float64    `yaml:"offset_fraction"` // player bias from the left edge, fraction of viewport
	ScrollSpeed    float64    `yaml:"scroll_speed"`    // px/s; 0 means the level's run speed
}

// SpawnConfig defines beat-synchronized procedural spikes.
type SpawnConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Lookahead    float64 `yaml:"lookahead"`     // seconds of beats scheduled ahead of the clock
	LeadDistance float64 `yaml:"lead_distance"` // px ahead of the player
	Jitter       float64 `yaml:"jitter"`        // random extra px
	MinSpacing   float64 `yaml:"min_spacing"`   // px between kept procedural spikes
	CullDistance float64 `yaml:"cull_distance"` // px behind the player before removal
	SpikeWidth   float64 `yaml:"spike_width"`
	SpikeHeight  float64 `yaml:"spike_height"`
}

// CollisionConfig defines the rectangle-vs-spike policy.
type CollisionConfig struct {
	Policy      string  `yaml:"policy"` // "sampled" or "aabb"
	EdgeSamples int     `yaml:"edge_samples"`
	LeadSamples int     `yaml:"lead_samples"`
	Tolerance   float64 `yaml:"tolerance"`
}

// FXConfig defines the cosmetic particle and pulse layer.
type FXConfig struct {
	Particles         bool    `yaml:"particles"`
	MaxParticles      int     `yaml:"max_particles"`
	ParticleGravity   float64 `yaml:"particle_gravity"`
	TrailCooldown     float64 `yaml:"trail_cooldown"`
	TrailCooldownStep float64 `yaml:"trail_cooldown_step"` // reduction per level index
	TrailLife         float64 `yaml:"trail_life"`
	JumpBurst         int     `yaml:"jump_burst"`
	DeathBurst        int     `yaml:"death_burst"`
	BurstSpeed        float64 `yaml:"burst_speed"`
	Glow              bool    `yaml:"glow"`
	PulseSmoothing    float64 `yaml:"pulse_smoothing"` // EMA factor
}

// RunConfig defines state machine timing.
type RunConfig struct {
	CompleteDelay float64 `yaml:"complete_delay"` // seconds on the success screen before home
}

// DifficultyConfig defines how levels ramp up.
type DifficultyConfig struct {
	Enabled        bool    `yaml:"enabled"`
	SpeedStep      float64 `yaml:"speed_step"`       // px/s added per level index
	SpeedFactor    float64 `yaml:"speed_factor"`     // overall multiplier from the preset
	MinTrailPeriod float64 `yaml:"min_trail_period"` // floor for the trail cooldown
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// SpeedFactorForPreset returns the run speed multiplier for a preset.
func SpeedFactorForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.85
	case DifficultyHard:
		return 1.2
	default:
		return 1.0
	}
}

// IsFixedPreset returns true if the preset disables per-level ramping.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset maps a CLI string to a preset. Unknown values return "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}
