package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDir is the per-user directory holding configs, levels and the run history.
const AppDir = ".spikebeat"

// LoadSpikebeat loads runner configuration.
// Search order: customPath -> ~/.spikebeat/configs/spikebeat.yaml -> ./configs/spikebeat.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the keys it names.
func LoadSpikebeat(customPath string) (SpikebeatConfig, error) {
	cfg := DefaultSpikebeatConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := UserPath("configs", "spikebeat.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = DefaultSpikebeatConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/spikebeat.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = DefaultSpikebeatConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultSpikebeatYAML, &cfg); err != nil {
		return DefaultSpikebeatConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// UserPath joins elems under ~/.spikebeat, or returns empty if home is unavailable.
func UserPath(elems ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, AppDir}, elems...)...)
}

// Validate rejects values the simulation cannot run with.
func (c SpikebeatConfig) Validate() error {
	switch {
	case c.Physics.Gravity <= 0:
		return fmt.Errorf("config: physics.gravity must be positive, got %v", c.Physics.Gravity)
	case c.Physics.JumpVelocity >= 0:
		return fmt.Errorf("config: physics.jump_velocity must be negative (up), got %v", c.Physics.JumpVelocity)
	case c.Physics.MaxStep <= 0:
		return fmt.Errorf("config: physics.max_step must be positive, got %v", c.Physics.MaxStep)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("config: player size must be positive, got %vx%v", c.Player.Width, c.Player.Height)
	case c.Viewport.Width <= 0 || c.Viewport.GroundY() <= c.Player.Height:
		return fmt.Errorf("config: viewport leaves no room above the ground")
	case c.Camera.Mode != CameraSmooth && c.Camera.Mode != CameraScroll:
		return fmt.Errorf("config: unknown camera.mode %q", c.Camera.Mode)
	case c.Spawn.MinSpacing < 0:
		return fmt.Errorf("config: spawn.min_spacing must not be negative, got %v", c.Spawn.MinSpacing)
	}
	return nil
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *SpikebeatConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
	}
	cfg.Difficulty.SpeedFactor = SpeedFactorForPreset(preset)

	// Adjust forgiveness based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Spawn.MinSpacing = 120
		cfg.Spawn.Jitter = 160
	case DifficultyHard:
		cfg.Spawn.MinSpacing = 80
		cfg.Collision.Policy = "aabb"
	}
}
