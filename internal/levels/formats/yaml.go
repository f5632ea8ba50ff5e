// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Year      int         `yaml:"year,omitempty"`
	BPM       float64     `yaml:"bpm"`
	Music     string      `yaml:"music,omitempty"`
	Color     string      `yaml:"color"`
	Goal      *float64    `yaml:"goal,omitempty"` // absent means endless
	Narrative []string    `yaml:"narrative"`
	Spikes    []YAMLSpike `yaml:"spikes,omitempty"`
	FX        *YAMLFX     `yaml:"fx,omitempty"`
}

// YAMLSpike represents a single authored spike. The base sits on the ground line.
type YAMLSpike struct {
	X float64 `yaml:"x"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// YAMLFX toggles cosmetic layers for a level.
type YAMLFX struct {
	Parallax  bool `yaml:"parallax"`
	Particles bool `yaml:"particles"`
	Glow      bool `yaml:"glow"`
}

// ParseYAML parses a YAML level file.
// Missing fx defaults to everything on.
func ParseYAML(data []byte) (YAMLLevel, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return YAMLLevel{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.FX == nil {
		yl.FX = &YAMLFX{Parallax: true, Particles: true, Glow: true}
	}
	return yl, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
