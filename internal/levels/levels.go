// Package levels loads and validates the runner's level definitions.
// Levels are immutable once loaded; the game copies what it mutates.
package levels

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrInvalidLevel is wrapped by every validation failure.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrNotFound is returned when a lookup names no loaded level.
	ErrNotFound = errors.New("level not found")
)

// SpikeDef is an authored spike: base-left at (X, ground), W wide and H tall.
type SpikeDef struct {
	X, W, H float64
}

// FX toggles cosmetic layers.
type FX struct {
	Parallax  bool
	Particles bool
	Glow      bool
}

// Level represents a complete level definition.
type Level struct {
	ID        string
	Name      string
	Year      int
	BPM       float64
	Music     string // file name relative to the level file, may be empty
	Color     string // #rrggbb
	Narrative []string
	Spikes    []SpikeDef // sorted by X
	Goal      *float64   // world x of the finish line; nil for endless
	FX        FX
	FilePath  string // empty for embedded levels
}

// SecondsPerBeat returns the beat period.
func (l *Level) SecondsPerBeat() float64 {
	return 60 / l.BPM
}

// Endless reports whether the level has no goal.
func (l *Level) Endless() bool {
	return l.Goal == nil
}

// MusicPath resolves the music reference next to the level file.
// Returns empty for embedded levels or levels without music.
func (l *Level) MusicPath() string {
	if l.Music == "" || l.FilePath == "" {
		return ""
	}
	if filepath.IsAbs(l.Music) {
		return l.Music
	}
	return filepath.Join(filepath.Dir(l.FilePath), l.Music)
}

// Line returns the narrative line at cursor, wrapping.
func (l *Level) Line(cursor int) string {
	n := len(l.Narrative)
	if n == 0 {
		return ""
	}
	cursor %= n
	if cursor < 0 {
		cursor += n
	}
	return l.Narrative[cursor]
}

// Validate checks the level for values the simulation cannot run with.
func (l *Level) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("levels: %s: %w: %s", l.label(), ErrInvalidLevel, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(l.ID) == "" {
		return fail("missing id")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fail("missing name")
	}
	if !(l.BPM > 0) || l.BPM > 600 || math.IsInf(l.BPM, 0) {
		return fail("bpm %v out of range (0, 600]", l.BPM)
	}
	if _, ok := ParseHexColor(l.Color); !ok {
		return fail("color %q is not #rrggbb", l.Color)
	}
	if len(l.Narrative) == 0 {
		return fail("narrative needs at least one line")
	}
	for i, s := range l.Spikes {
		if math.IsNaN(s.X) || math.IsInf(s.X, 0) {
			return fail("spike %d has non-finite x", i)
		}
		if s.W < 0 || s.H < 0 || math.IsNaN(s.W) || math.IsNaN(s.H) {
			return fail("spike %d has negative or NaN size %vx%v", i, s.W, s.H)
		}
	}
	if l.Goal != nil && (!(*l.Goal > 0) || math.IsInf(*l.Goal, 0)) {
		return fail("goal %v must be positive", *l.Goal)
	}
	return nil
}

func (l *Level) label() string {
	if l.ID != "" {
		return l.ID
	}
	if l.FilePath != "" {
		return l.FilePath
	}
	return "<unnamed>"
}

// ParseHexColor parses "#rrggbb" into r, g, b.
func ParseHexColor(s string) ([3]uint8, bool) {
	var rgb [3]uint8
	if len(s) != 7 || s[0] != '#' {
		return rgb, false
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return rgb, false
		}
		rgb[i] = uint8(v)
	}
	return rgb, true
}
