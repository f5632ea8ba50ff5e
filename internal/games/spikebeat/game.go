// Package spikebeat implements a rhythm runner: a block auto-runs to the
// music while spikes spawn on every beat.
package spikebeat

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spikebeat/internal/audio"
	"github.com/vovakirdan/spikebeat/internal/config"
	"github.com/vovakirdan/spikebeat/internal/core"
	"github.com/vovakirdan/spikebeat/internal/levels"
	"github.com/vovakirdan/spikebeat/internal/registry"
)

// metronomeLength bounds click tracks generated for levels without music.
const metronomeLength = 10 * time.Minute

// Game adapts a Driver to the registry's fixed-tick interface.
type Game struct {
	id      string
	title   string
	endless bool

	driver  *Driver
	frame   *Frame
	runtime core.RuntimeConfig
}

// Settings shared by every instance, set from the CLI before Reset.
var (
	configPath       string
	levelsDir        string
	difficultyPreset config.DifficultyPreset
	startLevel       = -1
	audioEnabled     bool
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetLevelsDir sets a directory of level files overriding the built-ins.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetDifficultyPreset sets the difficulty preset. Unknown names use the config default.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetStartLevel makes Reset start the level at index immediately;
// a negative index opens the level select screen.
func SetStartLevel(index int) {
	startLevel = index
}

// SetAudio enables speaker output. When disabled every level runs on a silent clock.
func SetAudio(enabled bool) {
	audioEnabled = enabled
}

// SetLogger sets the logger used by new runs.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// New creates the standard mode: smooth camera, levels end at their goal.
func New() *Game {
	return &Game{id: "spikebeat", title: "Spikebeat"}
}

// NewEndless creates the endless mode: the camera scrolls at run speed and
// levels never end on distance.
func NewEndless() *Game {
	return &Game{id: "spikebeat_endless", title: "Spikebeat Endless", endless: true}
}

// ID returns the unique identifier for this mode.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	return g.title
}

// Reset loads config and levels and builds a fresh run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.Close()
	g.runtime = runtime

	cfg, err := config.LoadSpikebeat(configPath)
	if err != nil {
		logger.Warn("using default config", "error", err)
		cfg = config.DefaultSpikebeatConfig()
	}
	config.ApplyPreset(&cfg, difficultyPreset)
	if g.endless {
		cfg.Camera.Mode = config.CameraScroll
	}

	lvls, err := levels.Load(levelsDir)
	if err != nil {
		logger.Error("could not load levels, using built-ins", "dir", levelsDir, "error", err)
		lvls, err = levels.NewEmbeddedLoader().LoadAll()
		if err != nil {
			logger.Fatal("built-in levels are broken", "error", err)
		}
	}

	opts := Options{
		Config:     cfg,
		Levels:     lvls,
		Seed:       runtime.Seed,
		Endless:    g.endless,
		Transports: SilentTransports,
		Logger:     logger,
	}
	if audioEnabled {
		opts.Transports = speakerTransports
	}

	g.driver, err = NewDriver(opts)
	if err != nil {
		logger.Warn("invalid config, using defaults", "error", err)
		opts.Config = config.DefaultSpikebeatConfig()
		g.driver, _ = NewDriver(opts)
	}

	if startLevel >= 0 {
		g.driver.Run().Start(startLevel)
	}
	g.frame = g.driver.Snapshot()
}

// speakerTransports plays the level's music file, or a click track at the
// level's tempo when it has none.
func speakerTransports(lvl *levels.Level) audio.Transport {
	if path := lvl.MusicPath(); path != "" {
		p, err := audio.OpenFile(path)
		if err == nil {
			return p
		}
		logger.Warn("music unavailable, using metronome", "level", lvl.ID, "error", err)
	}
	return audio.NewMetronomePlayer(lvl.BPM, metronomeLength)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.frame = g.driver.Frame(g.runtime.TickSeconds(), in)
	return core.StepResult{
		State:    g.State(),
		Outcomes: g.driver.Run().DrainOutcomes(),
	}
}

// Render draws the current frame to the screen.
func (g *Game) Render(dst *core.Screen) {
	if g.frame == nil {
		dst.Clear()
		return
	}
	RenderFrame(dst, g.frame)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.frame == nil {
		return core.GameState{Phase: StateHome.String()}
	}
	return core.GameState{
		Score:    g.frame.HUD.Progress,
		GameOver: g.frame.State == StateDead || g.frame.State == StateComplete,
		Phase:    g.frame.State.String(),
	}
}

// Close stops and releases the music.
func (g *Game) Close() {
	if g.driver != nil {
		g.driver.Run().Close()
	}
}

// Driver exposes the frame driver for headless hosts.
func (g *Game) Driver() *Driver {
	return g.driver
}

// Register the modes with the registry
func init() {
	registry.Register("spikebeat", func() registry.Game {
		return New()
	})
	registry.Register("spikebeat_endless", func() registry.Game {
		return NewEndless()
	})
}
