package spikebeat

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spikebeat/internal/audio"
	"github.com/vovakirdan/spikebeat/internal/config"
	"github.com/vovakirdan/spikebeat/internal/core"
	"github.com/vovakirdan/spikebeat/internal/levels"
)

// State is the run phase.
type State int

const (
	StateHome State = iota
	StatePlaying
	StateDead
	StateComplete
)

// String returns the phase name used in logs and run history.
func (s State) String() string {
	switch s {
	case StateHome:
		return "home"
	case StatePlaying:
		return "playing"
	case StateDead:
		return "dead"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// HUD status lines.
const (
	StatusPlaying  = "Good luck!"
	StatusDead     = "You hit a spike! Press R to retry."
	StatusComplete = "Level complete!"
)

// Outcome names recorded in run history.
const (
	OutcomeDead      = "dead"
	OutcomeComplete  = "complete"
	OutcomeAbandoned = "abandoned"
)

// TransportFactory returns the music transport for a level.
type TransportFactory func(lvl *levels.Level) audio.Transport

// SilentTransports gives every level an unbounded silent clock.
func SilentTransports(*levels.Level) audio.Transport {
	return audio.NewClock(0)
}

// Options configures a RunContext.
type Options struct {
	Config     config.SpikebeatConfig
	Levels     []levels.Level
	Seed       int64
	Endless    bool             // ignore goals; completion only by track end
	Transports TransportFactory // nil means SilentTransports
	Logger     *log.Logger      // nil means discard
}

// RunContext owns everything one player session mutates: the player, camera,
// obstacle field, beat clock, particles and counters.
type RunContext struct {
	cfg     config.SpikebeatConfig
	levels  []levels.Level
	groundY float64
	endless bool
	seed    int64
	log     *log.Logger

	index    int
	state    State
	player   Player
	camera   *Camera
	field    *ObstacleField
	beat     *BeatClock
	fx       *Particles
	pulse    *Pulse
	ramp     *config.Ramp
	hit      core.HitTest
	speed    float64
	fxOn     bool
	glowOn   bool
	attempts int         // deaths since the last start from home
	cursor   map[int]int // narrative cursor per level index, never reset
	status   string

	transport      audio.Transport
	transportLevel int
	newTransport   TransportFactory
	audioOK        bool

	simTime       float64 // seconds spent playing since the last load
	runTime       float64 // seconds since the context was created
	completeTimer float64
	trackEnded    bool // polled at frame start

	outcomes []core.RunOutcome
}

// NewRunContext validates options and returns a context sitting on the home screen.
func NewRunContext(opts Options) (*RunContext, error) {
	if len(opts.Levels) == 0 {
		return nil, fmt.Errorf("spikebeat: %w", levels.ErrNotFound)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	newTransport := opts.Transports
	if newTransport == nil {
		newTransport = SilentTransports
	}

	cfg := opts.Config
	groundY := cfg.Viewport.GroundY()
	r := &RunContext{
		cfg:            cfg,
		levels:         opts.Levels,
		groundY:        groundY,
		endless:        opts.Endless,
		seed:           opts.Seed,
		log:            logger,
		camera:         NewCamera(cfg.Camera, cfg.Viewport.Width),
		field:          NewObstacleField(opts.Seed, cfg.Spawn, groundY),
		beat:           NewBeatClock(opts.Levels[0].BPM, cfg.Spawn.Lookahead),
		fx:             NewParticles(cfg.FX.MaxParticles, cfg.FX.ParticleGravity, opts.Seed+1),
		pulse:          NewPulse(cfg.FX.PulseSmoothing),
		ramp:           config.NewRamp(cfg),
		cursor:         make(map[int]int),
		transportLevel: -1,
		newTransport:   newTransport,
		hit:            hitTestFor(cfg),
	}
	r.player = NewPlayer(cfg.Player, groundY, cfg.Physics.RunSpeed)
	return r, nil
}

func hitTestFor(cfg config.SpikebeatConfig) core.HitTest {
	return core.HitTest{
		Policy:      core.ParseHitPolicy(cfg.Collision.Policy),
		EdgeSamples: cfg.Collision.EdgeSamples,
		LeadSamples: cfg.Collision.LeadSamples,
		Tolerance:   cfg.Collision.Tolerance,
	}
}

// Level returns the selected level.
func (r *RunContext) Level() *levels.Level {
	return &r.levels[r.index]
}

// Select moves the home-screen selection, wrapping.
func (r *RunContext) Select(index int) {
	r.index = core.Wrap(index, len(r.levels))
}

// Start leaves home and plays the level at index (wrapped).
func (r *RunContext) Start(index int) {
	r.Select(index)
	r.attempts = 0
	r.load()
	r.log.Info("level started", "level", r.Level().ID, "bpm", r.Level().BPM, "speed", r.speed)
}

// Retry reloads the current level after a death, keeping the attempt counter
// and the narrative cursor.
func (r *RunContext) Retry() {
	if r.state != StateDead {
		return
	}
	r.load()
	r.log.Debug("retry", "level", r.Level().ID, "attempt", r.attempts+1)
}

// load runs the full level-load contract.
func (r *RunContext) load() {
	lvl := r.Level()

	r.stopTransport()

	r.speed = r.ramp.Speed(r.index)
	r.player = NewPlayer(r.cfg.Player, r.groundY, r.speed)
	r.camera.Reset()
	r.camera.SetScrollSpeed(r.scrollSpeed())
	r.field.Load(lvl.Spikes, r.loadSeed())
	r.beat.SetTempo(lvl.BPM)
	r.fx.Clear()
	r.pulse.Reset()
	r.fxOn = r.cfg.FX.Particles && lvl.FX.Particles
	r.glowOn = r.cfg.FX.Glow && lvl.FX.Glow
	r.simTime = 0
	r.trackEnded = false
	r.completeTimer = 0
	r.state = StatePlaying
	r.status = StatusPlaying

	r.startTransport()
}

// loadSeed derives the spawn RNG seed for this attempt.
func (r *RunContext) loadSeed() int64 {
	return r.seed + int64(r.index)*7919 + int64(r.attempts)
}

func (r *RunContext) scrollSpeed() float64 {
	if r.cfg.Camera.ScrollSpeed > 0 {
		return r.cfg.Camera.ScrollSpeed
	}
	return r.speed
}

func (r *RunContext) startTransport() {
	if r.transport == nil || r.transportLevel != r.index {
		r.closeTransport()
		r.transport = r.newTransport(r.Level())
		r.transportLevel = r.index
	}
	r.transport.Reset()
	if err := r.transport.Play(); err != nil {
		r.audioOK = false
		r.log.Warn("playback failed, beats follow simulation time", "level", r.Level().ID, "error", err)
		return
	}
	r.audioOK = true
}

// stopTransport halts playback synchronously.
func (r *RunContext) stopTransport() {
	if r.transport != nil {
		r.transport.Stop()
	}
}

func (r *RunContext) closeTransport() {
	if r.transport == nil {
		return
	}
	r.transport.Stop()
	if c, ok := r.transport.(io.Closer); ok {
		if err := c.Close(); err != nil {
			r.log.Warn("closing transport", "error", err)
		}
	}
	r.transport = nil
	r.transportLevel = -1
}

// Kill is the death transition. It is idempotent: only the first call per
// attempt counts the death, advances the narrative and applies knockback.
func (r *RunContext) Kill() bool {
	if r.state != StatePlaying || r.player.Dead {
		return false
	}
	lvl := r.Level()

	r.player.Dead = true
	r.player.DeathTime = r.runTime
	r.player.Knockback(r.cfg.Physics.KnockbackDamping, r.cfg.Physics.KnockbackPop)
	r.attempts++
	r.cursor[r.index] = core.Wrap(r.cursor[r.index]+1, len(lvl.Narrative))
	r.state = StateDead
	r.status = StatusDead

	if r.fxOn {
		c := r.player.Rect().Center()
		r.fx.Burst(c.X, c.Y, r.cfg.FX.DeathBurst, r.cfg.FX.BurstSpeed, lvl.Color)
	}
	r.record(OutcomeDead, r.attempts)
	r.log.Debug("player died", "level", lvl.ID, "attempts", r.attempts, "x", math.Round(r.player.X))
	return true
}

// Complete is the success transition.
func (r *RunContext) Complete() bool {
	if r.state != StatePlaying {
		return false
	}
	r.state = StateComplete
	r.status = StatusComplete
	r.completeTimer = r.cfg.Run.CompleteDelay
	r.record(OutcomeComplete, r.attempts+1)
	r.log.Info("level complete", "level", r.Level().ID, "attempts", r.attempts+1)
	return true
}

// Home stops the run and the music and returns to level selection.
func (r *RunContext) Home() {
	if r.state == StateHome {
		return
	}
	if r.state == StatePlaying {
		r.record(OutcomeAbandoned, r.attempts+1)
	}
	r.stopTransport()
	r.state = StateHome
	r.status = ""
	r.fx.Clear()
	r.pulse.Reset()
}

// Close releases the transport.
func (r *RunContext) Close() {
	r.closeTransport()
}

func (r *RunContext) record(outcome string, attempt int) {
	r.outcomes = append(r.outcomes, core.RunOutcome{
		Level:    r.Level().Name,
		Index:    r.index,
		Outcome:  outcome,
		Attempt:  attempt,
		Progress: r.Progress(),
		Duration: r.simTime,
	})
}

// DrainOutcomes returns and clears finished attempts.
func (r *RunContext) DrainOutcomes() []core.RunOutcome {
	out := r.outcomes
	r.outcomes = nil
	return out
}

// goal returns the finish line, or false for endless runs.
func (r *RunContext) goal() (float64, bool) {
	lvl := r.Level()
	if r.endless || lvl.Goal == nil {
		return 0, false
	}
	return *lvl.Goal, true
}

// Progress returns 0-100: distance toward the goal, or track position when the
// level has no goal and the transport knows its length.
func (r *RunContext) Progress() float64 {
	if r.state == StateHome {
		return 0
	}
	if g, ok := r.goal(); ok {
		start := r.cfg.Player.SpawnX + r.player.W
		span := g - start
		if span <= 0 {
			return 100
		}
		return core.ClampF((r.player.X+r.player.W-start)/span*100, 0, 100)
	}
	if r.transport != nil {
		if d, ok := r.transport.(audio.Durationer); ok {
			if total, ok := d.Duration(); ok && total > 0 {
				return core.ClampF(r.transport.Position()/total*100, 0, 100)
			}
		}
	}
	return 0
}

// clockTime is the beat clock's time source: the transport position while
// playback works, the run's own simulation time otherwise.
func (r *RunContext) clockTime() float64 {
	if r.audioOK && r.transport != nil {
		return r.transport.Position()
	}
	return r.simTime
}

// State returns the run phase.
func (r *RunContext) State() State { return r.state }

// Attempts returns deaths since the last start from home.
func (r *RunContext) Attempts() int { return r.attempts }

// Cursor returns the narrative cursor for a level index.
func (r *RunContext) Cursor(index int) int { return r.cursor[index] }

// Player returns a copy of the player.
func (r *RunContext) Player() Player { return r.player }

// Field exposes the obstacle field.
func (r *RunContext) Field() *ObstacleField { return r.field }

// Camera exposes the camera.
func (r *RunContext) Camera() *Camera { return r.camera }

// Beat exposes the beat clock.
func (r *RunContext) Beat() *BeatClock { return r.beat }

// Particles exposes the particle system.
func (r *RunContext) Particles() *Particles { return r.fx }

// AudioOK reports whether the transport is the beat clock's source.
func (r *RunContext) AudioOK() bool { return r.audioOK }

// Levels returns the loaded levels.
func (r *RunContext) Levels() []levels.Level { return r.levels }

// Index returns the selected level index.
func (r *RunContext) Index() int { return r.index }
