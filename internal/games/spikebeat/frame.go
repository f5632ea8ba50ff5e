package spikebeat

import (
	"github.com/vovakirdan/spikebeat/internal/audio"
	"github.com/vovakirdan/spikebeat/internal/core"
)

// ScreenSpike is an active spike in viewport coordinates.
type ScreenSpike struct {
	X, BaseY float64
	W, H     float64
	Origin   Origin
}

// Pose is the player in viewport coordinates.
type Pose struct {
	X, Y, W, H float64
	OnGround   bool
	Dead       bool
}

// HUD is the plain text the host shows around the playfield.
type HUD struct {
	Level     string
	Narrative string
	Attempt   int // 1-based attempt in progress
	Progress  int // 0-100
	Status    string
	Index     int
	Count     int
}

// Frame is everything a drawing sink needs for one refresh.
// Spike and particle positions are already camera-relative and viewport-culled.
type Frame struct {
	State     State
	CameraX   float64
	GroundY   float64
	ViewportW float64
	ViewportH float64
	Player    Pose
	Spikes    []ScreenSpike
	Particles []Particle
	Pulse     float64
	Color     string
	Parallax  bool
	GoalX     float64 // viewport x of the finish line
	HasGoal   bool
	HUD       HUD
}

// Driver is the single per-frame entry point.
type Driver struct {
	run   *RunContext
	frame Frame
}

// NewDriver builds a run context sitting on the home screen.
func NewDriver(opts Options) (*Driver, error) {
	run, err := NewRunContext(opts)
	if err != nil {
		return nil, err
	}
	return &Driver{run: run}, nil
}

// Run exposes the underlying context.
func (d *Driver) Run() *RunContext {
	return d.run
}

// Frame advances the simulation by dt seconds (clamped to max_step) with the
// given input and returns the frame to draw. The returned frame's slices are
// reused by the next call.
func (d *Driver) Frame(dt float64, in core.InputFrame) *Frame {
	r := d.run
	if dt < 0 {
		dt = 0
	}
	if dt > r.cfg.Physics.MaxStep {
		dt = r.cfg.Physics.MaxStep
	}
	r.runTime += dt

	// Transport events are polled here, never delivered by callback.
	if r.state == StatePlaying && r.transport != nil {
		if adv, ok := r.transport.(audio.Advancer); ok {
			adv.Advance(dt)
		}
		r.trackEnded = r.transport.Ended()
	}

	if in.Has(core.ActionBack) && r.state != StateHome {
		r.Home()
	}

	switch r.state {
	case StateHome:
		d.home(in)
	case StatePlaying:
		d.playing(dt, in)
	case StateDead:
		r.player.Integrate(dt, r.cfg.Physics.Gravity, r.groundY)
		if in.Has(core.ActionRestart) {
			r.Retry()
		}
	case StateComplete:
		r.completeTimer -= dt
		if r.completeTimer <= 0 || in.Has(core.ActionConfirm) {
			r.Home()
		}
	}

	if r.state != StateHome {
		r.camera.Update(r.player.X, dt, r.state == StatePlaying)
		d.updateFX(dt)
	}

	return d.build()
}

func (d *Driver) home(in core.InputFrame) {
	r := d.run
	switch {
	case in.Has(core.ActionLeft):
		r.Select(r.index - 1)
	case in.Has(core.ActionRight):
		r.Select(r.index + 1)
	case in.Has(core.ActionConfirm), in.Has(core.ActionJump):
		r.Start(r.index)
	}
}

func (d *Driver) playing(dt float64, in core.InputFrame) {
	r := d.run
	lvl := r.Level()

	if in.Has(core.ActionJump) && r.player.TryJump(r.cfg.Physics.JumpVelocity) && r.fxOn {
		r.fx.Burst(r.player.X+r.player.W/2, r.player.Y+r.player.H, r.cfg.FX.JumpBurst, r.cfg.FX.BurstSpeed/2, lvl.Color)
	}

	r.simTime += dt
	if r.cfg.Spawn.Enabled {
		r.beat.Advance(r.clockTime(), func(int) {
			r.field.Spawn(r.player.X)
		})
	}
	r.field.Consolidate(r.player.X)

	r.player.Integrate(dt, r.cfg.Physics.Gravity, r.groundY)

	if _, hit := r.field.Hit(r.player.Rect(), r.hit); hit {
		r.Kill()
		return
	}

	if g, ok := r.goal(); ok && r.player.X+r.player.W >= g {
		r.Complete()
		return
	}
	if r.trackEnded {
		r.Complete()
	}
}

func (d *Driver) updateFX(dt float64) {
	r := d.run
	lvl := r.Level()

	if r.fxOn && r.state == StatePlaying && !r.player.Dead {
		r.player.ParticleCooldown -= dt
		if r.player.ParticleCooldown <= 0 {
			r.fx.Trail(r.player.X+r.player.W/2, r.player.Y+r.player.H-6, r.cfg.FX.TrailLife, lvl.Color)
			r.player.ParticleCooldown = r.ramp.TrailCooldown(r.index)
		}
	}
	r.fx.Update(dt)

	if !r.glowOn {
		r.pulse.Value = 0
		return
	}
	if m, ok := r.transport.(audio.EnergyMeter); ok && r.audioOK {
		r.pulse.UpdateEnergy(m.Energy())
	} else {
		r.pulse.UpdatePhase(r.beat.Phase(r.clockTime()))
	}
}

// Snapshot returns the current frame without advancing the simulation.
func (d *Driver) Snapshot() *Frame {
	return d.build()
}

// build fills the reusable frame from the current state.
func (d *Driver) build() *Frame {
	r := d.run
	lvl := r.Level()
	f := &d.frame

	f.State = r.state
	f.CameraX = r.camera.X
	f.GroundY = r.groundY
	f.ViewportW = r.cfg.Viewport.Width
	f.ViewportH = r.cfg.Viewport.Height
	f.Color = lvl.Color
	f.Parallax = lvl.FX.Parallax
	f.Pulse = r.pulse.Value
	f.Player = Pose{
		X:        r.camera.ToScreen(r.player.X),
		Y:        r.player.Y,
		W:        r.player.W,
		H:        r.player.H,
		OnGround: r.player.OnGround,
		Dead:     r.player.Dead,
	}

	f.Spikes = f.Spikes[:0]
	f.Particles = f.Particles[:0]
	f.HasGoal = false
	if r.state != StateHome {
		for _, s := range r.field.Active() {
			if !r.camera.Visible(s.X, s.W) {
				continue
			}
			f.Spikes = append(f.Spikes, ScreenSpike{
				X:      r.camera.ToScreen(s.X),
				BaseY:  s.BaseY,
				W:      s.W,
				H:      s.H,
				Origin: s.Origin,
			})
		}
		for _, p := range r.fx.P {
			p.X = r.camera.ToScreen(p.X)
			f.Particles = append(f.Particles, p)
		}
		if g, ok := r.goal(); ok && r.camera.Visible(g, 0) {
			f.GoalX = r.camera.ToScreen(g)
			f.HasGoal = true
		}
	}

	f.HUD = HUD{
		Level:     lvl.Name,
		Narrative: lvl.Line(r.cursor[r.index]),
		Attempt:   r.attempts + 1,
		Progress:  int(r.Progress()),
		Status:    r.status,
		Index:     r.index,
		Count:     len(r.levels),
	}
	return f
}
