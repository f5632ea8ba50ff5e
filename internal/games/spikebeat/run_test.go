package spikebeat

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/spikebeat/internal/audio"
	"github.com/vovakirdan/spikebeat/internal/config"
	"github.com/vovakirdan/spikebeat/internal/core"
	"github.com/vovakirdan/spikebeat/internal/levels"
)

const tick = 1.0 / 60

func testLevel(id string, spikes ...levels.SpikeDef) levels.Level {
	return levels.Level{
		ID:        id,
		Name:      "Level " + id,
		BPM:       120,
		Color:     "#ff8800",
		Narrative: []string{"first", "second", "third"},
		Spikes:    spikes,
		FX:        levels.FX{Parallax: true, Particles: true, Glow: true},
	}
}

func goalAt(x float64) *float64 {
	return &x
}

// quietConfig disables beat spawning so only authored spikes exist.
func quietConfig() config.SpikebeatConfig {
	cfg := config.DefaultSpikebeatConfig()
	cfg.Spawn.Enabled = false
	return cfg
}

func newTestDriver(t *testing.T, cfg config.SpikebeatConfig, lvls []levels.Level, tf TransportFactory) *Driver {
	t.Helper()
	d, err := NewDriver(Options{Config: cfg, Levels: lvls, Seed: 42, Transports: tf})
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}
	return d
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// stepUntil advances idle frames until the run reaches state or limit frames pass.
func stepUntil(d *Driver, state State, limit int) int {
	for i := 0; i < limit; i++ {
		if d.Run().State() == state {
			return i
		}
		d.Frame(tick, core.NewInputFrame())
	}
	return -1
}

// fakeTransport records calls for assertions.
type fakeTransport struct {
	plays, stops, resets int
	playErr              error
}

func (f *fakeTransport) Play() error {
	f.plays++
	return f.playErr
}
func (f *fakeTransport) Stop()             { f.stops++ }
func (f *fakeTransport) Reset()            { f.resets++ }
func (f *fakeTransport) Position() float64 { return 0 }
func (f *fakeTransport) Ended() bool       { return false }

func TestNewRunContextErrors(t *testing.T) {
	if _, err := NewRunContext(Options{Config: config.DefaultSpikebeatConfig()}); !errors.Is(err, levels.ErrNotFound) {
		t.Errorf("no levels: got %v, want ErrNotFound", err)
	}

	cfg := config.DefaultSpikebeatConfig()
	cfg.Physics.Gravity = 0
	if _, err := NewRunContext(Options{Config: cfg, Levels: []levels.Level{testLevel("a")}}); err == nil {
		t.Error("invalid config should be rejected")
	}
}

func TestStartsOnHome(t *testing.T) {
	d := newTestDriver(t, quietConfig(), []levels.Level{testLevel("a")}, nil)
	f := d.Frame(tick, core.NewInputFrame())
	if f.State != StateHome {
		t.Fatalf("state = %v, want home", f.State)
	}
	if len(f.Spikes) != 0 || len(f.Particles) != 0 {
		t.Error("home frame should have no playfield content")
	}
	if f.HUD.Narrative != "first" {
		t.Errorf("narrative = %q", f.HUD.Narrative)
	}
}

func TestSelectWraps(t *testing.T) {
	lvls := []levels.Level{testLevel("a"), testLevel("b"), testLevel("c")}
	d := newTestDriver(t, quietConfig(), lvls, nil)

	d.Frame(tick, press(core.ActionLeft))
	if d.Run().Index() != 2 {
		t.Errorf("left from first = %d, want 2", d.Run().Index())
	}
	d.Frame(tick, press(core.ActionRight))
	if d.Run().Index() != 0 {
		t.Errorf("right from last = %d, want 0", d.Run().Index())
	}

	d.Run().Start(7)
	if d.Run().Index() != 1 {
		t.Errorf("Start(7) with 3 levels selected %d", d.Run().Index())
	}
}

func TestCollisionTiming(t *testing.T) {
	// Player right edge starts at 168 and runs at 300px/s, so it reaches
	// the spike base at 900 after about 2.44s.
	lvl := testLevel("a", levels.SpikeDef{X: 900, W: 40, H: 40})
	d := newTestDriver(t, quietConfig(), []levels.Level{lvl}, nil)

	d.Frame(tick, press(core.ActionConfirm))
	if d.Run().State() != StatePlaying {
		t.Fatalf("state after confirm = %v", d.Run().State())
	}
	if stepUntil(d, StateDead, 400) < 0 {
		t.Fatal("player never hit the spike")
	}

	outs := d.Run().DrainOutcomes()
	if len(outs) != 1 || outs[0].Outcome != OutcomeDead {
		t.Fatalf("outcomes = %+v, want one death", outs)
	}
	if dur := outs[0].Duration; dur < 2.4 || dur > 2.65 {
		t.Errorf("died after %.3fs, want 2.4-2.65s", dur)
	}
	if outs[0].Attempt != 1 {
		t.Errorf("attempt = %d, want 1", outs[0].Attempt)
	}
}

func TestJumpClearsSpike(t *testing.T) {
	lvl := testLevel("a", levels.SpikeDef{X: 900, W: 40, H: 40})
	lvl.Goal = goalAt(1400)
	d := newTestDriver(t, quietConfig(), []levels.Level{lvl}, nil)
	d.Frame(tick, press(core.ActionConfirm))

	// Leave at x=700 so the arc peaks over the spike.
	for i := 0; i < 600 && d.Run().State() == StatePlaying; i++ {
		in := core.NewInputFrame()
		if p := d.Run().Player(); p.OnGround && p.X >= 700 && p.X < 800 {
			in.Set(core.ActionJump)
		}
		d.Frame(tick, in)
	}
	if d.Run().State() != StateComplete {
		t.Errorf("state = %v, want complete", d.Run().State())
	}
}

func TestDeathIsIdempotent(t *testing.T) {
	lvl := testLevel("a", levels.SpikeDef{X: 300, W: 40, H: 40})
	d := newTestDriver(t, quietConfig(), []levels.Level{lvl}, nil)
	d.Frame(tick, press(core.ActionConfirm))
	stepUntil(d, StateDead, 200)

	r := d.Run()
	if r.Kill() {
		t.Error("second Kill should be ignored")
	}
	for i := 0; i < 30; i++ {
		d.Frame(tick, core.NewInputFrame())
	}
	if r.Attempts() != 1 || r.Cursor(0) != 1 {
		t.Errorf("attempts=%d cursor=%d, want 1 and 1", r.Attempts(), r.Cursor(0))
	}
	if got := len(r.DrainOutcomes()); got != 1 {
		t.Errorf("recorded %d outcomes for one death", got)
	}
	if !r.Player().Dead {
		t.Error("player should stay dead until retry")
	}
}

func TestNarrativeCursorPersists(t *testing.T) {
	lvl := testLevel("a", levels.SpikeDef{X: 300, W: 40, H: 40})
	d := newTestDriver(t, quietConfig(), []levels.Level{lvl}, nil)
	d.Frame(tick, press(core.ActionConfirm))

	for death := 1; death <= 4; death++ {
		if stepUntil(d, StateDead, 200) < 0 {
			t.Fatalf("death %d never happened", death)
		}
		if got := d.Run().Cursor(0); got != death%3 {
			t.Errorf("after %d deaths cursor = %d, want %d", death, got, death%3)
		}
		if d.Run().Attempts() != death {
			t.Errorf("attempts = %d, want %d", d.Run().Attempts(), death)
		}
		d.Frame(tick, press(core.ActionRestart))
	}

	f := d.Frame(tick, press(core.ActionBack))
	if f.State != StateHome {
		t.Fatalf("back did not go home: %v", f.State)
	}
	if f.HUD.Narrative != "second" {
		t.Errorf("home narrative = %q, want %q", f.HUD.Narrative, "second")
	}

	d.Frame(tick, press(core.ActionConfirm))
	if d.Run().Attempts() != 0 {
		t.Errorf("attempts after a fresh start = %d", d.Run().Attempts())
	}
	if d.Run().Cursor(0) != 1 {
		t.Errorf("cursor reset to %d on start", d.Run().Cursor(0))
	}
}

func TestRetryOnlyWhenDead(t *testing.T) {
	lvl := testLevel("a", levels.SpikeDef{X: 300, W: 40, H: 40})
	d := newTestDriver(t, quietConfig(), []levels.Level{lvl}, nil)
	d.Frame(tick, press(core.ActionConfirm))
	for i := 0; i < 10; i++ {
		d.Frame(tick, core.NewInputFrame())
	}
	x := d.Run().Player().X

	d.Frame(tick, press(core.ActionRestart))
	if d.Run().Player().X < x {
		t.Error("restart while playing reloaded the level")
	}

	stepUntil(d, StateDead, 200)
	d.Frame(tick, press(core.ActionRestart))
	if d.Run().State() != StatePlaying {
		t.Fatalf("state after retry = %v", d.Run().State())
	}
	if p := d.Run().Player(); p.X != 120 || p.Dead {
		t.Errorf("retry did not respawn: x=%v dead=%v", p.X, p.Dead)
	}
}

func TestGoalCompletesAndReturnsHome(t *testing.T) {
	lvl := testLevel("a")
	lvl.Goal = goalAt(600)
	d := newTestDriver(t, quietConfig(), []levels.Level{lvl}, nil)
	d.Frame(tick, press(core.ActionConfirm))

	if stepUntil(d, StateComplete, 200) < 0 {
		t.Fatal("goal never reached")
	}
	outs := d.Run().DrainOutcomes()
	if len(outs) != 1 || outs[0].Outcome != OutcomeComplete || outs[0].Progress != 100 {
		t.Fatalf("outcomes = %+v", outs)
	}

	n := stepUntil(d, StateHome, 200)
	if n < 0 {
		t.Fatal("complete screen never returned home")
	}
	if secs := float64(n) * tick; math.Abs(secs-2) > 0.1 {
		t.Errorf("returned home after %.2fs, want about 2s", secs)
	}
	if len(d.Run().DrainOutcomes()) != 0 {
		t.Error("leaving the complete screen should not record anything")
	}
}

func TestConfirmSkipsCompleteScreen(t *testing.T) {
	lvl := testLevel("a")
	lvl.Goal = goalAt(400)
	d := newTestDriver(t, quietConfig(), []levels.Level{lvl}, nil)
	d.Frame(tick, press(core.ActionConfirm))
	stepUntil(d, StateComplete, 200)

	d.Frame(tick, press(core.ActionConfirm))
	if d.Run().State() != StateHome {
		t.Errorf("state = %v, want home", d.Run().State())
	}
}

func TestTrackEndCompletes(t *testing.T) {
	lvl := testLevel("a")
	d := newTestDriver(t, quietConfig(), []levels.Level{lvl}, func(*levels.Level) audio.Transport {
		return audio.NewClock(1)
	})
	d.Frame(tick, press(core.ActionConfirm))
	if !d.Run().AudioOK() {
		t.Fatal("clock transport should play")
	}

	f := d.Frame(tick*30, core.NewInputFrame())
	if f.HUD.Progress <= 0 || f.HUD.Progress >= 100 {
		t.Errorf("progress mid-track = %d", f.HUD.Progress)
	}

	n := stepUntil(d, StateComplete, 120)
	if n < 0 {
		t.Fatal("run did not complete when the track ended")
	}
	outs := d.Run().DrainOutcomes()
	if len(outs) != 1 || outs[0].Outcome != OutcomeComplete {
		t.Errorf("outcomes = %+v, want one completion", outs)
	}
}

func TestEndlessIgnoresGoal(t *testing.T) {
	lvl := testLevel("a")
	lvl.Goal = goalAt(400)
	d, err := NewDriver(Options{Config: quietConfig(), Levels: []levels.Level{lvl}, Endless: true})
	if err != nil {
		t.Fatal(err)
	}
	d.Frame(tick, press(core.ActionConfirm))
	for i := 0; i < 300; i++ {
		d.Frame(tick, core.NewInputFrame())
	}
	if d.Run().State() != StatePlaying {
		t.Errorf("endless run ended in %v", d.Run().State())
	}
	if f := d.Snapshot(); f.HasGoal {
		t.Error("endless frame should not draw a goal")
	}
}

func TestPlaybackFailureFallsBackToSimTime(t *testing.T) {
	lvl := testLevel("a")
	d := newTestDriver(t, config.DefaultSpikebeatConfig(), []levels.Level{lvl}, func(*levels.Level) audio.Transport {
		c := audio.NewClock(0)
		c.PlayErr = audio.ErrPlayback
		return c
	})
	d.Frame(tick, press(core.ActionConfirm))
	if d.Run().AudioOK() {
		t.Fatal("failed playback reported as ok")
	}

	for i := 0; i < 60; i++ {
		d.Frame(tick, core.NewInputFrame())
	}
	r := d.Run()
	if r.Beat().Count() < 2 {
		t.Errorf("only %d beats in 1s at 120bpm without audio", r.Beat().Count())
	}
	if r.Field().Spawned() != r.Beat().Count() {
		t.Errorf("spawned %d spikes for %d beats", r.Field().Spawned(), r.Beat().Count())
	}
}

func TestBackStopsTransport(t *testing.T) {
	ft := &fakeTransport{}
	d := newTestDriver(t, quietConfig(), []levels.Level{testLevel("a")}, func(*levels.Level) audio.Transport {
		return ft
	})
	d.Frame(tick, press(core.ActionConfirm))
	if ft.plays != 1 || ft.resets != 1 {
		t.Fatalf("plays=%d resets=%d after start", ft.plays, ft.resets)
	}

	stops := ft.stops
	d.Frame(tick, press(core.ActionBack))
	if ft.stops <= stops {
		t.Error("going home did not stop the music")
	}
	outs := d.Run().DrainOutcomes()
	if len(outs) != 1 || outs[0].Outcome != OutcomeAbandoned {
		t.Errorf("outcomes = %+v, want one abandoned run", outs)
	}

	d.Frame(tick, press(core.ActionConfirm))
	if ft.plays != 2 {
		t.Errorf("restart played %d times", ft.plays)
	}
}

func TestTransportReusedPerLevel(t *testing.T) {
	made := 0
	d := newTestDriver(t, quietConfig(), []levels.Level{testLevel("a"), testLevel("b")}, func(*levels.Level) audio.Transport {
		made++
		return &fakeTransport{}
	})
	d.Frame(tick, press(core.ActionConfirm))
	d.Frame(tick, press(core.ActionBack))
	d.Frame(tick, press(core.ActionConfirm))
	if made != 1 {
		t.Errorf("replaying the same level created %d transports", made)
	}

	d.Frame(tick, press(core.ActionBack))
	d.Frame(tick, press(core.ActionRight))
	d.Frame(tick, press(core.ActionConfirm))
	if made != 2 {
		t.Errorf("switching level created %d transports, want 2", made)
	}
}

func TestParticlesDoNotAffectSpawns(t *testing.T) {
	run := func(particles bool) *RunContext {
		cfg := config.DefaultSpikebeatConfig()
		cfg.FX.Particles = particles
		d := newTestDriver(t, cfg, []levels.Level{testLevel("a")}, nil)
		d.Frame(tick, press(core.ActionConfirm))
		for i := 0; i < 240; i++ {
			in := core.NewInputFrame()
			if i%20 == 0 {
				in.Set(core.ActionJump)
			}
			d.Frame(tick, in)
		}
		return d.Run()
	}

	with, without := run(true), run(false)
	if with.Particles().Len() == 0 {
		t.Fatal("particles enabled but none emitted")
	}
	if without.Particles().Len() != 0 {
		t.Error("particles disabled but some emitted")
	}
	if !reflect.DeepEqual(with.Field().Active(), without.Field().Active()) {
		t.Error("particle emission changed obstacle spawns")
	}
	pw, po := with.Player(), without.Player()
	if pw.X != po.X || pw.Y != po.Y || pw.Dead != po.Dead {
		t.Error("particle emission changed the player")
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() []Spike {
		d := newTestDriver(t, config.DefaultSpikebeatConfig(), []levels.Level{testLevel("a")}, nil)
		d.Frame(tick, press(core.ActionConfirm))
		for i := 0; i < 180; i++ {
			d.Frame(tick, core.NewInputFrame())
		}
		return append([]Spike(nil), d.Run().Field().Active()...)
	}
	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Error("two runs with the same seed spawned different spikes")
	}
}

func TestFrameIsCameraRelative(t *testing.T) {
	lvl := testLevel("a", levels.SpikeDef{X: 700, W: 40, H: 40})
	d := newTestDriver(t, quietConfig(), []levels.Level{lvl}, nil)
	d.Frame(tick, press(core.ActionConfirm))
	var f *Frame
	for i := 0; i < 30; i++ {
		f = d.Frame(tick, core.NewInputFrame())
	}

	r := d.Run()
	if got, want := f.Player.X, r.Player().X-r.Camera().X; got != want {
		t.Errorf("player screen x = %v, want %v", got, want)
	}
	if len(f.Spikes) != 1 {
		t.Fatalf("got %d spikes in frame", len(f.Spikes))
	}
	if got, want := f.Spikes[0].X, 700-r.Camera().X; got != want {
		t.Errorf("spike screen x = %v, want %v", got, want)
	}
	if f.HUD.Attempt != 1 || f.HUD.Status != StatusPlaying {
		t.Errorf("hud = %+v", f.HUD)
	}
}

func TestMaxStepClamp(t *testing.T) {
	d := newTestDriver(t, quietConfig(), []levels.Level{testLevel("a")}, nil)
	d.Frame(tick, press(core.ActionConfirm))
	x := d.Run().Player().X
	d.Frame(5, core.NewInputFrame())
	if moved := d.Run().Player().X - x; moved > 300.0/30+1e-9 {
		t.Errorf("a 5s frame moved the player %.1fpx", moved)
	}
}
