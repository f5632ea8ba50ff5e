package spikebeat

import (
	"math"
	"testing"

	"github.com/vovakirdan/spikebeat/internal/config"
)

func testPlayer() Player {
	cfg := config.DefaultSpikebeatConfig()
	return NewPlayer(cfg.Player, cfg.Viewport.GroundY(), cfg.Physics.RunSpeed)
}

func TestPlayerSpawnsOnGround(t *testing.T) {
	p := testPlayer()
	if !p.OnGround {
		t.Fatal("player should spawn on the ground")
	}
	if p.Y+p.H != 420 {
		t.Errorf("feet at %v, want 420", p.Y+p.H)
	}
	if p.X != 120 || p.VX != 300 {
		t.Errorf("spawn x=%v vx=%v, want 120 and 300", p.X, p.VX)
	}
}

func TestJumpApexTiming(t *testing.T) {
	const gravity, jump, groundY = 2200.0, -900.0, 420.0
	wantT := -jump / gravity
	wantH := jump * jump / (2 * gravity)

	for _, dt := range []float64{1.0 / 30, 1.0 / 60, 1.0 / 120} {
		p := testPlayer()
		startY := p.Y
		if !p.TryJump(jump) {
			t.Fatalf("dt=%v: jump refused on the ground", dt)
		}

		var apexT, apexH float64
		for i := 1; i < 1000; i++ {
			p.Integrate(dt, gravity, groundY)
			if h := startY - p.Y; h > apexH {
				apexH = h
			}
			if p.VY >= 0 {
				apexT = float64(i) * dt
				break
			}
		}

		if math.Abs(apexT-wantT) > dt {
			t.Errorf("dt=%v: apex at %.4fs, want %.4fs within one step", dt, apexT, wantT)
		}
		if math.Abs(apexH-wantH)/wantH > 0.1 {
			t.Errorf("dt=%v: apex height %.1f, want %.1f within 10%%", dt, apexH, wantH)
		}
	}
}

func TestPlayerNeverBelowGround(t *testing.T) {
	p := testPlayer()
	dt := 1.0 / 60
	for i := 0; i < 600; i++ {
		if i%25 == 0 {
			p.TryJump(-900)
		}
		p.Integrate(dt, 2200, 420)
		if p.Y+p.H > 420+1e-9 {
			t.Fatalf("tick %d: feet at %v below ground", i, p.Y+p.H)
		}
		if p.OnGround && p.Y+p.H != 420 {
			t.Fatalf("tick %d: grounded but feet at %v", i, p.Y+p.H)
		}
	}
}

func TestNoDoubleJump(t *testing.T) {
	p := testPlayer()
	if !p.TryJump(-900) {
		t.Fatal("first jump should succeed")
	}
	p.Integrate(1.0/60, 2200, 420)
	if p.TryJump(-900) {
		t.Error("second jump in the air should be refused")
	}

	p = testPlayer()
	p.Dead = true
	if p.TryJump(-900) {
		t.Error("dead player should not jump")
	}
}

func TestLandingReported(t *testing.T) {
	p := testPlayer()
	p.TryJump(-900)
	landed := false
	for i := 0; i < 200 && !landed; i++ {
		landed = p.Integrate(1.0/60, 2200, 420)
	}
	if !landed {
		t.Fatal("player never landed")
	}
	if p.Integrate(1.0/60, 2200, 420) {
		t.Error("standing still should not report another landing")
	}
}

func TestKnockbackOnce(t *testing.T) {
	p := testPlayer()
	p.Dead = true
	if !p.Knockback(0.4, -300) {
		t.Fatal("first knockback should apply")
	}
	if math.Abs(p.VX-120) > 1e-9 || p.VY != -300 || p.OnGround {
		t.Errorf("after knockback vx=%v vy=%v onGround=%v", p.VX, p.VY, p.OnGround)
	}
	if p.Knockback(0.4, -300) {
		t.Error("second knockback should be ignored")
	}
	if math.Abs(p.VX-120) > 1e-9 {
		t.Errorf("vx damped twice: %v", p.VX)
	}

	for i := 0; i < 200 && !p.OnGround; i++ {
		p.Integrate(1.0/60, 2200, 420)
	}
	if !p.OnGround {
		t.Fatal("dead player never landed")
	}
	if p.VX != 0 {
		t.Errorf("dead player still drifting at vx=%v", p.VX)
	}

	x := p.X
	p.Integrate(1.0/60, 2200, 420)
	if p.X != x {
		t.Error("landed dead player should not move")
	}
}
