package spikebeat

import (
	"github.com/vovakirdan/spikebeat/internal/config"
	"github.com/vovakirdan/spikebeat/internal/core"
)

// Player is the auto-running block. Y grows downward; the ground line is groundY.
type Player struct {
	X, Y   float64
	VX, VY float64
	W, H   float64

	OnGround bool
	Dead     bool

	ParticleCooldown float64 // seconds until the next trail particle
	DeathTime        float64 // run time of the death transition

	knocked bool // knockback already applied for this death
}

// NewPlayer returns the spawn pose: standing on the ground at spawn_x, running at speed.
func NewPlayer(cfg config.PlayerConfig, groundY, speed float64) Player {
	return Player{
		X:        cfg.SpawnX,
		Y:        groundY - cfg.Height,
		VX:       speed,
		W:        cfg.Width,
		H:        cfg.Height,
		OnGround: true,
	}
}

// Rect returns the player's collision rectangle.
func (p *Player) Rect() core.Rect {
	return core.NewRect(p.X, p.Y, p.W, p.H)
}

// TryJump applies the launch impulse if the player is standing and alive.
func (p *Player) TryJump(velocity float64) bool {
	if !p.OnGround || p.Dead {
		return false
	}
	p.VY = velocity
	p.OnGround = false
	return true
}

// Integrate advances one step with semi-implicit Euler and clamps to the ground.
// A dead player only moves while its knockback is still airborne; landing ends
// the horizontal drift. Reports whether the player touched down this step.
func (p *Player) Integrate(dt, gravity, groundY float64) (landed bool) {
	if dt <= 0 {
		return false
	}

	if !p.Dead || !p.OnGround {
		p.VY += gravity * dt
		p.Y += p.VY * dt
		p.X += p.VX * dt
	}

	wasAirborne := !p.OnGround
	if p.Y+p.H >= groundY {
		p.Y = groundY - p.H
		p.VY = 0
		p.OnGround = true
		if p.Dead {
			p.VX = 0
		}
	} else {
		p.OnGround = false
	}
	return wasAirborne && p.OnGround
}

// Knockback marks the hit: horizontal speed is damped and the player pops up.
// Only the first call per death has any effect.
func (p *Player) Knockback(damping, pop float64) bool {
	if p.knocked {
		return false
	}
	p.knocked = true
	p.VX *= damping
	p.VY = pop
	p.OnGround = false
	return true
}
