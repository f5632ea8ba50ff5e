package spikebeat

import (
	"math/rand"
)

// Particle is a cosmetic dot. Gameplay never reads particles.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    float64
	MaxLife float64
	Color   string // #rrggbb
}

// Fade returns remaining life as a fraction in [0, 1].
func (p Particle) Fade() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return clamp01(p.Life / p.MaxLife)
}

// Particles owns all live particles and their RNG. Its RNG is separate from
// the obstacle field's so emission never shifts spawn positions.
type Particles struct {
	Max     int
	P       []Particle
	gravity float64
	rng     *rand.Rand
	ovrIdx  int // circular overwrite index when full
}

// NewParticles creates an empty system.
func NewParticles(maxParticles int, gravity float64, seed int64) *Particles {
	if maxParticles <= 0 {
		maxParticles = 256
	}
	return &Particles{
		Max:     maxParticles,
		P:       make([]Particle, 0, maxParticles),
		gravity: gravity,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Clear removes every particle.
func (ps *Particles) Clear() {
	ps.P = ps.P[:0]
	ps.ovrIdx = 0
}

// Reseed restarts the RNG.
func (ps *Particles) Reseed(seed int64) {
	ps.rng = rand.New(rand.NewSource(seed))
}

// Add inserts a particle, overwriting the oldest slots once full.
func (ps *Particles) Add(p Particle) {
	if len(ps.P) < ps.Max {
		ps.P = append(ps.P, p)
		return
	}
	if ps.ovrIdx >= ps.Max {
		ps.ovrIdx = 0
	}
	ps.P[ps.ovrIdx] = p
	ps.ovrIdx++
}

// Burst emits n particles from (x, y) with random velocity in ±speed/2
// and lifetimes in [0.8, 1.4).
func (ps *Particles) Burst(x, y float64, n int, speed float64, color string) {
	for i := 0; i < n; i++ {
		life := 0.8 + ps.rng.Float64()*0.6
		ps.Add(Particle{
			X:       x,
			Y:       y,
			VX:      (ps.rng.Float64() - 0.5) * speed,
			VY:      (ps.rng.Float64() - 0.5) * speed,
			Life:    life,
			MaxLife: life,
			Color:   color,
		})
	}
}

// Trail emits one drifting particle at the player's feet.
func (ps *Particles) Trail(x, y, life float64, color string) {
	ps.Add(Particle{
		X:       x,
		Y:       y,
		VX:      -60 + ps.rng.Float64()*120,
		VY:      -40 + ps.rng.Float64()*40,
		Life:    life,
		MaxLife: life,
		Color:   color,
	})
}

// Update ages and moves particles, removing expired ones.
func (ps *Particles) Update(dt float64) {
	for i := 0; i < len(ps.P); {
		p := &ps.P[i]
		p.Life -= dt
		if p.Life <= 0 {
			// Swap-remove.
			last := len(ps.P) - 1
			ps.P[i] = ps.P[last]
			ps.P = ps.P[:last]
			continue
		}
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.VY += ps.gravity * dt
		i++
	}
	if ps.ovrIdx > len(ps.P) {
		ps.ovrIdx = 0
	}
}

// Len returns the number of live particles.
func (ps *Particles) Len() int {
	return len(ps.P)
}
