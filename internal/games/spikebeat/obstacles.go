package spikebeat

import (
	"math"
	"math/rand"
	"sort"

	"github.com/vovakirdan/spikebeat/internal/config"
	"github.com/vovakirdan/spikebeat/internal/core"
	"github.com/vovakirdan/spikebeat/internal/levels"
)

// Origin tags where a spike came from.
type Origin int

const (
	OriginStatic     Origin = iota // authored in the level
	OriginProcedural               // spawned on a beat
)

// Spike is a ground triangle: base from (X, BaseY) to (X+W, BaseY), apex at the middle, H up.
type Spike struct {
	X, BaseY float64
	W, H     float64
	Origin   Origin
}

// Triangle returns the spike's vertices (base-left, apex, base-right).
func (s Spike) Triangle() core.Triangle {
	return core.Triangle{
		A: core.Vec{X: s.X, Y: s.BaseY},
		B: core.Vec{X: s.X + s.W/2, Y: s.BaseY - s.H},
		C: core.Vec{X: s.X + s.W, Y: s.BaseY},
	}
}

// Bounds returns the spike's bounding box.
func (s Spike) Bounds() core.Rect {
	return core.NewRect(s.X, s.BaseY-s.H, s.W, s.H)
}

// ObstacleField holds the level's static spikes, the procedural pool and the
// consolidated active list used for both collision and rendering.
type ObstacleField struct {
	statics []Spike
	pool    []Spike
	active  []Spike
	rng     *rand.Rand
	cfg     config.SpawnConfig
	groundY float64
	spawned int
}

// NewObstacleField creates a field with the given RNG seed.
func NewObstacleField(seed int64, cfg config.SpawnConfig, groundY float64) *ObstacleField {
	return &ObstacleField{
		statics: make([]Spike, 0, 8),
		pool:    make([]Spike, 0, 16),
		active:  make([]Spike, 0, 24),
		rng:     rand.New(rand.NewSource(seed)),
		cfg:     cfg,
		groundY: groundY,
	}
}

// Load clears everything and installs a level's static spikes.
func (f *ObstacleField) Load(defs []levels.SpikeDef, seed int64) {
	f.statics = f.statics[:0]
	f.pool = f.pool[:0]
	f.active = f.active[:0]
	f.spawned = 0
	f.rng = rand.New(rand.NewSource(seed))
	for _, d := range defs {
		f.statics = append(f.statics, Spike{X: d.X, BaseY: f.groundY, W: d.W, H: d.H, Origin: OriginStatic})
	}
}

// Spawn appends one procedural spike ahead of the player.
func (f *ObstacleField) Spawn(playerX float64) Spike {
	x := playerX + f.cfg.LeadDistance + f.rng.Float64()*f.cfg.Jitter
	s := Spike{X: x, BaseY: f.groundY, W: f.cfg.SpikeWidth, H: f.cfg.SpikeHeight, Origin: OriginProcedural}
	f.pool = append(f.pool, s)
	f.spawned++
	return s
}

// Consolidate culls spikes far behind the player and rebuilds the active list:
// a stable left-to-right scan where statics are always kept and a procedural
// spike closer than MinSpacing to the last kept spike is dropped from the pool.
func (f *ObstacleField) Consolidate(playerX float64) {
	cullX := playerX - f.cfg.CullDistance

	f.active = f.active[:0]
	for _, s := range f.statics {
		if s.X+s.W >= cullX {
			f.active = append(f.active, s)
		}
	}
	for _, s := range f.pool {
		if s.X+s.W >= cullX {
			f.active = append(f.active, s)
		}
	}
	sort.SliceStable(f.active, func(i, j int) bool {
		return f.active[i].X < f.active[j].X
	})

	kept := f.active[:0]
	f.pool = f.pool[:0]
	lastKept := math.Inf(-1)
	for _, s := range f.active {
		if s.Origin == OriginProcedural {
			if s.X-lastKept < f.cfg.MinSpacing {
				continue
			}
			f.pool = append(f.pool, s)
		}
		lastKept = s.X
		kept = append(kept, s)
	}
	f.active = kept
}

// Hit returns the first active spike the rectangle collides with.
func (f *ObstacleField) Hit(r core.Rect, ht core.HitTest) (Spike, bool) {
	for _, s := range f.active {
		if ht.RectHitsTriangle(r, s.Triangle()) {
			return s, true
		}
	}
	return Spike{}, false
}

// Active returns the consolidated spikes sorted by X.
func (f *ObstacleField) Active() []Spike {
	return f.active
}

// Pool returns the live procedural spikes.
func (f *ObstacleField) Pool() []Spike {
	return f.pool
}

// Spawned returns the number of procedural spikes created since Load.
func (f *ObstacleField) Spawned() int {
	return f.spawned
}
