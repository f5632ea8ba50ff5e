// Package core provides fundamental types and utilities for the runner.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Vec is a point or displacement in world units (pixels, y grows downward).
type Vec struct {
	X, Y float64
}

// Rect represents an axis-aligned bounding box used for collision detection.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects returns true if this rectangle overlaps or touches another.
// Touching edges count as overlap: the runner treats boundary contact as a hit.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	if r.Right() < other.X || other.Right() < r.X {
		return false
	}
	if r.Bottom() < other.Y || other.Bottom() < r.Y {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec {
	return Vec{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Triangle is a closed triangle given by three vertices.
type Triangle struct {
	A, B, C Vec
}

// Degenerate reports whether the triangle has (numerically) zero area.
func (t Triangle) Degenerate() bool {
	return math.Abs(t.signedArea2()) < 1e-12
}

func (t Triangle) signedArea2() float64 {
	return (t.B.X-t.A.X)*(t.C.Y-t.A.Y) - (t.C.X-t.A.X)*(t.B.Y-t.A.Y)
}

// Contains tests p against the triangle using barycentric coordinates.
// Points within tol (in barycentric units) of an edge count as inside.
// Degenerate triangles contain nothing.
func (t Triangle) Contains(p Vec, tol float64) bool {
	denom := (t.B.Y-t.C.Y)*(t.A.X-t.C.X) + (t.C.X-t.B.X)*(t.A.Y-t.C.Y)
	if math.Abs(denom) < 1e-12 {
		return false
	}
	a := ((t.B.Y-t.C.Y)*(p.X-t.C.X) + (t.C.X-t.B.X)*(p.Y-t.C.Y)) / denom
	b := ((t.C.Y-t.A.Y)*(p.X-t.C.X) + (t.A.X-t.C.X)*(p.Y-t.C.Y)) / denom
	c := 1 - a - b
	return a >= -tol && b >= -tol && c >= -tol
}

// Bounds returns the triangle's axis-aligned bounding box.
func (t Triangle) Bounds() Rect {
	minX := math.Min(t.A.X, math.Min(t.B.X, t.C.X))
	maxX := math.Max(t.A.X, math.Max(t.B.X, t.C.X))
	minY := math.Min(t.A.Y, math.Min(t.B.Y, t.C.Y))
	maxY := math.Max(t.A.Y, math.Max(t.B.Y, t.C.Y))
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// HitPolicy selects how a rectangle is tested against a triangle.
type HitPolicy int

const (
	// HitSampled rejects on AABB first, then samples points along the
	// rectangle's lower edge and leading (right) edge for containment.
	HitSampled HitPolicy = iota
	// HitAABB reports a hit on any bounding-box overlap.
	HitAABB
)

// String returns the config name of the policy.
func (p HitPolicy) String() string {
	switch p {
	case HitSampled:
		return "sampled"
	case HitAABB:
		return "aabb"
	default:
		return "unknown"
	}
}

// ParseHitPolicy maps a config string to a policy. Unknown names fall back to HitSampled.
func ParseHitPolicy(s string) HitPolicy {
	if s == "aabb" {
		return HitAABB
	}
	return HitSampled
}

// HitTest bundles the collision policy parameters applied to every obstacle.
type HitTest struct {
	Policy      HitPolicy
	EdgeSamples int     // points along the lower edge
	LeadSamples int     // points along the leading vertical edge
	Tolerance   float64 // barycentric tolerance
}

// DefaultHitTest returns the sampled policy used by the built-in config.
func DefaultHitTest() HitTest {
	return HitTest{
		Policy:      HitSampled,
		EdgeSamples: 5,
		LeadSamples: 3,
		Tolerance:   1e-6,
	}
}

// RectHitsTriangle reports whether rect collides with tri under the policy.
// Zero-size rectangles and degenerate triangles never collide.
func (h HitTest) RectHitsTriangle(rect Rect, tri Triangle) bool {
	if rect.Empty() || tri.Degenerate() {
		return false
	}
	bounds := tri.Bounds()
	if bounds.Empty() || !rect.Intersects(bounds) {
		return false
	}
	if h.Policy == HitAABB {
		return true
	}

	for _, p := range edgePoints(rect.X, rect.Right(), rect.Bottom(), h.EdgeSamples, true) {
		if tri.Contains(p, h.Tolerance) {
			return true
		}
	}
	for _, p := range edgePoints(rect.Y, rect.Bottom(), rect.Right(), h.LeadSamples, false) {
		if tri.Contains(p, h.Tolerance) {
			return true
		}
	}
	return false
}

// edgePoints spreads n points evenly over [from, to] (endpoints included)
// along a horizontal line at fixed (horizontal=true) or a vertical one.
func edgePoints(from, to, fixed float64, n int, horizontal bool) []Vec {
	if n <= 0 {
		return nil
	}
	pts := make([]Vec, 0, n)
	for i := 0; i < n; i++ {
		t := 0.5
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		v := from + (to-from)*t
		if horizontal {
			pts = append(pts, Vec{X: v, Y: fixed})
		} else {
			pts = append(pts, Vec{X: fixed, Y: v})
		}
	}
	return pts
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Wrap maps i into [0, n) with modulo wraparound. Returns 0 when n <= 0.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
