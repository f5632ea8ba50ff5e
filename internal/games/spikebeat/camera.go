package spikebeat

import "github.com/vovakirdan/spikebeat/internal/config"

// Camera is the horizontal view offset in world pixels. The same X is used to
// cull spikes to the viewport and to offset everything drawn.
type Camera struct {
	X float64

	mode      config.CameraMode
	smoothing float64
	offset    float64 // fraction of the viewport kept left of the player
	speed     float64 // scroll mode only
	viewportW float64
}

// NewCamera creates a camera from config for a viewport width.
func NewCamera(cfg config.CameraConfig, viewportW float64) *Camera {
	return &Camera{
		mode:      cfg.Mode,
		smoothing: cfg.Smoothing,
		offset:    cfg.OffsetFraction,
		speed:     cfg.ScrollSpeed,
		viewportW: viewportW,
	}
}

// Reset moves the camera back to the origin.
func (c *Camera) Reset() {
	c.X = 0
}

// SetMode switches between smooth follow and fixed-rate scroll.
func (c *Camera) SetMode(m config.CameraMode) {
	c.mode = m
}

// Mode returns the active camera mode.
func (c *Camera) Mode() config.CameraMode {
	return c.mode
}

// SetScrollSpeed sets the scroll rate in px/s.
func (c *Camera) SetScrollSpeed(v float64) {
	c.speed = v
}

// Target returns where the smooth camera is heading for a player x.
func (c *Camera) Target(playerX float64) float64 {
	return playerX - c.viewportW*c.offset
}

// Update advances the camera one tick. Scroll mode only moves while the run
// is live.
func (c *Camera) Update(playerX, dt float64, live bool) {
	switch c.mode {
	case config.CameraScroll:
		if live {
			c.X += c.speed * dt
		}
	default:
		c.X += (c.Target(playerX) - c.X) * c.smoothing
	}
}

// Visible reports whether [x, x+w] overlaps the viewport.
func (c *Camera) Visible(x, w float64) bool {
	return x+w >= c.X && x <= c.X+c.viewportW
}

// ToScreen converts a world x to viewport x.
func (c *Camera) ToScreen(x float64) float64 {
	return x - c.X
}
