package audio

// Clock is a silent transport advanced explicitly by the simulation.
// It is used for headless runs, tests and levels without music.
type Clock struct {
	pos      float64
	duration float64 // <= 0 means unbounded
	playing  bool
	ended    bool

	// PlayErr, when set, is returned by Play to model a blocked output.
	PlayErr error
}

// NewClock creates a clock that ends after duration seconds (0 = never).
func NewClock(duration float64) *Clock {
	return &Clock{duration: duration}
}

// Play starts the clock.
func (c *Clock) Play() error {
	if c.PlayErr != nil {
		return c.PlayErr
	}
	c.playing = true
	return nil
}

// Stop pauses the clock.
func (c *Clock) Stop() {
	c.playing = false
}

// Reset rewinds the clock.
func (c *Clock) Reset() {
	c.pos = 0
	c.ended = false
}

// Position returns elapsed playing time in seconds.
func (c *Clock) Position() float64 {
	return c.pos
}

// Ended reports whether the configured duration has elapsed.
func (c *Clock) Ended() bool {
	return c.ended
}

// Duration returns the configured length.
func (c *Clock) Duration() (float64, bool) {
	return c.duration, c.duration > 0
}

// Advance moves the clock forward while playing.
func (c *Clock) Advance(dt float64) {
	if !c.playing || c.ended || dt <= 0 {
		return
	}
	c.pos += dt
	if c.duration > 0 && c.pos >= c.duration {
		c.pos = c.duration
		c.ended = true
		c.playing = false
	}
}
