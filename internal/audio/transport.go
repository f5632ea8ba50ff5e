// Package audio provides the music transports the runner reads its clock from.
// The simulation only ever reads a transport; it never blocks on one.
package audio

import "errors"

// ErrPlayback is wrapped when a transport cannot start.
var ErrPlayback = errors.New("audio: playback failed")

// Transport is a read-mostly music clock with a completion signal.
type Transport interface {
	// Play starts or resumes playback. A non-nil error means the track is silent
	// and its Position cannot be trusted.
	Play() error
	// Stop pauses playback. It returns once the audio output has stopped reading.
	Stop()
	// Reset rewinds to the beginning and clears the ended flag.
	Reset()
	// Position returns the playback position in seconds.
	Position() float64
	// Ended reports whether the track has played to its end.
	Ended() bool
}

// EnergyMeter is implemented by transports that can report a smoothed
// low-frequency energy level of what is currently playing.
type EnergyMeter interface {
	Energy() float64
}

// Durationer is implemented by transports with a known length.
type Durationer interface {
	Duration() (seconds float64, ok bool)
}

// Advancer is implemented by transports driven by simulation time.
type Advancer interface {
	Advance(dt float64)
}
