package spikebeat

import "math"

// maxCatchUp bounds how many beats a single Advance may fire. A clock that
// jumps further (seek, resumed stall) skips the missed beats instead of
// flooding the field with spikes.
const maxCatchUp = 8

// BeatClock schedules one event per musical beat from a monotonically
// increasing clock. Scheduling depends only on clock time, never on frame count.
type BeatClock struct {
	spb       float64 // seconds per beat
	lookahead float64
	next      float64
	count     int
	skipped   int
}

// NewBeatClock creates a clock for the given tempo.
func NewBeatClock(bpm, lookahead float64) *BeatClock {
	b := &BeatClock{lookahead: lookahead}
	b.SetTempo(bpm)
	return b
}

// SetTempo changes the tempo and rewinds.
func (b *BeatClock) SetTempo(bpm float64) {
	if bpm <= 0 {
		bpm = 120
	}
	b.spb = 60 / bpm
	b.Reset()
}

// Reset rewinds to the first full beat. Nothing fires at t=0, so after T
// seconds the count stays within one of floor(T/spb) for any lookahead
// shorter than a beat.
func (b *BeatClock) Reset() {
	b.next = b.spb
	b.count = 0
	b.skipped = 0
}

// Advance fires onBeat for every beat scheduled before t+lookahead and
// returns how many fired.
func (b *BeatClock) Advance(t float64, onBeat func(beat int)) int {
	if math.IsNaN(t) {
		return 0
	}
	n := 0
	for b.next < t+b.lookahead {
		if n == maxCatchUp {
			missed := int(math.Floor((t+b.lookahead-b.next)/b.spb)) + 1
			b.next += float64(missed) * b.spb
			b.skipped += missed
			break
		}
		if onBeat != nil {
			onBeat(b.count)
		}
		b.count++
		b.next += b.spb
		n++
	}
	return n
}

// Phase returns the position inside the current beat in [0, 1).
func (b *BeatClock) Phase(t float64) float64 {
	if t <= 0 {
		return 0
	}
	_, frac := math.Modf(t / b.spb)
	return frac
}

// Count returns the number of beats fired since Reset.
func (b *BeatClock) Count() int {
	return b.count
}

// Skipped returns beats dropped by the catch-up bound.
func (b *BeatClock) Skipped() int {
	return b.skipped
}

// SecondsPerBeat returns the beat period.
func (b *BeatClock) SecondsPerBeat() float64 {
	return b.spb
}
