package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Metronome generates a click track at a fixed tempo. Every fourth beat is
// accented. It implements beep.StreamSeeker so it can stand in for a decoded
// music file.
type Metronome struct {
	sr    beep.SampleRate
	beat  int // samples per beat
	click int // samples per click
	pos   int
	len   int
}

// NewMetronome creates a click track of the given length.
func NewMetronome(sr beep.SampleRate, bpm float64, length time.Duration) *Metronome {
	if bpm <= 0 {
		bpm = 120
	}
	beat := int(math.Round(float64(sr) * 60 / bpm))
	if beat < 1 {
		beat = 1
	}
	return &Metronome{
		sr:    sr,
		beat:  beat,
		click: sr.N(30 * time.Millisecond),
		len:   sr.N(length),
	}
}

// Stream implements beep.Streamer.
func (m *Metronome) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if m.pos >= m.len {
			return i, i > 0
		}
		off := m.pos % m.beat
		v := 0.0
		if off < m.click {
			freq := 880.0
			if (m.pos/m.beat)%4 == 0 {
				freq = 1320
			}
			t := float64(off) / float64(m.sr)
			env := 1 - float64(off)/float64(m.click)
			v = 0.3 * env * math.Sin(2*math.Pi*freq*t)
			// Low thump under the click so the energy tap has something to follow.
			v += 0.4 * env * math.Sin(2*math.Pi*70*t)
		}
		samples[i][0] = v
		samples[i][1] = v
		m.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (m *Metronome) Err() error { return nil }

// Len implements beep.StreamSeeker.
func (m *Metronome) Len() int { return m.len }

// Position implements beep.StreamSeeker.
func (m *Metronome) Position() int { return m.pos }

// Seek implements beep.StreamSeeker.
func (m *Metronome) Seek(p int) error {
	if p < 0 || p > m.len {
		return fmt.Errorf("metronome: seek %d out of range [0, %d]", p, m.len)
	}
	m.pos = p
	return nil
}
