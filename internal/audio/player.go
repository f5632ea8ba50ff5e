package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const (
	// OutputRate is the sample rate the speaker is initialized with.
	OutputRate = beep.SampleRate(44100)

	// energyCutoff is the low-pass cutoff for the kick/bass band, in Hz.
	energyCutoff = 150
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker initializes the shared speaker exactly once per process.
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(OutputRate, OutputRate.N(time.Second/10))
	})
	return speakerErr
}

// Player is a Transport backed by the system speaker.
type Player struct {
	mu     sync.Mutex
	src    beep.StreamSeeker
	format beep.Format
	closer io.Closer

	ctrl    *beep.Ctrl
	tap     *EnergyTap
	queued  atomic.Bool // chain is registered with the speaker
	ended   atomic.Bool
	closed  atomic.Bool
	seekErr error
}

// releasable drops out of the speaker mixer once its player is closed.
type releasable struct {
	beep.Streamer
	closed *atomic.Bool
}

func (r releasable) Stream(samples [][2]float64) (int, bool) {
	if r.closed.Load() {
		return 0, false
	}
	return r.Streamer.Stream(samples)
}

// NewPlayer wraps an already-decoded stream.
func NewPlayer(src beep.StreamSeeker, format beep.Format) *Player {
	p := &Player{src: src, format: format}

	var s beep.Streamer = src
	if format.SampleRate != OutputRate {
		s = beep.Resample(4, format.SampleRate, OutputRate, s)
	}
	p.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	p.tap = NewEnergyTap(p.ctrl, OutputRate, energyCutoff)
	return p
}

// OpenFile decodes an mp3 or wav file.
func OpenFile(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("unsupported format %q", filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}

	p := NewPlayer(s, format)
	p.closer = s
	return p, nil
}

// NewMetronomePlayer creates a click-track player for levels without music.
func NewMetronomePlayer(bpm float64, length time.Duration) *Player {
	format := beep.Format{SampleRate: OutputRate, NumChannels: 2, Precision: 2}
	return NewPlayer(NewMetronome(OutputRate, bpm, length), format)
}

// Play starts or resumes playback. It fails after Close and after a Reset
// that could not rewind the source.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed.Load() {
		return fmt.Errorf("%w: player closed", ErrPlayback)
	}
	if p.seekErr != nil {
		return fmt.Errorf("%w: rewind: %v", ErrPlayback, p.seekErr)
	}
	if err := initSpeaker(); err != nil {
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}

	if !p.queued.Load() && !p.ended.Load() {
		p.queued.Store(true)
		speaker.Play(releasable{
			Streamer: beep.Seq(p.tap, beep.Callback(func() {
				p.ended.Store(true)
				p.queued.Store(false)
			})),
			closed: &p.closed,
		})
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Stop pauses playback. Holding the speaker lock guarantees the output
// goroutine is not mid-read when Stop returns.
func (p *Player) Stop() {
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

// Reset rewinds to the start. A failed rewind is reported by the next Play.
func (p *Player) Reset() {
	speaker.Lock()
	err := p.src.Seek(0)
	speaker.Unlock()

	p.mu.Lock()
	p.seekErr = err
	p.mu.Unlock()
	p.ended.Store(false)
}

// Position returns the playback position in seconds.
func (p *Player) Position() float64 {
	speaker.Lock()
	pos := p.src.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos).Seconds()
}

// Ended reports whether the track played to its end.
func (p *Player) Ended() bool {
	return p.ended.Load()
}

// Duration returns the track length.
func (p *Player) Duration() (float64, bool) {
	n := p.src.Len()
	if n <= 0 {
		return 0, false
	}
	return p.format.SampleRate.D(n).Seconds(), true
}

// Energy returns the low-band level of the last buffer sent to the speaker.
func (p *Player) Energy() float64 {
	return p.tap.Energy()
}

// Close stops playback, detaches the stream from the speaker mixer and
// releases the decoder.
func (p *Player) Close() error {
	speaker.Lock()
	p.ctrl.Paused = true
	p.closed.Store(true)
	speaker.Unlock()
	p.queued.Store(false)

	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
