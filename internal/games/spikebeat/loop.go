package spikebeat

import (
	"context"
	"sync"
	"time"
)

// Loop is the owned game loop. Each Start hands out a new generation; ticks
// scheduled by an older generation are rejected by Accept, so Stop takes
// effect immediately even if a tick is already in flight.
type Loop struct {
	mu      sync.Mutex
	gen     uint64
	running bool
}

// NewLoop creates a stopped loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Start begins a new generation and returns its token.
func (l *Loop) Start() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.running = true
	return l.gen
}

// Stop invalidates the current generation.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.running = false
}

// Running reports whether a generation is live.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Accept reports whether a tick carrying gen belongs to the live generation.
// Hosts step the simulation by the fixed tick, not by wall-clock time.
func (l *Loop) Accept(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running && gen == l.gen
}

// Run calls fn once per tick at fps until ctx is cancelled, Stop is called,
// or fn returns false. fn receives the fixed tick duration in seconds.
func (l *Loop) Run(ctx context.Context, fps int, fn func(dt float64) bool) error {
	if fps <= 0 {
		fps = 60
	}
	gen := l.Start()
	defer func() {
		l.mu.Lock()
		if l.gen == gen {
			l.running = false
		}
		l.mu.Unlock()
	}()

	interval := time.Second / time.Duration(fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !l.Accept(gen) {
				return nil
			}
			if !fn(dt) {
				return nil
			}
		}
	}
}
