package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickSeconds returns the fixed tick duration in seconds.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int    // Current progress percentage
	GameOver bool   // Whether the current attempt has ended (dead or complete)
	Phase    string // Run phase name: home, playing, dead, complete
}

// RunOutcome describes one finished attempt, reported once when it ends.
type RunOutcome struct {
	Level    string  // Level name
	Index    int     // Level index
	Outcome  string  // "dead", "complete" or "abandoned"
	Attempt  int     // 1-based attempt number
	Progress float64 // 0-100
	Duration float64 // Seconds of play
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any attempts that finished this tick.
type StepResult struct {
	State    GameState
	Outcomes []RunOutcome
}
