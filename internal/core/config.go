package core

import "time"

// TimeStep selects how simulated time advances per tick.
type TimeStep string

const (
	// TimeStepFixed advances exactly one reference frame per tick, tying
	// simulation speed to the tick rate.
	TimeStepFixed TimeStep = "fixed"

	// TimeStepDelta scales each tick by the measured wall-clock interval.
	TimeStepDelta TimeStep = "delta"
)

// ReferenceFrame is the duration of one simulation frame at 60 Hz.
// Entity velocities are expressed in world units per reference frame.
const ReferenceFrame = time.Second / 60

// MaxFrameStep caps the dt of a single delta tick so a stalled terminal
// does not tunnel entities through walls.
const MaxFrameStep = 4.0

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int      // Screen width in characters
	ScreenH  int      // Screen height in characters
	TickRate int      // Simulation ticks per second (default 60)
	Seed     int64    // RNG seed for deterministic gameplay
	TimeStep TimeStep // Fixed or delta-scaled integration

	// CellAspect is the height/width ratio of one screen unit:
	// 2 for terminal cells, 1 for window pixels.
	CellAspect float64

	ConfigPath string // Custom game config YAML, empty for the search order
	Difficulty string // Difficulty preset name, empty for the config's own
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
		TimeStep: TimeStepFixed,

		CellAspect: TerminalCellAspect,
	}
}

// TerminalCellAspect is the approximate height/width ratio of a terminal cell.
const TerminalCellAspect = 2.0

// ViewAspect returns the width/height ratio of the viewport in square units.
func (c RuntimeConfig) ViewAspect() float64 {
	aspect := c.CellAspect
	if aspect <= 0 {
		aspect = TerminalCellAspect
	}
	if c.ScreenW <= 0 || c.ScreenH <= 0 {
		return 16.0 / 9.0
	}
	return float64(c.ScreenW) / (float64(c.ScreenH) * aspect)
}

// FrameStep converts a measured tick interval into a dt in reference frames.
// Fixed time stepping always returns 1.
func (c RuntimeConfig) FrameStep(elapsed time.Duration) float64 {
	if c.TimeStep != TimeStepDelta || elapsed <= 0 {
		return 1
	}
	dt := float64(elapsed) / float64(ReferenceFrame)
	return ClampF(dt, 0, MaxFrameStep)
}

// Phase is the play-session state observed by presentation.
type Phase int

const (
	PhaseRunning    Phase = iota // Simulation live
	PhaseWinPending              // Win condition met, waiting out the delay
	PhaseWon                     // Terminal: player/survivor won
	PhaseLost                    // Terminal: lose trigger fired
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseWinPending:
		return "win-pending"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends the session.
func (p Phase) Terminal() bool {
	return p == PhaseWon || p == PhaseLost
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score      int           // Current score
	GameOver   bool          // Whether the game has ended (Won or Lost)
	Paused     bool          // Whether the game is paused
	Phase      Phase         // Session phase
	Countdown  int           // Visible countdown value, 0 when none
	Elapsed    time.Duration // Simulated time since reset
	Population int           // Live entities counted by the win/lose rules
}

// Cue identifies a sound the platform should play.
type Cue string

// Sound cues shared by the toys.
const (
	CueBeep   Cue = "beep"
	CueDeath  Cue = "death"
	CueDead   Cue = "dead"
	CueWin    Cue = "win"
	CueLose   Cue = "lose"
	CueMusic  Cue = "music"
	CueSpawn  Cue = "spawn"
	CueHit    Cue = "hit"
	CueBounce Cue = "bounce"
	CueBullet Cue = "bullet"
	CueShapes Cue = "shapes"
	CueRain   Cue = "rain"
	CueRain2  Cue = "rain2"
)

// CueRequest is a single fire-and-forget audio trigger produced by a step.
type CueRequest struct {
	Cue    Cue
	Volume float64 // 0 = silent, 1 = full
	Stop   bool    // Stop the cue instead of playing it
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any audio cues that fired.
type StepResult struct {
	State GameState
	Cues  []CueRequest
}
