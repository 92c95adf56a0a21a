package config

import "time"

// minInterval keeps spawn schedulers from running with a zero period.
const minInterval = 10 * time.Millisecond

// DifficultyManager turns a difficulty block into live game parameters.
// The level starts at InitialLevel and climbs linearly to 1 as score or
// frames approach Progression.MaxAt.
type DifficultyManager struct {
	cfg   DifficultyConfig
	start float64
}

// NewDifficultyManager creates a manager for cfg.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg, start: clamp01(cfg.InitialLevel)}
}

// SetEnabled turns progression on or off.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled reports whether the level progresses at all.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// progress is how far along the progression axis the game is, in [0, 1].
func (d *DifficultyManager) progress(score, frames int) float64 {
	var at float64
	switch d.cfg.Progression.Type {
	case "score":
		at = float64(score)
	case "time":
		at = float64(frames)
	default:
		return 0
	}
	return clamp01(at / max(float64(d.cfg.Progression.MaxAt), 1))
}

// Level returns the difficulty level in [0, 1].
func (d *DifficultyManager) Level(score, frames int) float64 {
	if !d.IsEnabled() {
		return d.start
	}
	return d.start + d.progress(score, frames)*(1-d.start)
}

// Speed scales a base speed up with the level.
func (d *DifficultyManager) Speed(base float64, score, frames int) float64 {
	return base * (1 + d.Level(score, frames)*d.cfg.Scaling.SpeedMultiplier)
}

// Interval shortens a spawn interval with the level, by at most 90%.
func (d *DifficultyManager) Interval(base time.Duration, score, frames int) time.Duration {
	cut := min(d.Level(score, frames)*d.cfg.Scaling.IntervalReduction, 0.9)
	return max(time.Duration(float64(base)*(1-max(cut, 0))), minInterval)
}

// Budget shrinks a spawn budget with the level, never below 1.
func (d *DifficultyManager) Budget(base, score, frames int) int {
	return max(base-int(d.Level(score, frames)*float64(d.cfg.Scaling.BudgetReduction)), 1)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
