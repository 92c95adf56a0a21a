// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

import "time"

// BounceConfig contains all configuration for Last Ball Standing.
type BounceConfig struct {
	Arena BounceArena `yaml:"arena"`
	Balls BounceBalls `yaml:"balls"`
	Rules BounceRules `yaml:"rules"`
}

// BounceArena defines the circular wall, its gap and the saw.
type BounceArena struct {
	Radius    float64 `yaml:"radius"`
	GapWidth  float64 `yaml:"gap_width"`  // degrees
	GapSpeed  float64 `yaml:"gap_speed"`  // degrees per frame
	SawReach  float64 `yaml:"saw_reach"`  // kill reach beyond the ball radius
	SawSpin   float64 `yaml:"saw_spin"`   // radians per frame, cosmetic
	SawRadius float64 `yaml:"saw_radius"` // drawn size
}

// BounceBalls defines ball spawning and fading.
type BounceBalls struct {
	Radius     float64       `yaml:"radius"`
	Speed      float64       `yaml:"speed"`
	Capacity   int           `yaml:"capacity"`
	Initial    int           `yaml:"initial"`
	SpawnEvery time.Duration `yaml:"spawn_every"`
	FadeIn     time.Duration `yaml:"fade_in"`
	FadeOut    time.Duration `yaml:"fade_out"`
	Grace      time.Duration `yaml:"grace"`
}

// BounceRules defines the win condition.
type BounceRules struct {
	WinDelay    time.Duration `yaml:"win_delay"`
	MusicVolume float64       `yaml:"music_volume"`
}

// DodgeConfig contains all configuration for Ball of Duty.
type DodgeConfig struct {
	Lane       DodgeLane        `yaml:"lane"`
	Bullets    DodgeBullets     `yaml:"bullets"`
	Enemies    DodgeEnemies     `yaml:"enemies"`
	Rules      DodgeRules       `yaml:"rules"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// DodgeLane defines the lane and the protagonist.
type DodgeLane struct {
	HalfWidth   float64 `yaml:"half_width"`
	Length      float64 `yaml:"length"`
	PlayerZ     float64 `yaml:"player_z"`
	PlayerSpeed float64 `yaml:"player_speed"`
	PlayerStart float64 `yaml:"player_start"`
}

// DodgeBullets defines bullet movement and hit detection.
type DodgeBullets struct {
	Speed    float64 `yaml:"speed"`
	Range    float64 `yaml:"range"`
	HitSlack float64 `yaml:"hit_slack"`
	Capacity int     `yaml:"capacity"`
}

// DodgeEnemies defines enemy spawning.
type DodgeEnemies struct {
	Capacity       int           `yaml:"capacity"`
	MinRadius      float64       `yaml:"min_radius"`
	MaxRadius      float64       `yaml:"max_radius"`
	Speed          float64       `yaml:"speed"`
	SpawnNear      float64       `yaml:"spawn_near"`
	SpawnFar       float64       `yaml:"spawn_far"`
	SpawnEvery     time.Duration `yaml:"spawn_every"`
	LateSpawnEvery time.Duration `yaml:"late_spawn_every"`
	RemoveAfter    time.Duration `yaml:"remove_after"`
}

// DodgeRules defines the survival timer.
type DodgeRules struct {
	SurviveFor time.Duration `yaml:"survive_for"`
	Countdown  time.Duration `yaml:"countdown"`
}

// BasketConfig contains all configuration for Basket Catch.
type BasketConfig struct {
	Field      BasketField      `yaml:"field"`
	Basket     BasketBasket     `yaml:"basket"`
	Balls      BasketBalls      `yaml:"balls"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BasketField defines the playfield size.
type BasketField struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BasketBasket defines the moving basket.
type BasketBasket struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"`
	Line   float64 `yaml:"line"` // bottom edge as a fraction of field height
}

// BasketBalls defines ball spawning and the spawn budget.
type BasketBalls struct {
	Radius     float64       `yaml:"radius"`
	Speed      float64       `yaml:"speed"`
	SpawnEvery time.Duration `yaml:"spawn_every"`
	MaxLive    int           `yaml:"max_live"`
	Budget     int           `yaml:"budget"`
}

// RainConfig contains all configuration for Audio Rain.
type RainConfig struct {
	Height    float64       `yaml:"height"` // world height; width follows the viewport
	Shapes    RainShapes    `yaml:"shapes"`
	Drops     RainDrops     `yaml:"drops"`
	Recolor   time.Duration `yaml:"recolor"`
	RainEvery time.Duration `yaml:"rain_every"`
	Bars      bool          `yaml:"bars"`
}

// RainShapes defines the bouncing shapes.
type RainShapes struct {
	Count       int     `yaml:"count"`
	MinSize     float64 `yaml:"min_size"`
	MaxSize     float64 `yaml:"max_size"`
	TriangleMin float64 `yaml:"triangle_min"`
	TriangleMax float64 `yaml:"triangle_max"`
	MaxSpeed    float64 `yaml:"max_speed"`
	MaxSpin     float64 `yaml:"max_spin"`
}

// RainDrops defines the falling streaks.
type RainDrops struct {
	Count    int     `yaml:"count"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // Multiplier added to speed at max difficulty
	IntervalReduction float64 `yaml:"interval_reduction"` // Fraction of a spawn interval removed at max difficulty
	BudgetReduction   int     `yaml:"budget_reduction"`   // Spawn budget removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means no preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", ErrUnknownPreset
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset adjusts a difficulty block for a preset. An empty preset
// leaves the config untouched.
func ApplyPreset(cfg *DifficultyConfig, preset DifficultyPreset) {
	switch {
	case preset == "":
		return
	case IsFixedPreset(preset):
		cfg.Enabled = false
	default:
		cfg.Enabled = true
		cfg.InitialLevel = InitialLevelForPreset(preset)
	}
}
