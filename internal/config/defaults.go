package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/bounce.yaml
var defaultBounceYAML []byte

//go:embed defaults/dodge.yaml
var defaultDodgeYAML []byte

//go:embed defaults/basket.yaml
var defaultBasketYAML []byte

//go:embed defaults/rain.yaml
var defaultRainYAML []byte

// DefaultBounceConfig returns the default Last Ball Standing configuration.
func DefaultBounceConfig() BounceConfig {
	return BounceConfig{
		Arena: BounceArena{
			Radius:    200,
			GapWidth:  30,
			GapSpeed:  2,
			SawReach:  0,
			SawSpin:   0.10,
			SawRadius: 12,
		},
		Balls: BounceBalls{
			Radius:     15,
			Speed:      5,
			Capacity:   50,
			Initial:    2,
			SpawnEvery: 100 * time.Millisecond,
			FadeIn:     time.Second,
			FadeOut:    time.Second,
			Grace:      time.Second,
		},
		Rules: BounceRules{
			WinDelay:    6 * time.Second,
			MusicVolume: 0.5,
		},
	}
}

// DefaultDodgeConfig returns the default Ball of Duty configuration.
func DefaultDodgeConfig() DodgeConfig {
	return DodgeConfig{
		Lane: DodgeLane{
			HalfWidth:   4,
			Length:      50,
			PlayerZ:     1,
			PlayerSpeed: 0.1,
			PlayerStart: 1,
		},
		Bullets: DodgeBullets{
			Speed:    0.5,
			Range:    50,
			HitSlack: 0.2,
			Capacity: 64,
		},
		Enemies: DodgeEnemies{
			Capacity:       200,
			MinRadius:      0.6,
			MaxRadius:      1.4,
			Speed:          0.1,
			SpawnNear:      20,
			SpawnFar:       50,
			SpawnEvery:     180 * time.Millisecond,
			LateSpawnEvery: 800 * time.Millisecond,
			RemoveAfter:    500 * time.Millisecond,
		},
		Rules: DodgeRules{
			SurviveFor: 30 * time.Second,
			Countdown:  5 * time.Second,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 1800, // 30 s of frames
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   0.5,
				IntervalReduction: 0.3,
			},
		},
	}
}

// DefaultBasketConfig returns the default Basket Catch configuration.
func DefaultBasketConfig() BasketConfig {
	return BasketConfig{
		Field: BasketField{
			Width:  360,
			Height: 640,
		},
		Basket: BasketBasket{
			Width:  100,
			Height: 20,
			Speed:  3,
			Line:   0.8,
		},
		Balls: BasketBalls{
			Radius:     10,
			Speed:      2,
			SpawnEvery: 500 * time.Millisecond,
			MaxLive:    3,
			Budget:     12,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type: "none",
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				BudgetReduction: 6,
			},
		},
	}
}

// DefaultRainConfig returns the default Audio Rain configuration.
func DefaultRainConfig() RainConfig {
	return RainConfig{
		Height: 600,
		Shapes: RainShapes{
			Count:       114,
			MinSize:     10,
			MaxSize:     30,
			TriangleMin: 20,
			TriangleMax: 35,
			MaxSpeed:    1,
			MaxSpin:     0.01,
		},
		Drops: RainDrops{
			Count:    1000,
			MinSpeed: 1,
			MaxSpeed: 4,
		},
		Recolor:   5 * time.Second,
		RainEvery: 2 * time.Minute,
		Bars:      true,
	}
}
