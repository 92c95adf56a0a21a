// Package dodge implements Ball of Duty: steer a ball along a lane and
// shoot the enemy balls rolling towards you. Survive the timer to win.
package dodge

import (
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/config"
	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/sim"
)

// ID is the registry and score key of the game.
const ID = "dodge"

const (
	kindPlayer sim.Kind = iota + 1
	kindBullet
	kindEnemy
)

const (
	playerRadius = 1.0
	bulletSize   = 0.2
	flatHeight   = 0.5 // height of a hit enemy
)

// Cue volumes.
const (
	volMusic  = 0.5
	volBullet = 0.2
	volDeath  = 0.8
	volDead   = 0.2
	volEnd    = 0.5
)

var banner = sim.Banner{
	Won:       "YOU WIN!",
	Lost:      "YOU LOSE!",
	WonColor:  core.ColorMagenta,
	LostColor: core.ColorWhite,
}

// Game implements Ball of Duty.
type Game struct {
	runtime    core.RuntimeConfig
	cfg        config.DodgeConfig
	difficulty *config.DifficultyManager

	sess     *sim.Session
	player   sim.EntityID
	spawner  sim.JobID
	interval time.Duration // current spawner period

	view     view
	input    core.InputFrame
	fireHeld bool
	late     bool    // survival timer ran out, countdown running
	scroll   float64 // lane texture offset
	score    int
	paused   bool
}

// New creates a new Ball of Duty instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Ball of Duty"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	preset, _ := config.ParsePreset(runtime.Difficulty)
	cfg, err := config.LoadDodge(runtime.ConfigPath, preset)
	if err != nil {
		cfg = config.DefaultDodgeConfig()
		config.ApplyPreset(&cfg.Difficulty, preset)
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.view = newView(runtime.ViewAspect())

	capacity := 1 + cfg.Bullets.Capacity + cfg.Enemies.Capacity
	g.sess = sim.NewSession(capacity, runtime.Seed, cfg.Rules.Countdown)
	g.input = core.NewInputFrame()
	g.fireHeld = false
	g.late = false
	g.scroll = 0
	g.score = 0
	g.paused = false

	g.player, _ = g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindPlayer
		e.Shape = sim.ShapeCircle
		e.Pos = core.V3(cfg.Lane.PlayerStart, playerRadius, cfg.Lane.PlayerZ)
		e.Radius = playerRadius
		e.Color = core.ColorMagenta
	})

	g.sess.Machine.OnTerminal(g.onTerminal)
	g.sess.Cue(core.CueMusic, volMusic)

	g.interval = g.difficulty.Interval(cfg.Enemies.SpawnEvery, 0, 0)
	g.spawner = g.sess.Sched.Every(g.interval, g.spawnTick)
	g.sess.Sched.After(cfg.Rules.SurviveFor, g.startCountdown)
}

// Resize adapts the projection to a new viewport.
func (g *Game) Resize(runtime core.RuntimeConfig) {
	g.runtime.ScreenW, g.runtime.ScreenH = runtime.ScreenW, runtime.ScreenH
	g.runtime.CellAspect = runtime.CellAspect
	g.view = newView(g.runtime.ViewAspect())
}

// startCountdown switches to the late phase: slower spawns, respawn on
// kill and the win countdown.
func (g *Game) startCountdown() {
	g.late = true
	g.sess.Machine.Arm(g.sess.Now())
	g.sess.Sched.Cancel(g.spawner)
	g.spawner = g.sess.Sched.Every(g.cfg.Enemies.LateSpawnEvery, func() { g.spawnEnemy() })
}

// spawnTick spawns an enemy and re-arms the spawner once the level has
// moved the interval.
func (g *Game) spawnTick() {
	g.spawnEnemy()
	next := g.difficulty.Interval(g.cfg.Enemies.SpawnEvery, g.score, int(g.sess.Frame()))
	if next == g.interval {
		return
	}
	g.interval = next
	g.sess.Sched.Cancel(g.spawner)
	g.spawner = g.sess.Sched.Every(next, g.spawnTick)
}

func (g *Game) spawnEnemy() {
	c := g.cfg.Enemies
	if g.sess.Store.Count(isEnemy) >= c.Capacity {
		return
	}
	rng := g.sess.RNG
	size := rng.Float64()*(c.MaxRadius-c.MinRadius) + c.MinRadius
	x := rng.Float64()*2*g.cfg.Lane.HalfWidth - g.cfg.Lane.HalfWidth
	z := -(rng.Float64()*(c.SpawnFar-c.SpawnNear) + c.SpawnNear)
	col := core.RandomVivid(rng)
	speed := g.difficulty.Speed(c.Speed, g.score, int(g.sess.Frame()))
	now := g.sess.Now()

	g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindEnemy
		e.Shape = sim.ShapeCircle
		e.Pos = core.V3(x, size, z)
		e.Vel = core.V3(0, 0, speed)
		e.Radius = size
		e.Color = col
		e.SpawnedAt = now
	})
}

func (g *Game) fire() {
	p, ok := g.sess.Store.Get(g.player)
	if !ok || g.sess.Store.Count(isBullet) >= g.cfg.Bullets.Capacity {
		return
	}
	g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindBullet
		e.Shape = sim.ShapeBox
		e.Pos = p.Pos
		e.Vel = core.V3(0, 0, -g.cfg.Bullets.Speed)
		e.Radius = bulletSize / 2
		e.Size = core.V2(bulletSize, bulletSize)
		e.Color = core.ColorYellow
		e.SpawnedAt = g.sess.Now()
	})
	g.sess.Cue(core.CueBullet, volBullet)
}

// Physics steers the player, moves bullets and enemies and resolves hits.
func (g *Game) Physics(s *sim.Session, dt float64) {
	lane := g.cfg.Lane
	s.Store.Update(g.player, func(e *sim.Entity) {
		step := lane.PlayerSpeed * dt
		if g.input.Has(core.ActionLeft) {
			e.Pos.X -= step
		}
		if g.input.Has(core.ActionRight) {
			e.Pos.X += step
		}
		e.Pos.X = core.ClampF(e.Pos.X, -lane.HalfWidth, lane.HalfWidth)
	})

	firing := g.input.Has(core.ActionFire)
	if firing && !g.fireHeld {
		g.fire()
	}
	g.fireHeld = firing

	g.scroll += 0.05 * dt

	s.Store.Each(func(e *sim.Entity) {
		if e.Kind == kindPlayer || e.Hit {
			return
		}
		sim.Integrate(e, dt)
		if e.Kind == kindBullet && e.Pos.Z < -g.cfg.Bullets.Range {
			e.Removed = true
		}
	})

	g.resolveHits(s)
}

// resolveHits flattens every enemy touched by a bullet. Kill respawns are
// spawned after the scan so the store is not grown mid-iteration.
func (g *Game) resolveHits(s *sim.Session) {
	now := s.Now()
	slack := g.cfg.Bullets.HitSlack
	respawn := 0

	s.Store.Each(func(enemy *sim.Entity) {
		if enemy.Kind != kindEnemy || enemy.Hit {
			return
		}
		s.Store.Each(func(b *sim.Entity) {
			if b.Kind != kindBullet || b.Removed || enemy.Hit {
				return
			}
			if b.Pos.Dist(enemy.Pos) >= enemy.Radius+slack {
				return
			}
			b.Removed = true
			enemy.Hit = true
			enemy.Vel = core.Vec3{}
			enemy.Shape = sim.ShapeBox
			enemy.Size = core.V2(2*enemy.Radius, flatHeight)
			enemy.Pos.Y = flatHeight / 2
			enemy.Color = core.RandomVivid(s.RNG)
			enemy.TTL = enemy.Age(now) + g.cfg.Enemies.RemoveAfter
			g.score++
			s.Cue(core.CueDeath, volDeath)
			if g.late {
				respawn++
			}
		})
	})

	for range respawn {
		g.spawnEnemy()
	}
}

// Judge loses the session when an enemy reaches the player's line.
func (g *Game) Judge(s *sim.Session) {
	breached := s.Store.Count(func(e *sim.Entity) bool {
		return e.Kind == kindEnemy && !e.Hit && e.Pos.Z > 0
	})
	if breached > 0 {
		s.Cue(core.CueDead, volDead)
		s.Machine.Lose(s.Now())
	}
}

func (g *Game) onTerminal(p core.Phase) {
	g.sess.StopCue(core.CueMusic)
	if p == core.PhaseWon {
		g.sess.Cue(core.CueWin, volEnd)
	} else {
		g.sess.Cue(core.CueLose, volEnd)
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) && g.sess.Machine.Terminal() {
		// The next match is seeded from this one, so replays still reproduce it.
		g.runtime.Seed = g.sess.RNG.Int63()
		g.Reset(g.runtime)
		return core.StepResult{State: g.State(), Cues: g.sess.DrainCues()}
	}
	if in.Has(core.ActionPause) && !g.sess.Machine.Terminal() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.input = in
	g.sess.Step(in.Step(), g)
	return core.StepResult{State: g.State(), Cues: g.sess.DrainCues()}
}

// State returns the current game state.
// Seed returns the seed of the current match.
func (g *Game) Seed() int64 {
	return g.runtime.Seed
}

func (g *Game) State() core.GameState {
	m := g.sess.Machine
	return core.GameState{
		Score:      g.score,
		GameOver:   m.Terminal(),
		Paused:     g.paused,
		Phase:      m.Phase(),
		Countdown:  m.Countdown(g.sess.Now()),
		Elapsed:    g.sess.Elapsed(),
		Population: g.sess.Store.Count(isEnemy),
	}
}

// Snapshot returns the session state for determinism checks.
func (g *Game) Snapshot() sim.Snapshot {
	return g.sess.Snapshot()
}

func isEnemy(e *sim.Entity) bool  { return e.Kind == kindEnemy }
func isBullet(e *sim.Entity) bool { return e.Kind == kindBullet }

func init() {
	registry.Register(ID, func() registry.Game { return New() })
}
