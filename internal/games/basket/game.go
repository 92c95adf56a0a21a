// Package basket implements Basket Catch: balls drop from the top of a
// portrait field while a basket slides between the walls. Any ball landing
// in the basket wins; running out of balls loses.
package basket

import (
	"fmt"

	"github.com/vovakirdan/canvas-arcade/internal/config"
	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/sim"
)

// ID is the registry and score key of the game.
const ID = "basket"

const (
	kindBasket sim.Kind = iota + 1
	kindBall
)

// Cue volumes.
const (
	volMusic  = 0.5
	volSpawn  = 0.6
	volBounce = 0.4
	volHit    = 0.5
	volEnd    = 0.8
)

var banner = sim.Banner{
	Won:       "YOU WIN",
	Lost:      "YOU LOSE",
	WonColor:  core.ColorWhite,
	LostColor: core.ColorWhite,
}

// Game implements Basket Catch.
type Game struct {
	runtime    core.RuntimeConfig
	cfg        config.BasketConfig
	difficulty *config.DifficultyManager

	sess    *sim.Session
	physics sim.Physics
	basket  sim.EntityID
	spawner sim.JobID

	budget  int // total balls this round
	spawned int
	paused  bool
}

// New creates a new Basket Catch instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Basket Catch"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	preset, _ := config.ParsePreset(runtime.Difficulty)
	cfg, err := config.LoadBasket(runtime.ConfigPath, preset)
	if err != nil {
		cfg = config.DefaultBasketConfig()
		config.ApplyPreset(&cfg.Difficulty, preset)
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.budget = g.difficulty.Budget(cfg.Balls.Budget, 0, 0)
	g.spawned = 0
	g.paused = false

	field := cfg.Field
	bounds := sim.NewBox(field.Width, field.Height)
	bounds.Bottom = sim.EdgeOpen
	g.physics = sim.Physics{Boundary: bounds, Moves: isBall}

	g.sess = sim.NewSession(1+cfg.Balls.MaxLive, runtime.Seed, 0)
	g.sess.Machine.OnTerminal(g.onTerminal)
	g.sess.Cue(core.CueMusic, volMusic)

	b := cfg.Basket
	g.basket, _ = g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindBasket
		e.Shape = sim.ShapeBox
		e.Pos = core.V3(field.Width/2, field.Height*b.Line-b.Height/2, 0)
		e.Vel = core.V3(b.Speed, 0, 0)
		e.Radius = b.Width / 2
		e.Size = core.V2(b.Width, b.Height)
		e.Color = core.ColorRed
	})

	g.spawner = g.sess.Sched.Every(cfg.Balls.SpawnEvery, g.spawnBall)
}

// spawnBall drops a ball from a random point on the top edge, unless the
// field already holds the maximum or the budget is spent.
func (g *Game) spawnBall() {
	if g.spawned >= g.budget {
		g.sess.Sched.Cancel(g.spawner)
		return
	}
	if g.sess.Store.Count(isBall) >= g.cfg.Balls.MaxLive {
		return
	}

	rng := g.sess.RNG
	x := rng.Float64() * g.cfg.Field.Width
	dir := 1.0
	if rng.Float64() <= 0.5 {
		dir = -1
	}
	speed := g.difficulty.Speed(g.cfg.Balls.Speed, 0, int(g.sess.Frame()))

	_, ok := g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindBall
		e.Shape = sim.ShapeCircle
		e.Pos = core.V3(x, 0, 0)
		e.Vel = core.V3(dir*speed, speed, 0)
		e.Radius = g.cfg.Balls.Radius
		e.Color = core.ColorWhite
		e.SpawnedAt = g.sess.Now()
	})
	if ok {
		g.spawned++
		g.sess.Cue(core.CueSpawn, volSpawn)
	}
}

// Physics slides the basket between the walls and moves the balls.
func (g *Game) Physics(s *sim.Session, dt float64) {
	width := g.cfg.Field.Width
	s.Store.Update(g.basket, func(e *sim.Entity) {
		sim.Integrate(e, dt)
		half := e.Size.X / 2
		switch {
		case e.Pos.X-half < 0:
			e.Pos.X, e.Vel.X = half, -e.Vel.X
		case e.Pos.X+half > width:
			e.Pos.X, e.Vel.X = width-half, -e.Vel.X
		default:
			return
		}
		s.Cue(core.CueHit, volHit)
	})

	rep := g.physics.Step(s.Store, s.Now(), dt)
	for _, ev := range rep.Events {
		// Top-edge contacts at spawn are not wall bounces.
		if ev.Outcome == sim.OutcomeReflected && ev.Pos.Y > g.cfg.Balls.Radius {
			s.Cue(core.CueBounce, volBounce)
		}
	}
}

// Judge wins on a ball inside the basket and loses once every ball of the
// budget has fallen out.
func (g *Game) Judge(s *sim.Session) {
	basket, ok := s.Store.Get(g.basket)
	if !ok {
		return
	}
	left := basket.Pos.X - basket.Size.X/2
	top := basket.Pos.Y - basket.Size.Y/2

	caught := s.Store.Count(func(e *sim.Entity) bool {
		return e.Kind == kindBall &&
			e.Pos.Y+e.Radius >= top && e.Pos.Y-e.Radius <= top+basket.Size.Y &&
			e.Pos.X >= left && e.Pos.X <= left+basket.Size.X
	})
	switch {
	case caught > 0:
		s.Cue(core.CueHit, volHit)
		s.Machine.Win(s.Now())
	case g.spawned >= g.budget && s.Store.Count(isBall) == 0:
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

	g.sess.Step(in.Step(), g)
	return core.StepResult{State: g.State(), Cues: g.sess.DrainCues()}
}

// Render draws the field, basket, balls and overlay.
func (g *Game) Render(dst core.Surface, ov core.Overlay) {
	f := g.cfg.Field
	dst.SetWorld(f.Width, f.Height)
	dst.Clear(core.ColorBlack)
	dst.DrawRect(core.V2(0, 0), f.Width, f.Height, core.ColorGray, false)

	now := g.sess.Now()
	sim.DrawAll(dst, g.sess.Store, now, nil)

	dst.DrawText(0, core.AlignCenter, fmt.Sprintf("Balls left: %d", g.budget-g.spawned), core.ColorWhite)
	if g.paused {
		dst.DrawText(-1, core.AlignCenter, "PAUSED", core.ColorYellow)
	}
	sim.PresentPhase(ov, g.sess.Machine, now, banner)
}

// State returns the current game state. A win scores one point plus every
// ball left unspent.
// Seed returns the seed of the current match.
func (g *Game) Seed() int64 {
	return g.runtime.Seed
}

func (g *Game) State() core.GameState {
	m := g.sess.Machine
	score := 0
	if m.Phase() == core.PhaseWon {
		score = 1 + g.budget - g.spawned
	}
	return core.GameState{
		Score:      score,
		GameOver:   m.Terminal(),
		Paused:     g.paused,
		Phase:      m.Phase(),
		Elapsed:    g.sess.Elapsed(),
		Population: g.sess.Store.Count(isBall),
	}
}

// Snapshot returns the session state for determinism checks.
func (g *Game) Snapshot() sim.Snapshot {
	return g.sess.Snapshot()
}

func isBall(e *sim.Entity) bool { return e.Kind == kindBall }

func init() {
	registry.Register(ID, func() registry.Game { return New() })
}
