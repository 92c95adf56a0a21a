// Package bounce implements Last Ball Standing: balls ricochet inside a
// circular wall with a rotating gap and a saw on the gap's start edge.
// The last ball left in the arena for the win delay is the winner.
package bounce

import (
	"fmt"
	"math"

	"github.com/vovakirdan/canvas-arcade/internal/config"
	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/sim"
)

// ID is the registry and score key of the game.
const ID = "bounce"

const kindBall sim.Kind = 1

// worldMargin is the world space kept around the arena.
const worldMargin = 1.25

// Cue volumes.
const (
	volBeep  = 0.3
	volDeath = 0.6
	volEnd   = 0.8
)

var banner = sim.Banner{
	Won:       "Winner!",
	Lost:      "No color survived this time",
	LostColor: core.ColorWhite,
}

// Game implements Last Ball Standing.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.BounceConfig

	sess    *sim.Session
	arena   *sim.Arena
	physics sim.Physics

	worldW, worldH float64
	wallColor      core.Color
	sawAngle       float64 // cosmetic rotation, radians
	survivor       core.Color
	eliminated     int
	paused         bool
}

// New creates a new Last Ball Standing instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Last Ball Standing"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadBounce(runtime.ConfigPath)
	if err != nil {
		cfg = config.DefaultBounceConfig()
	}
	g.cfg = cfg

	g.layout()
	g.arena = &sim.Arena{
		Center: core.V2(g.worldW/2, g.worldH/2),
		Radius: cfg.Arena.Radius,
		Gap:    sim.Gap{Center: 0, Width: cfg.Arena.GapWidth},
	}
	g.arena.Hazards = []sim.Hazard{{Angle: g.arena.Gap.Start(), Radius: cfg.Arena.SawReach}}
	g.physics = sim.Physics{
		Boundary: g.arena,
		Resolve:  sim.ResolvePair,
		Grace:    cfg.Balls.Grace,
	}

	g.sess = sim.NewSession(cfg.Balls.Capacity, runtime.Seed, cfg.Rules.WinDelay)
	g.wallColor = core.ColorWhite
	g.sawAngle = 0
	g.survivor = core.ColorWhite
	g.eliminated = 0
	g.paused = false

	g.sess.Machine.OnTerminal(g.onTerminal)
	g.sess.Cue(core.CueMusic, cfg.Rules.MusicVolume)

	for range cfg.Balls.Initial {
		g.spawnBall()
	}
	if cfg.Balls.SpawnEvery > 0 {
		var spawner sim.JobID
		spawner = g.sess.Sched.Every(cfg.Balls.SpawnEvery, func() {
			if !g.spawnBall() {
				g.sess.Sched.Cancel(spawner)
			}
		})
	}
}

// Resize re-centres the arena for a new viewport without restarting.
func (g *Game) Resize(runtime core.RuntimeConfig) {
	g.runtime.ScreenW, g.runtime.ScreenH = runtime.ScreenW, runtime.ScreenH
	g.runtime.CellAspect = runtime.CellAspect
	if g.arena == nil {
		return
	}
	old := g.arena.Center
	g.layout()
	g.arena.Center = core.V2(g.worldW/2, g.worldH/2)
	shift := g.arena.Center.Sub(old)
	g.sess.Store.Each(func(e *sim.Entity) {
		e.Pos = e.Pos.WithXY(e.Pos.XY().Add(shift))
	})
}

// layout sizes the world to the viewport aspect with the arena fully visible.
func (g *Game) layout() {
	side := 2 * g.cfg.Arena.Radius * worldMargin
	aspect := g.runtime.ViewAspect()
	if aspect >= 1 {
		g.worldH = side
		g.worldW = side * aspect
	} else {
		g.worldW = side
		g.worldH = side / aspect
	}
}

// spawnBall adds a ball at the arena centre with a random heading and hue.
// It reports false when the arena is full.
func (g *Game) spawnBall() bool {
	rng := g.sess.RNG
	heading := rng.Float64() * 360
	v := core.FromAngle(heading, g.cfg.Balls.Speed)
	col := core.RandomHue(rng)
	c := g.arena.Center
	now := g.sess.Now()

	_, ok := g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindBall
		e.Shape = sim.ShapeCircle
		e.Pos = core.V3(c.X, c.Y, 0)
		e.Vel = core.V3(v.X, v.Y, 0)
		e.Radius = g.cfg.Balls.Radius
		e.Color = col
		e.SpawnedAt = now
		e.FadeIn = g.cfg.Balls.FadeIn
		e.FadeOut = g.cfg.Balls.FadeOut
	})
	return ok
}

// Physics rotates the gap and saw, then moves and collides the balls.
func (g *Game) Physics(s *sim.Session, dt float64) {
	g.arena.Gap.Center = math.Mod(g.arena.Gap.Center+g.cfg.Arena.GapSpeed*dt, 360)
	g.arena.Hazards[0].Angle = g.arena.Gap.Start()
	g.sawAngle += g.cfg.Arena.SawSpin * dt

	rep := g.physics.Step(s.Store, s.Now(), dt)

	if rep.Count(sim.OutcomeReflected) > 0 {
		s.Cue(core.CueBeep, volBeep)
	}
	if len(rep.Contacts) > 0 {
		s.Cue(core.CueBeep, volBeep)
		g.wallColor = core.RandomHue(s.RNG)
	}
	if out := len(rep.Removed()); out > 0 {
		g.eliminated += out
		s.Cue(core.CueDeath, volDeath)
	}
}

// Judge applies the last-survivor rule.
func (g *Game) Judge(s *sim.Session) {
	n := 0
	s.Store.Each(func(e *sim.Entity) {
		if e.Live() {
			n++
			g.survivor = e.Color
		}
	})
	s.Machine.Survivors(n, s.Now())
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

// Render draws the arena, saw, balls, HUD and overlay.
func (g *Game) Render(dst core.Surface, ov core.Overlay) {
	dst.SetWorld(g.worldW, g.worldH)
	dst.Clear(core.ColorBlack)

	gap := g.arena.Gap
	dst.DrawArc(g.arena.Center, g.arena.Radius, gap.End(), gap.Start()+360, g.wallColor)
	dst.DrawPolygon(g.saw(), core.ColorGray, true)

	now := g.sess.Now()
	sim.DrawAll(dst, g.sess.Store, now, nil)

	st := g.State()
	dst.DrawText(0, core.AlignLeft, fmt.Sprintf("Balls: %d", st.Population), core.ColorWhite)
	dst.DrawText(0, core.AlignRight, fmt.Sprintf("Out: %d", st.Score), core.ColorWhite)
	if g.paused {
		dst.DrawText(-1, core.AlignCenter, "PAUSED", core.ColorYellow)
	}

	b := banner
	b.WonColor = g.survivor
	sim.PresentPhase(ov, g.sess.Machine, now, b)
}

// saw returns the saw blade outline around the hazard point.
func (g *Game) saw() []core.Vec2 {
	const teeth = 8
	r := g.cfg.Arena.SawRadius
	c := g.arena.HazardPos(g.arena.Hazards[0])
	pts := make([]core.Vec2, 0, teeth*2)
	for i := range teeth * 2 {
		l := r
		if i%2 == 1 {
			l = r * 0.55
		}
		a := core.Degrees(g.sawAngle) + float64(i)*180/teeth
		pts = append(pts, c.Add(core.FromAngle(a, l)))
	}
	return pts
}

// State returns the current game state.
// Seed returns the seed of the current match.
func (g *Game) Seed() int64 {
	return g.runtime.Seed
}

func (g *Game) State() core.GameState {
	m := g.sess.Machine
	return core.GameState{
		Score:      g.eliminated,
		GameOver:   m.Terminal(),
		Paused:     g.paused,
		Phase:      m.Phase(),
		Countdown:  m.Countdown(g.sess.Now()),
		Elapsed:    g.sess.Elapsed(),
		Population: g.sess.Store.Count((*sim.Entity).Live),
	}
}

// Snapshot returns the session state for determinism checks.
func (g *Game) Snapshot() sim.Snapshot {
	return g.sess.Snapshot()
}

func init() {
	registry.Register(ID, func() registry.Game { return New() })
}
