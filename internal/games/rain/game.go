// Package rain implements Audio Rain, a spectator toy: coloured shapes drift
// and bounce off each other while rain streaks fall over them. When the
// platform attaches spectrum analysers, triangle and drop hues follow the
// music and a bar chart of the rain track is drawn along the bottom.
package rain

import (
	"math"
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/config"
	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/sim"
)

// ID is the registry and score key of the toy.
const ID = "rain"

const (
	kindShape sim.Kind = iota + 1
	kindDrop
)

// Sound starts this long after reset.
const audioDelay = time.Second

// Cue volumes.
const (
	volShapes = 1.0
	volRain   = 0.5
)

// bandCount matches a 256-point FFT.
const bandCount = 128

// Game implements Audio Rain.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.RainConfig

	sess    *sim.Session
	physics sim.Physics // shapes
	rain    sim.Physics // drops
	width   float64

	shapeSpec core.Spectrum
	rainSpec  core.Spectrum
	bands     [bandCount]uint8

	paused bool
}

// New creates a new Audio Rain instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this toy.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this toy.
func (g *Game) Title() string {
	return "Audio Rain"
}

// Reset scatters the shapes and drops and schedules the soundtrack.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadRain(runtime.ConfigPath)
	if err != nil {
		cfg = config.DefaultRainConfig()
	}
	g.cfg = cfg
	g.paused = false
	g.layout()

	g.sess = sim.NewSession(max(1, cfg.Shapes.Count+cfg.Drops.Count), runtime.Seed, 0)
	for range cfg.Shapes.Count {
		g.spawnShape()
	}
	for range cfg.Drops.Count {
		g.spawnDrop()
	}

	g.sess.Sched.After(audioDelay, g.startAudio)
	if cfg.Recolor > 0 {
		g.sess.Sched.Every(cfg.Recolor, g.recolor)
	}
}

// layout sizes the world to the viewport: fixed height, width following
// the aspect ratio.
func (g *Game) layout() {
	g.width = g.cfg.Height * g.runtime.ViewAspect()
	g.physics = sim.Physics{
		Boundary: sim.NewBox(g.width, g.cfg.Height),
		Resolve:  sim.BouncePair,
		Moves:    isShape,
		Collides: isShape,
	}
	// Drops fall through a band one screen tall above the view and wrap
	// from the bottom back to its top. They are not confined sideways.
	g.rain = sim.Physics{
		Boundary: sim.Box{
			Min:    core.V2(math.Inf(-1), -g.cfg.Height),
			Max:    core.V2(math.Inf(1), g.cfg.Height),
			Top:    sim.EdgeWrap,
			Bottom: sim.EdgeWrap,
		},
		Moves: isDrop,
	}
}

// Resize re-lays-out the world for a new viewport. Shapes outside the new
// width bounce back in on the next step.
func (g *Game) Resize(runtime core.RuntimeConfig) {
	g.runtime.ScreenW, g.runtime.ScreenH = runtime.ScreenW, runtime.ScreenH
	g.runtime.CellAspect = runtime.CellAspect
	g.layout()
}

// AttachSpectrum connects the analyser of a playing cue.
func (g *Game) AttachSpectrum(cue core.Cue, s core.Spectrum) {
	switch cue {
	case core.CueShapes:
		g.shapeSpec = s
	case core.CueRain:
		g.rainSpec = s
	}
}

func (g *Game) startAudio() {
	g.sess.Cue(core.CueShapes, volShapes)
	g.playRain()
	if g.cfg.RainEvery > 0 {
		g.sess.Sched.Every(g.cfg.RainEvery, g.playRain)
	}
}

func (g *Game) playRain() {
	g.sess.Cue(core.CueRain, volRain)
	g.sess.Cue(core.CueRain2, volRain)
}

func (g *Game) spawnShape() {
	c := g.cfg.Shapes
	rng := g.sess.RNG
	size := rng.Float64()*(c.MaxSize-c.MinSize) + c.MinSize
	x := rng.Float64() * g.width
	y := rng.Float64() * g.cfg.Height
	shape := [...]sim.Shape{sim.ShapeCircle, sim.ShapeSquare, sim.ShapeTriangle}[rng.Intn(3)]
	if shape == sim.ShapeTriangle {
		size = rng.Float64()*(c.TriangleMax-c.TriangleMin) + c.TriangleMin
	}
	col := core.RandomHue(rng)
	vx := (rng.Float64()*2 - 1) * c.MaxSpeed
	vy := (rng.Float64()*2 - 1) * c.MaxSpeed
	spin := (rng.Float64()*2 - 1) * c.MaxSpin

	g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindShape
		e.Shape = shape
		e.Pos = core.V3(x, y, 0)
		e.Vel = core.V3(vx, vy, 0)
		e.Radius = size
		e.Spin = spin
		e.Color = col
	})
}

func (g *Game) spawnDrop() {
	c := g.cfg.Drops
	rng := g.sess.RNG
	x := rng.Float64() * g.width
	y := -rng.Float64() * g.cfg.Height
	size := rng.Float64()*2 + 1
	alpha := rng.Float64()*0.5 + 0.1
	speed := rng.Float64()*(c.MaxSpeed-c.MinSpeed) + c.MinSpeed

	g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindDrop
		e.Shape = sim.ShapeStreak
		e.Pos = core.V3(x, y, 0)
		e.Vel = core.V3(0, speed, 0)
		e.Radius = size / 5
		e.Size = core.V2(0, size*10)
		e.Color = core.ColorWhite
		e.Opacity = alpha
	})
}

// sample reads the first band of s. ok is false while s has no data.
func (g *Game) sample(s core.Spectrum) (hue float64, ok bool) {
	if s == nil || s.Bands(g.bands[:]) == 0 {
		return 0, false
	}
	return float64(g.bands[0]), true
}

// recolor gives every shape a new random hue and tints the drops with the
// rain track. Drops keep their colour while the track is silent.
func (g *Game) recolor() {
	rng := g.sess.RNG
	dropHue, tint := g.sample(g.rainSpec)
	g.sess.Store.Each(func(e *sim.Entity) {
		switch e.Kind {
		case kindShape:
			e.Color = core.RandomHue(rng)
		case kindDrop:
			if tint {
				e.Color = core.HSL(dropHue, 1, 0.5)
			}
		}
	})
}

// Physics moves the shapes inside the box, bounces overlapping pairs and
// lets the rain fall.
func (g *Game) Physics(s *sim.Session, dt float64) {
	rep := g.physics.Step(s.Store, s.Now(), dt)
	g.rain.Step(s.Store, s.Now(), dt)
	for _, c := range rep.Contacts {
		for _, id := range [...]sim.EntityID{c.A, c.B} {
			s.Store.Update(id, func(e *sim.Entity) {
				e.Color = core.RandomHue(s.RNG)
			})
		}
	}

	triHue, tint := g.sample(g.shapeSpec)
	if !tint {
		return
	}
	s.Store.Each(func(e *sim.Entity) {
		if e.Kind == kindShape && e.Shape == sim.ShapeTriangle {
			e.Color = core.HSL(triHue, 1, 0.5)
		}
	})
}

// Judge does nothing: the toy never ends.
func (g *Game) Judge(*sim.Session) {}

// Step advances the toy by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.sess.Step(in.Step(), g)
	return core.StepResult{State: g.State(), Cues: g.sess.DrainCues()}
}

// Render draws the spectrum bars, the shapes and the rain.
func (g *Game) Render(dst core.Surface, ov core.Overlay) {
	dst.SetWorld(g.width, g.cfg.Height)
	dst.Clear(core.ColorBlack)

	if g.cfg.Bars {
		g.drawBars(dst)
	}
	sim.DrawAll(dst, g.sess.Store, g.sess.Now(), nil)

	if g.paused {
		dst.DrawText(-1, core.AlignCenter, "PAUSED", core.ColorYellow)
	}
	ov.Hide()
}

func (g *Game) drawBars(dst core.Surface) {
	if g.rainSpec == nil {
		return
	}
	var bands [bandCount]uint8
	n := g.rainSpec.Bands(bands[:])
	if n == 0 {
		return
	}

	barW := g.width / float64(n) * 2.5
	x := 0.0
	for i, v := range bands[:n] {
		h := float64(v)
		frac := float64(i) / float64(n)
		col := core.RGB(uint8(min(255, h+25*frac)), uint8(250*frac), 50)
		dst.DrawRect(core.V2(x, g.cfg.Height-h), barW, h, col, true)
		x += barW + 1
	}
}

// State returns the current state. The toy is always running.
// Seed returns the seed of the current match.
func (g *Game) Seed() int64 {
	return g.runtime.Seed
}

func (g *Game) State() core.GameState {
	return core.GameState{
		Paused:     g.paused,
		Phase:      g.sess.Machine.Phase(),
		Elapsed:    g.sess.Elapsed(),
		Population: g.sess.Store.Count(isShape),
	}
}

// Snapshot returns the session state for determinism checks.
func (g *Game) Snapshot() sim.Snapshot {
	return g.sess.Snapshot()
}

func isShape(e *sim.Entity) bool { return e.Kind == kindShape }
func isDrop(e *sim.Entity) bool  { return e.Kind == kindDrop }

func init() {
	registry.Register(ID, func() registry.Game { return New() })
}
