// Package window runs a toy in a desktop window with ebiten.
package window

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/platform/runner"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
)

// Default window size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 600
)

// held keys are read every tick, pressed keys only on the tick they go down.
var (
	heldKeys = map[ebiten.Key]core.Action{
		ebiten.KeyArrowLeft:  core.ActionLeft,
		ebiten.KeyA:          core.ActionLeft,
		ebiten.KeyArrowRight: core.ActionRight,
		ebiten.KeyD:          core.ActionRight,
		ebiten.KeyArrowUp:    core.ActionUp,
		ebiten.KeyW:          core.ActionUp,
		ebiten.KeyArrowDown:  core.ActionDown,
		ebiten.KeyS:          core.ActionDown,
	}
	pressedKeys = map[ebiten.Key]core.Action{
		ebiten.KeySpace: core.ActionFire,
		ebiten.KeyEnter: core.ActionConfirm,
		ebiten.KeyP:     core.ActionPause,
		ebiten.KeyR:     core.ActionRestart,
	}
	quitKeys = []ebiten.Key{ebiten.KeyQ, ebiten.KeyEscape}
)

// App is the ebiten.Game driving one toy.
type App struct {
	run     *runner.Runner
	surface *Surface

	width, height int
	lastUpdate    time.Time
}

// Runtime switches cfg to square pixels of the default window size.
// Replays keep the config they were recorded with.
func Runtime(cfg core.RuntimeConfig) core.RuntimeConfig {
	cfg.ScreenW, cfg.ScreenH = DefaultWidth, DefaultHeight
	cfg.CellAspect = 1
	return cfg
}

// New creates a window app.
func New(game registry.Game, cfg core.RuntimeConfig, opts runner.Options) *App {
	return &App{
		run:     runner.New(game, cfg, opts),
		surface: NewSurface(),
		width:   DefaultWidth,
		height:  DefaultHeight,
	}
}

// input polls the keyboard.
func (a *App) input(now time.Time) core.InputFrame {
	in := core.NewInputFrame()
	for k, action := range heldKeys {
		if ebiten.IsKeyPressed(k) {
			in.Set(action)
		}
	}
	for k, action := range pressedKeys {
		if inpututil.IsKeyJustPressed(k) {
			in.Set(action)
		}
	}
	if !a.lastUpdate.IsZero() {
		in.DT = a.run.Config().FrameStep(now.Sub(a.lastUpdate))
	}
	a.lastUpdate = now
	return in
}

// Update advances the game by one tick.
func (a *App) Update() error {
	for _, k := range quitKeys {
		if inpututil.IsKeyJustPressed(k) {
			a.run.Close()
		}
	}
	if a.run.Closed() {
		return ebiten.Termination
	}
	a.run.Step(a.input(time.Now()))
	return nil
}

// Draw renders the game and the replay HUD.
func (a *App) Draw(screen *ebiten.Image) {
	a.surface.Begin(screen)
	a.run.Render(a.surface, a.surface, "")
	a.surface.Finish()
}

// Layout follows the window size so the world is letterboxed in pixels.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.run.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// ReplayErr returns the verification result of a finished playback.
func (a *App) ReplayErr() error {
	return a.run.ReplayErr()
}

// ErrReplayUnfinished is returned by Run when playback is closed early.
var ErrReplayUnfinished = errors.New("replay closed before the end")

// Run opens a window and blocks until it is closed.
func Run(game registry.Game, cfg core.RuntimeConfig, opts runner.Options) error {
	app := New(game, cfg, opts)
	app.run.Reset()

	tps := cfg.TickRate
	if tps <= 0 {
		tps = 60
	}
	ebiten.SetTPS(tps)
	ebiten.SetWindowSize(DefaultWidth, DefaultHeight)
	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(app)
	app.run.Close()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	if opts.Playback != nil {
		if !app.run.ReplayDone() {
			return ErrReplayUnfinished
		}
		return app.run.ReplayErr()
	}
	return nil
}
