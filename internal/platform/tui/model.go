package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/platform/runner"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/replay"
	"github.com/vovakirdan/canvas-arcade/internal/storage"
)

// Options configures a game model. Every field is optional.
type Options struct {
	Store    *storage.Store
	Audio    core.AudioSink
	Spectra  runner.SpectrumSource
	Logger   *log.Logger
	Renderer *lipgloss.Renderer

	// Recorder receives every input frame and is finished on quit.
	Recorder *replay.Recorder
	// Playback replaces keyboard input with a recording.
	Playback *replay.Playback

	// Player is the SSH user name stored with sessions.
	Player string
	// Menu makes B/Esc on a paused or finished game return to the menu.
	Menu bool
}

func (o Options) runner() runner.Options {
	return runner.Options{
		Store:    o.Store,
		Audio:    o.Audio,
		Spectra:  o.Spectra,
		Logger:   o.Logger,
		Recorder: o.Recorder,
		Playback: o.Playback,
		Player:   o.Player,
	}
}

// Model is the Bubble Tea model for running a toy.
type Model struct {
	run      *runner.Runner
	screen   *core.Screen
	canvas   *core.Canvas
	renderer *Renderer
	opts     Options

	keyMapper *KeyMapper
	latch     *core.Latch
	pending   core.InputFrame // discrete presses since the last tick
	lastTick  time.Time
	tickID    int64

	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	screen := core.NewScreen(cfg.ScreenW, cfg.ScreenH)
	return Model{
		run:       runner.New(game, cfg, opts.runner()),
		screen:    screen,
		canvas:    core.NewCanvas(screen, cfg.CellAspect),
		renderer:  NewRenderer(opts.Renderer),
		opts:      opts,
		keyMapper: NewKeyMapper(),
		latch:     core.NewLatch(steerHold),
		pending:   core.NewInputFrame(),
		tickID:    nextTickID(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.run.Reset()
	return tickCmd(m.run.Config().TickRate, m.tickID)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		m.run.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.ID != m.tickID {
			return m, nil
		}
		return m.handleTick(msg.Time)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quit()
		return m, tea.Quit
	}

	state := m.run.State()
	switch {
	case action == core.ActionScreenshot:
		m.saveScreenshot()
	case action == core.ActionBack:
		if m.opts.Menu && (state.GameOver || state.Paused || m.run.ReplayDone()) {
			m.quit()
			m.backToMenu = true
		}
	case !m.run.Live():
		// Recorded input only
	case Steering(action):
		m.latch.Press(action)
	case action != core.ActionNone:
		m.pending.Set(action)
	}

	return m, nil
}

// nextInput builds the input of one tick from the keys seen since the
// previous one.
func (m *Model) nextInput(now time.Time) core.InputFrame {
	in := m.pending.Clone()
	m.pending.Clear()
	m.latch.Apply(&in)
	if !m.lastTick.IsZero() {
		in.DT = m.run.Config().FrameStep(now.Sub(m.lastTick))
	}
	return in
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	in := m.nextInput(now)
	m.lastTick = now
	m.run.Step(in)
	return m, tickCmd(m.run.Config().TickRate, m.tickID)
}

// quit closes the session.
func (m *Model) quit() {
	m.quitting = true
	m.run.Close()
}

// draw renders the game and the platform HUD onto the screen.
func (m *Model) draw() {
	back := ""
	if m.opts.Menu {
		back = "B"
	}
	m.canvas.Begin()
	m.run.Render(m.canvas, m.canvas, back)
	m.canvas.Finish()
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw()

	home, err := os.UserHomeDir()
	if err != nil {
		m.opts.Logger.Warn("screenshot skipped", "err", err)
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("screenshot skipped", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.run.Game().ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("screenshot failed", "path", path, "err", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return m.renderer.Render(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting && !m.backToMenu
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// ReplayErr returns the verification result of a finished playback.
func (m Model) ReplayErr() error {
	return m.run.ReplayErr()
}

// ErrReplayUnfinished is returned by Run when playback is quit early.
var ErrReplayUnfinished = errors.New("replay quit before the end")

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && opts.Playback != nil {
		if !fm.run.ReplayDone() {
			return ErrReplayUnfinished
		}
		return fm.run.ReplayErr()
	}
	return nil
}
