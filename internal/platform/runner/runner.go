// Package runner drives one toy session for a frontend: it steps the game,
// forwards sound cues, stores finished sessions and records or plays back
// replays. Frontends only map their input and draw.
package runner

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/replay"
	"github.com/vovakirdan/canvas-arcade/internal/storage"
)

// SpectrumSource provides analysers for playing cues.
type SpectrumSource interface {
	Spectrum(cue core.Cue) core.Spectrum
}

// Options configures a runner. Every field is optional.
type Options struct {
	Store   *storage.Store
	Audio   core.AudioSink
	Spectra SpectrumSource
	Logger  *log.Logger

	// Recorder receives every input frame and is finished by Close.
	Recorder *replay.Recorder
	// Playback replaces live input with a recording.
	Playback *replay.Playback

	// Player is the SSH user name stored with sessions.
	Player string
}

// LoopingCues are stopped when a session closes.
var LoopingCues = []core.Cue{core.CueMusic, core.CueShapes, core.CueRain, core.CueRain2}

// Runner owns a game for the length of a session.
type Runner struct {
	game   registry.Game
	config core.RuntimeConfig
	opts   Options

	attached map[core.Cue]bool
	state    core.GameState
	saved    bool // session stored for the current terminal phase
	closed   bool

	replayDone bool
	replayErr  error
}

// New creates a runner. A zero seed is replaced by the current time.
func New(game registry.Game, cfg core.RuntimeConfig, opts Options) *Runner {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Audio == nil {
		opts.Audio = silent{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Runner{
		game:     game,
		config:   cfg,
		opts:     opts,
		attached: make(map[core.Cue]bool),
	}
}

// Game returns the running game.
func (r *Runner) Game() registry.Game { return r.game }

// Config returns the runtime config the game was reset with.
func (r *Runner) Config() core.RuntimeConfig { return r.config }

// State returns the state after the last step.
func (r *Runner) State() core.GameState { return r.state }

// Live reports whether the session takes player input.
func (r *Runner) Live() bool { return r.opts.Playback == nil }

// Reset starts the game.
func (r *Runner) Reset() {
	r.game.Reset(r.config)
	r.state = r.game.State()
}

// Resize passes a new viewport to games that support it. Recorded and
// replayed sessions keep the layout they started with.
func (r *Runner) Resize(w, h int) {
	r.config.ScreenW, r.config.ScreenH = w, h
	if r.opts.Recorder != nil || r.opts.Playback != nil {
		return
	}
	if rs, ok := r.game.(registry.Resizer); ok {
		rs.Resize(r.config)
	}
}

// Step advances the game by one tick. During playback in is ignored and
// the next recorded frame is used instead; once the recording runs out
// the game is left as it is.
func (r *Runner) Step(in core.InputFrame) core.GameState {
	if r.closed {
		return r.state
	}
	if p := r.opts.Playback; p != nil {
		next, ok := p.Next()
		if !ok {
			r.finishPlayback()
			return r.state
		}
		in = next
	}

	if rec := r.opts.Recorder; rec != nil {
		if err := rec.Record(in); err != nil {
			r.opts.Logger.Error("recording stopped", "err", err)
			r.opts.Recorder = nil
		}
	}

	result := r.game.Step(in)
	r.state = result.State
	r.playCues(result.Cues)

	if r.state.Phase.Terminal() {
		if !r.saved {
			r.saveSession(outcomeOf(r.state.Phase))
			r.saved = true
		}
	} else {
		r.saved = false
	}
	return r.state
}

func (r *Runner) finishPlayback() {
	if r.replayDone {
		return
	}
	r.replayDone = true
	r.replayErr = r.opts.Playback.Verify(r.game)
	if r.replayErr != nil {
		r.opts.Logger.Warn("replay diverged", "game", r.game.ID(), "err", r.replayErr)
	}
}

// ReplayDone reports whether a playback has run out of frames.
func (r *Runner) ReplayDone() bool { return r.replayDone }

// ReplayErr returns the verification result of a finished playback.
func (r *Runner) ReplayErr() error { return r.replayErr }

// playCues forwards a step's cues to the audio sink. Analysers are
// attached before a cue first starts so they see it from the beginning.
func (r *Runner) playCues(cues []core.CueRequest) {
	consumer, wantsSpectrum := r.game.(core.SpectrumConsumer)
	for _, c := range cues {
		if c.Stop {
			r.opts.Audio.Stop(c.Cue)
			continue
		}
		if wantsSpectrum && r.opts.Spectra != nil && !r.attached[c.Cue] {
			if s := r.opts.Spectra.Spectrum(c.Cue); s != nil {
				consumer.AttachSpectrum(c.Cue, s)
			}
			r.attached[c.Cue] = true
		}
		r.opts.Audio.Play(c.Cue, c.Volume)
	}
}

func outcomeOf(p core.Phase) string {
	switch p {
	case core.PhaseWon:
		return storage.OutcomeWon
	case core.PhaseLost:
		return storage.OutcomeLost
	default:
		return storage.OutcomeQuit
	}
}

// saveSession stores the current session. Playback never writes.
func (r *Runner) saveSession(outcome string) {
	if r.opts.Store == nil || r.opts.Playback != nil {
		return
	}
	id := r.game.ID()
	if outcome != storage.OutcomeQuit && r.state.Score > 0 {
		if _, err := r.opts.Store.SaveScore(id, r.state.Score); err != nil {
			r.opts.Logger.Warn("could not save score", "game", id, "err", err)
		}
	}
	seed := r.config.Seed
	if s, ok := r.game.(registry.Seeder); ok {
		seed = s.Seed()
	}
	_, err := r.opts.Store.SaveSession(storage.SessionRecord{
		GameID:     id,
		Seed:       seed,
		Outcome:    outcome,
		Score:      r.state.Score,
		Frames:     uint64(r.state.Elapsed / core.ReferenceFrame),
		Duration:   r.state.Elapsed,
		Difficulty: r.config.Difficulty,
		Player:     r.opts.Player,
	})
	if err != nil {
		r.opts.Logger.Warn("could not save session", "game", id, "err", err)
	}
}

// Close ends the session: an abandoned game is stored, looping cues are
// silenced and the recording is finished. Later calls do nothing.
func (r *Runner) Close() {
	if r.closed {
		return
	}
	r.closed = true

	if !r.saved && r.state.Elapsed > 0 {
		r.saveSession(storage.OutcomeQuit)
		r.saved = true
	}
	for _, c := range LoopingCues {
		r.opts.Audio.Stop(c)
	}
	if rec := r.opts.Recorder; rec != nil {
		if err := rec.Finish(replay.HashOf(r.game)); err != nil {
			r.opts.Logger.Error("could not finish recording", "err", err)
		}
		r.opts.Recorder = nil
	}
}

// Closed reports whether Close has been called.
func (r *Runner) Closed() bool { return r.closed }

// Render draws the game followed by the platform HUD. back names the key
// that leaves a finished replay, empty when there is none.
func (r *Runner) Render(dst core.Surface, ov core.Overlay, back string) {
	r.game.Render(dst, ov)

	p := r.opts.Playback
	if p == nil {
		return
	}
	played, total := p.Progress()
	dst.DrawText(-1, core.AlignRight, fmt.Sprintf("REPLAY %d/%d", played, total), core.ColorGray)
	if !r.replayDone {
		return
	}
	msg, col := "Replay finished", core.ColorWhite
	if r.replayErr != nil {
		msg, col = "Replay diverged", core.ColorRed
	}
	if back != "" {
		msg += "\n" + back + ": Menu  Q: Quit"
	}
	ov.ShowMessage(msg, col)
}

// silent drops every cue.
type silent struct{}

func (silent) Play(core.Cue, float64) {}
func (silent) Stop(core.Cue)          {}
