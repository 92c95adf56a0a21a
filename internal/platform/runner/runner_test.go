package runner

import (
	"bytes"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/replay"
	"github.com/vovakirdan/canvas-arcade/internal/storage"
)

// fakeGame records its inputs and replays scripted cues.
type fakeGame struct {
	inputs     []core.InputFrame
	cues       [][]core.CueRequest // per step
	terminalAt int                 // steps after a reset that lose, 0 for never
	round      int
	state      core.GameState
	spectra    map[core.Cue]core.Spectrum
	resized    int
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(core.RuntimeConfig) {
	g.inputs = nil
	g.round = 0
	g.state = core.GameState{}
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.inputs = append(g.inputs, in.Clone())
	if in.Has(core.ActionRestart) {
		g.round = 0
		g.state = core.GameState{}
	}
	g.round++
	g.state.Elapsed += core.ReferenceFrame
	if g.round == g.terminalAt {
		g.state.Phase = core.PhaseLost
		g.state.GameOver = true
		g.state.Score = 4
	}
	var cues []core.CueRequest
	if i := len(g.inputs) - 1; i < len(g.cues) {
		cues = g.cues[i]
	}
	return core.StepResult{State: g.state, Cues: cues}
}

func (g *fakeGame) Render(dst core.Surface, ov core.Overlay) {
	dst.SetWorld(10, 10)
	dst.Clear(core.ColorDefault)
}

func (g *fakeGame) State() core.GameState { return g.state }

func (g *fakeGame) AttachSpectrum(cue core.Cue, s core.Spectrum) {
	if g.spectra == nil {
		g.spectra = make(map[core.Cue]core.Spectrum)
	}
	g.spectra[cue] = s
}

func (g *fakeGame) Resize(core.RuntimeConfig) { g.resized++ }

// sinkLog is an audio sink and spectrum source that logs every call.
type sinkLog struct {
	events []string
}

func (s *sinkLog) Play(c core.Cue, _ float64) { s.events = append(s.events, "play:"+string(c)) }
func (s *sinkLog) Stop(c core.Cue)            { s.events = append(s.events, "stop:"+string(c)) }

func (s *sinkLog) Spectrum(c core.Cue) core.Spectrum {
	s.events = append(s.events, "spectrum:"+string(c))
	return flat{}
}

type flat struct{}

func (flat) Bands(dst []uint8) int { return len(dst) }

func testConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	return cfg
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func steps(r *Runner, n int, in core.InputFrame) {
	for range n {
		r.Step(in)
	}
}

func TestRunnerSeed(t *testing.T) {
	r := New(&fakeGame{}, core.DefaultConfig(), Options{})
	if r.Config().Seed == 0 {
		t.Error("Config().Seed = 0, expected a time based seed")
	}
	r = New(&fakeGame{}, testConfig(), Options{})
	if r.Config().Seed != 1 {
		t.Errorf("Config().Seed = %d, expected 1", r.Config().Seed)
	}
}

func TestRunnerCuesAndSpectrum(t *testing.T) {
	g := &fakeGame{cues: [][]core.CueRequest{
		{{Cue: core.CueShapes, Volume: 1}, {Cue: core.CueHit, Volume: 1}},
		{{Cue: core.CueShapes, Volume: 1}},
		{{Cue: core.CueShapes, Stop: true}},
	}}
	sink := &sinkLog{}
	r := New(g, testConfig(), Options{Audio: sink, Spectra: sink})
	r.Reset()
	steps(r, 3, core.NewInputFrame())

	want := []string{
		"spectrum:shapes", "play:shapes",
		"spectrum:hit", "play:hit",
		"play:shapes",
		"stop:shapes",
	}
	if !slices.Equal(sink.events, want) {
		t.Errorf("sink events = %v, expected %v", sink.events, want)
	}
	if len(g.spectra) != 2 || g.spectra[core.CueShapes] == nil {
		t.Errorf("attached spectra = %v, expected shapes and hit", g.spectra)
	}
}

func TestRunnerSessions(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{terminalAt: 2}
	r := New(g, testConfig(), Options{Store: store, Player: "bob"})
	r.Reset()

	// Two steps reach the loss, the rest stay on the game over screen.
	steps(r, 5, core.NewInputFrame())
	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	r.Step(restart)
	r.Step(core.NewInputFrame())

	sessions, err := store.RecentSessions("fake", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, expected one per finished round", len(sessions))
	}
	for _, s := range sessions {
		if s.Outcome != storage.OutcomeLost || s.Player != "bob" || s.Score != 4 {
			t.Errorf("session = %+v, expected a lost round of bob", s)
		}
	}
	if high, _ := store.HighScore("fake"); high != 4 {
		t.Errorf("HighScore() = %d, expected 4", high)
	}

	// A finished round is not stored again on close.
	r.Close()
	if sessions, _ := store.RecentSessions("fake", 10); len(sessions) != 2 {
		t.Errorf("Close() stored %d sessions, expected 2", len(sessions))
	}
}

// seededGame reseeds itself on every restart.
type seededGame struct {
	*fakeGame
	seed int64
}

func (g *seededGame) Seed() int64 { return g.seed }

func (g *seededGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) {
		g.seed++
	}
	return g.fakeGame.Step(in)
}

func TestRunnerSessionSeeds(t *testing.T) {
	store := openStore(t)
	g := &seededGame{fakeGame: &fakeGame{terminalAt: 2}, seed: 1}
	r := New(g, testConfig(), Options{Store: store})
	r.Reset()

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	steps(r, 3, core.NewInputFrame())
	r.Step(restart)
	steps(r, 2, core.NewInputFrame())

	sessions, _ := store.RecentSessions("fake", 10)
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, expected 2", len(sessions))
	}
	// Newest first.
	if sessions[0].Seed != 2 || sessions[1].Seed != 1 {
		t.Errorf("session seeds = %d, %d, expected 2, 1", sessions[0].Seed, sessions[1].Seed)
	}
}

func TestRunnerCloseAbandoned(t *testing.T) {
	store := openStore(t)
	sink := &sinkLog{}
	r := New(&fakeGame{}, testConfig(), Options{Store: store, Audio: sink})
	r.Reset()
	steps(r, 3, core.NewInputFrame())

	r.Close()
	r.Close()
	if !r.Closed() {
		t.Fatal("Closed() = false after Close()")
	}

	sessions, _ := store.RecentSessions("", 10)
	if len(sessions) != 1 || sessions[0].Outcome != storage.OutcomeQuit || sessions[0].Frames != 3 {
		t.Errorf("sessions = %+v, expected one quit session of 3 frames", sessions)
	}
	if scores, _ := store.TopScores("fake", 10); len(scores) != 0 {
		t.Errorf("TopScores() = %v, expected quit sessions to keep off the scoreboard", scores)
	}
	var stops int
	for _, e := range sink.events {
		if e == "stop:music" {
			stops++
		}
	}
	if stops != 1 {
		t.Errorf("music stopped %d times, expected 1", stops)
	}

	before := r.State()
	r.Step(core.NewInputFrame())
	if r.State() != before {
		t.Error("Step() after Close() changed the state")
	}
}

func TestRunnerRecordAndPlayback(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	rec, err := replay.NewRecorder(&buf, replay.NewHeader("fake", cfg))
	if err != nil {
		t.Fatalf("NewRecorder() failed: %v", err)
	}

	g := &fakeGame{}
	r := New(g, cfg, Options{Recorder: rec})
	r.Reset()
	left := core.NewInputFrame()
	left.Set(core.ActionLeft)
	steps(r, 4, left)
	r.Resize(100, 30)
	if g.resized != 0 {
		t.Errorf("Resize() reached the game %d times while recording, expected 0", g.resized)
	}
	r.Close()

	rep, err := replay.Read(&buf)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if !rep.Complete || len(rep.Frames) != 4 {
		t.Fatalf("recording = complete %v with %d frames, expected complete with 4", rep.Complete, len(rep.Frames))
	}

	store := openStore(t)
	g2 := &fakeGame{}
	p := New(g2, rep.Header.Runtime(), Options{Playback: replay.NewPlayback(rep), Store: store})
	if p.Live() {
		t.Error("Live() = true during playback")
	}
	p.Reset()
	steps(p, 6, core.NewInputFrame())

	if len(g2.inputs) != 4 || !g2.inputs[3].Has(core.ActionLeft) {
		t.Errorf("playback stepped %d times, expected the 4 recorded Left frames", len(g2.inputs))
	}
	if !p.ReplayDone() || p.ReplayErr() != nil {
		t.Errorf("ReplayDone() = %v, ReplayErr() = %v, expected a verified finish", p.ReplayDone(), p.ReplayErr())
	}
	p.Close()
	if sessions, _ := store.RecentSessions("", 10); len(sessions) != 0 {
		t.Errorf("playback stored %d sessions, expected none", len(sessions))
	}
}

func TestRunnerResize(t *testing.T) {
	g := &fakeGame{}
	r := New(g, testConfig(), Options{})
	r.Reset()
	r.Resize(120, 40)
	if g.resized != 1 {
		t.Errorf("Resize() reached the game %d times, expected 1", g.resized)
	}
	if cfg := r.Config(); cfg.ScreenW != 120 || cfg.ScreenH != 40 {
		t.Errorf("Config() = %dx%d, expected 120x40", cfg.ScreenW, cfg.ScreenH)
	}
}
