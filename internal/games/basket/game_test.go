package basket

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/sim"
)

// unreachable moves the basket below the field so no ball can be caught.
const unreachable = "basket:\n  line: 2\n"

func testRuntime(t *testing.T, seed int64, yaml string) core.RuntimeConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "basket.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return core.RuntimeConfig{
		ScreenW:    80,
		ScreenH:    40,
		TickRate:   60,
		Seed:       seed,
		CellAspect: core.TerminalCellAspect,
		ConfigPath: path,
	}
}

func run(g *Game, steps int) []core.CueRequest {
	var cues []core.CueRequest
	for range steps {
		cues = append(cues, g.Step(core.NewInputFrame()).Cues...)
	}
	return cues
}

func hasCue(cues []core.CueRequest, c core.Cue) bool {
	for _, r := range cues {
		if r.Cue == c && !r.Stop {
			return true
		}
	}
	return false
}

func placeBall(t *testing.T, g *Game, pos, vel core.Vec2) {
	t.Helper()
	_, ok := g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindBall
		e.Shape = sim.ShapeCircle
		e.Pos = core.V3(pos.X, pos.Y, 0)
		e.Vel = core.V3(vel.X, vel.Y, 0)
		e.Radius = 10
		e.Color = core.ColorWhite
	})
	if !ok {
		t.Fatal("could not place ball")
	}
}

func TestGameDeterminism(t *testing.T) {
	cfg := testRuntime(t, 99, unreachable)

	g1 := New()
	g1.Reset(cfg)
	run(g1, 500)

	g2 := New()
	g2.Reset(cfg)
	run(g2, 500)

	if g1.Snapshot().Hash() != g2.Snapshot().Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", g1.Snapshot().Hash(), g2.Snapshot().Hash())
	}
}

func TestCatchWins(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, ""))

	basket, _ := g.sess.Store.Get(g.basket)
	top := basket.Pos.Y - basket.Size.Y/2
	placeBall(t, g, core.V2(basket.Pos.X, top-11), core.V2(0, 2))

	cues := run(g, 1)
	st := g.State()
	if st.Phase != core.PhaseWon || !st.GameOver {
		t.Fatalf("Phase = %v, expected won", st.Phase)
	}
	if st.Score != 13 {
		t.Errorf("Score = %d, expected 13", st.Score)
	}
	if !hasCue(cues, core.CueHit) || !hasCue(cues, core.CueWin) {
		t.Errorf("cues = %+v, expected hit and win", cues)
	}
}

func TestBudgetExhaustedLoses(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, unreachable+"balls:\n  budget: 2\n  spawn_every: 100ms\n"))

	run(g, 100)
	if st := g.State(); st.Phase != core.PhaseRunning || st.Population != 2 {
		t.Fatalf("state with balls falling = %+v, expected running with 2 balls", st)
	}

	cues := run(g, 300)
	st := g.State()
	if st.Phase != core.PhaseLost {
		t.Fatalf("Phase = %v, expected lost", st.Phase)
	}
	if st.Score != 0 || g.spawned != 2 {
		t.Errorf("Score = %d, spawned = %d, expected 0 and 2", st.Score, g.spawned)
	}
	if !hasCue(cues, core.CueLose) {
		t.Errorf("cues = %+v, expected lose", cues)
	}
}

func TestMaxLiveBalls(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 4, unreachable+"balls:\n  spawn_every: 10ms\n"))

	cues := run(g, 20)
	if n := g.State().Population; n != 3 {
		t.Errorf("Population = %d, expected 3", n)
	}
	if g.spawned != 3 {
		t.Errorf("spawned = %d, expected 3", g.spawned)
	}
	if !hasCue(cues, core.CueSpawn) {
		t.Error("expected a spawn cue")
	}
}

func TestWallBounces(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, unreachable+"balls:\n  spawn_every: 1h\n"))

	placeBall(t, g, core.V2(5, 300), core.V2(-2, 2))
	cues := run(g, 1)
	if !hasCue(cues, core.CueBounce) {
		t.Errorf("cues = %+v, expected bounce", cues)
	}
	for e := range g.sess.Store.All() {
		if e.Kind == kindBall && e.Vel.X <= 0 {
			t.Errorf("ball Vel.X = %v after left wall, expected positive", e.Vel.X)
		}
	}

	cues = run(g, 60)
	if !hasCue(cues, core.CueHit) {
		t.Error("expected the basket to hit the right wall")
	}
	basket, _ := g.sess.Store.Get(g.basket)
	if basket.Vel.X >= 0 {
		t.Errorf("basket Vel.X = %v after right wall, expected negative", basket.Vel.X)
	}
}

func TestHardPresetShrinksBudget(t *testing.T) {
	cfg := testRuntime(t, 1, "")
	cfg.Difficulty = "hard"
	g := New()
	g.Reset(cfg)
	if g.budget != 8 {
		t.Errorf("hard budget = %d, expected 8", g.budget)
	}
}

func TestRender(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, ""))
	run(g, 40)

	screen := core.NewScreen(80, 40)
	canvas := core.NewCanvas(screen, core.TerminalCellAspect)
	canvas.Begin()
	g.Render(canvas, canvas)
	canvas.Finish()

	if out := screen.String(); !strings.Contains(out, "Balls left: 11") {
		t.Errorf("HUD missing:\n%s", out)
	}
}

func TestRestartReseeds(t *testing.T) {
	cfg := testRuntime(t, 1, unreachable+"balls:\n  budget: 2\n  spawn_every: 100ms\n")
	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)

	play := func() (first, second uint64, seed int64) {
		g := New()
		g.Reset(cfg)
		run(g, 30)
		first = g.Snapshot().Hash()
		run(g, 370)
		if g.State().Phase != core.PhaseLost {
			t.Fatalf("Phase = %v, expected lost", g.State().Phase)
		}
		g.Step(restart)
		run(g, 30)
		return first, g.Snapshot().Hash(), g.Seed()
	}

	first, second, seed := play()
	if seed == cfg.Seed {
		t.Errorf("Seed() = %d after restart, expected a new seed", seed)
	}
	if first == second {
		t.Error("restart replayed the previous match")
	}
	if _, again, seedAgain := play(); again != second || seedAgain != seed {
		t.Errorf("restarted runs differ for one seed: %d/%d, %d/%d", again, second, seedAgain, seed)
	}
}
