package dodge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/sim"
)

// quiet disables the periodic spawner and the survival timer.
const quiet = "enemies:\n  spawn_every: 1h\n  late_spawn_every: 1h\nrules:\n  survive_for: 1h\n"

func testRuntime(t *testing.T, seed int64, yaml string) core.RuntimeConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dodge.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return core.RuntimeConfig{
		ScreenW:    120,
		ScreenH:    40,
		TickRate:   60,
		Seed:       seed,
		CellAspect: core.TerminalCellAspect,
		ConfigPath: path,
	}
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func run(g *Game, steps int, in core.InputFrame) []core.CueRequest {
	var cues []core.CueRequest
	for range steps {
		cues = append(cues, g.Step(in).Cues...)
	}
	return cues
}

func countCue(cues []core.CueRequest, c core.Cue) int {
	n := 0
	for _, r := range cues {
		if r.Cue == c && !r.Stop {
			n++
		}
	}
	return n
}

func placeEnemy(t *testing.T, g *Game, x, z, vz float64) sim.EntityID {
	t.Helper()
	id, ok := g.sess.Store.Spawn(func(e *sim.Entity) {
		e.Kind = kindEnemy
		e.Shape = sim.ShapeCircle
		e.Pos = core.V3(x, 1, z)
		e.Vel = core.V3(0, 0, vz)
		e.Radius = 1
		e.Color = core.ColorRed
		e.SpawnedAt = g.sess.Now()
	})
	if !ok {
		t.Fatal("could not place enemy")
	}
	return id
}

func playerX(g *Game) float64 {
	p, _ := g.sess.Store.Get(g.player)
	return p.Pos.X
}

func TestGameDeterminism(t *testing.T) {
	cfg := testRuntime(t, 777, "")
	inputs := make([]core.InputFrame, 240)
	for i := range inputs {
		switch {
		case i%15 == 0:
			inputs[i] = frame(core.ActionFire)
		case i%40 < 20:
			inputs[i] = frame(core.ActionLeft)
		default:
			inputs[i] = frame(core.ActionRight)
		}
	}

	play := func() (uint64, core.GameState) {
		g := New()
		g.Reset(cfg)
		for _, in := range inputs {
			g.Step(in)
		}
		return g.Snapshot().Hash(), g.State()
	}

	h1, s1 := play()
	h2, s2 := play()
	if h1 != h2 {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", h1, h2)
	}
	if s1 != s2 {
		t.Errorf("Determinism failed: states differ. Run1=%+v, Run2=%+v", s1, s2)
	}
}

func TestPlayerStaysOnLane(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, quiet))

	if x := playerX(g); x != 1 {
		t.Fatalf("start x = %v, expected 1", x)
	}
	run(g, 10, frame(core.ActionLeft))
	if x := playerX(g); x > 0.01 || x < -0.01 {
		t.Errorf("x after 10 left steps = %v, expected 0", x)
	}
	run(g, 200, frame(core.ActionRight))
	if x := playerX(g); x != 4 {
		t.Errorf("x after holding right = %v, expected 4", x)
	}
	run(g, 300, frame(core.ActionLeft))
	if x := playerX(g); x != -4 {
		t.Errorf("x after holding left = %v, expected -4", x)
	}
}

func TestFireOncePerPress(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, quiet))

	cues := run(g, 5, frame(core.ActionFire))
	if n := g.sess.Store.Count(isBullet); n != 1 {
		t.Errorf("bullets after holding fire = %d, expected 1", n)
	}
	if n := countCue(cues, core.CueBullet); n != 1 {
		t.Errorf("bullet cues = %d, expected 1", n)
	}

	g.Step(frame())
	g.Step(frame(core.ActionFire))
	if n := g.sess.Store.Count(isBullet); n != 2 {
		t.Errorf("bullets after second press = %d, expected 2", n)
	}
}

func TestBulletsExpireBeyondRange(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, quiet))

	g.Step(frame(core.ActionFire))
	run(g, 90, frame())
	if n := g.sess.Store.Count(isBullet); n != 1 {
		t.Fatalf("bullets after 45 units = %d, expected 1", n)
	}
	run(g, 40, frame())
	if n := g.sess.Store.Count(isBullet); n != 0 {
		t.Errorf("bullets past range = %d, expected 0", n)
	}
}

func TestBulletHitsEnemy(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, quiet))

	id := placeEnemy(t, g, 1, -6, 0)
	cues := []core.CueRequest{}
	cues = append(cues, g.Step(frame(core.ActionFire)).Cues...)
	cues = append(cues, run(g, 20, frame())...)

	e, ok := g.sess.Store.Get(id)
	if !ok {
		t.Fatal("hit enemy removed immediately")
	}
	if !e.Hit || e.Shape != sim.ShapeBox || e.Vel != (core.Vec3{}) {
		t.Errorf("enemy after hit = %+v, expected flattened and stopped", e)
	}
	if g.State().Score != 1 || countCue(cues, core.CueDeath) != 1 {
		t.Errorf("Score = %d, death cues = %d, expected 1 and 1", g.State().Score, countCue(cues, core.CueDeath))
	}
	if n := g.sess.Store.Count(isBullet); n != 0 {
		t.Errorf("bullets after hit = %d, expected 0", n)
	}

	run(g, 40, frame())
	if _, ok := g.sess.Store.Get(id); ok {
		t.Error("hit enemy still present after removal delay")
	}
}

func TestEnemyBreachLoses(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, quiet))

	placeEnemy(t, g, -3, -0.45, 0.1)
	cues := run(g, 10, frame())

	st := g.State()
	if st.Phase != core.PhaseLost || !st.GameOver {
		t.Fatalf("Phase = %v, expected lost", st.Phase)
	}
	if countCue(cues, core.CueDead) != 1 || countCue(cues, core.CueLose) != 1 {
		t.Errorf("cues = %+v, expected dead and lose once", cues)
	}
	if g.sess.Sched.Pending() != 0 {
		t.Errorf("Pending() = %d after loss, expected 0", g.sess.Sched.Pending())
	}
}

func TestSurviveToWin(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, "enemies:\n  capacity: 0\nrules:\n  survive_for: 1s\n  countdown: 1s\n"))

	run(g, 70, frame())
	st := g.State()
	if st.Phase != core.PhaseWinPending || st.Countdown != 1 {
		t.Fatalf("state after 70 frames = %+v, expected win-pending with 1s left", st)
	}

	cues := run(g, 60, frame())
	if st := g.State(); st.Phase != core.PhaseWon {
		t.Fatalf("Phase = %v, expected won", st.Phase)
	}
	if countCue(cues, core.CueWin) != 1 {
		t.Errorf("cues = %+v, expected win", cues)
	}
}

func TestLateKillsRespawn(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 5, "enemies:\n  spawn_every: 1h\n  late_spawn_every: 1h\nrules:\n  survive_for: 100ms\n  countdown: 1h\n"))

	run(g, 10, frame())
	if !g.late {
		t.Fatal("late phase not started")
	}
	placeEnemy(t, g, 1, -6, 0)
	g.Step(frame(core.ActionFire))
	run(g, 20, frame())

	if n := g.sess.Store.Count(isEnemy); n != 2 {
		t.Errorf("enemies after late kill = %d, expected the flattened one and a replacement", n)
	}
}

func TestDifficultyScalesEnemySpeed(t *testing.T) {
	speeds := map[string]float64{}
	for _, preset := range []string{"fixed", "hard"} {
		cfg := testRuntime(t, 1, quiet)
		cfg.Difficulty = preset
		g := New()
		g.Reset(cfg)
		g.spawnEnemy()
		for e := range g.sess.Store.All() {
			if e.Kind == kindEnemy {
				speeds[preset] = e.Vel.Z
			}
		}
	}
	if speeds["fixed"] != 0.1 {
		t.Errorf("fixed enemy speed = %v, expected 0.1", speeds["fixed"])
	}
	if speeds["hard"] <= speeds["fixed"] {
		t.Errorf("hard enemy speed = %v, expected above %v", speeds["hard"], speeds["fixed"])
	}
}

func TestRender(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, quiet))
	placeEnemy(t, g, 0, -10, 0)
	g.Step(frame())

	screen := core.NewScreen(120, 40)
	canvas := core.NewCanvas(screen, core.TerminalCellAspect)
	canvas.Begin()
	g.Render(canvas, canvas)
	canvas.Finish()

	out := screen.String()
	if !strings.Contains(out, "Can You Survive for 3600 seconds?") {
		t.Errorf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "Elapsed: 0s") {
		t.Errorf("elapsed timer missing:\n%s", out)
	}
}

func TestRestartReseeds(t *testing.T) {
	cfg := testRuntime(t, 5, "rules:\n  survive_for: 1h\n")

	play := func() (first, second uint64, seed int64) {
		g := New()
		g.Reset(cfg)
		run(g, 60, frame())
		first = g.Snapshot().Hash()
		placeEnemy(t, g, 0, -0.45, 0.1)
		run(g, 10, frame())
		if g.State().Phase != core.PhaseLost {
			t.Fatalf("Phase = %v, expected lost", g.State().Phase)
		}
		g.Step(frame(core.ActionRestart))
		run(g, 60, frame())
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

func TestSpawnIntervalShrinksWithLevel(t *testing.T) {
	const yaml = "enemies:\n  spawn_every: 1s\nrules:\n  survive_for: 1h\n" +
		"difficulty:\n  progression:\n    max_at: 60\n  scaling:\n    speed_multiplier: 0\n    interval_reduction: 0.5\n"

	spawned := map[string]int{}
	for _, preset := range []string{"fixed", ""} {
		cfg := testRuntime(t, 1, yaml)
		cfg.Difficulty = preset
		g := New()
		g.Reset(cfg)
		run(g, 180, frame())
		spawned[preset] = g.sess.Store.Count(isEnemy)

		want := time.Second
		if preset == "" {
			want = 500 * time.Millisecond
		}
		if g.interval != want {
			t.Errorf("interval with preset %q = %v, expected %v", preset, g.interval, want)
		}
	}
	if spawned[""] <= spawned["fixed"] {
		t.Errorf("spawned %d enemies with a rising level, expected more than %d", spawned[""], spawned["fixed"])
	}
}
