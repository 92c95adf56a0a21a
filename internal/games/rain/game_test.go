package rain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/sim"
)

func testRuntime(t *testing.T, seed int64, yaml string) core.RuntimeConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rain.yaml")
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

func run(g *Game, steps int) []core.CueRequest {
	var cues []core.CueRequest
	for range steps {
		cues = append(cues, g.Step(core.NewInputFrame()).Cues...)
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

// flatSpectrum reports the same magnitude in every band.
type flatSpectrum uint8

func (s flatSpectrum) Bands(dst []uint8) int {
	for i := range dst {
		dst[i] = uint8(s)
	}
	return len(dst)
}

// silentSpectrum has no data yet.
type silentSpectrum struct{}

func (silentSpectrum) Bands([]uint8) int { return 0 }

// recorder counts draw calls.
type recorder struct {
	rects, lines, shapes int
	hidden               bool
}

func (r *recorder) SetWorld(w, h float64)  {}
func (r *recorder) Bounds() (w, h float64) { return 0, 0 }
func (r *recorder) Clear(core.Color)       {}
func (r *recorder) Hide()                  { r.hidden = true }

func (r *recorder) DrawCircle(core.Vec2, float64, core.Color, bool) { r.shapes++ }
func (r *recorder) DrawPolygon([]core.Vec2, core.Color, bool)       { r.shapes++ }
func (r *recorder) DrawLine(core.Vec2, core.Vec2, core.Color)       { r.lines++ }

func (r *recorder) DrawRect(core.Vec2, float64, float64, core.Color, bool) { r.rects++ }

func (r *recorder) DrawArc(core.Vec2, float64, float64, float64, core.Color) {}
func (r *recorder) DrawText(int, core.Align, string, core.Color)             {}
func (r *recorder) ShowMessage(string, core.Color)                           {}
func (r *recorder) ShowCountdown(int)                                        {}

func entities(g *Game, kind sim.Kind) []sim.Entity {
	var out []sim.Entity
	for e := range g.sess.Store.All() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestGameDeterminism(t *testing.T) {
	cfg := testRuntime(t, 2024, "")

	g1 := New()
	g1.Reset(cfg)
	run(g1, 400)

	g2 := New()
	g2.Reset(cfg)
	run(g2, 400)

	if g1.Snapshot().Hash() != g2.Snapshot().Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", g1.Snapshot().Hash(), g2.Snapshot().Hash())
	}
}

func TestReset(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, ""))

	if n := len(entities(g, kindShape)); n != 114 {
		t.Errorf("shapes = %d, expected 114", n)
	}
	if n := len(entities(g, kindDrop)); n != 1000 {
		t.Errorf("drops = %d, expected 1000", n)
	}
	for _, e := range entities(g, kindShape) {
		if e.Shape == sim.ShapeTriangle && (e.Radius < 20 || e.Radius > 35) {
			t.Errorf("triangle size = %v, expected within [20, 35]", e.Radius)
		}
	}
	if st := g.State(); st.Population != 114 || st.Phase != core.PhaseRunning {
		t.Errorf("State() = %+v, expected 114 shapes running", st)
	}
}

func TestShapesStayInBox(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 3, ""))
	run(g, 600)

	for _, e := range entities(g, kindShape) {
		if e.Pos.X < 0 || e.Pos.X > g.width || e.Pos.Y < 0 || e.Pos.Y > g.cfg.Height {
			t.Errorf("shape %d at (%v, %v), expected inside %vx%v", e.ID, e.Pos.X, e.Pos.Y, g.width, g.cfg.Height)
		}
	}
}

func TestDropsWrap(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 3, "drops:\n  count: 50\n  min_speed: 10\n  max_speed: 20\n"))

	for range 200 {
		g.Step(core.NewInputFrame())
		for _, e := range entities(g, kindDrop) {
			if e.Pos.Y-e.Radius > g.cfg.Height {
				t.Fatalf("drop %d at y=%v, expected wrapped above %v", e.ID, e.Pos.Y, g.cfg.Height)
			}
		}
	}
	if n := len(entities(g, kindDrop)); n != 50 {
		t.Errorf("drops = %d, expected 50", n)
	}
}

func TestDropReentersAtTop(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 3, "drops:\n  count: 1\n"))

	var id sim.EntityID
	for _, e := range entities(g, kindDrop) {
		id = e.ID
	}
	g.sess.Store.Update(id, func(e *sim.Entity) {
		e.Pos.X = g.width + 5
		e.Pos.Y = g.cfg.Height + e.Radius - 0.01
	})
	g.Step(core.NewInputFrame())

	e, ok := g.sess.Store.Get(id)
	if !ok {
		t.Fatal("drop was removed, expected it to wrap")
	}
	if top := -g.cfg.Height - e.Radius; e.Pos.Y != top {
		t.Errorf("drop y = %v after falling out, expected %v", e.Pos.Y, top)
	}
	if e.Pos.X != g.width+5 {
		t.Errorf("drop x = %v, expected it to keep its column %v", e.Pos.X, g.width+5)
	}
}

func TestNeverTerminal(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, "shapes:\n  count: 10\ndrops:\n  count: 10\n"))
	run(g, 3000)

	if st := g.State(); st.GameOver || st.Phase != core.PhaseRunning {
		t.Errorf("State() = %+v, expected running", st)
	}
}

func TestSoundtrack(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, "rain_every: 1s\n"))

	cues := run(g, 50)
	if len(cues) != 0 {
		t.Errorf("cues before start = %+v, expected none", cues)
	}

	cues = run(g, 20)
	for _, c := range []core.Cue{core.CueShapes, core.CueRain, core.CueRain2} {
		if n := countCue(cues, c); n != 1 {
			t.Errorf("%s cues at start = %d, expected 1", c, n)
		}
	}

	cues = run(g, 70)
	if n := countCue(cues, core.CueRain); n != 1 {
		t.Errorf("rain cues after interval = %d, expected 1", n)
	}
	if n := countCue(cues, core.CueShapes); n != 0 {
		t.Errorf("shapes cues after interval = %d, expected 0", n)
	}
}

func TestSpectrumTints(t *testing.T) {
	tests := []struct {
		name     string
		spec     core.Spectrum
		triangle core.Color
		drop     core.Color
		checkTri bool
	}{
		{"flat", flatSpectrum(120), core.HSL(120, 1, 0.5), core.HSL(120, 1, 0.5), true},
		{"silent", silentSpectrum{}, 0, core.ColorWhite, false},
		{"none", nil, 0, core.ColorWhite, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.Reset(testRuntime(t, 9, "drops:\n  count: 20\n"))
			if tt.spec != nil {
				g.AttachSpectrum(core.CueShapes, tt.spec)
				g.AttachSpectrum(core.CueRain, tt.spec)
			}

			run(g, 1)
			if tt.checkTri {
				for _, e := range entities(g, kindShape) {
					if e.Shape == sim.ShapeTriangle && e.Color != tt.triangle {
						t.Errorf("triangle color = %v, expected %v", e.Color.Hex(), tt.triangle.Hex())
					}
				}
			}

			run(g, 310)
			for _, e := range entities(g, kindDrop) {
				if e.Color != tt.drop {
					t.Errorf("drop color = %v, expected %v", e.Color.Hex(), tt.drop.Hex())
				}
			}
		})
	}
}

func TestPauseFreezes(t *testing.T) {
	g := New()
	g.Reset(testRuntime(t, 1, ""))
	run(g, 10)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	before := g.Snapshot().Hash()
	run(g, 30)
	if after := g.Snapshot().Hash(); after != before {
		t.Errorf("hash while paused = %d, expected %d", after, before)
	}
	if !g.State().Paused {
		t.Error("State().Paused = false, expected true")
	}

	g.Step(pause)
	run(g, 1)
	if g.Snapshot().Hash() == before {
		t.Error("simulation did not resume after unpause")
	}
}

func TestRenderBars(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		spec  core.Spectrum
		rects int
	}{
		{"bars", "", flatSpectrum(100), bandCount},
		{"bars off", "bars: false\n", flatSpectrum(100), 0},
		{"no spectrum", "", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.Reset(testRuntime(t, 1, tt.yaml+"shapes:\n  count: 5\ndrops:\n  count: 7\n"))
			if tt.spec != nil {
				g.AttachSpectrum(core.CueRain, tt.spec)
			}
			run(g, 1)

			var r recorder
			g.Render(&r, &r)
			if r.rects != tt.rects {
				t.Errorf("bar rects = %d, expected %d", r.rects, tt.rects)
			}
			if r.shapes != 5 || r.lines != 7 {
				t.Errorf("shapes, drops drawn = %d, %d, expected 5, 7", r.shapes, r.lines)
			}
			if !r.hidden {
				t.Error("overlay not hidden")
			}
		})
	}
}
