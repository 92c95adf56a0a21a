package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

func TestDrawHonoursFade(t *testing.T) {
	screen := core.NewScreen(40, 20)
	canvas := core.NewCanvas(screen, 2)
	canvas.SetWorld(40, 40)

	e := &Entity{
		Shape: ShapeCircle, Pos: core.V3(20, 20, 0), Radius: 6,
		Color: core.RGB(200, 100, 0), Opacity: 1, FadeIn: time.Second,
	}

	Draw(canvas, e, 0)
	if strings.TrimSpace(screen.String()) != "" {
		t.Error("entity at the start of its fade-in should be invisible")
	}

	Draw(canvas, e, 500*time.Millisecond)
	if got := screen.GetCell(20, 10).Color; got != core.RGB(100, 50, 0) {
		t.Errorf("half faded color = %s, expected #643200", got.Hex())
	}
}

func TestDrawAllShapes(t *testing.T) {
	screen := core.NewScreen(60, 20)
	canvas := core.NewCanvas(screen, 2)
	canvas.SetWorld(60, 40)

	st := NewStore(10)
	shapes := []Shape{ShapeCircle, ShapeSquare, ShapeTriangle, ShapeBox, ShapeStreak}
	for i, sh := range shapes {
		st.Spawn(func(e *Entity) {
			e.Shape = sh
			e.Pos = core.V3(float64(6+i*12), 20, 0)
			e.Radius = 4
			e.Size = core.V2(4, 8)
			e.Color = core.ColorRed
		})
	}
	DrawAll(canvas, st, 0, nil)

	for i := range shapes {
		x := 6 + i*12
		found := false
		for y := 8; y <= 12; y++ {
			if screen.Get(x, y) != ' ' {
				found = true
			}
		}
		if !found {
			t.Errorf("%v not drawn near column %d:\n%s", shapes[i], x, screen.String())
		}
	}
}

func TestPresentPhase(t *testing.T) {
	screen := core.NewScreen(40, 11)
	canvas := core.NewCanvas(screen, 2)
	banner := Banner{Won: "Winner!", Lost: "No color survived this time"}

	m := NewMachine(6 * time.Second)
	m.Arm(0)
	PresentPhase(canvas, m, 2*time.Second, banner)
	canvas.Finish()
	if !strings.Contains(screen.String(), "4") {
		t.Errorf("countdown not shown:\n%s", screen.String())
	}

	canvas.Begin()
	m.Lose(3 * time.Second)
	PresentPhase(canvas, m, 3*time.Second, banner)
	canvas.Finish()
	if !strings.Contains(screen.String(), "No color survived") {
		t.Errorf("lose banner not shown:\n%s", screen.String())
	}
}
