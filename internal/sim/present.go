package sim

import (
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// minVisibleAlpha hides entities that have faded out visually.
const minVisibleAlpha = 0.02

// Draw renders one entity at its current alpha. It never mutates e.
func Draw(dst core.Surface, e *Entity, now time.Duration) {
	a := e.Alpha(now)
	if a < minVisibleAlpha {
		return
	}
	col := e.Color.Fade(a)
	p := e.Pos.XY()

	switch e.Shape {
	case ShapeCircle:
		dst.DrawCircle(p, e.Radius, col, true)
	case ShapeSquare, ShapeTriangle:
		dst.DrawPolygon(e.Outline(), col, true)
	case ShapeBox:
		dst.DrawRect(p.Sub(e.Size.Scale(0.5)), e.Size.X, e.Size.Y, col, true)
	case ShapeStreak:
		dst.DrawLine(p, p.Add(e.Size), col)
	}
}

// DrawAll renders every present entity matching pred in store order.
// A nil pred draws everything.
func DrawAll(dst core.Surface, st *Store, now time.Duration, pred func(e *Entity) bool) {
	for e := range st.All() {
		if pred == nil || pred(&e) {
			Draw(dst, &e, now)
		}
	}
}

// Banner holds the end-of-session messages for a game.
type Banner struct {
	Won, Lost           string
	WonColor, LostColor core.Color
}

// PresentPhase shows the overlay matching the machine's phase: a
// countdown while a win is pending, the banner once terminal.
func PresentPhase(ov core.Overlay, m *Machine, now time.Duration, b Banner) {
	switch m.Phase() {
	case core.PhaseWinPending:
		ov.ShowCountdown(m.Countdown(now))
	case core.PhaseWon:
		ov.ShowMessage(b.Won, b.WonColor)
	case core.PhaseLost:
		ov.ShowMessage(b.Lost, b.LostColor)
	default:
		ov.Hide()
	}
}
