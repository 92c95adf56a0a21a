package dodge

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/sim"
)

// World height of the projected view; the width follows the viewport.
const viewHeight = 90.0

// Camera placement relative to the player, in lane units.
const (
	camHeight = 6.0
	camBack   = 5.0
	camFOV    = 95.0 // vertical, degrees
	nearClip  = 0.5
)

var (
	laneColor   = core.RGB(40, 40, 48)
	stripeColor = core.RGB(90, 90, 100)
	edgeColor   = core.RGB(140, 140, 160)
)

// view is a pinhole camera that follows the player and looks down at it.
type view struct {
	w, h    float64
	focal   float64
	fwd, up core.Vec3 // unit camera axes; right is +X
	eye     core.Vec3
}

func newView(aspect float64) view {
	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}
	v := view{
		w:     viewHeight * aspect,
		h:     viewHeight,
		focal: (viewHeight / 2) / math.Tan(core.Radians(camFOV/2)),
	}
	pitch := math.Atan2(camHeight-playerRadius, camBack)
	sin, cos := math.Sincos(pitch)
	v.fwd = core.V3(0, -sin, -cos)
	v.up = core.V3(0, cos, -sin)
	return v
}

// follow places the camera behind and above the player.
func (v *view) follow(player core.Vec3) {
	v.eye = core.V3(player.X, player.Y+camHeight-playerRadius, player.Z+camBack)
}

// project maps a world point to view coordinates and returns its depth.
// ok is false for points behind the near plane.
func (v view) project(p core.Vec3) (pt core.Vec2, depth float64, ok bool) {
	r := p.Sub(v.eye)
	depth = r.X*v.fwd.X + r.Y*v.fwd.Y + r.Z*v.fwd.Z
	if depth < nearClip {
		return core.Vec2{}, depth, false
	}
	up := r.X*v.up.X + r.Y*v.up.Y + r.Z*v.up.Z
	return core.V2(v.w/2+v.focal*r.X/depth, v.h/2-v.focal*up/depth), depth, true
}

// scale returns the projected size of a world length at depth.
func (v view) scale(length, depth float64) float64 {
	return length * v.focal / depth
}

type sprite struct {
	depth float64
	e     sim.Entity
}

// Render draws the lane, the entities far to near, the HUD and overlay.
func (g *Game) Render(dst core.Surface, ov core.Overlay) {
	v := g.view
	dst.SetWorld(v.w, v.h)
	dst.Clear(core.ColorBlack)

	if p, ok := g.sess.Store.Get(g.player); ok {
		v.follow(p.Pos)
	}
	g.drawLane(dst, v)

	now := g.sess.Now()
	var sprites []sprite
	for e := range g.sess.Store.All() {
		if _, d, ok := v.project(e.Pos); ok {
			sprites = append(sprites, sprite{depth: d, e: e})
		}
	}
	slices.SortStableFunc(sprites, func(a, b sprite) int {
		return cmp.Compare(b.depth, a.depth)
	})
	for _, s := range sprites {
		g.drawSprite(dst, v, &s.e, now)
	}

	g.drawHUD(dst, now)

	switch m := g.sess.Machine; m.Phase() {
	case core.PhaseWon:
		ov.ShowMessage(banner.Won, banner.WonColor)
	case core.PhaseLost:
		ov.ShowMessage(banner.Lost, banner.LostColor)
	default:
		ov.Hide()
	}
}

func (g *Game) drawLane(dst core.Surface, v view) {
	lane := g.cfg.Lane
	hw := lane.HalfWidth + playerRadius
	near := v.eye.Z - camBack + 3
	far := lane.PlayerZ - lane.Length

	corners := []core.Vec3{
		core.V3(-hw, 0, near), core.V3(hw, 0, near),
		core.V3(hw, 0, far), core.V3(-hw, 0, far),
	}
	var quad []core.Vec2
	for _, c := range corners {
		if p, _, ok := v.project(c); ok {
			quad = append(quad, p)
		}
	}
	if len(quad) == 4 {
		dst.DrawPolygon(quad, laneColor, true)
		dst.DrawLine(quad[0], quad[3], edgeColor)
		dst.DrawLine(quad[1], quad[2], edgeColor)
	}

	// Cross stripes scroll towards the camera.
	const spacing = 5.0
	offset := math.Mod(g.scroll*spacing, spacing)
	for z := far + offset; z < near; z += spacing {
		a, _, okA := v.project(core.V3(-hw, 0, z))
		b, _, okB := v.project(core.V3(hw, 0, z))
		if okA && okB {
			dst.DrawLine(a, b, stripeColor)
		}
	}
}

func (g *Game) drawSprite(dst core.Surface, v view, e *sim.Entity, now time.Duration) {
	a := e.Alpha(now)
	if a <= 0 {
		return
	}
	col := e.Color.Fade(a)

	switch e.Shape {
	case sim.ShapeCircle:
		p, d, _ := v.project(e.Pos)
		dst.DrawCircle(p, v.scale(e.Radius, d), col, true)
	case sim.ShapeBox:
		p, d, _ := v.project(e.Pos)
		w, h := v.scale(e.Size.X, d), v.scale(e.Size.Y, d)
		dst.DrawRect(core.V2(p.X-w/2, p.Y-h/2), w, h, col, true)
	}
}

func (g *Game) drawHUD(dst core.Surface, now time.Duration) {
	title := fmt.Sprintf("Can You Survive for %d seconds?", int(g.cfg.Rules.SurviveFor/time.Second))
	dst.DrawText(0, core.AlignCenter, title, core.ColorWhite)

	m := g.sess.Machine
	switch {
	case m.Phase() == core.PhaseWinPending:
		dst.DrawText(1, core.AlignCenter, fmt.Sprintf("Time left: %d", m.Countdown(now)), core.ColorWhite)
	case !g.late && !m.Terminal():
		secs := int(g.sess.Elapsed() / time.Second)
		dst.DrawText(1, core.AlignCenter, fmt.Sprintf("Elapsed: %ds", secs), core.ColorWhite)
	}

	dst.DrawText(-1, core.AlignLeft, fmt.Sprintf("Hits: %d", g.score), core.ColorWhite)
	if g.paused {
		dst.DrawText(-1, core.AlignRight, "PAUSED", core.ColorYellow)
	}
}
