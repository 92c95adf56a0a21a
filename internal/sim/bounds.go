package sim

import (
	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// Outcome is the result of constraining an entity to its boundary.
type Outcome int

const (
	OutcomeNone      Outcome = iota // Inside, untouched
	OutcomeReflected                // Bounced off a wall
	OutcomeWrapped                  // Re-entered from the opposite edge
	OutcomeExited                   // Left through an open edge, removed
	OutcomeEscaped                  // Passed through an arena gap, fades out
	OutcomeKilled                   // Touched a hazard, fades out
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeReflected:
		return "reflected"
	case OutcomeWrapped:
		return "wrapped"
	case OutcomeExited:
		return "exited"
	case OutcomeEscaped:
		return "escaped"
	case OutcomeKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// Removes reports whether the outcome takes the entity out of play.
func (o Outcome) Removes() bool {
	return o == OutcomeExited || o == OutcomeEscaped || o == OutcomeKilled
}

// Boundary confines entities on the X/Y plane.
type Boundary interface {
	// Constrain corrects the entity's position and velocity against the
	// boundary and reports what happened. It does not remove entities.
	Constrain(e *Entity) Outcome
}

// Edge selects what happens when an entity meets a side of a Box.
type Edge int

const (
	EdgeReflect Edge = iota // bounce back inside
	EdgeOpen                // entity leaves once fully outside
	EdgeWrap                // re-enter from the opposite side
)

// Box is an axis-aligned rectangular boundary.
type Box struct {
	Min, Max                 core.Vec2
	Left, Right, Top, Bottom Edge
}

// NewBox creates a box from (0,0) to (w,h) reflecting on every edge.
func NewBox(w, h float64) Box {
	return Box{Max: core.V2(w, h)}
}

// Constrain applies the per-edge rules to e.
func (b Box) Constrain(e *Entity) Outcome {
	out := OutcomeNone
	x, vx, ox := constrainAxis(e.Pos.X, e.Vel.X, e.Radius, b.Min.X, b.Max.X, b.Left, b.Right)
	y, vy, oy := constrainAxis(e.Pos.Y, e.Vel.Y, e.Radius, b.Min.Y, b.Max.Y, b.Top, b.Bottom)
	e.Pos.X, e.Vel.X = x, vx
	e.Pos.Y, e.Vel.Y = y, vy

	for _, o := range [...]Outcome{ox, oy} {
		if o > out {
			out = o
		}
	}
	return out
}

func constrainAxis(p, v, r, lo, hi float64, loEdge, hiEdge Edge) (float64, float64, Outcome) {
	switch {
	case p-r < lo:
		switch loEdge {
		case EdgeReflect:
			if v < 0 {
				v = -v
			}
			return lo + r, v, OutcomeReflected
		case EdgeOpen:
			if p+r < lo {
				return p, v, OutcomeExited
			}
		case EdgeWrap:
			if p+r < lo {
				return hi + r, v, OutcomeWrapped
			}
		}
	case p+r > hi:
		switch hiEdge {
		case EdgeReflect:
			if v > 0 {
				v = -v
			}
			return hi - r, v, OutcomeReflected
		case EdgeOpen:
			if p-r > hi {
				return p, v, OutcomeExited
			}
		case EdgeWrap:
			if p-r > hi {
				return lo - r, v, OutcomeWrapped
			}
		}
	}
	return p, v, OutcomeNone
}

// Gap is an opening in an Arena wall. Angles are in degrees.
type Gap struct {
	Center float64
	Width  float64
}

// Start returns the angle of the gap's lower edge, the trailing one while
// the gap turns with increasing angle.
func (g Gap) Start() float64 { return g.Center - g.Width/2 }

// End returns the angle of the gap's second edge.
func (g Gap) End() float64 { return g.Center + g.Width/2 }

// Contains reports whether angle lies strictly inside the gap arc.
func (g Gap) Contains(angle float64) bool {
	if g.Width <= 0 {
		return false
	}
	d := core.AngleDiff(angle, g.Center)
	if d < 0 {
		d = -d
	}
	return d < g.Width/2
}

// Hazard is a lethal point on the arena wall.
type Hazard struct {
	Angle  float64 // position on the wall, degrees
	Radius float64 // kill reach beyond the entity's own radius
}

// Arena is a circular boundary with an optional gap and hazards.
type Arena struct {
	Center  core.Vec2
	Radius  float64
	Gap     Gap
	Hazards []Hazard
}

// HazardPos returns the world position of h.
func (a *Arena) HazardPos(h Hazard) core.Vec2 {
	return a.Center.Add(core.FromAngle(h.Angle, a.Radius))
}

// Constrain kills entities touching a hazard, lets entities through the
// gap, and reflects everything else off the wall.
func (a *Arena) Constrain(e *Entity) Outcome {
	p := e.Pos.XY()
	for _, h := range a.Hazards {
		if p.Sub(a.HazardPos(h)).Len() <= h.Radius+e.Radius {
			return OutcomeKilled
		}
	}

	rel := p.Sub(a.Center)
	dist := rel.Len()
	if dist+e.Radius <= a.Radius {
		return OutcomeNone
	}
	if a.Gap.Contains(rel.Angle()) {
		return OutcomeEscaped
	}
	if dist == 0 {
		return OutcomeNone
	}

	// Inward unit normal.
	n := rel.Scale(-1 / dist)
	v := e.Vel.XY()
	if vn := v.Dot(n); vn < 0 {
		v = v.Sub(n.Scale(2 * vn))
	}
	e.Vel = e.Vel.WithXY(v)

	inside := a.Radius - e.Radius
	if inside < 0 {
		inside = 0
	}
	e.Pos = e.Pos.WithXY(a.Center.Add(rel.Scale(inside / dist)))
	return OutcomeReflected
}
