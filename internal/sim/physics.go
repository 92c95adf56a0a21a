package sim

import (
	"math"
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// DefaultGrace is how long a new entity is exempt from pair collisions.
const DefaultGrace = time.Second

// Contact describes a pair collision resolved during a step.
type Contact struct {
	A, B   EntityID
	Normal core.Vec2 // unit vector from A to B
	Depth  float64   // overlap before separation
}

// BoundaryEvent records a boundary outcome other than OutcomeNone.
type BoundaryEvent struct {
	ID      EntityID
	Kind    Kind
	Outcome Outcome
	Pos     core.Vec3
	Color   core.Color
}

// PairResolver resolves the collision of two overlapping entities.
// It reports whether the pair was in contact.
type PairResolver func(a, b *Entity) (Contact, bool)

// Integrate advances e by dt reference frames.
func Integrate(e *Entity, dt float64) {
	e.Pos = e.Pos.Add(e.Vel.Scale(dt))
	e.Angle += e.Spin * dt
	if math.IsNaN(e.Pos.X) || math.IsNaN(e.Pos.Y) || math.IsNaN(e.Pos.Z) {
		panic("sim: integration produced NaN position")
	}
}

func overlap(a, b *Entity) (n core.Vec2, dist, depth float64, ok bool) {
	d := b.Pos.XY().Sub(a.Pos.XY())
	dist = d.Len()
	sum := a.Radius + b.Radius
	if dist >= sum {
		return core.Vec2{}, dist, 0, false
	}
	n = core.V2(1, 0)
	if dist > 0 {
		n = d.Scale(1 / dist)
	}
	return n, dist, sum - dist, true
}

// ResolvePair applies an equal-mass elastic collision on the X/Y plane.
// When the entities approach each other the normal components of their
// velocities are exchanged; the pair is then separated by the overlap,
// half to each side.
func ResolvePair(a, b *Entity) (Contact, bool) {
	n, _, depth, ok := overlap(a, b)
	if !ok {
		return Contact{}, false
	}

	rel := b.Vel.XY().Sub(a.Vel.XY())
	if j := rel.Dot(n); j < 0 {
		a.Vel = a.Vel.WithXY(a.Vel.XY().Add(n.Scale(j)))
		b.Vel = b.Vel.WithXY(b.Vel.XY().Sub(n.Scale(j)))
	}

	half := n.Scale(depth / 2)
	a.Pos = a.Pos.WithXY(a.Pos.XY().Sub(half))
	b.Pos = b.Pos.WithXY(b.Pos.XY().Add(half))

	return Contact{A: a.ID, B: b.ID, Normal: n, Depth: depth}, true
}

// BouncePair negates both velocities of an overlapping pair without
// separating it.
func BouncePair(a, b *Entity) (Contact, bool) {
	n, _, depth, ok := overlap(a, b)
	if !ok {
		return Contact{}, false
	}
	a.Vel = a.Vel.WithXY(a.Vel.XY().Scale(-1))
	b.Vel = b.Vel.WithXY(b.Vel.XY().Scale(-1))
	return Contact{A: a.ID, B: b.ID, Normal: n, Depth: depth}, true
}

// Exempt reports whether e is excluded from pair collisions at now.
func Exempt(e *Entity, now, grace time.Duration) bool {
	return !e.Live() || e.Age(now) < grace
}

// Physics is a configurable physics step over a Store.
type Physics struct {
	Boundary Boundary     // nil = unbounded
	Resolve  PairResolver // nil = no pair collisions
	Grace    time.Duration

	// Moves limits integration and boundaries to matching entities. Nil = all.
	Moves func(e *Entity) bool

	// Collides limits pair collisions to matching entities. Nil = all.
	Collides func(e *Entity) bool
}

// Report is what a physics step produced, for cosmetic reactions.
type Report struct {
	Contacts []Contact
	Events   []BoundaryEvent
}

// Removed returns the events that took an entity out of play.
func (r Report) Removed() []BoundaryEvent {
	var out []BoundaryEvent
	for _, ev := range r.Events {
		if ev.Outcome.Removes() {
			out = append(out, ev)
		}
	}
	return out
}

// Count returns how many boundary events had the given outcome.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Outcome == o {
			n++
		}
	}
	return n
}

// Step integrates every live entity, applies the boundary and resolves
// pair collisions. Entities leaving through an open edge are removed;
// escaped and killed entities start fading out.
func (p Physics) Step(s *Store, now time.Duration, dt float64) Report {
	var rep Report

	s.Each(func(e *Entity) {
		if !e.Live() || e.Hit || (p.Moves != nil && !p.Moves(e)) {
			return
		}
		Integrate(e, dt)
		if p.Boundary == nil {
			return
		}
		out := p.Boundary.Constrain(e)
		switch out {
		case OutcomeNone:
			return
		case OutcomeExited:
			e.Removed = true
		case OutcomeEscaped, OutcomeKilled:
			e.Kill(now)
		}
		rep.Events = append(rep.Events, BoundaryEvent{
			ID: e.ID, Kind: e.Kind, Outcome: out, Pos: e.Pos, Color: e.Color,
		})
	})

	if p.Resolve != nil {
		rep.Contacts = Collide(s, now, p.Grace, p.Collides, p.Resolve)
	}
	return rep
}

// Collide resolves every unordered pair of non-exempt entities once.
func Collide(s *Store, now, grace time.Duration, match func(e *Entity) bool, resolve PairResolver) []Contact {
	var contacts []Contact
	s.Pairs(match, func(a, b *Entity) {
		if Exempt(a, now, grace) || Exempt(b, now, grace) {
			return
		}
		if c, ok := resolve(a, b); ok {
			contacts = append(contacts, c)
		}
	})
	return contacts
}
