// Package sim implements the entity simulation loop shared by every toy:
// a bounded entity store, the physics step (integration, boundaries and
// pairwise elastic collisions), a scheduler over simulated time, the
// win/lose state machine and the session that ties them together.
//
// Nothing in this package touches a terminal, window or audio device.
package sim

import (
	"math"
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// EntityID identifies an entity within a session. IDs increase
// monotonically and are never reused.
type EntityID uint64

// Kind is a game-defined entity tag (ball, bullet, enemy...).
type Kind uint8

// Shape selects how an entity is drawn and, for pair collisions, always
// collides as a circle of Radius.
type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeTriangle
	ShapeBox    // axis-aligned, Size gives width/height
	ShapeStreak // line from Pos along Size
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	case ShapeTriangle:
		return "triangle"
	case ShapeBox:
		return "box"
	case ShapeStreak:
		return "streak"
	default:
		return "unknown"
	}
}

// Entity is a simulated object.
type Entity struct {
	ID    EntityID
	Kind  Kind
	Shape Shape

	Pos, Vel core.Vec3 // world units, velocity per reference frame
	Radius   float64
	Size     core.Vec2 // extents for boxes and streaks

	Color   core.Color
	Angle   float64 // rotation in radians
	Spin    float64 // radians per reference frame
	Opacity float64 // base opacity, multiplied by fades

	SpawnedAt time.Duration
	TTL       time.Duration // 0 = unlimited
	FadeIn    time.Duration
	FadeOut   time.Duration
	FadeStart time.Duration // when the fade-out began

	Hit     bool // consumed by a collision, awaiting removal
	Dying   bool // fading out, no longer simulated
	Removed bool
}

// Live reports whether the entity still takes part in the simulation.
func (e *Entity) Live() bool {
	return !e.Removed && !e.Dying
}

// Age returns how long the entity has existed at now.
func (e *Entity) Age(now time.Duration) time.Duration {
	return now - e.SpawnedAt
}

// Kill stops the entity and starts its fade-out. With no fade-out
// duration the entity is removed immediately.
func (e *Entity) Kill(now time.Duration) {
	if e.Removed || e.Dying {
		return
	}
	e.Vel = core.Vec3{}
	e.Spin = 0
	if e.FadeOut <= 0 {
		e.Removed = true
		return
	}
	e.Dying = true
	e.FadeStart = now
}

// Expired reports whether the entity's TTL or fade-out has run out.
func (e *Entity) Expired(now time.Duration) bool {
	if e.Dying && now-e.FadeStart >= e.FadeOut {
		return true
	}
	return e.TTL > 0 && e.Age(now) >= e.TTL
}

// Alpha returns the effective opacity at now, combining the base opacity
// with fade-in and fade-out progress.
func (e *Entity) Alpha(now time.Duration) float64 {
	a := e.Opacity
	if e.FadeIn > 0 {
		a *= core.ClampF(float64(e.Age(now))/float64(e.FadeIn), 0, 1)
	}
	if e.Dying && e.FadeOut > 0 {
		a *= core.ClampF(1-float64(now-e.FadeStart)/float64(e.FadeOut), 0, 1)
	}
	return a
}

// Outline returns the polygon vertices of a square or triangle in world
// coordinates, rotated by Angle. Other shapes return nil.
func (e *Entity) Outline() []core.Vec2 {
	var local []core.Vec2
	s := e.Radius
	switch e.Shape {
	case ShapeSquare:
		h := s / 2
		local = []core.Vec2{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}
	case ShapeTriangle:
		local = []core.Vec2{{X: 0, Y: -s}, {X: s, Y: s}, {X: -s, Y: s}}
	default:
		return nil
	}

	sin, cos := math.Sincos(e.Angle)
	c := e.Pos.XY()
	pts := make([]core.Vec2, len(local))
	for i, p := range local {
		pts[i] = core.V2(c.X+p.X*cos-p.Y*sin, c.Y+p.X*sin+p.Y*cos)
	}
	return pts
}

func (e *Entity) validate() {
	if !(e.Radius > 0) {
		panic("sim: entity with non-positive radius")
	}
	if math.IsNaN(e.Pos.X) || math.IsNaN(e.Pos.Y) || math.IsNaN(e.Pos.Z) {
		panic("sim: entity position is NaN")
	}
}
