package core

import "math"

// Viewport letterboxes the world rectangle [0,WorldW]x[0,WorldH] onto a
// physical area of Width x Height units, each Aspect times taller than
// it is wide. The world keeps its proportions and is centred.
type Viewport struct {
	Width, Height  float64
	Aspect         float64
	WorldW, WorldH float64

	Scale      float64 // horizontal units per world unit
	OffX, OffY float64 // world origin in physical units
}

// NewViewport creates a viewport over a physical area.
func NewViewport(width, height, aspect float64) Viewport {
	if aspect <= 0 {
		aspect = 1
	}
	v := Viewport{Width: width, Height: height, Aspect: aspect}
	v.Fit(0, 0)
	return v
}

// Fit maps a world of w x h onto the viewport. A zero size maps one world
// unit to one horizontal unit.
func (v *Viewport) Fit(w, h float64) {
	if w <= 0 || h <= 0 {
		w, h = v.Width, v.Height*v.Aspect
	}
	v.WorldW, v.WorldH = w, h
	if w <= 0 || h <= 0 {
		v.Scale, v.OffX, v.OffY = 0, 0, 0
		return
	}
	v.Scale = math.Min(v.Width/w, v.Height*v.Aspect/h)
	v.OffX = (v.Width - w*v.Scale) / 2
	v.OffY = (v.Height - h*v.Scale/v.Aspect) / 2
}

// Resize changes the physical area and refits the current world.
func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
	v.Fit(v.WorldW, v.WorldH)
}

// Map converts a world point to physical coordinates.
func (v Viewport) Map(p Vec2) (x, y float64) {
	return v.OffX + p.X*v.Scale, v.OffY + p.Y*v.Scale/v.Aspect
}
