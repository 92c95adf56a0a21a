package core

// Align positions a HUD text line horizontally.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Surface is the drawing target for a game's presentation step.
// Coordinates are world units; SetWorld declares the world rectangle that
// the surface letterboxes onto its physical area.
type Surface interface {
	SetWorld(w, h float64)
	Bounds() (w, h float64)
	Clear(bg Color)
	DrawCircle(center Vec2, radius float64, c Color, filled bool)
	DrawRect(min Vec2, w, h float64, c Color, filled bool)
	DrawPolygon(pts []Vec2, c Color, filled bool)
	// DrawArc strokes the arc from one angle to another, counter-clockwise
	// in degrees.
	DrawArc(center Vec2, radius, from, to float64, c Color)
	DrawLine(a, b Vec2, c Color)
	// DrawText writes a HUD line. Non-negative rows count from the top,
	// negative rows from the bottom.
	DrawText(row int, align Align, text string, c Color)
}

// Overlay shows end-of-game and countdown messages on top of the scene.
type Overlay interface {
	// ShowMessage displays text in a centered box. Lines are separated by '\n'.
	ShowMessage(text string, c Color)
	ShowCountdown(value int)
	Hide()
}

// AudioSink plays sound cues. Calls never block and never fail; a sink
// that is not ready simply drops them.
type AudioSink interface {
	Play(cue Cue, volume float64)
	Stop(cue Cue)
}

// Spectrum exposes frequency band magnitudes of a playing sound.
type Spectrum interface {
	// Bands fills dst with magnitudes in [0, 255] and returns how many bands
	// were written. It returns 0 when no data is available yet.
	Bands(dst []uint8) int
}

// SpectrumConsumer is implemented by games that react to audio spectra.
// The platform attaches the analyser of each cue it plays.
type SpectrumConsumer interface {
	AttachSpectrum(cue Cue, s Spectrum)
}
