package core

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Glyphs used by the terminal rasteriser.
const (
	GlyphFill   = '█'
	GlyphDot    = '●'
	GlyphRing   = '○'
	GlyphStroke = '•'
	GlyphTri    = '▲'
)

var (
	_ Surface = (*Canvas)(nil)
	_ Overlay = (*Canvas)(nil)
)

// Canvas rasterises world-space shapes onto a Screen.
// It implements Surface and Overlay for the terminal frontend.
type Canvas struct {
	screen *Screen
	aspect float64
	view   Viewport

	message      string
	messageColor Color
	countdown    int
}

// NewCanvas creates a canvas drawing onto s, treating each cell as
// cellAspect times taller than it is wide.
func NewCanvas(s *Screen, cellAspect float64) *Canvas {
	if cellAspect <= 0 {
		cellAspect = TerminalCellAspect
	}
	c := &Canvas{screen: s, aspect: cellAspect}
	c.SetWorld(0, 0)
	return c
}

// Screen returns the underlying cell buffer.
func (c *Canvas) Screen() *Screen {
	return c.screen
}

// Begin clears the screen and overlay state for a new frame.
func (c *Canvas) Begin() {
	c.screen.Clear()
	c.screen.SetBackground(ColorDefault)
	c.Hide()
}

// Finish draws the overlay on top of the scene.
func (c *Canvas) Finish() {
	lines := []string{}
	if c.message != "" {
		lines = append(lines, strings.Split(c.message, "\n")...)
	}
	if c.countdown > 0 {
		lines = append(lines, strconv.Itoa(c.countdown))
	}
	if len(lines) == 0 {
		return
	}

	boxW := 0
	for _, l := range lines {
		boxW = Max(boxW, utf8.RuneCountInString(l))
	}
	boxW += 4
	boxH := len(lines)*2 + 1
	boxX := (c.screen.Width() - boxW) / 2
	boxY := (c.screen.Height() - boxH) / 2

	col := c.messageColor
	if col.IsDefault() {
		col = ColorWhite
	}
	c.screen.DrawRect(NewRect(boxX, boxY, boxW, boxH), ' ')
	c.screen.DrawBox(NewRect(boxX, boxY, boxW, boxH), col)
	for i, l := range lines {
		x := boxX + (boxW-utf8.RuneCountInString(l))/2
		c.screen.DrawTextColor(x, boxY+1+i*2, l, col)
	}
}

// SetWorld maps the world rectangle [0,w]x[0,h] onto the screen, keeping
// proportions and centring it. A zero size maps one world unit to one
// column.
func (c *Canvas) SetWorld(w, h float64) {
	c.view = NewViewport(float64(c.screen.Width()), float64(c.screen.Height()), c.aspect)
	c.view.Fit(w, h)
}

// Bounds returns the current world size.
func (c *Canvas) Bounds() (w, h float64) {
	return c.view.WorldW, c.view.WorldH
}

// Clear wipes the scene and sets the background color.
func (c *Canvas) Clear(bg Color) {
	c.screen.Clear()
	c.screen.SetBackground(bg)
}

func (c *Canvas) toCell(p Vec2) (x, y float64) {
	return c.view.Map(p)
}

func (c *Canvas) plot(x, y float64, r rune, col Color) {
	c.screen.SetCell(int(math.Floor(x)), int(math.Floor(y)), r, col)
}

// DrawCircle draws a circle as an ellipse of cells. Circles smaller than a
// cell collapse to a single dot glyph.
func (c *Canvas) DrawCircle(center Vec2, radius float64, col Color, filled bool) {
	cx, cy := c.toCell(center)
	rx := radius * c.view.Scale
	ry := rx / c.aspect
	if rx < 0.75 || ry < 0.5 {
		g := GlyphDot
		if !filled {
			g = GlyphRing
		}
		c.plot(cx, cy, g, col)
		return
	}

	innerX, innerY := rx-1, ry-1
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx+rx)); x++ {
			px, py := float64(x)+0.5-cx, float64(y)+0.5-cy
			if sq(px/rx)+sq(py/ry) > 1 {
				continue
			}
			if !filled && innerX > 0 && innerY > 0 && sq(px/innerX)+sq(py/innerY) <= 1 {
				continue
			}
			r := GlyphFill
			if !filled {
				r = GlyphStroke
			}
			c.screen.SetCell(x, y, r, col)
		}
	}
}

// DrawRect draws an axis-aligned rectangle.
func (c *Canvas) DrawRect(min Vec2, w, h float64, col Color, filled bool) {
	x0, y0 := c.toCell(min)
	x1, y1 := c.toCell(min.Add(V2(w, h)))
	cx0, cy0 := int(math.Floor(x0)), int(math.Floor(y0))
	cx1, cy1 := Max(int(math.Ceil(x1))-1, cx0), Max(int(math.Ceil(y1))-1, cy0)
	r := NewRect(cx0, cy0, cx1-cx0+1, cy1-cy0+1)

	if filled || r.W < 2 || r.H < 2 {
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				c.screen.SetCell(x, y, GlyphFill, col)
			}
		}
		return
	}
	c.screen.DrawBox(r, col)
}

// DrawPolygon draws a closed polygon. Filled polygons use an even-odd test
// on cell centres.
func (c *Canvas) DrawPolygon(pts []Vec2, col Color, filled bool) {
	if len(pts) < 3 {
		return
	}
	cells := make([]Vec2, len(pts))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	var sum Vec2
	for i, p := range pts {
		x, y := c.toCell(p)
		cells[i] = V2(x, y)
		sum = sum.Add(cells[i])
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}

	if !filled {
		for i := range pts {
			c.DrawLine(pts[i], pts[(i+1)%len(pts)], col)
		}
		return
	}

	hit := false
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		for x := int(math.Floor(minX)); x <= int(math.Ceil(maxX)); x++ {
			if pointInPolygon(V2(float64(x)+0.5, float64(y)+0.5), cells) {
				c.screen.SetCell(x, y, GlyphFill, col)
				hit = true
			}
		}
	}
	if !hit {
		centroid := sum.Scale(1 / float64(len(cells)))
		c.plot(centroid.X, centroid.Y, GlyphTri, col)
	}
}

// DrawArc strokes an arc, counter-clockwise from one angle to another.
func (c *Canvas) DrawArc(center Vec2, radius, from, to float64, col Color) {
	for to < from {
		to += 360
	}
	cols := math.Max(radius*c.view.Scale, 1)
	step := Degrees(0.5 / cols)
	for a := from; a <= to; a += step {
		p := center.Add(FromAngle(a, radius))
		x, y := c.toCell(p)
		c.plot(x, y, GlyphStroke, col)
	}
}

// DrawLine draws a segment using a glyph matching its slope.
func (c *Canvas) DrawLine(a, b Vec2, col Color) {
	x0, y0 := c.toCell(a)
	x1, y1 := c.toCell(b)
	dx, dy := x1-x0, y1-y0

	g := lineGlyph(dx, dy)
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		c.plot(x0, y0, g, col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.plot(x0+dx*t, y0+dy*t, g, col)
	}
}

// DrawText writes a HUD line in screen space.
func (c *Canvas) DrawText(row int, align Align, text string, col Color) {
	y := row
	if row < 0 {
		y = c.screen.Height() + row
	}
	n := utf8.RuneCountInString(text)
	x := 0
	switch align {
	case AlignCenter:
		x = (c.screen.Width() - n) / 2
	case AlignRight:
		x = c.screen.Width() - n
	}
	c.screen.DrawTextColor(x, y, text, col)
}

// ShowMessage displays a centered message box on top of the frame.
func (c *Canvas) ShowMessage(text string, col Color) {
	c.message = text
	c.messageColor = col
}

// ShowCountdown displays a countdown number below any message.
func (c *Canvas) ShowCountdown(value int) {
	c.countdown = value
}

// Hide removes the overlay.
func (c *Canvas) Hide() {
	c.message = ""
	c.messageColor = ColorDefault
	c.countdown = 0
}

func lineGlyph(dx, dy float64) rune {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case ady <= adx*0.4:
		return '─'
	case adx <= ady*0.4:
		return '│'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func pointInPolygon(p Vec2, poly []Vec2) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

func sq(v float64) float64 { return v * v }
