package window

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// Debug font cell size.
const (
	glyphW = 6
	glyphH = 16
)

const strokeWidth = 1.5

var (
	_ core.Surface = (*Surface)(nil)
	_ core.Overlay = (*Surface)(nil)
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Surface draws world-space shapes onto an ebiten image with square pixels.
type Surface struct {
	dst  *ebiten.Image
	view core.Viewport

	text      *ebiten.Image // scratch for one line of debug text
	textScale float64

	message      string
	messageColor core.Color
	countdown    int
}

// NewSurface creates an empty surface. Begin attaches it to a frame.
func NewSurface() *Surface {
	return &Surface{textScale: 1}
}

// Begin starts a frame on dst.
func (s *Surface) Begin(dst *ebiten.Image) {
	s.dst = dst
	b := dst.Bounds()
	s.view = core.NewViewport(float64(b.Dx()), float64(b.Dy()), 1)
	s.textScale = math.Max(1, math.Floor(float64(b.Dy())/(glyphH*30)))
	s.Hide()
	dst.Fill(color.Black)
}

// Finish draws the overlay box on top of the scene.
func (s *Surface) Finish() {
	var lines []string
	if s.message != "" {
		lines = append(lines, strings.Split(s.message, "\n")...)
	}
	if s.countdown > 0 {
		lines = append(lines, strconv.Itoa(s.countdown))
	}
	if len(lines) == 0 {
		return
	}

	cw, lh := glyphW*s.textScale, glyphH*s.textScale
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	boxW := float64(longest+4) * cw
	boxH := float64(len(lines)*2+1) * lh / 1.5
	x := (s.view.Width - boxW) / 2
	y := (s.view.Height - boxH) / 2

	col := s.messageColor
	if col.IsDefault() {
		col = core.ColorWhite
	}
	vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(boxW), float32(boxH), color.RGBA{A: 0xd0}, false)
	vector.StrokeRect(s.dst, float32(x), float32(y), float32(boxW), float32(boxH), 2, rgba(col), false)
	for i, l := range lines {
		tw := float64(utf8.RuneCountInString(l)) * cw
		s.print((s.view.Width-tw)/2, y+lh/3+float64(i)*lh*2/1.5, l, col)
	}
}

// SetWorld maps the world rectangle onto the frame.
func (s *Surface) SetWorld(w, h float64) {
	s.view.Fit(w, h)
}

// Bounds returns the current world size.
func (s *Surface) Bounds() (w, h float64) {
	return s.view.WorldW, s.view.WorldH
}

// Clear fills the frame with bg.
func (s *Surface) Clear(bg core.Color) {
	if bg.IsDefault() {
		s.dst.Fill(color.Black)
		return
	}
	s.dst.Fill(rgba(bg))
}

func (s *Surface) point(p core.Vec2) (x, y float32) {
	fx, fy := s.view.Map(p)
	return float32(fx), float32(fy)
}

// DrawCircle draws a circle at least one pixel across.
func (s *Surface) DrawCircle(center core.Vec2, radius float64, c core.Color, filled bool) {
	x, y := s.point(center)
	r := float32(math.Max(radius*s.view.Scale, 1))
	if filled {
		vector.DrawFilledCircle(s.dst, x, y, r, rgba(c), true)
		return
	}
	vector.StrokeCircle(s.dst, x, y, r, strokeWidth, rgba(c), true)
}

// DrawRect draws an axis-aligned rectangle.
func (s *Surface) DrawRect(min core.Vec2, w, h float64, c core.Color, filled bool) {
	x0, y0 := s.point(min)
	x1, y1 := s.point(min.Add(core.V2(w, h)))
	if filled {
		vector.DrawFilledRect(s.dst, x0, y0, x1-x0, y1-y0, rgba(c), false)
		return
	}
	vector.StrokeRect(s.dst, x0, y0, x1-x0, y1-y0, strokeWidth, rgba(c), false)
}

// DrawPolygon draws a closed polygon. Filled polygons use the even-odd rule.
func (s *Surface) DrawPolygon(pts []core.Vec2, c core.Color, filled bool) {
	if len(pts) < 3 {
		return
	}
	if !filled {
		for i := range pts {
			s.DrawLine(pts[i], pts[(i+1)%len(pts)], c)
		}
		return
	}

	var path vector.Path
	x, y := s.point(pts[0])
	path.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = s.point(p)
		path.LineTo(x, y)
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	cr, cg, cb, ca := rgba(c).RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(cr) / 0xffff
		vs[i].ColorG = float32(cg) / 0xffff
		vs[i].ColorB = float32(cb) / 0xffff
		vs[i].ColorA = float32(ca) / 0xffff
	}
	s.dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{
		FillRule:  ebiten.EvenOdd,
		AntiAlias: true,
	})
}

// DrawArc strokes an arc counter-clockwise from one angle to another.
func (s *Surface) DrawArc(center core.Vec2, radius, from, to float64, c core.Color) {
	for to < from {
		to += 360
	}
	px := math.Max(radius*s.view.Scale, 1)
	step := core.Degrees(2 / px)
	prev := center.Add(core.FromAngle(from, radius))
	for a := from + step; ; a += step {
		a = math.Min(a, to)
		p := center.Add(core.FromAngle(a, radius))
		s.DrawLine(prev, p, c)
		prev = p
		if a >= to {
			return
		}
	}
}

// DrawLine strokes a segment.
func (s *Surface) DrawLine(a, b core.Vec2, c core.Color) {
	x0, y0 := s.point(a)
	x1, y1 := s.point(b)
	vector.StrokeLine(s.dst, x0, y0, x1, y1, strokeWidth, rgba(c), true)
}

// DrawText writes a HUD line in window space.
func (s *Surface) DrawText(row int, align core.Align, text string, c core.Color) {
	lh := glyphH * s.textScale
	y := float64(row) * lh
	if row < 0 {
		y = s.view.Height + y
	}
	tw := float64(utf8.RuneCountInString(text)) * glyphW * s.textScale
	x := 0.0
	switch align {
	case core.AlignCenter:
		x = (s.view.Width - tw) / 2
	case core.AlignRight:
		x = s.view.Width - tw
	}
	s.print(x, y, text, c)
}

// print draws debug text in a color. The debug font only prints white, so
// the line goes through a scratch image and is tinted on the way out.
func (s *Surface) print(x, y float64, text string, c core.Color) {
	w := utf8.RuneCountInString(text) * glyphW
	if w == 0 {
		return
	}
	if s.text == nil || s.text.Bounds().Dx() < w {
		s.text = ebiten.NewImage(max(w, 512), glyphH)
	}
	s.text.Clear()
	ebitenutil.DebugPrintAt(s.text, text, 0, 0)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s.textScale, s.textScale)
	op.GeoM.Translate(x, y)
	if !c.IsDefault() {
		op.ColorScale.ScaleWithColor(rgba(c))
	}
	s.dst.DrawImage(s.text.SubImage(image.Rect(0, 0, w, glyphH)).(*ebiten.Image), op)
}

// ShowMessage displays a centered message box on top of the frame.
func (s *Surface) ShowMessage(text string, c core.Color) {
	s.message = text
	s.messageColor = c
}

// ShowCountdown displays a countdown number below any message.
func (s *Surface) ShowCountdown(value int) {
	s.countdown = value
}

// Hide removes the overlay.
func (s *Surface) Hide() {
	s.message = ""
	s.messageColor = core.ColorDefault
	s.countdown = 0
}

func rgba(c core.Color) color.RGBA {
	if c.IsDefault() {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	r, g, b := c.RGB()
	return color.RGBA{r, g, b, 0xff}
}
