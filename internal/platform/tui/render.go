package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// styleKey identifies a foreground/background pair.
type styleKey struct {
	fg, bg core.Color
}

// Renderer converts Screen buffers to styled strings for one output.
// SSH sessions each get their own so the color profile matches the client.
type Renderer struct {
	r      *lipgloss.Renderer
	styles map[styleKey]lipgloss.Style
}

// NewRenderer creates a renderer. A nil lipgloss renderer uses the
// process default.
func NewRenderer(r *lipgloss.Renderer) *Renderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Renderer{r: r, styles: make(map[styleKey]lipgloss.Style)}
}

func (rd *Renderer) style(fg, bg core.Color) lipgloss.Style {
	k := styleKey{fg, bg}
	if s, ok := rd.styles[k]; ok {
		return s
	}
	s := rd.r.NewStyle()
	if !fg.IsDefault() {
		s = s.Foreground(lipgloss.Color(fg.Hex()))
	}
	if !bg.IsDefault() {
		s = s.Background(lipgloss.Color(bg.Hex()))
	}
	rd.styles[k] = s
	return s
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (rd *Renderer) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*4 + s.Height())

	bg := s.Background()
	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			st := rd.style(startColor, bg)
			sb.WriteString(st.Render(run.String()))
		}
	}
	return sb.String()
}

// RenderScreen renders s with the process default renderer.
func RenderScreen(s *core.Screen) string {
	return NewRenderer(nil).Render(s)
}
