package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

func TestRendererText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorRed)
	s.DrawTextColor(2, 0, "cd", core.ColorWhite)
	s.DrawText(0, 1, "plain")

	rd := NewRenderer(nil)
	out := rd.Render(s)

	for _, want := range []string{"ab", "cd", "plain"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() = %q, expected it to contain %q", out, want)
		}
	}
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("Render() has %d line breaks, expected 1", got)
	}
}

func TestRendererCachesStyles(t *testing.T) {
	s := core.NewScreen(4, 1)
	s.SetBackground(core.ColorBlack)
	s.SetCell(0, 0, 'x', core.ColorRed)
	s.SetCell(2, 0, 'y', core.ColorRed)

	rd := NewRenderer(nil)
	rd.Render(s)
	rd.Render(s)

	// red on black and default on black
	if len(rd.styles) != 2 {
		t.Errorf("cached styles = %d, expected 2", len(rd.styles))
	}
	if _, ok := rd.styles[styleKey{core.ColorRed, core.ColorBlack}]; !ok {
		t.Error("red on black style was not cached")
	}
}
