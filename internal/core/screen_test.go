package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Fatalf("GetCell(%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenSetCell(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetCell(5, 5, '●', ColorRed)
	got := s.GetCell(5, 5)
	if got.Rune != '●' || got.Color != ColorRed {
		t.Errorf("GetCell(5, 5) = %+v, expected red ●", got)
	}

	s.Set(1, 1, 'X')
	if s.GetCell(1, 1).Color != ColorDefault {
		t.Error("Set should use the default color")
	}

	// Out of bounds writes are ignored, reads are blank.
	s.SetCell(-1, 0, 'A', ColorRed)
	s.SetCell(0, 100, 'A', ColorRed)
	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenClearAndFill(t *testing.T) {
	s := NewScreen(5, 5)
	s.Fill('#')
	if s.Get(4, 4) != '#' {
		t.Errorf("Fill: Get(4, 4) = %q, expected '#'", s.Get(4, 4))
	}

	s.SetCell(2, 2, 'o', ColorRed)
	s.Clear()
	if c := s.GetCell(2, 2); c != blankCell {
		t.Errorf("Clear: GetCell(2, 2) = %+v, expected blank", c)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColor(2, 1, "Héllo", ColorYellow)

	if !strings.HasPrefix(s.Row(1), "  Héllo") {
		t.Errorf("Row(1) = %q", s.Row(1))
	}
	if s.GetCell(3, 1).Rune != 'é' || s.GetCell(3, 1).Color != ColorYellow {
		t.Errorf("multi-byte rune should occupy one cell, got %+v", s.GetCell(3, 1))
	}

	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("text should be clipped at right boundary")
	}

	s.DrawTextCentered(2, "Hi")
	if s.Get(9, 2) != 'H' || s.Get(10, 2) != 'i' {
		t.Error("DrawTextCentered: text not at expected position")
	}
}

func TestScreenDrawRectAndBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(2, 2, 3, 3), '#')
	if s.Get(2, 2) != '#' || s.Get(4, 4) != '#' {
		t.Error("DrawRect should fill its area")
	}
	if s.Get(5, 5) != ' ' {
		t.Error("DrawRect should not affect outside area")
	}

	s.Clear()
	s.DrawBox(NewRect(1, 1, 5, 4), ColorMagenta)
	corners := map[[2]int]rune{{1, 1}: '┌', {5, 1}: '┐', {1, 4}: '└', {5, 4}: '┘'}
	for pos, want := range corners {
		if got := s.GetCell(pos[0], pos[1]); got.Rune != want || got.Color != ColorMagenta {
			t.Errorf("corner at %v = %+v, expected %q", pos, got, want)
		}
	}
	if s.Get(3, 1) != '─' || s.Get(1, 2) != '│' {
		t.Error("box edges not drawn")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	if got, expected := s.String(), "AAAAA\nBBBBB\nCCCCC"; got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColor(0, 0, "Hello", ColorRed)

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("after resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("content should be preserved, row 0 = %q", s.Row(0))
	}

	s.Resize(15, 8)
	if !strings.HasPrefix(s.Row(0), "Hello") || s.GetCell(0, 0).Color != ColorRed {
		t.Errorf("content should be preserved after enlarging, row 0 = %q", s.Row(0))
	}
	if s.Row(-1) != strings.Repeat(" ", 15) {
		t.Errorf("out of bounds row should be spaces, got %q", s.Row(-1))
	}
}
