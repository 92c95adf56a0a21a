package sim

import (
	"testing"
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

func TestMachineSurvivors(t *testing.T) {
	tests := []struct {
		name     string
		steps    []int // population at each second
		expected core.Phase
	}{
		{"many survivors keep running", []int{5, 4, 3}, core.PhaseRunning},
		{"single survivor pending", []int{3, 1, 1}, core.PhaseWinPending},
		{"single survivor wins after delay", []int{2, 1, 1, 1, 1, 1, 1, 1}, core.PhaseWon},
		{"pending resets when population changes", []int{1, 1, 1, 2, 1, 1, 1}, core.PhaseWinPending},
		{"nobody left loses", []int{3, 1, 0}, core.PhaseLost},
		{"lost is absorbing", []int{0, 1, 1, 1, 1, 1, 1, 1, 1}, core.PhaseLost},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMachine(6 * time.Second)
			for i, n := range tc.steps {
				now := time.Duration(i) * time.Second
				m.Survivors(n, now)
				m.Tick(now)
			}
			if m.Phase() != tc.expected {
				t.Errorf("Phase() = %v, expected %v", m.Phase(), tc.expected)
			}
		})
	}
}

func TestMachineCountdown(t *testing.T) {
	m := NewMachine(6 * time.Second)
	if m.Countdown(0) != 0 {
		t.Error("running machine should have no countdown")
	}
	m.Arm(time.Second)
	tests := []struct {
		now      time.Duration
		expected int
	}{
		{time.Second, 6},
		{1500 * time.Millisecond, 6},
		{2 * time.Second, 5},
		{6900 * time.Millisecond, 1},
	}
	for _, tc := range tests {
		if got := m.Countdown(tc.now); got != tc.expected {
			t.Errorf("Countdown(%v) = %d, expected %d", tc.now, got, tc.expected)
		}
	}
}

func TestMachineOnTerminalOnce(t *testing.T) {
	m := NewMachine(time.Second)
	calls := 0
	var phase core.Phase
	m.OnTerminal(func(p core.Phase) {
		calls++
		phase = p
	})

	m.Win(3 * time.Second)
	m.Lose(4 * time.Second)
	m.Win(5 * time.Second)

	if calls != 1 || phase != core.PhaseWon {
		t.Errorf("OnTerminal called %d times with %v, expected once with won", calls, phase)
	}
	if m.EndedAt() != 3*time.Second {
		t.Errorf("EndedAt() = %v, expected 3s", m.EndedAt())
	}
}
