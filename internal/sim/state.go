package sim

import (
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// Machine tracks the play-session phase.
//
//	Running -> WinPending   (armed: single survivor, survival timer)
//	WinPending -> Running   (disarmed before the delay ran out)
//	WinPending -> Won       (delay elapsed)
//	Running|WinPending -> Lost
//
// Won and Lost are absorbing.
type Machine struct {
	phase    core.Phase
	winDelay time.Duration
	armedAt  time.Duration
	endedAt  time.Duration

	onTerminal []func(core.Phase)
}

// NewMachine creates a running machine whose pending wins complete after
// winDelay.
func NewMachine(winDelay time.Duration) *Machine {
	return &Machine{winDelay: winDelay}
}

// Phase returns the current phase.
func (m *Machine) Phase() core.Phase {
	return m.phase
}

// Terminal reports whether the session has ended.
func (m *Machine) Terminal() bool {
	return m.phase.Terminal()
}

// EndedAt returns when the machine entered its terminal phase.
func (m *Machine) EndedAt() time.Duration {
	return m.endedAt
}

// OnTerminal registers a callback run once when the machine enters Won or
// Lost.
func (m *Machine) OnTerminal(fn func(core.Phase)) {
	m.onTerminal = append(m.onTerminal, fn)
}

// Arm starts the win delay. Arming an already pending machine keeps the
// original start time.
func (m *Machine) Arm(now time.Duration) {
	if m.phase == core.PhaseRunning {
		m.phase = core.PhaseWinPending
		m.armedAt = now
	}
}

// Disarm returns a pending machine to Running.
func (m *Machine) Disarm() {
	if m.phase == core.PhaseWinPending {
		m.phase = core.PhaseRunning
	}
}

// Win ends the session immediately as Won.
func (m *Machine) Win(now time.Duration) {
	m.finish(core.PhaseWon, now)
}

// Lose ends the session immediately as Lost.
func (m *Machine) Lose(now time.Duration) {
	m.finish(core.PhaseLost, now)
}

// Survivors applies the population rules: none left loses, a single
// survivor arms the win delay, anything else disarms it.
func (m *Machine) Survivors(n int, now time.Duration) {
	switch {
	case m.Terminal():
		return
	case n <= 0:
		m.Lose(now)
	case n == 1:
		m.Arm(now)
	default:
		m.Disarm()
	}
}

// Tick completes a pending win whose delay has elapsed.
func (m *Machine) Tick(now time.Duration) {
	if m.phase == core.PhaseWinPending && now-m.armedAt >= m.winDelay {
		m.Win(now)
	}
}

// Remaining returns the time left before a pending win completes.
func (m *Machine) Remaining(now time.Duration) time.Duration {
	if m.phase != core.PhaseWinPending {
		return 0
	}
	return max(m.winDelay-(now-m.armedAt), 0)
}

// Countdown returns the whole seconds left in a pending win, rounded up.
func (m *Machine) Countdown(now time.Duration) int {
	r := m.Remaining(now)
	return int((r + time.Second - 1) / time.Second)
}

func (m *Machine) finish(p core.Phase, now time.Duration) {
	if m.Terminal() {
		return
	}
	m.phase = p
	m.endedAt = now
	for _, fn := range m.onTerminal {
		fn(p)
	}
}
