package core

// Action represents a semantic game action, abstracted from physical key presses.
// Games work with intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionLeft              // A, Left arrow - steer left
	ActionRight             // D, Right arrow - steer right
	ActionFire              // Space - fire
	ActionUp                // W, Up arrow - menu navigation
	ActionDown              // S, Down arrow - menu navigation
	ActionConfirm           // Enter - confirm selection in menu
	ActionBack              // B, Escape - go back to menu
	ActionRestart           // R key - restart after a terminal state
	ActionQuit              // Q, Ctrl+C - exit game/session
	ActionPause             // P - pause/unpause
	ActionScreenshot        // Ctrl+S - save the current frame
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionScreenshot:
		return "Screenshot"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for one simulation tick.
// It contains all actions that are active during this frame.
type InputFrame struct {
	Actions map[Action]bool

	// DT is the step length in reference frames. Zero means one frame.
	DT float64
}

// Step returns the frame's step length, defaulting to one reference frame.
func (f InputFrame) Step() float64 {
	if f.DT <= 0 {
		return 1
	}
	return f.DT
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action is active this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	clone.DT = f.DT
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// Latch turns discrete key presses into held intents.
// Terminals report key-down (and auto-repeat) but never key-up, so a
// pressed steering key stays active for a fixed number of ticks after the
// last press. Auto-repeat keeps refreshing it while the key is held.
type Latch struct {
	hold  int
	ticks map[Action]int
}

// NewLatch creates a latch that holds each press for hold ticks.
func NewLatch(hold int) *Latch {
	if hold < 1 {
		hold = 1
	}
	return &Latch{hold: hold, ticks: make(map[Action]int)}
}

// Press (re)starts the hold window for an action.
func (l *Latch) Press(a Action) {
	l.ticks[a] = l.hold
}

// Release drops an action immediately.
func (l *Latch) Release(a Action) {
	delete(l.ticks, a)
}

// Apply marks every held action on the frame and counts down their windows.
func (l *Latch) Apply(f *InputFrame) {
	for a, n := range l.ticks {
		f.Set(a)
		if n <= 1 {
			delete(l.ticks, a)
		} else {
			l.ticks[a] = n - 1
		}
	}
}

// Reset drops every held action.
func (l *Latch) Reset() {
	clear(l.ticks)
}
