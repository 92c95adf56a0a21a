package sim

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// Stepper is the game-specific part of a simulation step.
type Stepper interface {
	// Physics moves and collides the session's entities for one step.
	Physics(s *Session, dt float64)
	// Judge applies the game's win and lose triggers to s.Machine.
	Judge(s *Session)
}

// Session owns all state of one play-through: entities, phase, jobs,
// clock and random source. Sessions share nothing, so any number can run
// side by side.
type Session struct {
	Store   *Store
	Machine *Machine
	Sched   *Scheduler
	RNG     *rand.Rand

	now   time.Duration
	frame uint64
	cues  []core.CueRequest
}

// NewSession creates a session with the given store capacity, RNG seed and
// pending-win delay. Entering a terminal phase cancels every scheduled job.
func NewSession(capacity int, seed int64, winDelay time.Duration) *Session {
	s := &Session{
		Store:   NewStore(capacity),
		Machine: NewMachine(winDelay),
		Sched:   NewScheduler(),
		RNG:     rand.New(rand.NewSource(seed)),
	}
	s.Machine.OnTerminal(func(core.Phase) {
		s.Sched.CancelAll()
	})
	return s
}

// Now returns the simulated time since the session began.
func (s *Session) Now() time.Duration {
	return s.now
}

// Frame returns the number of steps taken.
func (s *Session) Frame() uint64 {
	return s.frame
}

// Elapsed returns the simulated play time, frozen once the session ended.
func (s *Session) Elapsed() time.Duration {
	if s.Machine.Terminal() {
		return s.Machine.EndedAt()
	}
	return s.now
}

// Cue queues a sound to be played after the step.
func (s *Session) Cue(c core.Cue, volume float64) {
	s.cues = append(s.cues, core.CueRequest{Cue: c, Volume: volume})
}

// StopCue queues a request to stop a sound.
func (s *Session) StopCue(c core.Cue) {
	s.cues = append(s.cues, core.CueRequest{Cue: c, Stop: true})
}

// DrainCues returns and clears the queued cue requests.
func (s *Session) DrainCues() []core.CueRequest {
	out := s.cues
	s.cues = nil
	return out
}

// Step advances the session by dt reference frames: clock, scheduled
// jobs, physics and termination checks. Once terminal only the clock and
// fade-out expiry advance; no position or velocity changes.
func (s *Session) Step(dt float64, st Stepper) {
	s.frame++
	s.now += time.Duration(dt * float64(core.ReferenceFrame))

	if !s.Machine.Terminal() {
		s.Sched.Advance(s.now)
	}
	if !s.Machine.Terminal() {
		st.Physics(s, dt)
	}
	if !s.Machine.Terminal() {
		st.Judge(s)
		s.Machine.Tick(s.now)
	}

	s.Store.Expire(s.now)
	s.Store.Compact()
}
