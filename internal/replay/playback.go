package replay

import (
	"fmt"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/sim"
)

// Snapshotter is implemented by games that expose their session state.
type Snapshotter interface {
	Snapshot() sim.Snapshot
}

// HashOf returns the snapshot hash of g, or 0 when g has no snapshot.
func HashOf(g registry.Game) uint64 {
	if s, ok := g.(Snapshotter); ok {
		return s.Snapshot().Hash()
	}
	return 0
}

// Playback hands out recorded frames one step at a time.
type Playback struct {
	rep *Replay
	pos int
}

// NewPlayback starts at the first frame of rep.
func NewPlayback(rep *Replay) *Playback {
	return &Playback{rep: rep}
}

// Replay returns the recording being played.
func (p *Playback) Replay() *Replay {
	return p.rep
}

// Next returns the input of the next step. ok is false once every frame
// has been handed out.
func (p *Playback) Next() (in core.InputFrame, ok bool) {
	if p.pos >= len(p.rep.Frames) {
		return core.InputFrame{}, false
	}
	in = p.rep.Frames[p.pos].Input()
	p.pos++
	return in, true
}

// Done reports whether every frame has been played.
func (p *Playback) Done() bool {
	return p.pos >= len(p.rep.Frames)
}

// Progress returns the number of frames played and the total.
func (p *Playback) Progress() (played, total int) {
	return p.pos, len(p.rep.Frames)
}

// Verify checks g against the recorded final hash. Incomplete recordings
// and games without snapshots always pass.
func (p *Playback) Verify(g registry.Game) error {
	if !p.rep.Complete {
		return nil
	}
	if _, ok := g.(Snapshotter); !ok {
		return nil
	}
	if got := HashOf(g); got != p.rep.Hash {
		return fmt.Errorf("%w: got %016x, recorded %016x", ErrMismatch, got, p.rep.Hash)
	}
	return nil
}

// Run resets g with the recorded configuration, plays every frame
// headless and verifies the final state.
func Run(rep *Replay, g registry.Game) (core.GameState, error) {
	if g.ID() != rep.Header.GameID {
		return core.GameState{}, fmt.Errorf("replay: recorded for %q, not %q", rep.Header.GameID, g.ID())
	}
	g.Reset(rep.Header.Runtime())

	p := NewPlayback(rep)
	for {
		in, ok := p.Next()
		if !ok {
			break
		}
		g.Step(in)
	}
	return g.State(), p.Verify(g)
}
