// Package replay records and plays back toy sessions.
//
// A replay is a msgpack stream: a Header, one Frame per simulation step,
// and a closing frame carrying the snapshot hash of the final state. The
// simulation is deterministic for a seed and an input sequence, so the
// inputs alone reproduce the session; the hash proves it.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

const (
	magic   = "arcade-replay"
	version = 1
)

var (
	// ErrBadHeader is returned when a stream does not start with a
	// supported replay header.
	ErrBadHeader = errors.New("replay: bad header")

	// ErrMismatch is returned when playback ends in a different state
	// than the one recorded.
	ErrMismatch = errors.New("replay: final state mismatch")
)

// Header describes the session a replay was recorded from.
type Header struct {
	Magic   string `msgpack:"magic"`
	Version int    `msgpack:"v"`

	GameID     string        `msgpack:"game"`
	Seed       int64         `msgpack:"seed"`
	ConfigPath string        `msgpack:"config,omitempty"`
	Difficulty string        `msgpack:"difficulty,omitempty"`
	TimeStep   core.TimeStep `msgpack:"timestep"`
	ScreenW    int           `msgpack:"w"`
	ScreenH    int           `msgpack:"h"`
	CellAspect float64       `msgpack:"aspect"`
	Recorded   time.Time     `msgpack:"at"`
}

// NewHeader captures the runtime configuration of a session.
func NewHeader(gameID string, cfg core.RuntimeConfig) Header {
	return Header{
		Magic:      magic,
		Version:    version,
		GameID:     gameID,
		Seed:       cfg.Seed,
		ConfigPath: cfg.ConfigPath,
		Difficulty: cfg.Difficulty,
		TimeStep:   cfg.TimeStep,
		ScreenW:    cfg.ScreenW,
		ScreenH:    cfg.ScreenH,
		CellAspect: cfg.CellAspect,
		Recorded:   time.Now().UTC(),
	}
}

// Runtime rebuilds the configuration the session was reset with.
func (h Header) Runtime() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.Seed = h.Seed
	cfg.ConfigPath = h.ConfigPath
	cfg.Difficulty = h.Difficulty
	cfg.TimeStep = h.TimeStep
	cfg.ScreenW = h.ScreenW
	cfg.ScreenH = h.ScreenH
	if h.CellAspect > 0 {
		cfg.CellAspect = h.CellAspect
	}
	return cfg
}

func (h Header) validate() error {
	if h.Magic != magic {
		return fmt.Errorf("%w: not a replay", ErrBadHeader)
	}
	if h.Version != version {
		return fmt.Errorf("%w: version %d", ErrBadHeader, h.Version)
	}
	if h.GameID == "" {
		return fmt.Errorf("%w: missing game", ErrBadHeader)
	}
	return nil
}

// recorded lists the actions that influence a simulation step.
var recorded = []core.Action{
	core.ActionLeft,
	core.ActionRight,
	core.ActionFire,
	core.ActionRestart,
	core.ActionPause,
}

// Frame is the input of one simulation step.
type Frame struct {
	Actions uint32  `msgpack:"a"`
	DT      float64 `msgpack:"dt,omitempty"`

	// End marks the closing frame; Hash is only set on it.
	End  bool   `msgpack:"end,omitempty"`
	Hash uint64 `msgpack:"hash,omitempty"`
}

// FrameOf packs an input frame. Actions that do not affect the simulation
// are dropped.
func FrameOf(in core.InputFrame) Frame {
	var f Frame
	for _, a := range recorded {
		if in.Has(a) {
			f.Actions |= 1 << uint(a)
		}
	}
	if in.DT > 0 && in.DT != 1 {
		f.DT = in.DT
	}
	return f
}

// Input unpacks the frame.
func (f Frame) Input() core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range recorded {
		if f.Actions&(1<<uint(a)) != 0 {
			in.Set(a)
		}
	}
	in.DT = f.DT
	return in
}

// Recorder writes a replay stream.
type Recorder struct {
	enc    *msgpack.Encoder
	closer io.Closer
	frames uint64
	done   bool
}

// NewRecorder writes the header to w and returns a recorder for the
// frames that follow.
func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&h); err != nil {
		return nil, fmt.Errorf("replay: write header: %w", err)
	}
	r := &Recorder{enc: enc}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r, nil
}

// Create opens a replay file at path, truncating any existing one.
func Create(path string, h Header) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("replay: create %s: %w", path, err)
	}
	r, err := NewRecorder(f, h)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Frames returns the number of frames recorded so far.
func (r *Recorder) Frames() uint64 {
	return r.frames
}

// Record appends the input of one step.
func (r *Recorder) Record(in core.InputFrame) error {
	if r.done {
		return errors.New("replay: record after finish")
	}
	f := FrameOf(in)
	if err := r.enc.Encode(&f); err != nil {
		return fmt.Errorf("replay: write frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Finish writes the closing frame and closes the underlying file.
// Calling it again is a no-op.
func (r *Recorder) Finish(hash uint64) error {
	if r.done {
		return nil
	}
	r.done = true

	end := Frame{End: true, Hash: hash}
	err := r.enc.Encode(&end)
	if err != nil {
		err = fmt.Errorf("replay: write trailer: %w", err)
	}
	if r.closer != nil {
		if cerr := r.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("replay: close: %w", cerr)
		}
	}
	return err
}

// Replay is a decoded recording.
type Replay struct {
	Header Header
	Frames []Frame

	// Complete is false when the stream ended without a closing frame,
	// as it does when the recording process died. Hash is then zero.
	Complete bool
	Hash     uint64
}

// Read decodes a replay stream.
func Read(r io.Reader) (*Replay, error) {
	dec := msgpack.NewDecoder(r)

	rep := &Replay{}
	if err := dec.Decode(&rep.Header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if err := rep.Header.validate(); err != nil {
		return nil, err
	}

	for {
		var f Frame
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return rep, nil
		}
		if err != nil {
			return nil, fmt.Errorf("replay: frame %d: %w", len(rep.Frames), err)
		}
		if f.End {
			rep.Complete = true
			rep.Hash = f.Hash
			return rep, nil
		}
		rep.Frames = append(rep.Frames, f)
	}
}

// Load reads the replay file at path.
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
