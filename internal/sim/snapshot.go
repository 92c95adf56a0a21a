package sim

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// Snapshot contains the observable session state for determinism checks
// and replay verification. Uses primitive types only for stable hashing.
type Snapshot struct {
	Frame    uint64
	Phase    core.Phase
	Entities []EntitySnapshot
}

// EntitySnapshot is the hashed subset of an entity.
type EntitySnapshot struct {
	ID         EntityID
	X, Y, Z    float64
	VX, VY, VZ float64
	Radius     float64
	Color      core.Color
	Hit        bool
	Dying      bool
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:    s.frame,
		Phase:    s.Machine.Phase(),
		Entities: make([]EntitySnapshot, 0, s.Store.Len()),
	}
	for e := range s.Store.All() {
		snap.Entities = append(snap.Entities, EntitySnapshot{
			ID:     e.ID,
			X:      e.Pos.X,
			Y:      e.Pos.Y,
			Z:      e.Pos.Z,
			VX:     e.Vel.X,
			VY:     e.Vel.Y,
			VZ:     e.Vel.Z,
			Radius: e.Radius,
			Color:  e.Color,
			Hit:    e.Hit,
			Dying:  e.Dying,
		})
	}
	return snap
}

// Hash returns an FNV-1a digest of the snapshot.
func (s Snapshot) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putU := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	putF := func(v float64) { putU(math.Float64bits(v)) }
	putB := func(v bool) {
		if v {
			putU(1)
		} else {
			putU(0)
		}
	}

	putU(s.Frame)
	putU(uint64(s.Phase))
	for _, e := range s.Entities {
		putU(uint64(e.ID))
		putF(e.X)
		putF(e.Y)
		putF(e.Z)
		putF(e.VX)
		putF(e.VY)
		putF(e.VZ)
		putF(e.Radius)
		putU(uint64(e.Color))
		putB(e.Hit)
		putB(e.Dying)
	}
	return h.Sum64()
}
