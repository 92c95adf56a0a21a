package sim

import (
	"testing"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

func ball(x, y, vx, vy float64) SpawnRule {
	return func(e *Entity) {
		e.Shape = ShapeCircle
		e.Pos = core.V3(x, y, 0)
		e.Vel = core.V3(vx, vy, 0)
		e.Radius = 15
	}
}

func TestStoreCapacity(t *testing.T) {
	s := NewStore(50)
	spawned := 0
	for i := 0; i < 1000; i++ {
		if _, ok := s.Spawn(ball(0, 0, 0, 0)); ok {
			spawned++
		}
		if s.Len() > s.Cap() {
			t.Fatalf("Len() = %d exceeds Cap() = %d", s.Len(), s.Cap())
		}
	}
	if spawned != 50 {
		t.Errorf("spawned %d entities, expected 50", spawned)
	}
	if !s.Full() {
		t.Error("Full() = false, expected true")
	}
}

func TestStoreIDsMonotonic(t *testing.T) {
	s := NewStore(3)
	var last EntityID
	for i := 0; i < 10; i++ {
		id, ok := s.Spawn(ball(0, 0, 0, 0))
		if !ok {
			t.Fatalf("spawn %d refused", i)
		}
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		last = id
		s.Despawn(id)
		s.Compact()
	}
}

func TestStoreDespawn(t *testing.T) {
	s := NewStore(10)
	a, _ := s.Spawn(ball(1, 0, 0, 0))
	b, _ := s.Spawn(ball(2, 0, 0, 0))

	s.Despawn(a)
	s.Despawn(a)
	s.Despawn(999)
	if s.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", s.Len())
	}
	if _, ok := s.Get(a); ok {
		t.Error("Get() found a despawned entity")
	}
	if e, ok := s.Get(b); !ok || e.Pos.X != 2 {
		t.Errorf("Get(b) = %+v, %v", e, ok)
	}

	s.Compact()
	if s.Len() != 1 {
		t.Errorf("after Compact, Len() = %d, expected 1", s.Len())
	}
	if e, ok := s.Get(b); !ok || e.ID != b {
		t.Error("Compact should keep live entities addressable")
	}
}

func TestStoreAllRestartable(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 4; i++ {
		s.Spawn(ball(float64(i), 0, 0, 0))
	}
	seq := s.All()

	for pass := 0; pass < 2; pass++ {
		n := 0
		for e := range seq {
			if e.Pos.X != float64(n) {
				t.Errorf("pass %d: entity %d at x=%v, expected insertion order", pass, n, e.Pos.X)
			}
			n++
		}
		if n != 4 {
			t.Errorf("pass %d yielded %d entities, expected 4", pass, n)
		}
	}

	// Copies are read only.
	for e := range s.All() {
		e.Pos.X = 100
	}
	if s.Count(func(e *Entity) bool { return e.Pos.X == 100 }) != 0 {
		t.Error("mutating All() copies should not change the store")
	}
}

func TestStorePairs(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 5; i++ {
		s.Spawn(ball(float64(i), 0, 0, 0))
	}
	pairs := 0
	s.Pairs(nil, func(a, b *Entity) {
		if a.ID >= b.ID {
			t.Errorf("pair (%d, %d) not ordered", a.ID, b.ID)
		}
		pairs++
	})
	if pairs != 10 {
		t.Errorf("Pairs visited %d pairs, expected 10", pairs)
	}

	even := func(e *Entity) bool { return int(e.Pos.X)%2 == 0 }
	pairs = 0
	s.Pairs(even, func(a, b *Entity) { pairs++ })
	if pairs != 3 {
		t.Errorf("filtered Pairs visited %d pairs, expected 3", pairs)
	}
}

func TestStoreInvalidSpawnPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("spawning a zero-radius entity should panic")
		}
	}()
	s := NewStore(1)
	s.Spawn(func(e *Entity) {})
}
