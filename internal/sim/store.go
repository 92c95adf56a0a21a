package sim

import (
	"fmt"
	"iter"
	"time"
)

// SpawnRule fills in a freshly allocated entity. The store assigns the ID
// before calling it.
type SpawnRule func(e *Entity)

// Store is a bounded, ordered collection of entities.
// Despawned entities are only marked removed; Compact drops them so that
// iteration inside a step stays stable.
type Store struct {
	entities []Entity
	capacity int
	nextID   EntityID
}

// NewStore creates a store holding at most capacity entities.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		panic(fmt.Sprintf("sim: store capacity must be positive, got %d", capacity))
	}
	return &Store{
		entities: make([]Entity, 0, min(capacity, 1024)),
		capacity: capacity,
	}
}

// Spawn creates an entity when the store has room. It returns false and
// changes nothing when the store is full.
func (s *Store) Spawn(rule SpawnRule) (EntityID, bool) {
	if s.Full() {
		return 0, false
	}
	s.nextID++
	e := Entity{ID: s.nextID, Opacity: 1}
	rule(&e)
	e.ID = s.nextID
	e.validate()

	s.entities = append(s.entities, e)
	if s.Len() > s.capacity {
		panic("sim: store population above capacity")
	}
	return e.ID, true
}

// Despawn removes an entity. Absent or already removed IDs are ignored.
func (s *Store) Despawn(id EntityID) {
	if e := s.find(id); e != nil {
		e.Removed = true
	}
}

// Get returns a copy of the entity with the given ID.
func (s *Store) Get(id EntityID) (Entity, bool) {
	if e := s.find(id); e != nil && !e.Removed {
		return *e, true
	}
	return Entity{}, false
}

// Update applies fn to the entity with the given ID, if present.
func (s *Store) Update(id EntityID, fn func(e *Entity)) bool {
	e := s.find(id)
	if e == nil || e.Removed {
		return false
	}
	fn(e)
	return true
}

// Len returns the number of entities not yet removed.
func (s *Store) Len() int {
	n := 0
	for i := range s.entities {
		if !s.entities[i].Removed {
			n++
		}
	}
	return n
}

// Cap returns the maximum population.
func (s *Store) Cap() int {
	return s.capacity
}

// Full reports whether Spawn would be refused.
func (s *Store) Full() bool {
	return s.Len() >= s.capacity
}

// Count returns how many present entities satisfy pred.
func (s *Store) Count(pred func(e *Entity) bool) int {
	n := 0
	for i := range s.entities {
		e := &s.entities[i]
		if !e.Removed && pred(e) {
			n++
		}
	}
	return n
}

// All yields a copy of every present entity in store order.
// The sequence is lazy and can be ranged over repeatedly.
func (s *Store) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := range s.entities {
			if s.entities[i].Removed {
				continue
			}
			if !yield(s.entities[i]) {
				return
			}
		}
	}
}

// Each calls fn with a mutable pointer to every present entity.
// Only the physics step should mutate entities.
func (s *Store) Each(fn func(e *Entity)) {
	for i := range s.entities {
		e := &s.entities[i]
		if e.Removed {
			continue
		}
		fn(e)
	}
}

// Pairs calls fn once for every unordered pair of present entities that
// satisfy match. A nil match pairs everything.
func (s *Store) Pairs(match func(e *Entity) bool, fn func(a, b *Entity)) {
	idx := make([]int, 0, len(s.entities))
	for i := range s.entities {
		e := &s.entities[i]
		if !e.Removed && (match == nil || match(e)) {
			idx = append(idx, i)
		}
	}
	for x := 0; x < len(idx); x++ {
		for y := x + 1; y < len(idx); y++ {
			a, b := &s.entities[idx[x]], &s.entities[idx[y]]
			if a.Removed || b.Removed {
				continue
			}
			fn(a, b)
		}
	}
}

// Expire removes entities whose TTL or fade-out has run out at now.
func (s *Store) Expire(now time.Duration) int {
	n := 0
	s.Each(func(e *Entity) {
		if e.Expired(now) {
			e.Removed = true
			n++
		}
	})
	return n
}

// Compact drops removed entities, preserving order.
func (s *Store) Compact() {
	kept := s.entities[:0]
	for _, e := range s.entities {
		if !e.Removed {
			kept = append(kept, e)
		}
	}
	clear(s.entities[len(kept):])
	s.entities = kept
}

// Clear removes every entity. IDs keep increasing.
func (s *Store) Clear() {
	clear(s.entities)
	s.entities = s.entities[:0]
}

func (s *Store) find(id EntityID) *Entity {
	// IDs are assigned in increasing order and Compact preserves order,
	// so the slice is sorted by ID.
	lo, hi := 0, len(s.entities)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case s.entities[mid].ID == id:
			return &s.entities[mid]
		case s.entities[mid].ID < id:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return nil
}
