// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// ErrUnknownGame is returned by Create for an unregistered ID.
var ErrUnknownGame = errors.New("unknown game")

// Game is the core interface that all arcade toys must implement.
// Games contain pure logic with no platform dependencies (no Bubble Tea,
// no ebiten, no audio device). The platform handles input mapping, timing,
// audio and drawing.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "bounce").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after a terminal phase.
	// The RuntimeConfig provides viewport size, RNG seed and config lookup.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by in.Step() reference frames.
	// Returns the resulting state and the audio cues that fired.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state. It must not mutate the simulation.
	// Games start with dst.SetWorld and dst.Clear; the platform finishes
	// the overlay after.
	Render(dst core.Surface, ov core.Overlay)

	// State returns the current game state.
	State() core.GameState
}

// Resizer is implemented by games that re-lay-out their world when the
// viewport changes size without a reset.
type Resizer interface {
	Resize(cfg core.RuntimeConfig)
}

// Seeder is implemented by games that reseed themselves on restart and
// report the seed of the match in progress.
type Seeder interface {
	Seed() int64
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	g := f()
	titles[id] = g.Title()
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
// Returns an error wrapping ErrUnknownGame if the ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: %w %q", ErrUnknownGame, id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
