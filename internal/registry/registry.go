// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-pathgrid/internal/config"
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/mapfile"
)

// Scene is an interactive view over a map.
// Scenes contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Scene interface {
	// ID returns a unique identifier for this scene (e.g., "astar", "units").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or resets the scene state.
	// Called once at start, on restart and when the terminal is resized.
	Reset(cfg core.RuntimeConfig)

	// Step advances the scene by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current scene state.
	State() core.SceneState
}

// Env is what a factory gets to build a scene. Map may be nil, in which
// case the scene works on an empty grid.
type Env struct {
	Map      *mapfile.Map
	Settings config.Settings
}

// SpawnTiles returns the occupancy tiles agents start on. Spawn cells
// listed by the map win over agents.spawn; they are terrain cells and are
// shifted by the occupancy origin.
func (e Env) SpawnTiles() []grid.Cell {
	if e.Map != nil && len(e.Map.Desc.Spawn) > 0 {
		origin := e.Settings.Occupancy.Origin.Cell()
		tiles := make([]grid.Cell, len(e.Map.Desc.Spawn))
		for i, c := range e.Map.Desc.Spawn {
			tiles[i] = c.Sub(origin)
		}
		return tiles
	}
	tiles := make([]grid.Cell, len(e.Settings.Agents.Spawn))
	for i, c := range e.Settings.Agents.Spawn {
		tiles[i] = c.Cell()
	}
	return tiles
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scene.
// It must not touch env.Map before Reset.
type Factory func(env Env) Scene

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Typically called from a scene package's init() function.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	titles[id] = f(Env{Settings: config.DefaultSettings()}).Title()
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SceneInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scene by its ID.
// Returns an error if the scene ID is not registered.
func Create(id string, env Env) (Scene, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown scene %q", id)
	}

	return f(env), nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
