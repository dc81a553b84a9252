// Package config provides YAML-based settings loading for the grid viewer,
// the search commands and the agent simulation.
package config

import (
	"github.com/vovakirdan/tui-pathgrid/internal/agent"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
)

// Settings is the whole configuration file.
type Settings struct {
	Grid      GridConfig      `yaml:"grid"`
	Search    SearchConfig    `yaml:"search"`
	Occupancy OccupancyConfig `yaml:"occupancy"`
	Agents    AgentsConfig    `yaml:"agents"`
	Viewer    ViewerConfig    `yaml:"viewer"`
}

// GridConfig defines terrain storage parameters.
type GridConfig struct {
	ChunkSize   int          `yaml:"chunk_size"`
	FloodBounds BoundsConfig `yaml:"flood_bounds"`
}

// BoundsConfig is a half-open cell rectangle.
type BoundsConfig struct {
	MinX int `yaml:"min_x"`
	MinY int `yaml:"min_y"`
	MaxX int `yaml:"max_x"`
	MaxY int `yaml:"max_y"`
}

// Rect converts the bounds to a grid.Rect.
func (b BoundsConfig) Rect() grid.Rect {
	return grid.R(b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// CellConfig is a tile coordinate.
type CellConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Cell converts to grid.Cell.
func (c CellConfig) Cell() grid.Cell {
	return grid.C(c.X, c.Y)
}

// SearchConfig defines interactive search limits.
type SearchConfig struct {
	Algorithm string `yaml:"algorithm"` // "fill", "dijkstra" or "astar"
	MaxIter   int    `yaml:"max_iter"`  // 0 = unbounded
}

// OccupancyConfig defines the occupancy window used by the simulation.
type OccupancyConfig struct {
	Origin      CellConfig `yaml:"origin"` // terrain cell under tile (0,0)
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	TileScale   float64    `yaml:"tile_scale"`
	OutOfBounds string     `yaml:"out_of_bounds"` // "origin", "reject" or "clamp"
}

// Window returns the terrain rectangle covered by the occupancy map.
func (o OccupancyConfig) Window() grid.Rect {
	lo := o.Origin.Cell()
	return grid.Rect{Min: lo, Max: lo.Add(grid.C(o.Width, o.Height))}
}

// Policy returns the parsed out-of-bounds policy, falling back to reject.
func (o OccupancyConfig) Policy() grid.OutOfBounds {
	p, err := grid.ParseOutOfBounds(o.OutOfBounds)
	if err != nil {
		return grid.OutOfBoundsReject
	}
	return p
}

// AgentsConfig defines agent limits, cadence and the initial squad.
type AgentsConfig struct {
	MaxTries  int          `yaml:"max_tries"`
	MaxIter   int          `yaml:"max_iter"`
	MoveEvery int          `yaml:"move_every"` // frames between movement ticks
	Kind      KindConfig   `yaml:"kind"`
	Spawn     []CellConfig `yaml:"spawn"`
}

// KindConfig names an agent variant and its glyph.
type KindConfig struct {
	Name  string `yaml:"name"`
	Glyph string `yaml:"glyph"`
}

// Kind converts to agent.Kind. An empty glyph uses the first letter of
// the name.
func (k KindConfig) Kind() agent.Kind {
	kind := agent.Kind{Name: k.Name}
	for _, r := range k.Glyph {
		kind.Glyph = r
		break
	}
	if kind.Glyph == 0 {
		for _, r := range k.Name {
			kind.Glyph = r
			break
		}
	}
	if kind.Name == "" {
		return agent.DefaultKind
	}
	return kind
}

// AgentConfig returns the per-agent limits.
func (a AgentsConfig) AgentConfig() agent.Config {
	return agent.Config{MaxTries: a.MaxTries, MaxIter: a.MaxIter}
}

// ViewerConfig defines animation parameters.
type ViewerConfig struct {
	TickRate     int    `yaml:"tick_rate"`      // frames per second
	StepsPerTick int    `yaml:"steps_per_tick"` // trace steps revealed per frame
	Speed        string `yaml:"speed"`          // optional preset, overrides steps_per_tick
}
