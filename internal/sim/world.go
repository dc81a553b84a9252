// Package sim runs a group of agents over one occupancy map: spawning,
// rectangle selection, move orders and the fixed movement cadence.
package sim

import (
	"fmt"

	"github.com/vovakirdan/tui-pathgrid/internal/agent"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
)

// DefaultMoveEvery is the number of Update calls between movement ticks.
const DefaultMoveEvery = 3

// Options configure a World.
type Options struct {
	MoveEvery int
	Agent     agent.Config
}

// World owns the occupancy map and the agents on it.
// Agents move in spawn order, so earlier agents win contested tiles.
type World struct {
	Map    *grid.OccupancyMap
	Agents []*agent.Agent

	selected  map[int]bool
	moveEvery int
	tick      int
	moves     int
	nextID    int
	agentCfg  agent.Config
}

// NewWorld creates an empty world over m.
func NewWorld(m *grid.OccupancyMap, opts Options) *World {
	if opts.MoveEvery <= 0 {
		opts.MoveEvery = DefaultMoveEvery
	}
	return &World{
		Map:       m,
		selected:  make(map[int]bool),
		moveEvery: opts.MoveEvery,
		nextID:    1,
		agentCfg:  opts.Agent,
	}
}

// Spawn adds an agent on tile. The tile must be free.
func (w *World) Spawn(tile grid.Cell, kind agent.Kind) (*agent.Agent, error) {
	a, err := agent.Spawn(w.Map, w.nextID, kind, tile, w.agentCfg)
	if err != nil {
		return nil, fmt.Errorf("sim: spawn: %w", err)
	}
	w.nextID++
	w.Agents = append(w.Agents, a)
	return a, nil
}

// AgentAt returns the agent standing on c.
func (w *World) AgentAt(c grid.Cell) *agent.Agent {
	for _, a := range w.Agents {
		if a.Tile == c {
			return a
		}
	}
	return nil
}

// Select replaces the selection with the agents inside r.
func (w *World) Select(r grid.Rect) []*agent.Agent {
	clear(w.selected)
	for _, a := range w.Agents {
		if r.Contains(a.Tile) {
			w.selected[a.ID] = true
		}
	}
	return w.Selected()
}

// ClearSelection deselects every agent.
func (w *World) ClearSelection() {
	clear(w.selected)
}

// IsSelected reports whether a is selected.
func (w *World) IsSelected(a *agent.Agent) bool {
	return w.selected[a.ID]
}

// Selected returns the selected agents in spawn order.
func (w *World) Selected() []*agent.Agent {
	var out []*agent.Agent
	for _, a := range w.Agents {
		if w.selected[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// Order sends every selected agent to target and returns how many
// received the order.
func (w *World) Order(target grid.Cell) int {
	n := 0
	for _, a := range w.Selected() {
		a.Order(target)
		n++
	}
	return n
}

// OrderAt converts a world position to a tile and orders the selection
// there. ok is false when the map's policy rejects the position.
func (w *World) OrderAt(p grid.Point) (tile grid.Cell, ok bool) {
	tile, ok = w.Map.WorldToTile(p)
	if !ok {
		return tile, false
	}
	w.Order(tile)
	return tile, true
}

// Update advances the clock by one frame. Agents move on every
// MoveEvery-th frame; the return value reports whether they did.
func (w *World) Update() bool {
	w.tick++
	if w.tick < w.moveEvery {
		return false
	}
	w.tick = 0
	w.Step()
	return true
}

// Step moves every agent once, ignoring the cadence.
func (w *World) Step() {
	for _, a := range w.Agents {
		agent.Move(a, w.Map)
	}
	w.moves++
}

// Moves returns the number of movement ticks run so far.
func (w *World) Moves() int {
	return w.moves
}

// Counts tallies agents by state.
func (w *World) Counts() map[agent.State]int {
	counts := make(map[agent.State]int, len(agent.States()))
	for _, a := range w.Agents {
		counts[a.State]++
	}
	return counts
}

// Settled reports whether no agent can make further progress without a
// new order.
func (w *World) Settled() bool {
	for _, a := range w.Agents {
		if a.State != agent.Arrived && a.State != agent.Stuck {
			return false
		}
	}
	return true
}
