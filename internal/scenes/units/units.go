// Package units is the interactive agent scene: a squad of agents on an
// occupancy map cut out of the terrain, with box selection and move orders.
package units

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-pathgrid/internal/agent"
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/registry"
	"github.com/vovakirdan/tui-pathgrid/internal/scenes"
	"github.com/vovakirdan/tui-pathgrid/internal/sim"
)

// ID is the registry identifier of the scene.
const ID = "units"

func init() {
	registry.Register(ID, func(env registry.Env) registry.Scene {
		return New(env)
	})
}

// Scene drives a sim.World from player input.
type Scene struct {
	env   registry.Env
	theme core.Theme
	kind  agent.Kind

	world  *sim.World
	origin grid.Cell // terrain cell under tile (0,0)
	view   scenes.Viewport
	cursor grid.Cell

	anchor    grid.Cell
	selecting bool

	skipped int // configured spawns that could not be placed
	screenW int
	screenH int
	state   core.SceneState
	note    string
}

// New creates the scene. The world is built on Reset.
func New(env registry.Env) *Scene {
	return &Scene{env: env, theme: core.DefaultTheme()}
}

// ID returns the scene identifier.
func (s *Scene) ID() string {
	return ID
}

// Title returns the display name.
func (s *Scene) Title() string {
	return "Units"
}

// World exposes the simulation.
func (s *Scene) World() *sim.World {
	return s.world
}

// Cursor returns the cursor tile.
func (s *Scene) Cursor() grid.Cell {
	return s.cursor
}

// Reset builds the occupancy map and spawns the configured squad.
// A resize keeps the world.
func (s *Scene) Reset(cfg core.RuntimeConfig) {
	s.screenW, s.screenH = cfg.ScreenW, cfg.ScreenH
	if s.world != nil {
		s.view.Resize(cfg.ScreenW, cfg.ScreenH)
		s.view.Follow(s.cursor)
		return
	}

	set := s.env.Settings
	var terrain grid.Terrain = grid.TerrainFunc(func(grid.Cell) bool { return true })
	if s.env.Map != nil {
		terrain = s.env.Map.Grid
	}
	window := set.Occupancy.Window()
	s.origin = window.Min
	occ := grid.OccupancyFromTerrain(terrain, window, set.Occupancy.TileScale, set.Occupancy.Policy())

	s.world = sim.NewWorld(occ, sim.Options{
		MoveEvery: set.Agents.MoveEvery,
		Agent:     set.Agents.AgentConfig(),
	})
	s.kind = set.Agents.Kind.Kind()
	s.skipped = 0
	for _, tile := range s.env.SpawnTiles() {
		if _, err := s.world.Spawn(tile, s.kind); err != nil {
			s.skipped++
		}
	}

	s.view = scenes.NewViewport(cfg.ScreenW, cfg.ScreenH)
	s.cursor = grid.Cell{}
	if len(s.world.Agents) > 0 {
		s.cursor = s.world.Agents[0].Tile
	}
	s.selecting = false
	s.state = core.SceneState{}
	s.note = ""
	s.view.Follow(s.cursor)
}

// Step applies input and advances the world clock by one frame.
func (s *Scene) Step(in core.InputFrame) core.StepResult {
	if s.world == nil {
		s.Reset(core.DefaultConfig())
	}
	if in.Has(core.ActionBack) {
		s.state.Done = true
		return core.StepResult{State: s.State()}
	}
	if in.Has(core.ActionRestart) {
		s.world = nil
		s.Reset(core.RuntimeConfig{ScreenW: s.screenW, ScreenH: s.screenH})
		return core.StepResult{State: s.State()}
	}
	if in.Has(core.ActionPause) {
		s.state.Paused = !s.state.Paused
	}

	if dx, dy := s.view.PanDelta(in); dx != 0 || dy != 0 {
		s.view.Pan(dx, dy)
		s.cursor = s.cursor.Add(grid.C(dx, dy))
	}
	if d := scenes.CursorDelta(in); d != (grid.Cell{}) {
		s.cursor = s.cursor.Add(d)
	}
	s.view.Follow(s.cursor)

	if in.Has(core.ActionMark) {
		s.mark()
	}
	if in.Has(core.ActionCycle) {
		s.selectNext()
	}
	if in.Has(core.ActionToggle) {
		s.spawn(s.cursor)
	}
	if in.Has(core.ActionConfirm) {
		n := s.world.Order(s.cursor)
		s.note = fmt.Sprintf("%d ordered to %v", n, s.cursor)
	}
	if c := in.Click; c != nil {
		s.click(c)
	}

	if !s.state.Paused {
		s.world.Update()
	}

	s.state.Status = s.status()
	return core.StepResult{State: s.State()}
}

// mark starts a box selection, or completes it on the second press.
func (s *Scene) mark() {
	if !s.selecting {
		s.anchor = s.cursor
		s.selecting = true
		s.note = "select: move and press mark again"
		return
	}
	s.selecting = false
	picked := s.world.Select(grid.RectBetween(s.anchor, s.cursor))
	s.note = fmt.Sprintf("%d selected", len(picked))
}

// selectNext selects the agent after the current single selection.
func (s *Scene) selectNext() {
	agents := s.world.Agents
	if len(agents) == 0 {
		return
	}
	next := agents[0]
	if sel := s.world.Selected(); len(sel) > 0 {
		for i, a := range agents {
			if a.ID == sel[len(sel)-1].ID {
				next = agents[(i+1)%len(agents)]
				break
			}
		}
	}
	s.world.Select(grid.RectBetween(next.Tile, next.Tile))
	s.cursor = next.Tile
	s.view.Follow(s.cursor)
	s.note = next.String()
}

func (s *Scene) spawn(tile grid.Cell) {
	a, err := s.world.Spawn(tile, s.kind)
	if err != nil {
		s.note = "cannot spawn at " + tile.String()
		return
	}
	s.note = "spawned " + a.String()
}

// click orders the selection to the clicked position, passing through
// world coordinates so the map's out-of-bounds policy applies. The
// secondary button selects the agent under the pointer.
func (s *Scene) click(p *core.Pointer) {
	tile, ok := s.view.ToCell(p.X, p.Y)
	if !ok {
		return
	}
	s.cursor = tile
	if p.Alt {
		picked := s.world.Select(grid.RectBetween(tile, tile))
		s.note = fmt.Sprintf("%d selected", len(picked))
		return
	}
	got, ok := s.world.OrderAt(s.world.Map.TileToWorld(tile))
	if !ok {
		s.note = "outside the map"
		return
	}
	s.note = fmt.Sprintf("%d ordered to %v", len(s.world.Selected()), got)
}

func (s *Scene) status() string {
	var sb strings.Builder
	counts := s.world.Counts()
	fmt.Fprintf(&sb, "agents %d", len(s.world.Agents))
	for _, st := range agent.States() {
		if n := counts[st]; n > 0 {
			fmt.Fprintf(&sb, "  %s %d", st, n)
		}
	}
	fmt.Fprintf(&sb, "  selected %d  moves %d  cursor %v", len(s.world.Selected()), s.world.Moves(), s.cursor)
	if s.skipped > 0 {
		fmt.Fprintf(&sb, "  skipped spawns %d", s.skipped)
	}
	if s.state.Paused {
		sb.WriteString("  [paused]")
	}
	if s.note != "" {
		sb.WriteString("  " + s.note)
	}
	return sb.String()
}

// State returns the current scene state.
func (s *Scene) State() core.SceneState {
	return s.state
}
