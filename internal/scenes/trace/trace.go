// Package trace animates flood fill, Dijkstra and A* over a map.
//
// A search runs to completion when requested; the scene then replays its
// visit order at a configurable number of expansions per frame,
// highlighting the cells discovered by the current expansion, and finally
// draws the path cell by cell.
package trace

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-pathgrid/internal/config"
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/registry"
	"github.com/vovakirdan/tui-pathgrid/internal/scenes"
	"github.com/vovakirdan/tui-pathgrid/internal/search"
)

func init() {
	for _, algo := range search.Algorithms() {
		registry.Register(string(algo), func(env registry.Env) registry.Scene {
			return New(algo, env)
		})
	}
}

// Phase is the animation stage of the current trace.
type Phase int

const (
	PhaseIdle Phase = iota // no search yet
	PhaseVisit             // replaying VisitOrder
	PhasePath              // drawing Path
	PhaseDone              // everything shown
)

// Scene is the trace visualiser.
type Scene struct {
	id    string
	algo  search.Algorithm
	env   registry.Env
	terr  *grid.ChunkedGrid
	theme core.Theme

	view   scenes.Viewport
	cursor grid.Cell
	start  grid.Cell
	target grid.Cell

	hasTarget bool

	searcher *search.Searcher
	result   *search.Result
	elapsed  time.Duration

	// Animation accumulators.
	phase    Phase
	shown    int // expansions revealed
	pathLen  int // path cells revealed
	visited  map[grid.Cell]bool
	open     map[grid.Cell]bool
	batch    map[grid.Cell]bool
	onPath   map[grid.Cell]bool
	steps    int
	screenW  int
	screenH  int
	state    core.SceneState
	lastNote string
}

// New creates a trace scene that starts with algo selected.
func New(algo search.Algorithm, env registry.Env) *Scene {
	return &Scene{
		id:    string(algo),
		algo:  algo,
		env:   env,
		theme: core.DefaultTheme(),
	}
}

// ID returns the scene identifier.
func (s *Scene) ID() string {
	return s.id
}

// Title returns the display name.
func (s *Scene) Title() string {
	return s.algo.Title() + " trace"
}

// Algorithm returns the algorithm currently selected.
func (s *Scene) Algorithm() search.Algorithm {
	return s.algo
}

// Reset initializes the scene. A resize keeps the current trace.
func (s *Scene) Reset(cfg core.RuntimeConfig) {
	s.screenW, s.screenH = cfg.ScreenW, cfg.ScreenH
	s.steps = max(cfg.StepsPerTick, 1)

	if s.terr != nil {
		s.view.Resize(cfg.ScreenW, cfg.ScreenH)
		s.view.Follow(s.cursor)
		return
	}

	if s.env.Map != nil {
		s.terr = s.env.Map.Grid
	} else {
		s.terr = grid.NewChunkedGrid(s.env.Settings.Grid.ChunkSize)
	}
	s.searcher = search.NewSearcher()
	s.view = scenes.NewViewport(cfg.ScreenW, cfg.ScreenH)
	s.start = s.home()
	s.cursor = s.start
	s.hasTarget = false
	s.state = core.SceneState{}
	s.clearTrace()
	s.view.Center(s.cursor)
}

// home picks the initial start cell: the map's first spawn point, else
// the top-left of the loaded area.
func (s *Scene) home() grid.Cell {
	if s.env.Map != nil && len(s.env.Map.Desc.Spawn) > 0 {
		return s.env.Map.Desc.Spawn[0]
	}
	if b, ok := s.terr.Bounds(); ok {
		return b.Min
	}
	return grid.Cell{}
}

func (s *Scene) clearTrace() {
	s.result = nil
	s.phase = PhaseIdle
	s.shown, s.pathLen = 0, 0
	s.visited = make(map[grid.Cell]bool)
	s.open = make(map[grid.Cell]bool)
	s.batch = make(map[grid.Cell]bool)
	s.onPath = make(map[grid.Cell]bool)
}

// Step advances the scene by one tick.
func (s *Scene) Step(in core.InputFrame) core.StepResult {
	if s.terr == nil {
		s.Reset(core.DefaultConfig())
	}
	if in.Has(core.ActionBack) {
		s.state.Done = true
		return core.StepResult{State: s.State()}
	}
	if in.Has(core.ActionRestart) {
		s.terr = nil
		s.Reset(core.RuntimeConfig{ScreenW: s.screenW, ScreenH: s.screenH, StepsPerTick: s.steps})
		return core.StepResult{State: s.State()}
	}
	if in.Has(core.ActionPause) {
		s.state.Paused = !s.state.Paused
	}
	if in.Has(core.ActionSpeed) {
		s.steps = config.NextSpeed(s.steps)
	}

	s.moveCursor(in)

	rerun := false
	if in.Has(core.ActionMark) {
		s.start = s.cursor
		rerun = s.hasTarget
	}
	if in.Has(core.ActionToggle) {
		s.toggleWall(s.cursor)
		rerun = s.hasTarget || s.result != nil
	}
	if in.Has(core.ActionCycle) {
		s.algo = s.algo.Next()
		rerun = s.hasTarget || s.algo == search.FloodFill
	}
	if in.Has(core.ActionConfirm) {
		s.target = s.cursor
		s.hasTarget = true
		rerun = true
	}
	if c := in.Click; c != nil {
		if cell, ok := s.view.ToCell(c.X, c.Y); ok {
			s.cursor = cell
			if c.Alt {
				s.start = cell
				rerun = s.hasTarget
			} else {
				s.target = cell
				s.hasTarget = true
				rerun = true
			}
		}
	}

	var run *core.RunReport
	if rerun {
		run = s.runSearch()
	}

	if !s.state.Paused {
		s.advance(s.steps)
	}

	s.state.Status = s.status()
	return core.StepResult{State: s.State(), Run: run}
}

func (s *Scene) moveCursor(in core.InputFrame) {
	if dx, dy := s.view.PanDelta(in); dx != 0 || dy != 0 {
		s.view.Pan(dx, dy)
		s.cursor = s.cursor.Add(grid.C(dx, dy))
	}
	if d := scenes.CursorDelta(in); d != (grid.Cell{}) {
		s.cursor = s.cursor.Add(d)
	}
	s.view.Follow(s.cursor)
}

// toggleWall flips a cell between wall and floor. Cells of unloaded
// chunks stay wall.
func (s *Scene) toggleWall(c grid.Cell) {
	at, _ := s.terr.Locate(c.X, c.Y)
	if !s.terr.HasChunk(at) {
		s.lastNote = "no chunk at " + c.String()
		return
	}
	if s.terr.Walkable(c) {
		s.terr.Set(c.X, c.Y, grid.SymbolWall)
	} else {
		s.terr.Set(c.X, c.Y, grid.SymbolFloor)
	}
}

// runSearch computes a full result and restarts the animation.
func (s *Scene) runSearch() *core.RunReport {
	lim := search.Limits{MaxIter: s.env.Settings.Search.MaxIter}
	target := s.target
	if s.algo == search.FloodFill {
		lim = search.Limits{Bounds: s.env.Settings.Grid.FloodBounds.Rect()}
		target = s.start
	}

	began := time.Now()
	var res search.Result
	switch s.algo {
	case search.FloodFill:
		res = search.Fill(s.terr, s.start, lim.Bounds)
	case search.Dijkstra:
		res = s.searcher.Dijkstra(s.terr, s.start, target, lim)
	default:
		res = s.searcher.AStar(s.terr, s.start, target, lim)
	}
	s.elapsed = time.Since(began)

	s.clearTrace()
	s.result = &res
	s.phase = PhaseVisit
	s.lastNote = ""
	return s.report()
}

// report summarises the current result.
func (s *Scene) report() *core.RunReport {
	res := s.result
	return &core.RunReport{
		Algorithm: string(res.Algorithm),
		StartX:    res.Start.X,
		StartY:    res.Start.Y,
		TargetX:   res.Target.X,
		TargetY:   res.Target.Y,
		Expanded:  res.Expanded(),
		PathLen:   len(res.Path),
		Cost:      res.Cost,
		Reached:   res.Reached,
		Truncated: res.Truncated,
		Elapsed:   s.elapsed,
	}
}

// advance reveals up to n animation steps.
func (s *Scene) advance(n int) {
	res := s.result
	for ; n > 0 && res != nil; n-- {
		switch s.phase {
		case PhaseVisit:
			if s.shown >= len(res.VisitOrder) {
				s.phase = PhasePath
				clear(s.batch)
				continue
			}
			cell := res.VisitOrder[s.shown]
			s.visited[cell] = true
			delete(s.open, cell)
			clear(s.batch)
			if s.shown < len(res.Batches) {
				for _, c := range res.Batches[s.shown] {
					s.batch[c] = true
					if !s.visited[c] {
						s.open[c] = true
					}
				}
			}
			s.shown++
		case PhasePath:
			if s.pathLen >= len(res.Path) {
				s.phase = PhaseDone
				continue
			}
			s.onPath[res.Path[s.pathLen]] = true
			s.pathLen++
		default:
			return
		}
	}
}

// Phase returns the animation stage.
func (s *Scene) Phase() Phase {
	return s.phase
}

// Result returns the last search result, if any.
func (s *Scene) Result() (search.Result, bool) {
	if s.result == nil {
		return search.Result{}, false
	}
	return *s.result, true
}

// Cursor returns the cursor cell.
func (s *Scene) Cursor() grid.Cell {
	return s.cursor
}

// Endpoints returns the start and target cells. hasTarget is false until
// a target has been chosen.
func (s *Scene) Endpoints() (start, target grid.Cell, hasTarget bool) {
	return s.start, s.target, s.hasTarget
}

// StepsPerTick returns the animation speed.
func (s *Scene) StepsPerTick() int {
	return s.steps
}

func (s *Scene) status() string {
	speed := fmt.Sprintf("x%d", s.steps)
	if s.steps >= 1<<20 {
		speed = "instant"
	}
	line := fmt.Sprintf("%s  cursor %v  start %v  speed %s", s.algo.Title(), s.cursor, s.start, speed)
	if res := s.result; res != nil {
		line += fmt.Sprintf("  expanded %d/%d", s.shown, res.Expanded())
		if res.Algorithm != search.FloodFill {
			line += fmt.Sprintf("  path %d  cost %d", len(res.Path), res.Cost)
			switch {
			case res.Reached:
				line += "  reached"
			case res.Truncated:
				line += "  truncated"
			default:
				line += "  partial"
			}
		}
	}
	if s.state.Paused {
		line += "  [paused]"
	}
	if s.lastNote != "" {
		line += "  " + s.lastNote
	}
	return line
}

// State returns the current scene state.
func (s *Scene) State() core.SceneState {
	return s.state
}
