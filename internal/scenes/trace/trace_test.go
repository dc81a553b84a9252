package trace

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-pathgrid/internal/config"
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/mapfile"
	"github.com/vovakirdan/tui-pathgrid/internal/registry"
	"github.com/vovakirdan/tui-pathgrid/internal/search"
)

func openRoom(t *testing.T) *mapfile.Map {
	t.Helper()
	g := grid.NewChunkedGrid(8)
	rows := make([]string, 8)
	for i := range rows {
		rows[i] = strings.Repeat(".", 8)
	}
	g.PutChunk(grid.C(0, 0), rows)
	return &mapfile.Map{
		Desc: mapfile.Description{ID: "room", Spawn: []grid.Cell{grid.C(1, 1)}},
		Grid: g,
	}
}

func newScene(t *testing.T, algo search.Algorithm, steps int) *Scene {
	t.Helper()
	s := New(algo, registry.Env{Map: openRoom(t), Settings: config.DefaultSettings()})
	s.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 12, StepsPerTick: steps})
	return s
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestRegisteredPerAlgorithm(t *testing.T) {
	for _, algo := range search.Algorithms() {
		if !registry.Exists(string(algo)) {
			t.Errorf("scene %q not registered", algo)
		}
	}
	s, err := registry.Create("astar", registry.Env{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if s.Title() != "A* trace" {
		t.Errorf("Title() = %q, expected %q", s.Title(), "A* trace")
	}
}

func TestConfirmRunsSearchAndAnimates(t *testing.T) {
	s := newScene(t, search.AStar, 1)

	if s.Cursor() != grid.C(1, 1) {
		t.Fatalf("Cursor() = %v, expected spawn (1,1)", s.Cursor())
	}
	for range 3 {
		if res := s.Step(frame(core.ActionRight)); res.Run != nil {
			t.Fatal("cursor movement should not run a search")
		}
	}

	res := s.Step(frame(core.ActionConfirm))
	if res.Run == nil {
		t.Fatal("Confirm did not produce a run report")
	}
	run := res.Run
	if run.Algorithm != "astar" || !run.Reached || run.Cost != 30 || run.PathLen != 4 {
		t.Errorf("run = %+v, expected reached astar cost 30 len 4", run)
	}
	if run.TargetX != 4 || run.TargetY != 1 {
		t.Errorf("target = (%d,%d), expected (4,1)", run.TargetX, run.TargetY)
	}
	if s.Phase() != PhaseVisit {
		t.Errorf("Phase() = %v, expected PhaseVisit", s.Phase())
	}

	limit := run.Expanded + run.PathLen + 4
	for i := 0; i < limit && s.Phase() != PhaseDone; i++ {
		s.Step(core.NewInputFrame())
	}
	if s.Phase() != PhaseDone {
		t.Fatalf("animation did not finish within %d ticks", limit)
	}

	screen := core.NewScreen(40, 12)
	s.Render(screen)
	for _, c := range []grid.Cell{grid.C(2, 1), grid.C(3, 1)} {
		x, y, ok := s.view.ToScreen(c)
		if !ok {
			t.Fatalf("%v not visible", c)
		}
		if got := screen.Get(x, y); got != GlyphPath {
			t.Errorf("cell %v drawn as %q, expected path", c, got)
		}
	}
	x, y, _ := s.view.ToScreen(grid.C(1, 1))
	if got := screen.GetCell(x, y); got.Rune != GlyphStart || got.Color != s.theme.Start {
		t.Errorf("start drawn as %+v", got)
	}
}

func TestPausedSceneDoesNotAnimate(t *testing.T) {
	s := newScene(t, search.Dijkstra, 1)
	s.Step(frame(core.ActionPause))
	if !s.State().Paused {
		t.Fatal("Pause did not pause")
	}
	s.Step(frame(core.ActionRight))
	s.Step(frame(core.ActionConfirm))
	if s.shown != 0 {
		t.Errorf("shown = %d while paused, expected 0", s.shown)
	}
	s.Step(frame(core.ActionPause))
	if s.shown != 1 {
		t.Errorf("shown = %d after unpause, expected 1", s.shown)
	}
}

func TestClicksSetEndpoints(t *testing.T) {
	s := newScene(t, search.Dijkstra, 4)

	alt := core.NewInputFrame()
	x, y, _ := s.view.ToScreen(grid.C(5, 5))
	alt.SetClick(x, y, true)
	if res := s.Step(alt); res.Run != nil {
		t.Error("setting the start without a target should not search")
	}

	click := core.NewInputFrame()
	x, y, _ = s.view.ToScreen(grid.C(5, 2))
	click.SetClick(x, y, false)
	res := s.Step(click)
	if res.Run == nil {
		t.Fatal("primary click did not search")
	}
	if res.Run.StartX != 5 || res.Run.StartY != 5 || res.Run.Cost != 30 {
		t.Errorf("run = %+v, expected start (5,5) cost 30", res.Run)
	}

	start, target, ok := s.Endpoints()
	if start != grid.C(5, 5) || target != grid.C(5, 2) || !ok {
		t.Errorf("Endpoints() = %v, %v, %v", start, target, ok)
	}

	// Clicks on the header are ignored.
	header := core.NewInputFrame()
	header.SetClick(0, 0, false)
	if res := s.Step(header); res.Run != nil {
		t.Error("header click ran a search")
	}
}

func TestToggleWall(t *testing.T) {
	s := newScene(t, search.AStar, 1)
	s.Step(frame(core.ActionRight))

	s.Step(frame(core.ActionToggle))
	if s.terr.At(grid.C(2, 1)) != grid.SymbolWall {
		t.Errorf("cell (2,1) = %q, expected wall", s.terr.At(grid.C(2, 1)))
	}
	s.Step(frame(core.ActionToggle))
	if s.terr.At(grid.C(2, 1)) != grid.SymbolFloor {
		t.Errorf("cell (2,1) = %q, expected floor", s.terr.At(grid.C(2, 1)))
	}

	// Outside the loaded chunk nothing changes.
	for range 10 {
		s.Step(frame(core.ActionLeft))
	}
	s.Step(frame(core.ActionToggle))
	if !strings.Contains(s.State().Status, "no chunk") {
		t.Errorf("status = %q, expected a no-chunk note", s.State().Status)
	}
}

func TestCycleToFillRunsImmediately(t *testing.T) {
	s := newScene(t, search.AStar, 1)
	res := s.Step(frame(core.ActionCycle))
	if s.Algorithm() != search.FloodFill {
		t.Fatalf("Algorithm() = %v, expected fill", s.Algorithm())
	}
	if res.Run == nil {
		t.Fatal("switching to fill should run it")
	}
	if res.Run.Expanded != 64 || res.Run.PathLen != 0 {
		t.Errorf("fill run = %+v, expected 64 expanded and no path", res.Run)
	}
}

func TestMaxIterTruncates(t *testing.T) {
	env := registry.Env{Map: openRoom(t), Settings: config.DefaultSettings()}
	env.Settings.Search.MaxIter = 2
	s := New(search.AStar, env)
	s.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 12, StepsPerTick: 1})

	for range 5 {
		s.Step(frame(core.ActionRight, core.ActionDown))
	}
	res := s.Step(frame(core.ActionConfirm))
	if res.Run == nil || !res.Run.Truncated || res.Run.Reached || res.Run.Expanded != 2 {
		t.Errorf("run = %+v, expected truncated after 2 expansions", res.Run)
	}
}

func TestSpeedBackAndRestart(t *testing.T) {
	s := newScene(t, search.AStar, 1)

	s.Step(frame(core.ActionSpeed))
	if s.StepsPerTick() != 4 {
		t.Errorf("StepsPerTick() = %d, expected 4", s.StepsPerTick())
	}

	s.Step(frame(core.ActionRight))
	s.Step(frame(core.ActionConfirm))
	s.Step(frame(core.ActionRestart))
	if _, ok := s.Result(); ok {
		t.Error("Restart kept the previous result")
	}
	if s.Cursor() != grid.C(1, 1) {
		t.Errorf("Cursor() after restart = %v, expected (1,1)", s.Cursor())
	}

	if res := s.Step(frame(core.ActionBack)); !res.State.Done {
		t.Error("Back did not finish the scene")
	}
}
