package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pathgrid/internal/config"
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/mapfile"
	"github.com/vovakirdan/tui-pathgrid/internal/storage"

	_ "github.com/vovakirdan/tui-pathgrid/internal/scenes/units"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{runes("d"), core.ActionRight, false},
		{runes("l"), core.ActionPanRight, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{runes("m"), core.ActionMark, false},
		{runes("x"), core.ActionToggle, false},
		{tea.KeyMsg{Type: tea.KeyTab}, core.ActionCycle, false},
		{runes("f"), core.ActionSpeed, false},
		{runes("p"), core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runes("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runes("z"), core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v, expected %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}

	frame := core.NewInputFrame()
	km.MapMouseToFrame(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, &frame)
	if frame.Click == nil || frame.Click.X != 3 || frame.Click.Y != 4 || !frame.Click.Alt {
		t.Errorf("right click = %+v", frame.Click)
	}
	frame.Clear()
	km.MapMouseToFrame(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionMotion}, &frame)
	if frame.Click != nil {
		t.Error("motion recorded as a click")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(8, 3)
	s.DrawText(0, 0, "S..G")
	s.SetColored(2, 1, '#', core.ColorGray)

	lines := strings.Split(RenderScreen(s), "\n")
	if len(lines) != 3 {
		t.Fatalf("RenderScreen() has %d lines, expected 3", len(lines))
	}
	if lines[0] != "S..G" {
		t.Errorf("line 0 = %q, expected %q", lines[0], "S..G")
	}
	if !strings.HasPrefix(lines[1], "  ") || !strings.Contains(lines[1], "#") {
		t.Errorf("line 1 = %q, expected a wall at column 2", lines[1])
	}
	if lines[2] != "" {
		t.Errorf("line 2 = %q, expected blank row to be empty", lines[2])
	}

	if got := cellStyle(core.Color(200)).Render("x"); got != "x" {
		t.Errorf("cellStyle(unknown).Render() = %q, expected plain text", got)
	}
}

// reportingScene reports one run on its first step, then leaves on Back.
type reportingScene struct {
	steps int
	state core.SceneState
}

func (s *reportingScene) ID() string               { return "reporting" }
func (s *reportingScene) Title() string            { return "Reporting" }
func (s *reportingScene) Reset(core.RuntimeConfig) {}
func (s *reportingScene) State() core.SceneState   { return s.state }
func (s *reportingScene) Render(dst *core.Screen)  { dst.DrawText(0, 0, "reporting") }
func (s *reportingScene) Step(in core.InputFrame) core.StepResult {
	s.steps++
	if in.Has(core.ActionBack) {
		s.state.Done = true
	}
	res := core.StepResult{State: s.state}
	if s.steps == 1 {
		res.Run = &core.RunReport{Algorithm: "astar", TargetX: 4, Expanded: 9, PathLen: 5, Cost: 40, Reached: true, Elapsed: time.Millisecond}
	}
	return res
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestModelRecordsRunsAndLeaves(t *testing.T) {
	store := openStore(t)
	mp := &mapfile.Map{Desc: mapfile.Description{ID: "demo"}, Grid: grid.NewChunkedGrid(8)}
	opts := Options{Store: store, Map: mp, Source: "viewer", Standalone: true}
	m := NewModel(&reportingScene{}, opts, core.RuntimeConfig{ScreenW: 30, ScreenH: 6, TickRate: 30})

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
	if m.RunsSaved() != 1 {
		t.Fatalf("RunsSaved() = %d, expected 1", m.RunsSaved())
	}
	runs, err := store.RecentRuns(5)
	if err != nil || len(runs) != 1 {
		t.Fatalf("RecentRuns() = %v, %v", runs, err)
	}
	if r := runs[0]; r.MapID != "demo" || r.Source != "viewer" || r.Cost != 40 || !r.Reached {
		t.Errorf("stored run = %+v", r)
	}

	if !strings.HasPrefix(m.View(), "reporting") {
		t.Errorf("View() = %q", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if !m.BackToMenu() || !m.IsQuitting() {
		t.Error("standalone model should quit when the scene is left")
	}
}

func TestRunFromReport(t *testing.T) {
	r := RunFromReport(core.RunReport{Algorithm: "fill", StartX: -1, StartY: 2, Expanded: 12}, "maze", "ssh")
	if r.Algorithm != "fill" || r.MapID != "maze" || r.Source != "ssh" || r.StartX != -1 || r.Expanded != 12 {
		t.Errorf("RunFromReport() = %+v", r)
	}
}

func TestFilterRuns(t *testing.T) {
	runs := []storage.Run{{Algorithm: "astar"}, {Algorithm: "fill"}, {Algorithm: "astar"}}
	if got := filterRuns(runs, filterAll); len(got) != 3 {
		t.Errorf("filterRuns(all) = %d runs", len(got))
	}
	if got := filterRuns(runs, "astar"); len(got) != 2 {
		t.Errorf("filterRuns(astar) = %d runs", len(got))
	}
	if len(runs) != 3 || runs[1].Algorithm != "fill" {
		t.Error("filterRuns() modified its input")
	}
}

func TestRunsModelFilters(t *testing.T) {
	store := openStore(t)
	store.SaveRun(storage.Run{Algorithm: "astar", MapID: "demo", Reached: true})
	store.SaveRun(storage.Run{Algorithm: "dijkstra", MapID: "demo"})
	store.SaveRun(storage.Run{Algorithm: "astar", MapID: "other"})

	m := NewRunsModel(store, "demo", 120, 30)
	if len(m.Runs()) != 2 {
		t.Fatalf("Runs() = %d, expected 2 for map demo", len(m.Runs()))
	}

	// all -> fill -> dijkstra
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	next, _ = next.(RunsModel).Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RunsModel)
	if len(m.Runs()) != 1 || m.Runs()[0].Algorithm != "dijkstra" {
		t.Errorf("dijkstra filter = %+v", m.Runs())
	}
	if !strings.Contains(m.View(), "RUN HISTORY - demo") {
		t.Error("View() lacks the title")
	}

	next, _ = m.Update(runes("b"))
	if !next.(RunsModel).IsGoingBack() {
		t.Error("b did not go back")
	}
}

func TestSessionMenuToSceneAndBack(t *testing.T) {
	settings := config.DefaultSettings()
	s := NewSessionModel(Options{}, settings, core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 30})

	var model tea.Model = s
	// Move to the units entry.
	for i := 0; i < len(s.menu.items); i++ {
		if s.menu.items[i].SceneID == "units" {
			break
		}
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = model.(SessionModel)
	if s.screen != screenScene || s.scene == nil {
		t.Fatalf("Enter did not open a scene (screen %v)", s.screen)
	}
	if !strings.Contains(s.View(), "Units") {
		t.Errorf("scene view = %q", s.View())
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model, _ = model.Update(TickMsg(time.Now()))
	s = model.(SessionModel)
	if s.screen != screenMenu || s.quitting {
		t.Errorf("Back did not return to the menu (screen %v, quitting %v)", s.screen, s.quitting)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = model.(SessionModel)
	if s.screen != screenRuns {
		t.Errorf("Tab did not open the run history (screen %v)", s.screen)
	}
}
