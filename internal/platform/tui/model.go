package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/mapfile"
	"github.com/vovakirdan/tui-pathgrid/internal/registry"
	"github.com/vovakirdan/tui-pathgrid/internal/storage"
)

// helpRows is the space below the scene reserved for the key help.
const helpRows = 1

// Options are shared by every scene a front end runs.
type Options struct {
	Store  *storage.Store // may be nil: runs are not recorded
	Map    *mapfile.Map   // may be nil: scenes use an empty grid
	Source string         // recorded with each run ("viewer", "ssh")
	Logger *log.Logger

	// Watcher, when set, hot-reloads changed chunk files into Map.
	Watcher *mapfile.Watcher

	// Standalone quits the program when the scene is left instead of
	// returning to a menu.
	Standalone bool
}

func (o Options) mapID() string {
	if o.Map == nil {
		return ""
	}
	return o.Map.Desc.ID
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// ChunkChangedMsg reports a modified chunk file.
type ChunkChangedMsg struct {
	Path string
}

type watchErrMsg struct {
	err error
}

// waitForChunk blocks until the watcher reports something.
func waitForChunk(w *mapfile.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case p, ok := <-w.Events:
			if !ok {
				return nil
			}
			return ChunkChangedMsg{Path: p}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}

// Model is the Bubble Tea model for running one scene.
type Model struct {
	scene      registry.Scene
	screen     *core.Screen
	opts       Options
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keyMapper  *KeyMapper
	help       help.Model
	state      core.SceneState
	runsSaved  int
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given scene.
func NewModel(scene registry.Scene, opts Options, cfg core.RuntimeConfig) Model {
	h := help.New()
	h.Width = cfg.ScreenW
	return Model{
		scene:      scene,
		screen:     core.NewScreen(cfg.ScreenW, sceneHeight(cfg.ScreenH)),
		opts:       opts,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
	}
}

func sceneHeight(h int) int {
	return max(h-helpRows, 0)
}

// sceneConfig is the runtime config as the scene sees it.
func (m Model) sceneConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = sceneHeight(cfg.ScreenH)
	return cfg
}

// Init initializes the model and starts the scene.
func (m Model) Init() tea.Cmd {
	m.scene.Reset(m.sceneConfig())
	return tea.Batch(tickCmd(m.config.TickRate), waitForChunk(m.opts.Watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case ChunkChangedMsg:
		if m.opts.Map != nil {
			//nolint:errcheck // failures are logged per chunk
			m.opts.Map.Reload(msg.Path, m.opts.logger())
		}
		return m, waitForChunk(m.opts.Watcher)

	case watchErrMsg:
		m.opts.logger().Warn("chunk watcher error", "err", msg.err)
		return m, waitForChunk(m.opts.Watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys.Shot) {
		m.saveScreenshot()
		return m, nil
	}
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events. Scenes keep their state.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, sceneHeight(msg.Height))
	m.help.Width = msg.Width
	m.scene.Reset(m.sceneConfig())
	return m, nil
}

// handleTick processes scene ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.scene.Step(m.inputFrame)
	m.state = result.State
	m.inputFrame.Clear()

	if result.Run != nil {
		m.recordRun(*result.Run)
	}

	if m.state.Done {
		m.backToMenu = true
		if m.opts.Standalone {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m, tickCmd(m.config.TickRate)
}

// recordRun stores a finished search. Failures are logged and ignored.
func (m *Model) recordRun(r core.RunReport) {
	if m.opts.Store == nil {
		return
	}
	_, err := m.opts.Store.SaveRun(RunFromReport(r, m.opts.mapID(), m.opts.Source))
	if err != nil {
		m.opts.logger().Warn("could not record run", "algorithm", r.Algorithm, "err", err)
		return
	}
	m.runsSaved++
}

// RunFromReport converts a scene report to a storage row.
func RunFromReport(r core.RunReport, mapID, source string) storage.Run {
	return storage.Run{
		Algorithm: r.Algorithm,
		MapID:     mapID,
		Source:    source,
		StartX:    r.StartX,
		StartY:    r.StartY,
		TargetX:   r.TargetX,
		TargetY:   r.TargetY,
		Expanded:  r.Expanded,
		PathLen:   r.PathLen,
		Cost:      r.Cost,
		Reached:   r.Reached,
		Truncated: r.Truncated,
		Elapsed:   r.Elapsed,
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.scene.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".pathgrid", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.scene.ID(), timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.logger().Warn("screenshot failed", "path", path, "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.scene.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keyMapper.Keys)
}

// State returns the scene state from the last tick.
func (m Model) State() core.SceneState {
	return m.state
}

// RunsSaved returns the number of runs recorded by this model.
func (m Model) RunsSaved() int {
	return m.runsSaved
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the scene was left.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a Bubble Tea program for a single scene.
func Run(scene registry.Scene, opts Options, cfg core.RuntimeConfig) error {
	opts.Standalone = true
	model := NewModel(scene, opts, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
