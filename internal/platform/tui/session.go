package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pathgrid/internal/config"
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/registry"
)

// sessionScreen is the screen a session shows.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenScene
	screenRuns
)

// SessionModel manages the full viewer flow: menu -> scene or run
// history -> menu. It is used both locally and for SSH sessions.
type SessionModel struct {
	opts     Options
	settings config.Settings
	config   core.RuntimeConfig
	screen   sessionScreen
	menu     MenuModel
	scene    *Model
	runs     *RunsModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts Options, settings config.Settings, cfg core.RuntimeConfig) SessionModel {
	opts.Standalone = false
	return SessionModel{
		opts:     opts,
		settings: settings,
		config:   cfg,
		menu:     NewMenuModel(mapTitle(opts), cfg),
	}
}

func mapTitle(opts Options) string {
	if opts.Map == nil {
		return ""
	}
	return opts.Map.Desc.Title()
}

// Init initializes the session. The chunk watcher runs for the whole
// session, so it is armed here rather than by each scene.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), waitForChunk(m.opts.Watcher))
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
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

	switch m.screen {
	case screenScene:
		return m.updateScene(msg)
	case screenRuns:
		return m.updateRuns(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsRuns() {
		runs := NewRunsModel(m.opts.Store, "", m.config.ScreenW, m.config.ScreenH)
		m.runs = &runs
		m.screen = screenRuns
		return m, runs.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		scene, err := registry.Create(selected.SceneID, registry.Env{Map: m.opts.Map, Settings: m.settings})
		if err != nil {
			// Shouldn't happen since menu only shows registered scenes
			m.menu = NewMenuModel(mapTitle(m.opts), m.config)
			return m, nil
		}

		sceneOpts := m.opts
		sceneOpts.Watcher = nil
		model := NewModel(scene, sceneOpts, m.config)
		m.scene = &model
		m.screen = screenScene
		return m, m.scene.Init()
	}

	return m, cmd
}

// updateScene handles updates when a scene is running.
func (m SessionModel) updateScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scene.Update(msg)
	if sceneModel, ok := newModel.(Model); ok {
		m.scene = &sceneModel
	}

	if m.scene.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scene.BackToMenu() {
		return m.toMenu()
	}

	return m, cmd
}

// updateRuns handles updates when the run history is shown.
func (m SessionModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.runs.Update(msg)
	if runsModel, ok := newModel.(RunsModel); ok {
		m.runs = &runsModel
	}

	if m.runs.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.runs.IsGoingBack() {
		return m.toMenu()
	}

	return m, cmd
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.scene = nil
	m.runs = nil
	m.screen = screenMenu
	m.menu = NewMenuModel(mapTitle(m.opts), m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenScene:
		return m.scene.View()
	case screenRuns:
		return m.runs.View()
	default:
		return m.menu.View()
	}
}

// RunSession starts the menu-driven viewer locally.
func RunSession(opts Options, settings config.Settings, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(opts, settings, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
