package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pathgrid/internal/search"
	"github.com/vovakirdan/tui-pathgrid/internal/storage"
)

// Run browser layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show the stats sidebar
	sidebarWidth       = 26  // Width of the stats sidebar
	maxRuns            = 200 // Max runs to load
	filterAll          = "all"
)

// RunsKeyMap defines the key bindings for the run browser.
type RunsKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextFilter, k.PrevFilter, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.PrevFilter},
		{k.Back, k.Quit},
	}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next algorithm"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev algorithm"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsModel is the Bubble Tea model for the run history screen.
type RunsModel struct {
	filters     []string // "all" then one per algorithm
	filter      int
	mapID       string // empty = every map
	store       *storage.Store
	runs        []storage.Run
	stats       map[string]*storage.AlgorithmStats
	loadErr     error
	table       table.Model
	help        help.Model
	keys        RunsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show the stats sidebar
	standalone  bool // Back quits the program
}

// NewRunsModel creates a run browser limited to mapID when it is set.
func NewRunsModel(store *storage.Store, mapID string, width, height int) RunsModel {
	filters := []string{filterAll}
	for _, a := range search.Algorithms() {
		filters = append(filters, string(a))
	}

	h := help.New()
	h.ShowAll = false

	m := RunsModel{
		filters:     filters,
		mapID:       mapID,
		store:       store,
		keys:        DefaultRunsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Algo", Width: 8},
		{Title: "Map", Width: 10},
		{Title: "Start", Width: 10},
		{Title: "Target", Width: 10},
		{Title: "Exp", Width: 6},
		{Title: "Len", Width: 4},
		{Title: "Cost", Width: 6},
		{Title: "Result", Width: 9},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads runs and stats for the current filter.
func (m *RunsModel) load() {
	m.runs, m.stats, m.loadErr = nil, nil, nil
	if m.store != nil {
		var runs []storage.Run
		if m.mapID != "" {
			runs, m.loadErr = m.store.RunsForMap(m.mapID, maxRuns)
		} else {
			runs, m.loadErr = m.store.RecentRuns(maxRuns)
		}
		m.runs = filterRuns(runs, m.filters[m.filter])
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.GetAlgorithmStats()
		}
	}
	m.updateTableRows()
}

// filterRuns keeps the runs of one algorithm; "all" keeps everything.
func filterRuns(runs []storage.Run, algo string) []storage.Run {
	if algo == filterAll {
		return runs
	}
	out := runs[:0:0]
	for _, r := range runs {
		if r.Algorithm == algo {
			out = append(out, r)
		}
	}
	return out
}

// runRow formats one run for the table.
func runRow(r storage.Run) table.Row {
	result := "partial"
	switch {
	case r.Algorithm == string(search.FloodFill):
		result = "filled"
	case r.Reached:
		result = "reached"
	case r.Truncated:
		result = "truncated"
	}
	return table.Row{
		fmt.Sprintf("%d", r.ID),
		r.Algorithm,
		r.MapID,
		fmt.Sprintf("%d,%d", r.StartX, r.StartY),
		fmt.Sprintf("%d,%d", r.TargetX, r.TargetY),
		fmt.Sprintf("%d", r.Expanded),
		fmt.Sprintf("%d", r.PathLen),
		fmt.Sprintf("%d", r.Cost),
		result,
		r.CreatedAt.Format("Jan 02 15:04"),
	}
}

// updateTableRows updates the table with current runs.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = runRow(r)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the run browser.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run browser.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextFilter):
			m.filter = (m.filter + 1) % len(m.filters)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevFilter):
			m.filter = (m.filter + len(m.filters) - 1) % len(m.filters)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	runsTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	runsBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	runsDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the run browser.
func (m RunsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "RUN HISTORY"
	if m.mapID != "" {
		title += " - " + m.mapID
	}
	b.WriteString(runsTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	content := runsBoxStyle.Render(m.renderTableContent())
	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
	}
	b.WriteString(content)

	b.WriteString("\n")
	b.WriteString(runsDimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTabs renders the algorithm filter tabs.
func (m RunsModel) renderTabs() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.filters))
	for i, f := range m.filters {
		if i == m.filter {
			tabs[i] = active.Render(f)
		} else {
			tabs[i] = runsDimStyle.Render(" " + f + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderSidebar renders per-algorithm aggregates.
func (m RunsModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Averages\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	for _, f := range m.filters[1:] {
		st := m.stats[f]
		if st == nil {
			fmt.Fprintf(&sb, "%s: no runs\n", f)
			continue
		}
		fmt.Fprintf(&sb, "%s (%d)\n", f, st.Runs)
		fmt.Fprintf(&sb, "  reach %3.0f%%\n", st.ReachRate()*100)
		fmt.Fprintf(&sb, "  exp   %.0f\n", st.AvgExpanded)
		fmt.Fprintf(&sb, "  cost  %.0f\n", st.AvgCost)
		fmt.Fprintf(&sb, "  time  %s\n", st.AvgElapsed.Round(time.Microsecond))
	}
	return runsBoxStyle.Width(sidebarWidth).Render(sb.String())
}

// renderTableContent renders the table or empty message.
func (m RunsModel) renderTableContent() string {
	if m.loadErr != nil {
		return runsDimStyle.Render("Could not read runs: " + m.loadErr.Error())
	}
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nRun a search to fill the history!")
	}
	return m.table.View()
}

// Runs returns the rows currently listed.
func (m RunsModel) Runs() []storage.Run {
	return m.runs
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RunsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RunsModel) IsQuitting() bool {
	return m.quitting
}

// RunRuns runs the history screen on its own.
func RunRuns(store *storage.Store, mapID string, width, height int) error {
	model := NewRunsModel(store, mapID, width, height)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
