package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pathgrid/internal/core"
)

// SceneKeyMap defines the key bindings inside a scene.
type SceneKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding
	Confirm  key.Binding
	Mark     key.Binding
	Toggle   key.Binding
	Cycle    key.Binding
	Speed    key.Binding
	Pause    key.Binding
	Restart  key.Binding
	Back     key.Binding
	Quit     key.Binding
	Shot     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SceneKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Mark, k.Toggle, k.Cycle, k.Speed, k.Pause, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SceneKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PanUp, k.PanDown, k.PanLeft, k.PanRight},
		{k.Confirm, k.Mark, k.Toggle, k.Cycle},
		{k.Speed, k.Pause, k.Restart, k.Shot},
		{k.Back, k.Quit},
	}
}

// DefaultSceneKeyMap returns default key bindings.
func DefaultSceneKeyMap() SceneKeyMap {
	return SceneKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),
		PanUp:    key.NewBinding(key.WithKeys("shift+up", "k"), key.WithHelp("k", "pan up")),
		PanDown:  key.NewBinding(key.WithKeys("shift+down", "j"), key.WithHelp("j", "pan down")),
		PanLeft:  key.NewBinding(key.WithKeys("shift+left", "h"), key.WithHelp("h", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("shift+right", "l"), key.WithHelp("l", "pan right")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "target/order")),
		Mark:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "start/select")),
		Toggle:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "wall/spawn")),
		Cycle:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle")),
		Speed:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "speed")),
		Pause:    key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "menu")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Shot:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "screenshot")),
	}
}

// KeyMapper translates Bubble Tea key messages to scene actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	Keys SceneKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{Keys: DefaultSceneKeyMap()}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.Keys
	bindings := []struct {
		b key.Binding
		a core.Action
	}{
		{k.Quit, core.ActionQuit},
		{k.Up, core.ActionUp},
		{k.Down, core.ActionDown},
		{k.Left, core.ActionLeft},
		{k.Right, core.ActionRight},
		{k.PanUp, core.ActionPanUp},
		{k.PanDown, core.ActionPanDown},
		{k.PanLeft, core.ActionPanLeft},
		{k.PanRight, core.ActionPanRight},
		{k.Confirm, core.ActionConfirm},
		{k.Mark, core.ActionMark},
		{k.Toggle, core.ActionToggle},
		{k.Cycle, core.ActionCycle},
		{k.Speed, core.ActionSpeed},
		{k.Pause, core.ActionPause},
		{k.Restart, core.ActionRestart},
		{k.Back, core.ActionBack},
	}
	for _, kb := range bindings {
		if key.Matches(msg, kb.b) {
			return kb.a, kb.a == core.ActionQuit
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapMouseToFrame records a button press. The left button is the primary
// click, the right button the secondary one. The screen rows are the same
// as the scene's.
func (km *KeyMapper) MapMouseToFrame(msg tea.MouseMsg, frame *core.InputFrame) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		frame.SetClick(msg.X, msg.Y, false)
	case tea.MouseButtonRight:
		frame.SetClick(msg.X, msg.Y, true)
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionRuns
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionRuns
	}

	return MenuActionNone
}
