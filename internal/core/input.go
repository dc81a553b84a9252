package core

// Action represents a semantic scene action, abstracted from physical key presses.
// This allows scenes to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // W, Up arrow - move cursor up
	ActionDown              // S, Down arrow - move cursor down
	ActionLeft              // A, Left arrow - move cursor left
	ActionRight             // D, Right arrow - move cursor right
	ActionPanUp             // K, Shift+Up - scroll the view
	ActionPanDown           // J, Shift+Down
	ActionPanLeft           // H, Shift+Left
	ActionPanRight          // L, Shift+Right
	ActionConfirm           // Enter - run search / give order
	ActionMark              // M - set search start / start box selection
	ActionToggle            // X - toggle wall / spawn agent
	ActionCycle             // Tab - next algorithm / next agent
	ActionSpeed             // F - change animation speed
	ActionPause             // P, Space - pause/unpause animation or simulation
	ActionRestart           // R - reset the scene
	ActionBack              // B, Escape - go back to menu
	ActionQuit              // Q, Ctrl+C - exit session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPanUp:
		return "PanUp"
	case ActionPanDown:
		return "PanDown"
	case ActionPanLeft:
		return "PanLeft"
	case ActionPanRight:
		return "PanRight"
	case ActionConfirm:
		return "Confirm"
	case ActionMark:
		return "Mark"
	case ActionToggle:
		return "Toggle"
	case ActionCycle:
		return "Cycle"
	case ActionSpeed:
		return "Speed"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Pointer is a mouse click in screen cells.
type Pointer struct {
	X, Y int
	// Alt is set for the secondary button.
	Alt bool
}

// InputFrame represents the input state during one tick.
// It contains all actions that were triggered during this frame plus at
// most one pointer click.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool
	Click   *Pointer
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// SetClick records a pointer click.
func (f *InputFrame) SetClick(x, y int, alt bool) {
	f.Click = &Pointer{X: x, Y: y, Alt: alt}
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether nothing was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && f.Click == nil
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	f.Click = nil
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	if f.Click != nil {
		p := *f.Click
		clone.Click = &p
	}
	return clone
}
