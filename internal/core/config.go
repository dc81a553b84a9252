package core

import "time"

// RuntimeConfig contains configuration passed to scenes at initialization.
type RuntimeConfig struct {
	ScreenW      int // Screen width in characters
	ScreenH      int // Screen height in characters
	TickRate     int // Frames per second (default 30)
	StepsPerTick int // Trace steps revealed per frame
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:      80,
		ScreenH:      24,
		TickRate:     30,
		StepsPerTick: 4,
	}
}

// SceneState is what a scene reports to the platform after each tick.
type SceneState struct {
	Status string // one-line status for the footer
	Paused bool
	Done   bool // the user asked to leave the scene
}

// RunReport summarises one completed search for the run history.
type RunReport struct {
	Algorithm string
	StartX    int
	StartY    int
	TargetX   int
	TargetY   int
	Expanded  int
	PathLen   int
	Cost      int
	Reached   bool
	Truncated bool
	Elapsed   time.Duration
}

// StepResult is returned by Scene.Step() after each tick.
type StepResult struct {
	State SceneState
	// Run is set on the tick a search finishes.
	Run *RunReport
}
