package config

import "fmt"

// SpeedPreset represents a named animation speed.
type SpeedPreset string

const (
	SpeedSlow    SpeedPreset = "slow"
	SpeedNormal  SpeedPreset = "normal"
	SpeedFast    SpeedPreset = "fast"
	SpeedInstant SpeedPreset = "instant"
)

// instantSteps reveals any realistic trace in one frame.
const instantSteps = 1 << 20

// SpeedPresets lists the presets from slowest to fastest.
func SpeedPresets() []SpeedPreset {
	return []SpeedPreset{SpeedSlow, SpeedNormal, SpeedFast, SpeedInstant}
}

// StepsForPreset returns the trace steps per frame for a preset.
func StepsForPreset(preset SpeedPreset) (int, bool) {
	switch preset {
	case SpeedSlow:
		return 1, true
	case SpeedNormal:
		return 4, true
	case SpeedFast:
		return 16, true
	case SpeedInstant:
		return instantSteps, true
	default:
		return 0, false
	}
}

// ApplySpeedPreset sets viewer.steps_per_tick from a preset.
func ApplySpeedPreset(cfg *Settings, preset SpeedPreset) error {
	steps, ok := StepsForPreset(preset)
	if !ok {
		return fmt.Errorf("%w: unknown speed preset %q", ErrInvalid, preset)
	}
	cfg.Viewer.Speed = string(preset)
	cfg.Viewer.StepsPerTick = steps
	return nil
}

// NextSpeed cycles through the presets by steps per frame.
func NextSpeed(steps int) int {
	for _, p := range SpeedPresets() {
		if s, _ := StepsForPreset(p); s > steps {
			return s
		}
	}
	s, _ := StepsForPreset(SpeedSlow)
	return s
}
