package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/search"
)

// FileName is the settings file name looked up in the config directories.
const FileName = "pathgrid.yaml"

// ErrInvalid marks settings that parse but cannot be used.
var ErrInvalid = errors.New("config: invalid settings")

// Load loads settings.
// Search order: customPath -> ~/.pathgrid/configs/pathgrid.yaml -> ./configs/pathgrid.yaml -> embedded default
//
// Keys missing from a file keep their default values. A custom path that
// cannot be read, parsed or validated is an error; the other locations are
// skipped when unusable.
func Load(customPath string) (Settings, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return Settings{}, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if cfg, ok := tryFile(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := tryFile(filepath.Join("configs", FileName)); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := parse(defaultSettingsYAML)
	if err != nil || cfg.Validate() != nil {
		return DefaultSettings(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func tryFile(path string) (Settings, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, false
	}
	cfg, err := parse(data)
	if err != nil || cfg.Validate() != nil {
		return Settings{}, false
	}
	return cfg, true
}

// parse decodes data over the hardcoded defaults.
func parse(data []byte) (Settings, error) {
	cfg := DefaultSettings()
	spawn := cfg.Agents.Spawn
	cfg.Agents.Spawn = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Settings{}, err
	}
	if cfg.Agents.Spawn == nil {
		cfg.Agents.Spawn = spawn
	}
	if cfg.Viewer.Speed != "" {
		if err := ApplySpeedPreset(&cfg, SpeedPreset(cfg.Viewer.Speed)); err != nil {
			return Settings{}, err
		}
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pathgrid", "configs", filename)
}

// Validate reports every unusable value, wrapped in ErrInvalid.
func (s Settings) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if s.Grid.ChunkSize <= 0 {
		bad("grid.chunk_size must be positive, got %d", s.Grid.ChunkSize)
	}
	if s.Grid.FloodBounds.Rect().Empty() {
		bad("grid.flood_bounds is empty")
	}
	if _, err := search.ParseAlgorithm(s.Search.Algorithm); err != nil {
		bad("search.algorithm %q is unknown", s.Search.Algorithm)
	}
	if s.Search.MaxIter < 0 {
		bad("search.max_iter must not be negative, got %d", s.Search.MaxIter)
	}
	if s.Occupancy.Width <= 0 || s.Occupancy.Height <= 0 {
		bad("occupancy size must be positive, got %dx%d", s.Occupancy.Width, s.Occupancy.Height)
	}
	if s.Occupancy.TileScale <= 0 {
		bad("occupancy.tile_scale must be positive, got %v", s.Occupancy.TileScale)
	}
	if _, err := grid.ParseOutOfBounds(s.Occupancy.OutOfBounds); err != nil {
		bad("occupancy.out_of_bounds %q is unknown", s.Occupancy.OutOfBounds)
	}
	if s.Agents.MaxTries <= 0 {
		bad("agents.max_tries must be positive, got %d", s.Agents.MaxTries)
	}
	if s.Agents.MaxIter <= 0 {
		bad("agents.max_iter must be positive, got %d", s.Agents.MaxIter)
	}
	if s.Agents.MoveEvery <= 0 {
		bad("agents.move_every must be positive, got %d", s.Agents.MoveEvery)
	}
	if s.Viewer.TickRate <= 0 {
		bad("viewer.tick_rate must be positive, got %d", s.Viewer.TickRate)
	}
	if s.Viewer.StepsPerTick <= 0 {
		bad("viewer.steps_per_tick must be positive, got %d", s.Viewer.StepsPerTick)
	}
	return errors.Join(errs...)
}
