package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-pathgrid/internal/agent"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestDefaultSettingsValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("DefaultSettings().Validate() = %v", err)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	got, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("parse(embedded) failed: %v", err)
	}
	if want := DefaultSettings(); !reflect.DeepEqual(got, want) {
		t.Errorf("embedded defaults = %+v\nexpected %+v", got, want)
	}
}

func TestLoadCustomPathOverridesSomeKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
occupancy:
  out_of_bounds: clamp
agents:
  max_tries: 5
  spawn:
    - { x: 1, y: 2 }
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Occupancy.Policy() != grid.OutOfBoundsClamp {
		t.Errorf("Policy() = %v, expected clamp", cfg.Occupancy.Policy())
	}
	if cfg.Agents.MaxTries != 5 {
		t.Errorf("MaxTries = %d, expected 5", cfg.Agents.MaxTries)
	}
	if len(cfg.Agents.Spawn) != 1 || cfg.Agents.Spawn[0].Cell() != grid.C(1, 2) {
		t.Errorf("Spawn = %v, expected [(1,2)]", cfg.Agents.Spawn)
	}
	// Untouched keys keep their defaults.
	if cfg.Agents.MaxIter != 128 || cfg.Grid.ChunkSize != 32 {
		t.Errorf("defaults lost: max_iter=%d chunk_size=%d", cfg.Agents.MaxIter, cfg.Grid.ChunkSize)
	}
	if len(DefaultSettings().Agents.Spawn) != 5 {
		t.Error("loading mutated the default spawn list")
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom file succeeded")
	}

	bad := writeConfig(t, dir, "grid: [not, a, map")
	if _, err := Load(bad); err == nil {
		t.Error("Load() of malformed YAML succeeded")
	}

	invalid := writeConfig(t, dir, "grid:\n  chunk_size: 0\noccupancy:\n  out_of_bounds: wrap\n")
	_, err := Load(invalid)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load() error = %v, expected ErrInvalid", err)
	}
}

func TestValidateAgentLimits(t *testing.T) {
	tests := []struct {
		name     string
		maxTries int
		maxIter  int
		valid    bool
	}{
		{"defaults", 20, 128, true},
		{"single retry", 1, 128, true},
		{"zero iterations", 5, 0, false},
		{"no retries", 0, 128, false},
		{"negative retries", -1, 128, false},
		{"negative iterations", 5, -1, false},
	}
	for _, tt := range tests {
		cfg := DefaultSettings()
		cfg.Agents.MaxTries = tt.maxTries
		cfg.Agents.MaxIter = tt.maxIter
		err := cfg.Validate()
		if (err == nil) != tt.valid {
			t.Errorf("%s: Validate() = %v, expected valid %v", tt.name, err, tt.valid)
		}
	}

	dir := t.TempDir()
	zero := writeConfig(t, dir, "agents:\n  max_tries: 0\n")
	if _, err := Load(zero); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load(max_tries: 0) error = %v, expected ErrInvalid", err)
	}
}

func TestLoadFallsBackToLocalThenEmbedded(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultSettings()) {
		t.Errorf("Load() without files = %+v, expected defaults", cfg)
	}

	if err := os.MkdirAll(filepath.Join(work, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, filepath.Join(work, "configs"), "viewer:\n  tick_rate: 12\n")

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Viewer.TickRate != 12 {
		t.Errorf("TickRate = %d, expected 12 from ./configs", cfg.Viewer.TickRate)
	}

	userDir := filepath.Join(home, ".pathgrid", "configs")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, userDir, "viewer:\n  tick_rate: 7\n")

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Viewer.TickRate != 7 {
		t.Errorf("TickRate = %d, expected 7 from the user directory", cfg.Viewer.TickRate)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Grid.ChunkSize = -1
	cfg.Search.Algorithm = "greedy"
	cfg.Agents.MoveEvery = 0

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate() = %v, expected ErrInvalid", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 3 {
		t.Errorf("Validate() = %v, expected 3 problems", err)
	}
}

func TestSpeedPresets(t *testing.T) {
	cfg := DefaultSettings()
	if err := ApplySpeedPreset(&cfg, SpeedFast); err != nil {
		t.Fatalf("ApplySpeedPreset() failed: %v", err)
	}
	if cfg.Viewer.StepsPerTick != 16 {
		t.Errorf("StepsPerTick = %d, expected 16", cfg.Viewer.StepsPerTick)
	}
	if err := ApplySpeedPreset(&cfg, "warp"); !errors.Is(err, ErrInvalid) {
		t.Errorf("ApplySpeedPreset(warp) = %v, expected ErrInvalid", err)
	}

	steps := 1
	seen := map[int]bool{}
	for range len(SpeedPresets()) {
		seen[steps] = true
		steps = NextSpeed(steps)
	}
	if steps != 1 || len(seen) != len(SpeedPresets()) {
		t.Errorf("NextSpeed() did not cycle through every preset: %v", seen)
	}
}

func TestConversions(t *testing.T) {
	o := OccupancyConfig{Origin: CellConfig{X: -4, Y: 2}, Width: 10, Height: 5}
	if got, want := o.Window(), grid.R(-4, 2, 6, 7); got != want {
		t.Errorf("Window() = %v, expected %v", got, want)
	}

	tests := []struct {
		in   KindConfig
		want agent.Kind
	}{
		{KindConfig{Name: "scout", Glyph: "S"}, agent.Kind{Name: "scout", Glyph: 'S'}},
		{KindConfig{Name: "jeep"}, agent.Kind{Name: "jeep", Glyph: 'j'}},
		{KindConfig{}, agent.DefaultKind},
	}
	for _, tc := range tests {
		if got := tc.in.Kind(); got != tc.want {
			t.Errorf("Kind(%+v) = %+v, expected %+v", tc.in, got, tc.want)
		}
	}
}
