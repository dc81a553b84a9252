package config

import (
	_ "embed"
)

//go:embed defaults/pathgrid.yaml
var defaultSettingsYAML []byte

// DefaultSettings returns the hardcoded settings.
func DefaultSettings() Settings {
	return Settings{
		Grid: GridConfig{
			ChunkSize:   32,
			FloodBounds: BoundsConfig{MinX: 0, MinY: 0, MaxX: 256, MaxY: 256},
		},
		Search: SearchConfig{
			Algorithm: "astar",
			MaxIter:   0,
		},
		Occupancy: OccupancyConfig{
			Width:       64,
			Height:      32,
			TileScale:   50,
			OutOfBounds: "reject",
		},
		Agents: AgentsConfig{
			MaxTries:  20,
			MaxIter:   128,
			MoveEvery: 3,
			Kind:      KindConfig{Name: "tank", Glyph: "T"},
			Spawn: []CellConfig{
				{X: 3, Y: 3}, {X: 3, Y: 4}, {X: 3, Y: 5},
				{X: 6, Y: 3}, {X: 7, Y: 3},
			},
		},
		Viewer: ViewerConfig{
			TickRate:     30,
			StepsPerTick: 4,
		},
	}
}

// DefaultYAML returns the embedded default settings file.
func DefaultYAML() []byte {
	return defaultSettingsYAML
}
