package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pathgrid/internal/config"
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/mapfile"
	"github.com/vovakirdan/tui-pathgrid/internal/storage"
)

// newLogger returns the CLI logger. Chunk loading is logged at debug level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pathgrid",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadSettings loads the settings file and applies flag overrides.
func loadSettings() (config.Settings, error) {
	settings, err := config.Load(flagConfig)
	if err != nil {
		return config.Settings{}, err
	}
	if flagFPS > 0 {
		settings.Viewer.TickRate = flagFPS
	}
	return settings, nil
}

// resolveMapPath turns --map into a description path. A value that is not
// an existing file is looked up by ID under --maps.
func resolveMapPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		return value, nil
	}
	desc, err := mapfile.NewLoader(flagMapsDir).LoadByID(value)
	if err != nil {
		return "", fmt.Errorf("unknown map %q: %w", value, err)
	}
	return desc.FilePath, nil
}

// openMap opens the --map description. It returns nil without an error
// when no map was requested.
func openMap(settings config.Settings, logger *log.Logger) (*mapfile.Map, error) {
	path, err := resolveMapPath(flagMap)
	if err != nil || path == "" {
		return nil, err
	}
	m, err := mapfile.Open(path, settings.Grid.ChunkSize, logger)
	if err != nil {
		return nil, err
	}
	if m.LoadErr != nil {
		logger.Warn("map loaded with missing chunks", "map", m.Desc.ID,
			"loaded", m.Grid.ChunkCount(), "described", len(m.Desc.Chunks))
	}
	logger.Debug("map opened", "map", m.Desc.ID, "chunks", m.Grid.Chunks())
	return m, nil
}

// openStore opens the run database. Failures are logged and the commands
// continue without recording.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() (int, int) {
	def := core.DefaultConfig()
	width, height := def.ScreenW, def.ScreenH
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// parseCell parses "x,y".
func parseCell(s string) (grid.Cell, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Cell{}, fmt.Errorf("cell %q: expected x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.Cell{}, fmt.Errorf("cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.Cell{}, fmt.Errorf("cell %q: %w", s, err)
	}
	return grid.C(x, y), nil
}
