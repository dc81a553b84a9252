package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pathgrid/internal/config"
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/mapfile"
	"github.com/vovakirdan/tui-pathgrid/internal/platform/tui"
	"github.com/vovakirdan/tui-pathgrid/internal/registry"
)

var (
	flagScene   string
	flagSpeed   string
	flagLogFile string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive viewer",
	Long: `Open the viewer on a map. Without --scene a menu lists every scene;
leaving a scene returns to the menu.

Chunk files of the map are watched; saving one reloads it into the
running viewer.

Controls:
  WASD/Arrows     - Move cursor
  HJKL/S-Arrows   - Scroll the view
  Enter           - Run search / order selected agents
  M               - Mark search start / start box selection
  X               - Toggle wall / spawn agent
  Tab             - Next algorithm / next agent
  F               - Animation speed
  P/Space         - Pause
  R               - Reset scene
  Mouse           - Left: target/order, right: start
  Esc/B           - Back to menu
  Q/Ctrl+C        - Quit

Examples:
  pathgrid view --map maps/demo.yaml
  pathgrid view --map demo --scene astar --speed slow
  pathgrid view --scene units --config ./configs/pathgrid.yaml`,
	Run: runView,
}

func init() {
	viewCmd.Flags().StringVar(&flagScene, "scene", "", "Open one scene directly (see 'pathgrid list')")
	viewCmd.Flags().StringVar(&flagSpeed, "speed", "", "Animation speed preset: slow, normal, fast, instant")
	viewCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write viewer logs to this file")
}

func runView(_ *cobra.Command, _ []string) {
	if flagScene != "" && !registry.Exists(flagScene) {
		fmt.Fprintf(os.Stderr, "Error: unknown scene %q\n", flagScene)
		fmt.Fprintln(os.Stderr, "Run 'pathgrid list' to see available scenes.")
		os.Exit(1)
	}

	logger := newLogger()
	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagSpeed != "" {
		if err := config.ApplySpeedPreset(&settings, config.SpeedPreset(flagSpeed)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	m, err := openMap(settings, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alt screen owns stderr from here on.
	if flagLogFile != "" {
		//nolint:errcheck // Best-effort directory creation
		os.MkdirAll(filepath.Dir(flagLogFile), 0o755)
		f, ferr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if ferr != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", ferr)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
	}

	store := openStore(logger)

	var watcher *mapfile.Watcher
	if m != nil {
		watcher, err = mapfile.NewWatcher(m.Desc)
		if err != nil {
			logger.Warn("chunk hot reload disabled", "err", err)
			watcher = nil
		}
	}

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:      width,
		ScreenH:      height,
		TickRate:     settings.Viewer.TickRate,
		StepsPerTick: settings.Viewer.StepsPerTick,
	}
	opts := tui.Options{
		Store:   store,
		Map:     m,
		Source:  "viewer",
		Logger:  logger,
		Watcher: watcher,
	}

	var runErr error
	if flagScene != "" {
		scene, createErr := registry.Create(flagScene, registry.Env{Map: m, Settings: settings})
		if createErr != nil {
			runErr = createErr
		} else {
			runErr = tui.Run(scene, opts, cfg)
		}
	} else {
		runErr = tui.RunSession(opts, settings, cfg)
	}

	// Cleanup before potential exit
	if watcher != nil {
		watcher.Close()
	}
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", runErr)
		os.Exit(1)
	}
}
