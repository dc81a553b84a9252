// pathgrid explores chunked grid maps: it animates flood fill, Dijkstra
// and A* searches in the terminal and moves groups of agents over them.
//
// Usage:
//
//	pathgrid list                 - List scenes and maps
//	pathgrid view [--scene <id>]  - Open the viewer
//	pathgrid find <x,y> <x,y>     - Run one search and print the result
//	pathgrid simulate             - Run the agent world headless
//	pathgrid runs                 - Show recorded searches
//	pathgrid serve                - Start SSH server for remote viewing
//
// Global flags:
//
//	--config <path>  - Settings file (default: search order)
//	--map <path|id>  - Map description file or ID under --maps
//	--maps <dir>     - Directory scanned for map descriptions (default: ./maps)
//	--db <path>      - Run database (default: ~/.pathgrid/runs.db)
//	--fps <rate>     - Override viewer.tick_rate
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import scenes to register them
	_ "github.com/vovakirdan/tui-pathgrid/internal/scenes/trace"
	_ "github.com/vovakirdan/tui-pathgrid/internal/scenes/units"
	"github.com/vovakirdan/tui-pathgrid/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagMap     string
	flagMapsDir string
	flagDBPath  string
	flagFPS     int
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pathgrid",
	Short: "Pathgrid - grid path search and agent movement in your terminal",
	Long: `Pathgrid loads maps made of square chunks, runs flood fill, Dijkstra
and A* over them and moves agents that replan around each other.

Available commands:
  list      - Show scenes and maps
  view      - Interactive viewer (menu, or one scene with --scene)
  find      - Run one search and print path, cost and trace
  simulate  - Run the agent world for a number of ticks
  runs      - Recorded searches and per-algorithm averages
  serve     - Start SSH server for remote viewing

Examples:
  pathgrid list
  pathgrid view --map maps/demo.yaml
  pathgrid find 1,1 30,12 --algo dijkstra --map demo
  pathgrid simulate --ticks 200 --order 40,10
  pathgrid serve --ssh :2222 --map maps/demo.yaml`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to settings YAML")
	rootCmd.PersistentFlags().StringVar(&flagMap, "map", "", "Map description file or map ID")
	rootCmd.PersistentFlags().StringVar(&flagMapsDir, "maps", "maps", "Directory scanned for map descriptions")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to run database")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from settings)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log chunk loading")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}
