package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pathgrid/internal/mapfile"
	"github.com/vovakirdan/tui-pathgrid/internal/platform/tui"
	"github.com/vovakirdan/tui-pathgrid/internal/search"
	"github.com/vovakirdan/tui-pathgrid/internal/storage"
)

var (
	flagLimit       int
	flagInteractive bool
	flagSims        bool
	flagClear       bool
	flagSimID       int64
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded searches",
	Long: `Display recent searches from the viewer, the SSH server and 'pathgrid
find', followed by per-algorithm averages. With --map only runs on that
map are listed.

Only metrics are stored: cells, costs and timings, never paths.

Examples:
  pathgrid runs
  pathgrid runs --map demo --limit 50
  pathgrid runs --interactive
  pathgrid runs --sims
  pathgrid runs --sim 3
  pathgrid runs --map demo --clear`,
	Run: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to list")
	runsCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in a table")
	runsCmd.Flags().BoolVar(&flagSims, "sims", false, "List simulations instead of searches")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the listed runs")
	runsCmd.Flags().Int64Var(&flagSimID, "sim", 0, "Show one simulation by ID")
}

func runRuns(_ *cobra.Command, _ []string) {
	mapID := mapIDFromFlag()
	if flagClear && mapID == "" {
		fmt.Fprintln(os.Stderr, "Error: --clear needs --map")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearRuns(mapID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			return
		}
		fmt.Println("Run history cleared.")
	case flagInteractive:
		width, height := terminalSize()
		if err := tui.RunRuns(store, mapID, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	case flagSimID > 0:
		printSimRun(store, flagSimID)
	case flagSims:
		printSimRuns(store)
	default:
		printRuns(store, mapID)
	}
}

// mapIDFromFlag names the --map map without loading its chunks.
func mapIDFromFlag() string {
	if info, err := os.Stat(flagMap); err == nil && !info.IsDir() {
		if desc, err := mapfile.LoadFile(flagMap); err == nil {
			return desc.ID
		}
	}
	return flagMap
}

func printRuns(store *storage.Store, mapID string) {
	var runs []storage.Run
	var err error
	if mapID != "" {
		runs, err = store.RunsForMap(mapID, flagLimit)
	} else {
		runs, err = store.RecentRuns(flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'pathgrid find' or search in 'pathgrid view' to record one.")
		return
	}

	fmt.Println("Recent runs")
	fmt.Println()
	fmt.Printf("  %-4s  %-8s  %-10s  %-6s  %-9s  %-9s  %-6s  %-4s  %-6s  %-9s  %s\n",
		"ID", "Algo", "Map", "Source", "Start", "Target", "Exp", "Len", "Cost", "Result", "Date")
	for _, r := range runs {
		fmt.Printf("  %-4d  %-8s  %-10s  %-6s  %-9s  %-9s  %-6d  %-4d  %-6d  %-9s  %s\n",
			r.ID, r.Algorithm, r.MapID, r.Source,
			fmt.Sprintf("%d,%d", r.StartX, r.StartY), fmt.Sprintf("%d,%d", r.TargetX, r.TargetY),
			r.Expanded, r.PathLen, r.Cost, runResult(r), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetAlgorithmStats()
	if err != nil || len(stats) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Averages (all maps)")
	fmt.Println()
	fmt.Printf("  %-8s  %-5s  %-6s  %-8s  %-8s  %s\n", "Algo", "Runs", "Reach", "Expanded", "Cost", "Time")
	for _, a := range search.Algorithms() {
		st := stats[string(a)]
		if st == nil {
			continue
		}
		fmt.Printf("  %-8s  %-5d  %5.0f%%  %-8.0f  %-8.0f  %s\n",
			a, st.Runs, st.ReachRate()*100, st.AvgExpanded, st.AvgCost, st.AvgElapsed.Round(time.Microsecond))
	}
}

func runResult(r storage.Run) string {
	switch {
	case r.Algorithm == string(search.FloodFill):
		return "filled"
	case r.Reached:
		return "reached"
	case r.Truncated:
		return "truncated"
	default:
		return "partial"
	}
}

func printSimRuns(store *storage.Store) {
	sims, err := store.RecentSimRuns(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving simulations: %v\n", err)
		return
	}
	if len(sims) == 0 {
		fmt.Println("No simulations recorded yet.")
		return
	}

	fmt.Println("Recent simulations")
	fmt.Println()
	fmt.Printf("  %-4s  %-10s  %-6s  %-6s  %-7s  %-5s  %-7s  %s\n",
		"ID", "Map", "Agents", "Frames", "Arrived", "Stuck", "Replans", "Date")
	for _, s := range sims {
		fmt.Printf("  %-4d  %-10s  %-6d  %-6d  %-7d  %-5d  %-7d  %s\n",
			s.ID, s.MapID, s.Agents, s.Ticks, s.Arrived, s.Stuck, s.Replans, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printSimRun(store *storage.Store, id int64) {
	s, err := store.SimRunByID(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving simulation: %v\n", err)
		return
	}
	if s == nil {
		fmt.Printf("No simulation with ID %d.\n", id)
		return
	}
	for _, line := range simRunLines(*s) {
		fmt.Println(line)
	}
}

// simRunLines describes one simulation, one field per line.
func simRunLines(s storage.SimRun) []string {
	mapID := s.MapID
	if mapID == "" {
		mapID = "(open field)"
	}
	lines := []string{
		fmt.Sprintf("Simulation %d", s.ID),
		fmt.Sprintf("  map       %s", mapID),
		fmt.Sprintf("  recorded  %s", s.CreatedAt.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("  frames    %d", s.Ticks),
		fmt.Sprintf("  agents    %d", s.Agents),
		fmt.Sprintf("  arrived   %d", s.Arrived),
		fmt.Sprintf("  stuck     %d", s.Stuck),
		fmt.Sprintf("  moving    %d", s.Agents-s.Arrived-s.Stuck),
		fmt.Sprintf("  replans   %d", s.Replans),
	}
	if s.Agents > 0 {
		lines = append(lines, fmt.Sprintf("  per agent %.1f replans", float64(s.Replans)/float64(s.Agents)))
	}
	return lines
}
