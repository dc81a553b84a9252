package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/scenes/trace"
	"github.com/vovakirdan/tui-pathgrid/internal/search"
	"github.com/vovakirdan/tui-pathgrid/internal/storage"
)

var (
	flagAlgo    string
	flagMaxIter int
	flagRows    int
	flagNoTrace bool
	flagNoSave  bool
)

var findCmd = &cobra.Command{
	Use:   "find <start> <target>",
	Short: "Run one search and print the result",
	Long: `Run flood fill, Dijkstra or A* between two cells of a map and print
the path, its cost and an ASCII window of the trace.

Cells are given as x,y. Flood fill ignores the target. The run is added
to the run history unless --no-save is set.

Trace legend:
  #  wall     .  floor     :  expanded    *  path
  S  start    G  target    (blank) no chunk loaded

Examples:
  pathgrid find 1,1 30,12 --map demo
  pathgrid find 1,1 30,12 --map demo --algo dijkstra --max-iter 200
  pathgrid find 4,4 0,0 --map demo --algo fill --no-trace`,
	Args: cobra.ExactArgs(2),
	Run:  runFind,
}

func init() {
	findCmd.Flags().StringVar(&flagAlgo, "algo", "", "Algorithm: fill, dijkstra, astar (default: search.algorithm)")
	findCmd.Flags().IntVar(&flagMaxIter, "max-iter", -1, "Expansion cap, 0 = unbounded (default: search.max_iter)")
	findCmd.Flags().IntVar(&flagRows, "rows", 40, "Maximum rows of the trace window")
	findCmd.Flags().BoolVar(&flagNoTrace, "no-trace", false, "Do not print the trace window")
	findCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runFind(_ *cobra.Command, args []string) {
	if flagRows < 0 {
		fmt.Fprintf(os.Stderr, "Error: --rows must not be negative, got %d\n", flagRows)
		os.Exit(1)
	}
	start, err := parseCell(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: start %v\n", err)
		os.Exit(1)
	}
	target, err := parseCell(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: target %v\n", err)
		os.Exit(1)
	}
	find(start, target)
}

func find(start, target grid.Cell) {
	logger := newLogger()
	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	name := flagAlgo
	if name == "" {
		name = settings.Search.Algorithm
	}
	algo, err := search.ParseAlgorithm(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m, err := openMap(settings, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		fmt.Fprintln(os.Stderr, "Error: find needs a map (--map)")
		os.Exit(1)
	}

	lim := search.Limits{MaxIter: settings.Search.MaxIter}
	if flagMaxIter >= 0 {
		lim.MaxIter = flagMaxIter
	}
	if algo == search.FloodFill {
		lim.Bounds = settings.Grid.FloodBounds.Rect()
	}

	began := time.Now()
	res := search.Run(algo, m.Grid, start, target, lim)
	elapsed := time.Since(began)

	printResult(res, elapsed)
	if !flagNoTrace {
		width, _ := terminalSize()
		fmt.Println()
		for _, line := range traceWindow(m.Grid, res, width, flagRows) {
			fmt.Println(line)
		}
	}

	if flagNoSave {
		return
	}
	store := openStore(logger)
	if store == nil {
		return
	}
	defer store.Close()
	run := storage.Run{
		Algorithm: string(algo),
		MapID:     m.Desc.ID,
		Source:    "cli",
		StartX:    start.X,
		StartY:    start.Y,
		TargetX:   target.X,
		TargetY:   target.Y,
		Expanded:  res.Expanded(),
		PathLen:   len(res.Path),
		Cost:      res.Cost,
		Reached:   res.Reached,
		Truncated: res.Truncated,
		Elapsed:   elapsed,
	}
	if algo == search.FloodFill {
		run.TargetX, run.TargetY = start.X, start.Y
	}
	if _, err := store.SaveRun(run); err != nil {
		logger.Warn("could not record run", "err", err)
	}
}

func printResult(res search.Result, elapsed time.Duration) {
	fmt.Printf("%s from %v", res.Algorithm.Title(), res.Start)
	if res.Algorithm != search.FloodFill {
		fmt.Printf(" to %v", res.Target)
	}
	fmt.Println()
	fmt.Printf("  expanded  %d in %s\n", res.Expanded(), elapsed.Round(time.Microsecond))

	if res.Algorithm == search.FloodFill {
		fmt.Printf("  reachable %d cells\n", res.Expanded())
		return
	}

	switch {
	case res.Reached:
		fmt.Println("  result    reached")
	case res.Truncated:
		fmt.Println("  result    truncated by --max-iter")
	case len(res.Path) == 0:
		fmt.Println("  result    no move possible")
	default:
		end, _ := res.End()
		fmt.Printf("  result    unreachable, closest cell %v\n", end)
	}
	fmt.Printf("  length    %d\n", len(res.Path))
	fmt.Printf("  cost      %d\n", res.Cost)
	if len(res.Path) == 0 {
		return
	}

	cells := make([]string, len(res.Path))
	for i, c := range res.Path {
		cells[i] = c.String()
	}
	fmt.Printf("  path      %s\n", strings.Join(cells, " "))
}

// traceWindow draws the region around the search, at most width columns
// and rows lines, centered on the path endpoints.
func traceWindow(g *grid.ChunkedGrid, res search.Result, width, rows int) []string {
	focus := grid.RectBetween(res.Start, res.Start)
	if res.Algorithm != search.FloodFill {
		focus = grid.RectBetween(res.Start, res.Target)
	}
	for _, c := range res.Path {
		focus = grow(focus, c)
	}
	if focus.Width() < width && focus.Height() < rows {
		for _, c := range res.VisitOrder {
			focus = grow(focus, c)
		}
	}

	// Pad by one cell, then trim around the center to fit.
	focus = grid.R(focus.Min.X-1, focus.Min.Y-1, focus.Max.X+1, focus.Max.Y+1)
	window := fit(focus, width, rows)

	visited := make(map[grid.Cell]bool, len(res.VisitOrder))
	for _, c := range res.VisitOrder {
		visited[c] = true
	}
	onPath := make(map[grid.Cell]bool, len(res.Path))
	for _, c := range res.Path {
		onPath[c] = true
	}

	lines := make([]string, 0, window.Height())
	for y := window.Min.Y; y < window.Max.Y; y++ {
		var sb strings.Builder
		for x := window.Min.X; x < window.Max.X; x++ {
			c := grid.C(x, y)
			at, _ := g.Locate(x, y)
			switch {
			case c == res.Start:
				sb.WriteRune(trace.GlyphStart)
			case res.Algorithm != search.FloodFill && c == res.Target:
				sb.WriteRune(trace.GlyphTarget)
			case onPath[c]:
				sb.WriteRune(trace.GlyphPath)
			case visited[c]:
				sb.WriteRune(trace.GlyphVisited)
			case !g.HasChunk(at):
				sb.WriteRune(trace.GlyphUnloaded)
			default:
				sb.WriteByte(g.Get(x, y))
			}
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines
}

// grow extends r so that it contains c.
func grow(r grid.Rect, c grid.Cell) grid.Rect {
	return grid.R(min(r.Min.X, c.X), min(r.Min.Y, c.Y), max(r.Max.X, c.X+1), max(r.Max.Y, c.Y+1))
}

// fit shrinks r around its center to at most w x h. Negative limits
// count as zero.
func fit(r grid.Rect, w, h int) grid.Rect {
	w, h = max(w, 0), max(h, 0)
	if over := r.Width() - w; over > 0 {
		r.Min.X += over / 2
		r.Max.X = r.Min.X + w
	}
	if over := r.Height() - h; over > 0 {
		r.Min.Y += over / 2
		r.Max.Y = r.Min.Y + h
	}
	return r
}
