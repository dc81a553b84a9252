package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pathgrid/internal/agent"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/registry"
	"github.com/vovakirdan/tui-pathgrid/internal/sim"
	"github.com/vovakirdan/tui-pathgrid/internal/storage"
)

var (
	flagTicks   int
	flagOrder   string
	flagSettled bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the agent world without a terminal UI",
	Long: `Spawn the agents listed by the map (or agents.spawn) on the occupancy window of the map,
optionally order all of them to one tile, run the world for a number of
frames and print every agent's final state.

Agents move once every agents.move_every frames. Tiles are relative to
occupancy.origin.

Examples:
  pathgrid simulate --map demo --order 40,10
  pathgrid simulate --map demo --order 40,10 --ticks 600 --until-settled`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 300, "Frames to run")
	simulateCmd.Flags().StringVar(&flagOrder, "order", "", "Order every agent to this tile (x,y)")
	simulateCmd.Flags().BoolVar(&flagSettled, "until-settled", false, "Stop early once every agent arrived or is stuck")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger := newLogger()
	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m, err := openMap(settings, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var terrain grid.Terrain = grid.TerrainFunc(func(grid.Cell) bool { return true })
	mapID := ""
	if m != nil {
		terrain = m.Grid
		mapID = m.Desc.ID
	}
	occ := grid.OccupancyFromTerrain(terrain, settings.Occupancy.Window(),
		settings.Occupancy.TileScale, settings.Occupancy.Policy())

	world := sim.NewWorld(occ, sim.Options{
		MoveEvery: settings.Agents.MoveEvery,
		Agent:     settings.Agents.AgentConfig(),
	})
	kind := settings.Agents.Kind.Kind()
	env := registry.Env{Map: m, Settings: settings}
	for _, tile := range env.SpawnTiles() {
		if _, err := world.Spawn(tile, kind); err != nil {
			logger.Warn("spawn skipped", "tile", tile, "err", err)
		}
	}
	if len(world.Agents) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no agent could be spawned (check the spawn cells)")
		os.Exit(1)
	}

	if flagOrder != "" {
		target, err := parseCell(flagOrder)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: order %v\n", err)
			os.Exit(1)
		}
		world.Select(occ.Bounds())
		world.Order(target)
		world.ClearSelection()
	}

	ticks := 0
	for ticks < flagTicks {
		world.Update()
		ticks++
		if flagSettled && world.Settled() {
			break
		}
	}

	printWorld(world, ticks)

	store := openStore(logger)
	if store == nil {
		return
	}
	defer store.Close()
	id, err := store.SaveSimRun(simRunFromWorld(world, mapID, ticks))
	if err != nil {
		logger.Warn("could not record simulation", "err", err)
		return
	}
	fmt.Printf("\nRecorded as simulation %d ('pathgrid runs --sim %d').\n", id, id)
}

func printWorld(w *sim.World, ticks int) {
	fmt.Printf("%d frames, %d movement ticks on %dx%d tiles of %g world units\n",
		ticks, w.Moves(), w.Map.Width(), w.Map.Height(), w.Map.Scale())
	fmt.Println()
	fmt.Printf("  %-3s  %-6s  %-9s  %-9s  %-10s  %-4s  %s\n", "ID", "Kind", "Tile", "Finish", "State", "Left", "Replans")
	fmt.Printf("  %-3s  %-6s  %-9s  %-9s  %-10s  %-4s  %s\n", "--", "----", "----", "------", "-----", "----", "-------")
	for _, a := range w.Agents {
		fmt.Printf("  %-3d  %-6s  %-9s  %-9s  %-10s  %-4d  %d\n",
			a.ID, a.Kind.Name, a.Tile, a.Dest.Finish, a.State, a.Dest.Remaining(), a.Replans)
	}

	counts := w.Counts()
	fmt.Println()
	for _, s := range agent.States() {
		if counts[s] > 0 {
			fmt.Printf("  %-10s %d\n", s, counts[s])
		}
	}
}

// simRunFromWorld summarizes a finished simulation for the run history.
func simRunFromWorld(w *sim.World, mapID string, ticks int) storage.SimRun {
	run := storage.SimRun{MapID: mapID, Agents: len(w.Agents), Ticks: ticks}
	counts := w.Counts()
	run.Arrived = counts[agent.Arrived]
	run.Stuck = counts[agent.Stuck]
	for _, a := range w.Agents {
		run.Replans += a.Replans
	}
	return run
}
