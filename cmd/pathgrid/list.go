package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pathgrid/internal/mapfile"
	"github.com/vovakirdan/tui-pathgrid/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenes and maps",
	Long:  `Shows the registered viewer scenes and the map descriptions found under --maps.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	scenes := registry.List()

	fmt.Println("Scenes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range scenes {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, s := range scenes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}

	fmt.Println()
	descs, err := mapfile.NewLoader(flagMapsDir).LoadAll()
	if err != nil || len(descs) == 0 {
		fmt.Printf("No maps found in %s.\n", flagMapsDir)
		return
	}

	fmt.Printf("Maps in %s:\n", flagMapsDir)
	fmt.Println()
	maxIDLen = 2
	for _, d := range descs {
		maxIDLen = max(maxIDLen, len(d.ID))
	}
	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "ID", "Chunks", "Name")
	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "--", "------", "----")
	for _, d := range descs {
		fmt.Printf("  %-*s  %-6d  %s\n", maxIDLen, d.ID, len(d.Chunks), d.Title())
	}

	fmt.Println()
	fmt.Println("Run 'pathgrid view --map <id>' to open a map.")
}
