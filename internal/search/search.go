// Package search implements reachability and shortest-path search over a
// grid.Terrain: breadth-first flood fill, Dijkstra and A*.
//
// All three expand the 8 neighbours of a cell. Straight steps cost 10 and
// diagonal steps 14, so every cost and heuristic is an integer and priority
// ties are broken deterministically.
//
// Searches return their whole trace (expansion order and per-expansion
// frontier growth) as data so callers can animate it; nothing here draws.
package search

import (
	"fmt"

	"github.com/vovakirdan/tui-pathgrid/internal/grid"
)

// Step costs.
const (
	CostStraight = 10
	CostDiagonal = 14
)

// Step is one neighbour offset and the cost of moving along it.
type Step struct {
	Delta grid.Cell
	Cost  int
}

// Neighbors lists the eight moves in expansion order.
var Neighbors = [8]Step{
	{grid.C(-1, 1), CostDiagonal}, {grid.C(0, 1), CostStraight}, {grid.C(1, 1), CostDiagonal},
	{grid.C(-1, 0), CostStraight}, {grid.C(1, 0), CostStraight},
	{grid.C(-1, -1), CostDiagonal}, {grid.C(0, -1), CostStraight}, {grid.C(1, -1), CostDiagonal},
}

// DefaultFloodBounds keeps flood fill finite on an unbounded grid.
var DefaultFloodBounds = grid.R(0, 0, 256, 256)

// Algorithm names a search strategy.
type Algorithm string

const (
	FloodFill Algorithm = "fill"
	Dijkstra  Algorithm = "dijkstra"
	AStar     Algorithm = "astar"
)

// Algorithms lists every strategy in display order.
func Algorithms() []Algorithm {
	return []Algorithm{FloodFill, Dijkstra, AStar}
}

// ParseAlgorithm accepts the names above plus a few aliases.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "fill", "flood", "floodfill", "bfs":
		return FloodFill, nil
	case "dijkstra", "ucs":
		return Dijkstra, nil
	case "astar", "a*", "a-star":
		return AStar, nil
	default:
		return "", fmt.Errorf("search: unknown algorithm %q", s)
	}
}

// Title returns a display name.
func (a Algorithm) Title() string {
	switch a {
	case FloodFill:
		return "Flood fill"
	case Dijkstra:
		return "Dijkstra"
	case AStar:
		return "A*"
	default:
		return string(a)
	}
}

// Next cycles to the following algorithm.
func (a Algorithm) Next() Algorithm {
	all := Algorithms()
	for i, other := range all {
		if other == a {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Limits bound a search. The zero value is unbounded.
type Limits struct {
	// Bounds rejects neighbours outside the rectangle. An empty rectangle
	// disables the check (flood fill substitutes DefaultFloodBounds).
	Bounds grid.Rect
	// MaxIter caps the number of expanded nodes; 0 means no cap.
	MaxIter int
}

func (l Limits) allows(c grid.Cell) bool {
	return l.Bounds.Empty() || l.Bounds.Contains(c)
}

// Result is the outcome of one search.
type Result struct {
	Algorithm Algorithm
	Start     grid.Cell
	Target    grid.Cell

	// VisitOrder holds cells in the order they were expanded.
	VisitOrder []grid.Cell
	// Batches[i] holds the cells whose distance improved while expanding
	// VisitOrder[i].
	Batches [][]grid.Cell
	// Path runs from Start to the target, or to the closest cell found
	// when the target was not reached. It is empty when nothing beyond
	// Start was reachable.
	Path []grid.Cell

	Cost      int  // accumulated cost of Path
	Reached   bool // Path ends at Target
	Truncated bool // stopped by Limits.MaxIter
}

// Expanded returns the number of expanded nodes.
func (r Result) Expanded() int {
	return len(r.VisitOrder)
}

// End returns the last cell of the path.
func (r Result) End() (grid.Cell, bool) {
	if len(r.Path) == 0 {
		return grid.Cell{}, false
	}
	return r.Path[len(r.Path)-1], true
}

// Octile is the diagonal-distance heuristic in step-cost units:
// 10*max(dx,dy) + 4*min(dx,dy).
func Octile(a, b grid.Cell) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	return CostStraight*max(dx, dy) + (CostDiagonal-CostStraight)*min(dx, dy)
}

// StepCost returns the cost of moving between two adjacent cells, or
// false if they are not neighbours.
func StepCost(a, b grid.Cell) (int, bool) {
	d := b.Sub(a)
	for _, s := range Neighbors {
		if s.Delta == d {
			return s.Cost, true
		}
	}
	return 0, false
}

// PathCost sums the step costs along a path. ok is false if two
// consecutive cells are not neighbours.
func PathCost(path []grid.Cell) (cost int, ok bool) {
	for i := 1; i < len(path); i++ {
		c, adjacent := StepCost(path[i-1], path[i])
		if !adjacent {
			return cost, false
		}
		cost += c
	}
	return cost, true
}

// Run dispatches to the named algorithm. Flood fill ignores target.
func Run(algo Algorithm, t grid.Terrain, start, target grid.Cell, lim Limits) Result {
	switch algo {
	case FloodFill:
		return Fill(t, start, lim.Bounds)
	case Dijkstra:
		return NewSearcher().Dijkstra(t, start, target, lim)
	default:
		return NewSearcher().AStar(t, start, target, lim)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
