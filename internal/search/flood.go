package search

import "github.com/vovakirdan/tui-pathgrid/internal/grid"

// Fill runs a breadth-first flood fill from start over walkable cells
// inside bounds (DefaultFloodBounds when bounds is empty).
//
// Start is always the first visited cell. Each reachable cell appears once
// in VisitOrder, in discovery order; Batches[i] holds the cells discovered
// while dequeuing the i-th cell. Path is left empty.
func Fill(t grid.Terrain, start grid.Cell, bounds grid.Rect) Result {
	if bounds.Empty() {
		bounds = DefaultFloodBounds
	}

	res := Result{Algorithm: FloodFill, Start: start, Target: start}
	visited := map[grid.Cell]struct{}{start: {}}
	res.VisitOrder = append(res.VisitOrder, start)

	queue := []grid.Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		var batch []grid.Cell
		for _, step := range Neighbors {
			n := cur.Add(step.Delta)
			if !bounds.Contains(n) || !t.Walkable(n) {
				continue
			}
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = struct{}{}
			res.VisitOrder = append(res.VisitOrder, n)
			batch = append(batch, n)
			queue = append(queue, n)
		}
		res.Batches = append(res.Batches, batch)
	}
	return res
}

// ReachableSet returns the cells connected to start, in discovery order.
func ReachableSet(t grid.Terrain, start grid.Cell, bounds grid.Rect) []grid.Cell {
	return Fill(t, start, bounds).VisitOrder
}
