package search

import (
	"container/heap"

	"github.com/vovakirdan/tui-pathgrid/internal/grid"
)

// entry is a frontier element ordered by (f, h, x, y).
type entry struct {
	f    int
	h    int
	g    int
	cell grid.Cell
}

func (e entry) less(o entry) bool {
	if e.f != o.f {
		return e.f < o.f
	}
	if e.h != o.h {
		return e.h < o.h
	}
	return e.cell.Less(o.cell)
}

// frontier is a min-heap of entries.
type frontier []entry

func (q frontier) Len() int           { return len(q) }
func (q frontier) Less(i, j int) bool { return q[i].less(q[j]) }
func (q frontier) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *frontier) Push(x any)        { *q = append(*q, x.(entry)) }
func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// Searcher holds the working set of a best-first search. The distance and
// predecessor maps are cleared, not reallocated, between runs, so an agent
// that replans often can keep one Searcher for its lifetime.
//
// A Searcher is not safe for concurrent use.
type Searcher struct {
	dist map[grid.Cell]int
	prev map[grid.Cell]grid.Cell
	open frontier
}

// NewSearcher creates a Searcher with empty scratch state.
func NewSearcher() *Searcher {
	return &Searcher{
		dist: make(map[grid.Cell]int),
		prev: make(map[grid.Cell]grid.Cell),
	}
}

func (s *Searcher) reset() {
	clear(s.dist)
	clear(s.prev)
	s.open = s.open[:0]
}

// Dijkstra runs uniform-cost search from start to target.
func (s *Searcher) Dijkstra(t grid.Terrain, start, target grid.Cell, lim Limits) Result {
	return s.run(Dijkstra, t, start, target, lim, func(grid.Cell) int { return 0 })
}

// AStar runs A* with the octile heuristic.
func (s *Searcher) AStar(t grid.Terrain, start, target grid.Cell, lim Limits) Result {
	return s.run(AStar, t, start, target, lim, func(c grid.Cell) int { return Octile(c, target) })
}

// run is the shared best-first loop. The walkability of start itself is
// never checked: an agent's own tile is usually occupied.
//
// The search stops when target is popped, when the frontier is exhausted,
// or when MaxIter nodes have been expanded. If target was not popped the
// path leads to the discovered cell with the lowest octile distance to
// target (first found wins ties).
func (s *Searcher) run(algo Algorithm, t grid.Terrain, start, target grid.Cell, lim Limits, h func(grid.Cell) int) Result {
	s.reset()
	res := Result{Algorithm: algo, Start: start, Target: target}
	if start == target {
		res.Path = []grid.Cell{start}
		res.Reached = true
		return res
	}

	s.dist[start] = 0
	hs := h(start)
	heap.Push(&s.open, entry{f: hs, h: hs, g: 0, cell: start})

	var (
		best     grid.Cell
		bestDist int
		haveBest bool
	)

	for s.open.Len() > 0 {
		if lim.MaxIter > 0 && len(res.VisitOrder) >= lim.MaxIter {
			res.Truncated = true
			break
		}

		e := heap.Pop(&s.open).(entry)
		if e.g > s.dist[e.cell] {
			continue // stale
		}
		if e.cell == target {
			res.Reached = true
			break
		}
		res.VisitOrder = append(res.VisitOrder, e.cell)

		var batch []grid.Cell
		for _, step := range Neighbors {
			n := e.cell.Add(step.Delta)
			if !lim.allows(n) || !t.Walkable(n) {
				continue
			}
			g := e.g + step.Cost
			if old, seen := s.dist[n]; seen && old <= g {
				continue
			}
			s.dist[n] = g
			s.prev[n] = e.cell
			nh := h(n)
			heap.Push(&s.open, entry{f: g + nh, h: nh, g: g, cell: n})
			batch = append(batch, n)

			if d := Octile(n, target); !haveBest || d < bestDist {
				best, bestDist, haveBest = n, d, true
			}
		}
		res.Batches = append(res.Batches, batch)
	}

	end := best
	switch {
	case res.Reached:
		end = target
	case !haveBest:
		return res
	}
	res.Path = reconstruct(s.prev, start, end)
	res.Cost = s.dist[end]
	return res
}

// reconstruct walks predecessor links from end back to start. A missing
// link ends the walk early and the partial path is returned as is.
func reconstruct(prev map[grid.Cell]grid.Cell, start, end grid.Cell) []grid.Cell {
	path := []grid.Cell{end}
	for cur := end; cur != start; {
		p, ok := prev[cur]
		if !ok {
			break
		}
		path = append(path, p)
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
