package agent

import (
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/search"
)

// Move runs one tick for a.
//
// If the next waypoint can be acquired the agent releases its tile, steps
// and acquires the new one. Otherwise, in order: an inconsistent cursor
// clears the path, a non-empty remainder loses its last waypoint, an agent
// on its finish is Arrived, a remaining try is spent on Plan, and with no
// tries left the agent is Stuck.
func Move(a *Agent, m *grid.OccupancyMap) State {
	d := &a.Dest

	if next, ok := d.Peek(); ok && m.CanAcquire(next) {
		m.Release(a.Tile)
		a.Tile = next
		a.Pos = m.TileToWorld(next)
		m.Acquire(next)
		d.Advance()

		a.State = Following
		if d.Finished() && a.Tile == d.Finish {
			a.State = Arrived
		}
		return a.State
	}

	switch {
	case d.Next > len(d.Path):
		d.ClearPath()
		a.State = Blocked
	case d.Remaining() > 0:
		d.Trim()
		a.State = Blocked
	case a.Tile == d.Finish:
		a.State = Arrived
	case d.Tries > 0:
		d.Tries--
		Plan(a, m)
		a.State = Replanning
	default:
		a.State = Stuck
	}
	return a.State
}

// Plan searches from the agent's tile to its finish and installs the
// result as the new path. A plan whose end is no closer to the finish
// than the agent already is leaves the path empty.
func Plan(a *Agent, m *grid.OccupancyMap) search.Result {
	if a.searcher == nil {
		a.searcher = search.NewSearcher()
	}
	a.Replans++

	res := a.searcher.AStar(m, a.Tile, a.Dest.Finish, search.Limits{MaxIter: a.cfg.normalized().MaxIter})
	end, ok := res.End()
	if !ok || len(res.Path) < 2 || res.Path[0] != a.Tile {
		a.Dest.ClearPath()
		return res
	}
	if !res.Reached && search.Octile(end, a.Dest.Finish) >= search.Octile(a.Tile, a.Dest.Finish) {
		a.Dest.ClearPath()
		return res
	}

	path := make([]grid.Cell, len(res.Path)-1)
	copy(path, res.Path[1:])
	a.Dest.SetPath(path)
	return res
}
