package agent

import "github.com/vovakirdan/tui-pathgrid/internal/grid"

// Destination is an agent's goal and its progress along the planned path.
//
// Path holds the waypoints still ahead when planned, excluding the tile the
// agent stood on at planning time. Next indexes the waypoint to step onto.
type Destination struct {
	Finish grid.Cell
	Path   []grid.Cell
	Next   int
	Tries  int
}

// SetFinish sets a new goal, drops the current path and refills the retry
// budget. It is the only way out of the Stuck state.
func (d *Destination) SetFinish(c grid.Cell, tries int) {
	d.Finish = c
	d.ClearPath()
	d.Tries = tries
}

// SetPath replaces the planned path and rewinds the cursor.
func (d *Destination) SetPath(path []grid.Cell) {
	d.Path = path
	d.Next = 0
}

// ClearPath drops the planned path.
func (d *Destination) ClearPath() {
	d.Path = nil
	d.Next = 0
}

// Peek returns the next waypoint.
func (d *Destination) Peek() (grid.Cell, bool) {
	if d.Next < 0 || d.Next >= len(d.Path) {
		return grid.Cell{}, false
	}
	return d.Path[d.Next], true
}

// Advance moves the cursor past the current waypoint.
func (d *Destination) Advance() {
	if d.Next < len(d.Path) {
		d.Next++
	}
}

// Finished reports whether every waypoint has been visited.
func (d *Destination) Finished() bool {
	return d.Next >= len(d.Path)
}

// Remaining returns the number of waypoints still ahead. It is negative
// when the cursor has run past the end of the path.
func (d *Destination) Remaining() int {
	return len(d.Path) - d.Next
}

// Trim drops the last waypoint of the remaining path.
func (d *Destination) Trim() {
	if d.Remaining() > 0 {
		d.Path = d.Path[:len(d.Path)-1]
	}
}

// Ahead returns the waypoints not visited yet.
func (d *Destination) Ahead() []grid.Cell {
	if d.Remaining() <= 0 {
		return nil
	}
	return d.Path[d.Next:]
}
