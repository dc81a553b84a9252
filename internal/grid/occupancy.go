package grid

import (
	"fmt"
	"math"
)

// DefaultTileScale is the world-space size of one occupancy tile.
const DefaultTileScale = 50.0

// OutOfBounds selects what WorldToTile does with positions outside the map.
type OutOfBounds string

const (
	// OutOfBoundsOrigin maps outside positions to tile (0,0).
	OutOfBoundsOrigin OutOfBounds = "origin"
	// OutOfBoundsReject reports outside positions as not convertible.
	OutOfBoundsReject OutOfBounds = "reject"
	// OutOfBoundsClamp maps outside positions to the nearest edge tile.
	OutOfBoundsClamp OutOfBounds = "clamp"
)

// ParseOutOfBounds validates a policy name. The empty string selects reject.
func ParseOutOfBounds(s string) (OutOfBounds, error) {
	switch OutOfBounds(s) {
	case "":
		return OutOfBoundsReject, nil
	case OutOfBoundsOrigin, OutOfBoundsReject, OutOfBoundsClamp:
		return OutOfBounds(s), nil
	default:
		return "", fmt.Errorf("grid: unknown out-of-bounds policy %q", s)
	}
}

// OccupancyMap is a bounded W×H grid of binary occupancy tiles.
// It tracks only whether a tile is taken, not by whom: callers must not
// release tiles they do not hold.
type OccupancyMap struct {
	width  int
	height int
	scale  float64
	policy OutOfBounds
	taken  []bool
}

// NewOccupancyMap creates a map with every tile free.
func NewOccupancyMap(width, height int, scale float64, policy OutOfBounds) *OccupancyMap {
	if scale <= 0 {
		scale = DefaultTileScale
	}
	if policy == "" {
		policy = OutOfBoundsReject
	}
	return &OccupancyMap{
		width:  width,
		height: height,
		scale:  scale,
		policy: policy,
		taken:  make([]bool, max(width, 0)*max(height, 0)),
	}
}

// OccupancyFromTerrain builds a map over the window r of t and pre-acquires
// every non-walkable tile, so walls behave as permanently occupied.
// Tile (0,0) of the result corresponds to r.Min.
func OccupancyFromTerrain(t Terrain, r Rect, scale float64, policy OutOfBounds) *OccupancyMap {
	m := NewOccupancyMap(r.Width(), r.Height(), scale, policy)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if !t.Walkable(r.Min.Add(C(x, y))) {
				m.Acquire(C(x, y))
			}
		}
	}
	return m
}

// Width returns the number of columns.
func (m *OccupancyMap) Width() int { return m.width }

// Height returns the number of rows.
func (m *OccupancyMap) Height() int { return m.height }

// Scale returns the world size of a tile.
func (m *OccupancyMap) Scale() float64 { return m.scale }

// Policy returns the out-of-bounds policy used by WorldToTile.
func (m *OccupancyMap) Policy() OutOfBounds { return m.policy }

// Bounds returns the tile rectangle of the map.
func (m *OccupancyMap) Bounds() Rect {
	return R(0, 0, m.width, m.height)
}

// Inside reports whether c is a tile of the map.
func (m *OccupancyMap) Inside(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < m.width && c.Y < m.height
}

func (m *OccupancyMap) index(c Cell) int {
	return c.Y*m.width + c.X
}

// CanAcquire is true iff c is inside the map and free.
func (m *OccupancyMap) CanAcquire(c Cell) bool {
	return m.Inside(c) && !m.taken[m.index(c)]
}

// Acquire marks c occupied if it can be acquired.
// It returns false, leaving the map untouched, otherwise.
func (m *OccupancyMap) Acquire(c Cell) bool {
	if !m.CanAcquire(c) {
		return false
	}
	m.taken[m.index(c)] = true
	return true
}

// Release frees c. Out-of-bounds and already free tiles are ignored.
func (m *OccupancyMap) Release(c Cell) {
	if m.Inside(c) {
		m.taken[m.index(c)] = false
	}
}

// Occupied reports whether c is inside the map and taken.
func (m *OccupancyMap) Occupied(c Cell) bool {
	return m.Inside(c) && m.taken[m.index(c)]
}

// Walkable implements Terrain using CanAcquire.
func (m *OccupancyMap) Walkable(c Cell) bool {
	return m.CanAcquire(c)
}

// FreeCount returns the number of free tiles.
func (m *OccupancyMap) FreeCount() int {
	n := 0
	for _, t := range m.taken {
		if !t {
			n++
		}
	}
	return n
}

// WorldToTile rounds a world position to the nearest tile.
// Positions that land outside the map are handled by the map's policy;
// ok is false only under OutOfBoundsReject.
func (m *OccupancyMap) WorldToTile(p Point) (c Cell, ok bool) {
	c = C(
		int(math.Floor(p.X/m.scale+0.5)),
		int(math.Floor(p.Y/m.scale+0.5)),
	)
	if m.Inside(c) {
		return c, true
	}
	switch m.policy {
	case OutOfBoundsOrigin:
		return C(0, 0), true
	case OutOfBoundsClamp:
		if m.width <= 0 || m.height <= 0 {
			return C(0, 0), false
		}
		return C(min(max(c.X, 0), m.width-1), min(max(c.Y, 0), m.height-1)), true
	default:
		return c, false
	}
}

// TileToWorld returns the world position of a tile's center.
func (m *OccupancyMap) TileToWorld(c Cell) Point {
	return P(float64(c.X)*m.scale, float64(c.Y)*m.scale)
}
