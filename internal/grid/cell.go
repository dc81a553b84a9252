// Package grid provides the map storage used by the search and movement code:
// a sparse chunk-backed terrain grid over an unbounded integer plane and a
// bounded occupancy map used to reserve tiles for agents.
//
// Nothing in this package logs or allocates per query; lookups are total and
// out-of-range coordinates resolve to conservative defaults.
package grid

import "fmt"

// Cell identifies one tile on the plane.
// X increases to the right, Y increases downward (screen coordinates).
type Cell struct {
	X int
	Y int
}

// C is a convenience constructor for Cell.
func C(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the sum of two cells.
func (c Cell) Add(other Cell) Cell {
	return Cell{X: c.X + other.X, Y: c.Y + other.Y}
}

// Sub returns c minus other.
func (c Cell) Sub(other Cell) Cell {
	return Cell{X: c.X - other.X, Y: c.Y - other.Y}
}

// Scale multiplies both components by k.
func (c Cell) Scale(k int) Cell {
	return Cell{X: c.X * k, Y: c.Y * k}
}

// Less orders cells by X, then Y.
func (c Cell) Less(other Cell) bool {
	if c.X != other.X {
		return c.X < other.X
	}
	return c.Y < other.Y
}

// Point is a continuous 2D position (world space).
type Point struct {
	X float64
	Y float64
}

// P is a convenience constructor for Point.
func P(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is a half-open cell rectangle [Min, Max).
// The zero Rect is empty and, where used as a search bound, means "unbounded".
type Rect struct {
	Min Cell
	Max Cell
}

// R builds a rectangle from its corner cells.
func R(minX, minY, maxX, maxY int) Rect {
	return Rect{Min: C(minX, minY), Max: C(maxX, maxY)}
}

// RectBetween returns the smallest rectangle containing both cells,
// whichever order they are given in.
func RectBetween(a, b Cell) Rect {
	r := Rect{Min: a, Max: b}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	r.Max = r.Max.Add(C(1, 1))
	return r
}

// Empty reports whether the rectangle contains no cells.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains returns true if c lies inside the rectangle.
func (r Rect) Contains(c Cell) bool {
	return c.X >= r.Min.X && c.X < r.Max.X && c.Y >= r.Min.Y && c.Y < r.Max.Y
}

// Width returns the number of columns.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X
}

// Height returns the number of rows.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod returns the non-negative remainder of a by b (b > 0).
func floorMod(a, b int) int {
	return ((a % b) + b) % b
}
