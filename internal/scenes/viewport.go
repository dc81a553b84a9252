// Package scenes holds helpers shared by the interactive scenes.
package scenes

import (
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
)

// HUD rows above and below the map area.
const (
	HeaderRows = 1
	FooterRows = 1
)

// Viewport maps grid cells onto a screen area, one character per cell.
type Viewport struct {
	Origin grid.Cell // cell drawn at the top-left of Area
	Area   core.Rect
}

// NewViewport returns a viewport filling the screen between the HUD rows.
func NewViewport(screenW, screenH int) Viewport {
	h := max(screenH-HeaderRows-FooterRows, 0)
	return Viewport{Area: core.NewRect(0, HeaderRows, max(screenW, 0), h)}
}

// Resize keeps the origin and adopts new screen dimensions.
func (v *Viewport) Resize(screenW, screenH int) {
	area := NewViewport(screenW, screenH).Area
	v.Area = area
}

// Cells returns the grid rectangle currently visible.
func (v Viewport) Cells() grid.Rect {
	return grid.Rect{Min: v.Origin, Max: v.Origin.Add(grid.C(v.Area.W, v.Area.H))}
}

// ToScreen returns the screen position of c.
func (v Viewport) ToScreen(c grid.Cell) (x, y int, ok bool) {
	d := c.Sub(v.Origin)
	x, y = v.Area.X+d.X, v.Area.Y+d.Y
	return x, y, v.Area.Contains(x, y)
}

// ToCell returns the cell under a screen position.
func (v Viewport) ToCell(x, y int) (grid.Cell, bool) {
	if !v.Area.Contains(x, y) {
		return grid.Cell{}, false
	}
	return v.Origin.Add(grid.C(x-v.Area.X, y-v.Area.Y)), true
}

// Pan moves the origin by (dx, dy) cells.
func (v *Viewport) Pan(dx, dy int) {
	v.Origin = v.Origin.Add(grid.C(dx, dy))
}

// PanStep is the distance one pan action moves: a quarter of the area.
func (v Viewport) PanStep() (dx, dy int) {
	return max(v.Area.W/4, 1), max(v.Area.H/4, 1)
}

// Follow scrolls the minimum amount that brings c into view.
func (v *Viewport) Follow(c grid.Cell) {
	if v.Area.W <= 0 || v.Area.H <= 0 {
		return
	}
	switch {
	case c.X < v.Origin.X:
		v.Origin.X = c.X
	case c.X >= v.Origin.X+v.Area.W:
		v.Origin.X = c.X - v.Area.W + 1
	}
	switch {
	case c.Y < v.Origin.Y:
		v.Origin.Y = c.Y
	case c.Y >= v.Origin.Y+v.Area.H:
		v.Origin.Y = c.Y - v.Area.H + 1
	}
}

// Center places c in the middle of the area.
func (v *Viewport) Center(c grid.Cell) {
	v.Origin = c.Sub(grid.C(v.Area.W/2, v.Area.H/2))
}

// CursorDelta returns the cursor movement requested by in.
func CursorDelta(in core.InputFrame) grid.Cell {
	var d grid.Cell
	if in.Has(core.ActionUp) {
		d.Y--
	}
	if in.Has(core.ActionDown) {
		d.Y++
	}
	if in.Has(core.ActionLeft) {
		d.X--
	}
	if in.Has(core.ActionRight) {
		d.X++
	}
	return d
}

// PanDelta returns the viewport movement requested by in, in cells.
func (v Viewport) PanDelta(in core.InputFrame) (dx, dy int) {
	sx, sy := v.PanStep()
	if in.Has(core.ActionPanUp) {
		dy -= sy
	}
	if in.Has(core.ActionPanDown) {
		dy += sy
	}
	if in.Has(core.ActionPanLeft) {
		dx -= sx
	}
	if in.Has(core.ActionPanRight) {
		dx += sx
	}
	return dx, dy
}

// DrawFooter writes status on the last screen row.
func DrawFooter(dst *core.Screen, status string, c core.Color) {
	dst.DrawTextColored(0, dst.Height()-1, status, c)
}
