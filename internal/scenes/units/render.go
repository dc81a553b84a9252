package units

import (
	"github.com/vovakirdan/tui-pathgrid/internal/agent"
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/scenes"
)

const (
	glyphOutside = ' '
	glyphWall    = '#'
	glyphFree    = '.'
	glyphPath    = '*'
	glyphFinish  = 'x'
	glyphCursor  = '@'
	glyphAnchor  = '+'
)

// Render draws tiles, the planned paths of selected agents, the agents
// and the cursor.
func (s *Scene) Render(dst *core.Screen) {
	if s.world == nil {
		return
	}
	title := s.Title()
	if s.env.Map != nil {
		title += " - " + s.env.Map.Desc.Title()
	}
	dst.DrawTextColored(0, 0, title, s.theme.Text)

	m := s.world.Map
	cells := s.view.Cells()
	for y := cells.Min.Y; y < cells.Max.Y; y++ {
		for x := cells.Min.X; x < cells.Max.X; x++ {
			tile := grid.C(x, y)
			sx, sy, _ := s.view.ToScreen(tile)
			switch {
			case !m.Inside(tile):
				dst.SetColored(sx, sy, glyphOutside, s.theme.Dim)
			case m.Occupied(tile) && s.world.AgentAt(tile) == nil:
				dst.SetColored(sx, sy, glyphWall, s.theme.Wall)
			default:
				dst.SetColored(sx, sy, glyphFree, s.theme.Floor)
			}
		}
	}

	if s.selecting {
		s.drawSelection(dst)
	}

	for _, a := range s.world.Selected() {
		for _, c := range a.Dest.Ahead() {
			s.put(dst, c, glyphPath, s.theme.Path)
		}
		if a.State != agent.Arrived {
			s.put(dst, a.Dest.Finish, glyphFinish, s.theme.Target)
		}
	}

	for _, a := range s.world.Agents {
		s.put(dst, a.Tile, a.Kind.Glyph, s.agentColor(a))
	}

	s.put(dst, s.cursor, glyphCursor, s.theme.Cursor)
	scenes.DrawFooter(dst, s.state.Status, s.theme.Dim)
}

func (s *Scene) drawSelection(dst *core.Screen) {
	r := grid.RectBetween(s.anchor, s.cursor)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if x == r.Min.X || y == r.Min.Y || x == r.Max.X-1 || y == r.Max.Y-1 {
				s.put(dst, grid.C(x, y), glyphAnchor, s.theme.Selected)
			}
		}
	}
}

func (s *Scene) agentColor(a *agent.Agent) core.Color {
	switch {
	case s.world.IsSelected(a):
		return s.theme.Selected
	case a.State == agent.Stuck:
		return s.theme.Stuck
	default:
		return s.theme.Agent
	}
}

func (s *Scene) put(dst *core.Screen, tile grid.Cell, r rune, c core.Color) {
	if x, y, ok := s.view.ToScreen(tile); ok {
		dst.SetColored(x, y, r, c)
	}
}
