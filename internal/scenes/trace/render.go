package trace

import (
	"github.com/vovakirdan/tui-pathgrid/internal/core"
	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/scenes"
	"github.com/vovakirdan/tui-pathgrid/internal/search"
)

// Glyphs used by the trace view.
const (
	GlyphVisited  = ':'
	GlyphOpen     = '+'
	GlyphBatch    = 'o'
	GlyphPath     = '*'
	GlyphStart    = 'S'
	GlyphTarget   = 'G'
	GlyphCursor   = '@'
	GlyphUnloaded = ' '
)

// Render draws the header, the visible part of the map and the status line.
func (s *Scene) Render(dst *core.Screen) {
	if s.terr == nil {
		return
	}
	title := s.Title()
	if s.env.Map != nil {
		title += " - " + s.env.Map.Desc.Title()
	}
	dst.DrawTextColored(0, 0, title, s.theme.Text)

	cells := s.view.Cells()
	for y := cells.Min.Y; y < cells.Max.Y; y++ {
		for x := cells.Min.X; x < cells.Max.X; x++ {
			c := grid.C(x, y)
			sx, sy, ok := s.view.ToScreen(c)
			if !ok {
				continue
			}
			r, col := s.glyph(c)
			dst.SetColored(sx, sy, r, col)
		}
	}

	scenes.DrawFooter(dst, s.state.Status, s.theme.Dim)
}

// glyph decides what one cell looks like. Later layers win: terrain,
// trace, path, endpoints, cursor.
func (s *Scene) glyph(c grid.Cell) (rune, core.Color) {
	at, _ := s.terr.Locate(c.X, c.Y)
	if !s.terr.HasChunk(at) {
		r, col := rune(GlyphUnloaded), s.theme.Dim
		if c == s.cursor {
			r, col = GlyphCursor, s.theme.Cursor
		}
		return r, col
	}

	sym := s.terr.At(c)
	r, col := rune(sym), s.theme.Floor
	switch {
	case sym == grid.SymbolWall:
		col = s.theme.Wall
	case grid.IsMarked(sym):
		col = s.theme.Marked
	}

	switch {
	case s.batch[c]:
		r, col = GlyphBatch, s.theme.Frontier
	case s.open[c]:
		r, col = GlyphOpen, s.theme.Frontier
	case s.visited[c]:
		r, col = GlyphVisited, s.theme.Visited
	}
	if s.onPath[c] {
		r, col = GlyphPath, s.theme.Path
	}
	if c == s.start {
		r, col = GlyphStart, s.theme.Start
	}
	if s.hasTarget && c == s.target && s.algo != search.FloodFill {
		r, col = GlyphTarget, s.theme.Target
	}
	if c == s.cursor {
		r, col = GlyphCursor, s.theme.Cursor
	}
	return r, col
}
