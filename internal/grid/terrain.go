package grid

// Tile symbols used by chunk files.
const (
	SymbolFloor byte = '.'
	SymbolWall  byte = '#'
)

// Terrain is the read contract the search algorithms depend on.
// Both ChunkedGrid and OccupancyMap satisfy it.
type Terrain interface {
	Walkable(c Cell) bool
}

// TerrainFunc adapts a plain function to Terrain.
type TerrainFunc func(c Cell) bool

// Walkable calls f(c).
func (f TerrainFunc) Walkable(c Cell) bool {
	return f(c)
}

// IsMarked reports whether sym is a special tile: neither floor nor wall.
// Marked tiles render distinctly but are not walkable.
func IsMarked(sym byte) bool {
	return sym != SymbolFloor && sym != SymbolWall
}
