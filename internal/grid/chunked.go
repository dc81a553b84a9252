package grid

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultChunkSize is the side length of a chunk in tiles.
const DefaultChunkSize = 32

// ChunkDesc names the backing data for one chunk.
// Row is the chunk's Y coordinate, Col its X coordinate.
type ChunkDesc struct {
	Row      int
	Col      int
	Filename string
}

// Coord returns the chunk coordinate the description targets.
func (d ChunkDesc) Coord() Cell {
	return C(d.Col, d.Row)
}

// ChunkSource reads the rows of a named chunk.
type ChunkSource interface {
	ReadChunk(name string) ([]string, error)
}

// chunk is a square block of tile symbols in row-major order.
type chunk struct {
	cells []byte
}

func newWallChunk(size int) *chunk {
	cells := make([]byte, size*size)
	for i := range cells {
		cells[i] = SymbolWall
	}
	return &chunk{cells: cells}
}

// ChunkedGrid is a sparse terrain grid over the whole integer plane.
// Chunks are created on first write or load and never evicted.
// Reads from a chunk that does not exist return SymbolWall.
type ChunkedGrid struct {
	size   int
	chunks map[Cell]*chunk
}

// NewChunkedGrid creates an empty grid. Non-positive sizes fall back to
// DefaultChunkSize.
func NewChunkedGrid(size int) *ChunkedGrid {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &ChunkedGrid{
		size:   size,
		chunks: make(map[Cell]*chunk),
	}
}

// ChunkSize returns the chunk side length.
func (g *ChunkedGrid) ChunkSize() int {
	return g.size
}

// Locate splits a tile coordinate into its chunk coordinate and the
// in-chunk offset. Offsets are always in [0, size) for negative inputs too.
func (g *ChunkedGrid) Locate(x, y int) (chunkAt Cell, offset Cell) {
	chunkAt = C(floorDiv(x, g.size), floorDiv(y, g.size))
	offset = C(floorMod(x, g.size), floorMod(y, g.size))
	return chunkAt, offset
}

// lookup is the internal optional access; nil means the chunk is absent.
func (g *ChunkedGrid) lookup(at Cell) *chunk {
	return g.chunks[at]
}

// Get returns the symbol at (x, y).
func (g *ChunkedGrid) Get(x, y int) byte {
	at, off := g.Locate(x, y)
	ch := g.lookup(at)
	if ch == nil {
		return SymbolWall
	}
	return ch.cells[off.Y*g.size+off.X]
}

// At is Get for a Cell.
func (g *ChunkedGrid) At(c Cell) byte {
	return g.Get(c.X, c.Y)
}

// Set writes the symbol at (x, y), creating an all-wall chunk first if needed.
func (g *ChunkedGrid) Set(x, y int, sym byte) {
	at, off := g.Locate(x, y)
	ch := g.lookup(at)
	if ch == nil {
		ch = newWallChunk(g.size)
		g.chunks[at] = ch
	}
	ch.cells[off.Y*g.size+off.X] = sym
}

// Walkable implements Terrain: only floor tiles are walkable.
func (g *ChunkedGrid) Walkable(c Cell) bool {
	return g.Get(c.X, c.Y) == SymbolFloor
}

// HasChunk reports whether the chunk at the given chunk coordinate exists.
func (g *ChunkedGrid) HasChunk(at Cell) bool {
	return g.lookup(at) != nil
}

// ChunkCount returns the number of chunks held.
func (g *ChunkedGrid) ChunkCount() int {
	return len(g.chunks)
}

// Chunks returns the coordinates of all chunks, sorted for determinism.
func (g *ChunkedGrid) Chunks() []Cell {
	out := make([]Cell, 0, len(g.chunks))
	for at := range g.chunks {
		out = append(out, at)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}

// Bounds returns the tile rectangle covered by the existing chunks.
// ok is false when the grid holds no chunks.
func (g *ChunkedGrid) Bounds() (r Rect, ok bool) {
	first := true
	for at := range g.chunks {
		lo := at.Scale(g.size)
		hi := lo.Add(C(g.size, g.size))
		if first {
			r = Rect{Min: lo, Max: hi}
			first = false
			continue
		}
		r.Min.X = min(r.Min.X, lo.X)
		r.Min.Y = min(r.Min.Y, lo.Y)
		r.Max.X = max(r.Max.X, hi.X)
		r.Max.Y = max(r.Max.Y, hi.Y)
	}
	return r, !first
}

// PutChunk stores rows as the chunk at the given chunk coordinate,
// replacing any previous content. Rows are truncated to the chunk size and
// missing cells are filled with walls.
func (g *ChunkedGrid) PutChunk(at Cell, rows []string) {
	ch := newWallChunk(g.size)
	for y := 0; y < g.size && y < len(rows); y++ {
		row := rows[y]
		for x := 0; x < g.size && x < len(row); x++ {
			ch.cells[y*g.size+x] = row[x]
		}
	}
	g.chunks[at] = ch
}

// LoadChunk reads one described chunk from src and stores it.
// On failure the grid is left unchanged.
func (g *ChunkedGrid) LoadChunk(desc ChunkDesc, src ChunkSource) error {
	rows, err := src.ReadChunk(desc.Filename)
	if err != nil {
		return fmt.Errorf("grid: chunk [%d,%d] from %s: %w", desc.Row, desc.Col, desc.Filename, err)
	}
	g.PutChunk(desc.Coord(), rows)
	return nil
}

// Load reads every described chunk in order; a later description for the
// same coordinate overwrites an earlier one. Chunks that fail to load stay
// absent (all wall); their errors are joined and returned while the rest of
// the grid is still populated.
func (g *ChunkedGrid) Load(descs []ChunkDesc, src ChunkSource) error {
	var errs []error
	for _, desc := range descs {
		if err := g.LoadChunk(desc, src); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
