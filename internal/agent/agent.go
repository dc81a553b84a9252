// Package agent implements per-agent path following over an occupancy map.
//
// An Agent is plain state. Move advances it by one tick: it steps onto the
// next waypoint when that tile can be acquired, and otherwise trims its path,
// replans with a bounded A* search, or gives up once its retry budget is
// spent. Agents updated one after another in the same tick see each other's
// acquisitions immediately, so tile contention is first come, first served.
package agent

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-pathgrid/internal/grid"
	"github.com/vovakirdan/tui-pathgrid/internal/search"
)

// Defaults for the retry budget and the per-replan search cap.
const (
	DefaultMaxTries = 20
	DefaultMaxIter  = 128
)

// ErrTileTaken is returned when spawning onto a tile that is not free.
var ErrTileTaken = errors.New("agent: tile is not free")

// State is the outcome of the agent's last tick.
type State string

const (
	// Following means the agent stepped along its path.
	Following State = "following"
	// Blocked means the next tile was taken and the path was shortened.
	Blocked State = "blocked"
	// Replanning means a retry was spent on a new search.
	Replanning State = "replanning"
	// Stuck means the retry budget is empty; only a new order helps.
	Stuck State = "stuck"
	// Arrived means the agent stands on its finish tile.
	Arrived State = "arrived"
)

// States lists every state in display order.
func States() []State {
	return []State{Following, Blocked, Replanning, Stuck, Arrived}
}

// Kind describes an agent variant. Variants differ only in presentation.
type Kind struct {
	Name  string
	Glyph rune
}

// DefaultKind is used when a spawn does not name one.
var DefaultKind = Kind{Name: "tank", Glyph: 'T'}

// Config holds the per-agent limits.
type Config struct {
	MaxTries int
	MaxIter  int
}

func (c Config) normalized() Config {
	if c.MaxTries <= 0 {
		c.MaxTries = DefaultMaxTries
	}
	if c.MaxIter <= 0 {
		c.MaxIter = DefaultMaxIter
	}
	return c
}

// Agent is one mobile unit.
type Agent struct {
	ID     int
	Player int
	Kind   Kind
	Tile   grid.Cell
	Pos    grid.Point
	Dest   Destination
	State  State

	// Replans counts searches run over the agent's lifetime.
	Replans int

	cfg      Config
	searcher *search.Searcher
}

// Spawn places a new agent on tile, acquiring it in m.
func Spawn(m *grid.OccupancyMap, id int, kind Kind, tile grid.Cell, cfg Config) (*Agent, error) {
	if !m.Acquire(tile) {
		return nil, fmt.Errorf("%w: %v", ErrTileTaken, tile)
	}
	if kind.Name == "" {
		kind = DefaultKind
	}
	cfg = cfg.normalized()
	a := &Agent{
		ID:       id,
		Kind:     kind,
		Tile:     tile,
		Pos:      m.TileToWorld(tile),
		State:    Arrived,
		cfg:      cfg,
		searcher: search.NewSearcher(),
	}
	a.Dest.SetFinish(tile, cfg.MaxTries)
	return a, nil
}

// Order sends the agent to target with a full retry budget.
func (a *Agent) Order(target grid.Cell) {
	a.Dest.SetFinish(target, a.cfg.MaxTries)
}

// MaxTries returns the retry budget restored by Order.
func (a *Agent) MaxTries() int {
	return a.cfg.MaxTries
}

// String returns a short description for logs and tables.
func (a *Agent) String() string {
	return fmt.Sprintf("%s#%d@%v", a.Kind.Name, a.ID, a.Tile)
}
