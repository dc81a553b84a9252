package mapfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pathgrid/internal/grid"
)

// Map is a loaded description together with its terrain.
type Map struct {
	Desc Description
	Grid *grid.ChunkedGrid

	// LoadErr joins the chunk files that could not be read. Those chunks
	// read as wall.
	LoadErr error
}

// Loader handles loading map descriptions from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new map loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all description files.
// Returns descriptions sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Description, error) {
	var descs []Description

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		desc, err := LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}

		descs = append(descs, desc)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(descs, func(i, j int) bool {
		return descs[i].ID < descs[j].ID
	})

	return descs, nil
}

// LoadByID loads a specific description by ID.
func (l *Loader) LoadByID(id string) (Description, error) {
	descs, err := l.LoadAll()
	if err != nil {
		return Description{}, err
	}

	for _, d := range descs {
		if d.ID == id {
			return d, nil
		}
	}

	return Description{}, fmt.Errorf("map not found: %s", id)
}

// LoadFile loads a single description file. The ID defaults to the file
// name without extension.
func LoadFile(path string) (Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Description{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	desc, err := parseByExtension(data, ext)
	if err != nil {
		return Description{}, fmt.Errorf("parsing file %s: %w", path, err)
	}

	desc.FilePath = path
	if desc.ID == "" {
		desc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return desc, nil
}

// Build loads every chunk of desc into a new grid. Unreadable chunks are
// logged, left absent and joined into the returned error; the grid is
// usable either way.
func Build(desc Description, chunkSize int, logger *log.Logger) (*grid.ChunkedGrid, error) {
	if logger == nil {
		logger = log.Default()
	}
	if desc.ChunkSize > 0 {
		chunkSize = desc.ChunkSize
	}

	g := grid.NewChunkedGrid(chunkSize)
	src := DirSource{Dir: desc.Dir()}

	var errs []error
	for _, c := range desc.Chunks {
		if err := g.LoadChunk(c, src); err != nil {
			logger.Warn("chunk unavailable, reading as wall",
				"row", c.Row, "col", c.Col, "file", c.Filename, "err", err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("chunk loaded", "row", c.Row, "col", c.Col, "file", c.Filename)
	}
	return g, errors.Join(errs...)
}

// Open loads a description and builds its grid. Only a missing or
// malformed description is an error.
func Open(path string, chunkSize int, logger *log.Logger) (*Map, error) {
	desc, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapfile: %w", err)
	}
	g, loadErr := Build(desc, chunkSize, logger)
	return &Map{Desc: desc, Grid: g, LoadErr: loadErr}, nil
}

// Reload re-reads every chunk backed by the file at path. It returns the
// chunks that were replaced. A chunk whose file cannot be read keeps its
// current contents.
func (m *Map) Reload(path string, logger *log.Logger) ([]grid.ChunkDesc, error) {
	if logger == nil {
		logger = log.Default()
	}
	target := filepath.Clean(path)
	src := DirSource{Dir: m.Desc.Dir()}

	var (
		reloaded []grid.ChunkDesc
		errs     []error
	)
	for p, chunks := range m.Desc.ChunksByPath() {
		if !samePath(p, target) {
			continue
		}
		for _, c := range chunks {
			if err := m.Grid.LoadChunk(c, src); err != nil {
				logger.Warn("chunk reload failed, keeping previous contents",
					"row", c.Row, "col", c.Col, "file", c.Filename, "err", err)
				errs = append(errs, err)
				continue
			}
			logger.Info("chunk reloaded", "row", c.Row, "col", c.Col, "file", c.Filename)
			reloaded = append(reloaded, c)
		}
	}
	return reloaded, errors.Join(errs...)
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
