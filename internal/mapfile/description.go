// Package mapfile reads map descriptions and their chunk files into a
// grid.ChunkedGrid, and watches chunk files for changes.
//
// A description lists chunks as {row, col, filename}: row is the chunk Y
// coordinate and col the chunk X coordinate. Each chunk file holds one
// line per tile row. Relative filenames resolve against the directory of
// the description.
package mapfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-pathgrid/internal/grid"
)

// ErrNoChunks is returned for a description without chunks.
var ErrNoChunks = errors.New("mapfile: description lists no chunks")

// Description is a parsed map description.
type Description struct {
	ID        string
	Name      string
	ChunkSize int // 0 = use the configured size
	Chunks    []grid.ChunkDesc
	Spawn     []grid.Cell
	FilePath  string
}

// Dir returns the directory chunk filenames are resolved against.
func (d Description) Dir() string {
	if d.FilePath == "" {
		return "."
	}
	return filepath.Dir(d.FilePath)
}

// Title returns Name, or ID when the name is empty.
func (d Description) Title() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// ChunkPath returns the cleaned path of a chunk file.
func (d Description) ChunkPath(c grid.ChunkDesc) string {
	if filepath.IsAbs(c.Filename) {
		return filepath.Clean(c.Filename)
	}
	return filepath.Join(d.Dir(), c.Filename)
}

// ChunksByPath groups chunk entries by resolved file path. One file may
// back several chunks.
func (d Description) ChunksByPath() map[string][]grid.ChunkDesc {
	out := make(map[string][]grid.ChunkDesc)
	for _, c := range d.Chunks {
		p := d.ChunkPath(c)
		out[p] = append(out[p], c)
	}
	return out
}

// fileDescription is the on-disk structure shared by YAML and JSON.
type fileDescription struct {
	ID        string      `yaml:"id" json:"id"`
	Name      string      `yaml:"name" json:"name"`
	ChunkSize int         `yaml:"chunk_size,omitempty" json:"chunk_size,omitempty"`
	Chunks    []fileChunk `yaml:"chunks" json:"chunks"`
	Spawn     []fileCell  `yaml:"spawn,omitempty" json:"spawn,omitempty"`
}

type fileChunk struct {
	Row      int    `yaml:"row" json:"row"`
	Col      int    `yaml:"col" json:"col"`
	Filename string `yaml:"filename" json:"filename"`
}

type fileCell struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// ParseYAML parses a YAML description.
func ParseYAML(data []byte) (Description, error) {
	var fd fileDescription
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return Description{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return fd.build()
}

// ParseJSON parses a JSON description.
func ParseJSON(data []byte) (Description, error) {
	var fd fileDescription
	if err := json.Unmarshal(data, &fd); err != nil {
		return Description{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return fd.build()
}

func (fd fileDescription) build() (Description, error) {
	if len(fd.Chunks) == 0 {
		return Description{}, ErrNoChunks
	}
	if fd.ChunkSize < 0 {
		return Description{}, fmt.Errorf("mapfile: negative chunk_size %d", fd.ChunkSize)
	}

	d := Description{
		ID:        fd.ID,
		Name:      fd.Name,
		ChunkSize: fd.ChunkSize,
		Chunks:    make([]grid.ChunkDesc, 0, len(fd.Chunks)),
	}
	for i, c := range fd.Chunks {
		if strings.TrimSpace(c.Filename) == "" {
			return Description{}, fmt.Errorf("mapfile: chunk %d [%d,%d] has no filename", i, c.Row, c.Col)
		}
		d.Chunks = append(d.Chunks, grid.ChunkDesc{Row: c.Row, Col: c.Col, Filename: c.Filename})
	}
	for _, s := range fd.Spawn {
		d.Spawn = append(d.Spawn, grid.C(s.X, s.Y))
	}
	return d, nil
}

// FormatExtensions returns supported description file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (Description, error) {
	switch ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return Description{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
