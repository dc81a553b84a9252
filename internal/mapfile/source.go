package mapfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSource reads chunk files relative to a directory.
type DirSource struct {
	Dir string
}

// ReadChunk implements grid.ChunkSource.
func (s DirSource) ReadChunk(name string) ([]string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, name)
	}
	return ReadRows(path)
}

// ReadRows returns the lines of a chunk file without line terminators.
func ReadRows(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		rows = append(rows, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}
