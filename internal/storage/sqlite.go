// Package storage provides SQLite-based persistence for search and
// simulation run history. Only metrics are stored, never path cells.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is the run database used when no --db flag is given.
const DefaultPath = "~/.pathgrid/runs.db"

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one recorded search.
type Run struct {
	ID        int64
	Algorithm string
	MapID     string
	Source    string // "viewer", "cli" or "ssh"
	StartX    int
	StartY    int
	TargetX   int
	TargetY   int
	Expanded  int
	PathLen   int
	Cost      int
	Reached   bool
	Truncated bool
	Elapsed   time.Duration
	CreatedAt time.Time
}

// SimRun is one recorded simulation.
type SimRun struct {
	ID        int64
	MapID     string
	Agents    int
	Ticks     int
	Arrived   int
	Stuck     int
	Replans   int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			algorithm TEXT NOT NULL,
			map_id TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			start_x INTEGER NOT NULL,
			start_y INTEGER NOT NULL,
			target_x INTEGER NOT NULL,
			target_y INTEGER NOT NULL,
			expanded INTEGER NOT NULL,
			path_len INTEGER NOT NULL,
			cost INTEGER NOT NULL,
			reached INTEGER NOT NULL,
			truncated INTEGER NOT NULL DEFAULT 0,
			elapsed_us INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON runs(algorithm);
		CREATE INDEX IF NOT EXISTS idx_runs_map ON runs(map_id, algorithm);

		CREATE TABLE IF NOT EXISTS sim_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			map_id TEXT NOT NULL,
			agents INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			arrived INTEGER NOT NULL,
			stuck INTEGER NOT NULL,
			replans INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sim_runs_map ON sim_runs(map_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a search run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (algorithm, map_id, source, start_x, start_y, target_x, target_y,
		  expanded, path_len, cost, reached, truncated, elapsed_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Algorithm, r.MapID, r.Source,
		r.StartX, r.StartY, r.TargetX, r.TargetY,
		r.Expanded, r.PathLen, r.Cost,
		boolInt(r.Reached), boolInt(r.Truncated), r.Elapsed.Microseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, algorithm, map_id, source, start_x, start_y, target_x, target_y,
	expanded, path_len, cost, reached, truncated, elapsed_us, created_at`

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RunsForMap retrieves the most recent runs on one map, newest first.
func (s *Store) RunsForMap(mapID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE map_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		mapID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                  Run
			reached, truncated int
			elapsedUS          int64
			createdAt          any
		)
		if err := rows.Scan(
			&r.ID, &r.Algorithm, &r.MapID, &r.Source,
			&r.StartX, &r.StartY, &r.TargetX, &r.TargetY,
			&r.Expanded, &r.PathLen, &r.Cost,
			&reached, &truncated, &elapsedUS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Reached = reached != 0
		r.Truncated = truncated != 0
		r.Elapsed = time.Duration(elapsedUS) * time.Microsecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes every run recorded for a map.
func (s *Store) ClearRuns(mapID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE map_id = ?", mapID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// AlgorithmStats contains aggregated metrics for one algorithm.
type AlgorithmStats struct {
	Algorithm   string
	Runs        int
	Reached     int
	AvgExpanded float64
	AvgCost     float64 // over reached runs
	AvgElapsed  time.Duration
	LastRun     time.Time
}

// ReachRate returns the fraction of runs that reached their target.
func (a AlgorithmStats) ReachRate() float64 {
	if a.Runs == 0 {
		return 0
	}
	return float64(a.Reached) / float64(a.Runs)
}

// GetAlgorithmStats retrieves aggregated metrics per algorithm.
func (s *Store) GetAlgorithmStats() (map[string]*AlgorithmStats, error) {
	rows, err := s.db.Query(
		`SELECT algorithm, COUNT(*), COALESCE(SUM(reached), 0), AVG(expanded),
		        COALESCE(AVG(CASE WHEN reached = 1 THEN cost END), 0),
		        AVG(elapsed_us), MAX(created_at)
		 FROM runs
		 GROUP BY algorithm`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get algorithm stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*AlgorithmStats)
	for rows.Next() {
		var (
			a         AlgorithmStats
			avgUS     float64
			lastRunAt any
		)
		if err := rows.Scan(&a.Algorithm, &a.Runs, &a.Reached, &a.AvgExpanded, &a.AvgCost, &avgUS, &lastRunAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		a.AvgElapsed = time.Duration(avgUS * float64(time.Microsecond))
		a.LastRun = parseTime(lastRunAt)
		stats[a.Algorithm] = &a
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// SaveSimRun records the outcome of a simulation.
// Returns the ID of the inserted record.
func (s *Store) SaveSimRun(r SimRun) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sim_runs (map_id, agents, ticks, arrived, stuck, replans)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.MapID, r.Agents, r.Ticks, r.Arrived, r.Stuck, r.Replans,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save simulation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SimRunByID retrieves a simulation record. It returns nil when no such
// record exists.
func (s *Store) SimRunByID(id int64) (*SimRun, error) {
	var (
		r         SimRun
		createdAt any
	)
	err := s.db.QueryRow(
		`SELECT id, map_id, agents, ticks, arrived, stuck, replans, created_at
		 FROM sim_runs
		 WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.MapID, &r.Agents, &r.Ticks, &r.Arrived, &r.Stuck, &r.Replans, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query simulation: %w", err)
	}

	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// RecentSimRuns retrieves the most recent simulations, newest first.
func (s *Store) RecentSimRuns(limit int) ([]SimRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, map_id, agents, ticks, arrived, stuck, replans, created_at
		 FROM sim_runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query simulations: %w", err)
	}
	defer rows.Close()

	var out []SimRun
	for rows.Next() {
		var (
			r         SimRun
			createdAt any
		)
		if err := rows.Scan(&r.ID, &r.MapID, &r.Agents, &r.Ticks, &r.Arrived, &r.Stuck, &r.Replans, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
