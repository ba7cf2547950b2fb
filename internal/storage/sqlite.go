// Package storage provides SQLite-based persistence for saved games and
// solve history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/hidden-marble/internal/maze"
	"github.com/vovakirdan/hidden-marble/internal/world"
)

// Errors returned by LoadGame.
var (
	ErrNoSave      = errors.New("storage: no saved game")
	ErrCorruptSave = errors.New("storage: saved maze does not match its checksum")
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Solve is one completed maze.
type Solve struct {
	ID          int64
	SaveID      string
	Size        string
	Steps       int
	Hits        int
	Duration    time.Duration
	Fingerprint uint64
	CreatedAt   time.Time
}

// SizeStats aggregates the solves of one maze size.
type SizeStats struct {
	Size       string
	Solves     int
	BestSteps  int
	AvgSteps   float64
	LastSolved time.Time
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
		CREATE TABLE IF NOT EXISTS saves (
			id TEXT PRIMARY KEY,
			slot TEXT NOT NULL UNIQUE,
			maze TEXT NOT NULL,
			checksum INTEGER NOT NULL,
			start_x INTEGER NOT NULL,
			start_y INTEGER NOT NULL,
			exit_x INTEGER NOT NULL,
			exit_y INTEGER NOT NULL,
			world_width REAL NOT NULL,
			world_height REAL NOT NULL,
			marble_x REAL NOT NULL,
			marble_y REAL NOT NULL,
			velocity_x REAL NOT NULL DEFAULT 0,
			velocity_y REAL NOT NULL DEFAULT 0,
			in_maze INTEGER NOT NULL DEFAULT 0,
			rolling INTEGER NOT NULL DEFAULT 0,
			solved INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			save_id TEXT NOT NULL,
			size TEXT NOT NULL,
			steps INTEGER NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			fingerprint INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_solves_size ON solves(size, steps);
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

// SaveGame stores st under slot, replacing any previous save there. The save
// keeps its ID across overwrites. Returns the save ID.
func (s *Store) SaveGame(slot string, st world.State) (string, error) {
	if st.Maze.Maze == nil {
		return "", fmt.Errorf("storage: cannot save game: state has no maze")
	}

	id, err := s.saveID(slot)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	text := maze.Format(st.Maze.Maze)
	_, err = s.db.Exec(
		`INSERT INTO saves
		 (id, slot, maze, checksum, start_x, start_y, exit_x, exit_y, world_width, world_height,
		  marble_x, marble_y, velocity_x, velocity_y, in_maze, rolling, solved, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		  maze = excluded.maze, checksum = excluded.checksum,
		  start_x = excluded.start_x, start_y = excluded.start_y,
		  exit_x = excluded.exit_x, exit_y = excluded.exit_y,
		  world_width = excluded.world_width, world_height = excluded.world_height,
		  marble_x = excluded.marble_x, marble_y = excluded.marble_y,
		  velocity_x = excluded.velocity_x, velocity_y = excluded.velocity_y,
		  in_maze = excluded.in_maze, rolling = excluded.rolling, solved = excluded.solved,
		  updated_at = CURRENT_TIMESTAMP`,
		id, slot, text, checksum(text),
		st.Maze.Start.X, st.Maze.Start.Y, st.Maze.Exit.X, st.Maze.Exit.Y,
		st.Width, st.Height,
		st.MarblePosition.X, st.MarblePosition.Y,
		st.MarbleVelocity.X, st.MarbleVelocity.Y,
		st.InMaze, st.Rolling, st.Solved,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save game: %w", err)
	}
	return id, nil
}

func (s *Store) saveID(slot string) (string, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM saves WHERE slot = ?", slot).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage: cannot query save: %w", err)
	}
	return id, nil
}

// LoadGame returns the save stored under slot and its ID.
// Returns ErrNoSave if the slot is empty.
func (s *Store) LoadGame(slot string) (world.State, string, error) {
	var (
		st    world.State
		id    string
		text  string
		sum   int64
		start maze.Position
		exit  maze.Position
	)
	err := s.db.QueryRow(
		`SELECT id, maze, checksum, start_x, start_y, exit_x, exit_y, world_width, world_height,
		        marble_x, marble_y, velocity_x, velocity_y, in_maze, rolling, solved
		 FROM saves WHERE slot = ?`,
		slot,
	).Scan(
		&id, &text, &sum,
		&start.X, &start.Y, &exit.X, &exit.Y,
		&st.Width, &st.Height,
		&st.MarblePosition.X, &st.MarblePosition.Y,
		&st.MarbleVelocity.X, &st.MarbleVelocity.Y,
		&st.InMaze, &st.Rolling, &st.Solved,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return world.State{}, "", fmt.Errorf("storage: slot %q: %w", slot, ErrNoSave)
	}
	if err != nil {
		return world.State{}, "", fmt.Errorf("storage: cannot load game: %w", err)
	}

	if checksum(text) != sum {
		return world.State{}, "", fmt.Errorf("storage: slot %q: %w", slot, ErrCorruptSave)
	}
	grid, err := maze.ParseGrid(text)
	if err != nil {
		return world.State{}, "", fmt.Errorf("storage: slot %q: %w", slot, err)
	}
	st.Maze = maze.Def{Maze: grid, Start: start, Exit: exit}
	return st, id, nil
}

// EraseGame deletes the save in slot. Erasing an empty slot is not an error.
func (s *Store) EraseGame(slot string) error {
	if _, err := s.db.Exec("DELETE FROM saves WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot erase game: %w", err)
	}
	return nil
}

// RecordSolve stores a completed maze. Returns the ID of the inserted record.
func (s *Store) RecordSolve(r Solve) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO solves (save_id, size, steps, hits, duration_ms, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.SaveID, r.Size, r.Steps, r.Hits, r.Duration.Milliseconds(), int64(r.Fingerprint),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record solve: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Solves returns the most recent solves, newest first.
func (s *Store) Solves(limit int) ([]Solve, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, save_id, size, steps, hits, duration_ms, fingerprint, created_at
		 FROM solves
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	defer rows.Close()

	var solves []Solve
	for rows.Next() {
		var (
			r          Solve
			durationMS int64
			fp         int64
			createdAt  any
		)
		if err := rows.Scan(&r.ID, &r.SaveID, &r.Size, &r.Steps, &r.Hits, &durationMS, &fp, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.Fingerprint = uint64(fp)
		r.CreatedAt = parseTime(createdAt)
		solves = append(solves, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return solves, nil
}

// Stats aggregates solves per maze size.
func (s *Store) Stats() (map[string]*SizeStats, error) {
	rows, err := s.db.Query(
		`SELECT size, COUNT(*), MIN(steps), AVG(steps), MAX(created_at)
		 FROM solves
		 GROUP BY size`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get solve stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SizeStats)
	for rows.Next() {
		var st SizeStats
		var lastSolved any
		if err := rows.Scan(&st.Size, &st.Solves, &st.BestSteps, &st.AvgSteps, &lastSolved); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastSolved = parseTime(lastSolved)
		stats[st.Size] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime handles both time.Time and string datetime columns.
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

func checksum(text string) int64 {
	return int64(xxhash.Sum64String(text))
}
