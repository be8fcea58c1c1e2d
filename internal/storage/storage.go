package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"fsim/internal/similarity"
)

// DefaultFileName is the cache side file created inside the scanned directory
const DefaultFileName = ".fsimcache"

// Storage persists bigram multisets keyed by compare name
type Storage struct {
	db     *sql.DB
	dbPath string
}

// Stats summarizes cache contents
type Stats struct {
	Names   int
	Bigrams int
	Size    int64
}

// NewStorage opens or creates the cache database at dbPath
func NewStorage(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Storage{db: db, dbPath: dbPath}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Recreate removes whatever is at dbPath and opens a fresh cache
func Recreate(dbPath string) (*Storage, error) {
	for _, p := range []string{dbPath, dbPath + "-journal", dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return NewStorage(dbPath)
}

// Current schema version
const schemaVersion = 2

// migrations defines all schema migrations
// Each migration should be idempotent (safe to run multiple times)
var migrations = []struct {
	version     int
	description string
	up          string
}{
	{
		version:     1,
		description: "Initial schema",
		up:          "", // Handled by base schema creation
	},
	{
		version:     2,
		description: "Index bigrams by name",
		up:          `CREATE INDEX IF NOT EXISTS idx_bigrams_name ON bigrams(name);`,
	},
}

// init creates the database schema
func (s *Storage) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	_, err = s.db.Exec(`
	CREATE TABLE IF NOT EXISTS bigrams (
		name TEXT NOT NULL,
		bigram TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (name, bigram)
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := s.migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// migrate runs pending schema migrations
func (s *Storage) migrate() error {
	currentVersion := s.getSchemaVersion()

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if m.up != "" {
			if _, err := s.db.Exec(m.up); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
			}
		}
		if err := s.setSchemaVersion(m.version); err != nil {
			return err
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version
func (s *Storage) getSchemaVersion() int {
	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0
	}
	return version
}

// setSchemaVersion records a migration as applied
func (s *Storage) setSchemaVersion(version int) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, version)
	if err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// LoadInto reads every cached multiset into idx and returns how many names were loaded
func (s *Storage) LoadInto(idx *similarity.BigramIndex) (int, error) {
	rows, err := s.db.Query(`SELECT name, bigram, count FROM bigrams ORDER BY name`)
	if err != nil {
		return 0, fmt.Errorf("failed to query bigrams: %w", err)
	}
	defer rows.Close()

	loaded := make(map[string]similarity.Bigrams)
	for rows.Next() {
		var name, gram string
		var count int
		if err := rows.Scan(&name, &gram, &count); err != nil {
			return 0, fmt.Errorf("failed to scan row: %w", err)
		}
		b, ok := loaded[name]
		if !ok {
			b = make(similarity.Bigrams)
			loaded[name] = b
		}
		b[gram] = count
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read bigrams: %w", err)
	}

	for name, b := range loaded {
		idx.Put(name, b)
	}
	return len(loaded), nil
}

// Save writes the entries idx computed since it was loaded
func (s *Storage) Save(idx *similarity.BigramIndex) (int, error) {
	added := idx.Added()
	if len(added) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO bigrams (name, bigram, count) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for name, b := range added {
		for gram, count := range b {
			if _, err := stmt.Exec(name, gram, count); err != nil {
				return 0, fmt.Errorf("failed to insert bigrams for %q: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	idx.MarkPersisted()
	return len(added), nil
}

// Stats returns entry counts and the file size
func (s *Storage) Stats() (Stats, error) {
	var st Stats
	err := s.db.QueryRow(`SELECT COUNT(DISTINCT name), COUNT(*) FROM bigrams`).Scan(&st.Names, &st.Bigrams)
	if err != nil {
		return st, fmt.Errorf("failed to count bigrams: %w", err)
	}
	if info, err := os.Stat(s.dbPath); err == nil {
		st.Size = info.Size()
	}
	return st, nil
}
