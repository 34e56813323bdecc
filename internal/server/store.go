package server

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a username has no account.
var ErrNotFound = errors.New("not found")

// Store is the server-side sqlite storage: accounts plus one module-list
// payload per user, stored as the raw JSON the client sends.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the sync database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS modules (
		username   TEXT PRIMARY KEY REFERENCES users(username),
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// NewMemoryStore creates an in-memory store for testing.
func NewMemoryStore() (*Store, error) {
	return NewStore(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateUser(username, passwordHash string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, now,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) PasswordHash(username string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE username = ?`, username).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get user %q: %w", username, err)
	}
	return hash, nil
}

// Modules returns the stored payload for username; ok is false when the
// user has never saved.
func (s *Store) Modules(username string) (payload string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT payload FROM modules WHERE username = ?`, username).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get modules for %q: %w", username, err)
	}
	return payload, true, nil
}

// PutModules replaces the stored payload for username.
func (s *Store) PutModules(username, payload string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO modules (username, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		username, payload, now,
	)
	if err != nil {
		return fmt.Errorf("put modules for %q: %w", username, err)
	}
	return nil
}
