package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
	"github.com/mahamantras2024-ux/Study-planner/internal/timer"
)

// Key layout, one namespace per concern. Items and timer state are keyed
// per username; the rest is session bookkeeping shared across users.
const (
	keyItemsPrefix = "items/"
	keyTimerPrefix = "timer/"
	keyUsernames   = "usernames"
	keyActiveUser  = "active_user"
	keyToken       = "token"
)

// Local is the sqlite-backed key-value store.
type Local struct {
	db *sql.DB
}

// OpenLocal opens (or creates) the planner database at dbPath.
func OpenLocal(dbPath string) (*Local, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
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

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &Local{db: db}, nil
}

// OpenMemory creates an in-memory store for testing.
func OpenMemory() (*Local, error) {
	return OpenLocal(":memory:")
}

// DefaultDBPath returns ~/.config/studyplanner/planner.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studyplanner", "planner.db"), nil
}

func (l *Local) Close() error {
	return l.db.Close()
}

func (l *Local) get(key string) (string, bool, error) {
	var value string
	err := l.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get key %q: %w", key, err)
	}
	return value, true, nil
}

func (l *Local) set(key, value string) error {
	_, err := l.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set key %q: %w", key, err)
	}
	return nil
}

// LoadItems returns the saved item list for user. A never-seen username,
// or a value that no longer parses, yields the seeded defaults.
func (l *Local) LoadItems(user string) ([]plan.Item, error) {
	raw, ok, err := l.get(keyItemsPrefix + user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return plan.Seed(), nil
	}

	var items []plan.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return plan.Seed(), nil
	}
	return items, nil
}

func (l *Local) SaveItems(user string, items []plan.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	if err := l.set(keyItemsPrefix+user, string(data)); err != nil {
		return err
	}
	return l.RememberUser(user)
}

// LoadTimer returns the saved timer state for user, or the default idle
// focus state when absent or corrupt.
func (l *Local) LoadTimer(user string) (timer.State, error) {
	raw, ok, err := l.get(keyTimerPrefix + user)
	if err != nil {
		return timer.DefaultState(), err
	}
	if !ok {
		return timer.DefaultState(), nil
	}

	var state timer.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return timer.DefaultState(), nil
	}
	return state, nil
}

func (l *Local) SaveTimer(user string, state timer.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal timer state: %w", err)
	}
	return l.set(keyTimerPrefix+user, string(data))
}

// Usernames lists the locally known usernames.
func (l *Local) Usernames() ([]string, error) {
	raw, ok, err := l.get(keyUsernames)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	return strings.Split(raw, "\n"), nil
}

// RememberUser adds user to the known-username list if absent.
func (l *Local) RememberUser(user string) error {
	users, err := l.Usernames()
	if err != nil {
		return err
	}
	if slices.Contains(users, user) {
		return nil
	}
	users = append(users, user)
	return l.set(keyUsernames, strings.Join(users, "\n"))
}

// ActiveUser returns the username of the last active session, if any.
func (l *Local) ActiveUser() (string, error) {
	user, _, err := l.get(keyActiveUser)
	return user, err
}

func (l *Local) SetActiveUser(user string) error {
	return l.set(keyActiveUser, user)
}

// Token returns the stored auth token (remote mode only), empty when unset.
func (l *Local) Token() (string, error) {
	token, _, err := l.get(keyToken)
	return token, err
}

func (l *Local) SetToken(token string) error {
	return l.set(keyToken, token)
}
