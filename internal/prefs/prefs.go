// Package prefs persists client-local view preferences in a small sqlite
// settings table. The backend never sees any of this.
package prefs

import (
	"database/sql"
	"encoding/json"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cone387/ttask/internal/view"
)

//go:embed schema.sql
var schema string

// ViewType selects how the task page renders
type ViewType string

const (
	ViewList     ViewType = "list"
	ViewKanban   ViewType = "kanban"
	ViewTimeline ViewType = "timeline"
)

// Preferences is the typed view state owned by the engine: everything the
// user configured about how tasks are displayed. Loaded once at startup,
// saved through the explicit Save boundary; no reads or writes are
// scattered through the UI layer.
type Preferences struct {
	ViewType      ViewType        `json:"view_type"`
	GroupBy       view.GroupBy    `json:"group_by"`
	SortBy        view.SortBy     `json:"sort_by"`
	SortOrder     view.SortOrder  `json:"sort_order"`
	VisibleFields []string        `json:"visible_fields"`
	Collapsed     map[string]bool `json:"collapsed_groups"`
	Groups        []string        `json:"custom_groups"`
}

// Defaults is the preference state on first use
func Defaults() Preferences {
	return Preferences{
		ViewType:      ViewList,
		GroupBy:       view.GroupNone,
		SortBy:        view.SortManual,
		SortOrder:     view.OrderAsc,
		VisibleFields: []string{"priority", "due_date", "project", "tags"},
		Collapsed:     map[string]bool{},
	}
}

// fixed slot keys
const (
	slotPreferences = "preferences"
	slotSession     = "session"
	slotLastProject = "last_project_id"
)

// Store wraps the settings database
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the settings database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init settings schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultPath returns the settings database location under the XDG data
// directory, creating the app directory if needed.
func DefaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	appDir := filepath.Join(dataDir, "ttask")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "ttask.db"), nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Load returns the saved preferences. A missing or unreadable slot falls
// back to defaults; there is no versioning or migration.
func (s *Store) Load() Preferences {
	p := Defaults()
	raw, err := s.get(slotPreferences)
	if err != nil || raw == "" {
		return p
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Defaults()
	}
	if p.Collapsed == nil {
		p.Collapsed = map[string]bool{}
	}
	return p
}

// Save persists the full preference state as one JSON slot.
func (s *Store) Save(p Preferences) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.set(slotPreferences, string(raw)); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Session stores serialized auth tokens between runs.
func (s *Store) Session() string {
	raw, err := s.get(slotSession)
	if err != nil {
		return ""
	}
	return raw
}

func (s *Store) SaveSession(raw string) error {
	if err := s.set(slotSession, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) ClearSession() error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", slotSession)
	return err
}

// LastProjectID remembers the project the user last had open; 0 means the
// inbox.
func (s *Store) LastProjectID() int64 {
	raw, err := s.get(slotLastProject)
	if err != nil || raw == "" {
		return 0
	}
	var id int64
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return 0
	}
	return id
}

func (s *Store) SaveLastProjectID(id int64) error {
	return s.set(slotLastProject, fmt.Sprintf("%d", id))
}
