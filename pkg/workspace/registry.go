package workspace

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-udon/pkg/expr"
)

// Registry manages workspace registration and detection
type Registry struct {
	db      *sql.DB
	dataDir string

	// Logger receives non-fatal bookkeeping failures. Nil discards them.
	Logger logrus.FieldLogger
}

// NewRegistry creates a new workspace registry
func NewRegistry(dataDir string) (*Registry, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "workspaces.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	r := &Registry{
		db:      db,
		dataDir: dataDir,
	}

	if err := r.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize registry: %w", err)
	}

	return r, nil
}

// init creates the database schema
func (r *Registry) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workspaces (
		name TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		type TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_workspaces_path ON workspaces(path);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Add registers a workspace, replacing one with the same name
func (r *Registry) Add(w *Workspace) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("validate workspace: %w", err)
	}

	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve workspace path: %w", err)
	}
	w.Path = abs

	query := `
	INSERT OR REPLACE INTO workspaces (name, path, type, created_at, last_used)
	VALUES (?, ?, ?, ?, ?)
	`

	now := time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.LastUsed = now
	_, err = r.db.Exec(query, w.Name, w.Path, w.Type, w.CreatedAt, w.LastUsed)
	return err
}

// Get retrieves a workspace by name
func (r *Registry) Get(name string) (*Workspace, error) {
	query := `
	SELECT name, path, type, created_at, last_used
	FROM workspaces WHERE name = ?
	`

	w := &Workspace{}
	err := r.db.QueryRow(query, name).Scan(&w.Name, &w.Path, &w.Type, &w.CreatedAt, &w.LastUsed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("workspace not found: %s", name)
	}
	if err != nil {
		return nil, err
	}

	return w, nil
}

// List returns all registered workspaces, most recently used first
func (r *Registry) List() ([]*Workspace, error) {
	query := `
	SELECT name, path, type, created_at, last_used
	FROM workspaces ORDER BY last_used DESC, name ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*Workspace
	for rows.Next() {
		w := &Workspace{}
		if err := rows.Scan(&w.Name, &w.Path, &w.Type, &w.CreatedAt, &w.LastUsed); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, w)
	}

	return workspaces, rows.Err()
}

// FindByPath finds the most specific workspace that contains the given path
func (r *Registry) FindByPath(path string) (*Workspace, error) {
	workspaces, err := r.List()
	if err != nil {
		return nil, err
	}

	var bestMatch *Workspace
	bestMatchLen := 0
	for _, w := range workspaces {
		if w.Contains(path) && len(w.Path) > bestMatchLen {
			bestMatch = w
			bestMatchLen = len(w.Path)
		}
	}

	if bestMatch != nil {
		if err := r.updateLastUsed(bestMatch.Name); err != nil && r.Logger != nil {
			// Log error but don't fail the detection
			r.Logger.WithError(err).WithField("workspace", bestMatch.Name).Warn("Failed to update last used")
		}
	}

	return bestMatch, nil
}

// AutoRegister registers a git repository as a workspace named after its
// directory
func (r *Registry) AutoRegister(path string) (*Workspace, error) {
	name := filepath.Base(path)

	if w, err := r.Get(name); err == nil {
		if w.Path == path {
			return w, nil
		}
		// The name is taken by another root; use the repository unregistered.
		return &Workspace{Name: name, Path: path, Type: TypeGitRepo}, nil
	}

	w := &Workspace{
		Name: name,
		Path: path,
		Type: TypeGitRepo,
	}

	if err := r.Add(w); err != nil {
		return nil, fmt.Errorf("auto-register workspace: %w", err)
	}

	return w, nil
}

// Remove removes a workspace from the registry
func (r *Registry) Remove(name string) error {
	res, err := r.db.Exec("DELETE FROM workspaces WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("workspace not found: %s", name)
	}
	return nil
}

// updateLastUsed updates the last used timestamp for a workspace
func (r *Registry) updateLastUsed(name string) error {
	_, err := r.db.Exec(
		"UPDATE workspaces SET last_used = ? WHERE name = ?",
		time.Now(), name,
	)
	return err
}

// Close closes the registry database
func (r *Registry) Close() error {
	return r.db.Close()
}

// Resolution is the workspace context of a note.
type Resolution struct {
	// Current is the workspace used for ${workspaceFolder}; nil when none
	// could be determined.
	Current *Workspace
	// All holds every registered workspace for ${workspace: name}.
	All []*Workspace
}

// Root returns the root of the current workspace as a location, or nil.
func (res *Resolution) Root() *url.URL {
	if res.Current == nil {
		return nil
	}
	return expr.FileURL(res.Current.Path)
}

// Named returns the registered workspaces as template lookup entries.
func (res *Resolution) Named() []expr.NamedWorkspace {
	named := make([]expr.NamedWorkspace, 0, len(res.All))
	for _, w := range res.All {
		named = append(named, expr.NamedWorkspace{Name: w.Name, Root: expr.FileURL(w.Path)})
	}
	return named
}

// Contains reports whether path lies inside any registered workspace or the
// current one.
func (res *Resolution) Contains(path string) bool {
	if res.Current != nil && res.Current.Contains(path) {
		return true
	}
	for _, w := range res.All {
		if w.Contains(path) {
			return true
		}
	}
	return false
}

// Resolve determines the workspace of file: the most specific registered
// workspace containing it, else its git repository (registered on first
// use), else the most recently used workspace.
func (r *Registry) Resolve(file string) (*Resolution, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}

	res := &Resolution{}
	if res.Current, err = r.FindByPath(abs); err != nil {
		return nil, err
	}

	if res.Current == nil {
		if gitRoot := findGitRoot(filepath.Dir(abs)); gitRoot != "" {
			if res.Current, err = r.AutoRegister(gitRoot); err != nil {
				return nil, err
			}
		}
	}

	if res.All, err = r.List(); err != nil {
		return nil, err
	}
	if res.Current == nil && len(res.All) > 0 {
		res.Current = res.All[0]
	}

	return res, nil
}

// findGitRoot finds the root of a git repository
func findGitRoot(path string) string {
	current := path
	for {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return ""
}
