// Package history records pasted images and searches them.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mattsolo1/grove-udon/pkg/models"
)

// Store manages the paste history database
type Store struct {
	db     *sql.DB
	useFTS bool
}

// Open opens or creates the history database in dataDir
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return New(filepath.Join(dataDir, "history.db"))
}

// New opens the history database at dbPath
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history: %w", err)
	}

	return s, nil
}

// init creates the database schema
func (s *Store) init() error {
	s.useFTS = s.checkFTS5Support()

	schema := `
	CREATE TABLE IF NOT EXISTS pastes (
		id TEXT PRIMARY KEY,
		image_path TEXT NOT NULL,
		note_path TEXT NOT NULL,
		workspace TEXT,
		format TEXT NOT NULL,
		text TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pastes_created ON pastes(created_at);
	CREATE INDEX IF NOT EXISTS idx_pastes_workspace ON pastes(workspace);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if s.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS pastes_fts USING fts5(
			id UNINDEXED,
			image_path,
			note_path,
			text,
			tokenize = 'unicode61'
		);
		`

		if _, err := s.db.Exec(ftsSchema); err != nil {
			// If FTS creation fails, disable FTS and continue
			s.useFTS = false
		}
	}

	return nil
}

// checkFTS5Support checks if FTS5 module is available
func (s *Store) checkFTS5Support() bool {
	_, err := s.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_test USING fts5(content)")
	if err != nil {
		return false
	}

	_, _ = s.db.Exec("DROP TABLE IF EXISTS fts5_test")
	return true
}

// Record stores a paste. Missing ids and timestamps are filled in.
func (s *Store) Record(p *models.Paste) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		INSERT INTO pastes (id, image_path, note_path, workspace, format, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.ImagePath, p.NotePath, p.Workspace, string(p.Format), p.Text, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert paste: %w", err)
	}

	if s.useFTS {
		_, err = tx.Exec(`
			INSERT INTO pastes_fts (id, image_path, note_path, text)
			VALUES (?, ?, ?, ?)
		`, p.ID, p.ImagePath, p.NotePath, p.Text)
		if err != nil {
			return fmt.Errorf("index paste: %w", err)
		}
	}

	return tx.Commit()
}

// Options for searching
type Options struct {
	Workspace string
	Limit     int
}

func (o *Options) limit() int {
	if o == nil || o.Limit <= 0 {
		return 50
	}
	return o.Limit
}

// Recent returns the latest pastes, newest first
func (s *Store) Recent(opts *Options) ([]*models.Paste, error) {
	query := `SELECT id, image_path, note_path, workspace, format, text, created_at FROM pastes`
	var args []any
	if opts != nil && opts.Workspace != "" {
		query += " WHERE workspace = ?"
		args = append(args, opts.Workspace)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, opts.limit())

	return s.query(query, args...)
}

// Search finds pastes whose paths or inserted text match query
func (s *Store) Search(query string, opts *Options) ([]*models.Paste, error) {
	if strings.TrimSpace(query) == "" {
		return s.Recent(opts)
	}
	if s.useFTS {
		return s.searchWithFTS(query, opts)
	}
	return s.searchWithoutFTS(query, opts)
}

// searchWithFTS performs search using FTS5
func (s *Store) searchWithFTS(query string, opts *Options) ([]*models.Paste, error) {
	var conditions []string
	var args []any

	conditions = append(conditions, "pastes_fts MATCH ?")
	args = append(args, ftsQuery(query))

	if opts != nil && opts.Workspace != "" {
		conditions = append(conditions, "p.workspace = ?")
		args = append(args, opts.Workspace)
	}

	searchQuery := fmt.Sprintf(`
		SELECT p.id, p.image_path, p.note_path, p.workspace, p.format, p.text, p.created_at
		FROM pastes_fts
		JOIN pastes p ON pastes_fts.id = p.id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.limit())

	return s.query(searchQuery, args...)
}

// searchWithoutFTS performs search using LIKE queries
func (s *Store) searchWithoutFTS(query string, opts *Options) ([]*models.Paste, error) {
	var conditions []string
	var args []any

	searchPattern := "%" + strings.ReplaceAll(query, " ", "%") + "%"
	conditions = append(conditions, "(image_path LIKE ? OR note_path LIKE ? OR text LIKE ?)")
	args = append(args, searchPattern, searchPattern, searchPattern)

	if opts != nil && opts.Workspace != "" {
		conditions = append(conditions, "workspace = ?")
		args = append(args, opts.Workspace)
	}

	searchQuery := fmt.Sprintf(`
		SELECT id, image_path, note_path, workspace, format, text, created_at
		FROM pastes
		WHERE %s
		ORDER BY created_at DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.limit())

	return s.query(searchQuery, args...)
}

// ftsQuery quotes each term so path punctuation is not read as FTS syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

func (s *Store) query(query string, args ...any) ([]*models.Paste, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.Paste
	for rows.Next() {
		p := &models.Paste{}
		var workspace, text sql.NullString
		var format string
		if err := rows.Scan(&p.ID, &p.ImagePath, &p.NotePath, &workspace, &format, &text, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Workspace = workspace.String
		p.Text = text.String
		p.Format = models.Format(format)
		results = append(results, p)
	}

	return results, rows.Err()
}

// Remove deletes a paste record
func (s *Store) Remove(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if s.useFTS {
		if _, err := tx.Exec("DELETE FROM pastes_fts WHERE id = ?", id); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM pastes WHERE id = ?", id); err != nil {
		return err
	}

	return tx.Commit()
}

// Close closes the history database
func (s *Store) Close() error {
	return s.db.Close()
}
