package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattsolo1/grove-core/util/pathutil"
)

// Type represents the type of workspace
type Type string

const (
	TypeGitRepo   Type = "git-repo"
	TypeDirectory Type = "directory"
)

// Workspace is a registered root directory. Images are saved inside a
// workspace and link text is made relative to it.
type Workspace struct {
	Name      string    `yaml:"name" json:"name"`
	Path      string    `yaml:"path" json:"path"`
	Type      Type      `yaml:"type" json:"type"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	LastUsed  time.Time `yaml:"last_used" json:"last_used"`
}

// Validate checks the workspace and expands a leading "~" in its path.
func (w *Workspace) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	if w.Path == "" {
		return fmt.Errorf("workspace path cannot be empty")
	}
	if w.Type == "" {
		w.Type = TypeDirectory
	}

	p, err := expandHome(w.Path)
	if err != nil {
		return err
	}
	w.Path = p
	return nil
}

// Contains reports whether path is the workspace root or lies below it.
// The comparison ignores case.
func (w *Workspace) Contains(path string) bool {
	root, err := normalize(w.Path)
	if err != nil {
		return false
	}
	abs, err := normalize(path)
	if err != nil {
		return false
	}
	return containsPath(root, abs)
}

func normalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if n, err := pathutil.NormalizeForLookup(abs); err == nil {
		abs = n
	}
	return strings.ToLower(abs), nil
}

func containsPath(root, path string) bool {
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, p[1:]), nil
}
