package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/mattsolo1/grove-udon/pkg/expr"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	tmpDir := t.TempDir()
	reg, err := NewRegistry(filepath.Join(tmpDir, "data"))
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	t.Cleanup(func() { reg.Close() })
	return reg, tmpDir
}

func TestNewRegistry(t *testing.T) {
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")

	reg, err := NewRegistry(dataDir)
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	if reg.dataDir != dataDir {
		t.Errorf("Expected dataDir %s, got %s", dataDir, reg.dataDir)
	}

	// Check if database file was created
	dbFile := filepath.Join(dataDir, "workspaces.db")
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		t.Error("Expected database file to be created")
	}
}

func TestAddAndGetWorkspace(t *testing.T) {
	reg, tmpDir := newTestRegistry(t)

	ws := &Workspace{
		Name: "test-workspace",
		Path: filepath.Join(tmpDir, "test-workspace"),
	}

	if err := reg.Add(ws); err != nil {
		t.Fatalf("Failed to add workspace: %v", err)
	}

	retrieved, err := reg.Get("test-workspace")
	if err != nil {
		t.Fatalf("Failed to get workspace: %v", err)
	}

	if retrieved.Name != ws.Name {
		t.Errorf("Expected workspace name %s, got %s", ws.Name, retrieved.Name)
	}
	if retrieved.Path != ws.Path {
		t.Errorf("Expected workspace path %s, got %s", ws.Path, retrieved.Path)
	}
	if retrieved.Type != TypeDirectory {
		t.Errorf("Expected workspace type %s, got %s", TypeDirectory, retrieved.Type)
	}

	// Test Get non-existent
	if _, err := reg.Get("non-existent"); err == nil {
		t.Error("Expected error when getting non-existent workspace")
	}

	// Invalid workspaces are rejected
	if err := reg.Add(&Workspace{Name: "", Path: tmpDir}); err == nil {
		t.Error("Expected error for empty name")
	}
	if err := reg.Add(&Workspace{Name: "x"}); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestListWorkspaces(t *testing.T) {
	reg, tmpDir := newTestRegistry(t)

	workspaces := []*Workspace{
		{Name: "workspace1", Path: filepath.Join(tmpDir, "ws1")},
		{Name: "workspace2", Path: filepath.Join(tmpDir, "ws2"), Type: TypeGitRepo},
	}

	for _, ws := range workspaces {
		if err := reg.Add(ws); err != nil {
			t.Fatalf("Failed to add workspace: %v", err)
		}
	}

	listed, err := reg.List()
	if err != nil {
		t.Fatalf("Failed to list workspaces: %v", err)
	}

	if len(listed) != len(workspaces) {
		t.Errorf("Expected %d workspaces, got %d", len(workspaces), len(listed))
	}
}

func TestRemoveWorkspace(t *testing.T) {
	reg, tmpDir := newTestRegistry(t)

	ws := &Workspace{
		Name: "test-workspace",
		Path: filepath.Join(tmpDir, "test-workspace"),
	}

	if err := reg.Add(ws); err != nil {
		t.Fatalf("Failed to add workspace: %v", err)
	}

	if err := reg.Remove("test-workspace"); err != nil {
		t.Fatalf("Failed to remove workspace: %v", err)
	}

	if _, err := reg.Get("test-workspace"); err == nil {
		t.Error("Expected error when getting removed workspace")
	}

	if err := reg.Remove("test-workspace"); err == nil {
		t.Error("Expected error when removing unknown workspace")
	}
}

func TestFindByPath(t *testing.T) {
	reg, tmpDir := newTestRegistry(t)

	parentDir := filepath.Join(tmpDir, "parent")
	childDir := filepath.Join(parentDir, "child")
	if err := os.MkdirAll(childDir, 0755); err != nil {
		t.Fatalf("failed to create test directory: %v", err)
	}

	for _, ws := range []*Workspace{
		{Name: "parent-workspace", Path: parentDir},
		{Name: "child-workspace", Path: childDir},
	} {
		if err := reg.Add(ws); err != nil {
			t.Fatalf("Failed to add workspace: %v", err)
		}
	}

	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(childDir, "notes", "a.md"), "child-workspace"},
		{childDir, "child-workspace"},
		{filepath.Join(parentDir, "b.md"), "parent-workspace"},
		{parentDir, "parent-workspace"},
		{filepath.Join(tmpDir, "parentless", "c.md"), ""},
		{tmpDir, ""},
	}

	for _, tt := range tests {
		found, err := reg.FindByPath(tt.path)
		if err != nil {
			t.Fatalf("FindByPath(%s) returned error: %v", tt.path, err)
		}
		got := ""
		if found != nil {
			got = found.Name
		}
		if got != tt.want {
			t.Errorf("FindByPath(%s) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFindByPathLogsLastUsedFailure(t *testing.T) {
	reg, tmpDir := newTestRegistry(t)
	logger, hook := logtest.NewNullLogger()
	reg.Logger = logger

	dir := filepath.Join(tmpDir, "notes")
	if err := reg.Add(&Workspace{Name: "notes", Path: dir}); err != nil {
		t.Fatalf("Failed to add workspace: %v", err)
	}
	if _, err := reg.db.Exec(`CREATE TRIGGER no_touch BEFORE UPDATE ON workspaces
		BEGIN SELECT RAISE(FAIL, 'read only'); END;`); err != nil {
		t.Fatalf("failed to create trigger: %v", err)
	}

	found, err := reg.FindByPath(filepath.Join(dir, "a.md"))
	if err != nil {
		t.Fatalf("FindByPath returned error: %v", err)
	}
	if found == nil || found.Name != "notes" {
		t.Fatalf("FindByPath = %v, want notes", found)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a warning to be logged")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("level = %s, want warning", entry.Level)
	}
	if entry.Data["workspace"] != "notes" {
		t.Errorf("workspace field = %v", entry.Data["workspace"])
	}
}

func TestResolve(t *testing.T) {
	reg, tmpDir := newTestRegistry(t)

	repo := filepath.Join(tmpDir, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	docs := filepath.Join(tmpDir, "docs")
	if err := reg.Add(&Workspace{Name: "docs", Path: docs}); err != nil {
		t.Fatal(err)
	}

	res, err := reg.Resolve(filepath.Join(docs, "guide", "a.md"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Current == nil || res.Current.Name != "docs" {
		t.Fatalf("Expected docs workspace, got %+v", res.Current)
	}
	if got := expr.FilePath(res.Root()); got != docs {
		t.Errorf("Root() = %s, want %s", got, docs)
	}

	// A note in a git repository registers the repository.
	res, err = reg.Resolve(filepath.Join(repo, "src", "b.md"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Current == nil || res.Current.Name != "repo" || res.Current.Type != TypeGitRepo {
		t.Fatalf("Expected repo workspace, got %+v", res.Current)
	}
	if len(res.All) != 2 {
		t.Errorf("Expected 2 registered workspaces, got %d", len(res.All))
	}
	named := res.Named()
	if len(named) != 2 {
		t.Fatalf("Expected 2 named workspaces, got %d", len(named))
	}

	// Elsewhere the most recently used workspace is chosen.
	res, err = reg.Resolve(filepath.Join(tmpDir, "elsewhere", "c.md"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Current == nil {
		t.Fatal("Expected a fallback workspace")
	}
	if res.Contains(filepath.Join(tmpDir, "elsewhere", "c.md")) {
		t.Error("Expected path outside every workspace")
	}
	if !res.Contains(filepath.Join(docs, "img", "x.png")) {
		t.Error("Expected path inside docs")
	}
}

func TestResolveEmptyRegistry(t *testing.T) {
	reg, tmpDir := newTestRegistry(t)

	res, err := reg.Resolve(filepath.Join(tmpDir, "a.md"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Current != nil {
		t.Errorf("Expected no workspace, got %+v", res.Current)
	}
	if res.Root() != nil {
		t.Error("Expected nil root")
	}
	if res.Contains(filepath.Join(tmpDir, "a.md")) {
		t.Error("Expected no containing workspace")
	}
}
