package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorkspaceValidate(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	ws := &Workspace{Name: "notes", Path: "~/notes"}
	if err := ws.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if want := filepath.Join(home, "notes"); ws.Path != want {
		t.Errorf("Path = %s, want %s", ws.Path, want)
	}
	if ws.Type != TypeDirectory {
		t.Errorf("Type = %s, want %s", ws.Type, TypeDirectory)
	}
}

func TestWorkspaceContains(t *testing.T) {
	root := t.TempDir()
	ws := &Workspace{Name: "w", Path: filepath.Join(root, "foo")}

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "foo"), true},
		{filepath.Join(root, "foo", "a.md"), true},
		{filepath.Join(root, "FOO", "a.md"), true},
		{filepath.Join(root, "foobar", "a.md"), false},
		{root, false},
	}

	for _, tt := range tests {
		if got := ws.Contains(tt.path); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDataDirFromExtensions(t *testing.T) {
	tests := []struct {
		name string
		ext  map[string]interface{}
		want string
	}{
		{"missing", nil, ""},
		{"other extension", map[string]interface{}{"nb": map[string]interface{}{"data_dir": "/x"}}, ""},
		{"set", map[string]interface{}{"udon": map[string]interface{}{"data_dir": "/var/udon"}}, "/var/udon"},
		{"wrong type", map[string]interface{}{"udon": map[string]interface{}{"data_dir": 3}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dataDirFromExtensions(tt.ext); got != tt.want {
				t.Errorf("dataDirFromExtensions() = %q, want %q", got, tt.want)
			}
		})
	}
}
