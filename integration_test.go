//go:build integration

package main

import (
	"context"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-udon/pkg/config"
	"github.com/mattsolo1/grove-udon/pkg/service"
	"github.com/mattsolo1/grove-udon/pkg/workspace"
)

// writeHelper installs a shell script that behaves like the clipboard helper:
// base64 image on stdout, temporary file path on stderr.
func writeHelper(t *testing.T, dir string, payload []byte) string {
	t.Helper()
	path := filepath.Join(dir, "udon-helper")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo \"udon-helper 0.3.0\"; exit 0; fi\n" +
		"echo \"/tmp/clip.$1\" >&2\n" +
		"echo \"" + base64.StdEncoding.EncodeToString(payload) + "\"\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("Failed to write helper: %v", err)
	}
	return path
}

func TestIntegration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=1 to run.")
	}
	if runtime.GOOS == "windows" {
		t.Skip("helper script needs a POSIX shell")
	}

	tmpDir := t.TempDir()
	payload := []byte("\x89PNG fake image")
	helper := writeHelper(t, tmpDir, payload)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	loader := &config.Loader{
		User:   config.UserConfig{ExecPath: &helper},
		Logger: logger,
	}
	svc, err := service.New(&service.Config{DataDir: filepath.Join(tmpDir, "data")}, loader, logger)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	defer svc.Close()

	wsPath := filepath.Join(tmpDir, "my-project")
	if err := os.MkdirAll(filepath.Join(wsPath, "docs"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := svc.Registry.Add(&workspace.Workspace{Name: "my-project", Path: wsPath}); err != nil {
		t.Fatalf("Failed to register workspace: %v", err)
	}

	note := filepath.Join(wsPath, "docs", "readme.md")
	if err := os.WriteFile(note, []byte("# Readme\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var first string
	t.Run("PasteThroughHelper", func(t *testing.T) {
		res, err := svc.Paste(context.Background(), service.PasteRequest{
			NotePath:  note,
			Selection: "diagram,png",
		})
		if err != nil {
			t.Fatalf("Paste failed: %v", err)
		}
		first = res.ImagePath

		want := filepath.Join(wsPath, "docs", "image", "diagram.png")
		if res.ImagePath != want {
			t.Errorf("Expected image at %s, got %s", want, res.ImagePath)
		}
		data, err := os.ReadFile(res.ImagePath)
		if err != nil {
			t.Fatalf("Image not written: %v", err)
		}
		if string(data) != string(payload) {
			t.Errorf("Image content mismatch: %q", data)
		}

		content, _ := os.ReadFile(note)
		if !strings.HasSuffix(string(content), "![](image/diagram.png)\n") {
			t.Errorf("Link not appended, note is:\n%s", content)
		}
	})

	t.Run("SecondPasteGetsSuffix", func(t *testing.T) {
		res, err := svc.Paste(context.Background(), service.PasteRequest{
			NotePath:  note,
			Selection: "diagram,png",
		})
		if err != nil {
			t.Fatalf("Paste failed: %v", err)
		}
		if res.ImagePath == first {
			t.Errorf("Second paste overwrote %s", first)
		}
	})

	t.Run("History", func(t *testing.T) {
		pastes, err := svc.SearchHistory("diagram", service.InWorkspace("my-project"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(pastes) != 2 {
			t.Errorf("Expected 2 recorded pastes, got %d", len(pastes))
		}
	})
}
