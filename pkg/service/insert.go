package service

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattsolo1/grove-udon/pkg/frontmatter"
)

// Insert adds text to the note at notePath as a new line before line
// (1-based). A line of 0 or past the end appends. Text is never placed
// inside the frontmatter block. Line endings and a missing final newline are
// kept. A missing note is created.
func Insert(notePath string, line int, text string) error {
	content, err := os.ReadFile(notePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read note: %w", err)
	}

	out := insertLine(string(content), line, text)
	if err := os.WriteFile(notePath, []byte(out), 0644); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}

func insertLine(content string, line int, text string) string {
	newline := "\n"
	if strings.Contains(content, "\r\n") {
		newline = "\r\n"
	}

	if content == "" {
		return text + newline
	}

	trailing := strings.HasSuffix(content, newline)
	lines := strings.Split(strings.TrimSuffix(content, newline), newline)

	idx := line - 1
	if header := frontmatter.HeaderLines(content); line > 0 && idx < header {
		idx = header
	}
	if line <= 0 || idx >= len(lines) {
		lines = append(lines, text)
	} else {
		lines = append(lines[:idx], append([]string{text}, lines[idx:]...)...)
	}

	out := strings.Join(lines, newline)
	if trailing {
		out += newline
	}
	return out
}
