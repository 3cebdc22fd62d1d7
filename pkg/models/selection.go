package models

import (
	"path"
	"regexp"
	"strings"
)

var (
	newlinePattern = regexp.MustCompile(`[\r\n]`)
	// ForbiddenChars matches characters that never end up in an image file name.
	ForbiddenChars = regexp.MustCompile(`[\[\r\n\t\\\]*?"<>|&%]`)
)

// Selection is the parsed form of the text selected in the note when
// pasting: "[name][,w=WIDTH][,h=HEIGHT][,format]".
type Selection struct {
	Name      string
	MaxWidth  int
	MaxHeight int
	Format    Format
	// Overwrite is requested by a leading "?" on the name.
	Overwrite bool
}

// ParseSelection parses the selected text. Unknown parts become the file
// name; the last one wins.
func ParseSelection(text string) Selection {
	var s Selection
	text = newlinePattern.ReplaceAllString(strings.TrimSpace(text), "")
	if text == "" {
		return s
	}

	var name string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "w=") || strings.HasPrefix(part, "w:"):
			s.MaxWidth = leadingInt(strings.TrimSpace(part[2:]))
		case strings.HasPrefix(part, "h=") || strings.HasPrefix(part, "h:"):
			s.MaxHeight = leadingInt(strings.TrimSpace(part[2:]))
		case Format(part).Valid():
			s.Format = Format(part)
		case part == "jpg":
			s.Format = FormatJPEG
		default:
			name = part
		}
	}

	if name == "" {
		return s
	}
	if strings.HasPrefix(name, "?") {
		s.Overwrite = true
	}
	name = strings.TrimSpace(ForbiddenChars.ReplaceAllString(name, ""))
	ext := path.Ext(name)
	if f, ok := FormatFromExt(ext); ok && ext != name {
		s.Format = f
		name = name[:len(name)-len(ext)]
	}
	s.Name = name
	return s
}

// leadingInt parses the leading decimal digits of s, returning 0 when there
// are none.
func leadingInt(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
