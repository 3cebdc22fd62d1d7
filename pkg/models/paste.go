package models

import (
	"net/url"
	"time"
)

// SaveImageInfo describes where and how a clipboard image is saved.
type SaveImageInfo struct {
	Path      *url.URL `json:"-"`
	MaxWidth  int      `json:"max_width,omitempty"`
	MaxHeight int      `json:"max_height,omitempty"`
	Format    Format   `json:"format"`
}

// Paste is one recorded paste operation.
type Paste struct {
	ID        string    `json:"id"`
	ImagePath string    `json:"image_path"`
	NotePath  string    `json:"note_path"`
	Workspace string    `json:"workspace,omitempty"`
	Format    Format    `json:"format"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
