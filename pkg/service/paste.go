package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-udon/pkg/clipboard"
	"github.com/mattsolo1/grove-udon/pkg/config"
	"github.com/mattsolo1/grove-udon/pkg/expr"
	"github.com/mattsolo1/grove-udon/pkg/models"
)

var (
	// ErrOutsideWorkspace is returned when saveInWorkspaceOnly is set and the
	// image path lies outside every workspace.
	ErrOutsideWorkspace = errors.New("cannot save outside the workspace")
	// ErrHelperNotConfigured is returned when no clipboard helper is
	// configured or installed.
	ErrHelperNotConfigured = errors.New("clipboard helper path is not configured; run `udon install` or set execPath")
)

// InsertMode selects what Paste does with the link text.
type InsertMode int

const (
	// InsertAppend appends the text as a new last line of the note.
	InsertAppend InsertMode = iota
	// InsertAtLine inserts the text as a new line before PasteRequest.Line.
	InsertAtLine
	// InsertNone leaves the note untouched.
	InsertNone
)

// PasteRequest describes one paste.
type PasteRequest struct {
	NotePath string
	// Selection is the selected text: "[name][,w=W][,h=H][,format]".
	Selection string
	Mode      InsertMode
	Line      int
	// DryRun computes the image path and link text without touching the
	// clipboard or any file.
	DryRun bool
}

// PasteResult is the outcome of a paste.
type PasteResult struct {
	ID        string                `json:"id,omitempty"`
	ImagePath string                `json:"image_path"`
	Text      string                `json:"text"`
	Info      *models.SaveImageInfo `json:"info"`
	Workspace string                `json:"workspace,omitempty"`
	// HelperPath is the clipboard helper used, or that would be used.
	HelperPath string `json:"helper_path"`
}

// Paste saves the clipboard image next to the note and links it. Every
// template is evaluated before anything is written, so a failing template
// leaves no partial output.
func (s *Service) Paste(ctx context.Context, req PasteRequest) (*PasteResult, error) {
	nc, err := s.Context(req.NotePath)
	if err != nil {
		return nil, err
	}
	cfg := nc.Config

	info, err := SaveImagePath(ctx, cfg, nc.Env, req.Selection, nil)
	if err != nil {
		return nil, err
	}
	imagePath := expr.FilePath(info.Path)

	log := s.Logger.WithFields(logrus.Fields{
		"image":      imagePath,
		"format":     info.Format,
		"max_width":  info.MaxWidth,
		"max_height": info.MaxHeight,
	})
	log.Info("Image save path")

	if cfg.SaveInWorkspaceOnly && !nc.Workspaces.Contains(imagePath) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideWorkspace, imagePath)
	}

	nc.Env.Image = info.Path
	nc.Env.ImageFormat = string(info.Format)
	text, err := expr.EvalString(cfg.Rule.Select(nc.NotePath, config.DefaultRule), nc.Env)
	if err != nil {
		return nil, fmt.Errorf("evaluate rule: %w", err)
	}

	result := &PasteResult{
		ImagePath:  imagePath,
		Text:       text,
		Info:       info,
		Workspace:  nc.WorkspaceName(),
		HelperPath: s.HelperPath(cfg),
	}
	if req.DryRun {
		return result, nil
	}

	if _, err := os.Stat(result.HelperPath); err != nil {
		if cfg.ExecPath == "" {
			return nil, ErrHelperNotConfigured
		}
		return nil, fmt.Errorf("%s not found", result.HelperPath)
	}

	captured, err := s.newCapturer(result.HelperPath).Capture(ctx, info.Format, clipboard.Options{
		Width:  info.MaxWidth,
		Height: info.MaxHeight,
	})
	if err != nil {
		return nil, err
	}
	data, err := captured.Decode()
	if err != nil {
		return nil, err
	}
	log.WithField("helper_path", captured.FilePath).Debug("Captured clipboard image")

	if err := os.MkdirAll(filepath.Dir(imagePath), 0755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	if err := os.WriteFile(imagePath, data, 0644); err != nil {
		return nil, fmt.Errorf("write image: %w", err)
	}

	switch req.Mode {
	case InsertAppend:
		err = Insert(nc.NotePath, 0, text)
	case InsertAtLine:
		err = Insert(nc.NotePath, req.Line, text)
	}
	if err != nil {
		return nil, err
	}

	paste := &models.Paste{
		ImagePath: imagePath,
		NotePath:  nc.NotePath,
		Workspace: result.Workspace,
		Format:    info.Format,
		Text:      text,
		CreatedAt: nc.Env.Date,
	}
	if err := s.History.Record(paste); err != nil {
		log.WithError(err).Warn("Failed to record paste")
	}
	result.ID = paste.ID

	return result, nil
}
