// Package service pastes clipboard images into workspaces and links them
// from notes.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-udon/pkg/clipboard"
	"github.com/mattsolo1/grove-udon/pkg/config"
	"github.com/mattsolo1/grove-udon/pkg/expr"
	"github.com/mattsolo1/grove-udon/pkg/history"
	"github.com/mattsolo1/grove-udon/pkg/models"
	"github.com/mattsolo1/grove-udon/pkg/workspace"
)

// Capturer reads an image from the clipboard.
type Capturer interface {
	Capture(ctx context.Context, format models.Format, opts clipboard.Options) (*clipboard.Result, error)
}

// Service is the core paste service
type Service struct {
	Registry *workspace.Registry
	History  *history.Store
	Loader   *config.Loader
	Config   *Config
	Logger   logrus.FieldLogger

	now         func() time.Time
	newCapturer func(path string) Capturer
}

// Config holds service configuration
type Config struct {
	DataDir string
	// HelperDir is where `udon install` puts the clipboard helper. Defaults
	// to DataDir/bin.
	HelperDir   string
	MaxBufferMB int
}

// New opens the registry and history stores in cfg.DataDir.
func New(cfg *Config, loader *config.Loader, logger logrus.FieldLogger) (*Service, error) {
	if cfg.HelperDir == "" {
		cfg.HelperDir = filepath.Join(cfg.DataDir, "bin")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if loader == nil {
		loader = &config.Loader{}
	}
	if loader.Logger == nil {
		loader.Logger = logger
	}

	registry, err := workspace.NewRegistry(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("create registry: %w", err)
	}
	registry.Logger = logger
	store, err := history.Open(cfg.DataDir)
	if err != nil {
		registry.Close()
		return nil, fmt.Errorf("create history: %w", err)
	}

	s := &Service{
		Registry: registry,
		History:  store,
		Loader:   loader,
		Config:   cfg,
		Logger:   logger,
		now:      time.Now,
	}
	s.newCapturer = func(path string) Capturer {
		return &clipboard.Helper{Path: path, MaxBufferMB: cfg.MaxBufferMB, Logger: logger}
	}
	return s, nil
}

// Close closes the service
func (s *Service) Close() error {
	var errs []error
	if s.History != nil {
		errs = append(errs, s.History.Close())
	}
	if s.Registry != nil {
		errs = append(errs, s.Registry.Close())
	}
	return errors.Join(errs...)
}

// NoteContext is everything known about a note before an image is pasted.
type NoteContext struct {
	NotePath   string
	Env        *expr.Env
	Workspaces *workspace.Resolution
	Config     *config.Config
}

// WorkspaceName returns the name of the note's workspace, if any.
func (nc *NoteContext) WorkspaceName() string {
	if nc.Workspaces == nil || nc.Workspaces.Current == nil {
		return ""
	}
	return nc.Workspaces.Current.Name
}

// Context resolves the workspace, the configuration layers and the
// evaluation environment of notePath.
func (s *Service) Context(notePath string) (*NoteContext, error) {
	abs, err := filepath.Abs(notePath)
	if err != nil {
		return nil, fmt.Errorf("resolve note path: %w", err)
	}

	res, err := s.Registry.Resolve(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}

	var root string
	if res.Current != nil {
		root = res.Current.Path
	}
	cfg, err := s.Loader.ForNote(nil, root, abs)
	if err != nil {
		return nil, err
	}

	env := &expr.Env{
		Date:       s.now(),
		Editor:     expr.FileURL(abs),
		Workspace:  res.Root(),
		Workspaces: res.Named(),
	}

	s.Logger.WithFields(logrus.Fields{
		"note":      abs,
		"workspace": root,
	}).Debug("Resolved note context")

	return &NoteContext{NotePath: abs, Env: env, Workspaces: res, Config: cfg}, nil
}

// HelperPath returns the configured clipboard helper, or the installed one.
func (s *Service) HelperPath(cfg *config.Config) string {
	if cfg != nil && cfg.ExecPath != "" {
		return cfg.ExecPath
	}
	return clipboard.DefaultPath(s.Config.HelperDir)
}
