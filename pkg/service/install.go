package service

import (
	"context"
	"net/http"
	"os"

	"github.com/mattsolo1/grove-udon/pkg/clipboard"
)

// InstallResult describes the installed clipboard helper.
type InstallResult struct {
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
	// Skipped is set when the helper was already installed.
	Skipped bool `json:"skipped,omitempty"`
}

// InstallHelper downloads rel into the helper directory unless a helper is
// already installed there and force is unset.
func (s *Service) InstallHelper(ctx context.Context, rel clipboard.Release, client *http.Client, force bool) (*InstallResult, error) {
	res := &InstallResult{Path: clipboard.DefaultPath(s.Config.HelperDir)}

	if _, err := os.Stat(res.Path); err == nil && !force {
		res.Skipped = true
	} else {
		inst := &clipboard.Installer{Client: client, Logger: s.Logger}
		p, err := inst.Install(ctx, rel, s.Config.HelperDir)
		if err != nil {
			return nil, err
		}
		res.Path = p
	}

	h := &clipboard.Helper{Path: res.Path, Logger: s.Logger}
	v, err := h.Version(ctx)
	if err != nil {
		s.Logger.WithError(err).Warn("Could not read clipboard helper version")
	} else {
		res.Version = v
	}
	return res, nil
}
