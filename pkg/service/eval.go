package service

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/mattsolo1/grove-udon/pkg/config"
	"github.com/mattsolo1/grove-udon/pkg/expr"
	"github.com/mattsolo1/grove-udon/pkg/models"
	"github.com/mattsolo1/grove-udon/pkg/rule"
)

// EvalRequest is an ad hoc template evaluation for a note.
type EvalRequest struct {
	Template string
	NotePath string
	// ImagePath stands in for the pasted image. Image variables are
	// unavailable when it is empty.
	ImagePath string
	Format    models.Format
	// Path evaluates the template as a location instead of text.
	Path bool
}

// EvalResult holds the parsed template and its value.
type EvalResult struct {
	Node expr.Node
	Text string
	// URL is set for path evaluations.
	URL *url.URL
}

// Eval evaluates req.Template in the context of req.NotePath.
func (s *Service) Eval(ctx context.Context, req EvalRequest) (*EvalResult, error) {
	n, err := expr.Parse(req.Template)
	if err != nil {
		return nil, err
	}

	nc, err := s.Context(req.NotePath)
	if err != nil {
		return nil, err
	}
	if req.ImagePath != "" {
		abs, err := filepath.Abs(req.ImagePath)
		if err != nil {
			return nil, fmt.Errorf("resolve image path: %w", err)
		}
		nc.Env.Image = expr.FileURL(abs)
		format := req.Format
		if format == "" {
			if f, ok := models.FormatFromExt(filepath.Ext(abs)); ok {
				format = f
			} else {
				format = nc.Config.Format
			}
		}
		nc.Env.ImageFormat = string(format)
	}

	res := &EvalResult{Node: n}
	if req.Path {
		if !expr.SupportsPath(n, nc.Env) {
			return nil, fmt.Errorf("template cannot be evaluated as a path")
		}
		if res.URL, err = expr.EvalPath(n, nc.Env); err != nil {
			return nil, err
		}
		res.Text = res.URL.String()
		return res, nil
	}

	if res.Text, err = expr.EvalString(n, nc.Env); err != nil {
		return nil, err
	}
	return res, nil
}

// RuleMatch is the insertion rule chosen for a note.
type RuleMatch struct {
	Rule rule.Rule
	// Default is set when no configured rule matched.
	Default bool
}

// RuleFor returns the insertion rule used for notePath.
func (s *Service) RuleFor(notePath string) (*RuleMatch, *NoteContext, error) {
	nc, err := s.Context(notePath)
	if err != nil {
		return nil, nil, err
	}
	if r, ok := nc.Config.Rule.Find(nc.NotePath); ok {
		return &RuleMatch{Rule: r}, nc, nil
	}
	return &RuleMatch{
		Rule:    rule.Rule{Pattern: "", Template: config.DefaultRuleTemplate, Node: config.DefaultRule},
		Default: true,
	}, nc, nil
}
