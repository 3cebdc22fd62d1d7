package service

import (
	"fmt"

	"github.com/mattsolo1/grove-udon/pkg/history"
	"github.com/mattsolo1/grove-udon/pkg/models"
)

type historyOptions struct {
	workspace string
	limit     int
}

// HistoryOption narrows a history query.
type HistoryOption func(*historyOptions)

// InWorkspace limits results to pastes made in the named workspace.
func InWorkspace(name string) HistoryOption {
	return func(o *historyOptions) {
		o.workspace = name
	}
}

func WithLimit(limit int) HistoryOption {
	return func(o *historyOptions) {
		o.limit = limit
	}
}

// SearchHistory returns past pastes matching query, or the most recent ones
// when query is blank.
func (s *Service) SearchHistory(query string, options ...HistoryOption) ([]*models.Paste, error) {
	opts := &historyOptions{
		limit: 50,
	}
	for _, opt := range options {
		opt(opts)
	}

	results, err := s.History.Search(query, &history.Options{
		Workspace: opts.workspace,
		Limit:     opts.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	return results, nil
}
