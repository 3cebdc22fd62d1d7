package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-udon/pkg/models"
	"github.com/mattsolo1/grove-udon/pkg/service"
)

func NewHistoryCmd(svc **service.Service) *cobra.Command {
	var (
		workspaceName string
		limit         int
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "history [query]",
		Short: "List or search pasted images",
		Long: `List recent pastes, or search them by image path, note path and
inserted text.

Examples:
  udon history                    # Most recent pastes
  udon history diagram            # Pastes mentioning "diagram"
  udon history -w docs --limit 5  # Last five pastes in the docs workspace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			query := strings.Join(args, " ")
			opts := []service.HistoryOption{service.WithLimit(limit)}
			if workspaceName != "" {
				opts = append(opts, service.InWorkspace(workspaceName))
			}

			results, err := s.SearchHistory(query, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if results == nil {
					results = []*models.Paste{}
				}
				return writeJSON(out, results)
			}

			if len(results) == 0 {
				if isTerminal(out) {
					fmt.Fprintln(out, "No pastes found")
				}
				return nil
			}

			for i, p := range results {
				var b strings.Builder
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, p.ImagePath))
				b.WriteString(fmt.Sprintf("   note: %s\n", p.NotePath))
				if p.Workspace != "" {
					b.WriteString(fmt.Sprintf("   workspace: %s\n", p.Workspace))
				}
				b.WriteString(fmt.Sprintf("   %s  %s  %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"), p.Format, p.ID))
				fmt.Fprint(out, b.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspaceName, "workspace", "w", "", "Only pastes made in this workspace")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Forget a paste",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			return s.History.Remove(args[0])
		},
	})

	return cmd
}
