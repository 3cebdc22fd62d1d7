package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-udon/pkg/expr"
	"github.com/mattsolo1/grove-udon/pkg/service"
)

func NewRuleCmd(svc **service.Service) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rule <note>",
		Short: "Show the link rule used for a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			match, nc, err := s.RuleFor(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if all {
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				if isTerminal(out) {
					fmt.Fprintln(w, "PATTERN\tTEMPLATE")
				}
				for _, r := range nc.Config.Rule {
					fmt.Fprintf(w, "%s\t%s\n", r.Pattern, r.Template)
				}
				return w.Flush()
			}

			if match.Default {
				fmt.Fprintf(cmd.ErrOrStderr(), "No rule matches %s; using the default.\n", nc.NotePath)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Note\t%s\n", nc.NotePath)
			if ws := nc.WorkspaceName(); ws != "" {
				fmt.Fprintf(w, "Workspace\t%s (%s)\n", ws, expr.FilePath(nc.Env.Workspace))
			}
			fmt.Fprintf(w, "Pattern\t%s\n", match.Rule.Pattern)
			fmt.Fprintf(w, "Template\t%s\n", match.Rule.Template)
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every rule in effect for the note")

	return cmd
}
