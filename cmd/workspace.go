package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-udon/pkg/service"
	"github.com/mattsolo1/grove-udon/pkg/workspace"
)

func NewWorkspaceCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces",
		Long: `Manage the registered workspaces. A note belongs to the most specific
workspace containing it; ${workspaceFolder} is its root and ${workspace: name}
looks up any registered workspace. Git repositories are registered on first use.`,
	}

	cmd.AddCommand(
		newWorkspaceAddCmd(svc),
		newWorkspaceListCmd(svc),
		newWorkspaceRemoveCmd(svc),
		newWorkspaceCurrentCmd(svc),
	)

	return cmd
}

func newWorkspaceAddCmd(svc **service.Service) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Register a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(path)
			}

			w := &workspace.Workspace{Name: name, Path: path, Type: workspace.TypeDirectory}
			if err := s.Registry.Add(w); err != nil {
				return fmt.Errorf("add workspace: %w", err)
			}
			s.Logger.WithField("name", w.Name).WithField("path", w.Path).Info("Registered workspace")
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s: %s\n", w.Name, w.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Workspace name (default: directory name)")

	return cmd
}

func newWorkspaceListCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			workspaces, err := s.Registry.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if workspaces == nil {
					workspaces = []*workspace.Workspace{}
				}
				return writeJSON(out, workspaces)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			if isTerminal(out) {
				fmt.Fprintln(w, "NAME\tTYPE\tPATH\tLAST USED")
			}
			for _, ws := range workspaces {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ws.Name, ws.Type, ws.Path, ws.LastUsed.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func newWorkspaceRemoveCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Unregister a workspace",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if err := s.Registry.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newWorkspaceCurrentCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "current [path]",
		Short: "Show the workspace of a file or directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			// Resolve looks at the parent of a file; give it a child so a
			// directory argument is itself searched.
			res, err := s.Registry.Resolve(filepath.Join(abs, "_"))
			if err != nil {
				return err
			}
			if res.Current == nil {
				return fmt.Errorf("no workspace found for %s", abs)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name\t%s\n", res.Current.Name)
			fmt.Fprintf(w, "Path\t%s\n", res.Current.Path)
			fmt.Fprintf(w, "Type\t%s\n", res.Current.Type)
			fmt.Fprintf(w, "Contains %s\t%t\n", abs, res.Current.Contains(abs))
			return w.Flush()
		},
	}
}
