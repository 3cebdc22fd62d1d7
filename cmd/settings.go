package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-udon/pkg/config"
	"github.com/mattsolo1/grove-udon/pkg/service"
)

func NewConfigCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change paste settings",
		Long: `Settings are layered, highest first: the udon block of a note's
frontmatter, the project files in the workspace root (.udon.json, .udon.yml,
.udon.yaml, .vscode/udon.json), the user config file and UDON_* environment
variables, the udon extension of grove.yml, and the built-in defaults.`,
	}

	cmd.AddCommand(newConfigShowCmd(svc), newConfigSetCmd())

	return cmd
}

func newConfigShowCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [note]",
		Short: "Print the resolved settings",
		Long:  "Print the resolved settings, for a note when one is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			cfg := s.Loader.Base()
			if len(args) == 1 {
				nc, err := s.Context(args[0])
				if err != nil {
					return err
				}
				cfg = nc.Config
			}

			out := cmd.OutOrStdout()
			settings := cfg.Export()
			if jsonOutput {
				return writeJSON(out, settings)
			}
			data, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("marshal settings: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <note> <key> <value>",
		Short: "Override a setting in a note's frontmatter",
		Long: `Store a setting in the udon block of a note's frontmatter. The value is
read as YAML, so numbers, booleans and rule lists keep their type.

Examples:
  udon config set docs/a.md format png
  udon config set docs/a.md suffixLength 2
  udon config set docs/a.md rule '[["*.md", "![](${relImage})"]]'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return service.SetNoteSetting(args[0], config.Key(args[1]), service.ParseSettingValue(args[2]))
		},
	}
}
