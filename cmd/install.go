package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-udon/pkg/clipboard"
	"github.com/mattsolo1/grove-udon/pkg/service"
)

func NewInstallCmd(svc **service.Service) *cobra.Command {
	var (
		force      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the clipboard helper",
		Long: `Download the prebuilt climg2base64 helper for this platform into the
udon data directory. Set execPath to use a helper installed elsewhere.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			rel, err := clipboard.ReleaseFor(runtime.GOOS, runtime.GOARCH)
			if err != nil {
				return err
			}

			res, err := s.InstallHelper(cmd.Context(), rel, nil, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, res)
			}
			if res.Skipped {
				fmt.Fprintf(out, "Already installed: %s", res.Path)
			} else {
				fmt.Fprintf(out, "Installed: %s", res.Path)
			}
			if res.Version != "" {
				fmt.Fprintf(out, " (%s)", res.Version)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Download even if the helper is installed")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
