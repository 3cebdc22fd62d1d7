package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-udon/pkg/models"
	"github.com/mattsolo1/grove-udon/pkg/service"
)

func NewEvalCmd(svc **service.Service) *cobra.Command {
	var (
		imagePath string
		format    string
		asPath    bool
		showTree  bool
	)

	cmd := &cobra.Command{
		Use:   "eval <note> <template>",
		Short: "Evaluate a template for a note",
		Long: `Evaluate a path template as if an image were pasted into the note.

Examples:
  udon eval docs/a.md '${fileDirname}/image'
  udon eval docs/a.md '![](${relImage})' --image docs/image/x.png
  udon eval docs/a.md '${workspaceFolder}/assets' --path`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			req := service.EvalRequest{
				NotePath:  args[0],
				Template:  args[1],
				ImagePath: imagePath,
				Path:      asPath,
			}
			if format != "" {
				f, err := models.ParseFormat(format)
				if err != nil {
					return err
				}
				req.Format = f
			}

			res, err := s.Eval(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showTree {
				fmt.Fprintln(out, res.Node)
			}
			fmt.Fprintln(out, res.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Image path used for the image variables")
	cmd.Flags().StringVar(&format, "format", "", "Image format (default: from the image extension)")
	cmd.Flags().BoolVar(&asPath, "path", false, "Evaluate as a location instead of text")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the parsed template")

	return cmd
}
