package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-udon/pkg/service"
)

func NewPasteCmd(svc **service.Service) *cobra.Command {
	var (
		selection  string
		line       int
		printOnly  bool
		dryRun     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "paste <note>",
		Short: "Save the clipboard image and link it from a note",
		Long: `Save the image on the clipboard next to a note and insert a link to it.

The image path comes from the baseDirectory and defaultFileName templates, the
link text from the first rule matching the note. The selection names the image
and limits its size: "[name][,w=WIDTH][,h=HEIGHT][,FORMAT]". A name starting
with "?" overwrites an existing file.

Examples:
  udon paste docs/guide.md                      # Append a link to the note
  udon paste docs/guide.md -s "arch,w=800"      # Save as arch.webp, at most 800px wide
  udon paste docs/guide.md -s "?logo.png" -l 3  # Overwrite logo.png, link on line 3
  udon paste README.md --print                  # Only print the link text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			req := service.PasteRequest{
				NotePath:  args[0],
				Selection: selection,
				DryRun:    dryRun,
			}
			switch {
			case printOnly || dryRun:
				req.Mode = service.InsertNone
			case line > 0:
				req.Mode = service.InsertAtLine
				req.Line = line
			default:
				req.Mode = service.InsertAppend
			}

			res, err := s.Paste(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, res)
			}
			if isTerminal(out) {
				fmt.Fprintf(out, "Image: %s\n", res.ImagePath)
				if dryRun {
					fmt.Fprintf(out, "Helper: %s\n", res.HelperPath)
				}
				fmt.Fprintf(out, "Text:  %s\n", res.Text)
				return nil
			}
			fmt.Fprintln(out, res.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&selection, "select", "s", "", "Selected text: [name][,w=W][,h=H][,format]")
	cmd.Flags().IntVarP(&line, "line", "l", 0, "Insert the link before this line (default: append)")
	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "Print the link text instead of editing the note")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the image path and link text without reading the clipboard")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")

	return cmd
}
