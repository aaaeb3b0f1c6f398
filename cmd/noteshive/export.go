package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/export"
)

func newExportCmd(c *cli) *cobra.Command {
	var format, dir string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Save a note as PDF or Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pdf" && format != "md" {
				return fmt.Errorf("unknown format %q (want pdf or md)", format)
			}
			_, n, err := c.findNote(cmd, args[0])
			if err != nil {
				return err
			}
			if dir == "" {
				dir = c.cfg.Export.Dir
			}

			var path string
			switch format {
			case "md":
				path, err = export.SaveMarkdown(dir, n, c.now())
			default:
				path, err = export.SavePDF(dir, n.Title, n.Content, c.cfg.Export.PageOptions())
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "pdf", "pdf or md")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default export.dir)")
	return cmd
}
