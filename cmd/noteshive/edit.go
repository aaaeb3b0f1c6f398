package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/notes"
)

var errNothingToChange = errors.New("nothing to change; pass --title, --content or --file")

func newEditCmd(c *cli) *cobra.Command {
	var title, content, file string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("content") && !flags.Changed("file") {
				return errNothingToChange
			}
			if flags.Changed("file") {
				text, err := c.readContent(file)
				if err != nil {
					return err
				}
				content = text
			}

			store, n, err := c.findNote(cmd, args[0])
			if err != nil {
				return err
			}
			sess := notes.NewSession()
			if err := sess.EditNote(n); err != nil {
				return err
			}
			if flags.Changed("title") {
				_ = sess.SetTitle(title)
			}
			if flags.Changed("content") || flags.Changed("file") {
				_ = sess.SetContent(content)
			}
			draft, _ := sess.Draft()
			if err := c.save(cmd, store, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", displayTitle(draft.Title))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new content")
	cmd.Flags().StringVarP(&file, "file", "f", "", `read content from a file ("-" for stdin)`)
	return cmd
}
