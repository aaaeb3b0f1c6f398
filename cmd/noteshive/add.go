package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/notes"
)

func newAddCmd(c *cli) *cobra.Command {
	var title, content, file string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Long: `Creates a note. Content comes from --content, from --file, or from stdin
when --file is "-".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("file") {
				text, err := c.readContent(file)
				if err != nil {
					return err
				}
				content = text
			}

			store, err := c.store(cmd)
			if err != nil {
				return err
			}
			sess := notes.NewSession()
			if err := sess.Compose(); err != nil {
				return err
			}
			_ = sess.SetTitle(title)
			_ = sess.SetContent(content)
			if err := c.save(cmd, store, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%d notes)\n", displayTitle(title), len(store.Notes()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "note content")
	cmd.Flags().StringVarP(&file, "file", "f", "", `read content from a file ("-" for stdin)`)
	return cmd
}

// readContent reads a note body from path, or from stdin when path is "-".
func (c *cli) readContent(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(c.in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// save persists the session's draft and reports a failure as its user message.
func (c *cli) save(cmd *cobra.Command, store *notes.Store, sess *notes.Session) error {
	ticket, err := sess.BeginSave()
	if err != nil {
		return err
	}
	err = ticket.Persist(cmd.Context(), store)
	sess.FinishSave(ticket, err)
	if err != nil {
		return failure(err)
	}
	if err := store.Err(); err != nil {
		c.logger.Warn("cli: refresh after save failed", "error", err)
	}
	return nil
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Untitled"
	}
	return title
}
