package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/notes"
)

func newGenerateCmd(c *cli) *cobra.Command {
	var (
		seed  string
		apply bool
	)

	cmd := &cobra.Command{
		Use:   "generate [id]",
		Short: "Extend a note's content with the assistant",
		Long: `Asks the service to continue a note's content and prints the result.
With --apply the note is updated with the generated content. Without an id,
--seed supplies the text to extend.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && apply {
				return errors.New("--apply needs a note id")
			}

			var store *notes.Store
			sess := notes.NewSession()
			if len(args) == 1 {
				var (
					n   notes.Note
					err error
				)
				store, n, err = c.findNote(cmd, args[0])
				if err != nil {
					return err
				}
				if err := sess.EditNote(n); err != nil {
					return err
				}
			} else {
				client, _, err := c.client()
				if err != nil {
					return err
				}
				store = notes.NewStore(client, c.logger)
				_ = sess.Compose()
				_ = sess.SetContent(seed)
			}

			ticket, err := sess.BeginGenerate()
			if errors.Is(err, notes.ErrEmptyContent) {
				return errors.New("nothing to generate from; the content is empty")
			}
			if err != nil {
				return err
			}
			text, err := ticket.Run(cmd.Context(), store.Service())
			sess.FinishGenerate(ticket, text, err)
			if err != nil {
				return failure(err)
			}

			if !apply {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			if err := sess.ApplyGenerated(); err != nil {
				return err
			}
			draft, _ := sess.Draft()
			if err := c.save(cmd, store, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q with generated content\n", displayTitle(draft.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&seed, "seed", "", "text to extend when no note id is given")
	cmd.Flags().BoolVar(&apply, "apply", false, "replace the note's content with the result")
	return cmd
}
