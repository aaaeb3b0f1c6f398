package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/notes"
)

func newRmCmd(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete one or more notes",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.store(cmd)
			if err != nil {
				return err
			}

			var (
				targets []notes.Note
				failed  int
			)
			seen := make(map[string]bool, len(args))
			for _, id := range args {
				if seen[id] {
					continue
				}
				seen[id] = true
				n, ok := store.Find(id)
				if !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "no note with id %q\n", id)
					failed++
					continue
				}
				targets = append(targets, n)
			}
			if len(targets) == 0 {
				return errors.New("nothing to delete")
			}

			if !yes {
				question := fmt.Sprintf("Delete %q? [y/N]", displayTitle(targets[0].Title))
				if len(targets) > 1 {
					question = fmt.Sprintf("Delete %d notes? [y/N]", len(targets))
				}
				answer, err := c.prompt(cmd, question, "")
				if err != nil {
					return err
				}
				if a := strings.ToLower(answer); a != "y" && a != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			for _, n := range targets {
				if err := store.Delete(cmd.Context(), n.ID); err != nil {
					if err := failure(err); err == errSessionExpired {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", n.ID, notes.UserMessage(err))
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", displayTitle(n.Title))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d notes not deleted", failed, len(seen))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
