package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/ui"
)

const listTitleWidth = 40

func newListCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.store(cmd)
			if err != nil {
				return err
			}
			all := store.Notes()

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(all)
			}

			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No Notes Yet")
				return nil
			}
			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("ID", "CREATED", "TITLE")
			for _, n := range all {
				title := n.Title
				if title == "" {
					title = "Untitled"
				}
				t.Row(n.ID, n.CreatedAt.Local().Format("Jan 2, 2006"), ui.Truncate(title, listTitleWidth))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
