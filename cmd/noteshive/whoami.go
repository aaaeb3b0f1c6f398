package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/auth"
)

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := c.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, sess.User.DisplayName())
			if sess.User.Email != "" && sess.User.Email != sess.User.DisplayName() {
				fmt.Fprintln(out, sess.User.Email)
			}
			if claims, err := auth.ParseClaims(sess.Token); err == nil && claims.ExpiresAt != nil {
				fmt.Fprintf(out, "Session expires %s\n", claims.ExpiresAt.Local().Format("Jan 2, 2006 15:04"))
			}
			return nil
		},
	}
}
