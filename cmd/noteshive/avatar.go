package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAvatarCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <image>",
		Short: "Upload a new profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, sess, err := c.client()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			url, err := client.UploadProfilePicture(cmd.Context(), f.Name(), f)
			if err != nil {
				return failure(err)
			}
			sess.User.ProfilePicture = url
			if err := c.sessions().Save(sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
