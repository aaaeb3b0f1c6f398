package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/version"
)

func newVersionCmd(c *cli) *cobra.Command {
	var upgrade string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v := version.Effective(version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "noteshive version %s\n", v)
			if upgrade != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "To install %s: %s\n",
					upgrade, version.UpgradeCommand(upgrade, version.DetectInstallMethod()))
			} else if version.IsDevelopment(v) {
				c.logger.Debug("cli: development build", "version", v)
			}
		},
	}

	cmd.Flags().StringVar(&upgrade, "upgrade", "", "show how to install the given release, e.g. v1.2.0")
	return cmd
}
