package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/api"
)

const dobLayout = "2006-01-02"

func newSignupCmd(c *cli) *cobra.Command {
	var name, email, dob, otp string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and verify it with the emailed code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name, err = c.prompt(cmd, "Name", name); err != nil {
				return err
			}
			if email, err = c.prompt(cmd, "Email", email); err != nil {
				return err
			}
			if dob, err = c.prompt(cmd, "Date of birth (YYYY-MM-DD)", dob); err != nil {
				return err
			}
			if name == "" || email == "" || dob == "" {
				return errors.New("name, email and date of birth are required")
			}
			if _, err := time.Parse(dobLayout, dob); err != nil {
				return errors.New("date of birth must be YYYY-MM-DD")
			}

			anon := c.anon()
			message, err := anon.Signup(cmd.Context(), api.SignupRequest{Name: name, Email: email, DOB: dob})
			if err != nil {
				return errors.New(api.ErrorText(err))
			}
			if message != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), message)
			}

			res, err := c.verify(cmd, anon, email, otp)
			if err != nil {
				return err
			}
			return c.signedIn(cmd, email, res.Session)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&dob, "dob", "", "date of birth, YYYY-MM-DD")
	cmd.Flags().StringVar(&otp, "otp", "", "one-time code, if already received")
	return cmd
}
