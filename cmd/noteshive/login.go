package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/api"
	"github.com/noteshive/noteshive/internal/auth"
	"github.com/noteshive/noteshive/internal/state"
)

func newLoginCmd(c *cli) *cobra.Command {
	var (
		email  string
		otp    string
		google bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an emailed code or a Google account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if google {
				return c.loginGoogle(cmd)
			}

			var err error
			if email, err = c.prompt(cmd, "Email", email); err != nil {
				return err
			}
			if email == "" {
				return errors.New("an email is required")
			}

			anon := c.anon()
			res, err := anon.Login(cmd.Context(), email)
			if err != nil {
				return errors.New(api.ErrorText(err))
			}
			if res.Session == nil {
				if res.Message != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
				}
				res, err = c.verify(cmd, anon, email, otp)
				if err != nil {
					return err
				}
			}
			return c.signedIn(cmd, email, res.Session)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&otp, "otp", "", "one-time code, if already received")
	cmd.Flags().BoolVar(&google, "google", false, "sign in with Google")
	return cmd
}

// verify completes sign-in with the emailed one-time code.
func (c *cli) verify(cmd *cobra.Command, anon *api.Client, email, otp string) (*api.LoginResult, error) {
	otp, err := c.prompt(cmd, "Code", otp)
	if err != nil {
		return nil, err
	}
	if otp == "" {
		return nil, errors.New("enter the code from your email")
	}
	res, err := anon.VerifyOTP(cmd.Context(), email, otp)
	if err != nil {
		return nil, errors.New(api.ErrorText(err))
	}
	return res, nil
}

func (c *cli) loginGoogle(cmd *cobra.Command) error {
	if c.cfg.Google.CredentialsFile == "" {
		return errors.New("google.credentialsFile is not configured")
	}
	flow, err := auth.NewGoogleFlow(c.cfg.Google.CredentialsFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Open this page and approve access:\n\n  %s\n\n", flow.AuthURL())
	code, err := c.prompt(cmd, "Authorization code", "")
	if err != nil {
		return err
	}
	if code == "" {
		return errors.New("an authorization code is required")
	}

	id, err := flow.Exchange(cmd.Context(), code)
	if err != nil {
		return err
	}
	res, err := c.anon().GoogleLogin(cmd.Context(), id)
	if err != nil {
		return errors.New(api.ErrorText(err))
	}
	return c.signedIn(cmd, id.Email, res.Session)
}

// signedIn saves the session and greets the user.
func (c *cli) signedIn(cmd *cobra.Command, email string, sess *auth.Session) error {
	if err := c.sessions().Save(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if email != "" && state.Init() == nil {
		_ = state.SetLastEmail(email)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", sess.User.DisplayName())
	return nil
}
