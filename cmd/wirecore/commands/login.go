package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wirecore/internal/services/user"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and register this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appCtx.Config
			if cfg.Email == "" || cfg.Password == "" {
				return fmt.Errorf("email and password required (WIRECORE_EMAIL / WIRECORE_PASSWORD)")
			}
			if cfg.Passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}

			session := cfg.NewSession()
			self, err := appCtx.Users.Login(cmd.Context(), session)
			if session.AccessToken != "" {
				// Keep partial progress so a later run can inspect it.
				if serr := appCtx.SaveSession(session); serr != nil {
					logger(cmd).WithError(serr).Warn("Saving session failed.")
				}
			}
			var rl *user.RateLimitError
			if errors.As(err, &rl) {
				return fmt.Errorf("%w (try again later)", err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", self.Name, self.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Client: %s\n", session.ClientID())
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke this device's login cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := readySession()
			if err != nil {
				return err
			}
			if err := appCtx.Users.Logout(cmd.Context(), session); err != nil {
				var inc *user.LogoutIncompleteError
				if errors.As(err, &inc) {
					logger(cmd).WithField("status", inc.Response.Status).Warn("Session kept, logout may be retried.")
				}
				return err
			}
			if err := appCtx.ForgetSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
