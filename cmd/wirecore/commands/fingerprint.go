package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fingerprintCmd prints the identity fingerprint, plus the registered client
// id when a session has been saved, so two devices can be compared by eye.
func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Show this device's identity fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fp, err := appCtx.Users.Fingerprint()
			if err != nil {
				return fmt.Errorf("read identity: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "identity  %s\n", fp)

			session, err := appCtx.LoadSession()
			if err != nil {
				return err
			}
			if session.Client != nil {
				fmt.Fprintf(out, "client    %s\n", session.ClientID())
			}
			return nil
		},
	}
}
