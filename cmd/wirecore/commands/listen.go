package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wirecore/internal/domain"
	domaintypes "wirecore/internal/domain/types"
	"wirecore/internal/realtime"
)

// listen follows the notification stream until interrupted. Pending
// connection requests are accepted as they arrive.
func listenCmd() *cobra.Command {
	var autoConnect bool
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Follow notifications and accept connection requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := readySession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			conn, err := appCtx.DialRealtime(ctx, session)
			if err != nil {
				return err
			}
			defer conn.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Listening, press Ctrl-C to stop")
			for {
				select {
				case <-ctx.Done():
					return nil
				case n, ok := <-conn.Notifications():
					if !ok {
						return fmt.Errorf("notification stream closed")
					}
					for _, raw := range n.Payload {
						fmt.Fprintf(out, "[%s] %s\n", domaintypes.EventType(raw), raw)
					}
					if !autoConnect {
						continue
					}
					for _, ev := range realtime.ConnectionEvents(n) {
						handleConnection(cmd, session, ev)
					}
				}
			}
		},
	}
	cmd.Flags().BoolVar(&autoConnect, "auto-connect", true, "accept pending connection requests")
	return cmd
}

func handleConnection(cmd *cobra.Command, session *domain.Session, ev domain.ConnectionEvent) {
	res := appCtx.Users.AutoConnect(cmd.Context(), session, ev)
	if res.Err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "connection with %s: %s (%v)\n", res.OtherUserID, res.Outcome, res.Err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "connection with %s: %s\n", res.OtherUserID, res.Outcome)
}
