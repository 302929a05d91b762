package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wirecore/internal/domain"
)

func preKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prekeys",
		Short: "Manage prekeys",
	}
	cmd.AddCommand(preKeysUploadCmd(), preKeysFetchCmd())
	return cmd
}

func preKeysUploadCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Generate and upload a batch of new prekeys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			session, err := readySession()
			if err != nil {
				return err
			}
			pks, err := appCtx.Users.ReplenishPreKeys(cmd.Context(), session, count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d prekeys (ids %d..%d)\n", len(pks), pks[0].ID, pks[len(pks)-1].ID)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 20, "number of prekeys")
	return cmd
}

// parseUserClients reads "user:client1,client2" arguments.
func parseUserClients(args []string) (domain.UserClients, error) {
	out := domain.UserClients{}
	for _, a := range args {
		u, cs, ok := strings.Cut(a, ":")
		if !ok || u == "" || cs == "" {
			return nil, fmt.Errorf("bad argument %q, want user:client[,client]", a)
		}
		for _, c := range strings.Split(cs, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out[domain.UserID(u)] = append(out[domain.UserID(u)], domain.ClientID(c))
			}
		}
	}
	return out, nil
}

func preKeysFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <user:client[,client]>...",
		Short: "Claim one prekey per listed device",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := parseUserClients(args)
			if err != nil {
				return err
			}
			session, err := readySession()
			if err != nil {
				return err
			}
			pks, err := appCtx.Conversations.GetPreKeys(cmd.Context(), session, clients)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pks)
		},
	}
}
