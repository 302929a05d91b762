package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wirecore/internal/domain"
	"wirecore/internal/services/conversation"
)

// parsePayload splits "<user>@<client>=<ciphertext>".
func parsePayload(s string) (domain.RecipientPayload, error) {
	sid, blob, ok := strings.Cut(s, "=")
	if !ok || !strings.Contains(sid, "@") {
		return domain.RecipientPayload{}, fmt.Errorf("bad payload %q, want user@client=ciphertext", s)
	}
	return domain.RecipientPayload{SessionID: sid, EncryptedPayload: blob}, nil
}

// send <conversation> --payload user@client=ciphertext ...
func sendCmd() *cobra.Command {
	var raw []string
	cmd := &cobra.Command{
		Use:   "send <conversation>",
		Short: "Post pre-encrypted payloads to a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := readySession()
			if err != nil {
				return err
			}
			payloads := make([]domain.RecipientPayload, 0, len(raw))
			for _, r := range raw {
				p, err := parsePayload(r)
				if err != nil {
					return err
				}
				payloads = append(payloads, p)
			}

			resp, err := appCtx.Conversations.SendMessage(cmd.Context(), session, domain.ConversationID(args[0]), payloads)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status %d\n", resp.Status)
			if mm, ok := conversation.Mismatch(resp); ok {
				for u, cs := range mm.Missing {
					fmt.Fprintf(out, "missing %s: %v\n", u, cs)
				}
				for u, cs := range mm.Redundant {
					fmt.Fprintf(out, "redundant %s: %v\n", u, cs)
				}
				for u, cs := range mm.Deleted {
					fmt.Fprintf(out, "deleted %s: %v\n", u, cs)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&raw, "payload", nil, "user@client=ciphertext (repeatable)")
	return cmd
}
