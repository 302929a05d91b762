package interfaces

import (
	"context"

	domaintypes "wirecore/internal/domain/types"
)

// BackendAPI is the REST surface of the messaging backend the core talks to.
//
// Transport failures are returned as errors. Any HTTP reply, including
// non-2xx, comes back as a Response so callers can react to the status.
type BackendAPI interface {
	Login(ctx context.Context, creds domaintypes.Credentials) (*domaintypes.Response, error)
	RemoveCookies(
		ctx context.Context,
		creds domaintypes.Credentials,
		labels []string,
	) (*domaintypes.Response, error)
	RegisterClient(
		ctx context.Context,
		accessToken string,
		info domaintypes.ClientInfo,
	) (*domaintypes.Response, error)
	GetSelf(ctx context.Context, accessToken string) (*domaintypes.Response, error)
	UpdateConnectionStatus(
		ctx context.Context,
		accessToken string,
		other domaintypes.UserID,
		status domaintypes.ConnectionStatus,
	) (*domaintypes.Response, error)
	UpdateClient(
		ctx context.Context,
		accessToken string,
		client domaintypes.ClientID,
		preKeys []domaintypes.SerializedPreKey,
	) (*domaintypes.Response, error)
	FetchPreKeys(
		ctx context.Context,
		accessToken string,
		clients domaintypes.UserClients,
	) (*domaintypes.Response, error)
	PostOTRMessage(
		ctx context.Context,
		accessToken string,
		conversation domaintypes.ConversationID,
		msg domaintypes.NewOTRMessage,
		ignoreMissing bool,
	) (*domaintypes.Response, error)
}

// RealtimeConn is the live notification channel bound to a session.
type RealtimeConn interface {
	Close() error
}
