package interfaces

import (
	"context"
	"encoding/json"

	domaintypes "wirecore/internal/domain/types"
)

// UserService drives login, logout and client key maintenance.
type UserService interface {
	Login(ctx context.Context, session *domaintypes.Session) (domaintypes.UserProfile, error)
	Logout(ctx context.Context, session *domaintypes.Session) error
	UploadPreKeys(
		ctx context.Context,
		session *domaintypes.Session,
		preKeys []domaintypes.SerializedPreKey,
	) (json.RawMessage, error)
	ReplenishPreKeys(
		ctx context.Context,
		session *domaintypes.Session,
		count int,
	) ([]domaintypes.SerializedPreKey, error)
}

// ConversationService fans encrypted payloads out to recipient devices.
type ConversationService interface {
	SendMessage(
		ctx context.Context,
		session *domaintypes.Session,
		conversation domaintypes.ConversationID,
		payloads []domaintypes.RecipientPayload,
	) (*domaintypes.Response, error)
	GetPreKeys(
		ctx context.Context,
		session *domaintypes.Session,
		clients domaintypes.UserClients,
	) (domaintypes.PreKeyMap, error)
}
