package domain

import (
	interfaces "wirecore/internal/domain/interfaces"
	types "wirecore/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	UserID           = types.UserID
	ClientID         = types.ClientID
	ConversationID   = types.ConversationID
	Fingerprint      = types.Fingerprint
	PreKeyID         = types.PreKeyID
	PreKey           = types.PreKey
	SerializedPreKey = types.SerializedPreKey
	PreKeyMap        = types.PreKeyMap
	UserClients      = types.UserClients
	Identity         = types.Identity
	Credentials      = types.Credentials
	SignalingKeys    = types.SignalingKeys
	ClientInfo       = types.ClientInfo
	ClientRecord     = types.ClientRecord
	UserProfile      = types.UserProfile
	Session          = types.Session
	RecipientPayload = types.RecipientPayload
	RecipientMap     = types.RecipientMap
	NewOTRMessage    = types.NewOTRMessage
	ClientMismatch   = types.ClientMismatch
	Response         = types.Response
	ConnectionStatus = types.ConnectionStatus
	Connection       = types.Connection
	ConnectionEvent  = types.ConnectionEvent
	Notification     = types.Notification
	X25519Public     = types.X25519Public
	X25519Private    = types.X25519Private
	Ed25519Public    = types.Ed25519Public
	Ed25519Private   = types.Ed25519Private
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	BackendAPI          = interfaces.BackendAPI
	RealtimeConn        = interfaces.RealtimeConn
	KeyStore            = interfaces.KeyStore
	UserService         = interfaces.UserService
	ConversationService = interfaces.ConversationService
	IdentityStore       = interfaces.IdentityStore
	PreKeyStore         = interfaces.PreKeyStore
	SessionStore        = interfaces.SessionStore
)

// Re-exported constants.
const (
	LastResortPreKeyID  = types.LastResortPreKeyID
	EventTypeConnection = types.EventTypeConnection

	ConnectionPending  = types.ConnectionPending
	ConnectionAccepted = types.ConnectionAccepted
	ConnectionSent     = types.ConnectionSent
	ConnectionBlocked  = types.ConnectionBlocked
	ConnectionIgnored  = types.ConnectionIgnored

	ClientTypePermanent = types.ClientTypePermanent
	ClientTypeTemporary = types.ClientTypeTemporary
	ClientClassDesktop  = types.ClientClassDesktop
	ClientClassPhone    = types.ClientClassPhone
	ClientClassTablet   = types.ClientClassTablet
)
