package conversation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"wirecore/internal/domain"
)

// Service implements the payload router.
type Service struct {
	api domain.BackendAPI
	log *logrus.Entry
}

// New returns a Service posting through api.
func New(api domain.BackendAPI) *Service {
	return &Service{
		api: api,
		log: logrus.WithField("component", "wire.core.conversation"),
	}
}

// SendMessage posts payloads to conversation as one message from the
// session's client. The backend response is returned as is, including 412
// client mismatch replies; only transport failures are errors.
func (s *Service) SendMessage(
	ctx context.Context,
	session *domain.Session,
	conversation domain.ConversationID,
	payloads []domain.RecipientPayload,
) (*domain.Response, error) {
	if !session.Ready() {
		return nil, domain.ErrSessionNotReady
	}
	msg := domain.NewOTRMessage{
		Sender:     session.ClientID(),
		Recipients: BuildRecipientMap(payloads),
	}
	tol := DeliveryToleranceFor(msg.Recipients)

	s.log.WithFields(logrus.Fields{
		"conversation": conversation,
		"recipients":   len(payloads),
		"delivery":     tol,
	}).Debug("Sending OTR message.")

	resp, err := s.api.PostOTRMessage(ctx, session.AccessToken, conversation, msg, tol.IgnoreMissing())
	if err != nil {
		return nil, fmt.Errorf("send message to %s: %w", conversation, err)
	}
	return resp, nil
}

// Mismatch decodes the client mismatch report from a send response. It
// returns false when the body carries none.
func Mismatch(resp *domain.Response) (domain.ClientMismatch, bool) {
	var m domain.ClientMismatch
	if err := resp.Decode(&m); err != nil {
		return domain.ClientMismatch{}, false
	}
	if len(m.Missing) == 0 && len(m.Redundant) == 0 && len(m.Deleted) == 0 {
		return m, false
	}
	return m, true
}

// GetPreKeys fetches one prekey for each listed device.
func (s *Service) GetPreKeys(
	ctx context.Context,
	session *domain.Session,
	clients domain.UserClients,
) (domain.PreKeyMap, error) {
	if session.AccessToken == "" {
		return nil, domain.ErrSessionNotReady
	}
	resp, err := s.api.FetchPreKeys(ctx, session.AccessToken, clients)
	if err != nil {
		return nil, fmt.Errorf("fetch prekeys: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch prekeys: status %d: %s", resp.Status, resp.Body)
	}
	out := domain.PreKeyMap{}
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode prekeys: %w", err)
	}
	return out, nil
}

// Compile-time assertion that Service implements domain.ConversationService.
var _ domain.ConversationService = (*Service)(nil)
