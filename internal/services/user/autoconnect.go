package user

import (
	"context"
	"fmt"

	"wirecore/internal/domain"
)

// AutoConnectOutcome says what AutoConnect did with an event.
type AutoConnectOutcome int

const (
	// AutoConnectIgnored: the connection was not pending; no request was made.
	AutoConnectIgnored AutoConnectOutcome = iota
	// AutoConnectAccepted: the pending connection was accepted.
	AutoConnectAccepted
	// AutoConnectFailed: accepting failed; see AutoConnectResult.Err.
	AutoConnectFailed
)

func (o AutoConnectOutcome) String() string {
	switch o {
	case AutoConnectIgnored:
		return "ignored"
	case AutoConnectAccepted:
		return "accepted"
	case AutoConnectFailed:
		return "failed"
	}
	return fmt.Sprintf("AutoConnectOutcome(%d)", int(o))
}

// AutoConnectResult reports the outcome of a best-effort auto-connect.
type AutoConnectResult struct {
	Outcome     AutoConnectOutcome
	OtherUserID domain.UserID
	Response    *domain.Response
	Err         error
}

// AutoConnect accepts ev's connection if it is pending. It never returns an
// error: failures are logged and reported in the result only.
func (s *Service) AutoConnect(
	ctx context.Context,
	session *domain.Session,
	ev domain.ConnectionEvent,
) AutoConnectResult {
	res := AutoConnectResult{OtherUserID: counterpart(session.SelfID(), ev.Connection)}
	if ev.Connection.Status != domain.ConnectionPending {
		return res
	}

	resp, err := s.api.UpdateConnectionStatus(ctx, session.AccessToken, res.OtherUserID, domain.ConnectionAccepted)
	res.Response = resp
	switch {
	case err != nil:
		res.Outcome, res.Err = AutoConnectFailed, err
	case !resp.OK():
		res.Outcome, res.Err = AutoConnectFailed, fmt.Errorf("update connection: status %d", resp.Status)
	default:
		res.Outcome = AutoConnectAccepted
		s.log.WithField("user", res.OtherUserID).Info("Auto-connection successful.")
		return res
	}
	s.log.WithError(res.Err).WithField("user", res.OtherUserID).Warn("Auto-connection failed.")
	return res
}

// counterpart is the participant of c that is not self. When self is not a
// participant the recipient side is returned.
func counterpart(self domain.UserID, c domain.Connection) domain.UserID {
	if c.To == self {
		return c.From
	}
	return c.To
}
