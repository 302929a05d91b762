package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirecore/internal/domain"
	"wirecore/internal/services/user"
)

func connEvent(from, to domain.UserID, status domain.ConnectionStatus) domain.ConnectionEvent {
	return domain.ConnectionEvent{
		Type:       domain.EventTypeConnection,
		Connection: domain.Connection{From: from, To: to, Status: status},
	}
}

func TestAutoConnect_AcceptsPending(t *testing.T) {
	api := newFakeBackend()
	svc := user.New(api, &fakeKeys{})

	res := svc.AutoConnect(context.Background(), readySession(), connEvent("me", "bob", domain.ConnectionPending))

	assert.Equal(t, user.AutoConnectAccepted, res.Outcome)
	assert.Equal(t, domain.UserID("bob"), res.OtherUserID)
	assert.NoError(t, res.Err)
	assert.Equal(t, []domain.UserID{"bob"}, api.connCalls)
}

func TestAutoConnect_CounterpartFromEitherSide(t *testing.T) {
	api := newFakeBackend()
	svc := user.New(api, &fakeKeys{})

	res := svc.AutoConnect(context.Background(), readySession(), connEvent("carol", "me", domain.ConnectionPending))

	assert.Equal(t, domain.UserID("carol"), res.OtherUserID)
	assert.Equal(t, []domain.UserID{"carol"}, api.connCalls)
}

func TestAutoConnect_IgnoresNonPending(t *testing.T) {
	api := newFakeBackend()
	svc := user.New(api, &fakeKeys{})

	for _, st := range []domain.ConnectionStatus{
		domain.ConnectionAccepted, "sent", "blocked", "ignored",
	} {
		res := svc.AutoConnect(context.Background(), readySession(), connEvent("me", "bob", st))
		assert.Equal(t, user.AutoConnectIgnored, res.Outcome, st)
	}
	assert.Empty(t, api.connCalls)
}

func TestAutoConnect_FailureIsReportedNotReturned(t *testing.T) {
	api := newFakeBackend()
	api.connErr = errors.New("connection reset")
	svc := user.New(api, &fakeKeys{})

	res := svc.AutoConnect(context.Background(), readySession(), connEvent("me", "bob", domain.ConnectionPending))

	assert.Equal(t, user.AutoConnectFailed, res.Outcome)
	require.Error(t, res.Err)

	api.connErr = nil
	api.connResp = &domain.Response{Status: 404}
	res = svc.AutoConnect(context.Background(), readySession(), connEvent("me", "bob", domain.ConnectionPending))
	assert.Equal(t, user.AutoConnectFailed, res.Outcome)
	assert.Equal(t, 404, res.Response.Status)
}
