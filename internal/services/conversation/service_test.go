package conversation_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirecore/internal/domain"
	"wirecore/internal/services/conversation"
)

type postCall struct {
	token         string
	conversation  domain.ConversationID
	msg           domain.NewOTRMessage
	ignoreMissing bool
}

type fakeBackend struct {
	domain.BackendAPI

	posts    []postCall
	postResp *domain.Response
	postErr  error

	fetched   domain.UserClients
	fetchResp *domain.Response
}

func (f *fakeBackend) PostOTRMessage(
	_ context.Context, token string, conv domain.ConversationID, msg domain.NewOTRMessage, ignore bool,
) (*domain.Response, error) {
	f.posts = append(f.posts, postCall{token, conv, msg, ignore})
	return f.postResp, f.postErr
}

func (f *fakeBackend) FetchPreKeys(_ context.Context, _ string, clients domain.UserClients) (*domain.Response, error) {
	f.fetched = clients
	return f.fetchResp, nil
}

func readySession() *domain.Session {
	return &domain.Session{
		AccessToken: "tok",
		Client:      &domain.ClientRecord{ID: "sender1"},
	}
}

func TestBuildRecipientMap_GroupsByUserAndClient(t *testing.T) {
	got := conversation.BuildRecipientMap([]domain.RecipientPayload{
		{SessionID: "u1@c1", EncryptedPayload: "A"},
		{SessionID: "u1@c2", EncryptedPayload: "B"},
		{SessionID: "u2@c9", EncryptedPayload: "C"},
	})

	assert.Equal(t, domain.RecipientMap{
		"u1": {"c1": "A", "c2": "B"},
		"u2": {"c9": "C"},
	}, got)
}

func TestBuildRecipientMap_EmptyIsNonNil(t *testing.T) {
	got := conversation.BuildRecipientMap(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)

	raw, err := json.Marshal(domain.NewOTRMessage{Sender: "c", Recipients: got})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sender":"c","recipients":{}}`, string(raw))
}

func TestBuildRecipientMap_LastDuplicateWins(t *testing.T) {
	got := conversation.BuildRecipientMap([]domain.RecipientPayload{
		{SessionID: "u1@c1", EncryptedPayload: "first"},
		{SessionID: "u1@c1", EncryptedPayload: "second"},
	})
	assert.Equal(t, "second", got["u1"]["c1"])
}

func TestBuildRecipientMap_SplitsOnFirstAt(t *testing.T) {
	got := conversation.BuildRecipientMap([]domain.RecipientPayload{
		{SessionID: "u1@c@1", EncryptedPayload: "X"},
	})
	assert.Equal(t, "X", got["u1"]["c@1"])
}

func TestDeliveryToleranceFor(t *testing.T) {
	empty := conversation.BuildRecipientMap(nil)
	assert.Equal(t, conversation.StrictIfEmpty, conversation.DeliveryToleranceFor(empty))
	assert.False(t, conversation.DeliveryToleranceFor(empty).IgnoreMissing())
	assert.False(t, conversation.DeliveryToleranceFor(nil).IgnoreMissing())

	one := domain.RecipientMap{"u1": {"c1": "A"}}
	assert.Equal(t, conversation.TolerantIfAny, conversation.DeliveryToleranceFor(one))
	assert.True(t, conversation.DeliveryToleranceFor(one).IgnoreMissing())
}

func TestSendMessage_PostsRoutedPayloads(t *testing.T) {
	api := &fakeBackend{postResp: &domain.Response{Status: 201, Body: json.RawMessage(`{"time":"t"}`)}}
	svc := conversation.New(api)

	resp, err := svc.SendMessage(context.Background(), readySession(), "conv1", []domain.RecipientPayload{
		{SessionID: "u1@c1", EncryptedPayload: "A"},
		{SessionID: "u1@c2", EncryptedPayload: "B"},
		{SessionID: "u2@c9", EncryptedPayload: "C"},
	})
	require.NoError(t, err)
	assert.Same(t, api.postResp, resp)

	require.Len(t, api.posts, 1)
	call := api.posts[0]
	assert.Equal(t, "tok", call.token)
	assert.Equal(t, domain.ConversationID("conv1"), call.conversation)
	assert.Equal(t, domain.ClientID("sender1"), call.msg.Sender)
	assert.True(t, call.ignoreMissing)
	assert.Len(t, call.msg.Recipients, 2)
}

func TestSendMessage_EmptyIsStrict(t *testing.T) {
	api := &fakeBackend{postResp: &domain.Response{Status: 412}}
	svc := conversation.New(api)

	resp, err := svc.SendMessage(context.Background(), readySession(), "conv1", nil)
	require.NoError(t, err)
	assert.Equal(t, 412, resp.Status)

	require.Len(t, api.posts, 1)
	assert.False(t, api.posts[0].ignoreMissing)
	assert.NotNil(t, api.posts[0].msg.Recipients)
}

func TestSendMessage_NotReady(t *testing.T) {
	api := &fakeBackend{}
	svc := conversation.New(api)

	_, err := svc.SendMessage(context.Background(), &domain.Session{AccessToken: "tok"}, "conv1", nil)
	assert.ErrorIs(t, err, domain.ErrSessionNotReady)
	assert.Empty(t, api.posts)
}

func TestSendMessage_TransportErrorWrapped(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	svc := conversation.New(&fakeBackend{postErr: boom})

	_, err := svc.SendMessage(context.Background(), readySession(), "conv1", nil)
	assert.ErrorIs(t, err, boom)
}

func TestMismatch(t *testing.T) {
	resp := &domain.Response{Status: 412, Body: json.RawMessage(`{"time":"t","missing":{"u3":["c7"]},"redundant":{},"deleted":{}}`)}
	m, ok := conversation.Mismatch(resp)
	require.True(t, ok)
	assert.Equal(t, []domain.ClientID{"c7"}, m.Missing["u3"])

	_, ok = conversation.Mismatch(&domain.Response{Status: 201, Body: json.RawMessage(`{"time":"t"}`)})
	assert.False(t, ok)
}

func TestGetPreKeys(t *testing.T) {
	api := &fakeBackend{fetchResp: &domain.Response{
		Status: 200,
		Body:   json.RawMessage(`{"u1":{"c1":{"id":3,"key":"AQ=="},"c2":null}}`),
	}}
	svc := conversation.New(api)

	want := domain.UserClients{"u1": {"c1", "c2"}}
	got, err := svc.GetPreKeys(context.Background(), readySession(), want)
	require.NoError(t, err)

	assert.Equal(t, want, api.fetched)
	require.NotNil(t, got["u1"]["c1"])
	assert.Equal(t, domain.PreKeyID(3), got["u1"]["c1"].ID)
	assert.Nil(t, got["u1"]["c2"])
}

func TestGetPreKeys_Non2xx(t *testing.T) {
	svc := conversation.New(&fakeBackend{fetchResp: &domain.Response{Status: 403}})
	_, err := svc.GetPreKeys(context.Background(), readySession(), domain.UserClients{"u": {"c"}})
	assert.Error(t, err)
}
