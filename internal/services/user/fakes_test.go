package user_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"wirecore/internal/domain"
)

func reply(status int, body any) *domain.Response {
	raw, _ := json.Marshal(body)
	return &domain.Response{Status: status, Body: raw}
}

// fakeBackend replays scripted login statuses and records every call.
type fakeBackend struct {
	loginReplies []*domain.Response
	loginCreds   []domain.Credentials
	calls        []string
	removeCalls  [][]string
	removeReply  *domain.Response
	registerResp *domain.Response
	registered   []domain.ClientInfo
	selfResp     *domain.Response
	connResp     *domain.Response
	connErr      error
	connCalls    []domain.UserID
	updateResp   *domain.Response
	updated      [][]domain.SerializedPreKey
}

func newFakeBackend(loginStatuses ...int) *fakeBackend {
	f := &fakeBackend{
		removeReply:  &domain.Response{Status: 200},
		registerResp: reply(201, domain.ClientRecord{ID: "c0ffee", Type: "permanent"}),
		selfResp:     reply(200, domain.UserProfile{ID: "self-1", Name: "Alice"}),
		connResp:     &domain.Response{Status: 200},
		updateResp:   &domain.Response{Status: 200, Body: json.RawMessage(`{}`)},
	}
	for i, s := range loginStatuses {
		f.loginReplies = append(f.loginReplies, reply(s, map[string]any{
			"access_token": loginToken(i + 1), "token_type": "Bearer", "expires_in": 900,
		}))
	}
	return f
}

// loginToken is the token carried by the nth scripted login reply.
func loginToken(n int) string { return fmt.Sprintf("tok-%d-abcdefghijk", n) }

func (f *fakeBackend) Login(_ context.Context, creds domain.Credentials) (*domain.Response, error) {
	f.loginCreds = append(f.loginCreds, creds)
	f.calls = append(f.calls, "login")
	if len(f.loginReplies) == 0 {
		return nil, errors.New("unexpected login")
	}
	r := f.loginReplies[0]
	f.loginReplies = f.loginReplies[1:]
	return r, nil
}

func (f *fakeBackend) RemoveCookies(_ context.Context, _ domain.Credentials, labels []string) (*domain.Response, error) {
	f.removeCalls = append(f.removeCalls, labels)
	f.calls = append(f.calls, "remove-cookies")
	return f.removeReply, nil
}

func (f *fakeBackend) RegisterClient(_ context.Context, _ string, info domain.ClientInfo) (*domain.Response, error) {
	f.registered = append(f.registered, info)
	return f.registerResp, nil
}

func (f *fakeBackend) GetSelf(context.Context, string) (*domain.Response, error) {
	return f.selfResp, nil
}

func (f *fakeBackend) UpdateConnectionStatus(
	_ context.Context, _ string, other domain.UserID, _ domain.ConnectionStatus,
) (*domain.Response, error) {
	f.connCalls = append(f.connCalls, other)
	return f.connResp, f.connErr
}

func (f *fakeBackend) UpdateClient(
	_ context.Context, _ string, _ domain.ClientID, pks []domain.SerializedPreKey,
) (*domain.Response, error) {
	f.updated = append(f.updated, pks)
	return f.updateResp, nil
}

func (f *fakeBackend) FetchPreKeys(context.Context, string, domain.UserClients) (*domain.Response, error) {
	return nil, errors.New("not used")
}

func (f *fakeBackend) PostOTRMessage(
	context.Context, string, domain.ConversationID, domain.NewOTRMessage, bool,
) (*domain.Response, error) {
	return nil, errors.New("not used")
}

// fakeKeys hands out n regular prekeys plus the last-resort key.
type fakeKeys struct {
	n       int
	next    domain.PreKeyID
	initErr error
}

func (k *fakeKeys) batch(n int) []domain.PreKey {
	out := make([]domain.PreKey, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.PreKey{ID: k.next})
		k.next++
	}
	return out
}

func (k *fakeKeys) Init() ([]domain.PreKey, error) {
	if k.initErr != nil {
		return nil, k.initErr
	}
	return append(k.batch(k.n), domain.PreKey{ID: domain.LastResortPreKeyID}), nil
}

func (k *fakeKeys) LastResortPreKey() (domain.PreKey, error) {
	return domain.PreKey{ID: domain.LastResortPreKeyID}, nil
}

func (k *fakeKeys) NewPreKeys(count int) ([]domain.PreKey, error) { return k.batch(count), nil }

func (k *fakeKeys) SerializePreKey(pk domain.PreKey) (domain.SerializedPreKey, error) {
	key := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("prekey-%d", pk.ID)))
	return domain.SerializedPreKey{ID: pk.ID, Key: key}, nil
}

func (k *fakeKeys) Fingerprint() (domain.Fingerprint, error) { return "00ff", nil }

func (k *fakeKeys) GenerateSignalingKeys() (domain.SignalingKeys, error) {
	return domain.SignalingKeys{EncKey: "ZW5j", MacKey: "bWFj"}, nil
}

type fakeConn struct{ closed int }

func (c *fakeConn) Close() error { c.closed++; return nil }
