package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"wirecore/internal/domain"
)

const contentTypeJSON = "application/json; charset=utf-8"

// HTTP talks to the backend REST API.
type HTTP struct {
	Base string
	HTTP *http.Client
	log  *logrus.Entry
}

// NewHTTP returns a client for base. The login cookie is kept in a cookie
// jar; if hc has none, a copy of hc with a fresh jar is used.
func NewHTTP(base string, hc *http.Client) *HTTP {
	if hc == nil {
		hc = http.DefaultClient
	}
	if hc.Jar == nil {
		withJar := *hc
		withJar.Jar, _ = cookiejar.New(nil)
		hc = &withJar
	}
	return &HTTP{
		Base: strings.TrimRight(base, "/"),
		HTTP: hc,
		log:  logrus.WithField("component", "wire.core.backend"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Label    string `json:"label,omitempty"`
}

type removeCookiesRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Labels   []string `json:"labels,omitempty"`
}

// Login exchanges credentials for an access token and a login cookie.
func (c *HTTP) Login(ctx context.Context, creds domain.Credentials) (*domain.Response, error) {
	q := url.Values{"persist": {"true"}}
	return c.do(ctx, http.MethodPost, "/login", q, "", loginRequest(creds))
}

// RemoveCookies revokes the login cookies with the given labels, or all
// cookies when labels is empty.
func (c *HTTP) RemoveCookies(
	ctx context.Context,
	creds domain.Credentials,
	labels []string,
) (*domain.Response, error) {
	body := removeCookiesRequest{Email: creds.Email, Password: creds.Password, Labels: labels}
	return c.do(ctx, http.MethodPost, "/cookies/remove", nil, "", body)
}

// RegisterClient registers a new client for the authenticated user.
func (c *HTTP) RegisterClient(
	ctx context.Context,
	accessToken string,
	info domain.ClientInfo,
) (*domain.Response, error) {
	return c.do(ctx, http.MethodPost, "/clients", nil, accessToken, info)
}

// GetSelf fetches the authenticated user's profile.
func (c *HTTP) GetSelf(ctx context.Context, accessToken string) (*domain.Response, error) {
	return c.do(ctx, http.MethodGet, "/self", nil, accessToken, nil)
}

// UpdateConnectionStatus changes the connection with other to status.
func (c *HTTP) UpdateConnectionStatus(
	ctx context.Context,
	accessToken string,
	other domain.UserID,
	status domain.ConnectionStatus,
) (*domain.Response, error) {
	body := struct {
		Status domain.ConnectionStatus `json:"status"`
	}{Status: status}
	return c.do(ctx, http.MethodPut, "/connections/"+url.PathEscape(other.String()), nil, accessToken, body)
}

// UpdateClient uploads additional prekeys for client.
func (c *HTTP) UpdateClient(
	ctx context.Context,
	accessToken string,
	client domain.ClientID,
	preKeys []domain.SerializedPreKey,
) (*domain.Response, error) {
	body := struct {
		PreKeys []domain.SerializedPreKey `json:"prekeys"`
	}{PreKeys: preKeys}
	return c.do(ctx, http.MethodPut, "/clients/"+url.PathEscape(client.String()), nil, accessToken, body)
}

// FetchPreKeys claims one prekey per requested client.
func (c *HTTP) FetchPreKeys(
	ctx context.Context,
	accessToken string,
	clients domain.UserClients,
) (*domain.Response, error) {
	return c.do(ctx, http.MethodPost, "/users/prekeys", nil, accessToken, clients)
}

// PostOTRMessage posts encrypted payloads to a conversation.
func (c *HTTP) PostOTRMessage(
	ctx context.Context,
	accessToken string,
	conversation domain.ConversationID,
	msg domain.NewOTRMessage,
	ignoreMissing bool,
) (*domain.Response, error) {
	q := url.Values{"ignore_missing": {strconv.FormatBool(ignoreMissing)}}
	path := "/conversations/" + url.PathEscape(conversation.String()) + "/otr/messages"
	return c.do(ctx, http.MethodPost, path, q, accessToken, msg)
}

func (c *HTTP) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	accessToken string,
	in any,
) (*domain.Response, error) {
	u := c.Base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return nil, err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", BearerHeader(accessToken))
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend %s %s: read body: %w", method, path, err)
	}
	c.log.WithFields(logrus.Fields{"method": method, "path": path, "status": resp.StatusCode}).Debug("backend call")

	out := &domain.Response{Status: resp.StatusCode}
	if raw = bytes.TrimSpace(raw); len(raw) > 0 {
		if !json.Valid(raw) {
			// Plain-text error pages are kept as a JSON string.
			raw, _ = json.Marshal(string(raw))
		}
		out.Body = raw
	}
	return out, nil
}

// BearerHeader returns the Authorization value for token. The stored token
// may be URL-encoded; it is decoded before use.
func BearerHeader(token string) string {
	if decoded, err := url.PathUnescape(token); err == nil {
		token = decoded
	}
	return "Bearer " + token
}

// Compile-time assertion that HTTP implements domain.BackendAPI.
var _ domain.BackendAPI = (*HTTP)(nil)
