package user

import (
	"fmt"

	"wirecore/internal/domain"
)

// RateLimitError is returned when login is still rate limited after the
// configured number of retries.
type RateLimitError struct {
	Attempts int
	Response *domain.Response
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("login rate limited after %d attempt(s)%s", e.Attempts, describe(e.Response))
}

// AuthenticationError is returned for a non-2xx login or profile response,
// or a login response without an access token.
type AuthenticationError struct {
	Response *domain.Response
}

func (e *AuthenticationError) Error() string {
	return "authentication failed" + describe(e.Response)
}

// RegistrationError is returned when the backend rejects a client
// registration or prekey upload. Response is the raw reply.
type RegistrationError struct {
	Op       string
	Response *domain.Response
}

func (e *RegistrationError) Error() string {
	return e.Op + " rejected" + describe(e.Response)
}

// LogoutIncompleteError is returned when cookie removal did not answer 200.
// The session is left untouched and the real-time connection stays open.
type LogoutIncompleteError struct {
	Response *domain.Response
}

func (e *LogoutIncompleteError) Error() string {
	return "logout not completed" + describe(e.Response)
}

func describe(resp *domain.Response) string {
	if resp == nil {
		return ""
	}
	body := string(resp.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf(": status %d", resp.Status)
	}
	return fmt.Sprintf(": status %d: %s", resp.Status, body)
}
