package domain

import "errors"

// ErrSessionNotReady is returned by operations that need an access token and
// a registered client before login has produced them.
var ErrSessionNotReady = errors.New("session has no access token or registered client")
