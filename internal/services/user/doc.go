// Package user bootstraps an authenticated, key-provisioned session.
//
// Login runs a fixed pipeline against the backend and the key store:
//
//	Unauthenticated -> LoginPending -> (RateLimited -> LoginPending)
//	  -> TokenAcquired -> KeyMaterialGenerated -> SignalingKeyGenerated
//	  -> ClientRegistered -> Ready
//
// Each step starts only after the previous one succeeded. The first failing
// step's error is returned and nothing is rolled back: the session keeps
// whatever the completed steps wrote (an access token may be set even though
// client registration failed).
//
// A 429 on login removes the user's login cookies and retries. The number of
// retries is bounded (DefaultMaxLoginRetries, one by default); a 429 after the
// last retry fails with *RateLimitError instead of looping.
//
// Logout revokes the session's cookie and, only on HTTP 200, closes the
// real-time connection and clears the session. Any other status is reported
// as *LogoutIncompleteError.
//
// AutoConnect accepts pending connection requests. It is best effort: the
// outcome is reported in AutoConnectResult and never returned as an error.
package user
