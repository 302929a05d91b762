// Package backend provides the HTTP implementation of the domain.BackendAPI
// interface.
//
// Supported operations:
//   - Logging in and removing login cookies.
//   - Registering a client and uploading replenishment prekeys.
//   - Fetching the authenticated user's profile.
//   - Updating connection status with another user.
//   - Bulk prekey lookup for other users' clients.
//   - Posting OTR messages to a conversation.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Bearer tokens are URL-decoded before being placed in the
// Authorization header. Unlike a typical client, non-2xx replies are not
// turned into errors here: they are returned as a domain.Response so the
// services can apply their own status policy (rate-limit retry, 200-only
// prekey upload). Only transport and decoding failures are errors.
package backend
