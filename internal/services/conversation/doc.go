// Package conversation routes end-to-end encrypted payloads to recipient
// devices through the backend.
//
// Encryption happens elsewhere: the payloads handed to SendMessage are
// already opaque ciphertext, each addressed to one "<userId>@<clientId>"
// session. SendMessage groups them by user and client and posts a single
// message to the conversation. GetPreKeys fetches one prekey per device so a
// caller can start sessions with devices it has not talked to yet.
package conversation
