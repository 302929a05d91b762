// Command backend runs the in-memory development backend.
//
// It serves the REST and websocket API the wirecore CLI talks to, so the
// whole login, prekey and messaging flow can be exercised locally:
//
//	backend --addr :8080 --user alice@example.com:password123:Alice
//
// State is lost on exit. See package devbackend for the API.
package main
