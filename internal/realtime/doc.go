// Package realtime holds the websocket connection on which the backend pushes
// notifications to a logged-in client.
package realtime
