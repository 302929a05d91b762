// Package devbackend is an in-memory stand-in for the messaging backend,
// used for local development and in tests. It speaks the subset of the REST
// and websocket API the client core uses.
//
// HTTP API
//
//	POST /register                          create a user {email,password,name}
//	POST /login?persist=true                exchange credentials for a token and cookie
//	POST /cookies/remove                    revoke cookies by label, or all of them
//	POST /clients                           register a client with its prekeys
//	PUT  /clients/{id}                      add prekeys to a client
//	GET  /self                              the caller's profile
//	POST /connections                       ask another user to connect
//	PUT  /connections/{id}                  change a connection's status
//	POST /conversations                     create a conversation
//	POST /users/prekeys                     claim one prekey per listed client
//	POST /conversations/{id}/otr/messages   fan out encrypted payloads
//	GET  /await                             websocket notification stream
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Access tokens are HS256 JWTs. They are accepted in the Authorization
//     header or, for /await, the access_token query parameter.
//   - Each login stores a cookie under its label. Once a user holds
//     MaxCookies cookies further logins answer 429 until cookies are removed.
//   - Sending with ignore_missing=false answers 412 with the missing clients
//     when recipients do not cover every device in the conversation.
//   - A request log records method, path, status and duration.
//
// The server never sees plaintext or private keys; it only stores public
// prekeys and relays ciphertext.
package devbackend
