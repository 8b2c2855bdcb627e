// Package cli provides the interactive tweeter command-line client.
//
// It wires configuration and the gRPC client into a small REPL. Passwords
// are read from the terminal without echo; the client keeps the token pair
// in memory and refreshes it transparently when the access token expires.
//
// Commands:
//   - signup / signin / refresh / logout
//   - user [id]           show a user (yourself when no id is given)
//   - tweet               post a new tweet
//   - show / edit / delete <id>
//   - ping                check the server health
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
