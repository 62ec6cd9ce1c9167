// Package cli provides the interactive session client.
//
// NewApp wires configuration, the local identifier store and a
// session.Session; App.Run bootstraps the anonymous identifier and then
// blocks in a small REPL until the user exits.
//
// Commands:
//   - whoami            show the current identifier
//   - ping              show the API version and environment
//   - register / login  attach or use e-mail credentials
//   - logout            revoke the identifier
//   - get <path>        authenticated GET, prints the JSON reply
//   - post <path>       authenticated POST of a JSON body read from input
package cli
