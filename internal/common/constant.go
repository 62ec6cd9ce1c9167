// Package common contains shared constants and sentinel errors used across
// the client and server halves of the session toolkit.
package common

const (
	// UIDCookieName is the cookie that carries the anonymous identifier.
	UIDCookieName = "uid"

	// AuthorizationHeader carries the identifier as a bearer token.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the identifier in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// UsersPath is the endpoint that issues anonymous identifiers.
	UsersPath = "/users"
)
