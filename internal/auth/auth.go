// Package auth recovers a caller identity from a bearer token. The token
// format is an implementation detail of the Authenticator; route handlers
// only ever see user ids.
package auth

// Authenticator issues bearer tokens and recovers the user id they carry.
type Authenticator interface {
	IssueToken(userID string) (string, error)
	// UserID extracts the user id from a bearer token. The boolean is false
	// when the token carries no usable identity.
	UserID(token string) (string, bool)
}
