package auth

import "strings"

const mockTokenPrefix = "mock-token-"

// MockAuthenticator implements the placeholder identity scheme the frontend
// ships with: the token is the literal string "mock-token-{userId}". There is
// no signature, expiry or revocation; stripping the prefix recovers the id.
type MockAuthenticator struct{}

func NewMockAuthenticator() MockAuthenticator {
	return MockAuthenticator{}
}

func (MockAuthenticator) IssueToken(userID string) (string, error) {
	return mockTokenPrefix + userID, nil
}

func (MockAuthenticator) UserID(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	id := strings.TrimPrefix(token, mockTokenPrefix)
	if id == "" {
		return "", false
	}
	return id, true
}
