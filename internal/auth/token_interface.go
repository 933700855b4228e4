package auth

import "time"

// SessionTokens issues and verifies session tokens
type SessionTokens interface {
	IssueSessionToken(userID int64) (string, time.Time, error)
	VerifySessionToken(token string) (int64, error)
}

// FileTokens issues and verifies file access tokens
type FileTokens interface {
	IssueFileToken(path string) (string, error)
	VerifyFileToken(token string) (string, error)
}

var (
	_ SessionTokens = (*TokenService)(nil)
	_ FileTokens    = (*TokenService)(nil)
)
