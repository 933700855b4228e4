package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/config"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
)

// Token verification failures. Callers match them with errors.Is.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenMalformed   = errors.New("token is malformed")
)

// SessionClaims are the claims of a session token
type SessionClaims struct {
	UserID int64  `json:"id"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// FileClaims are the claims of a file access token
type FileClaims struct {
	Path string `json:"path"`
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session and file access tokens.
// The two token kinds use independent HMAC secrets and a typ claim, so a
// token of one kind never verifies as the other.
type TokenService struct {
	session config.JWTSettings
	file    config.FileTokenSettings
	now     func() time.Time
}

// NewTokenService creates a TokenService from the session and file token settings
func NewTokenService(session config.JWTSettings, file config.FileTokenSettings) *TokenService {
	return &TokenService{
		session: session,
		file:    file,
		now:     time.Now,
	}
}

// IssueSessionToken signs a session token for userID.
//
// Returns:
//   - the signed token
//   - the expiry embedded in the token
//   - an error if signing fails
func (s *TokenService) IssueSessionToken(userID int64) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.session.Expiry)

	claims := SessionClaims{
		UserID: userID,
		Type:   constants.TokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.session.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token, err := sign(claims, s.session.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifySessionToken verifies a session token and returns the user id it was issued for
func (s *TokenService) VerifySessionToken(token string) (int64, error) {
	claims := &SessionClaims{}
	if err := parse(token, claims, s.session.Secret); err != nil {
		return 0, err
	}
	if claims.Type != constants.TokenTypeSession || claims.UserID <= 0 {
		return 0, ErrInvalidSignature
	}
	return claims.UserID, nil
}

// IssueFileToken signs a file access token for a storage path relative to the storage root.
// The token carries an expiry unless file token expiry is configured as zero.
func (s *TokenService) IssueFileToken(path string) (string, error) {
	now := s.now()

	claims := FileClaims{
		Path: path,
		Type: constants.TokenTypeFile,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.file.Expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.file.Expiry))
	}

	return sign(claims, s.file.Secret)
}

// VerifyFileToken verifies a file access token and returns the embedded path.
// The path is untrusted input and must still be confined by the caller.
func (s *TokenService) VerifyFileToken(token string) (string, error) {
	claims := &FileClaims{}
	if err := parse(token, claims, s.file.Secret); err != nil {
		return "", err
	}
	if claims.Type != constants.TokenTypeFile || claims.Path == "" {
		return "", ErrInvalidSignature
	}
	return claims.Path, nil
}

func sign(claims jwt.Claims, secret string) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// parse verifies signature and registered claims and maps library errors to
// the package error kinds. A bad signature wins over expiry so a forged token
// is never reported as merely expired.
func parse(token string, claims jwt.Claims, secret string) error {
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
}
