package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// SessionVerifier verifies session tokens.
type SessionVerifier interface {
	VerifySessionToken(token string) (int64, error)
}

// UserLoader loads the user a session token was issued for.
// A user that no longer exists is reported as (nil, nil) or a not found error.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Gate authenticates requests carrying a bearer session token.
type Gate struct {
	tokens SessionVerifier
	users  UserLoader
}

// NewGate creates a Gate verifying tokens with tokens and resolving identities with users.
func NewGate(tokens SessionVerifier, users UserLoader) *Gate {
	return &Gate{
		tokens: tokens,
		users:  users,
	}
}

// Middleware rejects requests without a valid session and attaches the
// resolved Identity to the request context otherwise.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			utils.Unauthorized(w, constants.MsgNoToken)
			return
		}

		identity, err := g.Authenticate(r.Context(), token)
		if err != nil {
			log.Debug().
				Err(err).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("Authentication failed")
			utils.Unauthorized(w, failureMessage(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// Authenticate verifies token and loads the identity it was issued for.
func (g *Gate) Authenticate(ctx context.Context, token string) (*Identity, error) {
	userID, err := g.tokens.VerifySessionToken(token)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrNotFound
	}

	return &Identity{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(constants.HeaderAuthorization)
	if !strings.HasPrefix(header, constants.BearerTokenPrefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerTokenPrefix))
	return token, token != ""
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return constants.MsgTokenExpired
	case errors.Is(err, ErrInvalidSignature), errors.Is(err, ErrTokenMalformed):
		return constants.MsgInvalidToken
	default:
		return constants.MsgAuthenticationFailed
	}
}
