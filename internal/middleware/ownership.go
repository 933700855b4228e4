package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// AlbumOwnerLookup resolves the owner of an album.
type AlbumOwnerLookup interface {
	GetOwnerID(ctx context.Context, albumID int64) (int64, error)
}

// AlbumOwner only lets the owner of the album named by the path parameter
// through. It must run after the authentication gate.
func AlbumOwner(albums AlbumOwnerLookup, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.GetUserID(r)
			if !ok {
				utils.Unauthorized(w, constants.MsgAuthenticationFailed)
				return
			}

			albumID, err := utils.ParseID(chi.URLParam(r, param))
			if err != nil {
				utils.NotFound(w, constants.MsgAlbumNotFound)
				return
			}

			ownerID, err := albums.GetOwnerID(r.Context(), albumID)
			if err != nil {
				if utils.IsNotFoundError(err) {
					utils.NotFound(w, constants.MsgAlbumNotFound)
					return
				}
				utils.ErrorFromAppError(w, err)
				return
			}

			if ownerID != userID {
				log.Warn().
					Int64("user_id", userID).
					Int64("album_id", albumID).
					Str("method", r.Method).
					Msg("Album access denied")
				utils.Forbidden(w, constants.MsgAlbumAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
