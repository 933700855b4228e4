package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// Recovery is a middleware that recovers from panics and returns a 500 Internal Server Error
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Let net/http abort the connection as it would without us
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := debug.Stack()
				requestID, _ := auth.GetRequestID(r)

				utils.LogPanic(requestID, r.Method, r.URL.Path, rec, stack)

				utils.ErrorFromAppError(w, utils.NewWithDevInfo(
					fmt.Errorf("panic: %v", rec),
					http.StatusInternalServerError,
					constants.MsgInternalServerError,
					string(stack),
				))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
