// Package middleware provides HTTP middleware components.
package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils/ratelimit"
)

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(constants.HeaderXContentTypeOptions, "nosniff")
			h.Set(constants.HeaderXFrameOptions, "DENY")
			h.Set(constants.HeaderReferrerPolicy, "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit is middleware that limits the rate of requests from clients.
// Every client IP gets its own token bucket per category from the store.
//
// Parameters:
//   - store: The limiter store shared by all routes
//   - category: The endpoint category to apply limits for (e.g., "auth")
//
// Returns:
//   - A middleware function that can be used with an HTTP handler
func RateLimit(store *ratelimit.Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			limiter := store.GetLimiter(clientIP, category)
			if !limiter.Allow() {
				retryAfter := int(math.Ceil(limiter.RetryAfter().Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}

				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("category", category).
					Msg("Rate limit exceeded")

				w.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
				utils.TooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host part of the remote address. Proxy headers
// are resolved earlier by chi's RealIP middleware.
func getClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If there's no port in the address, use it as is
		return r.RemoteAddr
	}
	return ip
}
