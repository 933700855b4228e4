package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/config"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/middleware"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

const (
	corsAllowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowedHeaders = "Accept, Authorization, Content-Type, X-Request-ID"
	corsMaxAge         = 300
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
//   - Health, version and metrics endpoints (unprotected)
//   - Signed file access, at the root and under the API prefix
//   - User endpoints: signup, login and the password reset flow
//   - Album endpoints behind the authentication gate, with updates and
//     deletes restricted to the album owner
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	r.Use(corsMiddleware(s.Config.CORS))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestContext())
	if s.Config.Server.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
	}

	// Registered before any sub router so they inherit these handlers
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, fmt.Sprintf("Not Found %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w, fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path))
	})

	r.Get(constants.HealthPath, s.Handlers.HealthHandler.Health)
	r.Get(constants.VersionPath, s.Handlers.HealthHandler.Version)
	if s.registry != nil {
		r.Method(http.MethodGet, s.Config.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	// Signed URLs handed out before the API prefix existed still resolve
	r.Get(constants.AccessFilePath, s.Handlers.FileHandler.AccessFile)

	r.Route(constants.APIBasePath, func(r chi.Router) {
		r.Get(constants.AccessFilePath, s.Handlers.FileHandler.AccessFile)

		// JSON routes are compressed; file downloads are served as stored
		r.Group(func(r chi.Router) {
			r.Use(compress)

			r.Route(constants.UsersBasePath, func(r chi.Router) {
				r.Group(func(r chi.Router) {
					if s.limiter != nil {
						r.Use(middleware.RateLimit(s.limiter, constants.RateCategoryAuth))
					}
					r.Post(constants.SignupPath, s.Handlers.AuthHandler.Signup)
					r.Post(constants.LoginPath, s.Handlers.AuthHandler.Login)
					r.Post(constants.ForgotPasswordPath, s.Handlers.AuthHandler.ForgotPassword)
				})
				r.Post(constants.ResetPasswordPath, s.Handlers.AuthHandler.ResetPassword)
			})

			r.Route(constants.AlbumsBasePath, func(r chi.Router) {
				r.Use(s.gate.Middleware)

				r.Get("/", s.Handlers.AlbumHandler.ListAlbums)
				r.Post("/", s.Handlers.AlbumHandler.CreateAlbum)

				r.Route(constants.AlbumDetailPath, func(r chi.Router) {
					r.Get("/", s.Handlers.AlbumHandler.GetAlbum)

					r.Group(func(r chi.Router) {
						r.Use(middleware.AlbumOwner(s.services.albums, constants.ParamAlbumID))
						r.Put("/", s.Handlers.AlbumHandler.UpdateAlbum)
						r.Delete("/", s.Handlers.AlbumHandler.DeleteAlbum)
					})
				})
			})
		})
	})

	s.router = r
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

func compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// corsMiddleware answers preflight requests and sets the CORS headers for
// allowed origins. Requests from other origins pass through without headers.
func corsMiddleware(cfg config.CORSSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !originAllowed(cfg.AllowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
