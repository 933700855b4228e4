// Package server provides the HTTP server of the photo album API.
// It wires repositories, services and handlers together, owns the router and
// manages the server lifecycle including background maintenance and
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/config"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/database"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/handlers"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/middleware"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/repository"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/service"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils/ratelimit"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/migrations"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler manages signup, login and password reset
	AuthHandler *handlers.AuthHandler

	// AlbumHandler manages album CRUD
	AlbumHandler *handlers.AlbumHandler

	// FileHandler serves signed file URLs
	FileHandler *handlers.FileHandler

	// HealthHandler serves health and version
	HealthHandler *handlers.HealthHandler
}

// services holds the business services the server needs beyond its handlers.
type services struct {
	auth          *service.AuthService
	albums        *service.AlbumService
	files         *service.FileService
	passwordReset *service.PasswordResetService
}

// Server represents the API server.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Store keeps the album images
	Store storage.Storage

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	router     chi.Router
	httpServer *http.Server

	tokens   *auth.TokenService
	hasher   auth.PasswordHasher
	gate     *auth.Gate
	users    repository.UserRepository
	services services

	limiter  *ratelimit.Store
	registry *prometheus.Registry
	metrics  *middleware.Metrics

	stopTasks context.CancelFunc
	tasks     sync.WaitGroup
}

// NewServer connects to the database, applies migrations, optionally seeds the
// admin account, opens the configured storage backend and builds the server.
//
// Parameters:
//   - ctx: Bounds the startup work
//   - cfg: Application configuration
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
func NewServer(ctx context.Context, cfg *config.AppConfig) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := migrations.NewMigrator(db).RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up storage: %w", err)
	}

	s, err := New(cfg, db, store)
	if err != nil {
		db.Close()
		return nil, err
	}

	if cfg.Seed.Admin {
		if err := s.Seed(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return s, nil
}

// New builds a server on an already connected database and storage backend.
func New(cfg *config.AppConfig, db *database.Pool, store storage.Storage) (*Server, error) {
	s := &Server{
		Config: cfg,
		Db:     db,
		Store:  store,
	}

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}
	s.setupHandlers()
	s.setupMetrics()

	if cfg.RateLimit.Enabled {
		authRate := ratelimit.Rate{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
		}
		s.limiter = ratelimit.NewStore(authRate, constants.RateLimiterIdleTTL)
		s.limiter.SetRate(constants.RateCategoryAuth, authRate)
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupServices builds the token service, repositories and business services.
func (s *Server) setupServices() error {
	cfg := s.Config

	s.tokens = auth.NewTokenService(cfg.JWT, cfg.FileToken)
	s.hasher = auth.NewArgon2Hasher(auth.ConfigFromSettings(cfg.PasswordHash))

	mailer, err := service.NewMailer(cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to set up mailer: %w", err)
	}

	s.users = repository.NewUserRepository(s.Db)
	albumRepo := repository.NewAlbumRepository(s.Db)
	resetRepo := repository.NewPasswordResetRepository(s.Db)

	s.gate = auth.NewGate(s.tokens, s.users)

	files := service.NewFileService(s.tokens, s.Store, cfg.FileToken.BaseURL)
	s.services = services{
		auth:          service.NewAuthService(s.users, s.hasher, s.tokens),
		files:         files,
		albums:        service.NewAlbumService(albumRepo, s.Store, files),
		passwordReset: service.NewPasswordResetService(s.users, resetRepo, mailer, s.hasher, cfg.App.BaseURL),
	}
	return nil
}

func (s *Server) setupHandlers() {
	s.Handlers = &Handlers{
		AuthHandler:   handlers.NewAuthHandler(s.services.auth, s.services.passwordReset),
		AlbumHandler:  handlers.NewAlbumHandler(s.services.albums, s.Config.Server.MaxUploadSize),
		FileHandler:   handlers.NewFileHandler(s.services.files, s.Config.Server.FileStreamTimeout),
		HealthHandler: handlers.NewHealthHandler(s.Db, s.Config.App),
	}
}

// setupMetrics creates a private registry so tests can build several servers.
func (s *Server) setupMetrics() {
	if !s.Config.Metrics.Enabled {
		return
	}

	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(s.Db.DB, s.Config.Database.Name),
	)
	s.metrics = middleware.NewMetrics(s.registry, constants.MetricsNamespace)
}

// Seed runs the database seeds, creating the admin account.
func (s *Server) Seed(ctx context.Context) error {
	return scripts.NewSeeder(s.Db, s.users, s.hasher, s.Config.Seed).SeedDatabase(ctx)
}

// Start starts the HTTP server and blocks until it fails or a SIGINT or
// SIGTERM triggers a graceful shutdown.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.httpServer.Addr).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		s.stopMaintenanceTasks()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown stops accepting requests, waits for in-flight requests, stops the
// maintenance tasks, waits for pending reset emails and closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info().Msg("Server stopped gracefully")

	s.stopMaintenanceTasks()

	// Reset emails still in flight need the database
	done := make(chan struct{})
	go func() {
		s.services.passwordReset.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("Shutdown timeout reached before pending reset emails finished")
	}

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// SetupMaintenanceTasks starts the background jobs: expired password reset
// tokens are deleted every cleanup interval and idle rate limiters are swept.
// Calling it again while the tasks run has no effect.
func (s *Server) SetupMaintenanceTasks() {
	if s.stopTasks != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopTasks = cancel

	interval := s.Config.PasswordReset.CleanupInterval
	if interval <= 0 {
		interval = constants.DBMaintenanceInterval
	}

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runMaintenance(ctx)
			}
		}
	}()

	if s.limiter != nil {
		s.tasks.Add(1)
		go func() {
			defer s.tasks.Done()
			s.limiter.Run(ctx, constants.RateLimiterSweepInterval)
		}()
	}
}

// runMaintenance deletes expired password reset tokens.
func (s *Server) runMaintenance(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, constants.MaintenanceTaskTimeout)
	defer cancel()

	if _, err := s.services.passwordReset.CleanupExpired(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to cleanup expired password reset tokens")
	}

	log.Debug().Fields(s.Db.PoolStats()).Msg("Database pool stats")
}

func (s *Server) stopMaintenanceTasks() {
	if s.stopTasks == nil {
		return
	}
	s.stopTasks()
	s.tasks.Wait()
	s.stopTasks = nil
}
