// Package main is the entry point for the Photo Album API server. It serves
// user accounts, password resets, albums and signed image URLs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/config"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/database"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/server"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/migrations"
)

// Version information is set during build time through linker flags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// init loads environment variables from a .env file if present.
func init() {
	// Configuration may come from the real environment instead
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found or couldn't be loaded")
	}
}

func main() {
	var (
		configPath  string
		showVersion bool
		migrateOnly bool
		seedAdmin   bool
	)

	flag.StringVarP(&configPath, "config", "c", "./configs/config.yaml", "Path to configuration file")
	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.BoolVar(&migrateOnly, "migrate-only", false, "Apply database migrations and exit")
	flag.BoolVar(&seedAdmin, "seed", false, "Create the admin account if it does not exist")
	flag.Parse()

	if showVersion {
		fmt.Printf("Photo Album API Server\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.App.Version = version
	}
	if seedAdmin {
		cfg.Seed.Admin = true
	}

	utils.InitLogger(cfg)
	utils.InitValidator()

	ctx := context.Background()

	if migrateOnly {
		if err := migrate(ctx, cfg); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
		log.Info().Msg("Migrations applied")
		return
	}

	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("Starting Photo Album API Server")

	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Blocks until SIGINT or SIGTERM
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func migrate(ctx context.Context, cfg *config.AppConfig) error {
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return migrations.NewMigrator(db).RunMigrations(ctx)
}
