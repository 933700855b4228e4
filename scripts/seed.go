// Package scripts provides utility scripts for database and system management.
//
// Seeds work like migrations: every executed seed is recorded in the seeds
// table so running the seeder again on an existing database is a no-op.
package scripts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/config"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/database"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/repository"
)

// SeedAdminUser is the name under which the admin seed is recorded.
const SeedAdminUser = "admin_user"

// ErrAdminPasswordMissing is returned when the admin seed runs without a password.
var ErrAdminPasswordMissing = errors.New("ADMIN_PASSWORD must be set to seed the admin user")

// Seeder handles database seeding.
type Seeder struct {
	db     *database.Pool
	users  repository.UserRepository
	hasher auth.PasswordHasher
	cfg    config.SeedSettings
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - db: A database connection pool used to track executed seeds
//   - users: The repository the admin account is created through
//   - hasher: Hashes the admin password
//   - cfg: The admin account settings
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(db *database.Pool, users repository.UserRepository, hasher auth.PasswordHasher, cfg config.SeedSettings) *Seeder {
	return &Seeder{
		db:     db,
		users:  users,
		hasher: hasher,
		cfg:    cfg,
	}
}

// SeedDatabase runs every seed that has not been executed yet.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context) error
	}{
		{SeedAdminUser, s.seedAdminUser},
	}

	for _, seed := range seeds {
		if executedSeeds[seed.Name] {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
			continue
		}

		log.Info().Str("seed", seed.Name).Msg("Running seed")
		if err := seed.SeedFunc(ctx); err != nil {
			return fmt.Errorf("seed %s failed: %w", seed.Name, err)
		}
		if err := s.recordSeed(ctx, seed.Name); err != nil {
			return err
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// getExecutedSeeds returns the names of all recorded seeds.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM "+constants.TableSeeds)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

func (s *Seeder) recordSeed(ctx context.Context, name string) error {
	query := s.db.Rebind("INSERT INTO " + constants.TableSeeds + " (name) VALUES (?)")
	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("failed to record seed: %w", err)
	}
	return nil
}

// seedAdminUser creates the admin account unless the email is already registered.
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	if s.cfg.AdminPassword == "" {
		return ErrAdminPasswordMissing
	}

	email := models.NormalizeEmail(s.cfg.AdminEmail)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		log.Info().Msg("Admin user already exists")
		return nil
	}

	user := models.NewUser(email, constants.AdminFirstName, constants.AdminLastName)
	user.PasswordHash, user.Salt, err = s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	log.Info().Int64("user_id", user.ID).Msg("Admin user created")
	return nil
}
