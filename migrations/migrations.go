// Package migrations manages the database schema.
//
// Schema changes are plain SQL files embedded into the binary, one directory
// per dialect, and applied with goose. Applied versions are tracked in the
// goose_db_version table so running the migrator repeatedly is safe.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/database"
)

//go:embed sql/postgres/*.sql sql/mysql/*.sql
var files embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrator applies the embedded migrations for the pool's dialect.
type Migrator struct {
	db *database.Pool
}

// NewMigrator creates a new migrator.
func NewMigrator(db *database.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// Dir returns the embedded directory holding the migrations for dialect.
func Dir(dialect database.Dialect) string {
	return path.Join("sql", dialect.GooseDialect())
}

// RunMigrations applies all pending migrations and then verifies that every
// table the application needs exists.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Info().Str("dialect", string(m.db.Dialect)).Msg("Running database migrations")
	startTime := time.Now()

	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(m.db.Dialect.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := gooseUpContext(ctx, m.db.DB, Dir(m.db.Dialect)); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if err := m.VerifySchema(ctx); err != nil {
		return err
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database migrations completed")
	return nil
}

// VerifySchema checks that all required tables exist.
func (m *Migrator) VerifySchema(ctx context.Context) error {
	for _, table := range RequiredTables() {
		exists, err := m.tableExists(ctx, table)
		if err != nil {
			return fmt.Errorf("failed to check if table %s exists: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("required table %s is missing after migration", table)
		}
	}
	return nil
}

// RequiredTables lists the tables the application reads and writes.
func RequiredTables() []string {
	return []string{
		constants.TableUsers,
		constants.TableAlbums,
		constants.TableImages,
		constants.TablePasswordResetTokens,
		constants.TableSeeds,
	}
}

func (m *Migrator) tableExists(ctx context.Context, tableName string) (bool, error) {
	query := `
        SELECT EXISTS(SELECT 1
        FROM information_schema.tables
        WHERE table_schema = current_schema()
        AND table_name = ?)
    `
	if m.db.Dialect == database.DialectMySQL {
		query = `
        SELECT EXISTS(SELECT 1
        FROM information_schema.tables
        WHERE table_schema = DATABASE()
        AND table_name = ?)
    `
	}

	var exists bool
	err := m.db.QueryRowContext(ctx, m.db.Rebind(query), tableName).Scan(&exists)
	return exists, err
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	log.Info().Str("component", "migrations").Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...any) {
	log.Fatal().Str("component", "migrations").Msgf(format, v...)
}
