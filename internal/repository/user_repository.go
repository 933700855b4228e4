package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/database"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ChangePassword(ctx context.Context, q database.Querier, id int64, passwordHash, salt string) error
}

// SQLUserRepository is the database/sql implementation of UserRepository
type SQLUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &SQLUserRepository{
		db: db,
	}
}

const userColumns = "id, email, first_name, last_name, password_hash, salt, created_at, updated_at"

// Create adds a new user to the database
func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
        INSERT INTO users (email, first_name, last_name, password_hash, salt, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
	args := []any{user.Email, user.FirstName, user.LastName, user.PasswordHash, user.Salt, user.CreatedAt, user.UpdatedAt}

	id, err := r.db.InsertReturningID(ctx, r.db, query, args...)
	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		if utils.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError(constants.MsgEmailTaken, "email")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	log.Info().
		Int64("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *SQLUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	user, err := r.getOne(ctx, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, ignoring case
func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE LOWER(email) = LOWER(?)"
	user, err := r.getOne(ctx, query, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *SQLUserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	startTime := time.Now()

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), arg).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.Salt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	utils.LogDBQuery(query, []any{arg}, time.Since(startTime), err)

	if err != nil {
		return nil, err
	}
	return user, nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *SQLUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	startTime := time.Now()

	query := "SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER(?))"
	var exists bool
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), models.NormalizeEmail(email)).Scan(&exists)
	utils.LogDBQuery(query, []any{email}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// ChangePassword stores a new credential for the user. It runs on q so the
// password reset flow can update the user inside its transaction.
func (r *SQLUserRepository) ChangePassword(ctx context.Context, q database.Querier, id int64, passwordHash, salt string) error {
	startTime := time.Now()

	if q == nil {
		q = r.db
	}

	query := "UPDATE users SET password_hash = ?, salt = ?, updated_at = ? WHERE id = ?"
	args := []any{passwordHash, salt, time.Now().UTC(), id}
	result, err := q.ExecContext(ctx, r.db.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("User not found")
	}

	log.Info().Int64("user_id", id).Msg("User password changed")
	return nil
}
