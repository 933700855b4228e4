package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/database"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// ErrResetTokenNotFound is returned when a reset token is unknown, expired or already used.
var ErrResetTokenNotFound = errors.New("reset token not found or expired")

// ResetApplyFunc runs inside the redemption transaction with the token's user id.
type ResetApplyFunc func(ctx context.Context, q database.Querier, userID int64) error

// PasswordResetRepository stores password reset tokens.
type PasswordResetRepository interface {
	// Replace deletes every token of userID and stores tokenHash as the only live one.
	Replace(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	// Redeem consumes a live token exactly once, calling apply before the token is deleted.
	Redeem(ctx context.Context, tokenHash string, now time.Time, apply ResetApplyFunc) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SQLPasswordResetRepository is the database/sql implementation of PasswordResetRepository
type SQLPasswordResetRepository struct {
	db *database.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(db *database.Pool) PasswordResetRepository {
	return &SQLPasswordResetRepository{db: db}
}

// GenerateToken generates a secure random token and its SHA256 hash.
// It returns the plain token (to be sent to the user) and its hash (to be stored).
func GenerateToken() (string, string, error) {
	token, err := utils.RandomHex(constants.ResetTokenBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate token bytes: %w", err)
	}
	return token, HashToken(token), nil
}

// HashToken returns the hex SHA-256 of a plain reset token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Replace stores a new token hash for userID, overwriting any older one.
// user_id is unique, so concurrent requests for one user leave a single row.
func (r *SQLPasswordResetRepository) Replace(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	startTime := time.Now()
	query := "INSERT INTO password_reset_tokens (token_hash, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)" +
		r.db.Dialect.UpsertClause("user_id", "token_hash", "expires_at", "created_at")
	args := []any{tokenHash, userID, expiresAt.UTC(), time.Now().UTC()}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(startTime), err)
	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}

	log.Debug().Int64("user_id", userID).Time("expires_at", expiresAt).Msg("Password reset token issued")
	return nil
}

// Redeem looks up a live token, locks it, applies the change and deletes it in one
// transaction. A concurrent redemption of the same token either waits on the row
// lock or finds the row gone, so only one of them succeeds.
func (r *SQLPasswordResetRepository) Redeem(ctx context.Context, tokenHash string, now time.Time, apply ResetApplyFunc) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		startTime := time.Now()
		query := "SELECT user_id FROM password_reset_tokens WHERE token_hash = ? AND expires_at >= ? FOR UPDATE"
		args := []any{tokenHash, now.UTC()}

		var userID int64
		err := tx.QueryRowContext(ctx, r.db.Rebind(query), args...).Scan(&userID)
		utils.LogDBQuery(query, args, time.Since(startTime), err)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrResetTokenNotFound
			}
			return fmt.Errorf("failed to query password reset token: %w", err)
		}

		if err := apply(ctx, tx, userID); err != nil {
			return err
		}

		startTime = time.Now()
		query = "DELETE FROM password_reset_tokens WHERE token_hash = ?"
		result, err := tx.ExecContext(ctx, r.db.Rebind(query), tokenHash)
		utils.LogDBQuery(query, []any{tokenHash}, time.Since(startTime), err)
		if err != nil {
			return fmt.Errorf("failed to delete password reset token: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected after deleting token: %w", err)
		}
		if rowsAffected != 1 {
			return ErrResetTokenNotFound
		}
		return nil
	})
}

// DeleteExpired removes tokens that expired before now.
func (r *SQLPasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	startTime := time.Now()

	query := "DELETE FROM password_reset_tokens WHERE expires_at < ?"
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), now.UTC())
	utils.LogDBQuery(query, []any{now}, time.Since(startTime), err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired password reset tokens: %w", err)
	}

	return result.RowsAffected()
}
