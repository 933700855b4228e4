package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/database"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/repository"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// PasswordResetService issues and redeems single use password reset tokens.
type PasswordResetService struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	mailer    Mailer
	hasher    auth.PasswordHasher
	baseURL   string
	now       func() time.Time
	pending   sync.WaitGroup
}

// NewPasswordResetService creates a new PasswordResetService.
// Reset links are built as baseURL + "/reset-password/" + token.
func NewPasswordResetService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	mailer Mailer,
	hasher auth.PasswordHasher,
	baseURL string,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		hasher:    hasher,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}
}

// ForgotPassword looks up the account of email and, when it exists, stores a
// fresh token replacing any older one and mails the reset link. Storing and
// mailing run in the background so known and unknown emails answer alike.
// Unknown emails succeed silently.
func (s *PasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("password_reset_request", 0, email, false, "user not found")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.PasswordResetDeliveryTimeout)
		defer cancel()
		if err := s.deliver(deliverCtx, user); err != nil {
			utils.LogAuth("password_reset_request", user.ID, user.Email, false, err.Error())
			return
		}
		utils.LogAuth("password_reset_request", user.ID, user.Email, true, "")
	}()
	return nil
}

func (s *PasswordResetService) deliver(ctx context.Context, user *models.User) error {
	plainToken, tokenHash, err := repository.GenerateToken()
	if err != nil {
		return err
	}

	expiresAt := s.now().UTC().Add(constants.PasswordResetTokenLifetime)
	if err := s.resetRepo.Replace(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return err
	}

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	return s.mailer.SendPasswordResetEmail(ctx, user.Email, name, s.ResetURL(plainToken))
}

// Wait blocks until every reset email started by ForgotPassword has been
// stored and handed to the mailer, or has failed.
func (s *PasswordResetService) Wait() {
	s.pending.Wait()
}

// ResetURL returns the link that redeems token.
func (s *PasswordResetService) ResetURL(token string) string {
	return s.baseURL + constants.ResetPasswordLinkPath + token
}

// ResetPassword redeems token and sets the new password in the same transaction.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return utils.NewBadRequestError(constants.MsgInvalidResetToken)
	}

	passwordHash, salt, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var userID int64
	err = s.resetRepo.Redeem(ctx, repository.HashToken(token), s.now().UTC(),
		func(ctx context.Context, q database.Querier, id int64) error {
			userID = id
			return s.userRepo.ChangePassword(ctx, q, id, passwordHash, salt)
		})
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			utils.LogAuth("password_reset", 0, "", false, "invalid or expired token")
			return utils.NewBadRequestError(constants.MsgInvalidResetToken)
		}
		return err
	}

	utils.LogAuth("password_reset", userID, "", true, "")
	return nil
}

// CleanupExpired removes reset tokens that can no longer be redeemed.
func (s *PasswordResetService) CleanupExpired(ctx context.Context) (int64, error) {
	removed, err := s.resetRepo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Expired password reset tokens removed")
	}
	return removed, nil
}
