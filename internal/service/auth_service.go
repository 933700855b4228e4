package service

import (
	"context"
	"fmt"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/repository"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// AuthService handles signup and login
type AuthService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   auth.SessionTokens
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens auth.SessionTokens,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Signup creates a new user account
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	user := models.NewUser(req.Email, req.FirstName, req.LastName)

	// Check if email already exists
	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		utils.LogAuth("signup", 0, user.Email, false, "email taken")
		return nil, utils.NewDuplicateError(constants.MsgEmailTaken, "email")
	}

	passwordHash, salt, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = passwordHash
	user.Salt = salt

	// The unique index still catches a concurrent signup with the same email
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	utils.LogAuth("signup", user.ID, user.Email, true, "")

	return user.Sanitize(), nil
}

// Login verifies credentials and issues a session token.
// Unknown emails and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("login", 0, req.Email, false, "user not found")
			return nil, utils.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash, user.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		utils.LogAuth("login", user.ID, user.Email, false, "invalid password")
		return nil, utils.NewInvalidCredentialsError()
	}

	token, expiresAt, err := s.tokens.IssueSessionToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	utils.LogAuth("login", user.ID, user.Email, true, "")

	return &models.LoginResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}
