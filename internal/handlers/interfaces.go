// Package handlers provides HTTP request handlers for the photo album API.
package handlers

import (
	"context"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/service"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
)

// AuthServiceInterface defines the methods required from the authentication service.
type AuthServiceInterface interface {
	// Signup registers a new user.
	//
	// Returns:
	//   - The sanitized user
	//   - A duplicate error if the email is taken
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)

	// Login verifies credentials and issues a session token.
	//
	// Returns:
	//   - The access token and its expiry
	//   - An invalid credentials error for unknown emails and wrong passwords alike
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// PasswordResetServiceInterface defines the methods required from the password reset service.
type PasswordResetServiceInterface interface {
	// ForgotPassword issues a reset token and mails the link. Unknown emails are not an error.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword redeems token once and sets newPassword.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AlbumServiceInterface defines the methods required from the album service.
type AlbumServiceInterface interface {
	Create(ctx context.Context, userID int64, req *models.CreateAlbumRequest, uploads []service.ImageUpload) (*models.Album, error)
	Get(ctx context.Context, id int64) (*models.Album, error)
	List(ctx context.Context, params service.AlbumListParams) (*models.AlbumListResult, error)
	Update(ctx context.Context, id int64, req *models.UpdateAlbumRequest, uploads []service.ImageUpload) (*models.Album, error)
	Delete(ctx context.Context, id int64) error
}

// FileServiceInterface defines the methods required to redeem signed file URLs.
type FileServiceInterface interface {
	// Open verifies token and opens the file it names.
	//
	// Returns:
	//   - The open object and its storage path
	//   - service.ErrNoFileToken when token is empty, otherwise an AppError
	Open(ctx context.Context, token string) (*storage.Object, string, error)
}

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
