package models

// ForgotPasswordRequest is the body of POST /users/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /users/reset-password/{token}.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,strong_password"`
}
