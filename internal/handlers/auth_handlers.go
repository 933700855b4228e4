package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// AuthHandler handles the public user routes
type AuthHandler struct {
	authService  AuthServiceInterface
	resetService PasswordResetServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface, resetService PasswordResetServiceInterface) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	if resetService == nil {
		panic("resetService cannot be nil")
	}
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
	}
}

// Signup handles user registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	user, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, constants.MsgUserRegistered, user)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// ForgotPassword starts a password reset. The answer is the same whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	if err := h.resetService.ForgotPassword(r.Context(), req.Email); err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, constants.MsgPasswordResetSent, nil)
}

// ResetPassword redeems a reset token from the path
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, constants.ParamResetToken)

	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	if err := h.resetService.ResetPassword(r.Context(), token, req.NewPassword); err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, constants.MsgPasswordResetSuccessful, nil)
}
