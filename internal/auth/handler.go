package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"customer-accounts/internal/customer"
	"customer-accounts/internal/httputil"
	"customer-accounts/internal/identity"
	"customer-accounts/internal/logging"
)

// Handler contains HTTP handlers for the authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RecoverPasswordRequest represents the recover-password request body
type RecoverPasswordRequest struct {
	RecoveryCode int64  `json:"recovery_code"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// ResetPasswordRequest represents the reset-password request body
type ResetPasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// MessageResponse is a confirmation message response
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse represents the login response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RecoverPassword sets the password for an imported customer, creating the
// login identity on first use
// @Summary      Recover password
// @Description  Claim an imported customer account by setting a password with the pre-shared recovery code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        Client-Version header string true "Client semantic version"
// @Param        request body RecoverPasswordRequest true "Recovery payload"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "No imported profile for the email"
// @Failure      422 {object} httputil.ErrorResponse "Bad version, recovery code or password"
// @Failure      503 {object} httputil.ErrorResponse "Store unavailable"
// @Router       /auth/recover-password [post]
func (h *Handler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RecoverPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid recover-password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusUnprocessableEntity)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	profile, err := h.service.RecoverPassword(r.Context(), req.RecoveryCode, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRecoveryCode):
			logger.Warn("recover-password rejected: recovery code mismatch")
			httputil.RespondErrorWithCode(w, "recovery code sent by email is incorrect", httputil.CodeInvalidRecoveryCode, http.StatusUnprocessableEntity)
		case errors.Is(err, ErrPasswordLength):
			logger.Warn("recover-password rejected: password length out of bounds")
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidPassword, http.StatusUnprocessableEntity)
		case errors.Is(err, customer.ErrNotFound):
			logger.Warn("recover-password rejected: no imported profile")
			httputil.RespondErrorWithCode(w, "customer not found with email: "+req.Email, httputil.CodeProfileNotFound, http.StatusNotFound)
		case errors.Is(err, ErrStoreUnavailable):
			httputil.RespondErrorWithCode(w, "database service error, transaction rolled back", httputil.CodeStoreUnavailable, http.StatusServiceUnavailable)
		default:
			logger.Error("recover-password failed", "error", err.Error())
			httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, MessageResponse{
		Message: fmt.Sprintf("New Credentials Created for %s.", profile.Email),
	}, http.StatusOK)
}

// ResetPassword replaces the authenticated caller's password
// @Summary      Reset password
// @Description  Replace the current password after verifying the old one
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Client-Version header string true "Client semantic version"
// @Param        request body ResetPasswordRequest true "Old and new password"
// @Success      200 {object} MessageResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      422 {object} httputil.ErrorResponse "Old password mismatch or bad version"
// @Failure      503 {object} httputil.ErrorResponse "Store unavailable"
// @Router       /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ident, ok := identity.FromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reset-password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusUnprocessableEntity)
		return
	}

	err := h.service.ResetPassword(r.Context(), ident, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrOldPasswordMismatch):
			logger.Warn("reset-password rejected: old password mismatch", "username", ident.Username)
			httputil.RespondErrorWithCode(w, "old password does not match", httputil.CodeOldPasswordMismatch, http.StatusUnprocessableEntity)
		case errors.Is(err, ErrPasswordLength):
			logger.Warn("reset-password rejected: password length out of bounds", "username", ident.Username)
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidPassword, http.StatusUnprocessableEntity)
		case errors.Is(err, ErrStoreUnavailable):
			httputil.RespondErrorWithCode(w, "database service error, transaction rolled back", httputil.CodeStoreUnavailable, http.StatusServiceUnavailable)
		default:
			logger.Error("reset-password failed", "error", err.Error())
			httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, MessageResponse{
		Message: fmt.Sprintf("New Credentials Created for %s.", ident.Username),
	}, http.StatusOK)
}

// Login authenticates with form-encoded credentials and returns a bearer token
// @Summary      Login
// @Description  Authenticate with username and password (OAuth2 password form) and receive an access token
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        Client-Version header string true "Client semantic version"
// @Param        username formData string true "Username (email)"
// @Param        password formData string true "Password"
// @Success      200 {object} TokenResponse
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      422 {object} httputil.ErrorResponse "Version rejected"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		logger.Warn("invalid login form", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid form body", httputil.CodeInvalidRequestBody, http.StatusUnprocessableEntity)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials", "username", username)
			httputil.RespondErrorWithCode(w, "incorrect username or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		logger.Error("login failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("login succeeded", "username", username)

	httputil.RespondJSON(w, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, http.StatusOK)
}
