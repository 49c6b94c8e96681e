package customer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"customer-accounts/internal/httputil"
	"customer-accounts/internal/identity"
	"customer-accounts/internal/logging"
)

// Handler contains HTTP handlers for the customer profile endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CustomerResponse represents a profile in API responses
type CustomerResponse struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	Country    string    `json:"country"`
	Language   *string   `json:"language"`
}

// UpdateDataRequest represents the profile edit request body
type UpdateDataRequest struct {
	Language string `json:"language"`
}

// Me returns the profile of the authenticated customer
// @Summary      Get own profile
// @Description  Return the customer profile linked to the authenticated identity
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        Client-Version header string true "Client semantic version"
// @Success      200 {object} CustomerResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      404 {object} httputil.ErrorResponse "Profile not found"
// @Failure      422 {object} httputil.ErrorResponse "Version rejected"
// @Router       /customers/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ident, ok := identity.FromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), ident.Username)
	if err != nil {
		h.respondProfileError(w, logger, ident.Username, err)
		return
	}

	httputil.RespondJSON(w, toResponse(profile), http.StatusOK)
}

// EditData updates profile fields of the authenticated customer
// @Summary      Update own profile
// @Description  Update editable profile data (currently the language)
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Client-Version header string true "Client semantic version"
// @Param        request body UpdateDataRequest true "Profile fields"
// @Success      200 {object} CustomerResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      422 {object} httputil.ErrorResponse "Invalid language or version"
// @Failure      503 {object} httputil.ErrorResponse "Store unavailable"
// @Router       /customers/me/edit-data [put]
func (h *Handler) EditData(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ident, ok := identity.FromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req UpdateDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid edit-data request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusUnprocessableEntity)
		return
	}

	profile, err := h.service.UpdateLanguage(r.Context(), ident.Username, req.Language)
	if err != nil {
		if errors.Is(err, ErrInvalidLanguage) {
			logger.Warn("edit-data rejected: invalid language", "language", req.Language)
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidLanguage, http.StatusUnprocessableEntity)
			return
		}
		h.respondProfileError(w, logger, ident.Username, err)
		return
	}

	logger.Info("customer profile updated", "email", ident.Username)
	httputil.RespondJSON(w, toResponse(profile), http.StatusOK)
}

func (h *Handler) respondProfileError(w http.ResponseWriter, logger *logging.Logger, email string, err error) {
	if errors.Is(err, ErrNotFound) {
		logger.Warn("customer profile not found", "email", email)
		httputil.RespondErrorWithCode(w, "customer not found with email: "+email, httputil.CodeProfileNotFound, http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrStoreUnavailable) {
		httputil.RespondErrorWithCode(w, "database service error, transaction rolled back", httputil.CodeStoreUnavailable, http.StatusServiceUnavailable)
		return
	}
	logger.Error("profile request failed", "email", email, "error", err.Error())
	httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
}

func toResponse(c *Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		Email:      c.Email,
		Country:    c.Country,
		Language:   c.Language,
	}
}
