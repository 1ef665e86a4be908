package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leadline-crm/leadline-api/internal/auth"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/service"
	"go.uber.org/zap"
)

// ProfileHandler handles the authenticated employee's own settings
type ProfileHandler struct {
	profileService *service.ProfileService
	logger         *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile godoc
// @Summary Get my employee profile
// @Tags Profile
// @Produce json
// @Success 200 {object} domain.EmployeeProfileDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /me/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	employee, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), employee.ID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not set")
			return
		}
		h.logger.Error("failed to get profile", zap.Error(err), zap.String("user_id", employee.ID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpsertProfile godoc
// @Summary Set my employee profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body domain.UpsertEmployeeProfileRequest true "Profile settings"
// @Success 200 {object} domain.EmployeeProfileDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /me/profile [put]
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	employee, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req domain.UpsertEmployeeProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	profile, err := h.profileService.UpsertProfile(r.Context(), employee.ID, &req)
	if err != nil {
		h.logger.Error("failed to upsert profile", zap.Error(err), zap.String("user_id", employee.ID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetSipAccount godoc
// @Summary Get my SIP account settings
// @Tags Profile
// @Produce json
// @Success 200 {object} domain.SipAccountDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /me/sip [get]
func (h *ProfileHandler) GetSipAccount(w http.ResponseWriter, r *http.Request) {
	employee, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	account, err := h.profileService.GetSipAccount(r.Context(), employee.ID)
	if err != nil {
		if errors.Is(err, service.ErrSipAccountNotFound) {
			respondWithError(w, http.StatusNotFound, "SIP account not set")
			return
		}
		h.logger.Error("failed to get sip account", zap.Error(err), zap.String("user_id", employee.ID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get SIP account")
		return
	}

	respondJSON(w, http.StatusOK, account)
}

// UpsertSipAccount godoc
// @Summary Set my SIP account settings
// @Tags Profile
// @Accept json
// @Produce json
// @Param sip body domain.UpsertSipAccountRequest true "SIP account settings"
// @Success 200 {object} domain.SipAccountDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /me/sip [put]
func (h *ProfileHandler) UpsertSipAccount(w http.ResponseWriter, r *http.Request) {
	employee, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req domain.UpsertSipAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	account, err := h.profileService.UpsertSipAccount(r.Context(), employee.ID, &req)
	if err != nil {
		h.logger.Error("failed to upsert sip account", zap.Error(err), zap.String("user_id", employee.ID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to save SIP account")
		return
	}

	respondJSON(w, http.StatusOK, account)
}
