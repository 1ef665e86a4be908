package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/auth"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/service"
	"go.uber.org/zap"
)

// CallHandler handles HTTP requests for call operations
type CallHandler struct {
	callService *service.CallService
	logger      *zap.Logger
}

// NewCallHandler creates a new CallHandler
func NewCallHandler(callService *service.CallService, logger *zap.Logger) *CallHandler {
	return &CallHandler{
		callService: callService,
		logger:      logger,
	}
}

// InitiateCall godoc
// @Summary Click-to-call a lead
// @Description Places a call that first dials the employee, then bridges to the lead
// @Tags Calls
// @Produce json
// @Param id path string true "Lead ID"
// @Success 201 {object} domain.InitiateCallResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id}/call [post]
func (h *CallHandler) InitiateCall(w http.ResponseWriter, r *http.Request) {
	leadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	employee, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	call, err := h.callService.InitiateCall(r.Context(), leadID, employee)
	if err != nil {
		var gwErr *service.GatewayError
		switch {
		case errors.Is(err, service.ErrLeadNotFound):
			respondWithError(w, http.StatusNotFound, "Lead not found")
		case errors.Is(err, service.ErrNoCallDestination):
			respondWithError(w, http.StatusConflict, "No call destination configured: set a SIP account or profile phone number first")
		case errors.As(err, &gwErr):
			// The failed attempt is already recorded
			respondWithError(w, http.StatusBadGateway, "Telephony provider rejected the call")
		default:
			h.logger.Error("failed to initiate call", zap.Error(err), zap.String("lead_id", leadID.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to initiate call")
		}
		return
	}

	respondJSON(w, http.StatusCreated, domain.InitiateCallResponse{Ok: true, CallLog: *call})
}

// ArchiveRecording godoc
// @Summary Archive a call recording
// @Description Copies the provider-hosted recording into long-term storage
// @Tags Calls
// @Produce json
// @Param id path string true "Call log ID"
// @Success 200 {object} domain.ArchiveRecordingResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /calls/{id}/archive-recording [post]
func (h *CallHandler) ArchiveRecording(w http.ResponseWriter, r *http.Request) {
	callID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid call log ID: must be a valid UUID")
		return
	}

	result, err := h.callService.ArchiveRecording(r.Context(), callID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCallLogNotFound):
			respondWithError(w, http.StatusNotFound, "Call log not found")
		case errors.Is(err, service.ErrNoRecording):
			respondWithError(w, http.StatusConflict, "Call has no recording to archive")
		default:
			h.logger.Error("failed to archive recording", zap.Error(err), zap.String("call_log_id", callID.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to archive recording")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}
