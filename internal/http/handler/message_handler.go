package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/auth"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/service"
	"go.uber.org/zap"
)

// MessageHandler handles HTTP requests for message operations
type MessageHandler struct {
	messageService *service.MessageService
	logger         *zap.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// SendMessage godoc
// @Summary Send an SMS to a lead
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param message body domain.SendMessageRequest true "Message to send"
// @Success 201 {object} domain.MessageLogDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id}/messages [post]
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
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

	var req domain.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.messageService.SendMessage(r.Context(), leadID, employee, req.Body)
	if err != nil {
		var gwErr *service.GatewayError
		switch {
		case errors.Is(err, service.ErrLeadNotFound):
			respondWithError(w, http.StatusNotFound, "Lead not found")
		case errors.Is(err, service.ErrEmptyMessageBody):
			respondWithError(w, http.StatusBadRequest, "Message body must not be empty")
		case errors.As(err, &gwErr):
			// The failed attempt is already recorded
			respondWithError(w, http.StatusBadGateway, "Telephony provider rejected the message")
		default:
			h.logger.Error("failed to send message", zap.Error(err), zap.String("lead_id", leadID.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}
