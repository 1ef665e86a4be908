package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/service"
	"github.com/leadline-crm/leadline-api/internal/telephony"
	"go.uber.org/zap"
)

// WebhookHandler receives provider callbacks. These endpoints are POST only
// and unauthenticated; the provider retries on non-2xx, so every handled
// condition answers 200 even when nothing matched.
type WebhookHandler struct {
	callService    *service.CallService
	messageService *service.MessageService
	logger         *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(callService *service.CallService, messageService *service.MessageService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		callService:    callService,
		messageService: messageService,
		logger:         logger,
	}
}

// VoiceStatus handles call status callbacks from the provider
func (h *WebhookHandler) VoiceStatus(w http.ResponseWriter, r *http.Request) {
	cb, err := telephony.ParseStatusCallback(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed form payload")
		return
	}

	if err := h.callService.HandleStatusCallback(r.Context(), cb); err != nil {
		// Non-2xx makes the provider retry, which is what we want for
		// transient persistence failures.
		h.logger.Error("failed to handle status callback",
			zap.String("provider_call_id", cb.CallSid),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to process callback")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// SmsInbound handles inbound SMS webhooks from the provider
func (h *WebhookHandler) SmsInbound(w http.ResponseWriter, r *http.Request) {
	in, err := telephony.ParseInboundMessage(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed form payload")
		return
	}

	if err := h.messageService.HandleInboundMessage(r.Context(), in); err != nil {
		h.logger.Error("failed to handle inbound message",
			zap.String("provider_message_id", in.MessageSid),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// VoiceConnect serves the voice document that bridges an answered employee
// leg to the lead
func (h *WebhookHandler) VoiceConnect(w http.ResponseWriter, r *http.Request) {
	leadID, err := uuid.Parse(chi.URLParam(r, "leadId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID")
		return
	}

	doc, err := h.callService.RenderConnectDocument(r.Context(), leadID)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondWithError(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.logger.Error("failed to render connect document", zap.Error(err), zap.String("lead_id", leadID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to render document")
		return
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
