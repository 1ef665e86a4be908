package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/internal/service"
	"go.uber.org/zap"
)

// LeadHandler handles HTTP requests for leads
type LeadHandler struct {
	leadService   *service.LeadService
	importService *service.ImportService
	logger        *zap.Logger
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *service.LeadService, importService *service.ImportService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leadService:   leadService,
		importService: importService,
		logger:        logger,
	}
}

// ListLeads godoc
// @Summary List leads
// @Description Get paginated list of leads with optional filters
// @Tags Leads
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param search query string false "Search by name, phone or email"
// @Param assignedTo query string false "Filter by assigned user ID"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	filters := &repository.LeadFilters{
		Search: r.URL.Query().Get("search"),
	}
	if assignedTo := r.URL.Query().Get("assignedTo"); assignedTo != "" {
		id, err := uuid.Parse(assignedTo)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid assignedTo: must be a valid UUID")
			return
		}
		filters.AssignedToID = &id
	}

	leads, total, err := h.leadService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list leads", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list leads")
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       leads,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// CreateLead godoc
// @Summary Create lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param lead body domain.CreateLeadRequest true "Lead to create"
// @Success 201 {object} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /leads [post]
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create lead", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	respondJSON(w, http.StatusCreated, lead)
}

// GetLead godoc
// @Summary Get lead
// @Description Get a lead by ID with recent call and message history
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} domain.LeadWithHistoryDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id} [get]
func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	lead, err := h.leadService.GetWithHistory(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondWithError(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.logger.Error("failed to get lead", zap.Error(err), zap.String("lead_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get lead")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// UpdateLead godoc
// @Summary Update lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param lead body domain.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id} [put]
func (h *LeadHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	var req domain.UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondWithError(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.logger.Error("failed to update lead", zap.Error(err), zap.String("lead_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// DeleteLead godoc
// @Summary Delete lead
// @Tags Leads
// @Param id path string true "Lead ID"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id} [delete]
func (h *LeadHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	if err := h.leadService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondWithError(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.logger.Error("failed to delete lead", zap.Error(err), zap.String("lead_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete lead")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListLeadCalls godoc
// @Summary List lead call history
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {array} domain.CallLogDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id}/calls [get]
func (h *LeadHandler) ListLeadCalls(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	calls, err := h.leadService.ListCalls(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondWithError(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.logger.Error("failed to list lead calls", zap.Error(err), zap.String("lead_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to list calls")
		return
	}

	respondJSON(w, http.StatusOK, calls)
}

// ListLeadMessages godoc
// @Summary List lead message history
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {array} domain.MessageLogDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id}/messages [get]
func (h *LeadHandler) ListLeadMessages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	messages, err := h.leadService.ListMessages(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			respondWithError(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.logger.Error("failed to list lead messages", zap.Error(err), zap.String("lead_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// ImportLegacyLeads godoc
// @Summary Import leads from the legacy CRM
// @Description One-shot idempotent import; leads whose phone number already exists are skipped
// @Tags Leads
// @Produce json
// @Success 200 {object} domain.LegacyImportResultDTO
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/import-legacy [post]
func (h *LeadHandler) ImportLegacyLeads(w http.ResponseWriter, r *http.Request) {
	result, err := h.importService.ImportLeads(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrLegacyImportDisabled) {
			respondWithError(w, http.StatusServiceUnavailable, "Legacy import is not enabled")
			return
		}
		h.logger.Error("legacy import failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Legacy import failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
