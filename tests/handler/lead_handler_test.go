package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/http/handler"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/internal/service"
	"github.com/leadline-crm/leadline-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createLeadHandler(db *gorm.DB) *handler.LeadHandler {
	logger := zap.NewNop()
	leadRepo := repository.NewLeadRepository(db)
	callRepo := repository.NewCallLogRepository(db)
	messageRepo := repository.NewMessageLogRepository(db)

	leadService := service.NewLeadService(leadRepo, callRepo, messageRepo, logger)
	importService := service.NewImportService(nil, leadRepo, logger)

	return handler.NewLeadHandler(leadService, importService, logger)
}

func TestLeadHandler_CreateLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createLeadHandler(db)

	t.Run("valid request", func(t *testing.T) {
		payload := []byte(`{"name":"Alice Prospect","phoneNumber":"+15556660001","email":"alice@example.com"}`)
		req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(payload))
		rr := httptest.NewRecorder()
		h.CreateLead(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var dto domain.LeadDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, "Alice Prospect", dto.Name)
		assert.Equal(t, "+15556660001", dto.PhoneNumber)
	})

	t.Run("missing name", func(t *testing.T) {
		payload := []byte(`{"phoneNumber":"+15556660002"}`)
		req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(payload))
		rr := httptest.NewRecorder()
		h.CreateLead(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		assert.Contains(t, apiErr.Errors, "name")
	})

	t.Run("phone not E.164", func(t *testing.T) {
		payload := []byte(`{"name":"Bad Phone","phoneNumber":"555-666-0003"}`)
		req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(payload))
		rr := httptest.NewRecorder()
		h.CreateLead(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
		assert.Contains(t, apiErr.Errors, "phoneNumber")
	})
}

func TestLeadHandler_ListLeads_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createLeadHandler(db)

	for i := 0; i < 5; i++ {
		testutil.CreateTestLead(t, db, "Page Lead "+string(rune('A'+i)), "+1555666100"+string(rune('0'+i)))
	}

	req := httptest.NewRequest(http.MethodGet, "/leads?page=1&pageSize=2", nil)
	rr := httptest.NewRecorder()
	h.ListLeads(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result domain.PaginatedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 2, result.PageSize)
	assert.Equal(t, 3, result.TotalPages)
}

func TestLeadHandler_ListLeads_InvalidAssignedTo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createLeadHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/leads?assignedTo=garbage", nil)
	rr := httptest.NewRecorder()
	h.ListLeads(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeadHandler_GetLead_WithHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createLeadHandler(db)

	lead := testutil.CreateTestLead(t, db, "History Lead", "+15556660010")
	call := &domain.CallLog{
		LeadID:    lead.ID,
		Direction: domain.DirectionOutbound,
		Status:    "completed",
	}
	require.NoError(t, db.Create(call).Error)

	ctx := withURLParam(httptest.NewRequest(http.MethodGet, "/leads/x", nil).Context(), "id", lead.ID.String())
	req := httptest.NewRequest(http.MethodGet, "/leads/"+lead.ID.String(), nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	h.GetLead(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var dto domain.LeadWithHistoryDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, lead.ID, dto.ID)
	assert.Len(t, dto.CallLogs, 1)
}

func TestLeadHandler_DeleteLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createLeadHandler(db)

	lead := testutil.CreateTestLead(t, db, "Delete Lead", "+15556660011")

	ctx := withURLParam(httptest.NewRequest(http.MethodDelete, "/leads/x", nil).Context(), "id", lead.ID.String())
	req := httptest.NewRequest(http.MethodDelete, "/leads/"+lead.ID.String(), nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	h.DeleteLead(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Lead{}).Where("id = ?", lead.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLeadHandler_ImportLegacyLeads_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createLeadHandler(db)

	// No legacy client configured: the feature reports unavailable
	req := httptest.NewRequest(http.MethodPost, "/leads/import-legacy", nil)
	rr := httptest.NewRecorder()
	h.ImportLegacyLeads(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
