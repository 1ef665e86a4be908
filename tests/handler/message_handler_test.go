package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadline-crm/leadline-api/internal/auth"
	"github.com/leadline-crm/leadline-api/internal/config"
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

func createMessageHandler(db *gorm.DB) *handler.MessageHandler {
	logger := zap.NewNop()
	leadRepo := repository.NewLeadRepository(db)
	messageRepo := repository.NewMessageLogRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)

	telCfg := &config.TelephonyConfig{AccountSID: "ACtest", AuthToken: "token", FromNumber: "+15550001111"}
	messageService := service.NewMessageService(leadRepo, messageRepo, webhookRepo, stubGateway{}, telCfg, logger)

	return handler.NewMessageHandler(messageService, logger)
}

func sendMessageRequest(t *testing.T, employee *domain.User, leadID, body string) *http.Request {
	t.Helper()
	payload, err := json.Marshal(domain.SendMessageRequest{Body: body})
	require.NoError(t, err)

	ctx := context.Background()
	if employee != nil {
		ctx = auth.WithUser(ctx, employee)
	}
	ctx = withURLParam(ctx, "id", leadID)

	req := httptest.NewRequest(http.MethodPost, "/leads/"+leadID+"/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(ctx)
}

func TestMessageHandler_SendMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createMessageHandler(db)

	employee := testutil.CreateTestUser(t, db, "msg-handler@example.com")
	lead := testutil.CreateTestLead(t, db, "Message Lead", "+15554440001")

	rr := httptest.NewRecorder()
	h.SendMessage(rr, sendMessageRequest(t, employee, lead.ID.String(), "Hello there"))

	assert.Equal(t, http.StatusCreated, rr.Code)

	var dto domain.MessageLogDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, "SMstub", dto.ProviderMessageID)
	assert.Equal(t, "Hello there", dto.Body)
	assert.Equal(t, domain.DirectionOutbound, dto.Direction)
}

func TestMessageHandler_SendMessage_EmptyBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createMessageHandler(db)

	employee := testutil.CreateTestUser(t, db, "empty-msg@example.com")
	lead := testutil.CreateTestLead(t, db, "Empty Body Lead", "+15554440002")

	rr := httptest.NewRecorder()
	h.SendMessage(rr, sendMessageRequest(t, employee, lead.ID.String(), "   "))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMessageHandler_SendMessage_Unauthenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createMessageHandler(db)

	lead := testutil.CreateTestLead(t, db, "Anon Lead", "+15554440003")

	rr := httptest.NewRecorder()
	h.SendMessage(rr, sendMessageRequest(t, nil, lead.ID.String(), "hi"))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
