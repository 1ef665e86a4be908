package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/http/handler"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/internal/service"
	"github.com/leadline-crm/leadline-api/internal/storage"
	"github.com/leadline-crm/leadline-api/internal/telephony"
	"github.com/leadline-crm/leadline-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubGateway struct{}

func (stubGateway) PlaceCall(ctx context.Context, params telephony.PlaceCallParams) (*telephony.CallResource, error) {
	return &telephony.CallResource{Sid: "CAstub", Status: "queued"}, nil
}

func (stubGateway) SendMessage(ctx context.Context, params telephony.SendMessageParams) (*telephony.MessageResource, error) {
	return &telephony.MessageResource{Sid: "SMstub", Status: "queued"}, nil
}

// setupWebhookRouter mounts the webhook handlers the way the application
// router does: POST only, so other methods get 405.
func setupWebhookRouter(t *testing.T, db *gorm.DB) http.Handler {
	logger := zap.NewNop()
	leadRepo := repository.NewLeadRepository(db)
	callRepo := repository.NewCallLogRepository(db)
	messageRepo := repository.NewMessageLogRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)
	profileRepo := repository.NewEmployeeProfileRepository(db)
	sipRepo := repository.NewSipAccountRepository(db)

	profiles := service.NewProfileService(profileRepo, sipRepo, logger)

	store, err := storage.NewStorage(&config.StorageConfig{
		Mode:          "local",
		LocalBasePath: t.TempDir(),
	}, logger)
	require.NoError(t, err)

	telCfg := &config.TelephonyConfig{
		AccountSID: "ACtest",
		AuthToken:  "token",
		FromNumber: "+15550001111",
	}
	appCfg := &config.AppConfig{PublicBaseURL: "https://crm.example.com"}

	callService := service.NewCallService(leadRepo, callRepo, webhookRepo, profiles, stubGateway{}, store, telCfg, appCfg, logger)
	messageService := service.NewMessageService(leadRepo, messageRepo, webhookRepo, stubGateway{}, telCfg, logger)

	h := handler.NewWebhookHandler(callService, messageService, logger)

	r := chi.NewRouter()
	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/voice/status", h.VoiceStatus)
		r.Post("/voice/connect/{leadId}", h.VoiceConnect)
		r.Post("/sms/inbound", h.SmsInbound)
	})
	return r
}

func postForm(t *testing.T, router http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestWebhookHandler_VoiceStatus_UnknownCallAcknowledged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWebhookRouter(t, db)

	form := url.Values{}
	form.Set("CallSid", "CAnobody")
	form.Set("CallStatus", "completed")

	rr := postForm(t, router, "/webhooks/voice/status", form)

	// 200 so the provider does not retry
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestWebhookHandler_VoiceStatus_UpdatesCall(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWebhookRouter(t, db)

	lead := testutil.CreateTestLead(t, db, "Status Lead", "+15552220001")
	call := &domain.CallLog{
		LeadID:         lead.ID,
		ProviderCallID: "CAknown",
		Direction:      domain.DirectionOutbound,
		Status:         "ringing",
	}
	require.NoError(t, db.Create(call).Error)

	form := url.Values{}
	form.Set("CallSid", "CAknown")
	form.Set("CallStatus", "completed")
	form.Set("CallDuration", "77")

	rr := postForm(t, router, "/webhooks/voice/status", form)
	assert.Equal(t, http.StatusOK, rr.Code)

	var updated domain.CallLog
	require.NoError(t, db.First(&updated, "id = ?", call.ID).Error)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, 77, updated.DurationSeconds)
	assert.NotNil(t, updated.EndedAt)
}

func TestWebhookHandler_MethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWebhookRouter(t, db)

	for _, target := range []string{
		"/webhooks/voice/status",
		"/webhooks/sms/inbound",
		"/webhooks/voice/connect/" + uuid.NewString(),
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, "GET %s", target)
	}
}

func TestWebhookHandler_SmsInbound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWebhookRouter(t, db)

	lead := testutil.CreateTestLead(t, db, "Inbound Lead", "+15552220002")

	form := url.Values{}
	form.Set("MessageSid", "SMwebhook1")
	form.Set("From", "+15552220002")
	form.Set("To", "+15550001111")
	form.Set("Body", "calling back later")

	rr := postForm(t, router, "/webhooks/sms/inbound", form)
	assert.Equal(t, http.StatusOK, rr.Code)

	var msg domain.MessageLog
	require.NoError(t, db.Where("provider_message_id = ?", "SMwebhook1").First(&msg).Error)
	require.NotNil(t, msg.LeadID)
	assert.Equal(t, lead.ID, *msg.LeadID)
}

func TestWebhookHandler_VoiceConnect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWebhookRouter(t, db)

	lead := testutil.CreateTestLead(t, db, "Connect Lead", "+15552220003")

	rr := postForm(t, router, "/webhooks/voice/connect/"+lead.ID.String(), url.Values{})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/xml; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "<Number>+15552220003</Number>")
}

func TestWebhookHandler_VoiceConnect_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWebhookRouter(t, db)

	t.Run("invalid lead id", func(t *testing.T) {
		rr := postForm(t, router, "/webhooks/voice/connect/not-a-uuid", url.Values{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown lead", func(t *testing.T) {
		rr := postForm(t, router, "/webhooks/voice/connect/"+uuid.NewString(), url.Values{})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
