package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/internal/service"
	"github.com/leadline-crm/leadline-api/internal/telephony"
	"github.com/leadline-crm/leadline-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createMessageService(db *gorm.DB, gw telephony.Gateway) *service.MessageService {
	logger := zap.NewNop()
	leadRepo := repository.NewLeadRepository(db)
	messageRepo := repository.NewMessageLogRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)

	telCfg := &config.TelephonyConfig{
		AccountSID: "AC00000000000000000000000000000000",
		AuthToken:  "test-token",
		FromNumber: "+15550001111",
	}

	return service.NewMessageService(leadRepo, messageRepo, webhookRepo, gw, telCfg, logger)
}

func TestMessageService_SendMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	gw := &fakeGateway{msgResource: &telephony.MessageResource{Sid: "SMsend1", Status: "queued"}}
	svc := createMessageService(db, gw)
	ctx := context.Background()

	employee := testutil.CreateTestUser(t, db, "sender@example.com")
	lead := testutil.CreateTestLead(t, db, "Alice Prospect", "+15551230001")

	dto, err := svc.SendMessage(ctx, lead.ID, employee, "Hi, following up on your inquiry")
	require.NoError(t, err)

	assert.Equal(t, domain.DirectionOutbound, dto.Direction)
	assert.Equal(t, "SMsend1", dto.ProviderMessageID)
	assert.Equal(t, "queued", dto.Status)
	require.NotNil(t, dto.LeadID)
	assert.Equal(t, lead.ID, *dto.LeadID)

	assert.Equal(t, "+15551230001", gw.lastSend.To)
	assert.Equal(t, "+15550001111", gw.lastSend.From)
	assert.Equal(t, "Hi, following up on your inquiry", gw.lastSend.Body)
}

func TestMessageService_SendMessage_EmptyBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	gw := &fakeGateway{}
	svc := createMessageService(db, gw)
	ctx := context.Background()

	employee := testutil.CreateTestUser(t, db, "emptybody@example.com")
	lead := testutil.CreateTestLead(t, db, "Bob Prospect", "+15551230002")

	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := svc.SendMessage(ctx, lead.ID, employee, body)
		assert.ErrorIs(t, err, service.ErrEmptyMessageBody)
	}

	// Rejected before any side effect
	assert.Zero(t, gw.sendCalls)
	var count int64
	require.NoError(t, db.Model(&domain.MessageLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMessageService_SendMessage_LeadNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createMessageService(db, &fakeGateway{})

	employee := testutil.CreateTestUser(t, db, "nolead@example.com")

	_, err := svc.SendMessage(context.Background(), uuid.New(), employee, "hello")
	assert.ErrorIs(t, err, service.ErrLeadNotFound)
}

func TestMessageService_SendMessage_GatewayFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	gw := &fakeGateway{sendErr: errors.New("unreachable destination")}
	svc := createMessageService(db, gw)
	ctx := context.Background()

	employee := testutil.CreateTestUser(t, db, "gwfail-sms@example.com")
	lead := testutil.CreateTestLead(t, db, "Carol Prospect", "+15551230003")

	_, err := svc.SendMessage(ctx, lead.ID, employee, "this will fail")

	var gwErr *service.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "send_message", gwErr.Operation)

	// The failed attempt is its own row: status failed, no provider id
	var msg domain.MessageLog
	require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&msg).Error)
	assert.Equal(t, domain.StatusFailed, msg.Status)
	assert.Empty(t, msg.ProviderMessageID)
	assert.Equal(t, "this will fail", msg.Body)
}

func TestMessageService_HandleInboundMessage_MatchedLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createMessageService(db, &fakeGateway{})
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "Dave Prospect", "+15551230004")

	err := svc.HandleInboundMessage(ctx, telephony.InboundMessage{
		MessageSid: "SMin1",
		From:       "+15551230004",
		To:         "+15550001111",
		Body:       "Yes, I am interested",
		SmsStatus:  "received",
	})
	require.NoError(t, err)

	var msg domain.MessageLog
	require.NoError(t, db.Where("provider_message_id = ?", "SMin1").First(&msg).Error)
	assert.Equal(t, domain.DirectionInbound, msg.Direction)
	assert.Equal(t, "Yes, I am interested", msg.Body)
	require.NotNil(t, msg.LeadID)
	assert.Equal(t, lead.ID, *msg.LeadID)
	assert.Nil(t, msg.EmployeeID)
}

func TestMessageService_HandleInboundMessage_UnknownSender(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createMessageService(db, &fakeGateway{})
	ctx := context.Background()

	// Nothing the provider delivers is dropped, even from unknown numbers
	err := svc.HandleInboundMessage(ctx, telephony.InboundMessage{
		MessageSid: "SMin2",
		From:       "+15559998877",
		Body:       "wrong number?",
	})
	require.NoError(t, err)

	var msg domain.MessageLog
	require.NoError(t, db.Where("provider_message_id = ?", "SMin2").First(&msg).Error)
	assert.Nil(t, msg.LeadID)
	assert.Equal(t, domain.StatusReceived, msg.Status)
}

func TestMessageService_HandleInboundMessage_OldestLeadWinsOnDuplicatePhone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createMessageService(db, &fakeGateway{})
	ctx := context.Background()

	first := testutil.CreateTestLead(t, db, "First Lead", "+15551230005")
	testutil.CreateTestLead(t, db, "Second Lead", "+15551230005")

	err := svc.HandleInboundMessage(ctx, telephony.InboundMessage{
		MessageSid: "SMin3",
		From:       "+15551230005",
		Body:       "which lead am I",
	})
	require.NoError(t, err)

	var msg domain.MessageLog
	require.NoError(t, db.Where("provider_message_id = ?", "SMin3").First(&msg).Error)
	require.NotNil(t, msg.LeadID)
	assert.Equal(t, first.ID, *msg.LeadID)
}

func TestMessageService_HandleInboundMessage_RecordsWebhookEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createMessageService(db, &fakeGateway{})
	ctx := context.Background()

	require.NoError(t, svc.HandleInboundMessage(ctx, telephony.InboundMessage{
		MessageSid: "SMaudit",
		From:       "+15550006666",
		Body:       "audit me",
	}))

	var events []domain.WebhookEvent
	require.NoError(t, db.Where("provider_id = ?", "SMaudit").Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, domain.WebhookEventInboundMessage, events[0].Kind)
}
