package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/mapper"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/internal/telephony"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MessageService struct {
	leadRepo    *repository.LeadRepository
	messageRepo *repository.MessageLogRepository
	webhookRepo *repository.WebhookEventRepository
	gateway     telephony.Gateway
	cfg         *config.TelephonyConfig
	logger      *zap.Logger
}

func NewMessageService(
	leadRepo *repository.LeadRepository,
	messageRepo *repository.MessageLogRepository,
	webhookRepo *repository.WebhookEventRepository,
	gateway telephony.Gateway,
	cfg *config.TelephonyConfig,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		leadRepo:    leadRepo,
		messageRepo: messageRepo,
		webhookRepo: webhookRepo,
		gateway:     gateway,
		cfg:         cfg,
		logger:      logger,
	}
}

// SendMessage sends one SMS to the lead. An empty body (after trimming) is
// rejected before any side effect. Exactly one MessageLog row results either
// way: with the provider id on success, with status failed and no provider id
// when the gateway rejects the send (persist-and-report, *GatewayError).
func (s *MessageService) SendMessage(ctx context.Context, leadID uuid.UUID, employee *domain.User, body string) (*domain.MessageLogDTO, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessageBody
	}

	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	msg := &domain.MessageLog{
		LeadID:     &lead.ID,
		EmployeeID: &employee.ID,
		Direction:  domain.DirectionOutbound,
		Body:       body,
	}

	resource, err := s.gateway.SendMessage(ctx, telephony.SendMessageParams{
		To:   lead.PhoneNumber,
		From: s.cfg.FromNumber,
		Body: body,
	})
	if err != nil {
		msg.Status = domain.StatusFailed
		if saveErr := s.messageRepo.Create(ctx, msg); saveErr != nil {
			s.logger.Error("failed to persist failed message log",
				zap.String("lead_id", lead.ID.String()),
				zap.Error(saveErr),
			)
		}
		s.logger.Warn("message send failed",
			zap.String("lead_id", lead.ID.String()),
			zap.Error(err),
		)
		return nil, &GatewayError{Operation: "send_message", Err: err}
	}

	msg.ProviderMessageID = resource.Sid
	msg.Status = resource.Status
	if msg.Status == "" {
		msg.Status = domain.StatusQueued
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message log: %w", err)
	}

	s.logger.Info("message sent",
		zap.String("lead_id", lead.ID.String()),
		zap.String("message_log_id", msg.ID.String()),
		zap.String("provider_message_id", msg.ProviderMessageID),
	)

	dto := mapper.ToMessageLogDTO(msg)
	return &dto, nil
}

// HandleInboundMessage records one inbound SMS. The sender is matched to a
// lead by exact phone equality; unmatched senders still produce a row with a
// null lead so nothing the provider delivers is dropped.
func (s *MessageService) HandleInboundMessage(ctx context.Context, in telephony.InboundMessage) error {
	s.recordWebhookEvent(ctx, domain.WebhookEventInboundMessage, in.MessageSid, in.RawPayload())

	msg := &domain.MessageLog{
		ProviderMessageID: in.MessageSid,
		Direction:         domain.DirectionInbound,
		Body:              in.Body,
		Status:            in.SmsStatus,
		MediaURLs:         in.MediaURLs,
	}
	if msg.Status == "" {
		msg.Status = domain.StatusReceived
	}

	lead, err := s.leadRepo.GetByPhoneNumber(ctx, in.From)
	if err == nil {
		msg.LeadID = &lead.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to match lead by phone: %w", err)
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to create message log: %w", err)
	}

	s.logger.Info("inbound message recorded",
		zap.String("message_log_id", msg.ID.String()),
		zap.String("provider_message_id", in.MessageSid),
		zap.Bool("matched_lead", msg.LeadID != nil),
	)
	return nil
}

func (s *MessageService) recordWebhookEvent(ctx context.Context, kind domain.WebhookEventKind, providerID, payload string) {
	event := &domain.WebhookEvent{
		Kind:       kind,
		ProviderID: providerID,
		Payload:    payload,
	}
	if err := s.webhookRepo.Create(ctx, event); err != nil {
		s.logger.Warn("failed to record webhook event", zap.Error(err))
	}
}
