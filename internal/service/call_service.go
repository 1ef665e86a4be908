package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/mapper"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/internal/storage"
	"github.com/leadline-crm/leadline-api/internal/telephony"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// statusCallbackEvents are the call progress events the provider reports back
var statusCallbackEvents = []string{"initiated", "ringing", "answered", "completed"}

type CallService struct {
	leadRepo    *repository.LeadRepository
	callRepo    *repository.CallLogRepository
	webhookRepo *repository.WebhookEventRepository
	profiles    *ProfileService
	gateway     telephony.Gateway
	store       storage.Storage
	cfg         *config.TelephonyConfig
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewCallService(
	leadRepo *repository.LeadRepository,
	callRepo *repository.CallLogRepository,
	webhookRepo *repository.WebhookEventRepository,
	profiles *ProfileService,
	gateway telephony.Gateway,
	store storage.Storage,
	cfg *config.TelephonyConfig,
	appCfg *config.AppConfig,
	logger *zap.Logger,
) *CallService {
	return &CallService{
		leadRepo:    leadRepo,
		callRepo:    callRepo,
		webhookRepo: webhookRepo,
		profiles:    profiles,
		gateway:     gateway,
		store:       store,
		cfg:         cfg,
		baseURL:     appCfg.PublicBaseURL,
		httpClient:  &http.Client{Timeout: cfg.RequestTimeoutDuration()},
		logger:      logger,
	}
}

// InitiateCall starts a click-to-call: the provider first dials the employee's
// destination, then bridges to the lead when answered.
//
// The destination is resolved before any record exists; with none configured
// the call is rejected outright. A CallLog row is created queued before the
// gateway is contacted, so a gateway failure leaves a failed row behind and
// returns a *GatewayError (persist-and-report).
func (s *CallService) InitiateCall(ctx context.Context, leadID uuid.UUID, employee *domain.User) (*domain.CallLogDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	dest, err := s.profiles.ResolveDestination(ctx, employee.ID)
	if err != nil {
		return nil, err
	}

	call := &domain.CallLog{
		LeadID:     lead.ID,
		EmployeeID: &employee.ID,
		Direction:  domain.DirectionOutbound,
		Status:     domain.StatusQueued,
		UsedSip:    dest.UsedSip,
		StartedAt:  time.Now().UTC(),
	}
	if err := s.callRepo.Create(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to create call log: %w", err)
	}

	resource, err := s.gateway.PlaceCall(ctx, telephony.PlaceCallParams{
		To:                   dest.Address,
		From:                 s.cfg.FromNumber,
		ConnectURL:           fmt.Sprintf("%s/webhooks/voice/connect/%s", s.baseURL, lead.ID),
		StatusCallbackURL:    s.baseURL + "/webhooks/voice/status",
		StatusCallbackEvents: statusCallbackEvents,
	})
	if err != nil {
		call.Status = domain.StatusFailed
		call.Notes = "call origination failed: " + err.Error()
		if saveErr := s.callRepo.Update(ctx, call); saveErr != nil {
			s.logger.Error("failed to persist failed call log",
				zap.String("call_log_id", call.ID.String()),
				zap.Error(saveErr),
			)
		}
		s.logger.Warn("call origination failed",
			zap.String("lead_id", lead.ID.String()),
			zap.String("call_log_id", call.ID.String()),
			zap.Error(err),
		)
		return nil, &GatewayError{Operation: "place_call", Err: err}
	}

	call.ProviderCallID = resource.Sid
	if resource.Status != "" {
		call.Status = resource.Status
	}
	if err := s.callRepo.Update(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to update call log: %w", err)
	}

	s.logger.Info("call initiated",
		zap.String("lead_id", lead.ID.String()),
		zap.String("call_log_id", call.ID.String()),
		zap.String("provider_call_id", call.ProviderCallID),
		zap.Bool("used_sip", call.UsedSip),
	)

	dto := mapper.ToCallLogDTO(call)
	return &dto, nil
}

// HandleStatusCallback applies a provider call status callback. Unknown
// provider ids are a silent no-op: the provider may call back for calls this
// system never placed, and it must not be made to retry.
//
// Fields apply independently. Status is overwritten with whatever arrived
// last; callbacks carry no ordering guarantee and this keeps the row matching
// the most recent report. A callback with no CallStatus field leaves the
// stored status alone rather than blanking it. Duration applies only when the
// value is a digits-only number, and a bad duration never blocks the rest.
func (s *CallService) HandleStatusCallback(ctx context.Context, cb telephony.StatusCallback) error {
	s.recordWebhookEvent(ctx, domain.WebhookEventCallStatus, cb.CallSid, cb.RawPayload())

	if cb.CallSid == "" {
		return nil
	}

	call, err := s.callRepo.GetByProviderCallID(ctx, cb.CallSid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("status callback for unknown call", zap.String("provider_call_id", cb.CallSid))
			return nil
		}
		return fmt.Errorf("failed to look up call log: %w", err)
	}

	if cb.CallStatus != "" {
		call.Status = cb.CallStatus
	}
	if seconds, ok := parseDuration(cb.CallDuration); ok {
		call.DurationSeconds = seconds
	}
	if cb.RecordingURL != "" {
		call.RecordingURL = cb.RecordingURL
	}
	if domain.TerminalCallStatuses[cb.CallStatus] && call.EndedAt == nil {
		now := time.Now().UTC()
		call.EndedAt = &now
	}

	if err := s.callRepo.Update(ctx, call); err != nil {
		return fmt.Errorf("failed to update call log: %w", err)
	}

	s.logger.Info("call status updated",
		zap.String("call_log_id", call.ID.String()),
		zap.String("provider_call_id", cb.CallSid),
		zap.String("status", call.Status),
	)
	return nil
}

// RenderConnectDocument builds the voice document that bridges the answered
// employee leg to the lead's number.
func (s *CallService) RenderConnectDocument(ctx context.Context, leadID uuid.UUID) (string, error) {
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrLeadNotFound
		}
		return "", fmt.Errorf("failed to get lead: %w", err)
	}
	return telephony.RenderConnectDocument(lead.PhoneNumber, s.cfg.FromNumber)
}

// ArchiveRecording copies the provider-hosted recording of a call into our
// own storage. The provider retains recordings for a limited window only.
func (s *CallService) ArchiveRecording(ctx context.Context, callLogID uuid.UUID) (*domain.ArchiveRecordingResponse, error) {
	call, err := s.callRepo.GetByID(ctx, callLogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCallLogNotFound
		}
		return nil, fmt.Errorf("failed to get call log: %w", err)
	}
	if call.RecordingURL == "" {
		return nil, ErrNoRecording
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, call.RecordingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recording: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("recording fetch failed (%d): %s", resp.StatusCode, string(body))
	}

	name := call.ID.String() + ".mp3"
	path, size, err := s.store.Upload(ctx, name, "audio/mpeg", resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to store recording: %w", err)
	}

	s.logger.Info("recording archived",
		zap.String("call_log_id", call.ID.String()),
		zap.String("storage_path", path),
		zap.Int64("size", size),
	)

	return &domain.ArchiveRecordingResponse{
		CallLogID:   call.ID,
		StoragePath: path,
		Size:        size,
	}, nil
}

func (s *CallService) recordWebhookEvent(ctx context.Context, kind domain.WebhookEventKind, providerID, payload string) {
	event := &domain.WebhookEvent{
		Kind:       kind,
		ProviderID: providerID,
		Payload:    payload,
	}
	if err := s.webhookRepo.Create(ctx, event); err != nil {
		// Audit trail only; never block status application on it
		s.logger.Warn("failed to record webhook event", zap.Error(err))
	}
}

// parseDuration accepts only digits-only values. The provider occasionally
// omits the field or sends garbage; anything else is ignored.
func parseDuration(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return seconds, true
}
