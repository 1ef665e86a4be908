package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/mapper"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// historyLimit bounds the call/message history returned with a lead detail
const historyLimit = 50

type LeadService struct {
	leadRepo    *repository.LeadRepository
	callRepo    *repository.CallLogRepository
	messageRepo *repository.MessageLogRepository
	logger      *zap.Logger
}

func NewLeadService(
	leadRepo *repository.LeadRepository,
	callRepo *repository.CallLogRepository,
	messageRepo *repository.MessageLogRepository,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		leadRepo:    leadRepo,
		callRepo:    callRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

func (s *LeadService) Create(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadDTO, error) {
	lead := &domain.Lead{
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		Notes:        req.Notes,
		AssignedToID: req.AssignedToID,
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("phone_number", lead.PhoneNumber),
	)

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// GetWithHistory returns the lead with its recent call and message history
func (s *LeadService) GetWithHistory(ctx context.Context, id uuid.UUID) (*domain.LeadWithHistoryDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	calls, err := s.callRepo.ListByLead(ctx, id, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}

	messages, err := s.messageRepo.ListByLead(ctx, id, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list message logs: %w", err)
	}

	dto := mapper.ToLeadWithHistoryDTO(lead, calls, messages)
	return &dto, nil
}

func (s *LeadService) List(ctx context.Context, page, pageSize int, filters *repository.LeadFilters) ([]domain.LeadDTO, int64, error) {
	leads, total, err := s.leadRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = mapper.ToLeadDTO(&leads[i])
	}

	return dtos, total, nil
}

func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateLeadRequest) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if req.Name != nil {
		lead.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		lead.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}
	if req.AssignedToID != nil {
		lead.AssignedToID = req.AssignedToID
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.leadRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("failed to get lead: %w", err)
	}

	if err := s.leadRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	s.logger.Info("lead deleted", zap.String("lead_id", id.String()))
	return nil
}

// ListCalls returns the lead's call history
func (s *LeadService) ListCalls(ctx context.Context, leadID uuid.UUID) ([]domain.CallLogDTO, error) {
	if _, err := s.leadRepo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	calls, err := s.callRepo.ListByLead(ctx, leadID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}

	dtos := make([]domain.CallLogDTO, len(calls))
	for i := range calls {
		dtos[i] = mapper.ToCallLogDTO(&calls[i])
	}
	return dtos, nil
}

// ListMessages returns the lead's message history
func (s *LeadService) ListMessages(ctx context.Context, leadID uuid.UUID) ([]domain.MessageLogDTO, error) {
	if _, err := s.leadRepo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	messages, err := s.messageRepo.ListByLead(ctx, leadID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list message logs: %w", err)
	}

	dtos := make([]domain.MessageLogDTO, len(messages))
	for i := range messages {
		dtos[i] = mapper.ToMessageLogDTO(&messages[i])
	}
	return dtos, nil
}
