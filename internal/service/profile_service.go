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

type ProfileService struct {
	profileRepo *repository.EmployeeProfileRepository
	sipRepo     *repository.SipAccountRepository
	logger      *zap.Logger
}

func NewProfileService(
	profileRepo *repository.EmployeeProfileRepository,
	sipRepo *repository.SipAccountRepository,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		sipRepo:     sipRepo,
		logger:      logger,
	}
}

// Destination is where an outbound call's first leg is dialed
type Destination struct {
	// Address is either sip:user@domain or an E.164 phone number
	Address string
	UsedSip bool
}

// ResolveDestination picks the employee's call destination. An active SIP
// account wins over the profile phone number; with neither configured,
// ErrNoCallDestination is returned.
func (s *ProfileService) ResolveDestination(ctx context.Context, userID uuid.UUID) (*Destination, error) {
	sip, err := s.sipRepo.GetActiveByUserID(ctx, userID)
	if err == nil {
		return &Destination{Address: sip.URI(), UsedSip: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up sip account: %w", err)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCallDestination
		}
		return nil, fmt.Errorf("failed to look up employee profile: %w", err)
	}
	if profile.PhoneNumber == "" {
		return nil, ErrNoCallDestination
	}

	return &Destination{Address: profile.PhoneNumber, UsedSip: false}, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.EmployeeProfileDTO, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get employee profile: %w", err)
	}

	dto := mapper.ToEmployeeProfileDTO(profile)
	return &dto, nil
}

func (s *ProfileService) UpsertProfile(ctx context.Context, userID uuid.UUID, req *domain.UpsertEmployeeProfileRequest) (*domain.EmployeeProfileDTO, error) {
	profile := &domain.EmployeeProfile{
		UserID:      userID,
		PhoneNumber: req.PhoneNumber,
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to upsert employee profile: %w", err)
	}

	// Re-read so timestamps reflect the stored row after a conflict update
	stored, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload employee profile: %w", err)
	}

	s.logger.Info("employee profile updated", zap.String("user_id", userID.String()))

	dto := mapper.ToEmployeeProfileDTO(stored)
	return &dto, nil
}

func (s *ProfileService) GetSipAccount(ctx context.Context, userID uuid.UUID) (*domain.SipAccountDTO, error) {
	account, err := s.sipRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSipAccountNotFound
		}
		return nil, fmt.Errorf("failed to get sip account: %w", err)
	}

	dto := mapper.ToSipAccountDTO(account)
	return &dto, nil
}

func (s *ProfileService) UpsertSipAccount(ctx context.Context, userID uuid.UUID, req *domain.UpsertSipAccountRequest) (*domain.SipAccountDTO, error) {
	account := &domain.SipAccount{
		UserID:      userID,
		SipUsername: req.SipUsername,
		SipDomain:   req.SipDomain,
		DisplayName: req.DisplayName,
		IsActive:    req.IsActive,
	}

	if err := s.sipRepo.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to upsert sip account: %w", err)
	}

	stored, err := s.sipRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload sip account: %w", err)
	}

	s.logger.Info("sip account updated",
		zap.String("user_id", userID.String()),
		zap.Bool("is_active", stored.IsActive),
	)

	dto := mapper.ToSipAccountDTO(stored)
	return &dto, nil
}
