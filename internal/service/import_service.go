package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/legacy"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"go.uber.org/zap"
)

// importBatchSize caps how many legacy rows one import run considers
const importBatchSize = 1000

// ImportService copies leads out of the legacy CRM. Idempotent by phone
// number: a lead whose phone already exists here is skipped, so re-running
// the import is safe.
type ImportService struct {
	legacyClient *legacy.Client
	leadRepo     *repository.LeadRepository
	logger       *zap.Logger
}

func NewImportService(
	legacyClient *legacy.Client,
	leadRepo *repository.LeadRepository,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		legacyClient: legacyClient,
		leadRepo:     leadRepo,
		logger:       logger,
	}
}

func (s *ImportService) ImportLeads(ctx context.Context) (*domain.LegacyImportResultDTO, error) {
	if !s.legacyClient.IsEnabled() {
		return nil, ErrLegacyImportDisabled
	}

	rows, err := s.legacyClient.FetchLeads(ctx, importBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch legacy leads: %w", err)
	}

	result := &domain.LegacyImportResultDTO{}
	for _, row := range rows {
		phone := strings.TrimSpace(row.PhoneNumber)
		if phone == "" {
			result.Skipped++
			continue
		}

		exists, err := s.leadRepo.ExistsByPhoneNumber(ctx, phone)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing lead: %w", err)
		}
		if exists {
			result.Skipped++
			continue
		}

		lead := &domain.Lead{
			Name:        row.Name,
			PhoneNumber: phone,
			Email:       row.Email,
			Notes:       row.Notes,
		}
		if err := s.leadRepo.Create(ctx, lead); err != nil {
			return nil, fmt.Errorf("failed to create imported lead: %w", err)
		}
		result.Imported++
	}

	s.logger.Info("legacy lead import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}
