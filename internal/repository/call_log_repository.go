package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"gorm.io/gorm"
)

type CallLogRepository struct {
	db *gorm.DB
}

func NewCallLogRepository(db *gorm.DB) *CallLogRepository {
	return &CallLogRepository{db: db}
}

func (r *CallLogRepository) Create(ctx context.Context, call *domain.CallLog) error {
	return r.db.WithContext(ctx).Create(call).Error
}

func (r *CallLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CallLog, error) {
	var call domain.CallLog
	err := r.db.WithContext(ctx).First(&call, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// GetByProviderCallID looks up the call log a status callback belongs to.
// Returns gorm.ErrRecordNotFound when the provider id is unknown.
func (r *CallLogRepository) GetByProviderCallID(ctx context.Context, providerCallID string) (*domain.CallLog, error) {
	var call domain.CallLog
	err := r.db.WithContext(ctx).
		Where("provider_call_id = ?", providerCallID).
		First(&call).Error
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *CallLogRepository) ListByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.CallLog, error) {
	var calls []domain.CallLog
	query := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&calls).Error
	return calls, err
}

func (r *CallLogRepository) Update(ctx context.Context, call *domain.CallLog) error {
	return r.db.WithContext(ctx).Save(call).Error
}
