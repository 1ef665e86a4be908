package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"gorm.io/gorm"
)

type MessageLogRepository struct {
	db *gorm.DB
}

func NewMessageLogRepository(db *gorm.DB) *MessageLogRepository {
	return &MessageLogRepository{db: db}
}

func (r *MessageLogRepository) Create(ctx context.Context, msg *domain.MessageLog) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *MessageLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MessageLog, error) {
	var msg domain.MessageLog
	err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *MessageLogRepository) ListByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.MessageLog, error) {
	var msgs []domain.MessageLog
	query := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&msgs).Error
	return msgs, err
}
