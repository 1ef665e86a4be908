package repository

import (
	"context"
	"time"

	"github.com/leadline-crm/leadline-api/internal/domain"
	"gorm.io/gorm"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) Create(ctx context.Context, event *domain.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *WebhookEventRepository) ListByProviderID(ctx context.Context, providerID string) ([]domain.WebhookEvent, error) {
	var events []domain.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("received_at ASC").
		Find(&events).Error
	return events, err
}

// DeleteOlderThan removes webhook events received before the cutoff.
// Returns the number of rows removed.
func (r *WebhookEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("received_at < ?", cutoff).
		Delete(&domain.WebhookEvent{})
	return result.RowsAffected, result.Error
}
