package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SipAccountRepository struct {
	db *gorm.DB
}

func NewSipAccountRepository(db *gorm.DB) *SipAccountRepository {
	return &SipAccountRepository{db: db}
}

func (r *SipAccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.SipAccount, error) {
	var account domain.SipAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetActiveByUserID returns the user's SIP account only when it is active.
// Inactive accounts behave as absent for destination resolution.
func (r *SipAccountRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*domain.SipAccount, error) {
	var account domain.SipAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Upsert creates or updates the single SIP account row for a user
func (r *SipAccountRepository) Upsert(ctx context.Context, account *domain.SipAccount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"sip_username", "sip_domain", "display_name", "is_active", "updated_at"}),
		}).
		Create(account).Error
}
