package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmployeeProfileRepository struct {
	db *gorm.DB
}

func NewEmployeeProfileRepository(db *gorm.DB) *EmployeeProfileRepository {
	return &EmployeeProfileRepository{db: db}
}

func (r *EmployeeProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.EmployeeProfile, error) {
	var profile domain.EmployeeProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or updates the single profile row for a user
func (r *EmployeeProfileRepository) Upsert(ctx context.Context, profile *domain.EmployeeProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"phone_number", "updated_at"}),
		}).
		Create(profile).Error
}
