package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetByPhoneNumber matches a lead by exact phone equality. Inbound webhook
// lookups rely on this; no normalization happens here. When several leads
// share the number the oldest wins, with id as a deterministic tie-break.
func (r *LeadRepository) GetByPhoneNumber(ctx context.Context, phone string) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		Order("created_at ASC, id ASC").
		First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// LeadFilters holds filters for listing leads
type LeadFilters struct {
	Search       string
	AssignedToID *uuid.UUID
}

func (r *LeadRepository) List(ctx context.Context, page, pageSize int, filters *LeadFilters) ([]domain.Lead, int64, error) {
	var leads []domain.Lead
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Lead{})

	if filters != nil {
		if filters.Search != "" {
			searchPattern := "%" + filters.Search + "%"
			query = query.Where(
				"LOWER(name) LIKE LOWER(?) OR phone_number LIKE ? OR LOWER(email) LIKE LOWER(?)",
				searchPattern, searchPattern, searchPattern,
			)
		}
		if filters.AssignedToID != nil {
			query = query.Where("assigned_to_id = ?", *filters.AssignedToID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("AssignedTo").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&leads).Error

	return leads, total, err
}

func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Lead{}, "id = ?", id).Error
}

// ExistsByPhoneNumber reports whether any lead has the given phone number.
// Used by the legacy import to skip already-imported rows.
func (r *LeadRepository) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("phone_number = ?", phone).
		Count(&count).Error
	return count > 0, err
}
