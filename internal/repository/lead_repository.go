package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lms/internal/model"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// LeadFilter narrows and paginates lead listings. Zero values mean "no
// constraint". The service layer forces AssignedTo for non-admin actors.
type LeadFilter struct {
	Status     model.LeadStatus
	LeadSource string
	AssignedTo *uuid.UUID
	Name       string
	Email      string
	Page       int
	Limit      int
}

// LeadRepository defines lead persistence operations.
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	Update(ctx context.Context, lead *model.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository builds a GORM-backed repository.
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *leadRepository) Update(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *leadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Lead{}, "id = ?", id).Error
}

func (r *leadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) List(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := r.db.WithContext(ctx).Model(&model.Lead{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LeadSource != "" {
		query = query.Where("lead_source = ?", filter.LeadSource)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		query = query.Where("email LIKE ?", "%"+filter.Email+"%")
	}

	page := filter.Page
	if page < 1 {
		page = defaultPage
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	var leads []model.Lead
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}
