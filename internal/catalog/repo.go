package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
)

// Repository exposes persistence helpers for crops and contract templates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCrop(ctx context.Context, crop *models.CropListing) error
	ListCrops(ctx context.Context, activeOnly bool) ([]models.CropListing, error)
	FindCrop(ctx context.Context, id uuid.UUID) (*models.CropListing, error)

	CreateTemplate(ctx context.Context, template *models.ContractTemplate) error
	FindTemplate(ctx context.Context, id uuid.UUID) (*models.ContractTemplate, error)
	ListTemplatesVisibleTo(ctx context.Context, userID uuid.UUID) ([]models.ContractTemplate, error)
	ListAllTemplates(ctx context.Context) ([]models.ContractTemplate, error)
	SetTemplateApproved(ctx context.Context, id uuid.UUID, approved bool) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateCrop(ctx context.Context, crop *models.CropListing) error {
	if crop.ID == uuid.Nil {
		crop.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(crop).Error
}

func (r *repositoryImpl) ListCrops(ctx context.Context, activeOnly bool) ([]models.CropListing, error) {
	query := r.db.WithContext(ctx).Model(&models.CropListing{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var crops []models.CropListing
	if err := query.Order("name ASC").Find(&crops).Error; err != nil {
		return nil, err
	}
	return crops, nil
}

func (r *repositoryImpl) FindCrop(ctx context.Context, id uuid.UUID) (*models.CropListing, error) {
	var crop models.CropListing
	if err := r.db.WithContext(ctx).First(&crop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &crop, nil
}

func (r *repositoryImpl) CreateTemplate(ctx context.Context, template *models.ContractTemplate) error {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *repositoryImpl) FindTemplate(ctx context.Context, id uuid.UUID) (*models.ContractTemplate, error) {
	var template models.ContractTemplate
	if err := r.db.WithContext(ctx).
		Preload("Crop").
		Preload("SubmittedBy").
		First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// ListTemplatesVisibleTo returns approved templates plus the caller's own
// unapproved ones.
func (r *repositoryImpl) ListTemplatesVisibleTo(ctx context.Context, userID uuid.UUID) ([]models.ContractTemplate, error) {
	var templates []models.ContractTemplate
	if err := r.db.WithContext(ctx).
		Preload("Crop").
		Where("approved = ? OR submitted_by_id = ?", true, userID).
		Order("created_at DESC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repositoryImpl) ListAllTemplates(ctx context.Context) ([]models.ContractTemplate, error) {
	var templates []models.ContractTemplate
	if err := r.db.WithContext(ctx).
		Preload("Crop").
		Order("created_at DESC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repositoryImpl) SetTemplateApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	return r.db.WithContext(ctx).
		Model(&models.ContractTemplate{}).
		Where("id = ?", id).
		UpdateColumn("approved", approved).Error
}
