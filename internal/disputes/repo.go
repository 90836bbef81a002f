package disputes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
)

// Repository persists disputes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, dispute *models.Dispute) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error)
	ListAll(ctx context.Context) ([]models.Dispute, error)
	Save(ctx context.Context, dispute *models.Dispute) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a disputes repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, dispute *models.Dispute) error {
	if dispute.ID == uuid.Nil {
		dispute.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(dispute).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	var dispute models.Dispute
	if err := r.db.WithContext(ctx).First(&dispute, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dispute, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.WithContext(ctx).
		Where("raised_by_id = ?", userID).
		Order("created_at DESC").
		Find(&disputes).Error
	if err != nil {
		return nil, err
	}
	return disputes, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&disputes).Error
	if err != nil {
		return nil, err
	}
	return disputes, nil
}

func (r *repository) Save(ctx context.Context, dispute *models.Dispute) error {
	return r.db.WithContext(ctx).Save(dispute).Error
}
