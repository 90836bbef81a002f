package tenders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
)

// Repository persists transportation tenders and their applications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateTender(ctx context.Context, tender *models.TransportationTender) error
	FindTender(ctx context.Context, id uuid.UUID) (*models.TransportationTender, error)
	ListActiveTenders(ctx context.Context, now time.Time) ([]models.TransportationTender, error)
	DeactivateExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)

	CreateApplication(ctx context.Context, application *models.TenderApplication) error
	FindApplication(ctx context.Context, id uuid.UUID) (*models.TenderApplication, error)
	ListApplications(ctx context.Context, tenderID uuid.UUID) ([]models.TenderApplication, error)
	SaveApplication(ctx context.Context, application *models.TenderApplication) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tenders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTender(ctx context.Context, tender *models.TransportationTender) error {
	if tender.ID == uuid.Nil {
		tender.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(tender).Error
}

func (r *repository) FindTender(ctx context.Context, id uuid.UUID) (*models.TransportationTender, error) {
	var tender models.TransportationTender
	if err := r.db.WithContext(ctx).First(&tender, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tender, nil
}

func (r *repository) ListActiveTenders(ctx context.Context, now time.Time) ([]models.TransportationTender, error) {
	var tenders []models.TransportationTender
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND end_date > ?", true, now).
		Order("end_date ASC").
		Find(&tenders).Error
	if err != nil {
		return nil, err
	}
	return tenders, nil
}

func (r *repository) DeactivateExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	handle := r.db
	if tx != nil {
		handle = tx
	}
	result := handle.WithContext(ctx).
		Model(&models.TransportationTender{}).
		Where("is_active = ? AND end_date <= ?", true, now).
		UpdateColumn("is_active", false)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) CreateApplication(ctx context.Context, application *models.TenderApplication) error {
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *repository) FindApplication(ctx context.Context, id uuid.UUID) (*models.TenderApplication, error) {
	var application models.TenderApplication
	if err := r.db.WithContext(ctx).First(&application, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *repository) ListApplications(ctx context.Context, tenderID uuid.UUID) ([]models.TenderApplication, error) {
	var applications []models.TenderApplication
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *repository) SaveApplication(ctx context.Context, application *models.TenderApplication) error {
	return r.db.WithContext(ctx).Save(application).Error
}
