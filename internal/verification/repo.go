package verification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
)

// Repository exposes persistence helpers for verification sub-records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	UpsertGovernmentID(ctx context.Context, record *models.GovernmentID) error
	GetGovernmentID(ctx context.Context, userID uuid.UUID) (*models.GovernmentID, error)
	SetGovernmentIDVerified(ctx context.Context, userID uuid.UUID, verified bool) error

	UpsertLandInformation(ctx context.Context, record *models.LandInformation) error
	GetLandInformation(ctx context.Context, userID uuid.UUID) (*models.LandInformation, error)
	SetLandInformationVerified(ctx context.Context, userID uuid.UUID, verified bool) error

	UpsertGSTInfo(ctx context.Context, record *models.GSTInfo) error
	GetGSTInfo(ctx context.Context, userID uuid.UUID) (*models.GSTInfo, error)
	SetGSTInfoVerified(ctx context.Context, userID uuid.UUID, verified bool) error

	UpsertAddress(ctx context.Context, record *models.Address) error
	GetAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error)

	CreateAadhaarVerification(ctx context.Context, record *models.AadhaarVerification) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a verification repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func onUserConflict(columns ...string) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}
}

func (r *repositoryImpl) UpsertGovernmentID(ctx context.Context, record *models.GovernmentID) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(onUserConflict("id_number", "id_type", "is_verified")).
		Create(record).Error
}

func (r *repositoryImpl) GetGovernmentID(ctx context.Context, userID uuid.UUID) (*models.GovernmentID, error) {
	var record models.GovernmentID
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) SetGovernmentIDVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&models.GovernmentID{}).
		Where("user_id = ?", userID).
		UpdateColumn("is_verified", verified).Error
}

func (r *repositoryImpl) UpsertLandInformation(ctx context.Context, record *models.LandInformation) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(onUserConflict("area_acres", "location", "document_url", "is_verified")).
		Create(record).Error
}

func (r *repositoryImpl) GetLandInformation(ctx context.Context, userID uuid.UUID) (*models.LandInformation, error) {
	var record models.LandInformation
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) SetLandInformationVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&models.LandInformation{}).
		Where("user_id = ?", userID).
		UpdateColumn("is_verified", verified).Error
}

func (r *repositoryImpl) UpsertGSTInfo(ctx context.Context, record *models.GSTInfo) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(onUserConflict("gst_number", "certificate_url", "is_verified")).
		Create(record).Error
}

func (r *repositoryImpl) GetGSTInfo(ctx context.Context, userID uuid.UUID) (*models.GSTInfo, error) {
	var record models.GSTInfo
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) SetGSTInfoVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&models.GSTInfo{}).
		Where("user_id = ?", userID).
		UpdateColumn("is_verified", verified).Error
}

func (r *repositoryImpl) UpsertAddress(ctx context.Context, record *models.Address) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(onUserConflict("line1", "line2", "city", "state", "pincode")).
		Create(record).Error
}

func (r *repositoryImpl) GetAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	var record models.Address
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) CreateAadhaarVerification(ctx context.Context, record *models.AadhaarVerification) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}
