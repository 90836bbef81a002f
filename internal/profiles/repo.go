package profiles

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// Repository exposes persistence helpers for role profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	EnsureForRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error
	GetFarmer(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error)
	GetBuyer(ctx context.Context, userID uuid.UUID) (*models.BuyerProfile, error)
	GetCompany(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error)
	SaveFarmer(ctx context.Context, profile *models.FarmerProfile) error
	SaveBuyer(ctx context.Context, profile *models.BuyerProfile) error
	SaveCompany(ctx context.Context, profile *models.CompanyProfile) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a profiles repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// EnsureForRole creates the role's profile row when it does not exist yet.
// A second call for the same user is a no-op.
func (r *repositoryImpl) EnsureForRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error {
	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}
	switch role {
	case enums.UserRoleFarmer:
		return r.db.WithContext(ctx).Clauses(conflict).
			Create(&models.FarmerProfile{ID: uuid.New(), UserID: userID}).Error
	case enums.UserRoleBuyer:
		return r.db.WithContext(ctx).Clauses(conflict).
			Create(&models.BuyerProfile{ID: uuid.New(), UserID: userID}).Error
	case enums.UserRoleCompany:
		return r.db.WithContext(ctx).Clauses(conflict).
			Create(&models.CompanyProfile{ID: uuid.New(), UserID: userID}).Error
	case enums.UserRoleAdmin:
		return nil
	default:
		return fmt.Errorf("unsupported role %q", role)
	}
}

func (r *repositoryImpl) GetFarmer(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repositoryImpl) GetBuyer(ctx context.Context, userID uuid.UUID) (*models.BuyerProfile, error) {
	var profile models.BuyerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repositoryImpl) GetCompany(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repositoryImpl) SaveFarmer(ctx context.Context, profile *models.FarmerProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *repositoryImpl) SaveBuyer(ctx context.Context, profile *models.BuyerProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *repositoryImpl) SaveCompany(ctx context.Context, profile *models.CompanyProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
