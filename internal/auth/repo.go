package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
)

// Repository persists email verification tokens. One active token per user;
// re-registering attempts replace the previous token.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertVerificationToken(ctx context.Context, userID uuid.UUID, token uuid.UUID, expiresAt time.Time) error
	FindVerificationToken(ctx context.Context, token uuid.UUID) (*models.EmailVerificationToken, error)
	DeleteVerificationToken(ctx context.Context, userID uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an auth repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) UpsertVerificationToken(ctx context.Context, userID uuid.UUID, token uuid.UUID, expiresAt time.Time) error {
	row := &models.EmailVerificationToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at"}),
	}).Create(row).Error
}

func (r *repositoryImpl) FindVerificationToken(ctx context.Context, token uuid.UUID) (*models.EmailVerificationToken, error) {
	var row models.EmailVerificationToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) DeleteVerificationToken(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.EmailVerificationToken{}).Error
}
