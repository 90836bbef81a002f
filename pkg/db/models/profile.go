package models

import (
	"time"

	"github.com/google/uuid"
)

// FarmerProfile is the farmer-facing public profile, one per farmer user.
type FarmerProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Bio       string    `gorm:"type:text"`
	ImageURL  string    `gorm:"column:image_url;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BuyerProfile is the buyer-facing public profile, one per buyer user.
type BuyerProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Bio       string    `gorm:"type:text"`
	ImageURL  string    `gorm:"column:image_url;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CompanyProfile extends the buyer-style profile with registration details.
type CompanyProfile struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CompanyName      string    `gorm:"column:company_name;type:text"`
	Description      string    `gorm:"type:text"`
	LogoURL          string    `gorm:"column:logo_url;type:text"`
	ISOCertification string    `gorm:"column:iso_certification;type:text"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
