package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractTemplate is a farmer's published crop supply offer. Buyers accept a
// template to open a contract; admins toggle the approved flag.
type ContractTemplate struct {
	ID                     uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SubmittedByID          uuid.UUID       `gorm:"column:submitted_by_id;type:uuid;not null"`
	Name                   string          `gorm:"type:text;not null"`
	Description            string          `gorm:"type:text"`
	DocumentURL            string          `gorm:"column:document_url;type:text"`
	PricePerQuintal        decimal.Decimal `gorm:"column:price_per_quintal;type:numeric(10,2);not null"`
	Approved               bool            `gorm:"column:approved;not null;default:false"`
	CropID                 uuid.UUID       `gorm:"column:crop_id;type:uuid;not null"`
	TotalQuintalsRequired  decimal.Decimal `gorm:"column:total_quintals_required;type:numeric(10,2);not null"`
	CreatedAt              time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	SubmittedBy *User        `gorm:"foreignKey:SubmittedByID"`
	Crop        *CropListing `gorm:"foreignKey:CropID"`
}
