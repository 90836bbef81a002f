package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// CropListing is a platform-curated crop entry that contract templates reference.
type CropListing struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"type:text;not null"`
	Season      enums.CropSeason `gorm:"type:text;not null"`
	Description string           `gorm:"type:text"`
	ImageURL    string           `gorm:"column:image_url;type:text"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	Supervised  bool             `gorm:"column:supervised;not null;default:false"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
