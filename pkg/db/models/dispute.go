package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// Dispute is raised by either contract party and resolved by admins.
type Dispute struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ContractID   uuid.UUID           `gorm:"column:contract_id;type:uuid;not null"`
	RaisedByID   uuid.UUID           `gorm:"column:raised_by_id;type:uuid;not null"`
	Description  string              `gorm:"type:text;not null"`
	Status       enums.DisputeStatus `gorm:"type:text;not null;default:'pending'"`
	AdminComment string              `gorm:"column:admin_comment;type:text"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Contract *Contract `gorm:"foreignKey:ContractID"`
	RaisedBy *User     `gorm:"foreignKey:RaisedByID"`
}
