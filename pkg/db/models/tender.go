package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// TransportationTender is an open logistics tender published by admins.
type TransportationTender struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	DocumentURL string    `gorm:"column:document_url;type:text"`
	EndDate     time.Time `gorm:"column:end_date;type:timestamptz;not null"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TenderApplication is a transporter's bid on an open tender.
type TenderApplication struct {
	ID            uuid.UUID                     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenderID      uuid.UUID                     `gorm:"column:tender_id;type:uuid;not null"`
	ApplicantName string                        `gorm:"column:applicant_name;type:text;not null"`
	Contact       string                        `gorm:"type:text;not null"`
	Email         string                        `gorm:"type:text;not null"`
	Company       string                        `gorm:"type:text"`
	Address       string                        `gorm:"type:text"`
	FileURL       string                        `gorm:"column:file_url;type:text"`
	Status        enums.TenderApplicationStatus `gorm:"type:text;not null;default:'pending'"`
	IsActive      bool                          `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time                     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                     `gorm:"column:updated_at;autoUpdateTime"`

	Tender *TransportationTender `gorm:"foreignKey:TenderID"`
}
