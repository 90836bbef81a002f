package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GovernmentID is the one-per-user identity document record.
type GovernmentID struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	IDNumber    string    `gorm:"column:id_number;type:text;not null"`
	IDType      string    `gorm:"column:id_type;type:text;not null;default:'Aadhar Card'"`
	IsVerified  bool      `gorm:"column:is_verified;not null;default:false"`
	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// LandInformation is the one-per-farmer land holding record.
type LandInformation struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AreaAcres   decimal.Decimal `gorm:"column:area_acres;type:numeric(10,2);not null"`
	Location    string          `gorm:"type:text;not null"`
	DocumentURL string          `gorm:"column:document_url;type:text"`
	IsVerified  bool            `gorm:"column:is_verified;not null;default:false"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// GSTInfo is the one-per-company tax registration record.
type GSTInfo struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	GSTNumber      string    `gorm:"column:gst_number;type:text;not null"`
	CertificateURL string    `gorm:"column:certificate_url;type:text"`
	IsVerified     bool      `gorm:"column:is_verified;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Address is the single postal address attached to a user.
type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Line1     string    `gorm:"column:line1;type:text;not null"`
	Line2     string    `gorm:"column:line2;type:text"`
	City      string    `gorm:"type:text;not null"`
	State     string    `gorm:"type:text;not null"`
	Pincode   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// AadhaarVerification snapshots a completed provider OTP verification.
type AadhaarVerification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null"`
	RefID       string    `gorm:"column:ref_id;type:text;not null;uniqueIndex"`
	Status      string    `gorm:"type:text;not null"`
	Name        string    `gorm:"type:text"`
	DOB         string    `gorm:"column:dob;type:text"`
	Gender      string    `gorm:"type:text"`
	CareOf      string    `gorm:"column:care_of;type:text"`
	FullAddress string    `gorm:"column:full_address;type:text"`
	PhotoLink   string    `gorm:"column:photo_link;type:text"`
	VerifiedAt  time.Time `gorm:"column:verified_at;type:timestamptz"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
