package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// EsignRequest records a raw document signing request issued to the provider.
type EsignRequest struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VerificationID string         `gorm:"column:verification_id;type:text;not null;uniqueIndex"`
	DocumentID     string         `gorm:"column:document_id;type:text"`
	Status         string         `gorm:"type:text;not null"`
	Signers        datatypes.JSON `gorm:"type:jsonb"`
	RawResponse    datatypes.JSON `gorm:"column:raw_response;type:jsonb"`
	RedirectURL    string         `gorm:"column:redirect_url;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// EsignResponse tracks one party's signing flow for a contract. Webhook
// callbacks correlate on VerificationID.
type EsignResponse struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ContractID     uuid.UUID         `gorm:"column:contract_id;type:uuid;not null"`
	Party          enums.SignerParty `gorm:"type:text;not null"`
	Status         enums.EsignStatus `gorm:"type:text;not null;default:'pending'"`
	VerificationID string            `gorm:"column:verification_id;type:text;not null;uniqueIndex"`
	ReferenceID    string            `gorm:"column:reference_id;type:text"`
	DocumentID     string            `gorm:"column:document_id;type:text"`
	SigningLink    string            `gorm:"column:signing_link;type:text"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Contract *Contract `gorm:"foreignKey:ContractID"`
}
