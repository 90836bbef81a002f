package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// Contract is an accepted template binding a buyer and a seller. The declared
// quantities come from the buyer's request while the estimate fields are
// produced by the pricing heuristic at creation.
type Contract struct {
	ID                    uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TemplateID            uuid.UUID            `gorm:"column:template_id;type:uuid;not null"`
	BuyerID               uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null"`
	SellerID              uuid.UUID            `gorm:"column:seller_id;type:uuid;not null"`
	Status                enums.ContractStatus `gorm:"type:text;not null;default:'PENDING'"`
	SignedContractURL     string               `gorm:"column:signed_contract_url;type:text"`
	BuyerSigned           bool                 `gorm:"column:buyer_signed;not null;default:false"`
	SellerSigned          bool                 `gorm:"column:seller_signed;not null;default:false"`
	BuyerSignedFileURL    string               `gorm:"column:buyer_signed_file_url;type:text"`
	SellerSignedFileURL   string               `gorm:"column:seller_signed_file_url;type:text"`
	DeclaredQuintals      decimal.Decimal      `gorm:"column:declared_quintals;type:numeric(10,2);not null"`
	DeclaredTotalPrice    decimal.Decimal      `gorm:"column:declared_total_price;type:numeric(12,2);not null"`
	EstimateQuintals      decimal.Decimal      `gorm:"column:estimate_quintals;type:numeric(10,2);not null"`
	EstimateTotalPrice    decimal.Decimal      `gorm:"column:estimate_total_price;type:numeric(12,2);not null"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime"`

	Template *ContractTemplate `gorm:"foreignKey:TemplateID"`
	Buyer    *User             `gorm:"foreignKey:BuyerID"`
	Seller   *User             `gorm:"foreignKey:SellerID"`
}

// IsParty reports whether the given user sits on either side of the contract.
func (c Contract) IsParty(userID uuid.UUID) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// FullySigned reports whether both parties have completed e-sign.
func (c Contract) FullySigned() bool {
	return c.BuyerSigned && c.SellerSigned
}
