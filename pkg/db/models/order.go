package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	orderIDPrefix   = "ORD_"
	receiptIDPrefix = "RCT_"
)

// Order is the single payable order for a contract. Amount is fixed to the
// contract's estimated total price at creation time and never recomputed.
type Order struct {
	ID         string          `gorm:"type:text;primaryKey"`
	ContractID uuid.UUID       `gorm:"column:contract_id;type:uuid;not null;uniqueIndex"`
	BuyerID    uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency   string          `gorm:"type:text;not null;default:'INR'"`
	Receipt    string          `gorm:"type:text;not null"`
	Status     string          `gorm:"type:text;not null;default:'created'"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Contract *Contract `gorm:"foreignKey:ContractID"`
}

// NewOrderID produces an order identifier of the form ORD_<32 hex chars>.
func NewOrderID() string {
	return orderIDPrefix + hexUUID()
}

// NewReceiptID produces a receipt identifier of the form RCT_<32 hex chars>.
func NewReceiptID() string {
	return receiptIDPrefix + hexUUID()
}

func hexUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
