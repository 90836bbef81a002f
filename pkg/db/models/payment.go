package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// Payment is one staged installment against an order. PaymentID holds the
// gateway-side order identifier once the gateway call succeeds; status,
// method, amount and contact details are overwritten from the gateway on
// status polls.
type Payment struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PaymentID *string             `gorm:"column:payment_id;type:text;uniqueIndex"`
	OrderID   string              `gorm:"column:order_id;type:text;not null"`
	Stage     enums.PaymentStage  `gorm:"type:text;not null"`
	Status    enums.PaymentStatus `gorm:"type:text;not null;default:'created'"`
	Method    enums.PaymentMethod `gorm:"type:text"`
	Amount    decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Email     string              `gorm:"type:text"`
	Contact   string              `gorm:"type:text"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Order *Order `gorm:"foreignKey:OrderID"`
}

// AdvanceShare and FinalShare split an order amount into the staged
// installments: a quarter up front, the remainder on completion.
var (
	AdvanceShare = decimal.NewFromFloat(0.25)
	FinalShare   = decimal.NewFromFloat(0.75)
)

// StageAmount derives the installment amount for a stage from the order total.
func StageAmount(stage enums.PaymentStage, orderAmount decimal.Decimal) decimal.Decimal {
	if stage == enums.PaymentStageAdvance {
		return orderAmount.Mul(AdvanceShare).Round(2)
	}
	return orderAmount.Mul(FinalShare).Round(2)
}
