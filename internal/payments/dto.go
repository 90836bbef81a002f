package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// OrderDTO is the API shape of a contract's payable order.
type OrderDTO struct {
	ID         string          `json:"id"`
	ContractID uuid.UUID       `json:"contract_id"`
	BuyerID    uuid.UUID       `json:"buyer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Receipt    string          `json:"receipt"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PaymentDTO is the API shape of a staged installment.
type PaymentDTO struct {
	ID        uuid.UUID           `json:"id"`
	PaymentID *string             `json:"payment_id,omitempty"`
	OrderID   string              `json:"order_id"`
	Stage     enums.PaymentStage  `json:"stage"`
	Status    enums.PaymentStatus `json:"status"`
	Method    enums.PaymentMethod `json:"method,omitempty"`
	Amount    decimal.Decimal     `json:"amount"`
	Email     string              `json:"email,omitempty"`
	Contact   string              `json:"contact,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// CreatePaymentResponse returns the local installment together with the raw
// gateway order payload the checkout widget consumes.
type CreatePaymentResponse struct {
	Payment      PaymentDTO             `json:"payment"`
	GatewayOrder map[string]interface{} `json:"gateway_order"`
}

func orderFromModel(m *models.Order) *OrderDTO {
	return &OrderDTO{
		ID:         m.ID,
		ContractID: m.ContractID,
		BuyerID:    m.BuyerID,
		Amount:     m.Amount,
		Currency:   m.Currency,
		Receipt:    m.Receipt,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
	}
}

func paymentFromModel(m *models.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:        m.ID,
		PaymentID: m.PaymentID,
		OrderID:   m.OrderID,
		Stage:     m.Stage,
		Status:    m.Status,
		Method:    m.Method,
		Amount:    m.Amount,
		Email:     m.Email,
		Contact:   m.Contact,
		CreatedAt: m.CreatedAt,
	}
}
