package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// Repository persists orders and their staged payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrderByID(ctx context.Context, id string) (*models.Order, error)
	FindByContractID(ctx context.Context, contractID uuid.UUID) (*models.Order, error)
	ListOrdersForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	DeletePayment(ctx context.Context, id uuid.UUID) error
	FindCapturedAtStage(ctx context.Context, orderID string, stage enums.PaymentStage) (*models.Payment, error)
	FindPaymentByGatewayID(ctx context.Context, gatewayOrderID string) (*models.Payment, error)
	SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error
	UpdateFromGateway(ctx context.Context, id uuid.UUID, update GatewayPaymentUpdate) error
}

// GatewayPaymentUpdate carries the gateway-reported fields that overwrite the
// local payment row on status polls.
type GatewayPaymentUpdate struct {
	Status  enums.PaymentStatus
	Method  enums.PaymentMethod
	Amount  decimal.Decimal
	Email   string
	Contact string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByContractID(ctx context.Context, contractID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "contract_id = ?", contractID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrdersForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id).Error
}

func (r *repository) FindCapturedAtStage(ctx context.Context, orderID string, stage enums.PaymentStage) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND stage = ? AND status = ?", orderID, stage, enums.PaymentStatusCaptured).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) FindPaymentByGatewayID(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Order").
		First(&payment, "payment_id = ?", gatewayOrderID).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		UpdateColumn("payment_id", gatewayOrderID).Error
}

func (r *repository) UpdateFromGateway(ctx context.Context, id uuid.UUID, update GatewayPaymentUpdate) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":  update.Status,
			"method":  update.Method,
			"amount":  update.Amount,
			"email":   update.Email,
			"contact": update.Contact,
		}).Error
}
