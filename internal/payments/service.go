package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/razorpay"
)

const gatewayOrderIDPrefix = "order_"

// Service exposes the order and staged-payment operations.
type Service interface {
	GetOrCreateOrder(ctx context.Context, buyerID, contractID uuid.UUID) (*OrderDTO, error)
	CreatePayment(ctx context.Context, buyerID, contractID uuid.UUID, stage enums.PaymentStage) (*CreatePaymentResponse, error)
	PaymentStatus(ctx context.Context, buyerID uuid.UUID, gatewayOrderID string) (*PaymentDTO, error)
	ListOrders(ctx context.Context, buyerID uuid.UUID) ([]OrderDTO, error)
}

type contractReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
}

type gateway interface {
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (map[string]interface{}, error)
	ListOrderPayments(ctx context.Context, orderID string) ([]map[string]interface{}, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      Repository
	contracts contractReader
	gateway   gateway
	tx        txRunner
	notifier  notify.Notifier
}

// ServiceParams bundles the dependencies for the payments service.
type ServiceParams struct {
	Repo      Repository
	Contracts contractReader
	Gateway   gateway
	TxRunner  txRunner
	Notifier  notify.Notifier
}

// NewService wires the payments service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payments repository is required")
	}
	if params.Contracts == nil {
		return nil, fmt.Errorf("contract repository is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &service{
		repo:      params.Repo,
		contracts: params.Contracts,
		gateway:   params.Gateway,
		tx:        params.TxRunner,
		notifier:  params.Notifier,
	}, nil
}

// GetOrCreateOrder returns the contract's single order, creating it on first
// access. The amount is the contract estimate frozen at creation time.
func (s *service) GetOrCreateOrder(ctx context.Context, buyerID, contractID uuid.UUID) (*OrderDTO, error) {
	order, err := s.orderForContract(ctx, buyerID, contractID)
	if err != nil {
		return nil, err
	}
	return orderFromModel(order), nil
}

func (s *service) orderForContract(ctx context.Context, buyerID, contractID uuid.UUID) (*models.Order, error) {
	contract, err := s.contracts.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contract")
	}
	if contract.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the contract buyer can pay")
	}

	order, err := s.repo.FindByContractID(ctx, contractID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	order = &models.Order{
		ID:         models.NewOrderID(),
		ContractID: contract.ID,
		BuyerID:    contract.BuyerID,
		Amount:     contract.EstimateTotalPrice,
		Currency:   "INR",
		Receipt:    models.NewReceiptID(),
		Status:     "created",
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return order, nil
}

// CreatePayment opens a staged installment: the duplicate-stage check and the
// payment insert run in one transaction, then the gateway order is created.
// A gateway failure deletes the just-created row so the stage stays payable.
func (s *service) CreatePayment(ctx context.Context, buyerID, contractID uuid.UUID, stage enums.PaymentStage) (*CreatePaymentResponse, error) {
	if !stage.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stage must be advance or final")
	}

	order, err := s.orderForContract(ctx, buyerID, contractID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		Stage:   stage,
		Status:  enums.PaymentStatusCreated,
		Amount:  models.StageAmount(stage, order.Amount),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		_, err := repo.FindCapturedAtStage(ctx, order.ID, stage)
		if err == nil {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("a captured %s payment already exists for this order", stage))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing payments")
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	body, err := s.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
		AmountPaise: toPaise(payment.Amount),
		Currency:    order.Currency,
		Receipt:     order.Receipt,
		Notes: map[string]interface{}{
			"contract_id": contractID.String(),
			"stage":       string(stage),
		},
	})
	if err != nil {
		if delErr := s.repo.DeletePayment(ctx, payment.ID); delErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, delErr, "roll back payment")
		}
		return nil, err
	}

	gatewayOrderID, _ := body["id"].(string)
	if gatewayOrderID == "" {
		if delErr := s.repo.DeletePayment(ctx, payment.ID); delErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, delErr, "roll back payment")
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gateway returned no order id")
	}
	if err := s.repo.SetGatewayOrderID(ctx, payment.ID, gatewayOrderID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store gateway order id")
	}
	payment.PaymentID = &gatewayOrderID

	return &CreatePaymentResponse{
		Payment:      *paymentFromModel(payment),
		GatewayOrder: body,
	}, nil
}

// PaymentStatus reconciles a local payment from the gateway's payment list.
// The gateway is the source of truth; local fields are overwritten on every
// poll.
func (s *service) PaymentStatus(ctx context.Context, buyerID uuid.UUID, gatewayOrderID string) (*PaymentDTO, error) {
	if !strings.HasPrefix(gatewayOrderID, gatewayOrderIDPrefix) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id must be a gateway order id")
	}

	payment, err := s.repo.FindPaymentByGatewayID(ctx, gatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
	}
	if payment.Order == nil || payment.Order.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "payment belongs to another buyer")
	}

	items, err := s.gateway.ListOrderPayments(ctx, gatewayOrderID)
	if err != nil {
		if razorpay.IsServerError(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "gateway unavailable")
		}
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no payments recorded for this order")
	}

	update := updateFromGatewayItem(items[0])
	if err := s.repo.UpdateFromGateway(ctx, payment.ID, update); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment")
	}

	prevStatus := payment.Status
	payment.Status = update.Status
	payment.Method = update.Method
	payment.Amount = update.Amount
	payment.Email = update.Email
	payment.Contact = update.Contact

	if prevStatus != enums.PaymentStatusCaptured && update.Status == enums.PaymentStatusCaptured {
		message := fmt.Sprintf("Your %s payment of %s INR was captured.", payment.Stage, payment.Amount.StringFixed(2))
		if err := s.notifier.Notify(ctx, buyerID, enums.NotificationTypePayment, "Payment captured", message); err != nil {
			return nil, err
		}
	}

	return paymentFromModel(payment), nil
}

// ListOrders returns the caller's orders, newest first.
func (s *service) ListOrders(ctx context.Context, buyerID uuid.UUID) ([]OrderDTO, error) {
	orders, err := s.repo.ListOrdersForBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *orderFromModel(&orders[i]))
	}
	return out, nil
}

func updateFromGatewayItem(item map[string]interface{}) GatewayPaymentUpdate {
	update := GatewayPaymentUpdate{}
	if status, ok := item["status"].(string); ok {
		update.Status = enums.PaymentStatus(status)
	}
	if method, ok := item["method"].(string); ok {
		update.Method = enums.PaymentMethod(method)
	}
	if amount, ok := item["amount"].(float64); ok {
		update.Amount = fromPaise(int64(amount))
	}
	if email, ok := item["email"].(string); ok {
		update.Email = email
	}
	if contact, ok := item["contact"].(string); ok {
		update.Contact = contact
	}
	return update
}

func toPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromPaise(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Div(decimal.NewFromInt(100))
}
