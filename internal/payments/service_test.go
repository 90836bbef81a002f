package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/razorpay"
)

type memPaymentsRepo struct {
	orders   map[uuid.UUID]*models.Order
	payments map[uuid.UUID]*models.Payment
}

func newMemPaymentsRepo() *memPaymentsRepo {
	return &memPaymentsRepo{
		orders:   map[uuid.UUID]*models.Order{},
		payments: map[uuid.UUID]*models.Payment{},
	}
}

func (m *memPaymentsRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memPaymentsRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	m.orders[order.ContractID] = order
	return nil
}

func (m *memPaymentsRepo) FindOrderByID(ctx context.Context, id string) (*models.Order, error) {
	for _, order := range m.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPaymentsRepo) FindByContractID(ctx context.Context, contractID uuid.UUID) (*models.Order, error) {
	if order, ok := m.orders[contractID]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPaymentsRepo) ListOrdersForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range m.orders {
		if order.BuyerID == buyerID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *memPaymentsRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	copied := *payment
	m.payments[payment.ID] = &copied
	return nil
}

func (m *memPaymentsRepo) DeletePayment(ctx context.Context, id uuid.UUID) error {
	delete(m.payments, id)
	return nil
}

func (m *memPaymentsRepo) FindCapturedAtStage(ctx context.Context, orderID string, stage enums.PaymentStage) (*models.Payment, error) {
	for _, payment := range m.payments {
		if payment.OrderID == orderID && payment.Stage == stage && payment.Status == enums.PaymentStatusCaptured {
			return payment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPaymentsRepo) FindPaymentByGatewayID(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	for _, payment := range m.payments {
		if payment.PaymentID != nil && *payment.PaymentID == gatewayOrderID {
			copied := *payment
			for _, order := range m.orders {
				if order.ID == payment.OrderID {
					copied.Order = order
				}
			}
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPaymentsRepo) SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	if payment, ok := m.payments[id]; ok {
		payment.PaymentID = &gatewayOrderID
	}
	return nil
}

func (m *memPaymentsRepo) UpdateFromGateway(ctx context.Context, id uuid.UUID, update GatewayPaymentUpdate) error {
	payment, ok := m.payments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	payment.Status = update.Status
	payment.Method = update.Method
	payment.Amount = update.Amount
	payment.Email = update.Email
	payment.Contact = update.Contact
	return nil
}

type stubContractReader struct {
	contracts map[uuid.UUID]*models.Contract
}

func (s *stubContractReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	if contract, ok := s.contracts[id]; ok {
		return contract, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubGateway struct {
	createBody  map[string]interface{}
	createErr   error
	createCalls int

	listItems []map[string]interface{}
	listErr   error
}

func (s *stubGateway) CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (map[string]interface{}, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createBody, nil
}

func (s *stubGateway) ListOrderPayments(ctx context.Context, orderID string) ([]map[string]interface{}, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listItems, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type paymentsTestSetup struct {
	service  Service
	repo     *memPaymentsRepo
	gateway  *stubGateway
	recorder *notify.Recorder

	buyerID    uuid.UUID
	contractID uuid.UUID
}

func newPaymentsTestSetup(t *testing.T) *paymentsTestSetup {
	t.Helper()

	buyerID := uuid.New()
	contract := &models.Contract{
		ID:                 uuid.New(),
		BuyerID:            buyerID,
		SellerID:           uuid.New(),
		Status:             enums.ContractStatusApproved,
		EstimateTotalPrice: decimal.RequireFromString("10000.00"),
	}

	repo := newMemPaymentsRepo()
	gateway := &stubGateway{
		createBody: map[string]interface{}{
			"id":     "order_NewGateway01",
			"status": "created",
		},
	}
	recorder := &notify.Recorder{}

	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Contracts: &stubContractReader{contracts: map[uuid.UUID]*models.Contract{contract.ID: contract}},
		Gateway:   gateway,
		TxRunner:  stubTxRunner{},
		Notifier:  recorder,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &paymentsTestSetup{
		service:    svc,
		repo:       repo,
		gateway:    gateway,
		recorder:   recorder,
		buyerID:    buyerID,
		contractID: contract.ID,
	}
}

func TestGetOrCreateOrder_SnapshotsContractEstimate(t *testing.T) {
	setup := newPaymentsTestSetup(t)
	ctx := context.Background()

	order, err := setup.service.GetOrCreateOrder(ctx, setup.buyerID, setup.contractID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if !order.Amount.Equal(decimal.RequireFromString("10000.00")) {
		t.Fatalf("expected order amount 10000.00, got %s", order.Amount)
	}
	if order.ID == "" || order.ID[:4] != "ORD_" {
		t.Fatalf("unexpected order id %q", order.ID)
	}

	again, err := setup.service.GetOrCreateOrder(ctx, setup.buyerID, setup.contractID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if again.ID != order.ID {
		t.Fatalf("expected the same order on repeat calls")
	}
}

func TestGetOrCreateOrder_RejectsNonBuyer(t *testing.T) {
	setup := newPaymentsTestSetup(t)

	_, err := setup.service.GetOrCreateOrder(context.Background(), uuid.New(), setup.contractID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreatePayment_AdvanceIsQuarterOfOrder(t *testing.T) {
	setup := newPaymentsTestSetup(t)

	resp, err := setup.service.CreatePayment(context.Background(), setup.buyerID, setup.contractID, enums.PaymentStageAdvance)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if !resp.Payment.Amount.Equal(decimal.RequireFromString("2500.00")) {
		t.Fatalf("expected advance 2500.00, got %s", resp.Payment.Amount)
	}
	if resp.Payment.PaymentID == nil || *resp.Payment.PaymentID != "order_NewGateway01" {
		t.Fatalf("gateway order id not stored: %+v", resp.Payment)
	}
	if resp.GatewayOrder["id"] != "order_NewGateway01" {
		t.Fatalf("gateway payload not returned")
	}
}

func TestCreatePayment_FinalIsRemainder(t *testing.T) {
	setup := newPaymentsTestSetup(t)

	resp, err := setup.service.CreatePayment(context.Background(), setup.buyerID, setup.contractID, enums.PaymentStageFinal)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if !resp.Payment.Amount.Equal(decimal.RequireFromString("7500.00")) {
		t.Fatalf("expected final 7500.00, got %s", resp.Payment.Amount)
	}
}

func TestCreatePayment_RejectsDuplicateCapturedStage(t *testing.T) {
	setup := newPaymentsTestSetup(t)
	ctx := context.Background()

	resp, err := setup.service.CreatePayment(ctx, setup.buyerID, setup.contractID, enums.PaymentStageAdvance)
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	setup.repo.payments[resp.Payment.ID].Status = enums.PaymentStatusCaptured

	_, err = setup.service.CreatePayment(ctx, setup.buyerID, setup.contractID, enums.PaymentStageAdvance)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePayment_GatewayFailureDeletesRow(t *testing.T) {
	setup := newPaymentsTestSetup(t)
	setup.gateway.createErr = pkgerrors.New(pkgerrors.CodeDependency, "razorpay create order failed")

	_, err := setup.service.CreatePayment(context.Background(), setup.buyerID, setup.contractID, enums.PaymentStageAdvance)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(setup.repo.payments) != 0 {
		t.Fatalf("expected the payment row to be rolled back, %d rows remain", len(setup.repo.payments))
	}
}

func TestCreatePayment_RejectsUnknownStage(t *testing.T) {
	setup := newPaymentsTestSetup(t)

	_, err := setup.service.CreatePayment(context.Background(), setup.buyerID, setup.contractID, enums.PaymentStage("partial"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if setup.gateway.createCalls != 0 {
		t.Fatalf("gateway must not be called for an invalid stage")
	}
}

func TestPaymentStatus_OverwritesFromGatewayAndNotifiesOnCapture(t *testing.T) {
	setup := newPaymentsTestSetup(t)
	ctx := context.Background()

	resp, err := setup.service.CreatePayment(ctx, setup.buyerID, setup.contractID, enums.PaymentStageAdvance)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	setup.gateway.listItems = []map[string]interface{}{{
		"status":  "captured",
		"method":  "upi",
		"amount":  float64(250000),
		"email":   "buyer@example.com",
		"contact": "+919999999999",
	}}

	dto, err := setup.service.PaymentStatus(ctx, setup.buyerID, *resp.Payment.PaymentID)
	if err != nil {
		t.Fatalf("payment status: %v", err)
	}
	if dto.Status != enums.PaymentStatusCaptured {
		t.Fatalf("expected captured, got %s", dto.Status)
	}
	if dto.Method != enums.PaymentMethodUPI {
		t.Fatalf("expected upi, got %s", dto.Method)
	}
	if !dto.Amount.Equal(decimal.RequireFromString("2500")) {
		t.Fatalf("expected amount 2500, got %s", dto.Amount)
	}
	if got := len(setup.recorder.NotificationsFor(setup.buyerID)); got != 1 {
		t.Fatalf("expected one capture notification, got %d", got)
	}

	// Polling again after capture stays silent.
	if _, err := setup.service.PaymentStatus(ctx, setup.buyerID, *resp.Payment.PaymentID); err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if got := len(setup.recorder.NotificationsFor(setup.buyerID)); got != 1 {
		t.Fatalf("expected no second notification, got %d", got)
	}
}

func TestPaymentStatus_RejectsNonGatewayID(t *testing.T) {
	setup := newPaymentsTestSetup(t)

	_, err := setup.service.PaymentStatus(context.Background(), setup.buyerID, "pay_123")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPaymentStatus_EmptyGatewayListIsNotFound(t *testing.T) {
	setup := newPaymentsTestSetup(t)
	ctx := context.Background()

	resp, err := setup.service.CreatePayment(ctx, setup.buyerID, setup.contractID, enums.PaymentStageAdvance)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	_, err = setup.service.PaymentStatus(ctx, setup.buyerID, *resp.Payment.PaymentID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
