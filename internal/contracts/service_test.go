package contracts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/cashfree"
	"github.com/quanmat/fasalmitra-backend/pkg/config"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

type memContractsRepo struct {
	contracts map[uuid.UUID]*models.Contract
	requests  []*models.EsignRequest
	responses map[uuid.UUID]*models.EsignResponse
}

func newMemContractsRepo() *memContractsRepo {
	return &memContractsRepo{
		contracts: map[uuid.UUID]*models.Contract{},
		responses: map[uuid.UUID]*models.EsignResponse{},
	}
}

func (m *memContractsRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memContractsRepo) Create(ctx context.Context, contract *models.Contract) error {
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	m.contracts[contract.ID] = contract
	return nil
}

func (m *memContractsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	if contract, ok := m.contracts[id]; ok {
		copied := *contract
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memContractsRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Contract, error) {
	var out []models.Contract
	for _, contract := range m.contracts {
		if contract.IsParty(userID) {
			out = append(out, *contract)
		}
	}
	return out, nil
}

func (m *memContractsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ContractStatus) error {
	if contract, ok := m.contracts[id]; ok {
		contract.Status = status
	}
	return nil
}

func (m *memContractsRepo) SetPartySigned(ctx context.Context, id uuid.UUID, party enums.SignerParty, fileURL string) error {
	contract, ok := m.contracts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	switch party {
	case enums.SignerPartyBuyer:
		contract.BuyerSigned = true
		contract.BuyerSignedFileURL = fileURL
	case enums.SignerPartySeller:
		contract.SellerSigned = true
		contract.SellerSignedFileURL = fileURL
	}
	return nil
}

func (m *memContractsRepo) CreateEsignRequest(ctx context.Context, request *models.EsignRequest) error {
	m.requests = append(m.requests, request)
	return nil
}

func (m *memContractsRepo) CreateEsignResponse(ctx context.Context, response *models.EsignResponse) error {
	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	m.responses[response.ID] = response
	return nil
}

func (m *memContractsRepo) FindEsignResponseByVerificationID(ctx context.Context, verificationID string) (*models.EsignResponse, error) {
	for _, response := range m.responses {
		if response.VerificationID == verificationID {
			return response, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memContractsRepo) FindEsignResponse(ctx context.Context, contractID uuid.UUID, party enums.SignerParty) (*models.EsignResponse, error) {
	for _, response := range m.responses {
		if response.ContractID == contractID && response.Party == party {
			return response, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memContractsRepo) ListEsignResponses(ctx context.Context, contractID uuid.UUID) ([]models.EsignResponse, error) {
	var out []models.EsignResponse
	for _, response := range m.responses {
		if response.ContractID == contractID {
			out = append(out, *response)
		}
	}
	return out, nil
}

func (m *memContractsRepo) UpdateEsignResponseStatus(ctx context.Context, id uuid.UUID, status enums.EsignStatus) error {
	if response, ok := m.responses[id]; ok {
		response.Status = status
	}
	return nil
}

type stubTemplateReader struct {
	templates map[uuid.UUID]*models.ContractTemplate
}

func (s *stubTemplateReader) FindTemplate(ctx context.Context, id uuid.UUID) (*models.ContractTemplate, error) {
	if template, ok := s.templates[id]; ok {
		return template, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubUserReader struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserReader) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubOrderReader struct {
	orders map[uuid.UUID]*models.Order
}

func (s *stubOrderReader) FindByContractID(ctx context.Context, contractID uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[contractID]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubEsignProvider struct {
	session *cashfree.EsignSession
	err     error
	calls   int
}

func (s *stubEsignProvider) CreateEsignRequest(ctx context.Context, params cashfree.EsignCreateParams) (*cashfree.EsignSession, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	session := *s.session
	session.VerificationID = params.VerificationID
	return &session, nil
}

type contractsTestSetup struct {
	service   Service
	repo      *memContractsRepo
	templates *stubTemplateReader
	users     *stubUserReader
	orders    *stubOrderReader
	provider  *stubEsignProvider
	recorder  *notify.Recorder

	farmer *models.User
	buyer  *models.User
}

func newContractsTestSetup(t *testing.T) *contractsTestSetup {
	t.Helper()
	farmer := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.com",
		FirstName:    "Ravi",
		LastName:     "Kumar",
		Role:         enums.UserRoleFarmer,
		UserVerified: true,
	}
	buyer := &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		FirstName:    "Meera",
		LastName:     "Shah",
		Role:         enums.UserRoleBuyer,
		UserVerified: true,
	}

	repo := newMemContractsRepo()
	templates := &stubTemplateReader{templates: map[uuid.UUID]*models.ContractTemplate{}}
	users := &stubUserReader{users: map[uuid.UUID]*models.User{farmer.ID: farmer, buyer.ID: buyer}}
	orders := &stubOrderReader{orders: map[uuid.UUID]*models.Order{}}
	provider := &stubEsignProvider{session: &cashfree.EsignSession{
		Status:      "initiated",
		SigningLink: "https://esign.example/session",
		DocumentID:  "doc-1",
	}}
	recorder := &notify.Recorder{}

	svc, err := NewService(ServiceParams{
		Repo:         repo,
		TemplateRepo: templates,
		UserRepo:     users,
		OrderRepo:    orders,
		Esign:        provider,
		Notifier:     recorder,
		AppConfig:    config.AppConfig{BaseURL: "https://app.fasalmitra.in"},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &contractsTestSetup{
		service:   svc,
		repo:      repo,
		templates: templates,
		users:     users,
		orders:    orders,
		provider:  provider,
		recorder:  recorder,
		farmer:    farmer,
		buyer:     buyer,
	}
}

func (s *contractsTestSetup) seedTemplate(t *testing.T, approved bool) *models.ContractTemplate {
	t.Helper()
	template := &models.ContractTemplate{
		ID:                    uuid.New(),
		SubmittedByID:         s.farmer.ID,
		Name:                  "Rabi wheat supply",
		DocumentURL:           "https://docs.example/template.pdf",
		PricePerQuintal:       decimal.NewFromInt(2000),
		Approved:              approved,
		TotalQuintalsRequired: decimal.NewFromInt(100),
		Crop: &models.CropListing{
			ID:     uuid.New(),
			Name:   "Wheat",
			Season: enums.CropSeasonKharif,
		},
	}
	s.templates.templates[template.ID] = template
	return template
}

func (s *contractsTestSetup) acceptedContract(t *testing.T) *ContractDTO {
	t.Helper()
	template := s.seedTemplate(t, true)
	dto, err := s.service.Accept(context.Background(), s.buyer.ID, AcceptTemplateRequest{
		TemplateID:       template.ID,
		DeclaredQuintals: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	return dto
}

func TestAccept_CreatesPendingContractWithEstimate(t *testing.T) {
	setup := newContractsTestSetup(t)
	dto := setup.acceptedContract(t)

	if dto.Status != enums.ContractStatusPending {
		t.Fatalf("expected pending status, got %s", dto.Status)
	}
	if dto.SellerID != setup.farmer.ID || dto.BuyerID != setup.buyer.ID {
		t.Fatalf("party assignment wrong: %+v", dto)
	}
	want := decimal.NewFromInt(10000)
	if !dto.EstimateTotalPrice.Equal(want) {
		t.Fatalf("expected estimate 10000.00, got %s", dto.EstimateTotalPrice)
	}
	if !dto.DeclaredTotalPrice.Equal(want) {
		t.Fatalf("expected declared total 10000.00, got %s", dto.DeclaredTotalPrice)
	}
	if got := len(setup.recorder.NotificationsFor(setup.farmer.ID)); got != 1 {
		t.Fatalf("expected seller notification, got %d", got)
	}
}

func TestAccept_RejectsUnapprovedTemplate(t *testing.T) {
	setup := newContractsTestSetup(t)
	template := setup.seedTemplate(t, false)

	_, err := setup.service.Accept(context.Background(), setup.buyer.ID, AcceptTemplateRequest{
		TemplateID:       template.ID,
		DeclaredQuintals: decimal.NewFromInt(5),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAccept_RejectsOwnTemplate(t *testing.T) {
	setup := newContractsTestSetup(t)
	template := setup.seedTemplate(t, true)
	setup.farmer.Role = enums.UserRoleBuyer // owner somehow holding a buyer account

	_, err := setup.service.Accept(context.Background(), setup.farmer.ID, AcceptTemplateRequest{
		TemplateID:       template.ID,
		DeclaredQuintals: decimal.NewFromInt(5),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAccept_RejectsOverCapacity(t *testing.T) {
	setup := newContractsTestSetup(t)
	template := setup.seedTemplate(t, true)

	_, err := setup.service.Accept(context.Background(), setup.buyer.ID, AcceptTemplateRequest{
		TemplateID:       template.ID,
		DeclaredQuintals: decimal.NewFromInt(500),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInitiateEsign_CreatesSessionAndIsIdempotent(t *testing.T) {
	setup := newContractsTestSetup(t)
	dto := setup.acceptedContract(t)
	ctx := context.Background()

	first, err := setup.service.InitiateEsign(ctx, setup.buyer.ID, dto.ID)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if first.Party != enums.SignerPartyBuyer {
		t.Fatalf("expected buyer party, got %s", first.Party)
	}
	if first.SigningLink == "" {
		t.Fatalf("expected signing link")
	}
	if len(setup.repo.requests) != 1 {
		t.Fatalf("expected provider request persisted")
	}

	second, err := setup.service.InitiateEsign(ctx, setup.buyer.ID, dto.ID)
	if err != nil {
		t.Fatalf("re-initiate: %v", err)
	}
	if second.VerificationID != first.VerificationID {
		t.Fatalf("expected existing session to be reused")
	}
	if setup.provider.calls != 1 {
		t.Fatalf("provider must not be called again, got %d calls", setup.provider.calls)
	}
}

func TestInitiateEsign_RejectsStranger(t *testing.T) {
	setup := newContractsTestSetup(t)
	dto := setup.acceptedContract(t)

	_, err := setup.service.InitiateEsign(context.Background(), uuid.New(), dto.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestHandleEsignWebhook_BothPartiesApproveContract(t *testing.T) {
	setup := newContractsTestSetup(t)
	dto := setup.acceptedContract(t)
	ctx := context.Background()

	buyerSession, err := setup.service.InitiateEsign(ctx, setup.buyer.ID, dto.ID)
	if err != nil {
		t.Fatalf("buyer initiate: %v", err)
	}
	sellerSession, err := setup.service.InitiateEsign(ctx, setup.farmer.ID, dto.ID)
	if err != nil {
		t.Fatalf("seller initiate: %v", err)
	}

	if err := setup.service.HandleEsignWebhook(ctx, EsignWebhookPayload{
		VerificationID: buyerSession.VerificationID,
		Status:         "SUCCESS",
		SignedDocURL:   "https://docs.example/buyer-signed.pdf",
	}); err != nil {
		t.Fatalf("buyer webhook: %v", err)
	}

	contract := setup.repo.contracts[dto.ID]
	if !contract.BuyerSigned || contract.SellerSigned {
		t.Fatalf("only buyer should be signed: %+v", contract)
	}
	if contract.Status != enums.ContractStatusPending {
		t.Fatalf("contract must stay pending until both sign")
	}

	if err := setup.service.HandleEsignWebhook(ctx, EsignWebhookPayload{
		VerificationID: sellerSession.VerificationID,
		Status:         "SUCCESS",
	}); err != nil {
		t.Fatalf("seller webhook: %v", err)
	}

	if contract.Status != enums.ContractStatusApproved {
		t.Fatalf("expected approved contract, got %s", contract.Status)
	}
	if got := len(setup.recorder.NotificationsFor(setup.buyer.ID)); got != 1 {
		t.Fatalf("expected buyer approval notification, got %d", got)
	}
	// Seller got the acceptance notification and the approval one.
	if got := len(setup.recorder.NotificationsFor(setup.farmer.ID)); got != 2 {
		t.Fatalf("expected two seller notifications, got %d", got)
	}
}

func TestHandleEsignWebhook_FailedDoesNotSign(t *testing.T) {
	setup := newContractsTestSetup(t)
	dto := setup.acceptedContract(t)
	ctx := context.Background()

	session, err := setup.service.InitiateEsign(ctx, setup.buyer.ID, dto.ID)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if err := setup.service.HandleEsignWebhook(ctx, EsignWebhookPayload{
		VerificationID: session.VerificationID,
		Status:         "FAILED",
	}); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	contract := setup.repo.contracts[dto.ID]
	if contract.BuyerSigned {
		t.Fatalf("failed webhook must not set the signed flag")
	}
}

func TestHandleEsignWebhook_UnknownVerificationID(t *testing.T) {
	setup := newContractsTestSetup(t)

	err := setup.service.HandleEsignWebhook(context.Background(), EsignWebhookPayload{
		VerificationID: "ESG_missing",
		Status:         "SUCCESS",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
