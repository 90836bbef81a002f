package verification

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/cashfree"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

type memVerificationRepo struct {
	govIDs    map[uuid.UUID]*models.GovernmentID
	lands     map[uuid.UUID]*models.LandInformation
	gsts      map[uuid.UUID]*models.GSTInfo
	addresses map[uuid.UUID]*models.Address
	aadhaar   []*models.AadhaarVerification
}

func newMemVerificationRepo() *memVerificationRepo {
	return &memVerificationRepo{
		govIDs:    map[uuid.UUID]*models.GovernmentID{},
		lands:     map[uuid.UUID]*models.LandInformation{},
		gsts:      map[uuid.UUID]*models.GSTInfo{},
		addresses: map[uuid.UUID]*models.Address{},
	}
}

func (m *memVerificationRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memVerificationRepo) UpsertGovernmentID(ctx context.Context, record *models.GovernmentID) error {
	m.govIDs[record.UserID] = record
	return nil
}

func (m *memVerificationRepo) GetGovernmentID(ctx context.Context, userID uuid.UUID) (*models.GovernmentID, error) {
	if record, ok := m.govIDs[userID]; ok {
		return record, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memVerificationRepo) SetGovernmentIDVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	if record, ok := m.govIDs[userID]; ok {
		record.IsVerified = verified
	}
	return nil
}

func (m *memVerificationRepo) UpsertLandInformation(ctx context.Context, record *models.LandInformation) error {
	m.lands[record.UserID] = record
	return nil
}

func (m *memVerificationRepo) GetLandInformation(ctx context.Context, userID uuid.UUID) (*models.LandInformation, error) {
	if record, ok := m.lands[userID]; ok {
		return record, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memVerificationRepo) SetLandInformationVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	if record, ok := m.lands[userID]; ok {
		record.IsVerified = verified
	}
	return nil
}

func (m *memVerificationRepo) UpsertGSTInfo(ctx context.Context, record *models.GSTInfo) error {
	m.gsts[record.UserID] = record
	return nil
}

func (m *memVerificationRepo) GetGSTInfo(ctx context.Context, userID uuid.UUID) (*models.GSTInfo, error) {
	if record, ok := m.gsts[userID]; ok {
		return record, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memVerificationRepo) SetGSTInfoVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	if record, ok := m.gsts[userID]; ok {
		record.IsVerified = verified
	}
	return nil
}

func (m *memVerificationRepo) UpsertAddress(ctx context.Context, record *models.Address) error {
	m.addresses[record.UserID] = record
	return nil
}

func (m *memVerificationRepo) GetAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	if record, ok := m.addresses[userID]; ok {
		return record, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memVerificationRepo) CreateAadhaarVerification(ctx context.Context, record *models.AadhaarVerification) error {
	m.aadhaar = append(m.aadhaar, record)
	return nil
}

type stubUserRepo struct {
	users      map[uuid.UUID]*models.User
	govIDFlags []bool
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) SetGovIDVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	s.govIDFlags = append(s.govIDFlags, verified)
	if user, ok := s.users[id]; ok {
		user.IsGovIDVerified = verified
	}
	return nil
}

type stubRecomputer struct {
	calls []uuid.UUID
}

func (s *stubRecomputer) RecomputeVerification(ctx context.Context, userID uuid.UUID) (bool, error) {
	s.calls = append(s.calls, userID)
	return false, nil
}

type stubAadhaarProvider struct {
	otp    *cashfree.OTPRequest
	record *cashfree.AadhaarRecord
	err    error
}

func (s *stubAadhaarProvider) RequestAadhaarOTP(ctx context.Context, aadhaarNumber string) (*cashfree.OTPRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.otp, nil
}

func (s *stubAadhaarProvider) VerifyAadhaarOTP(ctx context.Context, refID, otp string) (*cashfree.AadhaarRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

type verificationTestSetup struct {
	service    Service
	repo       *memVerificationRepo
	users      *stubUserRepo
	recorder   *notify.Recorder
	recomputer *stubRecomputer
	provider   *stubAadhaarProvider
}

func newVerificationTestSetup(t *testing.T, seedUsers ...*models.User) *verificationTestSetup {
	t.Helper()
	repo := newMemVerificationRepo()
	users := &stubUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, user := range seedUsers {
		users.users[user.ID] = user
	}
	recorder := &notify.Recorder{}
	recomputer := &stubRecomputer{}
	provider := &stubAadhaarProvider{}
	svc, err := NewService(ServiceParams{
		Repo:         repo,
		UserRepo:     users,
		UsersService: recomputer,
		Notifier:     recorder,
		Aadhaar:      provider,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &verificationTestSetup{
		service:    svc,
		repo:       repo,
		users:      users,
		recorder:   recorder,
		recomputer: recomputer,
		provider:   provider,
	}
}

func farmerUser() *models.User {
	return &models.User{
		ID:        uuid.New(),
		Email:     "farmer@example.com",
		FirstName: "Ravi",
		Role:      enums.UserRoleFarmer,
		IsActive:  true,
	}
}

func TestSubmitGovernmentID_ResetsVerifiedFlag(t *testing.T) {
	user := farmerUser()
	setup := newVerificationTestSetup(t, user)

	dto, err := setup.service.SubmitGovernmentID(context.Background(), user.ID, SubmitGovernmentIDRequest{IDNumber: "123412341234"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.IDType != "Aadhar Card" {
		t.Fatalf("expected default id type, got %s", dto.IDType)
	}
	if dto.IsVerified {
		t.Fatalf("new submission must not be verified")
	}
	if len(setup.users.govIDFlags) != 1 || setup.users.govIDFlags[0] {
		t.Fatalf("expected user gov id flag reset to false, got %v", setup.users.govIDFlags)
	}
}

func TestAdminVerifyGovernmentID_NotifiesOnceOnFlip(t *testing.T) {
	user := farmerUser()
	setup := newVerificationTestSetup(t, user)
	ctx := context.Background()

	if _, err := setup.service.SubmitGovernmentID(ctx, user.ID, SubmitGovernmentIDRequest{IDNumber: "123412341234"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := setup.service.AdminVerifyGovernmentID(ctx, user.ID, true); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(setup.recorder.NotificationsFor(user.ID)) != 1 {
		t.Fatalf("expected one notification, got %d", len(setup.recorder.NotificationsFor(user.ID)))
	}
	if len(setup.recomputer.calls) != 1 {
		t.Fatalf("expected one recompute call")
	}

	// Re-verifying an already verified record stays silent.
	if err := setup.service.AdminVerifyGovernmentID(ctx, user.ID, true); err != nil {
		t.Fatalf("verify again: %v", err)
	}
	if len(setup.recorder.NotificationsFor(user.ID)) != 1 {
		t.Fatalf("repeated verify must not notify again")
	}
	if len(setup.recomputer.calls) != 1 {
		t.Fatalf("repeated verify must not recompute again")
	}
}

func TestAdminVerifyLandInformation_MissingRecord(t *testing.T) {
	user := farmerUser()
	setup := newVerificationTestSetup(t, user)

	err := setup.service.AdminVerifyLandInformation(context.Background(), user.ID, true)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitLandInformation_RejectsNonFarmer(t *testing.T) {
	buyer := &models.User{ID: uuid.New(), Email: "buyer@example.com", Role: enums.UserRoleBuyer}
	setup := newVerificationTestSetup(t, buyer)

	_, err := setup.service.SubmitLandInformation(context.Background(), buyer.ID, SubmitLandRequest{
		AreaAcres: decimal.NewFromInt(3),
		Location:  "Nashik",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestVerifyAadhaarOTP_ValidRecordsSnapshotAndRecomputes(t *testing.T) {
	user := farmerUser()
	setup := newVerificationTestSetup(t, user)
	ctx := context.Background()

	if _, err := setup.service.SubmitGovernmentID(ctx, user.ID, SubmitGovernmentIDRequest{IDNumber: "123412341234"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	setup.provider.record = &cashfree.AadhaarRecord{
		RefID:  json.Number("21637861"),
		Status: "VALID",
		Name:   "Ravi Kumar",
		DOB:    "1985-04-11",
	}

	if err := setup.service.VerifyAadhaarOTP(ctx, user.ID, AadhaarVerifyRequest{RefID: "21637861", OTP: "123456"}); err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	if len(setup.repo.aadhaar) != 1 {
		t.Fatalf("expected aadhaar snapshot, got %d", len(setup.repo.aadhaar))
	}
	if setup.repo.aadhaar[0].RefID != "21637861" {
		t.Fatalf("unexpected ref id %s", setup.repo.aadhaar[0].RefID)
	}
	if govID := setup.repo.govIDs[user.ID]; !govID.IsVerified {
		t.Fatalf("government id should be verified")
	}
	if len(setup.recomputer.calls) != 1 {
		t.Fatalf("expected recompute after aadhaar verify")
	}
	if len(setup.recorder.Emails) != 1 {
		t.Fatalf("expected verification email")
	}
}

func TestVerifyAadhaarOTP_InvalidStatus(t *testing.T) {
	user := farmerUser()
	setup := newVerificationTestSetup(t, user)

	setup.provider.record = &cashfree.AadhaarRecord{Status: "INVALID"}

	err := setup.service.VerifyAadhaarOTP(context.Background(), user.ID, AadhaarVerifyRequest{RefID: "1", OTP: "000000"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(setup.repo.aadhaar) != 0 {
		t.Fatalf("no snapshot expected on failure")
	}
}
