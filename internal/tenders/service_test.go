package tenders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

type memTendersRepo struct {
	tenders      map[uuid.UUID]*models.TransportationTender
	applications map[uuid.UUID]*models.TenderApplication
}

func newMemTendersRepo() *memTendersRepo {
	return &memTendersRepo{
		tenders:      map[uuid.UUID]*models.TransportationTender{},
		applications: map[uuid.UUID]*models.TenderApplication{},
	}
}

func (m *memTendersRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memTendersRepo) CreateTender(ctx context.Context, tender *models.TransportationTender) error {
	m.tenders[tender.ID] = tender
	return nil
}

func (m *memTendersRepo) FindTender(ctx context.Context, id uuid.UUID) (*models.TransportationTender, error) {
	if tender, ok := m.tenders[id]; ok {
		return tender, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTendersRepo) ListActiveTenders(ctx context.Context, now time.Time) ([]models.TransportationTender, error) {
	var out []models.TransportationTender
	for _, tender := range m.tenders {
		if tender.IsActive && tender.EndDate.After(now) {
			out = append(out, *tender)
		}
	}
	return out, nil
}

func (m *memTendersRepo) DeactivateExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	var closed int64
	for _, tender := range m.tenders {
		if tender.IsActive && !tender.EndDate.After(now) {
			tender.IsActive = false
			closed++
		}
	}
	return closed, nil
}

func (m *memTendersRepo) CreateApplication(ctx context.Context, application *models.TenderApplication) error {
	copied := *application
	m.applications[application.ID] = &copied
	return nil
}

func (m *memTendersRepo) FindApplication(ctx context.Context, id uuid.UUID) (*models.TenderApplication, error) {
	if application, ok := m.applications[id]; ok {
		copied := *application
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTendersRepo) ListApplications(ctx context.Context, tenderID uuid.UUID) ([]models.TenderApplication, error) {
	var out []models.TenderApplication
	for _, application := range m.applications {
		if application.TenderID == tenderID {
			out = append(out, *application)
		}
	}
	return out, nil
}

func (m *memTendersRepo) SaveApplication(ctx context.Context, application *models.TenderApplication) error {
	copied := *application
	m.applications[application.ID] = &copied
	return nil
}

func newTendersTestSetup(t *testing.T) (Service, *memTendersRepo, *notify.Recorder) {
	t.Helper()
	repo := newMemTendersRepo()
	recorder := &notify.Recorder{}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Notifier: recorder,
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, recorder
}

func seedTender(repo *memTendersRepo, endDate time.Time, active bool) *models.TransportationTender {
	tender := &models.TransportationTender{
		ID:       uuid.New(),
		Name:     "Mandi to port haulage",
		EndDate:  endDate,
		IsActive: active,
	}
	repo.tenders[tender.ID] = tender
	return tender
}

func TestListActive_ExcludesExpiredAndInactive(t *testing.T) {
	svc, repo, _ := newTendersTestSetup(t)
	open := seedTender(repo, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), true)
	seedTender(repo, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), true)
	seedTender(repo, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), false)

	tenders, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(tenders) != 1 || tenders[0].ID != open.ID {
		t.Fatalf("expected only the open tender, got %+v", tenders)
	}
}

func TestCreate_RejectsPastEndDate(t *testing.T) {
	svc, _, _ := newTendersTestSetup(t)

	_, err := svc.Create(context.Background(), CreateTenderRequest{
		Name:    "Expired before it starts",
		EndDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApply_AcceptsBidAndMailsApplicant(t *testing.T) {
	svc, repo, recorder := newTendersTestSetup(t)
	tender := seedTender(repo, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), true)

	dto, err := svc.Apply(context.Background(), ApplyRequest{
		TenderID:      tender.ID,
		ApplicantName: "Singh Logistics",
		Contact:       "+911234567890",
		Email:         "Bids@SinghLogistics.example",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if dto.Status != enums.TenderApplicationStatusPending {
		t.Fatalf("expected pending application, got %s", dto.Status)
	}
	if dto.Email != "bids@singhlogistics.example" {
		t.Fatalf("email not normalized: %q", dto.Email)
	}
	if len(recorder.Emails) != 1 || recorder.Emails[0].To != "bids@singhlogistics.example" {
		t.Fatalf("expected acknowledgement email, got %+v", recorder.Emails)
	}
}

func TestApply_RejectsClosedTender(t *testing.T) {
	svc, repo, _ := newTendersTestSetup(t)
	closed := seedTender(repo, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), true)

	_, err := svc.Apply(context.Background(), ApplyRequest{
		TenderID:      closed.ID,
		ApplicantName: "Too Late Transit",
		Contact:       "+911234567890",
		Email:         "late@example.com",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateApplicationStatus_MailsOnChangeOnly(t *testing.T) {
	svc, repo, recorder := newTendersTestSetup(t)
	tender := seedTender(repo, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), true)

	dto, err := svc.Apply(context.Background(), ApplyRequest{
		TenderID:      tender.ID,
		ApplicantName: "Singh Logistics",
		Contact:       "+911234567890",
		Email:         "bids@singhlogistics.example",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	mailsAfterApply := len(recorder.Emails)

	updated, err := svc.UpdateApplicationStatus(context.Background(), dto.ID, UpdateApplicationStatusRequest{
		Status: enums.TenderApplicationStatusApproved,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != enums.TenderApplicationStatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
	if len(recorder.Emails) != mailsAfterApply+1 {
		t.Fatalf("expected one decision email, got %d total", len(recorder.Emails))
	}

	// Re-applying the same status stays silent.
	if _, err := svc.UpdateApplicationStatus(context.Background(), dto.ID, UpdateApplicationStatusRequest{
		Status: enums.TenderApplicationStatusApproved,
	}); err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	if len(recorder.Emails) != mailsAfterApply+1 {
		t.Fatalf("expected no repeat email, got %d total", len(recorder.Emails))
	}
}

func TestUpdateApplicationStatus_UnknownApplication(t *testing.T) {
	svc, _, _ := newTendersTestSetup(t)

	_, err := svc.UpdateApplicationStatus(context.Background(), uuid.New(), UpdateApplicationStatusRequest{
		Status: enums.TenderApplicationStatusRejected,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
