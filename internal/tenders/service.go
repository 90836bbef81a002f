package tenders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

// Service exposes the transportation tender operations.
type Service interface {
	ListActive(ctx context.Context) ([]TenderDTO, error)
	Create(ctx context.Context, req CreateTenderRequest) (*TenderDTO, error)
	Apply(ctx context.Context, req ApplyRequest) (*ApplicationDTO, error)
	ListApplications(ctx context.Context, tenderID uuid.UUID) ([]ApplicationDTO, error)
	UpdateApplicationStatus(ctx context.Context, applicationID uuid.UUID, req UpdateApplicationStatusRequest) (*ApplicationDTO, error)
}

type service struct {
	repo     Repository
	notifier notify.Notifier
	now      func() time.Time
}

// ServiceParams bundles the dependencies for the tenders service.
type ServiceParams struct {
	Repo     Repository
	Notifier notify.Notifier
	Now      func() time.Time
}

// NewService wires the tenders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("tenders repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, notifier: params.Notifier, now: now}, nil
}

// ListActive returns open tenders whose end date has not passed.
func (s *service) ListActive(ctx context.Context) ([]TenderDTO, error) {
	tenders, err := s.repo.ListActiveTenders(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tenders")
	}
	out := make([]TenderDTO, 0, len(tenders))
	for i := range tenders {
		out = append(out, *tenderFromModel(&tenders[i]))
	}
	return out, nil
}

// Create publishes a tender.
func (s *service) Create(ctx context.Context, req CreateTenderRequest) (*TenderDTO, error) {
	if !req.EndDate.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date must be in the future")
	}
	tender := &models.TransportationTender{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		DocumentURL: req.DocumentURL,
		EndDate:     req.EndDate,
		IsActive:    true,
	}
	if err := s.repo.CreateTender(ctx, tender); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create tender")
	}
	return tenderFromModel(tender), nil
}

// Apply submits a bid on an open tender.
func (s *service) Apply(ctx context.Context, req ApplyRequest) (*ApplicationDTO, error) {
	tender, err := s.repo.FindTender(ctx, req.TenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tender not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load tender")
	}
	if !tender.IsActive || !tender.EndDate.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tender is closed")
	}

	application := &models.TenderApplication{
		ID:            uuid.New(),
		TenderID:      tender.ID,
		ApplicantName: strings.TrimSpace(req.ApplicantName),
		Contact:       strings.TrimSpace(req.Contact),
		Email:         strings.TrimSpace(strings.ToLower(req.Email)),
		Company:       strings.TrimSpace(req.Company),
		Address:       strings.TrimSpace(req.Address),
		FileURL:       req.FileURL,
		Status:        enums.TenderApplicationStatusPending,
		IsActive:      true,
	}
	if err := s.repo.CreateApplication(ctx, application); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create application")
	}

	body := fmt.Sprintf("Hi %s,\n\nYour application for %q was received and is pending review.",
		application.ApplicantName, tender.Name)
	s.notifier.Email(ctx, application.Email, "Tender application received", body)

	return applicationFromModel(application), nil
}

// ListApplications returns the bids on a tender, newest first.
func (s *service) ListApplications(ctx context.Context, tenderID uuid.UUID) ([]ApplicationDTO, error) {
	applications, err := s.repo.ListApplications(ctx, tenderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list applications")
	}
	out := make([]ApplicationDTO, 0, len(applications))
	for i := range applications {
		out = append(out, *applicationFromModel(&applications[i]))
	}
	return out, nil
}

// UpdateApplicationStatus records the admin decision and mails the applicant
// when the status actually changes.
func (s *service) UpdateApplicationStatus(ctx context.Context, applicationID uuid.UUID, req UpdateApplicationStatusRequest) (*ApplicationDTO, error) {
	if !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown application status")
	}

	application, err := s.repo.FindApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load application")
	}

	prev := application.Status
	application.Status = req.Status
	if err := s.repo.SaveApplication(ctx, application); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save application")
	}

	if application.Status != prev {
		body := fmt.Sprintf("Hi %s,\n\nYour tender application is now %s.",
			application.ApplicantName, application.Status)
		s.notifier.Email(ctx, application.Email, "Tender application update", body)
	}

	return applicationFromModel(application), nil
}
