package disputes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

// Service exposes the dispute workflow.
type Service interface {
	Create(ctx context.Context, raisedByID uuid.UUID, req CreateDisputeRequest) (*DisputeDTO, error)
	ListOwn(ctx context.Context, userID uuid.UUID) ([]DisputeDTO, error)
	ListAll(ctx context.Context) ([]DisputeDTO, error)
	Resolve(ctx context.Context, disputeID uuid.UUID, req ResolveDisputeRequest) (*DisputeDTO, error)
}

type contractReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo      Repository
	contracts contractReader
	users     userReader
	notifier  notify.Notifier
}

// ServiceParams bundles the dependencies for the disputes service.
type ServiceParams struct {
	Repo      Repository
	Contracts contractReader
	Users     userReader
	Notifier  notify.Notifier
}

// NewService wires the disputes service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("disputes repository is required")
	}
	if params.Contracts == nil {
		return nil, fmt.Errorf("contract repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &service{
		repo:      params.Repo,
		contracts: params.Contracts,
		users:     params.Users,
		notifier:  params.Notifier,
	}, nil
}

// Create opens a dispute. Only a contract party can raise one.
func (s *service) Create(ctx context.Context, raisedByID uuid.UUID, req CreateDisputeRequest) (*DisputeDTO, error) {
	contract, err := s.contracts.FindByID(ctx, req.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contract")
	}
	if !contract.IsParty(raisedByID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this contract")
	}

	dispute := &models.Dispute{
		ID:          uuid.New(),
		ContractID:  contract.ID,
		RaisedByID:  raisedByID,
		Description: strings.TrimSpace(req.Description),
		Status:      enums.DisputeStatusPending,
	}
	if err := s.repo.Create(ctx, dispute); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create dispute")
	}
	return fromModel(dispute), nil
}

// ListOwn returns the disputes the caller raised, newest first.
func (s *service) ListOwn(ctx context.Context, userID uuid.UUID) ([]DisputeDTO, error) {
	disputes, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list disputes")
	}
	return toDTOs(disputes), nil
}

// ListAll returns every dispute for the admin console.
func (s *service) ListAll(ctx context.Context) ([]DisputeDTO, error) {
	disputes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list disputes")
	}
	return toDTOs(disputes), nil
}

// Resolve applies an admin update. A status change and an admin-comment
// change each produce their own notification to the raiser, so an update
// touching both sends two.
func (s *service) Resolve(ctx context.Context, disputeID uuid.UUID, req ResolveDisputeRequest) (*DisputeDTO, error) {
	dispute, err := s.repo.FindByID(ctx, disputeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dispute not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load dispute")
	}

	prevStatus := dispute.Status
	prevComment := dispute.AdminComment

	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown dispute status")
		}
		dispute.Status = *req.Status
	}
	if req.AdminComment != nil {
		dispute.AdminComment = strings.TrimSpace(*req.AdminComment)
	}

	if err := s.repo.Save(ctx, dispute); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save dispute")
	}

	if dispute.Status != prevStatus {
		message := fmt.Sprintf("Your dispute is now %s.", dispute.Status)
		if err := s.announce(ctx, dispute.RaisedByID, "Dispute status updated", message); err != nil {
			return nil, err
		}
	}
	if dispute.AdminComment != prevComment {
		message := fmt.Sprintf("An admin commented on your dispute: %s", dispute.AdminComment)
		if err := s.announce(ctx, dispute.RaisedByID, "Dispute comment added", message); err != nil {
			return nil, err
		}
	}

	return fromModel(dispute), nil
}

func (s *service) announce(ctx context.Context, userID uuid.UUID, title, message string) error {
	if err := s.notifier.Notify(ctx, userID, enums.NotificationTypeDispute, title, message); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil
	}
	body := fmt.Sprintf("Hi %s,\n\n%s", user.FirstName, message)
	s.notifier.Email(ctx, user.Email, title, body)
	return nil
}

func toDTOs(disputes []models.Dispute) []DisputeDTO {
	out := make([]DisputeDTO, 0, len(disputes))
	for i := range disputes {
		out = append(out, *fromModel(&disputes[i]))
	}
	return out
}
