package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

// Service exposes user lookup and the verification aggregation rule.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	RecomputeVerification(ctx context.Context, userID uuid.UUID) (bool, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	MarkUserVerified(ctx context.Context, id uuid.UUID) error
}

type verificationReader interface {
	GetGovernmentID(ctx context.Context, userID uuid.UUID) (*models.GovernmentID, error)
	GetLandInformation(ctx context.Context, userID uuid.UUID) (*models.LandInformation, error)
	GetGSTInfo(ctx context.Context, userID uuid.UUID) (*models.GSTInfo, error)
}

type profileProvisioner interface {
	EnsureForRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error
}

type service struct {
	users        userRepository
	verification verificationReader
	profiles     profileProvisioner
	notifier     notify.Notifier
}

// ServiceParams bundles the dependencies for the users service.
type ServiceParams struct {
	UserRepo         userRepository
	VerificationRepo verificationReader
	ProfileRepo      profileProvisioner
	Notifier         notify.Notifier
}

// NewService wires the users service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.VerificationRepo == nil {
		return nil, fmt.Errorf("verification repository is required")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &service{
		users:        params.UserRepo,
		verification: params.VerificationRepo,
		profiles:     params.ProfileRepo,
		notifier:     params.Notifier,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromModel(user), nil
}

// RecomputeVerification re-evaluates the aggregate verified flag after any
// verification sub-record changes. The flag is a one-way ratchet: admins and
// already-verified users are skipped, and the flag never reverts. Returns
// whether the flag flipped on this call.
func (s *service) RecomputeVerification(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if user.Role == enums.UserRoleAdmin || user.UserVerified {
		return false, nil
	}

	if err := s.profiles.EnsureForRole(ctx, userID, user.Role); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure profile")
	}

	complete, err := s.requirementsMet(ctx, user)
	if err != nil {
		return false, err
	}
	if !complete {
		return false, nil
	}

	if err := s.users.MarkUserVerified(ctx, userID); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark user verified")
	}

	if err := s.notifier.Notify(ctx, userID, enums.NotificationTypeProfile,
		"Account verified", "Your account is fully verified. Welcome to Fasal Mitra."); err != nil {
		return true, err
	}
	s.notifier.Email(ctx, user.Email, "Welcome to Fasal Mitra",
		fmt.Sprintf("Hi %s, your account has been fully verified. You can now use the marketplace.", user.FullName()))
	return true, nil
}

func (s *service) requirementsMet(ctx context.Context, user *models.User) (bool, error) {
	if !user.IsEmailVerified {
		return false, nil
	}

	govID, err := s.verification.GetGovernmentID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load government id")
	}
	if !govID.IsVerified {
		return false, nil
	}

	switch user.Role {
	case enums.UserRoleFarmer:
		land, err := s.verification.GetLandInformation(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load land information")
		}
		return land.IsVerified, nil
	case enums.UserRoleCompany:
		gst, err := s.verification.GetGSTInfo(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load gst info")
		}
		return gst.IsVerified, nil
	default:
		return true, nil
	}
}
