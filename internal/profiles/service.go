package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

// Service exposes the profile read and update operations.
type Service interface {
	GetOwn(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateOwn(ctx context.Context, userID uuid.UUID, input UpdateProfileDTO) (*ProfileDTO, error)
	GetPublic(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	users    userReader
	profiles Repository
}

// ServiceParams bundles the dependencies for the profiles service.
type ServiceParams struct {
	UserRepo    userReader
	ProfileRepo Repository
}

// NewService wires the profiles service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	return &service{users: params.UserRepo, profiles: params.ProfileRepo}, nil
}

func (s *service) GetOwn(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	return s.get(ctx, userID)
}

// GetPublic serves profile lookups by any authenticated user. The profile
// models carry no private fields, so the public view equals the owner view.
func (s *service) GetPublic(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	return s.get(ctx, userID)
}

func (s *service) get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case enums.UserRoleFarmer:
		profile, err := s.farmerProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return fromFarmer(user, profile), nil
	case enums.UserRoleBuyer:
		profile, err := s.buyerProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return fromBuyer(user, profile), nil
	case enums.UserRoleCompany:
		profile, err := s.companyProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return fromCompany(user, profile), nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
}

func (s *service) UpdateOwn(ctx context.Context, userID uuid.UUID, input UpdateProfileDTO) (*ProfileDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case enums.UserRoleFarmer:
		profile, err := s.farmerProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		applyString(&profile.Bio, input.Bio)
		applyString(&profile.ImageURL, input.ImageURL)
		if err := s.profiles.SaveFarmer(ctx, profile); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save farmer profile")
		}
		return fromFarmer(user, profile), nil
	case enums.UserRoleBuyer:
		profile, err := s.buyerProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		applyString(&profile.Bio, input.Bio)
		applyString(&profile.ImageURL, input.ImageURL)
		if err := s.profiles.SaveBuyer(ctx, profile); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save buyer profile")
		}
		return fromBuyer(user, profile), nil
	case enums.UserRoleCompany:
		profile, err := s.companyProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		applyString(&profile.CompanyName, input.CompanyName)
		applyString(&profile.Description, input.Description)
		applyString(&profile.LogoURL, input.LogoURL)
		applyString(&profile.ISOCertification, input.ISOCertification)
		if err := s.profiles.SaveCompany(ctx, profile); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save company profile")
		}
		return fromCompany(user, profile), nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role has no profile")
	}
}

func (s *service) findUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// Profile rows are provisioned lazily, so a missing row is created on first
// access rather than surfaced as an error.
func (s *service) farmerProfile(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error) {
	profile, err := s.profiles.GetFarmer(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer profile")
	}
	if err := s.profiles.EnsureForRole(ctx, userID, enums.UserRoleFarmer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "provision farmer profile")
	}
	profile, err = s.profiles.GetFarmer(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer profile")
	}
	return profile, nil
}

func (s *service) buyerProfile(ctx context.Context, userID uuid.UUID) (*models.BuyerProfile, error) {
	profile, err := s.profiles.GetBuyer(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer profile")
	}
	if err := s.profiles.EnsureForRole(ctx, userID, enums.UserRoleBuyer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "provision buyer profile")
	}
	profile, err = s.profiles.GetBuyer(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer profile")
	}
	return profile, nil
}

func (s *service) companyProfile(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	profile, err := s.profiles.GetCompany(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company profile")
	}
	if err := s.profiles.EnsureForRole(ctx, userID, enums.UserRoleCompany); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "provision company profile")
	}
	profile, err = s.profiles.GetCompany(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company profile")
	}
	return profile, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
