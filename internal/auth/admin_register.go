package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/users"
	"github.com/quanmat/fasalmitra-backend/pkg/config"
	"github.com/quanmat/fasalmitra-backend/pkg/db"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/security"
)

// AdminRegisterRequest contains the credentials for the dev-only admin registration flow.
type AdminRegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// AdminRegisterService handles creating dev admin users.
type AdminRegisterService interface {
	Register(ctx context.Context, req AdminRegisterRequest) (*users.UserDTO, error)
}

// AdminRegisterServiceParams names the dependencies for the admin register flow.
type AdminRegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type adminRegisterService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewAdminRegisterService builds a dev admin registration service.
func NewAdminRegisterService(params AdminRegisterServiceParams) (AdminRegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &adminRegisterService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *adminRegisterService) Register(ctx context.Context, req AdminRegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first_name is required")
	}
	lastName := strings.TrimSpace(req.LastName)
	if lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "last_name is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    firstName,
			LastName:     lastName,
			Role:         enums.UserRoleAdmin,
			IsActive:     boolRef(true),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		// Admin accounts skip the email and document verification flows.
		if err := tx.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", user.ID).
			UpdateColumns(map[string]any{
				"is_email_verified": true,
				"user_verified":     true,
			}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark admin verified")
		}
		user.IsEmailVerified = true
		user.UserVerified = true

		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func boolRef(v bool) *bool {
	return &v
}
