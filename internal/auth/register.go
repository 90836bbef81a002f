package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/internal/users"
	"github.com/quanmat/fasalmitra-backend/pkg/config"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/security"
)

const emailVerificationTTL = time.Hour

// RegisterService handles account onboarding and email confirmation.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	VerifyEmail(ctx context.Context, token string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	SetEmailVerified(ctx context.Context, id uuid.UUID) error
}

type registerTokenRepository interface {
	UpsertVerificationToken(ctx context.Context, userID uuid.UUID, token uuid.UUID, expiresAt time.Time) error
	FindVerificationToken(ctx context.Context, token uuid.UUID) (*models.EmailVerificationToken, error)
	DeleteVerificationToken(ctx context.Context, userID uuid.UUID) error
}

type verificationRecomputer interface {
	RecomputeVerification(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner         txRunner
	UserRepoFactory  func(tx *gorm.DB) registerUserRepository
	TokenRepoFactory func(tx *gorm.DB) registerTokenRepository
	PasswordConfig   config.PasswordConfig
	AppConfig        config.AppConfig
	Notifier         notify.Notifier
	UsersService     verificationRecomputer
}

type registerService struct {
	tx          txRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	tokenRepo   func(tx *gorm.DB) registerTokenRepository
	passwordCfg config.PasswordConfig
	appCfg      config.AppConfig
	notifier    notify.Notifier
	usersSvc    verificationRecomputer
}

// GormRegisterFactories returns gorm-backed repository factories for the
// registration flow. Callers outside this package cannot name the factory
// result types, so the pair is built here.
func GormRegisterFactories() (func(tx *gorm.DB) registerUserRepository, func(tx *gorm.DB) registerTokenRepository) {
	return func(tx *gorm.DB) registerUserRepository { return users.NewRepository(tx) },
		func(tx *gorm.DB) registerTokenRepository { return NewRepository(tx) }
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.UserRepoFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository factory required")
	}
	if params.TokenRepoFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "token repository factory required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.UsersService == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users service required")
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    params.UserRepoFactory,
		tokenRepo:   params.TokenRepoFactory,
		passwordCfg: params.PasswordConfig,
		appCfg:      params.AppConfig,
		notifier:    params.Notifier,
		usersSvc:    params.UsersService,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !req.Role.IsValid() || req.Role == enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *users.UserDTO
	var token uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		tokenRepo := s.tokenRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Role:         req.Role,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		token = uuid.New()
		expiresAt := time.Now().UTC().Add(emailVerificationTTL)
		if err := tokenRepo.UpsertVerificationToken(ctx, created.ID, token, expiresAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification token")
		}

		user = users.FromModel(created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Email(ctx, email, "Verify your Fasal Mitra email", s.verificationBody(req.FirstName, token))

	return &RegisterResponse{User: user}, nil
}

// VerifyEmail consumes an emailed token, marks the address verified, and
// re-evaluates the account's aggregate verification state.
func (s *registerService) VerifyEmail(ctx context.Context, token string) error {
	parsed, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid verification token")
	}

	var userID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		tokenRepo := s.tokenRepo(tx)

		row, err := tokenRepo.FindVerificationToken(ctx, parsed)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "verification token not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup verification token")
		}
		if row.Expired(time.Now().UTC()) {
			return pkgerrors.New(pkgerrors.CodeValidation, "verification token expired")
		}

		if err := userRepo.SetEmailVerified(ctx, row.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark email verified")
		}
		if err := tokenRepo.DeleteVerificationToken(ctx, row.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume verification token")
		}
		userID = row.UserID
		return nil
	})
	if err != nil {
		return err
	}

	if _, err := s.usersSvc.RecomputeVerification(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute verification")
	}
	return nil
}

func (s *registerService) verificationBody(firstName string, token uuid.UUID) string {
	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(s.appCfg.BaseURL, "/"), token)
	return fmt.Sprintf("Hi %s,\n\nConfirm your email address to activate your Fasal Mitra account:\n%s\n\nThe link expires in one hour.", firstName, link)
}
