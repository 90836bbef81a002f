package catalog

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

// Service exposes the crop catalog and contract template operations.
type Service interface {
	ListCrops(ctx context.Context) ([]CropDTO, error)
	CreateCrop(ctx context.Context, req CreateCropRequest) (*CropDTO, error)

	CreateTemplate(ctx context.Context, farmerID uuid.UUID, req CreateTemplateRequest) (*TemplateDTO, error)
	ListTemplates(ctx context.Context, callerID uuid.UUID, callerRole enums.UserRole) ([]TemplateDTO, error)
	GetTemplate(ctx context.Context, callerID uuid.UUID, callerRole enums.UserRole, templateID uuid.UUID) (*TemplateDTO, error)
	AdminApproveTemplate(ctx context.Context, templateID uuid.UUID, approved bool) error
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo     Repository
	users    userRepository
	notifier notify.Notifier
}

// ServiceParams bundles the dependencies for the catalog service.
type ServiceParams struct {
	Repo     Repository
	UserRepo userRepository
	Notifier notify.Notifier
}

// NewService wires the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &service{repo: params.Repo, users: params.UserRepo, notifier: params.Notifier}, nil
}

func (s *service) ListCrops(ctx context.Context) ([]CropDTO, error) {
	crops, err := s.repo.ListCrops(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list crops")
	}
	out := make([]CropDTO, 0, len(crops))
	for i := range crops {
		out = append(out, *cropFromModel(&crops[i]))
	}
	return out, nil
}

func (s *service) CreateCrop(ctx context.Context, req CreateCropRequest) (*CropDTO, error) {
	if !req.Season.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid crop season")
	}
	crop := &models.CropListing{
		Name:        strings.TrimSpace(req.Name),
		Season:      req.Season,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		Supervised:  req.Supervised,
	}
	if err := s.repo.CreateCrop(ctx, crop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create crop")
	}
	return cropFromModel(crop), nil
}

// CreateTemplate publishes a farmer's supply offer. Only fully verified
// farmer accounts can publish.
func (s *service) CreateTemplate(ctx context.Context, farmerID uuid.UUID, req CreateTemplateRequest) (*TemplateDTO, error) {
	farmer, err := s.users.FindByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if farmer.Role != enums.UserRoleFarmer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only farmers can publish templates")
	}
	if !farmer.UserVerified {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account must be verified before publishing")
	}

	if req.PricePerQuintal.IsNegative() || req.PricePerQuintal.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_per_quintal must be positive")
	}
	if req.TotalQuintalsRequired.IsNegative() || req.TotalQuintalsRequired.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total_quintals_required must be positive")
	}

	crop, err := s.repo.FindCrop(ctx, req.CropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown crop")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load crop")
	}
	if !crop.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop is not active")
	}

	template := &models.ContractTemplate{
		SubmittedByID:         farmerID,
		Name:                  strings.TrimSpace(req.Name),
		Description:           req.Description,
		DocumentURL:           req.DocumentURL,
		PricePerQuintal:       req.PricePerQuintal,
		CropID:                req.CropID,
		TotalQuintalsRequired: req.TotalQuintalsRequired,
	}
	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create template")
	}
	template.Crop = crop
	return templateFromModel(template), nil
}

func (s *service) ListTemplates(ctx context.Context, callerID uuid.UUID, callerRole enums.UserRole) ([]TemplateDTO, error) {
	var templates []models.ContractTemplate
	var err error
	if callerRole == enums.UserRoleAdmin {
		templates, err = s.repo.ListAllTemplates(ctx)
	} else {
		templates, err = s.repo.ListTemplatesVisibleTo(ctx, callerID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list templates")
	}
	out := make([]TemplateDTO, 0, len(templates))
	for i := range templates {
		out = append(out, *templateFromModel(&templates[i]))
	}
	return out, nil
}

func (s *service) GetTemplate(ctx context.Context, callerID uuid.UUID, callerRole enums.UserRole, templateID uuid.UUID) (*TemplateDTO, error) {
	template, err := s.repo.FindTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	if !template.Approved && template.SubmittedByID != callerID && callerRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
	}
	return templateFromModel(template), nil
}

// AdminApproveTemplate flips the approved flag. The submitter is notified
// only on the false to true transition.
func (s *service) AdminApproveTemplate(ctx context.Context, templateID uuid.UUID, approved bool) error {
	template, err := s.repo.FindTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}

	if err := s.repo.SetTemplateApproved(ctx, templateID, approved); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update template")
	}

	if !template.Approved && approved {
		if err := s.notifier.Notify(ctx, template.SubmittedByID, enums.NotificationTypeContract,
			"Contract template approved",
			fmt.Sprintf("Your contract template %q has been approved and is now visible to buyers.", template.Name)); err != nil {
			return err
		}
		if submitter, err := s.users.FindByID(ctx, template.SubmittedByID); err == nil {
			s.notifier.Email(ctx, submitter.Email, "Contract template approved",
				fmt.Sprintf("Hi %s,\n\nYour contract template %q has been approved and is now visible to buyers.", submitter.FirstName, template.Name))
		}
	}
	return nil
}
