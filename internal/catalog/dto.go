package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// CreateCropRequest is the admin payload for adding a crop listing.
type CreateCropRequest struct {
	Name        string           `json:"name" validate:"required,max=128"`
	Season      enums.CropSeason `json:"season" validate:"required"`
	Description string           `json:"description" validate:"omitempty,max=2000"`
	ImageURL    string           `json:"image_url" validate:"omitempty,url"`
	Supervised  bool             `json:"supervised"`
}

// CropDTO is the API view of a crop listing.
type CropDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Season      enums.CropSeason `json:"season"`
	Description string           `json:"description,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	IsActive    bool             `json:"is_active"`
	Supervised  bool             `json:"supervised"`
}

// CreateTemplateRequest is a farmer's contract template submission.
type CreateTemplateRequest struct {
	Name                  string          `json:"name" validate:"required,max=255"`
	Description           string          `json:"description" validate:"omitempty,max=4000"`
	DocumentURL           string          `json:"document_url" validate:"omitempty,url"`
	PricePerQuintal       decimal.Decimal `json:"price_per_quintal" validate:"required"`
	CropID                uuid.UUID       `json:"crop_id" validate:"required"`
	TotalQuintalsRequired decimal.Decimal `json:"total_quintals_required" validate:"required"`
}

// ApproveTemplateRequest is the admin review decision for a template.
type ApproveTemplateRequest struct {
	Approved bool `json:"approved"`
}

// TemplateDTO is the API view of a contract template.
type TemplateDTO struct {
	ID                    uuid.UUID       `json:"id"`
	SubmittedByID         uuid.UUID       `json:"submitted_by_id"`
	Name                  string          `json:"name"`
	Description           string          `json:"description,omitempty"`
	DocumentURL           string          `json:"document_url,omitempty"`
	PricePerQuintal       decimal.Decimal `json:"price_per_quintal"`
	Approved              bool            `json:"approved"`
	CropID                uuid.UUID       `json:"crop_id"`
	Crop                  *CropDTO        `json:"crop,omitempty"`
	TotalQuintalsRequired decimal.Decimal `json:"total_quintals_required"`
	CreatedAt             time.Time       `json:"created_at"`
}

func cropFromModel(m *models.CropListing) *CropDTO {
	if m == nil {
		return nil
	}
	return &CropDTO{
		ID:          m.ID,
		Name:        m.Name,
		Season:      m.Season,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		IsActive:    m.IsActive,
		Supervised:  m.Supervised,
	}
}

func templateFromModel(m *models.ContractTemplate) *TemplateDTO {
	if m == nil {
		return nil
	}
	return &TemplateDTO{
		ID:                    m.ID,
		SubmittedByID:         m.SubmittedByID,
		Name:                  m.Name,
		Description:           m.Description,
		DocumentURL:           m.DocumentURL,
		PricePerQuintal:       m.PricePerQuintal,
		Approved:              m.Approved,
		CropID:                m.CropID,
		Crop:                  cropFromModel(m.Crop),
		TotalQuintalsRequired: m.TotalQuintalsRequired,
		CreatedAt:             m.CreatedAt,
	}
}
