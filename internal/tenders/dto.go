package tenders

import (
	"time"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// CreateTenderRequest publishes a new logistics tender. Admin only.
type CreateTenderRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	DocumentURL string    `json:"document_url" validate:"omitempty,url"`
	EndDate     time.Time `json:"end_date" validate:"required"`
}

// ApplyRequest is a transporter's bid on an open tender.
type ApplyRequest struct {
	TenderID      uuid.UUID `json:"tender_id" validate:"required"`
	ApplicantName string    `json:"applicant_name" validate:"required"`
	Contact       string    `json:"contact" validate:"required"`
	Email         string    `json:"email" validate:"required,email"`
	Company       string    `json:"company"`
	Address       string    `json:"address"`
	FileURL       string    `json:"file_url" validate:"omitempty,url"`
}

// UpdateApplicationStatusRequest is the admin review decision.
type UpdateApplicationStatusRequest struct {
	Status enums.TenderApplicationStatus `json:"status" validate:"required"`
}

// TenderDTO is the API shape of a tender.
type TenderDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DocumentURL string    `json:"document_url,omitempty"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ApplicationDTO is the API shape of a tender application.
type ApplicationDTO struct {
	ID            uuid.UUID                     `json:"id"`
	TenderID      uuid.UUID                     `json:"tender_id"`
	ApplicantName string                        `json:"applicant_name"`
	Contact       string                        `json:"contact"`
	Email         string                        `json:"email"`
	Company       string                        `json:"company,omitempty"`
	Address       string                        `json:"address,omitempty"`
	FileURL       string                        `json:"file_url,omitempty"`
	Status        enums.TenderApplicationStatus `json:"status"`
	CreatedAt     time.Time                     `json:"created_at"`
}

func tenderFromModel(m *models.TransportationTender) *TenderDTO {
	return &TenderDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		DocumentURL: m.DocumentURL,
		EndDate:     m.EndDate,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}

func applicationFromModel(m *models.TenderApplication) *ApplicationDTO {
	return &ApplicationDTO{
		ID:            m.ID,
		TenderID:      m.TenderID,
		ApplicantName: m.ApplicantName,
		Contact:       m.Contact,
		Email:         m.Email,
		Company:       m.Company,
		Address:       m.Address,
		FileURL:       m.FileURL,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
	}
}
