package disputes

import (
	"time"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// CreateDisputeRequest opens a dispute against a contract the caller is party to.
type CreateDisputeRequest struct {
	ContractID  uuid.UUID `json:"contract_id" validate:"required"`
	Description string    `json:"description" validate:"required,min=10"`
}

// ResolveDisputeRequest is the admin-side update. Both fields are optional;
// only the ones present are applied.
type ResolveDisputeRequest struct {
	Status       *enums.DisputeStatus `json:"status,omitempty"`
	AdminComment *string              `json:"admin_comment,omitempty"`
}

// DisputeDTO is the API shape of a dispute.
type DisputeDTO struct {
	ID           uuid.UUID           `json:"id"`
	ContractID   uuid.UUID           `json:"contract_id"`
	RaisedByID   uuid.UUID           `json:"raised_by_id"`
	Description  string              `json:"description"`
	Status       enums.DisputeStatus `json:"status"`
	AdminComment string              `json:"admin_comment,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func fromModel(m *models.Dispute) *DisputeDTO {
	return &DisputeDTO{
		ID:           m.ID,
		ContractID:   m.ContractID,
		RaisedByID:   m.RaisedByID,
		Description:  m.Description,
		Status:       m.Status,
		AdminComment: m.AdminComment,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
