package contracts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// AcceptTemplateRequest is the buyer's payload for opening a contract from an
// approved template.
type AcceptTemplateRequest struct {
	TemplateID       uuid.UUID       `json:"template_id" validate:"required"`
	DeclaredQuintals decimal.Decimal `json:"declared_quintals" validate:"required"`
}

// ContractDTO is the API view of a contract.
type ContractDTO struct {
	ID                  uuid.UUID            `json:"id"`
	TemplateID          uuid.UUID            `json:"template_id"`
	TemplateName        string               `json:"template_name,omitempty"`
	BuyerID             uuid.UUID            `json:"buyer_id"`
	SellerID            uuid.UUID            `json:"seller_id"`
	Status              enums.ContractStatus `json:"status"`
	SignedContractURL   string               `json:"signed_contract_url,omitempty"`
	BuyerSigned         bool                 `json:"buyer_signed"`
	SellerSigned        bool                 `json:"seller_signed"`
	BuyerSignedFileURL  string               `json:"buyer_signed_file_url,omitempty"`
	SellerSignedFileURL string               `json:"seller_signed_file_url,omitempty"`
	DeclaredQuintals    decimal.Decimal      `json:"declared_quintals"`
	DeclaredTotalPrice  decimal.Decimal      `json:"declared_total_price"`
	EstimateQuintals    decimal.Decimal      `json:"estimate_quintals"`
	EstimateTotalPrice  decimal.Decimal      `json:"estimate_total_price"`
	CreatedAt           time.Time            `json:"created_at"`
}

// EsignResponseDTO is the API view of one party's signing flow.
type EsignResponseDTO struct {
	ID             uuid.UUID         `json:"id"`
	Party          enums.SignerParty `json:"party"`
	Status         enums.EsignStatus `json:"status"`
	VerificationID string            `json:"verification_id"`
	SigningLink    string            `json:"signing_link,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// OrderSummaryDTO embeds a contract's payment order in the detail view.
type OrderSummaryDTO struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Status   string          `json:"status"`
}

// ContractDetailDTO is the contract with its e-sign sessions and order.
type ContractDetailDTO struct {
	Contract       ContractDTO        `json:"contract"`
	EsignResponses []EsignResponseDTO `json:"esign_responses"`
	Order          *OrderSummaryDTO   `json:"order,omitempty"`
}

// EsignInitiateResponse returns the signing link for the requested party.
type EsignInitiateResponse struct {
	VerificationID string            `json:"verification_id"`
	Party          enums.SignerParty `json:"party"`
	SigningLink    string            `json:"signing_link"`
}

// EsignWebhookPayload is the provider callback body.
type EsignWebhookPayload struct {
	VerificationID string `json:"verification_id" validate:"required"`
	Status         string `json:"status" validate:"required"`
	DocumentID     string `json:"document_id,omitempty"`
	SignedDocURL   string `json:"signed_doc_url,omitempty"`
}

func contractFromModel(m *models.Contract) *ContractDTO {
	if m == nil {
		return nil
	}
	dto := &ContractDTO{
		ID:                  m.ID,
		TemplateID:          m.TemplateID,
		BuyerID:             m.BuyerID,
		SellerID:            m.SellerID,
		Status:              m.Status,
		SignedContractURL:   m.SignedContractURL,
		BuyerSigned:         m.BuyerSigned,
		SellerSigned:        m.SellerSigned,
		BuyerSignedFileURL:  m.BuyerSignedFileURL,
		SellerSignedFileURL: m.SellerSignedFileURL,
		DeclaredQuintals:    m.DeclaredQuintals,
		DeclaredTotalPrice:  m.DeclaredTotalPrice,
		EstimateQuintals:    m.EstimateQuintals,
		EstimateTotalPrice:  m.EstimateTotalPrice,
		CreatedAt:           m.CreatedAt,
	}
	if m.Template != nil {
		dto.TemplateName = m.Template.Name
	}
	return dto
}

func esignResponseFromModel(m *models.EsignResponse) EsignResponseDTO {
	return EsignResponseDTO{
		ID:             m.ID,
		Party:          m.Party,
		Status:         m.Status,
		VerificationID: m.VerificationID,
		SigningLink:    m.SigningLink,
		CreatedAt:      m.CreatedAt,
	}
}
