package contracts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// Repository exposes persistence helpers for contracts and e-sign records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, contract *models.Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Contract, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ContractStatus) error
	SetPartySigned(ctx context.Context, id uuid.UUID, party enums.SignerParty, fileURL string) error

	CreateEsignRequest(ctx context.Context, request *models.EsignRequest) error
	CreateEsignResponse(ctx context.Context, response *models.EsignResponse) error
	FindEsignResponseByVerificationID(ctx context.Context, verificationID string) (*models.EsignResponse, error)
	FindEsignResponse(ctx context.Context, contractID uuid.UUID, party enums.SignerParty) (*models.EsignResponse, error)
	ListEsignResponses(ctx context.Context, contractID uuid.UUID) ([]models.EsignResponse, error)
	UpdateEsignResponseStatus(ctx context.Context, id uuid.UUID, status enums.EsignStatus) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a contracts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, contract *models.Contract) error {
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Template.Crop").
		First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *repositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Contract, error) {
	var contracts []models.Contract
	if err := r.db.WithContext(ctx).
		Preload("Template").
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ContractStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

func (r *repositoryImpl) SetPartySigned(ctx context.Context, id uuid.UUID, party enums.SignerParty, fileURL string) error {
	columns := map[string]any{}
	switch party {
	case enums.SignerPartyBuyer:
		columns["buyer_signed"] = true
		if fileURL != "" {
			columns["buyer_signed_file_url"] = fileURL
		}
	case enums.SignerPartySeller:
		columns["seller_signed"] = true
		if fileURL != "" {
			columns["seller_signed_file_url"] = fileURL
		}
	}
	return r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where("id = ?", id).
		UpdateColumns(columns).Error
}

func (r *repositoryImpl) CreateEsignRequest(ctx context.Context, request *models.EsignRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) CreateEsignResponse(ctx context.Context, response *models.EsignResponse) error {
	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *repositoryImpl) FindEsignResponseByVerificationID(ctx context.Context, verificationID string) (*models.EsignResponse, error) {
	var response models.EsignResponse
	if err := r.db.WithContext(ctx).
		Where("verification_id = ?", verificationID).
		First(&response).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *repositoryImpl) FindEsignResponse(ctx context.Context, contractID uuid.UUID, party enums.SignerParty) (*models.EsignResponse, error) {
	var response models.EsignResponse
	if err := r.db.WithContext(ctx).
		Where("contract_id = ? AND party = ?", contractID, party).
		First(&response).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *repositoryImpl) ListEsignResponses(ctx context.Context, contractID uuid.UUID) ([]models.EsignResponse, error) {
	var responses []models.EsignResponse
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *repositoryImpl) UpdateEsignResponseStatus(ctx context.Context, id uuid.UUID, status enums.EsignStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.EsignResponse{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
