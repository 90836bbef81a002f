package contracts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/cashfree"
	"github.com/quanmat/fasalmitra-backend/pkg/config"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

// Service exposes the contract lifecycle operations.
type Service interface {
	Accept(ctx context.Context, buyerID uuid.UUID, req AcceptTemplateRequest) (*ContractDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]ContractDTO, error)
	Get(ctx context.Context, callerID uuid.UUID, callerRole enums.UserRole, contractID uuid.UUID) (*ContractDetailDTO, error)
	InitiateEsign(ctx context.Context, callerID uuid.UUID, contractID uuid.UUID) (*EsignInitiateResponse, error)
	HandleEsignWebhook(ctx context.Context, payload EsignWebhookPayload) error
}

type templateReader interface {
	FindTemplate(ctx context.Context, id uuid.UUID) (*models.ContractTemplate, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type orderReader interface {
	FindByContractID(ctx context.Context, contractID uuid.UUID) (*models.Order, error)
}

type esignProvider interface {
	CreateEsignRequest(ctx context.Context, params cashfree.EsignCreateParams) (*cashfree.EsignSession, error)
}

type service struct {
	repo      Repository
	templates templateReader
	users     userReader
	orders    orderReader
	esign     esignProvider
	estimator Estimator
	notifier  notify.Notifier
	appCfg    config.AppConfig
}

// ServiceParams bundles the dependencies for the contracts service.
type ServiceParams struct {
	Repo         Repository
	TemplateRepo templateReader
	UserRepo     userReader
	OrderRepo    orderReader
	Esign        esignProvider
	Estimator    Estimator
	Notifier     notify.Notifier
	AppConfig    config.AppConfig
}

// NewService wires the contracts service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("contracts repository is required")
	}
	if params.TemplateRepo == nil {
		return nil, fmt.Errorf("template repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Esign == nil {
		return nil, fmt.Errorf("esign provider is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	estimator := params.Estimator
	if estimator == nil {
		estimator = NewHeuristicEstimator()
	}
	return &service{
		repo:      params.Repo,
		templates: params.TemplateRepo,
		users:     params.UserRepo,
		orders:    params.OrderRepo,
		esign:     params.Esign,
		estimator: estimator,
		notifier:  params.Notifier,
		appCfg:    params.AppConfig,
	}, nil
}

// Accept opens a contract from an approved template. The caller becomes the
// buyer and the template submitter the seller.
func (s *service) Accept(ctx context.Context, buyerID uuid.UUID, req AcceptTemplateRequest) (*ContractDTO, error) {
	buyer, err := s.findUser(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer.Role != enums.UserRoleBuyer && buyer.Role != enums.UserRoleCompany {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only buyers can accept templates")
	}
	if !buyer.UserVerified {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account must be verified before accepting")
	}

	template, err := s.templates.FindTemplate(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	if !template.Approved {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template is not approved")
	}
	if template.SubmittedByID == buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot accept your own template")
	}
	if req.DeclaredQuintals.IsNegative() || req.DeclaredQuintals.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "declared_quintals must be positive")
	}
	if req.DeclaredQuintals.GreaterThan(template.TotalQuintalsRequired) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "declared_quintals exceeds template capacity")
	}

	season := enums.CropSeasonKharif
	if template.Crop != nil {
		season = template.Crop.Season
	}
	estQuintals, estTotal := s.estimator.Estimate(req.DeclaredQuintals, template.PricePerQuintal, season)

	contract := &models.Contract{
		TemplateID:         template.ID,
		BuyerID:            buyerID,
		SellerID:           template.SubmittedByID,
		Status:             enums.ContractStatusPending,
		DeclaredQuintals:   req.DeclaredQuintals,
		DeclaredTotalPrice: req.DeclaredQuintals.Mul(template.PricePerQuintal).Round(2),
		EstimateQuintals:   estQuintals,
		EstimateTotalPrice: estTotal,
	}
	if err := s.repo.Create(ctx, contract); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contract")
	}

	if err := s.notifier.Notify(ctx, template.SubmittedByID, enums.NotificationTypeContract,
		"Template accepted",
		fmt.Sprintf("%s accepted your template %q. Review the contract and sign.", buyer.FullName(), template.Name)); err != nil {
		return nil, err
	}

	contract.Template = template
	return contractFromModel(contract), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ContractDTO, error) {
	contracts, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contracts")
	}
	out := make([]ContractDTO, 0, len(contracts))
	for i := range contracts {
		out = append(out, *contractFromModel(&contracts[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, callerID uuid.UUID, callerRole enums.UserRole, contractID uuid.UUID) (*ContractDetailDTO, error) {
	contract, err := s.findContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !contract.IsParty(callerID) && callerRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this contract")
	}

	responses, err := s.repo.ListEsignResponses(ctx, contractID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list esign responses")
	}

	detail := &ContractDetailDTO{Contract: *contractFromModel(contract)}
	for i := range responses {
		detail.EsignResponses = append(detail.EsignResponses, esignResponseFromModel(&responses[i]))
	}

	order, err := s.orders.FindByContractID(ctx, contractID)
	if err == nil {
		detail.Order = &OrderSummaryDTO{
			ID:       order.ID,
			Amount:   order.Amount,
			Currency: order.Currency,
			Status:   order.Status,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return detail, nil
}

// InitiateEsign opens a provider signing session for the caller's side of the
// contract. Re-initiating while a session is still pending returns the
// existing link.
func (s *service) InitiateEsign(ctx context.Context, callerID uuid.UUID, contractID uuid.UUID) (*EsignInitiateResponse, error) {
	contract, err := s.findContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !contract.IsParty(callerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this contract")
	}
	if contract.Status != enums.ContractStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contract is not awaiting signatures")
	}

	party := enums.SignerPartyBuyer
	if contract.SellerID == callerID {
		party = enums.SignerPartySeller
	}
	if (party == enums.SignerPartyBuyer && contract.BuyerSigned) ||
		(party == enums.SignerPartySeller && contract.SellerSigned) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "party has already signed")
	}

	if existing, err := s.repo.FindEsignResponse(ctx, contractID, party); err == nil {
		if existing.Status == enums.EsignStatusPending || existing.Status == enums.EsignStatusInitiated {
			return &EsignInitiateResponse{
				VerificationID: existing.VerificationID,
				Party:          party,
				SigningLink:    existing.SigningLink,
			}, nil
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load esign response")
	}

	signer, err := s.findUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	documentURL := ""
	if contract.Template != nil {
		documentURL = contract.Template.DocumentURL
	}
	verificationID := newVerificationID()
	session, err := s.esign.CreateEsignRequest(ctx, cashfree.EsignCreateParams{
		VerificationID: verificationID,
		DocumentURL:    documentURL,
		RedirectURL:    fmt.Sprintf("%s/contracts/%s", strings.TrimRight(s.appCfg.BaseURL, "/"), contractID),
		Signers: []cashfree.EsignSigner{{
			Name:           signer.FullName(),
			Email:          signer.Email,
			SequenceNumber: 1,
		}},
	})
	if err != nil {
		return nil, err
	}

	request := &models.EsignRequest{
		VerificationID: verificationID,
		DocumentID:     session.DocumentID,
		Status:         session.Status,
		RawResponse:    datatypes.JSON(session.Raw),
		RedirectURL:    fmt.Sprintf("%s/contracts/%s", strings.TrimRight(s.appCfg.BaseURL, "/"), contractID),
	}
	if err := s.repo.CreateEsignRequest(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store esign request")
	}

	response := &models.EsignResponse{
		ContractID:     contractID,
		Party:          party,
		Status:         enums.EsignStatusInitiated,
		VerificationID: verificationID,
		ReferenceID:    session.ReferenceID.String(),
		DocumentID:     session.DocumentID,
		SigningLink:    session.SigningLink,
	}
	if err := s.repo.CreateEsignResponse(ctx, response); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store esign response")
	}

	return &EsignInitiateResponse{
		VerificationID: verificationID,
		Party:          party,
		SigningLink:    session.SigningLink,
	}, nil
}

// HandleEsignWebhook applies a provider callback. A SUCCESS status flips the
// matching party's signed flag; once both parties have signed the contract is
// approved and both are notified.
func (s *service) HandleEsignWebhook(ctx context.Context, payload EsignWebhookPayload) error {
	response, err := s.repo.FindEsignResponseByVerificationID(ctx, payload.VerificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "unknown verification id")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup esign response")
	}

	status := mapProviderStatus(payload.Status)
	if err := s.repo.UpdateEsignResponseStatus(ctx, response.ID, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update esign response")
	}
	if status != enums.EsignStatusSuccess {
		return nil
	}

	if err := s.repo.SetPartySigned(ctx, response.ContractID, response.Party, payload.SignedDocURL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark party signed")
	}

	contract, err := s.findContract(ctx, response.ContractID)
	if err != nil {
		return err
	}
	if !contract.FullySigned() {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, contract.ID, enums.ContractStatusApproved); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve contract")
	}

	message := "Both parties have signed. The contract is now active."
	for _, partyID := range []uuid.UUID{contract.BuyerID, contract.SellerID} {
		if err := s.notifier.Notify(ctx, partyID, enums.NotificationTypeContract, "Contract approved", message); err != nil {
			return err
		}
		if user, err := s.users.FindByID(ctx, partyID); err == nil {
			s.notifier.Email(ctx, user.Email, "Contract approved",
				fmt.Sprintf("Hi %s,\n\n%s", user.FirstName, message))
		}
	}
	return nil
}

func mapProviderStatus(status string) enums.EsignStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCESS":
		return enums.EsignStatusSuccess
	case "FAILED":
		return enums.EsignStatusFailed
	case "EXPIRED":
		return enums.EsignStatusExpired
	default:
		return enums.EsignStatusInitiated
	}
}

func newVerificationID() string {
	return "ESG_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *service) findContract(ctx context.Context, contractID uuid.UUID) (*models.Contract, error) {
	contract, err := s.repo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
	}
	return contract, nil
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
