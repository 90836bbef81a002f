package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/pkg/cashfree"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

const defaultGovernmentIDType = "Aadhar Card"

// Service exposes the verification sub-record operations.
type Service interface {
	SubmitGovernmentID(ctx context.Context, userID uuid.UUID, req SubmitGovernmentIDRequest) (*GovernmentIDDTO, error)
	SubmitLandInformation(ctx context.Context, userID uuid.UUID, req SubmitLandRequest) (*LandInformationDTO, error)
	SubmitGSTInfo(ctx context.Context, userID uuid.UUID, req SubmitGSTRequest) (*GSTInfoDTO, error)
	SubmitAddress(ctx context.Context, userID uuid.UUID, req SubmitAddressRequest) (*AddressDTO, error)
	Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error)

	AdminVerifyGovernmentID(ctx context.Context, userID uuid.UUID, verified bool) error
	AdminVerifyLandInformation(ctx context.Context, userID uuid.UUID, verified bool) error
	AdminVerifyGSTInfo(ctx context.Context, userID uuid.UUID, verified bool) error

	RequestAadhaarOTP(ctx context.Context, userID uuid.UUID, req AadhaarOTPRequest) (*AadhaarOTPResponse, error)
	VerifyAadhaarOTP(ctx context.Context, userID uuid.UUID, req AadhaarVerifyRequest) error
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetGovIDVerified(ctx context.Context, id uuid.UUID, verified bool) error
}

type verificationRecomputer interface {
	RecomputeVerification(ctx context.Context, userID uuid.UUID) (bool, error)
}

type aadhaarProvider interface {
	RequestAadhaarOTP(ctx context.Context, aadhaarNumber string) (*cashfree.OTPRequest, error)
	VerifyAadhaarOTP(ctx context.Context, refID, otp string) (*cashfree.AadhaarRecord, error)
}

type service struct {
	repo       Repository
	users      userRepository
	recomputer verificationRecomputer
	notifier   notify.Notifier
	aadhaar    aadhaarProvider
}

// ServiceParams bundles the dependencies for the verification service.
type ServiceParams struct {
	Repo         Repository
	UserRepo     userRepository
	UsersService verificationRecomputer
	Notifier     notify.Notifier
	Aadhaar      aadhaarProvider
}

// NewService wires the verification service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("verification repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.UsersService == nil {
		return nil, fmt.Errorf("users service is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if params.Aadhaar == nil {
		return nil, fmt.Errorf("aadhaar provider is required")
	}
	return &service{
		repo:       params.Repo,
		users:      params.UserRepo,
		recomputer: params.UsersService,
		notifier:   params.Notifier,
		aadhaar:    params.Aadhaar,
	}, nil
}

// SubmitGovernmentID upserts the caller's identity document. A resubmission
// resets the verified flag so an admin re-reviews the new document.
func (s *service) SubmitGovernmentID(ctx context.Context, userID uuid.UUID, req SubmitGovernmentIDRequest) (*GovernmentIDDTO, error) {
	idType := strings.TrimSpace(req.IDType)
	if idType == "" {
		idType = defaultGovernmentIDType
	}
	record := &models.GovernmentID{
		UserID:   userID,
		IDNumber: strings.TrimSpace(req.IDNumber),
		IDType:   idType,
	}
	if err := s.repo.UpsertGovernmentID(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save government id")
	}
	if err := s.users.SetGovIDVerified(ctx, userID, false); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset gov id flag")
	}
	return govIDFromModel(record), nil
}

func (s *service) SubmitLandInformation(ctx context.Context, userID uuid.UUID, req SubmitLandRequest) (*LandInformationDTO, error) {
	if err := s.requireRole(ctx, userID, enums.UserRoleFarmer); err != nil {
		return nil, err
	}
	if req.AreaAcres.IsNegative() || req.AreaAcres.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "area_acres must be positive")
	}
	record := &models.LandInformation{
		UserID:      userID,
		AreaAcres:   req.AreaAcres,
		Location:    strings.TrimSpace(req.Location),
		DocumentURL: req.DocumentURL,
	}
	if err := s.repo.UpsertLandInformation(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save land information")
	}
	return landFromModel(record), nil
}

func (s *service) SubmitGSTInfo(ctx context.Context, userID uuid.UUID, req SubmitGSTRequest) (*GSTInfoDTO, error) {
	if err := s.requireRole(ctx, userID, enums.UserRoleCompany); err != nil {
		return nil, err
	}
	record := &models.GSTInfo{
		UserID:         userID,
		GSTNumber:      strings.ToUpper(strings.TrimSpace(req.GSTNumber)),
		CertificateURL: req.CertificateURL,
	}
	if err := s.repo.UpsertGSTInfo(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save gst info")
	}
	return gstFromModel(record), nil
}

func (s *service) SubmitAddress(ctx context.Context, userID uuid.UUID, req SubmitAddressRequest) (*AddressDTO, error) {
	record := &models.Address{
		UserID:  userID,
		Line1:   strings.TrimSpace(req.Line1),
		Line2:   strings.TrimSpace(req.Line2),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
		Pincode: strings.TrimSpace(req.Pincode),
	}
	if err := s.repo.UpsertAddress(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
	}
	return addressFromModel(record), nil
}

func (s *service) Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &StatusDTO{UserVerified: user.UserVerified}
	if govID, err := s.repo.GetGovernmentID(ctx, userID); err == nil {
		status.GovernmentID = govIDFromModel(govID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load government id")
	}
	if land, err := s.repo.GetLandInformation(ctx, userID); err == nil {
		status.LandInformation = landFromModel(land)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load land information")
	}
	if gst, err := s.repo.GetGSTInfo(ctx, userID); err == nil {
		status.GSTInfo = gstFromModel(gst)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gst info")
	}
	if address, err := s.repo.GetAddress(ctx, userID); err == nil {
		status.Address = addressFromModel(address)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return status, nil
}

// AdminVerifyGovernmentID flips the document's verified flag. The previous
// value decides whether the user is notified, so repeated admin saves do not
// repeat the notification.
func (s *service) AdminVerifyGovernmentID(ctx context.Context, userID uuid.UUID, verified bool) error {
	prev, err := s.repo.GetGovernmentID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "government id not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load government id")
	}

	if err := s.repo.SetGovernmentIDVerified(ctx, userID, verified); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update government id")
	}
	if err := s.users.SetGovIDVerified(ctx, userID, verified); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mirror gov id flag")
	}

	if !prev.IsVerified && verified {
		s.announceVerified(ctx, userID, "Government ID verified",
			"Your government ID has been reviewed and verified.")
		if _, err := s.recomputer.RecomputeVerification(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute verification")
		}
	}
	return nil
}

func (s *service) AdminVerifyLandInformation(ctx context.Context, userID uuid.UUID, verified bool) error {
	prev, err := s.repo.GetLandInformation(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "land information not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load land information")
	}

	if err := s.repo.SetLandInformationVerified(ctx, userID, verified); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update land information")
	}

	if !prev.IsVerified && verified {
		s.announceVerified(ctx, userID, "Land information verified",
			"Your land records have been reviewed and verified.")
		if _, err := s.recomputer.RecomputeVerification(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute verification")
		}
	}
	return nil
}

func (s *service) AdminVerifyGSTInfo(ctx context.Context, userID uuid.UUID, verified bool) error {
	prev, err := s.repo.GetGSTInfo(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "gst info not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gst info")
	}

	if err := s.repo.SetGSTInfoVerified(ctx, userID, verified); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update gst info")
	}

	if !prev.IsVerified && verified {
		s.announceVerified(ctx, userID, "GST registration verified",
			"Your GST registration has been reviewed and verified.")
		if _, err := s.recomputer.RecomputeVerification(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute verification")
		}
	}
	return nil
}

// RequestAadhaarOTP starts the provider flow and records the document as
// pending so the verify step has a row to flip.
func (s *service) RequestAadhaarOTP(ctx context.Context, userID uuid.UUID, req AadhaarOTPRequest) (*AadhaarOTPResponse, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	record := &models.GovernmentID{
		UserID:   userID,
		IDNumber: req.AadhaarNumber,
		IDType:   defaultGovernmentIDType,
	}
	if err := s.repo.UpsertGovernmentID(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save government id")
	}

	otp, err := s.aadhaar.RequestAadhaarOTP(ctx, req.AadhaarNumber)
	if err != nil {
		return nil, err
	}
	return &AadhaarOTPResponse{RefID: otp.RefID.String(), Message: otp.Message}, nil
}

// VerifyAadhaarOTP completes the provider flow, snapshots the demographics,
// and marks the government id verified.
func (s *service) VerifyAadhaarOTP(ctx context.Context, userID uuid.UUID, req AadhaarVerifyRequest) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	record, err := s.aadhaar.VerifyAadhaarOTP(ctx, req.RefID, req.OTP)
	if err != nil {
		return err
	}
	if !strings.EqualFold(record.Status, "VALID") {
		return pkgerrors.New(pkgerrors.CodeValidation, "aadhaar verification failed").
			WithDetails(map[string]string{"status": record.Status})
	}

	now := time.Now().UTC()
	snapshot := &models.AadhaarVerification{
		UserID:      userID,
		RefID:       record.RefID.String(),
		Status:      record.Status,
		Name:        record.Name,
		DOB:         record.DOB,
		Gender:      record.Gender,
		CareOf:      record.CareOf,
		FullAddress: record.Address,
		PhotoLink:   record.PhotoLink,
		VerifiedAt:  now,
	}
	if err := s.repo.CreateAadhaarVerification(ctx, snapshot); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store aadhaar snapshot")
	}

	if err := s.repo.SetGovernmentIDVerified(ctx, userID, true); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update government id")
	}
	if err := s.users.SetGovIDVerified(ctx, userID, true); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mirror gov id flag")
	}

	if err := s.notifier.Notify(ctx, userID, enums.NotificationTypeProfile, "Aadhaar verified",
		"Your Aadhaar has been verified successfully."); err != nil {
		return err
	}
	s.notifier.Email(ctx, user.Email, "Aadhaar verified",
		fmt.Sprintf("Hi %s, your Aadhaar has been verified successfully.", user.FirstName))

	if _, err := s.recomputer.RecomputeVerification(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute verification")
	}
	return nil
}

func (s *service) announceVerified(ctx context.Context, userID uuid.UUID, title, message string) {
	if err := s.notifier.Notify(ctx, userID, enums.NotificationTypeProfile, title, message); err != nil {
		return
	}
	if user, err := s.users.FindByID(ctx, userID); err == nil {
		s.notifier.Email(ctx, user.Email, title, fmt.Sprintf("Hi %s,\n\n%s", user.FirstName, message))
	}
}

func (s *service) requireRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != role {
		return pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("only %s accounts can submit this record", role))
	}
	return nil
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
