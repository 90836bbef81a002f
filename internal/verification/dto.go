package verification

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
)

// SubmitGovernmentIDRequest carries a user's identity document submission.
type SubmitGovernmentIDRequest struct {
	IDNumber string `json:"id_number" validate:"required,min=4,max=32"`
	IDType   string `json:"id_type" validate:"omitempty,max=64"`
}

// SubmitLandRequest carries a farmer's land holding submission.
type SubmitLandRequest struct {
	AreaAcres   decimal.Decimal `json:"area_acres" validate:"required"`
	Location    string          `json:"location" validate:"required,max=255"`
	DocumentURL string          `json:"document_url" validate:"omitempty,url"`
}

// SubmitGSTRequest carries a company's tax registration submission.
type SubmitGSTRequest struct {
	GSTNumber      string `json:"gst_number" validate:"required,len=15"`
	CertificateURL string `json:"certificate_url" validate:"omitempty,url"`
}

// SubmitAddressRequest carries the user's postal address.
type SubmitAddressRequest struct {
	Line1   string `json:"line1" validate:"required,max=255"`
	Line2   string `json:"line2" validate:"omitempty,max=255"`
	City    string `json:"city" validate:"required,max=128"`
	State   string `json:"state" validate:"required,max=128"`
	Pincode string `json:"pincode" validate:"required,len=6"`
}

// AdminVerifyRequest flips a sub-record's verified flag.
type AdminVerifyRequest struct {
	Verified bool `json:"verified"`
}

// AadhaarOTPRequest starts the provider OTP flow.
type AadhaarOTPRequest struct {
	AadhaarNumber string `json:"aadhaar_number" validate:"required,len=12,numeric"`
}

// AadhaarOTPResponse returns the provider reference for the OTP round-trip.
type AadhaarOTPResponse struct {
	RefID   string `json:"ref_id"`
	Message string `json:"message,omitempty"`
}

// AadhaarVerifyRequest completes the provider OTP flow.
type AadhaarVerifyRequest struct {
	RefID string `json:"ref_id" validate:"required"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// GovernmentIDDTO is the API view of an identity document record.
type GovernmentIDDTO struct {
	IDNumber    string    `json:"id_number"`
	IDType      string    `json:"id_type"`
	IsVerified  bool      `json:"is_verified"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// LandInformationDTO is the API view of a land holding record.
type LandInformationDTO struct {
	AreaAcres   decimal.Decimal `json:"area_acres"`
	Location    string          `json:"location"`
	DocumentURL string          `json:"document_url,omitempty"`
	IsVerified  bool            `json:"is_verified"`
}

// GSTInfoDTO is the API view of a tax registration record.
type GSTInfoDTO struct {
	GSTNumber      string `json:"gst_number"`
	CertificateURL string `json:"certificate_url,omitempty"`
	IsVerified     bool   `json:"is_verified"`
}

// AddressDTO is the API view of a postal address.
type AddressDTO struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// StatusDTO aggregates the caller's verification sub-records.
type StatusDTO struct {
	GovernmentID    *GovernmentIDDTO    `json:"government_id,omitempty"`
	LandInformation *LandInformationDTO `json:"land_information,omitempty"`
	GSTInfo         *GSTInfoDTO         `json:"gst_info,omitempty"`
	Address         *AddressDTO         `json:"address,omitempty"`
	UserVerified    bool                `json:"user_verified"`
}

func govIDFromModel(m *models.GovernmentID) *GovernmentIDDTO {
	if m == nil {
		return nil
	}
	return &GovernmentIDDTO{
		IDNumber:    m.IDNumber,
		IDType:      m.IDType,
		IsVerified:  m.IsVerified,
		SubmittedAt: m.SubmittedAt,
	}
}

func landFromModel(m *models.LandInformation) *LandInformationDTO {
	if m == nil {
		return nil
	}
	return &LandInformationDTO{
		AreaAcres:   m.AreaAcres,
		Location:    m.Location,
		DocumentURL: m.DocumentURL,
		IsVerified:  m.IsVerified,
	}
}

func gstFromModel(m *models.GSTInfo) *GSTInfoDTO {
	if m == nil {
		return nil
	}
	return &GSTInfoDTO{
		GSTNumber:      m.GSTNumber,
		CertificateURL: m.CertificateURL,
		IsVerified:     m.IsVerified,
	}
}

func addressFromModel(m *models.Address) *AddressDTO {
	if m == nil {
		return nil
	}
	return &AddressDTO{
		Line1:   m.Line1,
		Line2:   m.Line2,
		City:    m.City,
		State:   m.State,
		Pincode: m.Pincode,
	}
}
