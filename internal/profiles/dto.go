package profiles

import (
	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// ProfileDTO is the role-profile view returned to API clients. Company-only
// fields are empty for farmer and buyer profiles.
type ProfileDTO struct {
	UserID           uuid.UUID      `json:"user_id"`
	Role             enums.UserRole `json:"role"`
	Name             string         `json:"name"`
	Verified         bool           `json:"verified"`
	Bio              string         `json:"bio,omitempty"`
	ImageURL         string         `json:"image_url,omitempty"`
	CompanyName      string         `json:"company_name,omitempty"`
	Description      string         `json:"description,omitempty"`
	LogoURL          string         `json:"logo_url,omitempty"`
	ISOCertification string         `json:"iso_certification,omitempty"`
}

// UpdateProfileDTO carries the mutable profile fields. Nil pointers mean the
// field keeps its stored value.
type UpdateProfileDTO struct {
	Bio              *string `json:"bio" validate:"omitempty,max=2000"`
	ImageURL         *string `json:"image_url" validate:"omitempty,url"`
	CompanyName      *string `json:"company_name" validate:"omitempty,max=255"`
	Description      *string `json:"description" validate:"omitempty,max=4000"`
	LogoURL          *string `json:"logo_url" validate:"omitempty,url"`
	ISOCertification *string `json:"iso_certification" validate:"omitempty,max=255"`
}

func fromFarmer(user *models.User, profile *models.FarmerProfile) *ProfileDTO {
	return &ProfileDTO{
		UserID:   user.ID,
		Role:     user.Role,
		Name:     user.FullName(),
		Verified: user.UserVerified,
		Bio:      profile.Bio,
		ImageURL: profile.ImageURL,
	}
}

func fromBuyer(user *models.User, profile *models.BuyerProfile) *ProfileDTO {
	return &ProfileDTO{
		UserID:   user.ID,
		Role:     user.Role,
		Name:     user.FullName(),
		Verified: user.UserVerified,
		Bio:      profile.Bio,
		ImageURL: profile.ImageURL,
	}
}

func fromCompany(user *models.User, profile *models.CompanyProfile) *ProfileDTO {
	return &ProfileDTO{
		UserID:           user.ID,
		Role:             user.Role,
		Name:             user.FullName(),
		Verified:         user.UserVerified,
		CompanyName:      profile.CompanyName,
		Description:      profile.Description,
		LogoURL:          profile.LogoURL,
		ISOCertification: profile.ISOCertification,
	}
}
