package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	FirstName       string         `gorm:"column:first_name;not null"`
	LastName        string         `gorm:"column:last_name;not null"`
	Phone           *string        `gorm:"column:phone"`
	Role            enums.UserRole `gorm:"type:text;not null"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true"`
	IsEmailVerified bool           `gorm:"column:is_email_verified;not null;default:false"`
	IsGovIDVerified bool           `gorm:"column:is_gov_id_verified;not null;default:false"`
	UserVerified    bool           `gorm:"column:user_verified;not null;default:false"`
	LastLoginAt     *time.Time     `gorm:"column:last_login_at"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins the user's first and last name for display and email bodies.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// EmailVerificationToken holds the single active email confirmation token per user.
type EmailVerificationToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Token     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"type:timestamptz;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Expired reports whether the token is past its validity window.
func (t EmailVerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
