package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/quanmat/fasalmitra-backend/pkg/auth"
	"github.com/quanmat/fasalmitra-backend/pkg/config"
	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/security"
)

func TestServiceLoginMintsRoleAndVerifiedClaims(t *testing.T) {
	password := "farmer-secret"
	hashed := mustHashPassword(t, password)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.com",
		PasswordHash: hashed,
		FirstName:    "Ravi",
		LastName:     "Kumar",
		Role:         enums.UserRoleFarmer,
		IsActive:     true,
		UserVerified: true,
	}
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "fasalmitra",
		ExpirationMinutes: 30,
	}

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.Role != enums.UserRoleFarmer {
		t.Fatalf("expected farmer role claim, got %s", claims.Role)
	}
	if !claims.Verified {
		t.Fatalf("expected verified claim to be true")
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: mustHashPassword(t, "correct"),
		Role:         enums.UserRoleBuyer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(user, config.JWTConfig{Secret: "secret", Issuer: "fasalmitra", ExpirationMinutes: 30})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginRejectsInactiveUser(t *testing.T) {
	password := "inactive"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "inactive@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleFarmer,
		IsActive:     false,
	}

	svc, _, err := buildTestService(user, config.JWTConfig{Secret: "secret", Issuer: "fasalmitra", ExpirationMinutes: 30})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceAdminLoginRejectsNonAdmin(t *testing.T) {
	password := "farmer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleFarmer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(user, config.JWTConfig{Secret: "secret", Issuer: "fasalmitra", ExpirationMinutes: 30})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.AdminLogin(context.Background(), LoginRequest{Email: user.Email, Password: password})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRefreshRotatesTokens(t *testing.T) {
	password := "refresh-me"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "refresh@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleBuyer,
		IsActive:     true,
	}
	cfg := config.JWTConfig{Secret: "secret", Issuer: "fasalmitra", ExpirationMinutes: 30}

	svc, sessionMgr, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sessionMgr.rotatedRefresh = "rotated-refresh"
	resp, err := svc.Refresh(context.Background(), login.AccessToken, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.RefreshToken != "rotated-refresh" {
		t.Fatalf("expected rotated refresh token, got %s", resp.RefreshToken)
	}
	if resp.AccessToken == "" || resp.AccessToken == login.AccessToken {
		t.Fatalf("expected a fresh access token")
	}
}

func buildTestService(user *models.User, jwtCfg config.JWTConfig) (Service, *stubSessionManager, error) {
	userRepo := stubUserRepo{user: user}
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionMgr,
		JWTConfig:      jwtCfg,
	})
	return svc, sessionMgr, err
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken   string
	rotatedRefresh string
	revoked        []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return uuid.NewString(), s.rotatedRefresh, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}
