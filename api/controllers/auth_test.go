package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/internal/auth"
	"github.com/quanmat/fasalmitra-backend/internal/users"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

type stubAuthService struct {
	loginFn      func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	adminLoginFn func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	refreshFn    func(ctx context.Context, accessToken, refreshToken string) (*auth.RefreshResponse, error)
	logoutFn     func(ctx context.Context, accessID string) error
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return &auth.LoginResponse{}, nil
}

func (s *stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.adminLoginFn != nil {
		return s.adminLoginFn(ctx, req)
	}
	return &auth.LoginResponse{}, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.RefreshResponse, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, accessToken, refreshToken)
	}
	return &auth.RefreshResponse{}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, accessID)
	}
	return nil
}

func TestAuthLoginSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			if req.Email != "farmer@example.com" {
				t.Fatalf("unexpected email %s", req.Email)
			}
			return &auth.LoginResponse{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				User:         &users.UserDTO{ID: userID, Email: req.Email},
			}, nil
		},
	}

	body := bytes.NewBufferString(`{"email":"farmer@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("X-FM-Token"); got != "access-token" {
		t.Fatalf("unexpected token header %q", got)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.RefreshToken != "refresh-token" {
		t.Fatalf("unexpected refresh token %q", envelope.Data.RefreshToken)
	}
	if envelope.Data.User == nil || envelope.Data.User.ID != userID {
		t.Fatal("login response missing user")
	}
}

func TestAuthLoginRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AuthLogin(&stubAuthService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginPropagatesUnauthorized(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		},
	}
	body := bytes.NewBufferString(`{"email":"farmer@example.com","password":"wrong-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if resp.Header().Get("X-FM-Token") != "" {
		t.Fatal("token header must not be set on failure")
	}
}

func TestAdminAuthLoginUsesAdminPath(t *testing.T) {
	adminCalled := false
	svc := &stubAuthService{
		adminLoginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			adminCalled = true
			return &auth.LoginResponse{AccessToken: "admin-token"}, nil
		},
	}
	body := bytes.NewBufferString(`{"email":"admin@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AdminAuthLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !adminCalled {
		t.Fatal("expected AdminLogin to be called")
	}
	if resp.Header().Get("X-FM-Token") != "admin-token" {
		t.Fatal("missing token header")
	}
}

func TestAuthLoginNilService(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{}`))
	resp := httptest.NewRecorder()
	AuthLogin(nil, testLogger())(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
