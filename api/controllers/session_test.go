package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quanmat/fasalmitra-backend/internal/auth"
	pkgAuth "github.com/quanmat/fasalmitra-backend/pkg/auth"
	"github.com/quanmat/fasalmitra-backend/pkg/auth/session"
	"github.com/quanmat/fasalmitra-backend/pkg/config"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

func sessionTestJWT() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "issuer",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 120,
	}
}

func mintSessionToken(t *testing.T, cfg config.JWTConfig) (string, string) {
	t.Helper()
	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Role:     enums.UserRoleFarmer,
		Verified: true,
		JTI:      accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, accessID
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	cfg := sessionTestJWT()
	token, accessID := mintSessionToken(t, cfg)

	var revoked string
	svc := &stubAuthService{
		logoutFn: func(ctx context.Context, id string) error {
			revoked = id
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	AuthLogout(svc, cfg, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
	if revoked != accessID {
		t.Fatalf("expected revoke of %s got %s", accessID, revoked)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["status"] != "logged_out" {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestAuthLogoutMissingBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	AuthLogout(&stubAuthService{}, sessionTestJWT(), testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutRejectsGarbageToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	AuthLogout(&stubAuthService{}, sessionTestJWT(), testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRotatesTokens(t *testing.T) {
	var gotAccess, gotRefresh string
	svc := &stubAuthService{
		refreshFn: func(ctx context.Context, accessToken, refreshToken string) (*auth.RefreshResponse, error) {
			gotAccess = accessToken
			gotRefresh = refreshToken
			return &auth.RefreshResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}

	body := bytes.NewBufferString(`{"refresh_token":"old-refresh"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer old-access")
	resp := httptest.NewRecorder()
	AuthRefresh(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
	if gotAccess != "old-access" || gotRefresh != "old-refresh" {
		t.Fatalf("unexpected tokens %q %q", gotAccess, gotRefresh)
	}
	if resp.Header().Get("X-FM-Token") != "new-access" {
		t.Fatal("missing rotated token header")
	}
	var envelope struct {
		Data auth.RefreshResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected refresh token %q", envelope.Data.RefreshToken)
	}
}

func TestAuthRefreshMissingBearer(t *testing.T) {
	body := bytes.NewBufferString(`{"refresh_token":"old-refresh"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AuthRefresh(&stubAuthService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
