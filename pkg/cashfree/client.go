package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quanmat/fasalmitra-backend/pkg/config"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/logger"
)

var (
	errCredentialsRequired = errors.New("cashfree client id and secret are required")
	errLoggerRequired      = errors.New("cashfree logger is required")
)

// Client talks to the provider's verification suite: document e-sign and
// offline Aadhaar OTP. Calls are authenticated with the client id/secret
// header pair.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	logger       *logger.Logger
}

// NewClient validates credentials and builds the REST client.
func NewClient(cfg config.CashfreeConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	clientID := strings.TrimSpace(cfg.ClientID)
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, errCredentialsRequired
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logg,
	}, nil
}

// EsignSigner identifies one signing party on a document.
type EsignSigner struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	SequenceNumber int    `json:"sequence_number"`
}

// EsignCreateParams describe an e-sign session request.
type EsignCreateParams struct {
	VerificationID string        `json:"verification_id"`
	DocumentURL    string        `json:"document_url"`
	RedirectURL    string        `json:"redirect_url,omitempty"`
	Signers        []EsignSigner `json:"signers"`
	ExpiryMinutes  int           `json:"expiry_in_minutes,omitempty"`
}

// EsignSession is the provider's view of a signing session.
type EsignSession struct {
	VerificationID string          `json:"verification_id"`
	ReferenceID    json.Number     `json:"reference_id"`
	DocumentID     string          `json:"document_id"`
	Status         string          `json:"status"`
	SigningLink    string          `json:"signing_link"`
	Raw            json.RawMessage `json:"-"`
}

// CreateEsignRequest opens a signing session for the document and signers.
func (c *Client) CreateEsignRequest(ctx context.Context, params EsignCreateParams) (*EsignSession, error) {
	c.log(ctx, "request", "create_esign", map[string]any{
		"verification_id": params.VerificationID,
		"signers":         len(params.Signers),
	})

	var session EsignSession
	raw, err := c.do(ctx, http.MethodPost, "/esign", params, &session)
	if err != nil {
		c.log(ctx, "error", "create_esign", map[string]any{"error": err.Error()})
		return nil, err
	}
	session.Raw = raw

	c.log(ctx, "response", "create_esign", map[string]any{
		"verification_id": session.VerificationID,
		"status":          session.Status,
	})
	return &session, nil
}

// GetEsignStatus polls the provider for the session state.
func (c *Client) GetEsignStatus(ctx context.Context, verificationID string) (*EsignSession, error) {
	c.log(ctx, "request", "esign_status", map[string]any{"verification_id": verificationID})

	var session EsignSession
	path := fmt.Sprintf("/esign?verification_id=%s", verificationID)
	raw, err := c.do(ctx, http.MethodGet, path, nil, &session)
	if err != nil {
		c.log(ctx, "error", "esign_status", map[string]any{"error": err.Error()})
		return nil, err
	}
	session.Raw = raw

	c.log(ctx, "response", "esign_status", map[string]any{
		"verification_id": session.VerificationID,
		"status":          session.Status,
	})
	return &session, nil
}

// OTPRequest is the provider's acknowledgment of an OTP dispatch.
type OTPRequest struct {
	RefID   json.Number `json:"ref_id"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

// RequestAadhaarOTP asks the provider to send an OTP to the Aadhaar-linked
// mobile number.
func (c *Client) RequestAadhaarOTP(ctx context.Context, aadhaarNumber string) (*OTPRequest, error) {
	c.log(ctx, "request", "aadhaar_otp", nil)

	body := map[string]string{"aadhaar_number": aadhaarNumber}
	var result OTPRequest
	if _, err := c.do(ctx, http.MethodPost, "/offline-aadhaar/otp", body, &result); err != nil {
		c.log(ctx, "error", "aadhaar_otp", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "aadhaar_otp", map[string]any{"status": result.Status})
	return &result, nil
}

// AadhaarRecord carries the demographics returned on successful verification.
type AadhaarRecord struct {
	RefID     json.Number `json:"ref_id"`
	Status    string      `json:"status"`
	Name      string      `json:"name"`
	DOB       string      `json:"dob"`
	Gender    string      `json:"gender"`
	CareOf    string      `json:"care_of"`
	Address   string      `json:"address"`
	PhotoLink string      `json:"photo_link"`
}

// VerifyAadhaarOTP submits the OTP and returns the demographics snapshot.
func (c *Client) VerifyAadhaarOTP(ctx context.Context, refID, otp string) (*AadhaarRecord, error) {
	c.log(ctx, "request", "aadhaar_verify", map[string]any{"ref_id": refID})

	body := map[string]string{"ref_id": refID, "otp": otp}
	var record AadhaarRecord
	if _, err := c.do(ctx, http.MethodPost, "/offline-aadhaar/verify", body, &record); err != nil {
		c.log(ctx, "error", "aadhaar_verify", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "aadhaar_verify", map[string]any{
		"ref_id": record.RefID.String(),
		"status": record.Status,
	})
	return &record, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cashfree request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building cashfree request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-client-secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling cashfree")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading cashfree response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, mapProviderStatus(resp.StatusCode, payload)
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding cashfree response")
		}
	}
	return payload, nil
}

func mapProviderStatus(status int, payload []byte) error {
	message := providerMessage(payload)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeDependency, "cashfree rejected credentials")
	case status == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	case status < http.StatusInternalServerError:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, "cashfree unavailable")
	}
}

func providerMessage(payload []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return "cashfree request failed"
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("cashfree %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("cashfree %s", phase))
	}
}
