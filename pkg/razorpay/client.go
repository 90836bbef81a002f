package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	razorpaysdk "github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"

	"github.com/quanmat/fasalmitra-backend/pkg/config"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/logger"
)

var (
	errKeyRequired    = errors.New("razorpay key id and secret are required")
	errLoggerRequired = errors.New("razorpay logger is required")
)

// orderAPI matches the SDK's order resource surface so tests can stub it.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Payments(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client exposes the gateway primitives with centralized logging, redaction,
// and error mapping.
type Client struct {
	orders orderAPI
	logger *logger.Logger
}

// OrderCreateParams describe a gateway order. Amount is in paise.
type OrderCreateParams struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]interface{}
}

// NewClient initializes the gateway wrapper and validates the credentials.
func NewClient(cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keyID == "" || keySecret == "" {
		return nil, errKeyRequired
	}

	sdk := razorpaysdk.NewClient(keyID, keySecret)
	return &Client{orders: sdk.Order, logger: logg}, nil
}

// CreateOrder registers an order with the gateway and returns the raw payload.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (map[string]interface{}, error) {
	currency := params.Currency
	if currency == "" {
		currency = "INR"
	}
	data := map[string]interface{}{
		"amount":   params.AmountPaise,
		"currency": currency,
		"receipt":  params.Receipt,
	}
	if len(params.Notes) > 0 {
		data["notes"] = params.Notes
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount":   params.AmountPaise,
		"currency": currency,
		"receipt":  params.Receipt,
	})

	body, err := c.orders.Create(data, nil)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, mapGatewayError(err, "create order")
	}

	c.log(ctx, "response", "create_order", map[string]any{
		"order_id": body["id"],
		"status":   body["status"],
	})
	return body, nil
}

// ListOrderPayments returns the gateway's payment entities for an order.
func (c *Client) ListOrderPayments(ctx context.Context, orderID string) ([]map[string]interface{}, error) {
	c.log(ctx, "request", "list_order_payments", map[string]any{"order_id": orderID})

	body, err := c.orders.Payments(orderID, nil, nil)
	if err != nil {
		c.log(ctx, "error", "list_order_payments", map[string]any{"error": err.Error()})
		return nil, mapGatewayError(err, "list order payments")
	}

	items := extractItems(body)
	c.log(ctx, "response", "list_order_payments", map[string]any{
		"order_id": orderID,
		"count":    len(items),
	})
	return items, nil
}

func extractItems(body map[string]interface{}) []map[string]interface{} {
	raw, ok := body["items"].([]interface{})
	if !ok {
		return nil
	}
	items := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		if item, ok := entry.(map[string]interface{}); ok {
			items = append(items, item)
		}
	}
	return items
}

// IsServerError reports whether the wrapped error originated from a gateway
// 5xx response.
func IsServerError(err error) bool {
	var srvErr *rzperrors.ServerError
	return errors.As(err, &srvErr)
}

func mapGatewayError(err error, op string) error {
	if err == nil {
		return nil
	}
	var badReq *rzperrors.BadRequestError
	if errors.As(err, &badReq) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("razorpay %s rejected", op))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("razorpay %s failed", op))
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
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("razorpay %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("razorpay %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "email", "contact", "card", "vpa", "token"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
