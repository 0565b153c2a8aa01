package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/omp-platform/learning-backend/internal"
)

// receiptMaxLen is Razorpay's receipt length limit.
const receiptMaxLen = 40

// Order is the gateway-side transaction handle returned by order creation.
// The payer completes payment against this order out-of-band.
type Order struct {
	ID          string `json:"id"`
	Entity      string `json:"entity"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Status      string `json:"status"`
}

type orderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
	timeout    time.Duration
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		timeout:    timeout,
		logger:     logger,
	}
}

// CreateOrder registers a payment order with the gateway. Nothing is
// persisted locally; on any failure the caller's payment record is left in
// its prior state and the call can be retried.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, autoCapture bool) (*Order, error) {
	if amountMinor <= 0 {
		return nil, internal.NewValidationError("order amount must be positive", internal.ErrCodeInvalidAmount)
	}
	if currency == "" {
		currency = "INR"
	}

	capture := 0
	if autoCapture {
		capture = 1
	}

	body, err := json.Marshal(orderRequest{
		Amount:         amountMinor,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: capture,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to encode order request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, internal.NewInternalError("failed to build order request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	c.logger.Info("creating gateway order",
		"amount_minor", amountMinor,
		"currency", currency,
		"receipt", receipt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway order request failed", "error", err, "receipt", receipt)
		return nil, internal.NewGatewayError("payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internal.NewGatewayError("failed to read gateway response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("gateway order create failed",
			"status", resp.StatusCode,
			"body", string(respBody),
			"receipt", receipt)
		return nil, internal.NewGatewayError(
			fmt.Sprintf("gateway returned status %d", resp.StatusCode), nil)
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		c.logger.Error("failed to decode gateway order", "error", err, "body", string(respBody))
		return nil, internal.NewGatewayError("invalid gateway response", err)
	}

	c.logger.Info("gateway order created",
		"order_id", order.ID,
		"amount_minor", order.AmountMinor,
		"status", order.Status)

	return &order, nil
}

// KeyID exposes the public half of the credential pair for clients that
// open the gateway checkout. The secret never leaves the server.
func (c *Client) KeyID() string {
	return c.keyID
}

// BuildReceipt derives a deterministic receipt for a (user, course) pair.
// Each id is truncated independently so two long ids cannot collide after
// a shared truncation of the concatenation.
func BuildReceipt(userID, courseID string) string {
	// "rcpt_" + 17 + "_" + 17 = 40
	const componentLen = 17

	u := userID
	if len(u) > componentLen {
		u = u[:componentLen]
	}
	c := courseID
	if len(c) > componentLen {
		c = c[:componentLen]
	}

	receipt := fmt.Sprintf("rcpt_%s_%s", u, c)
	if len(receipt) > receiptMaxLen {
		receipt = receipt[:receiptMaxLen]
	}
	return receipt
}
