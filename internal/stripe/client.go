// Package stripe is a thin client for the slice of the Stripe API this
// service uses: hosted checkout sessions, full refunds, and signed webhook
// payloads.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wb-go/wbf/logger"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

type Config struct {
	BaseURL       string
	SecretKey     string
	WebhookSecret string
	Currency      string
	// SuccessURL and CancelURL are where the hosted checkout sends the
	// attendee back to.
	SuccessURL string
	CancelURL  string
}

type Client struct {
	cfg Config
	hc  *http.Client
	log logger.Logger
}

func NewClient(cfg Config, hc *http.Client, log logger.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{cfg: cfg, hc: hc, log: log}
}

type checkoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession opens a hosted checkout flow for one spot. The
// payment id rides along as client_reference_id and metadata.
func (c *Client) CreateCheckoutSession(ctx context.Context, p ports.CheckoutParams) (*ports.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", p.PaymentID)
	form.Set("customer_email", p.CustomerEmail)
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("cancel_url", c.cfg.CancelURL)
	form.Set("metadata[payment_id]", p.PaymentID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", c.cfg.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.AmountPence, 10))
	form.Set("line_items[0][price_data][product_data][name]", p.EventTitle)

	var resp checkoutSessionResponse
	if err := c.post(ctx, "/v1/checkout/sessions", form, &resp); err != nil {
		return nil, err
	}

	return &ports.CheckoutSession{ID: resp.ID, URL: resp.URL}, nil
}

type refundResponse struct {
	ID string `json:"id"`
}

func (c *Client) CreateRefund(ctx context.Context, paymentIntentID string) (string, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)

	var resp refundResponse
	if err := c.post(ctx, "/v1/refunds", form, &resp); err != nil {
		return "", err
	}

	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.cfg.BaseURL+path,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrPaymentProvider, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.SecretKey, "")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error("stripe request failed",
			logger.String("path", path),
			logger.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", domain.ErrPaymentProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrPaymentProvider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("stripe returned error",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(body)),
		)
		return fmt.Errorf("%w: status %d", domain.ErrPaymentProvider, resp.StatusCode)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrPaymentProvider, err)
	}

	return nil
}
