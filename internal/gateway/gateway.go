// Package gateway holds the card-charging backends of the payment
// orchestrator.  The service only sees the CardGateway interface; which
// implementation runs is a configuration decision.
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ChargeRequest carries everything a backend needs to attempt a capture.
// IdempotencyKey is forwarded to gateways that support request
// deduplication so a network retry cannot produce a second charge.
type ChargeRequest struct {
	Amount         float64
	CardNumber     string
	CardHolderName string
	ExpiryDate     string
	CVV            string
	IdempotencyKey string
}

// CardGateway attempts to capture a charge.  The boolean reports whether
// the charge completed; an error means the gateway itself misbehaved
// (timeout, non-2xx, malformed response).  Callers map errors to a FAILED
// payment rather than propagating them.
type CardGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (bool, error)
}

// SimulatedGateway approves charges that pass a minimal card sanity gate:
// card number of at least 13 characters and a 3-character CVV.  It stands
// in for a real processor in development and tests.
type SimulatedGateway struct{}

func (SimulatedGateway) Charge(_ context.Context, req ChargeRequest) (bool, error) {
	if len(req.CardNumber) < 13 {
		return false, nil
	}
	if len(req.CVV) != 3 {
		return false, nil
	}
	return true, nil
}

// PayPalGateway captures charges through the PayPal Orders API: an OAuth
// token fetch, an order create with the idempotency key as
// PayPal-Request-Id, and a capture.  Amounts are billed in EUR.
type PayPalGateway struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

// NewPayPalGateway builds a PayPal backend with a per-call timeout.
func NewPayPalGateway(baseURL, clientID, clientSecret string, timeout time.Duration) *PayPalGateway {
	return &PayPalGateway{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: timeout},
	}
}

func (g *PayPalGateway) Charge(ctx context.Context, req ChargeRequest) (bool, error) {
	token, err := g.accessToken(ctx)
	if err != nil {
		return false, err
	}
	orderID, err := g.createOrder(ctx, token, req.Amount, req.IdempotencyKey)
	if err != nil {
		return false, err
	}
	return g.captureOrder(ctx, token, orderID)
}

func (g *PayPalGateway) accessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	creds := base64.StdEncoding.EncodeToString([]byte(g.clientID + ":" + g.clientSecret))
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := g.doJSON(req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("paypal: empty access token")
	}
	return out.AccessToken, nil
}

func (g *PayPalGateway) createOrder(ctx context.Context, token string, amount float64, idempotencyKey string) (string, error) {
	unit := map[string]any{
		"amount": map[string]string{
			"currency_code": "EUR",
			"value":         fmt.Sprintf("%.2f", amount),
		},
	}
	// custom_id echoes back in webhook deliveries and lets the webhook
	// correlate a capture event with the local payment record.
	if idempotencyKey != "" {
		unit["custom_id"] = idempotencyKey
	}
	body := map[string]any{
		"intent":         "CAPTURE",
		"purchase_units": []map[string]any{unit},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v2/checkout/orders", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("PayPal-Request-Id", idempotencyKey)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := g.doJSON(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("paypal: order create returned no id")
	}
	return out.ID, nil
}

func (g *PayPalGateway) captureOrder(ctx context.Context, token, orderID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Status string `json:"status"`
	}
	if err := g.doJSON(req, &out); err != nil {
		return false, err
	}
	return out.Status == "COMPLETED", nil
}

func (g *PayPalGateway) doJSON(req *http.Request, out any) error {
	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("paypal: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paypal: %s returned status %d", req.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("paypal: decoding %s response: %v", req.URL.Path, err)
	}
	return nil
}
