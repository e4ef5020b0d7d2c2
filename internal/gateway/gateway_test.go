package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGateway(t *testing.T) {
	tests := []struct {
		name    string
		card    string
		cvv     string
		approve bool
	}{
		{name: "valid card", card: "4111111111111111", cvv: "123", approve: true},
		{name: "13-digit card is enough", card: "4222222222222", cvv: "999", approve: true},
		{name: "card too short", card: "411111111111", cvv: "123", approve: false},
		{name: "cvv too short", card: "4111111111111111", cvv: "12", approve: false},
		{name: "cvv too long", card: "4111111111111111", cvv: "1234", approve: false},
		{name: "empty card", card: "", cvv: "123", approve: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := SimulatedGateway{}.Charge(context.Background(), ChargeRequest{
				Amount:     300.0,
				CardNumber: tt.card,
				CVV:        tt.cvv,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.approve, ok)
		})
	}
}

// paypalStub fakes the three-call Orders flow: token, create, capture.
func paypalStub(t *testing.T, captureStatus string) (*httptest.Server, *map[string]string) {
	t.Helper()
	seen := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/oauth2/token":
			seen["auth"] = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
		case "/v2/checkout/orders":
			seen["request_id"] = r.Header.Get("PayPal-Request-Id")
			seen["bearer"] = r.Header.Get("Authorization")
			var body struct {
				PurchaseUnits []struct {
					CustomID string `json:"custom_id"`
					Amount   struct {
						Currency string `json:"currency_code"`
						Value    string `json:"value"`
					} `json:"amount"`
				} `json:"purchase_units"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			if len(body.PurchaseUnits) == 1 {
				seen["currency"] = body.PurchaseUnits[0].Amount.Currency
				seen["value"] = body.PurchaseUnits[0].Amount.Value
				seen["custom_id"] = body.PurchaseUnits[0].CustomID
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "ORDER-1"})
		case "/v2/checkout/orders/ORDER-1/capture":
			json.NewEncoder(w).Encode(map[string]string{"status": captureStatus})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv, &seen
}

func TestPayPalGatewayCompletes(t *testing.T) {
	srv, seen := paypalStub(t, "COMPLETED")
	defer srv.Close()

	g := NewPayPalGateway(srv.URL, "client", "secret", time.Second)
	ok, err := g.Charge(context.Background(), ChargeRequest{Amount: 300.0, IdempotencyKey: "TXN-key"})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "TXN-key", (*seen)["request_id"])
	assert.Equal(t, "TXN-key", (*seen)["custom_id"], "custom_id carries the transaction id into webhook deliveries")
	assert.Equal(t, "Bearer tok-123", (*seen)["bearer"])
	assert.Equal(t, "EUR", (*seen)["currency"])
	assert.Equal(t, "300.00", (*seen)["value"])
	assert.Contains(t, (*seen)["auth"], "Basic ")
}

func TestPayPalGatewayDeclined(t *testing.T) {
	srv, _ := paypalStub(t, "DECLINED")
	defer srv.Close()

	g := NewPayPalGateway(srv.URL, "client", "secret", time.Second)
	ok, err := g.Charge(context.Background(), ChargeRequest{Amount: 300.0})

	require.NoError(t, err, "a non-completed capture is a decline, not a fault")
	assert.False(t, ok)
}

func TestPayPalGatewayTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := NewPayPalGateway(srv.URL, "client", "wrong", time.Second)
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 300.0})
	assert.Error(t, err)
}
