package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

func newTestStripeGateway(serverURL string, timeout time.Duration) *StripeGateway {
	return newStripeGateway("sk_test_key", &stripe.BackendConfig{
		URL:               stripe.String(serverURL),
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
}

func TestStripeGateway_CreateIntent(t *testing.T) {
	req := domain.IntentRequest{
		Amount:      decimal.RequireFromString("499.99"),
		Currency:    "USD",
		Receipt:     "42",
		Description: "Order #42",
		SuccessURL:  "http://localhost:3000/payment-success/42",
		CancelURL:   "http://localhost:3000/payment/cancel",
	}

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "payment", r.Form.Get("mode"))
			assert.Equal(t, "http://localhost:3000/payment-success/42", r.Form.Get("success_url"))
			assert.Equal(t, "49999", r.Form.Get("line_items[0][price_data][unit_amount]"))
			assert.Equal(t, "42", r.Form.Get("client_reference_id"))

			fmt.Fprint(w, `{
				"id": "cs_test_123",
				"url": "https://checkout.stripe.com/pay/cs_test_123",
				"amount_total": 49999,
				"payment_status": "unpaid"
			}`)
		}))
		defer server.Close()

		gw := newTestStripeGateway(server.URL, 10*time.Second)

		intent, err := gw.CreateIntent(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", intent.ID)
		assert.Equal(t, int64(49999), intent.Amount)
		assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", intent.RedirectURL)
	})

	t.Run("HonorsConfiguredTimeout", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		gw := newTestStripeGateway(server.URL, 50*time.Millisecond)

		start := time.Now()
		_, err := gw.CreateIntent(context.Background(), req)
		elapsed := time.Since(start)

		require.Error(t, err)
		assert.Less(t, elapsed, time.Second, "request should be cut off by the client timeout")

		var gwErr *domain.GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, domain.GatewayUnavailable, gwErr.Kind)
	})

	t.Run("AuthFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error": {"type": "invalid_request_error", "message": "Invalid API Key provided"}}`)
		}))
		defer server.Close()

		gw := newTestStripeGateway(server.URL, 10*time.Second)

		_, err := gw.CreateIntent(context.Background(), req)
		require.Error(t, err)

		var gwErr *domain.GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, "stripe", gwErr.Provider)
		assert.Equal(t, domain.GatewayAuthFailure, gwErr.Kind)
	})

	t.Run("InvalidRequest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": {"type": "invalid_request_error", "message": "Missing required param: line_items"}}`)
		}))
		defer server.Close()

		gw := newTestStripeGateway(server.URL, 10*time.Second)

		_, err := gw.CreateIntent(context.Background(), req)
		require.Error(t, err)

		var gwErr *domain.GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, domain.GatewayInvalidRequest, gwErr.Kind)
	})
}

func TestStripeGateway_FetchSettlement(t *testing.T) {
	tests := []struct {
		name          string
		sessionStatus string
		paymentStatus string
		wantStatus    domain.SettlementStatus
	}{
		{
			name:          "PaidSessionIsCaptured",
			sessionStatus: "complete",
			paymentStatus: "paid",
			wantStatus:    domain.SettlementCaptured,
		},
		{
			name:          "ExpiredSessionIsFailed",
			sessionStatus: "expired",
			paymentStatus: "unpaid",
			wantStatus:    domain.SettlementFailed,
		},
		{
			name:          "OpenSessionIsPending",
			sessionStatus: "open",
			paymentStatus: "unpaid",
			wantStatus:    domain.SettlementPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "GET", r.Method)
				assert.Equal(t, "/v1/checkout/sessions/cs_test_123", r.URL.Path)

				fmt.Fprintf(w, `{
					"id": "cs_test_123",
					"status": %q,
					"payment_status": %q,
					"amount_total": 49999
				}`, tt.sessionStatus, tt.paymentStatus)
			}))
			defer server.Close()

			gw := newTestStripeGateway(server.URL, 10*time.Second)

			settlement, err := gw.FetchSettlement(context.Background(), "cs_test_123")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, settlement.Status)
			assert.True(t, settlement.Amount.Equal(decimal.RequireFromString("499.99")))
		})
	}
}

func TestStripeGateway_Currency(t *testing.T) {
	gw := NewStripeGateway("sk_test_key", 10*time.Second)
	assert.Equal(t, "USD", gw.Currency())
}
