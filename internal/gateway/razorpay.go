package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

const razorpayBaseURL = "https://api.razorpay.com"

var minorUnitFactor = decimal.NewFromInt(100)

// RazorpayGateway issues a server-side razorpay order that the frontend modal
// confirms later. There is no official Go SDK, so this talks to the REST API
// directly.
type RazorpayGateway struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

func NewRazorpayGateway(keyID, keySecret string, timeout time.Duration) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   razorpayBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *RazorpayGateway) Currency() string {
	return "INR"
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayPayment struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	OrderID  string `json:"order_id"`
}

func (g *RazorpayGateway) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.PaymentIntent, error) {
	body := map[string]any{
		"amount":   req.Amount.Mul(minorUnitFactor).IntPart(),
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}

	respBody, err := g.do(ctx, http.MethodPost, "/v1/orders", body)
	if err != nil {
		return nil, err
	}

	var order razorpayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, g.wrap(domain.GatewayUnavailable, fmt.Errorf("decode order response: %w", err))
	}

	return &domain.PaymentIntent{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}, nil
}

func (g *RazorpayGateway) FetchSettlement(ctx context.Context, ref string) (*domain.Settlement, error) {
	respBody, err := g.do(ctx, http.MethodGet, "/v1/payments/"+ref, nil)
	if err != nil {
		return nil, err
	}

	var payment razorpayPayment
	if err := json.Unmarshal(respBody, &payment); err != nil {
		return nil, g.wrap(domain.GatewayUnavailable, fmt.Errorf("decode payment response: %w", err))
	}

	settlement := &domain.Settlement{
		Amount: decimal.NewFromInt(payment.Amount).Div(minorUnitFactor),
	}

	switch payment.Status {
	case "captured":
		settlement.Status = domain.SettlementCaptured
	case "failed":
		settlement.Status = domain.SettlementFailed
	default:
		// created, authorized, refunded etc. are not a terminal capture
		settlement.Status = domain.SettlementPending
	}

	return settlement, nil
}

func (g *RazorpayGateway) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, g.wrap(domain.GatewayInvalidRequest, err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, g.wrap(domain.GatewayInvalidRequest, err)
	}

	req.SetBasicAuth(g.keyID, g.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, g.wrap(domain.GatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, g.wrap(domain.GatewayUnavailable, fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("razorpay returned %d: %s", resp.StatusCode, respBody)

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, g.wrap(domain.GatewayAuthFailure, err)
		case resp.StatusCode < 500:
			return nil, g.wrap(domain.GatewayInvalidRequest, err)
		default:
			return nil, g.wrap(domain.GatewayUnavailable, err)
		}
	}

	return respBody, nil
}

func (g *RazorpayGateway) wrap(kind domain.GatewayErrorKind, err error) error {
	return &domain.GatewayError{
		Provider: "razorpay",
		Kind:     kind,
		Err:      err,
	}
}
