package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

// StripeGateway creates hosted checkout sessions; the customer completes the
// payment on the returned redirect URL. The API key is injected instead of
// relying on the package-global stripe.Key.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway builds a gateway whose requests are bounded by timeout,
// overriding the SDK's 80s default.
func NewStripeGateway(secretKey string, timeout time.Duration) *StripeGateway {
	return newStripeGateway(secretKey, &stripe.BackendConfig{
		HTTPClient:    &http.Client{Timeout: timeout},
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
}

func newStripeGateway(secretKey string, config *stripe.BackendConfig) *StripeGateway {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, config)

	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &StripeGateway{api: api}
}

func (g *StripeGateway) Currency() string {
	return "USD"
}

func (g *StripeGateway) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.PaymentIntent, error) {
	unitAmount := req.Amount.Mul(minorUnitFactor).IntPart()

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
			},
		},
		ClientReferenceID: stripe.String(req.Receipt),
	}

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, g.wrap(err)
	}

	return &domain.PaymentIntent{
		ID:          session.ID,
		Amount:      unitAmount,
		Currency:    string(stripe.CurrencyUSD),
		RedirectURL: session.URL,
	}, nil
}

func (g *StripeGateway) FetchSettlement(ctx context.Context, ref string) (*domain.Settlement, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
	}

	session, err := g.api.CheckoutSessions.Get(ref, params)
	if err != nil {
		return nil, g.wrap(err)
	}

	settlement := &domain.Settlement{
		Amount: decimal.NewFromInt(session.AmountTotal).Div(minorUnitFactor),
	}

	switch {
	case session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		settlement.Status = domain.SettlementCaptured
	case session.Status == stripe.CheckoutSessionStatusExpired:
		settlement.Status = domain.SettlementFailed
	default:
		settlement.Status = domain.SettlementPending
	}

	return settlement, nil
}

func (g *StripeGateway) wrap(err error) error {
	kind := domain.GatewayUnavailable

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch {
		case stripeErr.HTTPStatusCode == http.StatusUnauthorized || stripeErr.HTTPStatusCode == http.StatusForbidden:
			kind = domain.GatewayAuthFailure
		case stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500:
			kind = domain.GatewayInvalidRequest
		}
	}

	return &domain.GatewayError{
		Provider: "stripe",
		Kind:     kind,
		Err:      err,
	}
}
