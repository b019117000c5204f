package domain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type SettlementStatus string

const (
	SettlementCaptured SettlementStatus = "captured"
	SettlementFailed   SettlementStatus = "failed"
	SettlementPending  SettlementStatus = "pending"
)

// IntentRequest carries everything a provider needs to create a payment
// artifact. Amount is in major units; each adapter converts to the provider's
// minor unit itself.
type IntentRequest struct {
	Amount        decimal.Decimal
	Currency      string
	Receipt       string
	Description   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// PaymentIntent is the provider-side artifact. RedirectURL is only set by
// hosted-checkout providers.
type PaymentIntent struct {
	ID          string
	Amount      int64
	Currency    string
	RedirectURL string
}

// Settlement is the provider's determination of whether funds were captured.
// Amount is converted back to major units by the adapter.
type Settlement struct {
	Status SettlementStatus
	Amount decimal.Decimal
}

// PaymentGateway normalizes structurally different provider protocols into
// intent creation plus settlement query, so the payment manager never
// branches on provider identity except at dispatch time.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*PaymentIntent, error)
	FetchSettlement(ctx context.Context, ref string) (*Settlement, error)
	Currency() string
}

type GatewayErrorKind int

const (
	GatewayUnavailable GatewayErrorKind = iota
	GatewayInvalidRequest
	GatewayAuthFailure
)

func (k GatewayErrorKind) String() string {
	switch k {
	case GatewayInvalidRequest:
		return "invalid request"
	case GatewayAuthFailure:
		return "auth failure"
	default:
		return "unavailable"
	}
}

// GatewayError wraps a provider-side failure. It always propagates to the
// caller unmodified; it is never downgraded to a FAILED business outcome.
type GatewayError struct {
	Provider string
	Kind     GatewayErrorKind
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s gateway: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
