package gateway

import (
	"context"

	"github.com/zoshlabs/checkout-service/internal/domain"
)

// MockGateway is a configurable stand-in for a payment provider, used by the
// integration tests so no real provider is contacted.
type MockGateway struct {
	Intent       *domain.PaymentIntent
	Settlement   *domain.Settlement
	Err          error
	CurrencyCode string
}

func NewMockGateway(currency string) *MockGateway {
	return &MockGateway{CurrencyCode: currency}
}

func (m *MockGateway) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.PaymentIntent, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return m.Intent, nil
}

func (m *MockGateway) FetchSettlement(ctx context.Context, ref string) (*domain.Settlement, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return m.Settlement, nil
}

func (m *MockGateway) Currency() string {
	return m.CurrencyCode
}

// Reset clears any configured responses between test scenarios.
func (m *MockGateway) Reset() {
	m.Intent = nil
	m.Settlement = nil
	m.Err = nil
}
