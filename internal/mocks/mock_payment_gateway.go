package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

type MockPaymentGateway struct {
	mock.Mock
	domain.PaymentGateway
}

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

func (m *MockPaymentGateway) FetchSettlement(ctx context.Context, ref string) (*domain.Settlement, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockPaymentGateway) Currency() string {
	args := m.Called()
	return args.String(0)
}
