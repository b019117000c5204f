package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

type MockPaymentOrderRepo struct {
	mock.Mock
	domain.PaymentOrderRepository
}

func (m *MockPaymentOrderRepo) Create(ctx context.Context, po *domain.PaymentOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPaymentOrderRepo) GetById(ctx context.Context, id int64) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepo) GetByPaymentLinkId(ctx context.Context, paymentLinkID string) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, paymentLinkID)
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepo) SetPaymentLink(ctx context.Context, id int64, paymentLinkID string) error {
	args := m.Called(ctx, id, paymentLinkID)
	return args.Error(0)
}

func (m *MockPaymentOrderRepo) Finalize(ctx context.Context, id int64, status domain.PaymentOrderStatus) (domain.PaymentOrderStatus, bool, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(domain.PaymentOrderStatus), args.Bool(1), args.Error(2)
}
