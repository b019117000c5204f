package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

type MockOrderRepo struct {
	mock.Mock
	domain.OrderRepository
}

func (m *MockOrderRepo) CreateFromCart(ctx context.Context, userID int64, address domain.Address, cart domain.Cart) ([]domain.Order, error) {
	args := m.Called(ctx, userID, address, cart)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepo) GetById(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepo) GetItemById(ctx context.Context, id, userID int64) (*domain.OrderItem, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(*domain.OrderItem), args.Error(1)
}

func (m *MockOrderRepo) GetByUserId(ctx context.Context, userID int64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepo) GetByPaymentOrderId(ctx context.Context, paymentOrderID int64) ([]domain.Order, error) {
	args := m.Called(ctx, paymentOrderID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepo) Cancel(ctx context.Context, id, userID int64) (*domain.Order, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(*domain.Order), args.Error(1)
}
