package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

type MockCartRepo struct {
	mock.Mock
	domain.CartRepository
}

func (m *MockCartRepo) GetByUserId(ctx context.Context, userID int64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepo) Set(ctx context.Context, cart domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepo) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
