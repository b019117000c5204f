package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type Address struct {
	Name          string `json:"name"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	PinCode       string `json:"pinCode"`
	Mobile        string `json:"mobile"`
}

// Order is owned by the order subsystem. Checkout creates orders from a cart
// and the payment manager only ever flips PaymentStatus.
type Order struct {
	ID                int64
	UserID            int64
	SellerID          int64
	ShippingAddress   Address
	Items             []OrderItem
	TotalSellingPrice decimal.Decimal
	PaymentStatus     PaymentStatus
	OrderStatus       OrderStatus
	PaymentOrderID    *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type OrderItem struct {
	ID           int64
	OrderID      int64
	ProductID    int64
	ProductName  string
	Quantity     int
	MrpPrice     decimal.Decimal
	SellingPrice decimal.Decimal
}

type OrderRepository interface {
	// CreateFromCart materializes one order per seller present in the cart.
	CreateFromCart(ctx context.Context, userID int64, address Address, cart Cart) ([]Order, error)
	GetById(ctx context.Context, id int64) (*Order, error)
	// GetItemById only returns items that belong to one of userID's orders.
	GetItemById(ctx context.Context, id, userID int64) (*OrderItem, error)
	GetByUserId(ctx context.Context, userID int64) ([]Order, error)
	GetByPaymentOrderId(ctx context.Context, paymentOrderID int64) ([]Order, error)
	Cancel(ctx context.Context, id, userID int64) (*Order, error)
}
