package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentOrderStatus string

const (
	PaymentOrderStatusPending PaymentOrderStatus = "PENDING"
	PaymentOrderStatusSuccess PaymentOrderStatus = "SUCCESS"
	PaymentOrderStatusFailed  PaymentOrderStatus = "FAILED"
)

// Terminal reports whether the status admits no further transition.
func (s PaymentOrderStatus) Terminal() bool {
	return s == PaymentOrderStatusSuccess || s == PaymentOrderStatusFailed
}

type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "RAZORPAY"
	PaymentMethodStripe   PaymentMethod = "STRIPE"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodRazorpay || m == PaymentMethodStripe
}

// PaymentOrder aggregates one or more orders into a single payable amount and
// tracks its settlement. Amount is in major currency units; adapters convert
// to the provider's minor unit at the boundary. Rows are never deleted.
type PaymentOrder struct {
	ID            int64
	UserID        int64
	Amount        decimal.Decimal
	Currency      string
	Method        PaymentMethod
	Status        PaymentOrderStatus
	PaymentLinkID *string
	OrderIDs      []int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPaymentOrder computes the payable amount as the sum of the orders'
// selling prices minus the cart's coupon discount. The amount is fixed here
// and never recomputed.
func NewPaymentOrder(user *User, orders []Order, cart *Cart, method PaymentMethod, currency string) (*PaymentOrder, error) {
	if len(orders) == 0 {
		return nil, ErrEmptyOrderSet
	}

	amount := decimal.Zero
	orderIDs := make([]int64, len(orders))

	for i, order := range orders {
		amount = amount.Add(order.TotalSellingPrice)
		orderIDs[i] = order.ID
	}

	amount = amount.Sub(cart.CouponPrice)

	return &PaymentOrder{
		UserID:   user.ID,
		Amount:   amount,
		Currency: currency,
		Method:   method,
		Status:   PaymentOrderStatusPending,
		OrderIDs: orderIDs,
	}, nil
}

type PaymentOrderRepository interface {
	// Create persists the payment order and links its orders to it.
	Create(ctx context.Context, po *PaymentOrder) error
	GetById(ctx context.Context, id int64) (*PaymentOrder, error)
	GetByPaymentLinkId(ctx context.Context, paymentLinkID string) (*PaymentOrder, error)
	SetPaymentLink(ctx context.Context, id int64, paymentLinkID string) error
	// Finalize performs the one-shot PENDING -> terminal transition. The
	// transition is applied with a compare-and-swap on status so concurrent
	// reconciliations cannot both win; the returned status is what ended up
	// stored, and applied reports whether this call performed the flip. A
	// SUCCESS transition also marks every linked order's payment COMPLETED
	// within the same transaction.
	Finalize(ctx context.Context, id int64, status PaymentOrderStatus) (final PaymentOrderStatus, applied bool, err error)
}
