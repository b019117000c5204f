package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is owned by the cart subsystem; checkout only reads it. It lives in
// Redis as a JSON blob keyed by the owning user.
type Cart struct {
	Id          string `json:"-"`
	UserID      int64
	Items       []CartItem
	CouponCode  string
	CouponPrice decimal.Decimal
}

type CartItem struct {
	ProductID    int64
	ProductName  string
	SellerID     int64
	Quantity     int
	MrpPrice     decimal.Decimal
	SellingPrice decimal.Decimal
}

func NewCart(userID int64, items []CartItem) Cart {
	return Cart{
		Id:     uuid.New().String(),
		UserID: userID,
		Items:  items,
	}
}

// TotalSellingPrice is the pre-coupon aggregate over all items.
func (c Cart) TotalSellingPrice() decimal.Decimal {
	total := decimal.Zero

	for _, item := range c.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		total = total.Add(item.SellingPrice.Mul(qty))
	}

	return total
}

type CartRepository interface {
	GetByUserId(ctx context.Context, userID int64) (*Cart, error)
	Set(ctx context.Context, cart Cart) error
	Delete(ctx context.Context, userID int64) error
}
