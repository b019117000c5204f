package app

import (
	"time"

	"github.com/zoshlabs/checkout-service/internal/domain"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type AddressRequest struct {
	Name          string `json:"name" validate:"required"`
	StreetAddress string `json:"streetAddress" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	PinCode       string `json:"pinCode" validate:"required,pincode"`
	Mobile        string `json:"mobile" validate:"required"`
}

type CreateOrderRequest struct {
	ShippingAddress AddressRequest `json:"shippingAddress" validate:"required"`
}

// RazorpayOrderResponse carries everything the frontend modal needs to let
// the customer complete the payment.
type RazorpayOrderResponse struct {
	RazorpayOrderId        string `json:"razorpayOrderId"`
	Amount                 int64  `json:"amount"`
	Currency               string `json:"currency"`
	InternalPaymentOrderId int64  `json:"internalPaymentOrderId"`
	RazorpayKey            string `json:"razorpayKey"`
}

type PaymentLinkResponse struct {
	PaymentLinkUrl string `json:"payment_link_url"`
}

type ConfirmPaymentRequest struct {
	PaymentLinkId string `json:"paymentLinkId" validate:"required"`
	PaymentId     string `json:"paymentId" validate:"required"`
}

type PaymentOrderResponse struct {
	PaymentOrderId int64   `json:"paymentOrderId"`
	Status         string  `json:"status"`
	Amount         string  `json:"amount"`
	Currency       string  `json:"currency"`
	OrderIds       []int64 `json:"orderIds,omitempty"`
}

type OrderItemResponse struct {
	ProductId    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	SellingPrice string `json:"sellingPrice"`
}

type OrderResponse struct {
	Id                int64               `json:"id"`
	SellerId          int64               `json:"sellerId"`
	TotalSellingPrice string              `json:"totalSellingPrice"`
	PaymentStatus     string              `json:"paymentStatus"`
	OrderStatus       string              `json:"orderStatus"`
	Items             []OrderItemResponse `json:"items,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

func toOrderResponse(order domain.Order) OrderResponse {
	resp := OrderResponse{
		Id:                order.ID,
		SellerId:          order.SellerID,
		TotalSellingPrice: order.TotalSellingPrice.StringFixed(2),
		PaymentStatus:     string(order.PaymentStatus),
		OrderStatus:       string(order.OrderStatus),
		CreatedAt:         order.CreatedAt,
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, toOrderItemResponse(item))
	}

	return resp
}

func toOrderItemResponse(item domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ProductId:    item.ProductID,
		ProductName:  item.ProductName,
		Quantity:     item.Quantity,
		SellingPrice: item.SellingPrice.StringFixed(2),
	}
}

func toPaymentOrderResponse(po *domain.PaymentOrder) PaymentOrderResponse {
	return PaymentOrderResponse{
		PaymentOrderId: po.ID,
		Status:         string(po.Status),
		Amount:         po.Amount.StringFixed(2),
		Currency:       po.Currency,
		OrderIds:       po.OrderIDs,
	}
}
