package domain

import "errors"

var (
	ErrRecordNotFound           = errors.New("record not found")
	ErrCartNotFound             = errors.New("cart not found or has expired")
	ErrEmptyOrderSet            = errors.New("payment order requires at least one order")
	ErrInvalidAmount            = errors.New("payment order amount must be greater than zero")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrAmountMismatch           = errors.New("settled amount does not match the payment order amount")
	ErrSettlementPending        = errors.New("settlement outcome is not determined yet")
	ErrEditConflict             = errors.New("edit conflict")
)
