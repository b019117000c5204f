package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/zoshlabs/checkout-service/internal/domain"
)

// CreateOrderHandler turns the user's cart into orders, aggregates them into
// a payment order and asks the requested provider for a payment artifact. The
// response shape depends on the provider: Razorpay returns the data the
// frontend modal needs, Stripe returns a hosted checkout URL.
func (app *Application) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	paymentMethod := domain.PaymentMethod(r.URL.Query().Get("paymentMethod"))
	if !paymentMethod.Valid() {
		app.badRequestResponse(w, r, fmt.Errorf("%w: %q", domain.ErrUnsupportedPaymentMethod, paymentMethod))
		return
	}

	var input CreateOrderRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)
	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	cart, err := app.cartRepo.GetByUserId(r.Context(), userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCartNotFound):
			app.notFoundResponseWithErr(w, r, fmt.Errorf("there is no cart for the current user"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	address := domain.Address{
		Name:          input.ShippingAddress.Name,
		StreetAddress: input.ShippingAddress.StreetAddress,
		City:          input.ShippingAddress.City,
		State:         input.ShippingAddress.State,
		PinCode:       input.ShippingAddress.PinCode,
		Mobile:        input.ShippingAddress.Mobile,
	}

	orders, err := app.orderRepo.CreateFromCart(r.Context(), userId, address, *cart)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	paymentOrder, err := app.payments.CreatePaymentOrder(r.Context(), user, orders, cart, paymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyOrderSet):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	switch paymentMethod {
	case domain.PaymentMethodRazorpay:
		app.createRazorpayOrder(w, r, user, paymentOrder)
	case domain.PaymentMethodStripe:
		app.createStripeCheckout(w, r, user, paymentOrder)
	}
}

// clearCart runs only once the gateway artifact exists; a gateway failure
// must leave the cart in place so the user can retry the checkout.
func (app *Application) clearCart(r *http.Request, userId int64) {
	if err := app.cartRepo.Delete(r.Context(), userId); err != nil {
		// checkout already succeeded; a stale cart is recoverable
		app.contextGetLogger(r).Warn("failed to clear cart after checkout", "error", err)
	}
}

func (app *Application) createRazorpayOrder(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
	paymentOrder *domain.PaymentOrder,
) {
	if !paymentOrder.Amount.IsPositive() {
		app.badRequestResponse(w, r, domain.ErrInvalidAmount)
		return
	}

	gw, err := app.payments.Gateway(domain.PaymentMethodRazorpay)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	intent, err := gw.CreateIntent(r.Context(), domain.IntentRequest{
		Amount:        paymentOrder.Amount,
		Currency:      paymentOrder.Currency,
		Receipt:       strconv.FormatInt(paymentOrder.ID, 10),
		CustomerEmail: user.Email,
	})
	if err != nil {
		app.badGatewayResponse(w, r, err)
		return
	}

	err = app.payments.AttachPaymentLink(r.Context(), paymentOrder, intent.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.clearCart(r, user.ID)

	resp := RazorpayOrderResponse{
		RazorpayOrderId:        intent.ID,
		Amount:                 intent.Amount,
		Currency:               intent.Currency,
		InternalPaymentOrderId: paymentOrder.ID,
		RazorpayKey:            app.config.Razorpay.KeyID,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) createStripeCheckout(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
	paymentOrder *domain.PaymentOrder,
) {
	gw, err := app.payments.Gateway(domain.PaymentMethodStripe)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	intent, err := gw.CreateIntent(r.Context(), domain.IntentRequest{
		Amount:        paymentOrder.Amount,
		Currency:      paymentOrder.Currency,
		Receipt:       strconv.FormatInt(paymentOrder.ID, 10),
		Description:   fmt.Sprintf("Zosh Bazaar order #%d", paymentOrder.ID),
		CustomerEmail: user.Email,
		SuccessURL:    fmt.Sprintf("%s/%d", app.config.Stripe.SuccessURL, paymentOrder.ID),
		CancelURL:     app.config.Stripe.CancelURL,
	})
	if err != nil {
		app.badGatewayResponse(w, r, err)
		return
	}

	// the session id is what the webhook hands back, keep it as the reverse
	// lookup key
	err = app.payments.AttachPaymentLink(r.Context(), paymentOrder, intent.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.clearCart(r, user.ID)

	resp := PaymentLinkResponse{
		PaymentLinkUrl: intent.RedirectURL,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
