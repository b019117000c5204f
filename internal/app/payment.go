package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

// ConfirmPaymentHandler is the Razorpay modal callback: the frontend posts
// the razorpay order id plus the payment id, and we reconcile against the
// provider's settlement record. Repeating the call after a terminal state is
// a no-op returning the stored outcome.
func (app *Application) ConfirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var input ConfirmPaymentRequest

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

	paymentOrder, err := app.payments.GetByPaymentLinkId(r.Context(), input.PaymentLinkId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	_, err = app.payments.Reconcile(r.Context(), paymentOrder, input.PaymentId)
	if err != nil {
		app.reconcileErrorResponse(w, r, paymentOrder, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toPaymentOrderResponse(paymentOrder), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) reconcileErrorResponse(w http.ResponseWriter, r *http.Request, po *domain.PaymentOrder, err error) {
	var gatewayErr *domain.GatewayError

	switch {
	case errors.As(err, &gatewayErr):
		app.badGatewayResponse(w, r, err)

	case errors.Is(err, domain.ErrAmountMismatch):
		app.editConflictResponseWithErr(w, r, err)

	case errors.Is(err, domain.ErrSettlementPending):
		// outcome not determined yet; the order stays PENDING and the client
		// should retry
		app.writeJSON(w, http.StatusAccepted, toPaymentOrderResponse(po), nil)

	default:
		app.serverErrorResponse(w, r, err)
	}
}

// StripeWebhookHandler reconciles payment orders from signed Stripe events.
// Transient failures are answered with a 5xx so Stripe redelivers the event.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 65536))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), app.config.Stripe.WebhookSecret)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid webhook signature"))
		return
	}

	if event.Type != "checkout.session.completed" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	paymentOrder, err := app.payments.GetByPaymentLinkId(r.Context(), session.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			// not one of ours; acknowledge so Stripe stops redelivering
			logger.Warn("webhook for unknown checkout session", "sessionId", session.ID)
			w.WriteHeader(http.StatusOK)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	captured, err := app.payments.Reconcile(r.Context(), paymentOrder, session.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAmountMismatch):
			// permanent; redelivery cannot fix a tampered amount, keep the
			// order PENDING for manual review and acknowledge the event
			logger.Error("settlement amount mismatch", "paymentOrderId", paymentOrder.ID, "error", err)
			w.WriteHeader(http.StatusOK)

		default:
			// gateway failure or undetermined settlement: let Stripe retry
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("reconciled payment order from stripe webhook",
		"paymentOrderId", paymentOrder.ID,
		"captured", captured,
	)

	w.WriteHeader(http.StatusOK)
}

// GetPaymentOrderHandler lets the frontend poll the reconciliation outcome
// after the customer returns from the provider.
func (app *Application) GetPaymentOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "paymentOrderId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	paymentOrder, err := app.payments.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if paymentOrder.UserID != app.contextGetUserId(r) {
		app.notFoundResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toPaymentOrderResponse(paymentOrder), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
