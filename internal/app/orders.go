package app

import (
	"errors"
	"net/http"

	"github.com/zoshlabs/checkout-service/internal/domain"
)

func (app *Application) GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	orders, err := app.orderRepo.GetByUserId(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]OrderResponse, len(orders))
	for i, order := range orders {
		resp[i] = toOrderResponse(order)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "orderId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	order, err := app.orderRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if order.UserID != app.contextGetUserId(r) {
		app.notFoundResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toOrderResponse(*order), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetOrderItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "orderItemId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	item, err := app.orderRepo.GetItemById(r.Context(), id, app.contextGetUserId(r))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toOrderItemResponse(*item), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "orderId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	order, err := app.orderRepo.Cancel(r.Context(), id, userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toOrderResponse(*order), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
