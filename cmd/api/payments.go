package main

import (
	"cinevault/proj/internal/services/payments"
	"net/http"

	"github.com/go-chi/render"
)

func (app *Application) createOrder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MovieID string `json:"movie_id" validate:"required,notblank" errorMsg:"Movie ID is required"`
	}
	if !app.decodeBody(w, r, &input) {
		return
	}
	claims := claimsFromCtx(r)
	order, err := app.payments.CreateOrder(r.Context(), input.MovieID, claims.Email)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{
		"order_id": order.OrderID,
		"amount":   order.Amount,
		"key":      order.Key,
	}, "")
}

func (app *Application) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var input struct {
		OrderID   string `json:"razorpay_order_id" validate:"required,notblank"`
		PaymentID string `json:"razorpay_payment_id" validate:"required,notblank"`
		Signature string `json:"razorpay_signature" validate:"required,notblank"`
		MovieID   string `json:"movie_id" validate:"required,notblank"`
	}
	if !app.decodeBody(w, r, &input) {
		return
	}
	claims := claimsFromCtx(r)
	mediaURL, err := app.payments.Verify(r.Context(), payments.VerifyParams{
		OrderID:   input.OrderID,
		PaymentID: input.PaymentID,
		Signature: input.Signature,
		MovieID:   input.MovieID,
	}, claims.Email)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	// Checkout clients read the link from message.
	render.Status(r, http.StatusOK)
	render.JSON(w, r, Response{Success: true, Message: mediaURL, Data: envelop{"media_url": mediaURL}})
}
