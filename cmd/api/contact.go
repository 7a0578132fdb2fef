package main

import (
	"cinevault/proj/internal/services/contact"
	"net/http"
)

func (app *Application) submitContact(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name    string `json:"name" validate:"required,notblank"`
		Email   string `json:"email" validate:"required,email"`
		Subject string `json:"subject" validate:"required,notblank"`
		Message string `json:"message" validate:"required,notblank"`
	}
	if !app.decodeBody(w, r, &input) {
		return
	}
	id, err := app.contact.Submit(r.Context(), contact.SubmitParams{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	})
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"submissionID": id}, "Form submitted successfully")
}
