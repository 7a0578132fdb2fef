package main

import (
	"cinevault/proj/internal/lib/validator"
	"cinevault/proj/internal/services/accounts"
	"cinevault/proj/internal/services/movies"
	"cinevault/proj/internal/services/payments"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}

// decodeBody reads a JSON body into dst and validates it, answering 400 itself on failure.
func (app *Application) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.readJSON(w, r, dst); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	return app.validate(w, r, dst)
}

// decodeQuery fills dst from the query string and validates it, answering 400 itself on failure.
func (app *Application) decodeQuery(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, "invalid query parameters: "+err.Error())
		return false
	}
	return app.validate(w, r, dst)
}

func (app *Application) validate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if errs := validator.ValidateStruct(app.validator, dst); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return false
	}
	return true
}

// handleServiceError maps service sentinels to responses; anything unknown is a server error.
func (app *Application) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, movies.ErrMovieNotFound), errors.Is(err, payments.ErrMovieNotFound):
		app.Http.NotFound(w, r, "Movie not found")
	case errors.Is(err, accounts.ErrUserNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, accounts.ErrInvalidCredentials):
		app.Http.Unauthorized(w, r, err.Error())
	case errors.Is(err, accounts.ErrUserAlreadyExists),
		errors.Is(err, accounts.ErrEditConflict),
		errors.Is(err, payments.ErrPaymentAlreadyProcessed):
		app.Http.Conflict(w, r, err.Error())
	case errors.Is(err, movies.ErrInvalidYear),
		errors.Is(err, payments.ErrFreeMovie),
		errors.Is(err, payments.ErrVerificationFailed):
		app.Http.BadRequest(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
