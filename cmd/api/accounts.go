package main

import (
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/services/accounts"
	"net/http"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username    string   `json:"username" validate:"required,notblank"`
		Email       string   `json:"email" validate:"required,email"`
		Password    string   `json:"password" validate:"required,notblank"`
		PhoneNumber string   `json:"phone_number" validate:"required,notblank"`
		Genres      []string `json:"genres" validate:"required,min=1" errorMsg:"Select at least one genre"`
	}
	if !app.decodeBody(w, r, &input) {
		return
	}
	err := app.accounts.Signup(r.Context(), accounts.SignupParams{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		PhoneNumber: input.PhoneNumber,
		Genres:      input.Genres,
	})
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, nil, "User registered successfully")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required,notblank"`
		Password string `json:"password" validate:"required,notblank"`
	}
	if !app.decodeBody(w, r, &input) {
		return
	}
	session, err := app.accounts.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	setSessionCookie(w, session.Token, session.ExpiresAt)
	app.Http.Ok(w, r, envelop{"username": session.Username, "email": session.Email}, "Login successful")
}

func (app *Application) logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	app.Http.Ok(w, r, nil, "Logged out successfully")
}

func (app *Application) me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromCtx(r)
	if err := app.accounts.Me(r.Context(), claims.Email); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"username": claims.Username, "email": claims.Email}, "")
}

func (app *Application) profile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromCtx(r)
	profile, err := app.accounts.Profile(r.Context(), claims.Email)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": profile}, "")
}

func (app *Application) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MovieID   string `json:"movie_id" validate:"required,notblank"`
		PosterURL string `json:"poster_url" validate:"required,notblank"`
		Title     string `json:"title" validate:"required,notblank"`
	}
	if !app.decodeBody(w, r, &input) {
		return
	}
	claims := claimsFromCtx(r)
	wishlist, err := app.accounts.ToggleWishlist(r.Context(), claims.Email, models.WishlistItem{
		MovieID:   input.MovieID,
		PosterURL: input.PosterURL,
		Title:     input.Title,
	})
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"wishlist": wishlist}, "Wishlist updated")
}
