package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.Http.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.CORS)
	router.Use(app.RateLimiter)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/movies", func(r chi.Router) {
			r.Get("/home", app.homeMovies)
			r.Get("/genres/{genre}", app.moviesByGenre)
			r.Get("/search", app.searchMovie)
			r.Post("/filter", app.filterMovies)
			r.With(app.requireSession).Get("/{movie_id}", app.getMovie)
			r.Post("/{movie_id}/like", app.likeMovie)
		})
		r.Route("/payments", func(r chi.Router) {
			r.Use(app.requireSession)
			r.Post("/orders", app.createOrder)
			r.Post("/verify", app.verifyPayment)
		})
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/login", app.login)
			r.Post("/logout", app.logout)
			r.Group(func(r chi.Router) {
				r.Use(app.requireSession)
				r.Get("/me", app.me)
				r.Get("/profile", app.profile)
				r.Post("/wishlist", app.toggleWishlist)
			})
		})
		r.Post("/contact", app.submitContact)
	})
	return router
}
