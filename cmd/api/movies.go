package main

import (
	"bytes"
	"cinevault/proj/internal/domain/filters"
	"cinevault/proj/internal/services/movies"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *Application) homeMovies(w http.ResponseWriter, r *http.Request) {
	home, err := app.movies.Home(r.Context())
	if err != nil {
		app.Http.ServerError(w, r, err, "Error fetching movie data")
		return
	}
	data := make(envelop, len(home))
	for key, list := range home {
		data[key] = list
	}
	app.Http.Ok(w, r, data, "")
}

func (app *Application) moviesByGenre(w http.ResponseWriter, r *http.Request) {
	query := struct {
		FetchLimit  int `schema:"fetch_limit" json:"fetch_limit" validate:"min=1,max=100"`
		ReturnLimit int `schema:"return_limit" json:"return_limit" validate:"min=1,max=100"`
	}{
		FetchLimit:  movies.HomeFetchLimit,
		ReturnLimit: movies.HomeReturnLimit,
	}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	list, err := app.movies.ByGenre(r.Context(), chi.URLParam(r, "genre"), query.FetchLimit, query.ReturnLimit)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": list}, "")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromCtx(r)
	movie, err := app.movies.Get(r.Context(), chi.URLParam(r, "movie_id"), claims.Email)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

func (app *Application) likeMovie(w http.ResponseWriter, r *http.Request) {
	likes, err := app.movies.Like(r.Context(), chi.URLParam(r, "movie_id"))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"likes": likes}, "")
}

func (app *Application) searchMovie(w http.ResponseWriter, r *http.Request) {
	var query struct {
		Title string `schema:"title" json:"title" validate:"required,notblank" errorMsg:"Title is required"`
	}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	id, err := app.movies.Search(r.Context(), query.Title)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie_id": id}, "")
}

// filterValue accepts either a JSON string or a number, so {"value": 2023} and {"value": "2023"} are equal.
type filterValue string

func (v *filterValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = filterValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = filterValue(n.String())
	return nil
}

func (app *Application) filterMovies(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Type  string      `json:"type"`
		Value filterValue `json:"value"`
	}
	if !app.decodeBody(w, r, &input) {
		return
	}
	list, err := app.movies.Filter(r.Context(), filters.ParseKind(input.Type), string(input.Value))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movies": list}, "")
}
