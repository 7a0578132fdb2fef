package main

import (
	"cinevault/proj/internal/services/auth"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireSession(t *testing.T) {
	app, _ := NewTestApplication(t, nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromCtx(r)
		w.Write([]byte(claims.Email))
	})
	handler := app.requireSession(next)

	t.Run("authenticated", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/", "", sessionCookie(t, app, "neo@matrix.io", "neo"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "neo@matrix.io", rec.Body.String())
	})
	tests := []struct {
		name    string
		cookies []*http.Cookie
		wantMsg string
	}{
		{"no cookies", nil, auth.MsgNoCookies},
		{"no jwt cookie", []*http.Cookie{{Name: "theme", Value: "dark"}}, auth.MsgNoToken},
		{"bad token", []*http.Cookie{{Name: auth.CookieName, Value: "not-a-token"}}, auth.MsgInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, handler, http.MethodGet, "/", "", tt.cookies...)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestCORS(t *testing.T) {
	app, _ := NewTestApplication(t, nil)
	router := app.routes()

	rec := doRequest(t, router, http.MethodOptions, "/api/v1/accounts/login", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))

	rec = doRequest(t, router, http.MethodGet, "/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	cfg := testConfig()
	cfg.Limiter.Enabled = true
	app, _ := NewTestApplication(t, cfg)
	handler := app.RateLimiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.9:4000"
	third := httptest.NewRecorder()
	handler.ServeHTTP(third, other)
	assert.Equal(t, http.StatusOK, third.Code)
}

func TestRecoverer(t *testing.T) {
	app, _ := NewTestApplication(t, nil)
	handler := app.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)
}
