package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the session token.
const CookieName = "jwt"

const (
	MsgNoCookies    = "Unauthorized: No cookies present"
	MsgNoToken      = "Unauthorized: JWT not found in cookies"
	MsgInvalidToken = "Unauthorized: Invalid or expired token"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the session token payload.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	log    *slog.Logger
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(log *slog.Logger, secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		log:    log,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed token for the user and the moment it expires.
func (m *TokenManager) Issue(email, username string) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)
	claims := &Claims{
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Result is the outcome of authenticating a request. Failures carry a
// client-facing reason in Message and never an error.
type Result struct {
	Authorized bool
	Message    string
	Claims     *Claims
}

// Authenticate extracts the session token from a raw Cookie header and verifies it.
func (m *TokenManager) Authenticate(cookieHeader string) Result {
	const op = "auth.TokenManager.Authenticate"
	if cookieHeader == "" {
		return Result{Message: MsgNoCookies}
	}
	req := http.Request{Header: http.Header{"Cookie": {cookieHeader}}}
	cookie, err := req.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Result{Message: MsgNoToken}
	}
	claims, err := m.Verify(cookie.Value)
	if err != nil {
		m.log.Warn("token verification failed", "op", op, "errMsg", err.Error())
		return Result{Message: MsgInvalidToken}
	}
	return Result{Authorized: true, Claims: claims}
}
