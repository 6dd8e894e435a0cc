// Package auth guards the serving surface. Two credentials are accepted:
// a static API key in a configurable header, or an HS256 bearer token.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Name string `json:"name,omitempty"`

	jwt.RegisteredClaims
}

// Authenticator holds the accepted credentials. An empty APIKey and nil
// JWTSecret means auth is disabled and every request passes.
type Authenticator struct {
	APIKey    string
	APIHeader string
	JWTSecret []byte
}

// Enabled reports whether any credential is configured.
func (a Authenticator) Enabled() bool {
	return a.APIKey != "" || len(a.JWTSecret) > 0
}

// VerifyJWT checks an HS256 token against the configured secret.
func (a Authenticator) VerifyJWT(token string) (Claims, error) {
	if len(a.JWTSecret) == 0 {
		return Claims{}, errors.New("jwt auth not configured")
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return a.JWTSecret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return *c, nil
}

// allow checks the request's credentials: API key header first, then a
// bearer token treated as either the raw API key or a JWT.
func (a Authenticator) allow(r *http.Request) bool {
	if !a.Enabled() {
		return true
	}

	header := a.APIHeader
	if header == "" {
		header = "X-API-Key"
	}
	key := strings.TrimSpace(r.Header.Get(header))
	bearer := ""
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		bearer = strings.TrimSpace(authz[7:])
	}

	if a.APIKey != "" {
		if key == "" {
			key = bearer
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.APIKey)) == 1 {
			return true
		}
	}
	if len(a.JWTSecret) > 0 && bearer != "" {
		if _, err := a.VerifyJWT(bearer); err == nil {
			return true
		}
	}
	return false
}

// Middleware rejects unauthenticated requests with a JSON 401.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.allow(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
