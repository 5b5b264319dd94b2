package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/specia/specia-server/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "user", u), ANY package that knows the string
// "user" can read or shadow your value. Using a package-private type
// prevents collisions: only THIS package can create a key of type
// contextKey, so only this package can read or write the user value.
type contextKey string

const userKey contextKey = "user"

// UserResolver looks up the full user record for a verified token subject.
// The sqlite repository satisfies it; tests pass an in-memory fake.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Authenticate enforces authentication on protected routes.
//
// It reads the bearer token from the Authorization header, validates it,
// resolves the token's subject against the user store, and puts the
// resolved *model.User in the request context. The chain stops with 401 when:
//   - no bearer token is present        → "authentication required"
//   - the token is past its expiry      → "token expired, please log in again"
//   - the signature is bad or malformed → "invalid token"
//   - the subject no longer resolves    → "user not found"
//
// The expired/invalid split is deliberate: clients show a re-login prompt
// for the first and a hard rejection for the second. Both carry 401.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler wrapping it. Chi applies middlewares in a chain:
// req → M1 → M2 → Handler → M2 → M1 → resp
func Authenticate(tokens *TokenService, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				writeUnauthorized(w, "authentication required")
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					writeUnauthorized(w, "token expired, please log in again")
					return
				}
				writeUnauthorized(w, "invalid token")
				return
			}

			// The token may outlive the account. A deleted user's tokens keep
			// verifying for up to 7 days, so the store lookup is the final gate.
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				writeUnauthorized(w, "user not found")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to users carrying the given role. It must run
// after Authenticate — with no user in the context the request is rejected
// outright.
//
// The check delegates to Role.Is so that adding a third role changes the
// model, not every route registration.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "authentication required")
				return
			}
			if !user.Role.Is(role) {
				writeForbidden(w, fmt.Sprintf("%s access required", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext retrieves the authenticated user from the request context.
//
// Returns (nil, false) if the request did not pass through Authenticate.
//
// Usage in handlers:
//
//	user, ok := auth.UserFromContext(r.Context())
//	if !ok {
//	    // route was misregistered without Authenticate — treat as a bug
//	}
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// envelope mirrors the failure shape the handler package writes. The
// middleware cannot import handler (handler imports auth), so the two small
// writers below duplicate it.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeAuthError(w, http.StatusUnauthorized, message)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeAuthError(w, http.StatusForbidden, message)
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}
