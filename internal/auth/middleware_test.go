package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/specia/specia-server/internal/model"
)

// fakeResolver backs the middleware with an in-memory user set.
type fakeResolver struct {
	users map[string]*model.User
}

func (f *fakeResolver) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("no such user")
	}
	return u, nil
}

// okHandler records that it ran and echoes the context user's ID.
func okHandler(t *testing.T, ran *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("no user in context inside protected handler")
			return
		}
		w.Write([]byte(user.ID))
	})
}

func newMiddlewareFixture(t *testing.T) (*TokenService, *fakeResolver) {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	resolver := &fakeResolver{users: map[string]*model.User{
		"user-1":  {ID: "user-1", Name: "Kim", Role: model.RoleUser},
		"admin-1": {ID: "admin-1", Name: "Boss", Role: model.RoleAdmin},
	}}
	return ts, resolver
}

// do runs a GET with the given Authorization header through the handler.
func do(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Success {
		t.Error("error response has success=true")
	}
	return body.Message
}

// =========================================================================
// Authenticate TESTS
// =========================================================================

func TestAuthenticate_ValidToken(t *testing.T) {
	ts, resolver := newMiddlewareFixture(t)
	ran := false
	h := Authenticate(ts, resolver)(okHandler(t, &ran))

	token, _ := ts.Generate("user-1")
	rec := do(h, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body)
	}
	if !ran {
		t.Error("protected handler never ran")
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("context user = %q, want user-1", rec.Body.String())
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	ts, resolver := newMiddlewareFixture(t)
	ran := false
	h := Authenticate(ts, resolver)(okHandler(t, &ran))

	rec := do(h, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ran {
		t.Error("protected handler ran without a token")
	}
	if msg := decodeMessage(t, rec); msg != "authentication required" {
		t.Errorf("message = %q", msg)
	}
}

func TestAuthenticate_NonBearerScheme(t *testing.T) {
	ts, resolver := newMiddlewareFixture(t)
	ran := false
	h := Authenticate(ts, resolver)(okHandler(t, &ran))

	rec := do(h, "Basic dXNlcjpwYXNz")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	ts, resolver := newMiddlewareFixture(t)
	ran := false
	h := Authenticate(ts, resolver)(okHandler(t, &ran))

	token, _ := ts.GenerateWithDuration("user-1", -1*time.Minute)
	rec := do(h, "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "token expired, please log in again" {
		t.Errorf("message = %q, want the expired-specific message", msg)
	}
}

func TestAuthenticate_TamperedToken(t *testing.T) {
	ts, resolver := newMiddlewareFixture(t)
	ran := false
	h := Authenticate(ts, resolver)(okHandler(t, &ran))

	token, _ := ts.Generate("user-1")
	rec := do(h, "Bearer "+token[:len(token)-3]+"xxx")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "invalid token" {
		t.Errorf("message = %q, want %q", msg, "invalid token")
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	ts, resolver := newMiddlewareFixture(t)
	ran := false
	h := Authenticate(ts, resolver)(okHandler(t, &ran))

	// A token for an account that no longer exists: verification passes,
	// the store lookup is the final gate.
	token, _ := ts.Generate("deleted-user")
	rec := do(h, "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ran {
		t.Error("handler ran for a deleted user")
	}
}

// =========================================================================
// RequireRole TESTS
// =========================================================================

func TestRequireRole_AdminPasses(t *testing.T) {
	ts, resolver := newMiddlewareFixture(t)
	ran := false
	h := Authenticate(ts, resolver)(RequireRole(model.RoleAdmin)(okHandler(t, &ran)))

	token, _ := ts.Generate("admin-1")
	rec := do(h, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ran {
		t.Error("admin was blocked from an admin route")
	}
}

func TestRequireRole_MemberGetsForbidden(t *testing.T) {
	ts, resolver := newMiddlewareFixture(t)
	ran := false
	h := Authenticate(ts, resolver)(RequireRole(model.RoleAdmin)(okHandler(t, &ran)))

	token, _ := ts.Generate("user-1")
	rec := do(h, "Bearer "+token)

	// Authenticated but not authorised: 403, not 401.
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if ran {
		t.Error("member reached an admin route")
	}
	if msg := decodeMessage(t, rec); msg != "admin access required" {
		t.Errorf("message = %q", msg)
	}
}

func TestRequireRole_MessageNamesTheRequiredRole(t *testing.T) {
	ts, resolver := newMiddlewareFixture(t)
	ran := false
	// Gate on the member role: the admin fails the exact-match check, and
	// the rejection must name the role the gate wanted, not assume admin.
	h := Authenticate(ts, resolver)(RequireRole(model.RoleUser)(okHandler(t, &ran)))

	token, _ := ts.Generate("admin-1")
	rec := do(h, "Bearer "+token)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "user access required" {
		t.Errorf("message = %q, want %q", msg, "user access required")
	}
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	ran := false
	h := RequireRole(model.RoleAdmin)(okHandler(t, &ran))

	rec := do(h, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ran {
		t.Error("handler ran with no authenticated user")
	}
}
