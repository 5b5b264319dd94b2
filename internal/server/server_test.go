package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specia/specia-server/internal/config"
	"github.com/specia/specia-server/internal/server"
)

// These tests drive the fully wired router over httptest: real middleware,
// real handlers, real services, in-memory SQLite. They check the seams the
// package-level tests cannot — routing, auth gating, and the response
// envelope as clients actually see it.

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := config.Config{
		Port:        0,
		BaseURL:     "http://localhost:5000",
		DBPath:      ":memory:",
		JWTSecret:   "test-secret-at-least-16-chars!!",
		FrontendURL: "http://localhost:5500",
	}

	srv, err := server.New(cfg, logger)
	require.NoError(t, err)
	return srv.Router()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env envelope
	if strings.Contains(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

// registerUser signs up a fresh account and returns its bearer token.
func registerUser(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	rr, env := do(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Kim",
		"email":    email,
		"password": "abcd1234",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestHealth(t *testing.T) {
	router := newTestServer(t)

	rr, env := do(t, router, http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
	var data struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ok", data.Status)
	assert.NotEmpty(t, data.Timestamp)
}

func TestAuthFlow(t *testing.T) {
	router := newTestServer(t)

	token := registerUser(t, router, "kim@example.com")

	t.Run("me with token", func(t *testing.T) {
		rr, env := do(t, router, http.MethodGet, "/api/auth/me", token, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var user struct {
			Email string `json:"email"`
			Role  string `json:"userType"` // wire name, not the Go field name
		}
		require.NoError(t, json.Unmarshal(env.Data, &user))
		assert.Equal(t, "kim@example.com", user.Email)
		assert.Equal(t, "user", user.Role)
		// The role must go out under the key the clients already bind to.
		assert.Contains(t, string(env.Data), `"userType"`)
		assert.NotContains(t, string(env.Data), `"passwordHash"`)
	})

	t.Run("me without token", func(t *testing.T) {
		rr, env := do(t, router, http.MethodGet, "/api/auth/me", "", nil)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, env.Success)
	})

	t.Run("login round trip", func(t *testing.T) {
		rr, _ := do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "KIM@example.com", // case must not matter
			"password": "abcd1234",
		})
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})

	t.Run("login wrong password", func(t *testing.T) {
		rr, env := do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "kim@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, env.Success)
	})

	t.Run("check email", func(t *testing.T) {
		rr, env := do(t, router, http.MethodGet, "/api/auth/check-email?email=new@example.com", "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"available":true}`, string(env.Data))
	})
}

func TestAdminRoutes_GatedByRole(t *testing.T) {
	router := newTestServer(t)
	token := registerUser(t, router, "member@example.com")

	t.Run("anonymous gets 401", func(t *testing.T) {
		rr, _ := do(t, router, http.MethodGet, "/api/admin/users/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("member gets 403", func(t *testing.T) {
		rr, env := do(t, router, http.MethodGet, "/api/admin/users/", token, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "admin access required", env.Message)
	})

	t.Run("inquiry listing is admin only", func(t *testing.T) {
		rr, _ := do(t, router, http.MethodGet, "/api/contact", token, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestContactSubmission_IsPublic(t *testing.T) {
	router := newTestServer(t)

	rr, env := do(t, router, http.MethodPost, "/api/contact", "", map[string]string{
		"name":    "Park",
		"email":   "park@example.com",
		"subject": "Quote",
		"message": "Please send a quote.",
	})

	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.True(t, env.Success)
}

func TestPublicContent(t *testing.T) {
	router := newTestServer(t)

	t.Run("catalog falls back to defaults", func(t *testing.T) {
		rr, env := do(t, router, http.MethodGet, "/api/services", "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var items []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Len(t, items, 3)
	})

	t.Run("company profile unset", func(t *testing.T) {
		rr, env := do(t, router, http.MethodGet, "/api/company", "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, env.Success)
	})
}

func TestMyPageFlow(t *testing.T) {
	router := newTestServer(t)
	token := registerUser(t, router, "owner@example.com")

	rr, _ := do(t, router, http.MethodPost, "/api/mypage/services", token, map[string]any{
		"serviceType":  "general",
		"contractDate": "2026-03-15",
		"companyName":  "Acme Corp",
		"totalAmount":  1200.0,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	t.Run("list shows the new record", func(t *testing.T) {
		rr, env := do(t, router, http.MethodGet, "/api/mypage/services/general", token, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var data struct {
			Items []struct {
				CompanyName string `json:"companyName"`
			} `json:"items"`
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.Len(t, data.Items, 1)
		assert.Equal(t, "Acme Corp", data.Items[0].CompanyName)
		assert.Equal(t, 1, data.Pagination.Total)
	})

	t.Run("counts", func(t *testing.T) {
		rr, env := do(t, router, http.MethodGet, "/api/mypage/services/counts", token, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"general":1,"subscription":0,"dc":0}`, string(env.Data))
	})

	t.Run("another account sees nothing", func(t *testing.T) {
		other := registerUser(t, router, "other@example.com")
		rr, env := do(t, router, http.MethodGet, "/api/mypage/services/general", other, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var data struct {
			Items []any `json:"items"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Empty(t, data.Items)
	})
}

func TestSocialLogin_UnconfiguredRedirects(t *testing.T) {
	router := newTestServer(t)

	rr, _ := do(t, router, http.MethodGet, "/api/auth/kakao", "", nil)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "error=kakao_not_configured")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestServer(t)

	// Generate at least one labelled observation before scraping.
	do(t, router, http.MethodGet, "/api/health", "", nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "specia_http_requests_total")
}
