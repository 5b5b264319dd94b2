package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/specia/specia-server/internal/auth"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/service"
)

// AuthHandler serves signup, login, and the social-login redirects.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister   → create an account, return user + token
//   - HandleLogin      → verify credentials, return user + token
//   - HandleCheckEmail → tell the signup form whether an email is taken
//   - HandleMe         → return the authenticated user's own profile
//   - HandleSocialLogin → redirect the browser to the provider's consent page
//
// The social callbacks are handled by the frontend: the provider redirects
// there with the authorization code, so the only server-side piece is
// building the consent URL with a state value.
type AuthHandler struct {
	auths       *service.AuthService
	providers   map[model.SocialProvider]*auth.SocialProvider
	frontendURL string
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(
	auths *service.AuthService,
	providers []*auth.SocialProvider,
	frontendURL string,
	logger *slog.Logger,
) *AuthHandler {
	byName := make(map[model.SocialProvider]*auth.SocialProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &AuthHandler{
		auths:       auths,
		providers:   byName,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// registerRequest is the signup payload.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
//
// A token is issued immediately so the frontend can log the user in
// without a second round trip.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.Register(r.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, result, "registration complete")
}

// loginRequest is the login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and returns the user with a fresh token.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, result, "login successful")
}

// HandleCheckEmail tells the signup form whether an email is still free.
//
// HTTP: GET /api/auth/check-email?email=...
func (h *AuthHandler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	available, err := h.auths.CheckEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]bool{"available": available})
}

// HandleMe returns the authenticated user's own profile. The middleware
// already loaded the user into the context, so there is nothing to look up.
//
// HTTP: GET /api/auth/me (authenticated)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Unreachable behind the middleware, but don't panic if misrouted.
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "authentication required"})
		return
	}

	writeData(w, http.StatusOK, user)
}

// HandleSocialLogin redirects the browser to the provider's consent page.
//
// HTTP: GET /api/auth/{provider}  (provider ∈ kakao, naver, google)
//
// A provider with no configured client id redirects back to the login page
// with an error query instead of failing with a 500 — the public site stays
// usable even when only some providers are set up.
func (h *AuthHandler) HandleSocialLogin(provider model.SocialProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.providers[provider]
		if !ok || !p.Available() {
			h.logger.Warn("social provider not configured", slog.String("provider", string(provider)))
			http.Redirect(w, r,
				h.frontendURL+"/login.html?error="+string(provider)+"_not_configured",
				http.StatusTemporaryRedirect)
			return
		}

		// Random, unguessable state value; the frontend callback verifies it.
		state := xid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     "oauth_state",
			Value:    state,
			Path:     "/",
			MaxAge:   600, // 10 minutes
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, p.AuthURL(state), http.StatusTemporaryRedirect)
	}
}
