package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/homies-events/server/internal/api/middleware"
	"github.com/homies-events/server/internal/api/problem"
	"github.com/homies-events/server/internal/auth"
	"github.com/homies-events/server/internal/domain/users"
	"github.com/homies-events/server/internal/metrics"
	"github.com/rs/zerolog"
)

// AuthHandler serves the login page and issues session tokens for both the
// HTML UI (HttpOnly cookie) and the JSON API (bearer token).
type AuthHandler struct {
	Users      *users.Service
	Sessions   *auth.SessionManager
	Templates  *template.Template
	CookieName string
	Env        string
}

func NewAuthHandler(userService *users.Service, sessions *auth.SessionManager, templates *template.Template, cookieName, env string) *AuthHandler {
	return &AuthHandler{
		Users:      userService,
		Sessions:   sessions,
		Templates:  templates,
		CookieName: cookieName,
		Env:        env,
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already authenticated users go straight to the listing
	if cookie, err := r.Cookie(h.CookieName); err == nil && cookie.Value != "" {
		if _, err := h.Sessions.Validate(cookie.Value); err == nil {
			http.Redirect(w, r, "/events", http.StatusFound)
			return
		}
	}

	h.renderLogin(w, r, http.StatusOK, "", "")
}

// Login handles POST /login (HTML form submit)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "", "Could not read the submitted form.")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	user, err := h.Users.Authenticate(r.Context(), username, password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, users.ErrInvalidCredentials) {
			h.renderLogin(w, r, http.StatusUnauthorized, username, "Invalid username or password.")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("login failed")
		h.renderLogin(w, r, http.StatusInternalServerError, username, "Something went wrong. Please try again.")
		return
	}

	token, err := h.Sessions.Generate(user.ID, user.Username)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("token generation failed")
		h.renderLogin(w, r, http.StatusInternalServerError, username, "Something went wrong. Please try again.")
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.setSessionCookie(w, r, token, time.Now().Add(h.Sessions.Expiry()))
	http.Redirect(w, r, "/events", http.StatusFound)
}

// Logout handles POST /logout and GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expires_at"`
	User      userInfo `json:"user"`
}

type userInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// APILogin handles POST /api/v1/login
func (h *AuthHandler) APILogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://homies.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	if req.Username == "" || req.Password == "" {
		problem.Write(w, r, http.StatusBadRequest, "https://homies.events/problems/validation-error", "Username and password are required", nil, h.Env)
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, users.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, "https://homies.events/problems/unauthorized", "Invalid credentials", nil, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, "https://homies.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	token, err := h.Sessions.Generate(user.ID, user.Username)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://homies.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	expiresAt := time.Now().Add(h.Sessions.Expiry())
	h.setSessionCookie(w, r, token, expiresAt)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User: userInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

// Me handles GET /api/v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), middleware.CurrentUserID(r))
	if err != nil {
		// A valid token for a deleted account resolves to no user.
		if errors.Is(err, users.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, "https://homies.events/problems/not-found", "User not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, "https://homies.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(userInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, formUsername, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	data := map[string]any{
		"Title":        "Login",
		"FormUsername": formUsername,
		"Error":        message,
		"CSRFField":    middleware.CSRFTemplateField(r),
	}
	if err := h.Templates.ExecuteTemplate(w, "login.html", data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", "login.html").Msg("template error")
	}
}
