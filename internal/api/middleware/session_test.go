package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/homies-events/server/internal/auth"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	return auth.NewSessionManager("test-secret-minimum-32-characters!!", time.Hour, "homies")
}

func TestSessionAuth_RedirectsWithoutCookie(t *testing.T) {
	manager := newTestSessionManager(t)

	handler := SessionAuth(manager, "homies_session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %s", loc)
	}
}

func TestSessionAuth_RedirectsOnInvalidCookie(t *testing.T) {
	manager := newTestSessionManager(t)

	handler := SessionAuth(manager, "homies_session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.AddCookie(&http.Cookie{Name: "homies_session", Value: "not-a-token"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
}

func TestSessionAuth_PassesWithValidCookie(t *testing.T) {
	manager := newTestSessionManager(t)
	token, err := manager.Generate("user-1", "alice")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotUserID string
	handler := SessionAuth(manager, "homies_session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = CurrentUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.AddCookie(&http.Cookie{Name: "homies_session", Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Errorf("expected user id user-1 in context, got %q", gotUserID)
	}
}

func TestBearerAuth_RejectsWithoutHeader(t *testing.T) {
	manager := newTestSessionManager(t)

	handler := BearerAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json content type, got %s", ct)
	}
}

func TestBearerAuth_RejectsMalformedToken(t *testing.T) {
	manager := newTestSessionManager(t)

	handler := BearerAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestBearerAuth_PassesWithValidToken(t *testing.T) {
	manager := newTestSessionManager(t)
	token, err := manager.Generate("user-7", "bob")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var claims *auth.Claims
	handler := BearerAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = SessionClaims(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if claims == nil || claims.Subject != "user-7" || claims.Username != "bob" {
		t.Errorf("unexpected claims in context: %+v", claims)
	}
}

func TestCurrentUserID_EmptyWithoutSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	if got := CurrentUserID(req); got != "" {
		t.Errorf("expected empty user id, got %q", got)
	}
}
