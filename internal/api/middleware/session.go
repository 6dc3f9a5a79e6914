package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/homies-events/server/internal/api/problem"
	"github.com/homies-events/server/internal/auth"
)

type contextKey string

const sessionClaimsKey contextKey = "session_claims"

// SessionAuth guards the HTML pages: it validates the session cookie and
// redirects unauthenticated browsers to the login page.
func SessionAuth(manager *auth.SessionManager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil || strings.TrimSpace(cookie.Value) == "" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			claims, err := manager.Validate(cookie.Value)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := contextWithSessionClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerAuth guards the JSON API: it validates a Bearer token from the
// Authorization header and answers with a problem document when absent or
// invalid.
func BearerAuth(manager *auth.SessionManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://homies.events/problems/unauthorized", "Unauthorized", problem.ErrUnauthorized, env)
				return
			}

			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://homies.events/problems/unauthorized", "Missing authorization header", err, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://homies.events/problems/unauthorized", "Invalid token", err, env)
				return
			}

			ctx := contextWithSessionClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithSessionClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, sessionClaimsKey, claims)
}

// SessionClaims returns the authenticated session claims, or nil outside an
// authenticated request.
func SessionClaims(r *http.Request) *auth.Claims {
	if r == nil {
		return nil
	}
	if claims, ok := r.Context().Value(sessionClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// CurrentUserID returns the authenticated user id, or "" when the request
// carries no session.
func CurrentUserID(r *http.Request) string {
	claims := SessionClaims(r)
	if claims == nil {
		return ""
	}
	return claims.Subject
}
