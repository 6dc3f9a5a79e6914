package middleware

import (
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFProtection creates CSRF middleware for the cookie-authenticated HTML
// pages. The JSON API uses Bearer tokens and is already CSRF-resistant, so
// it is not wrapped.
//
// The middleware uses the double-submit cookie pattern: the token is embedded
// in each form as a hidden field and must match the _gorilla_csrf cookie on
// submit.
func CSRFProtection(authKey []byte, secure bool) func(http.Handler) http.Handler {
	opts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	}

	return csrf.Protect(authKey, opts...)
}

// csrfErrorHandler returns a 403 Forbidden response for CSRF validation failures
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"error":"CSRF token validation failed","type":"https://homies.events/problems/csrf-failure","status":403}`))
}

// CSRFTemplateField returns the ready-made hidden input for HTML forms
func CSRFTemplateField(r *http.Request) template.HTML {
	return csrf.TemplateField(r)
}
