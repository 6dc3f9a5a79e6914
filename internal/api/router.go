package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/homies-events/server/internal/api/handlers"
	"github.com/homies-events/server/internal/api/middleware"
	"github.com/homies-events/server/internal/auth"
	"github.com/homies-events/server/internal/config"
	"github.com/homies-events/server/internal/domain/events"
	"github.com/homies-events/server/internal/domain/users"
	"github.com/homies-events/server/internal/metrics"
	"github.com/homies-events/server/internal/storage/postgres"
	"github.com/homies-events/server/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// BuildInfo labels the health and metrics endpoints.
type BuildInfo struct {
	Version   string
	GitCommit string
}

// NewRouter wires repositories, services, and handlers into the HTTP surface:
// the session-cookie HTML pages and the bearer-token JSON API under /api/v1.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, build BuildInfo) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, err
	}

	sessions := auth.NewSessionManager(cfg.Session.Secret, cfg.Session.Expiry, "homies")
	eventService := events.NewService(repo.Events(), logger)
	userService := users.NewService(repo.Users(), logger)

	authHandler := handlers.NewAuthHandler(userService, sessions, templates, cfg.Session.CookieName, cfg.Environment)
	pages := handlers.NewEventPagesHandler(eventService, templates, cfg.Environment)
	apiHandler := handlers.NewEventAPIHandler(eventService, cfg.Environment)
	health := handlers.NewHealthChecker(pool, build.Version, build.GitCommit)

	sessionAuth := middleware.SessionAuth(sessions, cfg.Session.CookieName)
	bearerAuth := middleware.BearerAuth(sessions, cfg.Environment)

	// HTML pages share the CSRF cookie. The rate limiter sits outside the
	// muxes and classifies login POSTs into the aggressive tier itself.
	htmlMux := http.NewServeMux()
	htmlMux.Handle("/login", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(authHandler.LoginPage),
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))
	htmlMux.Handle("/logout", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(authHandler.Logout),
		http.MethodPost: http.HandlerFunc(authHandler.Logout),
	}))
	htmlMux.Handle("/events", sessionAuth(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(pages.All),
	})))
	htmlMux.Handle("/events/joined", sessionAuth(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(pages.Joined),
	})))
	htmlMux.Handle("/events/new", sessionAuth(methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(pages.NewForm),
		http.MethodPost: http.HandlerFunc(pages.Create),
	})))
	htmlMux.Handle("/events/{id}", sessionAuth(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(pages.Details),
	})))
	htmlMux.Handle("/events/{id}/edit", sessionAuth(methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(pages.EditForm),
		http.MethodPost: http.HandlerFunc(pages.EditSubmit),
	})))
	htmlMux.Handle("/events/{id}/join", sessionAuth(methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(pages.Join),
	})))
	htmlMux.Handle("/events/{id}/leave", sessionAuth(methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(pages.Leave),
	})))
	htmlMux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/events", http.StatusFound)
	}))

	csrfProtect := middleware.CSRFProtection([]byte(cfg.Session.CSRFKey), cfg.Environment == "production")
	htmlSurface := csrfProtect(htmlMux)

	// Bearer tokens are CSRF-resistant, so the API skips the CSRF wrapper.
	apiMux := http.NewServeMux()
	apiMux.Handle("/api/v1/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.APILogin),
	}))
	apiMux.Handle("/api/v1/me", bearerAuth(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(authHandler.Me),
	})))
	apiMux.Handle("/api/v1/events", bearerAuth(methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(apiHandler.List),
		http.MethodPost: http.HandlerFunc(apiHandler.Create),
	})))
	apiMux.Handle("/api/v1/events/joined", bearerAuth(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(apiHandler.Joined),
	})))
	apiMux.Handle("/api/v1/events/{id}", bearerAuth(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(apiHandler.Get),
		http.MethodPut: http.HandlerFunc(apiHandler.Update),
	})))
	apiMux.Handle("/api/v1/events/{id}/join", bearerAuth(methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(apiHandler.Join),
	})))
	apiMux.Handle("/api/v1/events/{id}/leave", bearerAuth(methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(apiHandler.Leave),
	})))
	apiMux.Handle("/api/v1/event-types", bearerAuth(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(apiHandler.Types),
	})))

	root := http.NewServeMux()
	root.Handle("/healthz", health.Liveness())
	root.Handle("/readyz", health.Readiness())
	root.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	root.Handle("/robots.txt", web.RobotsTxtHandler())
	root.Handle("/api/v1/", apiMux)
	root.Handle("/", htmlSurface)

	var handler http.Handler = root
	handler = middleware.PublicRequestSize()(handler)
	handler = middleware.RateLimit(cfg.RateLimit)(handler)
	handler = middleware.SecurityHeaders(cfg.Environment == "production")(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.CorrelationID(logger)(handler)

	return handler, nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
