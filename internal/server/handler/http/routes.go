package http

import (
	"net/http"

	"github.com/atinyakov/FlashCards/internal/metrics"
	"github.com/atinyakov/FlashCards/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig collects what NewRouter wires together.
type RouterConfig struct {
	Auth    *AuthHandler
	Deck    *DeckHandler
	System  *SystemHandler
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	// Origins are the CORS origins allowed to send credentials.
	Origins []string
	// Development enables /debug-env.
	Development bool
}

// NewRouter constructs the HTTP handler that serves the flashcard API.
//
// Routes:
//
//	GET  /                   → System.Root
//	GET  /healthz            → System.Healthz
//	GET  /metrics            → Prometheus exposition
//	GET  /debug-env          → System.DebugEnv (development only)
//	POST /api/auth/login     → Auth.Login
//	POST /api/auth/logout    → Auth.Logout
//	GET  /api/auth/me        → Auth.Me
//	GET  /api/protected      → Auth.Protected (session)
//	GET  /api/topics         → Deck.ListTopics
//	POST /api/topics         → Deck.CreateTopic (session)
//	GET  /api/cards/{topic}  → Deck.ListCards
//	POST /api/cards/{topic}  → Deck.CreateCard (session)
//
// Middleware chain (applied in order):
//  1. RequestID, RealIP: request identity for logs
//  2. WithRequestLogging: logs every request
//  3. Recoverer: turns panics into 500
//  4. Metrics: request duration by route
//  5. Security: response hardening headers
//  6. CORS: credentialed access for the frontend origins
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(cfg.Logger))
	r.Use(chiMiddleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.Security)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", cfg.System.Root)
	r.Get("/healthz", cfg.System.Healthz)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	if cfg.Development {
		r.Get("/debug-env", cfg.System.DebugEnv)
	}

	requireSession := middleware.RequireSession(cfg.Auth.AuthService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.Auth.Login)
			r.Post("/logout", cfg.Auth.Logout)
			r.Get("/me", cfg.Auth.Me)
		})

		r.Get("/topics", cfg.Deck.ListTopics)
		r.Get("/cards/{topic}", cfg.Deck.ListCards)

		// Protected group: requires a valid session cookie.
		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Get("/protected", cfg.Auth.Protected)
			r.Post("/topics", cfg.Deck.CreateTopic)
			r.Post("/cards/{topic}", cfg.Deck.CreateCard)
		})
	})

	return r
}
