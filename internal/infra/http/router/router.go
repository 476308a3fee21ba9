// Package router assembles the chi routing tree.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/infra/http/handlers"
	"github.com/xavierca1/prospectplus-agent/internal/infra/http/middleware"
)

type Config struct {
	Prospects *handlers.ProspectHandler
	Analytics *handlers.AnalyticsHandler
	Agent     *handlers.AgentHandler
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Info      *handlers.InfoHandler

	// Users resolves bearer tokens. /api/auth/me always needs it.
	Users        middleware.UserResolver
	AuthRequired bool

	LoginLimiter   *middleware.RateLimiter
	TrustProxy     bool
	AllowedOrigins []string
	Log            *zap.Logger
}

func New(c Config) http.Handler {
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	if c.LoginLimiter == nil {
		c.LoginLimiter = middleware.NewRateLimiter(10, time.Minute)
	}

	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	r.Use(chimw.RequestID)
	if c.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(c.Log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", c.Health.Handle)
	r.Get("/info", c.Info.Handle)
	r.Handle("/metrics", promhttp.Handler())

	requireUser := middleware.RequireUser(c.Users)

	r.Route("/api", func(r chi.Router) {
		r.Get("/info", c.Info.Handle)

		r.Route("/auth", func(r chi.Router) {
			r.With(c.LoginLimiter.Limit).Post("/token", c.Auth.Token)
			r.With(requireUser).Get("/me", c.Auth.Me)
		})

		r.Group(func(r chi.Router) {
			if c.AuthRequired {
				r.Use(requireUser)
			}

			r.Route("/prospects", func(r chi.Router) {
				r.Post("/", c.Prospects.Create)
				r.Get("/", c.Prospects.List)
				r.Get("/{id}", c.Prospects.Get)
				r.Put("/{id}", c.Prospects.Update)
				r.Delete("/{id}", c.Prospects.Delete)
				r.Post("/{id}/analyze", c.Prospects.Analyze)
				r.Post("/{id}/outreach", c.Prospects.SendOutreach)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/overview", c.Analytics.Overview)
				r.Get("/trends", c.Analytics.Trends)
				r.Get("/top-industries", c.Analytics.TopIndustries)
			})

			r.Route("/agent", func(r chi.Router) {
				r.Post("/chat", c.Agent.Chat)
				r.Get("/status", c.Agent.Status)
			})
		})
	})

	return r
}
