// Package router aggregates every route of the API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/health"
	managementctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/management"
	matchesctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/matches"
	playersctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/players"
	venuesctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/venues"
	mw "github.com/dropDatabas3/dartsstats/internal/http/middlewares"
	"github.com/dropDatabas3/dartsstats/internal/metrics"
)

// Deps contains everything the router wires together.
type Deps struct {
	Auth       *authctrl.Controller
	Players    *playersctrl.Controller
	Matches    *matchesctrl.Controller
	Management *managementctrl.Controller
	Venues     *venuesctrl.Controller
	Health     *healthctrl.Controller

	// RequireAuth / RequireAdmin guard the management surface.
	RequireAuth  mw.Middleware
	RequireAdmin mw.Middleware

	CORSAllowedOrigins []string
}

// New builds the HTTP handler with the full middleware stack.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	base := []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(deps.CORSAllowedOrigins),
		mw.WithLogging(),
		mw.WithMetrics(),
	}

	// Operational endpoints stay outside /api.
	r.Get("/healthz", deps.Health.Live)
	r.Get("/readyz", deps.Health.Ready)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(a chi.Router) {
			a.Get("/login", deps.Auth.Login)
			a.Get("/callback", deps.Auth.Callback)
			a.Post("/refresh", deps.Auth.Refresh)
			a.Post("/logout", deps.Auth.Logout)
		})

		api.Route("/players", func(p chi.Router) {
			p.Get("/", deps.Players.List)
			p.Get("/{id}", deps.Players.Get)
		})

		api.Route("/matches", func(m chi.Router) {
			m.Get("/", deps.Matches.List)
			m.Get("/rounds", deps.Matches.Rounds)
			m.Get("/{id}", deps.Matches.Get)
		})

		api.Get("/venues/{round}", deps.Venues.Get)

		// Writes require a verified bearer token with the admin role.
		api.Route("/management", func(m chi.Router) {
			m.Use(deps.RequireAuth, deps.RequireAdmin)
			m.Post("/players", deps.Management.CreatePlayer)
			m.Post("/matches", deps.Management.CreateMatch)
			m.Get("/matches/{id}", deps.Management.GetMatch)
			m.Put("/matches/{id}", deps.Management.UpdateMatch)
			m.Delete("/matches/{id}", deps.Management.DeleteMatch)
		})
	})

	return mw.Chain(r, base...)
}
