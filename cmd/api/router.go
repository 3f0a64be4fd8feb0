package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/visitswap/visitswap-api/internal/domain/auth"
	"github.com/visitswap/visitswap-api/internal/domain/credit"
	"github.com/visitswap/visitswap-api/internal/domain/site"
	"github.com/visitswap/visitswap-api/internal/domain/visit"
	"github.com/visitswap/visitswap-api/internal/middleware"
	pkgresponse "github.com/visitswap/visitswap-api/internal/pkg/response"
)

// pinger is satisfied by *sqlx.DB
type pinger interface {
	PingContext(ctx context.Context) error
}

type routerDeps struct {
	AllowedOrigins []string
	Store          pinger
	AuthMiddleware func(http.Handler) http.Handler
	RateLimiter    *middleware.RateLimiter

	AuthHandler   *auth.Handler
	SiteHandler   *site.Handler
	VisitHandler  *visit.Handler
	CreditHandler *credit.Handler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(d.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.Store.PingContext(ctx); err != nil {
			pkgresponse.Error(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unavailable")
			return
		}
		pkgresponse.OK(w, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Middleware)
		}

		r.Mount("/sites", d.SiteHandler.Routes(d.AuthMiddleware))
		r.Mount("/visits", d.VisitHandler.Routes(d.AuthMiddleware))
		r.Mount("/credits", d.CreditHandler.Routes(d.AuthMiddleware))
		r.Mount("/", d.AuthHandler.Routes(d.AuthMiddleware))
	})

	return r
}
