// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sewcraft/api/internal/identity"
	"github.com/sewcraft/api/internal/platform/config"
	"github.com/sewcraft/api/internal/platform/constants"
	"github.com/sewcraft/api/internal/platform/middleware"
	"github.com/sewcraft/api/internal/platform/sec"
	"github.com/sewcraft/api/internal/shop/cart"
	"github.com/sewcraft/api/internal/shop/catalog"
	"github.com/sewcraft/api/internal/shop/category"
	"github.com/sewcraft/api/internal/shop/order"
	"github.com/sewcraft/api/internal/users/admin"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the account lifecycle and the /me profile surface.
	Auth *identity.Handler

	// Users handles privileged account management.
	Users *admin.Handler

	// Category handles the category taxonomy.
	Category *category.Handler

	// Catalog handles the product catalogue.
	Catalog *catalog.Handler

	// Cart handles the per-customer shopping cart.
	Cart *cart.Handler

	// Order handles order submission, fulfilment, and installments.
	Order *order.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// # Access Model
//
// Role checks are exact-match (see guard): the cart and order surfaces
// require the customer role, so an admin browsing with an admin token is
// denied there; the /admin group requires the admin role. The /users edit
// surface only requires authentication — the admin-or-self rule lives in
// the service.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/me", h.Auth.MeRoutes())

		// Public storefront
		api.Route("/products", h.Catalog.RegisterRoutes)
		api.Route("/categories", h.Category.RegisterRoutes)

		// Authenticated account management (admin-or-self enforced per request)
		api.Route("/users", func(users chi.Router) {
			users.Use(middleware.RequireAuth)
			h.Users.RegisterRoutes(users)
		})

		// Customer surfaces
		api.Route("/cart", func(customer chi.Router) {
			customer.Use(middleware.RequireRole(sec.RoleUser))
			h.Cart.RegisterRoutes(customer)
		})
		api.Route("/orders", func(customer chi.Router) {
			customer.Use(middleware.RequireRole(sec.RoleUser))
			h.Order.RegisterRoutes(customer)
		})

		// Back-office
		api.Route("/admin", func(back chi.Router) {
			back.Use(middleware.RequireRole(sec.RoleAdmin))
			back.Route("/products", h.Catalog.RegisterAdminRoutes)
			back.Route("/categories", h.Category.RegisterAdminRoutes)
			back.Route("/orders", h.Order.RegisterAdminRoutes)
			back.Route("/users", h.Users.RegisterAdminRoutes)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
