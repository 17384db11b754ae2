package core

import (
	"time"

	"github.com/go-chi/chi/v5"
)

// defaultRequestTimeout is the soft deadline applied to request contexts.
// Optimal-time searches evaluate many slots with throttled upstream calls,
// so this is generous compared to a typical CRUD API.
const defaultRequestTimeout = 120 * time.Second

// RouteRegistrar mounts a domain handler's routes onto the v1 router. The
// indirection avoids import cycles between core and handler packages; the
// application entry point calls RegisterV1 before MountRoutes.
type RouteRegistrar func(r chi.Router)

// MountRoutes defines the top-level routing hierarchy: the global middleware
// chain, the /v1 API group, and the health check.
func (s *Server) MountRoutes() {
	s.registerGlobalMiddleware()

	s.router.Route("/v1", s.mountV1)

	s.router.Get("/health", s.HandleHealth)
}

// registerGlobalMiddleware applies middleware in strict order:
//
//  1. Recoverer      - catches panics; outermost to catch all failures.
//  2. ContextTimeout - sets a soft deadline on every request.
//  3. RequestID      - generates/propagates the correlation ID.
//  4. RequestLogger  - structured request logging.
func (s *Server) registerGlobalMiddleware() {
	s.router.Use(s.Recoverer)
	s.router.Use(ContextTimeoutMiddleware(s.requestTimeout()))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(RequestLogger(s.Logger))
}

func (s *Server) mountV1(r chi.Router) {
	for _, registrar := range s.v1Registrars {
		registrar(r)
	}
}

// RegisterV1 appends a domain handler registration to the /v1 group. Must be
// called before MountRoutes.
func (s *Server) RegisterV1(registrar RouteRegistrar) {
	s.v1Registrars = append(s.v1Registrars, registrar)
}

func (s *Server) requestTimeout() time.Duration {
	if s.Config != nil && s.Config.Server.WriteTimeout > 0 {
		return s.Config.Server.WriteTimeout
	}
	return defaultRequestTimeout
}
