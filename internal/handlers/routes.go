package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Everything
// outside /healthz is handled by the API router.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{DB: deps.Health}

	mux.HandleFunc("/healthz", health.Handle)
	mux.Handle("/", NewRouter(deps))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Store       Store
	Health      Pinger
	Limiter     RateLimiter
	MaxPageSize int
}
