package http

import (
	"context"
	"net/http"

	"aggrepo/pkg/logger"
	"aggrepo/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// HealthCheck reports whether a backing store is reachable
type HealthCheck func(ctx context.Context) error

// NewRouter builds the API router with the shared middleware chain. A nil
// check makes /health always report healthy.
func NewRouter(log *logger.Logger, userController *HTTPUserController, check HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.RecoveryMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.FromContext(r.Context()).Warn("health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unhealthy","service":"aggrepo"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"aggrepo"}`))
	})

	userController.Routes(r)
	return r
}
