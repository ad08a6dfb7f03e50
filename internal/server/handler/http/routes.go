package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/carlot/internal/middleware"
)

// requestTimeout bounds the context of every API request.
const requestTimeout = 30 * time.Second

// NewRouter builds the API router.
//
// Routes:
//
//	POST /v1/login          → authHandler.Login
//	GET  /v1/cars/public    → carHandler.ListPublic
//	GET  /v1/cars           → carHandler.List   (bearer)
//	POST /v1/cars           → carHandler.Create (bearer)
//	PUT  /v1/cars/{id}      → carHandler.Update (bearer)
//	GET  /ping              → Ping
//	GET  /metrics           → Prometheus exposition
func NewRouter(
	authHandler *AuthHandler,
	carHandler *CarHandler,
	authorizer middleware.Authorizer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/ping", Ping)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Post("/login", authHandler.Login)
		r.Get("/cars/public", carHandler.ListPublic)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(authorizer, logger))
			r.Get("/cars", carHandler.List)
			r.Post("/cars", carHandler.Create)
			r.Put("/cars/{id}", carHandler.Update)
		})
	})

	return r
}
