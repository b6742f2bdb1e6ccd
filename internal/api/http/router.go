package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// NewRouter mounts the API routes and, when a registry is given, /metrics.
func NewRouter(handler *Handler, registry *prometheus.Registry, middlewares ...mux.MiddlewareFunc) http.Handler {
	r := mux.NewRouter()
	r.Use(middlewares...)
	handler.RegisterRoutes(r)
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	}
	return cors.Default().Handler(r)
}
