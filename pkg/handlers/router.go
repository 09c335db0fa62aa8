package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/middleware"
)

// RouterDeps are the parts mounted by NewRouter. MCP and Metrics are
// optional; nil leaves the route unmounted.
type RouterDeps struct {
	Chat    *ChatHandler
	Health  *HealthHandler
	MCP     http.Handler
	Metrics http.Handler
	Logger  *zap.Logger
}

// NewRouter builds the HTTP surface. CORS is open to all origins and methods.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	deps.Health.RegisterRoutes(r)
	deps.Chat.RegisterRoutes(r)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
	if deps.MCP != nil {
		r.Handle("/mcp", middleware.MCPRequestLogger(deps.Logger)(deps.MCP))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	return r
}
