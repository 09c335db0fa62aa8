package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/logging"
)

// DefaultHealthTimeout bounds the datastore probe.
const DefaultHealthTimeout = 5 * time.Second

// APIVersion is reported by the status banner.
const APIVersion = "1.0.0"

// Pinger is the datastore probe used by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`   // healthy | unhealthy
	Database  string `json:"database"` // connected | disconnected
	Timestamp string `json:"timestamp"`
}

// RootResponse is the status banner returned by GET /.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Hostname    string `json:"hostname"`
	Environment string `json:"environment"`
}

// HealthHandler handles the health, ping, and banner endpoints.
type HealthHandler struct {
	db      Pinger
	version string
	env     string
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewHealthHandler creates a HealthHandler probing db.
func NewHealthHandler(db Pinger, version, env string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		env:     env,
		timeout: DefaultHealthTimeout,
		now:     time.Now,
		logger:  logger,
	}
}

// RegisterRoutes registers the handler's routes.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/ping", h.Ping)
	r.Get("/api/health", h.Health)
}

// Health handles GET /api/health. The probe error is logged, never returned.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Datastore health check failed", zap.String("error", logging.SanitizeError(err)))
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	if err := WriteJSON(w, status, resp); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	resp := RootResponse{
		Message: "Event Chatbot API is running",
		Version: APIVersion,
		Status:  "operational",
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode root response", zap.Error(err))
	}
}

// Ping handles GET /ping requests.
// Returns detailed service information including version and environment.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	response := PingResponse{
		Status:      "ok",
		Version:     h.version,
		Service:     "ekaya-eventbot",
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.env,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
