package handler

import (
	"net/http"

	"github.com/askbq/askbq/internal/models"
	"github.com/askbq/askbq/internal/settings"
)

const version = "1.0.0"

// HealthHandler handles GET /health
type HealthHandler struct {
	store *settings.Store
}

func NewHealthHandler(store *settings.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health reports process liveness plus settings-store reachability. It
// never touches the warehouse; connectivity there is the user-driven
// connection test, not a liveness concern.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	status := "healthy"
	code := http.StatusOK

	cfg, err := h.store.Load()
	switch {
	case err != nil:
		checks["settings"] = "unavailable: " + err.Error()
		status = "degraded"
		code = http.StatusServiceUnavailable
	case cfg.ProjectID == "":
		checks["settings"] = "ok"
		checks["project"] = "not configured"
	default:
		checks["settings"] = "ok"
		checks["project"] = "configured"
	}

	models.WriteJSON(w, code, models.HealthResponse{
		Status:  status,
		Version: version,
		Checks:  checks,
	})
}
