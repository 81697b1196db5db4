package handler

import (
	"context"
	"net/http"
)

// HealthChecker reports per-component status
type HealthChecker interface {
	Health(ctx context.Context) (map[string]string, bool)
}

// HealthHandler handles GET /health
type HealthHandler struct {
	checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.checker == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
		return
	}
	components, ok := h.checker.Health(r.Context())
	status, code := "ok", http.StatusOK
	if !ok {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{"status": status, "components": components})
}
