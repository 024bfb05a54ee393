package http

import (
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

type healthResponse struct {
	Status string `json:"status"`
}

type healthHandler struct {
	logger  *slog.Logger
	checker db.HealthChecker
}

func (h *healthHandler) Healthz(w http.ResponseWriter, r *http.Request) error {
	ok, err := h.checker.IsHealthy(r.Context())
	if err != nil || !ok {
		h.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		return writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
	}
	return writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
