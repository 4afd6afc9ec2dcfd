// Package health реализует неаутентифицированную проверку готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/pluxolabs/pluxo-backend/internal/http/response"
	"github.com/pluxolabs/pluxo-backend/internal/lib/sl"
)

// ReadinessChecker проверяет готовность хранилища к обслуживанию запросов.
type ReadinessChecker interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler отвечает на запросы проверки готовности.
type Handler struct {
	log     *slog.Logger
	checker ReadinessChecker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, checker ReadinessChecker) *Handler {
	return &Handler{log: log, checker: checker}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database not ready", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("service unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}))
}
