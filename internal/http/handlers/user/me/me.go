// Package me реализует HTTP-обработчик профиля текущего пользователя.
// Права доступа уже вычислены middleware и берутся из контекста запроса.
package me

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pluxolabs/pluxo-backend/internal/http/middlewarectx"
	"github.com/pluxolabs/pluxo-backend/internal/http/response"
)

// Handler обрабатывает запросы профиля текущего пользователя.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает профиль и текущие права доступа пользователя.
// @Tags User
// @Produce  json
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Router /user/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ent, ok := middlewarectx.EntitlementFromContext(r.Context())
	if !ok {
		log.Error("entitlement missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	user := map[string]any{
		"id":       ent.UserUID,
		"email":    ent.Email,
		"role":     ent.Role,
		"isVip":    ent.ActivePlan.Valid(),
		"planType": ent.ActivePlan,
	}
	if ent.Subscription != nil {
		user["vipEndsAt"] = ent.Subscription.EndsAt.Format(time.RFC3339)
		user["subscription"] = ent.Subscription
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{"user": user}))
}
