// Package grantaccess реализует административную выдачу подписки пользователю
// без оплаты. Маршрут защищён проверкой роли admin на уровне middleware.
package grantaccess

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/pluxolabs/pluxo-backend/internal/http/middlewarectx"
	"github.com/pluxolabs/pluxo-backend/internal/http/response"
	"github.com/pluxolabs/pluxo-backend/internal/lib/sl"
	"github.com/pluxolabs/pluxo-backend/internal/models"
	"github.com/pluxolabs/pluxo-backend/internal/services/grant"
)

// Request — параметры выдачи подписки.
type Request struct {
	UserID   string `json:"userId" validate:"required,uuid"`
	PlanType string `json:"planType" validate:"required,oneof=vup vip"`
	Amount   int    `json:"amount" validate:"required,gt=0"`
	Unit     string `json:"unit" validate:"required,oneof=minutes hours days"`
}

// Service описывает выдачу подписки.
type Service interface {
	Grant(ctx context.Context, userUID string, planType models.PlanType, amount int, unit string) (int, error)
}

// Handler обрабатывает административные запросы выдачи подписки.
type Handler struct {
	log      *slog.Logger
	grant    Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, grantService Service) *Handler {
	return &Handler{
		log:      log,
		grant:    grantService,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выдача подписки пользователю
// @Description Выдаёт подписку на срок без оплаты. Доступно только администратору.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Пользователь, тариф и срок"
// @Success 200 {object} map[string]any "Подписка выдана"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /admin/grant [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.grantaccess"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.grant.Grant(r.Context(), req.UserID, models.PlanType(req.PlanType), req.Amount, req.Unit)
	if err != nil {
		switch {
		case errors.Is(err, grant.ErrUnknownUser):
			log.Info("grant target not found", slog.String("user_uid", req.UserID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, grant.ErrInvalidPlan):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid plan type"))
		default:
			log.Error("failed to grant subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to grant subscription"))
		}
		return
	}

	adminUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	log.Info("subscription granted by admin",
		slog.String("admin_uid", adminUID),
		slog.String("user_uid", req.UserID),
		slog.String("plan_type", req.PlanType),
		slog.Int("subscription_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscriptionId": id,
		"userId":         req.UserID,
		"planType":       req.PlanType,
	}))
}
