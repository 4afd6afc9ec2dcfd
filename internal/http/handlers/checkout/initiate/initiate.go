// Package initiate реализует HTTP-обработчик оформления заказа на платный доступ.
package initiate

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
	"github.com/pluxolabs/pluxo-backend/internal/services/checkout"
	"github.com/pluxolabs/pluxo-backend/internal/services/pricing"
)

// Request — параметры заказа.
type Request struct {
	PlanID     string `json:"planId" validate:"required,oneof=vip_vup vip_elite"`
	TimeOption string `json:"timeOption" validate:"required"`
	PromoCode  string `json:"promoCode" validate:"omitempty,alphanum"`
}

// Service описывает инициализацию заказа.
type Service interface {
	Initiate(ctx context.Context, userUID, planID, timeOption, promoCode string) (*checkout.Order, error)
}

// Handler обрабатывает запросы оформления заказа.
type Handler struct {
	log      *slog.Logger
	checkout Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, checkoutService Service) *Handler {
	return &Handler{
		log:      log,
		checkout: checkoutService,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформление заказа
// @Description Считает стоимость, создаёт платёж в статусе pending и возвращает ссылку на оплату.
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Param request body Request true "Тариф, срок и промокод"
// @Success 200 {object} map[string]any "Созданный заказ"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или вариант тарифа"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /checkout/initiate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.initiate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

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

	order, err := h.checkout.Initiate(r.Context(), userUID, req.PlanID, req.TimeOption, req.PromoCode)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidPlanOption) {
			log.Info("invalid plan option",
				slog.String("plan_id", req.PlanID),
				slog.String("time_option", req.TimeOption))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid plan option"))
			return
		}
		log.Error("failed to initiate checkout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to initiate checkout"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(order))
}
