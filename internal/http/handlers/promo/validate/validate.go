// Package validate реализует HTTP-обработчик проверки промокодов.
// Этот эндпоинт — единственный авторитет по принятию кода: неизвестный
// код здесь даёт 404, хотя расчёт цены молча применяет нулевую скидку.
package validate

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/pluxolabs/pluxo-backend/internal/http/response"
	"github.com/pluxolabs/pluxo-backend/internal/lib/sl"
)

// Request — проверяемый промокод.
type Request struct {
	Code string `json:"code" validate:"required"`
}

// Service описывает поиск промокода.
type Service interface {
	LookupPromo(code string) (float64, bool)
}

// Handler обрабатывает запросы проверки промокодов.
type Handler struct {
	log      *slog.Logger
	pricing  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, pricingService Service) *Handler {
	return &Handler{
		log:      log,
		pricing:  pricingService,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверка промокода
// @Description Возвращает размер скидки для известного промокода, 404 для неизвестного.
// @Tags Promo
// @Accept  json
// @Produce  json
// @Param request body Request true "Промокод"
// @Success 200 {object} map[string]any "Код принят"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Неизвестный промокод"
// @Router /promo/validate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.promo.validate"

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

	discount, ok := h.pricing.LookupPromo(req.Code)
	if !ok {
		log.Info("unknown promo code", slog.String("code", req.Code))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("promo code not found"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"valid":    true,
		"discount": discount,
		"code":     strings.ToUpper(req.Code),
	}))
}
